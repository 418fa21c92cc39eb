package appointment

import "github.com/careclinic/clinic-scheduler/internal/httperr"

// ===============================
// Appointment Status
// ===============================

type Status string

const (
	StatusScheduled Status = "scheduled"
	StatusCancelled Status = "cancelled"
	StatusCompleted Status = "completed"
)

// Scheduled is the only non-terminal state. Once cancelled or completed an
// appointment never changes again.

func CanCancel(current Status) error {
	if current != StatusScheduled {
		return httperr.ErrConflict("invalid_state", "The appointment is already cancelled or completed.")
	}
	return nil
}

func CanComplete(current Status) error {
	if current != StatusScheduled {
		return httperr.ErrConflict("invalid_state", "The appointment is already cancelled or completed.")
	}
	return nil
}

func CanReschedule(current Status) error {
	if current != StatusScheduled {
		return httperr.ErrConflict("invalid_state", "Only scheduled appointments can be rescheduled.")
	}
	return nil
}

func InitialStatus() Status {
	return StatusScheduled
}
