package appointment

import (
	"time"

	"github.com/careclinic/clinic-scheduler/internal/models"
)

// ===============================
// Domain Actions
// ===============================

func Cancel(ap *models.Appointment, now time.Time) error {
	if err := CanCancel(Status(ap.Status)); err != nil {
		return err
	}

	ap.Status = string(StatusCancelled)
	ap.CancelledAt = &now
	return nil
}

func Complete(ap *models.Appointment, now time.Time) error {
	if err := CanComplete(Status(ap.Status)); err != nil {
		return err
	}

	ap.Status = string(StatusCompleted)
	ap.CompletedAt = &now
	return nil
}

// Reschedule moves a scheduled appointment to a new start, keeping the
// duration it was booked with.
func Reschedule(ap *models.Appointment, newStart time.Time) error {
	if err := CanReschedule(Status(ap.Status)); err != nil {
		return err
	}

	ap.StartTime = newStart
	ap.EndTime = EndTime(newStart, ap.DurationMin)
	return nil
}
