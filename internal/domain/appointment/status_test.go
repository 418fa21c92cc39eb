package appointment

import (
	"testing"
	"time"

	"github.com/careclinic/clinic-scheduler/internal/httperr"
	"github.com/careclinic/clinic-scheduler/internal/models"
)

func TestStatusTransitions(t *testing.T) {
	checks := []struct {
		name string
		fn   func(Status) error
	}{
		{"CanCancel", CanCancel},
		{"CanComplete", CanComplete},
		{"CanReschedule", CanReschedule},
	}

	for _, c := range checks {
		if err := c.fn(StatusScheduled); err != nil {
			t.Errorf("%s(scheduled) = %v, want nil", c.name, err)
		}
		for _, terminal := range []Status{StatusCancelled, StatusCompleted} {
			err := c.fn(terminal)
			if !httperr.IsBusiness(err, "invalid_state") {
				t.Errorf("%s(%s) = %v, want invalid_state conflict", c.name, terminal, err)
			}
		}
	}
}

func TestCancelSetsTimestamp(t *testing.T) {
	now := time.Date(2025, 3, 10, 12, 0, 0, 0, time.UTC)
	ap := &models.Appointment{Status: string(StatusScheduled)}

	if err := Cancel(ap, now); err != nil {
		t.Fatalf("Cancel: %v", err)
	}
	if ap.Status != string(StatusCancelled) {
		t.Errorf("status = %s", ap.Status)
	}
	if ap.CancelledAt == nil || !ap.CancelledAt.Equal(now) {
		t.Errorf("cancelled_at = %v", ap.CancelledAt)
	}

	if err := Cancel(ap, now); err == nil {
		t.Error("second Cancel succeeded, want conflict")
	}
}

func TestCompleteSetsTimestamp(t *testing.T) {
	now := time.Date(2025, 3, 10, 12, 0, 0, 0, time.UTC)
	ap := &models.Appointment{Status: string(StatusScheduled)}

	if err := Complete(ap, now); err != nil {
		t.Fatalf("Complete: %v", err)
	}
	if ap.Status != string(StatusCompleted) {
		t.Errorf("status = %s", ap.Status)
	}
	if ap.CompletedAt == nil || !ap.CompletedAt.Equal(now) {
		t.Errorf("completed_at = %v", ap.CompletedAt)
	}
}

func TestRescheduleRecomputesEnd(t *testing.T) {
	start := time.Date(2025, 3, 10, 10, 0, 0, 0, time.UTC)
	ap := &models.Appointment{
		Status:      string(StatusScheduled),
		StartTime:   start,
		EndTime:     start.Add(40 * time.Minute),
		DurationMin: 40,
	}

	newStart := start.Add(3 * time.Hour)
	if err := Reschedule(ap, newStart); err != nil {
		t.Fatalf("Reschedule: %v", err)
	}
	if !ap.StartTime.Equal(newStart) {
		t.Errorf("start = %v", ap.StartTime)
	}
	if !ap.EndTime.Equal(newStart.Add(40 * time.Minute)) {
		t.Errorf("end = %v", ap.EndTime)
	}

	ap.Status = string(StatusCompleted)
	if err := Reschedule(ap, newStart); !httperr.IsBusiness(err, "invalid_state") {
		t.Errorf("Reschedule on completed = %v", err)
	}
}
