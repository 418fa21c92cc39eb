package appointment

import (
	"context"
	"time"

	"github.com/google/uuid"

	"github.com/careclinic/clinic-scheduler/internal/audit"
	domain "github.com/careclinic/clinic-scheduler/internal/domain/appointment"
	"github.com/careclinic/clinic-scheduler/internal/httperr"
	"github.com/careclinic/clinic-scheduler/internal/models"
)

type CompleteAppointment struct {
	repo  domain.Repository
	audit *audit.Dispatcher
	now   func() time.Time
}

func NewCompleteAppointment(
	repo domain.Repository,
	audit *audit.Dispatcher,
) *CompleteAppointment {
	return &CompleteAppointment{
		repo:  repo,
		audit: audit,
		now:   time.Now,
	}
}

// Execute marks a scheduled appointment completed. Only the owning doctor
// may complete, and not before the appointment has started. There is no
// upper bound on how late completion may be recorded.
func (uc *CompleteAppointment) Execute(
	ctx context.Context,
	userID uuid.UUID,
	appointmentID uuid.UUID,
) (*models.Appointment, error) {

	ap, err := uc.repo.GetAppointment(ctx, appointmentID)
	if err != nil {
		return nil, err
	}

	if err := domain.CanComplete(domain.Status(ap.Status)); err != nil {
		return nil, err
	}

	doctor, err := uc.repo.GetDoctorByUserID(ctx, userID)
	if err != nil {
		return nil, err
	}
	if ap.DoctorID != doctor.ID {
		return nil, httperr.ErrForbidden("not_your_appointment", "The current doctor does not own this appointment.")
	}

	now := uc.now()
	if now.Before(ap.StartTime) {
		return nil, httperr.ErrConflict("not_started", "Appointment has not started yet.")
	}

	if err := domain.Complete(ap, now); err != nil {
		return nil, err
	}

	if err := uc.repo.UpdateAppointment(ctx, ap); err != nil {
		return nil, err
	}

	uc.audit.Dispatch(audit.Event{
		UserID:   &userID,
		Action:   "appointment_completed",
		Entity:   "appointment",
		EntityID: &ap.ID,
	})

	return ap, nil
}
