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

type CancelAppointment struct {
	repo  domain.Repository
	audit *audit.Dispatcher
	now   func() time.Time
}

func NewCancelAppointment(
	repo domain.Repository,
	audit *audit.Dispatcher,
) *CancelAppointment {
	return &CancelAppointment{
		repo:  repo,
		audit: audit,
		now:   time.Now,
	}
}

// Execute cancels a scheduled appointment. Either side may cancel: a doctor
// for appointments on their own calendar, a patient for their own bookings.
func (uc *CancelAppointment) Execute(
	ctx context.Context,
	userID uuid.UUID,
	role string,
	appointmentID uuid.UUID,
) (*models.Appointment, error) {

	ap, err := uc.repo.GetAppointment(ctx, appointmentID)
	if err != nil {
		return nil, err
	}

	if err := domain.CanCancel(domain.Status(ap.Status)); err != nil {
		return nil, err
	}

	if role == models.RoleDoctor {
		doctor, err := uc.repo.GetDoctorByUserID(ctx, userID)
		if err != nil {
			return nil, err
		}
		if ap.DoctorID != doctor.ID {
			return nil, httperr.ErrForbidden("not_your_appointment", "The current doctor does not own this appointment.")
		}
	} else {
		patient, err := uc.repo.GetPatientByUserID(ctx, userID)
		if err != nil {
			return nil, err
		}
		if ap.PatientID != patient.ID {
			return nil, httperr.ErrForbidden("not_your_appointment", "The current patient does not own this appointment.")
		}
	}

	if err := domain.Cancel(ap, uc.now()); err != nil {
		return nil, err
	}

	if err := uc.repo.UpdateAppointment(ctx, ap); err != nil {
		return nil, err
	}

	uc.audit.Dispatch(audit.Event{
		UserID:   &userID,
		Action:   "appointment_cancelled",
		Entity:   "appointment",
		EntityID: &ap.ID,
	})

	return ap, nil
}
