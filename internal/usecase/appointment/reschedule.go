package appointment

import (
	"context"
	"time"

	"github.com/google/uuid"
	"golang.org/x/sync/errgroup"

	"github.com/careclinic/clinic-scheduler/internal/audit"
	domain "github.com/careclinic/clinic-scheduler/internal/domain/appointment"
	"github.com/careclinic/clinic-scheduler/internal/httperr"
	"github.com/careclinic/clinic-scheduler/internal/models"
)

type RescheduleAppointment struct {
	repo  domain.Repository
	audit *audit.Dispatcher
}

func NewRescheduleAppointment(
	repo domain.Repository,
	audit *audit.Dispatcher,
) *RescheduleAppointment {
	return &RescheduleAppointment{
		repo:  repo,
		audit: audit,
	}
}

func (uc *RescheduleAppointment) Execute(
	ctx context.Context,
	userID uuid.UUID,
	appointmentID uuid.UUID,
	newStart time.Time,
) (*models.Appointment, error) {

	var (
		ap      *models.Appointment
		patient *models.Patient
	)

	g, gctx := errgroup.WithContext(ctx)
	g.Go(func() (err error) {
		ap, err = uc.repo.GetAppointment(gctx, appointmentID)
		return err
	})
	g.Go(func() (err error) {
		patient, err = uc.repo.GetPatientByUserID(gctx, userID)
		return err
	})
	if err := g.Wait(); err != nil {
		return nil, err
	}

	if ap.PatientID != patient.ID {
		return nil, httperr.ErrForbidden("not_your_appointment", "This appointment does not belong to this patient.")
	}

	// The duration was fixed at booking time; only the start moves.
	if err := domain.Reschedule(ap, newStart); err != nil {
		return nil, err
	}

	// Ignore the appointment's own current row, otherwise moving within or
	// next to its old slot would conflict with itself.
	if err := checkBothAvailable(ctx, uc.repo, ap.DoctorID, ap.PatientID, ap.StartTime, ap.EndTime, &ap.ID); err != nil {
		return nil, err
	}

	if err := uc.repo.SaveReschedule(ctx, ap); err != nil {
		return nil, err
	}

	uc.audit.Dispatch(audit.Event{
		UserID:   &userID,
		Action:   "appointment_rescheduled",
		Entity:   "appointment",
		EntityID: &ap.ID,
		Metadata: map[string]any{
			"start": ap.StartTime,
			"end":   ap.EndTime,
		},
	})

	return ap, nil
}
