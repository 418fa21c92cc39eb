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

// ======================================================
// INPUT
// ======================================================

type CreateAppointmentInput struct {
	DoctorID  uuid.UUID
	ServiceID uuid.UUID
	StartTime time.Time
}

// ======================================================
// USE CASE
// ======================================================

type CreateAppointment struct {
	repo  domain.Repository
	audit *audit.Dispatcher
}

func NewCreateAppointment(
	repo domain.Repository,
	audit *audit.Dispatcher,
) *CreateAppointment {
	return &CreateAppointment{
		repo:  repo,
		audit: audit,
	}
}

// ======================================================
// EXECUTE
// ======================================================

func (uc *CreateAppointment) Execute(
	ctx context.Context,
	userID uuid.UUID,
	in CreateAppointmentInput,
) (*models.Appointment, error) {

	// Patient, doctor and service resolve independently, so fan out.
	var (
		patient *models.Patient
		doctor  *models.Doctor
		service *models.Service
	)

	g, gctx := errgroup.WithContext(ctx)
	g.Go(func() (err error) {
		patient, err = uc.repo.GetPatientByUserID(gctx, userID)
		return err
	})
	g.Go(func() (err error) {
		doctor, err = uc.repo.GetDoctor(gctx, in.DoctorID)
		return err
	})
	g.Go(func() (err error) {
		service, err = uc.repo.GetService(gctx, in.ServiceID)
		return err
	})
	if err := g.Wait(); err != nil {
		return nil, err
	}

	if service.DoctorID != doctor.ID {
		return nil, httperr.ErrConflict("service_not_owned", "This service does not belong to this doctor.")
	}

	end := domain.EndTime(in.StartTime, service.DurationMin)

	if err := checkBothAvailable(ctx, uc.repo, doctor.ID, patient.ID, in.StartTime, end, nil); err != nil {
		return nil, err
	}

	ap := &models.Appointment{
		DoctorID:    doctor.ID,
		PatientID:   patient.ID,
		StartTime:   in.StartTime,
		EndTime:     end,
		DurationMin: service.DurationMin,
		Status:      string(domain.InitialStatus()),
	}

	// CreateAppointment re-checks both calendars under locks; the fan-out
	// above is only the fast-fail path.
	if err := uc.repo.CreateAppointment(ctx, ap); err != nil {
		uc.audit.Dispatch(audit.Event{
			UserID: &userID,
			Action: "appointment_conflict",
			Entity: "appointment",
			Metadata: map[string]any{
				"doctor_id": doctor.ID,
				"start":     in.StartTime,
				"end":       end,
			},
		})
		return nil, err
	}

	uc.audit.Dispatch(audit.Event{
		UserID:   &userID,
		Action:   "appointment_created",
		Entity:   "appointment",
		EntityID: &ap.ID,
	})

	return ap, nil
}

// checkBothAvailable runs the doctor and patient availability checks
// concurrently and joins before anything is written.
func checkBothAvailable(
	ctx context.Context,
	repo domain.Repository,
	doctorID uuid.UUID,
	patientID uuid.UUID,
	start time.Time,
	end time.Time,
	exclude *uuid.UUID,
) error {

	g, gctx := errgroup.WithContext(ctx)

	g.Go(func() error {
		busy, err := repo.HasOverlap(gctx, domain.ResourceDoctor, doctorID, start, end, exclude)
		if err != nil {
			return err
		}
		if busy {
			return httperr.ErrConflict("doctor_unavailable", "Doctor is not available at this time.")
		}
		return nil
	})

	g.Go(func() error {
		busy, err := repo.HasOverlap(gctx, domain.ResourcePatient, patientID, start, end, exclude)
		if err != nil {
			return err
		}
		if busy {
			return httperr.ErrConflict("patient_unavailable", "Patient already has an appointment at this time.")
		}
		return nil
	})

	return g.Wait()
}
