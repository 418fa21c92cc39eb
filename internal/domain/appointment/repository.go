package appointment

import (
	"context"
	"time"

	"github.com/google/uuid"

	"github.com/careclinic/clinic-scheduler/internal/models"
)

type Repository interface {
	// -------- Directory --------
	GetDoctor(
		ctx context.Context,
		id uuid.UUID,
	) (*models.Doctor, error)

	GetDoctorByUserID(
		ctx context.Context,
		userID uuid.UUID,
	) (*models.Doctor, error)

	GetPatient(
		ctx context.Context,
		id uuid.UUID,
	) (*models.Patient, error)

	GetPatientByUserID(
		ctx context.Context,
		userID uuid.UUID,
	) (*models.Patient, error)

	GetService(
		ctx context.Context,
		id uuid.UUID,
	) (*models.Service, error)

	// -------- Availability --------
	//
	// HasOverlap reports whether any scheduled appointment on the given
	// resource's calendar intersects [start,end). exclude, when non-nil,
	// names an appointment whose own row is ignored (reschedule).
	HasOverlap(
		ctx context.Context,
		resource Resource,
		resourceID uuid.UUID,
		start time.Time,
		end time.Time,
		exclude *uuid.UUID,
	) (bool, error)

	// -------- Appointment (create / conflict) --------
	//
	// CreateAppointment and SaveReschedule re-check both calendars under
	// row locks inside one transaction; a conflict surfaces as a business
	// error, never as a partial write.
	CreateAppointment(
		ctx context.Context,
		ap *models.Appointment,
	) error

	SaveReschedule(
		ctx context.Context,
		ap *models.Appointment,
	) error

	// -------- Appointment (state change) --------
	GetAppointment(
		ctx context.Context,
		id uuid.UUID,
	) (*models.Appointment, error)

	UpdateAppointment(
		ctx context.Context,
		ap *models.Appointment,
	) error
}
