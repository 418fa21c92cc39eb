package repository

import (
	"context"
	"errors"
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"

	domain "github.com/careclinic/clinic-scheduler/internal/domain/appointment"
	"github.com/careclinic/clinic-scheduler/internal/httperr"
	"github.com/careclinic/clinic-scheduler/internal/models"
)

type AppointmentGormRepository struct {
	db *gorm.DB
}

func NewAppointmentGormRepository(db *gorm.DB) *AppointmentGormRepository {
	return &AppointmentGormRepository{db: db}
}

// --------------------------------------------------
// Directory
// --------------------------------------------------

func (r *AppointmentGormRepository) GetDoctor(
	ctx context.Context,
	id uuid.UUID,
) (*models.Doctor, error) {

	var doctor models.Doctor
	if err := r.db.WithContext(ctx).
		Where("id = ?", id).
		First(&doctor).Error; err != nil {
		return nil, mapLookupErr(err, "doctor_not_found", "Doctor not found.")
	}
	return &doctor, nil
}

func (r *AppointmentGormRepository) GetDoctorByUserID(
	ctx context.Context,
	userID uuid.UUID,
) (*models.Doctor, error) {

	var doctor models.Doctor
	if err := r.db.WithContext(ctx).
		Where("user_id = ?", userID).
		First(&doctor).Error; err != nil {
		return nil, mapLookupErr(err, "doctor_not_found", "The caller has no doctor profile.")
	}
	return &doctor, nil
}

func (r *AppointmentGormRepository) GetPatient(
	ctx context.Context,
	id uuid.UUID,
) (*models.Patient, error) {

	var patient models.Patient
	if err := r.db.WithContext(ctx).
		Where("id = ?", id).
		First(&patient).Error; err != nil {
		return nil, mapLookupErr(err, "patient_not_found", "Patient not found.")
	}
	return &patient, nil
}

func (r *AppointmentGormRepository) GetPatientByUserID(
	ctx context.Context,
	userID uuid.UUID,
) (*models.Patient, error) {

	var patient models.Patient
	if err := r.db.WithContext(ctx).
		Where("user_id = ?", userID).
		First(&patient).Error; err != nil {
		return nil, mapLookupErr(err, "patient_not_found", "The caller has no patient profile.")
	}
	return &patient, nil
}

func (r *AppointmentGormRepository) GetService(
	ctx context.Context,
	id uuid.UUID,
) (*models.Service, error) {

	var service models.Service
	if err := r.db.WithContext(ctx).
		Where("id = ?", id).
		First(&service).Error; err != nil {
		return nil, mapLookupErr(err, "service_not_found", "Service not found.")
	}
	return &service, nil
}

// --------------------------------------------------
// Availability
// --------------------------------------------------

func (r *AppointmentGormRepository) HasOverlap(
	ctx context.Context,
	resource domain.Resource,
	resourceID uuid.UUID,
	start time.Time,
	end time.Time,
	exclude *uuid.UUID,
) (bool, error) {

	count, err := overlapCount(r.db.WithContext(ctx), resource, resourceID, start, end, exclude, false)
	if err != nil {
		return false, mapStoreErr(err)
	}
	return count > 0, nil
}

// overlapCount runs the half-open interval test:
// start_time < end AND end_time > start, scheduled rows only. Touching
// endpoints never count. With locked=true the matching rows are taken
// FOR UPDATE so a concurrent writer serializes behind us; Postgres does
// not allow FOR UPDATE with aggregates, so the locked variant fetches
// rows instead of counting.
func overlapCount(
	db *gorm.DB,
	resource domain.Resource,
	resourceID uuid.UUID,
	start time.Time,
	end time.Time,
	exclude *uuid.UUID,
	locked bool,
) (int64, error) {

	column := "doctor_id"
	if resource == domain.ResourcePatient {
		column = "patient_id"
	}

	q := db.Model(&models.Appointment{}).
		Where(
			column+" = ? AND status = ? AND start_time < ? AND end_time > ?",
			resourceID,
			string(domain.StatusScheduled),
			end,
			start,
		)

	if exclude != nil {
		q = q.Where("id != ?", *exclude)
	}

	if locked {
		var rows []models.Appointment
		if err := q.Clauses(clause.Locking{Strength: "UPDATE"}).
			Limit(1).
			Find(&rows).Error; err != nil {
			return 0, err
		}
		return int64(len(rows)), nil
	}

	var count int64
	if err := q.Count(&count).Error; err != nil {
		return 0, err
	}
	return count, nil
}

// --------------------------------------------------
// Appointment (create / reschedule)
// --------------------------------------------------

func (r *AppointmentGormRepository) CreateAppointment(
	ctx context.Context,
	ap *models.Appointment,
) error {

	err := r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if err := assertBothFree(tx, ap, nil); err != nil {
			return err
		}
		return tx.Create(ap).Error
	})

	return mapWriteErr(err)
}

func (r *AppointmentGormRepository) SaveReschedule(
	ctx context.Context,
	ap *models.Appointment,
) error {

	err := r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if err := assertBothFree(tx, ap, &ap.ID); err != nil {
			return err
		}

		return tx.Model(&models.Appointment{}).
			Where("id = ? AND status = ?", ap.ID, string(domain.StatusScheduled)).
			Updates(map[string]any{
				"start_time": ap.StartTime,
				"end_time":   ap.EndTime,
			}).Error
	})

	return mapWriteErr(err)
}

func assertBothFree(tx *gorm.DB, ap *models.Appointment, exclude *uuid.UUID) error {
	doctorBusy, err := overlapCount(tx, domain.ResourceDoctor, ap.DoctorID, ap.StartTime, ap.EndTime, exclude, true)
	if err != nil {
		return err
	}
	if doctorBusy > 0 {
		return httperr.ErrConflict("doctor_unavailable", "Doctor is not available at this time.")
	}

	patientBusy, err := overlapCount(tx, domain.ResourcePatient, ap.PatientID, ap.StartTime, ap.EndTime, exclude, true)
	if err != nil {
		return err
	}
	if patientBusy > 0 {
		return httperr.ErrConflict("patient_unavailable", "Patient already has an appointment at this time.")
	}

	return nil
}

// --------------------------------------------------
// Appointment (load / state change)
// --------------------------------------------------

func (r *AppointmentGormRepository) GetAppointment(
	ctx context.Context,
	id uuid.UUID,
) (*models.Appointment, error) {

	var ap models.Appointment
	if err := r.db.WithContext(ctx).
		Where("id = ?", id).
		First(&ap).Error; err != nil {
		return nil, mapLookupErr(err, "appointment_not_found", "Appointment not found.")
	}
	return &ap, nil
}

func (r *AppointmentGormRepository) UpdateAppointment(
	ctx context.Context,
	ap *models.Appointment,
) error {
	return mapWriteErr(r.db.WithContext(ctx).Save(ap).Error)
}

// --------------------------------------------------
// Error mapping
// --------------------------------------------------

func mapLookupErr(err error, code, message string) error {
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return httperr.ErrNotFound(code, message)
	}
	return mapStoreErr(err)
}

// mapWriteErr turns the exclusion constraints on appointments into the same
// conflict the locked re-check would have produced. The constraints are the
// backstop for writers that race past the application-level check.
func mapWriteErr(err error) error {
	if err == nil {
		return nil
	}
	if _, ok := httperr.AsBusiness(err); ok {
		return err
	}
	if httperr.IsExclusionConflict(err) {
		return httperr.ErrConflict("time_conflict", "The requested time slot is no longer available.")
	}
	return mapStoreErr(err)
}

func mapStoreErr(err error) error {
	if err == nil {
		return nil
	}
	if _, ok := httperr.AsBusiness(err); ok {
		return err
	}
	if errors.Is(err, context.DeadlineExceeded) || errors.Is(err, context.Canceled) {
		return httperr.ErrTransient("store_timeout", "The data store did not respond in time.")
	}
	return err
}

// Compile-time check
var _ domain.Repository = (*AppointmentGormRepository)(nil)
