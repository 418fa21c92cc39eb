package appointment

import (
	"context"
	"sync"
	"time"

	"github.com/google/uuid"

	domain "github.com/careclinic/clinic-scheduler/internal/domain/appointment"
	"github.com/careclinic/clinic-scheduler/internal/httperr"
	"github.com/careclinic/clinic-scheduler/internal/models"
)

// fakeRepo is an in-memory domain.Repository. Writes take the mutex across
// the overlap re-check and the insert, mirroring the locked transaction the
// real store runs.
type fakeRepo struct {
	mu           sync.Mutex
	doctors      map[uuid.UUID]*models.Doctor
	patients     map[uuid.UUID]*models.Patient
	services     map[uuid.UUID]*models.Service
	appointments map[uuid.UUID]*models.Appointment
}

var _ domain.Repository = (*fakeRepo)(nil)

func newFakeRepo() *fakeRepo {
	return &fakeRepo{
		doctors:      map[uuid.UUID]*models.Doctor{},
		patients:     map[uuid.UUID]*models.Patient{},
		services:     map[uuid.UUID]*models.Service{},
		appointments: map[uuid.UUID]*models.Appointment{},
	}
}

func (f *fakeRepo) addDoctor(name string) *models.Doctor {
	d := &models.Doctor{ID: uuid.New(), UserID: uuid.New(), FullName: name}
	f.doctors[d.ID] = d
	return d
}

func (f *fakeRepo) addPatient(name string) *models.Patient {
	p := &models.Patient{ID: uuid.New(), UserID: uuid.New(), FullName: name}
	f.patients[p.ID] = p
	return p
}

func (f *fakeRepo) addService(doctorID uuid.UUID, durationMin int) *models.Service {
	s := &models.Service{ID: uuid.New(), DoctorID: doctorID, Name: "Consultation", DurationMin: durationMin, Active: true}
	f.services[s.ID] = s
	return s
}

func (f *fakeRepo) GetDoctor(ctx context.Context, id uuid.UUID) (*models.Doctor, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	d, ok := f.doctors[id]
	if !ok {
		return nil, httperr.ErrNotFound("doctor_not_found", "Doctor not found.")
	}
	cp := *d
	return &cp, nil
}

func (f *fakeRepo) GetDoctorByUserID(ctx context.Context, userID uuid.UUID) (*models.Doctor, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	for _, d := range f.doctors {
		if d.UserID == userID {
			cp := *d
			return &cp, nil
		}
	}
	return nil, httperr.ErrNotFound("doctor_not_found", "Doctor not found.")
}

func (f *fakeRepo) GetPatient(ctx context.Context, id uuid.UUID) (*models.Patient, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	p, ok := f.patients[id]
	if !ok {
		return nil, httperr.ErrNotFound("patient_not_found", "Patient not found.")
	}
	cp := *p
	return &cp, nil
}

func (f *fakeRepo) GetPatientByUserID(ctx context.Context, userID uuid.UUID) (*models.Patient, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	for _, p := range f.patients {
		if p.UserID == userID {
			cp := *p
			return &cp, nil
		}
	}
	return nil, httperr.ErrNotFound("patient_not_found", "Patient not found.")
}

func (f *fakeRepo) GetService(ctx context.Context, id uuid.UUID) (*models.Service, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	s, ok := f.services[id]
	if !ok {
		return nil, httperr.ErrNotFound("service_not_found", "Service not found.")
	}
	cp := *s
	return &cp, nil
}

func (f *fakeRepo) HasOverlap(
	ctx context.Context,
	resource domain.Resource,
	resourceID uuid.UUID,
	start time.Time,
	end time.Time,
	exclude *uuid.UUID,
) (bool, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	return f.overlapLocked(resource, resourceID, start, end, exclude), nil
}

func (f *fakeRepo) overlapLocked(
	resource domain.Resource,
	resourceID uuid.UUID,
	start time.Time,
	end time.Time,
	exclude *uuid.UUID,
) bool {
	for _, ap := range f.appointments {
		if ap.Status != string(domain.StatusScheduled) {
			continue
		}
		if exclude != nil && ap.ID == *exclude {
			continue
		}
		switch resource {
		case domain.ResourceDoctor:
			if ap.DoctorID != resourceID {
				continue
			}
		case domain.ResourcePatient:
			if ap.PatientID != resourceID {
				continue
			}
		}
		if domain.Overlaps(ap.StartTime, ap.EndTime, start, end) {
			return true
		}
	}
	return false
}

func (f *fakeRepo) CreateAppointment(ctx context.Context, ap *models.Appointment) error {
	f.mu.Lock()
	defer f.mu.Unlock()

	if f.overlapLocked(domain.ResourceDoctor, ap.DoctorID, ap.StartTime, ap.EndTime, nil) {
		return httperr.ErrConflict("doctor_unavailable", "Doctor is not available at this time.")
	}
	if f.overlapLocked(domain.ResourcePatient, ap.PatientID, ap.StartTime, ap.EndTime, nil) {
		return httperr.ErrConflict("patient_unavailable", "Patient already has an appointment at this time.")
	}

	if ap.ID == uuid.Nil {
		ap.ID = uuid.New()
	}
	cp := *ap
	f.appointments[ap.ID] = &cp
	return nil
}

func (f *fakeRepo) SaveReschedule(ctx context.Context, ap *models.Appointment) error {
	f.mu.Lock()
	defer f.mu.Unlock()

	if f.overlapLocked(domain.ResourceDoctor, ap.DoctorID, ap.StartTime, ap.EndTime, &ap.ID) {
		return httperr.ErrConflict("doctor_unavailable", "Doctor is not available at this time.")
	}
	if f.overlapLocked(domain.ResourcePatient, ap.PatientID, ap.StartTime, ap.EndTime, &ap.ID) {
		return httperr.ErrConflict("patient_unavailable", "Patient already has an appointment at this time.")
	}

	cp := *ap
	f.appointments[ap.ID] = &cp
	return nil
}

func (f *fakeRepo) GetAppointment(ctx context.Context, id uuid.UUID) (*models.Appointment, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	ap, ok := f.appointments[id]
	if !ok {
		return nil, httperr.ErrNotFound("appointment_not_found", "Appointment not found.")
	}
	cp := *ap
	return &cp, nil
}

func (f *fakeRepo) UpdateAppointment(ctx context.Context, ap *models.Appointment) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	if _, ok := f.appointments[ap.ID]; !ok {
		return httperr.ErrNotFound("appointment_not_found", "Appointment not found.")
	}
	cp := *ap
	f.appointments[ap.ID] = &cp
	return nil
}
