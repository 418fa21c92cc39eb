package appointment

import (
	"context"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	domain "github.com/careclinic/clinic-scheduler/internal/domain/appointment"
	"github.com/careclinic/clinic-scheduler/internal/httperr"
	"github.com/careclinic/clinic-scheduler/internal/models"
)

var baseTime = time.Date(2025, 3, 10, 10, 0, 0, 0, time.UTC)

type createFixture struct {
	repo    *fakeRepo
	uc      *CreateAppointment
	doctor  *models.Doctor
	patient *models.Patient
	service *models.Service
}

func newCreateFixture(t *testing.T) *createFixture {
	t.Helper()
	repo := newFakeRepo()
	doctor := repo.addDoctor("Dr. Alice Hart")
	patient := repo.addPatient("Bob Ray")
	service := repo.addService(doctor.ID, 30)
	return &createFixture{
		repo:    repo,
		uc:      NewCreateAppointment(repo, nil),
		doctor:  doctor,
		patient: patient,
		service: service,
	}
}

func (f *createFixture) book(t *testing.T, patient *models.Patient, start time.Time) *models.Appointment {
	t.Helper()
	ap, err := f.uc.Execute(context.Background(), patient.UserID, CreateAppointmentInput{
		DoctorID:  f.doctor.ID,
		ServiceID: f.service.ID,
		StartTime: start,
	})
	require.NoError(t, err)
	return ap
}

func TestCreateAppointment_Success(t *testing.T) {
	f := newCreateFixture(t)

	ap := f.book(t, f.patient, baseTime)

	assert.Equal(t, f.doctor.ID, ap.DoctorID)
	assert.Equal(t, f.patient.ID, ap.PatientID)
	assert.Equal(t, string(domain.StatusScheduled), ap.Status)
	assert.Equal(t, 30, ap.DurationMin)
	assert.Equal(t, baseTime.Add(30*time.Minute), ap.EndTime)
	assert.Equal(t, time.Duration(ap.DurationMin)*time.Minute, ap.EndTime.Sub(ap.StartTime))
}

func TestCreateAppointment_DoctorBusy(t *testing.T) {
	f := newCreateFixture(t)
	f.book(t, f.patient, baseTime)

	other := f.repo.addPatient("Carol West")
	_, err := f.uc.Execute(context.Background(), other.UserID, CreateAppointmentInput{
		DoctorID:  f.doctor.ID,
		ServiceID: f.service.ID,
		StartTime: baseTime.Add(15 * time.Minute),
	})

	require.Error(t, err)
	assert.True(t, httperr.IsBusiness(err, "doctor_unavailable"))
}

func TestCreateAppointment_PatientBusy(t *testing.T) {
	f := newCreateFixture(t)
	f.book(t, f.patient, baseTime)

	// Same patient, a different doctor, overlapping slot.
	otherDoctor := f.repo.addDoctor("Dr. Dan Cole")
	otherService := f.repo.addService(otherDoctor.ID, 30)

	_, err := f.uc.Execute(context.Background(), f.patient.UserID, CreateAppointmentInput{
		DoctorID:  otherDoctor.ID,
		ServiceID: otherService.ID,
		StartTime: baseTime.Add(10 * time.Minute),
	})
	require.Error(t, err)
	assert.True(t, httperr.IsBusiness(err, "patient_unavailable"))

	// A different patient takes the same slot with the other doctor fine.
	other := f.repo.addPatient("Carol West")
	_, err = f.uc.Execute(context.Background(), other.UserID, CreateAppointmentInput{
		DoctorID:  otherDoctor.ID,
		ServiceID: otherService.ID,
		StartTime: baseTime.Add(10 * time.Minute),
	})
	assert.NoError(t, err)
}

func TestCreateAppointment_BackToBackIsFree(t *testing.T) {
	f := newCreateFixture(t)
	f.book(t, f.patient, baseTime)

	// [10:00,10:30) then [10:30,11:00): touching endpoints do not conflict.
	other := f.repo.addPatient("Carol West")
	ap, err := f.uc.Execute(context.Background(), other.UserID, CreateAppointmentInput{
		DoctorID:  f.doctor.ID,
		ServiceID: f.service.ID,
		StartTime: baseTime.Add(30 * time.Minute),
	})

	require.NoError(t, err)
	assert.Equal(t, baseTime.Add(time.Hour), ap.EndTime)
}

func TestCreateAppointment_ServiceNotOwned(t *testing.T) {
	f := newCreateFixture(t)
	otherDoctor := f.repo.addDoctor("Dr. Dan Cole")

	_, err := f.uc.Execute(context.Background(), f.patient.UserID, CreateAppointmentInput{
		DoctorID:  otherDoctor.ID,
		ServiceID: f.service.ID,
		StartTime: baseTime,
	})

	require.Error(t, err)
	assert.True(t, httperr.IsBusiness(err, "service_not_owned"))
}

func TestCreateAppointment_LookupFailures(t *testing.T) {
	f := newCreateFixture(t)

	cases := []struct {
		name  string
		input CreateAppointmentInput
		user  uuid.UUID
		code  string
	}{
		{
			name:  "unknown doctor",
			input: CreateAppointmentInput{DoctorID: uuid.New(), ServiceID: f.service.ID, StartTime: baseTime},
			user:  f.patient.UserID,
			code:  "doctor_not_found",
		},
		{
			name:  "unknown service",
			input: CreateAppointmentInput{DoctorID: f.doctor.ID, ServiceID: uuid.New(), StartTime: baseTime},
			user:  f.patient.UserID,
			code:  "service_not_found",
		},
		{
			name:  "caller has no patient profile",
			input: CreateAppointmentInput{DoctorID: f.doctor.ID, ServiceID: f.service.ID, StartTime: baseTime},
			user:  uuid.New(),
			code:  "patient_not_found",
		},
	}

	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			_, err := f.uc.Execute(context.Background(), tc.user, tc.input)
			require.Error(t, err)
			assert.True(t, httperr.IsBusiness(err, tc.code), "got %v", err)
		})
	}
}

func TestCreateAppointment_CancelledSlotIsFree(t *testing.T) {
	f := newCreateFixture(t)
	ap := f.book(t, f.patient, baseTime)

	cancel := NewCancelAppointment(f.repo, nil)
	_, err := cancel.Execute(context.Background(), f.patient.UserID, models.RolePatient, ap.ID)
	require.NoError(t, err)

	// The cancelled row no longer blocks the slot.
	other := f.repo.addPatient("Carol West")
	_, err = f.uc.Execute(context.Background(), other.UserID, CreateAppointmentInput{
		DoctorID:  f.doctor.ID,
		ServiceID: f.service.ID,
		StartTime: baseTime,
	})
	assert.NoError(t, err)
}
