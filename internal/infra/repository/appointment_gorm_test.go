package repository

import (
	"context"
	"testing"
	"time"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/driver/postgres"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"

	domain "github.com/careclinic/clinic-scheduler/internal/domain/appointment"
	"github.com/careclinic/clinic-scheduler/internal/httperr"
	"github.com/careclinic/clinic-scheduler/internal/models"
)

func newMockRepo(t *testing.T) (*AppointmentGormRepository, sqlmock.Sqlmock) {
	t.Helper()

	sqlDB, mock, err := sqlmock.New(sqlmock.QueryMatcherOption(sqlmock.QueryMatcherRegexp))
	require.NoError(t, err)
	t.Cleanup(func() { sqlDB.Close() })

	db, err := gorm.Open(postgres.New(postgres.Config{Conn: sqlDB}), &gorm.Config{
		Logger: logger.Default.LogMode(logger.Silent),
	})
	require.NoError(t, err)

	return NewAppointmentGormRepository(db), mock
}

func TestHasOverlap_QueryShape(t *testing.T) {
	repo, mock := newMockRepo(t)

	doctorID := uuid.New()
	start := time.Date(2025, 3, 10, 10, 0, 0, 0, time.UTC)
	end := start.Add(30 * time.Minute)

	mock.ExpectQuery(`SELECT count\(\*\) FROM "appointments" WHERE doctor_id = \$1 AND status = \$2 AND start_time < \$3 AND end_time > \$4`).
		WithArgs(doctorID, string(domain.StatusScheduled), end, start).
		WillReturnRows(sqlmock.NewRows([]string{"count"}).AddRow(1))

	busy, err := repo.HasOverlap(context.Background(), domain.ResourceDoctor, doctorID, start, end, nil)
	require.NoError(t, err)
	assert.True(t, busy)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestHasOverlap_ExcludesOwnRow(t *testing.T) {
	repo, mock := newMockRepo(t)

	patientID := uuid.New()
	excludeID := uuid.New()
	start := time.Date(2025, 3, 10, 10, 0, 0, 0, time.UTC)
	end := start.Add(30 * time.Minute)

	mock.ExpectQuery(`SELECT count\(\*\) FROM "appointments" WHERE \(patient_id = \$1 AND status = \$2 AND start_time < \$3 AND end_time > \$4\) AND id != \$5`).
		WithArgs(patientID, string(domain.StatusScheduled), end, start, excludeID).
		WillReturnRows(sqlmock.NewRows([]string{"count"}).AddRow(0))

	busy, err := repo.HasOverlap(context.Background(), domain.ResourcePatient, patientID, start, end, &excludeID)
	require.NoError(t, err)
	assert.False(t, busy)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestHasOverlap_Timeout(t *testing.T) {
	repo, mock := newMockRepo(t)

	doctorID := uuid.New()
	start := time.Date(2025, 3, 10, 10, 0, 0, 0, time.UTC)

	mock.ExpectQuery(`SELECT count\(\*\) FROM "appointments"`).
		WillReturnError(context.DeadlineExceeded)

	_, err := repo.HasOverlap(context.Background(), domain.ResourceDoctor, doctorID, start, start.Add(30*time.Minute), nil)
	require.Error(t, err)
	assert.True(t, httperr.IsBusiness(err, "store_timeout"))
}

func TestGetDoctor_NotFound(t *testing.T) {
	repo, mock := newMockRepo(t)

	mock.ExpectQuery(`SELECT \* FROM "doctors" WHERE id = \$1`).
		WillReturnRows(sqlmock.NewRows([]string{"id"}))

	_, err := repo.GetDoctor(context.Background(), uuid.New())
	require.Error(t, err)

	be, ok := httperr.AsBusiness(err)
	require.True(t, ok)
	assert.Equal(t, 404, be.Status)
	assert.Equal(t, "doctor_not_found", be.Code)
}

func TestCreateAppointment_LockedRecheckConflict(t *testing.T) {
	repo, mock := newMockRepo(t)

	ap := &models.Appointment{
		DoctorID:    uuid.New(),
		PatientID:   uuid.New(),
		StartTime:   time.Date(2025, 3, 10, 10, 0, 0, 0, time.UTC),
		EndTime:     time.Date(2025, 3, 10, 10, 30, 0, 0, time.UTC),
		DurationMin: 30,
		Status:      string(domain.StatusScheduled),
	}

	// The re-check runs under FOR UPDATE inside the transaction; a busy
	// doctor calendar rolls back before anything is inserted.
	mock.ExpectBegin()
	mock.ExpectQuery(`SELECT \* FROM "appointments" WHERE doctor_id = .* FOR UPDATE`).
		WillReturnRows(sqlmock.NewRows([]string{"id"}).AddRow(uuid.New().String()))
	mock.ExpectRollback()

	err := repo.CreateAppointment(context.Background(), ap)
	require.Error(t, err)
	assert.True(t, httperr.IsBusiness(err, "doctor_unavailable"))
	assert.NoError(t, mock.ExpectationsWereMet())
}
