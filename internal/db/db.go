package db

import (
	"log"
	"time"

	"gorm.io/driver/postgres"
	"gorm.io/gorm"

	"github.com/careclinic/clinic-scheduler/internal/config"
	"github.com/careclinic/clinic-scheduler/internal/models"
)

func NewDB(cfg *config.Config) *gorm.DB {
	db, err := gorm.Open(postgres.Open(cfg.DBUrl), &gorm.Config{
		PrepareStmt: true,
	})
	if err != nil {
		log.Fatalf("failed to connect database: %v", err)
	}

	sqlDB, err := db.DB()
	if err != nil {
		log.Fatalf("failed to get sql.DB: %v", err)
	}

	sqlDB.SetMaxOpenConns(10)
	sqlDB.SetMaxIdleConns(5)
	sqlDB.SetConnMaxLifetime(30 * time.Minute)
	sqlDB.SetConnMaxIdleTime(10 * time.Minute)

	db.Exec(`CREATE EXTENSION IF NOT EXISTS btree_gist`)

	if err := db.AutoMigrate(
		&models.User{},
		&models.Doctor{},
		&models.Patient{},
		&models.Service{},
		&models.Appointment{},
		&models.Category{},
		&models.Product{},
		&models.Review{},
		&models.Cart{},
		&models.CartItem{},
		&models.AuditLog{},
	); err != nil {
		log.Fatalf("failed to migrate: %v", err)
	}

	// Overlap exclusion per calendar. Two writers that both pass the locked
	// application-level check still cannot commit overlapping scheduled
	// rows; the loser gets SQLSTATE 23P01.
	db.Exec(`
        DO $$
        BEGIN
            IF NOT EXISTS (
                SELECT 1 FROM pg_constraint WHERE conname = 'appointments_doctor_no_overlap'
            ) THEN
                ALTER TABLE appointments
                    ADD CONSTRAINT appointments_doctor_no_overlap
                    EXCLUDE USING gist (
                        doctor_id WITH =,
                        tstzrange(start_time, end_time) WITH &&
                    ) WHERE (status = 'scheduled');
            END IF;

            IF NOT EXISTS (
                SELECT 1 FROM pg_constraint WHERE conname = 'appointments_patient_no_overlap'
            ) THEN
                ALTER TABLE appointments
                    ADD CONSTRAINT appointments_patient_no_overlap
                    EXCLUDE USING gist (
                        patient_id WITH =,
                        tstzrange(start_time, end_time) WITH &&
                    ) WHERE (status = 'scheduled');
            END IF;
        END
        $$
    `)

	return db
}
