package models

import (
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

type Appointment struct {
	ID uuid.UUID `gorm:"type:uuid;primaryKey" json:"id"`

	DoctorID uuid.UUID `gorm:"type:uuid;index;not null" json:"doctor_id"`
	Doctor   Doctor    `gorm:"constraint:OnUpdate:CASCADE,OnDelete:SET NULL;" json:"-"`

	PatientID uuid.UUID `gorm:"type:uuid;index;not null" json:"patient_id"`
	Patient   Patient   `gorm:"constraint:OnUpdate:CASCADE,OnDelete:SET NULL;" json:"-"`

	StartTime time.Time `gorm:"not null" json:"start_time"`
	EndTime   time.Time `gorm:"not null" json:"end_time"`

	// Copied from the service at booking time so later service edits do not
	// retroactively change existing appointments.
	DurationMin int `gorm:"not null" json:"duration_min"`

	Status string `gorm:"size:20;default:'scheduled';index" json:"status"`

	CancelledAt *time.Time `json:"cancelled_at"`
	CompletedAt *time.Time `json:"completed_at"`

	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
}

func (a *Appointment) BeforeCreate(tx *gorm.DB) error {
	if a.ID == uuid.Nil {
		a.ID = uuid.New()
	}
	return nil
}
