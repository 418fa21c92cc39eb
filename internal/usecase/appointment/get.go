package appointment

import (
	"context"

	"github.com/google/uuid"

	domain "github.com/careclinic/clinic-scheduler/internal/domain/appointment"
	"github.com/careclinic/clinic-scheduler/internal/models"
)

type GetAppointment struct {
	repo domain.Repository
}

func NewGetAppointment(repo domain.Repository) *GetAppointment {
	return &GetAppointment{repo: repo}
}

func (uc *GetAppointment) Execute(
	ctx context.Context,
	appointmentID uuid.UUID,
) (*models.Appointment, error) {
	return uc.repo.GetAppointment(ctx, appointmentID)
}
