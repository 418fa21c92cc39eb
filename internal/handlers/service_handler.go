package handlers

import (
	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"gorm.io/gorm"

	"github.com/careclinic/clinic-scheduler/internal/httperr"
	"github.com/careclinic/clinic-scheduler/internal/httpresp"
	"github.com/careclinic/clinic-scheduler/internal/middleware"
	"github.com/careclinic/clinic-scheduler/internal/models"
)

type ServiceHandler struct {
	db *gorm.DB
}

func NewServiceHandler(db *gorm.DB) *ServiceHandler {
	return &ServiceHandler{db: db}
}

// --------- Requests ---------

type CreateServiceRequest struct {
	Name        string  `json:"name" binding:"required"`
	Description string  `json:"description"`
	DurationMin int     `json:"duration_min" binding:"required,min=1"`
	Price       float64 `json:"price"`
}

type UpdateServiceRequest struct {
	Name        *string  `json:"name,omitempty"`
	Description *string  `json:"description,omitempty"`
	DurationMin *int     `json:"duration_min,omitempty"`
	Price       *float64 `json:"price,omitempty"`
	Active      *bool    `json:"active,omitempty"`
}

// --------- Handlers ---------

// Create registers a service on the calling doctor's own offer list.
func (h *ServiceHandler) Create(c *gin.Context) {
	userID := c.MustGet(middleware.ContextUserID).(uuid.UUID)

	var doctor models.Doctor
	if err := h.db.Where("user_id = ?", userID).First(&doctor).Error; err != nil {
		httperr.NotFound(c, "doctor_not_found", "The caller has no doctor profile.")
		return
	}

	var req CreateServiceRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		httperr.BadRequest(c, "invalid_request", "Invalid service payload.")
		return
	}

	service := models.Service{
		DoctorID:    doctor.ID,
		Name:        req.Name,
		Description: req.Description,
		DurationMin: req.DurationMin,
		Price:       req.Price,
		Active:      true,
	}

	if err := h.db.Create(&service).Error; err != nil {
		httperr.Internal(c, "failed_to_create_service", "Could not create service.")
		return
	}

	httpresp.Created(c, service)
}

func (h *ServiceHandler) Update(c *gin.Context) {
	userID := c.MustGet(middleware.ContextUserID).(uuid.UUID)

	serviceID, err := uuid.Parse(c.Param("id"))
	if err != nil {
		httperr.BadRequest(c, "invalid_id", "Invalid service id.")
		return
	}

	var doctor models.Doctor
	if err := h.db.Where("user_id = ?", userID).First(&doctor).Error; err != nil {
		httperr.NotFound(c, "doctor_not_found", "The caller has no doctor profile.")
		return
	}

	var service models.Service
	if err := h.db.Where("id = ?", serviceID).First(&service).Error; err != nil {
		httperr.NotFound(c, "service_not_found", "Service not found.")
		return
	}

	if service.DoctorID != doctor.ID {
		httperr.Forbidden(c, "not_your_service", "You can only update your own services.")
		return
	}

	var req UpdateServiceRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		httperr.BadRequest(c, "invalid_request", "Invalid service payload.")
		return
	}

	if req.DurationMin != nil && *req.DurationMin < 1 {
		httperr.BadRequest(c, "invalid_duration", "Duration must be at least one minute.")
		return
	}

	if req.Name != nil {
		service.Name = *req.Name
	}
	if req.Description != nil {
		service.Description = *req.Description
	}
	if req.DurationMin != nil {
		service.DurationMin = *req.DurationMin
	}
	if req.Price != nil {
		service.Price = *req.Price
	}
	if req.Active != nil {
		service.Active = *req.Active
	}

	if err := h.db.Save(&service).Error; err != nil {
		httperr.Internal(c, "failed_to_update_service", "Could not update service.")
		return
	}

	httpresp.OK(c, service)
}

func (h *ServiceHandler) Get(c *gin.Context) {
	serviceID, err := uuid.Parse(c.Param("id"))
	if err != nil {
		httperr.BadRequest(c, "invalid_id", "Invalid service id.")
		return
	}

	var service models.Service
	if err := h.db.Where("id = ?", serviceID).First(&service).Error; err != nil {
		httperr.NotFound(c, "service_not_found", "Service not found.")
		return
	}

	httpresp.OK(c, service)
}

func (h *ServiceHandler) ListByDoctor(c *gin.Context) {
	doctorID, err := uuid.Parse(c.Param("id"))
	if err != nil {
		httperr.BadRequest(c, "invalid_id", "Invalid doctor id.")
		return
	}

	var services []models.Service
	if err := h.db.
		Where("doctor_id = ? AND active = ?", doctorID, true).
		Order("name ASC").
		Find(&services).Error; err != nil {
		httperr.Internal(c, "failed_to_list_services", "Could not list services.")
		return
	}

	httpresp.OK(c, services)
}
