package handlers

import (
	"strconv"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"gorm.io/gorm"

	"github.com/careclinic/clinic-scheduler/internal/httperr"
	"github.com/careclinic/clinic-scheduler/internal/httpresp"
	"github.com/careclinic/clinic-scheduler/internal/middleware"
	"github.com/careclinic/clinic-scheduler/internal/models"
)

type PatientHandler struct {
	db *gorm.DB
}

func NewPatientHandler(db *gorm.DB) *PatientHandler {
	return &PatientHandler{db: db}
}

// --------- Requests ---------

type CreatePatientRequest struct {
	FullName    string    `json:"full_name" binding:"required"`
	Phone       string    `json:"phone" binding:"required"`
	DateOfBirth time.Time `json:"date_of_birth" binding:"required"`
	Address     string    `json:"address" binding:"required"`
}

type UpdatePatientRequest struct {
	FullName *string `json:"full_name,omitempty"`
	Phone    *string `json:"phone,omitempty"`
	Address  *string `json:"address,omitempty"`
}

// --------- Handlers ---------

func (h *PatientHandler) Create(c *gin.Context) {
	userID := c.MustGet(middleware.ContextUserID).(uuid.UUID)

	var req CreatePatientRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		httperr.BadRequest(c, "invalid_request", "Invalid patient payload.")
		return
	}

	if req.DateOfBirth.After(time.Now()) {
		httperr.BadRequest(c, "invalid_date_of_birth", "Date of birth must be in the past.")
		return
	}

	var count int64
	h.db.Model(&models.Patient{}).Where("user_id = ?", userID).Count(&count)
	if count > 0 {
		httperr.Conflict(c, "patient_already_exists", "This user already has a patient profile.")
		return
	}

	patient := models.Patient{
		UserID:      userID,
		FullName:    req.FullName,
		Phone:       req.Phone,
		DateOfBirth: req.DateOfBirth,
		Address:     req.Address,
	}

	if err := h.db.Create(&patient).Error; err != nil {
		httperr.Internal(c, "failed_to_create_patient", "Could not create patient profile.")
		return
	}

	httpresp.Created(c, patient)
}

func (h *PatientHandler) Update(c *gin.Context) {
	userID := c.MustGet(middleware.ContextUserID).(uuid.UUID)
	role := c.MustGet(middleware.ContextUserRole).(string)

	patientID, err := uuid.Parse(c.Param("id"))
	if err != nil {
		httperr.BadRequest(c, "invalid_id", "Invalid patient id.")
		return
	}

	var patient models.Patient
	if err := h.db.Where("id = ?", patientID).First(&patient).Error; err != nil {
		httperr.NotFound(c, "patient_not_found", "Patient not found.")
		return
	}

	if role != models.RoleAdmin && patient.UserID != userID {
		httperr.Forbidden(c, "not_your_profile", "You can only update your own profile.")
		return
	}

	var req UpdatePatientRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		httperr.BadRequest(c, "invalid_request", "Invalid patient payload.")
		return
	}

	if req.FullName != nil {
		patient.FullName = *req.FullName
	}
	if req.Phone != nil {
		patient.Phone = *req.Phone
	}
	if req.Address != nil {
		patient.Address = *req.Address
	}

	if err := h.db.Save(&patient).Error; err != nil {
		httperr.Internal(c, "failed_to_update_patient", "Could not update patient profile.")
		return
	}

	httpresp.OK(c, patient)
}

func (h *PatientHandler) Get(c *gin.Context) {
	patientID, err := uuid.Parse(c.Param("id"))
	if err != nil {
		httperr.BadRequest(c, "invalid_id", "Invalid patient id.")
		return
	}

	var patient models.Patient
	if err := h.db.Where("id = ?", patientID).First(&patient).Error; err != nil {
		httperr.NotFound(c, "patient_not_found", "Patient not found.")
		return
	}

	httpresp.OK(c, patient)
}

// List is admin-only; supports min_age / max_age filters.
func (h *PatientHandler) List(c *gin.Context) {
	page, limit, offset := pageParams(c)

	q := h.db.Model(&models.Patient{})

	if minAge, err := strconv.Atoi(c.Query("min_age")); err == nil && minAge > 0 {
		q = q.Where("date_of_birth <= ?", dobFromAge(minAge))
	}
	if maxAge, err := strconv.Atoi(c.Query("max_age")); err == nil && maxAge > 0 {
		q = q.Where("date_of_birth >= ?", dobFromAge(maxAge))
	}

	var total int64
	if err := q.Count(&total).Error; err != nil {
		httperr.Internal(c, "failed_to_list_patients", "Could not list patients.")
		return
	}

	var patients []models.Patient
	if err := q.
		Order("created_at DESC").
		Offset(offset).
		Limit(limit).
		Find(&patients).Error; err != nil {
		httperr.Internal(c, "failed_to_list_patients", "Could not list patients.")
		return
	}

	httpresp.List(c, patients, total, page, limit)
}

func dobFromAge(age int) time.Time {
	return time.Now().AddDate(-age, 0, 0)
}
