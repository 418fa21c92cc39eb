package handlers

import (
	"strings"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"gorm.io/gorm"

	"github.com/careclinic/clinic-scheduler/internal/httperr"
	"github.com/careclinic/clinic-scheduler/internal/httpresp"
	"github.com/careclinic/clinic-scheduler/internal/middleware"
	"github.com/careclinic/clinic-scheduler/internal/models"
)

type DoctorHandler struct {
	db *gorm.DB
}

func NewDoctorHandler(db *gorm.DB) *DoctorHandler {
	return &DoctorHandler{db: db}
}

// --------- Requests ---------

type CreateDoctorRequest struct {
	FullName    string    `json:"full_name" binding:"required"`
	Phone       string    `json:"phone" binding:"required"`
	DateOfBirth time.Time `json:"date_of_birth" binding:"required"`
	Address     string    `json:"address" binding:"required"`
	Specialty   string    `json:"specialty" binding:"required"`
}

type UpdateDoctorRequest struct {
	FullName  *string `json:"full_name,omitempty"`
	Phone     *string `json:"phone,omitempty"`
	Address   *string `json:"address,omitempty"`
	Specialty *string `json:"specialty,omitempty"`
}

// --------- Handlers ---------

func (h *DoctorHandler) Create(c *gin.Context) {
	userID := c.MustGet(middleware.ContextUserID).(uuid.UUID)

	var req CreateDoctorRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		httperr.BadRequest(c, "invalid_request", "Invalid doctor payload.")
		return
	}

	if req.DateOfBirth.After(time.Now()) {
		httperr.BadRequest(c, "invalid_date_of_birth", "Date of birth must be in the past.")
		return
	}

	var count int64
	h.db.Model(&models.Doctor{}).Where("user_id = ?", userID).Count(&count)
	if count > 0 {
		httperr.Conflict(c, "doctor_already_exists", "This user already has a doctor profile.")
		return
	}

	doctor := models.Doctor{
		UserID:      userID,
		FullName:    req.FullName,
		Phone:       req.Phone,
		DateOfBirth: req.DateOfBirth,
		Address:     req.Address,
		Specialty:   req.Specialty,
	}

	if err := h.db.Create(&doctor).Error; err != nil {
		httperr.Internal(c, "failed_to_create_doctor", "Could not create doctor profile.")
		return
	}

	httpresp.Created(c, doctor)
}

func (h *DoctorHandler) Update(c *gin.Context) {
	doctorID, err := uuid.Parse(c.Param("id"))
	if err != nil {
		httperr.BadRequest(c, "invalid_id", "Invalid doctor id.")
		return
	}

	var doctor models.Doctor
	if err := h.db.Where("id = ?", doctorID).First(&doctor).Error; err != nil {
		httperr.NotFound(c, "doctor_not_found", "Doctor not found.")
		return
	}

	var req UpdateDoctorRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		httperr.BadRequest(c, "invalid_request", "Invalid doctor payload.")
		return
	}

	if req.FullName != nil {
		doctor.FullName = *req.FullName
	}
	if req.Phone != nil {
		doctor.Phone = *req.Phone
	}
	if req.Address != nil {
		doctor.Address = *req.Address
	}
	if req.Specialty != nil {
		doctor.Specialty = *req.Specialty
	}

	if err := h.db.Save(&doctor).Error; err != nil {
		httperr.Internal(c, "failed_to_update_doctor", "Could not update doctor profile.")
		return
	}

	httpresp.OK(c, doctor)
}

func (h *DoctorHandler) Get(c *gin.Context) {
	doctorID, err := uuid.Parse(c.Param("id"))
	if err != nil {
		httperr.BadRequest(c, "invalid_id", "Invalid doctor id.")
		return
	}

	var doctor models.Doctor
	if err := h.db.Where("id = ?", doctorID).First(&doctor).Error; err != nil {
		httperr.NotFound(c, "doctor_not_found", "Doctor not found.")
		return
	}

	httpresp.OK(c, doctor)
}

func (h *DoctorHandler) List(c *gin.Context) {
	page, limit, offset := pageParams(c)
	specialty := strings.TrimSpace(c.Query("specialty"))

	q := h.db.Model(&models.Doctor{})
	if specialty != "" {
		q = q.Where("specialty ILIKE ?", "%"+specialty+"%")
	}

	var total int64
	if err := q.Count(&total).Error; err != nil {
		httperr.Internal(c, "failed_to_list_doctors", "Could not list doctors.")
		return
	}

	var doctors []models.Doctor
	if err := q.
		Order("created_at DESC").
		Offset(offset).
		Limit(limit).
		Find(&doctors).Error; err != nil {
		httperr.Internal(c, "failed_to_list_doctors", "Could not list doctors.")
		return
	}

	httpresp.List(c, doctors, total, page, limit)
}

func (h *DoctorHandler) Search(c *gin.Context) {
	name := strings.TrimSpace(c.Query("name"))
	specialty := strings.TrimSpace(c.Query("specialty"))

	var doctors []models.Doctor
	if err := h.db.
		Where("full_name ILIKE ? OR specialty ILIKE ?", "%"+name+"%", "%"+specialty+"%").
		Find(&doctors).Error; err != nil {
		httperr.Internal(c, "failed_to_search_doctors", "Could not search doctors.")
		return
	}

	httpresp.OK(c, doctors)
}
