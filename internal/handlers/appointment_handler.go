package handlers

import (
	"time"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"

	"github.com/careclinic/clinic-scheduler/internal/httperr"
	"github.com/careclinic/clinic-scheduler/internal/httpresp"
	"github.com/careclinic/clinic-scheduler/internal/middleware"
	ucAppointment "github.com/careclinic/clinic-scheduler/internal/usecase/appointment"
)

// ======================================================
// HANDLER
// ======================================================

type AppointmentHandler struct {
	create     *ucAppointment.CreateAppointment
	reschedule *ucAppointment.RescheduleAppointment
	cancel     *ucAppointment.CancelAppointment
	complete   *ucAppointment.CompleteAppointment
	get        *ucAppointment.GetAppointment
}

func NewAppointmentHandler(
	create *ucAppointment.CreateAppointment,
	reschedule *ucAppointment.RescheduleAppointment,
	cancel *ucAppointment.CancelAppointment,
	complete *ucAppointment.CompleteAppointment,
	get *ucAppointment.GetAppointment,
) *AppointmentHandler {
	return &AppointmentHandler{
		create:     create,
		reschedule: reschedule,
		cancel:     cancel,
		complete:   complete,
		get:        get,
	}
}

// ======================================================
// REQUESTS
// ======================================================

type CreateAppointmentRequest struct {
	DoctorID  uuid.UUID `json:"doctor_id" binding:"required"`
	ServiceID uuid.UUID `json:"service_id" binding:"required"`
	StartTime time.Time `json:"start_time" binding:"required"`
}

type RescheduleAppointmentRequest struct {
	StartTime time.Time `json:"start_time" binding:"required"`
}

// ======================================================
// HANDLERS
// ======================================================

func (h *AppointmentHandler) Create(c *gin.Context) {
	userID := c.MustGet(middleware.ContextUserID).(uuid.UUID)

	var req CreateAppointmentRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		httperr.BadRequest(c, "invalid_request", "Invalid appointment payload.")
		return
	}

	ap, err := h.create.Execute(c.Request.Context(), userID, ucAppointment.CreateAppointmentInput{
		DoctorID:  req.DoctorID,
		ServiceID: req.ServiceID,
		StartTime: req.StartTime,
	})
	if err != nil {
		httperr.From(c, err)
		return
	}

	httpresp.Created(c, ap)
}

func (h *AppointmentHandler) Reschedule(c *gin.Context) {
	userID := c.MustGet(middleware.ContextUserID).(uuid.UUID)

	appointmentID, err := uuid.Parse(c.Param("id"))
	if err != nil {
		httperr.BadRequest(c, "invalid_id", "Invalid appointment id.")
		return
	}

	var req RescheduleAppointmentRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		httperr.BadRequest(c, "invalid_request", "Invalid reschedule payload.")
		return
	}

	ap, err := h.reschedule.Execute(c.Request.Context(), userID, appointmentID, req.StartTime)
	if err != nil {
		httperr.From(c, err)
		return
	}

	httpresp.OK(c, ap)
}

func (h *AppointmentHandler) Cancel(c *gin.Context) {
	userID := c.MustGet(middleware.ContextUserID).(uuid.UUID)
	role := c.MustGet(middleware.ContextUserRole).(string)

	appointmentID, err := uuid.Parse(c.Param("id"))
	if err != nil {
		httperr.BadRequest(c, "invalid_id", "Invalid appointment id.")
		return
	}

	ap, err := h.cancel.Execute(c.Request.Context(), userID, role, appointmentID)
	if err != nil {
		httperr.From(c, err)
		return
	}

	httpresp.OK(c, ap)
}

func (h *AppointmentHandler) Complete(c *gin.Context) {
	userID := c.MustGet(middleware.ContextUserID).(uuid.UUID)

	appointmentID, err := uuid.Parse(c.Param("id"))
	if err != nil {
		httperr.BadRequest(c, "invalid_id", "Invalid appointment id.")
		return
	}

	ap, err := h.complete.Execute(c.Request.Context(), userID, appointmentID)
	if err != nil {
		httperr.From(c, err)
		return
	}

	httpresp.OK(c, ap)
}

func (h *AppointmentHandler) Get(c *gin.Context) {
	appointmentID, err := uuid.Parse(c.Param("id"))
	if err != nil {
		httperr.BadRequest(c, "invalid_id", "Invalid appointment id.")
		return
	}

	ap, err := h.get.Execute(c.Request.Context(), appointmentID)
	if err != nil {
		httperr.From(c, err)
		return
	}

	httpresp.OK(c, ap)
}
