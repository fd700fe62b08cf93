package appointment

import (
	"context"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"

	"github.com/jwalitptl/clinic-registry/internal/handler"
	"github.com/jwalitptl/clinic-registry/internal/model"
	apperrors "github.com/jwalitptl/clinic-registry/pkg/errors"
	"github.com/jwalitptl/clinic-registry/pkg/httputil"
)

type Service interface {
	Today() string
	GetAvailableSlots(ctx context.Context, date, doctorName string) ([]model.Slot, error)
	ListAppointments(ctx context.Context, filters *model.AppointmentFilters) ([]model.Appointment, error)
	GetAppointment(ctx context.Context, id uuid.UUID) (model.Appointment, error)
	ScheduleAppointment(ctx context.Context, req *model.CreateAppointmentRequest) (model.Appointment, error)
	CancelAppointment(ctx context.Context, req *model.CancelAppointmentRequest) (int, error)
	CancelAppointmentByID(ctx context.Context, id uuid.UUID) (model.Appointment, error)
}

type Handler struct {
	service Service
}

func NewHandler(service Service) *Handler {
	return &Handler{service: service}
}

func (h *Handler) RegisterRoutes(r *gin.RouterGroup) {
	appointments := r.Group("/appointments")
	{
		appointments.GET("/availability", h.GetAvailability)
		appointments.POST("/cancel", h.CancelAppointment)
		appointments.POST("", h.CreateAppointment)
		appointments.GET("", h.ListAppointments)
		appointments.GET("/:id", h.GetAppointment)
		appointments.DELETE("/:id", h.DeleteAppointment)
	}
}

func (h *Handler) CreateAppointment(c *gin.Context) {
	var req model.CreateAppointmentRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		handler.BindError(c, err)
		return
	}

	appointment, err := h.service.ScheduleAppointment(c.Request.Context(), &req)
	if err != nil {
		_ = c.Error(err)
		return
	}

	httputil.RespondWithCreated(c, appointment)
}

func (h *Handler) GetAppointment(c *gin.Context) {
	id, ok := appointmentID(c)
	if !ok {
		return
	}

	appointment, err := h.service.GetAppointment(c.Request.Context(), id)
	if err != nil {
		_ = c.Error(err)
		return
	}

	httputil.RespondWithSuccess(c, appointment)
}

func (h *Handler) ListAppointments(c *gin.Context) {
	var filters model.AppointmentFilters
	if err := c.ShouldBindQuery(&filters); err != nil {
		handler.BindError(c, err)
		return
	}

	appointments, err := h.service.ListAppointments(c.Request.Context(), &filters)
	if err != nil {
		_ = c.Error(err)
		return
	}

	httputil.RespondWithSuccess(c, appointments)
}

// CancelAppointment removes every appointment matching the (date_time, doctor, patient)
// triple and reports how many were removed. No match is not an error.
func (h *Handler) CancelAppointment(c *gin.Context) {
	var req model.CancelAppointmentRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		handler.BindError(c, err)
		return
	}

	removed, err := h.service.CancelAppointment(c.Request.Context(), &req)
	if err != nil {
		_ = c.Error(err)
		return
	}

	httputil.RespondWithSuccess(c, gin.H{"removed": removed})
}

func (h *Handler) DeleteAppointment(c *gin.Context) {
	id, ok := appointmentID(c)
	if !ok {
		return
	}

	appointment, err := h.service.CancelAppointmentByID(c.Request.Context(), id)
	if err != nil {
		_ = c.Error(err)
		return
	}

	httputil.RespondWithSuccess(c, appointment)
}

// GetAvailability lists free slots for a date, today by default, optionally
// narrowed to one doctor.
func (h *Handler) GetAvailability(c *gin.Context) {
	date := c.DefaultQuery("date", h.service.Today())

	slots, err := h.service.GetAvailableSlots(c.Request.Context(), date, c.Query("doctor"))
	if err != nil {
		_ = c.Error(err)
		return
	}

	httputil.RespondWithSuccess(c, slots)
}

func appointmentID(c *gin.Context) (uuid.UUID, bool) {
	id, err := uuid.Parse(c.Param("id"))
	if err != nil {
		_ = c.Error(apperrors.NewBadRequest("invalid appointment ID", err))
		return uuid.Nil, false
	}
	return id, true
}
