package doctor

import (
	"context"

	"github.com/gin-gonic/gin"

	"github.com/jwalitptl/clinic-registry/internal/model"
	"github.com/jwalitptl/clinic-registry/internal/service/doctor"
	"github.com/jwalitptl/clinic-registry/pkg/httputil"
)

// Availability answers which doctors still have free slots on a date.
type Availability interface {
	Today() string
	GetAvailableDoctors(ctx context.Context, date string) ([]string, error)
}

type Handler struct {
	service      doctor.Service
	availability Availability
}

func NewHandler(service doctor.Service, availability Availability) *Handler {
	return &Handler{service: service, availability: availability}
}

func (h *Handler) RegisterRoutes(r *gin.RouterGroup) {
	doctors := r.Group("/doctors")
	{
		doctors.GET("", h.ListDoctors)
		doctors.GET("/available", h.ListAvailableDoctors)
		doctors.GET("/:name", h.GetDoctor)
	}
}

func (h *Handler) ListDoctors(c *gin.Context) {
	doctors, err := h.service.ListDoctors(c.Request.Context())
	if err != nil {
		_ = c.Error(err)
		return
	}

	httputil.RespondWithSuccess(c, doctors)
}

// GetDoctor returns the doctor's schedule.
func (h *Handler) GetDoctor(c *gin.Context) {
	d, err := h.service.GetDoctor(c.Request.Context(), c.Param("name"))
	if err != nil {
		_ = c.Error(err)
		return
	}

	appointments := d.GetAppointments()
	if appointments == nil {
		appointments = []model.AppointmentRef{}
	}
	httputil.RespondWithSuccess(c, gin.H{
		"id":           d.ID,
		"name":         d.Name,
		"appointments": appointments,
	})
}

func (h *Handler) ListAvailableDoctors(c *gin.Context) {
	date := c.DefaultQuery("date", h.availability.Today())

	names, err := h.availability.GetAvailableDoctors(c.Request.Context(), date)
	if err != nil {
		_ = c.Error(err)
		return
	}

	httputil.RespondWithSuccess(c, gin.H{"date": date, "doctors": names})
}
