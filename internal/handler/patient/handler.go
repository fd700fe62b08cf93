package patient

import (
	"github.com/gin-gonic/gin"

	"github.com/jwalitptl/clinic-registry/internal/handler"
	"github.com/jwalitptl/clinic-registry/internal/model"
	"github.com/jwalitptl/clinic-registry/internal/service/patient"
	"github.com/jwalitptl/clinic-registry/pkg/httputil"
)

type Handler struct {
	service patient.PatientService
}

func NewHandler(service patient.PatientService) *Handler {
	return &Handler{service: service}
}

func (h *Handler) RegisterRoutes(r *gin.RouterGroup) {
	patients := r.Group("/patients")
	{
		patients.POST("", h.CreatePatient)
		patients.GET("", h.ListPatients)
		patients.GET("/:name", h.GetPatient)
	}
}

// CreatePatient registers a patient. Registering a known name returns the
// existing record with 200 instead of 201.
func (h *Handler) CreatePatient(c *gin.Context) {
	var req model.CreatePatientRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		handler.BindError(c, err)
		return
	}

	p, created, err := h.service.RegisterPatient(c.Request.Context(), &req)
	if err != nil {
		_ = c.Error(err)
		return
	}

	if created {
		httputil.RespondWithCreated(c, p)
		return
	}
	httputil.RespondWithSuccess(c, p)
}

func (h *Handler) GetPatient(c *gin.Context) {
	p, err := h.service.GetPatient(c.Request.Context(), c.Param("name"))
	if err != nil {
		_ = c.Error(err)
		return
	}

	httputil.RespondWithSuccess(c, p)
}

func (h *Handler) ListPatients(c *gin.Context) {
	patients, err := h.service.ListPatients(c.Request.Context())
	if err != nil {
		_ = c.Error(err)
		return
	}

	httputil.RespondWithSuccess(c, patients)
}
