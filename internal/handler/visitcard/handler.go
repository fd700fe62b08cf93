package visitcard

import (
	"context"

	"github.com/gin-gonic/gin"

	"github.com/jwalitptl/clinic-registry/internal/handler"
	"github.com/jwalitptl/clinic-registry/internal/model"
	"github.com/jwalitptl/clinic-registry/pkg/httputil"
)

type Service interface {
	AddVisitCard(ctx context.Context, req *model.CreateVisitCardRequest) (model.VisitCard, error)
	VisitCardsForPatient(ctx context.Context, patientName string) ([]model.VisitCard, error)
}

type Handler struct {
	service Service
}

func NewHandler(service Service) *Handler {
	return &Handler{service: service}
}

func (h *Handler) RegisterRoutes(r *gin.RouterGroup) {
	r.POST("/visit-cards", h.CreateVisitCard)
	r.GET("/patients/:name/visit-cards", h.ListVisitCards)
}

func (h *Handler) CreateVisitCard(c *gin.Context) {
	var req model.CreateVisitCardRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		handler.BindError(c, err)
		return
	}

	card, err := h.service.AddVisitCard(c.Request.Context(), &req)
	if err != nil {
		_ = c.Error(err)
		return
	}

	httputil.RespondWithCreated(c, card)
}

func (h *Handler) ListVisitCards(c *gin.Context) {
	cards, err := h.service.VisitCardsForPatient(c.Request.Context(), c.Param("name"))
	if err != nil {
		_ = c.Error(err)
		return
	}

	httputil.RespondWithSuccess(c, cards)
}
