package handler

import (
	"context"
	"sort"
	"sync"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"

	apperrors "github.com/jwalitptl/clinic-registry/pkg/errors"
)

// ReadinessCheck reports whether a dependency can serve traffic.
type ReadinessCheck func(ctx context.Context) error

// Handler serves the operational endpoints.
type Handler struct {
	gatherer prometheus.Gatherer
	started  time.Time

	mu     sync.RWMutex
	checks map[string]ReadinessCheck
}

func NewHandler(gatherer prometheus.Gatherer) *Handler {
	return &Handler{
		gatherer: gatherer,
		started:  time.Now(),
		checks:   make(map[string]ReadinessCheck),
	}
}

func (h *Handler) AddReadinessCheck(name string, check ReadinessCheck) {
	h.mu.Lock()
	defer h.mu.Unlock()
	h.checks[name] = check
}

func (h *Handler) MetricsHandler() gin.HandlerFunc {
	return gin.WrapH(promhttp.HandlerFor(h.gatherer, promhttp.HandlerOpts{}))
}

func (h *Handler) runChecks(ctx context.Context) map[string]string {
	h.mu.RLock()
	names := make([]string, 0, len(h.checks))
	for name := range h.checks {
		names = append(names, name)
	}
	h.mu.RUnlock()
	sort.Strings(names)

	failed := make(map[string]string)
	for _, name := range names {
		h.mu.RLock()
		check := h.checks[name]
		h.mu.RUnlock()
		if err := check(ctx); err != nil {
			failed[name] = err.Error()
		}
	}
	return failed
}

// BindError attaches a request decoding failure. Field level validation
// errors stay reachable through errors.As for the validation middleware.
func BindError(c *gin.Context, err error) {
	_ = c.Error(apperrors.NewBadRequest("invalid request body", err)).SetType(gin.ErrorTypeBind)
}
