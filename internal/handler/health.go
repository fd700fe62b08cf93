package handler

import (
	"context"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"

	"github.com/jwalitptl/clinic-registry/pkg/httputil"
)

func (h *Handler) HealthCheck(c *gin.Context) {
	httputil.RespondWithSuccess(c, gin.H{
		"status": "healthy",
		"uptime": time.Since(h.started).Round(time.Second).String(),
	})
}

func (h *Handler) ReadinessCheck(c *gin.Context) {
	ctx, cancel := context.WithTimeout(c.Request.Context(), 2*time.Second)
	defer cancel()

	if failed := h.runChecks(ctx); len(failed) > 0 {
		c.JSON(http.StatusServiceUnavailable, httputil.Response{
			Status:  "error",
			Message: "not ready",
			Data:    failed,
		})
		return
	}
	httputil.RespondWithSuccess(c, gin.H{"status": "ready"})
}
