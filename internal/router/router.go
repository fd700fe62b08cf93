package router

import (
	"time"

	"github.com/gin-gonic/gin"
	"github.com/rs/zerolog"
	"golang.org/x/time/rate"

	"github.com/jwalitptl/clinic-registry/internal/handler"
	"github.com/jwalitptl/clinic-registry/internal/middleware"
	"github.com/jwalitptl/clinic-registry/pkg/metrics"
)

type Handler interface {
	RegisterRoutes(*gin.RouterGroup)
}

type Router struct {
	engine   *gin.Engine
	h        *handler.Handler
	handlers []Handler
	config   RouterConfig
}

type RouterConfig struct {
	Mode           string
	RequestTimeout time.Duration
	// RateLimit of zero disables per-client limiting.
	RateLimit  rate.Limit
	RateBurst  int
	CORSConfig middleware.CORSConfig
	// ExposeMetrics serves the Prometheus registry at MetricsPath.
	ExposeMetrics bool
	MetricsPath   string
	Logger        *zerolog.Logger
	Metrics       *metrics.Metrics
}

func NewRouter(h *handler.Handler, config RouterConfig, handlers ...Handler) *Router {
	if config.Mode != "" {
		gin.SetMode(config.Mode)
	}
	if config.MetricsPath == "" {
		config.MetricsPath = "/metrics"
	}
	if config.RequestTimeout <= 0 {
		config.RequestTimeout = middleware.DefaultTimeoutConfig().Duration
	}

	engine := gin.New()

	engine.Use(
		middleware.Recovery(config.Logger),
		middleware.RequestID(),
		middleware.Logger(config.Logger),
		middleware.ErrorHandler(config.Logger),
		middleware.Metrics(config.Metrics),
		middleware.Timeout(middleware.TimeoutConfig{Duration: config.RequestTimeout}),
		middleware.CORS(config.CORSConfig),
		middleware.SecurityHeaders(middleware.DefaultSecurityConfig()),
		middleware.SizeLimit(middleware.DefaultSizeLimitConfig()),
	)

	if config.RateLimit > 0 {
		rateLimiter := middleware.NewRateLimiter(middleware.RateLimiterConfig{
			Rate:  config.RateLimit,
			Burst: config.RateBurst,
		})
		engine.Use(rateLimiter.RateLimit())
	}

	engine.Use(middleware.Validation())

	return &Router{
		engine:   engine,
		h:        h,
		handlers: handlers,
		config:   config,
	}
}

func (r *Router) Setup() {
	r.engine.GET("/health", r.h.HealthCheck)
	r.engine.GET("/ready", r.h.ReadinessCheck)
	if r.config.ExposeMetrics {
		r.engine.GET(r.config.MetricsPath, r.h.MetricsHandler())
	}

	api := r.engine.Group("/api/v1")
	for _, h := range r.handlers {
		h.RegisterRoutes(api)
	}
}

func (r *Router) Engine() *gin.Engine {
	return r.engine
}
