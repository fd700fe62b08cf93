package main

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"os/signal"
	"syscall"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/joho/godotenv"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"
	"github.com/rs/zerolog/log"

	"github.com/jwalitptl/clinic-registry/config"
	"github.com/jwalitptl/clinic-registry/internal/app"
	"github.com/jwalitptl/clinic-registry/internal/handler"
	"github.com/jwalitptl/clinic-registry/internal/model"
	"github.com/jwalitptl/clinic-registry/pkg/logger"
	"github.com/jwalitptl/clinic-registry/pkg/messaging"
	"github.com/jwalitptl/clinic-registry/pkg/messaging/redis"
	"github.com/jwalitptl/clinic-registry/pkg/metrics"
	"github.com/jwalitptl/clinic-registry/pkg/worker"
)

// healthPort serves the worker's probes and metrics.
const healthPort = 8081

func main() {
	_ = godotenv.Load()

	cfg, err := config.LoadConfig()
	if err != nil {
		log.Fatal().Err(err).Msg("failed to load configuration")
	}

	lg := logger.NewLogger(cfg.Log.ToLoggerConfig())
	if !cfg.Redis.Enabled {
		lg.Fatal(errors.New("redis is disabled"), "the worker consumes events from Redis")
	}

	reg := prometheus.NewRegistry()
	reg.MustRegister(collectors.NewGoCollector(), collectors.NewProcessCollector(collectors.ProcessCollectorOpts{}))
	m := metrics.NewMetrics(reg, cfg.Monitoring.Namespace)

	broker, err := redis.NewRedisBroker(cfg.Redis.ToBrokerConfig(), lg.With("redis").Zerolog(), m)
	if err != nil {
		lg.Fatal(err, "failed to create Redis broker")
	}
	defer broker.Close()

	var target messaging.Publisher = messaging.NewLogPublisher(lg.With("notifications").Zerolog())
	if cfg.Notification.Email.Enabled {
		target = app.NewNotifier(cfg)
	}

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	srv := setupHealthCheck(reg, broker, cfg.Server.Mode)
	go func() {
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			lg.Error(err, "health check server failed")
			stop()
		}
	}()

	sub := worker.NewEventSubscriber(broker, target, lg.With("subscriber"))
	if err := sub.Run(ctx, model.EventTypes...); err != nil {
		lg.Error(err, "event subscriber failed")
	}

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	if err := srv.Shutdown(shutdownCtx); err != nil {
		lg.Error(err, "health check server forced to shutdown")
	}
	lg.Info("Worker exited")
}

func setupHealthCheck(reg *prometheus.Registry, broker *redis.RedisBroker, mode string) *http.Server {
	if mode != "" {
		gin.SetMode(mode)
	}

	h := handler.NewHandler(reg)
	h.AddReadinessCheck("redis", broker.Ping)

	engine := gin.New()
	engine.Use(gin.Recovery())
	engine.GET("/health/live", h.HealthCheck)
	engine.GET("/health/ready", h.ReadinessCheck)
	engine.GET("/metrics", h.MetricsHandler())

	return &http.Server{
		Addr:    fmt.Sprintf(":%d", healthPort),
		Handler: engine,
	}
}
