package main

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"os/signal"
	"syscall"

	"github.com/joho/godotenv"
	"github.com/rs/zerolog/log"
	"golang.org/x/time/rate"

	"github.com/jwalitptl/clinic-registry/config"
	"github.com/jwalitptl/clinic-registry/internal/app"
	"github.com/jwalitptl/clinic-registry/internal/handler"
	"github.com/jwalitptl/clinic-registry/internal/handler/appointment"
	"github.com/jwalitptl/clinic-registry/internal/handler/doctor"
	"github.com/jwalitptl/clinic-registry/internal/handler/patient"
	"github.com/jwalitptl/clinic-registry/internal/handler/visitcard"
	"github.com/jwalitptl/clinic-registry/internal/middleware"
	"github.com/jwalitptl/clinic-registry/internal/router"
	"github.com/jwalitptl/clinic-registry/pkg/logger"
)

func main() {
	// .env is optional outside local development
	_ = godotenv.Load()

	cfg, err := config.LoadConfig()
	if err != nil {
		log.Fatal().Err(err).Msg("failed to load configuration")
	}

	lg := logger.NewLogger(cfg.Log.ToLoggerConfig())

	a, err := app.New(cfg, lg)
	if err != nil {
		lg.Fatal(err, "failed to initialize application")
	}
	defer a.Close()

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	if err := a.Seed(ctx); err != nil {
		lg.Fatal(err, "failed to seed default appointments")
	}

	h := handler.NewHandler(a.Prometheus)
	if a.Broker != nil {
		h.AddReadinessCheck("redis", a.Broker.Ping)
	}

	var limit rate.Limit
	if cfg.RateLimit.Enabled {
		limit = rate.Limit(cfg.RateLimit.RequestsPerSecond)
	}

	r := router.NewRouter(h, router.RouterConfig{
		Mode:           cfg.Server.Mode,
		RequestTimeout: cfg.Server.RequestTimeout,
		RateLimit:      limit,
		RateBurst:      cfg.RateLimit.Burst,
		CORSConfig:     middleware.DefaultCORSConfig(),
		ExposeMetrics:  cfg.Monitoring.PrometheusEnabled,
		MetricsPath:    cfg.Monitoring.MetricsPath,
		Logger:         lg.With("http").Zerolog(),
		Metrics:        a.Metrics,
	},
		appointment.NewHandler(a.Appointments),
		doctor.NewHandler(a.Doctors, a.Appointments),
		patient.NewHandler(a.Patients),
		visitcard.NewHandler(a.VisitCards),
	)
	r.Setup()

	srv := &http.Server{
		Addr:         fmt.Sprintf(":%d", cfg.Server.Port),
		Handler:      r.Engine(),
		ReadTimeout:  cfg.Server.ReadTimeout,
		WriteTimeout: cfg.Server.WriteTimeout,
	}

	workersCtx, stopWorkers := context.WithCancel(context.Background())
	a.StartWorkers(workersCtx)

	go func() {
		lg.Info("Server starting", "addr", srv.Addr)
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			lg.Fatal(err, "failed to start server")
		}
	}()

	<-ctx.Done()
	lg.Info("Shutting down server...")

	shutdownCtx, cancel := context.WithTimeout(context.Background(), cfg.Server.ShutdownTimeout)
	defer cancel()
	if err := srv.Shutdown(shutdownCtx); err != nil {
		lg.Error(err, "server forced to shutdown")
	}

	// Requests are drained, so the outbox can be flushed for the last time.
	stopWorkers()
	a.Wait()

	lg.Info("Server exited properly")
}
