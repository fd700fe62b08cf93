package main

import (
	"context"
	"os"
	"os/signal"
	"syscall"

	"github.com/joho/godotenv"
	"github.com/rs/zerolog/log"

	"github.com/jwalitptl/clinic-registry/config"
	"github.com/jwalitptl/clinic-registry/internal/app"
	"github.com/jwalitptl/clinic-registry/internal/console"
	"github.com/jwalitptl/clinic-registry/pkg/logger"
)

func main() {
	_ = godotenv.Load()

	cfg, err := config.LoadConfig()
	if err != nil {
		log.Fatal().Err(err).Msg("failed to load configuration")
	}

	// The menu owns stdout.
	logCfg := cfg.Log.ToLoggerConfig()
	logCfg.Output = os.Stderr
	if logCfg.Level < logger.WarnLevel {
		logCfg.Level = logger.WarnLevel
	}
	lg := logger.NewLogger(logCfg)

	a, err := app.New(cfg, lg)
	if err != nil {
		lg.Fatal(err, "failed to initialize application")
	}
	defer a.Close()

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	workersCtx, stopWorkers := context.WithCancel(context.Background())
	a.StartWorkers(workersCtx)

	c := console.New(os.Stdin, os.Stdout, console.Dependencies{
		Appointments: a.Appointments,
		Patients:     a.Patients,
		Doctors:      a.Doctors,
		VisitCards:   a.VisitCards,
		Logger:       lg,
	})
	if err := c.Run(ctx); err != nil {
		lg.Error(err, "console stopped")
	}

	stopWorkers()
	a.Wait()
}
