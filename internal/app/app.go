// Package app assembles the registry, its services and the event pipeline from
// configuration. The API server and the console share it.
package app

import (
	"context"
	"errors"
	"fmt"
	"sync"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"

	"github.com/jwalitptl/clinic-registry/config"
	"github.com/jwalitptl/clinic-registry/internal/email"
	"github.com/jwalitptl/clinic-registry/internal/registry"
	"github.com/jwalitptl/clinic-registry/internal/repository/memory"
	"github.com/jwalitptl/clinic-registry/internal/service/appointment"
	"github.com/jwalitptl/clinic-registry/internal/service/doctor"
	"github.com/jwalitptl/clinic-registry/internal/service/event"
	"github.com/jwalitptl/clinic-registry/internal/service/medical"
	"github.com/jwalitptl/clinic-registry/internal/service/notification"
	"github.com/jwalitptl/clinic-registry/internal/service/patient"
	"github.com/jwalitptl/clinic-registry/pkg/logger"
	"github.com/jwalitptl/clinic-registry/pkg/messaging"
	"github.com/jwalitptl/clinic-registry/pkg/messaging/redis"
	"github.com/jwalitptl/clinic-registry/pkg/metrics"
	"github.com/jwalitptl/clinic-registry/pkg/worker"
)

type App struct {
	Config     *config.Config
	Logger     *logger.Logger
	Prometheus *prometheus.Registry
	Metrics    *metrics.Metrics

	Registry     *registry.Registry
	Outbox       *memory.OutboxRepository
	Appointments *appointment.Service
	Patients     *patient.Service
	Doctors      doctor.Service
	VisitCards   *medical.Service

	// Broker is nil unless Redis is enabled.
	Broker *redis.RedisBroker

	processor *worker.OutboxProcessor
	cleanup   *worker.OutboxCleanupWorker
	wg        sync.WaitGroup
}

func New(cfg *config.Config, log *logger.Logger) (*App, error) {
	reg, err := registry.New(registry.WithWorkingHours(cfg.Schedule.WorkingHours()))
	if err != nil {
		return nil, fmt.Errorf("failed to create registry: %w", err)
	}

	promReg := prometheus.NewRegistry()
	promReg.MustRegister(collectors.NewGoCollector(), collectors.NewProcessCollector(collectors.ProcessCollectorOpts{}))
	m := metrics.NewMetrics(promReg, cfg.Monitoring.Namespace)

	outbox := memory.NewOutboxRepository()
	events := event.NewEventService(outbox, log.With("events"))

	a := &App{
		Config:       cfg,
		Logger:       log,
		Prometheus:   promReg,
		Metrics:      m,
		Registry:     reg,
		Outbox:       outbox,
		Appointments: appointment.NewService(reg, reg, events, cfg.Cache.ToServiceConfig(), log.With("appointments"), m),
		Patients:     patient.NewService(reg, events, log.With("patients"), m),
		Doctors:      doctor.NewService(reg),
		VisitCards:   medical.NewService(reg, reg, events, log.With("visit_cards"), m),
	}

	publishers := messaging.FanOut{messaging.NewLogPublisher(log.With("publisher").Zerolog())}

	if cfg.Redis.Enabled {
		broker, err := redis.NewRedisBroker(cfg.Redis.ToBrokerConfig(), log.With("redis").Zerolog(), m)
		if err != nil {
			return nil, fmt.Errorf("failed to create Redis broker: %w", err)
		}
		a.Broker = broker
		publishers = append(publishers, broker)
	} else if cfg.Notification.Email.Enabled {
		// With Redis enabled the worker process owns notifications.
		publishers = append(publishers, NewNotifier(cfg))
	}

	a.processor, err = worker.NewOutboxProcessor(outbox, publishers, cfg.Outbox.ToWorkerConfig(), log.With("outbox"), m)
	if err != nil {
		a.Close()
		return nil, err
	}
	a.cleanup = worker.NewOutboxCleanupWorker(outbox, cfg.Outbox.Retention, cfg.Outbox.CleanupInterval, log.With("outbox_cleanup"))

	return a, nil
}

// NewNotifier builds the email notifier from the notification settings.
func NewNotifier(cfg *config.Config) *notification.Service {
	return notification.NewService(
		email.NewSMTPService(cfg.Notification.Email.ToEmailConfig()),
		cfg.Notification.Email.Recipient,
	)
}

// Seed generates the default schedule when configured to.
func (a *App) Seed(ctx context.Context) error {
	if !a.Config.Schedule.SeedDefaults {
		return nil
	}
	n, err := a.Appointments.SeedDefaults(ctx)
	if errors.Is(err, registry.ErrAlreadySeeded) {
		return nil
	}
	if err != nil {
		return err
	}
	a.Logger.Info("Schedule seeded", "appointments", n)
	return nil
}

// StartWorkers runs the outbox processor and cleanup until ctx is done.
func (a *App) StartWorkers(ctx context.Context) {
	a.wg.Add(2)
	go func() {
		defer a.wg.Done()
		a.processor.Start(ctx)
	}()
	go func() {
		defer a.wg.Done()
		a.cleanup.Start(ctx)
	}()
}

// Wait blocks until the workers have flushed and stopped.
func (a *App) Wait() {
	a.wg.Wait()
}

func (a *App) Close() error {
	if a.Broker != nil {
		return a.Broker.Close()
	}
	return nil
}
