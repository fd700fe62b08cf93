package worker

import (
	"context"
	"time"

	"github.com/jwalitptl/clinic-registry/internal/repository"
	"github.com/jwalitptl/clinic-registry/pkg/logger"
)

// OutboxCleanupWorker periodically drops processed outbox events older than the
// retention window.
type OutboxCleanupWorker struct {
	repo      repository.OutboxRepository
	retention time.Duration
	interval  time.Duration
	logger    *logger.Logger
	now       func() time.Time
}

func NewOutboxCleanupWorker(repo repository.OutboxRepository, retention, interval time.Duration, logger *logger.Logger) *OutboxCleanupWorker {
	return &OutboxCleanupWorker{
		repo:      repo,
		retention: retention,
		interval:  interval,
		logger:    logger,
		now:       time.Now,
	}
}

func (w *OutboxCleanupWorker) Start(ctx context.Context) {
	ticker := time.NewTicker(w.interval)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			return
		case <-ticker.C:
			w.Cleanup(ctx)
		}
	}
}

// Cleanup runs one pass and returns the number of events removed.
func (w *OutboxCleanupWorker) Cleanup(ctx context.Context) int64 {
	cutoff := w.now().Add(-w.retention)
	rows, err := w.repo.DeleteFinishedBefore(ctx, cutoff)
	if err != nil {
		w.logger.Error(err, "Failed to clean up outbox events")
		return 0
	}
	if rows > 0 {
		w.logger.Debug("Cleaned up outbox events", "deleted", rows, "cutoff", cutoff)
	}
	return rows
}
