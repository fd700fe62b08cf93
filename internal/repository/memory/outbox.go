package memory

import (
	"context"
	"fmt"
	"sync"
	"time"

	"github.com/google/uuid"

	"github.com/jwalitptl/clinic-registry/internal/model"
	"github.com/jwalitptl/clinic-registry/internal/repository"
	apperrors "github.com/jwalitptl/clinic-registry/pkg/errors"
)

// OutboxRepository keeps outbox events in insertion order.
type OutboxRepository struct {
	mu     sync.Mutex
	events []*model.OutboxEvent
	now    func() time.Time
}

func NewOutboxRepository() *OutboxRepository {
	return &OutboxRepository{now: time.Now}
}

func (r *OutboxRepository) Create(_ context.Context, event *model.OutboxEvent) error {
	if event == nil {
		return fmt.Errorf("event cannot be nil")
	}
	if event.Payload == nil {
		return fmt.Errorf("event payload cannot be nil")
	}

	r.mu.Lock()
	defer r.mu.Unlock()

	now := r.now()
	event.ID = uuid.New()
	event.Status = model.OutboxStatusPending
	event.CreatedAt = now
	event.UpdatedAt = now

	stored := *event
	r.events = append(r.events, &stored)
	return nil
}

// GetPendingEvents returns copies of the oldest pending events, at most limit.
func (r *OutboxRepository) GetPendingEvents(_ context.Context, limit int) ([]*model.OutboxEvent, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	var out []*model.OutboxEvent
	for _, e := range r.events {
		if limit > 0 && len(out) == limit {
			break
		}
		if e.Status == model.OutboxStatusPending {
			c := *e
			out = append(out, &c)
		}
	}
	return out, nil
}

func (r *OutboxRepository) UpdateStatus(_ context.Context, id uuid.UUID, status model.OutboxStatus, errorMessage *string) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	for _, e := range r.events {
		if e.ID != id {
			continue
		}
		now := r.now()
		e.Status = status
		e.ErrorMessage = errorMessage
		e.UpdatedAt = now
		switch status {
		case model.OutboxStatusProcessed:
			e.ProcessedAt = &now
		case model.OutboxStatusFailed:
			e.RetryCount++
		}
		return nil
	}
	return apperrors.NewNotFound("outbox event", fmt.Errorf("id %s", id))
}

// DeleteFinishedBefore drops processed and failed events that settled before
// before and reports how many went. Pending events are never dropped.
func (r *OutboxRepository) DeleteFinishedBefore(_ context.Context, before time.Time) (int64, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	kept := r.events[:0]
	var deleted int64
	for _, e := range r.events {
		if finishedBefore(e, before) {
			deleted++
			continue
		}
		kept = append(kept, e)
	}
	for i := len(kept); i < len(r.events); i++ {
		r.events[i] = nil
	}
	r.events = kept
	return deleted, nil
}

func finishedBefore(e *model.OutboxEvent, before time.Time) bool {
	switch e.Status {
	case model.OutboxStatusProcessed:
		return e.ProcessedAt != nil && e.ProcessedAt.Before(before)
	case model.OutboxStatusFailed:
		return e.UpdatedAt.Before(before)
	}
	return false
}

// Events returns a snapshot of every stored event.
func (r *OutboxRepository) Events() []model.OutboxEvent {
	r.mu.Lock()
	defer r.mu.Unlock()

	out := make([]model.OutboxEvent, 0, len(r.events))
	for _, e := range r.events {
		out = append(out, *e)
	}
	return out
}

var _ repository.OutboxRepository = (*OutboxRepository)(nil)
