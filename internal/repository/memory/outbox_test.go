package memory

import (
	"context"
	"encoding/json"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/jwalitptl/clinic-registry/internal/model"
	apperrors "github.com/jwalitptl/clinic-registry/pkg/errors"
)

func newEvent(eventType string) *model.OutboxEvent {
	return &model.OutboxEvent{EventType: eventType, Payload: json.RawMessage(`{}`)}
}

func TestCreateAssignsIdentity(t *testing.T) {
	repo := NewOutboxRepository()
	ctx := context.Background()

	e := newEvent(model.EventAppointmentScheduled)
	require.NoError(t, repo.Create(ctx, e))
	assert.NotEqual(t, uuid.Nil, e.ID)
	assert.Equal(t, model.OutboxStatusPending, e.Status)

	assert.Error(t, repo.Create(ctx, nil))
	assert.Error(t, repo.Create(ctx, &model.OutboxEvent{EventType: "x"}))
}

func TestGetPendingEventsKeepsOrderAndLimit(t *testing.T) {
	repo := NewOutboxRepository()
	ctx := context.Background()

	types := []string{"a", "b", "c"}
	for _, typ := range types {
		require.NoError(t, repo.Create(ctx, newEvent(typ)))
	}

	pending, err := repo.GetPendingEvents(ctx, 2)
	require.NoError(t, err)
	require.Len(t, pending, 2)
	assert.Equal(t, "a", pending[0].EventType)
	assert.Equal(t, "b", pending[1].EventType)

	require.NoError(t, repo.UpdateStatus(ctx, pending[0].ID, model.OutboxStatusProcessed, nil))

	pending, err = repo.GetPendingEvents(ctx, 0)
	require.NoError(t, err)
	require.Len(t, pending, 2)
	assert.Equal(t, "b", pending[0].EventType)

	// returned events are copies
	pending[0].Status = model.OutboxStatusFailed
	again, _ := repo.GetPendingEvents(ctx, 0)
	assert.Len(t, again, 2)
}

func TestUpdateStatus(t *testing.T) {
	repo := NewOutboxRepository()
	ctx := context.Background()
	e := newEvent("a")
	require.NoError(t, repo.Create(ctx, e))

	msg := "broker down"
	require.NoError(t, repo.UpdateStatus(ctx, e.ID, model.OutboxStatusFailed, &msg))

	events := repo.Events()
	require.Len(t, events, 1)
	assert.Equal(t, model.OutboxStatusFailed, events[0].Status)
	assert.Equal(t, "broker down", *events[0].ErrorMessage)
	assert.Equal(t, 1, events[0].RetryCount)
	assert.Nil(t, events[0].ProcessedAt)

	err := repo.UpdateStatus(ctx, uuid.New(), model.OutboxStatusProcessed, nil)
	assert.True(t, apperrors.IsNotFound(err))
}

func TestDeleteFinishedBefore(t *testing.T) {
	repo := NewOutboxRepository()
	ctx := context.Background()
	base := time.Date(2025, 1, 10, 9, 0, 0, 0, time.UTC)
	repo.now = func() time.Time { return base }

	old, failed, recent, pending := newEvent("old"), newEvent("failed"), newEvent("recent"), newEvent("pending")
	for _, e := range []*model.OutboxEvent{old, failed, recent, pending} {
		require.NoError(t, repo.Create(ctx, e))
	}
	require.NoError(t, repo.UpdateStatus(ctx, old.ID, model.OutboxStatusProcessed, nil))
	msg := "publish failed"
	require.NoError(t, repo.UpdateStatus(ctx, failed.ID, model.OutboxStatusFailed, &msg))
	repo.now = func() time.Time { return base.Add(2 * time.Hour) }
	require.NoError(t, repo.UpdateStatus(ctx, recent.ID, model.OutboxStatusProcessed, nil))

	deleted, err := repo.DeleteFinishedBefore(ctx, base.Add(time.Hour))
	require.NoError(t, err)
	assert.Equal(t, int64(2), deleted)

	var left []string
	for _, e := range repo.Events() {
		left = append(left, e.EventType)
	}
	assert.Equal(t, []string{"recent", "pending"}, left)
}
