package event

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/jwalitptl/clinic-registry/internal/model"
	"github.com/jwalitptl/clinic-registry/internal/repository/memory"
	"github.com/jwalitptl/clinic-registry/pkg/logger"
)

func TestEmitQueuesPendingEvent(t *testing.T) {
	repo := memory.NewOutboxRepository()
	svc := NewEventService(repo, logger.Nop())

	err := svc.Emit(context.Background(), model.EventPatientRegistered, model.PatientEvent{
		Name:        "Alice Smith",
		DateOfBirth: "23.08.1997",
	})
	require.NoError(t, err)

	events := repo.Events()
	require.Len(t, events, 1)
	assert.Equal(t, model.EventPatientRegistered, events[0].EventType)
	assert.Equal(t, model.OutboxStatusPending, events[0].Status)
	assert.JSONEq(t, `{"name":"Alice Smith","date_of_birth":"23.08.1997"}`, string(events[0].Payload))
}

func TestEmitRejectsUnencodablePayload(t *testing.T) {
	repo := memory.NewOutboxRepository()
	svc := NewEventService(repo, logger.Nop())

	assert.Error(t, svc.Emit(context.Background(), "x", func() {}))
	assert.Empty(t, repo.Events())
}
