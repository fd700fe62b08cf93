package patient

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/jwalitptl/clinic-registry/internal/model"
	"github.com/jwalitptl/clinic-registry/internal/registry"
	"github.com/jwalitptl/clinic-registry/internal/repository/memory"
	"github.com/jwalitptl/clinic-registry/internal/service/event"
	apperrors "github.com/jwalitptl/clinic-registry/pkg/errors"
	"github.com/jwalitptl/clinic-registry/pkg/logger"
	"github.com/jwalitptl/clinic-registry/pkg/metrics"
)

func newService(t *testing.T) (*Service, *memory.OutboxRepository) {
	t.Helper()
	reg, err := registry.New()
	require.NoError(t, err)
	outbox := memory.NewOutboxRepository()
	return NewService(reg, event.NewEventService(outbox, logger.Nop()), logger.Nop(), metrics.NewNop()), outbox
}

func TestRegisterPatient(t *testing.T) {
	svc, outbox := newService(t)
	ctx := context.Background()

	p, created, err := svc.RegisterPatient(ctx, &model.CreatePatientRequest{Name: "  Ivy Chen ", DateOfBirth: "01.02.1990"})
	require.NoError(t, err)
	assert.True(t, created)
	assert.Equal(t, "Ivy Chen", p.Name)
	assert.True(t, svc.PatientExists(ctx, "Ivy Chen"))

	again, created, err := svc.RegisterPatient(ctx, &model.CreatePatientRequest{Name: "Ivy Chen", DateOfBirth: "31.12.1999"})
	require.NoError(t, err)
	assert.False(t, created)
	assert.Equal(t, p.ID, again.ID)
	assert.Equal(t, "01.02.1990", again.DateOfBirth)

	events := outbox.Events()
	require.Len(t, events, 1)
	assert.Equal(t, model.EventPatientRegistered, events[0].EventType)

	all, err := svc.ListPatients(ctx)
	require.NoError(t, err)
	assert.Len(t, all, 9)
}

func TestRegisterPatientValidation(t *testing.T) {
	svc, outbox := newService(t)

	_, _, err := svc.RegisterPatient(context.Background(), &model.CreatePatientRequest{Name: "   "})
	assert.True(t, apperrors.HasCode(err, apperrors.ErrBadRequest))
	assert.Empty(t, outbox.Events())
}

func TestGetPatient(t *testing.T) {
	svc, _ := newService(t)

	p, err := svc.GetPatient(context.Background(), "Henry Jackson")
	require.NoError(t, err)
	assert.Equal(t, "22.08.2006", p.DateOfBirth)

	_, err = svc.GetPatient(context.Background(), "Nobody")
	assert.True(t, apperrors.IsNotFound(err))
}
