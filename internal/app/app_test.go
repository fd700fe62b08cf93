package app

import (
	"context"
	"encoding/json"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/alicebob/miniredis/v2"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/jwalitptl/clinic-registry/config"
	"github.com/jwalitptl/clinic-registry/internal/model"
	"github.com/jwalitptl/clinic-registry/pkg/logger"
)

func loadConfig(t *testing.T, extra string) *config.Config {
	t.Helper()
	path := filepath.Join(t.TempDir(), "config.yml")
	require.NoError(t, os.WriteFile(path, []byte(`
outbox:
  poll_interval: 10ms
  retry_attempts: 1
  retry_delay: 1ms
`+extra), 0o600))

	cfg, err := config.Load(path)
	require.NoError(t, err)
	return cfg
}

func TestNewWiresServices(t *testing.T) {
	cfg := loadConfig(t, "")
	a, err := New(cfg, logger.Nop())
	require.NoError(t, err)
	defer a.Close()

	assert.Nil(t, a.Broker)
	assert.Equal(t, model.DefaultWorkingHours(), a.Registry.WorkingHours())

	require.NoError(t, a.Seed(context.Background()))
	assert.Len(t, a.Registry.Appointments(), 32)

	require.NoError(t, a.Seed(context.Background()))
	assert.Len(t, a.Registry.Appointments(), 32)
}

func TestSeedDisabled(t *testing.T) {
	cfg := loadConfig(t, "schedule:\n  seed_defaults: false\n")
	a, err := New(cfg, logger.Nop())
	require.NoError(t, err)

	require.NoError(t, a.Seed(context.Background()))
	assert.Empty(t, a.Registry.Appointments())
}

func TestWorkersDrainOutbox(t *testing.T) {
	cfg := loadConfig(t, "")
	a, err := New(cfg, logger.Nop())
	require.NoError(t, err)

	ctx, cancel := context.WithCancel(context.Background())
	a.StartWorkers(ctx)

	_, _, err = a.Patients.RegisterPatient(ctx, &model.CreatePatientRequest{Name: "Ivy Chen"})
	require.NoError(t, err)

	require.Eventually(t, func() bool {
		events := a.Outbox.Events()
		return len(events) == 1 && events[0].Status == model.OutboxStatusProcessed
	}, 2*time.Second, 10*time.Millisecond)

	cancel()
	a.Wait()
}

func TestEventsReachRedis(t *testing.T) {
	mr := miniredis.RunT(t)
	cfg := loadConfig(t, "redis:\n  enabled: true\n  url: redis://"+mr.Addr()+"\n  prefix: clinic\n")

	a, err := New(cfg, logger.Nop())
	require.NoError(t, err)
	defer a.Close()
	require.NotNil(t, a.Broker)

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	msgs, err := a.Broker.Subscribe(ctx, model.EventPatientRegistered)
	require.NoError(t, err)

	a.StartWorkers(ctx)
	_, _, err = a.Patients.RegisterPatient(ctx, &model.CreatePatientRequest{Name: "Ivy Chen", DateOfBirth: "01.02.1990"})
	require.NoError(t, err)

	select {
	case raw := <-msgs:
		var e model.PatientEvent
		require.NoError(t, json.Unmarshal(raw, &e))
		assert.Equal(t, "Ivy Chen", e.Name)
	case <-time.After(2 * time.Second):
		t.Fatal("event was not published to Redis")
	}

	cancel()
	a.Wait()
}

func TestNewFailsWithoutRedis(t *testing.T) {
	cfg := loadConfig(t, "redis:\n  enabled: true\n  url: redis://127.0.0.1:1\n  max_retries: -1\n")
	_, err := New(cfg, logger.Nop())
	assert.Error(t, err)
}
