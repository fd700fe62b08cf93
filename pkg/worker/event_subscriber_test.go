package worker

import (
	"context"
	"encoding/json"
	"errors"
	"testing"
	"time"

	"github.com/alicebob/miniredis/v2"
	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/jwalitptl/clinic-registry/internal/model"
	"github.com/jwalitptl/clinic-registry/pkg/logger"
	"github.com/jwalitptl/clinic-registry/pkg/messaging/redis"
	"github.com/jwalitptl/clinic-registry/pkg/metrics"
)

type failingSource struct{}

func (failingSource) Subscribe(context.Context, string) (<-chan []byte, error) {
	return nil, errors.New("no broker")
}

func TestEventSubscriberRelaysFromRedis(t *testing.T) {
	mr := miniredis.RunT(t)
	zl := zerolog.Nop()
	broker, err := redis.NewRedisBroker(redis.Config{URL: "redis://" + mr.Addr(), Prefix: "clinic"}, &zl, metrics.NewNop())
	require.NoError(t, err)
	defer broker.Close()

	target := newFakePublisher()
	sub := NewEventSubscriber(broker, target, logger.Nop())

	ctx, cancel := context.WithCancel(context.Background())
	done := make(chan error, 1)
	go func() { done <- sub.Run(ctx, model.EventTypes...) }()

	// Publishing before the subscriptions are confirmed would be lost.
	require.Eventually(t, func() bool {
		return mr.PubSubNumSub(broker.Channel(model.EventVisitCardCreated))[broker.Channel(model.EventVisitCardCreated)] == 1
	}, 2*time.Second, 10*time.Millisecond)

	payload := model.VisitCardEvent{DoctorName: "John Smith", PatientName: "Alice Smith", Diagnosis: "Flu"}
	require.NoError(t, broker.Publish(ctx, model.EventVisitCardCreated, payload))
	require.NoError(t, broker.Publish(ctx, model.EventVisitCardCreated, json.RawMessage(`not json`)))

	require.Eventually(t, func() bool {
		return sub.Handled(model.EventVisitCardCreated) == 1
	}, 2*time.Second, 10*time.Millisecond)
	assert.Zero(t, sub.Handled(model.EventPatientRegistered))

	cancel()
	select {
	case err := <-done:
		assert.NoError(t, err)
	case <-time.After(2 * time.Second):
		t.Fatal("subscriber did not stop")
	}
}

func TestEventSubscriberFailsToSubscribe(t *testing.T) {
	sub := NewEventSubscriber(failingSource{}, newFakePublisher(), logger.Nop())
	err := sub.Run(context.Background(), model.EventPatientRegistered)
	assert.ErrorContains(t, err, "no broker")
}

func TestEventSubscriberSkipsFailedRelay(t *testing.T) {
	ch := make(chan []byte, 2)
	ch <- []byte(`{"name":"Ivy Chen"}`)
	ch <- []byte(`{"name":"Ivy Chen"}`)
	close(ch)

	target := newFakePublisher()
	target.failures[model.EventPatientRegistered] = 1
	sub := NewEventSubscriber(staticSource{model.EventPatientRegistered: ch}, target, logger.Nop())

	require.NoError(t, sub.Run(context.Background(), model.EventPatientRegistered))
	assert.Equal(t, 1, sub.Handled(model.EventPatientRegistered))
	assert.Equal(t, 2, target.calls[model.EventPatientRegistered])
}

type staticSource map[string]chan []byte

func (s staticSource) Subscribe(_ context.Context, channel string) (<-chan []byte, error) {
	return s[channel], nil
}
