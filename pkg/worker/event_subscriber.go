package worker

import (
	"context"
	"encoding/json"
	"fmt"
	"sync"

	"github.com/jwalitptl/clinic-registry/pkg/logger"
	"github.com/jwalitptl/clinic-registry/pkg/messaging"
)

// Subscriber is the consuming side of a broker.
type Subscriber interface {
	Subscribe(ctx context.Context, channel string) (<-chan []byte, error)
}

// EventSubscriber relays events from a broker into a publisher, one
// subscription per event type.
type EventSubscriber struct {
	source Subscriber
	target messaging.Publisher
	logger *logger.Logger

	mu      sync.Mutex
	handled map[string]int
}

func NewEventSubscriber(source Subscriber, target messaging.Publisher, logger *logger.Logger) *EventSubscriber {
	return &EventSubscriber{
		source:  source,
		target:  target,
		logger:  logger,
		handled: make(map[string]int),
	}
}

// Run subscribes to every event type and relays until ctx is done or all
// subscriptions close. Subscription failures are returned before any
// relaying starts.
func (s *EventSubscriber) Run(ctx context.Context, eventTypes ...string) error {
	streams := make(map[string]<-chan []byte, len(eventTypes))
	for _, typ := range eventTypes {
		ch, err := s.source.Subscribe(ctx, typ)
		if err != nil {
			return fmt.Errorf("failed to subscribe to %s: %w", typ, err)
		}
		streams[typ] = ch
	}

	s.logger.Info("Event subscriber started", "event_types", len(streams))

	var wg sync.WaitGroup
	for typ, ch := range streams {
		wg.Add(1)
		go func(typ string, ch <-chan []byte) {
			defer wg.Done()
			for raw := range ch {
				s.relay(ctx, typ, raw)
			}
		}(typ, ch)
	}
	wg.Wait()

	s.logger.Info("Event subscriber stopped")
	return nil
}

// Handled returns how many events of eventType were relayed successfully.
func (s *EventSubscriber) Handled(eventType string) int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.handled[eventType]
}

func (s *EventSubscriber) relay(ctx context.Context, eventType string, raw []byte) {
	if !json.Valid(raw) {
		s.logger.Warn("Dropping malformed event", "event_type", eventType)
		return
	}
	s.logger.Info("Event received", "event_type", eventType)

	if err := s.target.Publish(ctx, eventType, json.RawMessage(raw)); err != nil {
		s.logger.Error(err, "Failed to relay event", "event_type", eventType)
		return
	}

	s.mu.Lock()
	s.handled[eventType]++
	s.mu.Unlock()
}
