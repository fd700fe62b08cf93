package messaging

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"

	"github.com/rs/zerolog"
)

// FanOut publishes every message to all of its publishers. A failing publisher
// does not stop the others; their errors are joined.
type FanOut []Publisher

func (f FanOut) Publish(ctx context.Context, channel string, message interface{}) error {
	var errs []error
	for _, p := range f {
		if err := p.Publish(ctx, channel, message); err != nil {
			errs = append(errs, err)
		}
	}
	return errors.Join(errs...)
}

// LogPublisher writes messages to a zerolog logger. It is the sink used when no
// broker is configured.
type LogPublisher struct {
	logger *zerolog.Logger
}

func NewLogPublisher(logger *zerolog.Logger) *LogPublisher {
	return &LogPublisher{logger: logger}
}

func (p *LogPublisher) Publish(_ context.Context, channel string, message interface{}) error {
	payload, err := Encode(message)
	if err != nil {
		return err
	}
	p.logger.Info().
		Str("channel", channel).
		RawJSON("payload", payload).
		Msg("event published")
	return nil
}

// Encode passes raw JSON through untouched and marshals anything else.
func Encode(message interface{}) ([]byte, error) {
	switch m := message.(type) {
	case json.RawMessage:
		return m, nil
	case []byte:
		if json.Valid(m) {
			return m, nil
		}
	}
	b, err := json.Marshal(message)
	if err != nil {
		return nil, fmt.Errorf("failed to marshal message: %w", err)
	}
	return b, nil
}

