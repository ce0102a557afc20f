package notify

import (
	"context"
	"encoding/json"
	"errors"

	"housecup/app_error"

	"github.com/rs/zerolog"
	"github.com/segmentio/kafka-go"
)

type KafkaPublisher struct {
	writer *kafka.Writer
}

func NewKafkaPublisher(writer *kafka.Writer) *KafkaPublisher {
	return &KafkaPublisher{writer: writer}
}

func (p *KafkaPublisher) Publish(ctx context.Context, event Event) error {
	value, err := json.Marshal(event)
	if err != nil {
		return err
	}
	if err := p.writer.WriteMessages(ctx, kafka.Message{Key: []byte(event.Sector), Value: value}); err != nil {
		return app_error.Transport(err)
	}
	return nil
}

func (p *KafkaPublisher) Close() error {
	return p.writer.Close()
}

// messageReader is the part of *kafka.Reader the subscriber needs.
type messageReader interface {
	ReadMessage(ctx context.Context) (kafka.Message, error)
	Close() error
}

// KafkaSubscriber opens a fresh reader per subscription, so the bridge can
// resubscribe after a broker failure closed the previous one.
type KafkaSubscriber struct {
	open   func() (messageReader, error)
	logger zerolog.Logger
}

func NewKafkaSubscriber(open func() (*kafka.Reader, error), logger zerolog.Logger) *KafkaSubscriber {
	return &KafkaSubscriber{
		open: func() (messageReader, error) {
			return open()
		},
		logger: logger.With().Str("component", "kafka-subscriber").Logger(),
	}
}

func (s *KafkaSubscriber) Subscribe(ctx context.Context, filter Filter) (<-chan Event, error) {
	reader, err := s.open()
	if err != nil {
		return nil, app_error.Transport(err)
	}
	out := make(chan Event, subscriberBuffer)
	go func() {
		defer close(out)
		defer func() {
			if err := reader.Close(); err != nil {
				s.logger.Warn().Err(err).Msg("closing reader")
			}
		}()
		for {
			msg, err := reader.ReadMessage(ctx)
			if err != nil {
				if ctx.Err() == nil && !errors.Is(err, context.Canceled) {
					s.logger.Error().Err(err).Msg("reading change events")
				}
				return
			}
			event := Event{}
			if err := json.Unmarshal(msg.Value, &event); err != nil {
				event = Event{Op: OpResync, At: msg.Time}
			}
			if !filter.Match(event) {
				continue
			}
			select {
			case out <- event:
			case <-ctx.Done():
				return
			}
		}
	}()
	return out, nil
}
