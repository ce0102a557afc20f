package notify

import (
	"context"
	"encoding/json"
	"time"

	"housecup/app_error"

	"github.com/lib/pq"
	"github.com/rs/zerolog"
)

// PgListener turns pg_notify messages from the change feed trigger into
// events.
type PgListener struct {
	dsn     string
	channel string
	logger  zerolog.Logger
}

func NewPgListener(dsn, channel string, logger zerolog.Logger) *PgListener {
	return &PgListener{dsn: dsn, channel: channel, logger: logger.With().Str("component", "pg-listener").Logger()}
}

func (l *PgListener) Subscribe(ctx context.Context, filter Filter) (<-chan Event, error) {
	listener := pq.NewListener(l.dsn, time.Second, 30*time.Second, func(ev pq.ListenerEventType, err error) {
		if err != nil {
			l.logger.Warn().Err(err).Int("event", int(ev)).Msg("listener connection event")
		}
	})
	if err := listener.Listen(l.channel); err != nil {
		_ = listener.Close()
		return nil, app_error.Transport(err)
	}
	out := make(chan Event, subscriberBuffer)
	go func() {
		defer close(out)
		defer func() {
			if err := listener.Close(); err != nil {
				l.logger.Warn().Err(err).Msg("closing listener")
			}
		}()
		for {
			select {
			case <-ctx.Done():
				return
			case n, ok := <-listener.Notify:
				if !ok {
					return
				}
				event := l.decode(n)
				if !filter.Match(event) {
					continue
				}
				select {
				case out <- event:
				case <-ctx.Done():
					return
				}
			}
		}
	}()
	return out, nil
}

// decode never fails: a nil notification (sent after a reconnect) or an
// unreadable payload becomes a resync.
func (l *PgListener) decode(n *pq.Notification) Event {
	if n == nil {
		return Event{Op: OpResync, At: time.Now()}
	}
	event := Event{}
	if err := json.Unmarshal([]byte(n.Extra), &event); err != nil {
		l.logger.Debug().Err(err).Str("payload", n.Extra).Msg("unreadable notification")
		return Event{Op: OpResync, At: time.Now()}
	}
	return event
}
