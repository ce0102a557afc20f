package notify

import (
	"context"
	"time"

	"housecup/metrics"
	"housecup/registry"
	"housecup/utils"

	"github.com/rs/zerolog"
	"golang.org/x/time/rate"
)

// Refresher re-reads the ledger for scope. It must be idempotent.
type Refresher interface {
	Refresh(ctx context.Context, scope registry.Sector, trigger string) error
}

// Source is a named subscriber so metrics and logs can tell sources apart.
type Source struct {
	Name       string
	Subscriber Subscriber
}

// Bridge reacts to change events by refreshing the affected standings scopes.
// Bursts are coalesced by a rate limiter. A periodic sweep refreshes every
// scope regardless of events and re-subscribes sources that dropped out.
type Bridge struct {
	sources   []Source
	filter    Filter
	refresher Refresher
	interval  time.Duration
	limiter   *rate.Limiter
	logger    zerolog.Logger
	onSweep   []func(ctx context.Context)
}

func NewBridge(refresher Refresher, interval time.Duration, refreshRate float64, logger zerolog.Logger, sources ...Source) *Bridge {
	return &Bridge{
		sources:   sources,
		refresher: refresher,
		interval:  interval,
		limiter:   rate.NewLimiter(rate.Limit(refreshRate), 1),
		logger:    logger.With().Str("component", "bridge").Logger(),
	}
}

// WithFilter scopes the subscription, e.g. to one sector.
func (b *Bridge) WithFilter(filter Filter) *Bridge {
	b.filter = filter
	return b
}

// OnSweep registers work to run on every reconciliation tick.
func (b *Bridge) OnSweep(fn func(ctx context.Context)) {
	b.onSweep = append(b.onSweep, fn)
}

type sourceState struct {
	Source
	ch <-chan Event
}

func (b *Bridge) subscribe(ctx context.Context, s *sourceState) {
	ch, err := s.Subscriber.Subscribe(ctx, b.filter)
	if err != nil {
		b.logger.Warn().Err(err).Str("source", s.Name).Msg("subscribe failed, relying on sweep")
		return
	}
	s.ch = ch
}

// Run blocks until ctx is cancelled.
func (b *Bridge) Run(ctx context.Context) error {
	events := make(chan Event)
	states := make([]*sourceState, len(b.sources))
	for i, source := range b.sources {
		states[i] = &sourceState{Source: source}
	}
	// one forwarder per live subscription; a closed source is marked for
	// re-subscription on the next sweep
	dropped := make(chan *sourceState, len(states))
	forward := func(s *sourceState) {
		for event := range s.ch {
			metrics.NotificationsTotal.WithLabelValues(s.Name).Inc()
			select {
			case events <- event:
			case <-ctx.Done():
				return
			}
		}
		if ctx.Err() == nil {
			dropped <- s
		}
	}
	// sources that are down at startup are retried by the sweep
	var lost []*sourceState
	for _, s := range states {
		b.subscribe(ctx, s)
		if s.ch == nil {
			lost = append(lost, s)
			continue
		}
		go forward(s)
	}

	b.refreshAll(ctx, "startup")

	ticker := time.NewTicker(b.interval)
	defer ticker.Stop()
	dirty := make(map[registry.Sector]bool)
	var flush <-chan time.Time

	for {
		select {
		case <-ctx.Done():
			return nil
		case s := <-dropped:
			b.logger.Warn().Str("source", s.Name).Msg("subscription closed")
			s.ch = nil
			lost = append(lost, s)
		case event := <-events:
			for _, scope := range event.Scopes() {
				dirty[scope] = true
			}
			if flush == nil {
				flush = time.After(b.limiter.Reserve().Delay())
			}
		case <-flush:
			flush = nil
			for _, scope := range utils.SortedKeys(dirty) {
				b.refresh(ctx, scope, "event")
			}
			dirty = make(map[registry.Sector]bool)
		case <-ticker.C:
			for _, s := range lost {
				b.subscribe(ctx, s)
				if s.ch != nil {
					go forward(s)
				}
			}
			lost = utils.Filter(lost, func(s *sourceState) bool { return s.ch == nil })
			b.refreshAll(ctx, "sweep")
			for _, fn := range b.onSweep {
				fn(ctx)
			}
		}
	}
}

func (b *Bridge) refreshAll(ctx context.Context, trigger string) {
	for _, scope := range append(registry.Sectors(), registry.Global) {
		b.refresh(ctx, scope, trigger)
	}
}

func (b *Bridge) refresh(ctx context.Context, scope registry.Sector, trigger string) {
	metrics.RefreshesTotal.WithLabelValues(trigger).Inc()
	if err := b.refresher.Refresh(ctx, scope, trigger); err != nil && ctx.Err() == nil {
		b.logger.Warn().Err(err).Str("scope", string(scope)).Str("trigger", trigger).Msg("refresh failed")
	}
}
