package service

import (
	"context"
	"sync"
	"sync/atomic"
	"time"

	"housecup/metrics"
	"housecup/registry"
	"housecup/repository"
	"housecup/scoring"

	"github.com/rs/zerolog"
)

type Snapshot struct {
	Scope      registry.Sector     `json:"scope"`
	Standings  []*scoring.Standing `json:"standings"`
	ComputedAt time.Time           `json:"computed_at"`

	// Seq orders reads: a snapshot is only replaced by one whose read started
	// later.
	Seq uint64 `json:"seq"`
}

// StandingsService caches the standings projection per scope. It holds no
// state that cannot be rebuilt from the result ledger.
type StandingsService struct {
	store     repository.Store
	seq       atomic.Uint64
	mu        sync.RWMutex
	snapshots map[registry.Sector]*Snapshot
	listeners map[registry.Sector]map[chan *Snapshot]struct{}
	now       func() time.Time
	logger    zerolog.Logger
}

func NewStandingsService(store repository.Store, logger zerolog.Logger) *StandingsService {
	return &StandingsService{
		store:     store,
		snapshots: make(map[registry.Sector]*Snapshot),
		listeners: make(map[registry.Sector]map[chan *Snapshot]struct{}),
		now:       time.Now,
		logger:    logger.With().Str("service", "standings").Logger(),
	}
}

// Refresh re-reads the ledger for scope. A refresh whose read started before
// the currently cached one is discarded, so a slow sweep never replaces a
// fresher event driven read.
func (s *StandingsService) Refresh(ctx context.Context, scope registry.Sector, trigger string) error {
	_, err := s.refresh(ctx, scope, trigger)
	return err
}

func (s *StandingsService) refresh(ctx context.Context, scope registry.Sector, trigger string) (*Snapshot, error) {
	seq := s.seq.Add(1)
	filter := repository.ResultFilter{}
	if scope != registry.Global {
		filter.Sector = scope
	}
	start := time.Now()
	results, err := s.store.ListResults(ctx, filter)
	if err != nil {
		return nil, err
	}
	snapshot := &Snapshot{
		Scope:      scope,
		Standings:  scoring.SectorStandings(scope, results),
		ComputedAt: s.now(),
		Seq:        seq,
	}
	metrics.StandingsComputeDuration.Observe(time.Since(start).Seconds())

	s.mu.Lock()
	defer s.mu.Unlock()
	if current, ok := s.snapshots[scope]; ok && current.Seq > seq {
		s.logger.Debug().Str("scope", string(scope)).Str("trigger", trigger).Msg("discarding stale standings read")
		return current, nil
	}
	s.snapshots[scope] = snapshot
	for ch := range s.listeners[scope] {
		select {
		case ch <- snapshot:
		default:
			// keep only the newest snapshot for slow listeners
			select {
			case <-ch:
			default:
			}
			select {
			case ch <- snapshot:
			default:
			}
		}
	}
	return snapshot, nil
}

// Current returns the cached snapshot for scope, computing it on first use.
func (s *StandingsService) Current(ctx context.Context, scope registry.Sector) (*Snapshot, error) {
	s.mu.RLock()
	snapshot, ok := s.snapshots[scope]
	s.mu.RUnlock()
	if ok {
		return snapshot, nil
	}
	return s.refresh(ctx, scope, "read")
}

// Replay drops every cached snapshot and rebuilds all scopes from the ledger.
func (s *StandingsService) Replay(ctx context.Context) (map[registry.Sector]*Snapshot, error) {
	s.mu.Lock()
	s.snapshots = make(map[registry.Sector]*Snapshot)
	s.mu.Unlock()
	out := make(map[registry.Sector]*Snapshot)
	for _, scope := range append(registry.Sectors(), registry.Global) {
		snapshot, err := s.refresh(ctx, scope, "replay")
		if err != nil {
			return nil, err
		}
		out[scope] = snapshot
	}
	return out, nil
}

// Subscribe delivers every new snapshot for scope until the returned
// function is called.
func (s *StandingsService) Subscribe(scope registry.Sector) (<-chan *Snapshot, func()) {
	ch := make(chan *Snapshot, 1)
	s.mu.Lock()
	if s.listeners[scope] == nil {
		s.listeners[scope] = make(map[chan *Snapshot]struct{})
	}
	s.listeners[scope][ch] = struct{}{}
	s.mu.Unlock()
	metrics.SubscribersGauge.WithLabelValues(string(scope)).Inc()
	var once sync.Once
	return ch, func() {
		once.Do(func() {
			s.mu.Lock()
			delete(s.listeners[scope], ch)
			s.mu.Unlock()
			metrics.SubscribersGauge.WithLabelValues(string(scope)).Dec()
		})
	}
}

// Audit reads the whole ledger and summarises it for review. It bypasses
// the snapshot cache so the report always reflects the store.
func (s *StandingsService) Audit(ctx context.Context) (*scoring.LedgerAudit, error) {
	results, err := s.store.ListResults(ctx, repository.ResultFilter{})
	if err != nil {
		return nil, err
	}
	audit := scoring.AuditLedger(results)
	if !audit.Clean() {
		s.logger.Warn().
			Int("heavy_officials", len(audit.HeavyOfficials)).
			Bool("win_streak", audit.Streak != nil).
			Msg("ledger audit raised anomalies")
	}
	return audit, nil
}
