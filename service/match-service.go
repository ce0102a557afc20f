package service

import (
	"context"
	"errors"
	"sort"
	"time"

	"housecup/app_error"
	"housecup/auth"
	"housecup/metrics"
	"housecup/notify"
	"housecup/registry"
	"housecup/repository"

	"github.com/rs/zerolog"
)

// cancelAttempts bounds the internal re-read loop of Cancel.
const cancelAttempts = 3

type MatchService struct {
	store     repository.Store
	publisher notify.Publisher
	now       func() time.Time
	logger    zerolog.Logger
}

func NewMatchService(store repository.Store, publisher notify.Publisher, logger zerolog.Logger) *MatchService {
	return &MatchService{
		store:     store,
		publisher: publisher,
		now:       time.Now,
		logger:    logger.With().Str("service", "match").Logger(),
	}
}

type MatchListing struct {
	Active   []*repository.Match `json:"active"`
	Archived []*repository.Match `json:"archived"`
}

func (s *MatchService) Get(ctx context.Context, id string) (*repository.Match, error) {
	return s.store.GetMatch(ctx, id)
}

// List splits a sector's matches into active ones (creation order) and
// archived ones (most recently sealed first).
func (s *MatchService) List(ctx context.Context, sector registry.Sector) (*MatchListing, error) {
	matches, err := s.store.ListMatches(ctx, repository.MatchFilter{Sector: sector})
	if err != nil {
		return nil, err
	}
	listing := &MatchListing{Active: []*repository.Match{}, Archived: []*repository.Match{}}
	for _, m := range matches {
		if m.Status.Terminal() {
			listing.Archived = append(listing.Archived, m)
		} else {
			listing.Active = append(listing.Active, m)
		}
	}
	sort.SliceStable(listing.Archived, func(i, j int) bool {
		return archivedAt(listing.Archived[i]).After(archivedAt(listing.Archived[j]))
	})
	return listing, nil
}

func archivedAt(m *repository.Match) time.Time {
	if m.SealedAt != nil {
		return *m.SealedAt
	}
	return m.CreatedAt
}

func (s *MatchService) Launch(ctx context.Context, session auth.Session, id string, version int) (*repository.Match, error) {
	return s.apply(ctx, session, "launch", id, version, func(m *repository.Match) error {
		return launch(m, session, s.now())
	})
}

func (s *MatchService) Pause(ctx context.Context, session auth.Session, id string, version int) (*repository.Match, error) {
	return s.apply(ctx, session, "pause", id, version, func(m *repository.Match) error {
		return pause(m, session, s.now())
	})
}

func (s *MatchService) Resume(ctx context.Context, session auth.Session, id string, version int) (*repository.Match, error) {
	return s.apply(ctx, session, "resume", id, version, func(m *repository.Match) error {
		return resume(m, session, s.now())
	})
}

// TakeCommand is version guarded like every other write: of two officials
// racing to take over, one gets a version conflict.
func (s *MatchService) TakeCommand(ctx context.Context, session auth.Session, id string, version int) (*repository.Match, error) {
	return s.apply(ctx, session, "take-command", id, version, func(m *repository.Match) error {
		return takeCommand(m, session)
	})
}

func (s *MatchService) AdjustScore(ctx context.Context, session auth.Session, id string, version int, houseId string, delta int) (*repository.Match, error) {
	return s.apply(ctx, session, "adjust-score", id, version, func(m *repository.Match) error {
		return adjustScore(m, session, houseId, delta)
	})
}

// Cancel takes no version from the caller. It re-reads and retries the
// conditional update a bounded number of times, so concurrent writers still
// never overwrite each other.
func (s *MatchService) Cancel(ctx context.Context, session auth.Session, id string) (*repository.Match, error) {
	var err error
	for attempt := 0; attempt < cancelAttempts; attempt++ {
		var current *repository.Match
		current, err = s.store.GetMatch(ctx, id)
		if err != nil {
			break
		}
		var stored *repository.Match
		stored, err = s.write(ctx, session, "cancel", current, current.Version, cancelMatch)
		if err == nil {
			return stored, nil
		}
		if !errors.Is(err, app_error.ErrVersionConflict) {
			break
		}
	}
	return nil, err
}

func (s *MatchService) apply(ctx context.Context, session auth.Session, operation, id string, version int, transition func(*repository.Match) error) (*repository.Match, error) {
	current, err := s.store.GetMatch(ctx, id)
	if err != nil {
		s.record(operation, id, err)
		return nil, err
	}
	return s.write(ctx, session, operation, current, version, transition)
}

// write is the single path from a transition to the store. A stale version
// is rejected before the transition runs.
func (s *MatchService) write(ctx context.Context, session auth.Session, operation string, current *repository.Match, version int, transition func(*repository.Match) error) (*repository.Match, error) {
	if err := session.Authorize(current.Sector); err != nil {
		s.record(operation, current.Id, err)
		return nil, err
	}
	if current.Version != version {
		s.record(operation, current.Id, app_error.ErrVersionConflict)
		return nil, app_error.ErrVersionConflict
	}
	next := current.Clone()
	if err := transition(next); err != nil {
		s.record(operation, current.Id, err)
		return nil, err
	}
	stored, err := s.store.ConditionalUpdate(ctx, version, next)
	s.record(operation, current.Id, err)
	if err != nil {
		return nil, err
	}
	s.logger.Info().
		Str("operation", operation).
		Str("match_id", stored.Id).
		Str("sector", string(stored.Sector)).
		Int("version", stored.Version).
		Str("official", session.UserId).
		Msg("match updated")
	publish(ctx, s.publisher, s.logger, notify.Event{
		Table:   notify.TableMatches,
		Op:      "update",
		MatchId: stored.Id,
		Sector:  stored.Sector,
		Version: stored.Version,
		At:      s.now(),
	})
	return stored, nil
}

func (s *MatchService) record(operation, matchId string, err error) {
	record(s.logger, operation, matchId, err)
}

func record(logger zerolog.Logger, operation, matchId string, err error) {
	kind := app_error.KindOf(err)
	outcome := string(kind)
	if kind == app_error.KindNone {
		outcome = "ok"
	}
	metrics.TransitionsTotal.WithLabelValues(operation, outcome).Inc()
	if err == nil {
		return
	}
	event := logger.Debug()
	switch kind {
	case app_error.KindVersionConflict:
		metrics.VersionConflictsTotal.WithLabelValues(operation).Inc()
		event = logger.Info()
	case app_error.KindTransport:
		event = logger.Warn()
	case app_error.KindFatal:
		event = logger.Error()
	}
	event.Err(err).Str("operation", operation).Str("match_id", matchId).Str("kind", outcome).Msg("command rejected")
}

// publish is best effort: subscribers heal missed events on the next sweep.
func publish(ctx context.Context, publisher notify.Publisher, logger zerolog.Logger, event notify.Event) {
	if publisher == nil {
		return
	}
	if err := publisher.Publish(ctx, event); err != nil {
		logger.Warn().Err(err).Str("match_id", event.MatchId).Msg("publishing change event")
	}
}
