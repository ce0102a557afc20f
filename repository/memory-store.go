package repository

import (
	"context"
	"sort"
	"sync"

	"housecup/app_error"
	"housecup/utils"
)

// MemoryStore is an in-process Store. Every operation holds one lock, so
// SealMatch is trivially atomic.
type MemoryStore struct {
	mu       sync.Mutex
	matches  map[string]*Match
	results  []*Result
	profiles map[string]*Profile
}

func NewMemoryStore() *MemoryStore {
	return &MemoryStore{
		matches:  make(map[string]*Match),
		profiles: make(map[string]*Profile),
	}
}

func (s *MemoryStore) InsertMatch(ctx context.Context, match *Match) error {
	if err := ctx.Err(); err != nil {
		return app_error.Transport(err)
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	if _, ok := s.matches[match.Id]; ok {
		return app_error.ErrDuplicateMatch
	}
	s.matches[match.Id] = match.Clone()
	return nil
}

func (s *MemoryStore) GetMatch(ctx context.Context, id string) (*Match, error) {
	if err := ctx.Err(); err != nil {
		return nil, app_error.Transport(err)
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	match, ok := s.matches[id]
	if !ok {
		return nil, app_error.ErrMatchNotFound
	}
	return match.Clone(), nil
}

func (s *MemoryStore) ListMatches(ctx context.Context, filter MatchFilter) ([]*Match, error) {
	if err := ctx.Err(); err != nil {
		return nil, app_error.Transport(err)
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	out := make([]*Match, 0)
	for _, match := range s.matches {
		if filter.Sector != "" && match.Sector != filter.Sector {
			continue
		}
		if len(filter.Statuses) > 0 && !utils.Contains(filter.Statuses, match.Status) {
			continue
		}
		out = append(out, match.Clone())
	}
	sort.Slice(out, func(i, j int) bool {
		if !out[i].CreatedAt.Equal(out[j].CreatedAt) {
			return out[i].CreatedAt.Before(out[j].CreatedAt)
		}
		return out[i].Id < out[j].Id
	})
	return out, nil
}

// casLocked must be called with s.mu held.
func (s *MemoryStore) casLocked(expectedVersion int, next *Match) (*Match, error) {
	current, ok := s.matches[next.Id]
	if !ok {
		return nil, app_error.ErrMatchNotFound
	}
	if current.Version != expectedVersion {
		return nil, app_error.ErrVersionConflict
	}
	stored := next.Clone()
	stored.Version = expectedVersion + 1
	stored.CreatedAt = current.CreatedAt
	return stored, nil
}

func (s *MemoryStore) ConditionalUpdate(ctx context.Context, expectedVersion int, next *Match) (*Match, error) {
	if err := ctx.Err(); err != nil {
		return nil, app_error.Transport(err)
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	stored, err := s.casLocked(expectedVersion, next)
	if err != nil {
		return nil, err
	}
	s.matches[stored.Id] = stored
	return stored.Clone(), nil
}

func (s *MemoryStore) SealMatch(ctx context.Context, expectedVersion int, next *Match, results []*Result) (*Match, error) {
	if err := ctx.Err(); err != nil {
		return nil, app_error.Transport(err)
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	stored, err := s.casLocked(expectedVersion, next)
	if err != nil {
		return nil, err
	}
	for _, existing := range s.results {
		for _, r := range results {
			if existing.MatchId == r.MatchId && (existing.HouseId == r.HouseId || existing.Position == r.Position) {
				return nil, app_error.ErrDuplicateParticipant
			}
		}
	}
	for _, r := range results {
		row := *r
		s.results = append(s.results, &row)
	}
	s.matches[stored.Id] = stored
	return stored.Clone(), nil
}

func (s *MemoryStore) ListResults(ctx context.Context, filter ResultFilter) ([]*Result, error) {
	if err := ctx.Err(); err != nil {
		return nil, app_error.Transport(err)
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	out := make([]*Result, 0, len(s.results))
	for _, r := range s.results {
		if filter.Sector != "" && r.Sector != filter.Sector {
			continue
		}
		if filter.MatchId != "" && r.MatchId != filter.MatchId {
			continue
		}
		row := *r
		out = append(out, &row)
	}
	sort.Slice(out, func(i, j int) bool {
		if out[i].MatchId != out[j].MatchId {
			return out[i].MatchId < out[j].MatchId
		}
		return out[i].Position < out[j].Position
	})
	return out, nil
}

func (s *MemoryStore) GetProfile(ctx context.Context, id string) (*Profile, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	p, ok := s.profiles[id]
	if !ok {
		return nil, nil
	}
	profile := *p
	return &profile, nil
}

func (s *MemoryStore) SaveProfile(ctx context.Context, profile *Profile) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	p := *profile
	s.profiles[p.Id] = &p
	return nil
}
