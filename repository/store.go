package repository

import (
	"context"

	"housecup/registry"
)

type MatchFilter struct {
	// Sector restricts the listing; empty means every sector.
	Sector   registry.Sector
	Statuses []MatchStatus
}

type ResultFilter struct {
	Sector  registry.Sector
	MatchId string
}

// MatchWriter is the provisioning surface. Both the primary store and the
// offline buffer implement it.
type MatchWriter interface {
	InsertMatch(ctx context.Context, match *Match) error
}

// Store is the persistence collaborator of the engine.
//
// ConditionalUpdate is the only way a match row changes after insertion. It
// writes next with Version = expectedVersion+1 if and only if the stored
// version still equals expectedVersion, and fails with
// app_error.ErrVersionConflict otherwise. SealMatch does the same and inserts
// the result rows in the same atomic unit: either both happen or neither.
type Store interface {
	MatchWriter
	GetMatch(ctx context.Context, id string) (*Match, error)
	ListMatches(ctx context.Context, filter MatchFilter) ([]*Match, error)
	ConditionalUpdate(ctx context.Context, expectedVersion int, next *Match) (*Match, error)
	SealMatch(ctx context.Context, expectedVersion int, next *Match, results []*Result) (*Match, error)
	ListResults(ctx context.Context, filter ResultFilter) ([]*Result, error)
	GetProfile(ctx context.Context, id string) (*Profile, error)
	SaveProfile(ctx context.Context, profile *Profile) error
}
