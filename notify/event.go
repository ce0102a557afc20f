// Package notify carries change events from the persistence layer to the
// standings projection. Events are hints: consumers re-read the store and
// never apply an event's contents directly.
package notify

import (
	"context"
	"time"

	"housecup/registry"
	"housecup/utils"
)

type Table string

const (
	TableMatches Table = "matches"
	TableResults Table = "results"
)

// OpResync asks consumers to refresh every scope, e.g. after a listener
// reconnect during which events may have been missed.
const OpResync = "resync"

type Event struct {
	Table   Table           `json:"table"`
	Op      string          `json:"op"`
	MatchId string          `json:"match_id"`
	Sector  registry.Sector `json:"sector"`
	Version int             `json:"version,omitempty"`
	At      time.Time       `json:"at"`
}

// Scopes returns the standings scopes an event can affect.
func (e Event) Scopes() []registry.Sector {
	if e.Op == OpResync {
		return append(registry.Sectors(), registry.Global)
	}
	if _, ok := registry.ParseSector(string(e.Sector)); !ok || e.Sector == registry.Global {
		return append(registry.Sectors(), registry.Global)
	}
	return []registry.Sector{e.Sector, registry.Global}
}

// Filter selects events by table and sector. Zero values match everything.
type Filter struct {
	Tables []Table
	Sector registry.Sector
}

func (f Filter) Match(e Event) bool {
	if e.Op == OpResync {
		return true
	}
	if len(f.Tables) > 0 && !utils.Contains(f.Tables, e.Table) {
		return false
	}
	if f.Sector != "" && f.Sector != registry.Global && e.Sector != "" && e.Sector != f.Sector {
		return false
	}
	return true
}

type Publisher interface {
	Publish(ctx context.Context, event Event) error
}

// Subscriber delivers matching events until ctx is cancelled, then closes
// the channel. A source that fails also closes the channel.
type Subscriber interface {
	Subscribe(ctx context.Context, filter Filter) (<-chan Event, error)
}

// Publishers fans an event out to several publishers and reports the first
// failure.
type Publishers []Publisher

func (p Publishers) Publish(ctx context.Context, event Event) error {
	var first error
	for _, publisher := range p {
		if err := publisher.Publish(ctx, event); err != nil && first == nil {
			first = err
		}
	}
	return first
}
