package service

import (
	"context"
	"time"

	"housecup/auth"
	"housecup/notify"
	"housecup/registry"
	"housecup/repository"

	"github.com/rs/zerolog"
)

var (
	officialA   = auth.Session{UserId: "official-a", Name: "Official A", Role: auth.SectorOfficial, Sector: registry.UPSS}
	officialB   = auth.Session{UserId: "official-b", Name: "Official B", Role: auth.SectorOfficial, Sector: registry.UPSS}
	camOfficial = auth.Session{UserId: "official-c", Name: "Official C", Role: auth.SectorOfficial, Sector: registry.CAM}
	admin       = auth.Session{UserId: "admin", Name: "Admin", Role: auth.SuperAdmin, Sector: registry.Global}
	viewer      = auth.Session{UserId: "viewer", Name: "Viewer", Role: auth.Member}
)

// clock is a manually advanced time source.
type clock struct{ t time.Time }

func (c *clock) now() time.Time { return c.t }

func (c *clock) advance(d time.Duration) { c.t = c.t.Add(d) }

type fixture struct {
	store        *repository.MemoryStore
	hub          *notify.Hub
	clock        *clock
	matches      *MatchService
	ledger       *LedgerService
	provisioning *ProvisioningService
	standings    *StandingsService
}

func newFixture() *fixture {
	store := repository.NewMemoryStore()
	hub := notify.NewHub()
	c := &clock{t: time.Date(2026, 3, 2, 10, 0, 0, 0, time.UTC)}
	f := &fixture{
		store:        store,
		hub:          hub,
		clock:        c,
		matches:      NewMatchService(store, hub, zerolog.Nop()),
		ledger:       NewLedgerService(store, hub, nil, true, zerolog.Nop()),
		provisioning: NewProvisioningService(store, nil, hub, zerolog.Nop()),
		standings:    NewStandingsService(store, zerolog.Nop()),
	}
	f.matches.now = c.now
	f.ledger.now = c.now
	f.provisioning.now = c.now
	f.standings.now = c.now
	return f
}

// scheduled inserts a scheduled multi-house match in sector UPSS.
func (f *fixture) scheduled(id string, regime repository.ScoringRegime, participants ...string) *repository.Match {
	if len(participants) == 0 {
		participants = []string{"u1", "u2", "u3", "u4"}
	}
	m := &repository.Match{
		Id:        id,
		Sector:    registry.UPSS,
		Name:      "Match " + id,
		Status:    repository.StatusScheduled,
		Regime:    regime,
		Version:   1,
		CreatedAt: f.clock.now(),
		Metadata:  repository.MatchMetadata{Participants: participants},
	}
	if err := f.store.InsertMatch(context.Background(), m); err != nil {
		panic(err)
	}
	return m
}
