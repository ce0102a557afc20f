package service

import (
	"context"
	"errors"
	"sync/atomic"
	"testing"
	"time"

	"housecup/app_error"
	"housecup/localbuffer"
	"housecup/notify"
	"housecup/registry"
	"housecup/repository"

	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// flakyStore fails inserts with a transport error while down is set.
type flakyStore struct {
	repository.Store
	down atomic.Bool
}

func (s *flakyStore) InsertMatch(ctx context.Context, match *repository.Match) error {
	if s.down.Load() {
		return app_error.Transport(errors.New("connection refused"))
	}
	return s.Store.InsertMatch(ctx, match)
}

func TestProvisionMultiHouse(t *testing.T) {
	ctx := context.Background()
	f := newFixture()
	kickoff := f.clock.now().Add(time.Hour)

	res, err := f.provisioning.Provision(ctx, officialA, registry.UPSS, ProvisionRequest{
		Name:         "  Relay  ",
		KickoffAt:    &kickoff,
		Regime:       repository.GroupMarks,
		Participants: []string{"u1", "u2", "u3"},
	})
	require.NoError(t, err)
	assert.Equal(t, ModePrimary, res.Mode)
	m := res.Match
	assert.NotEmpty(t, m.Id)
	assert.Equal(t, "Relay", m.Name)
	assert.Equal(t, 1, m.Version)
	assert.Equal(t, repository.StatusScheduled, m.Status)
	assert.Equal(t, []string{"u1", "u2", "u3"}, m.Metadata.Participants)
	assert.Nil(t, m.PresidingOfficialId)

	stored, err := f.store.GetMatch(ctx, m.Id)
	require.NoError(t, err)
	assert.Equal(t, m.Name, stored.Name)
}

func TestProvisionStartNow(t *testing.T) {
	f := newFixture()
	res, err := f.provisioning.Provision(context.Background(), officialA, registry.UPSS, ProvisionRequest{
		Name:     "Tug of war",
		Regime:   repository.VersusMarks,
		HouseA:   "u1",
		HouseB:   "u4",
		StartNow: true,
	})
	require.NoError(t, err)
	m := res.Match
	assert.Equal(t, repository.StatusLive, m.Status)
	assert.Equal(t, 1, m.Version)
	assert.True(t, m.HeadToHead())
	assert.True(t, m.PresidedBy(officialA.UserId))
	require.NotNil(t, m.KickoffAt)
	require.NotNil(t, m.StartedAt)
	assert.Equal(t, f.clock.now(), *m.StartedAt)
}

func TestProvisionValidation(t *testing.T) {
	f := newFixture()
	past := f.clock.now().Add(-time.Minute)
	base := func() ProvisionRequest {
		return ProvisionRequest{Name: "Sprint", Regime: repository.SingleMarks, Participants: []string{"u1", "u2"}}
	}
	tests := []struct {
		name   string
		mutate func(*ProvisionRequest)
		want   error
	}{
		{"past kickoff", func(r *ProvisionRequest) { r.KickoffAt = &past }, app_error.ErrKickoffInPast},
		{"blank name", func(r *ProvisionRequest) { r.Name = "  " }, app_error.ErrValidation},
		{"unknown regime", func(r *ProvisionRequest) { r.Regime = "bonus" }, app_error.ErrUnknownRegime},
		{"negative manual points", func(r *ProvisionRequest) { r.ManualPoints = -3 }, app_error.ErrNegativeManualPoints},
		{"negative duration", func(r *ProvisionRequest) { r.DurationMinutes = -1 }, app_error.ErrValidation},
		{"single participant", func(r *ProvisionRequest) { r.Participants = []string{"u1"} }, app_error.ErrValidation},
		{"duplicate participant", func(r *ProvisionRequest) { r.Participants = []string{"u1", "u1", "u2"} }, app_error.ErrDuplicateParticipant},
		{"house from another sector", func(r *ProvisionRequest) { r.Participants = []string{"u1", "c2"} }, app_error.ErrUnknownParticipant},
		{"same house twice head to head", func(r *ProvisionRequest) {
			r.Participants, r.HouseA, r.HouseB = nil, "u1", "u1"
		}, app_error.ErrValidation},
		{"both participant styles", func(r *ProvisionRequest) { r.HouseA, r.HouseB = "u1", "u2" }, app_error.ErrValidation},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			req := base()
			tt.mutate(&req)
			_, err := f.provisioning.Provision(context.Background(), officialA, registry.UPSS, req)
			assert.ErrorIs(t, err, tt.want)
		})
	}
	matches, err := f.store.ListMatches(context.Background(), repository.MatchFilter{})
	require.NoError(t, err)
	assert.Empty(t, matches)
}

func TestProvisionPastKickoffAllowedWhenStartingNow(t *testing.T) {
	f := newFixture()
	past := f.clock.now().Add(-time.Minute)
	_, err := f.provisioning.Provision(context.Background(), officialA, registry.UPSS, ProvisionRequest{
		Name: "Late start", Regime: repository.SingleMarks, Participants: []string{"u1", "u2"}, KickoffAt: &past, StartNow: true,
	})
	assert.NoError(t, err)
}

func TestProvisionAuthorization(t *testing.T) {
	f := newFixture()
	req := ProvisionRequest{Name: "Sprint", Regime: repository.SingleMarks, Participants: []string{"u1", "u2"}}

	_, err := f.provisioning.Provision(context.Background(), camOfficial, registry.UPSS, req)
	assert.ErrorIs(t, err, app_error.ErrForbidden)

	_, err = f.provisioning.Provision(context.Background(), viewer, registry.UPSS, req)
	assert.ErrorIs(t, err, app_error.ErrForbidden)

	_, err = f.provisioning.Provision(context.Background(), admin, registry.Global, req)
	assert.ErrorIs(t, err, app_error.ErrValidation)

	_, err = f.provisioning.Provision(context.Background(), admin, registry.UPSS, req)
	assert.NoError(t, err)
}

func TestProvisionFallsBackToBuffer(t *testing.T) {
	ctx := context.Background()
	f := newFixture()
	buffer, err := localbuffer.Open(":memory:", zerolog.Nop())
	require.NoError(t, err)
	defer buffer.Close()

	store := &flakyStore{Store: f.store}
	store.down.Store(true)
	provisioning := NewProvisioningService(store, buffer, f.hub, zerolog.Nop())
	provisioning.now = f.clock.now

	res, err := provisioning.Provision(ctx, officialA, registry.UPSS, ProvisionRequest{
		Name: "Sprint", Regime: repository.SingleMarks, Participants: []string{"u1", "u2"},
	})
	require.NoError(t, err)
	assert.Equal(t, ModeBuffered, res.Mode)

	_, err = f.store.GetMatch(ctx, res.Match.Id)
	assert.ErrorIs(t, err, app_error.ErrMatchNotFound)

	report, err := provisioning.FlushBuffer(ctx)
	assert.Error(t, err)
	assert.Equal(t, 0, report.Flushed)
	assert.Equal(t, 1, report.Pending)

	subCtx, cancel := context.WithCancel(ctx)
	defer cancel()
	events, err := f.hub.Subscribe(subCtx, notify.Filter{})
	require.NoError(t, err)

	store.down.Store(false)
	report, err = provisioning.FlushBuffer(ctx)
	require.NoError(t, err)
	assert.Equal(t, 1, report.Flushed)

	stored, err := f.store.GetMatch(ctx, res.Match.Id)
	require.NoError(t, err)
	assert.Equal(t, 1, stored.Version)

	select {
	case e := <-events:
		assert.Equal(t, notify.OpResync, e.Op)
	case <-time.After(time.Second):
		t.Fatal("flush did not trigger a resync")
	}
}

func TestProvisionWithoutBufferSurfacesTransport(t *testing.T) {
	f := newFixture()
	store := &flakyStore{Store: f.store}
	store.down.Store(true)
	provisioning := NewProvisioningService(store, nil, f.hub, zerolog.Nop())

	_, err := provisioning.Provision(context.Background(), officialA, registry.UPSS, ProvisionRequest{
		Name: "Sprint", Regime: repository.SingleMarks, Participants: []string{"u1", "u2"},
	})
	assert.ErrorIs(t, err, app_error.ErrTransport)

	report, err := provisioning.FlushBuffer(context.Background())
	assert.NoError(t, err)
	assert.Zero(t, report)
}
