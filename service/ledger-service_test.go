package service

import (
	"context"
	"errors"
	"sync"
	"testing"
	"time"

	"housecup/app_error"
	"housecup/repository"

	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// live provisions a scheduled match and launches it with officialA.
func (f *fixture) live(t *testing.T, id string, regime repository.ScoringRegime, participants ...string) *repository.Match {
	t.Helper()
	f.scheduled(id, regime, participants...)
	m, err := f.matches.Launch(context.Background(), officialA, id, 1)
	require.NoError(t, err)
	return m
}

func (f *fixture) results(t *testing.T, matchId string) []*repository.Result {
	t.Helper()
	results, err := f.store.ListResults(context.Background(), repository.ResultFilter{MatchId: matchId})
	require.NoError(t, err)
	return results
}

func TestSealSingleMarks(t *testing.T) {
	ctx := context.Background()
	f := newFixture()
	m := f.live(t, "M1", repository.SingleMarks)

	sealed, err := f.ledger.Seal(ctx, officialA, "M1", SealRequest{
		Version: m.Version,
		Results: []Placement{{HouseId: "u1", Position: 1}, {HouseId: "u2", Position: 2}},
	})
	require.NoError(t, err)
	assert.Equal(t, repository.StatusFinished, sealed.Match.Status)
	assert.Equal(t, m.Version+1, sealed.Match.Version)
	require.NotNil(t, sealed.Match.WinningHouseId)
	assert.Equal(t, "u1", *sealed.Match.WinningHouseId)
	require.NotNil(t, sealed.Match.SealedBy)
	assert.Equal(t, officialA.UserId, *sealed.Match.SealedBy)

	results := f.results(t, "M1")
	require.Len(t, results, 2)
	assert.Equal(t, "u1", results[0].HouseId)
	assert.Equal(t, 1, results[0].Position)
	assert.Equal(t, 15, results[0].Points)
	assert.Equal(t, "u2", results[1].HouseId)
	assert.Equal(t, 2, results[1].Position)
	assert.Equal(t, 12, results[1].Points)
	for _, r := range results {
		assert.Equal(t, repository.SingleMarks, r.Regime)
		assert.Equal(t, officialA.UserId, r.SealedBy)
		assert.Equal(t, f.clock.now(), r.SealedAt)
	}
}

func TestResealIsRejectedAndWritesNothing(t *testing.T) {
	ctx := context.Background()
	f := newFixture()
	m := f.live(t, "M1", repository.SingleMarks)
	req := SealRequest{
		Version: m.Version,
		Results: []Placement{{HouseId: "u1", Position: 1}, {HouseId: "u2", Position: 2}},
	}
	sealed, err := f.ledger.Seal(ctx, officialA, "M1", req)
	require.NoError(t, err)

	_, err = f.ledger.Seal(ctx, officialA, "M1", req)
	assert.ErrorIs(t, err, app_error.ErrAlreadySealed)
	assert.ErrorIs(t, err, app_error.ErrInvalidStatus)

	req.Version = sealed.Match.Version
	_, err = f.ledger.Seal(ctx, officialA, "M1", req)
	assert.ErrorIs(t, err, app_error.ErrAlreadySealed)

	assert.Len(t, f.results(t, "M1"), 2)
}

func TestSealManualOverride(t *testing.T) {
	for _, points := range []int{50, 0} {
		f := newFixture()
		m := f.live(t, "M1", repository.SingleMarks)
		sealed, err := f.ledger.Seal(context.Background(), officialA, "M1", SealRequest{
			Version:  m.Version,
			Results:  []Placement{{HouseId: "u3", Position: 1}, {HouseId: "u4", Position: 2}},
			Override: &OverridePolicy{Regime: repository.ManualOverride, ManualPoints: points},
		})
		require.NoError(t, err)
		assert.True(t, sealed.Match.IsManualOverride)
		assert.Equal(t, repository.ManualOverride, sealed.Match.Regime)
		assert.Equal(t, points, sealed.Match.ManualPoints)

		results := f.results(t, "M1")
		require.Len(t, results, 2)
		assert.Equal(t, "u3", results[0].HouseId)
		assert.Equal(t, points, results[0].Points)
		assert.Equal(t, "u4", results[1].HouseId)
		assert.Equal(t, 0, results[1].Points, "only the winner receives manual points")
	}
}

func TestSealManualOverrideSingleWinner(t *testing.T) {
	ctx := context.Background()
	f := newFixture()

	m := f.live(t, "M1", repository.SingleMarks)
	_, err := f.ledger.Seal(ctx, officialA, "M1", SealRequest{
		Version:  m.Version,
		Results:  []Placement{{HouseId: "u3", Position: 1}},
		Override: &OverridePolicy{Regime: repository.ManualOverride, ManualPoints: 50},
	})
	require.NoError(t, err)
	results := f.results(t, "M1")
	require.Len(t, results, 1)
	assert.Equal(t, "u3", results[0].HouseId)
	assert.Equal(t, 50, results[0].Points)
	assert.Equal(t, repository.ManualOverride, results[0].Regime)

	m = f.live(t, "M2", repository.SingleMarks)
	_, err = f.ledger.Seal(ctx, officialA, "M2", SealRequest{
		Version:  m.Version,
		Results:  []Placement{{HouseId: "u3", Position: 1}},
		Override: &OverridePolicy{Regime: repository.ManualOverride, ManualPoints: 0},
	})
	require.NoError(t, err)
	results = f.results(t, "M2")
	require.Len(t, results, 1)
	assert.Equal(t, 0, results[0].Points)
}

func TestSealRejectsNegativeManualPoints(t *testing.T) {
	f := newFixture()
	m := f.live(t, "M1", repository.SingleMarks)
	_, err := f.ledger.Seal(context.Background(), officialA, "M1", SealRequest{
		Version:  m.Version,
		Results:  []Placement{{HouseId: "u1", Position: 1}},
		Override: &OverridePolicy{Regime: repository.ManualOverride, ManualPoints: -1},
	})
	assert.ErrorIs(t, err, app_error.ErrNegativeManualPoints)

	_, err = f.ledger.Seal(context.Background(), officialA, "M1", SealRequest{
		Version:  m.Version,
		Results:  []Placement{{HouseId: "u1", Position: 1}},
		Override: &OverridePolicy{Regime: "bonus-marks"},
	})
	assert.ErrorIs(t, err, app_error.ErrUnknownRegime)
	assert.Empty(t, f.results(t, "M1"))
}

func TestSealValidatesPlacements(t *testing.T) {
	tests := []struct {
		name    string
		results []Placement
		want    error
	}{
		{"empty", nil, app_error.ErrEmptyResultSet},
		{"zero position", []Placement{{"u1", 0}}, app_error.ErrInvalidPosition},
		{"duplicate house", []Placement{{"u1", 1}, {"u1", 2}}, app_error.ErrDuplicateParticipant},
		{"duplicate position", []Placement{{"u1", 1}, {"u2", 1}}, app_error.ErrDuplicatePosition},
		{"missing winner", []Placement{{"u1", 2}, {"u2", 3}}, app_error.ErrMissingWinner},
		{"house from another sector", []Placement{{"c1", 1}}, app_error.ErrUnknownParticipant},
		{"unknown house", []Placement{{"zz", 1}}, app_error.ErrUnknownParticipant},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			f := newFixture()
			m := f.live(t, "M1", repository.GroupMarks)
			_, err := f.ledger.Seal(context.Background(), officialA, "M1", SealRequest{Version: m.Version, Results: tt.results})
			assert.ErrorIs(t, err, tt.want)
			assert.Empty(t, f.results(t, "M1"))

			current, err := f.matches.Get(context.Background(), "M1")
			require.NoError(t, err)
			assert.Equal(t, repository.StatusLive, current.Status)
		})
	}
}

func TestSealPermissions(t *testing.T) {
	ctx := context.Background()
	f := newFixture()
	m := f.live(t, "M1", repository.SingleMarks)
	req := SealRequest{Version: m.Version, Results: []Placement{{HouseId: "u1", Position: 1}}}

	_, err := f.ledger.Seal(ctx, officialB, "M1", req)
	assert.ErrorIs(t, err, app_error.ErrNotPresiding)

	_, err = f.ledger.Seal(ctx, camOfficial, "M1", req)
	assert.ErrorIs(t, err, app_error.ErrForbidden)

	_, err = f.ledger.Seal(ctx, viewer, "M1", req)
	assert.ErrorIs(t, err, app_error.ErrForbidden)

	sealed, err := f.ledger.Seal(ctx, admin, "M1", req)
	require.NoError(t, err, "super admins may force a seal")
	assert.Equal(t, admin.UserId, *sealed.Match.SealedBy)
}

func TestForceSealCanBeDisabled(t *testing.T) {
	f := newFixture()
	m := f.live(t, "M1", repository.SingleMarks)
	ledger := NewLedgerService(f.store, f.hub, nil, false, zerolog.Nop())
	_, err := ledger.Seal(context.Background(), admin, "M1", SealRequest{
		Version: m.Version,
		Results: []Placement{{HouseId: "u1", Position: 1}},
	})
	assert.ErrorIs(t, err, app_error.ErrNotPresiding)
}

func TestSealRequiresMatchInPlay(t *testing.T) {
	ctx := context.Background()
	f := newFixture()
	f.scheduled("M1", repository.SingleMarks)
	req := SealRequest{Version: 1, Results: []Placement{{HouseId: "u1", Position: 1}}}

	_, err := f.ledger.Seal(ctx, admin, "M1", req)
	assert.ErrorIs(t, err, app_error.ErrInvalidStatus)
	assert.NotErrorIs(t, err, app_error.ErrAlreadySealed)

	_, err = f.matches.Cancel(ctx, officialA, "M1")
	require.NoError(t, err)
	req.Version = 2
	_, err = f.ledger.Seal(ctx, admin, "M1", req)
	assert.ErrorIs(t, err, app_error.ErrInvalidStatus)
}

func TestSealStaleVersion(t *testing.T) {
	ctx := context.Background()
	f := newFixture()
	m := f.live(t, "M1", repository.SingleMarks)
	_, err := f.matches.AdjustScore(ctx, officialA, "M1", m.Version, "u1", 2)
	require.NoError(t, err)

	_, err = f.ledger.Seal(ctx, officialA, "M1", SealRequest{
		Version: m.Version,
		Results: []Placement{{HouseId: "u1", Position: 1}},
	})
	assert.ErrorIs(t, err, app_error.ErrVersionConflict)
	assert.Empty(t, f.results(t, "M1"))
}

func TestSealPausedMatchKeepsFrozenClock(t *testing.T) {
	ctx := context.Background()
	f := newFixture()
	f.live(t, "M1", repository.GroupMarks)
	f.clock.advance(time.Minute)
	m, err := f.matches.Pause(ctx, officialA, "M1", 2)
	require.NoError(t, err)
	f.clock.advance(time.Hour)

	sealed, err := f.ledger.Seal(ctx, officialA, "M1", SealRequest{
		Version: m.Version,
		Results: []Placement{{HouseId: "u2", Position: 1}, {HouseId: "u1", Position: 2}, {HouseId: "u4", Position: 3}},
	})
	require.NoError(t, err)
	require.NotNil(t, sealed.Match.Metadata.ElapsedMs)
	assert.Equal(t, int64(60_000), *sealed.Match.Metadata.ElapsedMs)

	points := map[string]int{}
	for _, r := range f.results(t, "M1") {
		points[r.HouseId] = r.Points
	}
	assert.Equal(t, map[string]int{"u2": 25, "u1": 20, "u4": 15}, points)
}

func TestConcurrentSealsWriteOneLedger(t *testing.T) {
	ctx := context.Background()
	f := newFixture()
	m := f.live(t, "M1", repository.SingleMarks)
	req := SealRequest{
		Version: m.Version,
		Results: []Placement{{HouseId: "u1", Position: 1}, {HouseId: "u2", Position: 2}},
	}

	const sealers = 10
	errs := make([]error, sealers)
	var wg sync.WaitGroup
	for i := 0; i < sealers; i++ {
		wg.Add(1)
		go func(i int) {
			defer wg.Done()
			_, errs[i] = f.ledger.Seal(ctx, officialA, "M1", req)
		}(i)
	}
	wg.Wait()

	ok := 0
	for _, err := range errs {
		if err == nil {
			ok++
			continue
		}
		assert.True(t, errors.Is(err, app_error.ErrAlreadySealed) || errors.Is(err, app_error.ErrVersionConflict), err)
	}
	assert.Equal(t, 1, ok)
	assert.Len(t, f.results(t, "M1"), 2)
}

type announcerFunc func(ctx context.Context, match *repository.Match, results []*repository.Result) error

func (f announcerFunc) AnnounceSeal(ctx context.Context, match *repository.Match, results []*repository.Result) error {
	return f(ctx, match, results)
}

func TestSealAnnouncesWithoutBlocking(t *testing.T) {
	f := newFixture()
	m := f.live(t, "M1", repository.SingleMarks)
	announced := make(chan string, 1)
	ledger := NewLedgerService(f.store, f.hub, announcerFunc(func(ctx context.Context, match *repository.Match, results []*repository.Result) error {
		announced <- *match.WinningHouseId
		return errors.New("discord is down")
	}), false, zerolog.Nop())

	_, err := ledger.Seal(context.Background(), officialA, "M1", SealRequest{
		Version: m.Version,
		Results: []Placement{{HouseId: "u4", Position: 1}},
	})
	require.NoError(t, err, "announcement failures never fail the seal")

	select {
	case winner := <-announced:
		assert.Equal(t, "u4", winner)
	case <-time.After(time.Second):
		t.Fatal("seal was not announced")
	}
}
