package localbuffer

import (
	"context"
	"errors"
	"testing"
	"time"

	"housecup/app_error"
	"housecup/registry"
	"housecup/repository"

	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type downWriter struct{ calls int }

func (w *downWriter) InsertMatch(ctx context.Context, match *repository.Match) error {
	w.calls++
	return app_error.Transport(errors.New("connection refused"))
}

func openBuffer(t *testing.T) *Buffer {
	t.Helper()
	buffer, err := Open(":memory:", zerolog.Nop())
	require.NoError(t, err)
	t.Cleanup(func() { _ = buffer.Close() })
	return buffer
}

func fixture(id string, offset time.Duration) *repository.Match {
	kickoff := time.Date(2026, 4, 1, 9, 0, 0, 0, time.UTC).Add(offset)
	return &repository.Match{
		Id:        id,
		Sector:    registry.CAM,
		Name:      "Relay " + id,
		KickoffAt: &kickoff,
		Status:    repository.StatusScheduled,
		Regime:    repository.GroupMarks,
		Version:   1,
		Metadata:  repository.MatchMetadata{Participants: []string{"c1", "c2", "c3"}},
	}
}

func TestBufferInsertAndList(t *testing.T) {
	ctx := context.Background()
	buffer := openBuffer(t)
	require.NoError(t, buffer.InsertMatch(ctx, fixture("m1", 0)))
	assert.ErrorIs(t, buffer.InsertMatch(ctx, fixture("m1", 0)), app_error.ErrDuplicateMatch)

	entries, err := buffer.List(ctx)
	require.NoError(t, err)
	require.Len(t, entries, 1)
	assert.Equal(t, "Relay m1", entries[0].Match.Name)
	assert.Equal(t, []string{"c1", "c2", "c3"}, entries[0].Match.Metadata.Participants)
	assert.True(t, entries[0].Match.KickoffAt.Equal(time.Date(2026, 4, 1, 9, 0, 0, 0, time.UTC)))
}

func TestFlushReplaysIntoPrimaryAndDropsDuplicates(t *testing.T) {
	ctx := context.Background()
	buffer := openBuffer(t)
	for i, id := range []string{"m1", "m2", "m3"} {
		require.NoError(t, buffer.InsertMatch(ctx, fixture(id, time.Duration(i)*time.Hour)))
	}
	primary := repository.NewMemoryStore()
	require.NoError(t, primary.InsertMatch(ctx, fixture("m2", time.Hour)))

	report, err := buffer.Flush(ctx, primary)
	require.NoError(t, err)
	assert.Equal(t, FlushReport{Flushed: 2, Dropped: 1}, report)

	remaining, err := buffer.List(ctx)
	require.NoError(t, err)
	assert.Empty(t, remaining)

	stored, err := primary.ListMatches(ctx, repository.MatchFilter{Sector: registry.CAM})
	require.NoError(t, err)
	assert.Len(t, stored, 3)
}

func TestFlushStopsOnTransportFailure(t *testing.T) {
	ctx := context.Background()
	buffer := openBuffer(t)
	require.NoError(t, buffer.InsertMatch(ctx, fixture("m1", 0)))
	require.NoError(t, buffer.InsertMatch(ctx, fixture("m2", time.Hour)))

	down := &downWriter{}
	report, err := buffer.Flush(ctx, down)
	assert.Equal(t, app_error.KindTransport, app_error.KindOf(err))
	assert.Equal(t, 1, down.calls)
	assert.Equal(t, 2, report.Pending)

	entries, err := buffer.List(ctx)
	require.NoError(t, err)
	assert.Len(t, entries, 2)
	attempts := map[string]int{}
	for _, e := range entries {
		attempts[e.Match.Id] = e.Attempts
	}
	assert.Equal(t, map[string]int{"m1": 1, "m2": 0}, attempts)
}
