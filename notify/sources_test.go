package notify

import (
	"context"
	"encoding/json"
	"testing"
	"time"

	"housecup/registry"

	"github.com/lib/pq"
	"github.com/rs/zerolog"
	"github.com/segmentio/kafka-go"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type fakeReader struct {
	messages chan kafka.Message
	closed   bool
}

func (r *fakeReader) ReadMessage(ctx context.Context) (kafka.Message, error) {
	select {
	case msg := <-r.messages:
		return msg, nil
	case <-ctx.Done():
		return kafka.Message{}, ctx.Err()
	}
}

func (r *fakeReader) Close() error {
	r.closed = true
	return nil
}

func TestKafkaSubscriberDecodesAndFilters(t *testing.T) {
	reader := &fakeReader{messages: make(chan kafka.Message, 3)}
	sub := &KafkaSubscriber{open: func() (messageReader, error) { return reader, nil }, logger: zerolog.Nop()}

	upss, _ := json.Marshal(Event{Table: TableMatches, Op: "update", MatchId: "m1", Sector: registry.UPSS, Version: 3})
	cam, _ := json.Marshal(Event{Table: TableMatches, Op: "update", MatchId: "m2", Sector: registry.CAM, Version: 2})
	reader.messages <- kafka.Message{Value: cam}
	reader.messages <- kafka.Message{Value: upss}
	reader.messages <- kafka.Message{Value: []byte("not json")}

	ctx, cancel := context.WithCancel(context.Background())
	ch, err := sub.Subscribe(ctx, Filter{Sector: registry.UPSS})
	require.NoError(t, err)

	first := <-ch
	assert.Equal(t, "m1", first.MatchId)
	assert.Equal(t, 3, first.Version)
	second := <-ch
	assert.Equal(t, OpResync, second.Op)

	cancel()
	assert.Eventually(t, func() bool {
		_, open := <-ch
		return !open
	}, time.Second, 5*time.Millisecond)
}

func TestPgListenerDecode(t *testing.T) {
	l := NewPgListener("", "housecup_changes", zerolog.Nop())

	event := l.decode(&pq.Notification{Extra: `{"table":"results","op":"insert","match_id":"m1","sector":"CAGS","version":null,"at":"2026-03-02T10:00:00Z"}`})
	assert.Equal(t, TableResults, event.Table)
	assert.Equal(t, registry.CAGS, event.Sector)
	assert.Equal(t, 0, event.Version)

	assert.Equal(t, OpResync, l.decode(nil).Op)
	assert.Equal(t, OpResync, l.decode(&pq.Notification{Extra: "{"}).Op)
}

func TestPublishersReportFirstFailure(t *testing.T) {
	hub := NewHub()
	ch, err := hub.Subscribe(context.Background(), Filter{})
	require.NoError(t, err)
	assert.NoError(t, Publishers{hub}.Publish(context.Background(), Event{Table: TableMatches, MatchId: "m1"}))
	assert.Equal(t, "m1", (<-ch).MatchId)
}
