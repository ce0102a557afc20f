package notify

import (
	"context"
	"sync"
)

const subscriberBuffer = 64

type subscription struct {
	filter Filter
	ch     chan Event
}

// Hub is the in-process publish/subscribe channel. Slow subscribers lose
// events rather than block publishers; the reconciliation sweep heals them.
type Hub struct {
	mu   sync.Mutex
	subs map[*subscription]struct{}
}

func NewHub() *Hub {
	return &Hub{subs: make(map[*subscription]struct{})}
}

func (h *Hub) Publish(ctx context.Context, event Event) error {
	h.mu.Lock()
	defer h.mu.Unlock()
	for sub := range h.subs {
		if !sub.filter.Match(event) {
			continue
		}
		select {
		case sub.ch <- event:
		default:
		}
	}
	return nil
}

func (h *Hub) Subscribe(ctx context.Context, filter Filter) (<-chan Event, error) {
	sub := &subscription{filter: filter, ch: make(chan Event, subscriberBuffer)}
	h.mu.Lock()
	h.subs[sub] = struct{}{}
	h.mu.Unlock()
	go func() {
		<-ctx.Done()
		h.mu.Lock()
		delete(h.subs, sub)
		close(sub.ch)
		h.mu.Unlock()
	}()
	return sub.ch, nil
}
