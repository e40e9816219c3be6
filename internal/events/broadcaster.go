// Package events fans history changes out to connected UI clients.
package events

import (
	"sync"

	"clipkeep/internal/models"
	"clipkeep/internal/providers"

	"github.com/google/uuid"
)

const (
	// EventClipboardChanged is the SSE event name carrying the full history.
	EventClipboardChanged = "clipboard-changed"

	subscriberBuffer = 8
)

// Event carries one history snapshot.
type Event struct {
	Name    string
	History []*models.ClipboardItem
}

type Subscription struct {
	ID string
	C  <-chan Event
	// Primed is set when C already holds the latest snapshot.
	Primed bool
	ch     chan Event
}

type BroadcasterInterface interface {
	Publish(history []*models.ClipboardItem)
	Subscribe() *Subscription
	Unsubscribe(sub *Subscription)
	Subscribers() int
}

// Broadcaster delivers events without blocking the publisher. A subscriber
// whose buffer is full misses that event and catches up on the next one.
type Broadcaster struct {
	mu     sync.RWMutex
	subs   map[string]*Subscription
	latest *Event
	logger providers.Logger
}

func NewBroadcaster(logger providers.Logger) BroadcasterInterface {
	return &Broadcaster{
		subs:   make(map[string]*Subscription),
		logger: logger,
	}
}

// Subscribe registers a listener. If anything was published before, the
// latest snapshot is queued immediately.
func (b *Broadcaster) Subscribe() *Subscription {
	ch := make(chan Event, subscriberBuffer)
	sub := &Subscription{ID: uuid.NewString(), C: ch, ch: ch}

	b.mu.Lock()
	b.subs[sub.ID] = sub
	if b.latest != nil {
		ch <- *b.latest
		sub.Primed = true
	}
	total := len(b.subs)
	b.mu.Unlock()

	b.logger.Debugf(providers.TypeApp, "Event subscriber %s registered, total=%d", sub.ID, total)
	return sub
}

func (b *Broadcaster) Unsubscribe(sub *Subscription) {
	b.mu.Lock()
	_, ok := b.subs[sub.ID]
	if ok {
		delete(b.subs, sub.ID)
		close(sub.ch)
	}
	total := len(b.subs)
	b.mu.Unlock()

	if ok {
		b.logger.Debugf(providers.TypeApp, "Event subscriber %s removed, total=%d", sub.ID, total)
	}
}

func (b *Broadcaster) Publish(history []*models.ClipboardItem) {
	ev := Event{Name: EventClipboardChanged, History: history}

	b.mu.Lock()
	defer b.mu.Unlock()
	b.latest = &ev
	for id, sub := range b.subs {
		select {
		case sub.ch <- ev:
		default:
			b.logger.Warnf(providers.TypeApp, "Event subscriber %s is slow, dropped %s", id, ev.Name)
		}
	}
}

func (b *Broadcaster) Subscribers() int {
	b.mu.RLock()
	defer b.mu.RUnlock()
	return len(b.subs)
}
