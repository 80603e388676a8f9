// Package activity exposes a live feed of audit events for the admin panel.
// The feed is in-process fan-out; it carries no history and drops events for
// slow consumers. The activity_log table remains the durable record.
package activity

import (
	"context"
	"sync"
	"time"

	"aegis.gg/internal/auth"
)

// Event is the wire shape pushed to feed subscribers. It deliberately omits
// IP addresses and user agents; those stay in the durable log.
type Event struct {
	ActorID    string    `json:"actor_id,omitempty"`
	ActorType  string    `json:"actor_type,omitempty"`
	Action     string    `json:"action"`
	TargetType string    `json:"target_type,omitempty"`
	TargetID   string    `json:"target_id,omitempty"`
	Success    bool      `json:"success"`
	OccurredAt time.Time `json:"occurred_at"`
}

// FromAudit converts a persisted audit entry into its feed representation.
func FromAudit(e auth.AuditEntry) Event {
	return Event{
		ActorID:    e.ActorID,
		ActorType:  e.ActorType,
		Action:     e.Action,
		TargetType: e.TargetType,
		TargetID:   e.TargetID,
		Success:    e.Success,
		OccurredAt: e.OccurredAt,
	}
}

// Feed fans events out to all active subscribers.
type Feed struct {
	mu   sync.RWMutex
	subs map[int]chan Event
	next int
}

// NewFeed returns an empty feed.
func NewFeed() *Feed {
	return &Feed{subs: make(map[int]chan Event)}
}

// Subscribe registers a subscriber and returns its event channel. The channel
// is closed when ctx ends.
func (f *Feed) Subscribe(ctx context.Context) <-chan Event {
	ch := make(chan Event, 16)

	f.mu.Lock()
	id := f.next
	f.next++
	f.subs[id] = ch
	f.mu.Unlock()

	go func() {
		<-ctx.Done()
		f.mu.Lock()
		delete(f.subs, id)
		close(ch)
		f.mu.Unlock()
	}()

	return ch
}

// Publish delivers the event to every subscriber. A subscriber whose buffer
// is full misses the event rather than blocking the publisher.
func (f *Feed) Publish(evt Event) {
	f.mu.RLock()
	defer f.mu.RUnlock()
	for _, ch := range f.subs {
		select {
		case ch <- evt:
		default:
		}
	}
}

// Subscribers reports the current subscriber count.
func (f *Feed) Subscribers() int {
	f.mu.RLock()
	defer f.mu.RUnlock()
	return len(f.subs)
}
