package auth

import (
	"context"
	"time"

	"aegis.gg/internal/ids"
	"aegis.gg/internal/obs"
)

const (
	auditQueueSize   = 256
	auditWriteBudget = 5 * time.Second
)

// AuditSink decouples audit writes from the request path. Entries go through
// a bounded channel to a single background writer; a full queue or a failing
// store drops the entry with an internal log line. The contract is
// "attempted", not "confirmed delivered".
type AuditSink struct {
	store  AuditStore
	fanout func(AuditEntry)
	ch     chan *AuditEntry
	done   chan struct{}
}

// SinkOption configures an AuditSink.
type SinkOption func(*AuditSink)

// WithAuditFanout registers an observer called with a copy of every entry the
// writer persists (or attempts to). Live feeds hook in here.
func WithAuditFanout(fn func(AuditEntry)) SinkOption {
	return func(s *AuditSink) {
		s.fanout = fn
	}
}

// NewAuditSink starts the background writer.
func NewAuditSink(store AuditStore, opts ...SinkOption) *AuditSink {
	s := &AuditSink{
		store: store,
		ch:    make(chan *AuditEntry, auditQueueSize),
		done:  make(chan struct{}),
	}
	for _, opt := range opts {
		opt(s)
	}
	go s.run()
	return s
}

// Record enqueues an entry without blocking. Never fails the caller.
func (s *AuditSink) Record(entry *AuditEntry) {
	if entry == nil {
		return
	}
	if entry.ID == "" {
		entry.ID = ids.New()
	}
	if entry.OccurredAt.IsZero() {
		entry.OccurredAt = time.Now().UTC()
	}
	select {
	case s.ch <- entry:
	default:
		obs.LogRequest(map[string]any{
			"level":  "warn",
			"msg":    "audit queue full, entry dropped",
			"action": entry.Action,
		})
	}
}

// Close stops the writer after draining queued entries.
func (s *AuditSink) Close() {
	close(s.ch)
	<-s.done
}

func (s *AuditSink) run() {
	defer close(s.done)
	for entry := range s.ch {
		if s.fanout != nil {
			s.fanout(*entry)
		}
		ctx, cancel := context.WithTimeout(context.Background(), auditWriteBudget)
		if err := s.store.Append(ctx, entry); err != nil {
			obs.LogRequest(map[string]any{
				"level":  "warn",
				"msg":    "audit append failed",
				"action": entry.Action,
				"error":  err.Error(),
			})
		}
		cancel()
	}
}
