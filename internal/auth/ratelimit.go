package auth

import (
	"sync"
	"time"
)

// ipLimiter enforces a per-IP sliding window: at most `limit` admitted
// attempts within any 60-minute span. Each admitted attempt is timestamped;
// stamps older than the window are pruned on access, so the (limit+1)th
// attempt is denied anywhere inside the window, not just in a rapid burst.
// Denied attempts do not consume budget. Idle entries are evicted on access
// after ttl.
type ipLimiter struct {
	mu      sync.Mutex
	limit   int
	window  time.Duration
	ttl     time.Duration
	now     func() time.Time
	entries map[string]*ipWindow
}

type ipWindow struct {
	attempts []time.Time
	lastSeen time.Time
}

func newIPLimiter(perHour int, ttl time.Duration) *ipLimiter {
	return &ipLimiter{
		limit:   perHour,
		window:  time.Hour,
		ttl:     ttl,
		now:     time.Now,
		entries: make(map[string]*ipWindow),
	}
}

func (l *ipLimiter) allow(ip string) bool {
	if ip == "" {
		ip = "unknown"
	}
	now := l.now()
	l.mu.Lock()
	defer l.mu.Unlock()
	for k, w := range l.entries {
		if now.Sub(w.lastSeen) > l.ttl {
			delete(l.entries, k)
		}
	}
	w := l.entries[ip]
	if w == nil {
		w = &ipWindow{}
		l.entries[ip] = w
	}
	w.lastSeen = now

	cutoff := now.Add(-l.window)
	kept := w.attempts[:0]
	for _, t := range w.attempts {
		if t.After(cutoff) {
			kept = append(kept, t)
		}
	}
	w.attempts = kept

	if len(w.attempts) >= l.limit {
		return false
	}
	w.attempts = append(w.attempts, now)
	return true
}
