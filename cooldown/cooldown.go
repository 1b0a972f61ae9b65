// Package cooldown tracks per-key cooldown windows. The tracker records
// expiries; enforcement is up to whoever queries it.
package cooldown

import (
	"context"
	"sync"
	"time"
)

// Tracker maps keys to absolute expiry instants. Entries are removed lazily
// when a query finds them expired, or in bulk by Sweep. Safe for concurrent use.
type Tracker struct {
	mu     sync.Mutex
	expiry map[string]time.Time
	now    func() time.Time
}

// New returns an empty tracker.
func New() *Tracker {
	return &Tracker{
		expiry: make(map[string]time.Time),
		now:    time.Now,
	}
}

// Apply sets or overwrites the expiry for key to now + seconds. Re-applying
// replaces the window; it never accumulates.
func (t *Tracker) Apply(key string, seconds int) {
	t.mu.Lock()
	defer t.mu.Unlock()
	t.expiry[key] = t.now().Add(time.Duration(seconds) * time.Second)
}

// Remaining returns the whole seconds left on key, rounded up to the
// millisecond. An expired entry is deleted on read and reports zero, as does
// a key with no entry.
func (t *Tracker) Remaining(key string) int {
	t.mu.Lock()
	defer t.mu.Unlock()

	exp, ok := t.expiry[key]
	if !ok {
		return 0
	}
	ms := exp.Sub(t.now()).Milliseconds()
	if ms <= 0 {
		delete(t.expiry, key)
		return 0
	}
	return int((ms + 999) / 1000)
}

// Sweep removes every entry whose expiry is at or before the current instant
// and returns how many were removed. Intended to run periodically so keys
// that are never queried do not accumulate.
func (t *Tracker) Sweep() int {
	t.mu.Lock()
	defer t.mu.Unlock()

	now := t.now()
	removed := 0
	for key, exp := range t.expiry {
		if !exp.After(now) {
			delete(t.expiry, key)
			removed++
		}
	}
	return removed
}

// Len returns the number of tracked entries, expired or not.
func (t *Tracker) Len() int {
	t.mu.Lock()
	defer t.mu.Unlock()
	return len(t.expiry)
}

// RunSweeper sweeps the tracker on the given interval until ctx is done.
// Call from main or the client lifecycle.
func RunSweeper(ctx context.Context, t *Tracker, interval time.Duration) {
	ticker := time.NewTicker(interval)
	defer ticker.Stop()
	for {
		select {
		case <-ctx.Done():
			return
		case <-ticker.C:
			t.Sweep()
		}
	}
}
