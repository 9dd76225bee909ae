package alert

import (
	"sync"
	"time"

	"github.com/jonboulle/clockwork"
)

// DefaultDedupTTL is how long an alert ID is remembered.
const DefaultDedupTTL = time.Hour

// Deduplicator tracks recently seen alert IDs so a record repeated across
// polls is published once.
type Deduplicator struct {
	mu    sync.Mutex
	ttl   time.Duration
	clock clockwork.Clock
	seen  map[string]time.Time
}

// NewDeduplicator creates a deduplicator remembering IDs for ttl.
func NewDeduplicator(ttl time.Duration, clock clockwork.Clock) *Deduplicator {
	if ttl <= 0 {
		ttl = DefaultDedupTTL
	}
	if clock == nil {
		clock = clockwork.NewRealClock()
	}
	return &Deduplicator{
		ttl:   ttl,
		clock: clock,
		seen:  make(map[string]time.Time),
	}
}

// CheckAndMark reports whether id was seen within the TTL and records it as
// seen now when it was not.
func (d *Deduplicator) CheckAndMark(id string) bool {
	d.mu.Lock()
	defer d.mu.Unlock()

	now := d.clock.Now()
	if at, ok := d.seen[id]; ok && now.Sub(at) < d.ttl {
		return true
	}
	d.seen[id] = now
	return false
}

// Prune forgets expired IDs and returns how many were removed.
func (d *Deduplicator) Prune() int {
	d.mu.Lock()
	defer d.mu.Unlock()

	now := d.clock.Now()
	expired := 0
	for id, at := range d.seen {
		if now.Sub(at) >= d.ttl {
			delete(d.seen, id)
			expired++
		}
	}
	return expired
}

// Len is the number of remembered IDs.
func (d *Deduplicator) Len() int {
	d.mu.Lock()
	defer d.mu.Unlock()
	return len(d.seen)
}
