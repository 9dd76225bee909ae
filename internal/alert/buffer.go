package alert

import (
	"sync"

	"github.com/couchcryptid/shelter-nav/internal/domain"
)

// DefaultBufferSize is the per-category bound when none is configured.
const DefaultBufferSize = 5

// Buffer keeps the most recent records of each category, newest first.
type Buffer struct {
	mu      sync.RWMutex
	size    int
	records map[domain.Category][]domain.AlertRecord
}

// NewBuffer creates a buffer holding at most size records per category.
func NewBuffer(size int) *Buffer {
	if size < 1 {
		size = DefaultBufferSize
	}
	return &Buffer{
		size:    size,
		records: make(map[domain.Category][]domain.AlertRecord),
	}
}

// Add inserts rec at the front of its category and drops the oldest records
// beyond the bound, returning the dropped ones. A record whose ID is already
// buffered is moved to the front instead of duplicated.
func (b *Buffer) Add(rec domain.AlertRecord) (evicted []domain.AlertRecord) {
	b.mu.Lock()
	defer b.mu.Unlock()

	current := b.records[rec.Category]
	next := make([]domain.AlertRecord, 0, min(len(current)+1, b.size))
	next = append(next, rec)
	for _, r := range current {
		if r.ID == rec.ID {
			continue
		}
		if len(next) == b.size {
			evicted = append(evicted, r)
			continue
		}
		next = append(next, r)
	}
	b.records[rec.Category] = next
	return evicted
}

// Restore appends rec behind the records of its category when there is room
// and its ID is not already buffered.
func (b *Buffer) Restore(rec domain.AlertRecord) bool {
	b.mu.Lock()
	defer b.mu.Unlock()

	current := b.records[rec.Category]
	if len(current) >= b.size {
		return false
	}
	for _, r := range current {
		if r.ID == rec.ID {
			return false
		}
	}
	b.records[rec.Category] = append(current, rec)
	return true
}

// Remove drops the record with the given ID from a category.
func (b *Buffer) Remove(category domain.Category, id string) bool {
	b.mu.Lock()
	defer b.mu.Unlock()

	current := b.records[category]
	for i, r := range current {
		if r.ID == id {
			b.records[category] = append(current[:i:i], current[i+1:]...)
			return true
		}
	}
	return false
}

// Category returns a copy of one category's records, newest first.
func (b *Buffer) Category(category domain.Category) []domain.AlertRecord {
	b.mu.RLock()
	defer b.mu.RUnlock()

	out := make([]domain.AlertRecord, len(b.records[category]))
	copy(out, b.records[category])
	return out
}

// Snapshot returns a copy of every category. Categories without records are
// present with an empty slice.
func (b *Buffer) Snapshot() map[domain.Category][]domain.AlertRecord {
	out := make(map[domain.Category][]domain.AlertRecord, len(domain.Categories))
	for _, c := range domain.Categories {
		out[c] = b.Category(c)
	}
	return out
}

// Size is the per-category bound.
func (b *Buffer) Size() int { return b.size }
