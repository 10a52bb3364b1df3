// Package expiring provides an in-memory map whose entries lapse after a
// time to live. It backs the in-memory stores used when Redis is not
// configured.
package expiring

import (
	"sync"
	"time"
)

// sweepInterval bounds how often writes scan the whole map for lapsed
// entries.
const sweepInterval = time.Minute

type item[V any] struct {
	value   V
	expires time.Time
}

func (it item[V]) expired(now time.Time) bool {
	return !it.expires.IsZero() && !now.Before(it.expires)
}

// Map is safe for concurrent use. Lapsed entries are never returned and are
// dropped by a periodic sweep on write.
type Map[V any] struct {
	mu        sync.Mutex
	items     map[string]item[V]
	ttl       time.Duration
	now       func() time.Time
	nextSweep time.Time
}

// New returns a map whose entries live for ttl. A ttl <= 0 keeps entries
// until they are deleted.
func New[V any](ttl time.Duration) *Map[V] {
	return NewWithClock[V](ttl, time.Now)
}

func NewWithClock[V any](ttl time.Duration, now func() time.Time) *Map[V] {
	return &Map[V]{
		items: make(map[string]item[V]),
		ttl:   ttl,
		now:   now,
	}
}

func (m *Map[V]) Set(key string, value V) {
	m.SetWithTTL(key, value, m.ttl)
}

// SetWithTTL stores value under key for ttl instead of the map's default.
func (m *Map[V]) SetWithTTL(key string, value V, ttl time.Duration) {
	m.mu.Lock()
	defer m.mu.Unlock()

	now := m.now()
	m.sweep(now)

	it := item[V]{value: value}
	if ttl > 0 {
		it.expires = now.Add(ttl)
	}
	m.items[key] = it
}

func (m *Map[V]) Get(key string) (V, bool) {
	m.mu.Lock()
	defer m.mu.Unlock()

	it, ok := m.items[key]
	if !ok {
		var zero V
		return zero, false
	}
	if it.expired(m.now()) {
		delete(m.items, key)
		var zero V
		return zero, false
	}
	return it.value, true
}

func (m *Map[V]) Delete(key string) {
	m.mu.Lock()
	defer m.mu.Unlock()
	delete(m.items, key)
}

// Len counts the entries that have not lapsed.
func (m *Map[V]) Len() int {
	m.mu.Lock()
	defer m.mu.Unlock()

	m.nextSweep = time.Time{}
	m.sweep(m.now())
	return len(m.items)
}

func (m *Map[V]) sweep(now time.Time) {
	if now.Before(m.nextSweep) {
		return
	}
	for key, it := range m.items {
		if it.expired(now) {
			delete(m.items, key)
		}
	}
	m.nextSweep = now.Add(sweepInterval)
}
