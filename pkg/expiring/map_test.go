package expiring

import (
	"fmt"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type clock struct{ t time.Time }

func (c *clock) now() time.Time { return c.t }
func (c *clock) advance(d time.Duration) { c.t = c.t.Add(d) }

func TestGetHonoursTTL(t *testing.T) {
	tests := []struct {
		name    string
		ttl     time.Duration
		elapsed time.Duration
		found   bool
	}{
		{"fresh", time.Hour, 59 * time.Minute, true},
		{"at expiry", time.Hour, time.Hour, false},
		{"lapsed", time.Hour, 2 * time.Hour, false},
		{"no ttl", 0, 1000 * time.Hour, true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			c := &clock{t: time.Unix(1700000000, 0)}
			m := NewWithClock[string](tt.ttl, c.now)
			m.Set("k", "v")

			c.advance(tt.elapsed)
			got, ok := m.Get("k")
			assert.Equal(t, tt.found, ok)
			if tt.found {
				assert.Equal(t, "v", got)
			} else {
				assert.Empty(t, got)
			}
		})
	}
}

func TestSetWithTTLOverridesDefault(t *testing.T) {
	c := &clock{t: time.Unix(1700000000, 0)}
	m := NewWithClock[int](time.Hour, c.now)
	m.SetWithTTL("short", 1, time.Minute)
	m.Set("long", 2)

	c.advance(2 * time.Minute)
	_, ok := m.Get("short")
	assert.False(t, ok)
	got, ok := m.Get("long")
	require.True(t, ok)
	assert.Equal(t, 2, got)
}

func TestWritesSweepLapsedEntries(t *testing.T) {
	c := &clock{t: time.Unix(1700000000, 0)}
	m := NewWithClock[int](time.Minute, c.now)
	for i := 0; i < 1000; i++ {
		m.Set(fmt.Sprintf("k%d", i), i)
	}

	c.advance(2 * time.Minute)
	m.Set("fresh", 1)

	m.mu.Lock()
	size := len(m.items)
	m.mu.Unlock()
	assert.Equal(t, 1, size)
	assert.Equal(t, 1, m.Len())
}

func TestDelete(t *testing.T) {
	m := New[string](time.Hour)
	m.Set("k", "v")
	m.Delete("k")
	m.Delete("missing")

	_, ok := m.Get("k")
	assert.False(t, ok)
	assert.Equal(t, 0, m.Len())
}
