package ratelimit

import (
	"fmt"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
)

func TestLimiterAllow(t *testing.T) {
	l := NewLimiter(time.Hour, 3)

	for i := 0; i < 3; i++ {
		assert.True(t, l.Allow("10.0.0.1"), "hit %d should be allowed", i+1)
	}
	assert.False(t, l.Allow("10.0.0.1"), "fourth hit inside the window should be rejected")

	// keys are independent
	assert.True(t, l.Allow("10.0.0.2"))
}

func TestLimiterZeroConfigAllowsEverything(t *testing.T) {
	l := NewLimiter(0, 0)
	for i := 0; i < 50; i++ {
		assert.True(t, l.Allow("any"))
	}
}

func TestLimiterConcurrentKeys(t *testing.T) {
	l := NewLimiter(time.Hour, 100)

	var wg sync.WaitGroup
	var mu sync.Mutex
	allowed := 0
	for i := 0; i < 200; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			if l.Allow("shared") {
				mu.Lock()
				allowed++
				mu.Unlock()
			}
		}()
	}
	wg.Wait()

	assert.Equal(t, 100, allowed)
}

func TestLimiterPrunesIdleBuckets(t *testing.T) {
	start := time.Unix(1700000000, 0)
	now := start
	l := NewLimiter(time.Minute, 2)
	l.now = func() time.Time { return now }

	for i := 0; i < 1000; i++ {
		assert.True(t, l.Allow(fmt.Sprintf("10.0.%d.%d", i/256, i%256)))
	}
	assert.True(t, l.Allow("busy"))
	assert.True(t, l.Allow("busy"))
	assert.False(t, l.Allow("busy"))
	assert.Len(t, l.buckets, 1001)

	// Inside the window nothing is dropped.
	now = start.Add(30 * time.Second)
	assert.True(t, l.Allow("recent"))
	assert.Len(t, l.buckets, 1002)

	// After a full window only the bucket used since survives.
	now = start.Add(61 * time.Second)
	assert.True(t, l.Allow("recent"))
	assert.Len(t, l.buckets, 1)

	// A dropped bucket had refilled, so its key starts over.
	assert.True(t, l.Allow("busy"))
	assert.True(t, l.Allow("busy"))
	assert.False(t, l.Allow("busy"))
}

func TestLimiterZeroConfigKeepsNoBuckets(t *testing.T) {
	l := NewLimiter(0, 0)
	for i := 0; i < 100; i++ {
		assert.True(t, l.Allow(fmt.Sprintf("k%d", i)))
	}
	assert.Empty(t, l.buckets)
}
