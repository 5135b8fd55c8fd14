package core

import (
	"context"
	"sync"
	"testing"

	"github.com/stretchr/testify/assert"
)

// TestContextConcurrentAccess tests that context values can be safely accessed concurrently.
func TestContextConcurrentAccess(t *testing.T) {
	ctx := withRunID(withSuppressHeader(context.Background()), 12345)

	const numGoroutines = 50
	var wg sync.WaitGroup
	wg.Add(numGoroutines)
	for i := range numGoroutines {
		go func(id int) {
			defer wg.Done()
			assert.True(t, shouldSuppressHeader(ctx), "Goroutine %d: shouldSuppressHeader should be true", id)
			assert.Equal(t, int64(12345), runIDFromContext(ctx), "Goroutine %d: runID should be 12345", id)
		}(i)
	}
	wg.Wait()
}

// TestContextIsolation tests that different contexts maintain isolation.
func TestContextIsolation(t *testing.T) {
	base := context.Background()
	ctx1 := withRunID(base, 1)
	ctx2 := withRunID(base, 2)
	ctx3 := withSuppressHeader(base)

	assert.Equal(t, int64(1), runIDFromContext(ctx1))
	assert.False(t, shouldSuppressHeader(ctx1))
	assert.Equal(t, int64(2), runIDFromContext(ctx2))
	assert.Equal(t, int64(0), runIDFromContext(ctx3))
	assert.True(t, shouldSuppressHeader(ctx3))
	assert.False(t, shouldSuppressHeader(base))
}
