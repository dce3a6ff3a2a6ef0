package backend

import (
	"context"
	"errors"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
)

func TestHealthLatchIsMonotonic(t *testing.T) {
	h := NewStatic(true)
	assert.True(t, h.Available())

	h.MarkUnavailable()
	assert.False(t, h.Available())

	// No API path leads back to available.
	h.MarkUnavailable()
	assert.False(t, h.Available())
}

func TestHealthProbeFailureTripsLatch(t *testing.T) {
	probed := make(chan struct{})
	h := New(func(ctx context.Context) error {
		defer close(probed)
		return errors.New("connection refused")
	})

	select {
	case <-probed:
	case <-time.After(2 * time.Second):
		t.Fatal("probe did not run")
	}

	// The latch is set after the probe returns; give the goroutine a moment.
	assert.Eventually(t, func() bool { return !h.Available() }, time.Second, 10*time.Millisecond)
}

func TestHealthProbeSuccessKeepsAvailable(t *testing.T) {
	probed := make(chan struct{})
	h := New(func(ctx context.Context) error {
		defer close(probed)
		return nil
	})

	<-probed
	assert.True(t, h.Available())
}

func TestHealthTripHookFiresOnce(t *testing.T) {
	var mu sync.Mutex
	trips := 0
	h := NewStatic(true)
	h.onTrip = func() {
		mu.Lock()
		trips++
		mu.Unlock()
	}

	var wg sync.WaitGroup
	for i := 0; i < 8; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			h.MarkUnavailable()
		}()
	}
	wg.Wait()

	mu.Lock()
	defer mu.Unlock()
	assert.Equal(t, 1, trips)
	assert.False(t, h.Available())
}

func TestNewStaticUnavailable(t *testing.T) {
	h := NewStatic(false)
	assert.False(t, h.Available())
}
