// Package backend tracks availability of the remote object-storage/relational
// backend. The state is a one-way latch: once any backend operation fails the
// process stays on the fallback path until restart. There is no periodic
// re-probe or backoff; callers that need recovery restart the process.
package backend

import (
	"context"
	"sync"
	"sync/atomic"
	"time"

	"arquivo/internal/logging"
)

// ProbeFunc checks connectivity to the remote backend.
type ProbeFunc func(ctx context.Context) error

// Health is the process-wide backend availability latch. It is injected by
// handle into every component that chooses between the remote and fallback
// code paths, so tests can flip it deterministically.
//
// Setting the latch unavailable is idempotent; concurrent failures racing to
// trip it are harmless, so no lock guards the flag itself.
type Health struct {
	unavailable atomic.Bool
	once        sync.Once
	log         *logging.Logger
	onTrip      func()
}

// Option configures a Health latch.
type Option func(*Health)

// WithTripHook registers fn to run once when the latch trips. Used to bump a
// fallback-activation counter.
func WithTripHook(fn func()) Option {
	return func(h *Health) { h.onTrip = fn }
}

// New creates a Health latch and fires the probe asynchronously. The caller
// is not blocked; until the probe completes the backend is assumed available.
// A nil probe skips the startup check.
func New(probe ProbeFunc, opts ...Option) *Health {
	h := &Health{log: logging.New("backend")}
	for _, opt := range opts {
		opt(h)
	}

	if probe != nil {
		go func() {
			ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
			defer cancel()
			if err := probe(ctx); err != nil {
				h.log.Error("backend_probe_failed", err, nil)
				h.MarkUnavailable()
				return
			}
			h.log.Info("backend_probe_ok", nil)
		}()
	}

	return h
}

// NewStatic creates a latch pinned to the given availability, with no probe.
// Used by tests and by deployments that disable the remote backend outright.
func NewStatic(available bool) *Health {
	h := &Health{log: logging.New("backend")}
	if !available {
		h.unavailable.Store(true)
	}
	return h
}

// Available reports whether the remote backend path should be used.
func (h *Health) Available() bool {
	return !h.unavailable.Load()
}

// MarkUnavailable trips the latch. The state never returns to available for
// the remainder of the process lifetime.
func (h *Health) MarkUnavailable() {
	h.unavailable.Store(true)
	h.once.Do(func() {
		h.log.Warn("backend_unavailable", map[string]any{"fallback": "local"})
		if h.onTrip != nil {
			h.onTrip()
		}
	})
}
