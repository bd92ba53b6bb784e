// Package health exposes liveness and readiness probes for the HTTP server.
//
// Registered checks run on a shared background poller. The probe endpoints
// report the result of the most recent poll; they never execute checks inline,
// so a slow dependency cannot stall the kubelet.
package health

import (
	"context"
	"net/http"
	"sync"
	"sync/atomic"
	"time"

	"github.com/go-faster/jx"
)

// CheckFunc probes a single dependency. A nil return means healthy.
type CheckFunc func(ctx context.Context) error

type kind int

const (
	liveness kind = iota
	readiness
)

type check struct {
	name    string
	kind    kind
	timeout time.Duration
	fn      CheckFunc
}

// Health runs registered checks periodically and serves probe endpoints.
type Health struct {
	ready atomic.Bool

	mu      sync.Mutex
	checks  []*check
	results map[string]error
	cancel  context.CancelFunc
	done    chan struct{}
}

// New returns a Health with no checks registered. The service starts
// not ready; call SetReady(true) once initialization is complete.
func New() *Health {
	return &Health{results: make(map[string]error)}
}

// AddLivenessCheck registers a check that decides whether the process
// should be restarted.
func (h *Health) AddLivenessCheck(name string, timeout time.Duration, fn CheckFunc) {
	h.add(&check{name: name, kind: liveness, timeout: timeout, fn: fn})
}

// AddReadinessCheck registers a check that decides whether the service
// should receive traffic.
func (h *Health) AddReadinessCheck(name string, timeout time.Duration, fn CheckFunc) {
	h.add(&check{name: name, kind: readiness, timeout: timeout, fn: fn})
}

func (h *Health) add(c *check) {
	h.mu.Lock()
	defer h.mu.Unlock()
	h.checks = append(h.checks, c)
}

// Start launches the background poller. All checks run once immediately,
// then again every interval until the context is cancelled or Stop is called.
func (h *Health) Start(ctx context.Context, interval time.Duration) {
	ctx, cancel := context.WithCancel(ctx)
	done := make(chan struct{})

	h.mu.Lock()
	h.cancel = cancel
	h.done = done
	h.mu.Unlock()

	go func() {
		defer close(done)

		ticker := time.NewTicker(interval)
		defer ticker.Stop()

		h.poll(ctx)
		for {
			select {
			case <-ctx.Done():
				return
			case <-ticker.C:
				h.poll(ctx)
			}
		}
	}()
}

// poll runs every registered check once and records the results.
func (h *Health) poll(ctx context.Context) {
	h.mu.Lock()
	checks := make([]*check, len(h.checks))
	copy(checks, h.checks)
	h.mu.Unlock()

	results := make(map[string]error, len(checks))
	for _, c := range checks {
		checkCtx, cancel := context.WithTimeout(ctx, c.timeout)
		results[c.name] = c.fn(checkCtx)
		cancel()
	}

	h.mu.Lock()
	for name, err := range results {
		h.results[name] = err
	}
	h.mu.Unlock()
}

// Stop terminates the background poller and waits for it to exit.
// Safe to call multiple times.
func (h *Health) Stop() {
	h.mu.Lock()
	cancel, done := h.cancel, h.done
	h.cancel, h.done = nil, nil
	h.mu.Unlock()

	if cancel != nil {
		cancel()
		<-done
	}
}

// SetReady flips the manual readiness gate. The gate is set after startup
// and cleared at the beginning of graceful shutdown so load balancers drain
// the instance before the listener closes.
func (h *Health) SetReady(ready bool) {
	h.ready.Store(ready)
}

// IsReady reports whether the manual gate is set and every readiness check
// passed on the last poll.
func (h *Health) IsReady() bool {
	if !h.ready.Load() {
		return false
	}
	return len(h.failures(readiness)) == 0
}

// failures returns check name to error message for failing checks of the
// given kind, based on the last poll.
func (h *Health) failures(k kind) map[string]string {
	h.mu.Lock()
	defer h.mu.Unlock()

	out := make(map[string]string)
	for _, c := range h.checks {
		if c.kind != k {
			continue
		}
		if err, polled := h.results[c.name]; polled && err != nil {
			out[c.name] = err.Error()
		}
	}
	return out
}

// LiveEndpoint serves the /livez probe. 200 when all liveness checks passed
// on the last poll, 503 with per-check messages otherwise.
func (h *Health) LiveEndpoint(w http.ResponseWriter, _ *http.Request) {
	writeProbe(w, h.failures(liveness))
}

// ReadyEndpoint serves the /readyz probe. 200 requires both the manual
// readiness gate and every readiness check.
func (h *Health) ReadyEndpoint(w http.ResponseWriter, _ *http.Request) {
	failures := h.failures(readiness)
	if !h.ready.Load() {
		failures["service"] = "not ready"
	}
	writeProbe(w, failures)
}

func writeProbe(w http.ResponseWriter, failures map[string]string) {
	status := "ok"
	code := http.StatusOK
	if len(failures) > 0 {
		status = "unhealthy"
		code = http.StatusServiceUnavailable
	}

	var e jx.Encoder
	e.Obj(func(e *jx.Encoder) {
		e.Field("status", func(e *jx.Encoder) { e.Str(status) })
		if len(failures) > 0 {
			e.Field("checks", func(e *jx.Encoder) {
				e.Obj(func(e *jx.Encoder) {
					for name, msg := range failures {
						e.Field(name, func(e *jx.Encoder) { e.Str(msg) })
					}
				})
			})
		}
	})

	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(code)
	_, _ = w.Write(e.Bytes())
}
