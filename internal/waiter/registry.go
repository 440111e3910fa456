// internal/waiter/registry.go
package waiter

import (
	"sync"
	"time"
)

// Waiter is a one-shot subscription to a set of status names.
// Its channel is closed at most once, by Notify.
type Waiter struct {
	names map[string]struct{}
	done  chan struct{}
}

// Done returns the completion signal. Closed when a subscribed
// status arrives.
func (w *Waiter) Done() <-chan struct{} {
	return w.done
}

// Registry is a concurrency-safe collection of pending waiters.
// The mutex guards collection mutation only; signal delivery always
// happens outside the lock.
type Registry struct {
	mu      sync.Mutex
	waiters []*Waiter
}

// NewRegistry returns an empty registry.
func NewRegistry() *Registry {
	return &Registry{}
}

// Register creates a waiter subscribed to the given status names.
func (r *Registry) Register(names ...string) *Waiter {
	w := &Waiter{
		names: make(map[string]struct{}, len(names)),
		done:  make(chan struct{}),
	}
	for _, n := range names {
		w.names[n] = struct{}{}
	}

	r.mu.Lock()
	r.waiters = append(r.waiters, w)
	r.mu.Unlock()
	return w
}

// Unregister removes a waiter. Idempotent; safe to call after the
// waiter already fired or was never registered.
func (r *Registry) Unregister(w *Waiter) {
	r.mu.Lock()
	kept := r.waiters[:0]
	for _, x := range r.waiters {
		if x != w {
			kept = append(kept, x)
		}
	}
	for i := len(kept); i < len(r.waiters); i++ {
		r.waiters[i] = nil
	}
	r.waiters = kept
	r.mu.Unlock()
}

// Notify fires every waiter subscribed to name and removes them.
// A notify that loses the race against a timeout-driven Unregister is
// dropped: once the waiter left the collection it can never fire, which
// keeps release semantics at-most-once.
func (r *Registry) Notify(name string) {
	var triggered []*Waiter

	r.mu.Lock()
	kept := r.waiters[:0]
	for _, w := range r.waiters {
		if _, ok := w.names[name]; ok {
			triggered = append(triggered, w)
		} else {
			kept = append(kept, w)
		}
	}
	for i := len(kept); i < len(r.waiters); i++ {
		r.waiters[i] = nil
	}
	r.waiters = kept
	r.mu.Unlock()

	for _, w := range triggered {
		close(w.done)
	}
}

// Pending reports how many waiters are currently registered.
func (r *Registry) Pending() int {
	r.mu.Lock()
	defer r.mu.Unlock()
	return len(r.waiters)
}

// Wait blocks until the waiter fires or timeout elapses.
// On timeout it unregisters itself so no stale entry lingers.
func (r *Registry) Wait(w *Waiter, timeout time.Duration) bool {
	timer := time.NewTimer(timeout)
	defer timer.Stop()

	select {
	case <-w.done:
		return true
	case <-timer.C:
		r.Unregister(w)
		return false
	}
}
