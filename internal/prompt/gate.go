// internal/prompt/gate.go
package prompt

import (
	"sync"
	"time"

	"github.com/espscout/espscout/internal/waiter"
)

// DefaultHoldDelay is the grace window after local commands, letting
// device output surface before the prompt redraws.
const DefaultHoldDelay = 800 * time.Millisecond

// Gate is the single readiness flag the console loop blocks on before
// reading the next line. A closed ready channel means ready; holding
// swaps in a fresh channel. No lock is held while waiting.
type Gate struct {
	registry *waiter.Registry

	mu    sync.Mutex
	ready chan struct{}
}

// NewGate returns a gate that starts ready.
func NewGate(registry *waiter.Registry) *Gate {
	ready := make(chan struct{})
	close(ready)
	return &Gate{registry: registry, ready: ready}
}

// Wait blocks until the gate is ready.
func (g *Gate) Wait() {
	g.mu.Lock()
	ch := g.ready
	g.mu.Unlock()
	<-ch
}

// Release marks the gate ready immediately.
func (g *Gate) Release() {
	g.mu.Lock()
	select {
	case <-g.ready:
		// already ready
	default:
		close(g.ready)
	}
	g.mu.Unlock()
}

// Hold marks the gate not-ready now and releases it after delay.
// Non-blocking; the timer runs independently of the caller.
func (g *Gate) Hold(delay time.Duration) {
	g.clear()
	time.AfterFunc(delay, g.Release)
}

// DefaultHold is Hold with the standard post-command delay.
func (g *Gate) DefaultHold() {
	g.Hold(DefaultHoldDelay)
}

// HoldUntilStatus holds the gate until one of the named statuses
// arrives or timeout elapses. On timeout the waiter is dropped and the
// gate releases after a fallback grace delay, giving the device room to
// finish emitting related debug output.
func (g *Gate) HoldUntilStatus(names []string, timeout, fallback time.Duration) {
	w := g.registry.Register(names...)
	g.clear()

	go func() {
		if !g.registry.Wait(w, timeout) && fallback > 0 {
			time.Sleep(fallback)
		}
		g.Release()
	}()
}

func (g *Gate) clear() {
	g.mu.Lock()
	select {
	case <-g.ready:
		g.ready = make(chan struct{})
	default:
		// already held
	}
	g.mu.Unlock()
}
