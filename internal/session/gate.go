// internal/session/gate.go
package session

import (
	"context"
	"sync"
)

// pauseGate is the suspension point the workflow engine awaits between
// cycles. Open lets Wait return immediately; closed blocks Wait until the
// gate reopens or the context is cancelled.
type pauseGate struct {
	mu     sync.Mutex
	opened chan struct{} // closed-channel == gate open
}

func newPauseGate() *pauseGate {
	g := &pauseGate{opened: make(chan struct{})}
	close(g.opened) // gates start open
	return g
}

func (g *pauseGate) close() {
	g.mu.Lock()
	defer g.mu.Unlock()
	select {
	case <-g.opened:
		g.opened = make(chan struct{})
	default:
		// already closed
	}
}

func (g *pauseGate) open() {
	g.mu.Lock()
	defer g.mu.Unlock()
	select {
	case <-g.opened:
		// already open
	default:
		close(g.opened)
	}
}

// Wait implements workflow.Gate.
func (g *pauseGate) Wait(ctx context.Context) error {
	for {
		g.mu.Lock()
		ch := g.opened
		g.mu.Unlock()

		select {
		case <-ctx.Done():
			return ctx.Err()
		case <-ch:
			// The channel we grabbed is open; a concurrent re-close swaps in
			// a fresh channel, so loop and re-check rather than fall through.
			g.mu.Lock()
			current := g.opened
			g.mu.Unlock()
			if current == ch {
				return nil
			}
		}
	}
}
