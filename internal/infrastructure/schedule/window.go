// Package schedule defers verification runs: a randomized delay window shared
// by the in-process scheduler and the queue worker, simulating the latency of
// an external scoring service.
package schedule

import (
	"math/rand"
	"sync"
	"time"
)

// Window is a closed interval of verification delays.
type Window struct {
	Min time.Duration
	Max time.Duration
}

func (w Window) normalized() Window {
	out := w
	if out.Min < 0 {
		out.Min = 0
	}
	if out.Max < out.Min {
		out.Max = out.Min
	}
	return out
}

// Delays draws uniformly distributed durations from a Window.
type Delays struct {
	window Window

	mu  sync.Mutex
	rnd *rand.Rand
}

func NewDelays(window Window, seed int64) *Delays {
	if seed == 0 {
		seed = time.Now().UnixNano()
	}
	return &Delays{
		window: window.normalized(),
		rnd:    rand.New(rand.NewSource(seed)),
	}
}

func (d *Delays) Next() time.Duration {
	spread := d.window.Max - d.window.Min
	if spread <= 0 {
		return d.window.Min
	}
	d.mu.Lock()
	defer d.mu.Unlock()
	return d.window.Min + time.Duration(d.rnd.Int63n(int64(spread)+1))
}
