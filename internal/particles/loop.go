package particles

import (
	"context"
	"fmt"
	"sync"
	"time"
)

// DefaultFrameInterval paces a Loop at roughly 60 frames per second.
const DefaultFrameInterval = time.Second / 60

// Surface consumes one frame of draw commands.
type Surface interface {
	Present(cmds []Command) error
}

// SurfaceFunc adapts a function to Surface.
type SurfaceFunc func(cmds []Command) error

func (f SurfaceFunc) Present(cmds []Command) error { return f(cmds) }

// Loop drives a Simulator on a ticker for hosts without their own frame
// callback. Input from other goroutines goes through Post or Control so the
// simulator is only touched on the loop goroutine.
type Loop struct {
	sim      *Simulator
	surface  Surface
	interval time.Duration

	mu      sync.Mutex
	pending []func(*Simulator)
	samples int
}

// maxPendingSamples caps pointer samples queued between two frames.
const maxPendingSamples = 64

// NewLoop returns a loop presenting sim's frames to surface every interval.
func NewLoop(sim *Simulator, surface Surface, interval time.Duration) *Loop {
	if interval <= 0 {
		interval = DefaultFrameInterval
	}
	return &Loop{
		sim:      sim,
		surface:  surface,
		interval: interval,
	}
}

// Post queues a pointer sample to run on the loop goroutine before the next
// frame. Samples are dropped while the queue is full; a later one supersedes
// them anyway.
func (l *Loop) Post(fn func(*Simulator)) {
	l.mu.Lock()
	defer l.mu.Unlock()
	if l.samples >= maxPendingSamples {
		return
	}
	l.samples++
	l.pending = append(l.pending, fn)
}

// Control queues fn to run on the loop goroutine before the next frame, in
// order with posted samples. It never drops: use it for input that must not
// be lost, such as resizes.
func (l *Loop) Control(fn func(*Simulator)) {
	l.mu.Lock()
	l.pending = append(l.pending, fn)
	l.mu.Unlock()
}

// Run starts the simulator and presents frames until ctx is done, the
// simulator is stopped, or the surface fails.
func (l *Loop) Run(ctx context.Context) error {
	l.sim.Start()
	defer l.sim.Stop()

	ticker := time.NewTicker(l.interval)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			return nil
		case <-ticker.C:
		}

		l.drain()
		cmds, ok := l.sim.Frame()
		if !ok {
			return nil
		}
		if err := l.surface.Present(cmds); err != nil {
			return fmt.Errorf("present frame %d: %w", l.sim.Frames(), err)
		}
	}
}

func (l *Loop) drain() {
	l.mu.Lock()
	pending := l.pending
	l.pending, l.samples = nil, 0
	l.mu.Unlock()
	for _, fn := range pending {
		fn(l.sim)
	}
}
