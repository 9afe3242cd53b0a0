package particles

import (
	"fmt"
	"math/rand"
	"sync/atomic"
)

// Lifecycle states of a Simulator.
const (
	stateIdle int32 = iota
	stateRunning
	statePaused
	stateStopped
)

// Simulator owns a field, the latest pointer snapshot and its lifecycle.
// Input and Frame calls belong to the host's frame goroutine; the lifecycle
// calls (Start, Stop, Pause, Resume and their queries) may come from anywhere.
type Simulator struct {
	field   State
	pointer Pointer
	frames  uint64
	state   atomic.Int32
}

// NewSimulator creates a field of count particles. The simulator starts idle.
func NewSimulator(count int, width, height float64, p Params, rng *rand.Rand) (*Simulator, error) {
	field, err := CreateWithParams(count, width, height, p, rng)
	if err != nil {
		return nil, err
	}
	return &Simulator{field: field}, nil
}

// Start begins producing frames. A stopped simulator cannot be restarted.
func (s *Simulator) Start() {
	s.state.CompareAndSwap(stateIdle, stateRunning)
}

// Stop halts the loop for good.
func (s *Simulator) Stop() {
	s.state.Store(stateStopped)
}

// Pause freezes the field; frames still draw the frozen state.
func (s *Simulator) Pause() {
	s.state.CompareAndSwap(stateRunning, statePaused)
}

// Resume undoes Pause.
func (s *Simulator) Resume() {
	s.state.CompareAndSwap(statePaused, stateRunning)
}

// Running reports whether the simulator still produces frames (paused counts).
func (s *Simulator) Running() bool {
	st := s.state.Load()
	return st == stateRunning || st == statePaused
}

// Paused reports whether ticking is suspended.
func (s *Simulator) Paused() bool {
	return s.state.Load() == statePaused
}

// Stopped reports whether Stop has been called.
func (s *Simulator) Stopped() bool {
	return s.state.Load() == stateStopped
}

// PointerMoved records a pointer position in canvas coordinates.
func (s *Simulator) PointerMoved(x, y float64) {
	s.pointer = Pointer{Present: true, X: x, Y: y}
}

// PointerLeft clears the pointer.
func (s *Simulator) PointerLeft() {
	s.pointer = Pointer{}
}

// Pointer returns the current pointer snapshot.
func (s *Simulator) Pointer() Pointer {
	return s.pointer
}

// Resize changes the wrap bounds. Particles keep their positions; any that
// now sit outside are folded back by the next tick.
func (s *Simulator) Resize(width, height float64) error {
	d := Dimensions{Width: width, Height: height}
	if !d.valid() {
		return fmt.Errorf("%w: canvas %vx%v", ErrInvalidConfig, width, height)
	}
	s.field.Bounds = d
	return nil
}

// Bounds returns the current canvas dimensions.
func (s *Simulator) Bounds() Dimensions {
	return s.field.Bounds
}

// Frame advances the field one tick and returns its draw commands. A paused
// simulator redraws without ticking. ok is false once the simulator is not
// running.
func (s *Simulator) Frame() (cmds []Command, ok bool) {
	switch s.state.Load() {
	case stateRunning:
		s.field = Tick(s.field, s.pointer)
		s.frames++
	case statePaused:
	default:
		return nil, false
	}
	return Draw(s.field, Connections(s.field)), true
}

// Frames counts ticks taken so far.
func (s *Simulator) Frames() uint64 {
	return s.frames
}

// Len is the number of particles in the field.
func (s *Simulator) Len() int {
	return len(s.field.Particles)
}

// Particles returns a copy of the current particles.
func (s *Simulator) Particles() []Particle {
	return append([]Particle(nil), s.field.Particles...)
}
