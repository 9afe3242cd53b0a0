// Package particles simulates the hero canvas particle field: particles drift,
// shy away from the pointer and are linked to near neighbours by faint lines.
package particles

import (
	"errors"
	"fmt"
	"math"
	"math/rand"

	"gonum.org/v1/gonum/spatial/r2"
)

// ErrInvalidConfig reports parameters the field cannot be built from.
var ErrInvalidConfig = errors.New("particles: invalid configuration")

// Params holds the tunables of a field. DefaultParams matches the hero canvas.
type Params struct {
	InteractionRadius float64 // pointer influence radius
	ForceScale        float64 // velocity change per unit offset at full force
	AccentAlpha       float64 // accent alpha at full force
	Easing            float64 // fraction of the size gap closed per tick
	MaxSize           float64 // cap on the eased-toward radius

	LinkDistance float64
	LinkAlpha    float64 // alpha of a zero-length link
	LinkWidth    float64

	GridThreshold int // particle count above which links use a grid
}

// DefaultParams returns the hero canvas tunables.
func DefaultParams() Params {
	return Params{
		InteractionRadius: 100,
		ForceScale:        0.001,
		AccentAlpha:       0.3,
		Easing:            0.1,
		MaxSize:           12,
		LinkDistance:      150,
		LinkAlpha:         0.1,
		LinkWidth:         0.5,
		GridThreshold:     256,
	}
}

// Initial particle ranges.
const (
	minSize       = 1.0
	sizeSpan      = 2.0
	maxSpeed      = 0.25
	minBaseAlpha  = 0.1
	baseAlphaSpan = 0.2

	// distanceEpsilon floors the pointer distance so a particle sitting
	// exactly under the pointer still gets a finite, maximal force.
	distanceEpsilon = 1e-9
)

// State is a complete snapshot of a field.
type State struct {
	Particles []Particle
	Bounds    Dimensions
	Params    Params
}

// Create places count particles uniformly inside a width x height canvas.
// All randomness comes from rng; nothing random happens after creation.
func Create(count int, width, height float64, rng *rand.Rand) (State, error) {
	return CreateWithParams(count, width, height, DefaultParams(), rng)
}

// CreateWithParams is Create with explicit tunables.
func CreateWithParams(count int, width, height float64, p Params, rng *rand.Rand) (State, error) {
	bounds := Dimensions{Width: width, Height: height}
	switch {
	case count <= 0:
		return State{}, fmt.Errorf("%w: particle count %d", ErrInvalidConfig, count)
	case !bounds.valid():
		return State{}, fmt.Errorf("%w: canvas %vx%v", ErrInvalidConfig, width, height)
	case rng == nil:
		return State{}, fmt.Errorf("%w: nil random source", ErrInvalidConfig)
	case !(p.InteractionRadius > 0) || !(p.LinkDistance > 0):
		return State{}, fmt.Errorf("%w: non-positive radius", ErrInvalidConfig)
	}

	ps := make([]Particle, count)
	for i := range ps {
		size := minSize + rng.Float64()*sizeSpan
		base := Primary.WithAlpha(minBaseAlpha + rng.Float64()*baseAlphaSpan)
		ps[i] = Particle{
			Pos: r2.Vec{X: rng.Float64() * width, Y: rng.Float64() * height},
			Vel: r2.Vec{
				X: rng.Float64()*2*maxSpeed - maxSpeed,
				Y: rng.Float64()*2*maxSpeed - maxSpeed,
			},
			Size:       size,
			TargetSize: size,
			Color:      base,
			BaseColor:  base,
		}
	}
	return State{Particles: ps, Bounds: bounds, Params: p}, nil
}

// Clone returns a deep copy of s.
func (s State) Clone() State {
	out := s
	out.Particles = append([]Particle(nil), s.Particles...)
	return out
}

// Tick advances every particle by one frame. s is left untouched.
func Tick(s State, ptr Pointer) State {
	next := s.Clone()
	target := r2.Vec{X: ptr.X, Y: ptr.Y}
	for i := range next.Particles {
		step(&next.Particles[i], target, ptr.Present, next.Bounds, next.Params)
	}
	return next
}

func step(p *Particle, target r2.Vec, present bool, b Dimensions, prm Params) {
	p.Pos = r2.Add(p.Pos, p.Vel)

	influenced := false
	if present {
		d := r2.Sub(target, p.Pos)
		distance := math.Max(r2.Norm(d), distanceEpsilon)
		if distance < prm.InteractionRadius {
			force := (prm.InteractionRadius - distance) / prm.InteractionRadius
			p.Vel = r2.Sub(p.Vel, r2.Scale(force*prm.ForceScale, d))
			p.Color = Accent.WithAlpha(prm.AccentAlpha * force)
			p.TargetSize = math.Min(p.Size*(1+force), math.Max(prm.MaxSize, p.Size))
			influenced = true
		}
	}
	if !influenced {
		p.Color = p.BaseColor
		p.TargetSize = p.Size
	}

	p.Pos.X = wrap(p.Pos.X, b.Width)
	p.Pos.Y = wrap(p.Pos.Y, b.Height)

	p.Size = ease(p.Size, p.TargetSize, prm.Easing)
}

// ease closes a fraction k of the gap between v and target.
func ease(v, target, k float64) float64 {
	return v + (target-v)*k
}

// wrap folds v back into [0,bound): past the far edge it restarts at 0,
// below 0 it reappears just inside the far edge.
func wrap(v, bound float64) float64 {
	switch {
	case v >= bound:
		return 0
	case v < 0:
		return math.Nextafter(bound, 0)
	}
	return v
}
