package particles

import (
	"image/color"
	"math"

	"gonum.org/v1/gonum/spatial/r2"
)

// RGBA is a colour with a fractional alpha in [0,1], the way the hero canvas
// expresses translucent fills.
type RGBA struct {
	R, G, B uint8
	A       float64
}

// Palette hues.
var (
	Primary = RGBA{R: 99, G: 102, B: 241, A: 1}
	Accent  = RGBA{R: 245, G: 158, B: 11, A: 1}
)

// WithAlpha returns c with its alpha replaced.
func (c RGBA) WithAlpha(a float64) RGBA {
	c.A = a
	return c
}

// NRGBA converts to a non-premultiplied color.Color for drawing surfaces.
func (c RGBA) NRGBA() color.NRGBA {
	return color.NRGBA{R: c.R, G: c.G, B: c.B, A: uint8(math.Round(clamp01(c.A) * 255))}
}

// Particle is one simulated point of the field.
type Particle struct {
	Pos        r2.Vec
	Vel        r2.Vec
	Size       float64
	TargetSize float64
	Color      RGBA
	BaseColor  RGBA
}

// Pointer is the pointer snapshot read once per tick.
type Pointer struct {
	Present bool
	X, Y    float64
}

// Dimensions are the canvas bounds particles wrap within.
type Dimensions struct {
	Width, Height float64
}

func (d Dimensions) valid() bool {
	return d.Width > 0 && d.Height > 0 && !math.IsInf(d.Width, 0) && !math.IsInf(d.Height, 0)
}

func clamp01(v float64) float64 {
	if v < 0 {
		return 0
	}
	if v > 1 {
		return 1
	}
	return v
}
