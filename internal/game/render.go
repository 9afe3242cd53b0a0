package game

import (
	"image/color"

	"github.com/hajimehoshi/ebiten/v2"
	"github.com/hajimehoshi/ebiten/v2/vector"

	"github.com/iburimskiy/particle-field/internal/particles"
)

var backgroundColor = color.RGBA{R: 11, G: 12, B: 24, A: 255}

// canvas is the slice of the ebiten drawing API the field needs.
type canvas interface {
	Fill(c color.Color)
	StrokeLine(x0, y0, x1, y1, width float32, c color.Color)
	FillCircle(cx, cy, r float32, c color.Color)
}

type ebitenCanvas struct {
	dst *ebiten.Image
}

func (c ebitenCanvas) Fill(clr color.Color) { c.dst.Fill(clr) }

func (c ebitenCanvas) StrokeLine(x0, y0, x1, y1, width float32, clr color.Color) {
	vector.StrokeLine(c.dst, x0, y0, x1, y1, width, clr, true)
}

func (c ebitenCanvas) FillCircle(cx, cy, r float32, clr color.Color) {
	vector.DrawFilledCircle(c.dst, cx, cy, r, clr, true)
}

// render replays one frame of draw commands onto dst.
func render(dst canvas, cmds []particles.Command) {
	for _, c := range cmds {
		switch c.Kind {
		case particles.CmdClear:
			dst.Fill(backgroundColor)
		case particles.CmdLine:
			dst.StrokeLine(float32(c.X0), float32(c.Y0), float32(c.X1), float32(c.Y1), float32(c.Width), c.Color.NRGBA())
		case particles.CmdCircle:
			dst.FillCircle(float32(c.X0), float32(c.Y0), float32(c.Radius), c.Color.NRGBA())
		}
	}
}
