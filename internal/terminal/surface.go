// Package terminal hosts the particle field in a terminal using tcell. Each
// cell stands for a CellWidth x CellHeight patch of the world.
package terminal

import (
	"math"

	"github.com/gdamore/tcell/v2"

	"github.com/iburimskiy/particle-field/internal/config"
	"github.com/iburimskiy/particle-field/internal/particles"
)

const (
	linkGlyph      = '·'
	smallDotGlyph  = '•'
	largeDotGlyph  = '●'
	largeDotRadius = 2.5

	// Cells cannot blend, so alpha only scales brightness above this floor
	// or faint links would vanish into the background.
	visibilityFloor = 0.35
)

var background = tcell.NewRGBColor(11, 12, 24)

// Surface rasterises draw commands onto a tcell screen.
type Surface struct {
	screen tcell.Screen
	base   tcell.Style
}

func NewSurface(screen tcell.Screen) *Surface {
	return &Surface{
		screen: screen,
		base:   tcell.StyleDefault.Background(background),
	}
}

// WorldSize is the canvas size, in world units, covered by the screen.
func (s *Surface) WorldSize() (float64, float64) {
	cols, rows := s.screen.Size()
	return float64(cols * config.CellWidth), float64(rows * config.CellHeight)
}

// Present draws one frame and flushes it to the terminal.
func (s *Surface) Present(cmds []particles.Command) error {
	for _, c := range cmds {
		switch c.Kind {
		case particles.CmdClear:
			s.screen.Fill(' ', s.base)
		case particles.CmdLine:
			s.line(c)
		case particles.CmdCircle:
			glyph := smallDotGlyph
			if c.Radius >= largeDotRadius {
				glyph = largeDotGlyph
			}
			s.plot(c.X0, c.Y0, glyph, c.Color)
		}
	}
	s.screen.Show()
	return nil
}

func (s *Surface) line(c particles.Command) {
	x0, y0 := toCell(c.X0, c.Y0)
	x1, y1 := toCell(c.X1, c.Y1)
	steps := int(math.Ceil(math.Max(math.Abs(x1-x0), math.Abs(y1-y0))))
	if steps == 0 {
		s.plot(c.X0, c.Y0, linkGlyph, c.Color)
		return
	}
	for i := 0; i <= steps; i++ {
		t := float64(i) / float64(steps)
		s.plot(c.X0+(c.X1-c.X0)*t, c.Y0+(c.Y1-c.Y0)*t, linkGlyph, c.Color)
	}
}

func (s *Surface) plot(wx, wy float64, glyph rune, c particles.RGBA) {
	fx, fy := toCell(wx, wy)
	x, y := int(fx), int(fy)
	cols, rows := s.screen.Size()
	if x < 0 || y < 0 || x >= cols || y >= rows {
		return
	}
	s.screen.SetContent(x, y, glyph, nil, s.base.Foreground(shade(c)))
}

func toCell(wx, wy float64) (float64, float64) {
	return wx / config.CellWidth, wy / config.CellHeight
}

// toWorld maps a cell to the world point at its centre.
func toWorld(x, y int) (float64, float64) {
	return (float64(x) + 0.5) * config.CellWidth, (float64(y) + 0.5) * config.CellHeight
}

func shade(c particles.RGBA) tcell.Color {
	k := visibilityFloor + (1-visibilityFloor)*math.Max(0, math.Min(1, c.A))
	return tcell.NewRGBColor(
		int32(math.Round(float64(c.R)*k)),
		int32(math.Round(float64(c.G)*k)),
		int32(math.Round(float64(c.B)*k)),
	)
}
