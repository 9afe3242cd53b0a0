package particles

// CommandKind tells a surface which primitive to draw.
type CommandKind int

const (
	CmdClear CommandKind = iota
	CmdLine
	CmdCircle
)

func (k CommandKind) String() string {
	switch k {
	case CmdClear:
		return "clear"
	case CmdLine:
		return "line"
	case CmdCircle:
		return "circle"
	}
	return "unknown"
}

// Command is one draw primitive. Lines use X0..Y1 and Width; circles use
// X0, Y0 and Radius.
type Command struct {
	Kind           CommandKind
	X0, Y0, X1, Y1 float64
	Width          float64
	Radius         float64
	Color          RGBA
}

// Draw turns a state and its links into a frame: a clear, the links, then the
// particles so they sit above the lines.
func Draw(s State, links []Link) []Command {
	cmds := make([]Command, 0, 1+len(links)+len(s.Particles))
	cmds = append(cmds, Command{Kind: CmdClear})
	for _, l := range links {
		a, b := s.Particles[l.I].Pos, s.Particles[l.J].Pos
		cmds = append(cmds, Command{
			Kind:  CmdLine,
			X0:    a.X,
			Y0:    a.Y,
			X1:    b.X,
			Y1:    b.Y,
			Width: s.Params.LinkWidth,
			Color: Primary.WithAlpha(l.Alpha),
		})
	}
	for _, p := range s.Particles {
		cmds = append(cmds, Command{
			Kind:   CmdCircle,
			X0:     p.Pos.X,
			Y0:     p.Pos.Y,
			Radius: p.Size,
			Color:  p.Color,
		})
	}
	return cmds
}
