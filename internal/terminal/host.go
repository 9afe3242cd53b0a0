package terminal

import (
	"context"
	"fmt"

	"github.com/gdamore/tcell/v2"

	"github.com/iburimskiy/particle-field/internal/config"
	"github.com/iburimskiy/particle-field/internal/logger"
	"github.com/iburimskiy/particle-field/internal/particles"
)

// NewSimulatorFunc builds a simulator for a canvas of the given world size.
type NewSimulatorFunc func(width, height float64) (*particles.Simulator, error)

// Run hosts a field on the controlling terminal until the user quits or ctx
// is cancelled.
func Run(ctx context.Context, cfg config.Config, newSim NewSimulatorFunc) error {
	screen, err := tcell.NewScreen()
	if err != nil {
		return fmt.Errorf("create screen: %w", err)
	}
	if err := screen.Init(); err != nil {
		return fmt.Errorf("init screen: %w", err)
	}
	defer screen.Fini()

	screen.EnableMouse(tcell.MouseMotionEvents)
	screen.EnableFocus()
	screen.HideCursor()

	return run(ctx, cfg, screen, newSim)
}

func run(ctx context.Context, cfg config.Config, screen tcell.Screen, newSim NewSimulatorFunc) error {
	surface := NewSurface(screen)
	w, h := surface.WorldSize()
	sim, err := newSim(w, h)
	if err != nil {
		return err
	}
	logger.Debug("terminal field %.0fx%.0f world units", w, h)

	loop := particles.NewLoop(sim, surface, cfg.FrameInterval())
	in := &input{sim: sim, loop: loop, surface: surface, pauseWhenHidden: cfg.PauseWhenHidden}
	sim.Start()

	go func() {
		for {
			ev := screen.PollEvent()
			if ev == nil {
				return
			}
			in.handle(ev)
		}
	}()

	return loop.Run(ctx)
}

// input turns terminal events into simulator calls. Lifecycle changes go
// straight to the simulator; everything else is handed to the loop.
type input struct {
	sim             *particles.Simulator
	loop            *particles.Loop
	surface         *Surface
	pauseWhenHidden bool

	userPaused bool
	hidden     bool
}

func (in *input) handle(ev tcell.Event) {
	switch ev := ev.(type) {
	case *tcell.EventKey:
		switch {
		case ev.Key() == tcell.KeyEscape, ev.Key() == tcell.KeyCtrlC,
			ev.Key() == tcell.KeyRune && (ev.Rune() == 'q' || ev.Rune() == 'Q'):
			in.sim.Stop()
		case ev.Key() == tcell.KeyRune && ev.Rune() == ' ':
			in.userPaused = !in.userPaused
			in.applyPause()
		}

	case *tcell.EventMouse:
		x, y := ev.Position()
		wx, wy := toWorld(x, y)
		in.loop.Post(func(s *particles.Simulator) { s.PointerMoved(wx, wy) })

	case *tcell.EventResize:
		in.surface.screen.Sync()
		w, h := in.surface.WorldSize()
		in.loop.Control(func(s *particles.Simulator) {
			if err := s.Resize(w, h); err != nil {
				logger.Debug("ignoring resize: %v", err)
			}
		})

	case *tcell.EventFocus:
		if !ev.Focused {
			in.loop.Control((*particles.Simulator).PointerLeft)
		}
		if in.pauseWhenHidden {
			in.hidden = !ev.Focused
			in.applyPause()
		}
	}
}

func (in *input) applyPause() {
	if in.userPaused || in.hidden {
		in.sim.Pause()
	} else {
		in.sim.Resume()
	}
}
