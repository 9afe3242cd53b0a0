// Package game hosts the particle field in an ebiten window: the window is
// the canvas, ebiten's Update callback is the frame loop.
package game

import (
	"errors"
	"fmt"
	"path/filepath"
	"strings"
	"time"

	"github.com/hajimehoshi/ebiten/v2"
	"github.com/hajimehoshi/ebiten/v2/ebitenutil"
	"github.com/hajimehoshi/ebiten/v2/inpututil"
	"github.com/ncruces/zenity"

	"github.com/iburimskiy/particle-field/internal/config"
	"github.com/iburimskiy/particle-field/internal/logger"
	"github.com/iburimskiy/particle-field/internal/particles"
	"github.com/iburimskiy/particle-field/internal/soundtrack"
)

const (
	hudX        = 12
	hudY        = 12
	levelBarLen = 10
)

// frameInput is everything Update reads from ebiten in one frame.
type frameInput struct {
	cursorX, cursorY int
	focused          bool

	quit        bool
	togglePause bool
	toggleHUD   bool
	snapshot    bool
	openTrack   bool
}

type Game struct {
	cfg    config.Config
	sim    *particles.Simulator
	player *soundtrack.Player

	width, height int
	frame         []particles.Command
	started       time.Time

	userPaused bool
	hidden     bool
	showHUD    bool

	snapshotPath string
	saveDialog   func(suggested string) (string, error)
	openDialog   func() (string, error)
	now          func() time.Time

	lastErr error
}

// New wraps a simulator sized cfg.Width x cfg.Height and starts it.
func New(cfg config.Config, sim *particles.Simulator, player *soundtrack.Player) *Game {
	g := &Game{
		cfg:        cfg,
		sim:        sim,
		player:     player,
		width:      cfg.Width,
		height:     cfg.Height,
		showHUD:    true,
		saveDialog: saveDialog,
		openDialog: openDialog,
		now:        time.Now,
	}
	g.started = g.now()
	sim.Start()
	return g
}

func saveDialog(suggested string) (string, error) {
	return zenity.SelectFileSave(
		zenity.Title("Save Snapshot"),
		zenity.Filename(suggested),
		zenity.ConfirmOverwrite(),
		zenity.FileFilters{{Name: "PNG image", Patterns: []string{"*.png"}}},
	)
}

func openDialog() (string, error) {
	return zenity.SelectFile(
		zenity.Title("Open Soundtrack"),
		zenity.FileFilters{{Name: "Audio", Patterns: soundtrack.Patterns}},
	)
}

func readInput() frameInput {
	x, y := ebiten.CursorPosition()
	return frameInput{
		cursorX:     x,
		cursorY:     y,
		focused:     ebiten.IsFocused(),
		quit:        inpututil.IsKeyJustPressed(ebiten.KeyEscape) || inpututil.IsKeyJustPressed(ebiten.KeyQ),
		togglePause: inpututil.IsKeyJustPressed(ebiten.KeySpace),
		toggleHUD:   inpututil.IsKeyJustPressed(ebiten.KeyH),
		snapshot:    inpututil.IsKeyJustPressed(ebiten.KeyS),
		openTrack:   inpututil.IsKeyJustPressed(ebiten.KeyO),
	}
}

func (g *Game) Update() error {
	return g.step(readInput())
}

func (g *Game) step(in frameInput) error {
	if in.quit {
		g.sim.Stop()
	}
	if g.sim.Stopped() {
		return ebiten.Termination
	}

	if in.togglePause {
		g.userPaused = !g.userPaused
	}
	if in.toggleHUD {
		g.showHUD = !g.showHUD
	}
	g.hidden = g.cfg.PauseWhenHidden && !in.focused

	if in.focused && insideCanvas(in.cursorX, in.cursorY, g.width, g.height) {
		g.sim.PointerMoved(float64(in.cursorX), float64(in.cursorY))
	} else {
		g.sim.PointerLeft()
	}

	paused := g.userPaused || g.hidden
	if paused {
		g.sim.Pause()
	} else {
		g.sim.Resume()
	}
	g.player.SetPaused(paused)

	if in.snapshot {
		g.requestSnapshot()
	}
	if in.openTrack {
		g.chooseTrack()
	}

	cmds, ok := g.sim.Frame()
	if !ok {
		return ebiten.Termination
	}
	g.frame = cmds
	return nil
}

func (g *Game) requestSnapshot() {
	path, err := g.saveDialog(defaultSnapshotName(g.now()))
	if err != nil {
		if !errors.Is(err, zenity.ErrCanceled) {
			g.fail(fmt.Errorf("save dialog: %w", err))
		}
		return
	}
	g.snapshotPath = ensurePNG(path)
}

func (g *Game) chooseTrack() {
	path, err := g.openDialog()
	if err != nil {
		if !errors.Is(err, zenity.ErrCanceled) {
			g.fail(fmt.Errorf("open dialog: %w", err))
		}
		return
	}
	g.loadTrack(path)
}

func (g *Game) loadTrack(path string) {
	if err := g.player.Open(path); err != nil {
		g.fail(err)
		return
	}
	g.lastErr = nil
}

func (g *Game) fail(err error) {
	logger.Error("%v", err)
	g.lastErr = err
}

func (g *Game) Draw(screen *ebiten.Image) {
	render(ebitenCanvas{dst: screen}, g.frame)

	if g.snapshotPath != "" {
		path := g.snapshotPath
		g.snapshotPath = ""
		if err := writeSnapshot(screen, path); err != nil {
			g.fail(err)
		} else {
			logger.Info("snapshot saved to %s", path)
		}
	}

	if g.showHUD {
		ebitenutil.DebugPrintAt(screen, g.status(ebiten.ActualTPS()), hudX, hudY)
	}
}

// status is the one-line HUD text.
func (g *Game) status(tps float64) string {
	state := "running"
	switch {
	case g.userPaused:
		state = "paused"
	case g.hidden:
		state = "hidden"
	}

	parts := []string{
		fmt.Sprintf("%d particles", g.sim.Len()),
		fmt.Sprintf("frame %d", g.sim.Frames()),
		fmt.Sprintf("%.1f TPS", tps),
		formatDuration(g.now().Sub(g.started)),
		state,
	}
	if track := g.player.Track(); track != "" {
		parts = append(parts, filepath.Base(track)+" "+levelBar(g.player.Level(), levelBarLen))
	}
	status := strings.Join(parts, " | ")
	status += "\nSpace: pause  S: snapshot  O: soundtrack  H: hide  Esc/Q: quit"
	if g.lastErr != nil {
		status += "\nError: " + g.lastErr.Error()
	}
	return status
}

func (g *Game) Layout(outsideWidth, outsideHeight int) (int, int) {
	if outsideWidth <= 0 || outsideHeight <= 0 {
		return g.width, g.height
	}
	if outsideWidth != g.width || outsideHeight != g.height {
		if err := g.sim.Resize(float64(outsideWidth), float64(outsideHeight)); err != nil {
			logger.Warn("resize: %v", err)
			return g.width, g.height
		}
		logger.Debug("canvas resized to %dx%d", outsideWidth, outsideHeight)
		g.width, g.height = outsideWidth, outsideHeight
	}
	return g.width, g.height
}

// Run opens the window and blocks until it is closed.
func Run(cfg config.Config, sim *particles.Simulator, player *soundtrack.Player) error {
	ebiten.SetWindowSize(cfg.Width, cfg.Height)
	ebiten.SetWindowTitle("Particle Field - Space: pause, S: snapshot, O: soundtrack, Esc/Q: quit")
	ebiten.SetWindowResizingMode(ebiten.WindowResizingModeEnabled)
	ebiten.SetTPS(cfg.FPS)

	g := New(cfg, sim, player)
	defer sim.Stop()
	if cfg.Soundtrack != "" {
		g.loadTrack(cfg.Soundtrack)
	}

	if err := ebiten.RunGame(g); err != nil && !errors.Is(err, ebiten.Termination) {
		return err
	}
	return nil
}
