package game

import (
	"errors"
	"math/rand"
	"strings"
	"testing"
	"time"

	"github.com/hajimehoshi/ebiten/v2"
	"github.com/ncruces/zenity"

	"github.com/iburimskiy/particle-field/internal/config"
	"github.com/iburimskiy/particle-field/internal/particles"
	"github.com/iburimskiy/particle-field/internal/soundtrack"
)

func newTestGame(t *testing.T) *Game {
	t.Helper()
	cfg := config.Default()
	cfg.Width, cfg.Height = 400, 300
	sim, err := particles.NewSimulator(20, 400, 300, particles.DefaultParams(), rand.New(rand.NewSource(1)))
	if err != nil {
		t.Fatalf("NewSimulator: %v", err)
	}
	g := New(cfg, sim, soundtrack.New(0))
	start := time.Date(2026, 1, 1, 12, 0, 0, 0, time.UTC)
	g.started = start
	g.now = func() time.Time { return start.Add(75 * time.Second) }
	return g
}

func TestStepProducesFrames(t *testing.T) {
	g := newTestGame(t)
	if err := g.step(frameInput{cursorX: 100, cursorY: 100, focused: true}); err != nil {
		t.Fatalf("step: %v", err)
	}
	if len(g.frame) == 0 || g.frame[0].Kind != particles.CmdClear {
		t.Fatalf("unexpected frame %v", g.frame)
	}
	if p := g.sim.Pointer(); !p.Present || p.X != 100 || p.Y != 100 {
		t.Fatalf("pointer %+v", p)
	}
	if g.sim.Frames() != 1 {
		t.Fatalf("frames %d", g.sim.Frames())
	}
}

func TestStepPointerOutsideCanvas(t *testing.T) {
	g := newTestGame(t)
	g.step(frameInput{cursorX: 100, cursorY: 100, focused: true})
	g.step(frameInput{cursorX: -5, cursorY: 100, focused: true})
	if g.sim.Pointer().Present {
		t.Fatal("pointer outside the window should be absent")
	}
}

func TestStepPauses(t *testing.T) {
	g := newTestGame(t)

	g.step(frameInput{focused: true, togglePause: true})
	if !g.sim.Paused() || !g.player.Paused() || g.sim.Frames() != 0 {
		t.Fatalf("space did not pause: paused=%v frames=%d", g.sim.Paused(), g.sim.Frames())
	}
	g.step(frameInput{focused: true, togglePause: true})
	if g.sim.Paused() || g.sim.Frames() != 1 {
		t.Fatalf("space did not resume: frames=%d", g.sim.Frames())
	}

	g.step(frameInput{focused: false})
	if !g.sim.Paused() || !strings.Contains(g.status(60), "hidden") {
		t.Fatal("unfocused window should pause")
	}

	g.cfg.PauseWhenHidden = false
	g.step(frameInput{focused: false})
	if g.sim.Paused() {
		t.Fatal("PauseWhenHidden=false should keep running")
	}
}

func TestStepQuit(t *testing.T) {
	g := newTestGame(t)
	if err := g.step(frameInput{quit: true}); !errors.Is(err, ebiten.Termination) {
		t.Fatalf("expected Termination, got %v", err)
	}
	if !g.sim.Stopped() {
		t.Fatal("quit did not stop the simulator")
	}
	if err := g.step(frameInput{}); !errors.Is(err, ebiten.Termination) {
		t.Fatalf("stopped game kept running: %v", err)
	}
}

func TestSnapshotDialog(t *testing.T) {
	g := newTestGame(t)

	var suggested string
	g.saveDialog = func(name string) (string, error) {
		suggested = name
		return "/tmp/field", nil
	}
	g.step(frameInput{focused: true, snapshot: true})
	if suggested != "particle-field-20260101-120115.png" {
		t.Errorf("suggested %q", suggested)
	}
	if g.snapshotPath != "/tmp/field.png" {
		t.Errorf("snapshot path %q", g.snapshotPath)
	}

	g.snapshotPath = ""
	g.saveDialog = func(string) (string, error) { return "", zenity.ErrCanceled }
	g.step(frameInput{focused: true, snapshot: true})
	if g.snapshotPath != "" || g.lastErr != nil {
		t.Errorf("cancel should be silent: path=%q err=%v", g.snapshotPath, g.lastErr)
	}

	g.saveDialog = func(string) (string, error) { return "", errors.New("no display") }
	g.step(frameInput{focused: true, snapshot: true})
	if g.lastErr == nil || !strings.Contains(g.status(60), "no display") {
		t.Errorf("dialog failure not reported: %v", g.lastErr)
	}
}

func TestChooseTrackReportsDecodeErrors(t *testing.T) {
	g := newTestGame(t)
	g.openDialog = func() (string, error) { return "/tmp/readme.txt", nil }
	g.step(frameInput{focused: true, openTrack: true})
	if !errors.Is(g.lastErr, soundtrack.ErrUnsupported) {
		t.Fatalf("expected ErrUnsupported, got %v", g.lastErr)
	}
}

func TestLayoutResizesField(t *testing.T) {
	g := newTestGame(t)

	w, h := g.Layout(800, 600)
	if w != 800 || h != 600 {
		t.Fatalf("Layout = %dx%d", w, h)
	}
	if b := g.sim.Bounds(); b.Width != 800 || b.Height != 600 {
		t.Fatalf("bounds %+v", b)
	}

	w, h = g.Layout(0, 0)
	if w != 800 || h != 600 {
		t.Fatalf("minimised Layout = %dx%d", w, h)
	}
}

func TestStatus(t *testing.T) {
	g := newTestGame(t)
	g.step(frameInput{focused: true})

	got := g.status(59.94)
	for _, want := range []string{"20 particles", "frame 1", "59.9 TPS", "01:15", "running"} {
		if !strings.Contains(got, want) {
			t.Errorf("status %q missing %q", got, want)
		}
	}
	if strings.Contains(got, "Error") {
		t.Errorf("unexpected error in status %q", got)
	}
}
