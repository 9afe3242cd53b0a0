package main

import (
	"context"
	"flag"
	"fmt"
	"math/rand"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/iburimskiy/particle-field/internal/config"
	"github.com/iburimskiy/particle-field/internal/game"
	"github.com/iburimskiy/particle-field/internal/logger"
	"github.com/iburimskiy/particle-field/internal/particles"
	"github.com/iburimskiy/particle-field/internal/soundtrack"
	"github.com/iburimskiy/particle-field/internal/terminal"
)

func main() {
	if err := run(); err != nil {
		logger.Error("%v", err)
		os.Exit(1)
	}
}

func run() error {
	envFile := flag.String("env", ".env", "optional .env file with PARTICLE_FIELD_* settings")
	surface := flag.String("surface", "", "where to draw: window or terminal")
	particleCount := flag.Int("particles", 0, "number of particles")
	seed := flag.Int64("seed", 0, "random seed for particle placement (0 uses the clock)")
	track := flag.String("soundtrack", "", "audio file to loop in the background (window only)")
	logLevel := flag.String("log-level", "", "debug, info, warn or error")
	flag.Parse()

	cfg, err := config.Load(*envFile)
	if err != nil {
		return err
	}
	flag.Visit(func(f *flag.Flag) {
		switch f.Name {
		case "surface":
			cfg.Surface = *surface
		case "particles":
			cfg.Particles = *particleCount
		case "seed":
			cfg.Seed = *seed
		case "soundtrack":
			cfg.Soundtrack = *track
		case "log-level":
			cfg.LogLevel = *logLevel
		}
	})

	level, err := logger.ParseLevel(cfg.LogLevel)
	if err != nil {
		return err
	}
	logger.SetLevel(level)

	if err := cfg.Validate(); err != nil {
		return err
	}

	rng := rand.New(rand.NewSource(cfg.SeedValue(time.Now())))
	newSim := func(width, height float64) (*particles.Simulator, error) {
		sim, err := particles.NewSimulator(cfg.Particles, width, height, particles.DefaultParams(), rng)
		if err != nil {
			return nil, fmt.Errorf("create field: %w", err)
		}
		logger.Info("field of %d particles on %.0fx%.0f", cfg.Particles, width, height)
		return sim, nil
	}

	switch cfg.Surface {
	case config.SurfaceTerminal:
		ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
		defer stop()
		return terminal.Run(ctx, cfg, newSim)

	default:
		sim, err := newSim(float64(cfg.Width), float64(cfg.Height))
		if err != nil {
			return err
		}
		player := soundtrack.New(cfg.Volume)
		defer player.Close()
		return game.Run(cfg, sim, player)
	}
}
