package config

import (
	"errors"
	"fmt"
	"io"
	"io/fs"
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/joho/godotenv"
)

const (
	WindowWidth  = 1024
	WindowHeight = 512

	ParticleCount = 60
	TargetFPS     = 60

	// Terminal cells are scaled up to world units so the link and pointer
	// radii keep their on-screen proportions.
	CellWidth  = 8
	CellHeight = 16

	SoundtrackVolume = -1.0 // beep effects.Volume, base 2
	LevelRingSize    = 8192
)

// Surfaces a field can be hosted on.
const (
	SurfaceWindow   = "window"
	SurfaceTerminal = "terminal"
)

// Environment keys, also accepted from a .env file.
const (
	EnvPrefix = "PARTICLE_FIELD_"

	keyParticles  = EnvPrefix + "PARTICLES"
	keyWidth      = EnvPrefix + "WIDTH"
	keyHeight     = EnvPrefix + "HEIGHT"
	keySeed       = EnvPrefix + "SEED"
	keySurface    = EnvPrefix + "SURFACE"
	keyFPS        = EnvPrefix + "FPS"
	keyPause      = EnvPrefix + "PAUSE_WHEN_HIDDEN"
	keySoundtrack = EnvPrefix + "SOUNDTRACK"
	keyVolume     = EnvPrefix + "VOLUME"
	keyLogLevel   = EnvPrefix + "LOG_LEVEL"
)

var ErrInvalidConfig = errors.New("config: invalid value")

type Config struct {
	Particles       int
	Width, Height   int
	Seed            int64 // 0 seeds from the clock
	Surface         string
	FPS             int
	PauseWhenHidden bool
	Soundtrack      string
	Volume          float64
	LogLevel        string
}

func Default() Config {
	return Config{
		Particles:       ParticleCount,
		Width:           WindowWidth,
		Height:          WindowHeight,
		Surface:         SurfaceWindow,
		FPS:             TargetFPS,
		PauseWhenHidden: true,
		Volume:          SoundtrackVolume,
		LogLevel:        "info",
	}
}

// Load builds a Config from defaults, an optional .env file and the process
// environment, in increasing priority. A missing envFile is not an error.
func Load(envFile string) (Config, error) {
	values := map[string]string{}
	if envFile != "" {
		fileValues, err := godotenv.Read(envFile)
		switch {
		case errors.Is(err, fs.ErrNotExist):
		case err != nil:
			return Config{}, fmt.Errorf("read %s: %w", envFile, err)
		default:
			values = fileValues
		}
	}
	for _, kv := range os.Environ() {
		if k, v, ok := strings.Cut(kv, "="); ok && strings.HasPrefix(k, EnvPrefix) {
			values[k] = v
		}
	}
	return fromValues(values)
}

// Parse reads .env formatted settings from r on top of the defaults.
func Parse(r io.Reader) (Config, error) {
	values, err := godotenv.Parse(r)
	if err != nil {
		return Config{}, fmt.Errorf("parse env: %w", err)
	}
	return fromValues(values)
}

func fromValues(values map[string]string) (Config, error) {
	cfg := Default()
	var errs []error

	intVar := func(key string, dst *int) {
		if v, ok := values[key]; ok {
			n, err := strconv.Atoi(strings.TrimSpace(v))
			if err != nil {
				errs = append(errs, fmt.Errorf("%w: %s=%q", ErrInvalidConfig, key, v))
				return
			}
			*dst = n
		}
	}

	intVar(keyParticles, &cfg.Particles)
	intVar(keyWidth, &cfg.Width)
	intVar(keyHeight, &cfg.Height)
	intVar(keyFPS, &cfg.FPS)

	if v, ok := values[keySeed]; ok {
		n, err := strconv.ParseInt(strings.TrimSpace(v), 10, 64)
		if err != nil {
			errs = append(errs, fmt.Errorf("%w: %s=%q", ErrInvalidConfig, keySeed, v))
		} else {
			cfg.Seed = n
		}
	}
	if v, ok := values[keyPause]; ok {
		b, err := strconv.ParseBool(strings.TrimSpace(v))
		if err != nil {
			errs = append(errs, fmt.Errorf("%w: %s=%q", ErrInvalidConfig, keyPause, v))
		} else {
			cfg.PauseWhenHidden = b
		}
	}
	if v, ok := values[keyVolume]; ok {
		f, err := strconv.ParseFloat(strings.TrimSpace(v), 64)
		if err != nil {
			errs = append(errs, fmt.Errorf("%w: %s=%q", ErrInvalidConfig, keyVolume, v))
		} else {
			cfg.Volume = f
		}
	}
	if v, ok := values[keySurface]; ok {
		cfg.Surface = strings.ToLower(strings.TrimSpace(v))
	}
	if v, ok := values[keySoundtrack]; ok {
		cfg.Soundtrack = strings.TrimSpace(v)
	}
	if v, ok := values[keyLogLevel]; ok {
		cfg.LogLevel = strings.TrimSpace(v)
	}

	if err := errors.Join(errs...); err != nil {
		return Config{}, err
	}
	return cfg, nil
}

// Validate reports the first setting a field or host cannot start with.
func (c Config) Validate() error {
	switch {
	case c.Particles <= 0:
		return fmt.Errorf("%w: particle count %d", ErrInvalidConfig, c.Particles)
	case c.Width <= 0 || c.Height <= 0:
		return fmt.Errorf("%w: canvas %dx%d", ErrInvalidConfig, c.Width, c.Height)
	case c.FPS <= 0:
		return fmt.Errorf("%w: fps %d", ErrInvalidConfig, c.FPS)
	case c.Surface != SurfaceWindow && c.Surface != SurfaceTerminal:
		return fmt.Errorf("%w: surface %q", ErrInvalidConfig, c.Surface)
	}
	return nil
}

// FrameInterval is the time between frames at the configured rate.
func (c Config) FrameInterval() time.Duration {
	if c.FPS <= 0 {
		return time.Second / TargetFPS
	}
	return time.Second / time.Duration(c.FPS)
}

// SeedValue returns the configured seed, or one derived from now when unset.
func (c Config) SeedValue(now time.Time) int64 {
	if c.Seed != 0 {
		return c.Seed
	}
	return now.UnixNano()
}
