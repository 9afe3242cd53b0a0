// Package soundtrack plays an optional looping background track alongside
// the particle field and pauses it together with the simulation.
package soundtrack

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/faiface/beep"
	"github.com/faiface/beep/effects"
	"github.com/faiface/beep/flac"
	"github.com/faiface/beep/mp3"
	"github.com/faiface/beep/speaker"
	"github.com/faiface/beep/wav"

	"github.com/iburimskiy/particle-field/internal/config"
	"github.com/iburimskiy/particle-field/internal/logger"
)

var ErrUnsupported = errors.New("soundtrack: unsupported file type")

// Patterns lists the file patterns Open accepts, for file dialogs.
var Patterns = []string{"*.wav", "*.mp3", "*.flac"}

// levelWindow is how many recent samples the level meter averages.
const levelWindow = 2048

type Player struct {
	volume float64

	currentFile *os.File
	streamer    beep.StreamSeekCloser
	ctrl        *beep.Ctrl
	tap         *levelTap
	track       string

	speakerRate beep.SampleRate
	paused      bool
}

// New returns a player that plays at volume (base 2, 0 is unchanged).
func New(volume float64) *Player {
	return &Player{volume: volume}
}

// decode opens path and picks a decoder from its extension. The caller owns
// both the streamer and the file.
func decode(path string) (beep.StreamSeekCloser, beep.Format, *os.File, error) {
	ext := strings.ToLower(filepath.Ext(path))
	var decoder func(f *os.File) (beep.StreamSeekCloser, beep.Format, error)
	switch ext {
	case ".wav":
		decoder = func(f *os.File) (beep.StreamSeekCloser, beep.Format, error) { return wav.Decode(f) }
	case ".mp3":
		decoder = func(f *os.File) (beep.StreamSeekCloser, beep.Format, error) { return mp3.Decode(f) }
	case ".flac":
		decoder = func(f *os.File) (beep.StreamSeekCloser, beep.Format, error) { return flac.Decode(f) }
	default:
		return nil, beep.Format{}, nil, fmt.Errorf("%w: %q", ErrUnsupported, ext)
	}

	f, err := os.Open(path)
	if err != nil {
		return nil, beep.Format{}, nil, err
	}
	streamer, format, err := decoder(f)
	if err != nil {
		_ = f.Close()
		return nil, beep.Format{}, nil, fmt.Errorf("decode %s: %w", path, err)
	}
	return streamer, format, f, nil
}

// Open replaces the current track with path and starts looping it.
func (p *Player) Open(path string) error {
	streamer, format, f, err := decode(path)
	if err != nil {
		return err
	}

	if p.speakerRate == 0 {
		bufferSize := format.SampleRate.N(time.Second / 20)
		if err := speaker.Init(format.SampleRate, bufferSize); err != nil {
			_ = streamer.Close()
			_ = f.Close()
			return fmt.Errorf("init speaker: %w", err)
		}
		p.speakerRate = format.SampleRate
	}
	p.stopCurrent()

	var source beep.Streamer = beep.Loop(-1, streamer)
	if format.SampleRate != p.speakerRate {
		source = beep.Resample(4, format.SampleRate, p.speakerRate, source)
	}
	tap := newLevelTap(source, config.LevelRingSize)
	volume := &effects.Volume{Streamer: tap, Base: 2, Volume: p.volume}
	ctrl := &beep.Ctrl{Streamer: volume, Paused: p.paused}

	p.currentFile = f
	p.streamer = streamer
	p.ctrl = ctrl
	p.tap = tap
	p.track = path

	speaker.Play(ctrl)
	logger.Info("soundtrack playing %s (%d Hz)", filepath.Base(path), format.SampleRate)
	return nil
}

// SetPaused pauses or resumes playback. It is remembered for tracks opened later.
func (p *Player) SetPaused(paused bool) {
	if p.paused == paused {
		return
	}
	p.paused = paused
	if p.ctrl == nil {
		return
	}
	speaker.Lock()
	p.ctrl.Paused = paused
	speaker.Unlock()
}

func (p *Player) Paused() bool { return p.paused }

// Track is the path of the current track, empty when nothing is loaded.
func (p *Player) Track() string { return p.track }

// Level is the recent loudness of the track in [0,1].
func (p *Player) Level() float64 {
	if p.tap == nil || p.paused {
		return 0
	}
	return p.tap.level(levelWindow)
}

func (p *Player) stopCurrent() {
	if p.speakerRate != 0 {
		speaker.Lock()
		speaker.Clear()
		speaker.Unlock()
	}
	if p.streamer != nil {
		_ = p.streamer.Close()
		p.streamer = nil
	}
	if p.currentFile != nil {
		_ = p.currentFile.Close()
		p.currentFile = nil
	}
	p.ctrl = nil
	p.tap = nil
	p.track = ""
}

// Close stops playback and releases the track.
func (p *Player) Close() error {
	p.stopCurrent()
	return nil
}
