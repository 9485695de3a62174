// Package audio provides the ambient drone that can accompany the visuals.
// Sound only starts on an explicit user action.
package audio

import (
	"fmt"
	"log/slog"
	"time"

	"github.com/faiface/beep"
	"github.com/faiface/beep/effects"
	"github.com/faiface/beep/speaker"

	"github.com/pthm-cable/flowfield/config"
)

// State is the ambient playback state.
type State int

const (
	StateNotStarted State = iota
	StatePlaying
	StateStopped
)

func (s State) String() string {
	switch s {
	case StatePlaying:
		return "playing"
	case StateStopped:
		return "stopped"
	default:
		return "not_started"
	}
}

// Output abstracts the speaker so tests can run without a device.
type Output struct {
	Init   func(sr beep.SampleRate, bufferSize int) error
	Play   func(s ...beep.Streamer)
	Lock   func()
	Unlock func()
}

// SpeakerOutput plays through the default audio device.
func SpeakerOutput() Output {
	return Output{
		Init:   speaker.Init,
		Play:   speaker.Play,
		Lock:   speaker.Lock,
		Unlock: speaker.Unlock,
	}
}

// Ambient is a slow chord drone with a start/stop toggle.
type Ambient struct {
	cfg   config.AudioConfig
	out   Output
	state State

	sampleRate beep.SampleRate
	drone      *Drone
	ctrl       *beep.Ctrl
}

// NewAmbient creates an ambient player. Nothing touches the device until the
// first Toggle.
func NewAmbient(cfg config.AudioConfig, out Output) *Ambient {
	sr := cfg.SampleRate
	if sr <= 0 {
		sr = 44100
	}
	return &Ambient{cfg: cfg, out: out, sampleRate: beep.SampleRate(sr)}
}

// Toggle starts playback on first use, then pauses and resumes. A failed start
// leaves the ambient not started so the next Toggle retries.
func (a *Ambient) Toggle() error {
	switch a.state {
	case StateNotStarted:
		if err := a.start(); err != nil {
			return err
		}
		a.state = StatePlaying
	case StatePlaying:
		a.setPaused(true)
		a.state = StateStopped
	case StateStopped:
		a.setPaused(false)
		a.state = StatePlaying
	}
	slog.Debug("ambient toggled", "state", a.state)
	return nil
}

func (a *Ambient) start() error {
	bufferSize := a.sampleRate.N(time.Second / 10)
	if err := a.out.Init(a.sampleRate, bufferSize); err != nil {
		return fmt.Errorf("initializing speaker: %w", err)
	}

	a.drone = NewDrone(a.sampleRate, a.cfg.Chords, a.cfg.ChordSeconds)
	volume := &effects.Volume{
		Streamer: a.drone,
		Base:     2,
		Volume:   a.cfg.Volume,
	}
	a.ctrl = &beep.Ctrl{Streamer: volume}
	a.out.Play(a.ctrl)
	return nil
}

func (a *Ambient) setPaused(paused bool) {
	a.out.Lock()
	a.ctrl.Paused = paused
	a.out.Unlock()
}

// Playing reports whether the drone is audible.
func (a *Ambient) Playing() bool { return a.state == StatePlaying }

// State returns the playback state.
func (a *Ambient) State() State { return a.state }
