package audio

import (
	"errors"
	"math"
	"testing"

	"github.com/faiface/beep"

	"github.com/pthm-cable/flowfield/config"
)

func init() {
	config.MustInit("")
}

type fakeOutput struct {
	initErrs []error
	inits    int
	played   []beep.Streamer
	locks    int
}

func (f *fakeOutput) output() Output {
	return Output{
		Init: func(sr beep.SampleRate, bufferSize int) error {
			f.inits++
			if len(f.initErrs) > 0 {
				err := f.initErrs[0]
				f.initErrs = f.initErrs[1:]
				return err
			}
			return nil
		},
		Play:   func(s ...beep.Streamer) { f.played = append(f.played, s...) },
		Lock:   func() { f.locks++ },
		Unlock: func() {},
	}
}

func TestAmbientToggle(t *testing.T) {
	out := &fakeOutput{initErrs: []error{errors.New("no device")}}
	a := NewAmbient(config.Cfg().Audio, out.output())

	if err := a.Toggle(); err == nil {
		t.Fatal("expected start error")
	}
	if a.State() != StateNotStarted || a.Playing() {
		t.Fatalf("failed start should stay not started, got %v", a.State())
	}

	steps := []State{StatePlaying, StateStopped, StatePlaying}
	for i, want := range steps {
		if err := a.Toggle(); err != nil {
			t.Fatalf("toggle %d: %v", i, err)
		}
		if a.State() != want {
			t.Errorf("toggle %d: expected %v, got %v", i, want, a.State())
		}
	}

	if out.inits != 2 {
		t.Errorf("expected speaker init once per start attempt, got %d", out.inits)
	}
	if len(out.played) != 1 {
		t.Errorf("expected one streamer played, got %d", len(out.played))
	}
	if out.locks != 2 {
		t.Errorf("expected pause/resume under the speaker lock, got %d", out.locks)
	}
	if a.ctrl.Paused {
		t.Error("expected ctrl unpaused while playing")
	}
}

func TestDroneStream(t *testing.T) {
	sr := beep.SampleRate(1000)
	chords := [][]float64{{100, 150}, {200, 250, 300}}
	d := NewDrone(sr, chords, 1)

	buf := make([][2]float64, 500)
	var peak float64
	for i := 0; i < 2; i++ {
		n, ok := d.Stream(buf)
		if n != len(buf) || !ok {
			t.Fatalf("expected full buffer, got %d %v", n, ok)
		}
		for _, s := range buf {
			for _, ch := range s {
				if math.Abs(ch) > 1 {
					t.Fatalf("sample out of range: %v", s)
				}
				peak = max(peak, math.Abs(ch))
			}
		}
	}
	if peak == 0 {
		t.Error("expected audible output")
	}
	if d.Chord() != 0 {
		t.Errorf("expected first chord after one second, got %d", d.Chord())
	}

	d.Stream(buf[:1])
	if d.Chord() != 1 {
		t.Errorf("expected second chord, got %d", d.Chord())
	}

	for i := 0; i < 2; i++ {
		d.Stream(buf)
	}
	d.Stream(buf[:1])
	if d.Chord() != 0 {
		t.Errorf("expected progression to wrap, got %d", d.Chord())
	}
}

func TestDroneSilentWithoutChords(t *testing.T) {
	d := NewDrone(44100, nil, 8)
	buf := [][2]float64{{1, 1}, {1, 1}}
	if n, ok := d.Stream(buf); n != 2 || !ok {
		t.Fatalf("unexpected stream result %d %v", n, ok)
	}
	for _, s := range buf {
		if s != [2]float64{} {
			t.Errorf("expected silence, got %v", s)
		}
	}
}
