package audio

import (
	"math"
	"time"

	"github.com/faiface/beep"
)

// fadeSeconds is the crossfade at each chord change.
const fadeSeconds = 1.5

// Drone is a beep.Streamer that sustains a chord of sine voices and moves to
// the next chord every chordSeconds, gliding each voice to its new pitch.
type Drone struct {
	sampleRate beep.SampleRate
	chords     [][]float64
	chordLen   int // samples per chord
	glideLen   int

	chord  int
	pos    int // sample within the current chord
	phases []float64
	from   []float64
	to     []float64
}

// NewDrone builds a drone over chords (frequencies in Hz). An empty chord list
// yields silence.
func NewDrone(sr beep.SampleRate, chords [][]float64, chordSeconds float64) *Drone {
	if chordSeconds <= 0 {
		chordSeconds = 8
	}
	voices := 0
	for _, c := range chords {
		voices = max(voices, len(c))
	}
	d := &Drone{
		sampleRate: sr,
		chords:     chords,
		chordLen:   max(sr.N(secondsToDuration(chordSeconds)), 1),
		glideLen:   max(sr.N(secondsToDuration(min(fadeSeconds, chordSeconds/2))), 1),
		phases:     make([]float64, voices),
		from:       make([]float64, voices),
		to:         make([]float64, voices),
	}
	if len(chords) > 0 {
		d.setChord(0)
		copy(d.from, d.to)
	}
	return d
}

func (d *Drone) setChord(i int) {
	d.chord = i
	copy(d.from, d.to)
	c := d.chords[i]
	for v := range d.to {
		if v < len(c) {
			d.to[v] = c[v]
		} else {
			d.to[v] = 0
		}
	}
}

// Chord returns the index of the chord being played.
func (d *Drone) Chord() int { return d.chord }

// Stream fills samples with the drone. It never drains.
func (d *Drone) Stream(samples [][2]float64) (int, bool) {
	if len(d.phases) == 0 {
		for i := range samples {
			samples[i] = [2]float64{}
		}
		return len(samples), true
	}

	gain := 0.8 / float64(len(d.phases))
	rate := float64(d.sampleRate)
	for i := range samples {
		if d.pos >= d.chordLen {
			d.pos = 0
			d.setChord((d.chord + 1) % len(d.chords))
		}
		t := min(float64(d.pos)/float64(d.glideLen), 1)

		var l, r float64
		for v := range d.phases {
			freq := d.from[v] + (d.to[v]-d.from[v])*t
			s := math.Sin(2*math.Pi*d.phases[v]) * gain
			// Alternate voices lean left and right.
			if v%2 == 0 {
				l += s * 0.6
				r += s * 0.4
			} else {
				l += s * 0.4
				r += s * 0.6
			}
			d.phases[v] = math.Mod(d.phases[v]+freq/rate, 1)
		}
		samples[i] = [2]float64{l, r}
		d.pos++
	}
	return len(samples), true
}

// Err implements beep.Streamer.
func (d *Drone) Err() error { return nil }

func secondsToDuration(s float64) time.Duration {
	return time.Duration(s * float64(time.Second))
}
