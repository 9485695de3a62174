package systems

import (
	"testing"

	"gonum.org/v1/gonum/spatial/r2"

	"github.com/pthm-cable/flowfield/config"
)

func newTestSimulation(t *testing.T, seed int64, cellSize float64, fade bool) *Simulation {
	t.Helper()
	cfg := config.Cfg()
	rng := NewRandomStream(seed, DefaultNoiseOptions())
	sim := NewSimulation(rng, NewSimulationParams(cfg))
	t.Cleanup(sim.Close)

	field := RandomFieldParams(rng, cfg.Field, fade)
	field.CellSize = cellSize
	sim.Configure(field, PickPalette(rng), RandomBackground(rng, cfg.Background))
	return sim
}

func TestParticleCount(t *testing.T) {
	tests := []struct {
		name          string
		width, height int
		density       float64
		want          int
	}{
		{"tiny canvas floors to min", 1, 1, 1, 6000},
		{"huge canvas caps to max", 4000, 4000, 1, 8000},
		{"typical canvas caps to max", 800, 600, 1, 8000},
		{"sparse density in range", 800, 600, 0.015625, 7500},
		{"empty canvas", 0, 0, 1, 6000},
		{"negative size", -10, 50, 1, 6000},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := ParticleCount(tt.width, tt.height, tt.density, 6000, 8000)
			if got != tt.want {
				t.Errorf("ParticleCount(%d, %d, %v) = %d, want %d", tt.width, tt.height, tt.density, got, tt.want)
			}
		})
	}
}

func TestSimulationSetupScenario(t *testing.T) {
	sim := newTestSimulation(t, 42, 28, true)
	sim.Setup(800, 600)

	cols, rows := sim.Field().Dims()
	if cols != 29 || rows != 22 {
		t.Errorf("expected 29x22 grid, got %dx%d", cols, rows)
	}
	if n := len(sim.Agents()); n != 8000 {
		t.Errorf("expected 8000 agents, got %d", n)
	}
	if sim.Workers() < 1 {
		t.Errorf("expected at least one worker, got %d", sim.Workers())
	}

	p := sim.params.Agent
	for i, a := range sim.Agents() {
		if a.Pos.X < 0 || a.Pos.X >= 800 || a.Pos.Y < 0 || a.Pos.Y >= 600 {
			t.Fatalf("agent %d spawned outside canvas at %v", i, a.Pos)
		}
		if a.MaxSpeed < p.MaxSpeed.Min || a.MaxSpeed >= p.MaxSpeed.Max {
			t.Fatalf("agent %d max speed %v outside range", i, a.MaxSpeed)
		}
		if a.Weight < p.Weight.Min || a.Weight >= p.Weight.Max {
			t.Fatalf("agent %d weight %v outside range", i, a.Weight)
		}
		if !inPalette(a.Color, sim.Palette()) {
			t.Fatalf("agent %d color not from palette", i)
		}
		if a.Prev != a.Pos {
			t.Fatalf("agent %d should start with an empty trail", i)
		}
	}
}

func TestSimulationStepDraws(t *testing.T) {
	tests := []struct {
		name  string
		fade  bool
		rects int
	}{
		{"fading", true, 1},
		{"persistent", false, 0},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			sim := newTestSimulation(t, 7, 40, tt.fade)
			sim.Setup(120, 80)
			c := newRecordingCanvas(120, 80)

			sim.Step(RenderContext{Width: 120, Height: 80, Frame: 1}, c)

			if got := c.count("rect"); got != tt.rects {
				t.Errorf("expected %d fade rects, got %d", tt.rects, got)
			}
			if tt.fade {
				first := c.calls[0]
				if first.op != "rect" {
					t.Errorf("fade should be drawn before agents, got %q first", first.op)
				}
				if col := first.c.(Color); col.A != config.Cfg().Fade.Alpha {
					t.Errorf("expected fade alpha %v, got %v", config.Cfg().Fade.Alpha, col.A)
				}
			}
			if got, want := c.count("line"), 2*len(sim.Agents()); got != want {
				t.Errorf("expected %d line calls, got %d", want, got)
			}
		})
	}
}

func TestSimulationAdvancesTime(t *testing.T) {
	sim := newTestSimulation(t, 3, 30, true)
	sim.Setup(90, 60)
	start := sim.FieldParams().TimeOffset
	inc := sim.FieldParams().TimeIncrement

	c := newRecordingCanvas(90, 60)
	for i := 0; i < 5; i++ {
		sim.Step(RenderContext{Width: 90, Height: 60, Frame: int64(i)}, c)
	}
	if got, want := sim.FieldParams().TimeOffset, start+5*inc; got < want-1e-9 || got > want+1e-9 {
		t.Errorf("expected time offset %v, got %v", want, got)
	}
}

func TestSimulationEmptyCanvas(t *testing.T) {
	sim := newTestSimulation(t, 5, 18, true)
	sim.Setup(0, 0)

	if n := len(sim.Agents()); n != 6000 {
		t.Errorf("expected pool clamped to min 6000, got %d", n)
	}
	cols, rows := sim.Field().Dims()
	if cols != 1 || rows != 1 {
		t.Errorf("expected 1x1 grid, got %dx%d", cols, rows)
	}

	before := append([]Agent(nil), sim.Agents()...)
	c := newRecordingCanvas(0, 0)
	stats := sim.Step(RenderContext{}, c)

	if len(c.calls) != 0 {
		t.Errorf("expected no draw calls on an empty canvas, got %d", len(c.calls))
	}
	if stats != (StepStats{}) {
		t.Errorf("expected no transitions, got %+v", stats)
	}
	for i := range before {
		if before[i] != sim.Agents()[i] {
			t.Fatalf("agent %d changed on an empty canvas", i)
		}
	}
}

func TestSimulationDeterministic(t *testing.T) {
	run := func() []Agent {
		sim := newTestSimulation(t, 1234, 22, true)
		sim.Setup(200, 150)
		c := newRecordingCanvas(200, 150)
		for i := 0; i < 30; i++ {
			sim.Step(RenderContext{Width: 200, Height: 150, Frame: int64(i)}, c)
		}
		return sim.Agents()
	}

	a, b := run(), run()
	if len(a) != len(b) {
		t.Fatalf("pool sizes differ: %d vs %d", len(a), len(b))
	}
	for i := range a {
		if a[i] != b[i] {
			t.Fatalf("agent %d diverged: %+v vs %+v", i, a[i], b[i])
		}
	}
}

func TestSimulationVelocityInvariant(t *testing.T) {
	sim := newTestSimulation(t, 99, 26, false)
	sim.Setup(160, 120)
	c := newRecordingCanvas(160, 120)

	var bounced, respawned int
	for i := 0; i < 300; i++ {
		stats := sim.Step(RenderContext{Width: 160, Height: 120, Frame: int64(i)}, c)
		bounced += stats.Bounced
		respawned += stats.Respawned
		c.reset()

		for j, a := range sim.Agents() {
			if s := r2.Norm(a.Vel); s > a.MaxSpeed+1e-9 {
				t.Fatalf("step %d agent %d: speed %v > max %v", i, j, s, a.MaxSpeed)
			}
			if a.Pos.X < 0 || a.Pos.X > 160 || a.Pos.Y < 0 || a.Pos.Y > 120 {
				t.Fatalf("step %d agent %d escaped to %v", i, j, a.Pos)
			}
		}
	}
	if bounced == 0 {
		t.Error("expected some agents to wrap on a small canvas")
	}
	if respawned == 0 {
		t.Error("expected some agents to respawn within 300 ticks")
	}
}

func TestRandomBackgroundIsDark(t *testing.T) {
	cfg := config.Cfg().Background
	rng := NewRandomStream(17, DefaultNoiseOptions())
	for i := 0; i < 50; i++ {
		bg := RandomBackground(rng, cfg)
		if bg.B < cfg.Brightness.Min || bg.B >= cfg.Brightness.Max {
			t.Fatalf("brightness %v outside range", bg.B)
		}
		if bg.S != cfg.Saturation || bg.A != 1 {
			t.Fatalf("unexpected background %+v", bg)
		}
	}
}
