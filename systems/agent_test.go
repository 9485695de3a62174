package systems

import (
	"math"
	"testing"

	"gonum.org/v1/gonum/spatial/r2"

	"github.com/pthm-cable/flowfield/config"
)

func testAgentParams() AgentParams {
	return NewAgentParams(config.Cfg().Agent)
}

func testPalette() Palette {
	return GeneratePalette(PaletteCool, NewRandomStream(1, DefaultNoiseOptions()))
}

func inPalette(c Color, p Palette) bool {
	for _, pc := range p.Colors {
		if pc == c {
			return true
		}
	}
	return false
}

func TestIntegrateClampsSpeed(t *testing.T) {
	tests := []struct {
		name     string
		vel, acc r2.Vec
		maxSpeed float64
	}{
		{"fast", r2.Vec{X: 10}, r2.Vec{X: 1, Y: 1}, 1.5},
		{"slow", r2.Vec{X: 0.1}, r2.Vec{Y: 0.2}, 2.6},
		{"opposing", r2.Vec{X: 3}, r2.Vec{X: -1}, 1.2},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			a := Agent{Pos: r2.Vec{X: 50, Y: 50}, Vel: tt.vel, Acc: tt.acc, MaxSpeed: tt.maxSpeed}
			before := r2.Add(tt.vel, tt.acc)
			Integrate(&a)

			speed := r2.Norm(a.Vel)
			if speed > tt.maxSpeed+1e-9 {
				t.Errorf("speed %v exceeds max %v", speed, tt.maxSpeed)
			}
			if r2.Norm(before) > tt.maxSpeed && math.Abs(speed-tt.maxSpeed) > 1e-9 {
				t.Errorf("expected speed rescaled to exactly %v, got %v", tt.maxSpeed, speed)
			}
			if a.Acc != (r2.Vec{}) {
				t.Errorf("expected acceleration reset, got %v", a.Acc)
			}
			if a.Pos != r2.Add(r2.Vec{X: 50, Y: 50}, a.Vel) {
				t.Errorf("expected position advanced by velocity, got %v", a.Pos)
			}
		})
	}
}

func TestVelocityInvariantOverManyTicks(t *testing.T) {
	rng := NewRandomStream(42, DefaultNoiseOptions())
	params := testAgentParams()
	pal := testPalette()
	field := NewVectorField(300, 200, 22)

	agents := make([]Agent, 200)
	for i := range agents {
		agents[i] = SpawnAgent(rng, 300, 200, pal, params)
	}

	for tick := 0; tick < 300; tick++ {
		field.Recompute(rng, float64(tick)*0.008, 0.1)
		for i := range agents {
			a := &agents[i]
			Follow(a, field)
			Integrate(a)
			if s := r2.Norm(a.Vel); s > a.MaxSpeed+1e-9 {
				t.Fatalf("tick %d agent %d: speed %v > max %v", tick, i, s, a.MaxSpeed)
			}
			a.Age++
			Edges(a, rng, 300, 200, pal, params)
		}
	}
}

func TestEdgesWrapAndResetTrail(t *testing.T) {
	rng := NewRandomStream(1, DefaultNoiseOptions())
	params := testAgentParams()
	pal := testPalette()

	tests := []struct {
		name    string
		pos     r2.Vec
		want    r2.Vec
		bounces int
	}{
		{"right", r2.Vec{X: 101, Y: 40}, r2.Vec{X: 0, Y: 40}, 1},
		{"left", r2.Vec{X: -0.5, Y: 40}, r2.Vec{X: 100, Y: 40}, 1},
		{"bottom", r2.Vec{X: 30, Y: 81}, r2.Vec{X: 30, Y: 0}, 1},
		{"top", r2.Vec{X: 30, Y: -2}, r2.Vec{X: 30, Y: 80}, 1},
		{"corner", r2.Vec{X: -1, Y: -1}, r2.Vec{X: 100, Y: 80}, 2},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			a := Agent{
				Pos:      tt.pos,
				Prev:     r2.Vec{X: 50, Y: 40},
				Vel:      r2.Vec{X: 1, Y: 1},
				MaxSpeed: 2,
				Lifespan: 500,
			}
			tr := Edges(&a, rng, 100, 80, pal, params)

			if !tr.Has(TransitionBounced) || tr.Has(TransitionRespawned) {
				t.Errorf("expected only bounced transition, got %b", tr)
			}
			if a.Pos != tt.want {
				t.Errorf("expected wrapped position %v, got %v", tt.want, a.Pos)
			}
			if a.Prev != a.Pos {
				t.Errorf("expected trail reset to %v, got %v", a.Pos, a.Prev)
			}
			wantVel := math.Pow(params.Restitution, float64(tt.bounces))
			if math.Abs(a.Vel.X-wantVel) > 1e-12 {
				t.Errorf("expected velocity damped to %v, got %v", wantVel, a.Vel.X)
			}
		})
	}
}

func TestEdgesInsideIsActive(t *testing.T) {
	rng := NewRandomStream(1, DefaultNoiseOptions())
	a := Agent{Pos: r2.Vec{X: 10, Y: 10}, Prev: r2.Vec{X: 9, Y: 9}, Vel: r2.Vec{X: 1}, Age: 10, Lifespan: 10}
	if tr := Edges(&a, rng, 100, 100, testPalette(), testAgentParams()); tr != 0 {
		t.Errorf("expected no transition at age == lifespan, got %b", tr)
	}
	if a.Prev != (r2.Vec{X: 9, Y: 9}) {
		t.Error("trail should be untouched while active")
	}
}

func TestEdgesRespawnsExpiredAgent(t *testing.T) {
	rng := NewRandomStream(9, DefaultNoiseOptions())
	params := testAgentParams()
	pal := testPalette()

	for i := 0; i < 100; i++ {
		a := Agent{Pos: r2.Vec{X: 5, Y: 5}, Vel: r2.Vec{X: 1}, Age: 11, Lifespan: 10}
		tr := Edges(&a, rng, 640, 480, pal, params)

		if !tr.Has(TransitionRespawned) {
			t.Fatal("expected respawn")
		}
		if a.Age != 0 {
			t.Errorf("expected age 0, got %d", a.Age)
		}
		if a.Pos.X < 0 || a.Pos.X >= 640 || a.Pos.Y < 0 || a.Pos.Y >= 480 {
			t.Errorf("respawn position %v outside canvas", a.Pos)
		}
		if a.Prev != a.Pos {
			t.Error("expected trail reset on respawn")
		}
		if a.Lifespan < params.RespawnLifespan.Min || a.Lifespan >= params.RespawnLifespan.Max {
			t.Errorf("lifespan %v outside respawn range", a.Lifespan)
		}
		if !inPalette(a.Color, pal) {
			t.Errorf("color %v not drawn from palette", a.Color)
		}
	}
}

func TestDrawAgentDualStroke(t *testing.T) {
	params := testAgentParams()
	c := newRecordingCanvas(100, 100)
	a := Agent{
		Pos:    r2.Vec{X: 20, Y: 30},
		Prev:   r2.Vec{X: 18, Y: 29},
		Weight: 1.5,
		Color:  HSBA(200, 60, 85, 0.8),
	}
	DrawAgent(&a, c, 120, params)

	if len(c.calls) != 2 || c.count("line") != 2 {
		t.Fatalf("expected two line calls, got %+v", c.calls)
	}
	core, glow := c.calls[0], c.calls[1]
	if core.wt != 1.5 {
		t.Errorf("expected core weight 1.5, got %v", core.wt)
	}
	if math.Abs(glow.wt-1.5*params.GlowWeight) > 1e-12 {
		t.Errorf("expected glow weight %v, got %v", 1.5*params.GlowWeight, glow.wt)
	}

	cc, gc := core.c.(Color), glow.c.(Color)
	if cc.A != params.CoreAlpha || gc.A != params.GlowAlpha {
		t.Errorf("unexpected alphas core=%v glow=%v", cc.A, gc.A)
	}
	if cc.B != 85 || gc.B != 100 {
		t.Errorf("expected core brightness unmodulated and glow at full, got %v/%v", cc.B, gc.B)
	}
	if cc.H != gc.H || cc.S != gc.S {
		t.Error("core and glow should share hue and saturation")
	}
	if core.x0 != 20 || core.y0 != 30 || core.x1 != 18 || core.y1 != 29 {
		t.Errorf("unexpected segment %+v", core)
	}
	if a.Prev != a.Pos {
		t.Error("expected Prev advanced after draw")
	}
}

func TestStrokeColorsDriftBounds(t *testing.T) {
	params := testAgentParams()
	a := Agent{Color: HSBA(358, 36, 90, 0.8)}
	for frame := int64(0); frame < 2000; frame += 37 {
		a.Pos = r2.Vec{X: float64(frame % 700), Y: float64(frame % 311)}
		core, _ := StrokeColors(&a, frame, params)
		if core.H < 0 || core.H >= 360 {
			t.Fatalf("hue %v outside [0,360)", core.H)
		}
		if core.S < params.MinSaturation || core.S > 100 {
			t.Fatalf("saturation %v outside [%v,100]", core.S, params.MinSaturation)
		}
		if math.Abs(wrapHue(core.H-a.Color.H+180)-180) > params.HueDrift+1e-9 {
			t.Fatalf("hue drifted too far: %v from %v", core.H, a.Color.H)
		}
	}
}
