package systems

import (
	"math"

	"gonum.org/v1/gonum/spatial/r2"

	"github.com/pthm-cable/flowfield/config"
)

// Agent is one flow-field particle. Agents never reference each other; the free
// functions below only touch the agent they are given.
type Agent struct {
	Pos      r2.Vec
	Prev     r2.Vec // Start of the trail segment drawn this tick
	Vel      r2.Vec
	Acc      r2.Vec
	MaxSpeed float64
	Weight   float64 // Core stroke weight
	Color    Color
	Age      int     // Ticks survived since spawn
	Lifespan float64 // Ticks before a soft respawn
}

// Transition records which lifecycle changes an Edges check applied.
type Transition uint8

const (
	TransitionBounced Transition = 1 << iota
	TransitionRespawned
)

// Has reports whether t includes flag.
func (t Transition) Has(flag Transition) bool {
	return t&flag != 0
}

// AgentParams holds the spawn ranges and stroke styling shared by all agents.
type AgentParams struct {
	MaxSpeed        config.Range
	Weight          config.Range
	InitialSpeed    config.Range
	Lifespan        config.Range
	RespawnLifespan config.Range
	Restitution     float64
	CoreAlpha       float64
	GlowAlpha       float64
	GlowWeight      float64
	HueDrift        float64
	SatDrift        float64
	MinSaturation   float64
}

// NewAgentParams copies the agent section of the config.
func NewAgentParams(cfg config.AgentConfig) AgentParams {
	return AgentParams{
		MaxSpeed:        cfg.MaxSpeed,
		Weight:          cfg.Weight,
		InitialSpeed:    cfg.InitialSpeed,
		Lifespan:        cfg.Lifespan,
		RespawnLifespan: cfg.RespawnLifespan,
		Restitution:     cfg.Restitution,
		CoreAlpha:       cfg.CoreAlpha,
		GlowAlpha:       cfg.GlowAlpha,
		GlowWeight:      cfg.GlowWeight,
		HueDrift:        cfg.HueDrift,
		SatDrift:        cfg.SatDrift,
		MinSaturation:   cfg.MinSaturation,
	}
}

// SpawnAgent creates an agent at a uniform position with a random heading.
func SpawnAgent(rng *RandomStream, width, height float64, pal Palette, p AgentParams) Agent {
	pos := r2.Vec{X: rng.Uniform(0, width), Y: rng.Uniform(0, height)}
	dx, dy := rng.Direction()
	speed := rng.Uniform(p.InitialSpeed.Min, p.InitialSpeed.Max)
	return Agent{
		Pos:      pos,
		Prev:     pos,
		Vel:      r2.Vec{X: dx * speed, Y: dy * speed},
		MaxSpeed: rng.Uniform(p.MaxSpeed.Min, p.MaxSpeed.Max),
		Color:    pal.Random(rng),
		Weight:   rng.Uniform(p.Weight.Min, p.Weight.Max),
		Lifespan: rng.Uniform(p.Lifespan.Min, p.Lifespan.Max),
	}
}

// Follow adds the field vector under the agent as a unit force.
func Follow(a *Agent, field *VectorField) {
	a.Acc = r2.Add(a.Acc, field.Lookup(a.Pos.X, a.Pos.Y))
}

// Integrate applies acceleration, hard-clamps speed to MaxSpeed, moves the agent
// and clears the acceleration.
func Integrate(a *Agent) {
	a.Vel = r2.Add(a.Vel, a.Acc)
	if speed := r2.Norm(a.Vel); speed > a.MaxSpeed {
		a.Vel = r2.Scale(a.MaxSpeed/speed, a.Vel)
	}
	a.Pos = r2.Add(a.Pos, a.Vel)
	a.Acc = r2.Vec{}
}

// Edges wraps the agent across each axis it left, damping velocity once per
// crossing, then soft-respawns it if it outlived its lifespan. Either change
// resets the trail so no segment is drawn across the canvas.
func Edges(a *Agent, rng *RandomStream, width, height float64, pal Palette, p AgentParams) Transition {
	var t Transition

	if a.Pos.X > width {
		a.Pos.X = 0
		a.bounce(p.Restitution)
		t |= TransitionBounced
	}
	if a.Pos.X < 0 {
		a.Pos.X = width
		a.bounce(p.Restitution)
		t |= TransitionBounced
	}
	if a.Pos.Y > height {
		a.Pos.Y = 0
		a.bounce(p.Restitution)
		t |= TransitionBounced
	}
	if a.Pos.Y < 0 {
		a.Pos.Y = height
		a.bounce(p.Restitution)
		t |= TransitionBounced
	}
	if t.Has(TransitionBounced) {
		a.Prev = a.Pos
	}

	if float64(a.Age) > a.Lifespan {
		Respawn(a, rng, width, height, pal, p)
		t |= TransitionRespawned
	}
	return t
}

// Respawn resets the agent in place: new position, age, lifespan and color.
func Respawn(a *Agent, rng *RandomStream, width, height float64, pal Palette, p AgentParams) {
	a.Pos = r2.Vec{X: rng.Uniform(0, width), Y: rng.Uniform(0, height)}
	a.Prev = a.Pos
	a.Age = 0
	a.Lifespan = rng.Uniform(p.RespawnLifespan.Min, p.RespawnLifespan.Max)
	a.Color = pal.Random(rng)
}

func (a *Agent) bounce(restitution float64) {
	a.Vel = r2.Scale(restitution, a.Vel)
}

// MoveAgent is the part of a tick that reads nothing but the agent and the
// field: follow, integrate, age.
func MoveAgent(a *Agent, field *VectorField) {
	Follow(a, field)
	Integrate(a)
	a.Age++
}

// TickAgent runs one physics tick: follow, integrate, age, edges.
func TickAgent(a *Agent, field *VectorField, rng *RandomStream, width, height float64, pal Palette, p AgentParams) Transition {
	MoveAgent(a, field)
	return Edges(a, rng, width, height, pal, p)
}

// StrokeColors returns the core and glow colors for the current frame. Hue and
// saturation drift slowly with the frame counter and position.
func StrokeColors(a *Agent, frame int64, p AgentParams) (core, glow Color) {
	f := float64(frame)
	h := wrapHue(a.Color.H + math.Sin(f*0.005+a.Pos.X*0.002)*p.HueDrift)
	s := clampFloat(a.Color.S+math.Sin(f*0.004+a.Pos.Y)*p.SatDrift, p.MinSaturation, 100)

	core = Color{H: h, S: s, B: a.Color.B, A: p.CoreAlpha}
	glow = Color{H: h, S: s, B: 100, A: p.GlowAlpha}
	return core, glow
}

// DrawAgent strokes the trail segment twice, a core line then a wider glow line,
// and advances Prev to the current position.
func DrawAgent(a *Agent, c Canvas, frame int64, p AgentParams) {
	core, glow := StrokeColors(a, frame, p)
	c.Line(a.Pos.X, a.Pos.Y, a.Prev.X, a.Prev.Y, a.Weight, core)
	c.Line(a.Pos.X, a.Pos.Y, a.Prev.X, a.Prev.Y, a.Weight*p.GlowWeight, glow)
	a.Prev = a.Pos
}
