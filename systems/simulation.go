package systems

import (
	"math"

	"github.com/pthm-cable/flowfield/config"
)

// FieldParams holds the per-reset field settings.
type FieldParams struct {
	CellSize      float64
	Increment     float64 // Noise step between neighboring cells
	TimeIncrement float64 // Noise z step per tick
	TimeOffset    float64 // Current noise z
	Fade          bool
}

// SimulationParams holds settings that survive resets.
type SimulationParams struct {
	Density      float64
	MinParticles int
	MaxParticles int
	Curl         float64
	FadeAlpha    float64
	Agent        AgentParams
}

// NewSimulationParams builds simulation parameters from the config.
func NewSimulationParams(cfg *config.Config) SimulationParams {
	return SimulationParams{
		Density:      cfg.Particles.Density,
		MinParticles: cfg.Particles.Min,
		MaxParticles: cfg.Particles.Max,
		Curl:         cfg.Field.Curl,
		FadeAlpha:    cfg.Fade.Alpha,
		Agent:        NewAgentParams(cfg.Agent),
	}
}

// RandomFieldParams draws a cell size from the configured set and increments
// and offset from their ranges.
func RandomFieldParams(rng *RandomStream, cfg config.FieldConfig, fade bool) FieldParams {
	return FieldParams{
		CellSize:      Pick(rng, cfg.CellSizes),
		Increment:     rng.Uniform(cfg.Increment.Min, cfg.Increment.Max),
		TimeIncrement: rng.Uniform(cfg.TimeIncrement.Min, cfg.TimeIncrement.Max),
		TimeOffset:    rng.Uniform(cfg.TimeOffset.Min, cfg.TimeOffset.Max),
		Fade:          fade,
	}
}

// RandomBackground picks a dark background from the configured hues.
func RandomBackground(rng *RandomStream, cfg config.BackgroundConfig) Color {
	h := Pick(rng, cfg.Hues)
	b := rng.Uniform(cfg.Brightness.Min, cfg.Brightness.Max)
	return HSBA(h, cfg.Saturation, b, 1)
}

// ParticleCount returns floor(width*height*density) clamped to [minN, maxN].
func ParticleCount(width, height int, density float64, minN, maxN int) int {
	area := float64(max(width, 0)) * float64(max(height, 0)) * density
	n := maxN
	if area < float64(maxN) {
		n = int(math.Floor(area))
	}
	return clampInt(n, minN, maxN)
}

// StepStats counts lifecycle transitions during one tick.
type StepStats struct {
	Bounced   int
	Respawned int
}

// Simulation owns the vector field and the agent pool.
type Simulation struct {
	rng        *RandomStream
	params     SimulationParams
	field      FieldParams
	vf         *VectorField
	agents     []Agent
	palette    Palette
	background Color
	width      int
	height     int

	workers *WorkerPool
}

// NewSimulation creates an empty simulation. Call Configure and Setup before Step.
func NewSimulation(rng *RandomStream, params SimulationParams) *Simulation {
	return &Simulation{
		rng:     rng,
		params:  params,
		vf:      NewVectorField(0, 0, 1),
		workers: NewWorkerPool(),
	}
}

// Configure installs the field settings, palette and background for a new run.
func (s *Simulation) Configure(field FieldParams, pal Palette, background Color) {
	s.field = field
	s.palette = pal
	s.background = background
}

// Setup rebuilds the field grid for the canvas size and reallocates the agent pool.
func (s *Simulation) Setup(width, height int) {
	s.width, s.height = max(width, 0), max(height, 0)

	s.vf = NewVectorField(s.width, s.height, s.field.CellSize)
	if s.params.Curl != 0 {
		s.vf.SetCurl(s.params.Curl)
	}

	count := ParticleCount(s.width, s.height, s.params.Density, s.params.MinParticles, s.params.MaxParticles)
	w, h := float64(s.width), float64(s.height)
	s.agents = make([]Agent, count)
	for i := range s.agents {
		s.agents[i] = SpawnAgent(s.rng, w, h, s.palette, s.params.Agent)
	}
}

// Step runs one frame: fade, field recompute, agent update and draw. An empty
// surface leaves the simulation untouched.
func (s *Simulation) Step(ctx RenderContext, c Canvas) StepStats {
	if ctx.Empty() {
		return StepStats{}
	}
	s.Fade(c)
	s.RecomputeField()
	return s.UpdateAgents(ctx, c)
}

// Fade composites a near-transparent background rect over the canvas when fading
// is enabled.
func (s *Simulation) Fade(c Canvas) {
	if !s.field.Fade {
		return
	}
	w, h := c.Size()
	c.FillRect(0, 0, float64(w), float64(h), s.background.WithAlpha(s.params.FadeAlpha))
}

// RecomputeField refills the grid for the current time slice and advances time.
func (s *Simulation) RecomputeField() {
	s.vf.RecomputeWith(s.workers, s.rng, s.field.TimeOffset, s.field.Increment)
	s.field.TimeOffset += s.field.TimeIncrement
}

// UpdateAgents ticks and draws every agent. Nothing moves on an empty canvas.
// Movement runs on the worker pool; edges draw from the shared random stream
// and run in agent order with drawing, so results match a serial tick.
func (s *Simulation) UpdateAgents(ctx RenderContext, c Canvas) StepStats {
	var stats StepStats
	if ctx.Empty() {
		return stats
	}

	s.workers.Run(len(s.agents), func(start, end int) {
		for i := start; i < end; i++ {
			MoveAgent(&s.agents[i], s.vf)
		}
	})

	w, h := float64(ctx.Width), float64(ctx.Height)
	for i := range s.agents {
		a := &s.agents[i]
		t := Edges(a, s.rng, w, h, s.palette, s.params.Agent)
		if t.Has(TransitionBounced) {
			stats.Bounced++
		}
		if t.Has(TransitionRespawned) {
			stats.Respawned++
		}
		DrawAgent(a, c, ctx.Frame, s.params.Agent)
	}
	return stats
}

// Agents returns the agent pool. Callers must not retain it across Setup.
func (s *Simulation) Agents() []Agent {
	return s.agents
}

// Field returns the vector field.
func (s *Simulation) Field() *VectorField {
	return s.vf
}

// FieldParams returns the current field settings.
func (s *Simulation) FieldParams() FieldParams {
	return s.field
}

// Fading reports whether trail fading is on.
func (s *Simulation) Fading() bool {
	return s.field.Fade
}

// SetFade switches trail fading.
func (s *Simulation) SetFade(on bool) {
	s.field.Fade = on
}

// Palette returns the current palette.
func (s *Simulation) Palette() Palette {
	return s.palette
}

// Background returns the current background color.
func (s *Simulation) Background() Color {
	return s.background
}

// Workers returns how many goroutines share the parallel phases.
func (s *Simulation) Workers() int {
	return s.workers.Workers()
}

// Close stops the worker pool.
func (s *Simulation) Close() {
	s.workers.Stop()
}

// Params returns the settings that survive resets.
func (s *Simulation) Params() SimulationParams {
	return s.params
}
