package game

import (
	"fmt"
	"image/color"
	"log/slog"
	"math/rand"
	"time"

	"github.com/pthm-cable/flowfield/config"
	"github.com/pthm-cable/flowfield/systems"
	"github.com/pthm-cable/flowfield/telemetry"
)

// Scene names the active visual.
type Scene string

const (
	SceneFlowField Scene = "flowfield"
	SceneStarfield Scene = "starfield"
)

// seedRange bounds freshly drawn seeds.
const seedRange = 1_000_000_000

// bookmarkHistory is the number of agent windows bookmarks compare against.
const bookmarkHistory = 10

// Game is the scene controller: it owns the random stream, both scenes and the
// canvas, and turns host events into resets, toggles and frames.
type Game struct {
	cfg    *config.Config
	canvas systems.Canvas
	rng    *systems.RandomStream

	sim  *systems.Simulation
	star *systems.Starfield

	scene Scene
	seed  int64

	saver FrameSaver
	audio Ambient

	seedSource func() int64
	now        func() time.Time
	started    time.Time

	// Telemetry
	perf        *telemetry.PerfCollector
	collector   *telemetry.Collector
	bookmarks   *telemetry.BookmarkDetector
	output      *telemetry.OutputManager
	snapshotDir string
	logStats    bool

	// State
	frame      int64
	lastStats  systems.StepStats
	hudVisible bool
}

// NewGame builds a game and runs the first reset.
func NewGame(opts Options) (*Game, error) {
	cfg := opts.Config
	if cfg == nil {
		cfg = config.Cfg()
	}
	if opts.Canvas == nil {
		return nil, fmt.Errorf("game: canvas is required")
	}

	output, err := telemetry.NewOutputManager(opts.OutputDir)
	if err != nil {
		return nil, err
	}
	if err := output.WriteConfig(cfg); err != nil {
		output.Close()
		return nil, err
	}

	noise := systems.NoiseOptions{
		Backend: cfg.Noise.Backend,
		Alpha:   cfg.Noise.Alpha,
		Beta:    cfg.Noise.Beta,
		Octaves: cfg.Noise.Octaves,
	}

	g := &Game{
		cfg:         cfg,
		canvas:      opts.Canvas,
		rng:         systems.NewRandomStream(opts.Seed, noise),
		scene:       Scene(cfg.Scene),
		saver:       opts.FrameSaver,
		audio:       opts.Audio,
		seedSource:  opts.SeedSource,
		now:         opts.Now,
		perf:        telemetry.NewPerfCollector(cfg.Telemetry.PerfWindow),
		collector:   telemetry.NewCollector(cfg.Telemetry.LogInterval),
		bookmarks:   telemetry.NewBookmarkDetector(bookmarkHistory),
		output:      output,
		snapshotDir: opts.SnapshotDir,
		logStats:    opts.LogStats,
		hudVisible:  true,
	}
	if g.seedSource == nil {
		src := rand.New(rand.NewSource(time.Now().UnixNano()))
		g.seedSource = func() int64 { return src.Int63n(seedRange) }
	}
	if g.now == nil {
		g.now = time.Now
	}
	g.started = g.now()

	g.sim = systems.NewSimulation(g.rng, systems.NewSimulationParams(cfg))
	g.sim.SetFade(cfg.Fade.Enabled)
	g.star = systems.NewStarfield(g.rng, cfg.Starfield, cfg.Derived.StoryPeriod)

	if opts.Seed == 0 {
		g.Reset(true)
	} else {
		g.ResetWithSeed(opts.Seed)
	}
	return g, nil
}

// Reset starts a new run. With newSeed a fresh seed is drawn first; otherwise
// the current seed is replayed.
func (g *Game) Reset(newSeed bool) {
	seed := g.seed
	if newSeed {
		seed = g.seedSource()
	}
	g.ResetWithSeed(seed)
}

// ResetWithSeed reseeds the random stream and rebuilds everything derived from
// it: field parameters, background, palette, agents and starfield.
func (g *Game) ResetWithSeed(seed int64) {
	g.seed = seed
	g.rng.Seed(seed)

	field := systems.RandomFieldParams(g.rng, g.cfg.Field, g.sim.Fading())
	background := systems.RandomBackground(g.rng, g.cfg.Background)
	pal := g.newPalette()

	g.sim.Configure(field, pal, background)
	g.clear()
	w, h := g.canvas.Size()
	g.setup(w, h)

	g.collector.Restart(g.frame)
	g.bookmarks.Reset()
	g.logReset()
}

func (g *Game) newPalette() systems.Palette {
	if g.cfg.Palette.Mode == "" {
		return systems.PickPalette(g.rng)
	}
	mode, ok := systems.ParsePaletteMode(g.cfg.Palette.Mode)
	if !ok {
		slog.Warn("unknown palette mode, using harmony", "mode", g.cfg.Palette.Mode)
	}
	return systems.GeneratePalette(mode, g.rng)
}

func (g *Game) setup(w, h int) {
	g.sim.Setup(w, h)
	g.star.Setup(w, h)
}

// clear paints the active scene's background.
func (g *Game) clear() {
	if g.scene == SceneStarfield {
		bg := g.cfg.Starfield.BackgroundRGB
		g.canvas.Clear(color.NRGBA{R: bg[0], G: bg[1], B: bg[2], A: 255})
		return
	}
	g.canvas.Clear(g.sim.Background())
}

// OnResize resizes the canvas and rebuilds the field and agents for the new
// size. The seed and palette are kept.
func (g *Game) OnResize(width, height int) {
	width, height = max(width, 0), max(height, 0)
	g.canvas.Resize(width, height)
	g.clear()
	g.setup(width, height)
	slog.Info("resize", "width", width, "height", height, "agents", len(g.sim.Agents()))
}

// OnPointerDown runs a full reset with a new seed.
func (g *Game) OnPointerDown() {
	g.Reset(true)
}

// OnKey applies a key action.
func (g *Game) OnKey(k Key) {
	switch k {
	case KeySaveFrame:
		g.saveFrame()
	case KeyClearTrails:
		g.clear()
	case KeyToggleFade:
		on := !g.sim.Fading()
		g.sim.SetFade(on)
		if !on {
			// Without the fade pass nothing erases old trails.
			g.clear()
		}
		slog.Info("fade toggled", "fade", on)
	case KeyReset:
		g.Reset(true)
	case KeyToggleAudio:
		g.toggleAudio()
	case KeyToggleHUD:
		g.hudVisible = !g.hudVisible
	case KeyScene:
		g.switchScene()
	}
}

// FrameName is the export name for the current run.
func (g *Game) FrameName() string {
	return fmt.Sprintf("flowfield-%d", g.seed)
}

func (g *Game) saveFrame() {
	name := g.FrameName()
	if g.saver == nil {
		slog.Warn("save requested without a frame saver", "name", name)
		return
	}
	if err := g.saver.SaveFrame(name); err != nil {
		slog.Error("failed to save frame", "name", name, "error", err)
		return
	}
	slog.Info("frame saved", "name", name)
}

func (g *Game) toggleAudio() {
	if g.audio == nil {
		return
	}
	if err := g.audio.Toggle(); err != nil {
		slog.Warn("audio start failed", "error", err)
		return
	}
	slog.Info("audio toggled", "playing", g.audio.Playing())
}

func (g *Game) switchScene() {
	if g.scene == SceneStarfield {
		g.scene = SceneFlowField
	} else {
		g.scene = SceneStarfield
	}
	g.clear()
	// Agent windows never span a scene switch.
	g.collector.Restart(g.frame)
	g.bookmarks.Reset()
	slog.Info("scene switched", "scene", g.scene)
}

// Step renders one frame of the active scene at the given pointer position.
func (g *Game) Step(pointerX, pointerY float64) {
	w, h := g.canvas.Size()
	ctx := systems.RenderContext{
		Width:    w,
		Height:   h,
		Frame:    g.frame,
		Elapsed:  g.now().Sub(g.started),
		PointerX: pointerX,
		PointerY: pointerY,
	}

	g.perf.StartTick()
	g.lastStats = systems.StepStats{}

	switch {
	case ctx.Empty():
	case g.scene == SceneStarfield:
		g.perf.StartPhase(telemetry.PhaseStarfield)
		g.star.Step(ctx, g.canvas)
	default:
		g.perf.StartPhase(telemetry.PhaseFade)
		g.sim.Fade(g.canvas)
		g.perf.StartPhase(telemetry.PhaseField)
		g.sim.RecomputeField()
		g.perf.StartPhase(telemetry.PhaseAgents)
		g.lastStats = g.sim.UpdateAgents(ctx, g.canvas)
	}

	g.perf.StartPhase(telemetry.PhaseTelemetry)
	g.flushTelemetry()
	g.perf.EndTick()

	g.frame++
}

// Close stops the simulation workers and flushes telemetry output.
func (g *Game) Close() error {
	g.sim.Close()
	return g.output.Close()
}

// Seed returns the seed of the current run.
func (g *Game) Seed() int64 { return g.seed }

// Frame returns the number of frames stepped.
func (g *Game) Frame() int64 { return g.frame }

// Scene returns the active scene.
func (g *Game) Scene() Scene { return g.scene }

// Simulation returns the flow-field simulation.
func (g *Game) Simulation() *systems.Simulation { return g.sim }

// Starfield returns the starfield scene.
func (g *Game) Starfield() *systems.Starfield { return g.star }

// Canvas returns the drawing surface.
func (g *Game) Canvas() systems.Canvas { return g.canvas }

// Perf returns the frame timing collector.
func (g *Game) Perf() *telemetry.PerfCollector { return g.perf }

// LastStats returns the transitions counted by the most recent Step.
func (g *Game) LastStats() systems.StepStats { return g.lastStats }

// HUDVisible reports whether the host should draw its overlay.
func (g *Game) HUDVisible() bool { return g.hudVisible }

// AudioPlaying reports whether ambient audio is on.
func (g *Game) AudioPlaying() bool { return g.audio != nil && g.audio.Playing() }
