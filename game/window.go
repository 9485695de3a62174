package game

import (
	rl "github.com/gen2brain/raylib-go/raylib"

	"github.com/pthm-cable/flowfield/renderer"
	"github.com/pthm-cable/flowfield/systems"
	"github.com/pthm-cable/flowfield/telemetry"
	"github.com/pthm-cable/flowfield/ui"
)

// Window hosts a Game in a raylib window: it polls input, steps the game into
// a render texture and draws the overlay on top.
type Window struct {
	g        *Game
	canvas   *renderer.RaylibCanvas
	hud      *ui.HUD
	controls *ui.Controls
	title    string
}

// NewWindow wraps g, which must draw into canvas. The raylib window must
// already be open.
func NewWindow(g *Game, canvas *renderer.RaylibCanvas, title string) *Window {
	return &Window{
		g:        g,
		canvas:   canvas,
		hud:      ui.NewHUD(),
		controls: ui.NewControls(),
		title:    title,
	}
}

// apply runs f with drawing redirected into the canvas texture.
func (w *Window) apply(f func()) {
	w.canvas.Begin()
	f()
	w.canvas.End()
}

// Update handles input and renders one frame into the canvas.
func (w *Window) Update() {
	w.handleInput()

	pos := rl.GetMousePosition()
	w.apply(func() { w.g.Step(float64(pos.X), float64(pos.Y)) })
	w.g.Perf().RecordFrame()
}

// Draw presents the canvas and the overlay.
func (w *Window) Draw() {
	rl.BeginDrawing()
	rl.ClearBackground(rl.Black)
	w.canvas.Present()

	screenW := int32(rl.GetScreenWidth())
	visible := w.g.HUDVisible()
	w.controls.SetVisible(visible)
	if visible {
		w.hud.Draw(w.hudData())
		w.hud.DrawLegend(int32(rl.GetScreenHeight()))
	}
	action := w.controls.Draw(screenW)
	rl.EndDrawing()

	w.key(keyForAction(action))
}

// key forwards k to the game. Only keys that draw run in texture mode, so a
// frame save reads back an unbound texture.
func (w *Window) key(k Key) {
	switch k {
	case KeyNone:
	case KeySaveFrame, KeyToggleAudio, KeyToggleHUD:
		w.g.OnKey(k)
	default:
		w.apply(func() { w.g.OnKey(k) })
	}
}

func keyForAction(a ui.Action) Key {
	switch a {
	case ui.ActionReshuffle:
		return KeyReset
	case ui.ActionToggleFade:
		return KeyToggleFade
	case ui.ActionClear:
		return KeyClearTrails
	case ui.ActionSave:
		return KeySaveFrame
	case ui.ActionToggleAudio:
		return KeyToggleAudio
	case ui.ActionScene:
		return KeyScene
	}
	return KeyNone
}

func (w *Window) hudData() ui.HUDData {
	g := w.g
	sim := g.Simulation()
	cols, rows := sim.Field().Dims()
	pal := sim.Palette()
	stats := g.Perf().Stats()

	colors := make([]rl.Color, 0, systems.PaletteSize)
	for _, c := range pal.Colors {
		n := c.WithAlpha(1).NRGBA()
		colors = append(colors, rl.NewColor(n.R, n.G, n.B, n.A))
	}

	data := ui.HUDData{
		Title:    w.title,
		Scene:    string(g.Scene()),
		Seed:     g.Seed(),
		Frame:    g.Frame(),
		FPS:      rl.GetFPS(),
		Agents:   len(sim.Agents()),
		Grid:     [2]int{cols, rows},
		CellSize: sim.FieldParams().CellSize,
		Fade:     sim.Fading(),
		Audio:    g.AudioPlaying(),
		Palette:  string(pal.Mode),
		Colors:   colors,
		AvgTick:  stats.AvgTickDuration,
		PhasePct: stats.PhasePct,
		Phases:   []string{telemetry.PhaseFade, telemetry.PhaseField, telemetry.PhaseAgents},
	}
	if g.Scene() == SceneStarfield {
		stars, planets := g.Starfield().Counts()
		data.Agents = stars + planets
		data.Phases = []string{telemetry.PhaseStarfield}
	}
	return data
}
