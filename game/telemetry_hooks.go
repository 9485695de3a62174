package game

import (
	"log/slog"

	"gonum.org/v1/gonum/spatial/r2"

	"github.com/pthm-cable/flowfield/telemetry"
)

// flushTelemetry records this frame's transitions and, once per window, emits
// perf stats and, in the flow-field scene, agent stats and bookmarks to the log
// and the CSV output.
func (g *Game) flushTelemetry() {
	g.collector.Record(g.lastStats.Bounced, g.lastStats.Respawned)

	if g.cfg.Telemetry.LogInterval <= 0 || !g.collector.ShouldFlush(g.frame) {
		return
	}

	perfStats := g.perf.Stats()
	if g.logStats {
		perfStats.LogStats()
	}
	if err := g.output.WritePerf(perfStats, g.frame); err != nil {
		slog.Error("failed to write perf", "error", err)
	}

	// The agent pool is frozen while the starfield runs.
	if g.scene == SceneStarfield {
		g.collector.Restart(g.frame)
		return
	}

	speeds, ages := g.sampleAgents()
	stats := g.collector.Flush(g.frame, speeds, ages)
	if g.logStats {
		stats.LogStats()
	}

	marks := g.bookmarks.Check(stats, g.seed)
	for _, b := range marks {
		b.LogBookmark()
	}
	g.saveSnapshots(marks)

	if err := g.output.WriteAgents(stats); err != nil {
		slog.Error("failed to write agents", "error", err)
	}
	if err := g.output.WriteBookmarks(marks); err != nil {
		slog.Error("failed to write bookmarks", "error", err)
	}
}

// sampleAgents collects |velocity| and age/lifespan for every agent.
func (g *Game) sampleAgents() (speeds, ages []float64) {
	agents := g.sim.Agents()
	speeds = make([]float64, len(agents))
	ages = make([]float64, len(agents))
	for i := range agents {
		a := &agents[i]
		speeds[i] = r2.Norm(a.Vel)
		if a.Lifespan > 0 {
			ages[i] = float64(a.Age) / a.Lifespan
		}
	}
	return speeds, ages
}

// logReset logs the new run and appends it to resets.csv.
func (g *Game) logReset() {
	cols, rows := g.sim.Field().Dims()
	w, h := g.canvas.Size()
	field := g.sim.FieldParams()

	e := telemetry.ResetEvent{
		Frame:    g.frame,
		Scene:    string(g.scene),
		Seed:     g.seed,
		Palette:  string(g.sim.Palette().Mode),
		CellSize: field.CellSize,
		Cols:     cols,
		Rows:     rows,
		Agents:   len(g.sim.Agents()),
		Width:    w,
		Height:   h,
		Fade:     field.Fade,
	}
	slog.Info("reset", "run", e)

	if err := g.output.WriteReset(e); err != nil {
		slog.Error("failed to write reset", "error", err)
	}
}
