package game

import (
	"fmt"
	"log/slog"

	"github.com/pthm-cable/flowfield/systems"
	"github.com/pthm-cable/flowfield/telemetry"
)

// Snapshot captures the current run. b may be nil.
func (g *Game) Snapshot(b *telemetry.Bookmark) *telemetry.Snapshot {
	w, h := g.canvas.Size()
	pal := g.sim.Palette()

	colors := make([]string, 0, len(pal.Colors))
	for _, c := range pal.Colors {
		colors = append(colors, hexColor(c))
	}

	return &telemetry.Snapshot{
		Version:    telemetry.SnapshotVersion,
		Seed:       g.seed,
		Scene:      string(g.scene),
		Width:      w,
		Height:     h,
		Frame:      g.frame,
		CellSize:   g.sim.FieldParams().CellSize,
		Fade:       g.sim.Fading(),
		Palette:    string(pal.Mode),
		Colors:     colors,
		Background: hexColor(g.sim.Background()),
		Agents:     len(g.sim.Agents()),
		Bookmark:   b,
	}
}

func (g *Game) saveSnapshots(marks []telemetry.Bookmark) {
	if g.snapshotDir == "" {
		return
	}
	for i := range marks {
		path, err := telemetry.SaveSnapshot(g.Snapshot(&marks[i]), g.snapshotDir)
		if err != nil {
			slog.Error("failed to save snapshot", "error", err)
			continue
		}
		slog.Info("snapshot saved", "path", path, "bookmark", marks[i].Type)
	}
}

func hexColor(c systems.Color) string {
	n := c.NRGBA()
	return fmt.Sprintf("#%02x%02x%02x%02x", n.R, n.G, n.B, n.A)
}
