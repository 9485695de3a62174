// Package telemetry provides frame timing, agent statistics and CSV run logs.
package telemetry

import "log/slog"

// ResetEvent describes one scene reset: everything needed to reproduce the run
// from its seed.
type ResetEvent struct {
	Frame    int64   `csv:"frame"`
	Scene    string  `csv:"scene"`
	Seed     int64   `csv:"seed"`
	Palette  string  `csv:"palette"`
	CellSize float64 `csv:"cell_size"`
	Cols     int     `csv:"cols"`
	Rows     int     `csv:"rows"`
	Agents   int     `csv:"agents"`
	Width    int     `csv:"width"`
	Height   int     `csv:"height"`
	Fade     bool    `csv:"fade"`
}

// LogValue implements slog.LogValuer for structured logging.
func (e ResetEvent) LogValue() slog.Value {
	return slog.GroupValue(
		slog.Int64("frame", e.Frame),
		slog.String("scene", e.Scene),
		slog.Int64("seed", e.Seed),
		slog.String("palette", e.Palette),
		slog.Float64("cell_size", e.CellSize),
		slog.Int("cols", e.Cols),
		slog.Int("rows", e.Rows),
		slog.Int("agents", e.Agents),
		slog.Int("width", e.Width),
		slog.Int("height", e.Height),
		slog.Bool("fade", e.Fade),
	)
}
