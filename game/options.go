package game

import (
	"time"

	"github.com/pthm-cable/flowfield/config"
	"github.com/pthm-cable/flowfield/systems"
)

// FrameSaver exports the current canvas. name has no extension.
type FrameSaver interface {
	SaveFrame(name string) error
}

// FrameSaverFunc adapts a function to FrameSaver.
type FrameSaverFunc func(name string) error

// SaveFrame calls f.
func (f FrameSaverFunc) SaveFrame(name string) error {
	return f(name)
}

// Ambient is the background audio collaborator.
type Ambient interface {
	// Toggle starts or stops playback. A failed start leaves the ambient
	// stopped so the next Toggle retries.
	Toggle() error
	Playing() bool
}

// Options configures a Game.
type Options struct {
	Config *config.Config // nil = config.Cfg()
	Canvas systems.Canvas

	Seed int64 // 0 = random

	FrameSaver FrameSaver // nil = save requests are logged and dropped
	Audio      Ambient    // nil = no audio

	OutputDir   string // CSV logs and config snapshot (empty = disabled)
	SnapshotDir string // Run snapshots saved on bookmarks (empty = disabled)
	LogStats    bool   // Periodic perf and agent stats via slog

	// SeedSource draws seeds for full resets. Nil uses a time-seeded source.
	SeedSource func() int64
	// Now is the clock behind RenderContext.Elapsed. Nil uses time.Now.
	Now func() time.Time
}
