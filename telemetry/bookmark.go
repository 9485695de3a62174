package telemetry

import (
	"fmt"
	"log/slog"

	"gonum.org/v1/gonum/stat"
)

// BookmarkType identifies the type of bookmark.
type BookmarkType string

const (
	BookmarkRespawnWave BookmarkType = "respawn_wave"
	BookmarkBounceStorm BookmarkType = "bounce_storm"
	BookmarkFlowStall   BookmarkType = "flow_stall"
	BookmarkSteadyFlow  BookmarkType = "steady_flow"
)

// Thresholds
const (
	surgeFactor    = 2.0  // window count vs rolling average
	surgeMinEvents = 50   // ignore surges on tiny counts
	stallFactor    = 0.5  // speed mean vs rolling average
	steadyCV       = 0.05 // speed mean coefficient of variation
	steadyWindows  = 5
)

// Bookmark marks a notable window in a run.
type Bookmark struct {
	Type        BookmarkType `csv:"type" json:"type"`
	Frame       int64        `csv:"frame" json:"frame"`
	Seed        int64        `csv:"seed" json:"seed"`
	Description string       `csv:"description" json:"description"`
}

// LogBookmark logs the bookmark using slog.
func (b Bookmark) LogBookmark() {
	slog.Info("bookmark",
		"type", string(b.Type),
		"frame", b.Frame,
		"seed", b.Seed,
		"description", b.Description,
	)
}

// BookmarkDetector watches agent windows for surges, stalls and steady flow.
type BookmarkDetector struct {
	// Rolling history (circular buffer)
	history     []WindowStats
	historySize int
	historyIdx  int
	historyFull bool

	steadyCount int // consecutive windows with a steady speed mean
}

// NewBookmarkDetector creates a detector with the given history size.
func NewBookmarkDetector(historySize int) *BookmarkDetector {
	if historySize < steadyWindows {
		historySize = steadyWindows
	}
	return &BookmarkDetector{
		history:     make([]WindowStats, historySize),
		historySize: historySize,
	}
}

// Reset forgets all history. Call it when a new run starts.
func (bd *BookmarkDetector) Reset() {
	bd.historyIdx = 0
	bd.historyFull = false
	bd.steadyCount = 0
}

// Check analyzes the latest window and returns any triggered bookmarks.
func (bd *BookmarkDetector) Check(stats WindowStats, seed int64) []Bookmark {
	var bookmarks []Bookmark
	add := func(t BookmarkType, desc string) {
		bookmarks = append(bookmarks, Bookmark{Type: t, Frame: stats.WindowEndFrame, Seed: seed, Description: desc})
	}

	history := bd.getHistory()
	if len(history) >= 3 {
		var bounced, respawned, speed float64
		for _, h := range history {
			bounced += float64(h.Bounced)
			respawned += float64(h.Respawned)
			speed += h.SpeedMean
		}
		n := float64(len(history))
		bounced, respawned, speed = bounced/n, respawned/n, speed/n

		if r := float64(stats.Respawned); respawned > 0 && r > respawned*surgeFactor && stats.Respawned >= surgeMinEvents {
			add(BookmarkRespawnWave, fmt.Sprintf("%d respawns is %.1fx average (%.0f)", stats.Respawned, r/respawned, respawned))
		}
		if b := float64(stats.Bounced); bounced > 0 && b > bounced*surgeFactor && stats.Bounced >= surgeMinEvents {
			add(BookmarkBounceStorm, fmt.Sprintf("%d bounces is %.1fx average (%.0f)", stats.Bounced, b/bounced, bounced))
		}
		if speed > 0 && stats.SpeedMean < speed*stallFactor {
			add(BookmarkFlowStall, fmt.Sprintf("Mean speed %.2f fell below half the average (%.2f)", stats.SpeedMean, speed))
		}
	}

	if bd.checkSteady(stats) {
		add(BookmarkSteadyFlow, fmt.Sprintf("Mean speed steady near %.2f over %d windows", stats.SpeedMean, steadyWindows))
	}

	bd.addToHistory(stats)
	return bookmarks
}

// checkSteady reports true exactly once per steady stretch.
func (bd *BookmarkDetector) checkSteady(stats WindowStats) bool {
	history := bd.getHistory()
	if stats.Agents == 0 || len(history) < steadyWindows-1 {
		bd.steadyCount = 0
		return false
	}

	recent := make([]float64, 0, steadyWindows)
	for _, h := range bd.lastN(steadyWindows - 1) {
		recent = append(recent, h.SpeedMean)
	}
	recent = append(recent, stats.SpeedMean)

	mean, std := stat.MeanStdDev(recent, nil)
	if mean > 0 && std/mean < steadyCV {
		bd.steadyCount++
	} else {
		bd.steadyCount = 0
	}
	return bd.steadyCount == 1
}

func (bd *BookmarkDetector) addToHistory(stats WindowStats) {
	bd.history[bd.historyIdx] = stats
	bd.historyIdx = (bd.historyIdx + 1) % bd.historySize
	if bd.historyIdx == 0 {
		bd.historyFull = true
	}
}

func (bd *BookmarkDetector) getHistory() []WindowStats {
	if bd.historyFull {
		return bd.history
	}
	return bd.history[:bd.historyIdx]
}

// lastN returns the n most recent windows, oldest first.
func (bd *BookmarkDetector) lastN(n int) []WindowStats {
	count := len(bd.getHistory())
	n = min(n, count)
	out := make([]WindowStats, 0, n)
	for i := n; i > 0; i-- {
		idx := (bd.historyIdx - i + bd.historySize) % bd.historySize
		out = append(out, bd.history[idx])
	}
	return out
}
