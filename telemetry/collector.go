package telemetry

// Collector accumulates agent transitions within frame windows and produces
// WindowStats.
type Collector struct {
	windowFrames     int64
	windowStartFrame int64

	bounced   int
	respawned int
}

// NewCollector creates a collector that flushes every windowFrames frames.
func NewCollector(windowFrames int) *Collector {
	if windowFrames < 1 {
		windowFrames = 1
	}
	return &Collector{windowFrames: int64(windowFrames)}
}

// Record adds one frame's transition counts.
func (c *Collector) Record(bounced, respawned int) {
	c.bounced += bounced
	c.respawned += respawned
}

// ShouldFlush returns true if enough frames have passed to flush the window.
func (c *Collector) ShouldFlush(frame int64) bool {
	return frame-c.windowStartFrame >= c.windowFrames
}

// Flush produces a WindowStats and resets counters for the next window.
// speeds holds |velocity| per agent and ages holds age/lifespan per agent.
func (c *Collector) Flush(frame int64, speeds, ages []float64) WindowStats {
	speed := ComputeDistribution(speeds)
	age := ComputeDistribution(ages)

	stats := WindowStats{
		WindowStartFrame: c.windowStartFrame,
		WindowEndFrame:   frame,
		Agents:           len(speeds),
		Bounced:          c.bounced,
		Respawned:        c.respawned,
		SpeedMean:        speed.Mean,
		SpeedStd:         speed.Std,
		SpeedP10:         speed.P10,
		SpeedP50:         speed.P50,
		SpeedP90:         speed.P90,
		AgeMean:          age.Mean,
		AgeP90:           age.P90,
	}

	c.windowStartFrame = frame
	c.bounced = 0
	c.respawned = 0
	return stats
}

// Restart discards the current window and starts a new one at frame.
func (c *Collector) Restart(frame int64) {
	c.windowStartFrame = frame
	c.bounced = 0
	c.respawned = 0
}

// WindowFrames returns the number of frames per window.
func (c *Collector) WindowFrames() int64 {
	return c.windowFrames
}
