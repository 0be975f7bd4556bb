package telemetry

import "math"

// Collector accumulates edit events within time windows and produces WindowStats.
type Collector struct {
	windowDurationSec   float64
	windowDurationTicks uint64
	dt                  float32

	// Current window tracking
	windowStartTick uint64

	// Event counters for current window
	agentsAdded   int
	agentsErased  int
	foodPlaced    int
	staleResolved int
	paramRejected int
}

// NewCollector creates a new stats collector.
// windowDurationSec: how long each stats window lasts in simulation seconds
// dt: seconds per tick (used for tick-to-time conversion)
func NewCollector(windowDurationSec float64, dt float32) *Collector {
	ticksPerWindow := uint64(math.Round(windowDurationSec / float64(dt)))
	if ticksPerWindow < 1 {
		ticksPerWindow = 1
	}

	return &Collector{
		windowDurationSec:   windowDurationSec,
		windowDurationTicks: ticksPerWindow,
		dt:                  dt,
	}
}

// RecordAgentsAdded records agents placed by a brush or initializer.
func (c *Collector) RecordAgentsAdded(n int) {
	c.agentsAdded += n
}

// RecordAgentsErased records agents removed by a brush or clear.
func (c *Collector) RecordAgentsErased(n int) {
	c.agentsErased += n
}

// RecordFoodPlaced records a food source placement.
func (c *Collector) RecordFoodPlaced() {
	c.foodPlaced++
}

// RecordStaleResolved records an edit that had to pull device state first.
func (c *Collector) RecordStaleResolved() {
	c.staleResolved++
}

// RecordParamRejected records a rejected parameter input.
func (c *Collector) RecordParamRejected() {
	c.paramRejected++
}

// ShouldFlush returns true if enough ticks have passed to flush the window.
func (c *Collector) ShouldFlush(currentTick uint64) bool {
	return currentTick-c.windowStartTick >= c.windowDurationTicks
}

// Sample is the simulation state captured at the end of a window.
type Sample struct {
	Agents        int
	Hunger        []float64
	Trail         []float32
	TrailMass     float64
	FoodSources   int
	FoodExhausted int
}

// Flush produces a WindowStats and resets counters for the next window.
func (c *Collector) Flush(currentTick uint64, s Sample) WindowStats {
	hMean, hStd, hP10, hP50, hP90 := ComputeDistribution(s.Hunger)
	peak, coverage := TrailShape(s.Trail)

	stats := WindowStats{
		WindowStartTick: c.windowStartTick,
		WindowEndTick:   currentTick,
		SimTimeSec:      float64(currentTick) * float64(c.dt),

		Agents: s.Agents,

		AgentsAdded:   c.agentsAdded,
		AgentsErased:  c.agentsErased,
		FoodPlaced:    c.foodPlaced,
		StaleResolved: c.staleResolved,
		ParamRejected: c.paramRejected,

		FoodSources:   s.FoodSources,
		FoodExhausted: s.FoodExhausted,

		TrailMass:     s.TrailMass,
		TrailMax:      peak,
		TrailCoverage: coverage,

		HungerMean: hMean,
		HungerStd:  hStd,
		HungerP10:  hP10,
		HungerP50:  hP50,
		HungerP90:  hP90,
	}

	// Reset for next window
	c.windowStartTick = currentTick
	c.agentsAdded = 0
	c.agentsErased = 0
	c.foodPlaced = 0
	c.staleResolved = 0
	c.paramRejected = 0

	return stats
}

// WindowDurationTicks returns the number of ticks per window.
func (c *Collector) WindowDurationTicks() uint64 {
	return c.windowDurationTicks
}
