package telemetry

import (
	"log/slog"
	"sort"

	"gonum.org/v1/gonum/stat"
)

// WindowStats holds aggregated statistics for a time window.
type WindowStats struct {
	WindowStartTick uint64  `csv:"-"`
	WindowEndTick   uint64  `csv:"window_end"`
	SimTimeSec      float64 `csv:"sim_time"`

	// Population at window end
	Agents int `csv:"agents"`

	// Edits during window
	AgentsAdded   int `csv:"agents_added"`
	AgentsErased  int `csv:"agents_erased"`
	FoodPlaced    int `csv:"food_placed"`
	StaleResolved int `csv:"stale_resolved"`
	ParamRejected int `csv:"param_rejected"`

	// Food at window end
	FoodSources   int `csv:"food_sources"`
	FoodExhausted int `csv:"food_exhausted"`

	// Trail field (sampled at window end)
	TrailMass     float64 `csv:"trail_mass"`
	TrailMax      float64 `csv:"trail_max"`
	TrailCoverage float64 `csv:"trail_coverage"` // fraction of cells above CoverageThreshold

	// Hunger distribution (sampled at window end)
	HungerMean float64 `csv:"hunger_mean"`
	HungerStd  float64 `csv:"hunger_std"`
	HungerP10  float64 `csv:"hunger_p10"`
	HungerP50  float64 `csv:"hunger_p50"`
	HungerP90  float64 `csv:"hunger_p90"`
}

// CoverageThreshold is the trail value a cell needs to count as part of the network.
const CoverageThreshold = 0.05

// Percentile returns the p-th quantile of a sorted slice, interpolating the
// empirical CDF. p is clamped to [0, 1]. Returns 0 if the slice is empty.
func Percentile(sorted []float64, p float64) float64 {
	if len(sorted) == 0 {
		return 0
	}
	return stat.Quantile(min(max(p, 0), 1), stat.LinInterp, sorted, nil)
}

// ComputeDistribution calculates mean, standard deviation, and percentiles.
func ComputeDistribution(values []float64) (mean, std, p10, p50, p90 float64) {
	n := len(values)
	if n == 0 {
		return 0, 0, 0, 0, 0
	}
	if n == 1 {
		return values[0], 0, values[0], values[0], values[0]
	}

	mean, std = stat.MeanStdDev(values, nil)

	sorted := make([]float64, n)
	copy(sorted, values)
	sort.Float64s(sorted)

	p10 = Percentile(sorted, 0.10)
	p50 = Percentile(sorted, 0.50)
	p90 = Percentile(sorted, 0.90)

	return mean, std, p10, p50, p90
}

// TrailShape returns the maximum and the covered fraction of a trail field.
func TrailShape(trail []float32) (peak, coverage float64) {
	if len(trail) == 0 {
		return 0, 0
	}
	covered := 0
	for _, v := range trail {
		if float64(v) > peak {
			peak = float64(v)
		}
		if v > CoverageThreshold {
			covered++
		}
	}
	return peak, float64(covered) / float64(len(trail))
}

// LogValue implements slog.LogValuer for structured logging.
func (s WindowStats) LogValue() slog.Value {
	return slog.GroupValue(
		slog.Uint64("window_start", s.WindowStartTick),
		slog.Uint64("window_end", s.WindowEndTick),
		slog.Float64("sim_time", s.SimTimeSec),
		slog.Int("agents", s.Agents),
		slog.Int("agents_added", s.AgentsAdded),
		slog.Int("agents_erased", s.AgentsErased),
		slog.Int("food_placed", s.FoodPlaced),
		slog.Int("stale_resolved", s.StaleResolved),
		slog.Int("param_rejected", s.ParamRejected),
		slog.Int("food_sources", s.FoodSources),
		slog.Int("food_exhausted", s.FoodExhausted),
		slog.Float64("trail_mass", s.TrailMass),
		slog.Float64("trail_max", s.TrailMax),
		slog.Float64("trail_coverage", s.TrailCoverage),
		slog.Float64("hunger_mean", s.HungerMean),
		slog.Float64("hunger_std", s.HungerStd),
		slog.Float64("hunger_p10", s.HungerP10),
		slog.Float64("hunger_p50", s.HungerP50),
		slog.Float64("hunger_p90", s.HungerP90),
	)
}

// LogStats logs the window stats using slog.
func (s WindowStats) LogStats() {
	slog.Info("stats", "window", s)
}
