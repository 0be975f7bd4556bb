package telemetry

import (
	"math"
	"testing"
)

func TestPercentile(t *testing.T) {
	tests := []struct {
		name   string
		sorted []float64
		p      float64
		want   float64
	}{
		{"empty slice", []float64{}, 0.5, 0},
		{"single element", []float64{5.0}, 0.5, 5.0},
		{"p0", []float64{1, 2, 3, 4, 5}, 0.0, 1.0},
		{"p100", []float64{1, 2, 3, 4, 5}, 1.0, 5.0},
		{"p50 odd", []float64{1, 2, 3, 4, 5}, 0.5, 2.5},
		{"p50 even", []float64{1, 2, 3, 4}, 0.5, 2.0},
		{"p10", []float64{1, 2, 3, 4, 5, 6, 7, 8, 9, 10}, 0.1, 1.0},
		{"p90", []float64{1, 2, 3, 4, 5, 6, 7, 8, 9, 10}, 0.9, 9.0},
		{"p25 interpolated", []float64{1, 2, 3, 4, 5, 6}, 0.25, 1.5},
		{"p out of range", []float64{1, 2, 3}, 1.5, 3.0},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := Percentile(tt.sorted, tt.p)
			if math.Abs(got-tt.want) > 0.001 {
				t.Errorf("Percentile(%v, %v) = %v, want %v", tt.sorted, tt.p, got, tt.want)
			}
		})
	}
}

func TestComputeDistribution(t *testing.T) {
	values := []float64{0.1, 0.2, 0.3, 0.4, 0.5, 0.6, 0.7, 0.8, 0.9, 1.0}
	mean, std, p10, p50, p90 := ComputeDistribution(values)

	// Mean should be 0.55
	if math.Abs(mean-0.55) > 0.001 {
		t.Errorf("mean = %v, want 0.55", mean)
	}

	// Sample standard deviation of 0.1..1.0
	if math.Abs(std-0.3028) > 0.001 {
		t.Errorf("std = %v, want ~0.3028", std)
	}

	if math.Abs(p10-0.1) > 1e-9 {
		t.Errorf("p10 = %v, want 0.1", p10)
	}
	if math.Abs(p50-0.5) > 1e-9 {
		t.Errorf("p50 = %v, want 0.5", p50)
	}
	if math.Abs(p90-0.9) > 1e-9 {
		t.Errorf("p90 = %v, want 0.9", p90)
	}
}

func TestComputeDistributionSmall(t *testing.T) {
	mean, std, p10, p50, p90 := ComputeDistribution(nil)
	if mean != 0 || std != 0 || p10 != 0 || p50 != 0 || p90 != 0 {
		t.Error("empty slice should return all zeros")
	}

	mean, std, _, p50, _ = ComputeDistribution([]float64{0.4})
	if mean != 0.4 || std != 0 || p50 != 0.4 {
		t.Errorf("single value: mean=%v std=%v p50=%v", mean, std, p50)
	}
}

func TestTrailShape(t *testing.T) {
	peak, coverage := TrailShape([]float32{0, 0.5, 1.5, 0.01})
	if peak != 1.5 {
		t.Errorf("peak = %v, want 1.5", peak)
	}
	if coverage != 0.5 {
		t.Errorf("coverage = %v, want 0.5", coverage)
	}
}

func TestCollectorFlush(t *testing.T) {
	c := NewCollector(1.0, 0.1)
	if c.WindowDurationTicks() != 10 {
		t.Fatalf("expected 10 ticks per window, got %d", c.WindowDurationTicks())
	}
	c.RecordAgentsAdded(12)
	c.RecordAgentsErased(5)
	c.RecordFoodPlaced()
	c.RecordStaleResolved()
	c.RecordParamRejected()

	if c.ShouldFlush(9) {
		t.Error("window should not flush before 10 ticks")
	}
	if !c.ShouldFlush(10) {
		t.Error("window should flush at 10 ticks")
	}

	stats := c.Flush(10, Sample{Agents: 7, Hunger: []float64{1, 1}, Trail: []float32{1, 0}, TrailMass: 1})
	if stats.AgentsAdded != 12 || stats.AgentsErased != 5 || stats.FoodPlaced != 1 ||
		stats.StaleResolved != 1 || stats.ParamRejected != 1 {
		t.Errorf("unexpected counters %+v", stats)
	}
	if stats.Agents != 7 || stats.HungerMean != 1 || stats.TrailMass != 1 {
		t.Errorf("unexpected sample fields %+v", stats)
	}
	if math.Abs(stats.SimTimeSec-1.0) > 1e-6 {
		t.Errorf("sim time = %v, want 1", stats.SimTimeSec)
	}

	next := c.Flush(20, Sample{})
	if next.AgentsAdded != 0 || next.WindowStartTick != 10 {
		t.Errorf("counters not reset: %+v", next)
	}
}
