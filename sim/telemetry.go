package sim

import (
	"log/slog"

	"github.com/pthm-cable/slime/systems"
	"github.com/pthm-cable/slime/telemetry"
)

// flushTelemetry checks if the stats window should be flushed and handles bookmarks.
func (s *Simulation) flushTelemetry() {
	if !s.collector.ShouldFlush(s.tick) {
		return
	}

	stats := s.collector.Flush(s.tick, s.sample())
	perfStats := s.perf.Stats()

	if s.statsCallback != nil {
		s.statsCallback(stats)
	}

	if s.logStats {
		stats.LogStats()
		perfStats.LogStats()
	}

	if err := s.output.WriteTelemetry(stats); err != nil {
		slog.Error("failed to write telemetry", "error", err)
	}
	if err := s.output.WritePerf(perfStats, stats.WindowEndTick); err != nil {
		slog.Error("failed to write perf", "error", err)
	}

	for _, bm := range s.bookmarks.Check(stats) {
		if s.logStats {
			bm.LogBookmark()
		}
		if err := s.output.WriteBookmark(bm); err != nil {
			slog.Error("failed to write bookmark", "error", err)
		}
		if s.output != nil {
			s.saveBookmarkSnapshot(bm)
		}
	}
}

// sample captures the state summarized by a stats window.
func (s *Simulation) sample() telemetry.Sample {
	agents := s.device.Agents()
	hunger := make([]float64, len(agents))
	for i, a := range agents {
		hunger[i] = float64(a.Hunger)
	}

	sources := s.store.Food.Sources()
	exhausted := 0
	for _, src := range sources {
		if src.Amount <= 0 {
			exhausted++
		}
	}

	return telemetry.Sample{
		Agents:        len(agents),
		Hunger:        hunger,
		Trail:         s.grid.Trail(),
		TrailMass:     float64(systems.TrailMass(s.grid)),
		FoodSources:   len(sources),
		FoodExhausted: exhausted,
	}
}

func (s *Simulation) saveBookmarkSnapshot(bm telemetry.Bookmark) {
	snap, err := s.Snapshot()
	if err != nil {
		slog.Error("failed to capture snapshot", "error", err)
		return
	}
	snap.Bookmark = &bm
	path, err := s.output.WriteSnapshot(snap)
	if err != nil {
		slog.Error("failed to save snapshot", "error", err)
		return
	}
	slog.Info("snapshot saved", "path", path, "bookmark", string(bm.Type))
}
