// Frame dump tool - runs the simulation headless and writes composited frames
// to PNG files for inspection.
//
// Usage: go run ./cmd/framedump -snapshot run/snapshots/snapshot_3000.json -ticks 500 -every 100 -out frames
package main

import (
	"flag"
	"fmt"
	"os"
	"path/filepath"

	"github.com/pthm-cable/slime/config"
	"github.com/pthm-cable/slime/sim"
)

func main() {
	configPath := flag.String("config", "", "Path to config.yaml (empty = use defaults)")
	snapshot := flag.String("snapshot", "", "Snapshot to restore before running (empty = fresh population)")
	seed := flag.Int64("seed", 1, "RNG seed")
	ticks := flag.Int("ticks", 0, "Ticks to run after setup")
	every := flag.Int("every", 0, "Write a frame every N ticks (0 = only the final frame)")
	outDir := flag.String("out", ".", "Output directory for PNG frames")
	flag.Parse()

	if err := run(*configPath, *snapshot, *seed, *ticks, *every, *outDir); err != nil {
		fmt.Fprintf(os.Stderr, "%v\n", err)
		os.Exit(1)
	}
}

func run(configPath, snapshot string, seed int64, ticks, every int, outDir string) error {
	cfg, err := config.Load(configPath)
	if err != nil {
		return fmt.Errorf("loading config: %w", err)
	}
	s, err := sim.New(cfg, sim.Options{Seed: seed})
	if err != nil {
		return fmt.Errorf("creating simulation: %w", err)
	}
	defer s.Close()

	if snapshot != "" {
		if err := s.LoadSnapshot(snapshot); err != nil {
			return fmt.Errorf("loading snapshot: %w", err)
		}
	}
	if err := os.MkdirAll(outDir, 0o755); err != nil {
		return err
	}

	for done := 0; done < ticks; {
		n := ticks - done
		if every > 0 {
			n = min(n, every)
		}
		if err := s.Step(n); err != nil {
			return err
		}
		done += n
		if every > 0 && done < ticks {
			if err := dump(s, outDir); err != nil {
				return err
			}
		}
	}
	return dump(s, outDir)
}

// dump writes the current frame as frame_<tick>.png.
func dump(s *sim.Simulation, outDir string) error {
	data, err := s.ExportImage()
	if err != nil {
		return err
	}
	path := filepath.Join(outDir, fmt.Sprintf("frame_%06d.png", s.CurrentTick()))
	if err := os.WriteFile(path, data, 0o644); err != nil {
		return err
	}
	g := s.Grid()
	fmt.Printf("Frame written to: %s (%dx%d, %d agents)\n", path, g.Width(), g.Height(), s.AgentCount())
	return nil
}
