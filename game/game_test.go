package game

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/pthm-cable/slime/config"
	"github.com/pthm-cable/slime/sim"
	"github.com/pthm-cable/slime/ui"
)

func init() {
	config.MustInit("")
}

func newHeadless(t *testing.T) *Game {
	t.Helper()
	cfg, err := config.Load("")
	if err != nil {
		t.Fatalf("config.Load failed: %v", err)
	}
	cfg.Field.Width = 64
	cfg.Field.Height = 64
	cfg.Population.Initial = 0
	cfg.Brush.AgentDensity = 1
	cfg.Brush.AgentRadius = 3

	g, err := NewGame(cfg, Options{Headless: true, Sim: sim.Options{Seed: 7, Workers: 2}})
	if err != nil {
		t.Fatalf("NewGame failed: %v", err)
	}
	t.Cleanup(g.Unload)
	return g
}

func TestApplyBrush(t *testing.T) {
	g := newHeadless(t)

	if err := g.applyBrush(ui.BrushAgents, 1, 32, 32); err != nil {
		t.Fatalf("agents brush: %v", err)
	}
	if n := g.Sim().AgentCount(); n == 0 {
		t.Fatal("agent brush at full density added nothing")
	}

	if err := g.applyBrush(ui.BrushFood, 0, 20.2, 20.7); err != nil {
		t.Fatalf("food brush: %v", err)
	}
	if n := len(g.Sim().FoodSources()); n != 1 {
		t.Fatalf("food sources = %d, want 1", n)
	}

	// Default erase radius covers both edits.
	if err := g.applyBrush(ui.BrushErase, 0, 26, 26); err != nil {
		t.Fatalf("erase brush: %v", err)
	}
	if n := g.Sim().AgentCount(); n != 0 {
		t.Errorf("agents after erase = %d, want 0", n)
	}
	if n := len(g.Sim().FoodSources()); n != 0 {
		t.Errorf("food sources after erase = %d, want 0", n)
	}
}

func TestApplyBrushInvalidSpecies(t *testing.T) {
	g := newHeadless(t)
	if err := g.applyBrush(ui.BrushAgents, 9, 32, 32); err == nil {
		t.Fatal("expected error for unknown species")
	}
}

func TestApplyBrushOutsideField(t *testing.T) {
	g := newHeadless(t)
	if err := g.applyBrush(ui.BrushFood, 0, -3, 10); err == nil {
		t.Fatal("expected error for food outside the field")
	}
}

func TestUpdateHeadless(t *testing.T) {
	g := newHeadless(t)
	if err := g.applyBrush(ui.BrushAgents, 0, 32, 32); err != nil {
		t.Fatalf("agents brush: %v", err)
	}
	for i := 0; i < 5; i++ {
		if err := g.UpdateHeadless(); err != nil {
			t.Fatalf("UpdateHeadless: %v", err)
		}
	}
	want := uint64(5 * g.simsPerFrame)
	if g.Tick() != want {
		t.Errorf("tick = %d, want %d", g.Tick(), want)
	}
}

func TestSaveSnapshotDefaultsToOutputDir(t *testing.T) {
	dir := t.TempDir()
	cfg, err := config.Load("")
	if err != nil {
		t.Fatalf("config.Load failed: %v", err)
	}
	cfg.Field.Width = 32
	cfg.Field.Height = 32
	cfg.Population.Initial = 0

	g, err := NewGame(cfg, Options{Headless: true, Sim: sim.Options{Seed: 1, OutputDir: dir}})
	if err != nil {
		t.Fatalf("NewGame failed: %v", err)
	}
	defer g.Unload()

	if g.snapshotDir != dir {
		t.Fatalf("snapshotDir = %q, want %q", g.snapshotDir, dir)
	}
	path, err := g.Sim().SaveSnapshot(g.snapshotDir)
	if err != nil {
		t.Fatalf("SaveSnapshot: %v", err)
	}
	if filepath.Dir(path) != dir {
		t.Errorf("snapshot written to %s, want under %s", path, dir)
	}
	if _, err := os.Stat(path); err != nil {
		t.Errorf("snapshot missing: %v", err)
	}
}
