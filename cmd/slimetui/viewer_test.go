package main

import (
	"testing"

	"github.com/gdamore/tcell/v2"

	"github.com/pthm-cable/slime/config"
	"github.com/pthm-cable/slime/sim"
)

func newTestViewer(t *testing.T) *Viewer {
	t.Helper()
	cfg, err := config.Load("")
	if err != nil {
		t.Fatalf("config.Load failed: %v", err)
	}
	cfg.Field.Width = 64
	cfg.Field.Height = 64
	cfg.Population.Initial = 0
	cfg.Brush.AgentDensity = 1

	s, err := sim.New(cfg, sim.Options{Seed: 3, Workers: 1})
	if err != nil {
		t.Fatalf("sim.New failed: %v", err)
	}
	t.Cleanup(s.Close)

	screen := tcell.NewSimulationScreen("UTF-8")
	if err := screen.Init(); err != nil {
		t.Fatalf("screen.Init failed: %v", err)
	}
	t.Cleanup(screen.Fini)
	screen.SetSize(64, 33)

	return NewViewer(screen, s, 1)
}

func TestViewerScale(t *testing.T) {
	v := newTestViewer(t)
	// 64 columns and 32 field rows of two samples each
	if v.scale != 1 {
		t.Fatalf("scale = %v, want 1", v.scale)
	}
	pos, ok := v.cellToField(10, 5)
	if !ok {
		t.Fatal("cell (10, 5) should map inside the field")
	}
	if pos.X != 10.5 || pos.Y != 11 {
		t.Errorf("cellToField(10, 5) = %+v, want (10.5, 11)", pos)
	}
	if _, ok := v.cellToField(10, 32); ok {
		t.Error("status row should not map to the field")
	}
}

func TestViewerDraw(t *testing.T) {
	v := newTestViewer(t)
	v.Draw()

	r, _, _, _ := v.screen.GetContent(0, 0)
	if r != '▀' {
		t.Errorf("field cell rune = %q, want half block", r)
	}
	r, _, _, _ = v.screen.GetContent(1, 32)
	if r != 't' {
		t.Errorf("status line starts with %q, want 't'", r)
	}
}

func TestViewerKeys(t *testing.T) {
	v := newTestViewer(t)

	v.handleKey(tcell.KeyRune, ' ')
	if !v.paused {
		t.Error("space should pause")
	}
	v.handleKey(tcell.KeyRune, '3')
	if v.mode != brushErase {
		t.Errorf("mode = %v, want erase", v.mode)
	}
	v.handleKey(tcell.KeyTab, 0)
	if v.species != 1 {
		t.Errorf("species = %d, want 1", v.species)
	}
	v.handleKey(tcell.KeyTab, 0)
	if v.species != 0 {
		t.Errorf("species should wrap to 0, got %d", v.species)
	}
	if v.handleKey(tcell.KeyRune, 'q') {
		t.Error("q should quit")
	}
}

func TestViewerMouseBrush(t *testing.T) {
	v := newTestViewer(t)

	v.handleMouse(32, 16, true)
	if v.sim.AgentCount() == 0 {
		t.Fatal("left click with agent brush added nothing")
	}

	v.handleMouse(32, 16, false)
	v.mode = brushFood
	v.handleMouse(5, 5, true)
	// Holding the button does not place another source.
	v.handleMouse(20, 5, true)
	if n := len(v.sim.FoodSources()); n != 1 {
		t.Errorf("food sources = %d, want 1", n)
	}

	v.handleMouse(0, 0, false)
	v.mode = brushErase
	v.handleMouse(32, 16, true)
	if n := v.sim.AgentCount(); n != 0 {
		t.Errorf("agents after erase = %d, want 0", n)
	}
}

func TestViewerPausedAppliesParameters(t *testing.T) {
	v := newTestViewer(t)
	v.paused = true
	if err := v.sim.SetGlobalParameter("decay_rate", 0.9); err != nil {
		t.Fatalf("SetGlobalParameter: %v", err)
	}
	v.Update()
	if got := v.sim.Globals().DecayRate; got != 0.9 {
		t.Errorf("decay rate = %v, want 0.9 applied while paused", got)
	}
	if v.sim.CurrentTick() != 0 {
		t.Errorf("paused update ticked to %d", v.sim.CurrentTick())
	}
}
