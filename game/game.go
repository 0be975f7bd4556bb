// Package game wires the simulation to the raylib front end: it owns the
// window-side state (camera, viewport texture, panels) and turns input into
// brush edits and parameter changes.
package game

import (
	"fmt"
	"log/slog"
	"os"
	"path/filepath"

	rl "github.com/gen2brain/raylib-go/raylib"

	"github.com/pthm-cable/slime/camera"
	"github.com/pthm-cable/slime/config"
	"github.com/pthm-cable/slime/renderer"
	"github.com/pthm-cable/slime/sim"
	"github.com/pthm-cable/slime/ui"
)

// Options configures a game instance.
type Options struct {
	Sim          sim.Options
	Headless     bool   // skip all raylib state
	SimsPerFrame int    // ticks per Update (0 = config value)
	SnapshotDir  string // where snapshots and exported images go (empty = output dir or cwd)
}

// maxSimsPerFrame bounds the speed-up keys.
const maxSimsPerFrame = 16

// Game holds the simulation and the front-end state around it.
type Game struct {
	cfg *config.Config
	sim *sim.Simulation

	// Rendering (nil in headless mode)
	camera   *camera.Camera
	viewport *renderer.ViewportRenderer
	panel    *ui.ControlPanel
	hud      *ui.HUD
	perf     *ui.PerfPanel

	paused       bool
	showPerf     bool
	simsPerFrame int
	snapshotDir  string
	headless     bool

	// Cursor in field coordinates, valid when cursorIn
	cursorX, cursorY float32
	cursorIn         bool

	screenWidth, screenHeight float32
}

// NewGame creates a game from cfg.
func NewGame(cfg *config.Config, opts Options) (*Game, error) {
	s, err := sim.New(cfg, opts.Sim)
	if err != nil {
		return nil, err
	}

	g := &Game{
		cfg:          cfg,
		sim:          s,
		simsPerFrame: cfg.Sim.SimsPerFrame,
		snapshotDir:  opts.SnapshotDir,
		headless:     opts.Headless,
	}
	if opts.SimsPerFrame > 0 {
		g.simsPerFrame = opts.SimsPerFrame
	}
	if g.simsPerFrame < 1 {
		g.simsPerFrame = 1
	}
	if g.snapshotDir == "" {
		g.snapshotDir = opts.Sim.OutputDir
	}
	if g.snapshotDir == "" {
		g.snapshotDir = "."
	}

	if !g.headless {
		g.screenWidth = float32(rl.GetScreenWidth())
		g.screenHeight = float32(rl.GetScreenHeight())
		panelW := float32(cfg.Screen.PanelW)
		grid := s.Grid()
		g.camera = camera.New(panelW, 0, g.screenWidth-panelW, g.screenHeight, float32(grid.Width()), float32(grid.Height()))
		g.viewport = renderer.NewViewportRenderer()
		g.panel = ui.NewControlPanel(0, 0, int32(panelW), int32(g.screenHeight))
		g.hud = ui.NewHUD(int32(panelW)+10, 10)
		g.perf = ui.NewPerfPanel(int32(g.screenWidth)-260, 10)
	}

	return g, nil
}

// Unload releases GPU resources and closes output files.
func (g *Game) Unload() {
	if g.viewport != nil {
		g.viewport.Unload()
	}
	g.sim.Close()
}

// Sim returns the underlying simulation.
func (g *Game) Sim() *sim.Simulation { return g.sim }

// Tick returns the number of completed simulation ticks.
func (g *Game) Tick() uint64 { return g.sim.CurrentTick() }

// Paused reports whether stepping is suspended.
func (g *Game) Paused() bool { return g.paused }

// UpdateHeadless advances the simulation without any raylib calls.
func (g *Game) UpdateHeadless() error {
	return g.sim.Step(g.simsPerFrame)
}

// Update handles input and advances the simulation by one frame.
func (g *Game) Update() {
	g.handleInput()

	if g.paused {
		// Edits made while paused still need to show up.
		g.sim.ApplyPending()
		return
	}
	if err := g.sim.Step(g.simsPerFrame); err != nil {
		slog.Error("tick failed", "tick", g.sim.CurrentTick(), "error", err)
		g.paused = true
		g.panel.Warn(err.Error())
	}
}

// step runs a single tick while paused.
func (g *Game) step() {
	if err := g.sim.Tick(g.cfg.Derived.DT32); err != nil {
		slog.Error("tick failed", "tick", g.sim.CurrentTick(), "error", err)
		g.panel.Warn(err.Error())
	}
}

// exportImage writes the current frame as a PNG into the snapshot directory.
func (g *Game) exportImage() {
	data, err := g.sim.ExportImage()
	if err != nil {
		slog.Error("export failed", "error", err)
		g.panel.Warn("export failed")
		return
	}
	if err := os.MkdirAll(g.snapshotDir, 0o755); err != nil {
		slog.Error("export failed", "error", err)
		return
	}
	path := filepath.Join(g.snapshotDir, fmt.Sprintf("frame_%06d.png", g.sim.CurrentTick()))
	if err := os.WriteFile(path, data, 0o644); err != nil {
		slog.Error("export failed", "path", path, "error", err)
		g.panel.Warn("export failed")
		return
	}
	slog.Info("exported image", "path", path, "bytes", len(data))
	g.panel.Warn("saved " + filepath.Base(path))
}

// saveSnapshot writes the full simulation state into the snapshot directory.
func (g *Game) saveSnapshot() {
	path, err := g.sim.SaveSnapshot(g.snapshotDir)
	if err != nil {
		slog.Error("snapshot failed", "error", err)
		g.panel.Warn("snapshot failed")
		return
	}
	slog.Info("saved snapshot", "path", path)
	g.panel.Warn("saved " + filepath.Base(path))
}
