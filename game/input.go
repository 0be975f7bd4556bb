package game

import (
	rl "github.com/gen2brain/raylib-go/raylib"

	"github.com/pthm-cable/slime/components"
	"github.com/pthm-cable/slime/sim"
	"github.com/pthm-cable/slime/ui"
)

// handleInput processes keyboard and mouse input.
func (g *Game) handleInput() {
	g.handleResize()

	// Keyboard shortcuts are off while a panel text box has focus.
	if !g.panel.Editing() {
		g.handleKeys()
	}

	g.handleCameraInput()
	g.handleBrushInput()
}

func (g *Game) handleKeys() {
	if rl.IsKeyPressed(rl.KeyF11) {
		rl.ToggleFullscreen()
	}
	if rl.IsKeyPressed(rl.KeySpace) {
		g.paused = !g.paused
	}
	if rl.IsKeyPressed(rl.KeyN) && g.paused {
		g.step()
	}

	// Steps per frame with < > keys (comma and period)
	if rl.IsKeyPressed(rl.KeyComma) && g.simsPerFrame > 1 {
		g.simsPerFrame--
	}
	if rl.IsKeyPressed(rl.KeyPeriod) && g.simsPerFrame < maxSimsPerFrame {
		g.simsPerFrame++
	}

	// Brush mode and species selection
	if rl.IsKeyPressed(rl.KeyOne) {
		g.panel.SetMode(ui.BrushAgents)
	}
	if rl.IsKeyPressed(rl.KeyTwo) {
		g.panel.SetMode(ui.BrushFood)
	}
	if rl.IsKeyPressed(rl.KeyThree) {
		g.panel.SetMode(ui.BrushErase)
	}
	if rl.IsKeyPressed(rl.KeyTab) {
		g.panel.CycleSpecies(1, len(g.sim.Species()))
	}

	if rl.IsKeyPressed(rl.KeyP) {
		g.showPerf = !g.showPerf
	}
	if rl.IsKeyPressed(rl.KeyC) {
		g.clearAll()
	}
	if rl.IsKeyPressed(rl.KeyF12) {
		g.exportImage()
	}
}

// handleResize checks for window resize and propagates new dimensions.
func (g *Game) handleResize() {
	if !rl.IsWindowResized() {
		return
	}
	w := float32(rl.GetScreenWidth())
	h := float32(rl.GetScreenHeight())
	if w == g.screenWidth && h == g.screenHeight {
		return
	}
	g.screenWidth = w
	g.screenHeight = h

	panelW := float32(g.cfg.Screen.PanelW)
	g.camera.SetViewport(panelW, 0, w-panelW, h)
	g.panel.SetHeight(int32(h))
	g.perf.SetPosition(int32(w)-260, 10)
}

// handleCameraInput processes camera pan/zoom controls.
func (g *Game) handleCameraInput() {
	// Pan speed in screen pixels per frame
	const panSpeed = 8.0

	if !g.panel.Editing() {
		if rl.IsKeyDown(rl.KeyRight) {
			g.camera.Pan(panSpeed, 0)
		}
		if rl.IsKeyDown(rl.KeyLeft) {
			g.camera.Pan(-panSpeed, 0)
		}
		if rl.IsKeyDown(rl.KeyDown) {
			g.camera.Pan(0, panSpeed)
		}
		if rl.IsKeyDown(rl.KeyUp) {
			g.camera.Pan(0, -panSpeed)
		}
		if rl.IsKeyPressed(rl.KeyHome) {
			g.camera.Reset()
		}
	}

	mouse := rl.GetMousePosition()
	if !g.camera.InViewport(mouse.X, mouse.Y) {
		return
	}

	// Zoom toward the cursor
	if wheel := rl.GetMouseWheelMove(); wheel != 0 {
		g.camera.ZoomAt(mouse.X, mouse.Y, 1+wheel*0.1)
	}

	// Right-drag pans
	if rl.IsMouseButtonDown(rl.MouseButtonRight) {
		d := rl.GetMouseDelta()
		g.camera.Pan(-d.X, -d.Y)
	}
}

// handleBrushInput tracks the cursor and applies the active brush on click.
// Agent and erase brushes paint while held; food places once per click.
func (g *Game) handleBrushInput() {
	mouse := rl.GetMousePosition()
	g.cursorX, g.cursorY, g.cursorIn = g.camera.ScreenToField(mouse.X, mouse.Y)
	if !g.cursorIn {
		return
	}

	mode := g.panel.Mode()
	paint := rl.IsMouseButtonDown(rl.MouseButtonLeft)
	if mode == ui.BrushFood {
		paint = rl.IsMouseButtonPressed(rl.MouseButtonLeft)
	}
	if !paint {
		return
	}
	if err := g.applyBrush(mode, g.panel.SpeciesID(), g.cursorX, g.cursorY); err != nil {
		g.panel.Warn(err.Error())
	}
}

// applyBrush performs one brush edit at a field position using the live
// brush parameters.
func (g *Game) applyBrush(mode ui.BrushMode, speciesID uint8, fx, fy float32) error {
	glob := g.sim.Globals()
	pos := components.Position{X: fx, Y: fy}

	switch mode {
	case ui.BrushAgents:
		_, err := g.sim.AddAgentsInDisk(pos, glob.AgentRadius, glob.AgentDensity, speciesID)
		return err
	case ui.BrushFood:
		return g.sim.AddFoodSource(pos, 0, 0)
	case ui.BrushErase:
		_, err := g.sim.EraseInDisk(pos, glob.EraseRadius, sim.TargetAll)
		return err
	}
	return nil
}

// brushRadius is the outline radius drawn for the active brush.
func (g *Game) brushRadius(mode ui.BrushMode) float32 {
	glob := g.sim.Globals()
	switch mode {
	case ui.BrushFood:
		return float32(glob.FoodBrushRadius)
	case ui.BrushErase:
		return glob.EraseRadius
	default:
		return glob.AgentRadius
	}
}

func (g *Game) clearAll() {
	if err := g.sim.ClearAll(); err != nil {
		g.panel.Warn(err.Error())
	}
}
