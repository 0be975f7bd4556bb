package game

import (
	"fmt"

	rl "github.com/gen2brain/raylib-go/raylib"

	"github.com/pthm-cable/slime/ui"
)

const controlsLegend = "[LMB] Brush  [RMB] Pan  [Wheel] Zoom  [1-3] Mode  [Tab] Species  [Space] Pause  [N] Step  [</>] Speed  [P] Perf  [C] Clear  [F12] Export"

var (
	backgroundColor = rl.Color{R: 12, G: 12, B: 16, A: 255}
	foodMarkerColor = rl.Color{R: 120, G: 220, B: 120, A: 200}
)

// brushColors outlines the cursor per brush mode.
var brushColors = map[ui.BrushMode]rl.Color{
	ui.BrushAgents: {R: 240, G: 240, B: 240, A: 200},
	ui.BrushFood:   {R: 120, G: 220, B: 120, A: 200},
	ui.BrushErase:  {R: 230, G: 90, B: 90, A: 200},
}

// Draw renders the field and the UI, then handles panel actions.
func (g *Game) Draw() {
	g.sim.Perf().RecordFrame()

	frame := g.sim.RenderFrame()
	g.viewport.Upload(frame)

	rl.BeginDrawing()
	rl.ClearBackground(backgroundColor)

	g.viewport.Draw(g.camera)
	g.drawFoodMarkers()
	if g.cursorIn {
		mode := g.panel.Mode()
		g.viewport.DrawBrush(g.camera, g.cursorX, g.cursorY, g.brushRadius(mode), brushColors[mode])
	}

	grid := g.sim.Grid()
	g.hud.Draw(ui.HUDData{
		Title:        "Slime",
		Agents:       g.sim.AgentCount(),
		FoodSources:  len(g.sim.FoodSources()),
		Tick:         g.sim.CurrentTick(),
		SimsPerFrame: g.simsPerFrame,
		FPS:          rl.GetFPS(),
		Paused:       g.paused,
		Brush:        g.panel.Mode(),
		FieldW:       grid.Width(),
		FieldH:       grid.Height(),
		CursorX:      g.cursorX,
		CursorY:      g.cursorY,
		CursorIn:     g.cursorIn,
	})
	g.hud.DrawControls(int32(g.screenHeight), controlsLegend)

	if g.showPerf {
		g.perf.Draw(g.sim.Perf().Stats())
	}

	act := g.panel.Draw(g.sim, g.paused)

	rl.EndDrawing()

	g.handleActions(act)
}

func (g *Game) drawFoodMarkers() {
	sources := g.sim.FoodSources()
	if len(sources) == 0 {
		return
	}
	xs := make([]float32, len(sources))
	ys := make([]float32, len(sources))
	for i, src := range sources {
		xs[i] = src.Pos.X
		ys[i] = src.Pos.Y
	}
	g.viewport.DrawFoodMarkers(g.camera, xs, ys, foodMarkerColor)
}

// handleActions runs the panel's button requests after the frame is drawn.
func (g *Game) handleActions(act ui.Actions) {
	if act.TogglePause {
		g.paused = !g.paused
	}
	if act.Step && g.paused {
		g.step()
	}
	if act.ClearAll {
		g.clearAll()
	}
	if act.ClearFood {
		g.sim.ClearFood()
	}
	if act.ExportImage {
		g.exportImage()
	}
	if act.SaveSnapshot {
		g.saveSnapshot()
	}
	if act.ResetView {
		g.camera.Reset()
	}
}

// Title returns a window title for the configured field.
func Title(w, h int) string {
	return fmt.Sprintf("Slime (%dx%d)", w, h)
}
