package ui

import (
	"fmt"
	"time"

	rl "github.com/gen2brain/raylib-go/raylib"

	"github.com/pthm-cable/slime/telemetry"
)

// HUDData holds all the data needed to render the main HUD.
type HUDData struct {
	Title        string
	Agents       int
	FoodSources  int
	Tick         uint64
	SimsPerFrame int
	FPS          int32
	Paused       bool
	Brush        BrushMode
	FieldW       int
	FieldH       int
	CursorX      float32
	CursorY      float32
	CursorIn     bool
}

// HUD renders the main heads-up display.
type HUD struct {
	renderer *Renderer
	x, y     int32
}

// NewHUD creates a new HUD renderer anchored at (x, y).
func NewHUD(x, y int32) *HUD {
	return &HUD{
		renderer: NewRenderer(),
		x:        x,
		y:        y,
	}
}

// SetPosition updates the HUD anchor.
func (h *HUD) SetPosition(x, y int32) {
	h.x = x
	h.y = y
}

// Draw renders the HUD.
func (h *HUD) Draw(data HUDData) {
	x, y := h.x, h.y

	rl.DrawText(data.Title, x, y, 20, rl.White)
	y += 25

	rl.DrawText(
		fmt.Sprintf("Agents: %d | Food: %d | Field: %dx%d", data.Agents, data.FoodSources, data.FieldW, data.FieldH),
		x, y, 16, rl.LightGray,
	)
	y += 20

	rl.DrawText(
		fmt.Sprintf("Tick: %d | Steps/frame: %d | FPS: %d | Brush: %s", data.Tick, data.SimsPerFrame, data.FPS, data.Brush),
		x, y, 16, rl.LightGray,
	)
	y += 20

	if data.CursorIn {
		rl.DrawText(fmt.Sprintf("Cell: %d, %d", int(data.CursorX), int(data.CursorY)), x, y, 14, rl.Gray)
	}
	y += 18

	if data.Paused {
		rl.DrawText("PAUSED", x, y, 16, rl.Yellow)
	}
}

// DrawControls renders the control legend at the bottom of the screen.
func (h *HUD) DrawControls(screenHeight int32, controls string) {
	rl.DrawText(controls, h.x, screenHeight-25, 14, rl.Gray)
}

// PerfPanel renders per-phase tick timing.
type PerfPanel struct {
	renderer *Renderer
	x, y     int32
}

// NewPerfPanel creates a new performance panel.
func NewPerfPanel(x, y int32) *PerfPanel {
	return &PerfPanel{
		renderer: NewRenderer(),
		x:        x,
		y:        y,
	}
}

// SetPosition updates the panel position.
func (p *PerfPanel) SetPosition(x, y int32) {
	p.x = x
	p.y = y
}

// Draw renders the performance panel.
func (p *PerfPanel) Draw(stats telemetry.PerfStats) {
	x := p.x
	y := p.y

	rl.DrawText("Tick Performance", x, y, 16, rl.White)
	y += 20

	rl.DrawText(fmt.Sprintf("Avg: %s  (%.0f ticks/s)", stats.AvgTickDuration.Round(time.Microsecond), stats.TicksPerSecond), x, y, 14, rl.Yellow)
	y += 16

	for _, phase := range telemetry.Phases() {
		avg := stats.PhaseAvg[phase]
		pct := stats.PhasePct[phase]

		color := rl.LightGray
		if pct > 40 {
			color = rl.Red
		} else if pct > 20 {
			color = rl.Orange
		}

		rl.DrawText(
			fmt.Sprintf("%-10s %8s %5.1f%%", phase, avg.Round(time.Microsecond), pct),
			x, y, 12, color,
		)
		y += 14
	}
}
