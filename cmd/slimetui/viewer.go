package main

import (
	"fmt"
	"image"
	"log/slog"
	"os"
	"path/filepath"

	"github.com/gdamore/tcell/v2"

	"github.com/pthm-cable/slime/components"
	"github.com/pthm-cable/slime/sim"
)

// brush selects what a mouse click does.
type brush int

const (
	brushAgents brush = iota
	brushFood
	brushErase
)

func (b brush) String() string {
	switch b {
	case brushAgents:
		return "agents"
	case brushFood:
		return "food"
	case brushErase:
		return "erase"
	}
	return "unknown"
}

// Viewer draws the composited field into a terminal with half-block cells,
// two field samples per cell, and turns keys and clicks into edits.
type Viewer struct {
	screen tcell.Screen
	sim    *sim.Simulation

	width, height int // terminal size
	scale         float32

	paused       bool
	simsPerFrame int
	mode         brush
	species      uint8
	status       string
	exportDir    string

	// Previous left-button state, so food places once per click.
	buttonDown bool
}

// NewViewer binds a screen to a simulation. The screen must be initialized.
func NewViewer(screen tcell.Screen, s *sim.Simulation, simsPerFrame int) *Viewer {
	v := &Viewer{
		screen:       screen,
		sim:          s,
		simsPerFrame: max(simsPerFrame, 1),
		exportDir:    ".",
	}
	v.resize()
	return v
}

// resize recomputes the field-to-terminal scale. The bottom row holds the status line.
func (v *Viewer) resize() {
	v.width, v.height = v.screen.Size()
	rows := max(v.height-1, 1)
	cols := max(v.width, 1)
	g := v.sim.Grid()
	v.scale = max(float32(g.Width())/float32(cols), float32(g.Height())/float32(rows*2))
}

// cellToField maps a terminal cell to the field position at its centre.
func (v *Viewer) cellToField(cx, cy int) (components.Position, bool) {
	pos := components.Position{
		X: (float32(cx) + 0.5) * v.scale,
		Y: (float32(cy*2) + 1) * v.scale,
	}
	g := v.sim.Grid()
	ok := cy < v.height-1 && pos.X >= 0 && pos.Y >= 0 &&
		pos.X < float32(g.Width()) && pos.Y < float32(g.Height())
	return pos, ok
}

// Update advances the simulation by one frame unless paused.
func (v *Viewer) Update() {
	if v.paused {
		v.sim.ApplyPending()
		return
	}
	if err := v.sim.Step(v.simsPerFrame); err != nil {
		slog.Error("tick failed", "tick", v.sim.CurrentTick(), "error", err)
		v.paused = true
		v.status = err.Error()
	}
}

// Draw renders the field and status line.
func (v *Viewer) Draw() {
	frame := v.sim.RenderFrame()
	v.screen.Clear()

	rows := v.height - 1
	for cy := 0; cy < rows; cy++ {
		for cx := 0; cx < v.width; cx++ {
			top, okTop := sample(frame, float32(cx)*v.scale, float32(cy*2)*v.scale)
			bottom, okBottom := sample(frame, float32(cx)*v.scale, float32(cy*2+1)*v.scale)
			if !okTop && !okBottom {
				continue
			}
			style := tcell.StyleDefault.Foreground(top).Background(bottom)
			v.screen.SetContent(cx, cy, '▀', nil, style)
		}
	}

	v.drawStatus()
	v.screen.Show()
}

func (v *Viewer) drawStatus() {
	state := "running"
	if v.paused {
		state = "paused"
	}
	line := fmt.Sprintf(" tick %d | agents %d | food %d | %s | brush %s | species %d | x%d ",
		v.sim.CurrentTick(), v.sim.AgentCount(), len(v.sim.FoodSources()), state, v.mode, v.species, v.simsPerFrame)
	if v.status != "" {
		line += "| " + v.status
	}
	style := tcell.StyleDefault.Reverse(true)
	y := v.height - 1
	for x := 0; x < v.width; x++ {
		r := ' '
		if x < len(line) {
			r = rune(line[x])
		}
		v.screen.SetContent(x, y, r, nil, style)
	}
}

// sample returns the frame colour at a field position.
func sample(frame *image.RGBA, fx, fy float32) (tcell.Color, bool) {
	x, y := int(fx), int(fy)
	if !(image.Point{X: x, Y: y}.In(frame.Rect)) {
		return tcell.ColorBlack, false
	}
	c := frame.RGBAAt(x, y)
	return tcell.NewRGBColor(int32(c.R), int32(c.G), int32(c.B)), true
}

// HandleEvent applies one terminal event. It returns false when the viewer should quit.
func (v *Viewer) HandleEvent(ev tcell.Event) bool {
	switch ev := ev.(type) {
	case *tcell.EventKey:
		return v.handleKey(ev.Key(), ev.Rune())
	case *tcell.EventMouse:
		cx, cy := ev.Position()
		v.handleMouse(cx, cy, ev.Buttons()&tcell.Button1 != 0)
	case *tcell.EventResize:
		v.resize()
		v.screen.Sync()
	}
	return true
}

func (v *Viewer) handleKey(key tcell.Key, r rune) bool {
	switch key {
	case tcell.KeyEscape, tcell.KeyCtrlC:
		return false
	case tcell.KeyTab:
		n := len(v.sim.Species())
		v.species = uint8((int(v.species) + 1) % n)
		return true
	case tcell.KeyRune:
	default:
		return true
	}

	switch r {
	case 'q':
		return false
	case ' ':
		v.paused = !v.paused
	case 'n':
		if v.paused {
			if err := v.sim.Step(1); err != nil {
				v.status = err.Error()
			}
		}
	case '1':
		v.mode = brushAgents
	case '2':
		v.mode = brushFood
	case '3':
		v.mode = brushErase
	case '+', '=':
		v.simsPerFrame = min(v.simsPerFrame+1, 16)
	case '-':
		v.simsPerFrame = max(v.simsPerFrame-1, 1)
	case 'c':
		if err := v.sim.ClearAll(); err != nil {
			v.status = err.Error()
		}
	case 'f':
		v.sim.ClearFood()
	case 'e':
		v.export()
	}
	return true
}

// handleMouse applies the brush at a terminal cell while the left button is down.
func (v *Viewer) handleMouse(cx, cy int, down bool) {
	pressed := down && !v.buttonDown
	v.buttonDown = down
	if !down {
		return
	}
	if v.mode == brushFood && !pressed {
		return
	}

	pos, ok := v.cellToField(cx, cy)
	if !ok {
		return
	}
	if err := v.apply(pos); err != nil {
		v.status = err.Error()
	}
}

// apply performs the current brush at a field position. Radii are scaled so
// a brush covers a similar number of terminal cells at any field size.
func (v *Viewer) apply(pos components.Position) error {
	glob := v.sim.Globals()
	switch v.mode {
	case brushAgents:
		_, err := v.sim.AddAgentsInDisk(pos, max(glob.AgentRadius, v.scale), glob.AgentDensity, v.species)
		return err
	case brushFood:
		return v.sim.AddFoodSource(pos, 0, 0)
	case brushErase:
		_, err := v.sim.EraseInDisk(pos, max(glob.EraseRadius, v.scale), sim.TargetAll)
		return err
	}
	return nil
}

func (v *Viewer) export() {
	data, err := v.sim.ExportImage()
	if err != nil {
		v.status = err.Error()
		return
	}
	path := filepath.Join(v.exportDir, fmt.Sprintf("frame_%06d.png", v.sim.CurrentTick()))
	if err := os.WriteFile(path, data, 0o644); err != nil {
		v.status = err.Error()
		return
	}
	v.status = "saved " + path
}
