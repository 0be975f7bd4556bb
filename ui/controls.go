package ui

import (
	"fmt"
	"log/slog"
	"strconv"

	gui "github.com/gen2brain/raylib-go/raygui"
	rl "github.com/gen2brain/raylib-go/raylib"

	"github.com/pthm-cable/slime/components"
	"github.com/pthm-cable/slime/sim"
)

// Controller is the part of the simulation the panel reads and edits.
type Controller interface {
	Species() components.SpeciesTable
	GlobalParameter(name string) (float64, error)
	SetGlobalParameter(name string, value float64) error
	SpeciesParameter(id uint8, name string) (float64, error)
	SetSpeciesParameterText(id uint8, name, text string) (*sim.PrecisionWarning, error)
	SetSpeciesCoupling(id uint8, coupling string) error
}

// Actions are one-shot requests raised by panel buttons in a frame.
type Actions struct {
	TogglePause  bool
	Step         bool
	ClearAll     bool
	ClearFood    bool
	ExportImage  bool
	SaveSnapshot bool
	ResetView    bool
}

// slider describes a global parameter bound to a slider.
type slider struct {
	param    string
	label    string
	min, max float32
}

var globalSliders = []slider{
	{"decay_rate", "Decay", 0, 5},
	{"diffuse_rate", "Diffuse", 0, 20},
	{"sense_weight", "Trail weight", 0, 4},
	{"attraction_weight", "Food weight", 0, 8},
	{"agent_radius", "Agent brush", 1, 64},
	{"agent_density", "Density", 0, 1},
	{"erase_radius", "Erase brush", 1, 64},
	{"food_brush_radius", "Food radius", 1, 32},
}

// warningFrames is how long a rejected input message stays on screen.
const warningFrames = 180

// ControlPanel renders the left-side control panel.
type ControlPanel struct {
	renderer *Renderer
	x, y     int32
	width    int32
	height   int32

	mode    BrushMode
	species uint8

	// Text box being edited, if any
	editing  string
	editText string

	warning       string
	warningFrames int
}

// NewControlPanel creates a new control panel.
func NewControlPanel(x, y, width, height int32) *ControlPanel {
	return &ControlPanel{
		renderer: NewRenderer(),
		x:        x,
		y:        y,
		width:    width,
		height:   height,
	}
}

// Mode returns the selected brush mode.
func (c *ControlPanel) Mode() BrushMode { return c.mode }

// SetMode selects a brush mode.
func (c *ControlPanel) SetMode(m BrushMode) { c.mode = m }

// SpeciesID returns the species new agents are added as.
func (c *ControlPanel) SpeciesID() uint8 { return c.species }

// CycleSpecies moves the species selection by delta, wrapping around n species.
func (c *ControlPanel) CycleSpecies(delta, n int) {
	c.species = cycle(c.species, delta, n)
}

// Editing reports whether a text box has keyboard focus.
func (c *ControlPanel) Editing() bool { return c.editing != "" }

// SetHeight updates the panel height after a window resize.
func (c *ControlPanel) SetHeight(h int32) { c.height = h }

// Warn shows a transient message at the bottom of the panel.
func (c *ControlPanel) Warn(msg string) {
	c.warning = msg
	c.warningFrames = warningFrames
}

// Draw renders the panel, applies parameter edits to ctrl, and returns the
// button actions raised this frame.
func (c *ControlPanel) Draw(ctrl Controller, paused bool) Actions {
	var act Actions
	r := c.renderer
	pad := r.Theme.Padding
	x := float32(c.x + pad)
	w := float32(c.width - pad*2)

	r.DrawPanel(c.x, c.y, c.width, c.height)
	y := c.y + pad

	// Simulation
	y = r.DrawSectionHeader(c.x+pad, y, "Simulation")
	half := (w - 6) / 2
	if gui.Button(rl.Rectangle{X: x, Y: float32(y), Width: half, Height: 24}, toggleText(paused, "Play", "Pause")) {
		act.TogglePause = true
	}
	if gui.Button(rl.Rectangle{X: x + half + 6, Y: float32(y), Width: half, Height: 24}, "Step") {
		act.Step = true
	}
	y += 30
	if gui.Button(rl.Rectangle{X: x, Y: float32(y), Width: half, Height: 24}, "Clear all") {
		act.ClearAll = true
	}
	if gui.Button(rl.Rectangle{X: x + half + 6, Y: float32(y), Width: half, Height: 24}, "Clear food") {
		act.ClearFood = true
	}
	y += 30
	if gui.Button(rl.Rectangle{X: x, Y: float32(y), Width: half, Height: 24}, "Export PNG") {
		act.ExportImage = true
	}
	if gui.Button(rl.Rectangle{X: x + half + 6, Y: float32(y), Width: half, Height: 24}, "Snapshot") {
		act.SaveSnapshot = true
	}
	y += 36

	// Brush
	y = r.DrawSectionHeader(c.x+pad, y, "Brush")
	third := (w - 4) / 3
	c.mode = BrushMode(gui.ToggleGroup(rl.Rectangle{X: x, Y: float32(y), Width: third, Height: 24}, brushModeLabels, int32(c.mode)))
	y += 32

	for _, s := range globalSliders {
		y = c.drawSlider(ctrl, s, x, y, w)
	}

	on, _ := ctrl.GlobalParameter("depletion_enabled")
	checked := gui.CheckBox(rl.Rectangle{X: x, Y: float32(y), Width: 14, Height: 14}, "Food depletes", on != 0)
	if checked != (on != 0) {
		c.setGlobal(ctrl, "depletion_enabled", boolValue(checked))
	}
	y += 26

	// Species
	y = r.DrawSectionHeader(c.x+pad, y, "Species")
	species := ctrl.Species()
	if len(species) > 0 {
		if int(c.species) >= len(species) {
			c.species = 0
		}
		if gui.Button(rl.Rectangle{X: x, Y: float32(y), Width: 24, Height: 20}, "<") {
			c.CycleSpecies(-1, len(species))
		}
		if gui.Button(rl.Rectangle{X: x + w - 24, Y: float32(y), Width: 24, Height: 20}, ">") {
			c.CycleSpecies(1, len(species))
		}
		sp := species[c.species]
		r.DrawColorSwatch(int32(x)+32, y+3, sp.Name, sp.Color)
		y += 28

		r.DrawLabelValue(int32(x), y+4, "coupling", sp.Coupling)
		if gui.Button(rl.Rectangle{X: x + w - 24, Y: float32(y), Width: 24, Height: 20}, ">") {
			next := nextCoupling(sp.Coupling, components.HungerCouplingNames())
			if err := ctrl.SetSpeciesCoupling(c.species, next); err != nil {
				slog.Error("species coupling", "coupling", next, "error", err)
			}
		}
		y += 24

		for _, name := range sim.SpeciesParameterNames() {
			y = c.drawSpeciesField(ctrl, name, x, y, w)
		}
	}

	if c.warningFrames > 0 {
		c.warningFrames--
		rl.DrawText(c.warning, c.x+pad, c.y+c.height-pad-r.Theme.FontSize, r.Theme.FontSize, r.Theme.WarningColor)
	}

	return act
}

func (c *ControlPanel) drawSlider(ctrl Controller, s slider, x float32, y int32, w float32) int32 {
	r := c.renderer
	cur, err := ctrl.GlobalParameter(s.param)
	if err != nil {
		return y
	}
	r.DrawLabel(int32(x), y, s.label)
	rl.DrawText(formatParam(cur), int32(x+w-40), y, r.Theme.FontSize, r.Theme.ValueColor)
	y += 14
	v := gui.SliderBar(rl.Rectangle{X: x, Y: float32(y), Width: w, Height: 14}, "", "", float32(cur), s.min, s.max)
	if v != float32(cur) {
		c.setGlobal(ctrl, s.param, float64(v))
	}
	return y + 22
}

func (c *ControlPanel) drawSpeciesField(ctrl Controller, name string, x float32, y int32, w float32) int32 {
	r := c.renderer
	cur, err := ctrl.SpeciesParameter(c.species, name)
	if err != nil {
		return y
	}
	r.DrawLabel(int32(x), y+4, name)

	editing := c.editing == name
	text := formatParam(cur)
	if editing {
		text = c.editText
	}
	box := rl.Rectangle{X: x + float32(r.Theme.LabelWidth), Y: float32(y), Width: w - float32(r.Theme.LabelWidth), Height: 20}
	if gui.TextBox(box, &text, 16, editing) {
		if editing {
			c.commitSpeciesField(ctrl, name, text)
		} else {
			c.editing = name
			text = formatParam(cur)
		}
	}
	if c.editing == name {
		c.editText = text
	}
	return y + 24
}

// commitSpeciesField submits edited text. Rejected text keeps the old value.
func (c *ControlPanel) commitSpeciesField(ctrl Controller, name, text string) {
	c.editing = ""
	c.editText = ""
	warn, err := ctrl.SetSpeciesParameterText(c.species, name, text)
	switch {
	case err != nil:
		slog.Error("species parameter", "param", name, "error", err)
	case warn != nil:
		c.Warn(fmt.Sprintf("%s: %q ignored", name, text))
	}
}

func (c *ControlPanel) setGlobal(ctrl Controller, name string, v float64) {
	if err := ctrl.SetGlobalParameter(name, v); err != nil {
		slog.Error("global parameter", "param", name, "error", err)
	}
}

// cycle steps id by delta within [0, n).
func cycle(id uint8, delta, n int) uint8 {
	if n <= 0 {
		return 0
	}
	v := (int(id) + delta) % n
	if v < 0 {
		v += n
	}
	return uint8(v)
}

// nextCoupling returns the name after cur in names, wrapping around.
func nextCoupling(cur string, names []string) string {
	if len(names) == 0 {
		return cur
	}
	for i, n := range names {
		if n == cur {
			return names[(i+1)%len(names)]
		}
	}
	return names[0]
}

// formatParam renders a parameter value compactly for display and editing.
func formatParam(v float64) string {
	return strconv.FormatFloat(float64(float32(v)), 'g', 5, 32)
}

func boolValue(b bool) float64 {
	if b {
		return 1
	}
	return 0
}

func toggleText(state bool, on, off string) string {
	if state {
		return on
	}
	return off
}
