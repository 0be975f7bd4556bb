// Package ui draws the control panel and HUD of the graphical front end.
package ui

import rl "github.com/gen2brain/raylib-go/raylib"

// BrushMode selects what a click on the field does.
type BrushMode int32

const (
	BrushAgents BrushMode = iota // Add agents of the selected species
	BrushFood                    // Place a food source
	BrushErase                   // Erase agents, trail and food
)

// brushModeLabels is the raygui toggle-group text, one entry per mode.
const brushModeLabels = "Agents;Food;Erase"

// String returns the mode name.
func (m BrushMode) String() string {
	switch m {
	case BrushAgents:
		return "agents"
	case BrushFood:
		return "food"
	case BrushErase:
		return "erase"
	default:
		return "unknown"
	}
}

// Theme holds UI styling constants.
type Theme struct {
	PanelBg        rl.Color
	PanelBorder    rl.Color
	SectionHeader  rl.Color
	LabelColor     rl.Color
	ValueColor     rl.Color
	WarningColor   rl.Color
	Padding        int32
	LineHeight     int32
	LabelWidth     int32
	FontSize       int32
	HeaderFontSize int32
}

// DefaultTheme returns the default UI theme.
func DefaultTheme() Theme {
	return Theme{
		PanelBg:        rl.Color{R: 20, G: 25, B: 30, A: 240},
		PanelBorder:    rl.Color{R: 60, G: 70, B: 80, A: 255},
		SectionHeader:  rl.Yellow,
		LabelColor:     rl.LightGray,
		ValueColor:     rl.LightGray,
		WarningColor:   rl.Color{R: 230, G: 140, B: 60, A: 255},
		Padding:        10,
		LineHeight:     16,
		LabelWidth:     110,
		FontSize:       12,
		HeaderFontSize: 14,
	}
}
