package sim

import (
	"bytes"
	"fmt"
	"image"
	"image/png"

	"github.com/pthm-cable/slime/systems"
	"github.com/pthm-cable/slime/telemetry"
)

// Palette returns the compositor inputs for the current state.
func (s *Simulation) Palette() systems.Palette {
	counts := make([]int, len(s.species))
	for _, a := range s.device.Agents() {
		if int(a.SpeciesID) < len(counts) {
			counts[a.SpeciesID]++
		}
	}
	return systems.Palette{
		Trail:      systems.BlendSpecies(s.species, counts),
		Food:       s.cfg.Derived.FoodColor,
		DisplayMax: s.globals.DisplayMax,
		FoodFull:   s.globals.FoodAmount,
	}
}

// RenderFrame composites the current fields into the viewport image and
// returns it. The image is owned by the grid and is rewritten by the next call.
func (s *Simulation) RenderFrame() *image.RGBA {
	s.timed(telemetry.PhaseRender, func() {
		s.frame = s.compositor.Render(s.grid, s.Palette())
	})
	return s.frame
}

// ExportImage encodes the last rendered frame as PNG, rendering one first if needed.
func (s *Simulation) ExportImage() ([]byte, error) {
	if s.frame == nil {
		s.RenderFrame()
	}
	var buf bytes.Buffer
	if err := png.Encode(&buf, s.frame); err != nil {
		return nil, fmt.Errorf("encoding frame: %w", err)
	}
	return buf.Bytes(), nil
}
