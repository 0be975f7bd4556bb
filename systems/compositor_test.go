package systems

import (
	"bytes"
	"image/color"
	"testing"

	"github.com/pthm-cable/slime/components"
)

func TestBlendSpeciesWeightsByCount(t *testing.T) {
	species := components.SpeciesTable{
		{Color: color.RGBA{R: 255, A: 255}},
		{Color: color.RGBA{B: 255, A: 255}},
	}
	c := BlendSpecies(species, []int{3, 1})
	if c.R < 190 || c.R > 193 || c.B < 63 || c.B > 65 {
		t.Errorf("expected ~(191,0,64), got %+v", c)
	}
	even := BlendSpecies(species, nil)
	if even.R != even.B {
		t.Errorf("expected equal mix without agents, got %+v", even)
	}
}

func TestCompositorIsPureAndIdempotent(t *testing.T) {
	pool := NewPool(2)
	defer pool.Stop()
	g := newGrid(t, 32, 32)
	g.Trail()[g.Index(4, 4)] = 0.5
	g.Trail()[g.Index(5, 4)] = 3
	g.Food.Amount[g.Index(20, 20)] = 10

	pal := Palette{
		Trail:      color.RGBA{R: 200, G: 100, B: 50, A: 255},
		Food:       color.RGBA{R: 0, G: 255, B: 0, A: 255},
		DisplayMax: 1,
		FoodFull:   10,
	}
	comp := NewCompositor(pool)
	first := append([]byte(nil), comp.Render(g, pal).Pix...)
	second := comp.Render(g, pal).Pix
	if !bytes.Equal(first, second) {
		t.Fatal("rendering twice gave different pixels")
	}

	img := g.Viewport
	if got := img.RGBAAt(4, 4); got.R != 100 || got.G != 50 || got.B != 25 {
		t.Errorf("half intensity pixel = %+v", got)
	}
	if got := img.RGBAAt(5, 4); got.R != 200 {
		t.Errorf("expected saturated pixel, got %+v", got)
	}
	if got := img.RGBAAt(20, 20); got.G != 255 || got.R != 0 {
		t.Errorf("expected opaque food overlay, got %+v", got)
	}
	if got := img.RGBAAt(0, 0); got.R != 0 || got.A != 255 {
		t.Errorf("expected opaque black background, got %+v", got)
	}
}
