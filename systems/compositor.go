package systems

import (
	"image"
	"image/color"

	"github.com/pthm-cable/slime/components"
	"github.com/pthm-cable/slime/field"
)

// Palette holds the colour inputs of the compositor.
type Palette struct {
	Trail      color.RGBA // species blend, see BlendSpecies
	Food       color.RGBA
	DisplayMax float32 // trail value shown at full intensity
	FoodFull   float32 // food amount shown fully opaque
}

// BlendSpecies mixes species colours weighted by how many agents each has.
// With no agents the plain average is used, so an empty field still has a tint.
func BlendSpecies(species components.SpeciesTable, counts []int) color.RGBA {
	if len(species) == 0 {
		return color.RGBA{R: 255, G: 255, B: 255, A: 255}
	}
	total := 0
	for _, n := range counts {
		total += n
	}
	var r, g, b float32
	for i, sp := range species {
		wgt := float32(1) / float32(len(species))
		if total > 0 {
			n := 0
			if i < len(counts) {
				n = counts[i]
			}
			wgt = float32(n) / float32(total)
		}
		r += float32(sp.Color.R) * wgt
		g += float32(sp.Color.G) * wgt
		b += float32(sp.Color.B) * wgt
	}
	return color.RGBA{R: to8(r), G: to8(g), B: to8(b), A: 255}
}

// Compositor turns the trail and food fields into viewport pixels.
// Output depends only on field contents and the palette.
type Compositor struct {
	pool *Pool
}

// NewCompositor creates a compositor on a worker pool.
func NewCompositor(pool *Pool) *Compositor {
	return &Compositor{pool: pool}
}

// Render writes the grid's viewport and returns it.
func (c *Compositor) Render(g *field.Grid, pal Palette) *image.RGBA {
	w := g.Width()
	img := g.Viewport
	trail := g.Trail()
	amount := g.Food.Amount

	displayMax := pal.DisplayMax
	if displayMax <= 0 {
		displayMax = 1
	}
	foodFull := pal.FoodFull
	if foodFull <= 0 {
		foodFull = 1
	}
	tr, tg, tb := float32(pal.Trail.R), float32(pal.Trail.G), float32(pal.Trail.B)
	fr, fg, fb := float32(pal.Food.R), float32(pal.Food.G), float32(pal.Food.B)
	foodAlpha := float32(pal.Food.A) / 255

	c.pool.ForRows(g.Height(), g.TileSize(), func(y0, y1, _ int) {
		for y := y0; y < y1; y++ {
			pix := img.Pix[y*img.Stride : y*img.Stride+w*4]
			for x := 0; x < w; x++ {
				i := y*w + x
				t := clamp01(trail[i] / displayMax)
				cr, cg, cb := tr*t, tg*t, tb*t

				if a := clamp01(amount[i]/foodFull) * foodAlpha; a > 0 {
					cr += (fr - cr) * a
					cg += (fg - cg) * a
					cb += (fb - cb) * a
				}

				p := pix[x*4 : x*4+4 : x*4+4]
				p[0], p[1], p[2], p[3] = to8(cr), to8(cg), to8(cb), 255
			}
		}
	})
	return img
}

func to8(v float32) uint8 {
	if v <= 0 {
		return 0
	}
	if v >= 255 {
		return 255
	}
	return uint8(v + 0.5)
}
