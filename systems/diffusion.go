package systems

import (
	"gonum.org/v1/gonum/blas/blas32"

	"github.com/pthm-cable/slime/field"
)

// flushBelow zeroes trail values too small to matter, so decay reaches 0 in finite time.
const flushBelow = 1e-6

// Diffusion is the trail relaxation kernel.
type Diffusion struct {
	pool *Pool
}

// NewDiffusion creates a diffusion kernel on a worker pool.
func NewDiffusion(pool *Pool) *Diffusion {
	return &Diffusion{pool: pool}
}

// MergeDeposits lands the tick's accumulated deposits in the current trail buffer.
func (d *Diffusion) MergeDeposits(g *field.Grid, maxValue float32) {
	d.pool.ForRows(g.Height(), g.TileSize(), func(y0, y1, _ int) {
		g.FlushDeposits(y0, y1, maxValue)
	})
}

// Step blurs the current trail into the next buffer and applies decay.
// Reads only current and writes only next; the caller swaps afterwards.
func (d *Diffusion) Step(g *field.Grid, decayRate, diffuseRate, dt float32) {
	blend := clamp01(diffuseRate * dt)
	keep := 1 - decayRate*dt
	if keep < 0 {
		keep = 0
	}

	w, h := g.Width(), g.Height()
	cur := g.Trail()
	next := g.NextTrail()

	d.pool.ForRows(h, g.TileSize(), func(y0, y1, _ int) {
		for y := y0; y < y1; y++ {
			ya, yb := max(y-1, 0), min(y+1, h-1)
			row := next[y*w : (y+1)*w]
			for x := 0; x < w; x++ {
				xa, xb := max(x-1, 0), min(x+1, w-1)
				var sum float32
				for yy := ya; yy <= yb; yy++ {
					base := yy * w
					for xx := xa; xx <= xb; xx++ {
						sum += cur[base+xx]
					}
				}
				mean := sum / float32((yb-ya+1)*(xb-xa+1))
				c := cur[y*w+x]
				row[x] = c + (mean-c)*blend
			}

			blas32.Scal(keep, blas32.Vector{N: w, Inc: 1, Data: row})
			for x, v := range row {
				if v < flushBelow {
					row[x] = 0
				}
			}
		}
	})
}

// TrailMass returns the sum of the current trail field.
func TrailMass(g *field.Grid) float32 {
	trail := g.Trail()
	return blas32.Asum(blas32.Vector{N: len(trail), Inc: 1, Data: trail})
}
