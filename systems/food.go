package systems

import (
	"github.com/pthm-cable/slime/components"
	"github.com/pthm-cable/slime/field"
)

// FoodSources is the food source set as seen by the food kernel.
type FoodSources interface {
	Version() uint64
	Sources() []components.FoodSource
	Deplete(i int, amt float32) bool
}

// FoodParams configures the food kernel for one tick.
type FoodParams struct {
	BrushRadius      int
	DepletionEnabled bool
	DepletionRate    float32 // amount removed per visit per second
	DT               float32
}

// ownerUse is consumption attributed to one source within a row.
type ownerUse struct {
	owner int32
	amt   float32
}

// FoodKernel rasterizes food sources and applies depletion.
type FoodKernel struct {
	pool *Pool

	version uint64
	valid   bool // field holds a raster of the current version

	rowUse [][]ownerUse // per-row consumption, reused across ticks
}

// NewFoodKernel creates a food kernel on a worker pool.
func NewFoodKernel(pool *Pool) *FoodKernel {
	return &FoodKernel{pool: pool}
}

// Invalidate forces a re-raster on the next Update, e.g. after a field resize or clear.
func (k *FoodKernel) Invalidate() { k.valid = false }

// Rasterize rewrites the food field from the source list. Overlapping sources
// combine by max. An empty list leaves a zeroed field.
func Rasterize(g *field.Grid, sources []components.FoodSource, radius int) {
	g.ClearFood()
	food := g.Food
	r := float32(max(radius, 0))
	for idx, src := range sources {
		if src.Amount <= 0 {
			continue
		}
		cx, cy, ok := g.CellAt(src.Pos.X, src.Pos.Y)
		if !ok {
			continue
		}
		g.ForDisk(float32(cx)+0.5, float32(cy)+0.5, r, func(_, _, i int) {
			if src.Amount > food.Amount[i] {
				food.Amount[i] = src.Amount
				food.Owner[i] = int32(idx)
			}
			food.Attraction[i] = max(food.Attraction[i], src.Strength)
		})
	}
}

// Sync re-rasterizes if the source set changed since the last raster.
func (k *FoodKernel) Sync(g *field.Grid, set FoodSources, radius int) {
	if k.valid && set.Version() == k.version {
		return
	}
	Rasterize(g, set.Sources(), radius)
	k.version = set.Version()
	k.valid = true
}

// Update applies this tick's agent visits to the food field and the sources,
// then re-rasterizes if any source became exhausted.
func (k *FoodKernel) Update(g *field.Grid, set FoodSources, p FoodParams) {
	k.Sync(g, set, p.BrushRadius)
	if !p.DepletionEnabled {
		return
	}

	w, h := g.Width(), g.Height()
	if len(k.rowUse) != h {
		k.rowUse = make([][]ownerUse, h)
	}
	perVisit := p.DepletionRate * p.DT
	food := g.Food

	k.pool.ForRows(h, g.TileSize(), func(y0, y1, _ int) {
		for y := y0; y < y1; y++ {
			use := k.rowUse[y][:0]
			for i := y * w; i < (y+1)*w; i++ {
				visits := g.TakeVisits(i)
				if visits == 0 || food.Amount[i] <= 0 {
					continue
				}
				amt := min(perVisit*float32(visits), food.Amount[i])
				food.Amount[i] -= amt
				if food.Amount[i] <= 0 {
					food.Amount[i] = 0
					food.Attraction[i] = 0
				}
				if food.Owner[i] >= 0 {
					use = append(use, ownerUse{owner: food.Owner[i], amt: amt})
				}
			}
			k.rowUse[y] = use
		}
	})

	// Sum in row order so source totals do not depend on scheduling.
	totals := make(map[int32]float32)
	for y := 0; y < h; y++ {
		for _, u := range k.rowUse[y] {
			totals[u.owner] += u.amt
		}
	}
	exhausted := false
	for owner, amt := range totals {
		if set.Deplete(int(owner), amt) {
			exhausted = true
		}
	}
	if exhausted {
		k.Sync(g, set, p.BrushRadius)
	}
}
