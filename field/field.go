// Package field owns the simulation grids: the double-buffered trail field,
// the food field, and the composited viewport. All grids share one size and
// are recreated together.
package field

import (
	"image"
	"math"
	"sync/atomic"
)

// DefaultTileSize is the parallel dispatch granularity. Field dimensions must be multiples of it.
const DefaultTileSize = 8

// depositScale is the fixed-point resolution of the deposit accumulator.
const depositScale = 1 << 20

// Options configures grid creation.
type Options struct {
	TileSize int // 0 = DefaultTileSize
	MaxCells int // 0 = no ceiling
}

// FoodLayer is the rasterized food field.
type FoodLayer struct {
	Amount     []float32 // depletable amount per cell, >= 0
	Attraction []float32 // attractor strength where Amount > 0
	Owner      []int32   // index of the source that stamped the cell, -1 if none
}

// Grid is the Field Grid Manager.
type Grid struct {
	w, h int
	opts Options

	trail [2][]float32
	cur   int // index of the current trail buffer

	// Per-tick deposits in fixed point. Integer adds commute, so the merged
	// result does not depend on which worker deposited first.
	deposit []uint64
	visits  []uint32 // agent visits to food cells this tick

	Food     FoodLayer
	Viewport *image.RGBA
}

type buffers struct {
	trail    [2][]float32
	deposit  []uint64
	visits   []uint32
	food     FoodLayer
	viewport *image.RGBA
}

// New allocates all fields, zero-initialized.
func New(width, height int, opts Options) (*Grid, error) {
	if opts.TileSize <= 0 {
		opts.TileSize = DefaultTileSize
	}
	b, err := allocate(width, height, opts)
	if err != nil {
		return nil, err
	}
	g := &Grid{opts: opts}
	g.install(width, height, b)
	return g, nil
}

// allocate validates dimensions and obtains every buffer, or nothing.
func allocate(width, height int, opts Options) (b buffers, err error) {
	if width <= 0 || height <= 0 || width%opts.TileSize != 0 || height%opts.TileSize != 0 {
		return b, &InvalidDimensionsError{Width: width, Height: height, TileSize: opts.TileSize}
	}
	n := width * height
	if n/width != height || (opts.MaxCells > 0 && n > opts.MaxCells) {
		return b, &AllocationError{Width: width, Height: height, MaxCells: opts.MaxCells}
	}

	defer func() {
		if r := recover(); r != nil {
			b = buffers{}
			err = &AllocationError{Width: width, Height: height, MaxCells: opts.MaxCells, Cause: r}
		}
	}()

	b.trail[0] = make([]float32, n)
	b.trail[1] = make([]float32, n)
	b.deposit = make([]uint64, n)
	b.visits = make([]uint32, n)
	b.food = FoodLayer{
		Amount:     make([]float32, n),
		Attraction: make([]float32, n),
		Owner:      make([]int32, n),
	}
	for i := range b.food.Owner {
		b.food.Owner[i] = -1
	}
	b.viewport = image.NewRGBA(image.Rect(0, 0, width, height))
	return b, nil
}

func (g *Grid) install(width, height int, b buffers) {
	g.w, g.h = width, height
	g.trail = b.trail
	g.cur = 0
	g.deposit = b.deposit
	g.visits = b.visits
	g.Food = b.food
	g.Viewport = b.viewport
}

// Resize reallocates every buffer, discarding contents. On error the grid is unchanged.
// Agents outside the new bounds must be handled by the caller before calling.
func (g *Grid) Resize(width, height int) error {
	b, err := allocate(width, height, g.opts)
	if err != nil {
		return err
	}
	g.install(width, height, b)
	return nil
}

// Width returns the grid width in cells.
func (g *Grid) Width() int { return g.w }

// Height returns the grid height in cells.
func (g *Grid) Height() int { return g.h }

// TileSize returns the dispatch granularity.
func (g *Grid) TileSize() int { return g.opts.TileSize }

// Trail returns the current trail buffer.
func (g *Grid) Trail() []float32 { return g.trail[g.cur] }

// NextTrail returns the buffer diffusion writes into.
func (g *Grid) NextTrail() []float32 { return g.trail[1-g.cur] }

// SwapTrailBuffers makes next the new current. Call once per tick after diffusion.
func (g *Grid) SwapTrailBuffers() { g.cur = 1 - g.cur }

// Index returns the flat index of cell (x, y). The cell must be in bounds.
func (g *Grid) Index(x, y int) int { return y*g.w + x }

// InBounds reports whether (x, y) is a cell of the grid.
func (g *Grid) InBounds(x, y int) bool {
	return x >= 0 && x < g.w && y >= 0 && y < g.h
}

// CellAt returns the cell containing a field-space point.
func (g *Grid) CellAt(px, py float32) (x, y int, ok bool) {
	if px < 0 || py < 0 {
		return 0, 0, false
	}
	x = int(px)
	y = int(py)
	return x, y, g.InBounds(x, y)
}

// Deposit adds v to the pending deposit of cell i. Safe for concurrent use.
func (g *Grid) Deposit(i int, v float32) {
	if v <= 0 {
		return
	}
	atomic.AddUint64(&g.deposit[i], uint64(math.Round(float64(v)*depositScale)))
}

// FlushDeposits merges pending deposits of rows [y0, y1) into the current trail,
// saturating at maxValue, and clears them. Disjoint row ranges may run concurrently.
func (g *Grid) FlushDeposits(y0, y1 int, maxValue float32) {
	trail := g.trail[g.cur]
	for i := y0 * g.w; i < y1*g.w; i++ {
		d := g.deposit[i]
		if d == 0 {
			continue
		}
		g.deposit[i] = 0
		v := trail[i] + float32(float64(d)/depositScale)
		if v > maxValue {
			v = maxValue
		}
		trail[i] = v
	}
}

// RecordVisit counts an agent visit to food cell i. Safe for concurrent use.
func (g *Grid) RecordVisit(i int) {
	atomic.AddUint32(&g.visits[i], 1)
}

// TakeVisits returns and resets the visit count of cell i.
func (g *Grid) TakeVisits(i int) uint32 {
	v := g.visits[i]
	if v != 0 {
		g.visits[i] = 0
	}
	return v
}

// ClearTrail zeroes both trail buffers and pending deposits.
func (g *Grid) ClearTrail() {
	clear(g.trail[0])
	clear(g.trail[1])
	clear(g.deposit)
}

// ClearFood zeroes the food field.
func (g *Grid) ClearFood() {
	clear(g.Food.Amount)
	clear(g.Food.Attraction)
	clear(g.visits)
	for i := range g.Food.Owner {
		g.Food.Owner[i] = -1
	}
}

// ClearAll zeroes trail, food and viewport. Emptying the population is the caller's job.
func (g *Grid) ClearAll() {
	g.ClearTrail()
	g.ClearFood()
	clear(g.Viewport.Pix)
}

// ForDisk calls fn for every in-bounds cell whose centre lies within r of (cx, cy).
func (g *Grid) ForDisk(cx, cy, r float32, fn func(x, y, i int)) {
	if r < 0 {
		return
	}
	x0 := max(int(math.Floor(float64(cx-r))), 0)
	x1 := min(int(math.Ceil(float64(cx+r))), g.w-1)
	y0 := max(int(math.Floor(float64(cy-r))), 0)
	y1 := min(int(math.Ceil(float64(cy+r))), g.h-1)
	r2 := r * r
	for y := y0; y <= y1; y++ {
		dy := float32(y) + 0.5 - cy
		for x := x0; x <= x1; x++ {
			dx := float32(x) + 0.5 - cx
			if dx*dx+dy*dy <= r2 {
				fn(x, y, y*g.w+x)
			}
		}
	}
}

// ClearTrailDisk zeroes the trail in a disk.
func (g *Grid) ClearTrailDisk(cx, cy, r float32) {
	g.ForDisk(cx, cy, r, func(_, _, i int) {
		g.trail[0][i] = 0
		g.trail[1][i] = 0
		g.deposit[i] = 0
	})
}

// ClearFoodDisk zeroes the food field in a disk.
func (g *Grid) ClearFoodDisk(cx, cy, r float32) {
	g.ForDisk(cx, cy, r, func(_, _, i int) {
		g.Food.Amount[i] = 0
		g.Food.Attraction[i] = 0
		g.Food.Owner[i] = -1
		g.visits[i] = 0
	})
}
