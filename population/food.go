package population

import (
	"sort"

	"github.com/mlange-42/ark/ecs"

	"github.com/pthm-cable/slime/components"
)

// FoodSet holds food sources as ECS entities with positional identity.
// Sources are listed in row-major position order; that order is the source
// index recorded in the food field's owner layer.
type FoodSet struct {
	world  *ecs.World
	mapper *ecs.Map2[components.FoodSite, components.FoodStock]
	filter *ecs.Filter2[components.FoodSite, components.FoodStock]
	stock  *ecs.Map1[components.FoodStock]

	byPos   map[components.Position]ecs.Entity
	order   []ecs.Entity
	dirty   bool   // order needs rebuilding
	version uint64 // bumped on every change that affects rasterization
}

// NewFoodSet creates an empty set.
func NewFoodSet() *FoodSet {
	world := ecs.NewWorld()
	return &FoodSet{
		world:  world,
		mapper: ecs.NewMap2[components.FoodSite, components.FoodStock](world),
		filter: ecs.NewFilter2[components.FoodSite, components.FoodStock](world),
		stock:  ecs.NewMap1[components.FoodStock](world),
		byPos:  make(map[components.Position]ecs.Entity),
	}
}

// Len returns the number of sources, exhausted ones included.
func (f *FoodSet) Len() int { return len(f.byPos) }

// Version changes whenever the rasterized food field would change.
func (f *FoodSet) Version() uint64 { return f.version }

// Add inserts a source, or merges into the source already at that position:
// amounts add, strength takes the max. Reports whether a merge happened.
func (f *FoodSet) Add(src components.FoodSource) bool {
	if src.Amount < 0 {
		src.Amount = 0
	}
	f.version++
	if e, ok := f.byPos[src.Pos]; ok {
		st := f.stock.Get(e)
		st.Amount += src.Amount
		st.Strength = max(st.Strength, src.Strength)
		return true
	}
	site := components.FoodSite{Pos: src.Pos}
	stock := components.FoodStock{Strength: src.Strength, Amount: src.Amount}
	f.byPos[src.Pos] = f.mapper.NewEntity(&site, &stock)
	f.dirty = true
	return false
}

// RemoveWhere removes every source matching pred and returns the count.
func (f *FoodSet) RemoveWhere(pred func(src components.FoodSource) bool) int {
	// Collect first: the world is locked while a query is open.
	var doomed []components.Position
	query := f.filter.Query()
	for query.Next() {
		site, stock := query.Get()
		if pred(components.FoodSource{Pos: site.Pos, Strength: stock.Strength, Amount: stock.Amount}) {
			doomed = append(doomed, site.Pos)
		}
	}
	for _, pos := range doomed {
		f.world.RemoveEntity(f.byPos[pos])
		delete(f.byPos, pos)
	}
	if len(doomed) > 0 {
		f.dirty = true
		f.version++
	}
	return len(doomed)
}

// RemoveInDisk removes sources within r of (cx, cy).
func (f *FoodSet) RemoveInDisk(cx, cy, r float32) int {
	c := components.Position{X: cx, Y: cy}
	r2 := r * r
	return f.RemoveWhere(func(src components.FoodSource) bool {
		return src.Pos.DistSq(c) <= r2
	})
}

// Clear removes every source.
func (f *FoodSet) Clear() {
	if len(f.byPos) == 0 {
		return
	}
	f.RemoveWhere(func(components.FoodSource) bool { return true })
}

// Sources returns a snapshot of the set in index order.
func (f *FoodSet) Sources() []components.FoodSource {
	f.rebuild()
	out := make([]components.FoodSource, len(f.order))
	for i, e := range f.order {
		site, stock := f.mapper.Get(e)
		out[i] = components.FoodSource{Pos: site.Pos, Strength: stock.Strength, Amount: stock.Amount}
	}
	return out
}

// Deplete lowers the amount of source i by amt, floored at 0.
// Reports whether the source became exhausted by this call.
func (f *FoodSet) Deplete(i int, amt float32) bool {
	f.rebuild()
	if i < 0 || i >= len(f.order) || amt <= 0 {
		return false
	}
	st := f.stock.Get(f.order[i])
	if st.Exhausted() {
		return false
	}
	st.Amount -= amt
	if st.Amount > 0 {
		return false
	}
	st.Amount = 0
	f.version++
	return true
}

func (f *FoodSet) rebuild() {
	if !f.dirty {
		return
	}
	f.order = f.order[:0]
	for _, e := range f.byPos {
		f.order = append(f.order, e)
	}
	sort.Slice(f.order, func(a, b int) bool {
		pa, _ := f.mapper.Get(f.order[a])
		pb, _ := f.mapper.Get(f.order[b])
		if pa.Pos.Y != pb.Pos.Y {
			return pa.Pos.Y < pb.Pos.Y
		}
		return pa.Pos.X < pb.Pos.X
	})
	f.dirty = false
}
