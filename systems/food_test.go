package systems

import (
	"testing"

	"github.com/pthm-cable/slime/components"
	"github.com/pthm-cable/slime/population"
)

func TestRasterizeMaxCombine(t *testing.T) {
	g := newGrid(t, 32, 32)
	sources := []components.FoodSource{
		{Pos: components.Position{X: 10, Y: 10}, Strength: 1, Amount: 5},
		{Pos: components.Position{X: 12, Y: 10}, Strength: 3, Amount: 2},
	}
	Rasterize(g, sources, 3)

	// (11,10) is covered by both disks.
	i := g.Index(11, 10)
	if g.Food.Amount[i] != 5 {
		t.Errorf("expected max amount 5, got %v", g.Food.Amount[i])
	}
	if g.Food.Attraction[i] != 3 {
		t.Errorf("expected max strength 3, got %v", g.Food.Attraction[i])
	}
	if g.Food.Owner[i] != 0 {
		t.Errorf("expected owner 0 (larger amount), got %d", g.Food.Owner[i])
	}
	if g.Food.Amount[g.Index(25, 25)] != 0 {
		t.Error("expected no food far from sources")
	}

	// Order independence.
	g2 := newGrid(t, 32, 32)
	Rasterize(g2, []components.FoodSource{sources[1], sources[0]}, 3)
	for j := range g.Food.Amount {
		if g.Food.Amount[j] != g2.Food.Amount[j] || g.Food.Attraction[j] != g2.Food.Attraction[j] {
			t.Fatalf("cell %d depends on source order", j)
		}
	}
}

func TestRasterizeClipsToBounds(t *testing.T) {
	g := newGrid(t, 16, 16)
	Rasterize(g, []components.FoodSource{{Pos: components.Position{X: 0, Y: 0}, Strength: 1, Amount: 1}}, 4)
	if g.Food.Amount[g.Index(0, 0)] != 1 {
		t.Error("expected corner cell stamped")
	}
}

func TestFoodKernelEmptySetIsZeroed(t *testing.T) {
	pool := NewPool(1)
	defer pool.Stop()
	g := newGrid(t, 16, 16)
	set := population.NewFoodSet()
	k := NewFoodKernel(pool)

	set.Add(components.FoodSource{Pos: components.Position{X: 8, Y: 8}, Strength: 1, Amount: 1})
	k.Sync(g, set, 2)
	set.Clear()
	k.Update(g, set, FoodParams{BrushRadius: 2, DepletionEnabled: true, DepletionRate: 1, DT: 1})

	for i := range g.Food.Amount {
		if g.Food.Amount[i] != 0 || g.Food.Attraction[i] != 0 {
			t.Fatalf("cell %d not zero after the set emptied", i)
		}
	}
}

func TestFoodDepletionFloor(t *testing.T) {
	pool := NewPool(2)
	defer pool.Stop()
	g := newGrid(t, 16, 16)
	set := population.NewFoodSet()
	set.Add(components.FoodSource{Pos: components.Position{X: 8, Y: 8}, Strength: 1, Amount: 1})
	k := NewFoodKernel(pool)
	p := FoodParams{BrushRadius: 1, DepletionEnabled: true, DepletionRate: 0.7, DT: 1}
	k.Sync(g, set, p.BrushRadius)

	i := g.Index(8, 8)
	for tick := 0; tick < 10; tick++ {
		for v := 0; v < 3; v++ {
			g.RecordVisit(i)
		}
		k.Update(g, set, p)
		if g.Food.Amount[i] < 0 {
			t.Fatalf("tick %d: cell amount negative %v", tick, g.Food.Amount[i])
		}
		if a := set.Sources()[0].Amount; a < 0 {
			t.Fatalf("tick %d: source amount negative %v", tick, a)
		}
	}

	if set.Sources()[0].Amount != 0 {
		t.Errorf("expected exhausted source, amount %v", set.Sources()[0].Amount)
	}
	if set.Len() != 1 {
		t.Error("exhausted source must stay in the set")
	}
	for j := range g.Food.Attraction {
		if g.Food.Attraction[j] != 0 {
			t.Fatalf("cell %d still attracts after exhaustion", j)
		}
	}
}

func TestFoodDepletionDisabled(t *testing.T) {
	pool := NewPool(1)
	defer pool.Stop()
	g := newGrid(t, 16, 16)
	set := population.NewFoodSet()
	set.Add(components.FoodSource{Pos: components.Position{X: 8, Y: 8}, Strength: 1, Amount: 1})
	k := NewFoodKernel(pool)
	g.RecordVisit(g.Index(8, 8))
	k.Update(g, set, FoodParams{BrushRadius: 1, DepletionRate: 1, DT: 1})
	if g.Food.Amount[g.Index(8, 8)] != 1 {
		t.Errorf("expected no depletion, got %v", g.Food.Amount[g.Index(8, 8)])
	}
}
