package population

import (
	"testing"

	"github.com/pthm-cable/slime/components"
)

func TestFoodSetPositionalIdentity(t *testing.T) {
	f := NewFoodSet()
	if merged := f.Add(components.FoodSource{Pos: pos(4, 4), Strength: 1, Amount: 5}); merged {
		t.Error("first add should not merge")
	}
	if merged := f.Add(components.FoodSource{Pos: pos(4, 4), Strength: 2, Amount: 3}); !merged {
		t.Error("second add at same position should merge")
	}
	if f.Len() != 1 {
		t.Fatalf("expected 1 source, got %d", f.Len())
	}
	src := f.Sources()[0]
	if src.Amount != 8 || src.Strength != 2 {
		t.Errorf("merged source = %+v, expected amount 8 strength 2", src)
	}
}

func TestFoodSetOrderIsRowMajor(t *testing.T) {
	f := NewFoodSet()
	f.Add(components.FoodSource{Pos: pos(9, 5), Amount: 1})
	f.Add(components.FoodSource{Pos: pos(1, 5), Amount: 1})
	f.Add(components.FoodSource{Pos: pos(3, 2), Amount: 1})

	got := f.Sources()
	want := []components.Position{pos(3, 2), pos(1, 5), pos(9, 5)}
	for i := range want {
		if got[i].Pos != want[i] {
			t.Errorf("source %d at %v, expected %v", i, got[i].Pos, want[i])
		}
	}
}

func TestFoodSetRemoveInDisk(t *testing.T) {
	f := NewFoodSet()
	f.Add(components.FoodSource{Pos: pos(10, 10), Amount: 1})
	f.Add(components.FoodSource{Pos: pos(12, 10), Amount: 1})
	f.Add(components.FoodSource{Pos: pos(40, 40), Amount: 1})

	v := f.Version()
	if n := f.RemoveInDisk(10, 10, 3); n != 2 {
		t.Fatalf("expected 2 removed, got %d", n)
	}
	if f.Version() == v {
		t.Error("expected version bump after removal")
	}
	if f.Len() != 1 || f.Sources()[0].Pos != pos(40, 40) {
		t.Errorf("unexpected remaining sources %+v", f.Sources())
	}

	// Re-adding at a removed position creates a fresh source.
	if f.Add(components.FoodSource{Pos: pos(10, 10), Amount: 2}) {
		t.Error("expected a new source, not a merge")
	}
	f.Clear()
	if f.Len() != 0 || len(f.Sources()) != 0 {
		t.Error("expected empty set after Clear")
	}
}

func TestFoodSetDepletionFloor(t *testing.T) {
	f := NewFoodSet()
	f.Add(components.FoodSource{Pos: pos(1, 1), Strength: 1, Amount: 1})

	exhausted := 0
	for i := 0; i < 10; i++ {
		if f.Deplete(0, 0.3) {
			exhausted++
		}
		if a := f.Sources()[0].Amount; a < 0 {
			t.Fatalf("amount went negative: %f", a)
		}
	}
	if exhausted != 1 {
		t.Errorf("expected exactly one exhaustion event, got %d", exhausted)
	}
	if f.Len() != 1 {
		t.Error("exhausted source must not be removed automatically")
	}
}
