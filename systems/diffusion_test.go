package systems

import (
	"testing"
)

func TestDecayMonotonicityWithoutDiffusion(t *testing.T) {
	pool := NewPool(2)
	defer pool.Stop()
	g := newGrid(t, 32, 32)
	for i := range g.Trail() {
		g.Trail()[i] = float32(i%7) * 0.1
	}
	diff := NewDiffusion(pool)

	for tick := 0; tick < 400; tick++ {
		before := append([]float32(nil), g.Trail()...)
		diff.Step(g, 0.5, 0, 0.1)
		g.SwapTrailBuffers()
		for i, v := range g.Trail() {
			if before[i] > 0 && v >= before[i] {
				t.Fatalf("tick %d: cell %d did not decrease (%v -> %v)", tick, i, before[i], v)
			}
			if before[i] == 0 && v != 0 {
				t.Fatalf("tick %d: cell %d increased from 0 to %v", tick, i, v)
			}
		}
	}
	if m := TrailMass(g); m != 0 {
		t.Errorf("expected trail to reach 0, mass %v", m)
	}
}

func TestDiffusionNeverRaisesMaximum(t *testing.T) {
	pool := NewPool(3)
	defer pool.Stop()
	g := newGrid(t, 32, 32)
	g.Trail()[g.Index(16, 16)] = 1
	g.Trail()[g.Index(0, 0)] = 0.5
	diff := NewDiffusion(pool)

	prevMax := float32(1)
	for tick := 0; tick < 50; tick++ {
		diff.Step(g, 0.1, 5, 0.05)
		g.SwapTrailBuffers()
		var mx float32
		for _, v := range g.Trail() {
			if v < 0 {
				t.Fatalf("tick %d: negative trail %v", tick, v)
			}
			mx = max(mx, v)
		}
		if mx > prevMax {
			t.Fatalf("tick %d: max rose from %v to %v", tick, prevMax, mx)
		}
		prevMax = mx
	}
	if g.Trail()[g.Index(17, 16)] == 0 {
		t.Error("expected trail to spread to neighbours")
	}
}

func TestDiffusionUniformFieldOnlyDecays(t *testing.T) {
	pool := NewPool(1)
	defer pool.Stop()
	g := newGrid(t, 16, 16)
	for i := range g.Trail() {
		g.Trail()[i] = 1
	}
	NewDiffusion(pool).Step(g, 0.5, 3, 0.1)
	g.SwapTrailBuffers()
	for i, v := range g.Trail() {
		if v < 0.9499 || v > 0.9501 {
			t.Fatalf("cell %d: expected 0.95, got %v", i, v)
		}
	}
}

func TestDiffusionReadsOnlyCurrentBuffer(t *testing.T) {
	pool := NewPool(1)
	defer pool.Stop()
	g := newGrid(t, 16, 16)
	// Garbage in next must not leak into the result.
	for i := range g.NextTrail() {
		g.NextTrail()[i] = 100
	}
	NewDiffusion(pool).Step(g, 0, 1, 0.1)
	for i, v := range g.NextTrail() {
		if v != 0 {
			t.Fatalf("cell %d: expected 0 from an empty field, got %v", i, v)
		}
	}
}

func TestMergeDepositsSaturates(t *testing.T) {
	pool := NewPool(2)
	defer pool.Stop()
	g := newGrid(t, 16, 16)
	for i := 0; i < 10; i++ {
		g.Deposit(g.Index(3, 3), 1)
	}
	NewDiffusion(pool).MergeDeposits(g, 4)
	if got := g.Trail()[g.Index(3, 3)]; got != 4 {
		t.Errorf("expected saturation at 4, got %v", got)
	}
}
