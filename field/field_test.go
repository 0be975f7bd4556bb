package field

import (
	"errors"
	"sync"
	"testing"
)

func TestNewZeroInitialized(t *testing.T) {
	g, err := New(64, 32, Options{})
	if err != nil {
		t.Fatalf("New failed: %v", err)
	}
	if g.Width() != 64 || g.Height() != 32 {
		t.Errorf("expected 64x32, got %dx%d", g.Width(), g.Height())
	}
	for i, v := range g.Trail() {
		if v != 0 {
			t.Fatalf("trail[%d]=%f, expected 0", i, v)
		}
	}
	for i, o := range g.Food.Owner {
		if o != -1 {
			t.Fatalf("owner[%d]=%d, expected -1", i, o)
		}
	}
	if b := g.Viewport.Bounds(); b.Dx() != 64 || b.Dy() != 32 {
		t.Errorf("viewport bounds %v", b)
	}
}

func TestNewRejectsBadDimensions(t *testing.T) {
	cases := []struct {
		name string
		w, h int
	}{
		{"zero width", 0, 64},
		{"negative height", 64, -8},
		{"misaligned width", 63, 64},
		{"misaligned height", 64, 12},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			_, err := New(tc.w, tc.h, Options{})
			var dimErr *InvalidDimensionsError
			if !errors.As(err, &dimErr) {
				t.Fatalf("expected InvalidDimensionsError, got %v", err)
			}
		})
	}
}

func TestNewAllocationCeiling(t *testing.T) {
	_, err := New(1024, 1024, Options{MaxCells: 512 * 512})
	var allocErr *AllocationError
	if !errors.As(err, &allocErr) {
		t.Fatalf("expected AllocationError, got %v", err)
	}
}

func TestResizeFailureKeepsState(t *testing.T) {
	g, err := New(16, 16, Options{})
	if err != nil {
		t.Fatal(err)
	}
	g.Trail()[g.Index(3, 4)] = 0.5

	if err := g.Resize(17, 16); err == nil {
		t.Fatal("expected resize to 17x16 to fail")
	}
	if g.Width() != 16 || g.Height() != 16 {
		t.Errorf("failed resize changed dimensions to %dx%d", g.Width(), g.Height())
	}
	if got := g.Trail()[g.Index(3, 4)]; got != 0.5 {
		t.Errorf("failed resize changed contents: %f", got)
	}

	if err := g.Resize(32, 8); err != nil {
		t.Fatalf("resize failed: %v", err)
	}
	if len(g.Trail()) != 32*8 || len(g.Food.Amount) != 32*8 || len(g.NextTrail()) != 32*8 {
		t.Error("resize did not recreate all buffers in lockstep")
	}
}

func TestSwapTrailBuffers(t *testing.T) {
	g, _ := New(8, 8, Options{})
	g.NextTrail()[5] = 1
	g.SwapTrailBuffers()
	if g.Trail()[5] != 1 {
		t.Error("expected next buffer to become current after swap")
	}
	if g.NextTrail()[5] != 0 {
		t.Error("expected old current to become next")
	}
}

func TestConcurrentDepositsAreOrderIndependent(t *testing.T) {
	g, _ := New(8, 8, Options{})
	idx := g.Index(2, 2)

	var wg sync.WaitGroup
	for w := 0; w < 8; w++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			for i := 0; i < 1000; i++ {
				g.Deposit(idx, 0.0001)
			}
		}()
	}
	wg.Wait()
	g.FlushDeposits(0, g.Height(), 10)

	// Serial reference
	ref, _ := New(8, 8, Options{})
	for i := 0; i < 8000; i++ {
		ref.Deposit(idx, 0.0001)
	}
	ref.FlushDeposits(0, ref.Height(), 10)

	if g.Trail()[idx] != ref.Trail()[idx] {
		t.Errorf("concurrent deposit %v differs from serial %v", g.Trail()[idx], ref.Trail()[idx])
	}
}

func TestFlushDepositsSaturates(t *testing.T) {
	g, _ := New(8, 8, Options{})
	g.Deposit(0, 3)
	g.Deposit(0, 3)
	g.FlushDeposits(0, 8, 5)
	if g.Trail()[0] != 5 {
		t.Errorf("expected saturation at 5, got %f", g.Trail()[0])
	}
	g.FlushDeposits(0, 8, 5)
	if g.Trail()[0] != 5 {
		t.Error("expected flush to clear the accumulator")
	}
}

func TestForDiskClipsToBounds(t *testing.T) {
	g, _ := New(16, 16, Options{})
	count := 0
	g.ForDisk(0, 0, 3, func(x, y, i int) {
		if !g.InBounds(x, y) {
			t.Errorf("cell (%d,%d) out of bounds", x, y)
		}
		count++
	})
	if count == 0 {
		t.Error("expected cells in the clipped quarter disk")
	}
}

func TestClearDisks(t *testing.T) {
	g, _ := New(16, 16, Options{})
	for i := range g.Trail() {
		g.Trail()[i] = 1
		g.Food.Amount[i] = 1
	}
	g.ClearTrailDisk(8, 8, 2)
	g.ClearFoodDisk(8, 8, 2)

	if g.Trail()[g.Index(8, 8)] != 0 || g.Food.Amount[g.Index(8, 8)] != 0 {
		t.Error("expected disk centre cleared")
	}
	if g.Trail()[g.Index(0, 0)] != 1 || g.Food.Amount[g.Index(0, 0)] != 1 {
		t.Error("expected cells outside the disk untouched")
	}
}

func TestClearAll(t *testing.T) {
	g, _ := New(8, 8, Options{})
	g.Trail()[1] = 2
	g.NextTrail()[2] = 2
	g.Food.Amount[3] = 2
	g.Food.Owner[3] = 0
	g.Viewport.Pix[0] = 255
	g.ClearAll()
	if g.Trail()[1] != 0 || g.NextTrail()[2] != 0 || g.Food.Amount[3] != 0 || g.Food.Owner[3] != -1 || g.Viewport.Pix[0] != 0 {
		t.Error("ClearAll left data behind")
	}
}
