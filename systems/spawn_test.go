package systems

import (
	"math"
	"math/rand"
	"testing"

	"github.com/pthm-cable/slime/components"
)

func TestSpawnPatternsStayInField(t *testing.T) {
	for _, pattern := range []string{PatternCircle, PatternBurst, PatternSpiral, PatternRandom, PatternNoise} {
		t.Run(pattern, func(t *testing.T) {
			rng := rand.New(rand.NewSource(9))
			spawns, err := SpawnPattern(pattern, 500, 64, 48, 100, rng)
			if err != nil {
				t.Fatal(err)
			}
			if pattern != PatternNoise && len(spawns) != 500 {
				t.Errorf("expected 500 spawns, got %d", len(spawns))
			}
			for _, s := range spawns {
				if s.Pos.X < 0 || s.Pos.X >= 64 || s.Pos.Y < 0 || s.Pos.Y >= 48 {
					t.Fatalf("spawn outside field: %+v", s.Pos)
				}
			}
		})
	}
}

func TestSpawnCircleFacesCentre(t *testing.T) {
	rng := rand.New(rand.NewSource(1))
	spawns, _ := SpawnPattern(PatternCircle, 100, 64, 64, 20, rng)
	for _, s := range spawns {
		dx, dy := 32-s.Pos.X, 32-s.Pos.Y
		if dx*dx+dy*dy < 1e-6 {
			continue
		}
		// Heading should be parallel to the direction towards the centre.
		dot := float64(dx)*math.Cos(float64(s.Heading)) + float64(dy)*math.Sin(float64(s.Heading))
		if dot <= 0 {
			t.Fatalf("spawn at %+v heading %f faces away from centre", s.Pos, s.Heading)
		}
	}
}

func TestSpawnUnknownPattern(t *testing.T) {
	if _, err := SpawnPattern("hexagon", 1, 8, 8, 1, rand.New(rand.NewSource(1))); err == nil {
		t.Error("expected error for unknown pattern")
	}
}

func TestDiskSpawnsFullDensity(t *testing.T) {
	g := newGrid(t, 32, 32)
	rng := rand.New(rand.NewSource(1))
	c := components.Position{X: 10, Y: 10}
	spawns := DiskSpawns(g, c.X, c.Y, 3, 1, rng)
	if len(spawns) == 0 {
		t.Fatal("expected spawns at full density")
	}
	for _, s := range spawns {
		if s.Pos.Dist(c) > 3 {
			t.Errorf("spawn %+v outside radius", s.Pos)
		}
	}
}

func TestPoolCoversEveryItemOnce(t *testing.T) {
	pool := NewPool(4)
	defer pool.Stop()
	for _, n := range []int{0, 1, 63, 64, 1000} {
		hits := make([]int32, n)
		pool.For(n, func(start, end, _ int) {
			for i := start; i < end; i++ {
				hits[i]++
			}
		})
		for i, h := range hits {
			if h != 1 {
				t.Fatalf("n=%d: item %d visited %d times", n, i, h)
			}
		}
	}

	rows := make([]int32, 40)
	pool.ForRows(40, 8, func(y0, y1, _ int) {
		if y0%8 != 0 {
			t.Errorf("chunk start %d not tile aligned", y0)
		}
		for y := y0; y < y1; y++ {
			rows[y]++
		}
	})
	for y, h := range rows {
		if h != 1 {
			t.Fatalf("row %d visited %d times", y, h)
		}
	}
}
