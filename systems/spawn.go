package systems

import (
	"fmt"
	"math"
	"math/rand"

	"github.com/ojrac/opensimplex-go"

	"github.com/pthm-cable/slime/components"
	"github.com/pthm-cable/slime/field"
)

// Spawn is a placement produced by a pattern: where an agent starts and where it faces.
type Spawn struct {
	Pos     components.Position
	Heading float32
}

// Pattern names accepted by SpawnPattern.
const (
	PatternCircle = "circle"
	PatternBurst  = "burst"
	PatternSpiral = "spiral"
	PatternRandom = "random"
	PatternNoise  = "noise"
)

// noiseScale and noiseThreshold shape the noise pattern's blobs.
const (
	noiseScale     = 0.015
	noiseThreshold = 0.62
)

// SpawnPattern generates n placements on a w x h field around its centre.
// All placements are inside the field.
func SpawnPattern(pattern string, n int, w, h int, radius float32, rng *rand.Rand) ([]Spawn, error) {
	cx, cy := float32(w)/2, float32(h)/2
	maxR := min(cx, cy)
	if radius <= 0 || radius > maxR {
		radius = maxR
	}
	out := make([]Spawn, 0, n)

	switch pattern {
	case PatternCircle:
		// Uniform in a disk, facing the centre.
		for i := 0; i < n; i++ {
			ang := rng.Float64() * 2 * math.Pi
			r := radius * float32(math.Sqrt(rng.Float64()))
			x := cx + r*float32(math.Cos(ang))
			y := cy + r*float32(math.Sin(ang))
			out = append(out, Spawn{
				Pos:     components.Position{X: x, Y: y},
				Heading: float32(math.Atan2(float64(cy-y), float64(cx-x))),
			})
		}

	case PatternBurst:
		// All at the centre, facing outward in every direction.
		for i := 0; i < n; i++ {
			out = append(out, Spawn{
				Pos:     components.Position{X: cx, Y: cy},
				Heading: float32(rng.Float64()*2*math.Pi - math.Pi),
			})
		}

	case PatternSpiral:
		// Archimedean spiral, three turns, heading along the tangent.
		const turns = 3
		for i := 0; i < n; i++ {
			t := (float64(i) + rng.Float64()) / float64(max(n, 1))
			ang := t * turns * 2 * math.Pi
			r := float64(radius) * t
			x := cx + float32(r*math.Cos(ang))
			y := cy + float32(r*math.Sin(ang))
			out = append(out, Spawn{
				Pos:     components.Position{X: x, Y: y},
				Heading: normalizeAngle(float32(math.Mod(ang+math.Pi/2, 2*math.Pi))),
			})
		}

	case PatternRandom:
		for i := 0; i < n; i++ {
			out = append(out, Spawn{
				Pos: components.Position{
					X: float32(rng.Float64()) * float32(w),
					Y: float32(rng.Float64()) * float32(h),
				},
				Heading: float32(rng.Float64()*2*math.Pi - math.Pi),
			})
		}

	case PatternNoise:
		// Rejection-sample positions where simplex noise is high.
		noise := opensimplex.NewNormalized(rng.Int63())
		for attempts := 0; len(out) < n && attempts < n*64; attempts++ {
			x := rng.Float64() * float64(w)
			y := rng.Float64() * float64(h)
			if noise.Eval2(x*noiseScale, y*noiseScale) < noiseThreshold {
				continue
			}
			out = append(out, Spawn{
				Pos:     components.Position{X: float32(x), Y: float32(y)},
				Heading: float32(rng.Float64()*2*math.Pi - math.Pi),
			})
		}

	default:
		return nil, fmt.Errorf("unknown spawn pattern %q", pattern)
	}

	for i := range out {
		out[i].Pos = ClampToField(out[i].Pos, w, h)
	}
	return out, nil
}

// DiskSpawns places an agent at the centre of each cell within r of (cx, cy)
// with the given probability.
func DiskSpawns(g *field.Grid, cx, cy, r, density float32, rng *rand.Rand) []Spawn {
	var out []Spawn
	g.ForDisk(cx, cy, r, func(x, y, _ int) {
		if density < 1 && rng.Float32() >= density {
			return
		}
		out = append(out, Spawn{
			Pos:     components.Position{X: float32(x) + 0.5, Y: float32(y) + 0.5},
			Heading: float32(rng.Float64()*2*math.Pi - math.Pi),
		})
	})
	return out
}

// ClampToField keeps p inside [0, w) x [0, h).
func ClampToField(p components.Position, w, h int) components.Position {
	fw, fh := float32(w), float32(h)
	p.X = min(max(p.X, 0), math.Nextafter32(fw, 0))
	p.Y = min(max(p.Y, 0), math.Nextafter32(fh, 0))
	return p
}
