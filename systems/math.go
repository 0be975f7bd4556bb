package systems

import "math"

// clamp01 clamps a float32 value to the [0, 1] range.
func clamp01(v float32) float32 {
	if v < 0 {
		return 0
	}
	if v > 1 {
		return 1
	}
	return v
}

// normalizeAngle wraps angle to [-pi, pi]. One step covers the per-tick turn;
// anything further out falls back to a full remainder.
func normalizeAngle(a float32) float32 {
	if a > math.Pi {
		a -= 2 * math.Pi
	} else if a < -math.Pi {
		a += 2 * math.Pi
	}
	if a > math.Pi || a < -math.Pi {
		a = float32(math.Remainder(float64(a), 2*math.Pi))
	}
	return a
}

// Fast math functions for hot-path steering calculations.
// These avoid float32->float64 conversions that Go's math package requires.

// fastSin approximates sin(x) using a polynomial. Accurate to ~0.001 for all x.
func fastSin(x float32) float32 {
	if x > math.Pi || x < -math.Pi {
		x = float32(math.Remainder(float64(x), 2*math.Pi))
	}
	const pi = math.Pi
	const pi2 = pi * pi
	ax := x
	if ax < 0 {
		ax = -ax
	}
	y := 4 * x * (pi - ax) / pi2
	// Correction: improves accuracy
	return 0.225*(y*absf(y)-y) + y
}

// fastCos approximates cos(x) using fastSin.
func fastCos(x float32) float32 {
	return fastSin(x + math.Pi/2)
}

func absf(x float32) float32 {
	if x < 0 {
		return -x
	}
	return x
}

// hash01 generates a pseudo-random float in [0,1) from a seed, a tick and a slot.
// Pure, so every worker sees the same value regardless of scheduling.
func hash01(seed uint32, tick uint64, slot int) float32 {
	h := uint32(slot)*374761393 + uint32(tick)*668265263 + uint32(tick>>32)*2246822519 + seed*1442695041
	h = (h ^ (h >> 13)) * 1274126177
	h ^= (h >> 16)
	return float32(h&0x00FFFFFF) / float32(0x01000000)
}
