package components

import "math"

// Position is a real-valued coordinate in field space (cells).
type Position struct {
	X, Y float32
}

// DistSq returns the squared distance between two positions.
func (p Position) DistSq(o Position) float32 {
	dx := p.X - o.X
	dy := p.Y - o.Y
	return dx*dx + dy*dy
}

// Dist returns the distance between two positions.
func (p Position) Dist(o Position) float32 {
	return float32(math.Sqrt(float64(p.DistSq(o))))
}
