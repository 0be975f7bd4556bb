package systems

import (
	"errors"
	"math"

	"github.com/pthm-cable/slime/components"
	"github.com/pthm-cable/slime/field"
)

// ErrNoField is returned when a pass is dispatched without a valid grid.
var ErrNoField = errors.New("systems: pass dispatched without a field grid")

// StepParams carries per-tick globals into the steering pass.
type StepParams struct {
	DT                float32
	Tick              uint64
	Seed              uint32
	SenseWeight       float32 // trail weight in sensor samples
	AttractionWeight  float32 // food attraction weight in sensor samples
	FeedRate          float32 // hunger restored per second on a food cell
	TrackVisits       bool    // record food visits for depletion
	ConsumptionRadius int
}

// Steering is the sensing and steering kernel.
type Steering struct {
	pool *Pool
}

// NewSteering creates a steering kernel on a worker pool.
func NewSteering(pool *Pool) *Steering {
	return &Steering{pool: pool}
}

// Step advances every agent by one tick. Agents are mutated in place; deposits
// land in the grid's accumulator and must be merged before diffusion.
// An empty population is a no-op.
func (s *Steering) Step(g *field.Grid, agents []components.Agent, species components.SpeciesTable, p StepParams) error {
	if len(agents) == 0 {
		return nil
	}
	if g == nil || len(g.Trail()) != g.Width()*g.Height() {
		return ErrNoField
	}
	s.pool.For(len(agents), func(start, end, _ int) {
		trail := g.Trail()
		for i := start; i < end; i++ {
			a := &agents[i]
			steerAgent(a, i, &species[a.SpeciesID], g, trail, &p)
		}
	})
	return nil
}

// sense reads the weighted trail and food value at a point ahead of (x, y).
// Out-of-bounds samples read 0.
func sense(g *field.Grid, trail []float32, x, y, angle, dist float32, p *StepParams) float32 {
	cx, cy, ok := g.CellAt(x+fastCos(angle)*dist, y+fastSin(angle)*dist)
	if !ok {
		return 0
	}
	i := g.Index(cx, cy)
	return trail[i]*p.SenseWeight + g.Food.Attraction[i]*p.AttractionWeight
}

func steerAgent(a *components.Agent, slot int, sp *components.Species, g *field.Grid, trail []float32, p *StepParams) {
	heading := a.Heading
	x, y := a.Pos.X, a.Pos.Y
	dt := p.DT

	// Three sensors: left is counter-clockwise from the heading.
	center := sense(g, trail, x, y, heading, sp.SensorDistance, p)
	left := sense(g, trail, x, y, heading+sp.SensorAngleOffset, sp.SensorDistance, p)
	right := sense(g, trail, x, y, heading-sp.SensorAngleOffset, sp.SensorDistance, p)

	turn := sp.RotationAngle * hash01(p.Seed, p.Tick, slot) * dt
	switch {
	case center > left && center > right:
	case left > right:
		heading += turn
	case right > left:
		heading -= turn
	}
	heading = normalizeAngle(heading)

	speedScale, depositScale := sp.Hunger()(a.Hunger)
	step := sp.Velocity * speedScale * dt
	x += fastCos(heading) * step
	y += fastSin(heading) * step

	// Reflect off the walls and clamp inside [0, size).
	w, h := float32(g.Width()), float32(g.Height())
	if x < 0 {
		x = 0
		heading = math.Pi - heading
	} else if x >= w {
		x = math.Nextafter32(w, 0)
		heading = math.Pi - heading
	}
	if y < 0 {
		y = 0
		heading = -heading
	} else if y >= h {
		y = math.Nextafter32(h, 0)
		heading = -heading
	}
	heading = normalizeAngle(heading)

	cx, cy := int(x), int(y)
	i := g.Index(cx, cy)
	g.Deposit(i, sp.TrailWeight*depositScale*dt)

	hunger := a.Hunger - sp.HungerDecayRate*dt
	if hunger < 0 {
		hunger = 0
	}
	if g.Food.Amount[i] > 0 {
		hunger = min(hunger+p.FeedRate*dt, 1)
	}
	if p.TrackVisits {
		recordVisits(g, cx, cy, p.ConsumptionRadius)
	}

	a.Pos.X, a.Pos.Y = x, y
	a.Heading = heading
	a.Hunger = hunger
}

// recordVisits marks food cells within r cells of (cx, cy) as visited.
func recordVisits(g *field.Grid, cx, cy, r int) {
	amount := g.Food.Amount
	r2 := r * r
	for dy := -r; dy <= r; dy++ {
		y := cy + dy
		if y < 0 || y >= g.Height() {
			continue
		}
		for dx := -r; dx <= r; dx++ {
			x := cx + dx
			if x < 0 || x >= g.Width() || dx*dx+dy*dy > r2 {
				continue
			}
			i := g.Index(x, y)
			if amount[i] > 0 {
				g.RecordVisit(i)
			}
		}
	}
}
