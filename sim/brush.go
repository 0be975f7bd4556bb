package sim

import (
	"errors"
	"fmt"
	"log/slog"

	"github.com/pthm-cable/slime/components"
	"github.com/pthm-cable/slime/population"
	"github.com/pthm-cable/slime/systems"
)

// Target selects what an erase brush removes.
type Target uint8

const (
	TargetAgents Target = 1 << iota
	TargetTrail
	TargetFood

	TargetAll = TargetAgents | TargetTrail | TargetFood
)

// ErrOutOfField is returned when an edit is placed outside the field.
var ErrOutOfField = errors.New("sim: position outside field")

// editAgents runs a population edit against current host state and pushes the
// result to the device. An edit refused as stale is retried once after
// pulling the device's state.
func (s *Simulation) editAgents(edit func() error) error {
	err := edit()
	var stale *population.StaleStateError
	if errors.As(err, &stale) {
		slog.Debug("resolving stale population", "op", stale.Op, "state", stale.State.String())
		if err := s.store.SyncFromDevice(); err != nil {
			return err
		}
		s.collector.RecordStaleResolved()
		err = edit()
	}
	if err != nil {
		// Push whatever was applied so the next tick is not refused.
		if s.store.State() == population.HostDirty {
			if syncErr := s.store.SyncToDevice(); syncErr != nil {
				return errors.Join(err, syncErr)
			}
		}
		return err
	}
	return s.store.SyncToDevice()
}

// AddAgentsInDisk places an agent at each cell centre within radius of center
// with probability density, and returns how many were added.
func (s *Simulation) AddAgentsInDisk(center components.Position, radius, density float32, speciesID uint8) (int, error) {
	if !s.species.Valid(speciesID) {
		return 0, &population.InvalidSpeciesError{ID: speciesID, Count: len(s.species)}
	}
	spawns := systems.DiskSpawns(s.grid, center.X, center.Y, radius, density, s.rng)
	if len(spawns) == 0 {
		return 0, nil
	}

	err := s.editAgents(func() error {
		for _, sp := range spawns {
			if err := s.store.AddAgent(sp.Pos, sp.Heading, speciesID, 1); err != nil {
				return err
			}
		}
		return nil
	})
	if err != nil {
		return 0, err
	}

	s.collector.RecordAgentsAdded(len(spawns))
	slog.Debug("agents added", "x", center.X, "y", center.Y, "radius", radius, "count", len(spawns), "species", speciesID)
	return len(spawns), nil
}

// EraseInDisk removes the selected targets within radius of center. It returns
// the number of agents removed.
func (s *Simulation) EraseInDisk(center components.Position, radius float32, targets Target) (int, error) {
	removed := 0
	if targets&TargetAgents != 0 {
		r2 := radius * radius
		err := s.editAgents(func() error {
			n, err := s.store.RemoveWhere(func(a *components.Agent) bool {
				return a.Pos.DistSq(center) <= r2
			})
			removed = n
			return err
		})
		if err != nil {
			return 0, err
		}
		s.collector.RecordAgentsErased(removed)
	}
	if targets&TargetTrail != 0 {
		s.grid.ClearTrailDisk(center.X, center.Y, radius)
	}
	if targets&TargetFood != 0 {
		if n := s.store.Food.RemoveInDisk(center.X, center.Y, radius); n > 0 {
			slog.Debug("food sources erased", "count", n)
		}
		// Re-raster for removed sources first, so the disk ends up clear either way.
		s.foodKernel.Sync(s.grid, s.store.Food, s.globals.FoodBrushRadius)
		s.grid.ClearFoodDisk(center.X, center.Y, radius)
	}
	return removed, nil
}

// AddFoodSource places a food source at the centre of the cell containing pos.
// A source already in that cell absorbs the new one. Non-positive strength or
// amount take the configured defaults.
func (s *Simulation) AddFoodSource(pos components.Position, strength, amount float32) error {
	cx, cy, ok := s.grid.CellAt(pos.X, pos.Y)
	if !ok {
		return fmt.Errorf("food source at (%.1f, %.1f): %w", pos.X, pos.Y, ErrOutOfField)
	}
	if strength <= 0 {
		strength = s.globals.FoodStrength
	}
	if amount <= 0 {
		amount = s.globals.FoodAmount
	}

	merged := s.store.Food.Add(components.FoodSource{
		Pos:      components.Position{X: float32(cx) + 0.5, Y: float32(cy) + 0.5},
		Strength: strength,
		Amount:   amount,
	})
	s.foodKernel.Sync(s.grid, s.store.Food, s.globals.FoodBrushRadius)
	s.collector.RecordFoodPlaced()

	slog.Debug("food source placed", "x", cx, "y", cy, "strength", strength, "amount", amount, "merged", merged)
	return nil
}

// ClearAll removes every agent and food source and zeroes both fields.
func (s *Simulation) ClearAll() error {
	n := s.device.Len()
	s.store.Clear()
	if err := s.store.SyncToDevice(); err != nil {
		return err
	}
	s.collector.RecordAgentsErased(n)
	s.store.Food.Clear()
	s.grid.ClearAll()
	s.foodKernel.Invalidate()
	slog.Info("cleared", "agents", n)
	return nil
}

// ClearFood removes every food source.
func (s *Simulation) ClearFood() {
	s.store.Food.Clear()
	s.grid.ClearFood()
	s.foodKernel.Invalidate()
}
