package sim

import (
	"fmt"
	"log/slog"

	"github.com/pthm-cable/slime/components"
	"github.com/pthm-cable/slime/population"
	"github.com/pthm-cable/slime/systems"
	"github.com/pthm-cable/slime/telemetry"
)

// Resize reallocates the fields at the new dimensions. Trail and food cell
// values are discarded; agents are clamped into the new bounds and food
// sources outside them are dropped. On error nothing changes.
func (s *Simulation) Resize(width, height int) error {
	if width == s.grid.Width() && height == s.grid.Height() {
		return nil
	}
	if err := s.grid.Resize(width, height); err != nil {
		return err
	}

	err := s.editAgents(func() error {
		return s.store.Update(func(a *components.Agent) {
			a.Pos = systems.ClampToField(a.Pos, width, height)
		})
	})
	if err != nil {
		return err
	}

	fw, fh := float32(width), float32(height)
	dropped := s.store.Food.RemoveWhere(func(src components.FoodSource) bool {
		return src.Pos.X >= fw || src.Pos.Y >= fh
	})
	s.foodKernel.Invalidate()
	s.foodKernel.Sync(s.grid, s.store.Food, s.globals.FoodBrushRadius)
	s.frame = nil

	slog.Info("field resized", "width", width, "height", height, "food_dropped", dropped)
	return nil
}

// Snapshot captures the persisted state: dimensions, species table, agents and food.
func (s *Simulation) Snapshot() (*telemetry.Snapshot, error) {
	agents, err := s.Agents()
	if err != nil {
		return nil, err
	}
	return &telemetry.Snapshot{
		Version: telemetry.SnapshotVersion,
		RNGSeed: s.seed,
		Tick:    s.tick,
		Width:   s.grid.Width(),
		Height:  s.grid.Height(),
		Species: s.species.ToConfig(),
		Agents:  telemetry.AgentStates(agents),
		Food:    s.store.Food.Sources(),
	}, nil
}

// Restore replaces the simulation state with a snapshot. Fields start empty;
// the trail rebuilds from deposits. On error nothing changes.
func (s *Simulation) Restore(snap *telemetry.Snapshot) error {
	species, err := components.SpeciesFromConfig(snap.Species)
	if err != nil {
		return fmt.Errorf("restoring species: %w", err)
	}
	if len(species) == 0 {
		return fmt.Errorf("restoring species: snapshot has an empty species table")
	}
	for _, st := range snap.Agents {
		if !species.Valid(st.Species) {
			return &population.InvalidSpeciesError{ID: st.Species, Count: len(species)}
		}
		if _, err := population.NormalizeHeading(st.Heading); err != nil {
			return fmt.Errorf("restoring agents: %w", err)
		}
	}
	if snap.Width != s.grid.Width() || snap.Height != s.grid.Height() {
		if err := s.grid.Resize(snap.Width, snap.Height); err != nil {
			return err
		}
	} else {
		s.grid.ClearAll()
	}

	s.species = species
	s.pending = s.pending[:0]
	s.store.SetSpeciesCount(len(species))
	s.store.Clear()
	for _, st := range snap.Agents {
		a := st.Agent()
		pos := systems.ClampToField(a.Pos, snap.Width, snap.Height)
		if err := s.store.AddAgent(pos, a.Heading, a.SpeciesID, a.Hunger); err != nil {
			return err
		}
	}
	if err := s.store.SyncToDevice(); err != nil {
		return err
	}

	s.store.Food.Clear()
	for _, src := range snap.Food {
		s.store.Food.Add(src)
	}
	s.foodKernel.Invalidate()
	s.foodKernel.Sync(s.grid, s.store.Food, s.globals.FoodBrushRadius)

	s.tick = snap.Tick
	s.frame = nil

	slog.Info("snapshot restored",
		"tick", snap.Tick,
		"width", snap.Width,
		"height", snap.Height,
		"agents", len(snap.Agents),
		"food", len(snap.Food),
	)
	return nil
}

// SaveSnapshot writes a snapshot to dir and returns its path.
func (s *Simulation) SaveSnapshot(dir string) (string, error) {
	snap, err := s.Snapshot()
	if err != nil {
		return "", err
	}
	return telemetry.SaveSnapshot(snap, dir)
}

// LoadSnapshot reads a snapshot file and restores it.
func (s *Simulation) LoadSnapshot(path string) error {
	snap, err := telemetry.LoadSnapshot(path)
	if err != nil {
		return err
	}
	return s.Restore(snap)
}
