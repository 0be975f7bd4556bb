// Package population is the authoritative store of agents and food sources.
//
// The store keeps the host copy of the agent list and tracks how it relates to
// the working set held by the parallel execution domain (the Device). Edits are
// only legal between ticks, and only when the host copy is current.
package population

import (
	"math"

	"github.com/pthm-cable/slime/components"
)

// SyncState tracks which copy of the population is current.
type SyncState uint8

const (
	// Synced: host and device hold the same agents.
	Synced SyncState = iota
	// HostDirty: host edits have not been pushed to the device.
	HostDirty
	// DeviceAhead: a kernel pass ran since the host last pulled.
	DeviceAhead
)

func (s SyncState) String() string {
	switch s {
	case Synced:
		return "synced"
	case HostDirty:
		return "host-dirty"
	case DeviceAhead:
		return "device-ahead"
	}
	return "unknown"
}

// Device is the parallel execution domain's copy of the agent list.
type Device interface {
	// Upload replaces the device working set with agents.
	Upload(agents []components.Agent)
	// Download appends the device working set to dst and returns it.
	Download(dst []components.Agent) []components.Agent
}

// Store is the Agent Population Store.
type Store struct {
	agents     []components.Agent
	numSpecies int
	device     Device
	state      SyncState

	Food *FoodSet
}

// NewStore creates an empty store bound to a device.
func NewStore(device Device, numSpecies int) *Store {
	return &Store{
		device:     device,
		numSpecies: numSpecies,
		Food:       NewFoodSet(),
	}
}

// State returns the current sync state.
func (s *Store) State() SyncState { return s.state }

// Len returns the number of agents. The count is the same in both copies.
func (s *Store) Len() int { return len(s.agents) }

// SetSpeciesCount updates the table size used to validate new agents.
func (s *Store) SetSpeciesCount(n int) { s.numSpecies = n }

// Agents returns the host copy. It is stale while State() is DeviceAhead.
// Callers must not retain the slice across edits.
func (s *Store) Agents() []components.Agent { return s.agents }

// AddAgent appends an agent to the host copy. The heading is wrapped to [-pi, pi].
func (s *Store) AddAgent(pos components.Position, heading float32, speciesID uint8, hunger float32) error {
	if int(speciesID) >= s.numSpecies {
		return &InvalidSpeciesError{ID: speciesID, Count: s.numSpecies}
	}
	h, err := NormalizeHeading(heading)
	if err != nil {
		return err
	}
	if s.state == DeviceAhead {
		return &StaleStateError{Op: "add agent", State: s.state}
	}
	s.agents = append(s.agents, components.Agent{
		Pos:       pos,
		Heading:   h,
		SpeciesID: speciesID,
		Hunger:    clamp01(hunger),
	})
	s.state = HostDirty
	return nil
}

// RemoveWhere removes every agent matching pred by swap-remove and returns the count.
// Iteration order of the remaining agents changes.
func (s *Store) RemoveWhere(pred func(a *components.Agent) bool) (int, error) {
	if s.state == DeviceAhead {
		return 0, &StaleStateError{Op: "remove agents", State: s.state}
	}
	removed := 0
	for i := 0; i < len(s.agents); {
		if pred(&s.agents[i]) {
			last := len(s.agents) - 1
			s.agents[i] = s.agents[last]
			s.agents = s.agents[:last]
			removed++
			continue
		}
		i++
	}
	if removed > 0 {
		s.state = HostDirty
	}
	return removed, nil
}

// Update applies fn to every host agent in place.
func (s *Store) Update(fn func(a *components.Agent)) error {
	if s.state == DeviceAhead {
		return &StaleStateError{Op: "update agents", State: s.state}
	}
	for i := range s.agents {
		fn(&s.agents[i])
	}
	if len(s.agents) > 0 {
		s.state = HostDirty
	}
	return nil
}

// Clear empties the population. Device progress is irrelevant, so it is allowed in any state.
func (s *Store) Clear() {
	s.agents = s.agents[:0]
	s.state = HostDirty
}

// SyncToDevice pushes the host copy to the device.
// It refuses while the device is ahead, since that would roll back simulated state.
func (s *Store) SyncToDevice() error {
	if s.state == DeviceAhead {
		return &StaleStateError{Op: "sync to device", State: s.state}
	}
	s.device.Upload(s.agents)
	s.state = Synced
	return nil
}

// SyncFromDevice pulls the device working set into the host copy.
// It refuses while host edits are pending, since they would be lost.
func (s *Store) SyncFromDevice() error {
	if s.state == HostDirty {
		return &StaleStateError{Op: "sync from device", State: s.state}
	}
	s.agents = s.device.Download(s.agents[:0])
	s.state = Synced
	return nil
}

// BeginPass checks that the device holds every host edit.
func (s *Store) BeginPass() error {
	if s.state == HostDirty {
		return &StaleStateError{Op: "tick", State: s.state}
	}
	return nil
}

// MarkDeviceAdvanced records that a kernel pass mutated the device working set.
func (s *Store) MarkDeviceAdvanced() {
	s.state = DeviceAhead
}

// NormalizeHeading wraps a heading to [-pi, pi] and rejects NaN and infinities.
func NormalizeHeading(heading float32) (float32, error) {
	h := float64(heading)
	if math.IsNaN(h) || math.IsInf(h, 0) {
		return 0, ErrNonFiniteHeading
	}
	return float32(math.Remainder(h, 2*math.Pi)), nil
}

func clamp01(v float32) float32 {
	if v < 0 {
		return 0
	}
	if v > 1 {
		return 1
	}
	return v
}
