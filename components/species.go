package components

import (
	"fmt"
	"image/color"
	"sort"

	"github.com/pthm-cable/slime/config"
)

// HungerCoupling maps an agent's hunger to multipliers on its speed and deposit.
// It must be pure: it runs concurrently from every worker.
type HungerCoupling func(hunger float32) (speedScale, depositScale float32)

var hungerCouplings = map[string]HungerCoupling{
	"none": func(float32) (float32, float32) { return 1, 1 },
	"slow": func(h float32) (float32, float32) { return 0.5 + 0.5*h, 1 },
	"faint": func(h float32) (float32, float32) {
		return 1, 0.25 + 0.75*h
	},
	"starve": func(h float32) (float32, float32) {
		return 0.5 + 0.5*h, 0.25 + 0.75*h
	},
}

// LookupHungerCoupling returns the coupling registered under name.
func LookupHungerCoupling(name string) (HungerCoupling, bool) {
	fn, ok := hungerCouplings[name]
	return fn, ok
}

// RegisterHungerCoupling adds or replaces a named coupling.
// Call during initialization only; the registry is not synchronized.
func RegisterHungerCoupling(name string, fn HungerCoupling) {
	hungerCouplings[name] = fn
}

// HungerCouplingNames returns the registered coupling names in sorted order.
func HungerCouplingNames() []string {
	names := make([]string, 0, len(hungerCouplings))
	for name := range hungerCouplings {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}

// Species is one row of the flat species table.
type Species struct {
	Name              string
	SensorAngleOffset float32
	RotationAngle     float32
	SensorDistance    float32
	Velocity          float32
	TrailWeight       float32
	HungerDecayRate   float32
	Coupling          string
	Color             color.RGBA

	hunger HungerCoupling
}

// Hunger returns the species' hunger coupling, defaulting to "none".
func (s *Species) Hunger() HungerCoupling {
	if s.hunger == nil {
		return hungerCouplings["none"]
	}
	return s.hunger
}

// SetCoupling selects a registered hunger coupling by name.
func (s *Species) SetCoupling(name string) error {
	fn, ok := LookupHungerCoupling(name)
	if !ok {
		return fmt.Errorf("unknown hunger coupling %q", name)
	}
	s.Coupling = name
	s.hunger = fn
	return nil
}

// SpeciesTable is indexed by Agent.SpeciesID.
type SpeciesTable []Species

// Clone returns a deep copy, so edits can be staged without touching the live table.
func (t SpeciesTable) Clone() SpeciesTable {
	out := make(SpeciesTable, len(t))
	copy(out, t)
	return out
}

// Valid reports whether id indexes a species.
func (t SpeciesTable) Valid(id uint8) bool {
	return int(id) < len(t)
}

// MaxSpecies is the largest table an agent's uint8 species id can index.
const MaxSpecies = 256

// SpeciesFromConfig builds the species table from config entries.
func SpeciesFromConfig(entries []config.SpeciesConfig) (SpeciesTable, error) {
	if len(entries) > MaxSpecies {
		return nil, fmt.Errorf("species table has %d entries, max %d", len(entries), MaxSpecies)
	}
	table := make(SpeciesTable, len(entries))
	for i, e := range entries {
		sp := Species{
			Name:              e.Name,
			SensorAngleOffset: float32(e.SensorAngleOffset),
			RotationAngle:     float32(e.RotationAngle),
			SensorDistance:    float32(e.SensorDistance),
			Velocity:          float32(e.Velocity),
			TrailWeight:       float32(e.TrailWeight),
			HungerDecayRate:   float32(e.HungerDecayRate),
			Color:             config.RGBA(e.Color),
		}
		coupling := e.HungerCoupling
		if coupling == "" {
			coupling = "none"
		}
		if err := sp.SetCoupling(coupling); err != nil {
			return nil, fmt.Errorf("species %q: %w", e.Name, err)
		}
		table[i] = sp
	}
	return table, nil
}

// ToConfig converts the table back to config entries for persistence.
func (t SpeciesTable) ToConfig() []config.SpeciesConfig {
	out := make([]config.SpeciesConfig, len(t))
	for i, sp := range t {
		out[i] = config.SpeciesConfig{
			Name:              sp.Name,
			SensorAngleOffset: float64(sp.SensorAngleOffset),
			RotationAngle:     float64(sp.RotationAngle),
			SensorDistance:    float64(sp.SensorDistance),
			Velocity:          float64(sp.Velocity),
			TrailWeight:       float64(sp.TrailWeight),
			HungerDecayRate:   float64(sp.HungerDecayRate),
			HungerCoupling:    sp.Coupling,
			Color: []float64{
				float64(sp.Color.R) / 255, float64(sp.Color.G) / 255,
				float64(sp.Color.B) / 255, float64(sp.Color.A) / 255,
			},
		}
	}
	return out
}
