package sim

import (
	"errors"
	"fmt"
	"log/slog"
	"math"
	"sort"
	"strconv"
	"strings"

	"github.com/pthm-cable/slime/components"
	"github.com/pthm-cable/slime/config"
	"github.com/pthm-cable/slime/population"
)

// ErrUnknownParameter is returned for a parameter name that does not exist.
var ErrUnknownParameter = errors.New("sim: unknown parameter")

// ErrInvalidValue is returned for NaN parameter values.
var ErrInvalidValue = errors.New("sim: invalid parameter value")

// PrecisionWarning reports user text that could not be used as a parameter
// value. The previous value is kept.
type PrecisionWarning struct {
	Param string
	Input string
	Kept  float64
	Cause error
}

func (w *PrecisionWarning) Error() string {
	return fmt.Sprintf("parameter %s: rejected input %q, keeping %g: %v", w.Param, w.Input, w.Kept, w.Cause)
}

func (w *PrecisionWarning) Unwrap() error { return w.Cause }

// Globals are the simulation-wide parameters that can change while running.
type Globals struct {
	DecayRate        float32
	DiffuseRate      float32
	MaxValue         float32
	DisplayMax       float32
	SenseWeight      float32
	AttractionWeight float32
	FeedRate         float32

	DepletionEnabled  bool
	DepletionRate     float32
	FoodBrushRadius   int
	ConsumptionRadius int
	FoodStrength      float32
	FoodAmount        float32

	AgentRadius  float32
	AgentDensity float32
	EraseRadius  float32
}

func globalsFromConfig(cfg *config.Config) Globals {
	return Globals{
		DecayRate:         float32(cfg.Trail.DecayRate),
		DiffuseRate:       float32(cfg.Trail.DiffuseRate),
		MaxValue:          float32(cfg.Trail.MaxValue),
		DisplayMax:        float32(cfg.Trail.DisplayMax),
		SenseWeight:       float32(cfg.Trail.SenseWeight),
		AttractionWeight:  float32(cfg.Food.AttractionWeight),
		FeedRate:          float32(cfg.Food.FeedRate),
		DepletionEnabled:  cfg.Food.DepletionEnabled,
		DepletionRate:     float32(cfg.Food.DepletionRate),
		FoodBrushRadius:   cfg.Food.BrushRadius,
		ConsumptionRadius: cfg.Food.ConsumptionRadius,
		FoodStrength:      float32(cfg.Food.DefaultStrength),
		FoodAmount:        float32(cfg.Food.DefaultAmount),
		AgentRadius:       float32(cfg.Brush.AgentRadius),
		AgentDensity:      float32(cfg.Brush.AgentDensity),
		EraseRadius:       float32(cfg.Brush.EraseRadius),
	}
}

// param reads and writes one numeric parameter. Values are clamped to [lo, hi].
type param[T any] struct {
	get    func(*T) float64
	set    func(*T, float64)
	lo, hi float64
}

func f32[T any](ref func(*T) *float32, lo, hi float64) param[T] {
	return param[T]{
		get: func(t *T) float64 { return float64(*ref(t)) },
		set: func(t *T, v float64) { *ref(t) = float32(v) },
		lo:  lo,
		hi:  hi,
	}
}

func integer[T any](ref func(*T) *int, lo, hi float64) param[T] {
	return param[T]{
		get: func(t *T) float64 { return float64(*ref(t)) },
		set: func(t *T, v float64) { *ref(t) = int(math.Round(v)) },
		lo:  lo,
		hi:  hi,
	}
}

func flag[T any](ref func(*T) *bool) param[T] {
	return param[T]{
		get: func(t *T) float64 {
			if *ref(t) {
				return 1
			}
			return 0
		},
		set: func(t *T, v float64) { *ref(t) = v != 0 },
		lo:  0,
		hi:  1,
	}
}

var inf = math.Inf(1)

var globalParams = map[string]param[Globals]{
	"decay_rate":         f32(func(g *Globals) *float32 { return &g.DecayRate }, 0, inf),
	"diffuse_rate":       f32(func(g *Globals) *float32 { return &g.DiffuseRate }, 0, inf),
	"max_value":          f32(func(g *Globals) *float32 { return &g.MaxValue }, 1e-6, math.MaxFloat32),
	"display_max":        f32(func(g *Globals) *float32 { return &g.DisplayMax }, 1e-6, math.MaxFloat32),
	"sense_weight":       f32(func(g *Globals) *float32 { return &g.SenseWeight }, -math.MaxFloat32, math.MaxFloat32),
	"attraction_weight":  f32(func(g *Globals) *float32 { return &g.AttractionWeight }, -math.MaxFloat32, math.MaxFloat32),
	"feed_rate":          f32(func(g *Globals) *float32 { return &g.FeedRate }, 0, inf),
	"depletion_enabled":  flag(func(g *Globals) *bool { return &g.DepletionEnabled }),
	"depletion_rate":     f32(func(g *Globals) *float32 { return &g.DepletionRate }, 0, inf),
	"food_brush_radius":  integer(func(g *Globals) *int { return &g.FoodBrushRadius }, 0, 256),
	"consumption_radius": integer(func(g *Globals) *int { return &g.ConsumptionRadius }, 0, 16),
	"food_strength":      f32(func(g *Globals) *float32 { return &g.FoodStrength }, 0, math.MaxFloat32),
	"food_amount":        f32(func(g *Globals) *float32 { return &g.FoodAmount }, 0, math.MaxFloat32),
	"agent_radius":       f32(func(g *Globals) *float32 { return &g.AgentRadius }, 0, 4096),
	"agent_density":      f32(func(g *Globals) *float32 { return &g.AgentDensity }, 0, 1),
	"erase_radius":       f32(func(g *Globals) *float32 { return &g.EraseRadius }, 0, 4096),
}

var speciesParams = map[string]param[components.Species]{
	"sensor_angle_offset": f32(func(s *components.Species) *float32 { return &s.SensorAngleOffset }, 0, math.Pi),
	"rotation_angle":      f32(func(s *components.Species) *float32 { return &s.RotationAngle }, 0, 1000),
	"sensor_distance":     f32(func(s *components.Species) *float32 { return &s.SensorDistance }, 0, 1024),
	"velocity":            f32(func(s *components.Species) *float32 { return &s.Velocity }, 0, 10000),
	"trail_weight":        f32(func(s *components.Species) *float32 { return &s.TrailWeight }, 0, math.MaxFloat32),
	"hunger_decay_rate":   f32(func(s *components.Species) *float32 { return &s.HungerDecayRate }, 0, inf),
}

// GlobalParameterNames returns the settable global parameter names, sorted.
func GlobalParameterNames() []string { return sortedKeys(globalParams) }

// SpeciesParameterNames returns the settable per-species parameter names, sorted.
func SpeciesParameterNames() []string { return sortedKeys(speciesParams) }

func sortedKeys[V any](m map[string]V) []string {
	names := make([]string, 0, len(m))
	for name := range m {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}

// paramEdit is a queued change applied at the next tick boundary.
// species < 0 addresses the globals.
type paramEdit struct {
	species  int
	name     string
	value    float64
	coupling string
}

// SetGlobalParameter queues a global parameter change for the next tick.
func (s *Simulation) SetGlobalParameter(name string, value float64) error {
	if _, ok := globalParams[name]; !ok {
		return fmt.Errorf("global %q: %w", name, ErrUnknownParameter)
	}
	if math.IsNaN(value) {
		return fmt.Errorf("global %q: %w", name, ErrInvalidValue)
	}
	s.pending = append(s.pending, paramEdit{species: -1, name: name, value: value})
	return nil
}

// SetSpeciesParameter queues a species parameter change for the next tick.
func (s *Simulation) SetSpeciesParameter(speciesID uint8, name string, value float64) error {
	if !s.species.Valid(speciesID) {
		return &population.InvalidSpeciesError{ID: speciesID, Count: len(s.species)}
	}
	if _, ok := speciesParams[name]; !ok {
		return fmt.Errorf("species %q: %w", name, ErrUnknownParameter)
	}
	if math.IsNaN(value) {
		return fmt.Errorf("species %q: %w", name, ErrInvalidValue)
	}
	s.pending = append(s.pending, paramEdit{species: int(speciesID), name: name, value: value})
	return nil
}

// SetSpeciesCoupling queues a change of a species' hunger coupling.
func (s *Simulation) SetSpeciesCoupling(speciesID uint8, coupling string) error {
	if !s.species.Valid(speciesID) {
		return &population.InvalidSpeciesError{ID: speciesID, Count: len(s.species)}
	}
	if _, ok := components.LookupHungerCoupling(coupling); !ok {
		return fmt.Errorf("hunger coupling %q: %w", coupling, ErrUnknownParameter)
	}
	s.pending = append(s.pending, paramEdit{species: int(speciesID), name: "hunger_coupling", coupling: coupling})
	return nil
}

// GlobalParameter returns the live value of a global parameter.
func (s *Simulation) GlobalParameter(name string) (float64, error) {
	p, ok := globalParams[name]
	if !ok {
		return 0, fmt.Errorf("global %q: %w", name, ErrUnknownParameter)
	}
	return p.get(&s.globals), nil
}

// SpeciesParameter returns the live value of a species parameter.
func (s *Simulation) SpeciesParameter(speciesID uint8, name string) (float64, error) {
	if !s.species.Valid(speciesID) {
		return 0, &population.InvalidSpeciesError{ID: speciesID, Count: len(s.species)}
	}
	p, ok := speciesParams[name]
	if !ok {
		return 0, fmt.Errorf("species %q: %w", name, ErrUnknownParameter)
	}
	return p.get(&s.species[speciesID]), nil
}

// SetGlobalParameterText parses text typed into a control field. Text that is
// not a finite float32 yields a PrecisionWarning and leaves the value unchanged.
func (s *Simulation) SetGlobalParameterText(name, text string) (*PrecisionWarning, error) {
	kept, err := s.GlobalParameter(name)
	if err != nil {
		return nil, err
	}
	v, warn := s.parseParamText(name, text, kept)
	if warn != nil {
		return warn, nil
	}
	return nil, s.SetGlobalParameter(name, v)
}

// SetSpeciesParameterText is SetGlobalParameterText for a species parameter.
func (s *Simulation) SetSpeciesParameterText(speciesID uint8, name, text string) (*PrecisionWarning, error) {
	kept, err := s.SpeciesParameter(speciesID, name)
	if err != nil {
		return nil, err
	}
	v, warn := s.parseParamText(name, text, kept)
	if warn != nil {
		return warn, nil
	}
	return nil, s.SetSpeciesParameter(speciesID, name, v)
}

func (s *Simulation) parseParamText(name, text string, kept float64) (float64, *PrecisionWarning) {
	v, err := strconv.ParseFloat(strings.TrimSpace(text), 32)
	if err == nil && (math.IsNaN(v) || math.IsInf(v, 0)) {
		err = ErrInvalidValue
	}
	if err != nil {
		warn := &PrecisionWarning{Param: name, Input: text, Kept: kept, Cause: err}
		s.collector.RecordParamRejected()
		slog.Warn("parameter input rejected", "param", name, "input", text, "kept", kept, "error", err)
		return 0, warn
	}
	return v, nil
}

// PendingParameters returns the number of queued parameter edits.
func (s *Simulation) PendingParameters() int { return len(s.pending) }

// ApplyPending applies queued parameter edits. Tick calls it at the start of
// every pass; a paused front end calls it directly.
func (s *Simulation) ApplyPending() { s.applyPending() }

func (s *Simulation) applyPending() {
	if len(s.pending) == 0 {
		return
	}
	for _, e := range s.pending {
		if e.species < 0 {
			p := globalParams[e.name]
			p.set(&s.globals, clampParam(e.value, p.lo, p.hi))
			if e.name == "food_brush_radius" {
				s.foodKernel.Invalidate()
			}
			slog.Debug("global parameter applied", "param", e.name, "value", p.get(&s.globals))
			continue
		}
		sp := &s.species[e.species]
		if e.name == "hunger_coupling" {
			if err := sp.SetCoupling(e.coupling); err != nil {
				slog.Error("hunger coupling rejected", "species", sp.Name, "error", err)
			}
			continue
		}
		p := speciesParams[e.name]
		p.set(sp, clampParam(e.value, p.lo, p.hi))
		slog.Debug("species parameter applied", "species", sp.Name, "param", e.name, "value", p.get(sp))
	}
	s.pending = s.pending[:0]
}

func clampParam(v, lo, hi float64) float64 {
	return math.Min(math.Max(v, lo), hi)
}
