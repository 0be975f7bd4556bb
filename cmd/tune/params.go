package main

import (
	"github.com/pthm-cable/slime/config"
)

// ParamSpec defines a single optimizable parameter.
type ParamSpec struct {
	Name    string  // Human-readable name
	Path    string  // Config path for logging
	Min     float64 // Lower bound
	Max     float64 // Upper bound
	Default float64 // Default value
}

// ParamVector holds the set of all optimizable parameters.
type ParamVector struct {
	Specs []ParamSpec
}

// NewParamVector creates the tuned parameter set: the steering parameters of
// the first species and the trail field rates.
func NewParamVector() *ParamVector {
	return &ParamVector{
		Specs: []ParamSpec{
			// Species 0 steering
			{Name: "sensor_angle_offset", Path: "species[0].sensor_angle_offset", Min: 0.1, Max: 1.5, Default: 0.5236},
			{Name: "rotation_angle", Path: "species[0].rotation_angle", Min: 0.5, Max: 12, Default: 6},
			{Name: "sensor_distance", Path: "species[0].sensor_distance", Min: 2, Max: 30, Default: 9},
			{Name: "velocity", Path: "species[0].velocity", Min: 5, Max: 80, Default: 40},
			{Name: "trail_weight", Path: "species[0].trail_weight", Min: 0.5, Max: 15, Default: 5},
			// Trail field
			{Name: "decay_rate", Path: "trail.decay_rate", Min: 0.01, Max: 2, Default: 0.3},
			{Name: "diffuse_rate", Path: "trail.diffuse_rate", Min: 0, Max: 10, Default: 3},
		},
	}
}

// Dim returns the number of parameters.
func (pv *ParamVector) Dim() int {
	return len(pv.Specs)
}

// DefaultVector returns the default parameter values as a slice.
func (pv *ParamVector) DefaultVector() []float64 {
	v := make([]float64, len(pv.Specs))
	for i, spec := range pv.Specs {
		v[i] = spec.Default
	}
	return v
}

// FromConfig reads the current values of the tuned parameters from cfg.
func (pv *ParamVector) FromConfig(cfg *config.Config) []float64 {
	if len(cfg.Species) == 0 {
		return pv.DefaultVector()
	}
	sp := cfg.Species[0]
	return pv.Clamp([]float64{
		sp.SensorAngleOffset,
		sp.RotationAngle,
		sp.SensorDistance,
		sp.Velocity,
		sp.TrailWeight,
		cfg.Trail.DecayRate,
		cfg.Trail.DiffuseRate,
	})
}

// Normalize converts raw parameter values to [0,1] range.
func (pv *ParamVector) Normalize(raw []float64) []float64 {
	normalized := make([]float64, len(pv.Specs))
	for i, spec := range pv.Specs {
		normalized[i] = (raw[i] - spec.Min) / (spec.Max - spec.Min)
	}
	return normalized
}

// Denormalize converts [0,1] values back to raw parameter values.
func (pv *ParamVector) Denormalize(normalized []float64) []float64 {
	raw := make([]float64, len(pv.Specs))
	for i, spec := range pv.Specs {
		raw[i] = spec.Min + normalized[i]*(spec.Max-spec.Min)
	}
	return raw
}

// Clamp ensures all values are within bounds.
func (pv *ParamVector) Clamp(v []float64) []float64 {
	clamped := make([]float64, len(pv.Specs))
	for i, spec := range pv.Specs {
		clamped[i] = min(max(v[i], spec.Min), spec.Max)
	}
	return clamped
}

// ApplyToConfig applies parameter values to a Config struct.
// Order must match Specs order.
func (pv *ParamVector) ApplyToConfig(cfg *config.Config, values []float64) {
	if len(cfg.Species) == 0 {
		return
	}
	clamped := pv.Clamp(values)
	sp := &cfg.Species[0]

	sp.SensorAngleOffset = clamped[0]
	sp.RotationAngle = clamped[1]
	sp.SensorDistance = clamped[2]
	sp.Velocity = clamped[3]
	sp.TrailWeight = clamped[4]
	cfg.Trail.DecayRate = clamped[5]
	cfg.Trail.DiffuseRate = clamped[6]
}
