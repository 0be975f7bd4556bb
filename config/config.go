// Package config provides configuration loading and access for the simulation.
package config

import (
	_ "embed"
	"errors"
	"fmt"
	"image/color"
	"os"

	"gopkg.in/yaml.v3"
)

//go:embed defaults.yaml
var defaultsYAML []byte

// Config holds all simulation configuration parameters.
type Config struct {
	Screen     ScreenConfig     `yaml:"screen"`
	Field      FieldConfig      `yaml:"field"`
	Sim        SimConfig        `yaml:"sim"`
	Trail      TrailConfig      `yaml:"trail"`
	Food       FoodConfig       `yaml:"food"`
	Brush      BrushConfig      `yaml:"brush"`
	Population PopulationConfig `yaml:"population"`
	Species    []SpeciesConfig  `yaml:"species"`
	Telemetry  TelemetryConfig  `yaml:"telemetry"`

	// Derived values computed after loading
	Derived DerivedConfig `yaml:"-"`
}

// ScreenConfig holds display settings for the graphical front end.
type ScreenConfig struct {
	Width     int `yaml:"width"`
	Height    int `yaml:"height"`
	TargetFPS int `yaml:"target_fps"`
	PanelW    int `yaml:"panel_width"` // Width reserved for the control panel
}

// FieldConfig holds grid dimensions. Width and height must be multiples of TileSize.
type FieldConfig struct {
	Width    int `yaml:"width"`
	Height   int `yaml:"height"`
	TileSize int `yaml:"tile_size"`
	MaxCells int `yaml:"max_cells"` // Allocation ceiling; larger grids fail with AllocationError
}

// SimConfig holds stepping parameters.
type SimConfig struct {
	DT           float64 `yaml:"dt"`
	SimsPerFrame int     `yaml:"sims_per_frame"`
	Seed         int64   `yaml:"seed"`
}

// TrailConfig holds pheromone field parameters.
type TrailConfig struct {
	DecayRate   float64 `yaml:"decay_rate"`   // Exponential decay per second
	DiffuseRate float64 `yaml:"diffuse_rate"` // Blend toward 3x3 mean per second
	MaxValue    float64 `yaml:"max_value"`    // Saturation ceiling for deposits
	DisplayMax  float64 `yaml:"display_max"`  // Trail value rendered at full intensity
	SenseWeight float64 `yaml:"sense_weight"` // Trail weight in sensor samples
}

// FoodConfig holds food field parameters.
type FoodConfig struct {
	BrushRadius       int       `yaml:"brush_radius"`       // Rasterized disk radius per source (cells)
	ConsumptionRadius int       `yaml:"consumption_radius"` // Cells around an agent that count as visited
	DepletionEnabled  bool      `yaml:"depletion_enabled"`
	DepletionRate     float64   `yaml:"depletion_rate"`     // Amount removed per visit per second
	FeedRate          float64   `yaml:"feed_rate"`          // Hunger restored per second on food
	AttractionWeight  float64   `yaml:"attraction_weight"`  // Food weight in sensor samples
	DefaultStrength   float64   `yaml:"default_strength"`
	DefaultAmount     float64   `yaml:"default_amount"`
	Color             []float64 `yaml:"color"` // RGBA in [0,1]
}

// BrushConfig holds edit brush parameters.
type BrushConfig struct {
	AgentRadius  float64 `yaml:"agent_radius"`
	AgentDensity float64 `yaml:"agent_density"` // Probability of spawning per covered cell
	EraseRadius  float64 `yaml:"erase_radius"`
}

// PopulationConfig holds initial placement parameters.
type PopulationConfig struct {
	Initial     int     `yaml:"initial"`
	Pattern     string  `yaml:"pattern"` // circle, burst, spiral, random, noise
	SpawnRadius float64 `yaml:"spawn_radius"`
	Species     string  `yaml:"species"` // Species name for initial agents
}

// SpeciesConfig defines one entry of the species table.
type SpeciesConfig struct {
	Name              string    `yaml:"name"`
	SensorAngleOffset float64   `yaml:"sensor_angle_offset"` // radians
	RotationAngle     float64   `yaml:"rotation_angle"`      // radians per second
	SensorDistance    float64   `yaml:"sensor_distance"`
	Velocity          float64   `yaml:"velocity"`     // cells per second
	TrailWeight       float64   `yaml:"trail_weight"` // deposit per second
	HungerDecayRate   float64   `yaml:"hunger_decay_rate"`
	HungerCoupling    string    `yaml:"hunger_coupling"` // none, slow, faint, starve
	Color             []float64 `yaml:"color"`           // RGBA in [0,1]
}

// TelemetryConfig holds telemetry parameters.
type TelemetryConfig struct {
	StatsWindow         float64 `yaml:"stats_window"`          // seconds of sim time per stats record
	PerfCollectorWindow int     `yaml:"perf_collector_window"` // ticks averaged by the perf collector
}

// DerivedConfig holds computed values derived from the loaded config.
type DerivedConfig struct {
	DT32         float32          // Sim.DT as float32
	Cells        int              // Field.Width * Field.Height
	FoodColor    color.RGBA       // Food.Color as 8-bit RGBA
	SpeciesIndex map[string]uint8 // name -> index for species lookup
}

// global holds the loaded configuration.
var global *Config

// Init loads configuration from the given path, or uses embedded defaults if path is empty.
// Must be called before Cfg().
func Init(path string) error {
	cfg, err := Load(path)
	if err != nil {
		return err
	}
	global = cfg
	return nil
}

// MustInit is like Init but panics on error.
func MustInit(path string) {
	if err := Init(path); err != nil {
		panic(fmt.Sprintf("config: failed to initialize: %v", err))
	}
}

// Cfg returns the global configuration. Panics if Init was not called.
func Cfg() *Config {
	if global == nil {
		panic("config: Cfg() called before Init()")
	}
	return global
}

// Load loads configuration from a YAML file, merging with embedded defaults.
// If path is empty, only embedded defaults are used.
func Load(path string) (*Config, error) {
	cfg := &Config{}
	if err := yaml.Unmarshal(defaultsYAML, cfg); err != nil {
		return nil, fmt.Errorf("parsing embedded defaults: %w", err)
	}

	if path != "" {
		data, err := os.ReadFile(path)
		if err != nil {
			return nil, fmt.Errorf("reading config file: %w", err)
		}
		// Unmarshal into same struct - only overwrites fields present in file
		if err := yaml.Unmarshal(data, cfg); err != nil {
			return nil, fmt.Errorf("parsing config file: %w", err)
		}
	}

	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	cfg.computeDerived()

	return cfg, nil
}

// Validate checks values that would make the simulation meaningless.
// Field dimensions are checked by the field package when buffers are created.
func (c *Config) Validate() error {
	var errs []error
	if c.Sim.DT <= 0 {
		errs = append(errs, fmt.Errorf("sim.dt must be positive, got %v", c.Sim.DT))
	}
	if c.Field.TileSize <= 0 {
		errs = append(errs, fmt.Errorf("field.tile_size must be positive, got %d", c.Field.TileSize))
	}
	if len(c.Species) == 0 {
		errs = append(errs, errors.New("species table is empty"))
	}
	if len(c.Species) > 256 {
		errs = append(errs, fmt.Errorf("species table has %d entries, max 256", len(c.Species)))
	}
	if c.Trail.MaxValue <= 0 {
		errs = append(errs, fmt.Errorf("trail.max_value must be positive, got %v", c.Trail.MaxValue))
	}
	return errors.Join(errs...)
}

// computeDerived calculates values derived from loaded config.
func (c *Config) computeDerived() {
	c.Derived.DT32 = float32(c.Sim.DT)
	c.Derived.Cells = c.Field.Width * c.Field.Height
	c.Derived.FoodColor = RGBA(c.Food.Color)

	if c.Sim.SimsPerFrame < 1 {
		c.Sim.SimsPerFrame = 1
	}

	for i := range c.Species {
		sp := &c.Species[i]
		if sp.Name == "" {
			sp.Name = fmt.Sprintf("species_%d", i)
		}
		if sp.HungerCoupling == "" {
			sp.HungerCoupling = "none"
		}
		if len(sp.Color) == 0 {
			sp.Color = []float64{1, 1, 1, 1}
		}
	}

	c.Derived.SpeciesIndex = make(map[string]uint8, len(c.Species))
	for i, sp := range c.Species {
		c.Derived.SpeciesIndex[sp.Name] = uint8(i)
	}
}

// RGBA converts a [0,1] float slice (RGB or RGBA) to an 8-bit colour.
// Missing channels default to 1.
func RGBA(c []float64) color.RGBA {
	ch := [4]float64{1, 1, 1, 1}
	copy(ch[:], c)
	to8 := func(v float64) uint8 {
		if v <= 0 {
			return 0
		}
		if v >= 1 {
			return 255
		}
		return uint8(v*255 + 0.5)
	}
	return color.RGBA{R: to8(ch[0]), G: to8(ch[1]), B: to8(ch[2]), A: to8(ch[3])}
}

// WriteYAML writes the configuration to a YAML file.
func (c *Config) WriteYAML(path string) error {
	data, err := yaml.Marshal(c)
	if err != nil {
		return fmt.Errorf("marshaling config: %w", err)
	}
	if err := os.WriteFile(path, data, 0644); err != nil {
		return fmt.Errorf("writing config file: %w", err)
	}
	return nil
}
