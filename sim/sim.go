// Package sim runs the slime-mold simulation: it owns the field grid, the
// agent population and the food sources, and drives the kernels once per tick.
package sim

import (
	"errors"
	"fmt"
	"image"
	"log/slog"
	"math"
	"math/rand"
	"time"

	"github.com/pthm-cable/slime/components"
	"github.com/pthm-cable/slime/config"
	"github.com/pthm-cable/slime/field"
	"github.com/pthm-cable/slime/population"
	"github.com/pthm-cable/slime/systems"
	"github.com/pthm-cable/slime/telemetry"
)

// ErrInvalidDT is returned by Tick for a non-positive or non-finite step.
var ErrInvalidDT = errors.New("sim: dt must be positive and finite")

// Options configures a simulation instance.
type Options struct {
	Seed           int64   // RNG seed for placement and steering (0 = config seed)
	Workers        int     // worker goroutines (0 = GOMAXPROCS)
	LogStats       bool    // log window and perf stats via slog
	StatsWindowSec float64 // stats window in sim seconds (0 = config value)
	OutputDir      string  // directory for CSV logs and snapshots (empty = disabled)
	StatsCallback  func(telemetry.WindowStats)
}

// Simulation is the core the front ends drive. It is not safe for concurrent
// use; all calls must come from one goroutine, between ticks.
type Simulation struct {
	cfg *config.Config

	grid    *field.Grid
	device  *systems.CPUDevice
	store   *population.Store
	species components.SpeciesTable
	globals Globals
	pending []paramEdit

	pool       *systems.Pool
	steering   *systems.Steering
	diffusion  *systems.Diffusion
	foodKernel *systems.FoodKernel
	compositor *systems.Compositor

	rng  *rand.Rand
	seed int64
	tick uint64

	frame *image.RGBA

	// Telemetry
	perf          *telemetry.PerfCollector
	collector     *telemetry.Collector
	bookmarks     *telemetry.BookmarkDetector
	output        *telemetry.OutputManager
	logStats      bool
	statsCallback func(telemetry.WindowStats)
}

// New creates a simulation from cfg and places the initial population.
func New(cfg *config.Config, opts Options) (*Simulation, error) {
	species, err := components.SpeciesFromConfig(cfg.Species)
	if err != nil {
		return nil, err
	}

	grid, err := field.New(cfg.Field.Width, cfg.Field.Height, field.Options{
		TileSize: cfg.Field.TileSize,
		MaxCells: cfg.Field.MaxCells,
	})
	if err != nil {
		return nil, fmt.Errorf("creating field: %w", err)
	}

	seed := opts.Seed
	if seed == 0 {
		seed = cfg.Sim.Seed
	}
	statsWindow := opts.StatsWindowSec
	if statsWindow <= 0 {
		statsWindow = cfg.Telemetry.StatsWindow
	}

	output, err := telemetry.NewOutputManager(opts.OutputDir)
	if err != nil {
		return nil, err
	}
	if err := output.WriteConfig(cfg); err != nil {
		slog.Error("failed to write config", "error", err)
	}

	pool := systems.NewPool(opts.Workers)
	device := systems.NewCPUDevice()

	s := &Simulation{
		cfg:        cfg,
		grid:       grid,
		device:     device,
		store:      population.NewStore(device, len(species)),
		species:    species,
		globals:    globalsFromConfig(cfg),
		pool:       pool,
		steering:   systems.NewSteering(pool),
		diffusion:  systems.NewDiffusion(pool),
		foodKernel: systems.NewFoodKernel(pool),
		compositor: systems.NewCompositor(pool),
		rng:        rand.New(rand.NewSource(seed)),
		seed:       seed,

		perf:          telemetry.NewPerfCollector(cfg.Telemetry.PerfCollectorWindow),
		collector:     telemetry.NewCollector(statsWindow, cfg.Derived.DT32),
		bookmarks:     telemetry.NewBookmarkDetector(10),
		output:        output,
		logStats:      opts.LogStats,
		statsCallback: opts.StatsCallback,
	}

	if err := s.spawnInitialPopulation(); err != nil {
		s.Close()
		return nil, err
	}

	slog.Info("simulation created",
		"width", grid.Width(),
		"height", grid.Height(),
		"species", len(species),
		"agents", s.store.Len(),
		"workers", pool.NumWorkers(),
		"seed", seed,
	)
	return s, nil
}

// spawnInitialPopulation places population.initial agents using the configured pattern.
func (s *Simulation) spawnInitialPopulation() error {
	pc := s.cfg.Population
	if pc.Initial <= 0 {
		return s.store.SyncToDevice()
	}
	speciesID, ok := s.cfg.Derived.SpeciesIndex[pc.Species]
	if !ok {
		return fmt.Errorf("initial species %q not in species table", pc.Species)
	}
	spawns, err := systems.SpawnPattern(pc.Pattern, pc.Initial, s.grid.Width(), s.grid.Height(), float32(pc.SpawnRadius), s.rng)
	if err != nil {
		return err
	}
	for _, sp := range spawns {
		if err := s.store.AddAgent(sp.Pos, sp.Heading, speciesID, 1); err != nil {
			return err
		}
	}
	s.collector.RecordAgentsAdded(len(spawns))
	return s.store.SyncToDevice()
}

// Close stops the worker pool and flushes output files.
func (s *Simulation) Close() {
	s.pool.Stop()
	if err := s.output.Close(); err != nil {
		slog.Error("failed to close output", "error", err)
	}
}

// Tick advances the simulation by dt seconds: pending parameter edits are
// applied, agents sense and move, deposits merge into the trail, food is
// depleted, and the trail diffuses and decays into the back buffer, which
// then becomes current.
func (s *Simulation) Tick(dt float32) error {
	if !(dt > 0) || math.IsInf(float64(dt), 0) {
		return ErrInvalidDT
	}
	if err := s.store.BeginPass(); err != nil {
		return err
	}

	s.perf.StartTick()

	s.perf.StartPhase(telemetry.PhaseParams)
	s.applyPending()
	g := s.globals

	s.perf.StartPhase(telemetry.PhaseSteering)
	err := s.steering.Step(s.grid, s.device.Agents(), s.species, systems.StepParams{
		DT:                dt,
		Tick:              s.tick,
		Seed:              uint32(s.seed),
		SenseWeight:       g.SenseWeight,
		AttractionWeight:  g.AttractionWeight,
		FeedRate:          g.FeedRate,
		TrackVisits:       g.DepletionEnabled && s.store.Food.Len() > 0,
		ConsumptionRadius: g.ConsumptionRadius,
	})
	if err != nil {
		return err
	}

	s.perf.StartPhase(telemetry.PhaseDeposit)
	s.diffusion.MergeDeposits(s.grid, g.MaxValue)

	s.perf.StartPhase(telemetry.PhaseFood)
	s.foodKernel.Update(s.grid, s.store.Food, systems.FoodParams{
		BrushRadius:      g.FoodBrushRadius,
		DepletionEnabled: g.DepletionEnabled,
		DepletionRate:    g.DepletionRate,
		DT:               dt,
	})

	s.perf.StartPhase(telemetry.PhaseDiffusion)
	s.diffusion.Step(s.grid, g.DecayRate, g.DiffuseRate, dt)
	s.grid.SwapTrailBuffers()

	if s.device.Len() > 0 {
		s.store.MarkDeviceAdvanced()
	}
	s.tick++
	s.perf.EndTick()

	s.flushTelemetry()
	return nil
}

// Step runs n ticks of the configured dt.
func (s *Simulation) Step(n int) error {
	for i := 0; i < n; i++ {
		if err := s.Tick(s.cfg.Derived.DT32); err != nil {
			return err
		}
	}
	return nil
}

// Agents returns an up-to-date copy of the population, pulling from the
// device if a pass ran since the last sync.
func (s *Simulation) Agents() ([]components.Agent, error) {
	if s.store.State() == population.DeviceAhead {
		if err := s.store.SyncFromDevice(); err != nil {
			return nil, err
		}
	}
	out := make([]components.Agent, s.store.Len())
	copy(out, s.store.Agents())
	return out, nil
}

// AgentCount returns the number of live agents.
func (s *Simulation) AgentCount() int { return s.device.Len() }

// FoodSources returns the food sources in row-major order.
func (s *Simulation) FoodSources() []components.FoodSource { return s.store.Food.Sources() }

// Grid exposes the field grid for read-only inspection.
func (s *Simulation) Grid() *field.Grid { return s.grid }

// Species returns a copy of the live species table.
func (s *Simulation) Species() components.SpeciesTable { return s.species.Clone() }

// Globals returns the live global parameters.
func (s *Simulation) Globals() Globals { return s.globals }

// SyncState reports the population's sync state.
func (s *Simulation) SyncState() population.SyncState { return s.store.State() }

// CurrentTick returns the number of completed ticks.
func (s *Simulation) CurrentTick() uint64 { return s.tick }

// Seed returns the RNG seed in use.
func (s *Simulation) Seed() int64 { return s.seed }

// Perf returns the performance collector.
func (s *Simulation) Perf() *telemetry.PerfCollector { return s.perf }

// Config returns the configuration the simulation was built from.
func (s *Simulation) Config() *config.Config { return s.cfg }

// timed runs fn and records its duration under phase.
func (s *Simulation) timed(phase string, fn func()) {
	start := time.Now()
	fn()
	s.perf.RecordPhase(phase, time.Since(start))
}
