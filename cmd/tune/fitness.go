package main

import (
	"math"
	"sync"

	"github.com/pthm-cable/slime/config"
	"github.com/pthm-cable/slime/sim"
	"github.com/pthm-cable/slime/telemetry"
)

// RunSettings describes the headless run used for one evaluation.
type RunSettings struct {
	ConfigPath     string
	FieldSize      int     // square field edge in cells
	Agents         int     // initial population
	Ticks          int     // ticks per run
	StatsWindow    float64 // sim seconds per stats window
	TargetCoverage float64 // desired fraction of cells carrying trail
}

// FitnessEvaluator runs headless simulations and scores how network-like the
// resulting trail is. Lower is better.
type FitnessEvaluator struct {
	params   *ParamVector
	settings RunSettings
	seeds    []int64

	mu           sync.Mutex
	lastCoverage float64
}

// NewFitnessEvaluator creates a new evaluator.
func NewFitnessEvaluator(params *ParamVector, settings RunSettings, seeds []int64) *FitnessEvaluator {
	return &FitnessEvaluator{
		params:   params,
		settings: settings,
		seeds:    seeds,
	}
}

// LastCoverage returns the mean trail coverage from the most recent evaluation.
func (fe *FitnessEvaluator) LastCoverage() float64 {
	fe.mu.Lock()
	defer fe.mu.Unlock()
	return fe.lastCoverage
}

// seedResult holds the result from one seed evaluation.
type seedResult struct {
	score    float64
	coverage float64
	err      error
}

// Evaluate computes fitness for a raw parameter vector, averaged over seeds.
func (fe *FitnessEvaluator) Evaluate(x []float64) float64 {
	results := make([]seedResult, len(fe.seeds))
	var wg sync.WaitGroup
	for i, seed := range fe.seeds {
		wg.Add(1)
		go func(idx int, s int64) {
			defer wg.Done()
			results[idx] = fe.runSimulation(x, s)
		}(i, seed)
	}
	wg.Wait()

	var total, coverage float64
	for _, r := range results {
		if r.err != nil {
			// A configuration that cannot run is as bad as an empty field.
			total++
			continue
		}
		total += r.score
		coverage += r.coverage
	}
	n := float64(len(fe.seeds))

	fe.mu.Lock()
	fe.lastCoverage = coverage / n
	fe.mu.Unlock()

	return total / n
}

// runSimulation executes a single headless run and scores its second half.
func (fe *FitnessEvaluator) runSimulation(x []float64, seed int64) seedResult {
	cfg, err := fe.runConfig(x)
	if err != nil {
		return seedResult{err: err}
	}

	var windows []telemetry.WindowStats
	s, err := sim.New(cfg, sim.Options{
		Seed:           seed,
		Workers:        1,
		StatsWindowSec: fe.settings.StatsWindow,
		StatsCallback: func(ws telemetry.WindowStats) {
			windows = append(windows, ws)
		},
	})
	if err != nil {
		return seedResult{err: err}
	}
	defer s.Close()

	if err := s.Step(fe.settings.Ticks); err != nil {
		return seedResult{err: err}
	}

	// Skip the first half while the network forms.
	settled := windows[len(windows)/2:]
	if len(settled) == 0 {
		return seedResult{score: 1}
	}
	var score, coverage float64
	for _, w := range settled {
		score += scoreCoverage(w.TrailCoverage, fe.settings.TargetCoverage, w.TrailMax)
		coverage += w.TrailCoverage
	}
	n := float64(len(settled))
	return seedResult{score: score / n, coverage: coverage / n}
}

// runConfig loads a fresh config and applies x plus the run settings.
func (fe *FitnessEvaluator) runConfig(x []float64) (*config.Config, error) {
	cfg, err := config.Load(fe.settings.ConfigPath)
	if err != nil {
		return nil, err
	}
	fe.params.ApplyToConfig(cfg, x)
	cfg.Field.Width = fe.settings.FieldSize
	cfg.Field.Height = fe.settings.FieldSize
	cfg.Population.Initial = fe.settings.Agents
	cfg.Population.SpawnRadius = float64(fe.settings.FieldSize) / 3
	cfg.Population.Species = cfg.Species[0].Name
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}

// scoreCoverage rates one window in [0, 1]: 0 at the target coverage, 1 for
// an empty field or coverage off by the target or more.
func scoreCoverage(coverage, target, peak float64) float64 {
	if peak <= 0 || target <= 0 {
		return 1
	}
	return math.Min(math.Abs(coverage-target)/target, 1)
}
