package main

import (
	"image/color"
	"math/rand"
	"strings"
	"testing"

	"github.com/pthm-cable/slime/config"
	"github.com/pthm-cable/slime/systems"
)

func TestRasterizeCountsEveryPlacement(t *testing.T) {
	rng := rand.New(rand.NewSource(1))
	spawns, err := systems.SpawnPattern(systems.PatternRandom, 500, 32, 32, 0, rng)
	if err != nil {
		t.Fatalf("SpawnPattern: %v", err)
	}
	density := rasterize(spawns, 32, 32)
	total := 0
	for _, n := range density {
		total += int(n)
	}
	if total != 500 {
		t.Errorf("rasterized %d placements, want 500", total)
	}
}

func TestShadeSaturates(t *testing.T) {
	pixels := make([]color.RGBA, 3)
	shade(pixels, []uint16{0, 2, 40})
	if pixels[0].R != 0 || pixels[1].R != 128 || pixels[2].R != 255 {
		t.Errorf("shades = %d %d %d, want 0 128 255", pixels[0].R, pixels[1].R, pixels[2].R)
	}
}

func TestParamsFromConfig(t *testing.T) {
	cfg, err := config.Load("")
	if err != nil {
		t.Fatalf("config.Load failed: %v", err)
	}
	p := paramsFromConfig(cfg)
	if patterns[p.Pattern] != cfg.Population.Pattern {
		t.Errorf("pattern = %s, want %s", patterns[p.Pattern], cfg.Population.Pattern)
	}
	yaml := populationYAML(p, cfg.Population.Species)
	if !strings.Contains(yaml, "pattern: "+cfg.Population.Pattern) {
		t.Errorf("yaml missing pattern line:\n%s", yaml)
	}
}
