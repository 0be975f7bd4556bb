package config

import (
	"image/color"
	"os"
	"path/filepath"
	"testing"
)

func TestLoadDefaults(t *testing.T) {
	cfg, err := Load("")
	if err != nil {
		t.Fatalf("Load defaults: %v", err)
	}
	if cfg.Field.Width%cfg.Field.TileSize != 0 || cfg.Field.Height%cfg.Field.TileSize != 0 {
		t.Errorf("default field %dx%d not a multiple of tile %d", cfg.Field.Width, cfg.Field.Height, cfg.Field.TileSize)
	}
	if cfg.Derived.DT32 != float32(cfg.Sim.DT) {
		t.Errorf("DT32 = %v, want %v", cfg.Derived.DT32, cfg.Sim.DT)
	}
	if cfg.Derived.Cells != cfg.Field.Width*cfg.Field.Height {
		t.Errorf("Cells = %d", cfg.Derived.Cells)
	}
	if _, ok := cfg.Derived.SpeciesIndex[cfg.Population.Species]; !ok {
		t.Errorf("initial species %q missing from table", cfg.Population.Species)
	}
}

func TestLoadOverride(t *testing.T) {
	path := filepath.Join(t.TempDir(), "override.yaml")
	data := []byte("sim:\n  dt: 0.05\ntrail:\n  decay_rate: 1.5\n")
	if err := os.WriteFile(path, data, 0644); err != nil {
		t.Fatal(err)
	}

	cfg, err := Load(path)
	if err != nil {
		t.Fatalf("Load: %v", err)
	}
	if cfg.Sim.DT != 0.05 || cfg.Trail.DecayRate != 1.5 {
		t.Errorf("override not applied: dt=%v decay=%v", cfg.Sim.DT, cfg.Trail.DecayRate)
	}
	// Untouched fields keep their defaults.
	if cfg.Trail.MaxValue != 1.0 {
		t.Errorf("max_value = %v, want default 1.0", cfg.Trail.MaxValue)
	}
}

func TestLoadRejectsInvalid(t *testing.T) {
	tests := []struct {
		name string
		yaml string
	}{
		{"zero dt", "sim:\n  dt: 0\n"},
		{"empty species", "species: []\n"},
		{"bad max", "trail:\n  max_value: -1\n"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			path := filepath.Join(t.TempDir(), "bad.yaml")
			if err := os.WriteFile(path, []byte(tt.yaml), 0644); err != nil {
				t.Fatal(err)
			}
			if _, err := Load(path); err == nil {
				t.Error("expected validation error")
			}
		})
	}
}

func TestSpeciesDefaults(t *testing.T) {
	path := filepath.Join(t.TempDir(), "species.yaml")
	data := []byte("species:\n  - velocity: 10\n")
	if err := os.WriteFile(path, data, 0644); err != nil {
		t.Fatal(err)
	}
	cfg, err := Load(path)
	if err != nil {
		t.Fatal(err)
	}
	sp := cfg.Species[0]
	if sp.Name != "species_0" || sp.HungerCoupling != "none" || len(sp.Color) != 4 {
		t.Errorf("species defaults not filled: %+v", sp)
	}
}

func TestRGBA(t *testing.T) {
	tests := []struct {
		in   []float64
		want color.RGBA
	}{
		{nil, color.RGBA{255, 255, 255, 255}},
		{[]float64{1, 0, 0}, color.RGBA{255, 0, 0, 255}},
		{[]float64{0.5, 2, -1, 0}, color.RGBA{128, 255, 0, 0}},
	}
	for _, tt := range tests {
		if got := RGBA(tt.in); got != tt.want {
			t.Errorf("RGBA(%v) = %v, want %v", tt.in, got, tt.want)
		}
	}
}

func TestWriteYAMLRoundTrip(t *testing.T) {
	cfg, err := Load("")
	if err != nil {
		t.Fatal(err)
	}
	path := filepath.Join(t.TempDir(), "out.yaml")
	if err := cfg.WriteYAML(path); err != nil {
		t.Fatal(err)
	}
	back, err := Load(path)
	if err != nil {
		t.Fatal(err)
	}
	if back.Field != cfg.Field || len(back.Species) != len(cfg.Species) {
		t.Error("round trip changed the config")
	}
}
