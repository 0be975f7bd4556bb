package main

import (
	"os"
	"path/filepath"
	"testing"

	"gopkg.in/yaml.v3"
)

func TestRunWritesFrames(t *testing.T) {
	dir := t.TempDir()
	cfgPath := filepath.Join(dir, "config.yaml")
	override := map[string]any{
		"field":      map[string]any{"width": 32, "height": 32},
		"population": map[string]any{"initial": 200, "spawn_radius": 10},
	}
	data, err := yaml.Marshal(override)
	if err != nil {
		t.Fatalf("yaml.Marshal: %v", err)
	}
	if err := os.WriteFile(cfgPath, data, 0o644); err != nil {
		t.Fatalf("write config: %v", err)
	}

	out := filepath.Join(dir, "frames")
	if err := run(cfgPath, "", 1, 10, 4, out); err != nil {
		t.Fatalf("run: %v", err)
	}

	// Frames at ticks 4, 8 and the final 10.
	for _, name := range []string{"frame_000004.png", "frame_000008.png", "frame_000010.png"} {
		if _, err := os.Stat(filepath.Join(out, name)); err != nil {
			t.Errorf("missing %s: %v", name, err)
		}
	}
}
