package telemetry

import (
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/pthm-cable/slime/components"
	"github.com/pthm-cable/slime/config"
)

// SnapshotVersion is incremented when the format changes.
const SnapshotVersion = 1

// Snapshot holds the persisted simulation state: field dimensions,
// the species table, and the agent and food source lists.
type Snapshot struct {
	Version int    `json:"version"`
	RNGSeed int64  `json:"rng_seed"`
	Tick    uint64 `json:"tick"`

	Width  int `json:"width"`
	Height int `json:"height"`

	Species []config.SpeciesConfig  `json:"species"`
	Agents  []AgentState            `json:"agents"`
	Food    []components.FoodSource `json:"food"`

	Bookmark *Bookmark `json:"bookmark,omitempty"`
}

// AgentState holds one agent.
type AgentState struct {
	X       float32 `json:"x"`
	Y       float32 `json:"y"`
	Heading float32 `json:"heading"`
	Species uint8   `json:"species"`
	Hunger  float32 `json:"hunger"`
}

// AgentStates converts agents to their persisted form.
func AgentStates(agents []components.Agent) []AgentState {
	out := make([]AgentState, len(agents))
	for i, a := range agents {
		out[i] = AgentState{X: a.Pos.X, Y: a.Pos.Y, Heading: a.Heading, Species: a.SpeciesID, Hunger: a.Hunger}
	}
	return out
}

// Agent converts the persisted form back to an agent.
func (s AgentState) Agent() components.Agent {
	return components.Agent{
		Pos:       components.Position{X: s.X, Y: s.Y},
		Heading:   s.Heading,
		SpeciesID: s.Species,
		Hunger:    s.Hunger,
	}
}

// SaveSnapshot writes a snapshot to disk.
// Returns the filepath where it was saved.
func SaveSnapshot(snapshot *Snapshot, dir string) (string, error) {
	if err := os.MkdirAll(dir, 0755); err != nil {
		return "", fmt.Errorf("create snapshot dir: %w", err)
	}

	// Build filename
	name := fmt.Sprintf("snapshot_%d", snapshot.Tick)
	if snapshot.Bookmark != nil {
		// Sanitize bookmark type for filename
		sanitized := strings.ReplaceAll(string(snapshot.Bookmark.Type), " ", "_")
		name = fmt.Sprintf("snapshot_%d_%s", snapshot.Tick, sanitized)
	}
	name += ".json"

	path := filepath.Join(dir, name)

	data, err := json.MarshalIndent(snapshot, "", "  ")
	if err != nil {
		return "", fmt.Errorf("marshal snapshot: %w", err)
	}

	if err := os.WriteFile(path, data, 0644); err != nil {
		return "", fmt.Errorf("write snapshot: %w", err)
	}

	return path, nil
}

// LoadSnapshot reads a snapshot from disk.
func LoadSnapshot(path string) (*Snapshot, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("read snapshot: %w", err)
	}

	var snapshot Snapshot
	if err := json.Unmarshal(data, &snapshot); err != nil {
		return nil, fmt.Errorf("unmarshal snapshot: %w", err)
	}
	if snapshot.Version != SnapshotVersion {
		return nil, fmt.Errorf("snapshot version %d, expected %d", snapshot.Version, SnapshotVersion)
	}

	return &snapshot, nil
}
