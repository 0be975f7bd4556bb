package population

import (
	"errors"
	"math"
	"testing"

	"github.com/pthm-cable/slime/components"
)

// sliceDevice is a device that copies agents in and out of a slice.
type sliceDevice struct {
	agents  []components.Agent
	uploads int
}

func (d *sliceDevice) Upload(agents []components.Agent) {
	d.agents = append(d.agents[:0], agents...)
	d.uploads++
}

func (d *sliceDevice) Download(dst []components.Agent) []components.Agent {
	return append(dst, d.agents...)
}

func pos(x, y float32) components.Position { return components.Position{X: x, Y: y} }

func TestAddAgentRejectsUnknownSpecies(t *testing.T) {
	s := NewStore(&sliceDevice{}, 2)
	err := s.AddAgent(pos(1, 1), 0, 2, 1)
	var specErr *InvalidSpeciesError
	if !errors.As(err, &specErr) {
		t.Fatalf("expected InvalidSpeciesError, got %v", err)
	}
	if s.Len() != 0 {
		t.Error("rejected agent was added")
	}
}

func TestAddAgentWrapsHeading(t *testing.T) {
	s := NewStore(&sliceDevice{}, 1)
	for _, h := range []float32{2e8, -2e8, 7, -3 * math.Pi / 2} {
		if err := s.AddAgent(pos(1, 1), h, 0, 1); err != nil {
			t.Fatalf("heading %g: %v", h, err)
		}
	}
	for i, a := range s.Agents() {
		if a.Heading < -math.Pi || a.Heading > math.Pi {
			t.Errorf("agent %d heading %f outside [-pi, pi]", i, a.Heading)
		}
	}
	if got := s.Agents()[2].Heading; math.Abs(float64(got)-(7-2*math.Pi)) > 1e-5 {
		t.Errorf("heading 7 wrapped to %f", got)
	}
}

func TestAddAgentRejectsNonFiniteHeading(t *testing.T) {
	s := NewStore(&sliceDevice{}, 1)
	for _, h := range []float64{math.NaN(), math.Inf(1), math.Inf(-1)} {
		if err := s.AddAgent(pos(1, 1), float32(h), 0, 1); !errors.Is(err, ErrNonFiniteHeading) {
			t.Errorf("heading %v: expected ErrNonFiniteHeading, got %v", h, err)
		}
	}
	if s.Len() != 0 || s.State() != Synced {
		t.Errorf("rejected agents changed the store: len %d, state %s", s.Len(), s.State())
	}
}

func TestAddAgentMarksHostDirty(t *testing.T) {
	s := NewStore(&sliceDevice{}, 1)
	if err := s.AddAgent(pos(1, 1), 0, 0, 2); err != nil {
		t.Fatal(err)
	}
	if s.State() != HostDirty {
		t.Errorf("expected host-dirty, got %s", s.State())
	}
	if s.Agents()[0].Hunger != 1 {
		t.Errorf("expected hunger clamped to 1, got %f", s.Agents()[0].Hunger)
	}
}

func TestRemoveWhereSwapRemove(t *testing.T) {
	s := NewStore(&sliceDevice{}, 1)
	for i := 0; i < 10; i++ {
		_ = s.AddAgent(pos(float32(i), 0), 0, 0, 1)
	}
	n, err := s.RemoveWhere(func(a *components.Agent) bool { return int(a.Pos.X)%2 == 0 })
	if err != nil {
		t.Fatal(err)
	}
	if n != 5 || s.Len() != 5 {
		t.Fatalf("expected 5 removed and 5 left, got %d removed, %d left", n, s.Len())
	}
	for _, a := range s.Agents() {
		if int(a.Pos.X)%2 == 0 {
			t.Errorf("agent at x=%f should have been removed", a.Pos.X)
		}
	}
}

func TestSyncStateTransitions(t *testing.T) {
	dev := &sliceDevice{}
	s := NewStore(dev, 1)
	_ = s.AddAgent(pos(2, 2), 0, 0, 1)

	var stale *StaleStateError
	if err := s.BeginPass(); !errors.As(err, &stale) {
		t.Fatalf("expected pass to be refused with pending edits, got %v", err)
	}
	if err := s.SyncFromDevice(); !errors.As(err, &stale) {
		t.Fatalf("expected pull to be refused with pending edits, got %v", err)
	}

	if err := s.SyncToDevice(); err != nil {
		t.Fatal(err)
	}
	if len(dev.agents) != 1 {
		t.Fatalf("device has %d agents, expected 1", len(dev.agents))
	}
	if err := s.BeginPass(); err != nil {
		t.Fatal(err)
	}

	// Simulate a kernel pass moving the agent.
	dev.agents[0].Pos.X = 3
	s.MarkDeviceAdvanced()

	if err := s.AddAgent(pos(1, 1), 0, 0, 1); !errors.As(err, &stale) {
		t.Fatalf("expected add to be refused while device is ahead, got %v", err)
	}
	if _, err := s.RemoveWhere(func(*components.Agent) bool { return true }); !errors.As(err, &stale) {
		t.Fatalf("expected remove to be refused while device is ahead, got %v", err)
	}
	if err := s.SyncToDevice(); !errors.As(err, &stale) {
		t.Fatalf("expected push to be refused while device is ahead, got %v", err)
	}

	if err := s.SyncFromDevice(); err != nil {
		t.Fatal(err)
	}
	if s.Agents()[0].Pos.X != 3 {
		t.Errorf("expected pulled position 3, got %f", s.Agents()[0].Pos.X)
	}
	if s.State() != Synced {
		t.Errorf("expected synced, got %s", s.State())
	}
}

func TestClearAllowedWhileDeviceAhead(t *testing.T) {
	dev := &sliceDevice{}
	s := NewStore(dev, 1)
	_ = s.AddAgent(pos(2, 2), 0, 0, 1)
	_ = s.SyncToDevice()
	s.MarkDeviceAdvanced()

	s.Clear()
	if s.Len() != 0 {
		t.Fatal("expected empty population")
	}
	if err := s.SyncToDevice(); err != nil {
		t.Fatal(err)
	}
	if len(dev.agents) != 0 {
		t.Error("expected empty device working set")
	}
}
