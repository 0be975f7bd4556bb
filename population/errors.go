package population

import (
	"errors"
	"fmt"
)

// ErrNonFiniteHeading reports an agent heading that is NaN or infinite.
var ErrNonFiniteHeading = errors.New("population: heading is not finite")

// InvalidSpeciesError reports a species index outside the species table.
type InvalidSpeciesError struct {
	ID    uint8
	Count int
}

func (e *InvalidSpeciesError) Error() string {
	return fmt.Sprintf("population: species %d out of range (table has %d)", e.ID, e.Count)
}

// StaleStateError reports an operation that would mix host and device copies
// of the population. Recover by syncing in the direction the state asks for
// and retrying.
type StaleStateError struct {
	Op    string
	State SyncState
}

func (e *StaleStateError) Error() string {
	switch e.State {
	case DeviceAhead:
		return fmt.Sprintf("population: %s: device has advanced since last sync, call SyncFromDevice first", e.Op)
	case HostDirty:
		return fmt.Sprintf("population: %s: host edits not pushed, call SyncToDevice first", e.Op)
	}
	return fmt.Sprintf("population: %s: stale state %s", e.Op, e.State)
}
