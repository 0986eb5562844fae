package state

import (
	"time"

	"github.com/mwaldt/cfpbflow/internal/domain"
)

// State is the persisted pipeline checkpoint. LastLoadedDate is the inclusive
// upper bound of previously ingested data; nil means no load has ever
// completed (or the state was reset).
type State struct {
	LastLoadedDate *domain.Date `json:"last_loaded_date"`
	UpdatedAt      time.Time    `json:"updated_at"`
}

// Absent reports whether the state carries no checkpoint.
func (s State) Absent() bool {
	return s.LastLoadedDate == nil
}

// Checkpointed builds a State pointing at the given date.
func Checkpointed(d domain.Date) State {
	return State{LastLoadedDate: &d, UpdatedAt: time.Now()}
}

// Store persists the pipeline checkpoint between runs.
//
// Read never fails on a missing or malformed document: both read as the
// absent state, so a corrupt checkpoint restarts the pipeline from the
// configured start date instead of wedging it. Write failures are returned
// because a run must not report success without durably recording progress.
type Store interface {
	// Read returns the persisted state, or the absent state if none exists.
	Read() (State, error)

	// Write atomically persists the state, replacing any prior content.
	Write(State) error

	// Reset clears the persisted state back to absent. Idempotent.
	Reset() error
}
