package pipeline

import (
	"fmt"

	"github.com/mwaldt/cfpbflow/internal/domain"
	"github.com/mwaldt/cfpbflow/internal/state"
)

// NextWindow computes the date window for the next load. It is pure: all
// inputs are explicit, so the incremental-load decision is testable without
// touching the clock or the state file.
//
// With no prior checkpoint the window is the full backfill [configStart,
// today]. With a checkpoint at or past today there is nothing new and the
// window is nil. Otherwise the window resumes the day after the checkpoint.
// Every non-nil window satisfies Start <= End.
func NextWindow(configStart, today domain.Date, st state.State) (*domain.DateRange, error) {
	if configStart.After(today) {
		return nil, &ConfigError{
			Err: fmt.Errorf("start date %s is after today %s", configStart, today),
		}
	}

	if st.Absent() {
		return &domain.DateRange{Start: configStart, End: today}, nil
	}

	last := *st.LastLoadedDate
	if !last.Before(today) {
		// Already caught up. Running twice on the same day is a no-op.
		return nil, nil
	}

	return &domain.DateRange{Start: last.AddDays(1), End: today}, nil
}
