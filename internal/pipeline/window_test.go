package pipeline

import (
	"errors"
	"testing"
	"time"

	"github.com/mwaldt/cfpbflow/internal/domain"
	"github.com/mwaldt/cfpbflow/internal/state"
)

func mustDate(t *testing.T, s string) domain.Date {
	t.Helper()
	d, err := domain.ParseDate(s)
	if err != nil {
		t.Fatalf("parse date %q: %v", s, err)
	}
	return d
}

func checkpointAt(t *testing.T, s string) state.State {
	t.Helper()
	d := mustDate(t, s)
	return state.State{LastLoadedDate: &d, UpdatedAt: time.Now()}
}

func TestNextWindow(t *testing.T) {
	testCases := []struct {
		name      string
		start     string
		today     string
		st        state.State
		wantStart string
		wantEnd   string
		wantNil   bool
	}{
		{
			name:      "absent state does full backfill",
			start:     "2024-01-01",
			today:     "2024-03-10",
			st:        state.State{},
			wantStart: "2024-01-01",
			wantEnd:   "2024-03-10",
		},
		{
			name:    "caught up same day is a no-op",
			start:   "2024-01-01",
			today:   "2024-03-10",
			st:      checkpointAt(t, "2024-03-10"),
			wantNil: true,
		},
		{
			name:    "checkpoint past today is a no-op",
			start:   "2024-01-01",
			today:   "2024-03-10",
			st:      checkpointAt(t, "2024-03-11"),
			wantNil: true,
		},
		{
			name:      "incremental resumes day after checkpoint",
			start:     "2024-01-01",
			today:     "2024-03-12",
			st:        checkpointAt(t, "2024-03-10"),
			wantStart: "2024-03-11",
			wantEnd:   "2024-03-12",
		},
		{
			name:      "one day behind yields single-day window",
			start:     "2024-01-01",
			today:     "2024-03-11",
			st:        checkpointAt(t, "2024-03-10"),
			wantStart: "2024-03-11",
			wantEnd:   "2024-03-11",
		},
		{
			name:      "start equals today with absent state",
			start:     "2024-03-10",
			today:     "2024-03-10",
			st:        state.State{},
			wantStart: "2024-03-10",
			wantEnd:   "2024-03-10",
		},
		{
			name:      "month boundary",
			start:     "2024-01-01",
			today:     "2024-03-01",
			st:        checkpointAt(t, "2024-02-29"),
			wantStart: "2024-03-01",
			wantEnd:   "2024-03-01",
		},
	}

	for _, tc := range testCases {
		t.Run(tc.name, func(t *testing.T) {
			window, err := NextWindow(mustDate(t, tc.start), mustDate(t, tc.today), tc.st)
			if err != nil {
				t.Fatalf("NextWindow returned error: %v", err)
			}

			if tc.wantNil {
				if window != nil {
					t.Fatalf("expected nil window, got %s", window)
				}
				return
			}

			if window == nil {
				t.Fatal("expected window, got nil")
			}
			if got := window.Start.String(); got != tc.wantStart {
				t.Errorf("start = %s, want %s", got, tc.wantStart)
			}
			if got := window.End.String(); got != tc.wantEnd {
				t.Errorf("end = %s, want %s", got, tc.wantEnd)
			}
			if window.Start.After(window.End) {
				t.Errorf("invariant violated: start %s after end %s", window.Start, window.End)
			}
		})
	}
}

func TestNextWindowFutureStartDate(t *testing.T) {
	_, err := NextWindow(mustDate(t, "2024-06-01"), mustDate(t, "2024-03-10"), state.State{})
	if err == nil {
		t.Fatal("expected error for start date in the future")
	}

	var cfgErr *ConfigError
	if !errors.As(err, &cfgErr) {
		t.Errorf("expected ConfigError, got %T: %v", err, err)
	}
}

func TestNextWindowAfterReset(t *testing.T) {
	// A reset discards the checkpoint, so the next window must reproduce the
	// original full backfill regardless of prior progress.
	window, err := NextWindow(mustDate(t, "2024-01-01"), mustDate(t, "2024-03-12"), state.State{})
	if err != nil {
		t.Fatalf("NextWindow returned error: %v", err)
	}
	if window == nil {
		t.Fatal("expected window, got nil")
	}
	if window.Start.String() != "2024-01-01" || window.End.String() != "2024-03-12" {
		t.Errorf("window = %s, want 2024-01-01..2024-03-12", window)
	}
}
