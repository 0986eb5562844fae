package pipeline

import "fmt"

// Error kinds for the run steps. Each wraps the underlying cause so callers
// can distinguish a bad configuration (abort before I/O) from a retryable
// extraction or load failure, and from the loud state-write case where data
// was loaded but progress was not recorded.

// ConfigError is a fatal configuration problem detected before any I/O.
type ConfigError struct {
	Err error
}

func (e *ConfigError) Error() string { return fmt.Sprintf("configuration error: %v", e.Err) }
func (e *ConfigError) Unwrap() error { return e.Err }

// ExtractError is a network or API failure during extraction. State is
// untouched; the same window is retried on the next run.
type ExtractError struct {
	Company string
	Err     error
}

func (e *ExtractError) Error() string {
	return fmt.Sprintf("extraction failed for %q: %v", e.Company, e.Err)
}
func (e *ExtractError) Unwrap() error { return e.Err }

// LoadError is a storage write failure during loading. State is untouched;
// the same window is retried on the next run.
type LoadError struct {
	Company string
	Err     error
}

func (e *LoadError) Error() string {
	return fmt.Sprintf("load failed for %q: %v", e.Company, e.Err)
}
func (e *LoadError) Unwrap() error { return e.Err }

// StateWriteError means data was loaded but the new checkpoint could not be
// persisted. A rerun will refetch the overlapping window, which downstream
// storage must tolerate via idempotent upserts.
type StateWriteError struct {
	Err error
}

func (e *StateWriteError) Error() string { return fmt.Sprintf("state write failed: %v", e.Err) }
func (e *StateWriteError) Unwrap() error { return e.Err }
