package source

import (
	"context"

	"github.com/mwaldt/cfpbflow/internal/domain"
)

// Source defines the interface for complaint data sources.
type Source interface {
	// GetSourceID returns the unique identifier for this source.
	GetSourceID() string

	// GetDisplayName returns a human-readable name for this source.
	GetDisplayName() string

	// FetchWindow fetches every complaint for one company over an inclusive
	// date window, paginating internally until the window is exhausted.
	// Parameters:
	//   - ctx: context for cancellation and deadlines.
	//   - company: company name filter.
	//   - window: inclusive received-date window.
	// Returns:
	//   - []domain.Complaint: all records in the window.
	//   - error: non-nil if any page fetch fails.
	FetchWindow(ctx context.Context, company string, window domain.DateRange) ([]domain.Complaint, error)
}
