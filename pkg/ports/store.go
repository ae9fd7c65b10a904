package ports

import (
	"context"

	"github.com/aretw0/tally/pkg/domain"
)

// CoverageStore persists line hit counts.
// Implementations must accumulate hits on Merge rather than overwrite them.
type CoverageStore interface {
	// Merge adds the hits of report to the stored counts.
	Merge(ctx context.Context, report domain.Report) error

	// Load returns every stored file with its line hits.
	// An empty store returns an empty, non-nil report.
	Load(ctx context.Context) (domain.Report, error)

	// Clear removes all stored coverage.
	Clear(ctx context.Context) error
}
