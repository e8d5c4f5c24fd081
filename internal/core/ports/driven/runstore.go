package driven

import (
	"context"

	"github.com/custodia-labs/nerstat/internal/core/domain"
)

// RunStore persists analysis run summaries.
type RunStore interface {
	// Save stores or updates a run record.
	Save(ctx context.Context, run domain.RunRecord) error

	// Get retrieves a run by ID.
	// Returns domain.ErrNotFound if the run does not exist.
	Get(ctx context.Context, id string) (*domain.RunRecord, error)

	// List returns runs newest first.
	List(ctx context.Context, filter domain.RunFilter) ([]domain.RunRecord, error)

	// Delete removes a run.
	Delete(ctx context.Context, id string) error
}
