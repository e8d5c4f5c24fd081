package driven

import (
	"context"

	"github.com/custodia-labs/nerstat/internal/core/domain"
)

// DocumentLoader resolves an input path into documents.
type DocumentLoader interface {
	// Load returns documents in a deterministic order.
	// Returns domain.ErrInvalidInput when path is neither a file nor a directory.
	Load(ctx context.Context, path string) ([]domain.Document, error)
}
