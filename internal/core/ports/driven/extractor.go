package driven

import (
	"context"

	"github.com/custodia-labs/nerstat/internal/core/domain"
)

// EntityExtractor finds named entities in a text.
//
// Implementations may include:
//   - Hugging Face token-classification inference
//   - Ollama (local LLM prompted for JSON)
//   - Dictionary matching (offline)
//
// Offsets are character offsets into text. Backends that do not report
// offsets return 0 for both Start and End.
type EntityExtractor interface {
	// Extract returns entities in the order the backend produced them.
	Extract(ctx context.Context, text string) ([]domain.Entity, error)

	// Name returns the provider name for logging and run records.
	Name() string

	// ModelName returns the model used for extraction.
	ModelName() string
}

// ExtractorValidator checks that extractor settings reach a working backend.
type ExtractorValidator interface {
	// ValidateExtractor builds the backend and checks connectivity.
	ValidateExtractor(config *domain.ExtractorSettings) error
}
