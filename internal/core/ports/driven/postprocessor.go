package driven

import (
	"context"

	"github.com/custodia-labs/nerstat/internal/core/domain"
)

// TextSplitter divides a long text into overlapping windows.
type TextSplitter interface {
	// Name returns the splitter name for logging and configuration.
	Name() string

	// Split returns windows covering text. Short texts yield a single window.
	Split(ctx context.Context, text string) ([]domain.TextWindow, error)
}

// EntityPostProcessor refines entities extracted from a text.
// EntityPostProcessors are chained in a pipeline (e.g., span merging, clamping).
type EntityPostProcessor interface {
	// Name returns the processor name for logging and configuration.
	Name() string

	// Process takes the full text and its entities and returns the refined entities.
	Process(ctx context.Context, text string, entities []domain.Entity) ([]domain.Entity, error)
}

// EntityPipeline chains multiple EntityPostProcessors.
type EntityPipeline interface {
	// Process runs the entities through all processors in order.
	Process(ctx context.Context, text string, entities []domain.Entity) ([]domain.Entity, error)
}
