// Package postprocessors provides entity refinement pipelines.
package postprocessors

import (
	"context"
	"fmt"

	"github.com/custodia-labs/nerstat/internal/core/domain"
	"github.com/custodia-labs/nerstat/internal/core/ports/driven"
)

// Ensure Pipeline implements the interface.
var _ driven.EntityPipeline = (*Pipeline)(nil)

// Pipeline chains multiple EntityPostProcessors and runs them in order.
// It implements the EntityPipeline interface.
type Pipeline struct {
	processors []driven.EntityPostProcessor
}

// NewPipeline creates a new processing pipeline with the given processors.
// Processors are executed in the order provided.
func NewPipeline(processors ...driven.EntityPostProcessor) *Pipeline {
	return &Pipeline{
		processors: processors,
	}
}

// Process runs the entities through all processors in order.
// Each processor receives the output of the previous one.
func (p *Pipeline) Process(ctx context.Context, text string, entities []domain.Entity) ([]domain.Entity, error) {
	for _, processor := range p.processors {
		var err error
		entities, err = processor.Process(ctx, text, entities)
		if err != nil {
			return nil, fmt.Errorf("processor %s: %w", processor.Name(), err)
		}
	}

	return entities, nil
}

// Add appends a processor to the pipeline.
func (p *Pipeline) Add(processor driven.EntityPostProcessor) {
	p.processors = append(p.processors, processor)
}

// Len returns the number of processors in the pipeline.
func (p *Pipeline) Len() int {
	return len(p.processors)
}

// Names returns the processor names in execution order.
func (p *Pipeline) Names() []string {
	names := make([]string, len(p.processors))
	for i, processor := range p.processors {
		names[i] = processor.Name()
	}
	return names
}
