// Package chunked runs an entity extractor over token windows of long texts
// and reconciles the per-window results into document offsets.
package chunked

import (
	"context"
	"fmt"

	"github.com/custodia-labs/nerstat/internal/core/domain"
	"github.com/custodia-labs/nerstat/internal/core/ports/driven"
	"github.com/custodia-labs/nerstat/internal/logger"
)

// Ensure Extractor implements the interface.
var _ driven.EntityExtractor = (*Extractor)(nil)

// Extractor splits text with a TextSplitter and extracts each window.
type Extractor struct {
	next     driven.EntityExtractor
	splitter driven.TextSplitter
	pipeline driven.EntityPipeline
}

// New wraps next. pipeline refines the combined window output; it runs only
// when the text needed more than one window.
func New(next driven.EntityExtractor, splitter driven.TextSplitter, pipeline driven.EntityPipeline) *Extractor {
	return &Extractor{
		next:     next,
		splitter: splitter,
		pipeline: pipeline,
	}
}

// Name returns the wrapped extractor's name.
func (e *Extractor) Name() string {
	return e.next.Name()
}

// ModelName returns the wrapped extractor's model.
func (e *Extractor) ModelName() string {
	return e.next.ModelName()
}

// Extract extracts text directly when it fits one window. Otherwise each
// window is extracted on its own, offsets are shifted by the window start
// and the pipeline merges duplicates from the overlaps.
func (e *Extractor) Extract(ctx context.Context, text string) ([]domain.Entity, error) {
	windows, err := e.splitter.Split(ctx, text)
	if err != nil {
		return nil, fmt.Errorf("split text: %w", err)
	}

	switch len(windows) {
	case 0:
		return nil, nil
	case 1:
		return e.next.Extract(ctx, text)
	}

	logger.Debug("extracting %d windows with %s", len(windows), e.splitter.Name())

	var all []domain.Entity
	for _, w := range windows {
		entities, err := e.next.Extract(ctx, w.Text)
		if err != nil {
			return nil, fmt.Errorf("window %d: %w", w.Index, err)
		}
		for _, ent := range entities {
			all = append(all, ent.Shift(w.Start))
		}
	}

	if e.pipeline == nil {
		return all, nil
	}
	return e.pipeline.Process(ctx, text, all)
}
