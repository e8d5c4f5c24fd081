// Package clamp keeps entity spans inside the text they were extracted from.
package clamp

import (
	"context"
	"unicode/utf8"

	"github.com/custodia-labs/nerstat/internal/core/domain"
	"github.com/custodia-labs/nerstat/internal/core/ports/driven"
	"github.com/custodia-labs/nerstat/internal/logger"
)

// Ensure Processor implements the interface.
var _ driven.EntityPostProcessor = (*Processor)(nil)

// Processor clamps offsets to the text length and drops records that are
// still invalid afterwards.
type Processor struct{}

// New creates a new clamp processor.
func New() *Processor {
	return &Processor{}
}

// Name returns the processor name.
func (p *Processor) Name() string {
	return "clamp"
}

// Process clamps End to the text length and drops entities starting past the
// end of the text or failing validation.
func (p *Processor) Process(_ context.Context, text string, entities []domain.Entity) ([]domain.Entity, error) {
	if len(entities) == 0 {
		return nil, nil
	}

	n := utf8.RuneCountInString(text)
	out := make([]domain.Entity, 0, len(entities))
	for _, e := range entities {
		if e.Start < 0 || e.Start > n {
			logger.Debug("dropping entity %q: start %d outside text of length %d", e.Word, e.Start, n)
			continue
		}
		end := min(max(e.End, e.Start), n)
		valid, err := domain.NewEntity(e.Word, e.Type, e.Confidence, e.Start, end)
		if err != nil {
			logger.Debug("dropping entity: %v", err)
			continue
		}
		out = append(out, valid)
	}
	return out, nil
}
