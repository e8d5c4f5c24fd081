// Package merge collapses duplicate entity spans reported by overlapping windows.
package merge

import (
	"context"
	"sort"
	"unicode/utf8"

	"github.com/custodia-labs/nerstat/internal/core/domain"
	"github.com/custodia-labs/nerstat/internal/core/ports/driven"
)

// DefaultDistance is how far past the previous span's end a candidate may start.
const DefaultDistance = 5

// DefaultRatio scales the shorter word length into the allowed start drift.
const DefaultRatio = 0.5

// Ensure Processor implements the interface.
var _ driven.EntityPostProcessor = (*Processor)(nil)

// Processor merges spans of the same type that start close together.
//
// This is a heuristic: it only compares each candidate with the last kept
// span, so three mutually overlapping spans may survive as two.
type Processor struct {
	distance int
	ratio    float64
}

// Option configures the merge processor.
type Option func(*Processor)

// WithDistance sets the allowed gap after the previous span's end.
func WithDistance(d int) Option {
	return func(p *Processor) {
		if d >= 0 {
			p.distance = d
		}
	}
}

// WithRatio sets the start drift ratio.
func WithRatio(r float64) Option {
	return func(p *Processor) {
		if r >= 0 {
			p.ratio = r
		}
	}
}

// New creates a new merge processor.
func New(opts ...Option) *Processor {
	p := &Processor{
		distance: DefaultDistance,
		ratio:    DefaultRatio,
	}
	for _, opt := range opts {
		opt(p)
	}
	return p
}

// Name returns the processor name.
func (p *Processor) Name() string {
	return "merge"
}

// Process sorts entities by start and merges each candidate into the last kept
// span when it starts within distance of that span's end, has the same type and
// its start drifts by at most ratio times the shorter word length. The span
// with the strictly higher confidence wins.
func (p *Processor) Process(_ context.Context, _ string, entities []domain.Entity) ([]domain.Entity, error) {
	if len(entities) == 0 {
		return nil, nil
	}

	sorted := make([]domain.Entity, len(entities))
	copy(sorted, entities)
	sort.SliceStable(sorted, func(i, j int) bool {
		return sorted[i].Start < sorted[j].Start
	})

	merged := []domain.Entity{sorted[0]}
	for _, current := range sorted[1:] {
		last := &merged[len(merged)-1]
		if p.mergeable(*last, current) {
			if current.Confidence > last.Confidence {
				*last = current
			}
			continue
		}
		merged = append(merged, current)
	}
	return merged, nil
}

func (p *Processor) mergeable(last, current domain.Entity) bool {
	if current.Start > last.End+p.distance || current.Type != last.Type {
		return false
	}
	shorter := min(utf8.RuneCountInString(last.Word), utf8.RuneCountInString(current.Word))
	drift := current.Start - last.Start
	if drift < 0 {
		drift = -drift
	}
	return float64(drift) <= float64(shorter)*p.ratio
}
