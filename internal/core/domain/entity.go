package domain

import (
	"fmt"
	"strings"
)

// Entity is one recognised named-thing occurrence inside one document.
// Offsets are character offsets into the source document.
type Entity struct {
	// Word is the surface text.
	Word string

	// Type is the category tag emitted by the model (PER, LOC, ...).
	Type string

	// Confidence is the model score in [0,1].
	Confidence float64

	// Start is the offset of the first character.
	Start int

	// End is the offset one past the last character.
	End int
}

// NewEntity validates and returns an entity.
func NewEntity(word, entityType string, confidence float64, start, end int) (Entity, error) {
	word = strings.TrimSpace(word)
	if word == "" {
		return Entity{}, fmt.Errorf("%w: empty entity word", ErrInvalidInput)
	}
	if confidence < 0 || confidence > 1 {
		return Entity{}, fmt.Errorf("%w: confidence %v out of range for %q", ErrInvalidInput, confidence, word)
	}
	if start < 0 || end < start {
		return Entity{}, fmt.Errorf("%w: invalid span [%d,%d) for %q", ErrInvalidInput, start, end, word)
	}
	return Entity{
		Word:       word,
		Type:       entityType,
		Confidence: confidence,
		Start:      start,
		End:        end,
	}, nil
}

// Shift returns a copy of the entity with offsets moved by delta.
func (e Entity) Shift(delta int) Entity {
	e.Start += delta
	e.End += delta
	return e
}
