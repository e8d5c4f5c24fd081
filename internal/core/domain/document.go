package domain

import (
	"fmt"
	"time"
	"unicode/utf8"
)

// Document is a loaded input document before extraction.
type Document struct {
	// Filename identifies the document within a corpus run.
	Filename string

	// Content is the full document text.
	Content string
}

// Length returns the document length in characters.
func (d Document) Length() int {
	return utf8.RuneCountInString(d.Content)
}

// DocumentResult is one document's extraction outcome.
// It is built once by the extraction step and never mutated afterwards.
type DocumentResult struct {
	// Filename is unique within a corpus run.
	Filename string

	// Content is the full text, used for length and context windows.
	Content string

	// Entities are in extraction order.
	Entities []Entity

	// EntityCount equals len(Entities).
	EntityCount int

	// AnalyzedAt is when extraction finished for this document.
	AnalyzedAt time.Time
}

// NewDocumentResult validates entity offsets against the document and
// returns a result record.
func NewDocumentResult(doc Document, entities []Entity, analyzedAt time.Time) (DocumentResult, error) {
	length := doc.Length()
	for i, e := range entities {
		if e.End > length {
			return DocumentResult{}, fmt.Errorf("%w: entity %d (%q) ends at %d beyond document %s length %d",
				ErrInvalidInput, i, e.Word, e.End, doc.Filename, length)
		}
	}

	copied := make([]Entity, len(entities))
	copy(copied, entities)

	return DocumentResult{
		Filename:    doc.Filename,
		Content:     doc.Content,
		Entities:    copied,
		EntityCount: len(copied),
		AnalyzedAt:  analyzedAt,
	}, nil
}

// TextLength returns the document length in characters.
func (r DocumentResult) TextLength() int {
	return utf8.RuneCountInString(r.Content)
}
