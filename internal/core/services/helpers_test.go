package services

import (
	"time"

	"github.com/custodia-labs/nerstat/internal/core/domain"
)

var testTime = time.Date(2025, 1, 15, 10, 0, 0, 0, time.UTC)

// ent builds an entity without validation for table tests.
func ent(word, entityType string, confidence float64, start, end int) domain.Entity {
	return domain.Entity{Word: word, Type: entityType, Confidence: confidence, Start: start, End: end}
}

// result builds a document result whose content is long enough for the offsets.
func result(filename, content string, entities ...domain.Entity) domain.DocumentResult {
	return domain.DocumentResult{
		Filename:    filename,
		Content:     content,
		Entities:    entities,
		EntityCount: len(entities),
		AnalyzedAt:  testTime,
	}
}

// wordsResult builds a result containing one PER entity per word.
func wordsResult(filename string, words ...string) domain.DocumentResult {
	entities := make([]domain.Entity, len(words))
	for i, w := range words {
		entities[i] = ent(w, "PER", 0.95, 0, 0)
	}
	return result(filename, "", entities...)
}
