// Package cache wraps an entity extractor with an expiring LRU cache so that
// repeated texts (re-runs, watch mode, duplicate windows) skip the backend.
package cache

import (
	"context"
	"crypto/sha256"
	"encoding/hex"
	"time"

	"github.com/hashicorp/golang-lru/v2/expirable"

	"github.com/custodia-labs/nerstat/internal/core/domain"
	"github.com/custodia-labs/nerstat/internal/core/ports/driven"
	"github.com/custodia-labs/nerstat/internal/logger"
)

// DefaultTTL bounds how long extraction results are reused.
const DefaultTTL = time.Hour

// Ensure Extractor implements the interface.
var _ driven.EntityExtractor = (*Extractor)(nil)

// Extractor caches the results of the wrapped extractor.
type Extractor struct {
	next  driven.EntityExtractor
	cache *expirable.LRU[string, []domain.Entity]
}

// Wrap returns next decorated with a cache of size entries.
// A non-positive size or ttl returns next unchanged.
func Wrap(next driven.EntityExtractor, size int, ttl time.Duration) driven.EntityExtractor {
	if next == nil || size <= 0 || ttl <= 0 {
		return next
	}
	return &Extractor{
		next:  next,
		cache: expirable.NewLRU[string, []domain.Entity](size, nil, ttl),
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

// Extract returns cached entities for text or calls the wrapped extractor.
func (e *Extractor) Extract(ctx context.Context, text string) ([]domain.Entity, error) {
	key := cacheKey(e.next.Name(), e.next.ModelName(), text)
	if cached, ok := e.cache.Get(key); ok {
		logger.Debug("extraction cache hit (%s)", key[:12])
		return cloneEntities(cached), nil
	}

	entities, err := e.next.Extract(ctx, text)
	if err != nil {
		return nil, err
	}
	e.cache.Add(key, cloneEntities(entities))
	return entities, nil
}

// Len returns the number of cached texts.
func (e *Extractor) Len() int {
	return e.cache.Len()
}

func cacheKey(name, model, text string) string {
	h := sha256.New()
	h.Write([]byte(name))
	h.Write([]byte{0})
	h.Write([]byte(model))
	h.Write([]byte{0})
	h.Write([]byte(text))
	return hex.EncodeToString(h.Sum(nil))
}

func cloneEntities(entities []domain.Entity) []domain.Entity {
	if len(entities) == 0 {
		return nil
	}
	clone := make([]domain.Entity, len(entities))
	copy(clone, entities)
	return clone
}
