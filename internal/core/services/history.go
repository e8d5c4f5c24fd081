package services

import (
	"context"
	"errors"
	"fmt"

	"github.com/custodia-labs/nerstat/internal/core/domain"
	"github.com/custodia-labs/nerstat/internal/core/ports/driven"
	"github.com/custodia-labs/nerstat/internal/core/ports/driving"
)

// Ensure HistoryService implements the interface.
var _ driving.HistoryService = (*HistoryService)(nil)

// HistoryService reads and prunes recorded runs.
type HistoryService struct {
	store driven.RunStore
}

// NewHistoryService creates a history service.
func NewHistoryService(store driven.RunStore) *HistoryService {
	return &HistoryService{store: store}
}

// List returns runs newest first.
func (s *HistoryService) List(ctx context.Context, filter domain.RunFilter) ([]domain.RunRecord, error) {
	if filter.Limit < 0 {
		return nil, fmt.Errorf("%w: negative limit", domain.ErrInvalidInput)
	}
	return s.store.List(ctx, filter)
}

// Get retrieves a run by ID. An empty ID returns the latest run.
func (s *HistoryService) Get(ctx context.Context, id string) (*domain.RunRecord, error) {
	if id != "" {
		return s.store.Get(ctx, id)
	}

	runs, err := s.store.List(ctx, domain.RunFilter{Limit: 1})
	if err != nil {
		return nil, err
	}
	if len(runs) == 0 {
		return nil, fmt.Errorf("%w: no recorded runs", domain.ErrNotFound)
	}
	return &runs[0], nil
}

// Delete removes a run from history.
func (s *HistoryService) Delete(ctx context.Context, id string) error {
	if id == "" {
		return fmt.Errorf("%w: run id required", domain.ErrInvalidInput)
	}
	if _, err := s.store.Get(ctx, id); err != nil {
		if errors.Is(err, domain.ErrNotFound) {
			return fmt.Errorf("run %s: %w", id, err)
		}
		return err
	}
	return s.store.Delete(ctx, id)
}
