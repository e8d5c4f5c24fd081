// Package tui provides an interactive terminal browser for recorded analysis runs.
// It implements a driving adapter following hexagonal architecture principles.
package tui

import (
	"fmt"

	"github.com/custodia-labs/nerstat/internal/core/domain"
	"github.com/custodia-labs/nerstat/internal/core/ports/driving"
)

// Ports aggregates the driving ports required by the TUI.
type Ports struct {
	// History lists, fetches and deletes recorded runs.
	History driving.HistoryService

	// Settings exposes effective configuration.
	Settings driving.SettingsService

	// Vocabulary describes entity type codes; nil uses the default.
	Vocabulary *domain.EntityVocabulary
}

// NewPorts creates a new Ports aggregate with the given services.
func NewPorts(history driving.HistoryService, settings driving.SettingsService) *Ports {
	return &Ports{
		History:  history,
		Settings: settings,
	}
}

// Validate ensures all required ports are set.
func (p *Ports) Validate() error {
	if p == nil {
		return ErrInvalidPorts
	}
	if p.History == nil {
		return fmt.Errorf("%w: %w", ErrInvalidPorts, ErrMissingHistoryService)
	}
	if p.Settings == nil {
		return fmt.Errorf("%w: %w", ErrInvalidPorts, ErrMissingSettingsService)
	}
	return nil
}
