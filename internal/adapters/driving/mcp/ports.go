package mcp

import (
	"github.com/custodia-labs/nerstat/internal/core/domain"
	"github.com/custodia-labs/nerstat/internal/core/ports/driving"
)

// Ports aggregates the driving ports required by the MCP server.
type Ports struct {
	// History reads recorded runs.
	History driving.HistoryService

	// Analysis runs new analyses; optional.
	Analysis driving.AnalysisService

	// Render produces the Markdown report of a run; optional.
	Render func(rec domain.RunRecord) (string, error)
}

// Validate ensures all required ports are set.
func (p *Ports) Validate() error {
	if p.History == nil {
		return ErrMissingHistoryService
	}
	return nil
}
