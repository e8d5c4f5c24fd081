package driven

import (
	"context"

	"github.com/custodia-labs/nerstat/internal/core/domain"
)

// ReportWriter renders a completed run into one output file.
type ReportWriter interface {
	// Format returns the report format this writer produces.
	Format() domain.ReportFormat

	// Write renders run into dir and returns the written file path.
	Write(ctx context.Context, run *domain.AnalysisRun, dir string) (string, error)
}

// OutputLocker guards an output directory against concurrent analyses.
type OutputLocker interface {
	// Lock creates dir if needed and locks it exclusively.
	// Returns domain.ErrAnalysisInProgress if the directory is already locked.
	Lock(dir string) (unlock func(), err error)
}
