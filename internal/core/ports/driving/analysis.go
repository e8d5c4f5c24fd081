package driving

import (
	"context"

	"github.com/custodia-labs/nerstat/internal/core/domain"
)

// AnalyzeRequest describes one analysis run.
type AnalyzeRequest struct {
	// Path is a file, a directory, or "demo".
	Path string

	// OutputDir overrides the configured output directory when non-empty.
	OutputDir string

	// Formats overrides the configured report formats when non-empty.
	Formats []domain.ReportFormat

	// SkipReports disables report writing; the run is still recorded.
	SkipReports bool

	// OnProgress is called after each document is extracted.
	// Calls are serialised but may come from different goroutines.
	OnProgress func(done, total int)
}

// AnalysisService runs the extraction and aggregation pipeline.
type AnalysisService interface {
	// Analyze loads documents, extracts entities, aggregates statistics,
	// writes reports and records the run.
	Analyze(ctx context.Context, req AnalyzeRequest) (*domain.AnalysisRun, error)
}

// HistoryService exposes recorded runs.
type HistoryService interface {
	// List returns runs newest first.
	List(ctx context.Context, filter domain.RunFilter) ([]domain.RunRecord, error)

	// Get retrieves a run by ID. An empty ID returns the latest run.
	Get(ctx context.Context, id string) (*domain.RunRecord, error)

	// Delete removes a run from history.
	Delete(ctx context.Context, id string) error
}
