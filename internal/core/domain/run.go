package domain

import "time"

// AnalysisRun is one invocation of the analysis pipeline.
// All aggregates it holds are owned by the run; nothing is shared across runs.
type AnalysisRun struct {
	// ID is the unique identifier for the run.
	ID string

	// InputPath is the file, directory or "demo" that was analysed.
	InputPath string

	// Extractor is the entity source name (huggingface, ollama, dictionary).
	Extractor string

	// Model is the model name reported by the extractor.
	Model string

	// StartedAt is when loading began.
	StartedAt time.Time

	// CompletedAt is when aggregation finished.
	CompletedAt time.Time

	// Results are the per-document extraction results in loader order.
	Results []DocumentResult

	// Statistics is the aggregation output.
	Statistics *CorpusStatistics

	// OutputFiles are the report files written for this run.
	OutputFiles []string
}

// Duration returns the wall-clock time of the run.
func (r *AnalysisRun) Duration() time.Duration {
	if r.CompletedAt.IsZero() {
		return 0
	}
	return r.CompletedAt.Sub(r.StartedAt)
}

// RunRecord is the persisted summary of an AnalysisRun.
// Document contents are not persisted.
type RunRecord struct {
	ID             string
	InputPath      string
	Extractor      string
	Model          string
	StartedAt      time.Time
	CompletedAt    time.Time
	TotalDocuments int
	TotalEntities  int
	MeanConfidence float64
	OutputFiles    []string
	Statistics     *CorpusStatistics
}

// NewRunRecord summarises a completed run.
func NewRunRecord(run *AnalysisRun) RunRecord {
	rec := RunRecord{
		ID:          run.ID,
		InputPath:   run.InputPath,
		Extractor:   run.Extractor,
		Model:       run.Model,
		StartedAt:   run.StartedAt,
		CompletedAt: run.CompletedAt,
		OutputFiles: append([]string(nil), run.OutputFiles...),
		Statistics:  run.Statistics,
	}
	if run.Statistics != nil {
		rec.TotalDocuments = run.Statistics.TotalDocuments
		rec.TotalEntities = run.Statistics.TotalEntities
		if run.Statistics.Quality != nil {
			rec.MeanConfidence = run.Statistics.Quality.Mean
		}
	}
	return rec
}

// RunFilter narrows run history queries.
type RunFilter struct {
	// Since excludes runs started before this time when non-zero.
	Since time.Time

	// Limit caps the number of records; 0 means no limit.
	Limit int
}
