package services

import (
	"context"
	"fmt"
	"sync"
	"time"

	"github.com/google/uuid"
	"golang.org/x/sync/errgroup"

	"github.com/custodia-labs/nerstat/internal/core/domain"
	"github.com/custodia-labs/nerstat/internal/core/ports/driven"
	"github.com/custodia-labs/nerstat/internal/core/ports/driving"
	"github.com/custodia-labs/nerstat/internal/logger"
)

// Ensure AnalysisService implements the interface.
var _ driving.AnalysisService = (*AnalysisService)(nil)

// AnalysisConfig holds the settings an analysis run reads.
type AnalysisConfig struct {
	Analysis domain.AnalysisSettings
	Output   domain.OutputSettings
}

// AnalysisService runs load, extraction, aggregation and reporting.
type AnalysisService struct {
	loader    driven.DocumentLoader
	extractor driven.EntityExtractor
	sanitizer driven.EntityPipeline
	writers   []driven.ReportWriter
	locker    driven.OutputLocker
	runStore  driven.RunStore
	config    AnalysisConfig

	now   func() time.Time
	newID func() string
}

// NewAnalysisService creates an analysis service.
// The sanitizer runs over every document's entities before validation and
// may be nil. The locker and runStore are optional.
func NewAnalysisService(
	loader driven.DocumentLoader,
	extractor driven.EntityExtractor,
	sanitizer driven.EntityPipeline,
	writers []driven.ReportWriter,
	locker driven.OutputLocker,
	runStore driven.RunStore,
	config AnalysisConfig,
) *AnalysisService {
	return &AnalysisService{
		loader:    loader,
		extractor: extractor,
		sanitizer: sanitizer,
		writers:   writers,
		locker:    locker,
		runStore:  runStore,
		config:    config,
		now:       time.Now,
		newID:     uuid.NewString,
	}
}

// Analyze loads documents, extracts entities, aggregates statistics,
// writes reports and records the run.
func (s *AnalysisService) Analyze(ctx context.Context, req driving.AnalyzeRequest) (*domain.AnalysisRun, error) {
	if s.loader == nil || s.extractor == nil {
		return nil, fmt.Errorf("%w: analysis service not configured", domain.ErrInvalidInput)
	}

	run := &domain.AnalysisRun{
		ID:        s.newID(),
		InputPath: req.Path,
		Extractor: s.extractor.Name(),
		Model:     s.extractor.ModelName(),
		StartedAt: s.now(),
	}

	logger.Section("Analysis " + run.ID)
	logger.Info("Loading documents from %s", req.Path)

	docs, err := s.loader.Load(ctx, req.Path)
	if err != nil {
		return nil, fmt.Errorf("load documents: %w", err)
	}
	logger.Info("Loaded %d documents", len(docs))

	results, err := s.extractAll(ctx, docs, req.OnProgress)
	if err != nil {
		return nil, err
	}
	run.Results = results

	run.Statistics = CalculateStatistics(results, StatisticsOptions{
		TopPairs:      DefaultTopPairs,
		ContextWindow: s.config.Analysis.ContextWindow,
	})
	run.CompletedAt = s.now()
	logger.Info("Aggregated %d entities across %d documents",
		run.Statistics.TotalEntities, run.Statistics.TotalDocuments)

	if !req.SkipReports {
		if err := s.writeReports(ctx, run, req); err != nil {
			return nil, err
		}
	}

	if s.runStore != nil {
		if err := s.runStore.Save(ctx, domain.NewRunRecord(run)); err != nil {
			// Reports are already on disk; history is best effort.
			logger.Warn("Failed to record run %s: %v", run.ID, err)
		}
	}

	return run, nil
}

// extractAll extracts every document concurrently. Results keep loader order.
func (s *AnalysisService) extractAll(
	ctx context.Context,
	docs []domain.Document,
	onProgress func(done, total int),
) ([]domain.DocumentResult, error) {
	results := make([]domain.DocumentResult, len(docs))
	if len(docs) == 0 {
		return results, nil
	}

	limit := s.config.Analysis.Parallelism
	if limit < 1 {
		limit = 1
	}

	var (
		progressMu sync.Mutex
		done       int
	)

	g, gCtx := errgroup.WithContext(ctx)
	g.SetLimit(limit)
	for i, doc := range docs {
		g.Go(func() error {
			if err := gCtx.Err(); err != nil {
				return err
			}

			result, err := s.extractDocument(gCtx, doc)
			if err != nil {
				return fmt.Errorf("extract %s: %w", doc.Filename, err)
			}
			results[i] = result

			progressMu.Lock()
			done++
			logger.Debug("Extracted %d entities from %s (%d/%d)",
				result.EntityCount, doc.Filename, done, len(docs))
			if onProgress != nil {
				onProgress(done, len(docs))
			}
			progressMu.Unlock()
			return nil
		})
	}

	if err := g.Wait(); err != nil {
		return nil, err
	}
	return results, nil
}

func (s *AnalysisService) extractDocument(ctx context.Context, doc domain.Document) (domain.DocumentResult, error) {
	entities, err := s.extractor.Extract(ctx, doc.Content)
	if err != nil {
		return domain.DocumentResult{}, err
	}

	if s.sanitizer != nil {
		entities, err = s.sanitizer.Process(ctx, doc.Content, entities)
		if err != nil {
			return domain.DocumentResult{}, err
		}
	}

	return domain.NewDocumentResult(doc, entities, s.now())
}

// writeReports runs the writers selected by the request or configuration
// while holding the output directory lock.
func (s *AnalysisService) writeReports(ctx context.Context, run *domain.AnalysisRun, req driving.AnalyzeRequest) error {
	dir := req.OutputDir
	if dir == "" {
		dir = s.config.Output.Dir
	}
	formats := req.Formats
	if len(formats) == 0 {
		formats = s.config.Output.Formats
	}

	writers, err := s.selectWriters(formats)
	if err != nil {
		return err
	}
	if len(writers) == 0 {
		return nil
	}

	if s.locker != nil {
		unlock, err := s.locker.Lock(dir)
		if err != nil {
			return err
		}
		defer unlock()
	}

	for _, w := range writers {
		path, err := w.Write(ctx, run, dir)
		if err != nil {
			return fmt.Errorf("write %s report: %w", w.Format(), err)
		}
		run.OutputFiles = append(run.OutputFiles, path)
		logger.Info("Wrote %s", path)
	}
	return nil
}

// selectWriters returns the configured writers for formats, in format order.
func (s *AnalysisService) selectWriters(formats []domain.ReportFormat) ([]driven.ReportWriter, error) {
	byFormat := make(map[domain.ReportFormat]driven.ReportWriter, len(s.writers))
	for _, w := range s.writers {
		byFormat[w.Format()] = w
	}

	seen := make(map[domain.ReportFormat]bool, len(formats))
	selected := make([]driven.ReportWriter, 0, len(formats))
	for _, f := range formats {
		if seen[f] {
			continue
		}
		seen[f] = true

		w, ok := byFormat[f]
		if !ok {
			return nil, fmt.Errorf("%w: report format %q", domain.ErrUnsupportedType, f)
		}
		selected = append(selected, w)
	}
	return selected, nil
}
