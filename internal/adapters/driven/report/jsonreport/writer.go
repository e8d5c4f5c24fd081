// Package jsonreport writes the complete run as indented JSON.
package jsonreport

import (
	"context"
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"time"

	"github.com/custodia-labs/nerstat/internal/core/domain"
	"github.com/custodia-labs/nerstat/internal/core/ports/driven"
)

// FileName is the JSON file written into the output directory.
const FileName = "analysis.json"

// Ensure Writer implements the interface.
var _ driven.ReportWriter = (*Writer)(nil)

// Writer encodes a run with its documents, entities and statistics.
type Writer struct {
	vocab *domain.EntityVocabulary
}

// New creates a JSON writer describing types with vocab.
func New(vocab *domain.EntityVocabulary) *Writer {
	if vocab == nil {
		vocab = domain.DefaultEntityVocabulary()
	}
	return &Writer{vocab: vocab}
}

// Format returns the report format.
func (w *Writer) Format() domain.ReportFormat {
	return domain.ReportFormatJSON
}

// Report is the JSON document layout.
type Report struct {
	RunID       string                         `json:"run_id"`
	InputPath   string                         `json:"input_path"`
	Extractor   string                         `json:"extractor"`
	Model       string                         `json:"model"`
	StartedAt   time.Time                      `json:"started_at"`
	CompletedAt time.Time                      `json:"completed_at"`
	Documents   []Document                     `json:"documents"`
	Statistics  *domain.CorpusStatistics       `json:"statistics"`
	EntityTypes []domain.EntityTypeDescription `json:"entity_types"`
}

// Document is one analysed document without its content.
type Document struct {
	Filename    string    `json:"filename"`
	TextLength  int       `json:"text_length"`
	EntityCount int       `json:"entity_count"`
	AnalyzedAt  time.Time `json:"analysis_time"`
	Entities    []Entity  `json:"entities"`
}

// Entity is one occurrence with its type description.
type Entity struct {
	Word        string  `json:"word"`
	Type        string  `json:"entity_type"`
	Description string  `json:"entity_description"`
	Confidence  float64 `json:"confidence"`
	Start       int     `json:"start"`
	End         int     `json:"end"`
}

// Build converts run into the JSON layout.
func (w *Writer) Build(run *domain.AnalysisRun) Report {
	docs := make([]Document, 0, len(run.Results))
	for _, r := range run.Results {
		entities := make([]Entity, 0, len(r.Entities))
		for _, e := range r.Entities {
			entities = append(entities, Entity{
				Word:        e.Word,
				Type:        e.Type,
				Description: w.vocab.Describe(e.Type),
				Confidence:  e.Confidence,
				Start:       e.Start,
				End:         e.End,
			})
		}
		docs = append(docs, Document{
			Filename:    r.Filename,
			TextLength:  r.TextLength(),
			EntityCount: r.EntityCount,
			AnalyzedAt:  r.AnalyzedAt,
			Entities:    entities,
		})
	}

	return Report{
		RunID:       run.ID,
		InputPath:   run.InputPath,
		Extractor:   run.Extractor,
		Model:       run.Model,
		StartedAt:   run.StartedAt,
		CompletedAt: run.CompletedAt,
		Documents:   docs,
		Statistics:  run.Statistics,
		EntityTypes: w.vocab.Entries(),
	}
}

// Write renders run into dir/analysis.json.
func (w *Writer) Write(ctx context.Context, run *domain.AnalysisRun, dir string) (string, error) {
	if err := ctx.Err(); err != nil {
		return "", err
	}

	data, err := json.MarshalIndent(w.Build(run), "", "  ")
	if err != nil {
		return "", fmt.Errorf("encode json report: %w", err)
	}

	path := filepath.Join(dir, FileName)
	if err := os.WriteFile(path, append(data, '\n'), 0600); err != nil {
		return "", fmt.Errorf("write json report: %w", err)
	}
	return path, nil
}
