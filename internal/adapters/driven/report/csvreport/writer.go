// Package csvreport writes one CSV row per entity occurrence.
package csvreport

import (
	"context"
	"encoding/csv"
	"fmt"
	"math"
	"os"
	"path/filepath"
	"strconv"

	"github.com/custodia-labs/nerstat/internal/core/domain"
	"github.com/custodia-labs/nerstat/internal/core/ports/driven"
)

// FileName is the CSV file written into the output directory.
const FileName = "ner_results.csv"

// TimeLayout formats analysis_time with microsecond precision.
const TimeLayout = "2006-01-02T15:04:05.000000"

// Columns is the CSV header in output order.
var Columns = []string{
	"filename",
	"word",
	"entity_type",
	"entity_description",
	"confidence",
	"start_pos",
	"end_pos",
	"analysis_time",
	"frequency_rank",
	"tfidf_rank",
	"term_frequency",
	"inverse_document_frequency",
	"document_frequency",
	"tfidf",
}

// Ensure Writer implements the interface.
var _ driven.ReportWriter = (*Writer)(nil)

// Writer renders entity rows with their corpus relevance metrics.
type Writer struct {
	vocab *domain.EntityVocabulary
}

// New creates a CSV writer describing types with vocab.
func New(vocab *domain.EntityVocabulary) *Writer {
	if vocab == nil {
		vocab = domain.DefaultEntityVocabulary()
	}
	return &Writer{vocab: vocab}
}

// Format returns the report format.
func (w *Writer) Format() domain.ReportFormat {
	return domain.ReportFormatCSV
}

// Write renders run into dir/ner_results.csv.
func (w *Writer) Write(ctx context.Context, run *domain.AnalysisRun, dir string) (string, error) {
	if err := ctx.Err(); err != nil {
		return "", err
	}

	path := filepath.Join(dir, FileName)
	f, err := os.Create(path)
	if err != nil {
		return "", fmt.Errorf("create csv report: %w", err)
	}
	defer f.Close()

	cw := csv.NewWriter(f)
	if err := cw.Write(Columns); err != nil {
		return "", fmt.Errorf("write csv header: %w", err)
	}
	if err := cw.WriteAll(w.Rows(run)); err != nil {
		return "", fmt.Errorf("write csv rows: %w", err)
	}
	if err := f.Close(); err != nil {
		return "", fmt.Errorf("close csv report: %w", err)
	}
	return path, nil
}

// Rows returns the CSV records of run without the header.
// Documents appear in run order and entities in extraction order.
func (w *Writer) Rows(run *domain.AnalysisRun) [][]string {
	stats := run.Statistics
	tfidfRanks := stats.TFIDFRankIndex()
	terms := make(map[string]domain.TermMetrics)
	var freqRanks map[string]int
	if stats != nil {
		freqRanks = stats.FrequencyRanks
		for _, m := range stats.TermMetrics {
			terms[m.Word] = m
		}
	}

	var rows [][]string
	for _, r := range run.Results {
		analyzedAt := r.AnalyzedAt.Format(TimeLayout)
		for _, e := range r.Entities {
			term := terms[e.Word]
			rows = append(rows, []string{
				r.Filename,
				e.Word,
				e.Type,
				w.vocab.Describe(e.Type),
				formatFloat(e.Confidence),
				strconv.Itoa(e.Start),
				strconv.Itoa(e.End),
				analyzedAt,
				strconv.Itoa(freqRanks[e.Word]),
				strconv.Itoa(tfidfRanks[r.Filename][e.Word]),
				formatFloat(term.TermFrequency[r.Filename]),
				formatFloat(term.InverseDocumentFrequency),
				strconv.Itoa(term.DocumentFrequency),
				formatFloat(term.TFIDF[r.Filename]),
			})
		}
	}
	return rows
}

// formatFloat rounds to six decimals and drops trailing zeros.
func formatFloat(v float64) string {
	rounded := math.Round(v*1e6) / 1e6
	if rounded == 0 {
		rounded = 0 // normalise -0
	}
	return strconv.FormatFloat(rounded, 'f', -1, 64)
}
