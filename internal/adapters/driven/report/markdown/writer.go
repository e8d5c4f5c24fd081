// Package markdown renders the narrative analysis report.
package markdown

import (
	"bytes"
	"context"
	_ "embed"
	"fmt"
	"os"
	"path/filepath"
	"sort"
	"text/template"

	"github.com/custodia-labs/nerstat/internal/core/domain"
	"github.com/custodia-labs/nerstat/internal/core/ports/driven"
)

// FileName is the report file written into the output directory.
const FileName = "analysis_report.md"

// TopTFIDF is the number of TF-IDF scores listed in the report.
const TopTFIDF = 10

const timeLayout = "2006-01-02 15:04:05"

//go:embed report.md.tmpl
var reportTemplate string

var tmpl = template.Must(template.New("report").Funcs(template.FuncMap{
	"inc":     func(i int) int { return i + 1 },
	"percent": func(f float64) string { return fmt.Sprintf("%.1f%%", f*100) },
}).Parse(reportTemplate))

// Ensure Writer implements the interface.
var _ driven.ReportWriter = (*Writer)(nil)

// Writer renders a run as Markdown.
type Writer struct {
	vocab *domain.EntityVocabulary
}

// New creates a Markdown writer describing types with vocab.
func New(vocab *domain.EntityVocabulary) *Writer {
	if vocab == nil {
		vocab = domain.DefaultEntityVocabulary()
	}
	return &Writer{vocab: vocab}
}

// Format returns the report format.
func (w *Writer) Format() domain.ReportFormat {
	return domain.ReportFormatMarkdown
}

// Write renders run into dir/analysis_report.md.
func (w *Writer) Write(ctx context.Context, run *domain.AnalysisRun, dir string) (string, error) {
	if err := ctx.Err(); err != nil {
		return "", err
	}

	content, err := w.Render(domain.NewRunRecord(run))
	if err != nil {
		return "", err
	}

	path := filepath.Join(dir, FileName)
	if err := os.WriteFile(path, []byte(content), 0600); err != nil {
		return "", fmt.Errorf("write markdown report: %w", err)
	}
	return path, nil
}

// Render returns the report for a recorded run. Only the statistics and run
// metadata are needed, so stored runs render the same report.
func (w *Writer) Render(rec domain.RunRecord) (string, error) {
	stats := rec.Statistics
	if stats == nil {
		stats = &domain.CorpusStatistics{}
	}

	analyzedAt := rec.CompletedAt
	if analyzedAt.IsZero() {
		analyzedAt = rec.StartedAt
	}

	data := view{
		RunID:      rec.ID,
		InputPath:  rec.InputPath,
		Extractor:  rec.Extractor,
		Model:      rec.Model,
		AnalyzedAt: analyzedAt.Local().Format(timeLayout),
		Stats:      stats,
		Types:      w.typeRows(stats),
		TopTFIDF:   topScores(stats.TFIDFRanking, TopTFIDF),
		Vocabulary: w.vocab.Entries(),
	}

	var buf bytes.Buffer
	if err := tmpl.Execute(&buf, data); err != nil {
		return "", fmt.Errorf("render markdown report: %w", err)
	}
	return buf.String(), nil
}

type view struct {
	RunID      string
	InputPath  string
	Extractor  string
	Model      string
	AnalyzedAt string
	Stats      *domain.CorpusStatistics
	Types      []typeRow
	TopTFIDF   []domain.TFIDFScore
	Vocabulary []domain.EntityTypeDescription
}

type typeRow struct {
	Code        string
	Description string
	Count       int
	Percent     float64
}

// typeRows lists entity types by count, ties in first-seen order.
func (w *Writer) typeRows(stats *domain.CorpusStatistics) []typeRow {
	entries := stats.EntityTypeCounts.Entries()
	sort.SliceStable(entries, func(i, j int) bool {
		return entries[i].Count > entries[j].Count
	})

	rows := make([]typeRow, 0, len(entries))
	for _, e := range entries {
		rows = append(rows, typeRow{
			Code:        e.Key,
			Description: w.vocab.Describe(e.Key),
			Count:       e.Count,
			Percent:     stats.EntityTypeDistribution[e.Key],
		})
	}
	return rows
}

func topScores(scores []domain.TFIDFScore, n int) []domain.TFIDFScore {
	if len(scores) > n {
		return scores[:n]
	}
	return scores
}
