package report

import (
	"fmt"

	"github.com/custodia-labs/nerstat/internal/adapters/driven/report/csvreport"
	"github.com/custodia-labs/nerstat/internal/adapters/driven/report/jsonreport"
	"github.com/custodia-labs/nerstat/internal/adapters/driven/report/markdown"
	"github.com/custodia-labs/nerstat/internal/core/domain"
	"github.com/custodia-labs/nerstat/internal/core/ports/driven"
)

// NewWriter returns the writer for format.
func NewWriter(format domain.ReportFormat, vocab *domain.EntityVocabulary) (driven.ReportWriter, error) {
	switch format {
	case domain.ReportFormatCSV:
		return csvreport.New(vocab), nil
	case domain.ReportFormatMarkdown:
		return markdown.New(vocab), nil
	case domain.ReportFormatJSON:
		return jsonreport.New(vocab), nil
	default:
		return nil, fmt.Errorf("%w: report format %q", domain.ErrUnsupportedType, format)
	}
}

// NewWriters returns one writer per format, in the given order.
// Duplicate formats are written once.
func NewWriters(formats []domain.ReportFormat, vocab *domain.EntityVocabulary) ([]driven.ReportWriter, error) {
	seen := make(map[domain.ReportFormat]bool, len(formats))
	writers := make([]driven.ReportWriter, 0, len(formats))
	for _, f := range formats {
		if seen[f] {
			continue
		}
		seen[f] = true

		w, err := NewWriter(f, vocab)
		if err != nil {
			return nil, err
		}
		writers = append(writers, w)
	}
	return writers, nil
}
