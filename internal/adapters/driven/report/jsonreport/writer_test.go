package jsonreport

import (
	"context"
	"encoding/json"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/custodia-labs/nerstat/internal/core/domain"
	"github.com/custodia-labs/nerstat/internal/core/services"
)

func testRun(t *testing.T) *domain.AnalysisRun {
	t.Helper()
	at := time.Date(2026, 1, 2, 3, 4, 5, 0, time.UTC)

	e1, err := domain.NewEntity("東京", "LOC", 0.9, 0, 2)
	require.NoError(t, err)
	e2, err := domain.NewEntity("謎", "NEW", 0.5, 3, 4)
	require.NoError(t, err)
	r, err := domain.NewDocumentResult(domain.Document{Filename: "a.txt", Content: "東京の謎"}, []domain.Entity{e1, e2}, at)
	require.NoError(t, err)

	results := []domain.DocumentResult{r}
	return &domain.AnalysisRun{
		ID:          "run-1",
		InputPath:   "a.txt",
		Extractor:   "dictionary",
		Model:       "builtin",
		StartedAt:   at,
		CompletedAt: at.Add(time.Second),
		Results:     results,
		Statistics:  services.CalculateStatistics(results, services.DefaultStatisticsOptions()),
	}
}

func TestWriter_Format(t *testing.T) {
	assert.Equal(t, domain.ReportFormatJSON, New(nil).Format())
}

func TestWriter_Build(t *testing.T) {
	report := New(nil).Build(testRun(t))

	assert.Equal(t, "run-1", report.RunID)
	require.Len(t, report.Documents, 1)
	doc := report.Documents[0]
	assert.Equal(t, 4, doc.TextLength)
	assert.Equal(t, 2, doc.EntityCount)
	assert.Equal(t, "場所・地名", doc.Entities[0].Description)
	assert.Equal(t, domain.UnknownDescription, doc.Entities[1].Description)
	assert.NotEmpty(t, report.EntityTypes)
}

func TestWriter_Write(t *testing.T) {
	dir := t.TempDir()

	path, err := New(nil).Write(context.Background(), testRun(t), dir)
	require.NoError(t, err)
	assert.Equal(t, filepath.Join(dir, FileName), path)

	data, err := os.ReadFile(path)
	require.NoError(t, err)

	var decoded struct {
		RunID      string `json:"run_id"`
		Statistics struct {
			TotalEntities    int               `json:"total_entities"`
			EntityTypeCounts []json.RawMessage `json:"entity_type_counts"`
		} `json:"statistics"`
		Documents []struct {
			Entities []map[string]any `json:"entities"`
		} `json:"documents"`
	}
	require.NoError(t, json.Unmarshal(data, &decoded))

	assert.Equal(t, "run-1", decoded.RunID)
	assert.Equal(t, 2, decoded.Statistics.TotalEntities)
	assert.Len(t, decoded.Statistics.EntityTypeCounts, 2)
	assert.Equal(t, "東京", decoded.Documents[0].Entities[0]["word"])
}
