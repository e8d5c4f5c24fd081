package mcp

import (
	"context"
	"time"

	"github.com/custodia-labs/nerstat/internal/core/domain"
	"github.com/custodia-labs/nerstat/internal/core/ports/driving"
)

// mockHistoryService is a mock implementation of driving.HistoryService.
type mockHistoryService struct {
	runs       []domain.RunRecord
	err        error
	lastFilter domain.RunFilter
}

func (m *mockHistoryService) List(_ context.Context, filter domain.RunFilter) ([]domain.RunRecord, error) {
	m.lastFilter = filter
	return m.runs, m.err
}

func (m *mockHistoryService) Get(_ context.Context, id string) (*domain.RunRecord, error) {
	if m.err != nil {
		return nil, m.err
	}
	if id == "" && len(m.runs) > 0 {
		return &m.runs[0], nil
	}
	for i := range m.runs {
		if m.runs[i].ID == id {
			return &m.runs[i], nil
		}
	}
	return nil, domain.ErrNotFound
}

func (m *mockHistoryService) Delete(_ context.Context, _ string) error {
	return m.err
}

// mockAnalysisService is a mock implementation of driving.AnalysisService.
type mockAnalysisService struct {
	run     *domain.AnalysisRun
	err     error
	lastReq driving.AnalyzeRequest
}

func (m *mockAnalysisService) Analyze(_ context.Context, req driving.AnalyzeRequest) (*domain.AnalysisRun, error) {
	m.lastReq = req
	return m.run, m.err
}

func testStatistics() *domain.CorpusStatistics {
	types := domain.NewOrderedCounts()
	types.Add("PER", 1)
	types.Add("LOC", 2)
	words := domain.NewOrderedCounts()
	words.Add("東京", 2)
	words.Add("田中", 1)
	return &domain.CorpusStatistics{
		TotalDocuments:     2,
		TotalEntities:      3,
		EntityTypeCounts:   types,
		EntityWordCounts:   words,
		MostCommonEntities: words.Entries(),
		TFIDFRanking: []domain.TFIDFScore{
			{Rank: 1, Filename: "a.txt", Word: "田中", TF: 0.5, IDF: 0.69, TFIDF: 0.35},
		},
		Quality: &domain.QualityProfile{Count: 3, Mean: 0.9},
		Relationships: &domain.RelationshipAnalysis{
			Pairs: []domain.CooccurrencePair{{WordA: "東京", WordB: "田中", Count: 1}},
		},
		Insights: &domain.InsightSet{
			Observations:    []string{"場所・地名が最も多い"},
			Recommendations: []string{"文書数を増やす"},
		},
	}
}

func testRecords() []domain.RunRecord {
	start := time.Date(2026, 6, 1, 12, 0, 0, 0, time.UTC)
	return []domain.RunRecord{
		{
			ID: "run-2", InputPath: "demo", Extractor: "dictionary", StartedAt: start,
			TotalDocuments: 2, TotalEntities: 3, MeanConfidence: 0.9, Statistics: testStatistics(),
		},
		{ID: "run-1", InputPath: "/data", StartedAt: start.Add(-time.Hour)},
	}
}
