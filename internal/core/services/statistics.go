package services

import "github.com/custodia-labs/nerstat/internal/core/domain"

// StatisticsOptions tunes the derived aggregates.
type StatisticsOptions struct {
	// TopPairs caps the co-occurrence pairs; 0 uses DefaultTopPairs.
	TopPairs int

	// ContextWindow is the characters kept on each side of an occurrence.
	ContextWindow int
}

// DefaultStatisticsOptions returns the standard caps.
func DefaultStatisticsOptions() StatisticsOptions {
	return StatisticsOptions{
		TopPairs:      DefaultTopPairs,
		ContextWindow: DefaultContextWindow,
	}
}

// CalculateStatistics runs the full aggregation over an ordered result list:
// corpus fold, quality profile, relationships and insights.
func CalculateStatistics(results []domain.DocumentResult, opts StatisticsOptions) *domain.CorpusStatistics {
	agg := NewAggregator()
	agg.AddAll(results)

	stats := agg.Result()
	stats.Quality = ProfileQuality(results)
	stats.Relationships = AnalyzeRelationships(results, opts.TopPairs, opts.ContextWindow)
	stats.Insights = GenerateInsights(stats)
	return stats
}
