package services

import (
	"math"
	"sort"

	"github.com/custodia-labs/nerstat/internal/core/domain"
)

// MostCommonLimit is the number of words kept in MostCommonEntities.
const MostCommonLimit = 10

// documentTerms holds one document's word counts in first-seen order.
type documentTerms struct {
	filename string
	counts   *domain.OrderedCounts
}

// Aggregator folds document results into corpus statistics.
// It is not safe for concurrent use; the pipeline owns one instance per run.
type Aggregator struct {
	totalEntities int
	typeCounts    *domain.OrderedCounts
	wordCounts    *domain.OrderedCounts
	docStats      []domain.DocumentStats
	docTerms      []documentTerms
}

// NewAggregator creates an empty aggregation state.
func NewAggregator() *Aggregator {
	return &Aggregator{
		typeCounts: domain.NewOrderedCounts(),
		wordCounts: domain.NewOrderedCounts(),
	}
}

// Add folds one document result into the state.
func (a *Aggregator) Add(result domain.DocumentResult) {
	terms := domain.NewOrderedCounts()
	types := make(map[string]struct{})

	for _, e := range result.Entities {
		a.typeCounts.Add(e.Type, 1)
		a.wordCounts.Add(e.Word, 1)
		terms.Add(e.Word, 1)
		types[e.Type] = struct{}{}
	}
	a.totalEntities += len(result.Entities)

	a.docStats = append(a.docStats, domain.DocumentStats{
		Filename:          result.Filename,
		EntityCount:       len(result.Entities),
		UniqueEntityTypes: len(types),
		TextLength:        result.TextLength(),
	})
	a.docTerms = append(a.docTerms, documentTerms{
		filename: result.Filename,
		counts:   terms,
	})
}

// AddAll folds every result in order.
func (a *Aggregator) AddAll(results []domain.DocumentResult) {
	for _, r := range results {
		a.Add(r)
	}
}

// Result computes corpus statistics from the current state.
// Quality, relationship and insight aggregates are left nil.
func (a *Aggregator) Result() *domain.CorpusStatistics {
	totalDocs := len(a.docStats)

	stats := &domain.CorpusStatistics{
		TotalDocuments:         totalDocs,
		TotalEntities:          a.totalEntities,
		EntityTypeCounts:       copyCounts(a.typeCounts),
		EntityWordCounts:       copyCounts(a.wordCounts),
		MostCommonEntities:     mostCommon(a.wordCounts, MostCommonLimit),
		EntityTypeDistribution: make(map[string]float64),
		DocumentStats:          append([]domain.DocumentStats{}, a.docStats...),
		TermMetrics:            []domain.TermMetrics{},
		FrequencyRanks:         a.frequencyRanks(),
		TFIDFRanking:           []domain.TFIDFScore{},
	}

	if totalDocs > 0 {
		stats.AvgEntitiesPerDoc = float64(a.totalEntities) / float64(totalDocs)
	}

	if total := a.typeCounts.Total(); total > 0 {
		for _, e := range a.typeCounts.Entries() {
			stats.EntityTypeDistribution[e.Key] = float64(e.Count) / float64(total) * 100
		}
	}

	stats.TermMetrics = a.termMetrics(totalDocs)
	stats.TFIDFRanking = a.tfidfRanking(stats.TermMetrics)

	return stats
}

// termMetrics computes TF, DF, IDF and TF-IDF for every observed word.
func (a *Aggregator) termMetrics(totalDocs int) []domain.TermMetrics {
	metrics := make([]domain.TermMetrics, 0, a.wordCounts.Len())
	for _, word := range a.wordCounts.Keys() {
		tm := domain.TermMetrics{
			Word:          word,
			TermFrequency: make(map[string]float64),
			TFIDF:         make(map[string]float64),
		}
		for _, dt := range a.docTerms {
			n := dt.counts.Get(word)
			if n == 0 {
				continue
			}
			tm.DocumentFrequency++
			tm.TermFrequency[dt.filename] = float64(n) / float64(dt.counts.Total())
		}
		// DocumentFrequency >= 1 because word was observed.
		tm.InverseDocumentFrequency = math.Log(float64(totalDocs) / float64(tm.DocumentFrequency))
		for doc, tf := range tm.TermFrequency {
			tm.TFIDF[doc] = tf * tm.InverseDocumentFrequency
		}
		metrics = append(metrics, tm)
	}
	return metrics
}

// tfidfRanking ranks every (document, word) pair by descending TF-IDF.
// Ties keep document order, then first-seen word order within the document.
func (a *Aggregator) tfidfRanking(metrics []domain.TermMetrics) []domain.TFIDFScore {
	idf := make(map[string]float64, len(metrics))
	for _, tm := range metrics {
		idf[tm.Word] = tm.InverseDocumentFrequency
	}

	var scores []domain.TFIDFScore
	for _, dt := range a.docTerms {
		total := dt.counts.Total()
		for _, e := range dt.counts.Entries() {
			tf := float64(e.Count) / float64(total)
			scores = append(scores, domain.TFIDFScore{
				Filename: dt.filename,
				Word:     e.Key,
				TF:       tf,
				IDF:      idf[e.Key],
				TFIDF:    tf * idf[e.Key],
			})
		}
	}

	sort.SliceStable(scores, func(i, j int) bool {
		return scores[i].TFIDF > scores[j].TFIDF
	})
	for i := range scores {
		scores[i].Rank = i + 1
	}
	if scores == nil {
		scores = []domain.TFIDFScore{}
	}
	return scores
}

// frequencyRanks maps each word to its 1-based rank by corpus count.
func (a *Aggregator) frequencyRanks() map[string]int {
	ranked := mostCommon(a.wordCounts, 0)
	ranks := make(map[string]int, len(ranked))
	for i, e := range ranked {
		ranks[e.Key] = i + 1
	}
	return ranks
}

// mostCommon sorts counts descending with first-seen tie-break.
// A limit of 0 returns every entry.
func mostCommon(counts *domain.OrderedCounts, limit int) []domain.CountEntry {
	entries := counts.Entries()
	sort.SliceStable(entries, func(i, j int) bool {
		return entries[i].Count > entries[j].Count
	})
	if limit > 0 && len(entries) > limit {
		entries = entries[:limit]
	}
	if entries == nil {
		entries = []domain.CountEntry{}
	}
	return entries
}

func copyCounts(src *domain.OrderedCounts) *domain.OrderedCounts {
	dst := domain.NewOrderedCounts()
	for _, e := range src.Entries() {
		dst.Add(e.Key, e.Count)
	}
	return dst
}
