package services

import (
	"sort"

	"github.com/custodia-labs/nerstat/internal/core/domain"
)

// Relationship defaults.
const (
	DefaultTopPairs      = 10
	DefaultContextWindow = 50
)

type pairKey struct {
	a, b string
}

// AnalyzeRelationships counts document-level co-occurrence of distinct words
// and indexes the text around every entity occurrence.
// A topN of 0 uses DefaultTopPairs; a negative window disables the context index.
func AnalyzeRelationships(results []domain.DocumentResult, topN, window int) *domain.RelationshipAnalysis {
	if topN <= 0 {
		topN = DefaultTopPairs
	}
	analysis := &domain.RelationshipAnalysis{
		Pairs:    []domain.CooccurrencePair{},
		Contexts: make(map[string][]string),
	}
	totalDocs := len(results)
	if totalDocs == 0 {
		return analysis
	}

	docFreq := make(map[string]int)
	pairCounts := make(map[pairKey]int)
	var encountered []pairKey

	for _, r := range results {
		words := distinctWords(r.Entities)
		for _, w := range words {
			docFreq[w]++
		}
		for i := 0; i < len(words); i++ {
			for j := i + 1; j < len(words); j++ {
				key := newPairKey(words[i], words[j])
				if _, ok := pairCounts[key]; !ok {
					encountered = append(encountered, key)
				}
				pairCounts[key]++
			}
		}

		if window >= 0 {
			indexContexts(analysis.Contexts, r, window)
		}
	}

	sort.SliceStable(encountered, func(i, j int) bool {
		return pairCounts[encountered[i]] > pairCounts[encountered[j]]
	})
	if len(encountered) > topN {
		encountered = encountered[:topN]
	}

	for _, key := range encountered {
		both := pairCounts[key]
		countA, countB := docFreq[key.a], docFreq[key.b]
		analysis.Pairs = append(analysis.Pairs, domain.CooccurrencePair{
			WordA:   key.a,
			WordB:   key.b,
			Count:   both,
			CountA:  countA,
			CountB:  countB,
			Jaccard: Jaccard(both, countA, countB),
			Rate:    float64(both) / float64(totalDocs),
		})
	}

	return analysis
}

// Jaccard returns |A∩B| / |A∪B| for document counts.
func Jaccard(both, countA, countB int) float64 {
	union := countA + countB - both
	if union <= 0 {
		return 0
	}
	return float64(both) / float64(union)
}

func newPairKey(x, y string) pairKey {
	if y < x {
		x, y = y, x
	}
	return pairKey{a: x, b: y}
}

// distinctWords returns entity words in first-seen order without repeats.
func distinctWords(entities []domain.Entity) []string {
	seen := make(map[string]struct{}, len(entities))
	var words []string
	for _, e := range entities {
		if _, ok := seen[e.Word]; ok {
			continue
		}
		seen[e.Word] = struct{}{}
		words = append(words, e.Word)
	}
	return words
}

// indexContexts records the text around each entity, clamped to the document.
func indexContexts(contexts map[string][]string, r domain.DocumentResult, window int) {
	if len(r.Entities) == 0 {
		return
	}
	text := []rune(r.Content)
	n := len(text)
	for _, e := range r.Entities {
		start := clamp(e.Start-window, 0, n)
		end := clamp(e.End+window, start, n)
		contexts[e.Word] = append(contexts[e.Word], string(text[start:end]))
	}
}

func clamp(v, lo, hi int) int {
	if v < lo {
		return lo
	}
	if v > hi {
		return hi
	}
	return v
}
