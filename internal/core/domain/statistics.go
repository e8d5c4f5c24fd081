package domain

// DocumentStats summarises one document for the per-document report table.
type DocumentStats struct {
	Filename          string `json:"filename"`
	EntityCount       int    `json:"entity_count"`
	UniqueEntityTypes int    `json:"unique_entity_types"`
	TextLength        int    `json:"text_length"`
}

// TermMetrics is the relevance record of one distinct surface word.
// Words absent from the corpus have no record.
type TermMetrics struct {
	Word string `json:"word"`

	// DocumentFrequency is the number of documents containing the word.
	DocumentFrequency int `json:"document_frequency"`

	// InverseDocumentFrequency is ln(totalDocuments / DocumentFrequency).
	InverseDocumentFrequency float64 `json:"inverse_document_frequency"`

	// TermFrequency maps filename to occurrences / entity occurrences in that document.
	TermFrequency map[string]float64 `json:"term_frequency"`

	// TFIDF maps filename to TermFrequency * InverseDocumentFrequency.
	TFIDF map[string]float64 `json:"tfidf"`
}

// TFIDFScore is one ranked (document, word) relevance score.
type TFIDFScore struct {
	Rank     int     `json:"rank"`
	Filename string  `json:"filename"`
	Word     string  `json:"word"`
	TF       float64 `json:"tf"`
	IDF      float64 `json:"idf"`
	TFIDF    float64 `json:"tfidf"`
}

// PositionDistribution is the fraction of entities in each third of their document.
type PositionDistribution struct {
	First  float64 `json:"first"`
	Middle float64 `json:"middle"`
	Last   float64 `json:"last"`
}

// TypeConfidence summarises confidence scores of one entity type.
type TypeConfidence struct {
	Type  string  `json:"type"`
	Count int     `json:"count"`
	Mean  float64 `json:"mean"`
	Min   float64 `json:"min"`
	Max   float64 `json:"max"`
}

// QualityProfile holds corpus-wide confidence and position statistics.
type QualityProfile struct {
	Count  int     `json:"count"`
	Mean   float64 `json:"mean"`
	Median float64 `json:"median"`
	StdDev float64 `json:"std_dev"`
	Min    float64 `json:"min"`
	Max    float64 `json:"max"`
	Q1     float64 `json:"q1"`
	Q3     float64 `json:"q3"`

	// HighConfidenceCount counts scores above 0.9.
	HighConfidenceCount int `json:"high_confidence_count"`

	// LowConfidenceCount counts scores below 0.7. Scores in [0.7,0.9] are in neither bucket.
	LowConfidenceCount int `json:"low_confidence_count"`

	Position PositionDistribution `json:"position"`
	ByType   []TypeConfidence     `json:"by_type"`
}

// CooccurrencePair is an unordered pair of distinct words seen in the same document.
type CooccurrencePair struct {
	WordA string `json:"word_a"`
	WordB string `json:"word_b"`

	// Count is the number of documents containing both words.
	Count int `json:"count"`

	// CountA and CountB are the document frequencies of each word.
	CountA int `json:"count_a"`
	CountB int `json:"count_b"`

	Jaccard float64 `json:"jaccard"`
	Rate    float64 `json:"rate"`
}

// RelationshipAnalysis holds the strongest co-occurrences and the context index.
type RelationshipAnalysis struct {
	Pairs []CooccurrencePair `json:"pairs"`

	// Contexts maps a word to the text windows around each of its occurrences.
	Contexts map[string][]string `json:"contexts,omitempty"`
}

// InsightSet is the ordered narrative derived from the other aggregates.
type InsightSet struct {
	Observations    []string `json:"observations"`
	Recommendations []string `json:"recommendations"`
}

// CorpusStatistics is the full aggregation result of one run.
type CorpusStatistics struct {
	TotalDocuments int `json:"total_documents"`
	TotalEntities  int `json:"total_entities"`

	EntityTypeCounts *OrderedCounts `json:"entity_type_counts"`
	EntityWordCounts *OrderedCounts `json:"entity_word_counts"`

	// MostCommonEntities is the top words by count, ties in first-seen order.
	MostCommonEntities []CountEntry `json:"most_common_entities"`

	AvgEntitiesPerDoc float64 `json:"avg_entities_per_doc"`

	// EntityTypeDistribution maps type to percentage; empty without entities.
	EntityTypeDistribution map[string]float64 `json:"entity_type_distribution"`

	DocumentStats []DocumentStats `json:"documents_stats"`

	// TermMetrics is in first-seen word order.
	TermMetrics []TermMetrics `json:"term_metrics"`

	// FrequencyRanks maps word to its 1-based corpus frequency rank.
	FrequencyRanks map[string]int `json:"frequency_ranks"`

	// TFIDFRanking lists every (document, word) score by descending TF-IDF.
	TFIDFRanking []TFIDFScore `json:"tfidf_ranking"`

	Quality       *QualityProfile       `json:"quality,omitempty"`
	Relationships *RelationshipAnalysis `json:"relationships,omitempty"`
	Insights      *InsightSet           `json:"insights,omitempty"`
}

// Term returns the metrics of word, if any.
func (s *CorpusStatistics) Term(word string) (TermMetrics, bool) {
	if s == nil {
		return TermMetrics{}, false
	}
	for i := range s.TermMetrics {
		if s.TermMetrics[i].Word == word {
			return s.TermMetrics[i], true
		}
	}
	return TermMetrics{}, false
}

// TFIDFRankIndex maps filename then word to the 1-based TF-IDF rank.
func (s *CorpusStatistics) TFIDFRankIndex() map[string]map[string]int {
	index := make(map[string]map[string]int)
	if s == nil {
		return index
	}
	for _, score := range s.TFIDFRanking {
		byWord, ok := index[score.Filename]
		if !ok {
			byWord = make(map[string]int)
			index[score.Filename] = byWord
		}
		byWord[score.Word] = score.Rank
	}
	return index
}

// DominantType returns the most frequent entity type and its share in percent.
// Ties resolve to the first-seen type.
func (s *CorpusStatistics) DominantType() (string, float64, bool) {
	if s == nil || s.EntityTypeCounts.Len() == 0 {
		return "", 0, false
	}
	best := ""
	bestCount := -1
	for _, e := range s.EntityTypeCounts.Entries() {
		if e.Count > bestCount {
			best, bestCount = e.Key, e.Count
		}
	}
	return best, s.EntityTypeDistribution[best], true
}
