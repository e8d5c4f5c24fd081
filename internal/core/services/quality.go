package services

import (
	"math"
	"sort"

	"github.com/custodia-labs/nerstat/internal/core/domain"
)

// Confidence thresholds. Scores in [LowConfidenceThreshold, HighConfidenceThreshold]
// fall in neither bucket.
const (
	HighConfidenceThreshold = 0.9
	LowConfidenceThreshold  = 0.7
)

// Position bucket boundaries for relative offsets.
const (
	firstThirdEnd  = 0.33
	middleThirdEnd = 0.67
)

type typeAccumulator struct {
	count int
	sum   float64
	min   float64
	max   float64
}

// ProfileQuality summarises confidence scores and entity positions.
// Returns nil when there are no entities.
func ProfileQuality(results []domain.DocumentResult) *domain.QualityProfile {
	var scores []float64
	var first, middle, last int

	byType := make(map[string]*typeAccumulator)
	var typeOrder []string

	for _, r := range results {
		length := r.TextLength()
		for _, e := range r.Entities {
			scores = append(scores, e.Confidence)

			switch pos := relativePosition(e.Start, length); {
			case pos < firstThirdEnd:
				first++
			case pos < middleThirdEnd:
				middle++
			default:
				last++
			}

			acc, ok := byType[e.Type]
			if !ok {
				acc = &typeAccumulator{min: e.Confidence, max: e.Confidence}
				byType[e.Type] = acc
				typeOrder = append(typeOrder, e.Type)
			}
			acc.count++
			acc.sum += e.Confidence
			acc.min = math.Min(acc.min, e.Confidence)
			acc.max = math.Max(acc.max, e.Confidence)
		}
	}

	if len(scores) == 0 {
		return nil
	}

	n := float64(len(scores))
	sorted := append([]float64(nil), scores...)
	sort.Float64s(sorted)

	var sum float64
	profile := &domain.QualityProfile{Count: len(scores)}
	for _, s := range scores {
		sum += s
		if s > HighConfidenceThreshold {
			profile.HighConfidenceCount++
		}
		if s < LowConfidenceThreshold {
			profile.LowConfidenceCount++
		}
	}
	profile.Mean = sum / n

	var sq float64
	for _, s := range scores {
		d := s - profile.Mean
		sq += d * d
	}
	profile.StdDev = math.Sqrt(sq / n)

	profile.Min = sorted[0]
	profile.Max = sorted[len(sorted)-1]
	profile.Median = percentile(sorted, 0.5)
	profile.Q1 = percentile(sorted, 0.25)
	profile.Q3 = percentile(sorted, 0.75)

	profile.Position = domain.PositionDistribution{
		First:  float64(first) / n,
		Middle: float64(middle) / n,
		Last:   float64(last) / n,
	}

	for _, t := range typeOrder {
		acc := byType[t]
		profile.ByType = append(profile.ByType, domain.TypeConfidence{
			Type:  t,
			Count: acc.count,
			Mean:  acc.sum / float64(acc.count),
			Min:   acc.min,
			Max:   acc.max,
		})
	}

	return profile
}

// relativePosition returns start/length, or 0 for empty documents.
func relativePosition(start, length int) float64 {
	if length == 0 {
		return 0
	}
	return float64(start) / float64(length)
}

// percentile interpolates linearly between the closest ranks of sorted.
func percentile(sorted []float64, p float64) float64 {
	if len(sorted) == 0 {
		return 0
	}
	pos := p * float64(len(sorted)-1)
	lo := int(math.Floor(pos))
	hi := int(math.Ceil(pos))
	if lo == hi {
		return sorted[lo]
	}
	return sorted[lo] + (sorted[hi]-sorted[lo])*(pos-float64(lo))
}
