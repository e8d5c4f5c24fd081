package services

import (
	"math"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/custodia-labs/nerstat/internal/core/domain"
)

func TestProfileQuality_ConfidenceBuckets(t *testing.T) {
	results := []domain.DocumentResult{
		result("a.txt", "", ent("東京", "LOC", 0.95, 0, 0), ent("田中", "PER", 0.96, 0, 0)),
		result("b.txt", "", ent("大阪", "LOC", 0.5, 0, 0)),
	}

	profile := ProfileQuality(results)

	require.NotNil(t, profile)
	assert.Equal(t, 3, profile.Count)
	assert.Equal(t, 2, profile.HighConfidenceCount)
	assert.Equal(t, 1, profile.LowConfidenceCount)
	assert.InDelta(t, 0.8033, profile.Mean, 1e-4)
	assert.Equal(t, 0.5, profile.Min)
	assert.Equal(t, 0.96, profile.Max)
	assert.Equal(t, 0.95, profile.Median)
}

func TestProfileQuality_ThresholdsAreNotAPartition(t *testing.T) {
	profile := ProfileQuality([]domain.DocumentResult{
		result("a.txt", "", ent("x", "PER", 0.7, 0, 0), ent("y", "PER", 0.9, 0, 0), ent("z", "PER", 0.8, 0, 0)),
	})

	require.NotNil(t, profile)
	assert.Equal(t, 0, profile.HighConfidenceCount)
	assert.Equal(t, 0, profile.LowConfidenceCount)
}

func TestProfileQuality_Empty(t *testing.T) {
	assert.Nil(t, ProfileQuality(nil))
	assert.Nil(t, ProfileQuality([]domain.DocumentResult{result("a.txt", "本文")}))
}

func TestProfileQuality_Dispersion(t *testing.T) {
	profile := ProfileQuality([]domain.DocumentResult{
		result("a.txt", "",
			ent("a", "PER", 0.2, 0, 0),
			ent("b", "PER", 0.4, 0, 0),
			ent("c", "PER", 0.6, 0, 0),
			ent("d", "PER", 0.8, 0, 0),
		),
	})

	require.NotNil(t, profile)
	assert.InDelta(t, 0.5, profile.Mean, 1e-12)
	assert.InDelta(t, math.Sqrt(0.05), profile.StdDev, 1e-12)
	assert.InDelta(t, 0.5, profile.Median, 1e-12)
	assert.InDelta(t, 0.35, profile.Q1, 1e-12)
	assert.InDelta(t, 0.65, profile.Q3, 1e-12)
}

func TestProfileQuality_Positions(t *testing.T) {
	content := "0123456789" // 10 characters
	profile := ProfileQuality([]domain.DocumentResult{
		result("a.txt", content,
			ent("a", "PER", 0.9, 0, 1),   // 0.0
			ent("b", "PER", 0.9, 3, 4),   // 0.3
			ent("c", "PER", 0.9, 4, 5),   // 0.4
			ent("d", "PER", 0.9, 7, 8),   // 0.7
			ent("e", "PER", 0.9, 10, 10), // 1.0
		),
		result("empty.txt", "", ent("f", "LOC", 0.9, 0, 0)),
	})

	require.NotNil(t, profile)
	assert.InDelta(t, 3.0/6.0, profile.Position.First, 1e-12)
	assert.InDelta(t, 1.0/6.0, profile.Position.Middle, 1e-12)
	assert.InDelta(t, 2.0/6.0, profile.Position.Last, 1e-12)
	assert.InDelta(t, 1.0, profile.Position.First+profile.Position.Middle+profile.Position.Last, 1e-12)
}

func TestProfileQuality_ByType(t *testing.T) {
	profile := ProfileQuality([]domain.DocumentResult{
		result("a.txt", "",
			ent("東京", "LOC", 0.8, 0, 0),
			ent("田中", "PER", 0.9, 0, 0),
			ent("大阪", "LOC", 0.6, 0, 0),
		),
	})

	require.NotNil(t, profile)
	require.Len(t, profile.ByType, 2)
	assert.Equal(t, "LOC", profile.ByType[0].Type)
	assert.Equal(t, 2, profile.ByType[0].Count)
	assert.InDelta(t, 0.7, profile.ByType[0].Mean, 1e-12)
	assert.Equal(t, 0.6, profile.ByType[0].Min)
	assert.Equal(t, 0.8, profile.ByType[0].Max)
	assert.Equal(t, "PER", profile.ByType[1].Type)
}

func TestPercentile(t *testing.T) {
	tests := []struct {
		name   string
		sorted []float64
		p      float64
		want   float64
	}{
		{"empty", nil, 0.5, 0},
		{"single", []float64{0.7}, 0.25, 0.7},
		{"median odd", []float64{1, 2, 3}, 0.5, 2},
		{"median even", []float64{1, 2, 3, 4}, 0.5, 2.5},
		{"upper quartile", []float64{1, 2, 3, 4, 5}, 0.75, 4},
		{"interpolated", []float64{0, 10}, 0.25, 2.5},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.InDelta(t, tt.want, percentile(tt.sorted, tt.p), 1e-12)
		})
	}
}
