package postprocessors

import (
	"github.com/custodia-labs/nerstat/internal/core/domain"
	"github.com/custodia-labs/nerstat/internal/core/ports/driven"
	"github.com/custodia-labs/nerstat/internal/postprocessors/clamp"
	"github.com/custodia-labs/nerstat/internal/postprocessors/merge"
)

// DefaultChain is the processor order applied to chunked extraction output.
var DefaultChain = []string{"merge", "clamp"}

// RegisterDefaults registers all built-in processors with the registry.
// Call this during application initialisation to enable standard processors.
func RegisterDefaults(r *Registry) {
	r.Register("merge", buildMerge)
	r.Register("clamp", buildClamp)
}

// DefaultPipeline builds DefaultChain from chunk settings.
func DefaultPipeline(settings domain.ChunkSettings) (*Pipeline, error) {
	r := NewRegistry()
	RegisterDefaults(r)
	return r.BuildPipeline(map[string]any{
		"merge_distance": settings.MergeDistance,
		"merge_ratio":    settings.MergeRatio,
	}, DefaultChain...)
}

// buildMerge creates a merge processor from generic config.
// Supported config keys:
//   - merge_distance (int): Allowed gap after the previous span (default: 5)
//   - merge_ratio (float): Allowed start drift per character (default: 0.5)
func buildMerge(cfg map[string]any) (driven.EntityPostProcessor, error) {
	var opts []merge.Option

	if cfg != nil {
		if _, ok := cfg["merge_distance"]; ok {
			opts = append(opts, merge.WithDistance(getIntFromConfig(cfg, "merge_distance")))
		}
		if ratio := getFloatFromConfig(cfg, "merge_ratio"); ratio > 0 {
			opts = append(opts, merge.WithRatio(ratio))
		}
	}

	return merge.New(opts...), nil
}

func buildClamp(_ map[string]any) (driven.EntityPostProcessor, error) {
	return clamp.New(), nil
}

// getIntFromConfig safely extracts an int from generic config map.
// Handles int, int64, and float64 types that may come from TOML/JSON parsing.
func getIntFromConfig(cfg map[string]any, key string) int {
	val, ok := cfg[key]
	if !ok {
		return 0
	}

	switch v := val.(type) {
	case int:
		return v
	case int64:
		return int(v)
	case float64:
		return int(v)
	default:
		return 0
	}
}

// getFloatFromConfig is getIntFromConfig for float settings.
func getFloatFromConfig(cfg map[string]any, key string) float64 {
	val, ok := cfg[key]
	if !ok {
		return 0
	}

	switch v := val.(type) {
	case float64:
		return v
	case int:
		return float64(v)
	case int64:
		return float64(v)
	default:
		return 0
	}
}
