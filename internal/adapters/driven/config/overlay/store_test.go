package overlay

import (
	"testing"

	"github.com/spf13/pflag"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/custodia-labs/nerstat/internal/adapters/driven/storage/memory"
)

func TestStore_FallsBackToBase(t *testing.T) {
	base := memory.NewConfigStore()
	require.NoError(t, base.Set("extractor.model", "stored"))
	require.NoError(t, base.Set("analysis.parallelism", 3))

	s := New(base, NewViper())

	assert.Equal(t, "stored", s.GetString("extractor.model"))
	assert.Equal(t, 3, s.GetInt("analysis.parallelism"))
	assert.False(t, s.Overridden("extractor.model"))
}

func TestStore_EnvironmentOverrides(t *testing.T) {
	t.Setenv("NERSTAT_EXTRACTOR_MODEL", "from-env")
	t.Setenv("NERSTAT_ANALYSIS_PARALLELISM", "8")
	t.Setenv("NERSTAT_EXTRACTOR_RATE_LIMIT", "2.5")
	t.Setenv("NERSTAT_OUTPUT_FORMATS", "csv, json")

	base := memory.NewConfigStore()
	require.NoError(t, base.Set("extractor.model", "stored"))
	s := New(base, NewViper())

	assert.Equal(t, "from-env", s.GetString("extractor.model"))
	assert.Equal(t, 8, s.GetInt("analysis.parallelism"))
	assert.InDelta(t, 2.5, s.GetFloat("extractor.rate_limit"), 1e-9)
	assert.Equal(t, []string{"csv", "json"}, s.GetStringSlice("output.formats"))

	v, ok := s.Get("analysis.parallelism")
	assert.True(t, ok)
	assert.Equal(t, "8", v)
}

func TestStore_FlagOverrides(t *testing.T) {
	flags := pflag.NewFlagSet("test", pflag.ContinueOnError)
	flags.String("model", "", "")
	v := NewViper()
	require.NoError(t, v.BindPFlag("extractor.model", flags.Lookup("model")))

	base := memory.NewConfigStore()
	require.NoError(t, base.Set("extractor.model", "stored"))
	s := New(base, v)

	assert.Equal(t, "stored", s.GetString("extractor.model"), "unchanged flag is not an override")

	require.NoError(t, flags.Parse([]string{"--model", "cli"}))
	assert.Equal(t, "cli", s.GetString("extractor.model"))
}

func TestStore_WritesGoToBase(t *testing.T) {
	t.Setenv("NERSTAT_EXTRACTOR_MODEL", "from-env")
	base := memory.NewConfigStore()
	s := New(base, nil)

	require.NoError(t, s.Set("extractor.model", "saved"))

	assert.Equal(t, "saved", base.GetString("extractor.model"))
	assert.Equal(t, "from-env", s.GetString("extractor.model"))
	assert.Equal(t, base.Path(), s.Path())
}
