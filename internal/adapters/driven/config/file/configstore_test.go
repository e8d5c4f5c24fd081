package file

import (
	"os"
	"path/filepath"
	"sync"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNewConfigStore_Success(t *testing.T) {
	tmpDir := t.TempDir()

	store, err := NewConfigStore(tmpDir)

	require.NoError(t, err)
	require.NotNil(t, store)
	assert.Equal(t, filepath.Join(tmpDir, "config.toml"), store.Path())
}

func TestDefaultDir(t *testing.T) {
	home, err := os.UserHomeDir()
	if err != nil {
		t.Skip("Cannot determine home directory")
	}

	dir, err := DefaultDir()

	require.NoError(t, err)
	assert.Equal(t, filepath.Join(home, ".nerstat"), dir)
}

func TestConfigStore_TypedGetters(t *testing.T) {
	store, err := NewConfigStore(t.TempDir())
	require.NoError(t, err)

	require.NoError(t, store.Set("extractor.model", "tsmatz/xlm-roberta-ner-japanese"))
	require.NoError(t, store.Set("chunking.max_tokens", 400))
	require.NoError(t, store.Set("extractor.rate_limit", 2.5))
	require.NoError(t, store.Set("analysis.verbose", true))
	require.NoError(t, store.Set("output.formats", []string{"csv", "json"}))

	assert.Equal(t, "tsmatz/xlm-roberta-ner-japanese", store.GetString("extractor.model"))
	assert.Equal(t, 400, store.GetInt("chunking.max_tokens"))
	assert.Equal(t, 400.0, store.GetFloat("chunking.max_tokens"))
	assert.Equal(t, 2.5, store.GetFloat("extractor.rate_limit"))
	assert.True(t, store.GetBool("analysis.verbose"))
	assert.Equal(t, []string{"csv", "json"}, store.GetStringSlice("output.formats"))

	// Wrong types and missing keys read as zero values.
	assert.Equal(t, "", store.GetString("chunking.max_tokens"))
	assert.Equal(t, 0, store.GetInt("extractor.model"))
	assert.Equal(t, 0.0, store.GetFloat("missing"))
	assert.False(t, store.GetBool("extractor.model"))
	assert.Nil(t, store.GetStringSlice("extractor.model"))
}

func TestConfigStore_PersistsAsTables(t *testing.T) {
	tmpDir := t.TempDir()
	store, err := NewConfigStore(tmpDir)
	require.NoError(t, err)

	require.NoError(t, store.Set("extractor.provider", "ollama"))
	require.NoError(t, store.Set("extractor.rate_limit", 5))
	require.NoError(t, store.Set("chunking.overlap", 50))
	require.NoError(t, store.Set("output.formats", []string{"markdown"}))

	data, err := os.ReadFile(store.Path())
	require.NoError(t, err)
	assert.Contains(t, string(data), "[extractor]")
	assert.Contains(t, string(data), "[chunking]")

	reloaded, err := NewConfigStore(tmpDir)
	require.NoError(t, err)
	assert.Equal(t, "ollama", reloaded.GetString("extractor.provider"))
	assert.Equal(t, 5.0, reloaded.GetFloat("extractor.rate_limit"))
	assert.Equal(t, 50, reloaded.GetInt("chunking.overlap"))
	assert.Equal(t, []string{"markdown"}, reloaded.GetStringSlice("output.formats"))
	assert.Equal(t, []string{
		"chunking.overlap",
		"extractor.provider",
		"extractor.rate_limit",
		"output.formats",
	}, reloaded.Keys())
}

func TestConfigStore_LoadHandWrittenFile(t *testing.T) {
	tmpDir := t.TempDir()
	content := `
[extractor]
provider = "dictionary"
dictionary = "/etc/nerstat/dict.yaml"

[analysis]
parallelism = 8
`
	require.NoError(t, os.WriteFile(filepath.Join(tmpDir, "config.toml"), []byte(content), 0600))

	store, err := NewConfigStore(tmpDir)

	require.NoError(t, err)
	assert.Equal(t, "dictionary", store.GetString("extractor.provider"))
	assert.Equal(t, "/etc/nerstat/dict.yaml", store.GetString("extractor.dictionary"))
	assert.Equal(t, 8, store.GetInt("analysis.parallelism"))
}

func TestNewConfigStore_LoadCorruptedFile(t *testing.T) {
	tmpDir := t.TempDir()
	require.NoError(t, os.WriteFile(filepath.Join(tmpDir, "config.toml"), []byte("this is not valid TOML {{{[["), 0600))

	store, err := NewConfigStore(tmpDir)

	assert.Error(t, err)
	assert.Nil(t, store)
}

func TestConfigStore_FilePermissions(t *testing.T) {
	store, err := NewConfigStore(t.TempDir())
	require.NoError(t, err)
	require.NoError(t, store.Set("extractor.api_token", "hf_secret"))

	info, err := os.Stat(store.Path())
	require.NoError(t, err)
	assert.Equal(t, os.FileMode(0600), info.Mode().Perm())
}

func TestConfigStore_SetWithUnmarshallableValue(t *testing.T) {
	store, err := NewConfigStore(t.TempDir())
	require.NoError(t, err)

	err = store.Set("channel", make(chan int))

	assert.Error(t, err)
}

func TestConfigStore_Concurrency(t *testing.T) {
	store, err := NewConfigStore(t.TempDir())
	require.NoError(t, err)

	var wg sync.WaitGroup
	for i := 0; i < 10; i++ {
		wg.Add(1)
		go func(n int) {
			defer wg.Done()
			_ = store.Set("analysis.parallelism", n)
			_ = store.GetInt("analysis.parallelism")
		}(i)
	}
	wg.Wait()

	_, ok := store.Get("analysis.parallelism")
	assert.True(t, ok)
}

func TestNestMap(t *testing.T) {
	nested := nestMap(map[string]any{
		"a.b":   1,
		"a.c":   "x",
		"top":   true,
		"a.b.c": 2, // conflicts with the a.b value and is dropped
	})

	assert.Equal(t, map[string]any{
		"a":   map[string]any{"b": 1, "c": "x"},
		"top": true,
	}, nested)
	assert.Equal(t, map[string]any{"a.b": 1, "a.c": "x", "top": true}, flattenMap(nested, ""))
}
