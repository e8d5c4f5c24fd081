package file

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/custodia-labs/nerstat/internal/core/ports/driven"
)

func TestNewPromptStore_WithCustomDir(t *testing.T) {
	dir := t.TempDir()

	store, err := NewPromptStore(dir)

	require.NoError(t, err)
	assert.Equal(t, dir, store.Dir())
}

func TestPromptStore_Load_CreatesDefaultFile(t *testing.T) {
	dir := t.TempDir()
	store, err := NewPromptStore(dir)
	require.NoError(t, err)

	prompt, err := store.Load(driven.PromptExtractEntities)

	require.NoError(t, err)
	assert.Contains(t, prompt, `"entities"`)
	_, err = os.Stat(filepath.Join(dir, "extract_entities.txt"))
	assert.NoError(t, err)
}

func TestPromptStore_Load_ReturnsCustomContent(t *testing.T) {
	dir := t.TempDir()
	custom := "types: %s\ntext: %s"
	require.NoError(t, os.WriteFile(filepath.Join(dir, "extract_entities.txt"), []byte("  "+custom+"\n\n"), 0600))
	store, err := NewPromptStore(dir)
	require.NoError(t, err)

	prompt, err := store.Load(driven.PromptExtractEntities)

	require.NoError(t, err)
	assert.Equal(t, custom, prompt)
}

func TestPromptStore_Reload_ClearsCache(t *testing.T) {
	dir := t.TempDir()
	store, err := NewPromptStore(dir)
	require.NoError(t, err)
	_, err = store.Load(driven.PromptExtractEntities)
	require.NoError(t, err)

	require.NoError(t, os.WriteFile(filepath.Join(dir, "extract_entities.txt"), []byte("changed %s %s"), 0600))

	cached, _ := store.Load(driven.PromptExtractEntities)
	assert.NotEqual(t, "changed %s %s", cached)

	store.Reload()
	fresh, err := store.Load(driven.PromptExtractEntities)
	require.NoError(t, err)
	assert.Equal(t, "changed %s %s", fresh)
}

func TestPromptStore_Load_UnknownPrompt(t *testing.T) {
	store, err := NewPromptStore(t.TempDir())
	require.NoError(t, err)

	_, err = store.Load("does_not_exist")

	assert.Error(t, err)
}
