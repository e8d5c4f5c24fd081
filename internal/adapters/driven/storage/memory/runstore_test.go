package memory

import (
	"context"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/custodia-labs/nerstat/internal/core/domain"
)

func TestRunStore_SaveAndGet(t *testing.T) {
	store := NewRunStore()
	ctx := context.Background()
	rec := domain.RunRecord{ID: "run-1", InputPath: "demo", TotalEntities: 4}

	require.NoError(t, store.Save(ctx, rec))

	got, err := store.Get(ctx, "run-1")
	require.NoError(t, err)
	assert.Equal(t, rec, *got)
}

func TestRunStore_Get_NotFound(t *testing.T) {
	store := NewRunStore()

	_, err := store.Get(context.Background(), "missing")

	assert.ErrorIs(t, err, domain.ErrNotFound)
}

func TestRunStore_Save_RequiresID(t *testing.T) {
	err := NewRunStore().Save(context.Background(), domain.RunRecord{})

	assert.ErrorIs(t, err, domain.ErrInvalidInput)
}

func TestRunStore_List_OrderSinceAndLimit(t *testing.T) {
	store := NewRunStore()
	ctx := context.Background()
	base := time.Date(2026, 3, 1, 10, 0, 0, 0, time.UTC)
	require.NoError(t, store.Save(ctx, domain.RunRecord{ID: "a", StartedAt: base}))
	require.NoError(t, store.Save(ctx, domain.RunRecord{ID: "b", StartedAt: base.Add(time.Hour)}))
	require.NoError(t, store.Save(ctx, domain.RunRecord{ID: "c", StartedAt: base.Add(2 * time.Hour)}))

	all, err := store.List(ctx, domain.RunFilter{})
	require.NoError(t, err)
	require.Len(t, all, 3)
	assert.Equal(t, []string{"c", "b", "a"}, []string{all[0].ID, all[1].ID, all[2].ID})

	since, err := store.List(ctx, domain.RunFilter{Since: base.Add(time.Hour)})
	require.NoError(t, err)
	assert.Len(t, since, 2)

	limited, err := store.List(ctx, domain.RunFilter{Limit: 1})
	require.NoError(t, err)
	require.Len(t, limited, 1)
	assert.Equal(t, "c", limited[0].ID)
}

func TestRunStore_Delete(t *testing.T) {
	store := NewRunStore()
	ctx := context.Background()
	require.NoError(t, store.Save(ctx, domain.RunRecord{ID: "run-1"}))

	require.NoError(t, store.Delete(ctx, "run-1"))

	_, err := store.Get(ctx, "run-1")
	assert.ErrorIs(t, err, domain.ErrNotFound)
}

func TestRunStore_ConcurrentAccess(t *testing.T) {
	store := NewRunStore()
	ctx := context.Background()
	var wg sync.WaitGroup
	for i := 0; i < 20; i++ {
		wg.Add(1)
		go func(n int) {
			defer wg.Done()
			id := string(rune('a' + n))
			_ = store.Save(ctx, domain.RunRecord{ID: id})
			_, _ = store.List(ctx, domain.RunFilter{})
		}(i)
	}
	wg.Wait()

	all, err := store.List(ctx, domain.RunFilter{})
	require.NoError(t, err)
	assert.Len(t, all, 20)
}
