package services

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/custodia-labs/nerstat/internal/adapters/driven/storage/memory"
	"github.com/custodia-labs/nerstat/internal/core/domain"
)

func seededHistory(t *testing.T) *HistoryService {
	t.Helper()
	store := memory.NewRunStore()
	for i, id := range []string{"old", "mid", "new"} {
		require.NoError(t, store.Save(context.Background(), domain.RunRecord{
			ID:        id,
			StartedAt: testTime.Add(time.Duration(i) * time.Hour),
		}))
	}
	return NewHistoryService(store)
}

func TestHistoryService_List(t *testing.T) {
	svc := seededHistory(t)

	runs, err := svc.List(context.Background(), domain.RunFilter{Limit: 2})
	require.NoError(t, err)

	require.Len(t, runs, 2)
	assert.Equal(t, "new", runs[0].ID)
	assert.Equal(t, "mid", runs[1].ID)
}

func TestHistoryService_List_Since(t *testing.T) {
	svc := seededHistory(t)

	runs, err := svc.List(context.Background(), domain.RunFilter{Since: testTime.Add(30 * time.Minute)})
	require.NoError(t, err)

	assert.Len(t, runs, 2)
}

func TestHistoryService_List_NegativeLimit(t *testing.T) {
	_, err := seededHistory(t).List(context.Background(), domain.RunFilter{Limit: -1})

	assert.ErrorIs(t, err, domain.ErrInvalidInput)
}

func TestHistoryService_Get(t *testing.T) {
	svc := seededHistory(t)

	rec, err := svc.Get(context.Background(), "mid")
	require.NoError(t, err)
	assert.Equal(t, "mid", rec.ID)

	latest, err := svc.Get(context.Background(), "")
	require.NoError(t, err)
	assert.Equal(t, "new", latest.ID)

	_, err = svc.Get(context.Background(), "missing")
	assert.ErrorIs(t, err, domain.ErrNotFound)
}

func TestHistoryService_Get_LatestWhenEmpty(t *testing.T) {
	svc := NewHistoryService(memory.NewRunStore())

	_, err := svc.Get(context.Background(), "")

	assert.ErrorIs(t, err, domain.ErrNotFound)
}

func TestHistoryService_Delete(t *testing.T) {
	svc := seededHistory(t)

	require.NoError(t, svc.Delete(context.Background(), "mid"))

	_, err := svc.Get(context.Background(), "mid")
	assert.ErrorIs(t, err, domain.ErrNotFound)

	assert.ErrorIs(t, svc.Delete(context.Background(), "mid"), domain.ErrNotFound)
	assert.ErrorIs(t, svc.Delete(context.Background(), ""), domain.ErrInvalidInput)
}
