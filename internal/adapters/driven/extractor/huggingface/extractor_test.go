package huggingface

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"sync/atomic"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/custodia-labs/nerstat/internal/core/domain"
)

func newTestExtractor(t *testing.T, handler http.HandlerFunc) *Extractor {
	t.Helper()
	server := httptest.NewServer(handler)
	t.Cleanup(server.Close)
	return New(Config{
		BaseURL:           server.URL,
		Model:             "org/model",
		APIToken:          "hf_test",
		RequestsPerSecond: 1000,
		MaxRetries:        2,
		RetryDelay:        time.Millisecond,
	})
}

func TestNew_Defaults(t *testing.T) {
	e := New(Config{})

	assert.Equal(t, DefaultBaseURL, e.baseURL)
	assert.Equal(t, DefaultModel, e.ModelName())
	assert.Equal(t, "huggingface", e.Name())
	assert.Equal(t, DefaultMaxRetries, e.maxRetries)
}

func TestExtract_Success(t *testing.T) {
	var gotPath, gotAuth string
	var gotReq inferenceRequest
	e := newTestExtractor(t, func(w http.ResponseWriter, r *http.Request) {
		gotPath = r.URL.Path
		gotAuth = r.Header.Get("Authorization")
		_ = json.NewDecoder(r.Body).Decode(&gotReq)
		_, _ = w.Write([]byte(`[
			{"entity_group":"PER","score":0.99,"word":"田中","start":0,"end":2},
			{"entity_group":"LOC","score":0.95,"word":"東京","start":5,"end":7},
			{"entity_group":"ORG","score":0.8,"word":"会社"}
		]`))
	})

	entities, err := e.Extract(context.Background(), "田中さんは東京の会社")

	require.NoError(t, err)
	assert.Equal(t, "/models/org/model", gotPath)
	assert.Equal(t, "Bearer hf_test", gotAuth)
	assert.Equal(t, "simple", gotReq.Parameters.AggregationStrategy)
	require.Len(t, entities, 3)
	assert.Equal(t, domain.Entity{Word: "田中", Type: "PER", Confidence: 0.99, Start: 0, End: 2}, entities[0])
	assert.Equal(t, 0, entities[2].Start)
	assert.Equal(t, 0, entities[2].End)
}

func TestExtract_TokenLabelsAndInvalidRecords(t *testing.T) {
	e := newTestExtractor(t, func(w http.ResponseWriter, _ *http.Request) {
		_, _ = w.Write([]byte(`[
			{"entity":"B-LOC","score":0.9,"word":"大阪","start":0,"end":2},
			{"entity_group":"PER","score":0.9,"word":"  ","start":3,"end":4}
		]`))
	})

	entities, err := e.Extract(context.Background(), "大阪 x")

	require.NoError(t, err)
	require.Len(t, entities, 1)
	assert.Equal(t, "LOC", entities[0].Type)
}

func TestExtract_MissingEndUsesWordLength(t *testing.T) {
	e := newTestExtractor(t, func(w http.ResponseWriter, _ *http.Request) {
		_, _ = w.Write([]byte(`[
			{"entity_group":"LOC","score":0.9,"word":"東京都","start":4},
			{"entity_group":"PER","score":0.8,"word":"田中","start":8,"end":3}
		]`))
	})

	entities, err := e.Extract(context.Background(), "今日は、東京都で田中さん")

	require.NoError(t, err)
	require.Len(t, entities, 2)
	assert.Equal(t, 4, entities[0].Start)
	assert.Equal(t, 7, entities[0].End)
	assert.Equal(t, 8, entities[1].Start)
	assert.Equal(t, 10, entities[1].End)
}

func TestExtract_EmptyText(t *testing.T) {
	var calls int32
	e := newTestExtractor(t, func(_ http.ResponseWriter, _ *http.Request) {
		atomic.AddInt32(&calls, 1)
	})

	entities, err := e.Extract(context.Background(), "   ")

	require.NoError(t, err)
	assert.Empty(t, entities)
	assert.Equal(t, int32(0), atomic.LoadInt32(&calls))
}

func TestExtract_RetriesModelLoading(t *testing.T) {
	var calls int32
	e := newTestExtractor(t, func(w http.ResponseWriter, _ *http.Request) {
		if atomic.AddInt32(&calls, 1) == 1 {
			w.WriteHeader(http.StatusServiceUnavailable)
			_, _ = w.Write([]byte(`{"error":"Model is currently loading","estimated_time":1}`))
			return
		}
		_, _ = w.Write([]byte(`[{"entity_group":"LOC","score":0.9,"word":"京都","start":0,"end":2}]`))
	})

	entities, err := e.Extract(context.Background(), "京都")

	require.NoError(t, err)
	assert.Len(t, entities, 1)
	assert.Equal(t, int32(2), atomic.LoadInt32(&calls))
}

func TestExtract_RateLimitedExhaustsRetries(t *testing.T) {
	var calls int32
	e := newTestExtractor(t, func(w http.ResponseWriter, _ *http.Request) {
		atomic.AddInt32(&calls, 1)
		w.Header().Set("Retry-After", "0")
		w.WriteHeader(http.StatusTooManyRequests)
	})
	// Keep the default backoff out of the test.
	e.limiter.RecordRateLimitError(time.Millisecond)

	ctx, cancel := context.WithTimeout(context.Background(), 200*time.Millisecond)
	defer cancel()
	_, err := e.Extract(ctx, "京都")

	require.Error(t, err)
	assert.GreaterOrEqual(t, atomic.LoadInt32(&calls), int32(1))
}

func TestExtract_Unauthorized(t *testing.T) {
	e := newTestExtractor(t, func(w http.ResponseWriter, _ *http.Request) {
		w.WriteHeader(http.StatusUnauthorized)
		_, _ = w.Write([]byte(`{"error":"Invalid token"}`))
	})

	_, err := e.Extract(context.Background(), "京都")

	require.Error(t, err)
	assert.ErrorIs(t, err, domain.ErrExtractorUnavailable)
	assert.Contains(t, err.Error(), "Invalid token")
}

func TestStatusError(t *testing.T) {
	assert.ErrorIs(t, statusError(http.StatusTooManyRequests, nil), domain.ErrRateLimited)
	assert.ErrorIs(t, statusError(http.StatusServiceUnavailable, nil), errModelLoading)
	assert.Contains(t, statusError(http.StatusBadRequest, []byte("bad input")).Error(), "bad input")
}

func TestRateLimiter_WaitHonoursContext(t *testing.T) {
	r := NewRateLimiter(1)
	r.RecordRateLimitError(time.Hour)
	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	err := r.Wait(ctx)

	assert.ErrorIs(t, err, context.Canceled)
}
