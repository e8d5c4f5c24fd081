package huggingface

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"golang.org/x/time/rate"
)

func TestNewRateLimiter(t *testing.T) {
	assert.Equal(t, rate.Inf, NewRateLimiter(0).limiter.Limit())
	assert.Equal(t, rate.Limit(5), NewRateLimiter(5).limiter.Limit())
	assert.Equal(t, 5, NewRateLimiter(5).limiter.Burst())
	assert.Equal(t, 1, NewRateLimiter(0.5).limiter.Burst())
}

func TestRateLimiter_RecordRateLimitError(t *testing.T) {
	r := NewRateLimiter(0)

	r.RecordRateLimitError(0)
	assert.WithinDuration(t, time.Now().Add(DefaultBackoff), r.retryAt, time.Second)

	r.RecordRateLimitError(10 * time.Millisecond)
	start := time.Now()
	assert.NoError(t, r.Wait(context.Background()))
	assert.GreaterOrEqual(t, time.Since(start), 5*time.Millisecond)
}
