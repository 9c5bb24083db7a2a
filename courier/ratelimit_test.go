package courier

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestRateLimiter_FailFast(t *testing.T) {
	t.Parallel()

	limiter := newRateLimiter(RateLimitConfig{
		RequestsPerSecond: 1,
		Burst:             2,
		WaitOnLimit:       false,
	})

	ctx := context.Background()
	require.NoError(t, limiter.allow(ctx))
	require.NoError(t, limiter.allow(ctx))
	assert.ErrorIs(t, limiter.allow(ctx), ErrRateLimited)
}

func TestRateLimiter_WaitRespectsContext(t *testing.T) {
	t.Parallel()

	limiter := newRateLimiter(RateLimitConfig{
		RequestsPerSecond: 0.1, // next token ten seconds away
		Burst:             1,
		WaitOnLimit:       true,
	})

	ctx := context.Background()
	require.NoError(t, limiter.allow(ctx))

	ctx, cancel := context.WithTimeout(ctx, 30*time.Millisecond)
	defer cancel()
	assert.Error(t, limiter.allow(ctx))
}

func TestClient_RateLimit(t *testing.T) {
	t.Parallel()

	mock := NewMockTransport().
		Stub(MethodGet, "/x", `{}`, 200, nil, 0)
	client := New("https://api.example.com",
		WithTransport(mock),
		WithRateLimit(RateLimitConfig{RequestsPerSecond: 1, Burst: 1, WaitOnLimit: false}),
	)

	ctx := context.Background()

	_, err := client.Do(ctx, &Request{Method: MethodGet, Path: "/x"})
	require.NoError(t, err)

	_, err = client.Do(ctx, &Request{Method: MethodGet, Path: "/x"})
	require.Error(t, err)
	assert.True(t, IsTransport(err))
	assert.ErrorIs(t, err, ErrRateLimited)

	// The second call was rejected before the transport was reached.
	assert.Equal(t, 1, mock.CallCount(MethodGet, "/x"))
}

func TestDefaultRateLimitConfig(t *testing.T) {
	t.Parallel()

	cfg := DefaultRateLimitConfig()
	assert.Equal(t, float64(100), cfg.RequestsPerSecond)
	assert.Equal(t, 10, cfg.Burst)
	assert.True(t, cfg.WaitOnLimit)
}
