package middleware

import (
	"context"
	"os"
	"testing"
	"time"

	"github.com/alicebob/miniredis/v2"
	"github.com/redis/go-redis/v9"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestCheckRateLimit(t *testing.T) {
	mr := miniredis.RunT(t)
	rdb := redis.NewClient(&redis.Options{Addr: mr.Addr()})
	ctx := context.Background()

	// Rate limiting is bypassed outside production-like envs.
	require.NoError(t, os.Setenv("APP_ENV", "production"))
	defer os.Unsetenv("APP_ENV")

	for i := 0; i < 3; i++ {
		allowed, err := CheckRateLimit(ctx, rdb, "create_post", "user:1", 3, time.Minute)
		require.NoError(t, err)
		assert.True(t, allowed, "request %d should be allowed", i+1)
	}

	allowed, err := CheckRateLimit(ctx, rdb, "create_post", "user:1", 3, time.Minute)
	require.NoError(t, err)
	assert.False(t, allowed, "fourth request should be limited")

	// A different principal has its own counter.
	allowed, err = CheckRateLimit(ctx, rdb, "create_post", "user:2", 3, time.Minute)
	require.NoError(t, err)
	assert.True(t, allowed)
}

func TestCheckRateLimit_DisabledInTestEnv(t *testing.T) {
	require.NoError(t, os.Setenv("APP_ENV", "test"))
	defer os.Unsetenv("APP_ENV")

	allowed, err := CheckRateLimit(context.Background(), nil, "create_post", "ip:127.0.0.1", 1, time.Minute)
	require.NoError(t, err)
	assert.True(t, allowed)
}
