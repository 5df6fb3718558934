package cache

import (
	"context"
	"testing"
	"time"

	"talent-bridge/internal/config"
	"talent-bridge/internal/logger"

	"github.com/alicebob/miniredis/v2"
	"github.com/redis/go-redis/v9"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type cachedResult struct {
	UserID     int64   `json:"user_id"`
	TotalScore float64 `json:"total_score"`
}

func newTestRedis(t *testing.T, ttl time.Duration) (*Redis, *miniredis.Miniredis) {
	t.Helper()
	mr := miniredis.RunT(t)
	client := redis.NewClient(&redis.Options{Addr: mr.Addr()})
	t.Cleanup(func() { _ = client.Close() })
	return NewFromClient(client, ttl, logger.NewTest(t)), mr
}

func TestRedis_SetAndGetJSON(t *testing.T) {
	c, mr := newTestRedis(t, time.Minute)
	ctx := context.Background()

	in := []cachedResult{{UserID: 10, TotalScore: 87.142857}, {UserID: 11, TotalScore: 35.285714}}
	require.NoError(t, c.SetJSON(ctx, "match:results:1", in, 0))

	var out []cachedResult
	ok, err := c.GetJSON(ctx, "match:results:1", &out)
	require.NoError(t, err)
	assert.True(t, ok)
	assert.Equal(t, in, out)

	assert.Equal(t, time.Minute, mr.TTL("match:results:1"))
}

func TestRedis_ExplicitTTLWins(t *testing.T) {
	c, mr := newTestRedis(t, time.Minute)
	require.NoError(t, c.SetJSON(context.Background(), "k", 1, 5*time.Second))
	assert.Equal(t, 5*time.Second, mr.TTL("k"))
}

func TestRedis_Miss(t *testing.T) {
	c, _ := newTestRedis(t, time.Minute)

	var out []cachedResult
	ok, err := c.GetJSON(context.Background(), "match:results:404", &out)
	require.NoError(t, err)
	assert.False(t, ok)
}

func TestRedis_Expiry(t *testing.T) {
	c, mr := newTestRedis(t, time.Minute)
	ctx := context.Background()
	require.NoError(t, c.SetJSON(ctx, "match:results:2", []cachedResult{}, 0))

	mr.FastForward(2 * time.Minute)

	var out []cachedResult
	ok, err := c.GetJSON(ctx, "match:results:2", &out)
	require.NoError(t, err)
	assert.False(t, ok)
}

func TestRedis_DeleteByPattern(t *testing.T) {
	c, mr := newTestRedis(t, time.Minute)
	ctx := context.Background()
	require.NoError(t, c.SetJSON(ctx, "match:results:1", 1, 0))
	require.NoError(t, c.SetJSON(ctx, "match:results:2", 2, 0))
	require.NoError(t, c.SetJSON(ctx, "other:1", 3, 0))

	n, err := c.DeleteByPattern(ctx, "match:results:*")
	require.NoError(t, err)
	assert.Equal(t, 2, n)
	assert.False(t, mr.Exists("match:results:1"))
	assert.True(t, mr.Exists("other:1"))

	require.NoError(t, c.Delete(ctx, "other:1"))
	assert.False(t, mr.Exists("other:1"))
}

func TestRedis_UnavailableBypasses(t *testing.T) {
	c := NewRedis(context.Background(), config.RedisConfig{Host: "127.0.0.1", Port: "1"}, time.Minute, logger.NewTest(t))
	ctx := context.Background()

	assert.ErrorIs(t, c.Ping(ctx), ErrUnavailable)
	assert.NoError(t, c.SetJSON(ctx, "k", 1, 0))

	var out int
	ok, err := c.GetJSON(ctx, "k", &out)
	assert.NoError(t, err)
	assert.False(t, ok)

	n, err := c.DeleteByPattern(ctx, "*")
	assert.NoError(t, err)
	assert.Zero(t, n)
}

func TestRedis_ServerGoneReturnsError(t *testing.T) {
	c, mr := newTestRedis(t, time.Minute)
	mr.Close()

	var out int
	_, err := c.GetJSON(context.Background(), "k", &out)
	assert.Error(t, err)
}
