package storage

import (
	"context"
	"fmt"
	"testing"
	"time"

	"github.com/alicebob/miniredis/v2"
	"github.com/redis/go-redis/v9"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"intern-match-go/internal/config"
	"intern-match-go/internal/constants"
	"intern-match-go/internal/types"
)

func newTestRedis(t *testing.T) (*Redis, *miniredis.Miniredis) {
	t.Helper()
	mr := miniredis.RunT(t)
	client := redis.NewClient(&redis.Options{Addr: mr.Addr()})
	t.Cleanup(func() { client.Close() })
	return NewRedisFromClient(client, &config.RedisConfig{MD5RecordExpireDays: 1}), mr
}

func TestRedisCheckAndAddFileMD5(t *testing.T) {
	r, mr := newTestRedis(t)
	ctx := context.Background()

	exists, err := r.CheckAndAddFileMD5(ctx, "u1", "abc")
	require.NoError(t, err)
	assert.False(t, exists)

	exists, err = r.CheckAndAddFileMD5(ctx, "u1", "abc")
	require.NoError(t, err)
	assert.True(t, exists)

	// 不同用户互不影响
	exists, err = r.CheckAndAddFileMD5(ctx, "u2", "abc")
	require.NoError(t, err)
	assert.False(t, exists)

	key := fmt.Sprintf(constants.KeyFileMD5Set, "u1")
	assert.Equal(t, 24*time.Hour, mr.TTL(key))

	require.NoError(t, r.RemoveFileMD5(ctx, "u1", "abc"))
	exists, err = r.CheckAndAddFileMD5(ctx, "u1", "abc")
	require.NoError(t, err)
	assert.False(t, exists)
}

func TestRedisRecommendationCache(t *testing.T) {
	r, mr := newTestRedis(t)
	ctx := context.Background()

	_, err := r.GetRecommendations(ctx, "r1")
	assert.ErrorIs(t, err, ErrCacheMiss)

	ranked := []types.RankedInternship{
		{Internship: types.Internship{ID: "1", Title: "Software Engineering Intern"}, MatchScore: 50, MissingKeywords: []string{"Azure"}},
	}
	require.NoError(t, r.SetRecommendations(ctx, "r1", ranked, time.Minute))
	require.NoError(t, r.SetRecommendations(ctx, "r2", nil, time.Minute))

	got, err := r.GetRecommendations(ctx, "r1")
	require.NoError(t, err)
	require.Len(t, got, 1)
	assert.Equal(t, 50, got[0].MatchScore)
	assert.Equal(t, []string{"Azure"}, got[0].MissingKeywords)

	got, err = r.GetRecommendations(ctx, "r2")
	require.NoError(t, err)
	assert.Empty(t, got)

	mr.FastForward(2 * time.Minute)
	_, err = r.GetRecommendations(ctx, "r1")
	assert.ErrorIs(t, err, ErrCacheMiss)
}

func TestRedisCorruptCacheIsMiss(t *testing.T) {
	r, mr := newTestRedis(t)
	require.NoError(t, mr.Set(fmt.Sprintf(constants.KeyMatchRecommendation, "bad"), "{not json"))

	_, err := r.GetRecommendations(context.Background(), "bad")
	assert.ErrorIs(t, err, ErrCacheMiss)
}

func TestRedisInvalidateRecommendations(t *testing.T) {
	r, _ := newTestRedis(t)
	ctx := context.Background()

	for _, id := range []string{"a", "b", "c"} {
		require.NoError(t, r.SetRecommendations(ctx, id, nil, time.Minute))
	}

	require.NoError(t, r.InvalidateRecommendations(ctx, "a"))
	_, err := r.GetRecommendations(ctx, "a")
	assert.ErrorIs(t, err, ErrCacheMiss)
	_, err = r.GetRecommendations(ctx, "b")
	assert.NoError(t, err)

	require.NoError(t, r.InvalidateRecommendations(ctx))
	_, err = r.GetRecommendations(ctx, "b")
	assert.ErrorIs(t, err, ErrCacheMiss)
	_, err = r.GetRecommendations(ctx, "c")
	assert.ErrorIs(t, err, ErrCacheMiss)

	// 没有缓存时也不报错
	assert.NoError(t, r.InvalidateRecommendations(ctx))
}

func TestRedisAllow(t *testing.T) {
	r, mr := newTestRedis(t)
	ctx := context.Background()

	for i := 0; i < 3; i++ {
		assert.True(t, r.Allow(ctx, "ip:1", 3, time.Minute), "request %d", i)
	}
	assert.False(t, r.Allow(ctx, "ip:1", 3, time.Minute))
	assert.True(t, r.Allow(ctx, "ip:2", 3, time.Minute))

	mr.FastForward(time.Minute + time.Second)
	assert.True(t, r.Allow(ctx, "ip:1", 3, time.Minute))

	// 参数无效时放行
	assert.True(t, r.Allow(ctx, "", 3, time.Minute))
	assert.True(t, r.Allow(ctx, "ip:1", 0, time.Minute))

	mr.Close()
	assert.True(t, r.Allow(ctx, "ip:1", 1, time.Minute))
}
