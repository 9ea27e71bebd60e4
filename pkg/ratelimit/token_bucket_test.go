package ratelimit

import (
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
)

type fakeClock struct {
	mu  sync.Mutex
	now time.Time
}

func (c *fakeClock) Now() time.Time {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.now
}

func (c *fakeClock) Advance(d time.Duration) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.now = c.now.Add(d)
}

func TestTokenBucketAllow(t *testing.T) {
	clock := &fakeClock{now: time.Unix(0, 0)}
	tb := newTokenBucket(2, time.Minute, clock.Now)

	assert.True(t, tb.Allow())
	assert.True(t, tb.Allow())
	assert.False(t, tb.Allow())

	// 每 30 秒补充一个令牌，多等一秒避免浮点误差
	clock.Advance(31 * time.Second)
	assert.True(t, tb.Allow())
	assert.False(t, tb.Allow())

	// 长时间空闲也不超过容量
	clock.Advance(time.Hour)
	assert.True(t, tb.Allow())
	assert.True(t, tb.Allow())
	assert.False(t, tb.Allow())
}

func TestKeyedLimiter(t *testing.T) {
	clock := &fakeClock{now: time.Unix(0, 0)}
	l := NewKeyedLimiter(1, time.Minute)
	l.now = clock.Now

	assert.True(t, l.Allow("10.0.0.1"))
	assert.False(t, l.Allow("10.0.0.1"))
	assert.True(t, l.Allow("10.0.0.2"))
	assert.Equal(t, 2, l.Len())

	assert.Equal(t, 0, l.Prune())
	clock.Advance(2 * time.Minute)
	assert.Equal(t, 2, l.Prune())
	assert.Equal(t, 0, l.Len())
	assert.True(t, l.Allow("10.0.0.1"))
}
