package ratelimit

import (
	"sync"
	"time"
)

// TokenBucket 实现令牌桶算法的限流器
type TokenBucket struct {
	rate           float64    // 每秒生成的令牌数
	capacity       float64    // 桶的容量
	tokens         float64    // 当前令牌数
	lastRefillTime time.Time  // 上次填充令牌的时间
	mutex          sync.Mutex // 互斥锁，保证并发安全
	now            func() time.Time
}

// NewTokenBucket 创建令牌桶，window 内最多放行 limit 个请求，初始填满
func NewTokenBucket(limit int, window time.Duration) *TokenBucket {
	return newTokenBucket(limit, window, time.Now)
}

func newTokenBucket(limit int, window time.Duration, now func() time.Time) *TokenBucket {
	if limit <= 0 {
		limit = 1
	}
	if window <= 0 {
		window = time.Minute
	}
	return &TokenBucket{
		rate:           float64(limit) / window.Seconds(),
		capacity:       float64(limit),
		tokens:         float64(limit),
		lastRefillTime: now(),
		now:            now,
	}
}

// refill 根据经过的时间填充令牌
func (tb *TokenBucket) refill() {
	now := tb.now()
	elapsed := now.Sub(tb.lastRefillTime).Seconds()
	tb.lastRefillTime = now

	tb.tokens += elapsed * tb.rate
	if tb.tokens > tb.capacity {
		tb.tokens = tb.capacity
	}
}

// Allow 判断是否允许通过一个请求，消耗一个令牌
func (tb *TokenBucket) Allow() bool {
	tb.mutex.Lock()
	defer tb.mutex.Unlock()

	tb.refill()
	if tb.tokens >= 1.0 {
		tb.tokens -= 1.0
		return true
	}
	return false
}

// full 桶已满说明该 key 一段时间内没有请求
func (tb *TokenBucket) full() bool {
	tb.mutex.Lock()
	defer tb.mutex.Unlock()
	tb.refill()
	return tb.tokens >= tb.capacity
}

// KeyedLimiter 按 key (通常是客户端 IP) 分配独立的令牌桶，Redis 不可用时用于单机限流
type KeyedLimiter struct {
	limit   int
	window  time.Duration
	now     func() time.Time
	mu      sync.Mutex
	buckets map[string]*TokenBucket
}

// NewKeyedLimiter 创建按 key 限流的限流器
func NewKeyedLimiter(limit int, window time.Duration) *KeyedLimiter {
	return &KeyedLimiter{
		limit:   limit,
		window:  window,
		now:     time.Now,
		buckets: make(map[string]*TokenBucket),
	}
}

// Allow 消耗 key 对应桶中的一个令牌
func (l *KeyedLimiter) Allow(key string) bool {
	l.mu.Lock()
	tb, ok := l.buckets[key]
	if !ok {
		tb = newTokenBucket(l.limit, l.window, l.now)
		l.buckets[key] = tb
	}
	l.mu.Unlock()
	return tb.Allow()
}

// Prune 删除已经回满的桶，返回删除数量
func (l *KeyedLimiter) Prune() int {
	l.mu.Lock()
	defer l.mu.Unlock()
	removed := 0
	for key, tb := range l.buckets {
		if tb.full() {
			delete(l.buckets, key)
			removed++
		}
	}
	return removed
}

// Len 当前跟踪的 key 数量
func (l *KeyedLimiter) Len() int {
	l.mu.Lock()
	defer l.mu.Unlock()
	return len(l.buckets)
}
