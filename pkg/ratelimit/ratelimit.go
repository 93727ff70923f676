// Package ratelimit 进程内按 key 的令牌桶限流
package ratelimit

import (
	"context"
	"fmt"
	"math"
	"time"

	lru "github.com/hashicorp/golang-lru/v2"
	"golang.org/x/time/rate"
)

// maxKeys 同时跟踪的 key 上限，超出后淘汰最久未访问的
const maxKeys = 10000

// RateLimiter defines the interface for rate limiting
type RateLimiter interface {
	// Allow checks if one request is allowed for the given key
	Allow(ctx context.Context, key string) (*Result, error)
}

// Limit defines the rate limit rule
type Limit struct {
	// 每秒补充的令牌数
	QPS float64
	// 桶容量
	Burst int
}

// Result represents the result of a rate limit check
type Result struct {
	Allowed    bool
	Limit      int
	Remaining  int
	RetryAfter time.Duration
}

// LocalRateLimiter implements RateLimiter with one token bucket per key
type LocalRateLimiter struct {
	limit   Limit
	buckets *lru.Cache[string, *rate.Limiter]
}

// NewLocalRateLimiter creates a new LocalRateLimiter
func NewLocalRateLimiter(limit Limit) (*LocalRateLimiter, error) {
	if limit.QPS <= 0 || limit.Burst <= 0 {
		return nil, fmt.Errorf("ratelimit: qps and burst must be positive, got %v/%d", limit.QPS, limit.Burst)
	}
	buckets, err := lru.New[string, *rate.Limiter](maxKeys)
	if err != nil {
		return nil, err
	}
	return &LocalRateLimiter{limit: limit, buckets: buckets}, nil
}

// Allow checks if the request is allowed
func (l *LocalRateLimiter) Allow(ctx context.Context, key string) (*Result, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	b := l.bucket(key)

	allowed := b.Allow()
	tokens := b.Tokens()
	res := &Result{
		Allowed:   allowed,
		Limit:     l.limit.Burst,
		Remaining: int(math.Max(0, math.Floor(tokens))),
	}
	if !allowed {
		res.RetryAfter = time.Duration((1 - tokens) / l.limit.QPS * float64(time.Second))
	}
	return res, nil
}

func (l *LocalRateLimiter) bucket(key string) *rate.Limiter {
	if b, ok := l.buckets.Get(key); ok {
		return b
	}
	b := rate.NewLimiter(rate.Limit(l.limit.QPS), l.limit.Burst)
	if prev, ok, _ := l.buckets.PeekOrAdd(key, b); ok {
		return prev
	}
	return b
}
