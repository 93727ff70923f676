// Package cache 定价结果的有界 LRU 缓存
package cache

import (
	"fmt"

	lru "github.com/hashicorp/golang-lru/v2"
	"github.com/wyfcoding/bsintuition/internal/pricing/domain"
)

// DefaultSize 配置值非正时使用的缓存容量
const DefaultSize = 4096

// Observer 缓存命中与未命中的观察者
type Observer interface {
	CacheHit()
	CacheMiss()
}

// CachedPricer 以完整输入为键缓存纯定价函数的结果
// 错误不缓存，可并发使用
type CachedPricer struct {
	next     domain.Pricer
	cache    *lru.Cache[domain.PriceInput, float64]
	observer Observer
}

// NewCachedPricer 用最多 size 条的 LRU 缓存包装 next，observer 可为 nil
func NewCachedPricer(next domain.Pricer, size int, observer Observer) (*CachedPricer, error) {
	if next == nil {
		return nil, fmt.Errorf("cache: nil pricer")
	}
	if size <= 0 {
		size = DefaultSize
	}
	c, err := lru.New[domain.PriceInput, float64](size)
	if err != nil {
		return nil, fmt.Errorf("cache: %w", err)
	}
	return &CachedPricer{next: next, cache: c, observer: observer}, nil
}

// Price 命中时直接返回，未命中时调用下游定价器
func (p *CachedPricer) Price(in domain.PriceInput) (float64, error) {
	if v, ok := p.cache.Get(in); ok {
		if p.observer != nil {
			p.observer.CacheHit()
		}
		return v, nil
	}
	if p.observer != nil {
		p.observer.CacheMiss()
	}

	v, err := p.next.Price(in)
	if err != nil {
		return 0, err
	}
	p.cache.Add(in, v)
	return v, nil
}

// Len 当前缓存条目数
func (p *CachedPricer) Len() int { return p.cache.Len() }

// Purge 清空缓存
func (p *CachedPricer) Purge() { p.cache.Purge() }
