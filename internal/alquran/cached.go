package alquran

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"github.com/cesargomez89/tajikquran/internal/constants"
	"github.com/cesargomez89/tajikquran/internal/logger"
)

type Cache interface {
	GetCache(ctx context.Context, key string) ([]byte, error)
	SetCache(ctx context.Context, key string, data []byte, ttl time.Duration) error
}

// CachedProvider serves repeated upstream lookups from the cache table.
// Cache read and write failures are logged and bypassed.
type CachedProvider struct {
	provider Provider
	cache    Cache
	cacheTTL time.Duration
	logger   *logger.Logger
}

func NewCachedProvider(provider Provider, cache Cache, cacheTTL time.Duration, log *logger.Logger) *CachedProvider {
	if log == nil {
		log = logger.Discard()
	}
	return &CachedProvider{
		provider: provider,
		cache:    cache,
		cacheTTL: cacheTTL,
		logger:   log.WithComponent("alquran_cache"),
	}
}

func (c *CachedProvider) AyahTajweed(ctx context.Context, ref string) (json.RawMessage, error) {
	key := fmt.Sprintf("%s:%s", constants.CacheKeyTajweedAyah, ref)
	return c.raw(ctx, key, func() (json.RawMessage, error) {
		return c.provider.AyahTajweed(ctx, ref)
	})
}

func (c *CachedProvider) SurahTajweed(ctx context.Context, number int) (json.RawMessage, error) {
	key := fmt.Sprintf("%s:%d", constants.CacheKeyTajweedSurah, number)
	return c.raw(ctx, key, func() (json.RawMessage, error) {
		return c.provider.SurahTajweed(ctx, number)
	})
}

func (c *CachedProvider) AyahAudio(ctx context.Context, ref string) (string, error) {
	key := fmt.Sprintf("%s:%s", constants.CacheKeyAudioAyah, ref)
	if data := c.get(ctx, key); data != nil {
		return string(data), nil
	}

	url, err := c.provider.AyahAudio(ctx, ref)
	if err != nil {
		return "", err
	}
	c.set(ctx, key, []byte(url))
	return url, nil
}

func (c *CachedProvider) raw(ctx context.Context, key string, fetch func() (json.RawMessage, error)) (json.RawMessage, error) {
	if data := c.get(ctx, key); data != nil && json.Valid(data) {
		return json.RawMessage(data), nil
	}

	data, err := fetch()
	if err != nil {
		return nil, err
	}
	c.set(ctx, key, data)
	return data, nil
}

func (c *CachedProvider) get(ctx context.Context, key string) []byte {
	data, err := c.cache.GetCache(ctx, key)
	if err != nil {
		c.logger.Warn("Cache read failed", "key", key, "error", err)
		return nil
	}
	return data
}

func (c *CachedProvider) set(ctx context.Context, key string, data []byte) {
	if err := c.cache.SetCache(ctx, key, data, c.cacheTTL); err != nil {
		c.logger.Warn("Cache write failed", "key", key, "error", err)
	}
}
