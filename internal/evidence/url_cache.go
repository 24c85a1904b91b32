package evidence

import (
	"context"
	"errors"
	"time"

	"github.com/redis/go-redis/v9"
	"go.uber.org/zap"

	"github.com/civic-kit/complaint-service/internal/domain"
)

const urlCachePrefix = "evidence_url:"

type urlCache struct {
	next   Store
	client *redis.Client
	ttl    time.Duration
	logger *zap.Logger
}

// NewURLCache wraps a store and caches signed URLs in Redis for half of
// urlTTL, so a cached URL always has at least half its validity window left.
// With a nil client, or on any cache error, calls fall through to the wrapped
// store; the cache is an accelerator, never a dependency.
func NewURLCache(next Store, client *redis.Client, urlTTL time.Duration, logger *zap.Logger) Store {
	return &urlCache{
		next:   next,
		client: client,
		ttl:    urlTTL / 2,
		logger: logger,
	}
}

func (c *urlCache) Put(ctx context.Context, data []byte, contentType, name string) (string, error) {
	return c.next.Put(ctx, data, contentType, name)
}

func (c *urlCache) TemporaryURL(ctx context.Context, name string) (string, error) {
	if c.client == nil || name == "" || name == domain.ImageRefNone {
		return c.next.TemporaryURL(ctx, name)
	}

	key := urlCachePrefix + name
	cached, err := c.client.Get(ctx, key).Result()
	if err == nil && cached != "" {
		return cached, nil
	}
	if err != nil && !errors.Is(err, redis.Nil) {
		c.logger.Debug("evidence url cache read failed", zap.String("name", name), zap.Error(err))
	}

	url, err := c.next.TemporaryURL(ctx, name)
	if err != nil || url == "" {
		return url, err
	}

	if err := c.client.Set(ctx, key, url, c.ttl).Err(); err != nil {
		c.logger.Debug("evidence url cache write failed", zap.String("name", name), zap.Error(err))
	}
	return url, nil
}
