// Package cache holds the Redis-backed helpers used by the chat assistant:
// a read-through knowledge base cache and a per-user rate limiter. Both fail
// open when Redis is unavailable.
package cache

import (
	"context"
	"encoding/json"
	"fmt"
	"strconv"
	"time"

	"github.com/redis/go-redis/v9"
	"go.uber.org/zap"

	"github.com/spec-kit/helpdesk-service/internal/domain"
)

// ArticleSource loads knowledge base articles of a category.
type ArticleSource interface {
	ListByCategory(ctx context.Context, category domain.Category, limit int) ([]domain.KnowledgeArticle, error)
}

// KnowledgeCache is a read-through cache in front of an ArticleSource.
type KnowledgeCache struct {
	client *redis.Client
	source ArticleSource
	ttl    time.Duration
	logger *zap.Logger
}

// NewKnowledgeCache wraps source. A nil client or zero ttl disables caching.
func NewKnowledgeCache(client *redis.Client, source ArticleSource, ttl time.Duration, logger *zap.Logger) *KnowledgeCache {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &KnowledgeCache{client: client, source: source, ttl: ttl, logger: logger}
}

func categoryKey(category domain.Category) string {
	return fmt.Sprintf("kb:category:%s", category)
}

// ListByCategory serves from Redis when possible and populates it on a miss.
func (c *KnowledgeCache) ListByCategory(ctx context.Context, category domain.Category, limit int) ([]domain.KnowledgeArticle, error) {
	if c.client == nil || c.ttl <= 0 {
		return c.source.ListByCategory(ctx, category, limit)
	}

	key := categoryKey(category)
	field := strconv.Itoa(limit)

	raw, err := c.client.HGet(ctx, key, field).Bytes()
	switch {
	case err == nil:
		var articles []domain.KnowledgeArticle
		if jsonErr := json.Unmarshal(raw, &articles); jsonErr == nil {
			return articles, nil
		}
		c.logger.Warn("discarding corrupt knowledge cache entry", zap.String("key", key))
	case err != redis.Nil:
		c.logger.Warn("knowledge cache read failed", zap.String("key", key), zap.Error(err))
	}

	articles, err := c.source.ListByCategory(ctx, category, limit)
	if err != nil {
		return nil, err
	}

	if payload, err := json.Marshal(articles); err == nil {
		pipe := c.client.TxPipeline()
		pipe.HSet(ctx, key, field, payload)
		pipe.Expire(ctx, key, c.ttl)
		if _, err := pipe.Exec(ctx); err != nil {
			c.logger.Warn("knowledge cache write failed", zap.String("key", key), zap.Error(err))
		}
	}
	return articles, nil
}

// Invalidate drops every cached lookup for the category.
func (c *KnowledgeCache) Invalidate(ctx context.Context, category domain.Category) {
	if c.client == nil {
		return
	}
	if err := c.client.Del(ctx, categoryKey(category)).Err(); err != nil {
		c.logger.Warn("knowledge cache invalidate failed", zap.String("category", string(category)), zap.Error(err))
	}
}
