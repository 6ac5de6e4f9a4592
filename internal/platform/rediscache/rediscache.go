// Package rediscache provides a Redis connection helper and a read-through
// cache for the template catalogue.
package rediscache

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"log/slog"
	"time"

	"github.com/redis/go-redis/v9"

	"github.com/aicms/aicms-api/internal/domain"
	"github.com/aicms/aicms-api/internal/platform/logger"
	"github.com/aicms/aicms-api/internal/redact"
	"github.com/aicms/aicms-api/internal/store"
)

// TemplateListKey holds the JSON-encoded active template list.
const TemplateListKey = "aicms:templates:active"

// Connect parses url, opens a client and checks it with PING.
func Connect(ctx context.Context, url string) (*redis.Client, error) {
	opt, err := redis.ParseURL(url)
	if err != nil {
		return nil, fmt.Errorf("failed to parse Redis URL: %s", redact.Error(err))
	}

	client := redis.NewClient(opt)

	pingCtx, cancel := context.WithTimeout(ctx, 5*time.Second)
	defer cancel()
	if err := client.Ping(pingCtx).Err(); err != nil {
		_ = client.Close()
		return nil, fmt.Errorf("failed to connect to Redis: %w", err)
	}
	return client, nil
}

// Cache is the subset of *redis.Client used by the template cache.
type Cache interface {
	Get(ctx context.Context, key string) *redis.StringCmd
	Set(ctx context.Context, key string, value any, expiration time.Duration) *redis.StatusCmd
	Del(ctx context.Context, keys ...string) *redis.IntCmd
}

// CachedTemplateStore serves ListActive from Redis and falls back to the
// wrapped store on a miss or any Redis error.
type CachedTemplateStore struct {
	next   store.TemplateStore
	cache  Cache
	ttl    time.Duration
	logger *slog.Logger
}

var _ store.TemplateStore = (*CachedTemplateStore)(nil)

// NewCachedTemplateStore wraps next with a cache whose entries live for ttl.
func NewCachedTemplateStore(next store.TemplateStore, cache Cache, ttl time.Duration, log *slog.Logger) *CachedTemplateStore {
	if next == nil || cache == nil {
		// ALLOW-PANIC: Constructor enforcing required dependency
		panic("template store and cache cannot be nil")
	}
	if log == nil {
		log = slog.Default()
	}
	return &CachedTemplateStore{
		next:   next,
		cache:  cache,
		ttl:    ttl,
		logger: log.With(slog.String("component", "template_cache")),
	}
}

// ListActive implements store.TemplateStore.ListActive.
func (s *CachedTemplateStore) ListActive(ctx context.Context) ([]*domain.Template, error) {
	log := logger.FromContextOrDefault(ctx, s.logger)

	raw, err := s.cache.Get(ctx, TemplateListKey).Bytes()
	switch {
	case err == nil:
		var templates []*domain.Template
		if jsonErr := json.Unmarshal(raw, &templates); jsonErr == nil {
			log.Debug("template cache hit", slog.Int("count", len(templates)))
			return templates, nil
		}
		log.Warn("discarding undecodable template cache entry")
	case !errors.Is(err, redis.Nil):
		log.Warn("template cache read failed", slog.String("error", redact.Error(err)))
	}

	templates, err := s.next.ListActive(ctx)
	if err != nil {
		return nil, err
	}

	if len(templates) > 0 {
		encoded, err := json.Marshal(templates)
		if err == nil {
			err = s.cache.Set(ctx, TemplateListKey, encoded, s.ttl).Err()
		}
		if err != nil {
			log.Warn("template cache write failed", slog.String("error", redact.Error(err)))
		}
	}
	return templates, nil
}

// GetByPublicID implements store.TemplateStore.GetByPublicID. Lookups are not
// cached so deactivated templates stop resolving immediately.
func (s *CachedTemplateStore) GetByPublicID(ctx context.Context, publicID string) (*domain.Template, error) {
	return s.next.GetByPublicID(ctx, publicID)
}

// IncrementUsage implements store.TemplateStore.IncrementUsage.
func (s *CachedTemplateStore) IncrementUsage(ctx context.Context, publicID string) error {
	return s.next.IncrementUsage(ctx, publicID)
}

// Invalidate drops the cached template list.
func (s *CachedTemplateStore) Invalidate(ctx context.Context) error {
	return s.cache.Del(ctx, TemplateListKey).Err()
}
