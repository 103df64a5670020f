package datasource

import (
	"context"
	"encoding/json"
	"errors"
	"strings"
	"time"

	"quiz_portal_backend/internal/model"
	"quiz_portal_backend/pkg/monitoring"

	"github.com/go-redis/redis/v8"
	"go.uber.org/zap"
)

// Cache stores encoded values by key. Get reports a miss with ok=false and a
// nil error.
type Cache interface {
	Get(ctx context.Context, key string) (value []byte, ok bool, err error)
	Set(ctx context.Context, key string, value []byte, ttl time.Duration) error
	Delete(ctx context.Context, keys ...string) error
	DeletePrefix(ctx context.Context, prefix string) error
}

type RedisCache struct {
	Client *redis.Client
	Prefix string
}

func NewRedisCache(client *redis.Client, prefix string) *RedisCache {
	if prefix != "" && !strings.HasSuffix(prefix, ":") {
		prefix += ":"
	}
	return &RedisCache{Client: client, Prefix: prefix}
}

func (c *RedisCache) Get(ctx context.Context, key string) ([]byte, bool, error) {
	val, err := c.Client.Get(ctx, c.Prefix+key).Bytes()
	if errors.Is(err, redis.Nil) {
		return nil, false, nil
	}
	if err != nil {
		return nil, false, err
	}
	return val, true, nil
}

func (c *RedisCache) Set(ctx context.Context, key string, value []byte, ttl time.Duration) error {
	return c.Client.Set(ctx, c.Prefix+key, value, ttl).Err()
}

func (c *RedisCache) Delete(ctx context.Context, keys ...string) error {
	if len(keys) == 0 {
		return nil
	}
	full := make([]string, len(keys))
	for i, k := range keys {
		full[i] = c.Prefix + k
	}
	return c.Client.Del(ctx, full...).Err()
}

func (c *RedisCache) DeletePrefix(ctx context.Context, prefix string) error {
	iter := c.Client.Scan(ctx, 0, c.Prefix+prefix+"*", 100).Iterator()
	var batch []string
	for iter.Next(ctx) {
		batch = append(batch, iter.Val())
		if len(batch) == 100 {
			if err := c.Client.Del(ctx, batch...).Err(); err != nil {
				return err
			}
			batch = batch[:0]
		}
	}
	if err := iter.Err(); err != nil {
		return err
	}
	if len(batch) > 0 {
		return c.Client.Del(ctx, batch...).Err()
	}
	return nil
}

const (
	keyCategories     = "categories"
	keyCategory       = "category:"
	keyQuestions      = "questions:"
	keyQuestion       = "question:"
	defaultCacheTTL   = time.Minute
	cacheEventHit     = "hit"
	cacheEventMiss    = "miss"
	cacheEventError   = "error"
	cacheEventInvalid = "invalidate"
)

// CachedSource is a read-through cache in front of another source. Cache
// failures are logged and counted but never fail the request.
type CachedSource struct {
	Source QuizDataSource
	Cache  Cache
	TTL    time.Duration
	log    *zap.Logger
}

func Cached(source QuizDataSource, cache Cache, ttl time.Duration, log *zap.Logger) *CachedSource {
	if ttl <= 0 {
		ttl = defaultCacheTTL
	}
	if log == nil {
		log = zap.NewNop()
	}
	return &CachedSource{Source: source, Cache: cache, TTL: ttl, log: log}
}

func (c *CachedSource) Name() string { return c.Source.Name() }

func (c *CachedSource) ListCategories(ctx context.Context) ([]model.Category, error) {
	var out []model.Category
	if c.load(ctx, keyCategories, &out) {
		return out, nil
	}
	out, err := c.Source.ListCategories(ctx)
	if err != nil {
		return nil, err
	}
	c.store(ctx, keyCategories, out)
	return out, nil
}

func (c *CachedSource) GetCategory(ctx context.Context, slug string) (model.Category, error) {
	var out model.Category
	if c.load(ctx, keyCategory+slug, &out) {
		return out, nil
	}
	out, err := c.Source.GetCategory(ctx, slug)
	if err != nil {
		return model.Category{}, err
	}
	c.store(ctx, keyCategory+slug, out)
	return out, nil
}

func (c *CachedSource) ListQuestions(ctx context.Context, categorySlug string) ([]model.Question, error) {
	var out []model.Question
	if c.load(ctx, keyQuestions+categorySlug, &out) {
		return out, nil
	}
	out, err := c.Source.ListQuestions(ctx, categorySlug)
	if err != nil {
		return nil, err
	}
	c.store(ctx, keyQuestions+categorySlug, out)
	return out, nil
}

func (c *CachedSource) GetQuestion(ctx context.Context, id model.ID) (model.Question, error) {
	var out model.Question
	key := keyQuestion + id.String()
	if c.load(ctx, key, &out) {
		return out, nil
	}
	out, err := c.Source.GetQuestion(ctx, id)
	if err != nil {
		return model.Question{}, err
	}
	c.store(ctx, key, out)
	return out, nil
}

func (c *CachedSource) CreateCategory(ctx context.Context, in model.CategoryInput) (model.Category, error) {
	out, err := c.Source.CreateCategory(ctx, in)
	if err != nil {
		return out, err
	}
	c.invalidate(ctx, keyCategories, keyCategory+out.Slug)
	return out, nil
}

func (c *CachedSource) UpdateCategory(ctx context.Context, slug string, in model.CategoryInput) (model.Category, error) {
	out, err := c.Source.UpdateCategory(ctx, slug, in)
	if err != nil {
		return out, err
	}
	c.invalidate(ctx, keyCategories, keyCategory+slug, keyQuestions+slug, keyCategory+out.Slug)
	return out, nil
}

func (c *CachedSource) DeleteCategory(ctx context.Context, slug string) error {
	if err := c.Source.DeleteCategory(ctx, slug); err != nil {
		return err
	}
	c.invalidate(ctx, keyCategories, keyCategory+slug, keyQuestions+slug)
	// 分类删除时题目一并删除
	c.invalidatePrefix(ctx, keyQuestion)
	return nil
}

func (c *CachedSource) CreateQuestion(ctx context.Context, in model.QuestionInput) (model.Question, error) {
	out, err := c.Source.CreateQuestion(ctx, in)
	if err != nil {
		return out, err
	}
	c.invalidateQuestions(ctx, out.ID)
	return out, nil
}

func (c *CachedSource) UpdateQuestion(ctx context.Context, id model.ID, in model.QuestionInput) (model.Question, error) {
	out, err := c.Source.UpdateQuestion(ctx, id, in)
	if err != nil {
		return out, err
	}
	c.invalidateQuestions(ctx, id)
	return out, nil
}

func (c *CachedSource) DeleteQuestion(ctx context.Context, id model.ID) error {
	if err := c.Source.DeleteQuestion(ctx, id); err != nil {
		return err
	}
	c.invalidateQuestions(ctx, id)
	return nil
}

func (c *CachedSource) load(ctx context.Context, key string, out any) bool {
	raw, ok, err := c.Cache.Get(ctx, key)
	if err != nil {
		monitoring.CacheEvents.WithLabelValues(cacheEventError).Inc()
		c.log.Warn("cache get failed", zap.String("key", key), zap.Error(err))
		return false
	}
	if !ok {
		monitoring.CacheEvents.WithLabelValues(cacheEventMiss).Inc()
		return false
	}
	if err := json.Unmarshal(raw, out); err != nil {
		monitoring.CacheEvents.WithLabelValues(cacheEventError).Inc()
		c.log.Warn("cache entry unreadable", zap.String("key", key), zap.Error(err))
		return false
	}
	monitoring.CacheEvents.WithLabelValues(cacheEventHit).Inc()
	return true
}

func (c *CachedSource) store(ctx context.Context, key string, v any) {
	raw, err := json.Marshal(v)
	if err != nil {
		return
	}
	if err := c.Cache.Set(ctx, key, raw, c.TTL); err != nil {
		monitoring.CacheEvents.WithLabelValues(cacheEventError).Inc()
		c.log.Warn("cache set failed", zap.String("key", key), zap.Error(err))
	}
}

func (c *CachedSource) invalidate(ctx context.Context, keys ...string) {
	monitoring.CacheEvents.WithLabelValues(cacheEventInvalid).Inc()
	if err := c.Cache.Delete(ctx, keys...); err != nil {
		monitoring.CacheEvents.WithLabelValues(cacheEventError).Inc()
		c.log.Warn("cache invalidation failed", zap.Strings("keys", keys), zap.Error(err))
	}
}

// A question can move between categories, so every cached question list is
// dropped.
func (c *CachedSource) invalidateQuestions(ctx context.Context, id model.ID) {
	c.invalidate(ctx, keyQuestion+id.String())
	c.invalidatePrefix(ctx, keyQuestions)
}

func (c *CachedSource) invalidatePrefix(ctx context.Context, prefix string) {
	if err := c.Cache.DeletePrefix(ctx, prefix); err != nil {
		monitoring.CacheEvents.WithLabelValues(cacheEventError).Inc()
		c.log.Warn("cache invalidation failed", zap.String("prefix", prefix), zap.Error(err))
	}
}
