package biz

import (
	"context"
	"crypto/sha256"
	"encoding/hex"
	"fmt"

	"github.com/kart-io/logger"
	goredis "github.com/redis/go-redis/v9"

	"github.com/N1njakeks/echomind/internal/model"
	cacheopts "github.com/N1njakeks/echomind/pkg/options/cache"
	"github.com/N1njakeks/echomind/pkg/utils/json"
)

// AnswerCache caches chat results in Redis. The key hashes tenant, pinned
// note ID, and question together so cached answers never cross tenants.
type AnswerCache struct {
	redis *goredis.Client
	opts  *cacheopts.Options
}

// NewAnswerCache creates the answer cache. Returns nil when the cache is
// disabled; callers treat a nil cache as a pass-through.
func NewAnswerCache(opts *cacheopts.Options) *AnswerCache {
	if opts == nil || !opts.Enabled {
		return nil
	}

	client := goredis.NewClient(&goredis.Options{
		Addr:         opts.Redis.Addr(),
		Password:     opts.Redis.Password,
		DB:           opts.Redis.Database,
		MaxRetries:   opts.Redis.MaxRetries,
		PoolSize:     opts.Redis.PoolSize,
		DialTimeout:  opts.Redis.DialTimeout,
		ReadTimeout:  opts.Redis.ReadTimeout,
		WriteTimeout: opts.Redis.WriteTimeout,
	})

	return &AnswerCache{
		redis: client,
		opts:  opts,
	}
}

func (c *AnswerCache) key(tenantID, noteID, question string) string {
	hash := sha256.Sum256([]byte(fmt.Sprintf("%s|%s|%s", tenantID, noteID, question)))
	return c.opts.KeyPrefix + hex.EncodeToString(hash[:])
}

// Get returns the cached result for a question, or nil on a miss. Cache
// errors are logged and treated as misses.
func (c *AnswerCache) Get(ctx context.Context, tenantID, noteID, question string) *model.ChatResult {
	if c == nil {
		return nil
	}

	cacheKey := c.key(tenantID, noteID, question)
	data, err := c.redis.Get(ctx, cacheKey).Bytes()
	if err != nil {
		if err != goredis.Nil {
			logger.Warnw("answer cache read failed", "error", err.Error(), "key", cacheKey)
		}
		return nil
	}

	var result model.ChatResult
	if err := json.Unmarshal(data, &result); err != nil {
		logger.Warnw("dropping corrupt cache entry", "error", err.Error(), "key", cacheKey)
		_ = c.redis.Del(ctx, cacheKey).Err()
		return nil
	}

	return &result
}

// Set stores a chat result. Failures are logged, not surfaced; a broken
// cache must not fail the request.
func (c *AnswerCache) Set(ctx context.Context, tenantID, noteID, question string, result *model.ChatResult) {
	if c == nil {
		return
	}

	data, err := json.Marshal(result)
	if err != nil {
		logger.Warnw("failed to marshal result for caching", "error", err.Error())
		return
	}

	cacheKey := c.key(tenantID, noteID, question)
	if err := c.redis.Set(ctx, cacheKey, data, c.opts.TTL).Err(); err != nil {
		logger.Warnw("answer cache write failed", "error", err.Error(), "key", cacheKey)
	}
}

// Close closes the Redis connection.
func (c *AnswerCache) Close() error {
	if c == nil {
		return nil
	}
	return c.redis.Close()
}
