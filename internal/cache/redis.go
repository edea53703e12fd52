package cache

import (
	"context"
	"encoding/json"
	"errors"
	"strconv"
	"time"

	"github.com/portfolio-cms/portfolio-api/internal/models"
	"github.com/redis/go-redis/v9"
)

// ContentCache holds the aggregated public content read.
//
// Entries are tied to a generation. Get reports the current generation and a
// fill must pass it back to Set; Invalidate moves to a new generation, so a
// fill computed before a write lands on a key nobody reads any more.
type ContentCache interface {
	// Get returns nil content on a miss.
	Get(ctx context.Context) (*models.Content, int64, error)
	Set(ctx context.Context, c *models.Content, gen int64) error
	Invalidate(ctx context.Context) error
}

// RedisContentCache stores the content as JSON under "<prefix>content:<gen>"
// with a TTL. The generation counter lives at "<prefix>content:gen".
type RedisContentCache struct {
	client *redis.Client
	prefix string
	ttl    time.Duration
}

// NewRedisContentCache creates a Redis-backed cache. Prefix may be empty.
func NewRedisContentCache(client *redis.Client, prefix string, ttl time.Duration) *RedisContentCache {
	if prefix == "" {
		prefix = "portfolio:"
	}
	if ttl <= 0 {
		ttl = time.Minute
	}
	return &RedisContentCache{client: client, prefix: prefix, ttl: ttl}
}

func (r *RedisContentCache) genKey() string {
	return r.prefix + "content:gen"
}

func (r *RedisContentCache) key(gen int64) string {
	return r.prefix + "content:" + strconv.FormatInt(gen, 10)
}

func (r *RedisContentCache) generation(ctx context.Context) (int64, error) {
	gen, err := r.client.Get(ctx, r.genKey()).Int64()
	if errors.Is(err, redis.Nil) {
		return 0, nil
	}
	return gen, err
}

func (r *RedisContentCache) Get(ctx context.Context) (*models.Content, int64, error) {
	gen, err := r.generation(ctx)
	if err != nil {
		return nil, 0, err
	}
	b, err := r.client.Get(ctx, r.key(gen)).Bytes()
	if err != nil {
		if errors.Is(err, redis.Nil) {
			return nil, gen, nil
		}
		return nil, gen, err
	}
	var c models.Content
	if err := json.Unmarshal(b, &c); err != nil {
		// unreadable entry, drop it and treat as a miss
		_ = r.client.Del(ctx, r.key(gen)).Err()
		return nil, gen, nil
	}
	return &c, gen, nil
}

func (r *RedisContentCache) Set(ctx context.Context, c *models.Content, gen int64) error {
	b, err := json.Marshal(c)
	if err != nil {
		return err
	}
	return r.client.Set(ctx, r.key(gen), b, r.ttl).Err()
}

// Invalidate bumps the generation and drops the entry of the previous one.
func (r *RedisContentCache) Invalidate(ctx context.Context) error {
	gen, err := r.client.Incr(ctx, r.genKey()).Result()
	if err != nil {
		return err
	}
	return r.client.Del(ctx, r.key(gen-1)).Err()
}
