package cache

import (
	"context"
	"time"

	"github.com/redis/go-redis/v9"

	"staykedarnath_backend/platform/logger"
)

// Redis is a Cache backed by a Redis server, for deployments running more
// than one API instance. Expiry is enforced server-side with per-key TTLs.
// Errors degrade to cache misses; the backing store is always authoritative.
type Redis struct {
	client *redis.Client
	ttl    time.Duration
	log    *logger.Logger
}

// NewRedis creates a Redis-backed cache from a redis URL.
func NewRedis(redisURL string, ttl time.Duration, log *logger.Logger) (*Redis, error) {
	opt, err := redis.ParseURL(redisURL)
	if err != nil {
		return nil, err
	}
	if ttl <= 0 {
		ttl = DefaultTTL
	}
	return &Redis{
		client: redis.NewClient(opt),
		ttl:    ttl,
		log:    log,
	}, nil
}

// Compile-time check that Redis implements Cache.
var _ Cache = (*Redis)(nil)

// Get returns the payload for key, treating any Redis error as a miss.
func (r *Redis) Get(ctx context.Context, key string) ([]byte, bool) {
	val, err := r.client.Get(ctx, key).Bytes()
	if err != nil {
		if err != redis.Nil {
			r.log.CacheEvent("redis_get_error", key)
		}
		return nil, false
	}
	return val, true
}

// Set stores the payload with the configured TTL.
func (r *Redis) Set(ctx context.Context, key string, value []byte) {
	if err := r.client.Set(ctx, key, value, r.ttl).Err(); err != nil {
		r.log.CacheEvent("redis_set_error", key)
	}
}

// Delete removes a single key.
func (r *Redis) Delete(ctx context.Context, key string) {
	if err := r.client.Del(ctx, key).Err(); err != nil {
		r.log.CacheEvent("redis_del_error", key)
	}
}

// DeletePrefix removes every key under prefix using an iterative SCAN, so
// invalidation never blocks the server the way KEYS would.
func (r *Redis) DeletePrefix(ctx context.Context, prefix string) {
	iter := r.client.Scan(ctx, 0, prefix+"*", 100).Iterator()
	var keys []string
	for iter.Next(ctx) {
		keys = append(keys, iter.Val())
		if len(keys) >= 100 {
			if err := r.client.Del(ctx, keys...).Err(); err != nil {
				r.log.CacheEvent("redis_del_error", prefix)
			}
			keys = keys[:0]
		}
	}
	if err := iter.Err(); err != nil {
		r.log.CacheEvent("redis_scan_error", prefix)
		return
	}
	if len(keys) > 0 {
		if err := r.client.Del(ctx, keys...).Err(); err != nil {
			r.log.CacheEvent("redis_del_error", prefix)
		}
	}
}

// Close releases the underlying client.
func (r *Redis) Close() error {
	return r.client.Close()
}
