package services

import (
	"context"
	"time"

	"github.com/redis/go-redis/v9"
)

// Cache is the slice of the Redis client the emergency services depend on.
// *cache.RedisCache satisfies it.
type Cache interface {
	Set(ctx context.Context, key string, value interface{}, expiration time.Duration) error
	Get(ctx context.Context, key string, dest interface{}) error
	Delete(ctx context.Context, keys ...string) error
	SetExpire(ctx context.Context, key string, expiration time.Duration) error
	HSet(ctx context.Context, key string, values map[string]interface{}) error
	HGetAll(ctx context.Context, key string) (map[string]string, error)
	SAdd(ctx context.Context, key string, members ...interface{}) error
	SMembers(ctx context.Context, key string) ([]string, error)
	SRem(ctx context.Context, key string, members ...interface{}) error
	GeoAdd(ctx context.Context, key string, geoLocation *redis.GeoLocation) error
	Publish(ctx context.Context, channel string, message interface{}) error
}
