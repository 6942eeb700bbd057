package helpers

import (
	"context"
	"encoding/json"
	"errors"
	"time"

	"github.com/redis/go-redis/v9"
)

// NewRedisClient builds a client for sessions, rate limits and the count cache.
func NewRedisClient(addr, password string, db int) *redis.Client {
	return redis.NewClient(&redis.Options{
		Addr:     addr,
		Password: password,
		DB:       db,
	})
}

func RedisSetJSON(ctx context.Context, rdb *redis.Client, key string, value any, ttl time.Duration) error {
	b, err := json.Marshal(value)
	if err != nil {
		return err
	}
	return rdb.Set(ctx, key, b, ttl).Err()
}

// RedisGetJSON decodes key into dest. It reports false without error on a cache miss.
func RedisGetJSON[T any](ctx context.Context, rdb *redis.Client, key string, dest *T) (bool, error) {
	res, err := rdb.Get(ctx, key).Bytes()
	if errors.Is(err, redis.Nil) {
		return false, nil
	}
	if err != nil {
		return false, err
	}
	if err := json.Unmarshal(res, dest); err != nil {
		return false, err
	}
	return true, nil
}

// RedisRemember returns the cached value at key, or calls load and caches its
// result for ttl. Cache errors are reported to onErr and never fail the call.
func RedisRemember[T any](ctx context.Context, rdb *redis.Client, key string, ttl time.Duration, load func(context.Context) (T, error), onErr func(error)) (T, error) {
	var v T
	if rdb != nil {
		ok, err := RedisGetJSON(ctx, rdb, key, &v)
		if err == nil && ok {
			return v, nil
		}
		if err != nil && onErr != nil {
			onErr(err)
		}
	}
	v, err := load(ctx)
	if err != nil {
		return v, err
	}
	if rdb != nil {
		if err := RedisSetJSON(ctx, rdb, key, v, ttl); err != nil && onErr != nil {
			onErr(err)
		}
	}
	return v, nil
}

func RedisDel(ctx context.Context, rdb *redis.Client, keys ...string) error {
	if len(keys) == 0 {
		return nil
	}
	return rdb.Del(ctx, keys...).Err()
}
