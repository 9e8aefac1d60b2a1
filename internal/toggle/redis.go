package toggle

import (
	"context"
	"errors"
	"fmt"
	"strconv"

	"github.com/redis/go-redis/v9"
)

const defaultRedisHash = "yt:toggles"

// Redis keeps switches as fields of one hash: field = key, value "1" or "0".
type Redis struct {
	rdb  *redis.Client
	hash string
}

// NewRedis connects to redisURL and verifies the connection.
func NewRedis(ctx context.Context, redisURL string) (*Redis, error) {
	opts, err := redis.ParseURL(redisURL)
	if err != nil {
		return nil, fmt.Errorf("toggle: parse redis url: %w", err)
	}
	rdb := redis.NewClient(opts)
	if err := rdb.Ping(ctx).Err(); err != nil {
		_ = rdb.Close()
		return nil, fmt.Errorf("toggle: ping redis: %w", err)
	}
	return &Redis{rdb: rdb, hash: defaultRedisHash}, nil
}

func (r *Redis) Enabled(ctx context.Context, key int) (bool, error) {
	v, err := r.rdb.HGet(ctx, r.hash, strconv.Itoa(key)).Result()
	if errors.Is(err, redis.Nil) {
		return false, nil
	}
	if err != nil {
		return false, fmt.Errorf("toggle: hget %d: %w", key, err)
	}
	on, err := strconv.ParseBool(v)
	if err != nil {
		return false, fmt.Errorf("toggle: bad value %q for %d", v, key)
	}
	return on, nil
}

func (r *Redis) Set(ctx context.Context, key int, on bool) error {
	v := "0"
	if on {
		v = "1"
	}
	return r.rdb.HSet(ctx, r.hash, strconv.Itoa(key), v).Err()
}

func (r *Redis) Close() error { return r.rdb.Close() }
