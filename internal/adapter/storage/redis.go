package storage

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"time"

	"github.com/niksmo/local-market/internal/core/domain"
	"github.com/niksmo/local-market/internal/core/port"
	"github.com/niksmo/local-market/pkg/retry"
	"github.com/redis/go-redis/v9"
)

var _ port.KeyValueStore = RedisKeyValueStore{}

const redisKeyPrefix = "storefront:"

type RedisOpts struct {
	Addr     string
	Password string
	DB       int
}

// RedisKeyValueStore keeps entries as plain Redis strings under a common
// key prefix.
type RedisKeyValueStore struct {
	rdb redis.UniversalClient
}

// NewRedisKeyValueStore connects and waits for the server to answer pings.
func NewRedisKeyValueStore(
	ctx context.Context, opts RedisOpts,
) (RedisKeyValueStore, error) {
	const op = "NewRedisKeyValueStore"

	rdb := redis.NewClient(&redis.Options{
		Addr:     opts.Addr,
		Password: opts.Password,
		DB:       opts.DB,
	})

	err := retry.Do(ctx, retry.RetryConfig{
		MaxAttempts: 5,
		Backoff:     retry.ExponentialBackoff(200 * time.Millisecond),
	}, func() error {
		return rdb.Ping(ctx).Err()
	})
	if err != nil {
		_ = rdb.Close()
		return RedisKeyValueStore{}, fmt.Errorf("%s: redis is unavailable: %w", op, err)
	}
	slog.Info("redis is available", "op", op, "addr", opts.Addr)
	return RedisKeyValueStore{rdb}, nil
}

// NewRedisKeyValueStoreFromClient wraps an existing client.
func NewRedisKeyValueStoreFromClient(rdb redis.UniversalClient) RedisKeyValueStore {
	return RedisKeyValueStore{rdb}
}

func (s RedisKeyValueStore) Get(ctx context.Context, key string) (string, error) {
	const op = "RedisKeyValueStore.Get"

	v, err := s.rdb.Get(ctx, redisKeyPrefix+key).Result()
	if err != nil {
		if errors.Is(err, redis.Nil) {
			return "", fmt.Errorf("%s: %q: %w", op, key, domain.ErrNotFound)
		}
		return "", fmt.Errorf("%s: %w", op, err)
	}
	return v, nil
}

func (s RedisKeyValueStore) Set(ctx context.Context, key, value string) error {
	const op = "RedisKeyValueStore.Set"

	if err := s.rdb.Set(ctx, redisKeyPrefix+key, value, 0).Err(); err != nil {
		return fmt.Errorf("%s: %w", op, err)
	}
	return nil
}

func (s RedisKeyValueStore) Delete(ctx context.Context, key string) error {
	const op = "RedisKeyValueStore.Delete"

	if err := s.rdb.Del(ctx, redisKeyPrefix+key).Err(); err != nil {
		return fmt.Errorf("%s: %w", op, err)
	}
	return nil
}

func (s RedisKeyValueStore) Close() {
	const op = "RedisKeyValueStore.Close"
	log := slog.With("op", op)

	if err := s.rdb.Close(); err != nil {
		log.Error("failed to close", "err", err)
		return
	}
	log.Info("redis client is closed")
}
