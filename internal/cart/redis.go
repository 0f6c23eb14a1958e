package cart

import (
	"context"
	"errors"
	"fmt"
	"time"

	"cake-shop/internal/domain"

	"github.com/go-redis/redis/v8"
)

const keyPrefix = "cart:"

// RedisCmd is the subset of the redis client the store uses.
type RedisCmd interface {
	Get(ctx context.Context, key string) *redis.StringCmd
	Set(ctx context.Context, key string, value interface{}, expiration time.Duration) *redis.StatusCmd
	Del(ctx context.Context, keys ...string) *redis.IntCmd
}

type RedisStore struct {
	rdb RedisCmd
	ttl time.Duration
}

func NewRedisStore(rdb RedisCmd, ttl time.Duration) *RedisStore {
	return &RedisStore{rdb: rdb, ttl: ttl}
}

func (s *RedisStore) Get(ctx context.Context, sessionID string) (domain.Cart, error) {
	b, err := s.rdb.Get(ctx, keyPrefix+sessionID).Bytes()
	if errors.Is(err, redis.Nil) {
		return domain.Cart{}, nil
	}
	if err != nil {
		return domain.Cart{}, fmt.Errorf("%w: cart get: %v", domain.ErrUnavailable, err)
	}
	return decode(b)
}

func (s *RedisStore) Set(ctx context.Context, sessionID string, c domain.Cart) error {
	b, err := encode(c)
	if err != nil {
		return err
	}
	if err := s.rdb.Set(ctx, keyPrefix+sessionID, b, s.ttl).Err(); err != nil {
		return fmt.Errorf("%w: cart set: %v", domain.ErrUnavailable, err)
	}
	return nil
}

func (s *RedisStore) Clear(ctx context.Context, sessionID string) error {
	if err := s.rdb.Del(ctx, keyPrefix+sessionID).Err(); err != nil {
		return fmt.Errorf("%w: cart clear: %v", domain.ErrUnavailable, err)
	}
	return nil
}

var _ Store = (*RedisStore)(nil)
