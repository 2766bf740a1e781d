package oauthstate

import (
	"context"
	"fmt"
	"time"

	rdb "github.com/redis/go-redis/v9"
)

// RedisStore keeps state nonces in redis, for deployments with more than
// one service instance behind a balancer.
type RedisStore struct {
	c      *rdb.Client
	prefix string
	ttl    time.Duration
}

// NewRedisStore connects a redis-backed state store.
func NewRedisStore(addr string, db int, prefix string, ttl time.Duration) *RedisStore {
	return &RedisStore{
		c:      rdb.NewClient(&rdb.Options{Addr: addr, DB: db}),
		prefix: prefix,
		ttl:    ttl,
	}
}

// Issue creates a state nonce bound to the provider.
func (s *RedisStore) Issue(ctx context.Context, provider string) (string, error) {
	state := newNonce()
	if err := s.c.Set(ctx, s.prefix+state, provider, s.ttl).Err(); err != nil {
		return "", fmt.Errorf("redis set state: %w", err)
	}
	return state, nil
}

// Consume validates the nonce for the provider and deletes it. GETDEL makes
// read-and-invalidate a single round trip, so a replay cannot win a race.
func (s *RedisStore) Consume(ctx context.Context, provider, state string) error {
	if state == "" {
		return ErrStateInvalid
	}
	bound, err := s.c.GetDel(ctx, s.prefix+state).Result()
	if err == rdb.Nil {
		return ErrStateInvalid
	}
	if err != nil {
		return fmt.Errorf("redis getdel state: %w", err)
	}
	if bound != provider {
		return ErrStateInvalid
	}
	return nil
}

// Close releases the redis client.
func (s *RedisStore) Close() error { return s.c.Close() }
