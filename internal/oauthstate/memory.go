package oauthstate

import (
	"context"
	"time"

	gocache "github.com/patrickmn/go-cache"
)

// MemoryStore keeps state nonces in an in-process TTL cache.
type MemoryStore struct {
	c   *gocache.Cache
	ttl time.Duration
}

// NewMemoryStore creates a memory store with the given nonce TTL.
func NewMemoryStore(ttl time.Duration) *MemoryStore {
	return &MemoryStore{
		c:   gocache.New(ttl, ttl),
		ttl: ttl,
	}
}

// Issue creates a state nonce bound to the provider.
func (s *MemoryStore) Issue(ctx context.Context, provider string) (string, error) {
	state := newNonce()
	s.c.Set(state, provider, s.ttl)
	return state, nil
}

// Consume validates the nonce for the provider and deletes it.
func (s *MemoryStore) Consume(ctx context.Context, provider, state string) error {
	if state == "" {
		return ErrStateInvalid
	}
	v, ok := s.c.Get(state)
	if !ok {
		return ErrStateInvalid
	}
	s.c.Delete(state)
	if bound, _ := v.(string); bound != provider {
		return ErrStateInvalid
	}
	return nil
}
