package oauthstate

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/require"
)

func TestMemoryStore_IssueConsume(t *testing.T) {
	s := NewMemoryStore(time.Minute)
	ctx := context.Background()

	state, err := s.Issue(ctx, "google")
	require.NoError(t, err)
	require.NotEmpty(t, state)

	require.NoError(t, s.Consume(ctx, "google", state))
}

func TestMemoryStore_ConsumeIsOneTime(t *testing.T) {
	s := NewMemoryStore(time.Minute)
	ctx := context.Background()

	state, err := s.Issue(ctx, "google")
	require.NoError(t, err)

	require.NoError(t, s.Consume(ctx, "google", state))
	require.ErrorIs(t, s.Consume(ctx, "google", state), ErrStateInvalid)
}

func TestMemoryStore_ProviderBound(t *testing.T) {
	s := NewMemoryStore(time.Minute)
	ctx := context.Background()

	state, err := s.Issue(ctx, "google")
	require.NoError(t, err)

	// A nonce issued for google must not pass a github callback, and the
	// failed attempt burns it.
	require.ErrorIs(t, s.Consume(ctx, "github", state), ErrStateInvalid)
	require.ErrorIs(t, s.Consume(ctx, "google", state), ErrStateInvalid)
}

func TestMemoryStore_UnknownAndEmptyState(t *testing.T) {
	s := NewMemoryStore(time.Minute)
	ctx := context.Background()

	require.ErrorIs(t, s.Consume(ctx, "google", "never-issued"), ErrStateInvalid)
	require.ErrorIs(t, s.Consume(ctx, "google", ""), ErrStateInvalid)
}

func TestMemoryStore_Expiry(t *testing.T) {
	s := NewMemoryStore(10 * time.Millisecond)
	ctx := context.Background()

	state, err := s.Issue(ctx, "google")
	require.NoError(t, err)

	time.Sleep(30 * time.Millisecond)
	require.ErrorIs(t, s.Consume(ctx, "google", state), ErrStateInvalid)
}
