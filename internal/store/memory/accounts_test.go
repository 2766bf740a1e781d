package memory

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/dastyn/socialauth/internal/domain/repository"
)

func TestCreateFromIdentity_EnforcesUniqueness(t *testing.T) {
	s := NewAccountStore()
	ctx := context.Background()

	in := repository.CreateAccountInput{Provider: "google", ExternalID: "g1", Email: "a@x.com"}

	first, err := s.CreateFromIdentity(ctx, in)
	require.NoError(t, err)

	_, err = s.CreateFromIdentity(ctx, in)
	require.ErrorIs(t, err, repository.ErrConflict)

	found, err := s.FindByIdentity(ctx, "google", "g1")
	require.NoError(t, err)
	assert.Equal(t, first.ID, found.ID)
}

func TestCreateFromIdentity_SameIDAcrossProviders(t *testing.T) {
	s := NewAccountStore()
	ctx := context.Background()

	_, err := s.CreateFromIdentity(ctx, repository.CreateAccountInput{Provider: "google", ExternalID: "42"})
	require.NoError(t, err)

	// Same external id in another provider namespace is a different key.
	_, err = s.CreateFromIdentity(ctx, repository.CreateAccountInput{Provider: "github", ExternalID: "42"})
	require.NoError(t, err)
}

func TestFindByIdentity_NotFound(t *testing.T) {
	s := NewAccountStore()

	_, err := s.FindByIdentity(context.Background(), "google", "missing")
	require.ErrorIs(t, err, repository.ErrNotFound)
}

func TestFindByIdentity_ReturnsCopy(t *testing.T) {
	s := NewAccountStore()
	ctx := context.Background()

	_, err := s.CreateFromIdentity(ctx, repository.CreateAccountInput{Provider: "google", ExternalID: "g1", DisplayName: "Ann"})
	require.NoError(t, err)

	got, err := s.FindByIdentity(ctx, "google", "g1")
	require.NoError(t, err)

	got.DisplayName = "Mutated"
	got.Identities[0].ExternalID = "tampered"

	again, err := s.FindByIdentity(ctx, "google", "g1")
	require.NoError(t, err)
	assert.Equal(t, "Ann", again.DisplayName)
	assert.Equal(t, "g1", again.Identities[0].ExternalID)
}

func TestCreateFromIdentity_InvalidInput(t *testing.T) {
	s := NewAccountStore()

	_, err := s.CreateFromIdentity(context.Background(), repository.CreateAccountInput{Provider: "google"})
	require.ErrorIs(t, err, repository.ErrInvalidInput)
}
