package resolver

import (
	"context"
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"golang.org/x/sync/errgroup"

	"github.com/dastyn/socialauth/internal/domain/repository"
	"github.com/dastyn/socialauth/internal/identity"
	"github.com/dastyn/socialauth/internal/store/memory"
)

func googleIdentity(extID string) identity.Identity {
	return identity.Identity{
		Provider:    identity.ProviderGoogle,
		ExternalID:  extID,
		Email:       "a@x.com",
		DisplayName: "Ann",
		AvatarURL:   "http://img/a.png",
	}
}

func TestResolve_CreatesOnFirstLogin(t *testing.T) {
	r := New(memory.NewAccountStore())

	acct, err := r.Resolve(context.Background(), googleIdentity("g1"))
	require.NoError(t, err)

	assert.NotEmpty(t, acct.ID)
	assert.Equal(t, "a@x.com", acct.Email)
	assert.Equal(t, "Ann", acct.DisplayName)
	assert.Equal(t, "http://img/a.png", acct.AvatarURL)
	require.Len(t, acct.Identities, 1)
	assert.Equal(t, repository.IdentityRef{Provider: "google", ExternalID: "g1"}, acct.Identities[0])
}

func TestResolve_IdempotentSequential(t *testing.T) {
	r := New(memory.NewAccountStore())
	ctx := context.Background()

	first, err := r.Resolve(ctx, googleIdentity("g1"))
	require.NoError(t, err)

	second, err := r.Resolve(ctx, googleIdentity("g1"))
	require.NoError(t, err)

	assert.Equal(t, first.ID, second.ID)
}

func TestResolve_NoRefreshOnRepeatLogin(t *testing.T) {
	r := New(memory.NewAccountStore())
	ctx := context.Background()

	first, err := r.Resolve(ctx, googleIdentity("g1"))
	require.NoError(t, err)

	// Same identity pair, drifted profile fields.
	drifted := googleIdentity("g1")
	drifted.DisplayName = "Ann Renamed"
	drifted.Email = "new@x.com"

	second, err := r.Resolve(ctx, drifted)
	require.NoError(t, err)

	assert.Equal(t, first.ID, second.ID)
	assert.Equal(t, "Ann", second.DisplayName)
	assert.Equal(t, "a@x.com", second.Email)
}

func TestResolve_CrossProviderIsolation(t *testing.T) {
	r := New(memory.NewAccountStore())
	ctx := context.Background()

	google, err := r.Resolve(ctx, identity.Identity{Provider: identity.ProviderGoogle, ExternalID: "42"})
	require.NoError(t, err)

	github, err := r.Resolve(ctx, identity.Identity{Provider: identity.ProviderGitHub, ExternalID: "42"})
	require.NoError(t, err)

	assert.NotEqual(t, google.ID, github.ID)
}

func TestResolve_RaceCreatesExactlyOneAccount(t *testing.T) {
	const n = 32

	r := New(memory.NewAccountStore())
	ids := make([]string, n)

	var g errgroup.Group
	for i := 0; i < n; i++ {
		i := i
		g.Go(func() error {
			acct, err := r.Resolve(context.Background(), googleIdentity("hot"))
			if err != nil {
				return err
			}
			ids[i] = acct.ID
			return nil
		})
	}
	require.NoError(t, g.Wait())

	for i := 1; i < n; i++ {
		assert.Equal(t, ids[0], ids[i], "resolution %d returned a different account", i)
	}
}

func TestResolve_MissingKeyFields(t *testing.T) {
	r := New(memory.NewAccountStore())

	_, err := r.Resolve(context.Background(), identity.Identity{Provider: identity.ProviderGoogle})
	require.ErrorIs(t, err, identity.ErrResolutionFailed)

	_, err = r.Resolve(context.Background(), identity.Identity{ExternalID: "g1"})
	require.ErrorIs(t, err, identity.ErrResolutionFailed)
}

// scriptedStore drives the resolver through exact store outcomes.
type scriptedStore struct {
	findResults   []findResult
	createResults []error
	finds         int
	creates       int
	created       *repository.Account
}

type findResult struct {
	acct *repository.Account
	err  error
}

func (s *scriptedStore) FindByIdentity(context.Context, string, string) (*repository.Account, error) {
	res := s.findResults[s.finds]
	s.finds++
	return res.acct, res.err
}

func (s *scriptedStore) CreateFromIdentity(_ context.Context, in repository.CreateAccountInput) (*repository.Account, error) {
	err := s.createResults[s.creates]
	s.creates++
	if err != nil {
		return nil, err
	}
	s.created = &repository.Account{
		ID:          "created",
		Email:       in.Email,
		DisplayName: in.DisplayName,
		AvatarURL:   in.AvatarURL,
		Identities:  []repository.IdentityRef{{Provider: in.Provider, ExternalID: in.ExternalID}},
	}
	return s.created, nil
}

func TestResolve_ConflictFallsBackToRelookup(t *testing.T) {
	winner := &repository.Account{ID: "winner"}
	st := &scriptedStore{
		findResults: []findResult{
			{err: repository.ErrNotFound}, // initial lookup: cold
			{acct: winner},                // re-lookup after losing the race
		},
		createResults: []error{repository.ErrConflict},
	}

	acct, err := New(st).Resolve(context.Background(), googleIdentity("g1"))
	require.NoError(t, err)

	assert.Equal(t, "winner", acct.ID)
	assert.Equal(t, 2, st.finds)
	assert.Equal(t, 1, st.creates)
}

func TestResolve_ConflictThenRelookupFails(t *testing.T) {
	st := &scriptedStore{
		findResults: []findResult{
			{err: repository.ErrNotFound},
			{err: errors.New("store down")},
		},
		createResults: []error{repository.ErrConflict},
	}

	_, err := New(st).Resolve(context.Background(), googleIdentity("g1"))
	require.ErrorIs(t, err, identity.ErrResolutionFailed)
}

func TestResolve_CreateInfraErrorPropagates(t *testing.T) {
	st := &scriptedStore{
		findResults:   []findResult{{err: repository.ErrNotFound}},
		createResults: []error{errors.New("store unavailable")},
	}

	_, err := New(st).Resolve(context.Background(), googleIdentity("g1"))
	require.ErrorIs(t, err, identity.ErrResolutionFailed)
	// The conflict path must not have consumed a second lookup.
	assert.Equal(t, 1, st.finds)
}

func TestResolve_LookupInfraErrorPropagates(t *testing.T) {
	st := &scriptedStore{
		findResults: []findResult{{err: errors.New("store down")}},
	}

	_, err := New(st).Resolve(context.Background(), googleIdentity("g1"))
	require.ErrorIs(t, err, identity.ErrResolutionFailed)
	assert.Equal(t, 0, st.creates)
}
