// Package memory implements the account repository in process memory.
// It enforces the same (provider, external_id) uniqueness semantics as
// the postgres driver, which makes it suitable for the resolver's race
// tests and for local development without a database.
package memory

import (
	"context"
	"sync"
	"time"

	"github.com/google/uuid"

	"github.com/dastyn/socialauth/internal/domain/repository"
)

// AccountStore is a mutex-guarded in-memory account repository.
type AccountStore struct {
	mu       sync.Mutex
	byKey    map[string]string              // provider\x00externalID -> account id
	accounts map[string]*repository.Account // account id -> account
}

// NewAccountStore creates an empty store.
func NewAccountStore() *AccountStore {
	return &AccountStore{
		byKey:    make(map[string]string),
		accounts: make(map[string]*repository.Account),
	}
}

func key(provider, externalID string) string {
	return provider + "\x00" + externalID
}

// FindByIdentity looks up the account holding (provider, externalID).
func (s *AccountStore) FindByIdentity(ctx context.Context, provider, externalID string) (*repository.Account, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	id, ok := s.byKey[key(provider, externalID)]
	if !ok {
		return nil, repository.ErrNotFound
	}
	return cloneAccount(s.accounts[id]), nil
}

// CreateFromIdentity creates an account, failing with ErrConflict when the
// (provider, externalID) pair is already taken. The check and the insert
// happen under one lock, mirroring the unique index of the SQL driver.
func (s *AccountStore) CreateFromIdentity(ctx context.Context, in repository.CreateAccountInput) (*repository.Account, error) {
	if in.Provider == "" || in.ExternalID == "" {
		return nil, repository.ErrInvalidInput
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	k := key(in.Provider, in.ExternalID)
	if _, taken := s.byKey[k]; taken {
		return nil, repository.ErrConflict
	}

	acct := &repository.Account{
		ID:          uuid.NewString(),
		Email:       in.Email,
		DisplayName: in.DisplayName,
		AvatarURL:   in.AvatarURL,
		CreatedAt:   time.Now().UTC(),
		Identities: []repository.IdentityRef{
			{Provider: in.Provider, ExternalID: in.ExternalID},
		},
	}
	s.accounts[acct.ID] = acct
	s.byKey[k] = acct.ID

	return cloneAccount(acct), nil
}

// cloneAccount copies the account so callers cannot mutate stored state.
func cloneAccount(a *repository.Account) *repository.Account {
	if a == nil {
		return nil
	}
	out := *a
	out.Identities = append([]repository.IdentityRef(nil), a.Identities...)
	return &out
}
