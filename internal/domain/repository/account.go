package repository

import (
	"context"
	"time"
)

// IdentityRef is one (provider, external id) pair attached to an account.
type IdentityRef struct {
	Provider   string
	ExternalID string
}

// Account is the persistent application user, addressable by one or more
// provider identities. Profile fields are seeded from the identity that
// triggered creation and are not overwritten on later logins.
type Account struct {
	ID          string
	Identities  []IdentityRef
	Email       string
	DisplayName string
	AvatarURL   string
	CreatedAt   time.Time
}

// HasIdentity reports whether the account holds the given pair.
func (a *Account) HasIdentity(provider, externalID string) bool {
	for _, ref := range a.Identities {
		if ref.Provider == provider && ref.ExternalID == externalID {
			return true
		}
	}
	return false
}

// CreateAccountInput contains the data to seed a new account.
type CreateAccountInput struct {
	Provider    string
	ExternalID  string
	Email       string
	DisplayName string
	AvatarURL   string
}

// AccountRepository defines persistence operations for accounts.
//
// Implementations must enforce uniqueness of (provider, external_id)
// atomically (e.g. a unique index), not merely check it: the resolver's
// race recovery depends on CreateFromIdentity returning ErrConflict when
// a concurrent creation for the same pair already committed.
type AccountRepository interface {
	// FindByIdentity looks up the account holding (provider, externalID).
	// Returns ErrNotFound if no account holds the pair.
	FindByIdentity(ctx context.Context, provider, externalID string) (*Account, error)

	// CreateFromIdentity creates an account seeded from the input and
	// attaches the (provider, externalID) pair. Returns ErrConflict if
	// another account already holds the pair. Creation is atomic: on any
	// error no partial account is persisted.
	CreateFromIdentity(ctx context.Context, in CreateAccountInput) (*Account, error)
}
