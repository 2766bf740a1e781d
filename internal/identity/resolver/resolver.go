// Package resolver maps a canonical identity to exactly one account. It is
// the only place where identity-to-account logic lives.
package resolver

import (
	"context"
	"fmt"

	"github.com/dastyn/socialauth/internal/domain/repository"
	"github.com/dastyn/socialauth/internal/identity"
	"github.com/dastyn/socialauth/internal/observability/logger"
	"github.com/dastyn/socialauth/internal/observability/metrics"
)

// Resolver performs idempotent find-or-create against the account store.
// It holds no state of its own; correctness under concurrent logins relies
// on the store's (provider, external_id) uniqueness constraint.
type Resolver struct {
	accounts repository.AccountRepository
}

// New creates a Resolver backed by the given account repository.
func New(accounts repository.AccountRepository) *Resolver {
	return &Resolver{accounts: accounts}
}

// Resolve returns the account holding the identity's (provider, external id)
// pair, creating it on first login.
//
// Existing accounts are returned unchanged: login is read-mostly and profile
// drift is not reconciled here. When two resolutions for the same pair race,
// the store rejects the second insert with ErrConflict and the loser falls
// back to a re-lookup, so at most one account is ever created.
func (r *Resolver) Resolve(ctx context.Context, id identity.Identity) (*repository.Account, error) {
	log := logger.From(ctx).With(
		logger.Layer("service"),
		logger.Component("identity.resolver"),
		logger.Provider(string(id.Provider)),
	)

	if id.Provider == "" || id.ExternalID == "" {
		return nil, fmt.Errorf("%w: identity missing provider or external id", identity.ErrResolutionFailed)
	}

	acct, err := r.accounts.FindByIdentity(ctx, string(id.Provider), id.ExternalID)
	if err == nil {
		metrics.ResolutionOutcome(string(id.Provider), "existing")
		return acct, nil
	}
	if !repository.IsNotFound(err) {
		metrics.ResolutionOutcome(string(id.Provider), "error")
		return nil, fmt.Errorf("%w: lookup: %v", identity.ErrResolutionFailed, err)
	}

	acct, err = r.accounts.CreateFromIdentity(ctx, repository.CreateAccountInput{
		Provider:    string(id.Provider),
		ExternalID:  id.ExternalID,
		Email:       id.Email,
		DisplayName: id.DisplayName,
		AvatarURL:   id.AvatarURL,
	})
	if err == nil {
		log.Info("account created", logger.AccountID(acct.ID))
		metrics.AccountCreated(string(id.Provider))
		metrics.ResolutionOutcome(string(id.Provider), "created")
		return acct, nil
	}

	if repository.IsConflict(err) {
		// Lost the first-login race: another request created the account
		// between our lookup and insert. Re-read and return the winner.
		log.Debug("create conflict, re-reading winner")
		metrics.CreateConflict(string(id.Provider))

		acct, err = r.accounts.FindByIdentity(ctx, string(id.Provider), id.ExternalID)
		if err != nil {
			metrics.ResolutionOutcome(string(id.Provider), "error")
			return nil, fmt.Errorf("%w: re-lookup after conflict: %v", identity.ErrResolutionFailed, err)
		}
		metrics.ResolutionOutcome(string(id.Provider), "existing")
		return acct, nil
	}

	metrics.ResolutionOutcome(string(id.Provider), "error")
	return nil, fmt.Errorf("%w: create: %v", identity.ErrResolutionFailed, err)
}
