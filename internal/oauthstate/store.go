// Package oauthstate issues and consumes the one-time state nonces that tie
// an authorization redirect to its callback. A nonce is bound to the
// provider it was issued for and is deleted on first consumption, so a
// replayed or cross-provider callback fails closed.
package oauthstate

import (
	"context"
	"errors"

	"github.com/google/uuid"
)

// ErrStateInvalid indicates the state is unknown, expired, already used,
// or bound to a different provider.
var ErrStateInvalid = errors.New("invalid or expired state")

// Store issues and consumes one-time state nonces.
type Store interface {
	// Issue creates a state nonce bound to the provider.
	Issue(ctx context.Context, provider string) (string, error)

	// Consume validates the nonce for the provider and deletes it.
	Consume(ctx context.Context, provider, state string) error
}

func newNonce() string {
	return uuid.NewString()
}
