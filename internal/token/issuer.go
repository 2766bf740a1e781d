// Package token mints the stateless credential handed to the client after
// a successful resolution. The token is a pure function of the resolved
// account; no server-side session is kept.
package token

import (
	"errors"
	"fmt"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"github.com/google/uuid"

	"github.com/dastyn/socialauth/internal/domain/repository"
)

// Claims is the access token payload.
type Claims struct {
	jwt.RegisteredClaims
	Email       string   `json:"email,omitempty"`
	DisplayName string   `json:"name,omitempty"`
	Identities  []string `json:"identities,omitempty"` // "provider:external_id"
}

// Issuer signs HS256 access tokens for resolved accounts.
type Issuer struct {
	issuer    string
	secret    []byte
	accessTTL time.Duration
}

// NewIssuer creates an Issuer. The secret must not be empty.
func NewIssuer(issuer, secret string, accessTTL time.Duration) (*Issuer, error) {
	if secret == "" {
		return nil, errors.New("jwt secret required")
	}
	if accessTTL <= 0 {
		accessTTL = 15 * time.Minute
	}
	return &Issuer{
		issuer:    issuer,
		secret:    []byte(secret),
		accessTTL: accessTTL,
	}, nil
}

// Mint issues an access token for the account.
func (i *Issuer) Mint(acct *repository.Account) (string, error) {
	if acct == nil || acct.ID == "" {
		return "", errors.New("account required")
	}

	now := time.Now()
	claims := Claims{
		RegisteredClaims: jwt.RegisteredClaims{
			Issuer:    i.issuer,
			Subject:   acct.ID,
			IssuedAt:  jwt.NewNumericDate(now),
			ExpiresAt: jwt.NewNumericDate(now.Add(i.accessTTL)),
			ID:        uuid.NewString(),
		},
		Email:       acct.Email,
		DisplayName: acct.DisplayName,
	}
	for _, ref := range acct.Identities {
		claims.Identities = append(claims.Identities, ref.Provider+":"+ref.ExternalID)
	}

	tok := jwt.NewWithClaims(jwt.SigningMethodHS256, claims)
	signed, err := tok.SignedString(i.secret)
	if err != nil {
		return "", fmt.Errorf("sign token: %w", err)
	}
	return signed, nil
}

// Parse verifies a token and returns its claims. Used by tests and by
// services sitting behind this one.
func (i *Issuer) Parse(raw string) (*Claims, error) {
	var claims Claims
	_, err := jwt.ParseWithClaims(raw, &claims, func(t *jwt.Token) (any, error) {
		if _, ok := t.Method.(*jwt.SigningMethodHMAC); !ok {
			return nil, fmt.Errorf("unexpected signing method %v", t.Header["alg"])
		}
		return i.secret, nil
	})
	if err != nil {
		return nil, err
	}
	return &claims, nil
}

// AccessTTL exposes the configured token lifetime.
func (i *Issuer) AccessTTL() time.Duration { return i.accessTTL }
