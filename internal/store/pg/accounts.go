package pg

import (
	"context"
	"errors"
	"fmt"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"

	"github.com/dastyn/socialauth/internal/domain/repository"
)

const pgUniqueViolation = "23505"

// FindByIdentity looks up the account holding (provider, externalID).
func (s *Store) FindByIdentity(ctx context.Context, provider, externalID string) (*repository.Account, error) {
	var acct repository.Account
	err := s.pool.QueryRow(ctx, `
		SELECT a.id, a.email, a.display_name, a.avatar_url, a.created_at
		  FROM account a
		  JOIN account_identity ai ON ai.account_id = a.id
		 WHERE ai.provider = $1 AND ai.external_id = $2`,
		provider, externalID,
	).Scan(&acct.ID, &acct.Email, &acct.DisplayName, &acct.AvatarURL, &acct.CreatedAt)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, repository.ErrNotFound
		}
		return nil, fmt.Errorf("select account: %w", err)
	}

	if err := s.loadIdentities(ctx, &acct); err != nil {
		return nil, err
	}
	return &acct, nil
}

// CreateFromIdentity inserts the account and its identity row in one
// transaction. A unique violation on (provider, external_id) rolls the
// whole insert back and maps to ErrConflict so the resolver can re-read
// the winner.
func (s *Store) CreateFromIdentity(ctx context.Context, in repository.CreateAccountInput) (*repository.Account, error) {
	if in.Provider == "" || in.ExternalID == "" {
		return nil, fmt.Errorf("%w: provider and external id required", repository.ErrInvalidInput)
	}

	tx, err := s.pool.Begin(ctx)
	if err != nil {
		return nil, fmt.Errorf("begin: %w", err)
	}
	defer func() { _ = tx.Rollback(ctx) }()

	var acct repository.Account
	err = tx.QueryRow(ctx, `
		INSERT INTO account (email, display_name, avatar_url)
		VALUES ($1, $2, $3)
		RETURNING id, email, display_name, avatar_url, created_at`,
		in.Email, in.DisplayName, in.AvatarURL,
	).Scan(&acct.ID, &acct.Email, &acct.DisplayName, &acct.AvatarURL, &acct.CreatedAt)
	if err != nil {
		return nil, fmt.Errorf("insert account: %w", err)
	}

	_, err = tx.Exec(ctx, `
		INSERT INTO account_identity (account_id, provider, external_id)
		VALUES ($1, $2, $3)`,
		acct.ID, in.Provider, in.ExternalID,
	)
	if err != nil {
		var pgErr *pgconn.PgError
		if errors.As(err, &pgErr) && pgErr.Code == pgUniqueViolation {
			return nil, repository.ErrConflict
		}
		return nil, fmt.Errorf("insert identity: %w", err)
	}

	if err := tx.Commit(ctx); err != nil {
		return nil, fmt.Errorf("commit: %w", err)
	}

	acct.Identities = []repository.IdentityRef{{Provider: in.Provider, ExternalID: in.ExternalID}}
	return &acct, nil
}

func (s *Store) loadIdentities(ctx context.Context, acct *repository.Account) error {
	rows, err := s.pool.Query(ctx, `
		SELECT provider, external_id
		  FROM account_identity
		 WHERE account_id = $1
		 ORDER BY provider, external_id`,
		acct.ID,
	)
	if err != nil {
		return fmt.Errorf("select identities: %w", err)
	}
	defer rows.Close()

	for rows.Next() {
		var ref repository.IdentityRef
		if err := rows.Scan(&ref.Provider, &ref.ExternalID); err != nil {
			return fmt.Errorf("scan identity: %w", err)
		}
		acct.Identities = append(acct.Identities, ref)
	}
	return rows.Err()
}
