// Package store opens the configured account repository driver.
package store

import (
	"context"
	"fmt"

	"github.com/dastyn/socialauth/internal/domain/repository"
	"github.com/dastyn/socialauth/internal/store/memory"
	"github.com/dastyn/socialauth/internal/store/pg"
)

// Config selects and configures the storage driver.
type Config struct {
	// Driver: "postgres" | "memory". Default: "memory".
	Driver string
	DSN    string

	Postgres struct {
		MaxConns        int
		ConnMaxLifetime string
	}
}

// Open returns the account repository for the configured driver.
func Open(ctx context.Context, cfg Config) (repository.AccountRepository, func(), error) {
	switch cfg.Driver {
	case "", "memory":
		return memory.NewAccountStore(), func() {}, nil
	case "postgres", "pg":
		if cfg.DSN == "" {
			return nil, nil, fmt.Errorf("postgres driver: %w", repository.ErrNoDatabase)
		}
		st, err := pg.Open(ctx, pg.Config{
			DSN:             cfg.DSN,
			MaxConns:        cfg.Postgres.MaxConns,
			ConnMaxLifetime: cfg.Postgres.ConnMaxLifetime,
		})
		if err != nil {
			return nil, nil, err
		}
		return st, st.Close, nil
	default:
		return nil, nil, fmt.Errorf("unknown storage driver %q", cfg.Driver)
	}
}
