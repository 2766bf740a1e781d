// Package app wires configuration, storage, the resolution engine and the
// HTTP surface into a runnable service.
package app

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"time"

	"github.com/dastyn/socialauth/internal/config"
	"github.com/dastyn/socialauth/internal/http/controllers/social"
	"github.com/dastyn/socialauth/internal/http/router"
	"github.com/dastyn/socialauth/internal/identity/resolver"
	"github.com/dastyn/socialauth/internal/oauth"
	"github.com/dastyn/socialauth/internal/oauthstate"
	"github.com/dastyn/socialauth/internal/observability/logger"
	"github.com/dastyn/socialauth/internal/store"
	"github.com/dastyn/socialauth/internal/store/pg"
	"github.com/dastyn/socialauth/internal/token"
)

// App holds the assembled service.
type App struct {
	cfg     *config.Config
	server  *http.Server
	cleanup []func()
}

// New assembles the service from config.
func New(ctx context.Context, cfg *config.Config) (*App, error) {
	a := &App{cfg: cfg}

	storeCfg := store.Config{
		Driver: cfg.Storage.Driver,
		DSN:    cfg.Storage.DSN,
	}
	storeCfg.Postgres.MaxConns = cfg.Storage.Postgres.MaxConns
	storeCfg.Postgres.ConnMaxLifetime = cfg.Storage.Postgres.ConnMaxLifetime

	accounts, closeStore, err := store.Open(ctx, storeCfg)
	if err != nil {
		return nil, fmt.Errorf("store open: %w", err)
	}
	a.cleanup = append(a.cleanup, closeStore)

	if cfg.Flags.Migrate {
		if pgStore, ok := accounts.(*pg.Store); ok {
			if err := pgStore.RunMigrations(ctx, "migrations/postgres"); err != nil {
				a.Close()
				return nil, fmt.Errorf("migrations: %w", err)
			}
		}
	}

	states, err := a.openStateStore()
	if err != nil {
		a.Close()
		return nil, err
	}

	accessTTL, err := time.ParseDuration(cfg.JWT.AccessTTL)
	if err != nil {
		a.Close()
		return nil, fmt.Errorf("parse jwt.access_ttl: %w", err)
	}
	issuer, err := token.NewIssuer(cfg.JWT.Issuer, cfg.JWT.Secret, accessTTL)
	if err != nil {
		a.Close()
		return nil, fmt.Errorf("token issuer: %w", err)
	}

	registry, err := oauth.NewRegistry(cfg, resolver.New(accounts))
	if err != nil {
		a.Close()
		return nil, fmt.Errorf("provider registry: %w", err)
	}

	handler := router.New(social.NewControllers(social.Deps{
		Registry: registry,
		States:   states,
		Issuer:   issuer,
	}))

	a.server = &http.Server{
		Addr:              cfg.Server.Addr,
		Handler:           handler,
		ReadHeaderTimeout: 10 * time.Second,
	}
	return a, nil
}

func (a *App) openStateStore() (oauthstate.Store, error) {
	ttl, err := time.ParseDuration(a.cfg.State.TTL)
	if err != nil {
		return nil, fmt.Errorf("parse state.ttl: %w", err)
	}

	switch a.cfg.State.Kind {
	case "", "memory":
		return oauthstate.NewMemoryStore(ttl), nil
	case "redis":
		rs := oauthstate.NewRedisStore(a.cfg.State.Redis.Addr, a.cfg.State.Redis.DB, a.cfg.State.Redis.Prefix, ttl)
		a.cleanup = append(a.cleanup, func() { _ = rs.Close() })
		return rs, nil
	default:
		return nil, fmt.Errorf("unknown state store kind %q", a.cfg.State.Kind)
	}
}

// Run serves HTTP until ctx is canceled, then shuts down gracefully.
func (a *App) Run(ctx context.Context) error {
	log := logger.L()

	errCh := make(chan error, 1)
	go func() {
		log.Info("http server listening", logger.String("addr", a.server.Addr))
		errCh <- a.server.ListenAndServe()
	}()

	select {
	case err := <-errCh:
		if err != nil && !errors.Is(err, http.ErrServerClosed) {
			return err
		}
		return nil
	case <-ctx.Done():
		log.Info("shutting down")
		shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
		defer cancel()
		return a.server.Shutdown(shutdownCtx)
	}
}

// Close releases held resources (store pools, clients).
func (a *App) Close() {
	for i := len(a.cleanup) - 1; i >= 0; i-- {
		a.cleanup[i]()
	}
}
