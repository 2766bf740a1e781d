// Package oauth wires each configured provider's credentials, endpoints and
// normalizer to the shared account resolver. The registry is what the HTTP
// layer invokes per callback; it holds no session machinery because the
// downstream authentication is token-based.
package oauth

import (
	"context"
	"fmt"

	"github.com/dastyn/socialauth/internal/config"
	"github.com/dastyn/socialauth/internal/identity"
	"github.com/dastyn/socialauth/internal/identity/normalize"
	"github.com/dastyn/socialauth/internal/identity/resolver"
	"github.com/dastyn/socialauth/internal/observability/logger"
)

// entry binds an adapter to its normalizer.
type entry struct {
	adapter   *Adapter
	normalize normalize.Func
}

// Registry holds the configured provider adapters and the shared resolver.
type Registry struct {
	entries  map[identity.Provider]entry
	resolver *resolver.Resolver
}

// NewRegistry builds adapters for every enabled provider in cfg. At least
// one provider must be enabled.
func NewRegistry(cfg *config.Config, res *resolver.Resolver) (*Registry, error) {
	blocks := map[identity.Provider]config.ProviderConfig{
		identity.ProviderGoogle:  cfg.Providers.Google,
		identity.ProviderDiscord: cfg.Providers.Discord,
		identity.ProviderGitHub:  cfg.Providers.GitHub,
	}

	r := &Registry{
		entries:  make(map[identity.Provider]entry),
		resolver: res,
	}

	for p, pc := range blocks {
		if !pc.Enabled {
			continue
		}
		a, err := newAdapter(p, pc, cfg.Server.BaseURL)
		if err != nil {
			return nil, fmt.Errorf("provider %s: %w", p, err)
		}
		nf, err := normalize.ForProvider(p)
		if err != nil {
			return nil, err
		}
		r.entries[p] = entry{adapter: a, normalize: nf}
	}

	if len(r.entries) == 0 {
		return nil, fmt.Errorf("no social providers enabled")
	}
	return r, nil
}

// Adapter returns the adapter for an enabled provider.
func (r *Registry) Adapter(p identity.Provider) (*Adapter, error) {
	e, ok := r.entries[p]
	if !ok {
		return nil, fmt.Errorf("%w: %q not enabled", identity.ErrUnsupportedProvider, p)
	}
	return e.adapter, nil
}

// Enabled lists the registered provider names.
func (r *Registry) Enabled() []string {
	out := make([]string, 0, len(r.entries))
	for p := range r.entries {
		out = append(out, string(p))
	}
	return out
}

// Callback resolves a raw provider profile into an account. This is pure
// wiring: normalize, then resolve; every failure is classified into the
// uniform result consumed by token issuance.
func (r *Registry) Callback(ctx context.Context, p identity.Provider, rawProfile []byte) identity.Result {
	log := logger.From(ctx).With(
		logger.Layer("service"),
		logger.Component("oauth.registry"),
		logger.Provider(string(p)),
	)

	e, ok := r.entries[p]
	if !ok {
		err := fmt.Errorf("%w: %q not enabled", identity.ErrUnsupportedProvider, p)
		log.Warn("callback for unregistered provider", logger.Err(err))
		return identity.Fail(identity.KindUnsupportedProvider, err)
	}

	id, err := e.normalize(rawProfile)
	if err != nil {
		log.Warn("profile normalization failed", logger.Err(err))
		return identity.Fail(identity.KindOf(err), err)
	}

	acct, err := r.resolver.Resolve(ctx, id)
	if err != nil {
		log.Error("resolution failed", logger.ExternalID(id.ExternalID), logger.Err(err))
		return identity.Fail(identity.KindOf(err), err)
	}

	return identity.Succeed(acct)
}
