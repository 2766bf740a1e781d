package social

import (
	"net/http"

	"github.com/go-chi/chi/v5"

	"github.com/dastyn/socialauth/internal/http/helpers"
	"github.com/dastyn/socialauth/internal/identity"
	"github.com/dastyn/socialauth/internal/oauth"
	"github.com/dastyn/socialauth/internal/oauthstate"
	"github.com/dastyn/socialauth/internal/observability/logger"
)

// StartController redirects the browser into a provider's consent screen.
type StartController struct {
	registry *oauth.Registry
	states   oauthstate.Store
}

// NewStartController creates a new StartController.
func NewStartController(registry *oauth.Registry, states oauthstate.Store) *StartController {
	return &StartController{registry: registry, states: states}
}

// Start handles GET /auth/social/{provider}
func (c *StartController) Start(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	log := logger.From(ctx).With(logger.Layer("controller"), logger.Op("StartController.Start"))

	provider, err := identity.ParseProvider(chi.URLParam(r, "provider"))
	if err != nil {
		log.Warn("unknown provider in path", logger.Err(err))
		helpers.WriteError(w, helpers.ErrNotFound.WithDetail("unknown provider"))
		return
	}

	adapter, err := c.registry.Adapter(provider)
	if err != nil {
		log.Warn("provider not enabled", logger.Provider(string(provider)))
		helpers.WriteError(w, helpers.ErrNotFound.WithDetail("provider not enabled"))
		return
	}

	state, err := c.states.Issue(ctx, string(provider))
	if err != nil {
		log.Error("state issue failed", logger.Err(err))
		helpers.WriteError(w, helpers.ErrServiceUnavailable.WithDetail("state store unavailable"))
		return
	}

	w.Header().Set("Cache-Control", "no-store")
	http.Redirect(w, r, adapter.AuthCodeURL(state), http.StatusFound)

	log.Debug("redirected to provider", logger.Provider(string(provider)))
}
