package social

import (
	"errors"
	"net/http"
	"strings"

	"github.com/go-chi/chi/v5"

	"github.com/dastyn/socialauth/internal/http/helpers"
	"github.com/dastyn/socialauth/internal/identity"
	"github.com/dastyn/socialauth/internal/oauth"
	"github.com/dastyn/socialauth/internal/oauthstate"
	"github.com/dastyn/socialauth/internal/observability/logger"
	"github.com/dastyn/socialauth/internal/token"
)

// CallbackController handles the provider's redirect back: it validates the
// state nonce, exchanges the code, fetches the raw profile and hands it to
// the registry for resolution. On success it answers with a minted access
// token; there is no session to populate.
type CallbackController struct {
	registry *oauth.Registry
	states   oauthstate.Store
	issuer   *token.Issuer
}

// NewCallbackController creates a new CallbackController.
func NewCallbackController(registry *oauth.Registry, states oauthstate.Store, issuer *token.Issuer) *CallbackController {
	return &CallbackController{registry: registry, states: states, issuer: issuer}
}

// tokenResponse is the JSON body for a successful login.
type tokenResponse struct {
	AccessToken string          `json:"access_token"`
	TokenType   string          `json:"token_type"`
	ExpiresIn   int             `json:"expires_in"`
	Account     accountResponse `json:"account"`
}

type accountResponse struct {
	ID          string `json:"id"`
	Email       string `json:"email,omitempty"`
	DisplayName string `json:"display_name,omitempty"`
	AvatarURL   string `json:"avatar_url,omitempty"`
}

// Callback handles GET /auth/social/{provider}/callback
func (c *CallbackController) Callback(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	log := logger.From(ctx).With(logger.Layer("controller"), logger.Op("CallbackController.Callback"))

	provider, err := identity.ParseProvider(chi.URLParam(r, "provider"))
	if err != nil {
		log.Warn("unknown provider in path", logger.Err(err))
		helpers.WriteError(w, helpers.ErrNotFound.WithDetail("unknown provider"))
		return
	}
	log = log.With(logger.Provider(string(provider)))

	q := r.URL.Query()

	// IDP-side denial or error comes back in the query string.
	if idpError := strings.TrimSpace(q.Get("error")); idpError != "" {
		log.Warn("provider returned error",
			logger.String("error", idpError),
			logger.String("description", strings.TrimSpace(q.Get("error_description"))),
		)
		helpers.WriteError(w, helpers.ErrUnauthorized.WithDetail("provider error: "+idpError))
		return
	}

	state := strings.TrimSpace(q.Get("state"))
	code := strings.TrimSpace(q.Get("code"))
	if state == "" || code == "" {
		log.Warn("missing state or code")
		helpers.WriteError(w, helpers.ErrBadRequest.WithDetail("state and code required"))
		return
	}

	if err := c.states.Consume(ctx, string(provider), state); err != nil {
		log.Warn("state rejected", logger.Err(err))
		helpers.WriteError(w, helpers.ErrBadRequest.WithDetail("invalid or expired state"))
		return
	}

	adapter, err := c.registry.Adapter(provider)
	if err != nil {
		helpers.WriteError(w, helpers.ErrNotFound.WithDetail("provider not enabled"))
		return
	}

	tok, err := adapter.Exchange(ctx, code)
	if err != nil {
		log.Error("code exchange failed", logger.Err(err))
		helpers.WriteError(w, helpers.ErrUnauthorized.WithDetail("code exchange failed"))
		return
	}

	rawProfile, err := adapter.FetchProfile(ctx, tok)
	if err != nil {
		log.Error("profile fetch failed", logger.Err(err))
		helpers.WriteError(w, helpers.ErrServiceUnavailable.WithDetail("profile fetch failed"))
		return
	}

	result := c.registry.Callback(ctx, provider, rawProfile)
	if !result.Ok() {
		writeFailure(w, result.Failure)
		return
	}

	signed, err := c.issuer.Mint(result.Account)
	if err != nil {
		log.Error("token issuance failed", logger.Err(err))
		helpers.WriteError(w, helpers.ErrInternalServerError.WithDetail("token issuance failed"))
		return
	}

	w.Header().Set("Cache-Control", "no-store")
	w.Header().Set("Pragma", "no-cache")
	helpers.WriteJSON(w, http.StatusOK, tokenResponse{
		AccessToken: signed,
		TokenType:   "Bearer",
		ExpiresIn:   int(c.issuer.AccessTTL().Seconds()),
		Account: accountResponse{
			ID:          result.Account.ID,
			Email:       result.Account.Email,
			DisplayName: result.Account.DisplayName,
			AvatarURL:   result.Account.AvatarURL,
		},
	})

	log.Debug("login completed", logger.AccountID(result.Account.ID))
}

// writeFailure maps a resolution failure to its HTTP shape.
func writeFailure(w http.ResponseWriter, f *identity.Failure) {
	switch f.Kind {
	case identity.KindMalformedProfile:
		helpers.WriteError(w, helpers.ErrUnauthorized.WithDetail("provider profile malformed"))
	case identity.KindUnsupportedProvider:
		helpers.WriteError(w, helpers.ErrNotFound.WithDetail("provider not enabled"))
	default:
		if errors.Is(f, identity.ErrResolutionFailed) {
			helpers.WriteError(w, helpers.ErrServiceUnavailable.WithDetail("account resolution failed"))
			return
		}
		helpers.WriteError(w, helpers.ErrInternalServerError)
	}
}
