// Package social exposes the social login HTTP endpoints: the redirect
// into a provider's consent screen and the callback that resolves the
// returning profile into an account plus access token.
package social

import (
	"github.com/dastyn/socialauth/internal/oauth"
	"github.com/dastyn/socialauth/internal/oauthstate"
	"github.com/dastyn/socialauth/internal/token"
)

// Deps bundles the collaborators the social controllers need.
type Deps struct {
	Registry *oauth.Registry
	States   oauthstate.Store
	Issuer   *token.Issuer
}

// Controllers groups the social endpoints.
type Controllers struct {
	Start     *StartController
	Callback  *CallbackController
	Providers *ProvidersController
}

// NewControllers builds all social controllers from shared deps.
func NewControllers(d Deps) *Controllers {
	return &Controllers{
		Start:     NewStartController(d.Registry, d.States),
		Callback:  NewCallbackController(d.Registry, d.States, d.Issuer),
		Providers: NewProvidersController(d.Registry),
	}
}
