package social

import (
	"net/http"
	"sort"

	"github.com/dastyn/socialauth/internal/http/helpers"
	"github.com/dastyn/socialauth/internal/oauth"
)

// ProvidersController lists the providers enabled in this deployment so
// clients can render their login buttons dynamically.
type ProvidersController struct {
	registry *oauth.Registry
}

// NewProvidersController creates a new ProvidersController.
func NewProvidersController(registry *oauth.Registry) *ProvidersController {
	return &ProvidersController{registry: registry}
}

// List handles GET /auth/social/providers
func (c *ProvidersController) List(w http.ResponseWriter, r *http.Request) {
	providers := c.registry.Enabled()
	sort.Strings(providers)
	helpers.WriteJSON(w, http.StatusOK, map[string]any{"providers": providers})
}
