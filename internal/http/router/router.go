// Package router assembles the chi mux for the service.
package router

import (
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"

	"github.com/dastyn/socialauth/internal/http/controllers/social"
	"github.com/dastyn/socialauth/internal/http/middlewares"
	"github.com/dastyn/socialauth/internal/observability/metrics"
)

// New builds the service router.
func New(socialCtrl *social.Controllers) http.Handler {
	r := chi.NewRouter()

	r.Use(middleware.Recoverer)
	r.Use(middlewares.RequestLogger)
	r.Use(metrics.Middleware)

	r.Get("/healthz", func(w http.ResponseWriter, _ *http.Request) {
		w.WriteHeader(http.StatusOK)
		_, _ = w.Write([]byte("ok"))
	})
	r.Method(http.MethodGet, "/metrics", metrics.Handler())

	r.Route("/auth/social", func(r chi.Router) {
		r.Get("/providers", socialCtrl.Providers.List)
		r.Get("/{provider}", socialCtrl.Start.Start)
		r.Get("/{provider}/callback", socialCtrl.Callback.Callback)
	})

	return r
}
