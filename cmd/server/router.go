package main

import (
	"net/http"

	"github.com/go-chi/chi/v5"
	chimiddleware "github.com/go-chi/chi/v5/middleware"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"golang.org/x/time/rate"

	"github.com/kaizendigilabs/coffee-shop-pwa/internal/api"
	apimiddleware "github.com/kaizendigilabs/coffee-shop-pwa/internal/api/middleware"
	"github.com/kaizendigilabs/coffee-shop-pwa/internal/webapp"
)

// loginRatePerSecond bounds credential attempts per client IP. Generous for
// a human retyping a password, tight for a guessing loop.
const (
	loginRatePerSecond = 1
	loginBurst         = 5
)

// setupRouter creates and configures the application router with all routes
// and middleware.
func (app *application) setupRouter() http.Handler {
	r := chi.NewRouter()

	r.Use(chimiddleware.RealIP)
	r.Use(chimiddleware.Recoverer)
	r.Use(apimiddleware.TraceMiddleware)

	metrics := apimiddleware.NewMetrics(nil)
	r.Use(metrics.Instrument)

	authHandler := api.NewAuthHandler(app.actions)
	storeHandler := api.NewStoreHandler(app.actions)
	authMiddleware := apimiddleware.NewAuthMiddleware()
	loginLimiter := apimiddleware.NewRateLimiter(rate.Limit(loginRatePerSecond), loginBurst)

	r.Route("/api", func(r chi.Router) {
		// Credential endpoints (public, rate limited)
		r.Group(func(r chi.Router) {
			r.Use(loginLimiter.Limit)
			r.Post("/auth/login", authHandler.Login)
			r.Post("/auth/signup", authHandler.SignUp)
			r.Post("/auth/forgot-password", authHandler.ForgotPassword)
		})

		// Session restoration is lenient: no token just means no session.
		r.Get("/auth/session", authHandler.Session)

		// Token-bearing routes
		r.Group(func(r chi.Router) {
			r.Use(authMiddleware.RequireToken)
			r.Post("/auth/logout", authHandler.Logout)
			r.Post("/auth/update-password", authHandler.UpdatePassword)
			r.Get("/stores", storeHandler.List)
			r.Post("/stores/switch", storeHandler.Switch)
		})
	})

	// Installable-app artifacts
	r.Get("/manifest.webmanifest", webapp.ManifestHandler)
	r.Get("/offline-cache.json", webapp.PolicyHandler(app.config.App))

	r.Handle("/metrics", promhttp.Handler())

	r.Get("/health", func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusOK)
		if _, err := w.Write([]byte("OK")); err != nil {
			app.logger.Error("Failed to write health check response", "error", err)
		}
	})

	return r
}
