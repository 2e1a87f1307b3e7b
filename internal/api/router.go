// Constellarium - Legacy Life-Log Import and Journal Normalization
// Copyright 2026 M. Vellano (mvellano)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/mvellano/constellarium

package api

import (
	"net/http"

	"github.com/go-chi/chi/v5"
	chimiddleware "github.com/go-chi/chi/v5/middleware"
	"github.com/prometheus/client_golang/prometheus/promhttp"

	"github.com/mvellano/constellarium/internal/config"
	"github.com/mvellano/constellarium/internal/middleware"
)

// Router wires handlers into the Chi routing tree.
type Router struct {
	handler       *Handler
	chiMiddleware *ChiMiddleware
}

// NewRouter creates a router for the given handler. Middleware settings
// (CORS origins, rate limits) are taken from the handler's configuration.
func NewRouter(handler *Handler) *Router {
	var apiCfg *config.APIConfig
	if handler.config != nil {
		apiCfg = &handler.config.API
	}

	return &Router{
		handler:       handler,
		chiMiddleware: NewChiMiddlewareFromConfig(apiCfg),
	}
}

// chiMiddleware adapts http.HandlerFunc middleware to Chi's func(http.Handler) http.Handler.
// This allows our existing middleware to work with Chi's r.Use().
func chiMiddleware(mw func(http.HandlerFunc) http.HandlerFunc) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return mw(next.ServeHTTP)
	}
}

// chiPathValue middleware injects Chi URL params into the request so
// handlers using r.PathValue() continue to work. This bridges Chi's
// chi.URLParam() with Go 1.22+'s r.PathValue().
func chiPathValue(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		rctx := chi.RouteContext(r.Context())
		if rctx != nil {
			for i, key := range rctx.URLParams.Keys {
				if i < len(rctx.URLParams.Values) {
					r.SetPathValue(key, rctx.URLParams.Values[i])
				}
			}
		}
		next.ServeHTTP(w, r)
	})
}

// authToken returns the configured bearer token, empty when auth is disabled.
func (router *Router) authToken() string {
	if router.handler.config == nil {
		return ""
	}
	return router.handler.config.API.AuthToken
}

// SetupChi configures all HTTP routes using the Chi router.
func (router *Router) SetupChi() http.Handler {
	r := chi.NewRouter()

	// ========================
	// Global Middleware Stack
	// ========================
	// Applied to ALL routes in order
	r.Use(RequestIDWithLogging())      // Add X-Request-ID header with logging context
	r.Use(chimiddleware.RealIP)        // Extract real IP from X-Forwarded-For
	r.Use(chimiddleware.Recoverer)     // Recover from panics
	r.Use(router.chiMiddleware.CORS()) // CORS must be global to handle OPTIONS preflight

	// ========================
	// Health Endpoints
	// ========================
	// Permissive rate limiting: allows frequent monitoring while preventing abuse
	r.Route("/health", func(r chi.Router) {
		r.Use(router.chiMiddleware.RateLimitHealth())
		r.Use(APISecurityHeaders())
		r.Get("/", router.handler.Health)
		r.Get("/live", router.handler.HealthLive)
		r.Get("/ready", router.handler.HealthReady)
	})

	// ========================
	// Entries Endpoints
	// ========================
	// Read-only journal queries; gzip pays off on large entry pages
	r.Route("/api/v1/entries", func(r chi.Router) {
		r.Use(router.chiMiddleware.RateLimit())
		r.Use(APISecurityHeaders())
		r.Use(chiMiddleware(middleware.PrometheusMetrics))
		r.Use(chiMiddleware(middleware.Compression))
		r.Use(router.handler.perfMon.Middleware)
		r.Use(BearerAuth(router.authToken()))
		r.Use(chiPathValue) // Bridge Chi URL params to r.PathValue()

		r.Get("/", router.handler.Entries)
		r.Get("/stats", router.handler.EntryStats)
		r.Get("/{id}", router.handler.EntryByID)
	})

	// ========================
	// Import Endpoints
	// ========================
	// Strict rate limiting: import runs are expensive and serialized
	r.Route("/api/v1/import", func(r chi.Router) {
		r.Use(router.chiMiddleware.RateLimitImport())
		r.Use(APISecurityHeaders())
		r.Use(chiMiddleware(middleware.PrometheusMetrics))
		r.Use(router.handler.perfMon.Middleware)
		r.Use(BearerAuth(router.authToken()))

		r.Post("/", router.handler.ImportStart)
		r.Get("/status", router.handler.ImportStatus)
		r.Post("/stop", router.handler.ImportStop)
		r.Get("/history", router.handler.ImportHistory)
		r.Delete("/history", router.handler.ImportHistoryClear)
		r.Post("/validate", router.handler.ImportValidate)
	})

	// ========================
	// WebSocket Endpoint
	// ========================
	// No compression or security headers: the connection is upgraded
	// before any of them would apply
	r.Route("/api/v1/ws", func(r chi.Router) {
		r.Use(router.chiMiddleware.RateLimitWebSocket())
		r.Get("/", router.handler.WebSocket)
	})

	// ========================
	// Observability
	// ========================
	r.Handle("/metrics", promhttp.Handler())

	return r
}
