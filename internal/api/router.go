/**
 * @description
 * This file sets up the HTTP router using the go-chi/chi router.
 * It defines the API routes, applies middleware for logging, CORS, and
 * authentication, and maps the routes to their corresponding handlers.
 */
package api

import (
	"net/http"
	"strings"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/go-chi/cors"

	"github.com/Pailon/PayPlanner/internal/auth"
)

// NewRouter creates the Chi router and registers all API routes.
func NewRouter(h *Handler, authHandler *AuthHandler, issuer *auth.TokenIssuer, allowedOrigins string) *chi.Mux {
	r := chi.NewRouter()

	origins := []string{"https://web.telegram.org", "http://localhost:5173"}
	if allowedOrigins != "" {
		origins = strings.Split(allowedOrigins, ",")
	}

	// Setup middleware
	r.Use(middleware.Logger)
	r.Use(middleware.Recoverer)
	r.Use(middleware.Timeout(60 * time.Second))
	r.Use(cors.Handler(cors.Options{
		AllowedOrigins:   origins,
		AllowedMethods:   []string{"GET", "POST", "PUT", "DELETE", "OPTIONS"},
		AllowedHeaders:   []string{"Accept", "Authorization", "Content-Type", "X-Requested-With"},
		AllowCredentials: true,
		MaxAge:           300,
	}))

	// Health check endpoint
	r.Get("/health", func(w http.ResponseWriter, r *http.Request) {
		respondWithJSON(w, http.StatusOK, map[string]string{
			"status":    "ok",
			"timestamp": time.Now().UTC().Format(time.RFC3339),
		})
	})

	r.Route("/api", func(r chi.Router) {
		// Auth endpoints; /telegram and /refresh authenticate by payload,
		// not by bearer token.
		r.Post("/auth/telegram", authHandler.handleTelegramAuth)
		r.Post("/auth/refresh", authHandler.handleRefresh)

		// Protected routes that require a valid access token.
		r.Group(func(r chi.Router) {
			r.Use(AuthMiddleware(issuer))

			r.Get("/auth/me", authHandler.handleMe)

			r.Get("/subscriptions", h.handleListSubscriptions)
			r.Post("/subscriptions", h.handleCreateSubscription)
			r.Get("/subscriptions/{id}", h.handleGetSubscription)
			r.Put("/subscriptions/{id}", h.handleUpdateSubscription)
			r.Delete("/subscriptions/{id}", h.handleDeleteSubscription)
			r.Post("/subscriptions/{id}/pause", h.handlePauseSubscription)
			r.Post("/subscriptions/{id}/resume", h.handleResumeSubscription)

			r.Get("/statistics", h.handleStatistics)
			r.Get("/catalog/services", h.handleCatalog)
		})
	})

	return r
}
