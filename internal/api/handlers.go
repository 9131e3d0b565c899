/**
 * @description
 * This file contains the HTTP handlers for subscription CRUD, statistics and
 * the service catalog. Handlers parse requests, call the service layer, and
 * map its errors onto the API's error taxonomy: validation failures are 400
 * with field detail, owner/id mismatches are indistinguishable from missing
 * rows (404), everything unexpected is a generic 500 with detail only in
 * the server log.
 */
package api

import (
	"encoding/json"
	"errors"
	"log/slog"
	"net/http"
	"strconv"
	"time"

	"github.com/go-chi/chi/v5"

	"github.com/Pailon/PayPlanner/internal/app"
	"github.com/Pailon/PayPlanner/internal/catalog"
	"github.com/Pailon/PayPlanner/internal/domain"
	"github.com/Pailon/PayPlanner/internal/store"
)

// Handler holds the application service that the CRUD handlers use.
type Handler struct {
	service *app.Service
	logger  *slog.Logger
}

// NewHandler creates a new Handler with the given service.
func NewHandler(service *app.Service, logger *slog.Logger) *Handler {
	return &Handler{service: service, logger: logger}
}

// handleListSubscriptions returns the user's subscriptions, optionally
// including paused ones.
func (h *Handler) handleListSubscriptions(w http.ResponseWriter, r *http.Request) {
	user, ok := UserFromContext(r.Context())
	if !ok {
		respondWithError(w, http.StatusUnauthorized, "Unauthorized")
		return
	}

	includeInactive := r.URL.Query().Get("includeInactive") == "true"
	subs, err := h.service.List(r.Context(), user.UserID, includeInactive)
	if err != nil {
		h.respondServiceError(w, err)
		return
	}
	if subs == nil {
		subs = []domain.Subscription{}
	}

	respondWithJSON(w, http.StatusOK, subs)
}

// handleGetSubscription returns a single subscription.
func (h *Handler) handleGetSubscription(w http.ResponseWriter, r *http.Request) {
	user, ok := UserFromContext(r.Context())
	if !ok {
		respondWithError(w, http.StatusUnauthorized, "Unauthorized")
		return
	}
	id, ok := subscriptionID(w, r)
	if !ok {
		return
	}

	sub, err := h.service.Get(r.Context(), id, user.UserID)
	if err != nil {
		h.respondServiceError(w, err)
		return
	}

	respondWithJSON(w, http.StatusOK, sub)
}

// handleCreateSubscription validates and stores a new subscription.
func (h *Handler) handleCreateSubscription(w http.ResponseWriter, r *http.Request) {
	user, ok := UserFromContext(r.Context())
	if !ok {
		respondWithError(w, http.StatusUnauthorized, "Unauthorized")
		return
	}

	var data domain.CreateSubscriptionData
	if err := json.NewDecoder(r.Body).Decode(&data); err != nil {
		respondWithError(w, http.StatusBadRequest, "Invalid request body")
		return
	}

	sub, err := h.service.Create(r.Context(), user.UserID, data)
	if err != nil {
		h.respondServiceError(w, err)
		return
	}

	respondWithJSON(w, http.StatusCreated, sub)
}

// handleUpdateSubscription applies a partial update.
func (h *Handler) handleUpdateSubscription(w http.ResponseWriter, r *http.Request) {
	user, ok := UserFromContext(r.Context())
	if !ok {
		respondWithError(w, http.StatusUnauthorized, "Unauthorized")
		return
	}
	id, ok := subscriptionID(w, r)
	if !ok {
		return
	}

	var data domain.UpdateSubscriptionData
	if err := json.NewDecoder(r.Body).Decode(&data); err != nil {
		respondWithError(w, http.StatusBadRequest, "Invalid request body")
		return
	}

	sub, err := h.service.Update(r.Context(), id, user.UserID, data)
	if err != nil {
		h.respondServiceError(w, err)
		return
	}

	respondWithJSON(w, http.StatusOK, sub)
}

// handleDeleteSubscription hard-deletes a subscription.
func (h *Handler) handleDeleteSubscription(w http.ResponseWriter, r *http.Request) {
	user, ok := UserFromContext(r.Context())
	if !ok {
		respondWithError(w, http.StatusUnauthorized, "Unauthorized")
		return
	}
	id, ok := subscriptionID(w, r)
	if !ok {
		return
	}

	deleted, err := h.service.Delete(r.Context(), id, user.UserID)
	if err != nil {
		h.respondServiceError(w, err)
		return
	}
	if !deleted {
		respondWithError(w, http.StatusNotFound, "Subscription not found")
		return
	}

	w.WriteHeader(http.StatusNoContent)
}

// handlePauseSubscription deactivates a subscription.
func (h *Handler) handlePauseSubscription(w http.ResponseWriter, r *http.Request) {
	h.setActive(w, r, false)
}

// handleResumeSubscription reactivates a subscription.
func (h *Handler) handleResumeSubscription(w http.ResponseWriter, r *http.Request) {
	h.setActive(w, r, true)
}

func (h *Handler) setActive(w http.ResponseWriter, r *http.Request, active bool) {
	user, ok := UserFromContext(r.Context())
	if !ok {
		respondWithError(w, http.StatusUnauthorized, "Unauthorized")
		return
	}
	id, ok := subscriptionID(w, r)
	if !ok {
		return
	}

	var sub *domain.Subscription
	var err error
	if active {
		sub, err = h.service.Resume(r.Context(), id, user.UserID)
	} else {
		sub, err = h.service.Pause(r.Context(), id, user.UserID)
	}
	if err != nil {
		h.respondServiceError(w, err)
		return
	}

	respondWithJSON(w, http.StatusOK, sub)
}

// handleStatistics aggregates the user's active subscriptions.
func (h *Handler) handleStatistics(w http.ResponseWriter, r *http.Request) {
	user, ok := UserFromContext(r.Context())
	if !ok {
		respondWithError(w, http.StatusUnauthorized, "Unauthorized")
		return
	}

	stats, err := h.service.Statistics(r.Context(), user.UserID, time.Now())
	if err != nil {
		h.respondServiceError(w, err)
		return
	}

	respondWithJSON(w, http.StatusOK, stats)
}

// handleCatalog serves the static service catalog with optional filters.
func (h *Handler) handleCatalog(w http.ResponseWriter, r *http.Request) {
	category := r.URL.Query().Get("category")
	search := r.URL.Query().Get("search")
	respondWithJSON(w, http.StatusOK, catalog.Search(category, search))
}

// subscriptionID parses the {id} route parameter; on failure it writes the
// 400 response itself and returns false.
func subscriptionID(w http.ResponseWriter, r *http.Request) (int64, bool) {
	id, err := strconv.ParseInt(chi.URLParam(r, "id"), 10, 64)
	if err != nil {
		respondWithError(w, http.StatusBadRequest, "Invalid subscription ID")
		return 0, false
	}
	return id, true
}

// respondServiceError maps service-layer errors to HTTP responses.
func (h *Handler) respondServiceError(w http.ResponseWriter, err error) {
	var validationErr *app.ValidationError
	switch {
	case errors.As(err, &validationErr):
		respondWithJSON(w, http.StatusBadRequest, map[string]any{
			"error":   "Validation error",
			"details": validationErr.Fields,
		})
	case errors.Is(err, store.ErrNotFound):
		respondWithError(w, http.StatusNotFound, "Subscription not found")
	default:
		h.logger.Error("request failed", "error", err)
		respondWithError(w, http.StatusInternalServerError, "Internal server error")
	}
}
