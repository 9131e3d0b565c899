/**
 * @description
 * This file contains the HTTP handlers for the authentication flow:
 * exchanging a Telegram initData payload for session tokens, returning the
 * current user, and refreshing access tokens from the HTTP-only cookie.
 */
package api

import (
	"encoding/json"
	"errors"
	"log/slog"
	"net/http"
	"time"

	"github.com/Pailon/PayPlanner/internal/auth"
	"github.com/Pailon/PayPlanner/internal/store"
)

const refreshCookieName = "refreshToken"

// AuthHandler holds the dependencies of the authentication endpoints.
type AuthHandler struct {
	users         *store.UserRepository
	issuer        *auth.TokenIssuer
	refreshTokens *store.RefreshTokenStore
	botToken      string
	secureCookies bool
	logger        *slog.Logger
}

// NewAuthHandler creates the authentication handler.
func NewAuthHandler(users *store.UserRepository, issuer *auth.TokenIssuer, refreshTokens *store.RefreshTokenStore, botToken string, secureCookies bool, logger *slog.Logger) *AuthHandler {
	return &AuthHandler{
		users:         users,
		issuer:        issuer,
		refreshTokens: refreshTokens,
		botToken:      botToken,
		secureCookies: secureCookies,
		logger:        logger,
	}
}

// userResponse is the identity shape returned to the Mini App.
type userResponse struct {
	ID         int64   `json:"id"`
	TelegramID int64   `json:"telegramId"`
	Username   *string `json:"username,omitempty"`
}

// handleTelegramAuth exchanges a valid initData payload for session tokens.
func (h *AuthHandler) handleTelegramAuth(w http.ResponseWriter, r *http.Request) {
	var req struct {
		InitData string `json:"initData"`
	}
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil || req.InitData == "" {
		respondWithError(w, http.StatusBadRequest, "initData is required")
		return
	}

	if !auth.ValidateInitData(req.InitData, h.botToken, time.Now()) {
		respondWithError(w, http.StatusUnauthorized, "Invalid Telegram initData")
		return
	}

	telegramUser, ok := auth.ParseInitDataUser(req.InitData)
	if !ok {
		respondWithError(w, http.StatusBadRequest, "Invalid user data")
		return
	}

	var username *string
	if telegramUser.Username != "" {
		username = &telegramUser.Username
	}
	user, err := h.users.FindOrCreate(r.Context(), telegramUser.ID, username)
	if err != nil {
		h.logger.Error("failed to find or create user", "telegram_id", telegramUser.ID, "error", err)
		respondWithError(w, http.StatusInternalServerError, "Internal server error")
		return
	}

	payload := auth.TokenPayload{UserID: user.ID, TelegramID: user.TelegramID}

	accessToken, err := h.issuer.GenerateAccessToken(payload)
	if err != nil {
		h.logger.Error("failed to sign access token", "error", err)
		respondWithError(w, http.StatusInternalServerError, "Internal server error")
		return
	}
	refreshToken, err := h.issuer.GenerateRefreshToken(payload)
	if err != nil {
		h.logger.Error("failed to sign refresh token", "error", err)
		respondWithError(w, http.StatusInternalServerError, "Internal server error")
		return
	}

	// Overwriting the slot implicitly revokes any previous refresh token.
	if err := h.refreshTokens.Save(r.Context(), user.ID, refreshToken); err != nil {
		h.logger.Error("failed to persist refresh token", "user_id", user.ID, "error", err)
		respondWithError(w, http.StatusInternalServerError, "Internal server error")
		return
	}

	http.SetCookie(w, &http.Cookie{
		Name:     refreshCookieName,
		Value:    refreshToken,
		HttpOnly: true,
		Secure:   h.secureCookies,
		SameSite: http.SameSiteStrictMode,
		MaxAge:   int(auth.RefreshTokenTTL.Seconds()),
		Path:     "/",
	})

	respondWithJSON(w, http.StatusOK, map[string]any{
		"accessToken": accessToken,
		"user": userResponse{
			ID:         user.ID,
			TelegramID: user.TelegramID,
			Username:   user.Username,
		},
	})
}

// handleMe returns the authenticated user.
func (h *AuthHandler) handleMe(w http.ResponseWriter, r *http.Request) {
	payload, ok := UserFromContext(r.Context())
	if !ok {
		respondWithError(w, http.StatusUnauthorized, "Unauthorized")
		return
	}

	user, err := h.users.GetByID(r.Context(), payload.UserID)
	if err != nil {
		if errors.Is(err, store.ErrNotFound) {
			respondWithError(w, http.StatusNotFound, "User not found")
			return
		}
		h.logger.Error("failed to load user", "user_id", payload.UserID, "error", err)
		respondWithError(w, http.StatusInternalServerError, "Internal server error")
		return
	}

	respondWithJSON(w, http.StatusOK, map[string]any{
		"user": userResponse{
			ID:         user.ID,
			TelegramID: user.TelegramID,
			Username:   user.Username,
		},
	})
}

// handleRefresh issues a new access token from the refresh cookie. The
// presented token must match the server-side slot exactly; a stale token
// from before the last rotation is rejected.
func (h *AuthHandler) handleRefresh(w http.ResponseWriter, r *http.Request) {
	cookie, err := r.Cookie(refreshCookieName)
	if err != nil || cookie.Value == "" {
		respondWithError(w, http.StatusUnauthorized, "Refresh token not found")
		return
	}

	payload, err := h.issuer.VerifyRefreshToken(cookie.Value)
	if err != nil {
		respondWithError(w, http.StatusUnauthorized, "Invalid or expired refresh token")
		return
	}

	stored, err := h.refreshTokens.Get(r.Context(), payload.UserID)
	if err != nil || stored != cookie.Value {
		respondWithError(w, http.StatusUnauthorized, "Invalid refresh token")
		return
	}

	accessToken, err := h.issuer.GenerateAccessToken(payload)
	if err != nil {
		h.logger.Error("failed to sign access token", "error", err)
		respondWithError(w, http.StatusInternalServerError, "Internal server error")
		return
	}

	respondWithJSON(w, http.StatusOK, map[string]string{"accessToken": accessToken})
}
