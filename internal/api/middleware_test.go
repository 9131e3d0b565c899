package api

import (
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/Pailon/PayPlanner/internal/auth"
)

func TestAuthMiddleware(t *testing.T) {
	issuer := auth.NewTokenIssuer("access-secret", "refresh-secret")
	token, err := issuer.GenerateAccessToken(auth.TokenPayload{UserID: 7, TelegramID: 420042})
	if err != nil {
		t.Fatalf("failed to generate token: %v", err)
	}

	var gotPayload auth.TokenPayload
	var gotOK bool
	next := http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		gotPayload, gotOK = UserFromContext(r.Context())
		w.WriteHeader(http.StatusOK)
	})
	handler := AuthMiddleware(issuer)(next)

	tests := []struct {
		name       string
		header     string
		wantStatus int
	}{
		{"valid token", "Bearer " + token, http.StatusOK},
		{"missing header", "", http.StatusUnauthorized},
		{"wrong scheme", "Basic " + token, http.StatusUnauthorized},
		{"garbage token", "Bearer not.a.token", http.StatusUnauthorized},
	}

	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			gotOK = false
			req := httptest.NewRequest(http.MethodGet, "/api/subscriptions", nil)
			if tc.header != "" {
				req.Header.Set("Authorization", tc.header)
			}
			rec := httptest.NewRecorder()

			handler.ServeHTTP(rec, req)

			if rec.Code != tc.wantStatus {
				t.Fatalf("status = %d, want %d", rec.Code, tc.wantStatus)
			}
			if tc.wantStatus == http.StatusOK {
				if !gotOK || gotPayload.UserID != 7 || gotPayload.TelegramID != 420042 {
					t.Errorf("context payload = %+v (ok=%v)", gotPayload, gotOK)
				}
			}
		})
	}
}
