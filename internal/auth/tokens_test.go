package auth

import (
	"errors"
	"testing"
)

func TestTokenRoundTrip(t *testing.T) {
	issuer := NewTokenIssuer("access-secret", "refresh-secret")
	payload := TokenPayload{UserID: 7, TelegramID: 420042}

	access, err := issuer.GenerateAccessToken(payload)
	if err != nil {
		t.Fatalf("failed to generate access token: %v", err)
	}
	got, err := issuer.VerifyAccessToken(access)
	if err != nil {
		t.Fatalf("failed to verify access token: %v", err)
	}
	if got != payload {
		t.Errorf("access payload = %+v, want %+v", got, payload)
	}

	refresh, err := issuer.GenerateRefreshToken(payload)
	if err != nil {
		t.Fatalf("failed to generate refresh token: %v", err)
	}
	got, err = issuer.VerifyRefreshToken(refresh)
	if err != nil {
		t.Fatalf("failed to verify refresh token: %v", err)
	}
	if got != payload {
		t.Errorf("refresh payload = %+v, want %+v", got, payload)
	}
}

func TestTokenSecretsAreSeparate(t *testing.T) {
	issuer := NewTokenIssuer("access-secret", "refresh-secret")
	payload := TokenPayload{UserID: 7, TelegramID: 420042}

	access, err := issuer.GenerateAccessToken(payload)
	if err != nil {
		t.Fatalf("failed to generate access token: %v", err)
	}

	if _, err := issuer.VerifyRefreshToken(access); !errors.Is(err, ErrInvalidToken) {
		t.Fatalf("expected ErrInvalidToken for access token on refresh path, got %v", err)
	}
}

func TestToken_WrongSecretFails(t *testing.T) {
	issuer := NewTokenIssuer("access-secret", "refresh-secret")
	other := NewTokenIssuer("different-secret", "different-refresh")

	access, err := issuer.GenerateAccessToken(TokenPayload{UserID: 1, TelegramID: 2})
	if err != nil {
		t.Fatalf("failed to generate access token: %v", err)
	}

	if _, err := other.VerifyAccessToken(access); !errors.Is(err, ErrInvalidToken) {
		t.Fatalf("expected ErrInvalidToken for foreign secret, got %v", err)
	}
}

func TestToken_GarbageFails(t *testing.T) {
	issuer := NewTokenIssuer("access-secret", "refresh-secret")

	if _, err := issuer.VerifyAccessToken("not.a.token"); !errors.Is(err, ErrInvalidToken) {
		t.Fatalf("expected ErrInvalidToken for garbage input, got %v", err)
	}
	if _, err := issuer.VerifyAccessToken(""); !errors.Is(err, ErrInvalidToken) {
		t.Fatalf("expected ErrInvalidToken for empty input, got %v", err)
	}
}
