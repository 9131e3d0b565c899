/**
 * @description
 * Session token issuance and verification. The backend mints two HS256 JWTs
 * per login: a short-lived access token presented as a bearer header and a
 * long-lived refresh token stored in an HTTP-only cookie. Refresh tokens are
 * additionally persisted server-side (one slot per user) so that rotation
 * revokes every previously issued refresh token.
 */
package auth

import (
	"errors"
	"time"

	"github.com/golang-jwt/jwt/v5"
)

const (
	// AccessTokenTTL is the validity window of access tokens.
	AccessTokenTTL = 15 * time.Minute
	// RefreshTokenTTL is the validity window of refresh tokens.
	RefreshTokenTTL = 7 * 24 * time.Hour
)

// ErrInvalidToken is returned for any token that fails verification,
// whether due to a bad signature, expiry, or a malformed payload.
var ErrInvalidToken = errors.New("invalid or expired token")

// TokenPayload is the application payload carried inside every session token.
type TokenPayload struct {
	UserID     int64 `json:"userId"`
	TelegramID int64 `json:"telegramId"`
}

type sessionClaims struct {
	TokenPayload
	jwt.RegisteredClaims
}

// TokenIssuer signs and verifies session tokens.
type TokenIssuer struct {
	accessSecret  []byte
	refreshSecret []byte
}

// NewTokenIssuer creates an issuer with separate access and refresh secrets.
func NewTokenIssuer(accessSecret, refreshSecret string) *TokenIssuer {
	return &TokenIssuer{
		accessSecret:  []byte(accessSecret),
		refreshSecret: []byte(refreshSecret),
	}
}

// GenerateAccessToken issues a signed access token for the payload.
func (t *TokenIssuer) GenerateAccessToken(payload TokenPayload) (string, error) {
	return t.sign(payload, t.accessSecret, AccessTokenTTL)
}

// GenerateRefreshToken issues a signed refresh token for the payload.
func (t *TokenIssuer) GenerateRefreshToken(payload TokenPayload) (string, error) {
	return t.sign(payload, t.refreshSecret, RefreshTokenTTL)
}

// VerifyAccessToken checks an access token and returns its payload.
func (t *TokenIssuer) VerifyAccessToken(token string) (TokenPayload, error) {
	return t.verify(token, t.accessSecret)
}

// VerifyRefreshToken checks a refresh token and returns its payload.
func (t *TokenIssuer) VerifyRefreshToken(token string) (TokenPayload, error) {
	return t.verify(token, t.refreshSecret)
}

func (t *TokenIssuer) sign(payload TokenPayload, secret []byte, ttl time.Duration) (string, error) {
	now := time.Now()
	claims := sessionClaims{
		TokenPayload: payload,
		RegisteredClaims: jwt.RegisteredClaims{
			IssuedAt:  jwt.NewNumericDate(now),
			ExpiresAt: jwt.NewNumericDate(now.Add(ttl)),
		},
	}
	token := jwt.NewWithClaims(jwt.SigningMethodHS256, claims)
	return token.SignedString(secret)
}

func (t *TokenIssuer) verify(tokenString string, secret []byte) (TokenPayload, error) {
	var claims sessionClaims
	token, err := jwt.ParseWithClaims(tokenString, &claims, func(token *jwt.Token) (interface{}, error) {
		if _, ok := token.Method.(*jwt.SigningMethodHMAC); !ok {
			return nil, ErrInvalidToken
		}
		return secret, nil
	})
	if err != nil || !token.Valid {
		return TokenPayload{}, ErrInvalidToken
	}
	return claims.TokenPayload, nil
}
