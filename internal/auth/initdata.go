/**
 * @description
 * Telegram Mini App initData validation. A client opening the Mini App
 * receives a signed query-string payload from Telegram; the backend verifies
 * it against the bot token before minting any session tokens.
 *
 * The check string is built from all key/value pairs except `hash` and
 * `signature`, sorted lexicographically by key and joined with newlines.
 * The signing key is HMAC-SHA256("WebAppData", botToken) per the Telegram
 * Web Apps documentation.
 */
package auth

import (
	"crypto/hmac"
	"crypto/sha256"
	"encoding/hex"
	"encoding/json"
	"net/url"
	"sort"
	"strconv"
	"strings"
	"time"

	"github.com/Pailon/PayPlanner/internal/domain"
)

// initDataMaxAge is how long an initData payload stays valid after auth_date.
const initDataMaxAge = 86400 // seconds

// ValidateInitData verifies the HMAC signature and freshness of a raw
// initData payload. It never returns an error: any malformed input is
// simply not valid.
//
// Payloads timestamped in the future pass the freshness check: rejecting
// them would lock out clients with skewed clocks.
func ValidateInitData(initData, botToken string, now time.Time) bool {
	values, err := url.ParseQuery(initData)
	if err != nil {
		return false
	}

	suppliedHash := values.Get("hash")
	if suppliedHash == "" {
		return false
	}
	values.Del("hash")
	// `signature` is an Ed25519 field for third-party validation and does
	// not participate in the HMAC check string.
	values.Del("signature")

	if !hmac.Equal([]byte(computeHash(values, botToken)), []byte(suppliedHash)) {
		return false
	}

	authDate := values.Get("auth_date")
	if authDate == "" {
		return false
	}
	authTimestamp, err := strconv.ParseInt(authDate, 10, 64)
	if err != nil {
		return false
	}

	return now.Unix()-authTimestamp <= initDataMaxAge
}

// ParseInitDataUser extracts the JSON-encoded `user` field from a raw
// initData payload. The boolean result is false when the field is missing
// or not valid JSON.
func ParseInitDataUser(initData string) (*domain.TelegramUser, bool) {
	values, err := url.ParseQuery(initData)
	if err != nil {
		return nil, false
	}

	userParam := values.Get("user")
	if userParam == "" {
		return nil, false
	}

	var user domain.TelegramUser
	if err := json.Unmarshal([]byte(userParam), &user); err != nil {
		return nil, false
	}
	return &user, true
}

// computeHash builds the canonical data-check string and returns its
// hex-encoded HMAC-SHA256 digest under the derived secret key.
func computeHash(values url.Values, botToken string) string {
	pairs := make([]string, 0, len(values))
	for key, vals := range values {
		for _, val := range vals {
			pairs = append(pairs, key+"="+val)
		}
	}
	sort.Strings(pairs)
	dataCheckString := strings.Join(pairs, "\n")

	secret := hmac.New(sha256.New, []byte("WebAppData"))
	secret.Write([]byte(botToken))
	secretKey := secret.Sum(nil)

	mac := hmac.New(sha256.New, secretKey)
	mac.Write([]byte(dataCheckString))
	return hex.EncodeToString(mac.Sum(nil))
}
