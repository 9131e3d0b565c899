/**
 * @description
 * Redis-backed session and scheduling state. Two small stores live here:
 *
 * - RefreshTokenStore keeps the single active refresh token per user.
 *   Issuing a new token overwrites the slot, which implicitly revokes every
 *   previously issued refresh token for that user.
 * - ReminderDedup remembers which (subscription, offset, due date) reminders
 *   have already been dispatched, so the hourly scheduler scan does not
 *   enqueue the same reminder more than once per due date.
 */
package store

import (
	"context"
	"fmt"
	"time"

	"github.com/redis/go-redis/v9"

	"github.com/Pailon/PayPlanner/internal/domain"
)

// RefreshTokenStore persists the active refresh token per user.
type RefreshTokenStore struct {
	client *redis.Client
	ttl    time.Duration
}

// NewRefreshTokenStore creates a refresh token store with the given slot TTL.
func NewRefreshTokenStore(client *redis.Client, ttl time.Duration) *RefreshTokenStore {
	return &RefreshTokenStore{client: client, ttl: ttl}
}

// Save overwrites the user's refresh token slot.
func (s *RefreshTokenStore) Save(ctx context.Context, userID int64, token string) error {
	return s.client.Set(ctx, refreshTokenKey(userID), token, s.ttl).Err()
}

// Get returns the user's current refresh token, or ErrNotFound when the
// slot is empty or expired.
func (s *RefreshTokenStore) Get(ctx context.Context, userID int64) (string, error) {
	token, err := s.client.Get(ctx, refreshTokenKey(userID)).Result()
	if err == redis.Nil {
		return "", ErrNotFound
	}
	if err != nil {
		return "", err
	}
	return token, nil
}

func refreshTokenKey(userID int64) string {
	return fmt.Sprintf("refresh_token:%d", userID)
}

// ReminderDedup tracks already-dispatched reminders.
type ReminderDedup struct {
	client *redis.Client
	ttl    time.Duration
}

// NewReminderDedup creates a dedup store. The TTL only needs to outlive the
// due date the key refers to; 48 hours covers every offset window.
func NewReminderDedup(client *redis.Client, ttl time.Duration) *ReminderDedup {
	return &ReminderDedup{client: client, ttl: ttl}
}

// MarkScheduled records the key and reports whether this call was the first
// to do so. A false result means the reminder was already dispatched by an
// earlier scheduler run.
func (s *ReminderDedup) MarkScheduled(ctx context.Context, key domain.DedupKey) (bool, error) {
	redisKey := fmt.Sprintf("reminder_sent:%d:%d:%s", key.SubscriptionID, key.OffsetDays, key.DueDate)
	return s.client.SetNX(ctx, redisKey, 1, s.ttl).Result()
}
