/**
 * @description
 * This file implements the data access layer for subscriptions.
 * Every query is scoped by (id, user_id) so a row owned by another user is
 * indistinguishable from a missing row. Notes are encrypted on the way in
 * and decrypted on the way out; a note that fails to decrypt degrades to an
 * empty string rather than failing the whole read.
 */
package store

import (
	"context"
	"errors"
	"fmt"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/Pailon/PayPlanner/internal/domain"
)

// NotesCipher encrypts and decrypts the free-text notes field.
type NotesCipher interface {
	Encrypt(text string) (string, error)
	Decrypt(encrypted string) (string, error)
}

const subscriptionColumns = `id, user_id, service_name, service_icon, category, amount, currency,
        billing_cycle_days, next_payment_date, color_tag, is_active, notes, service_url,
        created_at, updated_at`

// SubscriptionRepository handles database operations for subscriptions.
type SubscriptionRepository struct {
	db     *pgxpool.Pool
	cipher NotesCipher
}

// NewSubscriptionRepository creates a new subscription repository.
func NewSubscriptionRepository(db *pgxpool.Pool, cipher NotesCipher) *SubscriptionRepository {
	return &SubscriptionRepository{db: db, cipher: cipher}
}

// ListByUserID returns a user's subscriptions ordered by ascending next
// payment date. Inactive subscriptions are excluded unless requested.
func (r *SubscriptionRepository) ListByUserID(ctx context.Context, userID int64, includeInactive bool) ([]domain.Subscription, error) {
	query := `SELECT ` + subscriptionColumns + ` FROM subscriptions WHERE user_id = $1`
	if !includeInactive {
		query += ` AND is_active = TRUE`
	}
	query += ` ORDER BY next_payment_date ASC`

	rows, err := r.db.Query(ctx, query, userID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var subs []domain.Subscription
	for rows.Next() {
		sub, err := r.scanSubscription(rows)
		if err != nil {
			return nil, err
		}
		subs = append(subs, *sub)
	}
	return subs, rows.Err()
}

// GetByID retrieves a single subscription scoped by owner.
func (r *SubscriptionRepository) GetByID(ctx context.Context, id, userID int64) (*domain.Subscription, error) {
	query := `SELECT ` + subscriptionColumns + ` FROM subscriptions WHERE id = $1 AND user_id = $2`
	sub, err := r.scanSubscription(r.db.QueryRow(ctx, query, id, userID))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, ErrNotFound
		}
		return nil, err
	}
	return sub, nil
}

// Create inserts a new subscription for the user.
func (r *SubscriptionRepository) Create(ctx context.Context, userID int64, data domain.CreateSubscriptionData) (*domain.Subscription, error) {
	var encryptedNotes *string
	if data.Notes != nil && *data.Notes != "" {
		enc, err := r.cipher.Encrypt(*data.Notes)
		if err != nil {
			return nil, fmt.Errorf("encrypt notes: %w", err)
		}
		encryptedNotes = &enc
	}

	query := `
        INSERT INTO subscriptions (
            user_id, service_name, service_icon, category, amount, currency,
            billing_cycle_days, next_payment_date, color_tag, notes, service_url
        ) VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11)
        RETURNING ` + subscriptionColumns

	sub, err := r.scanSubscription(r.db.QueryRow(ctx, query,
		userID,
		data.ServiceName,
		data.ServiceIcon,
		data.Category,
		data.Amount,
		data.Currency,
		data.BillingCycleDays,
		data.NextPaymentDate,
		data.ColorTag,
		encryptedNotes,
		data.ServiceURL,
	))
	if err != nil {
		return nil, err
	}
	return sub, nil
}

// Update applies a partial update: only non-nil fields are written. An
// update carrying no fields returns the current row unchanged.
func (r *SubscriptionRepository) Update(ctx context.Context, id, userID int64, data domain.UpdateSubscriptionData) (*domain.Subscription, error) {
	var updates []string
	var values []any

	add := func(column string, value any) {
		values = append(values, value)
		updates = append(updates, fmt.Sprintf("%s = $%d", column, len(values)))
	}

	if data.ServiceName != nil {
		add("service_name", *data.ServiceName)
	}
	if data.ServiceIcon != nil {
		add("service_icon", *data.ServiceIcon)
	}
	if data.Category != nil {
		add("category", *data.Category)
	}
	if data.Amount != nil {
		add("amount", *data.Amount)
	}
	if data.Currency != nil {
		add("currency", *data.Currency)
	}
	if data.BillingCycleDays != nil {
		add("billing_cycle_days", *data.BillingCycleDays)
	}
	if data.NextPaymentDate != nil {
		add("next_payment_date", *data.NextPaymentDate)
	}
	if data.ColorTag != nil {
		add("color_tag", *data.ColorTag)
	}
	if data.IsActive != nil {
		add("is_active", *data.IsActive)
	}
	if data.Notes != nil {
		if *data.Notes == "" {
			add("notes", nil)
		} else {
			enc, err := r.cipher.Encrypt(*data.Notes)
			if err != nil {
				return nil, fmt.Errorf("encrypt notes: %w", err)
			}
			add("notes", enc)
		}
	}
	if data.ServiceURL != nil {
		add("service_url", *data.ServiceURL)
	}

	if len(updates) == 0 {
		return r.GetByID(ctx, id, userID)
	}

	values = append(values, id, userID)
	query := fmt.Sprintf(`
        UPDATE subscriptions
        SET %s, updated_at = NOW()
        WHERE id = $%d AND user_id = $%d
        RETURNING `+subscriptionColumns,
		joinClauses(updates), len(values)-1, len(values))

	sub, err := r.scanSubscription(r.db.QueryRow(ctx, query, values...))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, ErrNotFound
		}
		return nil, err
	}
	return sub, nil
}

// Delete removes a subscription and reports whether a row was actually
// deleted.
func (r *SubscriptionRepository) Delete(ctx context.Context, id, userID int64) (bool, error) {
	tag, err := r.db.Exec(ctx, `DELETE FROM subscriptions WHERE id = $1 AND user_id = $2`, id, userID)
	if err != nil {
		return false, err
	}
	return tag.RowsAffected() > 0, nil
}

func (r *SubscriptionRepository) scanSubscription(row pgx.Row) (*domain.Subscription, error) {
	var sub domain.Subscription
	var notes *string
	err := row.Scan(
		&sub.ID,
		&sub.UserID,
		&sub.ServiceName,
		&sub.ServiceIcon,
		&sub.Category,
		&sub.Amount,
		&sub.Currency,
		&sub.BillingCycleDays,
		&sub.NextPaymentDate,
		&sub.ColorTag,
		&sub.IsActive,
		&notes,
		&sub.ServiceURL,
		&sub.CreatedAt,
		&sub.UpdatedAt,
	)
	if err != nil {
		return nil, err
	}

	if notes != nil && *notes != "" {
		plain, err := r.cipher.Decrypt(*notes)
		if err != nil {
			// A note that cannot be decrypted (rotated key, corrupted row)
			// degrades to empty rather than failing the whole request.
			plain = ""
		}
		sub.Notes = plain
	}
	return &sub, nil
}

func joinClauses(clauses []string) string {
	out := clauses[0]
	for _, c := range clauses[1:] {
		out += ", " + c
	}
	return out
}
