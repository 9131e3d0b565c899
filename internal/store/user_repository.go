/**
 * @description
 * This file implements the data access layer for user records.
 * Users are keyed by their Telegram ID and created idempotently on first
 * contact, so both the bot and the auth endpoint can call FindOrCreate
 * without coordinating.
 */
package store

import (
	"context"
	"errors"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/Pailon/PayPlanner/internal/domain"
)

// ErrNotFound is returned when a requested row does not exist or is owned
// by a different user. Callers cannot distinguish the two cases.
var ErrNotFound = errors.New("not found")

const userColumns = `id, telegram_id, username, language_code, timezone, premium_until, created_at, updated_at`

// UserRepository handles database operations for users.
type UserRepository struct {
	db *pgxpool.Pool
}

// NewUserRepository creates a new user repository.
func NewUserRepository(db *pgxpool.Pool) *UserRepository {
	return &UserRepository{db: db}
}

// FindOrCreate looks a user up by Telegram ID, creating the record on first
// contact. When the stored username differs from the one presented, the row
// is updated in place.
func (r *UserRepository) FindOrCreate(ctx context.Context, telegramID int64, username *string) (*domain.User, error) {
	user, err := r.GetByTelegramID(ctx, telegramID)
	if err != nil && !errors.Is(err, ErrNotFound) {
		return nil, err
	}

	if user == nil {
		query := `
            INSERT INTO users (telegram_id, username, language_code, timezone)
            VALUES ($1, $2, 'ru', 'Europe/Moscow')
            RETURNING ` + userColumns
		return r.scanUser(r.db.QueryRow(ctx, query, telegramID, username))
	}

	if username != nil && (user.Username == nil || *user.Username != *username) {
		query := `
            UPDATE users SET username = $1, updated_at = NOW()
            WHERE telegram_id = $2
            RETURNING ` + userColumns
		return r.scanUser(r.db.QueryRow(ctx, query, username, telegramID))
	}

	return user, nil
}

// GetByID retrieves a user by internal ID.
func (r *UserRepository) GetByID(ctx context.Context, id int64) (*domain.User, error) {
	query := `SELECT ` + userColumns + ` FROM users WHERE id = $1`
	return r.scanUser(r.db.QueryRow(ctx, query, id))
}

// GetByTelegramID retrieves a user by Telegram ID.
func (r *UserRepository) GetByTelegramID(ctx context.Context, telegramID int64) (*domain.User, error) {
	query := `SELECT ` + userColumns + ` FROM users WHERE telegram_id = $1`
	return r.scanUser(r.db.QueryRow(ctx, query, telegramID))
}

func (r *UserRepository) scanUser(row pgx.Row) (*domain.User, error) {
	var user domain.User
	err := row.Scan(
		&user.ID,
		&user.TelegramID,
		&user.Username,
		&user.LanguageCode,
		&user.Timezone,
		&user.PremiumUntil,
		&user.CreatedAt,
		&user.UpdatedAt,
	)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, ErrNotFound
		}
		return nil, err
	}
	return &user, nil
}
