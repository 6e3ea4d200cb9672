package postgres

import (
	"context"
	"errors"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/spenny/spenny-backend/internal/domain"
)

// UserRepository implements domain.UserRepository using PostgreSQL
type UserRepository struct {
	pool *pgxpool.Pool
}

// NewUserRepository creates a new UserRepository
func NewUserRepository(pool *pgxpool.Pool) *UserRepository {
	return &UserRepository{pool: pool}
}

const userColumns = `id, telegram_id, username, first_name, last_name, language_code, photo_url, default_currency, ai_features_enabled, created_at, updated_at`

func scanUser(row pgx.Row) (*domain.User, error) {
	var u domain.User
	err := row.Scan(
		&u.ID,
		&u.TelegramID,
		&u.Username,
		&u.FirstName,
		&u.LastName,
		&u.LanguageCode,
		&u.PhotoURL,
		&u.DefaultCurrency,
		&u.AIFeaturesEnabled,
		&u.CreatedAt,
		&u.UpdatedAt,
	)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, domain.ErrUserNotFound
		}
		return nil, err
	}
	return &u, nil
}

// GetByID retrieves a user by internal ID
func (r *UserRepository) GetByID(ctx context.Context, id uuid.UUID) (*domain.User, error) {
	row := r.pool.QueryRow(ctx, `SELECT `+userColumns+` FROM users WHERE id = $1`, id)
	return scanUser(row)
}

// GetByTelegramID retrieves a user by their Telegram account ID
func (r *UserRepository) GetByTelegramID(ctx context.Context, telegramID int64) (*domain.User, error) {
	row := r.pool.QueryRow(ctx, `SELECT `+userColumns+` FROM users WHERE telegram_id = $1`, telegramID)
	return scanUser(row)
}

// Create inserts a new user. On a concurrent first contact the telegram_id
// unique constraint wins and the existing row is returned instead.
func (r *UserRepository) Create(ctx context.Context, user *domain.User) (*domain.User, error) {
	row := r.pool.QueryRow(ctx, `
		INSERT INTO users (telegram_id, username, first_name, last_name, language_code, photo_url, default_currency, ai_features_enabled)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8)
		ON CONFLICT (telegram_id) DO UPDATE SET updated_at = now()
		RETURNING `+userColumns,
		user.TelegramID,
		user.Username,
		user.FirstName,
		user.LastName,
		user.LanguageCode,
		user.PhotoURL,
		user.DefaultCurrency,
		user.AIFeaturesEnabled,
	)
	return scanUser(row)
}

// UpdateSettings applies a partial settings update. Nil fields keep their
// current value; concurrent updates are last-write-wins.
func (r *UserRepository) UpdateSettings(ctx context.Context, id uuid.UUID, settings domain.UserSettings) (*domain.User, error) {
	row := r.pool.QueryRow(ctx, `
		UPDATE users SET
			default_currency = COALESCE($2, default_currency),
			ai_features_enabled = COALESCE($3, ai_features_enabled),
			language_code = COALESCE($4, language_code),
			updated_at = now()
		WHERE id = $1
		RETURNING `+userColumns,
		id,
		settings.DefaultCurrency,
		settings.AIFeaturesEnabled,
		settings.LanguageCode,
	)
	return scanUser(row)
}
