package postgres

import (
	"context"
	"errors"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/spenny/spenny-backend/internal/domain"
)

// EarningsCategoryRepository implements domain.EarningsCategoryRepository
// using PostgreSQL
type EarningsCategoryRepository struct {
	pool *pgxpool.Pool
}

// NewEarningsCategoryRepository creates a new EarningsCategoryRepository
func NewEarningsCategoryRepository(pool *pgxpool.Pool) *EarningsCategoryRepository {
	return &EarningsCategoryRepository{pool: pool}
}

func scanEarningsCategory(row pgx.Row) (*domain.EarningsCategory, error) {
	var c domain.EarningsCategory
	err := row.Scan(
		&c.ID,
		&c.Name,
		&c.Emoji,
		&c.Color,
		&c.TextColor,
		&c.ColorDark,
		&c.TextColorDark,
		&c.DisplayOrder,
		&c.CreatedAt,
		&c.UpdatedAt,
	)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, domain.ErrCategoryNotFound
		}
		return nil, err
	}
	return &c, nil
}

// List retrieves all income categories in display order
func (r *EarningsCategoryRepository) List(ctx context.Context) ([]*domain.EarningsCategory, error) {
	rows, err := r.pool.Query(ctx,
		`SELECT `+categoryColumns+` FROM earnings_categories ORDER BY display_order, name`)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	categories := make([]*domain.EarningsCategory, 0)
	for rows.Next() {
		c, err := scanEarningsCategory(rows)
		if err != nil {
			return nil, err
		}
		categories = append(categories, c)
	}
	return categories, rows.Err()
}

// GetByID retrieves an income category by ID
func (r *EarningsCategoryRepository) GetByID(ctx context.Context, id uuid.UUID) (*domain.EarningsCategory, error) {
	row := r.pool.QueryRow(ctx, `SELECT `+categoryColumns+` FROM earnings_categories WHERE id = $1`, id)
	return scanEarningsCategory(row)
}

// GetByName retrieves an income category by its exact name
func (r *EarningsCategoryRepository) GetByName(ctx context.Context, name string) (*domain.EarningsCategory, error) {
	row := r.pool.QueryRow(ctx, `SELECT `+categoryColumns+` FROM earnings_categories WHERE name = $1`, name)
	return scanEarningsCategory(row)
}
