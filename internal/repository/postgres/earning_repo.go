package postgres

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgtype"
	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/spenny/spenny-backend/internal/domain"
)

// EarningRepository implements domain.EarningRepository using PostgreSQL
type EarningRepository struct {
	pool *pgxpool.Pool
}

// NewEarningRepository creates a new EarningRepository
func NewEarningRepository(pool *pgxpool.Pool) *EarningRepository {
	return &EarningRepository{pool: pool}
}

const earningColumns = `id, user_id, earning_name, category_id, earning_amount, currency_code, exchange_rate, amount_in_base_currency, created_at, updated_at`

func scanEarning(row pgx.Row) (*domain.Earning, error) {
	var e domain.Earning
	var amount, rate, base pgtype.Numeric
	err := row.Scan(
		&e.ID,
		&e.UserID,
		&e.Name,
		&e.CategoryID,
		&amount,
		&e.CurrencyCode,
		&rate,
		&base,
		&e.CreatedAt,
		&e.UpdatedAt,
	)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, domain.ErrEarningNotFound
		}
		return nil, err
	}
	e.Amount = pgNumericToDecimal(amount)
	e.ExchangeRate = pgNumericToDecimal(rate)
	e.AmountInBaseCurrency = pgNumericToDecimal(base)
	return &e, nil
}

// Create inserts a new earning row
func (r *EarningRepository) Create(ctx context.Context, earning *domain.Earning) (*domain.Earning, error) {
	amount, err := decimalToPgNumeric(earning.Amount)
	if err != nil {
		return nil, fmt.Errorf("invalid amount: %w", err)
	}
	rate, err := decimalToPgNumeric(earning.ExchangeRate)
	if err != nil {
		return nil, fmt.Errorf("invalid exchange rate: %w", err)
	}
	base, err := decimalToPgNumeric(earning.AmountInBaseCurrency)
	if err != nil {
		return nil, fmt.Errorf("invalid base amount: %w", err)
	}

	row := r.pool.QueryRow(ctx, `
		INSERT INTO earnings (user_id, earning_name, category_id, earning_amount, currency_code, exchange_rate, amount_in_base_currency)
		VALUES ($1, $2, $3, $4, $5, $6, $7)
		RETURNING `+earningColumns,
		earning.UserID,
		earning.Name,
		earning.CategoryID,
		amount,
		earning.CurrencyCode,
		rate,
		base,
	)
	return scanEarning(row)
}

// GetByID retrieves an earning by ID scoped to its owner
func (r *EarningRepository) GetByID(ctx context.Context, userID, id uuid.UUID) (*domain.Earning, error) {
	row := r.pool.QueryRow(ctx,
		`SELECT `+earningColumns+` FROM earnings WHERE user_id = $1 AND id = $2`,
		userID, id)
	return scanEarning(row)
}

// ListByUser retrieves earnings for a user, newest first, with optional
// period/date filters and pagination
func (r *EarningRepository) ListByUser(ctx context.Context, userID uuid.UUID, filters *domain.TransactionFilters) ([]*domain.Earning, error) {
	query, args := buildListQuery(earningColumns, "earnings", userID, filters)

	rows, err := r.pool.Query(ctx, query, args...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	earnings := make([]*domain.Earning, 0)
	for rows.Next() {
		e, err := scanEarning(rows)
		if err != nil {
			return nil, err
		}
		earnings = append(earnings, e)
	}
	return earnings, rows.Err()
}

// Update replaces the editable fields of an earning row
func (r *EarningRepository) Update(ctx context.Context, userID, id uuid.UUID, data *domain.UpdateTransactionData) (*domain.Earning, error) {
	amount, err := decimalToPgNumeric(data.Amount)
	if err != nil {
		return nil, fmt.Errorf("invalid amount: %w", err)
	}
	rate, err := decimalToPgNumeric(data.ExchangeRate)
	if err != nil {
		return nil, fmt.Errorf("invalid exchange rate: %w", err)
	}
	base, err := decimalToPgNumeric(data.AmountInBaseCurrency)
	if err != nil {
		return nil, fmt.Errorf("invalid base amount: %w", err)
	}

	row := r.pool.QueryRow(ctx, `
		UPDATE earnings SET
			earning_name = $3,
			earning_amount = $4,
			currency_code = $5,
			exchange_rate = $6,
			amount_in_base_currency = $7,
			category_id = $8,
			updated_at = now()
		WHERE user_id = $1 AND id = $2
		RETURNING `+earningColumns,
		userID, id,
		data.Name,
		amount,
		data.CurrencyCode,
		rate,
		base,
		data.CategoryID,
	)
	return scanEarning(row)
}

// UpdateCategory re-assigns an earning to a category (nil clears it)
func (r *EarningRepository) UpdateCategory(ctx context.Context, userID, id uuid.UUID, categoryID *uuid.UUID) (*domain.Earning, error) {
	row := r.pool.QueryRow(ctx, `
		UPDATE earnings SET category_id = $3, updated_at = now()
		WHERE user_id = $1 AND id = $2
		RETURNING `+earningColumns,
		userID, id, categoryID)
	return scanEarning(row)
}

// Delete removes an earning row scoped to its owner
func (r *EarningRepository) Delete(ctx context.Context, userID, id uuid.UUID) error {
	tag, err := r.pool.Exec(ctx,
		`DELETE FROM earnings WHERE user_id = $1 AND id = $2`,
		userID, id)
	if err != nil {
		return err
	}
	if tag.RowsAffected() == 0 {
		return domain.ErrEarningNotFound
	}
	return nil
}

// CategoryTotals aggregates base-currency earnings per category in [from, to)
func (r *EarningRepository) CategoryTotals(ctx context.Context, userID uuid.UUID, from, to time.Time) ([]*domain.CategoryTotal, error) {
	rows, err := r.pool.Query(ctx, `
		SELECT category_id, COALESCE(SUM(amount_in_base_currency), 0) AS total
		FROM earnings
		WHERE user_id = $1 AND created_at >= $2 AND created_at < $3
		GROUP BY category_id
		ORDER BY total DESC`,
		userID, from, to)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	return scanCategoryTotals(rows)
}
