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

// SpendingRepository implements domain.SpendingRepository using PostgreSQL
type SpendingRepository struct {
	pool *pgxpool.Pool
}

// NewSpendingRepository creates a new SpendingRepository
func NewSpendingRepository(pool *pgxpool.Pool) *SpendingRepository {
	return &SpendingRepository{pool: pool}
}

const spendingColumns = `id, user_id, spending_name, category_id, spending_amount, currency_code, exchange_rate, amount_in_base_currency, created_at, updated_at`

func scanSpending(row pgx.Row) (*domain.Spending, error) {
	var s domain.Spending
	var amount, rate, base pgtype.Numeric
	err := row.Scan(
		&s.ID,
		&s.UserID,
		&s.Name,
		&s.CategoryID,
		&amount,
		&s.CurrencyCode,
		&rate,
		&base,
		&s.CreatedAt,
		&s.UpdatedAt,
	)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, domain.ErrSpendingNotFound
		}
		return nil, err
	}
	s.Amount = pgNumericToDecimal(amount)
	s.ExchangeRate = pgNumericToDecimal(rate)
	s.AmountInBaseCurrency = pgNumericToDecimal(base)
	return &s, nil
}

// Create inserts a new spending row
func (r *SpendingRepository) Create(ctx context.Context, spending *domain.Spending) (*domain.Spending, error) {
	amount, err := decimalToPgNumeric(spending.Amount)
	if err != nil {
		return nil, fmt.Errorf("invalid amount: %w", err)
	}
	rate, err := decimalToPgNumeric(spending.ExchangeRate)
	if err != nil {
		return nil, fmt.Errorf("invalid exchange rate: %w", err)
	}
	base, err := decimalToPgNumeric(spending.AmountInBaseCurrency)
	if err != nil {
		return nil, fmt.Errorf("invalid base amount: %w", err)
	}

	row := r.pool.QueryRow(ctx, `
		INSERT INTO spendings (user_id, spending_name, category_id, spending_amount, currency_code, exchange_rate, amount_in_base_currency)
		VALUES ($1, $2, $3, $4, $5, $6, $7)
		RETURNING `+spendingColumns,
		spending.UserID,
		spending.Name,
		spending.CategoryID,
		amount,
		spending.CurrencyCode,
		rate,
		base,
	)
	return scanSpending(row)
}

// GetByID retrieves a spending by ID scoped to its owner
func (r *SpendingRepository) GetByID(ctx context.Context, userID, id uuid.UUID) (*domain.Spending, error) {
	row := r.pool.QueryRow(ctx,
		`SELECT `+spendingColumns+` FROM spendings WHERE user_id = $1 AND id = $2`,
		userID, id)
	return scanSpending(row)
}

// ListByUser retrieves spendings for a user, newest first, with optional
// period/date filters and pagination
func (r *SpendingRepository) ListByUser(ctx context.Context, userID uuid.UUID, filters *domain.TransactionFilters) ([]*domain.Spending, error) {
	query, args := buildListQuery(spendingColumns, "spendings", userID, filters)

	rows, err := r.pool.Query(ctx, query, args...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	spendings := make([]*domain.Spending, 0)
	for rows.Next() {
		s, err := scanSpending(rows)
		if err != nil {
			return nil, err
		}
		spendings = append(spendings, s)
	}
	return spendings, rows.Err()
}

// Update replaces the editable fields of a spending row
func (r *SpendingRepository) Update(ctx context.Context, userID, id uuid.UUID, data *domain.UpdateTransactionData) (*domain.Spending, error) {
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
		UPDATE spendings SET
			spending_name = $3,
			spending_amount = $4,
			currency_code = $5,
			exchange_rate = $6,
			amount_in_base_currency = $7,
			category_id = $8,
			updated_at = now()
		WHERE user_id = $1 AND id = $2
		RETURNING `+spendingColumns,
		userID, id,
		data.Name,
		amount,
		data.CurrencyCode,
		rate,
		base,
		data.CategoryID,
	)
	return scanSpending(row)
}

// UpdateCategory re-assigns a spending to a category (nil clears it)
func (r *SpendingRepository) UpdateCategory(ctx context.Context, userID, id uuid.UUID, categoryID *uuid.UUID) (*domain.Spending, error) {
	row := r.pool.QueryRow(ctx, `
		UPDATE spendings SET category_id = $3, updated_at = now()
		WHERE user_id = $1 AND id = $2
		RETURNING `+spendingColumns,
		userID, id, categoryID)
	return scanSpending(row)
}

// Delete removes a spending row scoped to its owner
func (r *SpendingRepository) Delete(ctx context.Context, userID, id uuid.UUID) error {
	tag, err := r.pool.Exec(ctx,
		`DELETE FROM spendings WHERE user_id = $1 AND id = $2`,
		userID, id)
	if err != nil {
		return err
	}
	if tag.RowsAffected() == 0 {
		return domain.ErrSpendingNotFound
	}
	return nil
}

// CategoryTotals aggregates base-currency spending per category in [from, to)
func (r *SpendingRepository) CategoryTotals(ctx context.Context, userID uuid.UUID, from, to time.Time) ([]*domain.CategoryTotal, error) {
	rows, err := r.pool.Query(ctx, `
		SELECT category_id, COALESCE(SUM(amount_in_base_currency), 0) AS total
		FROM spendings
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
