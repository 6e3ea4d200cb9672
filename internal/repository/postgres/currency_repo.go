package postgres

import (
	"context"
	"errors"
	"strings"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgtype"
	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/spenny/spenny-backend/internal/domain"
)

// CurrencyRepository implements domain.CurrencyRepository using PostgreSQL
type CurrencyRepository struct {
	pool *pgxpool.Pool
}

// NewCurrencyRepository creates a new CurrencyRepository
func NewCurrencyRepository(pool *pgxpool.Pool) *CurrencyRepository {
	return &CurrencyRepository{pool: pool}
}

const currencyColumns = `code, name, symbol, exchange_rate_to_usd, display_order, created_at`

func scanCurrency(row pgx.Row) (*domain.Currency, error) {
	var c domain.Currency
	var rate pgtype.Numeric
	err := row.Scan(
		&c.Code,
		&c.Name,
		&c.Symbol,
		&rate,
		&c.DisplayOrder,
		&c.CreatedAt,
	)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, domain.ErrCurrencyNotFound
		}
		return nil, err
	}
	c.ExchangeRateToUSD = pgNumericToDecimalPtr(rate)
	return &c, nil
}

// List retrieves all currencies in display order
func (r *CurrencyRepository) List(ctx context.Context) ([]*domain.Currency, error) {
	rows, err := r.pool.Query(ctx,
		`SELECT `+currencyColumns+` FROM currencies ORDER BY display_order, code`)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	currencies := make([]*domain.Currency, 0)
	for rows.Next() {
		c, err := scanCurrency(rows)
		if err != nil {
			return nil, err
		}
		currencies = append(currencies, c)
	}
	return currencies, rows.Err()
}

// GetByCode retrieves a currency by its ISO 4217 code, case-insensitive
func (r *CurrencyRepository) GetByCode(ctx context.Context, code string) (*domain.Currency, error) {
	row := r.pool.QueryRow(ctx,
		`SELECT `+currencyColumns+` FROM currencies WHERE code = $1`,
		strings.ToUpper(code))
	return scanCurrency(row)
}
