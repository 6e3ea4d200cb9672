package service

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"github.com/spenny/spenny-backend/internal/domain"
)

// TransactionInput is a structured create/edit of a spending or earning from
// the Mini App. CategoryID nil means uncategorized.
type TransactionInput struct {
	Name         string
	Amount       decimal.Decimal
	CurrencyCode string
	CategoryID   *uuid.UUID
}

func (in *TransactionInput) validate() error {
	in.Name = strings.TrimSpace(in.Name)
	if in.Name == "" {
		return domain.ErrNameRequired
	}
	if len(in.Name) > domain.MaxTransactionNameLength {
		return domain.ErrNameTooLong
	}
	if !in.Amount.IsPositive() {
		return domain.ErrInvalidAmount
	}
	return nil
}

// resolveConversion normalizes a currency code, looks up its stored rate and
// computes the base-currency amount. The write must not proceed when this
// fails.
func resolveConversion(ctx context.Context, currencies domain.CurrencyRepository, code string, amount decimal.Decimal) (string, decimal.Decimal, decimal.Decimal, error) {
	code = strings.ToUpper(strings.TrimSpace(code))
	if len(code) != 3 {
		return "", decimal.Decimal{}, decimal.Decimal{}, domain.ErrInvalidCurrencyCode
	}

	currency, err := currencies.GetByCode(ctx, code)
	if err != nil {
		if errors.Is(err, domain.ErrCurrencyNotFound) {
			return "", decimal.Decimal{}, decimal.Decimal{}, domain.ErrCurrencyNotFound
		}
		return "", decimal.Decimal{}, decimal.Decimal{}, fmt.Errorf("lookup currency %s: %w", code, err)
	}

	base, err := ConvertToBase(amount, currency.ExchangeRateToUSD)
	if err != nil {
		return "", decimal.Decimal{}, decimal.Decimal{}, err
	}
	return code, *currency.ExchangeRateToUSD, base, nil
}
