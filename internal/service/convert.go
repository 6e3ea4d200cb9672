package service

import (
	"github.com/shopspring/decimal"
	"github.com/spenny/spenny-backend/internal/domain"
)

// ConvertToBase converts an amount to the base currency using the stored
// exchange rate: round(amount / rate, 2). A missing, zero or negative rate is
// a conversion failure and the caller must abort persistence — a transaction
// row is never written with a corrupt conversion.
func ConvertToBase(amount decimal.Decimal, rate *decimal.Decimal) (decimal.Decimal, error) {
	if rate == nil || rate.Sign() <= 0 {
		return decimal.Decimal{}, domain.ErrInvalidExchangeRate
	}
	return amount.DivRound(*rate, 2), nil
}
