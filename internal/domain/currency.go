package domain

import (
	"context"
	"time"

	"github.com/shopspring/decimal"
)

// BaseCurrencyCode is the fixed reference currency against which all exchange
// rates are stored and all cross-currency aggregation is computed.
const BaseCurrencyCode = "USD"

// Currency is read-only reference data. ExchangeRateToUSD may be nil for
// currencies that have no rate yet; conversion must fail for those.
type Currency struct {
	Code              string           `json:"code"`
	Name              string           `json:"name"`
	Symbol            string           `json:"symbol"`
	ExchangeRateToUSD *decimal.Decimal `json:"exchangeRateToUsd,omitempty"`
	DisplayOrder      int32            `json:"displayOrder"`
	CreatedAt         time.Time        `json:"createdAt"`
}

type CurrencyRepository interface {
	List(ctx context.Context) ([]*Currency, error)
	GetByCode(ctx context.Context, code string) (*Currency, error)
}
