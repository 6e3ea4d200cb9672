package domain

import (
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

// Period is the aggregation window used by listings and stats.
type Period string

const (
	PeriodWeek  Period = "week"
	PeriodMonth Period = "month"
	PeriodYear  Period = "year"
)

// Valid reports whether p is one of the known periods.
func (p Period) Valid() bool {
	return p == PeriodWeek || p == PeriodMonth || p == PeriodYear
}

// Range resolves the period to a half-open [from, to) interval ending now.
func (p Period) Range(now time.Time) (time.Time, time.Time) {
	to := now
	switch p {
	case PeriodWeek:
		return to.AddDate(0, 0, -7), to
	case PeriodYear:
		return to.AddDate(-1, 0, 0), to
	default:
		return to.AddDate(0, -1, 0), to
	}
}

const (
	DefaultPageSize = 50
	MaxPageSize     = 200
)

// TransactionFilters narrows spending/earning listings.
type TransactionFilters struct {
	Period   *Period
	From     *time.Time
	To       *time.Time
	Page     int32
	PageSize int32
}

// UpdateTransactionData carries a full edit of a spending or earning row.
// Exchange rate and base amount are re-derived by the service before the
// repository sees this struct.
type UpdateTransactionData struct {
	Name                 string
	Amount               decimal.Decimal
	CurrencyCode         string
	ExchangeRate         decimal.Decimal
	AmountInBaseCurrency decimal.Decimal
	CategoryID           *uuid.UUID
}

// CategoryTotal is an aggregate of base-currency amounts per category.
// CategoryID is nil for rows still awaiting categorization.
type CategoryTotal struct {
	CategoryID *uuid.UUID
	Total      decimal.Decimal
}
