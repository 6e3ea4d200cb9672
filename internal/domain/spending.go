package domain

import (
	"context"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

// Spending is a single expense row. Amount is always stored positive; the
// direction is implied by the table. AmountInBaseCurrency holds
// round(Amount / ExchangeRate, 2) computed at creation time.
type Spending struct {
	ID                   uuid.UUID       `json:"id"`
	UserID               uuid.UUID       `json:"userId"`
	Name                 string          `json:"name"`
	CategoryID           *uuid.UUID      `json:"categoryId,omitempty"`
	Amount               decimal.Decimal `json:"amount"`
	CurrencyCode         string          `json:"currencyCode"`
	ExchangeRate         decimal.Decimal `json:"exchangeRate"`
	AmountInBaseCurrency decimal.Decimal `json:"amountInBaseCurrency"`
	CreatedAt            time.Time       `json:"createdAt"`
	UpdatedAt            time.Time       `json:"updatedAt"`
}

type SpendingRepository interface {
	Create(ctx context.Context, spending *Spending) (*Spending, error)
	GetByID(ctx context.Context, userID, id uuid.UUID) (*Spending, error)
	ListByUser(ctx context.Context, userID uuid.UUID, filters *TransactionFilters) ([]*Spending, error)
	Update(ctx context.Context, userID, id uuid.UUID, data *UpdateTransactionData) (*Spending, error)
	UpdateCategory(ctx context.Context, userID, id uuid.UUID, categoryID *uuid.UUID) (*Spending, error)
	Delete(ctx context.Context, userID, id uuid.UUID) error
	CategoryTotals(ctx context.Context, userID uuid.UUID, from, to time.Time) ([]*CategoryTotal, error)
}
