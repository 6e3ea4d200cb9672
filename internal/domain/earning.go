package domain

import (
	"context"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

// Earning mirrors Spending for income rows.
type Earning struct {
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

type EarningRepository interface {
	Create(ctx context.Context, earning *Earning) (*Earning, error)
	GetByID(ctx context.Context, userID, id uuid.UUID) (*Earning, error)
	ListByUser(ctx context.Context, userID uuid.UUID, filters *TransactionFilters) ([]*Earning, error)
	Update(ctx context.Context, userID, id uuid.UUID, data *UpdateTransactionData) (*Earning, error)
	UpdateCategory(ctx context.Context, userID, id uuid.UUID, categoryID *uuid.UUID) (*Earning, error)
	Delete(ctx context.Context, userID, id uuid.UUID) error
	CategoryTotals(ctx context.Context, userID uuid.UUID, from, to time.Time) ([]*CategoryTotal, error)
}
