package domain

import (
	"context"
	"time"

	"github.com/google/uuid"
)

// SentinelCategoryName is the reserved category row guaranteed to exist in
// both category tables. It is the default assignment target for parsed
// transactions.
const SentinelCategoryName = "Undefined"

// Category is immutable expense reference data seeded out-of-band.
type Category struct {
	ID            uuid.UUID `json:"id"`
	Name          string    `json:"name"`
	Emoji         string    `json:"emoji"`
	Color         string    `json:"color"`
	TextColor     string    `json:"textColor"`
	ColorDark     *string   `json:"colorDark,omitempty"`
	TextColorDark *string   `json:"textColorDark,omitempty"`
	DisplayOrder  int32     `json:"displayOrder"`
	CreatedAt     time.Time `json:"createdAt"`
	UpdatedAt     time.Time `json:"updatedAt"`
}

// EarningsCategory is the income-side counterpart of Category.
type EarningsCategory struct {
	ID            uuid.UUID `json:"id"`
	Name          string    `json:"name"`
	Emoji         string    `json:"emoji"`
	Color         string    `json:"color"`
	TextColor     string    `json:"textColor"`
	ColorDark     *string   `json:"colorDark,omitempty"`
	TextColorDark *string   `json:"textColorDark,omitempty"`
	DisplayOrder  int32     `json:"displayOrder"`
	CreatedAt     time.Time `json:"createdAt"`
	UpdatedAt     time.Time `json:"updatedAt"`
}

type CategoryRepository interface {
	List(ctx context.Context) ([]*Category, error)
	GetByID(ctx context.Context, id uuid.UUID) (*Category, error)
	GetByName(ctx context.Context, name string) (*Category, error)
}

type EarningsCategoryRepository interface {
	List(ctx context.Context) ([]*EarningsCategory, error)
	GetByID(ctx context.Context, id uuid.UUID) (*EarningsCategory, error)
	GetByName(ctx context.Context, name string) (*EarningsCategory, error)
}
