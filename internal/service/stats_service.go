package service

import (
	"context"
	"sort"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"github.com/spenny/spenny-backend/internal/domain"
)

// CategoryStat is one slice of the per-category spending breakdown, in base
// currency. CategoryID is nil for uncategorized rows.
type CategoryStat struct {
	CategoryID *uuid.UUID      `json:"categoryId,omitempty"`
	Name       string          `json:"category"`
	Emoji      string          `json:"emoji,omitempty"`
	Total      decimal.Decimal `json:"total"`
	Percentage decimal.Decimal `json:"percentage"`
}

// StatsSummary is the aggregated view of a user's activity over a period.
type StatsSummary struct {
	Period       domain.Period   `json:"period"`
	From         time.Time       `json:"from"`
	To           time.Time       `json:"to"`
	CurrencyCode string          `json:"currencyCode"`
	TotalSpent   decimal.Decimal `json:"totalSpent"`
	TotalEarned  decimal.Decimal `json:"totalEarned"`
	Categories   []CategoryStat  `json:"categories"`
}

// StatsService computes per-period aggregates in the base currency
type StatsService struct {
	spendings  domain.SpendingRepository
	earnings   domain.EarningRepository
	categories domain.CategoryRepository
}

// NewStatsService creates a new StatsService
func NewStatsService(spendings domain.SpendingRepository, earnings domain.EarningRepository, categories domain.CategoryRepository) *StatsService {
	return &StatsService{spendings: spendings, earnings: earnings, categories: categories}
}

// Summary aggregates spendings and earnings over the period ending now.
// Category totals cover spendings only; percentages are of total spent,
// rounded to one decimal place.
func (s *StatsService) Summary(ctx context.Context, userID uuid.UUID, period domain.Period, now time.Time) (*StatsSummary, error) {
	if !period.Valid() {
		return nil, domain.ErrInvalidInput
	}
	from, to := period.Range(now)

	spendingTotals, err := s.spendings.CategoryTotals(ctx, userID, from, to)
	if err != nil {
		return nil, err
	}
	earningTotals, err := s.earnings.CategoryTotals(ctx, userID, from, to)
	if err != nil {
		return nil, err
	}
	categories, err := s.categories.List(ctx)
	if err != nil {
		return nil, err
	}

	names := make(map[uuid.UUID]*domain.Category, len(categories))
	for _, cat := range categories {
		names[cat.ID] = cat
	}

	totalSpent := decimal.Zero
	for _, t := range spendingTotals {
		totalSpent = totalSpent.Add(t.Total)
	}
	totalEarned := decimal.Zero
	for _, t := range earningTotals {
		totalEarned = totalEarned.Add(t.Total)
	}

	hundred := decimal.NewFromInt(100)
	stats := make([]CategoryStat, 0, len(spendingTotals))
	for _, t := range spendingTotals {
		stat := CategoryStat{
			CategoryID: t.CategoryID,
			Name:       domain.SentinelCategoryName,
			Total:      t.Total,
		}
		if t.CategoryID != nil {
			if cat, ok := names[*t.CategoryID]; ok {
				stat.Name = cat.Name
				stat.Emoji = cat.Emoji
			}
		}
		if totalSpent.IsPositive() {
			stat.Percentage = t.Total.Div(totalSpent).Mul(hundred).Round(1)
		}
		stats = append(stats, stat)
	}
	sort.SliceStable(stats, func(i, j int) bool {
		return stats[i].Total.GreaterThan(stats[j].Total)
	})

	return &StatsSummary{
		Period:       period,
		From:         from,
		To:           to,
		CurrencyCode: domain.BaseCurrencyCode,
		TotalSpent:   totalSpent,
		TotalEarned:  totalEarned,
		Categories:   stats,
	}, nil
}
