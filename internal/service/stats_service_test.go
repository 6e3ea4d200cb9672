package service

import (
	"context"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/spenny/spenny-backend/internal/domain"
	"github.com/spenny/spenny-backend/internal/testutil"
)

// staticMatcher always leaves rows uncategorized
type staticMatcher struct{}

func (staticMatcher) Resolve(context.Context, string) (*uuid.UUID, error) { return nil, nil }

func TestStatsService_Summary(t *testing.T) {
	spendings := testutil.NewMockSpendingRepository()
	earnings := testutil.NewMockEarningRepository()
	categories := testutil.NewMockCategoryRepository()

	categories.Seed(domain.SentinelCategoryName, "❓")
	food := categories.Seed("Food", "🍔")

	users := testutil.NewMockUserRepository()
	user := users.Seed(&domain.User{TelegramID: 2001, DefaultCurrency: "USD"})

	currencies := testutil.NewMockCurrencyRepository()
	currencies.Seed("USD", "$", "1")
	publisher := testutil.NewRecordingPublisher()
	spendingSvc := NewSpendingService(spendings, categories, currencies, staticMatcher{}, publisher)
	earningSvc := NewEarningService(earnings, testutil.NewMockEarningsCategoryRepository(), currencies, staticMatcher{}, publisher)

	_, err := spendingSvc.Create(context.Background(), user.ID, TransactionInput{
		Name: "Burger", Amount: decimal.RequireFromString("30"), CurrencyCode: "USD", CategoryID: &food.ID,
	})
	require.NoError(t, err)
	_, err = spendingSvc.Create(context.Background(), user.ID, TransactionInput{
		Name: "Pizza", Amount: decimal.RequireFromString("45"), CurrencyCode: "USD", CategoryID: &food.ID,
	})
	require.NoError(t, err)
	_, err = spendingSvc.Create(context.Background(), user.ID, TransactionInput{
		Name: "Mystery", Amount: decimal.RequireFromString("25"), CurrencyCode: "USD",
	})
	require.NoError(t, err)
	_, err = earningSvc.Create(context.Background(), user.ID, TransactionInput{
		Name: "Salary", Amount: decimal.RequireFromString("1000"), CurrencyCode: "USD",
	})
	require.NoError(t, err)

	svc := NewStatsService(spendings, earnings, categories)
	summary, err := svc.Summary(context.Background(), user.ID, domain.PeriodMonth, time.Now().Add(time.Minute))
	require.NoError(t, err)

	assert.Equal(t, domain.PeriodMonth, summary.Period)
	assert.Equal(t, domain.BaseCurrencyCode, summary.CurrencyCode)
	assert.True(t, summary.TotalSpent.Equal(decimal.RequireFromString("100")), "got %s", summary.TotalSpent)
	assert.True(t, summary.TotalEarned.Equal(decimal.RequireFromString("1000")), "got %s", summary.TotalEarned)

	require.Len(t, summary.Categories, 2)
	// Sorted by total descending: Food 75, then uncategorized 25
	assert.Equal(t, "Food", summary.Categories[0].Name)
	assert.Equal(t, "🍔", summary.Categories[0].Emoji)
	assert.True(t, summary.Categories[0].Total.Equal(decimal.RequireFromString("75")))
	assert.True(t, summary.Categories[0].Percentage.Equal(decimal.RequireFromString("75")))
	assert.Equal(t, domain.SentinelCategoryName, summary.Categories[1].Name)
	assert.Nil(t, summary.Categories[1].CategoryID)
	assert.True(t, summary.Categories[1].Percentage.Equal(decimal.RequireFromString("25")))
}

func TestStatsService_Summary_Empty(t *testing.T) {
	svc := NewStatsService(testutil.NewMockSpendingRepository(), testutil.NewMockEarningRepository(), testutil.NewMockCategoryRepository())

	summary, err := svc.Summary(context.Background(), uuid.New(), domain.PeriodWeek, time.Now())
	require.NoError(t, err)
	assert.True(t, summary.TotalSpent.IsZero())
	assert.True(t, summary.TotalEarned.IsZero())
	assert.Empty(t, summary.Categories)
}

func TestStatsService_Summary_InvalidPeriod(t *testing.T) {
	svc := NewStatsService(testutil.NewMockSpendingRepository(), testutil.NewMockEarningRepository(), testutil.NewMockCategoryRepository())

	_, err := svc.Summary(context.Background(), uuid.New(), domain.Period("decade"), time.Now())
	require.ErrorIs(t, err, domain.ErrInvalidInput)
}
