package service

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/spenny/spenny-backend/internal/domain"
	"github.com/spenny/spenny-backend/internal/testutil"
)

func TestUserService_GetOrCreateFromTelegram(t *testing.T) {
	users := testutil.NewMockUserRepository()
	currencies := testutil.NewMockCurrencyRepository()
	svc := NewUserService(users, currencies)

	profile := TelegramProfile{
		TelegramID:   555,
		Username:     "alice",
		FirstName:    "Alice",
		LanguageCode: "en",
	}

	created, err := svc.GetOrCreateFromTelegram(context.Background(), profile)
	require.NoError(t, err)
	assert.Equal(t, int64(555), created.TelegramID)
	assert.Equal(t, domain.BaseCurrencyCode, created.DefaultCurrency)
	assert.False(t, created.AIFeaturesEnabled)
	require.NotNil(t, created.Username)
	assert.Equal(t, "alice", *created.Username)
	assert.Nil(t, created.LastName)

	again, err := svc.GetOrCreateFromTelegram(context.Background(), profile)
	require.NoError(t, err)
	assert.Equal(t, created.ID, again.ID, "second contact must return the same account")
}

func TestUserService_UpdateSettings(t *testing.T) {
	users := testutil.NewMockUserRepository()
	currencies := testutil.NewMockCurrencyRepository()
	currencies.Seed("USD", "$", "1")
	currencies.Seed("EUR", "€", "0.92")
	svc := NewUserService(users, currencies)

	user := users.Seed(&domain.User{TelegramID: 777, DefaultCurrency: "USD"})

	eur := "eur"
	enabled := true
	updated, err := svc.UpdateSettings(context.Background(), user.ID, domain.UserSettings{
		DefaultCurrency:   &eur,
		AIFeaturesEnabled: &enabled,
	})
	require.NoError(t, err)
	assert.Equal(t, "EUR", updated.DefaultCurrency, "code must be normalized to upper case")
	assert.True(t, updated.AIFeaturesEnabled)

	// Partial update leaves other fields alone
	lang := "de"
	updated, err = svc.UpdateSettings(context.Background(), user.ID, domain.UserSettings{LanguageCode: &lang})
	require.NoError(t, err)
	assert.Equal(t, "EUR", updated.DefaultCurrency)
	assert.True(t, updated.AIFeaturesEnabled)
	require.NotNil(t, updated.LanguageCode)
	assert.Equal(t, "de", *updated.LanguageCode)
}

func TestUserService_UpdateSettings_InvalidCurrency(t *testing.T) {
	users := testutil.NewMockUserRepository()
	currencies := testutil.NewMockCurrencyRepository()
	currencies.Seed("USD", "$", "1")
	svc := NewUserService(users, currencies)

	user := users.Seed(&domain.User{TelegramID: 778, DefaultCurrency: "USD"})

	for _, code := range []string{"XXX", "EU", "EURO"} {
		c := code
		_, err := svc.UpdateSettings(context.Background(), user.ID, domain.UserSettings{DefaultCurrency: &c})
		require.ErrorIs(t, err, domain.ErrInvalidCurrencyCode, "code %q", code)
	}
	assert.Equal(t, "USD", user.DefaultCurrency)
}
