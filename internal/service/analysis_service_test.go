package service

import (
	"context"
	"encoding/json"
	"errors"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/spenny/spenny-backend/internal/domain"
	"github.com/spenny/spenny-backend/internal/testutil"
)

func analysisRequest(telegramID int64) AnalysisRequest {
	return AnalysisRequest{
		Transactions:  json.RawMessage(`[{"name":"Coffee","amount":"4.50"}]`),
		CategoryStats: json.RawMessage(`[{"category":"Food","total":"4.50"}]`),
		TotalSpent:    "4.50",
		Period:        "month",
		DateRange:     "Jul 28 - Aug 28",
		TelegramID:    telegramID,
		CurrencyCode:  "USD",
	}
}

func TestAnalysisService_GenerateAndSend(t *testing.T) {
	users := testutil.NewMockUserRepository()
	currencies := testutil.NewMockCurrencyRepository()
	currencies.Seed("USD", "$", "1")
	sender := testutil.NewMockSender()
	oracle := &testutil.MockOracle{EnabledFlag: true, AnalyzeResponse: "You spent wisely this month."}

	first := "Alice"
	user := users.Seed(&domain.User{TelegramID: 3001, FirstName: &first, DefaultCurrency: "USD", AIFeaturesEnabled: true})

	svc := NewAnalysisService(users, currencies, oracle, sender)
	analysis, err := svc.GenerateAndSend(context.Background(), analysisRequest(user.TelegramID))
	require.NoError(t, err)
	assert.Equal(t, "You spent wisely this month.", analysis)

	// Prompt carries the data and the user context
	require.Len(t, oracle.AnalyzeCalls, 1)
	prompt := oracle.AnalyzeCalls[0]
	assert.True(t, strings.Contains(prompt, `"Coffee"`))
	assert.True(t, strings.Contains(prompt, `"currency_symbol": "$"`))
	assert.True(t, strings.Contains(prompt, `"user_name": "Alice"`))

	// Delivered to the user's chat as Markdown
	sent := sender.Sent()
	require.Len(t, sent, 1)
	assert.Equal(t, user.TelegramID, sent[0].ChatID)
	assert.Equal(t, analysis, sent[0].Text)
	assert.Equal(t, "Markdown", sent[0].ParseMode)
}

func TestAnalysisService_DeliveryFailureIsTolerated(t *testing.T) {
	users := testutil.NewMockUserRepository()
	currencies := testutil.NewMockCurrencyRepository()
	sender := testutil.NewMockSender()
	sender.SendErr = errors.New("chat not found")
	oracle := &testutil.MockOracle{EnabledFlag: true, AnalyzeResponse: "summary"}

	user := users.Seed(&domain.User{TelegramID: 3002, DefaultCurrency: "USD", AIFeaturesEnabled: true})

	svc := NewAnalysisService(users, currencies, oracle, sender)
	analysis, err := svc.GenerateAndSend(context.Background(), analysisRequest(user.TelegramID))
	require.NoError(t, err, "a failed Telegram delivery must not fail the analysis")
	assert.Equal(t, "summary", analysis)
}

func TestAnalysisService_Refusals(t *testing.T) {
	users := testutil.NewMockUserRepository()
	currencies := testutil.NewMockCurrencyRepository()
	sender := testutil.NewMockSender()

	t.Run("oracle disabled", func(t *testing.T) {
		svc := NewAnalysisService(users, currencies, &testutil.MockOracle{EnabledFlag: false}, sender)
		_, err := svc.GenerateAndSend(context.Background(), analysisRequest(1))
		require.ErrorIs(t, err, domain.ErrAIFeaturesDisabled)
	})

	t.Run("unknown user", func(t *testing.T) {
		svc := NewAnalysisService(users, currencies, &testutil.MockOracle{EnabledFlag: true}, sender)
		_, err := svc.GenerateAndSend(context.Background(), analysisRequest(999999))
		require.ErrorIs(t, err, domain.ErrUserNotFound)
	})

	t.Run("ai features off for user", func(t *testing.T) {
		user := users.Seed(&domain.User{TelegramID: 3003, DefaultCurrency: "USD", AIFeaturesEnabled: false})
		svc := NewAnalysisService(users, currencies, &testutil.MockOracle{EnabledFlag: true}, sender)
		_, err := svc.GenerateAndSend(context.Background(), analysisRequest(user.TelegramID))
		require.ErrorIs(t, err, domain.ErrAIFeaturesDisabled)
	})

	t.Run("oracle failure", func(t *testing.T) {
		user := users.Seed(&domain.User{TelegramID: 3004, DefaultCurrency: "USD", AIFeaturesEnabled: true})
		oracle := &testutil.MockOracle{EnabledFlag: true, AnalyzeErr: errors.New("rate limited")}
		svc := NewAnalysisService(users, currencies, oracle, sender)
		_, err := svc.GenerateAndSend(context.Background(), analysisRequest(user.TelegramID))
		require.ErrorIs(t, err, ErrOracleFailed)
		assert.Empty(t, sender.Sent())
	})
}
