package handler

import (
	"context"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/labstack/echo/v4"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/spenny/spenny-backend/internal/domain"
	"github.com/spenny/spenny-backend/internal/service"
	"github.com/spenny/spenny-backend/internal/testutil"
)

type webhookFixture struct {
	handler   *WebhookHandler
	spendings *testutil.MockSpendingRepository
	earnings  *testutil.MockEarningRepository
	users     *testutil.MockUserRepository
	sender    *testutil.MockSender
}

func newWebhookFixture(t *testing.T) *webhookFixture {
	t.Helper()

	users := testutil.NewMockUserRepository()
	spendings := testutil.NewMockSpendingRepository()
	earnings := testutil.NewMockEarningRepository()
	categories := testutil.NewMockCategoryRepository()
	earningsCategories := testutil.NewMockEarningsCategoryRepository()
	currencies := testutil.NewMockCurrencyRepository()
	sender := testutil.NewMockSender()
	publisher := testutil.NewRecordingPublisher()

	categories.Seed(domain.SentinelCategoryName, "❓")
	earningsCategories.Seed(domain.SentinelCategoryName, "❓")
	currencies.Seed("USD", "$", "1")
	currencies.Seed("EUR", "€", "0.92")

	userSvc := service.NewUserService(users, currencies)
	spendingSvc := service.NewSpendingService(spendings, categories, currencies, service.NewUndefinedCategoryMatcher(categories), publisher)
	earningSvc := service.NewEarningService(earnings, earningsCategories, currencies, service.NewUndefinedEarningsCategoryMatcher(earningsCategories), publisher)

	return &webhookFixture{
		handler:   NewWebhookHandler(userSvc, spendingSvc, earningSvc, sender),
		spendings: spendings,
		earnings:  earnings,
		users:     users,
		sender:    sender,
	}
}

func (f *webhookFixture) post(t *testing.T, body string) *httptest.ResponseRecorder {
	t.Helper()

	e := echo.New()
	req := httptest.NewRequest(http.MethodPost, "/webhook", strings.NewReader(body))
	req.Header.Set(echo.HeaderContentType, echo.MIMEApplicationJSON)
	rec := httptest.NewRecorder()
	c := e.NewContext(req, rec)
	require.NoError(t, f.handler.HandleUpdate(c))
	return rec
}

func updateJSON(text string) string {
	return `{
		"update_id": 1,
		"message": {
			"message_id": 10,
			"date": 1724800000,
			"text": "` + text + `",
			"from": {"id": 9001, "is_bot": false, "first_name": "Alice", "username": "alice", "language_code": "en"},
			"chat": {"id": 9001, "type": "private"}
		}
	}`
}

func TestWebhookHandler_Health(t *testing.T) {
	f := newWebhookFixture(t)

	e := echo.New()
	req := httptest.NewRequest(http.MethodGet, "/webhook", nil)
	rec := httptest.NewRecorder()
	require.NoError(t, f.handler.Health(e.NewContext(req, rec)))

	assert.Equal(t, http.StatusOK, rec.Code)
	assert.JSONEq(t, `{"ok": true}`, rec.Body.String())
}

func TestWebhookHandler_LogsSpending(t *testing.T) {
	f := newWebhookFixture(t)

	rec := f.post(t, updateJSON("10.12 $ Food"))
	assert.Equal(t, http.StatusOK, rec.Code)

	require.Len(t, f.spendings.Spendings, 1)
	for _, s := range f.spendings.Spendings {
		assert.Equal(t, "Food", s.Name)
		assert.Equal(t, "USD", s.CurrencyCode)
	}

	// User created lazily on first contact
	_, err := f.users.GetByTelegramID(context.Background(), 9001)
	require.NoError(t, err)

	sent := f.sender.Sent()
	require.Len(t, sent, 1)
	assert.Equal(t, int64(9001), sent[0].ChatID)
	assert.Equal(t, "✅ Logged: 10.12 USD Food", sent[0].Text)
}

func TestWebhookHandler_LogsEarning(t *testing.T) {
	f := newWebhookFixture(t)

	rec := f.post(t, updateJSON("+2500 USD Salary"))
	assert.Equal(t, http.StatusOK, rec.Code)

	assert.Empty(t, f.spendings.Spendings)
	require.Len(t, f.earnings.Earnings, 1)
	for _, e := range f.earnings.Earnings {
		assert.Equal(t, "Salary", e.Name)
	}

	sent := f.sender.Sent()
	require.Len(t, sent, 1)
	assert.Equal(t, "✅ Earning logged: 2500 USD Salary", sent[0].Text)
}

func TestWebhookHandler_UnparseableGetsFormatHelp(t *testing.T) {
	f := newWebhookFixture(t)

	rec := f.post(t, updateJSON("hello bot"))
	assert.Equal(t, http.StatusOK, rec.Code, "Telegram must not retry unparseable messages")

	assert.Empty(t, f.spendings.Spendings)
	sent := f.sender.Sent()
	require.Len(t, sent, 1)
	assert.Contains(t, sent[0].Text, "Amount first")
}

func TestWebhookHandler_IgnoresNonMessageUpdates(t *testing.T) {
	f := newWebhookFixture(t)

	rec := f.post(t, `{"update_id": 2, "edited_message": {"message_id": 11, "text": "10 Food", "chat": {"id": 1, "type": "private"}}}`)
	assert.Equal(t, http.StatusOK, rec.Code)
	assert.Empty(t, f.spendings.Spendings)
	assert.Empty(t, f.sender.Sent())
}

func TestWebhookHandler_IgnoresBots(t *testing.T) {
	f := newWebhookFixture(t)

	rec := f.post(t, `{
		"update_id": 3,
		"message": {
			"message_id": 12,
			"date": 1724800000,
			"text": "10 Food",
			"from": {"id": 42, "is_bot": true, "first_name": "OtherBot"},
			"chat": {"id": 42, "type": "private"}
		}
	}`)
	assert.Equal(t, http.StatusOK, rec.Code)
	assert.Empty(t, f.spendings.Spendings)
	assert.Empty(t, f.sender.Sent())
}

func TestWebhookHandler_DeliveryFailureStillLogs(t *testing.T) {
	f := newWebhookFixture(t)
	f.sender.SendErr = assert.AnError

	rec := f.post(t, updateJSON("10.12 $ Food"))
	assert.Equal(t, http.StatusOK, rec.Code)
	assert.Len(t, f.spendings.Spendings, 1, "a failed confirmation must not undo the write")
}
