package handler

import (
	"encoding/json"
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

type logFixture struct {
	handler   *LogHandler
	users     *testutil.MockUserRepository
	spendings *testutil.MockSpendingRepository
	oracle    *testutil.MockOracle
	user      *domain.User
}

func newLogFixture(t *testing.T) *logFixture {
	t.Helper()

	users := testutil.NewMockUserRepository()
	spendings := testutil.NewMockSpendingRepository()
	categories := testutil.NewMockCategoryRepository()
	currencies := testutil.NewMockCurrencyRepository()
	publisher := testutil.NewRecordingPublisher()

	categories.Seed(domain.SentinelCategoryName, "❓")
	currencies.Seed("USD", "$", "1")

	user := users.Seed(&domain.User{TelegramID: 4001, DefaultCurrency: "USD", AIFeaturesEnabled: true})

	oracle := &testutil.MockOracle{EnabledFlag: true, ExtractResponse: "10.12 USD Food"}
	userSvc := service.NewUserService(users, currencies)
	spendingSvc := service.NewSpendingService(spendings, categories, currencies, service.NewUndefinedCategoryMatcher(categories), publisher)

	return &logFixture{
		handler:   NewLogHandler(userSvc, spendingSvc, oracle),
		users:     users,
		spendings: spendings,
		oracle:    oracle,
		user:      user,
	}
}

func (f *logFixture) post(t *testing.T, userID, body string) *httptest.ResponseRecorder {
	t.Helper()

	e := echo.New()
	req := httptest.NewRequest(http.MethodPost, "/log/"+userID, strings.NewReader(body))
	req.Header.Set(echo.HeaderContentType, echo.MIMEApplicationJSON)
	rec := httptest.NewRecorder()
	c := e.NewContext(req, rec)
	c.SetParamNames("id")
	c.SetParamValues(userID)
	require.NoError(t, f.handler.HandleLog(c))
	return rec
}

func TestLogHandler_Success(t *testing.T) {
	f := newLogFixture(t)

	rec := f.post(t, f.user.ID.String(), `{"message": "Purchase of $10.12 at FOOD MARKET on 08/28"}`)
	require.Equal(t, http.StatusOK, rec.Code, rec.Body.String())

	var resp LogResponse
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &resp))
	assert.True(t, resp.Success)
	assert.Equal(t, "10.12 USD Food", resp.AIResponse)
	require.NotNil(t, resp.Spending)
	assert.Equal(t, "Food", resp.Spending.Name)

	require.Len(t, f.oracle.ExtractCalls, 1)
	assert.Contains(t, f.oracle.ExtractCalls[0], "FOOD MARKET")
	assert.Len(t, f.spendings.Spendings, 1)
}

func TestLogHandler_AlternateFieldNames(t *testing.T) {
	f := newLogFixture(t)

	for _, body := range []string{`{"text": "spent 10"}`, `{"sms": "spent 10"}`} {
		rec := f.post(t, f.user.ID.String(), body)
		assert.Equal(t, http.StatusOK, rec.Code, body)
	}
}

func TestLogHandler_MissingMessage(t *testing.T) {
	f := newLogFixture(t)

	rec := f.post(t, f.user.ID.String(), `{}`)
	assert.Equal(t, http.StatusBadRequest, rec.Code)
	assert.Contains(t, rec.Body.String(), "Message is required")
	assert.Empty(t, f.oracle.ExtractCalls)
}

func TestLogHandler_InvalidUserID(t *testing.T) {
	f := newLogFixture(t)

	rec := f.post(t, "not-a-uuid", `{"message": "spent 10"}`)
	assert.Equal(t, http.StatusBadRequest, rec.Code)
}

func TestLogHandler_UnknownUser(t *testing.T) {
	f := newLogFixture(t)

	rec := f.post(t, "b2c8e7ac-9f2e-4a68-b9a1-1c9e35b1ce10", `{"message": "spent 10"}`)
	assert.Equal(t, http.StatusNotFound, rec.Code)
}

func TestLogHandler_AIFeaturesDisabled(t *testing.T) {
	f := newLogFixture(t)
	f.user.AIFeaturesEnabled = false

	rec := f.post(t, f.user.ID.String(), `{"message": "spent 10"}`)
	assert.Equal(t, http.StatusForbidden, rec.Code)
	assert.Empty(t, f.oracle.ExtractCalls)
}

func TestLogHandler_OracleNotConfigured(t *testing.T) {
	f := newLogFixture(t)
	f.oracle.EnabledFlag = false

	rec := f.post(t, f.user.ID.String(), `{"message": "spent 10"}`)
	assert.Equal(t, http.StatusInternalServerError, rec.Code)
	assert.Contains(t, rec.Body.String(), "OpenAI API key not configured")
}

func TestLogHandler_OracleFailure(t *testing.T) {
	f := newLogFixture(t)
	f.oracle.ExtractErr = assert.AnError

	rec := f.post(t, f.user.ID.String(), `{"message": "spent 10"}`)
	assert.Equal(t, http.StatusBadGateway, rec.Code)
	assert.Empty(t, f.spendings.Spendings)
}

func TestLogHandler_UnparseableExtraction(t *testing.T) {
	f := newLogFixture(t)
	f.oracle.ExtractResponse = "I could not find a transaction in this message."

	rec := f.post(t, f.user.ID.String(), `{"message": "hello"}`)
	assert.Equal(t, http.StatusBadRequest, rec.Code)
	assert.Contains(t, rec.Body.String(), "ai_response")
	assert.Empty(t, f.spendings.Spendings)
}
