package handler

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/labstack/echo/v4"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/spenny/spenny-backend/internal/domain"
	"github.com/spenny/spenny-backend/internal/middleware"
	"github.com/spenny/spenny-backend/internal/service"
	"github.com/spenny/spenny-backend/internal/testutil"
)

type spendingHandlerFixture struct {
	handler    *SpendingHandler
	spendings  *testutil.MockSpendingRepository
	categories *testutil.MockCategoryRepository
	user       *domain.User
}

func newSpendingHandlerFixture(t *testing.T) *spendingHandlerFixture {
	t.Helper()

	users := testutil.NewMockUserRepository()
	spendings := testutil.NewMockSpendingRepository()
	categories := testutil.NewMockCategoryRepository()
	currencies := testutil.NewMockCurrencyRepository()
	publisher := testutil.NewRecordingPublisher()

	categories.Seed(domain.SentinelCategoryName, "❓")
	currencies.Seed("USD", "$", "1")
	currencies.Seed("EUR", "€", "0.92")

	user := users.Seed(&domain.User{TelegramID: 6001, DefaultCurrency: "USD"})

	svc := service.NewSpendingService(spendings, categories, currencies, service.NewUndefinedCategoryMatcher(categories), publisher)
	return &spendingHandlerFixture{
		handler:    NewSpendingHandler(svc),
		spendings:  spendings,
		categories: categories,
		user:       user,
	}
}

// request builds an authenticated echo context the way InitDataAuth would
func (f *spendingHandlerFixture) request(method, target, body string, authenticated bool) (echo.Context, *httptest.ResponseRecorder) {
	e := echo.New()
	var reader *strings.Reader
	if body == "" {
		reader = strings.NewReader("")
	} else {
		reader = strings.NewReader(body)
	}
	req := httptest.NewRequest(method, target, reader)
	req.Header.Set(echo.HeaderContentType, echo.MIMEApplicationJSON)
	if authenticated {
		ctx := context.WithValue(req.Context(), middleware.UserKey, f.user)
		req = req.WithContext(ctx)
	}
	rec := httptest.NewRecorder()
	return e.NewContext(req, rec), rec
}

func TestSpendingHandler_Create(t *testing.T) {
	f := newSpendingHandlerFixture(t)

	c, rec := f.request(http.MethodPost, "/api/v1/spendings", `{"name": "Groceries", "amount": "42.50", "currencyCode": "EUR"}`, true)
	require.NoError(t, f.handler.Create(c))
	require.Equal(t, http.StatusCreated, rec.Code, rec.Body.String())

	var created domain.Spending
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &created))
	assert.Equal(t, "Groceries", created.Name)
	assert.Equal(t, "EUR", created.CurrencyCode)
	assert.Equal(t, f.user.ID, created.UserID)
	assert.Len(t, f.spendings.Spendings, 1)
}

func TestSpendingHandler_Create_Unauthorized(t *testing.T) {
	f := newSpendingHandlerFixture(t)

	c, rec := f.request(http.MethodPost, "/api/v1/spendings", `{"name": "Groceries", "amount": "42.50", "currencyCode": "EUR"}`, false)
	require.NoError(t, f.handler.Create(c))
	assert.Equal(t, http.StatusUnauthorized, rec.Code)
	assert.Empty(t, f.spendings.Spendings)
}

func TestSpendingHandler_Create_InvalidAmount(t *testing.T) {
	f := newSpendingHandlerFixture(t)

	c, rec := f.request(http.MethodPost, "/api/v1/spendings", `{"name": "Groceries", "amount": "abc", "currencyCode": "EUR"}`, true)
	require.NoError(t, f.handler.Create(c))
	assert.Equal(t, http.StatusBadRequest, rec.Code)
	assert.Contains(t, rec.Body.String(), "Invalid amount")
}

func TestSpendingHandler_List_FilterValidation(t *testing.T) {
	f := newSpendingHandlerFixture(t)

	c, rec := f.request(http.MethodGet, "/api/v1/spendings?period=decade", "", true)
	require.NoError(t, f.handler.List(c))
	assert.Equal(t, http.StatusBadRequest, rec.Code)
	assert.Contains(t, rec.Body.String(), "Invalid period")
}

func TestSpendingHandler_List(t *testing.T) {
	f := newSpendingHandlerFixture(t)

	c, rec := f.request(http.MethodPost, "/api/v1/spendings", `{"name": "Groceries", "amount": "42.50", "currencyCode": "USD"}`, true)
	require.NoError(t, f.handler.Create(c))
	require.Equal(t, http.StatusCreated, rec.Code)

	c, rec = f.request(http.MethodGet, "/api/v1/spendings?period=month", "", true)
	require.NoError(t, f.handler.List(c))
	require.Equal(t, http.StatusOK, rec.Code)

	var resp struct {
		Spendings []*domain.Spending `json:"spendings"`
	}
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &resp))
	require.Len(t, resp.Spendings, 1)
	assert.Equal(t, "Groceries", resp.Spendings[0].Name)
}

func TestSpendingHandler_UpdateCategoryAndDelete(t *testing.T) {
	f := newSpendingHandlerFixture(t)
	food := f.categories.Seed("Food", "🍔")

	c, rec := f.request(http.MethodPost, "/api/v1/spendings", `{"name": "Groceries", "amount": "10", "currencyCode": "USD"}`, true)
	require.NoError(t, f.handler.Create(c))
	var created domain.Spending
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &created))

	// Re-assign the category
	c, rec = f.request(http.MethodPatch, "/", `{"categoryId": "`+food.ID.String()+`"}`, true)
	c.SetParamNames("id")
	c.SetParamValues(created.ID.String())
	require.NoError(t, f.handler.UpdateCategory(c))
	require.Equal(t, http.StatusOK, rec.Code, rec.Body.String())

	var updated domain.Spending
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &updated))
	require.NotNil(t, updated.CategoryID)
	assert.Equal(t, food.ID, *updated.CategoryID)

	// Delete it
	c, rec = f.request(http.MethodDelete, "/", "", true)
	c.SetParamNames("id")
	c.SetParamValues(created.ID.String())
	require.NoError(t, f.handler.Delete(c))
	assert.Equal(t, http.StatusNoContent, rec.Code)
	assert.Empty(t, f.spendings.Spendings)
}

func TestSpendingHandler_Get_NotFound(t *testing.T) {
	f := newSpendingHandlerFixture(t)

	c, rec := f.request(http.MethodGet, "/", "", true)
	c.SetParamNames("id")
	c.SetParamValues("b2c8e7ac-9f2e-4a68-b9a1-1c9e35b1ce10")
	require.NoError(t, f.handler.Get(c))
	assert.Equal(t, http.StatusNotFound, rec.Code)
}
