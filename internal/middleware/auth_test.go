package middleware

import (
	"context"
	"net/http"
	"net/http/httptest"
	"net/url"
	"strconv"
	"testing"
	"time"

	"github.com/labstack/echo/v4"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/spenny/spenny-backend/internal/domain"
	"github.com/spenny/spenny-backend/internal/service"
	"github.com/spenny/spenny-backend/internal/telegram"
	"github.com/spenny/spenny-backend/internal/testutil"
)

const testBotToken = "1234567:test-bot-token"

func signedInitData(t *testing.T, telegramID int64, authDate time.Time) string {
	t.Helper()

	values := url.Values{}
	values.Set("user", `{"id":`+strconv.FormatInt(telegramID, 10)+`,"first_name":"Alice","username":"alice","language_code":"en"}`)
	values.Set("auth_date", strconv.FormatInt(authDate.Unix(), 10))
	values.Set("query_id", "AAH9mEEaAAAAAP2YQRo_test")
	return telegram.SignInitData(values, testBotToken)
}

type stubResolver struct {
	users *testutil.MockUserRepository
}

func (r *stubResolver) GetOrCreateFromTelegram(ctx context.Context, profile service.TelegramProfile) (*domain.User, error) {
	svc := service.NewUserService(r.users, testutil.NewMockCurrencyRepository())
	return svc.GetOrCreateFromTelegram(ctx, profile)
}

func runAuth(t *testing.T, authorization, initDataHeader string) (*httptest.ResponseRecorder, *domain.User) {
	t.Helper()

	e := echo.New()
	req := httptest.NewRequest(http.MethodGet, "/api/v1/me", nil)
	if authorization != "" {
		req.Header.Set(echo.HeaderAuthorization, authorization)
	}
	if initDataHeader != "" {
		req.Header.Set("X-Telegram-Init-Data", initDataHeader)
	}
	rec := httptest.NewRecorder()
	c := e.NewContext(req, rec)

	var seen *domain.User
	handler := InitDataAuth(testBotToken, &stubResolver{users: testutil.NewMockUserRepository()})(func(c echo.Context) error {
		seen = GetUser(c)
		return c.NoContent(http.StatusOK)
	})
	require.NoError(t, handler(c))
	return rec, seen
}

func TestInitDataAuth_Valid(t *testing.T) {
	raw := signedInitData(t, 555, time.Now())

	rec, user := runAuth(t, "tma "+raw, "")
	require.Equal(t, http.StatusOK, rec.Code)
	require.NotNil(t, user)
	assert.Equal(t, int64(555), user.TelegramID)
	require.NotNil(t, user.FirstName)
	assert.Equal(t, "Alice", *user.FirstName)
}

func TestInitDataAuth_HeaderFallback(t *testing.T) {
	raw := signedInitData(t, 556, time.Now())

	rec, user := runAuth(t, "", raw)
	require.Equal(t, http.StatusOK, rec.Code)
	require.NotNil(t, user)
	assert.Equal(t, int64(556), user.TelegramID)
}

func TestInitDataAuth_Missing(t *testing.T) {
	rec, user := runAuth(t, "", "")
	assert.Equal(t, http.StatusUnauthorized, rec.Code)
	assert.Nil(t, user)
	assert.Contains(t, rec.Body.String(), "Missing authentication")
}

func TestInitDataAuth_Tampered(t *testing.T) {
	raw := signedInitData(t, 557, time.Now())
	values, err := url.ParseQuery(raw)
	require.NoError(t, err)
	values.Set("user", `{"id":999999,"first_name":"Mallory"}`)

	rec, user := runAuth(t, "tma "+values.Encode(), "")
	assert.Equal(t, http.StatusUnauthorized, rec.Code)
	assert.Nil(t, user)
}

func TestInitDataAuth_Expired(t *testing.T) {
	raw := signedInitData(t, 558, time.Now().Add(-telegram.MaxInitDataAge-time.Hour))

	rec, user := runAuth(t, "tma "+raw, "")
	assert.Equal(t, http.StatusUnauthorized, rec.Code)
	assert.Nil(t, user)
}
