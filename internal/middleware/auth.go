package middleware

import (
	"context"
	"net/http"
	"strings"
	"time"

	"github.com/labstack/echo/v4"
	"github.com/rs/zerolog/log"

	"github.com/spenny/spenny-backend/internal/domain"
	"github.com/spenny/spenny-backend/internal/service"
	"github.com/spenny/spenny-backend/internal/telegram"
)

// contextKey is a custom type for context keys to avoid collisions
type contextKey string

const (
	// UserKey is the context key for the authenticated user
	UserKey contextKey = "user"
)

// UserResolver resolves a validated Telegram identity to an account,
// creating it on first contact
type UserResolver interface {
	GetOrCreateFromTelegram(ctx context.Context, profile service.TelegramProfile) (*domain.User, error)
}

// initDataFromRequest extracts the raw Mini App initData string. The web
// client sends it as "Authorization: tma <initData>"; older clients use the
// X-Telegram-Init-Data header.
func initDataFromRequest(c echo.Context) string {
	auth := c.Request().Header.Get(echo.HeaderAuthorization)
	if len(auth) > 4 && strings.EqualFold(auth[:4], "tma ") {
		return strings.TrimSpace(auth[4:])
	}
	return c.Request().Header.Get("X-Telegram-Init-Data")
}

// InitDataAuth returns middleware that authenticates Mini App requests by
// verifying Telegram WebApp initData against the bot token. On success the
// resolved account is stored in the request context.
func InitDataAuth(botToken string, users UserResolver) echo.MiddlewareFunc {
	return func(next echo.HandlerFunc) echo.HandlerFunc {
		return func(c echo.Context) error {
			raw := initDataFromRequest(c)
			if raw == "" {
				return errorJSON(c, http.StatusUnauthorized, "Missing authentication")
			}

			webUser, err := telegram.ValidateInitData(raw, botToken, time.Now())
			if err != nil {
				log.Debug().Err(err).Msg("Init data validation failed")
				return errorJSON(c, http.StatusUnauthorized, "Invalid authentication")
			}
			if webUser.IsBot {
				return errorJSON(c, http.StatusUnauthorized, "Invalid authentication")
			}

			user, err := users.GetOrCreateFromTelegram(c.Request().Context(), service.TelegramProfile{
				TelegramID:   webUser.ID,
				Username:     webUser.Username,
				FirstName:    webUser.FirstName,
				LastName:     webUser.LastName,
				LanguageCode: webUser.LanguageCode,
				PhotoURL:     webUser.PhotoURL,
			})
			if err != nil {
				log.Error().Err(err).Int64("telegram_id", webUser.ID).Msg("Failed to resolve user")
				return errorJSON(c, http.StatusInternalServerError, "Internal server error")
			}

			ctx := context.WithValue(c.Request().Context(), UserKey, user)
			c.SetRequest(c.Request().WithContext(ctx))

			return next(c)
		}
	}
}

// GetUser retrieves the authenticated user from the context, or nil
func GetUser(c echo.Context) *domain.User {
	if user, ok := c.Request().Context().Value(UserKey).(*domain.User); ok {
		return user
	}
	return nil
}
