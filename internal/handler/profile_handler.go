package handler

import (
	"errors"
	"net/http"

	"github.com/labstack/echo/v4"
	"github.com/rs/zerolog/log"

	"github.com/spenny/spenny-backend/internal/domain"
	"github.com/spenny/spenny-backend/internal/service"
)

// ProfileHandler serves the authenticated user's account and settings
type ProfileHandler struct {
	users *service.UserService
}

// NewProfileHandler creates a new ProfileHandler
func NewProfileHandler(users *service.UserService) *ProfileHandler {
	return &ProfileHandler{users: users}
}

// UpdateSettingsRequest is the body for PUT /api/v1/me. Omitted fields are
// left unchanged.
type UpdateSettingsRequest struct {
	DefaultCurrency   *string `json:"defaultCurrency"`
	AIFeaturesEnabled *bool   `json:"aiFeaturesEnabled"`
	LanguageCode      *string `json:"languageCode"`
}

// Me handles GET /api/v1/me
func (h *ProfileHandler) Me(c echo.Context) error {
	user := currentUser(c)
	if user == nil {
		return NewUnauthorizedError(c, "Authentication required")
	}
	return c.JSON(http.StatusOK, user)
}

// UpdateSettings handles PUT /api/v1/me
func (h *ProfileHandler) UpdateSettings(c echo.Context) error {
	user := currentUser(c)
	if user == nil {
		return NewUnauthorizedError(c, "Authentication required")
	}

	var req UpdateSettingsRequest
	if err := c.Bind(&req); err != nil {
		return NewValidationError(c, "Invalid request body")
	}

	updated, err := h.users.UpdateSettings(c.Request().Context(), user.ID, domain.UserSettings{
		DefaultCurrency:   req.DefaultCurrency,
		AIFeaturesEnabled: req.AIFeaturesEnabled,
		LanguageCode:      req.LanguageCode,
	})
	if err != nil {
		switch {
		case errors.Is(err, domain.ErrInvalidCurrencyCode):
			return NewValidationError(c, "Unknown currency code")
		case errors.Is(err, domain.ErrUserNotFound):
			return NewNotFoundError(c, "User not found")
		default:
			log.Error().Err(err).Str("user_id", user.ID.String()).Msg("Failed to update settings")
			return NewInternalError(c, "Internal server error")
		}
	}
	return c.JSON(http.StatusOK, updated)
}
