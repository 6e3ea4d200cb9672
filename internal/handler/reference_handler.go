package handler

import (
	"net/http"

	"github.com/labstack/echo/v4"
	"github.com/rs/zerolog/log"

	"github.com/spenny/spenny-backend/internal/domain"
)

// ReferenceHandler serves the read-only category and currency tables
type ReferenceHandler struct {
	categories         domain.CategoryRepository
	earningsCategories domain.EarningsCategoryRepository
	currencies         domain.CurrencyRepository
}

// NewReferenceHandler creates a new ReferenceHandler
func NewReferenceHandler(categories domain.CategoryRepository, earningsCategories domain.EarningsCategoryRepository, currencies domain.CurrencyRepository) *ReferenceHandler {
	return &ReferenceHandler{
		categories:         categories,
		earningsCategories: earningsCategories,
		currencies:         currencies,
	}
}

// ListCategories handles GET /api/v1/categories
func (h *ReferenceHandler) ListCategories(c echo.Context) error {
	categories, err := h.categories.List(c.Request().Context())
	if err != nil {
		log.Error().Err(err).Msg("Failed to list categories")
		return NewInternalError(c, "Internal server error")
	}
	return c.JSON(http.StatusOK, map[string]any{"categories": categories})
}

// ListEarningsCategories handles GET /api/v1/earnings-categories
func (h *ReferenceHandler) ListEarningsCategories(c echo.Context) error {
	categories, err := h.earningsCategories.List(c.Request().Context())
	if err != nil {
		log.Error().Err(err).Msg("Failed to list earnings categories")
		return NewInternalError(c, "Internal server error")
	}
	return c.JSON(http.StatusOK, map[string]any{"categories": categories})
}

// ListCurrencies handles GET /api/v1/currencies
func (h *ReferenceHandler) ListCurrencies(c echo.Context) error {
	currencies, err := h.currencies.List(c.Request().Context())
	if err != nil {
		log.Error().Err(err).Msg("Failed to list currencies")
		return NewInternalError(c, "Internal server error")
	}
	return c.JSON(http.StatusOK, map[string]any{"currencies": currencies})
}
