package handler

import (
	"errors"
	"net/http"
	"time"

	"github.com/labstack/echo/v4"
	"github.com/rs/zerolog/log"

	"github.com/spenny/spenny-backend/internal/domain"
	"github.com/spenny/spenny-backend/internal/service"
)

// StatsHandler serves period aggregates for the Mini App dashboard
type StatsHandler struct {
	stats *service.StatsService
}

// NewStatsHandler creates a new StatsHandler
func NewStatsHandler(stats *service.StatsService) *StatsHandler {
	return &StatsHandler{stats: stats}
}

// Summary handles GET /api/v1/stats?period=month
func (h *StatsHandler) Summary(c echo.Context) error {
	user := currentUser(c)
	if user == nil {
		return NewUnauthorizedError(c, "Authentication required")
	}

	period := domain.Period(c.QueryParam("period"))
	if period == "" {
		period = domain.PeriodMonth
	}

	summary, err := h.stats.Summary(c.Request().Context(), user.ID, period, time.Now())
	if err != nil {
		if errors.Is(err, domain.ErrInvalidInput) {
			return NewValidationError(c, "Invalid period: must be week, month or year")
		}
		log.Error().Err(err).Str("user_id", user.ID.String()).Msg("Failed to compute stats")
		return NewInternalError(c, "Internal server error")
	}
	return c.JSON(http.StatusOK, summary)
}
