package handler

import (
	"encoding/json"
	"errors"
	"net/http"

	"github.com/labstack/echo/v4"
	"github.com/rs/zerolog/log"

	"github.com/spenny/spenny-backend/internal/domain"
	"github.com/spenny/spenny-backend/internal/service"
)

// AnalyzeHandler turns pre-aggregated Mini App data into an LLM-written
// summary delivered to the user's Telegram chat
type AnalyzeHandler struct {
	analysis *service.AnalysisService
	oracle   service.Oracle
}

// NewAnalyzeHandler creates a new AnalyzeHandler
func NewAnalyzeHandler(analysis *service.AnalysisService, oracle service.Oracle) *AnalyzeHandler {
	return &AnalyzeHandler{analysis: analysis, oracle: oracle}
}

// AnalyzeRequest is the body for POST /api/v1/analyze
type AnalyzeRequest struct {
	Transactions   json.RawMessage `json:"transactions"`
	CategoryStats  json.RawMessage `json:"categoryStats"`
	TotalSpent     string          `json:"totalSpent"`
	Period         string          `json:"period"`
	DateRange      string          `json:"dateRange"`
	UserTelegramID int64           `json:"userTelegramId"`
	UserCurrency   string          `json:"userCurrency"`
}

// AnalyzeResponse is the success body for POST /api/v1/analyze
type AnalyzeResponse struct {
	Success  bool   `json:"success"`
	Message  string `json:"message"`
	Analysis string `json:"analysis"`
}

// Analyze handles POST /api/v1/analyze
func (h *AnalyzeHandler) Analyze(c echo.Context) error {
	var req AnalyzeRequest
	if err := c.Bind(&req); err != nil {
		return NewValidationError(c, "Invalid request body")
	}
	if len(req.Transactions) == 0 || req.UserTelegramID == 0 || req.UserCurrency == "" {
		return NewValidationError(c, "transactions, userTelegramId and userCurrency are required")
	}
	if !h.oracle.Enabled() {
		return NewInternalError(c, "OpenAI API key not configured")
	}

	// The authenticated user may only request an analysis for themselves
	if user := currentUser(c); user != nil && user.TelegramID != req.UserTelegramID {
		return NewForbiddenError(c, "Cannot analyze another user's data")
	}

	analysis, err := h.analysis.GenerateAndSend(c.Request().Context(), service.AnalysisRequest{
		Transactions:  req.Transactions,
		CategoryStats: req.CategoryStats,
		TotalSpent:    req.TotalSpent,
		Period:        req.Period,
		DateRange:     req.DateRange,
		TelegramID:    req.UserTelegramID,
		CurrencyCode:  req.UserCurrency,
	})
	if err != nil {
		switch {
		case errors.Is(err, domain.ErrUserNotFound):
			return NewNotFoundError(c, "User not found")
		case errors.Is(err, domain.ErrAIFeaturesDisabled):
			return NewForbiddenError(c, "AI features are not enabled for this user")
		case errors.Is(err, service.ErrOracleFailed):
			log.Error().Err(err).Int64("telegram_id", req.UserTelegramID).Msg("LLM analysis failed")
			return NewBadGatewayError(c, "Failed to generate analysis")
		default:
			log.Error().Err(err).Int64("telegram_id", req.UserTelegramID).Msg("Analysis request failed")
			return NewInternalError(c, "Internal server error")
		}
	}

	return c.JSON(http.StatusOK, AnalyzeResponse{
		Success:  true,
		Message:  "Analysis sent to Telegram",
		Analysis: analysis,
	})
}
