package handler

import (
	"errors"
	"net/http"
	"strings"

	"github.com/google/uuid"
	"github.com/labstack/echo/v4"
	"github.com/rs/zerolog/log"

	"github.com/spenny/spenny-backend/internal/domain"
	"github.com/spenny/spenny-backend/internal/parser"
	"github.com/spenny/spenny-backend/internal/service"
)

// LogHandler is the iOS Shortcut entry point: it receives a raw bank SMS or
// notification text, asks the LLM to reduce it to the transaction grammar
// and records the result as a spending.
type LogHandler struct {
	users     *service.UserService
	spendings *service.SpendingService
	oracle    service.Oracle
}

// NewLogHandler creates a new LogHandler
func NewLogHandler(users *service.UserService, spendings *service.SpendingService, oracle service.Oracle) *LogHandler {
	return &LogHandler{
		users:     users,
		spendings: spendings,
		oracle:    oracle,
	}
}

// logRequest accepts the message under any of the field names the Shortcut
// templates have used over time
type logRequest struct {
	Message string `json:"message"`
	Text    string `json:"text"`
	SMS     string `json:"sms"`
}

func (r *logRequest) value() string {
	for _, v := range []string{r.Message, r.Text, r.SMS} {
		if strings.TrimSpace(v) != "" {
			return strings.TrimSpace(v)
		}
	}
	return ""
}

// LogResponse is the success body for POST /log/:id
type LogResponse struct {
	Success    bool             `json:"success"`
	AIResponse string           `json:"ai_response"`
	Spending   *domain.Spending `json:"spending"`
}

// HandleLog handles POST /log/:id
func (h *LogHandler) HandleLog(c echo.Context) error {
	userID, err := uuid.Parse(c.Param("id"))
	if err != nil {
		return NewValidationError(c, "Invalid user ID")
	}

	message := strings.TrimSpace(c.QueryParam("message"))
	if message == "" {
		var req logRequest
		if err := c.Bind(&req); err == nil {
			message = req.value()
		}
	}
	if message == "" {
		return NewValidationError(c, "Message is required")
	}

	ctx := c.Request().Context()
	user, err := h.users.GetByID(ctx, userID)
	if err != nil {
		if errors.Is(err, domain.ErrUserNotFound) {
			return NewNotFoundError(c, "User not found")
		}
		log.Error().Err(err).Str("user_id", userID.String()).Msg("Failed to load user for log endpoint")
		return NewInternalError(c, "Internal server error")
	}
	if !user.AIFeaturesEnabled {
		return NewForbiddenError(c, "AI features are not enabled for this user")
	}
	if !h.oracle.Enabled() {
		return NewInternalError(c, "OpenAI API key not configured")
	}

	line, err := h.oracle.ExtractTransaction(ctx, message)
	if err != nil {
		log.Error().Err(err).Str("user_id", userID.String()).Msg("LLM extraction failed")
		return NewBadGatewayError(c, "Failed to process message")
	}
	line = strings.TrimSpace(line)

	created, err := h.spendings.CreateFromMessage(ctx, user, line)
	if err != nil {
		if _, userFacing := rejectionMessage(err); userFacing || errors.Is(err, parser.ErrNoMatch) {
			return c.JSON(http.StatusBadRequest, map[string]any{
				"error":       "Could not extract a transaction from the message",
				"ai_response": line,
			})
		}
		log.Error().Err(err).Str("user_id", userID.String()).Msg("Failed to record extracted spending")
		return NewInternalError(c, "Internal server error")
	}

	return c.JSON(http.StatusOK, LogResponse{
		Success:    true,
		AIResponse: line,
		Spending:   created,
	})
}
