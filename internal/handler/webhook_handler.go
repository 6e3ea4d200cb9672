package handler

import (
	"errors"
	"net/http"
	"strings"

	tgbotapi "github.com/go-telegram-bot-api/telegram-bot-api/v5"
	"github.com/labstack/echo/v4"
	"github.com/rs/zerolog/log"

	"github.com/spenny/spenny-backend/internal/domain"
	"github.com/spenny/spenny-backend/internal/parser"
	"github.com/spenny/spenny-backend/internal/service"
	"github.com/spenny/spenny-backend/internal/telegram"
)

const formatHelpMessage = `I couldn't read that as a transaction. Try one of these:

10.12 $ Food
10.12 USD Food
10.12 Food
+2500 USD Salary

Amount first, then an optional currency, then a name. Prefix with + to log an earning.`

// WebhookHandler ingests Telegram bot updates
type WebhookHandler struct {
	users     *service.UserService
	spendings *service.SpendingService
	earnings  *service.EarningService
	sender    telegram.Sender
}

// NewWebhookHandler creates a new WebhookHandler
func NewWebhookHandler(users *service.UserService, spendings *service.SpendingService, earnings *service.EarningService, sender telegram.Sender) *WebhookHandler {
	return &WebhookHandler{
		users:     users,
		spendings: spendings,
		earnings:  earnings,
		sender:    sender,
	}
}

// Health handles GET /webhook. Telegram setup tooling probes this.
func (h *WebhookHandler) Health(c echo.Context) error {
	return c.JSON(http.StatusOK, map[string]bool{"ok": true})
}

// HandleUpdate handles POST /webhook. Every message is acknowledged with
// 200 so Telegram does not retry; user-facing feedback goes through the bot
// reply, which is best-effort.
func (h *WebhookHandler) HandleUpdate(c echo.Context) error {
	var update tgbotapi.Update
	if err := c.Bind(&update); err != nil {
		log.Warn().Err(err).Msg("Undecodable webhook update")
		return c.NoContent(http.StatusOK)
	}

	msg := update.Message
	if msg == nil || msg.From == nil || msg.From.IsBot {
		return c.NoContent(http.StatusOK)
	}
	text := strings.TrimSpace(msg.Text)
	if text == "" {
		return c.NoContent(http.StatusOK)
	}

	ctx := c.Request().Context()
	user, err := h.users.GetOrCreateFromTelegram(ctx, service.TelegramProfile{
		TelegramID:   msg.From.ID,
		Username:     msg.From.UserName,
		FirstName:    msg.From.FirstName,
		LastName:     msg.From.LastName,
		LanguageCode: msg.From.LanguageCode,
	})
	if err != nil {
		log.Error().Err(err).Int64("telegram_id", msg.From.ID).Msg("Failed to resolve user from webhook")
		return NewInternalError(c, "Internal server error")
	}

	chatID := msg.Chat.ID
	if strings.HasPrefix(text, "+") {
		err = h.logEarning(c, user, chatID, strings.TrimSpace(strings.TrimPrefix(text, "+")))
	} else {
		err = h.logSpending(c, user, chatID, text)
	}
	if err != nil {
		log.Error().Err(err).Int64("telegram_id", user.TelegramID).Msg("Failed to log transaction from webhook")
		return NewInternalError(c, "Internal server error")
	}
	return c.NoContent(http.StatusOK)
}

func (h *WebhookHandler) logSpending(c echo.Context, user *domain.User, chatID int64, text string) error {
	created, err := h.spendings.CreateFromMessage(c.Request().Context(), user, text)
	if err != nil {
		if msg, ok := rejectionMessage(err); ok {
			h.reply(chatID, msg)
			return nil
		}
		return err
	}
	h.reply(chatID, "✅ Logged: "+created.Amount.String()+" "+created.CurrencyCode+" "+created.Name)
	return nil
}

func (h *WebhookHandler) logEarning(c echo.Context, user *domain.User, chatID int64, text string) error {
	created, err := h.earnings.CreateFromMessage(c.Request().Context(), user, text)
	if err != nil {
		if msg, ok := rejectionMessage(err); ok {
			h.reply(chatID, msg)
			return nil
		}
		return err
	}
	h.reply(chatID, "✅ Earning logged: "+created.Amount.String()+" "+created.CurrencyCode+" "+created.Name)
	return nil
}

// rejectionMessage maps a user-correctable ingestion failure to the bot
// reply text. Infrastructure failures return false and surface as 500s.
func rejectionMessage(err error) (string, bool) {
	switch {
	case errors.Is(err, parser.ErrNoMatch):
		return formatHelpMessage, true
	case errors.Is(err, domain.ErrNameRequired):
		return formatHelpMessage, true
	case errors.Is(err, domain.ErrInvalidAmount):
		return "The amount must be greater than zero.", true
	case errors.Is(err, domain.ErrNameTooLong):
		return "That name is too long. Keep it under 255 characters.", true
	case errors.Is(err, domain.ErrCurrencyNotFound), errors.Is(err, domain.ErrInvalidCurrencyCode):
		return "I don't know that currency. Use an ISO code like USD or EUR.", true
	case errors.Is(err, domain.ErrInvalidExchangeRate):
		return "No exchange rate is available for that currency yet, so I can't log it.", true
	default:
		return "", false
	}
}

func (h *WebhookHandler) reply(chatID int64, text string) {
	if err := h.sender.Send(chatID, text, ""); err != nil {
		log.Warn().Err(err).Int64("chat_id", chatID).Msg("Failed to send bot reply")
	}
}
