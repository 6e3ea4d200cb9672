// Package telegram wraps the Telegram Bot API: outbound message delivery and
// Mini App initData authentication. Delivery is best-effort by design — a
// failed confirmation must never fail the operation that triggered it, so
// callers log and swallow Send errors.
package telegram

import (
	tgbotapi "github.com/go-telegram-bot-api/telegram-bot-api/v5"
)

// Sender delivers a message to a chat. Implementations must be safe for
// concurrent use.
type Sender interface {
	Send(chatID int64, text, parseMode string) error
}

// BotSender sends messages through the Telegram Bot API
type BotSender struct {
	bot *tgbotapi.BotAPI
}

// NewBotSender creates a BotSender for the given bot token
func NewBotSender(token string) (*BotSender, error) {
	bot, err := tgbotapi.NewBotAPI(token)
	if err != nil {
		return nil, err
	}
	return &BotSender{bot: bot}, nil
}

// Send delivers text to chatID. parseMode may be empty for plain text or
// e.g. tgbotapi.ModeMarkdown for formatted reports.
func (s *BotSender) Send(chatID int64, text, parseMode string) error {
	msg := tgbotapi.NewMessage(chatID, text)
	msg.ParseMode = parseMode
	_, err := s.bot.Send(msg)
	return err
}
