package service

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"github.com/rs/zerolog/log"
	"github.com/spenny/spenny-backend/internal/domain"
	"github.com/spenny/spenny-backend/internal/llm"
	"github.com/spenny/spenny-backend/internal/telegram"
)

// Oracle is the subset of the LLM client the services depend on.
type Oracle interface {
	Enabled() bool
	ExtractTransaction(ctx context.Context, message string) (string, error)
	Analyze(ctx context.Context, prompt string) (string, error)
}

// ErrOracleFailed wraps upstream LLM failures so handlers can map them to a
// gateway error instead of a plain 500.
var ErrOracleFailed = errors.New("llm request failed")

// AnalysisRequest carries the pre-aggregated data the Mini App sends for
// narration. Transactions and CategoryStats are passed through to the prompt
// verbatim.
type AnalysisRequest struct {
	Transactions  json.RawMessage
	CategoryStats json.RawMessage
	TotalSpent    string
	Period        string
	DateRange     string
	TelegramID    int64
	CurrencyCode  string
}

// AnalysisService turns a user's aggregated transactions into a
// conversational summary and delivers it over Telegram
type AnalysisService struct {
	users      domain.UserRepository
	currencies domain.CurrencyRepository
	oracle     Oracle
	sender     telegram.Sender
	now        func() time.Time
}

// NewAnalysisService creates a new AnalysisService
func NewAnalysisService(users domain.UserRepository, currencies domain.CurrencyRepository, oracle Oracle, sender telegram.Sender) *AnalysisService {
	return &AnalysisService{
		users:      users,
		currencies: currencies,
		oracle:     oracle,
		sender:     sender,
		now:        time.Now,
	}
}

// GenerateAndSend builds the analysis prompt, asks the oracle for the
// summary and delivers it to the user's Telegram chat. Delivery is
// best-effort: a send failure is logged and the analysis is still returned.
func (s *AnalysisService) GenerateAndSend(ctx context.Context, req AnalysisRequest) (string, error) {
	if !s.oracle.Enabled() {
		return "", domain.ErrAIFeaturesDisabled
	}

	user, err := s.users.GetByTelegramID(ctx, req.TelegramID)
	if err != nil {
		return "", err
	}
	if !user.AIFeaturesEnabled {
		return "", domain.ErrAIFeaturesDisabled
	}

	symbol := req.CurrencyCode
	if currency, err := s.currencies.GetByCode(ctx, req.CurrencyCode); err == nil && currency.Symbol != "" {
		symbol = currency.Symbol
	}

	locale := "en"
	if user.LanguageCode != nil && *user.LanguageCode != "" {
		locale = *user.LanguageCode
	}

	prompt := llm.BuildAnalysisPrompt(llm.AnalysisData{
		Transactions:  req.Transactions,
		CategoryStats: req.CategoryStats,
		TotalSpent:    req.TotalSpent,
		CurrencyCode:  req.CurrencyCode,
		Context: llm.AnalysisContext{
			PeriodLabel:    req.Period,
			CurrencySymbol: symbol,
			Locale:         locale,
			UserName:       user.DisplayName(),
			CurrentDate:    s.now().UTC().Format("2006-01-02"),
			DateRange:      req.DateRange,
		},
	})

	analysis, err := s.oracle.Analyze(ctx, prompt)
	if err != nil {
		return "", fmt.Errorf("%w: %v", ErrOracleFailed, err)
	}

	if err := s.sender.Send(user.TelegramID, analysis, "Markdown"); err != nil {
		log.Warn().Err(err).Int64("telegram_id", user.TelegramID).Msg("Failed to deliver analysis message")
	}
	return analysis, nil
}
