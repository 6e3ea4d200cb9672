package service

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/google/uuid"
	"github.com/spenny/spenny-backend/internal/domain"
)

// TelegramProfile is the identity snapshot taken from an incoming Telegram
// update or validated Mini App init data.
type TelegramProfile struct {
	TelegramID   int64
	Username     string
	FirstName    string
	LastName     string
	LanguageCode string
	PhotoURL     string
}

// UserService manages account lifecycle and settings
type UserService struct {
	users      domain.UserRepository
	currencies domain.CurrencyRepository
}

// NewUserService creates a new UserService
func NewUserService(users domain.UserRepository, currencies domain.CurrencyRepository) *UserService {
	return &UserService{users: users, currencies: currencies}
}

// GetByID retrieves a user by internal ID
func (s *UserService) GetByID(ctx context.Context, id uuid.UUID) (*domain.User, error) {
	return s.users.GetByID(ctx, id)
}

// GetByTelegramID retrieves a user by Telegram account ID
func (s *UserService) GetByTelegramID(ctx context.Context, telegramID int64) (*domain.User, error) {
	return s.users.GetByTelegramID(ctx, telegramID)
}

// GetOrCreateFromTelegram returns the account for a Telegram identity,
// creating it on first contact. New accounts start with the base currency and
// AI features disabled.
func (s *UserService) GetOrCreateFromTelegram(ctx context.Context, profile TelegramProfile) (*domain.User, error) {
	user, err := s.users.GetByTelegramID(ctx, profile.TelegramID)
	if err == nil {
		return user, nil
	}
	if !errors.Is(err, domain.ErrUserNotFound) {
		return nil, err
	}

	newUser := &domain.User{
		TelegramID:        profile.TelegramID,
		Username:          optional(profile.Username),
		FirstName:         optional(profile.FirstName),
		LastName:          optional(profile.LastName),
		LanguageCode:      optional(profile.LanguageCode),
		PhotoURL:          optional(profile.PhotoURL),
		DefaultCurrency:   domain.BaseCurrencyCode,
		AIFeaturesEnabled: false,
	}
	return s.users.Create(ctx, newUser)
}

// UpdateSettings applies a partial settings update, validating the default
// currency against the currency table when it changes.
func (s *UserService) UpdateSettings(ctx context.Context, id uuid.UUID, settings domain.UserSettings) (*domain.User, error) {
	if settings.DefaultCurrency != nil {
		code := strings.ToUpper(strings.TrimSpace(*settings.DefaultCurrency))
		if len(code) != 3 {
			return nil, domain.ErrInvalidCurrencyCode
		}
		if _, err := s.currencies.GetByCode(ctx, code); err != nil {
			if errors.Is(err, domain.ErrCurrencyNotFound) {
				return nil, domain.ErrInvalidCurrencyCode
			}
			return nil, fmt.Errorf("validate currency: %w", err)
		}
		settings.DefaultCurrency = &code
	}
	return s.users.UpdateSettings(ctx, id, settings)
}

func optional(s string) *string {
	if s == "" {
		return nil
	}
	return &s
}
