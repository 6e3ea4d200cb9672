package domain

import (
	"context"
	"time"

	"github.com/google/uuid"
)

// User is an account created lazily on first contact, keyed by telegram_id.
// Users are never hard-deleted.
type User struct {
	ID                uuid.UUID `json:"id"`
	TelegramID        int64     `json:"telegramId"`
	Username          *string   `json:"username,omitempty"`
	FirstName         *string   `json:"firstName,omitempty"`
	LastName          *string   `json:"lastName,omitempty"`
	LanguageCode      *string   `json:"languageCode,omitempty"`
	PhotoURL          *string   `json:"photoUrl,omitempty"`
	DefaultCurrency   string    `json:"defaultCurrency"`
	AIFeaturesEnabled bool      `json:"aiFeaturesEnabled"`
	CreatedAt         time.Time `json:"createdAt"`
	UpdatedAt         time.Time `json:"updatedAt"`
}

// DisplayName returns the best human-readable name for addressing the user.
func (u *User) DisplayName() string {
	if u.FirstName != nil && *u.FirstName != "" {
		return *u.FirstName
	}
	if u.Username != nil && *u.Username != "" {
		return *u.Username
	}
	return "there"
}

// UserSettings holds the mutable settings a user can change from the Mini App.
// Nil fields are left untouched; concurrent updates are last-write-wins.
type UserSettings struct {
	DefaultCurrency   *string
	AIFeaturesEnabled *bool
	LanguageCode      *string
}

type UserRepository interface {
	GetByID(ctx context.Context, id uuid.UUID) (*User, error)
	GetByTelegramID(ctx context.Context, telegramID int64) (*User, error)
	Create(ctx context.Context, user *User) (*User, error)
	UpdateSettings(ctx context.Context, id uuid.UUID, settings UserSettings) (*User, error)
}
