package domain

import "errors"

// Domain errors
var (
	ErrNotFound            = errors.New("resource not found")
	ErrInvalidInput        = errors.New("invalid input")
	ErrUnauthorized        = errors.New("unauthorized")
	ErrForbidden           = errors.New("forbidden")
	ErrUserNotFound        = errors.New("user not found")
	ErrSpendingNotFound    = errors.New("spending not found")
	ErrEarningNotFound     = errors.New("earning not found")
	ErrCategoryNotFound    = errors.New("category not found")
	ErrCurrencyNotFound    = errors.New("currency not found")
	ErrInvalidExchangeRate = errors.New("invalid exchange rate")
	ErrNameRequired        = errors.New("name is required")
	ErrNameTooLong         = errors.New("name exceeds maximum length")
	ErrInvalidAmount       = errors.New("amount must be positive")
	ErrInvalidCurrencyCode = errors.New("invalid currency code")
	ErrAIFeaturesDisabled  = errors.New("ai features are not enabled")
)

// Validation constants
const (
	MaxTransactionNameLength = 255
)
