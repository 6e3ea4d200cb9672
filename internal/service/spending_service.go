package service

import (
	"context"
	"errors"

	"github.com/google/uuid"
	"github.com/rs/zerolog/log"
	"github.com/spenny/spenny-backend/internal/domain"
	"github.com/spenny/spenny-backend/internal/parser"
	"github.com/spenny/spenny-backend/internal/websocket"
)

// SpendingService implements expense tracking on top of the spendings table
type SpendingService struct {
	spendings  domain.SpendingRepository
	categories domain.CategoryRepository
	currencies domain.CurrencyRepository
	matcher    CategoryMatcher
	publisher  websocket.EventPublisher
}

// NewSpendingService creates a new SpendingService
func NewSpendingService(
	spendings domain.SpendingRepository,
	categories domain.CategoryRepository,
	currencies domain.CurrencyRepository,
	matcher CategoryMatcher,
	publisher websocket.EventPublisher,
) *SpendingService {
	return &SpendingService{
		spendings:  spendings,
		categories: categories,
		currencies: currencies,
		matcher:    matcher,
		publisher:  publisher,
	}
}

// CreateFromMessage parses a free-text message ("10.12 $ Food") and records
// it as a spending for the user. Returns parser.ErrNoMatch when the message
// is not a transaction.
func (s *SpendingService) CreateFromMessage(ctx context.Context, user *domain.User, message string) (*domain.Spending, error) {
	parsed, err := parser.Parse(message)
	if err != nil {
		return nil, err
	}

	input := TransactionInput{
		Name:         parsed.Name,
		Amount:       parsed.Amount,
		CurrencyCode: parsed.CurrencyCode,
	}
	if input.CurrencyCode == "" {
		input.CurrencyCode = user.DefaultCurrency
	}
	if input.CurrencyCode == "" {
		input.CurrencyCode = domain.BaseCurrencyCode
	}
	if err := input.validate(); err != nil {
		return nil, err
	}

	code, rate, base, err := resolveConversion(ctx, s.currencies, input.CurrencyCode, input.Amount)
	if err != nil {
		return nil, err
	}

	// Categorization must never block the write
	categoryID, err := s.matcher.Resolve(ctx, input.Name)
	if err != nil {
		log.Warn().Err(err).Str("name", input.Name).Msg("Category resolution failed, leaving uncategorized")
		categoryID = nil
	}

	created, err := s.spendings.Create(ctx, &domain.Spending{
		UserID:               user.ID,
		Name:                 input.Name,
		CategoryID:           categoryID,
		Amount:               input.Amount,
		CurrencyCode:         code,
		ExchangeRate:         rate,
		AmountInBaseCurrency: base,
	})
	if err != nil {
		return nil, err
	}

	s.publisher.Publish(user.ID, websocket.SpendingCreated(created))
	return created, nil
}

// Create records a structured spending from the Mini App
func (s *SpendingService) Create(ctx context.Context, userID uuid.UUID, input TransactionInput) (*domain.Spending, error) {
	if err := input.validate(); err != nil {
		return nil, err
	}
	if err := s.validateCategory(ctx, input.CategoryID); err != nil {
		return nil, err
	}

	code, rate, base, err := resolveConversion(ctx, s.currencies, input.CurrencyCode, input.Amount)
	if err != nil {
		return nil, err
	}

	created, err := s.spendings.Create(ctx, &domain.Spending{
		UserID:               userID,
		Name:                 input.Name,
		CategoryID:           input.CategoryID,
		Amount:               input.Amount,
		CurrencyCode:         code,
		ExchangeRate:         rate,
		AmountInBaseCurrency: base,
	})
	if err != nil {
		return nil, err
	}

	s.publisher.Publish(userID, websocket.SpendingCreated(created))
	return created, nil
}

// Get retrieves a single spending scoped to its owner
func (s *SpendingService) Get(ctx context.Context, userID, id uuid.UUID) (*domain.Spending, error) {
	return s.spendings.GetByID(ctx, userID, id)
}

// List retrieves spendings for a user, newest first
func (s *SpendingService) List(ctx context.Context, userID uuid.UUID, filters *domain.TransactionFilters) ([]*domain.Spending, error) {
	return s.spendings.ListByUser(ctx, userID, filters)
}

// Update replaces the editable fields of a spending, re-deriving the
// exchange rate and base amount from the (possibly new) currency
func (s *SpendingService) Update(ctx context.Context, userID, id uuid.UUID, input TransactionInput) (*domain.Spending, error) {
	if err := input.validate(); err != nil {
		return nil, err
	}
	if err := s.validateCategory(ctx, input.CategoryID); err != nil {
		return nil, err
	}

	code, rate, base, err := resolveConversion(ctx, s.currencies, input.CurrencyCode, input.Amount)
	if err != nil {
		return nil, err
	}

	updated, err := s.spendings.Update(ctx, userID, id, &domain.UpdateTransactionData{
		Name:                 input.Name,
		Amount:               input.Amount,
		CurrencyCode:         code,
		ExchangeRate:         rate,
		AmountInBaseCurrency: base,
		CategoryID:           input.CategoryID,
	})
	if err != nil {
		return nil, err
	}

	s.publisher.Publish(userID, websocket.SpendingUpdated(updated))
	return updated, nil
}

// UpdateCategory re-assigns a spending to a category (nil clears it)
func (s *SpendingService) UpdateCategory(ctx context.Context, userID, id uuid.UUID, categoryID *uuid.UUID) (*domain.Spending, error) {
	if err := s.validateCategory(ctx, categoryID); err != nil {
		return nil, err
	}

	updated, err := s.spendings.UpdateCategory(ctx, userID, id, categoryID)
	if err != nil {
		return nil, err
	}

	s.publisher.Publish(userID, websocket.SpendingUpdated(updated))
	return updated, nil
}

// Delete removes a spending scoped to its owner
func (s *SpendingService) Delete(ctx context.Context, userID, id uuid.UUID) error {
	existing, err := s.spendings.GetByID(ctx, userID, id)
	if err != nil {
		return err
	}
	if err := s.spendings.Delete(ctx, userID, id); err != nil {
		return err
	}

	s.publisher.Publish(userID, websocket.SpendingDeleted(existing))
	return nil
}

func (s *SpendingService) validateCategory(ctx context.Context, categoryID *uuid.UUID) error {
	if categoryID == nil {
		return nil
	}
	if _, err := s.categories.GetByID(ctx, *categoryID); err != nil {
		if errors.Is(err, domain.ErrCategoryNotFound) {
			return domain.ErrCategoryNotFound
		}
		return err
	}
	return nil
}
