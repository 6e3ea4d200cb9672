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

// EarningService implements income tracking on top of the earnings table
type EarningService struct {
	earnings   domain.EarningRepository
	categories domain.EarningsCategoryRepository
	currencies domain.CurrencyRepository
	matcher    CategoryMatcher
	publisher  websocket.EventPublisher
}

// NewEarningService creates a new EarningService
func NewEarningService(
	earnings domain.EarningRepository,
	categories domain.EarningsCategoryRepository,
	currencies domain.CurrencyRepository,
	matcher CategoryMatcher,
	publisher websocket.EventPublisher,
) *EarningService {
	return &EarningService{
		earnings:   earnings,
		categories: categories,
		currencies: currencies,
		matcher:    matcher,
		publisher:  publisher,
	}
}

// CreateFromMessage parses a free-text message (already stripped of its "+"
// earnings marker) and records it as an earning for the user. Returns
// parser.ErrNoMatch when the message is not a transaction.
func (s *EarningService) CreateFromMessage(ctx context.Context, user *domain.User, message string) (*domain.Earning, error) {
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

	created, err := s.earnings.Create(ctx, &domain.Earning{
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

	s.publisher.Publish(user.ID, websocket.EarningCreated(created))
	return created, nil
}

// Create records a structured earning from the Mini App
func (s *EarningService) Create(ctx context.Context, userID uuid.UUID, input TransactionInput) (*domain.Earning, error) {
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

	created, err := s.earnings.Create(ctx, &domain.Earning{
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

	s.publisher.Publish(userID, websocket.EarningCreated(created))
	return created, nil
}

// Get retrieves a single earning scoped to its owner
func (s *EarningService) Get(ctx context.Context, userID, id uuid.UUID) (*domain.Earning, error) {
	return s.earnings.GetByID(ctx, userID, id)
}

// List retrieves earnings for a user, newest first
func (s *EarningService) List(ctx context.Context, userID uuid.UUID, filters *domain.TransactionFilters) ([]*domain.Earning, error) {
	return s.earnings.ListByUser(ctx, userID, filters)
}

// Update replaces the editable fields of an earning, re-deriving the
// exchange rate and base amount from the (possibly new) currency
func (s *EarningService) Update(ctx context.Context, userID, id uuid.UUID, input TransactionInput) (*domain.Earning, error) {
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

	updated, err := s.earnings.Update(ctx, userID, id, &domain.UpdateTransactionData{
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

	s.publisher.Publish(userID, websocket.EarningUpdated(updated))
	return updated, nil
}

// UpdateCategory re-assigns an earning to a category (nil clears it)
func (s *EarningService) UpdateCategory(ctx context.Context, userID, id uuid.UUID, categoryID *uuid.UUID) (*domain.Earning, error) {
	if err := s.validateCategory(ctx, categoryID); err != nil {
		return nil, err
	}

	updated, err := s.earnings.UpdateCategory(ctx, userID, id, categoryID)
	if err != nil {
		return nil, err
	}

	s.publisher.Publish(userID, websocket.EarningUpdated(updated))
	return updated, nil
}

// Delete removes an earning scoped to its owner
func (s *EarningService) Delete(ctx context.Context, userID, id uuid.UUID) error {
	existing, err := s.earnings.GetByID(ctx, userID, id)
	if err != nil {
		return err
	}
	if err := s.earnings.Delete(ctx, userID, id); err != nil {
		return err
	}

	s.publisher.Publish(userID, websocket.EarningDeleted(existing))
	return nil
}

func (s *EarningService) validateCategory(ctx context.Context, categoryID *uuid.UUID) error {
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
