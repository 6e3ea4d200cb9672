package handler

import (
	"errors"
	"strconv"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/labstack/echo/v4"
	"github.com/rs/zerolog/log"
	"github.com/shopspring/decimal"

	"github.com/spenny/spenny-backend/internal/domain"
	"github.com/spenny/spenny-backend/internal/middleware"
	"github.com/spenny/spenny-backend/internal/service"
)

func currentUser(c echo.Context) *domain.User {
	return middleware.GetUser(c)
}

// TransactionRequest is the body for creating or replacing a spending or
// earning from the Mini App. Amount travels as a string to avoid float
// precision loss.
type TransactionRequest struct {
	Name         string  `json:"name"`
	Amount       string  `json:"amount"`
	CurrencyCode string  `json:"currencyCode"`
	CategoryID   *string `json:"categoryId"`
}

// toInput converts the request to a service input. Error messages are
// user-facing; callers wrap them in a validation response.
func (r *TransactionRequest) toInput() (service.TransactionInput, error) {
	amount, err := decimal.NewFromString(strings.TrimSpace(r.Amount))
	if err != nil {
		return service.TransactionInput{}, errors.New("Invalid amount")
	}

	input := service.TransactionInput{
		Name:         r.Name,
		Amount:       amount,
		CurrencyCode: r.CurrencyCode,
	}
	if r.CategoryID != nil && *r.CategoryID != "" {
		id, err := uuid.Parse(*r.CategoryID)
		if err != nil {
			return service.TransactionInput{}, errors.New("Invalid category ID")
		}
		input.CategoryID = &id
	}
	return input, nil
}

// UpdateCategoryRequest is the body for PATCH .../:id/category. A null or
// empty categoryId clears the assignment.
type UpdateCategoryRequest struct {
	CategoryID *string `json:"categoryId"`
}

func (r *UpdateCategoryRequest) parse() (*uuid.UUID, error) {
	if r.CategoryID == nil || *r.CategoryID == "" {
		return nil, nil
	}
	id, err := uuid.Parse(*r.CategoryID)
	if err != nil {
		return nil, errors.New("Invalid category ID")
	}
	return &id, nil
}

func parseIDParam(c echo.Context) (uuid.UUID, error) {
	id, err := uuid.Parse(c.Param("id"))
	if err != nil {
		return uuid.Nil, errors.New("Invalid ID")
	}
	return id, nil
}

// parseFilters reads period/from/to/page/pageSize query parameters
func parseFilters(c echo.Context) (*domain.TransactionFilters, error) {
	filters := &domain.TransactionFilters{}

	if p := c.QueryParam("period"); p != "" {
		period := domain.Period(p)
		if !period.Valid() {
			return nil, errors.New("Invalid period: must be week, month or year")
		}
		filters.Period = &period
	}
	for param, dst := range map[string]**time.Time{"from": &filters.From, "to": &filters.To} {
		if v := c.QueryParam(param); v != "" {
			ts, err := time.Parse(time.RFC3339, v)
			if err != nil {
				return nil, errors.New("Invalid " + param + " date: must be RFC 3339")
			}
			*dst = &ts
		}
	}
	if v := c.QueryParam("page"); v != "" {
		page, err := strconv.ParseInt(v, 10, 32)
		if err != nil || page < 1 {
			return nil, errors.New("Invalid page")
		}
		filters.Page = int32(page)
	}
	if v := c.QueryParam("pageSize"); v != "" {
		size, err := strconv.ParseInt(v, 10, 32)
		if err != nil || size < 1 {
			return nil, errors.New("Invalid pageSize")
		}
		filters.PageSize = int32(size)
	}
	return filters, nil
}

// transactionError maps service-layer failures to API responses
func transactionError(c echo.Context, err error) error {
	switch {
	case errors.Is(err, domain.ErrSpendingNotFound), errors.Is(err, domain.ErrEarningNotFound):
		return NewNotFoundError(c, "Transaction not found")
	case errors.Is(err, domain.ErrNameRequired):
		return NewValidationError(c, "Name is required")
	case errors.Is(err, domain.ErrNameTooLong):
		return NewValidationError(c, "Name must be at most 255 characters")
	case errors.Is(err, domain.ErrInvalidAmount):
		return NewValidationError(c, "Amount must be greater than zero")
	case errors.Is(err, domain.ErrInvalidCurrencyCode):
		return NewValidationError(c, "Invalid currency code")
	case errors.Is(err, domain.ErrCurrencyNotFound):
		return NewValidationError(c, "Unknown currency")
	case errors.Is(err, domain.ErrInvalidExchangeRate):
		return NewValidationError(c, "No exchange rate available for that currency")
	case errors.Is(err, domain.ErrCategoryNotFound):
		return NewValidationError(c, "Unknown category")
	default:
		log.Error().Err(err).Str("path", c.Request().URL.Path).Msg("Transaction operation failed")
		return NewInternalError(c, "Internal server error")
	}
}
