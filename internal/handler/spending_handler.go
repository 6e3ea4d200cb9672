package handler

import (
	"net/http"

	"github.com/labstack/echo/v4"

	"github.com/spenny/spenny-backend/internal/service"
)

// SpendingHandler handles spending CRUD for the Mini App
type SpendingHandler struct {
	spendings *service.SpendingService
}

// NewSpendingHandler creates a new SpendingHandler
func NewSpendingHandler(spendings *service.SpendingService) *SpendingHandler {
	return &SpendingHandler{spendings: spendings}
}

// Create handles POST /api/v1/spendings
func (h *SpendingHandler) Create(c echo.Context) error {
	user := currentUser(c)
	if user == nil {
		return NewUnauthorizedError(c, "Authentication required")
	}

	var req TransactionRequest
	if err := c.Bind(&req); err != nil {
		return NewValidationError(c, "Invalid request body")
	}
	input, err := req.toInput()
	if err != nil {
		return NewValidationError(c, err.Error())
	}

	created, err := h.spendings.Create(c.Request().Context(), user.ID, input)
	if err != nil {
		return transactionError(c, err)
	}
	return c.JSON(http.StatusCreated, created)
}

// List handles GET /api/v1/spendings
func (h *SpendingHandler) List(c echo.Context) error {
	user := currentUser(c)
	if user == nil {
		return NewUnauthorizedError(c, "Authentication required")
	}

	filters, err := parseFilters(c)
	if err != nil {
		return NewValidationError(c, err.Error())
	}

	spendings, err := h.spendings.List(c.Request().Context(), user.ID, filters)
	if err != nil {
		return transactionError(c, err)
	}
	return c.JSON(http.StatusOK, map[string]any{"spendings": spendings})
}

// Get handles GET /api/v1/spendings/:id
func (h *SpendingHandler) Get(c echo.Context) error {
	user := currentUser(c)
	if user == nil {
		return NewUnauthorizedError(c, "Authentication required")
	}
	id, err := parseIDParam(c)
	if err != nil {
		return NewValidationError(c, err.Error())
	}

	spending, err := h.spendings.Get(c.Request().Context(), user.ID, id)
	if err != nil {
		return transactionError(c, err)
	}
	return c.JSON(http.StatusOK, spending)
}

// Update handles PUT /api/v1/spendings/:id
func (h *SpendingHandler) Update(c echo.Context) error {
	user := currentUser(c)
	if user == nil {
		return NewUnauthorizedError(c, "Authentication required")
	}
	id, err := parseIDParam(c)
	if err != nil {
		return NewValidationError(c, err.Error())
	}

	var req TransactionRequest
	if err := c.Bind(&req); err != nil {
		return NewValidationError(c, "Invalid request body")
	}
	input, err := req.toInput()
	if err != nil {
		return NewValidationError(c, err.Error())
	}

	updated, err := h.spendings.Update(c.Request().Context(), user.ID, id, input)
	if err != nil {
		return transactionError(c, err)
	}
	return c.JSON(http.StatusOK, updated)
}

// UpdateCategory handles PATCH /api/v1/spendings/:id/category
func (h *SpendingHandler) UpdateCategory(c echo.Context) error {
	user := currentUser(c)
	if user == nil {
		return NewUnauthorizedError(c, "Authentication required")
	}
	id, err := parseIDParam(c)
	if err != nil {
		return NewValidationError(c, err.Error())
	}

	var req UpdateCategoryRequest
	if err := c.Bind(&req); err != nil {
		return NewValidationError(c, "Invalid request body")
	}
	categoryID, err := req.parse()
	if err != nil {
		return NewValidationError(c, err.Error())
	}

	updated, err := h.spendings.UpdateCategory(c.Request().Context(), user.ID, id, categoryID)
	if err != nil {
		return transactionError(c, err)
	}
	return c.JSON(http.StatusOK, updated)
}

// Delete handles DELETE /api/v1/spendings/:id
func (h *SpendingHandler) Delete(c echo.Context) error {
	user := currentUser(c)
	if user == nil {
		return NewUnauthorizedError(c, "Authentication required")
	}
	id, err := parseIDParam(c)
	if err != nil {
		return NewValidationError(c, err.Error())
	}

	if err := h.spendings.Delete(c.Request().Context(), user.ID, id); err != nil {
		return transactionError(c, err)
	}
	return c.NoContent(http.StatusNoContent)
}
