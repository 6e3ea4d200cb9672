package handler

import (
	"net/http"

	"github.com/labstack/echo/v4"

	"github.com/spenny/spenny-backend/internal/service"
)

// EarningHandler handles earning CRUD for the Mini App
type EarningHandler struct {
	earnings *service.EarningService
}

// NewEarningHandler creates a new EarningHandler
func NewEarningHandler(earnings *service.EarningService) *EarningHandler {
	return &EarningHandler{earnings: earnings}
}

// Create handles POST /api/v1/earnings
func (h *EarningHandler) Create(c echo.Context) error {
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

	created, err := h.earnings.Create(c.Request().Context(), user.ID, input)
	if err != nil {
		return transactionError(c, err)
	}
	return c.JSON(http.StatusCreated, created)
}

// List handles GET /api/v1/earnings
func (h *EarningHandler) List(c echo.Context) error {
	user := currentUser(c)
	if user == nil {
		return NewUnauthorizedError(c, "Authentication required")
	}

	filters, err := parseFilters(c)
	if err != nil {
		return NewValidationError(c, err.Error())
	}

	earnings, err := h.earnings.List(c.Request().Context(), user.ID, filters)
	if err != nil {
		return transactionError(c, err)
	}
	return c.JSON(http.StatusOK, map[string]any{"earnings": earnings})
}

// Get handles GET /api/v1/earnings/:id
func (h *EarningHandler) Get(c echo.Context) error {
	user := currentUser(c)
	if user == nil {
		return NewUnauthorizedError(c, "Authentication required")
	}
	id, err := parseIDParam(c)
	if err != nil {
		return NewValidationError(c, err.Error())
	}

	earning, err := h.earnings.Get(c.Request().Context(), user.ID, id)
	if err != nil {
		return transactionError(c, err)
	}
	return c.JSON(http.StatusOK, earning)
}

// Update handles PUT /api/v1/earnings/:id
func (h *EarningHandler) Update(c echo.Context) error {
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

	updated, err := h.earnings.Update(c.Request().Context(), user.ID, id, input)
	if err != nil {
		return transactionError(c, err)
	}
	return c.JSON(http.StatusOK, updated)
}

// UpdateCategory handles PATCH /api/v1/earnings/:id/category
func (h *EarningHandler) UpdateCategory(c echo.Context) error {
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

	updated, err := h.earnings.UpdateCategory(c.Request().Context(), user.ID, id, categoryID)
	if err != nil {
		return transactionError(c, err)
	}
	return c.JSON(http.StatusOK, updated)
}

// Delete handles DELETE /api/v1/earnings/:id
func (h *EarningHandler) Delete(c echo.Context) error {
	user := currentUser(c)
	if user == nil {
		return NewUnauthorizedError(c, "Authentication required")
	}
	id, err := parseIDParam(c)
	if err != nil {
		return NewValidationError(c, err.Error())
	}

	if err := h.earnings.Delete(c.Request().Context(), user.ID, id); err != nil {
		return transactionError(c, err)
	}
	return c.NoContent(http.StatusNoContent)
}
