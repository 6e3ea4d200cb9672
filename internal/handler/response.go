package handler

import (
	"net/http"

	"github.com/labstack/echo/v4"
)

// ErrorResponse is the error body shape used across the API
type ErrorResponse struct {
	Error string `json:"error"`
}

// NewValidationError creates a bad request error response
func NewValidationError(c echo.Context, detail string) error {
	return c.JSON(http.StatusBadRequest, ErrorResponse{Error: detail})
}

// NewNotFoundError creates a not found error response
func NewNotFoundError(c echo.Context, detail string) error {
	return c.JSON(http.StatusNotFound, ErrorResponse{Error: detail})
}

// NewUnauthorizedError creates an unauthorized error response
func NewUnauthorizedError(c echo.Context, detail string) error {
	return c.JSON(http.StatusUnauthorized, ErrorResponse{Error: detail})
}

// NewForbiddenError creates a forbidden error response
func NewForbiddenError(c echo.Context, detail string) error {
	return c.JSON(http.StatusForbidden, ErrorResponse{Error: detail})
}

// NewInternalError creates an internal error response
func NewInternalError(c echo.Context, detail string) error {
	return c.JSON(http.StatusInternalServerError, ErrorResponse{Error: detail})
}

// NewBadGatewayError creates a bad gateway error response, used when an
// upstream dependency (the LLM API) fails
func NewBadGatewayError(c echo.Context, detail string) error {
	return c.JSON(http.StatusBadGateway, ErrorResponse{Error: detail})
}
