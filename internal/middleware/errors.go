package middleware

import (
	"github.com/labstack/echo/v4"
)

// errorResponse is the error body shape shared with the handlers package
type errorResponse struct {
	Error string `json:"error"`
}

func errorJSON(c echo.Context, status int, message string) error {
	return c.JSON(status, errorResponse{Error: message})
}
