package response

import (
	"net/http"

	"github.com/labstack/echo/v4"
)

// Envelope is the uniform JSON body for every endpoint.
type Envelope struct {
	Success bool              `json:"success"`
	Message string            `json:"message"`
	Data    any               `json:"data,omitempty"`
	Errors  map[string]string `json:"errors,omitempty"`
}

func Success(c echo.Context, message string, data any) error {
	return c.JSON(http.StatusOK, Envelope{Success: true, Message: message, Data: data})
}

func Created(c echo.Context, message string, data any) error {
	return c.JSON(http.StatusCreated, Envelope{Success: true, Message: message, Data: data})
}

func Error(c echo.Context, status int, message string, fields map[string]string) error {
	return c.JSON(status, Envelope{Success: false, Message: message, Errors: fields})
}
