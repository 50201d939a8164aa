package httpserver

import (
	"errors"
	"net/http"

	"github.com/labstack/echo/v4"

	"github.com/foodorder/food-order-api/internal/apperr"
	"github.com/foodorder/food-order-api/internal/logging"
	"github.com/foodorder/food-order-api/internal/response"
)

// ErrorHandler turns any error escaping a handler into the uniform JSON
// envelope. Internal errors are logged with their cause and answered
// with a generic message; the detail never reaches the client.
func ErrorHandler() echo.HTTPErrorHandler {
	return func(err error, c echo.Context) {
		if c.Response().Committed {
			return
		}

		ctx := c.Request().Context()
		l := logging.FromContext(ctx)

		status := http.StatusInternalServerError
		message := "Internal server error"
		var fields map[string]string

		var appErr *apperr.Error
		var httpErr *echo.HTTPError
		switch {
		case errors.As(err, &appErr):
			status = appErr.Kind.HTTPStatus()
			message = appErr.Message
			fields = appErr.Fields
		case errors.As(err, &httpErr):
			status = httpErr.Code
			if m, ok := httpErr.Message.(string); ok {
				message = m
			} else {
				message = http.StatusText(status)
			}
		}

		if status >= 500 {
			l.Error("request failed", "method", c.Request().Method, "path", c.Path(), "error", err)
			message = "Internal server error"
			fields = nil
		} else {
			l.Warn("request rejected", "method", c.Request().Method, "path", c.Path(), "status", status, "error", err)
		}

		if werr := response.Error(c, status, message, fields); werr != nil {
			l.Error("error response write failed", "error", werr)
		}
	}
}
