package logging

import (
	"log/slog"
	"time"

	"github.com/labstack/echo/v4"
	"github.com/labstack/echo/v4/middleware"

	"github.com/foodorder/food-order-api/internal/logging"
)

// RequestLogger injects the app logger into every request context and
// emits one structured line per request.
func RequestLogger(logger *slog.Logger) echo.MiddlewareFunc {
	return middleware.RequestLoggerWithConfig(middleware.RequestLoggerConfig{
		LogStatus:    true,
		LogURI:       true,
		LogMethod:    true,
		LogLatency:   true,
		LogRequestID: true,
		LogError:     true,
		LogValuesFunc: func(c echo.Context, v middleware.RequestLoggerValues) error {
			attrs := []any{
				"method", v.Method,
				"uri", v.URI,
				"status", v.Status,
				"latency", v.Latency.Round(time.Microsecond).String(),
				"request_id", v.RequestID,
			}
			if v.Error != nil {
				attrs = append(attrs, "error", v.Error)
			}
			switch {
			case v.Status >= 500:
				logger.Error("request", attrs...)
			case v.Status >= 400:
				logger.Warn("request", attrs...)
			default:
				logger.Info("request", attrs...)
			}
			return nil
		},
	})
}

// WithContextLogger makes logging.FromContext work inside handlers by
// threading the app logger through the request context.
func WithContextLogger(logger *slog.Logger) echo.MiddlewareFunc {
	return func(next echo.HandlerFunc) echo.HandlerFunc {
		return func(c echo.Context) error {
			req := c.Request()
			l := logger
			if id := c.Response().Header().Get(echo.HeaderXRequestID); id != "" {
				l = l.With("request_id", id)
			}
			c.SetRequest(req.WithContext(logging.IntoContext(req.Context(), l)))
			return next(c)
		}
	}
}
