package middleware

import (
	"net/http"

	domainerrors "catalog/internal/domain/errors"

	"github.com/labstack/echo/v4"
	echomiddleware "github.com/labstack/echo/v4/middleware"
)

// ErrTooManyRequests is returned when a client exceeds the auth endpoint limit.
var ErrTooManyRequests = domainerrors.NewBaseError(
	http.StatusTooManyRequests,
	"TOO_MANY_REQUESTS",
	"Too many attempts, please try again later",
	"",
)

// NewRateLimit limits requests per client IP and route. A nil store disables limiting.
func NewRateLimit(store echomiddleware.RateLimiterStore) echo.MiddlewareFunc {
	if store == nil {
		return func(next echo.HandlerFunc) echo.HandlerFunc {
			return next
		}
	}

	return echomiddleware.RateLimiterWithConfig(echomiddleware.RateLimiterConfig{
		Store: store,
		IdentifierExtractor: func(c echo.Context) (string, error) {
			return c.RealIP() + ":" + c.Path(), nil
		},
		ErrorHandler: func(_ echo.Context, err error) error {
			return echo.ErrForbidden.WithInternal(err)
		},
		DenyHandler: func(_ echo.Context, _ string, _ error) error {
			return ErrTooManyRequests
		},
	})
}
