package middleware

import (
	"log/slog"
	"strings"

	deliverycontext "catalog/internal/delivery/context"
	domainerrors "catalog/internal/domain/errors"
	"catalog/internal/usecase"

	"github.com/labstack/echo/v4"
	"github.com/pkg/errors"
	"go.uber.org/fx"
)

const bearerPrefix = "Bearer "

// AuthMiddlewareParams holds dependencies for AuthMiddleware, injected by Fx.
type AuthMiddlewareParams struct {
	fx.In

	AuthUC usecase.AuthUsecase
	Logger *slog.Logger
}

// AuthMiddleware gates protected routes behind a bearer token.
type AuthMiddleware struct {
	authUC usecase.AuthUsecase
	logger *slog.Logger
}

// NewAuthMiddleware is the constructor for AuthMiddleware.
func NewAuthMiddleware(params AuthMiddlewareParams) *AuthMiddleware {
	return &AuthMiddleware{
		authUC: params.AuthUC,
		logger: params.Logger,
	}
}

// Authenticate resolves the bearer token to its principal and stores it on the context.
func (m *AuthMiddleware) Authenticate(next echo.HandlerFunc) echo.HandlerFunc {
	return func(c echo.Context) error {
		token, ok := bearerToken(c.Request().Header.Get(echo.HeaderAuthorization))
		if !ok {
			return errors.Wrap(domainerrors.ErrUnauthenticated, "missing or malformed authorization header")
		}

		principal, err := m.authUC.Authenticate(c.Request().Context(), token)
		if err != nil {
			return errors.WithStack(err)
		}

		deliverycontext.SetPrincipal(c, principal)

		// Later log lines of this request carry the caller.
		ctx := c.Request().Context()
		logger := deliverycontext.GetLoggerOrDefault(ctx, m.logger).With(slog.Uint64("user_id", uint64(principal.User.ID)))
		c.SetRequest(c.Request().WithContext(deliverycontext.WithLogger(ctx, logger)))

		return next(c)
	}
}

// GetPrincipal returns the caller stored by Authenticate.
func GetPrincipal(c echo.Context) (*usecase.Principal, error) {
	principal, ok := deliverycontext.GetPrincipal(c)
	if !ok {
		return nil, errors.Wrap(domainerrors.ErrUnauthenticated, "no authenticated principal on context")
	}

	return principal, nil
}

func bearerToken(header string) (string, bool) {
	if len(header) <= len(bearerPrefix) || !strings.EqualFold(header[:len(bearerPrefix)], bearerPrefix) {
		return "", false
	}

	token := strings.TrimSpace(header[len(bearerPrefix):])

	return token, token != ""
}
