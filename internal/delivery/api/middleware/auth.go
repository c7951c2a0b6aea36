package middleware

import (
	"log/slog"

	deliverycontext "medistore/internal/delivery/context"
	"medistore/internal/domain/entity"
	domainerrors "medistore/internal/domain/errors"
	"medistore/internal/domain/service"

	"github.com/labstack/echo/v4"
	"github.com/pkg/errors"
	"go.uber.org/fx"
)

// AuthMiddlewareParams holds dependencies for AuthMiddleware, injected by Fx.
type AuthMiddlewareParams struct {
	fx.In

	Verifier service.SessionVerifier
	Logger   *slog.Logger
}

// AuthMiddleware resolves the caller's session and enforces route role sets.
type AuthMiddleware struct {
	verifier service.SessionVerifier
	logger   *slog.Logger
}

// NewAuthMiddleware creates a new authentication middleware
func NewAuthMiddleware(params AuthMiddlewareParams) *AuthMiddleware {
	return &AuthMiddleware{
		verifier: params.Verifier,
		logger:   params.Logger,
	}
}

// Authenticate attaches the caller's session, if any, to the request.
// Anonymous requests pass through; the route decides whether a session is needed.
func (m *AuthMiddleware) Authenticate(next echo.HandlerFunc) echo.HandlerFunc {
	return func(c echo.Context) error {
		session, err := m.verifier.VerifySession(c.Request().Context(), c.Request().Header)
		if err != nil {
			return errors.Wrap(err, "failed to verify session")
		}
		if session != nil {
			deliverycontext.SetSession(c, session)
		}

		return next(c)
	}
}

// RequireSession admits any signed-in user that is not banned, verified or not.
func (m *AuthMiddleware) RequireSession(next echo.HandlerFunc) echo.HandlerFunc {
	return func(c echo.Context) error {
		session := deliverycontext.GetSession(c)
		if session == nil {
			return domainerrors.ErrUnauthorized
		}
		if session.Banned {
			return domainerrors.ErrUserBanned
		}

		return next(c)
	}
}

// Require admits verified, non-banned users holding one of the roles.
// With no roles any verified user is admitted.
func (m *AuthMiddleware) Require(roles ...entity.Role) echo.MiddlewareFunc {
	required := entity.Roles(roles)

	return func(next echo.HandlerFunc) echo.HandlerFunc {
		return func(c echo.Context) error {
			if err := deliverycontext.GetSession(c).Authorize(required); err != nil {
				return err
			}

			return next(c)
		}
	}
}
