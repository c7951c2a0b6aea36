package auth

import (
	"context"
	"log/slog"
	"net/http"
	"strings"

	"github.com/pkg/errors"

	"medistore/internal/domain/constants"
	"medistore/internal/domain/entity"
	"medistore/internal/domain/repository"
	"medistore/internal/domain/service"
)

const bearerPrefix = "Bearer "

// sessionVerifier resolves the signed session token of a request to a live session.
type sessionVerifier struct {
	tokenService service.TokenService
	sessionStore service.SessionStore
	userRepo     repository.UserRepository
	logger       *slog.Logger
}

// NewSessionVerifier is the constructor for sessionVerifier.
func NewSessionVerifier(
	tokenService service.TokenService,
	sessionStore service.SessionStore,
	userRepo repository.UserRepository,
	logger *slog.Logger,
) service.SessionVerifier {
	return &sessionVerifier{
		tokenService: tokenService,
		sessionStore: sessionStore,
		userRepo:     userRepo,
		logger:       logger,
	}
}

// sessionToken reads the token from the session cookie, then from the Authorization header.
func sessionToken(header http.Header) string {
	if cookie, err := (&http.Request{Header: header}).Cookie(constants.SessionCookieName); err == nil && cookie.Value != "" {
		return cookie.Value
	}

	if authorization := header.Get("Authorization"); strings.HasPrefix(authorization, bearerPrefix) {
		return strings.TrimSpace(strings.TrimPrefix(authorization, bearerPrefix))
	}

	return ""
}

// VerifySession returns the caller's session, or nil when the request carries no live session.
// Role, verification and ban state are always read fresh from the user record.
func (v *sessionVerifier) VerifySession(ctx context.Context, header http.Header) (*entity.Session, error) {
	token := sessionToken(header)
	if token == "" {
		return nil, nil //nolint:nilnil // anonymous request
	}

	claims, err := v.tokenService.ValidateToken(token, service.TokenTypeSession)
	if err != nil {
		v.logger.DebugContext(ctx, "Session token rejected", slog.Any("error", err))

		return nil, nil //nolint:nilnil // invalid credentials are treated as anonymous
	}

	record, err := v.sessionStore.Get(ctx, claims.SessionID)
	if errors.Is(err, service.ErrSessionNotFound) {
		return nil, nil //nolint:nilnil // signed out or expired
	}
	if err != nil {
		return nil, errors.Wrap(err, "failed to load session")
	}
	if record.UserID != claims.UserID {
		return nil, nil //nolint:nilnil // token and session disagree
	}

	user, err := v.userRepo.FindByID(ctx, claims.UserID)
	if errors.Is(err, repository.ErrUserNotFound) {
		return nil, nil //nolint:nilnil // account removed
	}
	if err != nil {
		return nil, errors.Wrap(err, "failed to load session user")
	}

	return &entity.Session{
		ID:            record.ID,
		UserID:        user.ID,
		Name:          user.Name,
		Email:         user.Email,
		Role:          user.Role,
		EmailVerified: user.EmailVerified,
		Banned:        user.Banned,
	}, nil
}
