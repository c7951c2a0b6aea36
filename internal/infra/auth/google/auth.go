// Package google verifies Google Sign-In ID tokens.
package google

import (
	"context"
	"log/slog"

	"github.com/pkg/errors"
	"google.golang.org/api/idtoken"

	"medistore/config"
	"medistore/internal/domain/entity"
	"medistore/internal/domain/service"
)

// validateFunc matches idtoken.Validate and is replaced in tests.
type validateFunc func(ctx context.Context, idToken, audience string) (*idtoken.Payload, error)

// AuthServiceImpl implements service.OAuthAuthService for Google ID tokens.
type AuthServiceImpl struct {
	clientID string
	validate validateFunc
	logger   *slog.Logger
}

// NewAuthService creates a new Google AuthService
func NewAuthService(cfg *config.Config, logger *slog.Logger) service.OAuthAuthService {
	var clientID string
	if cfg.GoogleOAuth != nil {
		clientID = cfg.GoogleOAuth.ClientID
	}

	return newAuthService(clientID, idtoken.Validate, logger)
}

func newAuthService(clientID string, validate validateFunc, logger *slog.Logger) *AuthServiceImpl {
	return &AuthServiceImpl{
		clientID: clientID,
		validate: validate,
		logger:   logger,
	}
}

// VerifyIDToken checks the token signature, issuer, expiry and audience against
// Google's published keys and maps the claims to an OAuthUser.
func (s *AuthServiceImpl) VerifyIDToken(ctx context.Context, idToken string) (*service.OAuthUser, error) {
	if s.clientID == "" {
		return nil, errors.New("google client id is not configured")
	}
	if idToken == "" {
		return nil, errors.New("empty ID token")
	}

	payload, err := s.validate(ctx, idToken, s.clientID)
	if err != nil {
		s.logger.WarnContext(ctx, "Google ID token rejected", slog.Any("error", err))

		return nil, errors.Wrap(err, "token verification failed")
	}

	if payload.Subject == "" {
		return nil, errors.New("token verification failed: missing subject")
	}

	email := claimString(payload.Claims, "email")
	if email == "" {
		return nil, errors.New("token verification failed: missing email")
	}

	verified, _ := payload.Claims["email_verified"].(bool)

	return &service.OAuthUser{
		ID:            payload.Subject,
		Email:         email,
		Name:          claimString(payload.Claims, "name"),
		Provider:      entity.ProviderTypeGoogle,
		AvatarURL:     claimString(payload.Claims, "picture"),
		EmailVerified: verified,
		Locale:        claimString(payload.Claims, "locale"),
		ExtraData: map[string]any{
			"given_name":  claimString(payload.Claims, "given_name"),
			"family_name": claimString(payload.Claims, "family_name"),
		},
	}, nil
}

// GetProvider implements service.OAuthAuthService interface
func (s *AuthServiceImpl) GetProvider() entity.ProviderType {
	return entity.ProviderTypeGoogle
}

func claimString(claims map[string]any, key string) string {
	v, _ := claims[key].(string)

	return v
}
