// Package auth provides concrete implementations for authentication-related domain services.
package auth

import (
	"time"

	"github.com/golang-jwt/jwt/v5"
	"github.com/google/uuid"
	"github.com/pkg/errors"

	"medistore/config"
	"medistore/internal/domain/service"
)

const tokenIssuer = "medistore"

// jwtService is a concrete implementation of the TokenService interface using the JWT standard.
type jwtService struct {
	sessionSecret      string        // Secret key for signing session tokens.
	verificationSecret string        // Secret key for signing email verification tokens.
	sessionTTL         time.Duration // Time-to-live for session tokens.
	verificationTTL    time.Duration // Time-to-live for verification tokens.
}

// NewJWTService is the constructor for jwtService.
// It takes configuration values to create a new token service instance.
func NewJWTService(cfg *config.Config) (service.TokenService, error) {
	if cfg.SecretKey.Session == "" || cfg.SecretKey.Verification == "" {
		return nil, errors.New("jwt secrets must be provided")
	}

	sessionTTL := 7 * 24 * time.Hour
	verificationTTL := 24 * time.Hour
	if cfg.Auth != nil {
		if cfg.Auth.SessionTTL > 0 {
			sessionTTL = cfg.Auth.SessionTTL
		}
		if cfg.Auth.VerificationTTL > 0 {
			verificationTTL = cfg.Auth.VerificationTTL
		}
	}

	return &jwtService{
		sessionSecret:      cfg.SecretKey.Session,
		verificationSecret: cfg.SecretKey.Verification,
		sessionTTL:         sessionTTL,
		verificationTTL:    verificationTTL,
	}, nil
}

// GenerateSessionToken signs a token that references the stored session.
func (s *jwtService) GenerateSessionToken(userID, sessionID uuid.UUID) (string, error) {
	return s.generateToken(userID, sessionID, s.sessionTTL, s.sessionSecret, service.TokenTypeSession)
}

// GenerateVerificationToken signs an email verification token for the user.
func (s *jwtService) GenerateVerificationToken(userID uuid.UUID) (string, error) {
	return s.generateToken(userID, uuid.Nil, s.verificationTTL, s.verificationSecret, service.TokenTypeVerification)
}

// ValidateToken parses the token with the secret of its expected type and checks the type claim.
func (s *jwtService) ValidateToken(tokenString, tokenType string) (*service.Claims, error) {
	secret, err := s.secretFor(tokenType)
	if err != nil {
		return nil, err
	}

	claims := &service.Claims{}
	token, err := jwt.ParseWithClaims(tokenString, claims, func(token *jwt.Token) (any, error) {
		// Ensure the signing method is what we expect.
		if _, ok := token.Method.(*jwt.SigningMethodHMAC); !ok {
			return nil, jwt.ErrSignatureInvalid
		}

		return []byte(secret), nil
	}, jwt.WithIssuer(tokenIssuer), jwt.WithExpirationRequired())
	if err != nil {
		return nil, errors.Wrap(err, "invalid token")
	}

	if !token.Valid || claims.Type != tokenType {
		return nil, errors.Errorf("unexpected token type %q", claims.Type)
	}

	return claims, nil
}

// GetSessionDuration returns the configured lifetime of a session.
func (s *jwtService) GetSessionDuration() time.Duration {
	return s.sessionTTL
}

func (s *jwtService) secretFor(tokenType string) (string, error) {
	switch tokenType {
	case service.TokenTypeSession:
		return s.sessionSecret, nil
	case service.TokenTypeVerification:
		return s.verificationSecret, nil
	default:
		return "", errors.Errorf("unknown token type %q", tokenType)
	}
}

// generateToken is a private helper to create a JWT with specific claims.
func (s *jwtService) generateToken(userID, sessionID uuid.UUID, ttl time.Duration, secret, tokenType string) (string, error) {
	now := time.Now()
	claims := service.Claims{
		UserID:    userID,
		SessionID: sessionID,
		Type:      tokenType,
		RegisteredClaims: jwt.RegisteredClaims{
			Issuer:    tokenIssuer,
			Subject:   userID.String(),
			IssuedAt:  jwt.NewNumericDate(now),
			ExpiresAt: jwt.NewNumericDate(now.Add(ttl)),
			ID:        uuid.NewString(),
		},
	}

	token := jwt.NewWithClaims(jwt.SigningMethodHS256, claims)

	signed, err := token.SignedString([]byte(secret))
	if err != nil {
		return "", errors.Wrap(err, "failed to sign token")
	}

	return signed, nil
}
