package service

import (
	"time"

	"github.com/golang-jwt/jwt/v5"
	"github.com/google/uuid"
)

// Token types carried in Claims.Type.
const (
	TokenTypeSession      = "session"
	TokenTypeVerification = "verification"
)

// Claims defines the custom claims for the JWT tokens.
type Claims struct {
	UserID    uuid.UUID
	SessionID uuid.UUID `json:"sid,omitempty"`
	Type      string
	jwt.RegisteredClaims
}

// TokenService defines the interface for generating and validating JWTs.
// This abstracts the details of token creation from the use cases.
type TokenService interface {
	// GenerateSessionToken signs a token referencing a stored session.
	GenerateSessionToken(userID, sessionID uuid.UUID) (string, error)

	// GenerateVerificationToken signs a single-purpose email verification token.
	GenerateVerificationToken(userID uuid.UUID) (string, error)

	// ValidateToken checks the validity of a token string and that it has the expected type.
	ValidateToken(tokenString, tokenType string) (*Claims, error)

	// GetSessionDuration returns the configured lifetime of a session.
	GetSessionDuration() time.Duration
}
