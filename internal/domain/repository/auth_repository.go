package repository

import (
	"context"

	"medistore/internal/domain/entity"

	"github.com/google/uuid"
	"github.com/pkg/errors"
)

// ErrAuthNotFound is returned when no credential matches.
var ErrAuthNotFound = errors.New("authentication not found")

// AuthRepository stores the credentials a user can sign in with.
type AuthRepository interface {
	// CreateAuthentication persists a new authentication method record.
	CreateAuthentication(ctx context.Context, auth *entity.Authentication) error

	// FindAuthentication retrieves an authentication record by its provider and provider-specific ID.
	FindAuthentication(ctx context.Context, provider entity.ProviderType, providerUserID string) (*entity.Authentication, error)

	// FindAuthenticationByUserIDAndProvider finds an authentication method for a specific user and provider.
	FindAuthenticationByUserIDAndProvider(ctx context.Context, userID uuid.UUID, provider entity.ProviderType) (*entity.Authentication, error)
}
