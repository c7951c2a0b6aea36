package usecase

import (
	"context"

	"github.com/google/uuid"

	"medistore/internal/domain/entity"
)

// UpdateProfileInput is a partial profile update; nil fields are left unchanged.
type UpdateProfileInput struct {
	Name  *string
	Image *string
}

// UserUsecase defines profile and user administration operations.
type UserUsecase interface {
	GetProfile(ctx context.Context, userID uuid.UUID) (*entity.User, error)
	UpdateProfile(ctx context.Context, userID uuid.UUID, input *UpdateProfileInput) (*entity.User, error)

	// ListUsers returns every account, newest first.
	ListUsers(ctx context.Context) ([]*entity.User, error)
	UpdateUserRole(ctx context.Context, session *entity.Session, userID uuid.UUID, role entity.Role) (*entity.User, error)
	SetUserBanned(ctx context.Context, session *entity.Session, userID uuid.UUID, banned bool) (*entity.User, error)
}
