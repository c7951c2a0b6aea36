package impl

import (
	"context"
	"log/slog"
	"strings"

	"github.com/google/uuid"
	"github.com/pkg/errors"
	"go.uber.org/fx"

	deliverycontext "medistore/internal/delivery/context"
	"medistore/internal/domain/entity"
	domainerrors "medistore/internal/domain/errors"
	"medistore/internal/domain/repository"
	"medistore/internal/domain/service"
	"medistore/internal/usecase"
)

// userService implements the UserUsecase interface.
type userService struct {
	txManager    repository.TransactionManager
	userRepo     repository.UserRepository
	sessionStore service.SessionStore
	logger       *slog.Logger
}

// UserServiceParams holds dependencies for UserService, injected by Fx.
type UserServiceParams struct {
	fx.In

	TxManager    repository.TransactionManager
	UserRepo     repository.UserRepository
	SessionStore service.SessionStore
	Logger       *slog.Logger
}

// NewUserService is the constructor for userService.
func NewUserService(params UserServiceParams) usecase.UserUsecase {
	return &userService{
		txManager:    params.TxManager,
		userRepo:     params.UserRepo,
		sessionStore: params.SessionStore,
		logger:       params.Logger,
	}
}

func (srv *userService) log(ctx context.Context) *slog.Logger {
	return deliverycontext.GetLoggerOrDefault(ctx, srv.logger)
}

func mapUserNotFound(err error, message string) error {
	if errors.Is(err, repository.ErrUserNotFound) {
		return domainerrors.ErrUserNotFound
	}

	return errors.Wrap(err, message)
}

// GetProfile returns the user's own account.
func (srv *userService) GetProfile(ctx context.Context, userID uuid.UUID) (*entity.User, error) {
	user, err := srv.userRepo.FindByID(ctx, userID)
	if err != nil {
		return nil, mapUserNotFound(err, "failed to get profile")
	}

	return user, nil
}

// UpdateProfile changes the display name and avatar. Role and ban flag are not editable here.
func (srv *userService) UpdateProfile(ctx context.Context, userID uuid.UUID, input *usecase.UpdateProfileInput) (*entity.User, error) {
	var user *entity.User
	err := srv.txManager.Execute(ctx, func(repoFactory repository.RepositoryFactory) error {
		userRepo := repoFactory.UserRepo()

		var err error
		user, err = userRepo.FindByID(ctx, userID)
		if err != nil {
			return mapUserNotFound(err, "failed to find user")
		}

		if input.Name != nil {
			name := strings.TrimSpace(*input.Name)
			if name == "" {
				return domainerrors.ErrValidationFailed.WithDetails("name must not be empty")
			}
			user.Name = name
		}
		if input.Image != nil {
			user.Image = strings.TrimSpace(*input.Image)
		}

		return mapUserNotFound(userRepo.Update(ctx, user), "failed to update profile")
	})
	if err != nil {
		return nil, err
	}

	return user, nil
}

// ListUsers returns every account, newest first.
func (srv *userService) ListUsers(ctx context.Context) ([]*entity.User, error) {
	users, err := srv.userRepo.List(ctx)
	if err != nil {
		return nil, errors.Wrap(err, "failed to list users")
	}

	return users, nil
}

// modifyUser applies an administrative change to another user's account.
func (srv *userService) modifyUser(ctx context.Context, session *entity.Session, userID uuid.UUID, apply func(*entity.User)) (*entity.User, error) {
	if session == nil {
		return nil, domainerrors.ErrUnauthorized
	}
	if session.UserID == userID {
		return nil, domainerrors.ErrForbidden.WithDetails("administrators cannot change their own account")
	}

	var user *entity.User
	err := srv.txManager.Execute(ctx, func(repoFactory repository.RepositoryFactory) error {
		userRepo := repoFactory.UserRepo()

		var err error
		user, err = userRepo.FindByID(ctx, userID)
		if err != nil {
			return mapUserNotFound(err, "failed to find user")
		}

		apply(user)

		return mapUserNotFound(userRepo.Update(ctx, user), "failed to update user")
	})
	if err != nil {
		return nil, err
	}

	return user, nil
}

// UpdateUserRole assigns a new role to another user.
func (srv *userService) UpdateUserRole(ctx context.Context, session *entity.Session, userID uuid.UUID, role entity.Role) (*entity.User, error) {
	if !role.IsValid() {
		return nil, domainerrors.ErrValidationFailed.WithDetails("unknown role " + string(role))
	}

	user, err := srv.modifyUser(ctx, session, userID, func(user *entity.User) { user.Role = role })
	if err != nil {
		return nil, err
	}

	srv.log(ctx).Info("User role changed", slog.Any("userID", userID), slog.String("role", string(role)), slog.Any("by", session.UserID))

	return user, nil
}

// SetUserBanned bans or unbans another user. Banning revokes every session of the user.
func (srv *userService) SetUserBanned(ctx context.Context, session *entity.Session, userID uuid.UUID, banned bool) (*entity.User, error) {
	user, err := srv.modifyUser(ctx, session, userID, func(user *entity.User) { user.Banned = banned })
	if err != nil {
		return nil, err
	}

	if banned {
		if err := srv.sessionStore.DeleteByUser(ctx, userID); err != nil {
			// The verifier also rejects banned users, so a stale session cannot be used.
			srv.log(ctx).Error("Failed to revoke sessions of banned user", slog.Any("userID", userID), slog.Any("error", err))
		}
	}

	srv.log(ctx).Info("User ban changed", slog.Any("userID", userID), slog.Bool("banned", banned), slog.Any("by", session.UserID))

	return user, nil
}
