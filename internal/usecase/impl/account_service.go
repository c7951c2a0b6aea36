// Package impl contains the implementation of the application's business logic.
package impl

import (
	"context"
	"log/slog"
	"net/mail"
	"net/url"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/pkg/errors"
	"go.uber.org/fx"

	"medistore/config"
	deliverycontext "medistore/internal/delivery/context"
	"medistore/internal/domain/entity"
	domainerrors "medistore/internal/domain/errors"
	"medistore/internal/domain/repository"
	"medistore/internal/domain/service"
	"medistore/internal/usecase"
)

// verifyEmailPath is the route that consumes emailed verification tokens.
const verifyEmailPath = "/api/auth/verify-email"

// accountService implements the AccountUsecase interface.
type accountService struct {
	txManager         repository.TransactionManager
	userRepo          repository.UserRepository
	hasher            service.PasswordHasher
	tokenService      service.TokenService
	googleAuthService service.OAuthAuthService
	sessionStore      service.SessionStore
	mailer            service.Mailer
	publicBaseURL     string
	now               func() time.Time
	logger            *slog.Logger
}

// AccountServiceParams holds dependencies for AccountService, injected by Fx.
type AccountServiceParams struct {
	fx.In

	TxManager         repository.TransactionManager
	UserRepo          repository.UserRepository
	Hasher            service.PasswordHasher
	TokenService      service.TokenService
	GoogleAuthService service.OAuthAuthService
	SessionStore      service.SessionStore
	Mailer            service.Mailer
	Config            *config.Config
	Logger            *slog.Logger
}

// NewAccountService is the constructor for accountService. It receives all dependencies as interfaces.
func NewAccountService(params AccountServiceParams) usecase.AccountUsecase {
	publicBaseURL := ""
	if params.Config != nil {
		publicBaseURL = strings.TrimRight(params.Config.PublicBaseURL, "/")
	}

	return &accountService{
		txManager:         params.TxManager,
		userRepo:          params.UserRepo,
		hasher:            params.Hasher,
		tokenService:      params.TokenService,
		googleAuthService: params.GoogleAuthService,
		sessionStore:      params.SessionStore,
		mailer:            params.Mailer,
		publicBaseURL:     publicBaseURL,
		now:               time.Now,
		logger:            params.Logger,
	}
}

// log returns a request-scoped logger if available, otherwise falls back to the service's logger.
func (srv *accountService) log(ctx context.Context) *slog.Logger {
	return deliverycontext.GetLoggerOrDefault(ctx, srv.logger)
}

func normalizeEmail(email string) string {
	return strings.ToLower(strings.TrimSpace(email))
}

// SignUp registers an unverified CUSTOMER with an email credential and mails a verification link.
// The caller is not signed in.
func (srv *accountService) SignUp(ctx context.Context, input *usecase.SignUpInput) (*entity.User, error) {
	name := strings.TrimSpace(input.Name)
	email := normalizeEmail(input.Email)

	if name == "" {
		return nil, domainerrors.ErrValidationFailed.WithDetails("name is required")
	}
	if _, err := mail.ParseAddress(email); err != nil {
		return nil, domainerrors.ErrValidationFailed.WithDetails("email is invalid")
	}
	if err := srv.hasher.ValidatePasswordStrength(input.Password); err != nil {
		srv.log(ctx).Warn("Password validation failed during sign-up", slog.String("email", email), slog.Any("error", err))

		return nil, err
	}

	// bcrypt is CPU-bound; hash before opening the transaction.
	hashedPassword, err := srv.hasher.Hash(input.Password)
	if err != nil {
		return nil, errors.Wrap(err, "failed to hash password during sign-up")
	}

	newUser := &entity.User{
		Name:  name,
		Email: email,
		Role:  entity.RoleCustomer,
	}

	err = srv.txManager.Execute(ctx, func(repoFactory repository.RepositoryFactory) error {
		authRepo := repoFactory.AuthRepo()

		_, err := authRepo.FindAuthentication(ctx, entity.ProviderTypeEmail, email)
		if err == nil {
			return domainerrors.ErrUserAlreadyExists
		}
		if !errors.Is(err, repository.ErrAuthNotFound) {
			return errors.Wrap(err, "failed to find authentication")
		}

		if err := repoFactory.UserRepo().Create(ctx, newUser); err != nil {
			return errors.Wrap(err, "failed to create user during sign-up")
		}

		return errors.Wrap(authRepo.CreateAuthentication(ctx, &entity.Authentication{
			UserID:         newUser.ID,
			Provider:       entity.ProviderTypeEmail,
			ProviderUserID: email,
			PasswordHash:   hashedPassword,
		}), "failed to create authentication during sign-up")
	})
	if err != nil {
		srv.log(ctx).Warn("Sign-up failed", slog.String("email", email), slog.Any("error", err))

		return nil, err
	}

	srv.sendVerificationEmail(ctx, newUser)
	srv.log(ctx).Info("User signed up", slog.Any("userID", newUser.ID))

	return newUser, nil
}

// sendVerificationEmail mails the verification link. Failures are logged; the account already exists.
func (srv *accountService) sendVerificationEmail(ctx context.Context, user *entity.User) {
	token, err := srv.tokenService.GenerateVerificationToken(user.ID)
	if err != nil {
		srv.log(ctx).Error("Failed to generate verification token", slog.Any("userID", user.ID), slog.Any("error", err))

		return
	}

	link := srv.publicBaseURL + verifyEmailPath + "?token=" + url.QueryEscape(token)
	if err := srv.mailer.SendVerificationEmail(ctx, user.Email, user.Name, link); err != nil {
		srv.log(ctx).Error("Failed to send verification email", slog.Any("userID", user.ID), slog.Any("error", err))
	}
}

// SignIn checks an email credential and opens a new session.
func (srv *accountService) SignIn(ctx context.Context, input *usecase.SignInInput) (*usecase.AuthOutput, error) {
	email := normalizeEmail(input.Email)
	srv.log(ctx).Debug("Starting sign-in", slog.String("email", email))

	var authRecord *entity.Authentication
	err := srv.txManager.Execute(ctx, func(repoFactory repository.RepositoryFactory) error {
		var err error
		authRecord, err = repoFactory.AuthRepo().FindAuthentication(ctx, entity.ProviderTypeEmail, email)
		if errors.Is(err, repository.ErrAuthNotFound) {
			return domainerrors.ErrInvalidCredentials
		}

		return errors.Wrap(err, "failed to find authentication")
	})
	if err != nil {
		srv.log(ctx).Warn("Sign-in failed", slog.String("email", email), slog.Any("error", err))

		return nil, err
	}

	// Check password outside the transaction (bcrypt is CPU-bound).
	if !srv.hasher.Check(input.Password, authRecord.PasswordHash) {
		srv.log(ctx).Warn("Sign-in failed", slog.String("email", email), slog.Any("error", domainerrors.ErrInvalidCredentials))

		return nil, domainerrors.ErrInvalidCredentials
	}

	user, err := srv.userRepo.FindByID(ctx, authRecord.UserID)
	if err != nil {
		return nil, errors.Wrap(err, "failed to load user during sign-in")
	}

	return srv.openSession(ctx, user)
}

// openSession stores a new session for the user and signs its token.
func (srv *accountService) openSession(ctx context.Context, user *entity.User) (*usecase.AuthOutput, error) {
	if user.Banned {
		srv.log(ctx).Warn("Banned user attempted to sign in", slog.Any("userID", user.ID))

		return nil, domainerrors.ErrUserBanned
	}

	now := srv.now()
	record := &entity.SessionRecord{
		ID:        uuid.New(),
		UserID:    user.ID,
		CreatedAt: now,
		ExpiresAt: now.Add(srv.tokenService.GetSessionDuration()),
	}

	token, err := srv.tokenService.GenerateSessionToken(user.ID, record.ID)
	if err != nil {
		return nil, errors.Wrap(err, "failed to generate session token")
	}

	if err := srv.sessionStore.Create(ctx, record); err != nil {
		return nil, errors.Wrap(err, "failed to store session")
	}

	srv.log(ctx).Info("User signed in", slog.Any("userID", user.ID), slog.Any("sessionID", record.ID))

	return &usecase.AuthOutput{
		Token:     token,
		ExpiresAt: record.ExpiresAt,
		User:      user,
	}, nil
}

// SignInWithGoogle verifies a Google ID token, then links or creates the account and opens a session.
func (srv *accountService) SignInWithGoogle(ctx context.Context, idToken string) (*usecase.AuthOutput, error) {
	oauthUser, err := srv.googleAuthService.VerifyIDToken(ctx, idToken)
	if err != nil {
		srv.log(ctx).Warn("Google ID token rejected", slog.Any("error", err))

		return nil, domainerrors.ErrOAuthTokenInvalid
	}

	var user *entity.User
	err = srv.txManager.Execute(ctx, func(repoFactory repository.RepositoryFactory) error {
		var err error
		user, err = srv.findOrCreateGoogleUser(ctx, repoFactory, oauthUser)

		return err
	})
	if err != nil {
		srv.log(ctx).Warn("Google sign-in failed", slog.String("email", oauthUser.Email), slog.Any("error", err))

		return nil, err
	}

	return srv.openSession(ctx, user)
}

// findOrCreateGoogleUser resolves the Google subject to an account.
// An existing email account is linked only when Google vouches for the address.
func (srv *accountService) findOrCreateGoogleUser(ctx context.Context, repoFactory repository.RepositoryFactory, oauthUser *service.OAuthUser) (*entity.User, error) {
	authRepo := repoFactory.AuthRepo()
	userRepo := repoFactory.UserRepo()

	authRecord, err := authRepo.FindAuthentication(ctx, entity.ProviderTypeGoogle, oauthUser.ID)
	if err == nil {
		srv.log(ctx).Debug("Found existing Google user", slog.Any("userID", authRecord.UserID))

		user, err := userRepo.FindByID(ctx, authRecord.UserID)

		return user, errors.Wrap(err, "failed to find user by id for google auth")
	}
	if !errors.Is(err, repository.ErrAuthNotFound) {
		return nil, errors.Wrap(err, "failed to find authentication")
	}

	email := normalizeEmail(oauthUser.Email)
	user, err := userRepo.FindByEmail(ctx, email)
	switch {
	case err == nil:
		if !oauthUser.EmailVerified {
			return nil, domainerrors.ErrUserAlreadyExists.WithDetails("sign in with your password to link Google")
		}
		if !user.EmailVerified {
			user.EmailVerified = true
			if err := userRepo.Update(ctx, user); err != nil {
				return nil, errors.Wrap(err, "failed to mark linked user verified")
			}
		}
		srv.log(ctx).Info("Linking Google account to existing user", slog.Any("userID", user.ID))
	case errors.Is(err, repository.ErrUserNotFound):
		name := strings.TrimSpace(oauthUser.Name)
		if name == "" {
			name = email
		}
		user = &entity.User{
			Name:          name,
			Email:         email,
			Image:         oauthUser.AvatarURL,
			Role:          entity.RoleCustomer,
			EmailVerified: oauthUser.EmailVerified,
		}
		if err := userRepo.Create(ctx, user); err != nil {
			return nil, errors.Wrap(err, "failed to create user for Google authentication")
		}
		srv.log(ctx).Info("Created user from Google account", slog.Any("userID", user.ID))
	default:
		return nil, errors.Wrap(err, "failed to find user by email")
	}

	if err := authRepo.CreateAuthentication(ctx, &entity.Authentication{
		UserID:         user.ID,
		Provider:       entity.ProviderTypeGoogle,
		ProviderUserID: oauthUser.ID,
	}); err != nil {
		return nil, errors.Wrap(err, "failed to create Google authentication")
	}

	return user, nil
}

// SignOut ends the caller's current session.
func (srv *accountService) SignOut(ctx context.Context, session *entity.Session) error {
	if session == nil {
		return domainerrors.ErrUnauthorized
	}

	if err := srv.sessionStore.Delete(ctx, session.ID); err != nil {
		return errors.Wrap(err, "failed to delete session")
	}
	srv.log(ctx).Info("User signed out", slog.Any("userID", session.UserID), slog.Any("sessionID", session.ID))

	return nil
}

// VerifyEmail marks the token's user verified. Verifying twice is harmless.
func (srv *accountService) VerifyEmail(ctx context.Context, token string) (*entity.User, error) {
	claims, err := srv.tokenService.ValidateToken(token, service.TokenTypeVerification)
	if err != nil {
		srv.log(ctx).Warn("Verification token rejected", slog.Any("error", err))

		return nil, domainerrors.ErrVerificationTokenInvalid
	}

	var user *entity.User
	err = srv.txManager.Execute(ctx, func(repoFactory repository.RepositoryFactory) error {
		userRepo := repoFactory.UserRepo()

		var err error
		user, err = userRepo.FindByID(ctx, claims.UserID)
		if errors.Is(err, repository.ErrUserNotFound) {
			return domainerrors.ErrVerificationTokenInvalid
		}
		if err != nil {
			return errors.Wrap(err, "failed to find user")
		}
		if user.EmailVerified {
			return nil
		}

		user.EmailVerified = true

		return errors.Wrap(userRepo.Update(ctx, user), "failed to mark user verified")
	})
	if err != nil {
		return nil, err
	}

	srv.log(ctx).Info("Email verified", slog.Any("userID", user.ID))

	return user, nil
}
