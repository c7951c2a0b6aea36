package usecase

import (
	"context"
	"time"

	"medistore/internal/domain/entity"
)

// --- Input DTOs ---

// SignUpInput defines the data required to register a new account.
type SignUpInput struct {
	Name     string
	Email    string
	Password string
}

// SignInInput defines the data required for a user to sign in.
type SignInInput struct {
	Email    string
	Password string
}

// --- Output DTOs ---

// AuthOutput returns the signed session token after a successful sign-in.
type AuthOutput struct {
	Token     string
	ExpiresAt time.Time
	User      *entity.User
}

// AccountUsecase defines sign-up, sign-in and email verification.
type AccountUsecase interface {
	SignUp(ctx context.Context, input *SignUpInput) (*entity.User, error)
	SignIn(ctx context.Context, input *SignInInput) (*AuthOutput, error)
	SignInWithGoogle(ctx context.Context, idToken string) (*AuthOutput, error)
	SignOut(ctx context.Context, session *entity.Session) error
	VerifyEmail(ctx context.Context, token string) (*entity.User, error)
}
