package handler

import (
	"log/slog"
	"net/http"
	"time"

	"medistore/config"
	"medistore/internal/delivery/api/response"
	"medistore/internal/domain/constants"
	domainerrors "medistore/internal/domain/errors"
	"medistore/internal/usecase"

	"github.com/labstack/echo/v4"
	"github.com/pkg/errors"
	"go.uber.org/fx"
)

// AuthHandlerParams holds dependencies for AuthHandler, injected by Fx.
type AuthHandlerParams struct {
	fx.In

	AccountUC usecase.AccountUsecase
	Config    *config.Config
	Logger    *slog.Logger
}

// AuthHandler serves sign-up, sign-in and session endpoints.
type AuthHandler struct {
	accountUC    usecase.AccountUsecase
	secureCookie bool
	logger       *slog.Logger
}

// NewAuthHandler is the constructor for AuthHandler
func NewAuthHandler(params AuthHandlerParams) *AuthHandler {
	return &AuthHandler{
		accountUC:    params.AccountUC,
		secureCookie: params.Config.Auth.SecureCookie,
		logger:       params.Logger,
	}
}

// SignUpRequest is the body of an email sign-up.
type SignUpRequest struct {
	Name     string `json:"name" validate:"required"`
	Email    string `json:"email" validate:"required,email"`
	Password string `json:"password" validate:"required"`
}

// SignInRequest is the body of an email sign-in.
type SignInRequest struct {
	Email    string `json:"email" validate:"required,email"`
	Password string `json:"password" validate:"required"`
}

// GoogleSignInRequest carries the ID token obtained by the client from Google.
type GoogleSignInRequest struct {
	IDToken string `json:"idToken" validate:"required"`
}

// SessionResponse is returned by the sign-in endpoints.
type SessionResponse struct {
	Token     string    `json:"token"`
	ExpiresAt time.Time `json:"expiresAt"`
	User      any       `json:"user"`
}

// SignUpEmail registers an account. The caller must verify the email before using protected routes.
func (h *AuthHandler) SignUpEmail(c echo.Context) error {
	var req SignUpRequest
	if err := bindAndValidate(c, &req); err != nil {
		return err
	}

	user, err := h.accountUC.SignUp(c.Request().Context(), &usecase.SignUpInput{
		Name:     req.Name,
		Email:    req.Email,
		Password: req.Password,
	})
	if err != nil {
		return errors.WithStack(err)
	}

	return response.Success(c, http.StatusCreated, user, "Account created, check your inbox to verify your email")
}

// SignInEmail signs in with email and password.
func (h *AuthHandler) SignInEmail(c echo.Context) error {
	var req SignInRequest
	if err := bindAndValidate(c, &req); err != nil {
		return err
	}

	output, err := h.accountUC.SignIn(c.Request().Context(), &usecase.SignInInput{
		Email:    req.Email,
		Password: req.Password,
	})
	if err != nil {
		return errors.WithStack(err)
	}

	return h.startSession(c, output)
}

// SignInGoogle signs in with a Google ID token, creating the account on first use.
func (h *AuthHandler) SignInGoogle(c echo.Context) error {
	var req GoogleSignInRequest
	if err := bindAndValidate(c, &req); err != nil {
		return err
	}

	output, err := h.accountUC.SignInWithGoogle(c.Request().Context(), req.IDToken)
	if err != nil {
		return errors.WithStack(err)
	}

	return h.startSession(c, output)
}

func (h *AuthHandler) startSession(c echo.Context, output *usecase.AuthOutput) error {
	c.SetCookie(h.sessionCookie(output.Token, output.ExpiresAt))

	return response.Success(c, http.StatusOK, &SessionResponse{
		Token:     output.Token,
		ExpiresAt: output.ExpiresAt,
		User:      output.User,
	}, "Signed in successfully")
}

// SignOut ends the current session and clears the cookie.
func (h *AuthHandler) SignOut(c echo.Context) error {
	session, err := currentSession(c)
	if err != nil {
		return err
	}

	if err := h.accountUC.SignOut(c.Request().Context(), session); err != nil {
		return errors.WithStack(err)
	}

	c.SetCookie(h.sessionCookie("", time.Unix(0, 0)))

	return response.Success(c, http.StatusOK, nil, "Signed out successfully")
}

// GetSession returns the caller's session.
func (h *AuthHandler) GetSession(c echo.Context) error {
	session, err := currentSession(c)
	if err != nil {
		return err
	}

	return response.Success(c, http.StatusOK, session, "Session retrieved successfully")
}

// VerifyEmail consumes an email verification link.
func (h *AuthHandler) VerifyEmail(c echo.Context) error {
	token := c.QueryParam("token")
	if token == "" {
		return domainerrors.ErrValidationFailed.WithDetails("token is required")
	}

	user, err := h.accountUC.VerifyEmail(c.Request().Context(), token)
	if err != nil {
		return errors.WithStack(err)
	}

	return response.Success(c, http.StatusOK, user, "Email verified successfully")
}

func (h *AuthHandler) sessionCookie(value string, expires time.Time) *http.Cookie {
	cookie := &http.Cookie{
		Name:     constants.SessionCookieName,
		Value:    value,
		Path:     "/",
		Expires:  expires,
		HttpOnly: true,
		Secure:   h.secureCookie,
		SameSite: http.SameSiteLaxMode,
	}
	if value == "" {
		cookie.MaxAge = -1
	}

	return cookie
}
