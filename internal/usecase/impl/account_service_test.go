package impl

import (
	"context"
	"net/url"
	"strings"
	"testing"

	"github.com/pkg/errors"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
	"golang.org/x/crypto/bcrypt"

	"medistore/config"
	"medistore/internal/domain/entity"
	domainerrors "medistore/internal/domain/errors"
	"medistore/internal/domain/service"
	"medistore/internal/infra/auth"
	"medistore/internal/infra/session"
	mockSvc "medistore/internal/mocks/service"
	"medistore/internal/usecase"
)

const testPassword = "Str0ng!pass"

type accountServiceFixtures struct {
	service  usecase.AccountUsecase
	store    *testStore
	tokens   service.TokenService
	sessions service.SessionStore
	mailer   *mockSvc.MockMailer
	google   *mockSvc.MockOAuthAuthService
}

func createTestAccountService(t *testing.T) accountServiceFixtures {
	store := newTestStore(t)

	cfg := &config.Config{PublicBaseURL: "https://shop.example.com"}
	cfg.SecretKey.Session = "session-secret"
	cfg.SecretKey.Verification = "verification-secret"
	tokens, err := auth.NewJWTService(cfg)
	require.NoError(t, err)

	fx := accountServiceFixtures{
		store:    store,
		tokens:   tokens,
		sessions: session.NewMemoryStore(),
		mailer:   mockSvc.NewMockMailer(t),
		google:   mockSvc.NewMockOAuthAuthService(t),
	}
	fx.service = NewAccountService(AccountServiceParams{
		TxManager:         store.txManager,
		UserRepo:          store.users,
		Hasher:            auth.NewBcryptHasherWithCost(bcrypt.MinCost, config.PasswordStrengthConfig{MinLength: 8}),
		TokenService:      tokens,
		GoogleAuthService: fx.google,
		SessionStore:      fx.sessions,
		Mailer:            fx.mailer,
		Config:            cfg,
		Logger:            newDiscardLogger(),
	})

	return fx
}

// expectVerificationMail captures the emailed link.
func (fx accountServiceFixtures) expectVerificationMail(email string, link *string) {
	fx.mailer.On("SendVerificationEmail", mock.Anything, email, mock.Anything, mock.Anything).
		Run(func(args mock.Arguments) { *link = args.String(3) }).
		Return(nil).Once()
}

func (fx accountServiceFixtures) signUp(t *testing.T, name string) *entity.User {
	t.Helper()

	var link string
	fx.expectVerificationMail(name+"@example.com", &link)

	user, err := fx.service.SignUp(context.Background(), &usecase.SignUpInput{
		Name:     name,
		Email:    name + "@example.com",
		Password: testPassword,
	})
	require.NoError(t, err)

	return user
}

func tokenFromLink(t *testing.T, link string) string {
	t.Helper()

	parsed, err := url.Parse(link)
	require.NoError(t, err)

	return parsed.Query().Get("token")
}

func TestAccountService_SignUpAndVerifyEmail(t *testing.T) {
	fx := createTestAccountService(t)
	ctx := context.Background()

	var link string
	fx.expectVerificationMail("alice@example.com", &link)

	user, err := fx.service.SignUp(ctx, &usecase.SignUpInput{
		Name:     " Alice ",
		Email:    " Alice@Example.com ",
		Password: testPassword,
	})
	require.NoError(t, err)
	assert.Equal(t, "Alice", user.Name)
	assert.Equal(t, "alice@example.com", user.Email)
	assert.Equal(t, entity.RoleCustomer, user.Role)
	assert.False(t, user.EmailVerified)

	assert.True(t, strings.HasPrefix(link, "https://shop.example.com/api/auth/verify-email?token="), link)

	verified, err := fx.service.VerifyEmail(ctx, tokenFromLink(t, link))
	require.NoError(t, err)
	assert.True(t, verified.EmailVerified)

	stored, err := fx.store.users.FindByID(ctx, user.ID)
	require.NoError(t, err)
	assert.True(t, stored.EmailVerified)

	// Verifying again is harmless.
	_, err = fx.service.VerifyEmail(ctx, tokenFromLink(t, link))
	require.NoError(t, err)
}

func TestAccountService_VerifyEmail_RejectsForeignTokens(t *testing.T) {
	fx := createTestAccountService(t)
	user := fx.store.seedUser(t, "bob", entity.RoleCustomer)

	sessionToken, err := fx.tokens.GenerateSessionToken(user.ID, user.ID)
	require.NoError(t, err)

	for _, token := range []string{"", "garbage", sessionToken} {
		_, err := fx.service.VerifyEmail(context.Background(), token)
		assert.True(t, errors.Is(err, domainerrors.ErrVerificationTokenInvalid))
	}
}

func TestAccountService_SignUp_Rejections(t *testing.T) {
	fx := createTestAccountService(t)
	ctx := context.Background()
	fx.signUp(t, "carol")

	_, err := fx.service.SignUp(ctx, &usecase.SignUpInput{Name: "Carol", Email: "CAROL@example.com", Password: testPassword})
	assert.True(t, errors.Is(err, domainerrors.ErrUserAlreadyExists))

	invalid := map[string]usecase.SignUpInput{
		"missing name":   {Email: "x@example.com", Password: testPassword},
		"invalid email":  {Name: "x", Email: "not-an-email", Password: testPassword},
		"short password": {Name: "x", Email: "x@example.com", Password: "short"},
	}
	for name, input := range invalid {
		t.Run(name, func(t *testing.T) {
			_, err := fx.service.SignUp(ctx, &input)
			assert.True(t, errors.Is(err, domainerrors.ErrValidationFailed))
		})
	}
}

func TestAccountService_SignInAndSignOut(t *testing.T) {
	fx := createTestAccountService(t)
	ctx := context.Background()
	user := fx.signUp(t, "dave")

	out, err := fx.service.SignIn(ctx, &usecase.SignInInput{Email: "Dave@example.com", Password: testPassword})
	require.NoError(t, err)
	assert.Equal(t, user.ID, out.User.ID)
	assert.False(t, out.ExpiresAt.IsZero())

	claims, err := fx.tokens.ValidateToken(out.Token, service.TokenTypeSession)
	require.NoError(t, err)
	assert.Equal(t, user.ID, claims.UserID)

	record, err := fx.sessions.Get(ctx, claims.SessionID)
	require.NoError(t, err)
	assert.Equal(t, user.ID, record.UserID)

	require.NoError(t, fx.service.SignOut(ctx, &entity.Session{ID: claims.SessionID, UserID: user.ID}))
	_, err = fx.sessions.Get(ctx, claims.SessionID)
	assert.True(t, errors.Is(err, service.ErrSessionNotFound))

	assert.True(t, errors.Is(fx.service.SignOut(ctx, nil), domainerrors.ErrUnauthorized))
}

func TestAccountService_SignIn_Rejections(t *testing.T) {
	fx := createTestAccountService(t)
	ctx := context.Background()
	user := fx.signUp(t, "erin")

	_, err := fx.service.SignIn(ctx, &usecase.SignInInput{Email: "erin@example.com", Password: "Wr0ng!pass"})
	assert.True(t, errors.Is(err, domainerrors.ErrInvalidCredentials))

	_, err = fx.service.SignIn(ctx, &usecase.SignInInput{Email: "nobody@example.com", Password: testPassword})
	assert.True(t, errors.Is(err, domainerrors.ErrInvalidCredentials))

	user.Banned = true
	require.NoError(t, fx.store.users.Update(ctx, user))

	_, err = fx.service.SignIn(ctx, &usecase.SignInInput{Email: "erin@example.com", Password: testPassword})
	assert.True(t, errors.Is(err, domainerrors.ErrUserBanned))
}

func googleUser(sub, email string, verified bool) *service.OAuthUser {
	return &service.OAuthUser{
		ID:            sub,
		Email:         email,
		Name:          "Google " + sub,
		Provider:      entity.ProviderTypeGoogle,
		AvatarURL:     "https://example.com/" + sub + ".png",
		EmailVerified: verified,
	}
}

func TestAccountService_SignInWithGoogle(t *testing.T) {
	fx := createTestAccountService(t)
	ctx := context.Background()

	t.Run("creates a verified customer", func(t *testing.T) {
		fx.google.On("VerifyIDToken", mock.Anything, "token-new").Return(googleUser("g-1", "gina@example.com", true), nil).Twice()

		out, err := fx.service.SignInWithGoogle(ctx, "token-new")
		require.NoError(t, err)
		assert.Equal(t, "gina@example.com", out.User.Email)
		assert.Equal(t, entity.RoleCustomer, out.User.Role)
		assert.True(t, out.User.EmailVerified)
		assert.Equal(t, "https://example.com/g-1.png", out.User.Image)

		again, err := fx.service.SignInWithGoogle(ctx, "token-new")
		require.NoError(t, err)
		assert.Equal(t, out.User.ID, again.User.ID)
		assert.NotEqual(t, out.Token, again.Token)
	})

	t.Run("links an existing email account", func(t *testing.T) {
		existing := fx.signUp(t, "hank")
		fx.google.On("VerifyIDToken", mock.Anything, "token-link").Return(googleUser("g-2", "hank@example.com", true), nil).Once()

		out, err := fx.service.SignInWithGoogle(ctx, "token-link")
		require.NoError(t, err)
		assert.Equal(t, existing.ID, out.User.ID)
		assert.True(t, out.User.EmailVerified)
	})

	t.Run("refuses to link an unverified Google email", func(t *testing.T) {
		fx.signUp(t, "ivy")
		fx.google.On("VerifyIDToken", mock.Anything, "token-unverified").Return(googleUser("g-3", "ivy@example.com", false), nil).Once()

		_, err := fx.service.SignInWithGoogle(ctx, "token-unverified")
		assert.True(t, errors.Is(err, domainerrors.ErrUserAlreadyExists))
	})

	t.Run("rejects invalid tokens", func(t *testing.T) {
		fx.google.On("VerifyIDToken", mock.Anything, "bad").Return(nil, errors.New("token verification failed")).Once()

		_, err := fx.service.SignInWithGoogle(ctx, "bad")
		assert.True(t, errors.Is(err, domainerrors.ErrOAuthTokenInvalid))
	})
}
