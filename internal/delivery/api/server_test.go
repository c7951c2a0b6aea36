package api

import (
	"bytes"
	"context"
	"encoding/json"
	"io"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"medistore/config"
	apimiddleware "medistore/internal/delivery/api/middleware"
	"medistore/internal/delivery/api/router"
	"medistore/internal/delivery/api/router/handler"
	deliverycontext "medistore/internal/delivery/context"
	"medistore/internal/domain/constants"
	"medistore/internal/domain/entity"
	"medistore/internal/domain/repository"
	"medistore/internal/domain/service"
	"medistore/internal/infra/auth"
	"medistore/internal/infra/mail"
	"medistore/internal/infra/persistence/postgres"
	"medistore/internal/infra/pubsub"
	"medistore/internal/infra/qrcode"
	"medistore/internal/infra/session"
	mockSvc "medistore/internal/mocks/service"
	"medistore/internal/usecase/impl"

	"github.com/google/uuid"
	"github.com/labstack/echo/v4"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type apiFixture struct {
	e         *echo.Echo
	users     repository.UserRepository
	medicines repository.MedicineRepository
	orders    repository.OrderRepository
	tokens    service.TokenService
	sessions  service.SessionStore
	google    *mockSvc.MockOAuthAuthService
}

type envelope struct {
	Success bool            `json:"success"`
	Code    int             `json:"code"`
	Message string          `json:"message"`
	Data    json.RawMessage `json:"data"`
	Meta    map[string]any  `json:"meta"`
	Error   *struct {
		Code    string `json:"code"`
		Details any    `json:"details"`
	} `json:"error"`
}

func newAPIFixture(t *testing.T) *apiFixture {
	t.Helper()

	db, err := postgres.OpenSQLite(postgres.MemorySQLiteDSN(uuid.NewString()), nil)
	require.NoError(t, err)
	t.Cleanup(func() {
		if sqlDB, err := db.DB(); err == nil {
			_ = sqlDB.Close()
		}
	})

	cfg := &config.Config{PublicBaseURL: "https://shop.example.com"}
	cfg.SecretKey.Session = "session-secret"
	cfg.SecretKey.Verification = "verification-secret"
	cfg.Auth = &config.AuthConfig{BcryptCost: 4, SessionTTL: time.Hour, VerificationTTL: time.Hour}
	cfg.PasswordStrength = &config.PasswordStrengthConfig{MinLength: 8}

	logger := slog.New(slog.NewTextHandler(io.Discard, nil))
	tokens, err := auth.NewJWTService(cfg)
	require.NoError(t, err)

	fx := &apiFixture{
		users:     postgres.NewUserRepository(db),
		medicines: postgres.NewMedicineRepository(db),
		orders:    postgres.NewOrderRepository(db),
		tokens:    tokens,
		sessions:  session.NewMemoryStore(),
		google:    mockSvc.NewMockOAuthAuthService(t),
	}
	txManager := postgres.NewTransactionManagerWithTimeout(db, 5*time.Second)
	reviewRepo := postgres.NewReviewRepository(db)
	deviceRepo := postgres.NewDeviceRepository(db)

	accountUC := impl.NewAccountService(impl.AccountServiceParams{
		TxManager:         txManager,
		UserRepo:          fx.users,
		Hasher:            auth.NewBcryptHasher(cfg),
		TokenService:      tokens,
		GoogleAuthService: fx.google,
		SessionStore:      fx.sessions,
		Mailer:            mail.NewLogMailer(logger),
		Config:            cfg,
		Logger:            logger,
	})
	userUC := impl.NewUserService(impl.UserServiceParams{
		TxManager:    txManager,
		UserRepo:     fx.users,
		SessionStore: fx.sessions,
		Logger:       logger,
	})
	medicineUC := impl.NewMedicineService(impl.MedicineServiceParams{
		TxManager:    txManager,
		MedicineRepo: fx.medicines,
		QRService:    qrcode.NewQRCodeService(cfg.PublicBaseURL, 128, "M"),
		Logger:       logger,
	})
	orderUC := impl.NewOrderService(impl.OrderServiceParams{
		TxManager: txManager,
		OrderRepo: fx.orders,
		Publisher: pubsub.NewNoopPublisher(logger),
		Logger:    logger,
	})
	reviewUC := impl.NewReviewService(impl.ReviewServiceParams{
		ReviewRepo: reviewRepo,
		OrderRepo:  fx.orders,
		Logger:     logger,
	})
	deviceUC := impl.NewDeviceService(impl.DeviceServiceParams{
		DeviceRepo: deviceRepo,
		Logger:     logger,
	})

	fx.e = NewHandler(cfg, logger, router.RouterParams{
		AuthHandler: handler.NewAuthHandler(handler.AuthHandlerParams{
			AccountUC: accountUC, Config: cfg, Logger: logger,
		}),
		MedicineHandler: handler.NewMedicineHandler(handler.MedicineHandlerParams{MedicineUC: medicineUC, Logger: logger}),
		OrderHandler:    handler.NewOrderHandler(handler.OrderHandlerParams{OrderUC: orderUC, Logger: logger}),
		ReviewHandler:   handler.NewReviewHandler(handler.ReviewHandlerParams{ReviewUC: reviewUC, Logger: logger}),
		UserHandler:     handler.NewUserHandler(handler.UserHandlerParams{UserUC: userUC, Logger: logger}),
		DeviceHandler:   handler.NewDeviceHandler(handler.DeviceHandlerParams{DeviceUC: deviceUC, Logger: logger}),
		AuthMiddleware: apimiddleware.NewAuthMiddleware(apimiddleware.AuthMiddlewareParams{
			Verifier: auth.NewSessionVerifier(tokens, fx.sessions, fx.users, logger),
			Logger:   logger,
		}),
	})

	return fx
}

func (fx *apiFixture) seedUser(t *testing.T, name string, role entity.Role) *entity.User {
	t.Helper()

	user := &entity.User{Name: name, Email: name + "@example.com", Role: role, EmailVerified: true}
	require.NoError(t, fx.users.Create(context.Background(), user))

	return user
}

// signIn opens a session directly in the store and returns its bearer token.
func (fx *apiFixture) signIn(t *testing.T, user *entity.User) string {
	t.Helper()

	record := &entity.SessionRecord{
		ID:        uuid.New(),
		UserID:    user.ID,
		CreatedAt: time.Now(),
		ExpiresAt: time.Now().Add(time.Hour),
	}
	require.NoError(t, fx.sessions.Create(context.Background(), record))
	token, err := fx.tokens.GenerateSessionToken(user.ID, record.ID)
	require.NoError(t, err)

	return token
}

func (fx *apiFixture) do(t *testing.T, method, path, token string, body any) (*httptest.ResponseRecorder, envelope) {
	t.Helper()

	var reader io.Reader
	if body != nil {
		raw, err := json.Marshal(body)
		require.NoError(t, err)
		reader = bytes.NewReader(raw)
	}

	req := httptest.NewRequest(method, path, reader)
	if body != nil {
		req.Header.Set(echo.HeaderContentType, echo.MIMEApplicationJSON)
	}
	if token != "" {
		req.Header.Set(echo.HeaderAuthorization, "Bearer "+token)
	}
	rec := httptest.NewRecorder()
	fx.e.ServeHTTP(rec, req)

	var env envelope
	if strings.HasPrefix(rec.Header().Get(echo.HeaderContentType), echo.MIMEApplicationJSON) {
		require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &env), rec.Body.String())
	}

	return rec, env
}

func errorCode(env envelope) string {
	if env.Error == nil {
		return ""
	}

	return env.Error.Code
}

func TestHealth(t *testing.T) {
	fx := newAPIFixture(t)

	req := httptest.NewRequest(http.MethodGet, "/health", nil)
	req.Header.Set(deliverycontext.HeaderXRequestID, "req-123")
	rec := httptest.NewRecorder()
	fx.e.ServeHTTP(rec, req)

	require.Equal(t, http.StatusOK, rec.Code)
	var env envelope
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &env))
	assert.True(t, env.Success)
	assert.Equal(t, http.StatusOK, env.Code)
	assert.Equal(t, "req-123", env.Meta["requestId"])
	assert.Equal(t, "req-123", rec.Header().Get(deliverycontext.HeaderXRequestID))
}

func TestAccountLifecycle(t *testing.T) {
	fx := newAPIFixture(t)

	rec, env := fx.do(t, http.MethodPost, "/api/auth/sign-up/email", "", map[string]string{
		"name": "Alice", "email": "alice@example.com", "password": "Str0ng!pass",
	})
	require.Equal(t, http.StatusCreated, rec.Code, rec.Body.String())
	assert.True(t, env.Success)
	var user entity.User
	require.NoError(t, json.Unmarshal(env.Data, &user))
	assert.Equal(t, entity.RoleCustomer, user.Role)
	assert.False(t, user.EmailVerified)

	rec, env = fx.do(t, http.MethodPost, "/api/auth/sign-in/email", "", map[string]string{
		"email": "alice@example.com", "password": "wrong-password",
	})
	assert.Equal(t, http.StatusUnauthorized, rec.Code)
	assert.Equal(t, "INVALID_CREDENTIALS", errorCode(env))

	rec, env = fx.do(t, http.MethodPost, "/api/auth/sign-in/email", "", map[string]string{
		"email": "alice@example.com", "password": "Str0ng!pass",
	})
	require.Equal(t, http.StatusOK, rec.Code, rec.Body.String())
	var signedIn handler.SessionResponse
	require.NoError(t, json.Unmarshal(env.Data, &signedIn))
	require.NotEmpty(t, signedIn.Token)

	var cookie *http.Cookie
	for _, c := range rec.Result().Cookies() {
		if c.Name == constants.SessionCookieName {
			cookie = c
		}
	}
	require.NotNil(t, cookie)
	assert.Equal(t, signedIn.Token, cookie.Value)
	assert.True(t, cookie.HttpOnly)

	// Unverified accounts hold a session but cannot use protected routes.
	rec, env = fx.do(t, http.MethodGet, "/users/profile", signedIn.Token, nil)
	assert.Equal(t, http.StatusForbidden, rec.Code)
	assert.Equal(t, "EMAIL_NOT_VERIFIED", errorCode(env))
	assert.Nil(t, env.Error.Details)

	rec, _ = fx.do(t, http.MethodGet, "/api/auth/get-session", signedIn.Token, nil)
	assert.Equal(t, http.StatusOK, rec.Code)

	verification, err := fx.tokens.GenerateVerificationToken(user.ID)
	require.NoError(t, err)
	rec, _ = fx.do(t, http.MethodGet, "/api/auth/verify-email?token="+verification, "", nil)
	require.Equal(t, http.StatusOK, rec.Code, rec.Body.String())

	rec, env = fx.do(t, http.MethodGet, "/users/profile", signedIn.Token, nil)
	require.Equal(t, http.StatusOK, rec.Code, rec.Body.String())
	var profile entity.User
	require.NoError(t, json.Unmarshal(env.Data, &profile))
	assert.True(t, profile.EmailVerified)

	// The cookie alone authenticates as well.
	req := httptest.NewRequest(http.MethodGet, "/api/auth/get-session", nil)
	req.AddCookie(&http.Cookie{Name: constants.SessionCookieName, Value: signedIn.Token})
	cookieRec := httptest.NewRecorder()
	fx.e.ServeHTTP(cookieRec, req)
	assert.Equal(t, http.StatusOK, cookieRec.Code)

	rec, _ = fx.do(t, http.MethodPost, "/api/auth/sign-out", signedIn.Token, nil)
	require.Equal(t, http.StatusOK, rec.Code)

	rec, env = fx.do(t, http.MethodGet, "/api/auth/get-session", signedIn.Token, nil)
	assert.Equal(t, http.StatusUnauthorized, rec.Code)
	assert.Equal(t, "UNAUTHORIZED", errorCode(env))
}

func TestSignUpValidation(t *testing.T) {
	fx := newAPIFixture(t)

	rec, env := fx.do(t, http.MethodPost, "/api/auth/sign-up/email", "", map[string]string{
		"name": "Bob", "email": "not-an-email",
	})
	require.Equal(t, http.StatusBadRequest, rec.Code)
	assert.False(t, env.Success)
	assert.Equal(t, "VALIDATION_FAILED", errorCode(env))
	details, ok := env.Error.Details.(map[string]any)
	require.True(t, ok, "validation details should list fields")
	assert.Equal(t, "email", details["email"])
	assert.Equal(t, "required", details["password"])
}

func TestCatalogRoutes(t *testing.T) {
	fx := newAPIFixture(t)
	seller := fx.seedUser(t, "seller", entity.RoleSeller)
	other := fx.seedUser(t, "other", entity.RoleSeller)
	admin := fx.seedUser(t, "admin", entity.RoleAdmin)
	sellerToken := fx.signIn(t, seller)

	rec, env := fx.do(t, http.MethodPost, "/medicine", "", map[string]any{"name": "Paracetamol"})
	assert.Equal(t, http.StatusUnauthorized, rec.Code)
	assert.Equal(t, "UNAUTHORIZED", errorCode(env))

	rec, env = fx.do(t, http.MethodPost, "/medicine", fx.signIn(t, admin), map[string]any{"name": "Paracetamol"})
	assert.Equal(t, http.StatusForbidden, rec.Code)
	assert.Equal(t, "FORBIDDEN", errorCode(env))

	var created entity.Medicine
	for _, name := range []string{"Paracetamol", "Ibuprofen"} {
		rec, env = fx.do(t, http.MethodPost, "/medicine", sellerToken, map[string]any{
			"name": name, "price": 100, "stock": 10, "category": "otc", "tags": []string{"pain"},
		})
		require.Equal(t, http.StatusCreated, rec.Code, rec.Body.String())
		require.NoError(t, json.Unmarshal(env.Data, &created))
		assert.Equal(t, seller.ID, created.SellerID)
	}

	rec, env = fx.do(t, http.MethodGet, "/medicine?take=1&tags=pain,%20&stock=true", "", nil)
	require.Equal(t, http.StatusOK, rec.Code, rec.Body.String())
	var page []entity.Medicine
	require.NoError(t, json.Unmarshal(env.Data, &page))
	assert.Len(t, page, 1)
	assert.EqualValues(t, 2, env.Meta["totalItem"])
	assert.EqualValues(t, 1, env.Meta["currentPage"])
	assert.EqualValues(t, 1, env.Meta["itemsPerPage"])
	assert.EqualValues(t, 2, env.Meta["totalPages"])
	assert.Contains(t, env.Meta, "timeTaken")
	assert.NotEmpty(t, env.Meta["requestId"])

	rec, env = fx.do(t, http.MethodGet, "/medicine?orderBy=cheapest", "", nil)
	assert.Equal(t, http.StatusBadRequest, rec.Code)
	assert.Equal(t, "VALIDATION_FAILED", errorCode(env))
	assert.NotNil(t, env.Error.Details)

	rec, _ = fx.do(t, http.MethodGet, "/medicine/"+created.ID.String()+"/qr", "", nil)
	require.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, "image/png", rec.Header().Get(echo.HeaderContentType))
	assert.True(t, bytes.HasPrefix(rec.Body.Bytes(), []byte("\x89PNG")))

	rec, env = fx.do(t, http.MethodGet, "/medicine/not-a-uuid", "", nil)
	assert.Equal(t, http.StatusBadRequest, rec.Code)
	assert.Equal(t, "VALIDATION_FAILED", errorCode(env))

	rec, env = fx.do(t, http.MethodGet, "/medicine/"+uuid.NewString(), "", nil)
	assert.Equal(t, http.StatusNotFound, rec.Code)
	assert.Equal(t, "MEDICINE_NOT_FOUND", errorCode(env))

	// A seller cannot touch another seller's medicine.
	rec, env = fx.do(t, http.MethodPatch, "/medicine/"+created.ID.String(), fx.signIn(t, other), map[string]any{"price": 1})
	assert.Equal(t, http.StatusForbidden, rec.Code)
	assert.Equal(t, "FORBIDDEN", errorCode(env))
	rec, _ = fx.do(t, http.MethodDelete, "/medicine/"+created.ID.String(), fx.signIn(t, other), nil)
	assert.Equal(t, http.StatusForbidden, rec.Code)

	rec, env = fx.do(t, http.MethodGet, "/medicine/"+created.ID.String(), "", nil)
	require.Equal(t, http.StatusOK, rec.Code)
	var unchanged entity.Medicine
	require.NoError(t, json.Unmarshal(env.Data, &unchanged))
	assert.EqualValues(t, 100, unchanged.Price)

	rec, env = fx.do(t, http.MethodPatch, "/medicine/"+created.ID.String(), sellerToken, map[string]any{"price": 150})
	require.Equal(t, http.StatusOK, rec.Code, rec.Body.String())
	var updated entity.Medicine
	require.NoError(t, json.Unmarshal(env.Data, &updated))
	assert.EqualValues(t, 150, updated.Price)

	rec, _ = fx.do(t, http.MethodDelete, "/medicine/"+created.ID.String(), fx.signIn(t, admin), nil)
	assert.Equal(t, http.StatusOK, rec.Code)
}

func TestOrderRoutes(t *testing.T) {
	fx := newAPIFixture(t)
	seller := fx.seedUser(t, "seller", entity.RoleSeller)
	customer := fx.seedUser(t, "customer", entity.RoleCustomer)
	sellerToken := fx.signIn(t, seller)
	customerToken := fx.signIn(t, customer)

	medicine := &entity.Medicine{
		Name: "Paracetamol", Price: 100, Stock: 10, Category: entity.CategoryOTC, SellerID: seller.ID,
	}
	require.NoError(t, fx.medicines.Create(context.Background(), medicine))

	rec, env := fx.do(t, http.MethodPost, "/orders", customerToken, map[string]any{"items": []any{}})
	assert.Equal(t, http.StatusBadRequest, rec.Code)
	assert.Equal(t, "VALIDATION_FAILED", errorCode(env))

	rec, _ = fx.do(t, http.MethodPost, "/orders", sellerToken, map[string]any{
		"items": []map[string]any{{"medicineId": medicine.ID, "quantity": 1}},
	})
	assert.Equal(t, http.StatusForbidden, rec.Code)

	rec, env = fx.do(t, http.MethodPost, "/orders", customerToken, map[string]any{
		"items": []map[string]any{{"medicineId": medicine.ID, "quantity": 3, "price": 1}},
	})
	require.Equal(t, http.StatusCreated, rec.Code, rec.Body.String())
	var raw map[string]any
	require.NoError(t, json.Unmarshal(env.Data, &raw))
	assert.Equal(t, "300", raw["totalPrice"])
	assert.Equal(t, string(entity.OrderStatusPending), raw["status"])
	orderID := raw["id"].(string)

	rec, env = fx.do(t, http.MethodPost, "/orders", customerToken, map[string]any{
		"items": []map[string]any{{"medicineId": medicine.ID, "quantity": 8}},
	})
	assert.Equal(t, http.StatusConflict, rec.Code)
	assert.Equal(t, "INSUFFICIENT_STOCK", errorCode(env))

	rec, env = fx.do(t, http.MethodGet, "/orders/my-orders", customerToken, nil)
	require.Equal(t, http.StatusOK, rec.Code)
	var mine []map[string]any
	require.NoError(t, json.Unmarshal(env.Data, &mine))
	assert.Len(t, mine, 1)

	rec, _ = fx.do(t, http.MethodGet, "/orders/seller-orders", customerToken, nil)
	assert.Equal(t, http.StatusForbidden, rec.Code)
	rec, env = fx.do(t, http.MethodGet, "/orders/seller-orders", sellerToken, nil)
	require.Equal(t, http.StatusOK, rec.Code)
	var sellerOrders []map[string]any
	require.NoError(t, json.Unmarshal(env.Data, &sellerOrders))
	assert.Len(t, sellerOrders, 1)

	rec, _ = fx.do(t, http.MethodGet, "/orders/"+orderID, customerToken, nil)
	assert.Equal(t, http.StatusOK, rec.Code)

	rec, _ = fx.do(t, http.MethodPatch, "/orders/"+orderID+"/status", sellerToken, map[string]string{"status": "SHIPPED"})
	require.Equal(t, http.StatusOK, rec.Code, rec.Body.String())

	rec, env = fx.do(t, http.MethodPatch, "/orders/"+orderID+"/status", sellerToken, map[string]string{"status": "PENDING"})
	assert.Equal(t, http.StatusConflict, rec.Code)
	assert.Equal(t, "INVALID_TRANSITION", errorCode(env))

	// Reviews are gated on a delivered purchase.
	rec, env = fx.do(t, http.MethodPost, "/reviews", customerToken, map[string]any{
		"medicineId": medicine.ID, "rating": 5, "comment": "great",
	})
	assert.Equal(t, http.StatusForbidden, rec.Code)
	assert.Equal(t, "NOT_PURCHASED", errorCode(env))

	rec, _ = fx.do(t, http.MethodPatch, "/orders/"+orderID+"/status", sellerToken, map[string]string{"status": "DELIVERED"})
	require.Equal(t, http.StatusOK, rec.Code)

	rec, _ = fx.do(t, http.MethodPost, "/reviews", customerToken, map[string]any{
		"medicineId": medicine.ID, "rating": 5, "comment": "great",
	})
	require.Equal(t, http.StatusCreated, rec.Code, rec.Body.String())

	rec, env = fx.do(t, http.MethodGet, "/reviews/"+medicine.ID.String(), "", nil)
	require.Equal(t, http.StatusOK, rec.Code)
	var reviews []entity.Review
	require.NoError(t, json.Unmarshal(env.Data, &reviews))
	require.Len(t, reviews, 1)
	assert.Equal(t, "customer", reviews[0].ReviewerName)
}

func TestAdminRoutes(t *testing.T) {
	fx := newAPIFixture(t)
	admin := fx.seedUser(t, "admin", entity.RoleAdmin)
	customer := fx.seedUser(t, "customer", entity.RoleCustomer)
	adminToken := fx.signIn(t, admin)
	customerToken := fx.signIn(t, customer)

	rec, _ := fx.do(t, http.MethodGet, "/users", customerToken, nil)
	assert.Equal(t, http.StatusForbidden, rec.Code)

	rec, env := fx.do(t, http.MethodGet, "/users", adminToken, nil)
	require.Equal(t, http.StatusOK, rec.Code)
	var users []entity.User
	require.NoError(t, json.Unmarshal(env.Data, &users))
	assert.Len(t, users, 2)

	rec, env = fx.do(t, http.MethodPatch, "/users/"+customer.ID.String()+"/role", adminToken, map[string]string{"role": "SELLER"})
	require.Equal(t, http.StatusOK, rec.Code, rec.Body.String())
	var promoted entity.User
	require.NoError(t, json.Unmarshal(env.Data, &promoted))
	assert.Equal(t, entity.RoleSeller, promoted.Role)

	rec, _ = fx.do(t, http.MethodPatch, "/users/"+admin.ID.String()+"/ban", adminToken, map[string]bool{"banned": true})
	assert.Equal(t, http.StatusForbidden, rec.Code)

	rec, env = fx.do(t, http.MethodPatch, "/users/"+customer.ID.String()+"/ban", adminToken, map[string]any{})
	assert.Equal(t, http.StatusBadRequest, rec.Code)
	assert.Equal(t, "VALIDATION_FAILED", errorCode(env))

	rec, _ = fx.do(t, http.MethodPatch, "/users/"+customer.ID.String()+"/ban", adminToken, map[string]bool{"banned": true})
	require.Equal(t, http.StatusOK, rec.Code)

	// Banning revokes the user's sessions.
	rec, _ = fx.do(t, http.MethodGet, "/users/profile", customerToken, nil)
	assert.Equal(t, http.StatusUnauthorized, rec.Code)
}

func TestDeviceRoutes(t *testing.T) {
	fx := newAPIFixture(t)
	owner := fx.seedUser(t, "owner", entity.RoleCustomer)
	other := fx.seedUser(t, "other", entity.RoleCustomer)
	ownerToken := fx.signIn(t, owner)

	rec, env := fx.do(t, http.MethodPost, "/devices", ownerToken, map[string]string{
		"fcmToken": "token-1", "deviceId": "phone-1", "platform": "ios",
	})
	require.Equal(t, http.StatusCreated, rec.Code, rec.Body.String())
	var device entity.UserDevice
	require.NoError(t, json.Unmarshal(env.Data, &device))

	rec, env = fx.do(t, http.MethodPost, "/devices", ownerToken, map[string]string{
		"fcmToken": "token-2", "deviceId": "phone-2", "platform": "blackberry",
	})
	assert.Equal(t, http.StatusBadRequest, rec.Code)
	assert.Equal(t, "VALIDATION_FAILED", errorCode(env))

	rec, _ = fx.do(t, http.MethodPut, "/devices/"+device.ID.String()+"/token", fx.signIn(t, other), map[string]string{"fcmToken": "stolen"})
	assert.Equal(t, http.StatusForbidden, rec.Code)

	rec, _ = fx.do(t, http.MethodPut, "/devices/"+device.ID.String()+"/token", ownerToken, map[string]string{"fcmToken": "token-3"})
	require.Equal(t, http.StatusOK, rec.Code)

	rec, env = fx.do(t, http.MethodGet, "/devices", ownerToken, nil)
	require.Equal(t, http.StatusOK, rec.Code)
	var devices []entity.UserDevice
	require.NoError(t, json.Unmarshal(env.Data, &devices))
	require.Len(t, devices, 1)
	assert.Equal(t, "token-3", devices[0].FCMToken)

	rec, _ = fx.do(t, http.MethodDelete, "/devices/"+device.ID.String(), ownerToken, nil)
	require.Equal(t, http.StatusOK, rec.Code)
}
