package impl

import (
	"context"
	"io"
	"log/slog"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/require"
	"gorm.io/gorm"

	"medistore/internal/domain/entity"
	"medistore/internal/domain/repository"
	"medistore/internal/infra/persistence/postgres"
)

func newDiscardLogger() *slog.Logger {
	return slog.New(slog.NewTextHandler(io.Discard, nil))
}

// testStore wires the real repositories to an isolated in-memory SQLite database.
type testStore struct {
	db        *gorm.DB
	txManager repository.TransactionManager
	users     repository.UserRepository
	auths     repository.AuthRepository
	medicines repository.MedicineRepository
	orders    repository.OrderRepository
	reviews   repository.ReviewRepository
	devices   repository.DeviceRepository
}

func newTestStore(t *testing.T) *testStore {
	t.Helper()

	db, err := postgres.OpenSQLite(postgres.MemorySQLiteDSN(uuid.NewString()), nil)
	require.NoError(t, err)
	t.Cleanup(func() {
		if sqlDB, err := db.DB(); err == nil {
			_ = sqlDB.Close()
		}
	})

	return &testStore{
		db:        db,
		txManager: postgres.NewTransactionManagerWithTimeout(db, 5*time.Second),
		users:     postgres.NewUserRepository(db),
		auths:     postgres.NewAuthRepository(db),
		medicines: postgres.NewMedicineRepository(db),
		orders:    postgres.NewOrderRepository(db),
		reviews:   postgres.NewReviewRepository(db),
		devices:   postgres.NewDeviceRepository(db),
	}
}

func (s *testStore) seedUser(t *testing.T, name string, role entity.Role) *entity.User {
	t.Helper()

	user := &entity.User{
		Name:          name,
		Email:         name + "@example.com",
		Role:          role,
		EmailVerified: true,
	}
	require.NoError(t, s.users.Create(context.Background(), user))

	return user
}

func (s *testStore) seedMedicine(t *testing.T, seller *entity.User, name string, price int64, stock int) *entity.Medicine {
	t.Helper()

	medicine := &entity.Medicine{
		Name:         name,
		Description:  name + " tablets",
		Price:        price,
		Stock:        stock,
		Manufacturer: "Acme Pharma",
		Category:     entity.CategoryOTC,
		Tags:         []string{"pain"},
		SellerID:     seller.ID,
	}
	require.NoError(t, s.medicines.Create(context.Background(), medicine))

	return medicine
}

func (s *testStore) stockOf(t *testing.T, id uuid.UUID) int {
	t.Helper()

	medicine, err := s.medicines.FindByID(context.Background(), id)
	require.NoError(t, err)

	return medicine.Stock
}

func sessionOf(user *entity.User) *entity.Session {
	return &entity.Session{
		ID:            uuid.New(),
		UserID:        user.ID,
		Name:          user.Name,
		Email:         user.Email,
		Role:          user.Role,
		EmailVerified: user.EmailVerified,
		Banned:        user.Banned,
	}
}
