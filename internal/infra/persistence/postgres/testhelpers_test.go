package postgres

import (
	"context"
	"testing"

	"medistore/internal/domain/entity"

	"github.com/google/uuid"
	"github.com/stretchr/testify/require"
	"gorm.io/gorm"
)

func newTestDB(t *testing.T) *gorm.DB {
	t.Helper()

	db, err := OpenSQLite(MemorySQLiteDSN(uuid.NewString()), nil)
	require.NoError(t, err)

	t.Cleanup(func() {
		if sqlDB, err := db.DB(); err == nil {
			_ = sqlDB.Close()
		}
	})

	return db
}

func seedUser(t *testing.T, db *gorm.DB, name string, role entity.Role) *entity.User {
	t.Helper()

	user := &entity.User{
		Name:          name,
		Email:         name + "@example.com",
		Role:          role,
		EmailVerified: true,
	}
	require.NoError(t, NewUserRepository(db).Create(context.Background(), user))

	return user
}

func seedMedicine(t *testing.T, db *gorm.DB, medicine *entity.Medicine) *entity.Medicine {
	t.Helper()

	if medicine.Category == "" {
		medicine.Category = entity.CategoryOTC
	}
	require.NoError(t, NewMedicineRepository(db).Create(context.Background(), medicine))

	return medicine
}
