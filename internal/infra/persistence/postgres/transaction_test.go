package postgres

import (
	"context"
	"testing"
	"time"

	"medistore/internal/domain/entity"
	domainerrors "medistore/internal/domain/errors"
	"medistore/internal/domain/repository"

	"github.com/pkg/errors"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestTransactionManager_CommitsOnSuccess(t *testing.T) {
	db := newTestDB(t)
	tm := NewTransactionManagerWithTimeout(db, time.Second)
	ctx := context.Background()

	user := &entity.User{Name: "alice", Email: "alice@example.com", Role: entity.RoleCustomer}
	err := tm.Execute(ctx, func(f repository.RepositoryFactory) error {
		return f.UserRepo().Create(ctx, user)
	})
	require.NoError(t, err)

	_, err = NewUserRepository(db).FindByID(ctx, user.ID)
	assert.NoError(t, err)
}

func TestTransactionManager_RollsBackOnError(t *testing.T) {
	db := newTestDB(t)
	tm := NewTransactionManagerWithTimeout(db, time.Second)
	ctx := context.Background()
	errBusiness := errors.New("business rule failed")

	user := &entity.User{Name: "bob", Email: "bob@example.com", Role: entity.RoleCustomer}
	err := tm.Execute(ctx, func(f repository.RepositoryFactory) error {
		if err := f.UserRepo().Create(ctx, user); err != nil {
			return err
		}

		return errBusiness
	})
	assert.ErrorIs(t, err, errBusiness)

	_, err = NewUserRepository(db).FindByID(ctx, user.ID)
	assert.ErrorIs(t, err, repository.ErrUserNotFound)
}

func TestTransactionManager_RollsBackOnPanic(t *testing.T) {
	db := newTestDB(t)
	tm := NewTransactionManagerWithTimeout(db, time.Second)
	ctx := context.Background()

	user := &entity.User{Name: "carol", Email: "carol@example.com", Role: entity.RoleCustomer}
	assert.Panics(t, func() {
		_ = tm.Execute(ctx, func(f repository.RepositoryFactory) error {
			if err := f.UserRepo().Create(ctx, user); err != nil {
				return err
			}
			panic("boom")
		})
	})

	_, err := NewUserRepository(db).FindByEmail(ctx, "carol@example.com")
	assert.ErrorIs(t, err, repository.ErrUserNotFound)
}

func TestTransactionManager_Timeout(t *testing.T) {
	db := newTestDB(t)
	tm := NewTransactionManagerWithTimeout(db, 10*time.Millisecond)
	ctx := context.Background()

	err := tm.Execute(ctx, func(f repository.RepositoryFactory) error {
		time.Sleep(50 * time.Millisecond)
		_, err := f.UserRepo().List(ctx)

		return err
	})
	assert.ErrorIs(t, err, domainerrors.ErrTransactionFailed)
}
