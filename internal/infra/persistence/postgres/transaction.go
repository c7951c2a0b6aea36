// Package postgres contains the concrete implementation of the persistence layer using GORM and PostgreSQL.
package postgres

import (
	"context"
	"database/sql"
	"time"

	"medistore/config"
	domainerrors "medistore/internal/domain/errors"
	"medistore/internal/domain/repository"

	"github.com/pkg/errors"
	"go.uber.org/fx"
	"gorm.io/gorm"
)

// gormTransactionManager implements the domain's TransactionManager interface using GORM.
type gormTransactionManager struct {
	db      *gorm.DB
	timeout time.Duration
}

// gormRepositoryFactory implements the domain's RepositoryFactory interface.
// It holds a specific GORM transaction object and uses it to create
// repository instances that are bound to that single transaction.
type gormRepositoryFactory struct {
	tx *gorm.DB // In GORM, a transaction object is also a *gorm.DB
}

// UserRepo returns a user repository bound to the transaction.
func (f *gormRepositoryFactory) UserRepo() repository.UserRepository {
	return NewUserRepository(f.tx)
}

// AuthRepo returns an auth repository bound to the transaction.
func (f *gormRepositoryFactory) AuthRepo() repository.AuthRepository {
	return NewAuthRepository(f.tx)
}

// MedicineRepo returns a medicine repository bound to the transaction.
func (f *gormRepositoryFactory) MedicineRepo() repository.MedicineRepository {
	return NewMedicineRepository(f.tx)
}

// OrderRepo returns an order repository bound to the transaction.
func (f *gormRepositoryFactory) OrderRepo() repository.OrderRepository {
	return NewOrderRepository(f.tx)
}

// ReviewRepo returns a review repository bound to the transaction.
func (f *gormRepositoryFactory) ReviewRepo() repository.ReviewRepository {
	return NewReviewRepository(f.tx)
}

// TransactionManagerParams holds the dependencies of the transaction manager.
type TransactionManagerParams struct {
	fx.In

	DB     *gorm.DB
	Config *config.Config
}

// NewTransactionManager is the Fx provider for gormTransactionManager.
// Every transaction is bounded by database.txTimeout.
func NewTransactionManager(params TransactionManagerParams) repository.TransactionManager {
	var timeout time.Duration
	if params.Config.Database != nil {
		timeout = params.Config.Database.TxTimeout
	}

	return NewTransactionManagerWithTimeout(params.DB, timeout)
}

// NewTransactionManagerWithTimeout builds a transaction manager; a non-positive timeout disables the bound.
func NewTransactionManagerWithTimeout(db *gorm.DB, timeout time.Duration) repository.TransactionManager {
	return &gormTransactionManager{db: db, timeout: timeout}
}

// Execute runs the given function within a single database transaction.
func (tm *gormTransactionManager) Execute(ctx context.Context, fn func(repoFactory repository.RepositoryFactory) error) error {
	if tm.timeout > 0 {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, tm.timeout)
		defer cancel()
	}

	tx := tm.db.WithContext(ctx).Begin()
	if tx.Error != nil {
		return tm.wrapTxError(ctx, tx.Error, "failed to begin transaction")
	}

	// Roll back on panic, then re-panic so the recover middleware can answer.
	defer func() {
		if r := recover(); r != nil {
			tx.Rollback()
			panic(r)
		}
	}()

	factory := &gormRepositoryFactory{tx: tx}

	if err := fn(factory); err != nil {
		if rbErr := tx.Rollback().Error; rbErr != nil && !errors.Is(rbErr, sql.ErrTxDone) && !errors.Is(rbErr, gorm.ErrInvalidTransaction) {
			// Keep the business error as the cause; the rollback failure is context.
			return errors.Wrapf(err, "transaction rollback failed: %v", rbErr)
		}

		if errors.Is(ctx.Err(), context.DeadlineExceeded) {
			return tm.wrapTxError(ctx, err, "transaction aborted")
		}

		return err
	}

	if err := tx.Commit().Error; err != nil {
		return tm.wrapTxError(ctx, err, "failed to commit transaction")
	}

	return nil
}

func (tm *gormTransactionManager) wrapTxError(ctx context.Context, err error, message string) error {
	if errors.Is(ctx.Err(), context.DeadlineExceeded) {
		return errors.Wrap(domainerrors.ErrTransactionFailed.WithDetails(err.Error()), "transaction timed out")
	}

	return errors.Wrap(domainerrors.ErrTransactionFailed.WithDetails(err.Error()), message)
}
