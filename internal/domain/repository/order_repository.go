package repository

import (
	"context"

	"medistore/internal/domain/entity"

	"github.com/google/uuid"
	"github.com/pkg/errors"
)

// ErrOrderNotFound is returned when an order does not exist.
var ErrOrderNotFound = errors.New("order not found")

// OrderRepository defines persistence operations for orders and their items.
// Read methods join items and their medicines.
type OrderRepository interface {
	// Create persists an order together with its items.
	Create(ctx context.Context, order *entity.Order) error

	// FindByID retrieves an order with items and medicines.
	FindByID(ctx context.Context, id uuid.UUID) (*entity.Order, error)

	// FindByIDForUpdate retrieves an order and locks its row until the transaction ends.
	FindByIDForUpdate(ctx context.Context, id uuid.UUID) (*entity.Order, error)

	// FindByUser returns the user's orders, newest first.
	FindByUser(ctx context.Context, userID uuid.UUID) ([]*entity.Order, error)

	// FindBySeller returns orders containing at least one medicine of the seller, newest first.
	FindBySeller(ctx context.Context, sellerID uuid.UUID) ([]*entity.Order, error)

	// FindAll returns every order, newest first.
	FindAll(ctx context.Context) ([]*entity.Order, error)

	// UpdateStatus overwrites the order status.
	UpdateStatus(ctx context.Context, id uuid.UUID, status entity.OrderStatus) error

	// HasDeliveredItem reports whether the user has a DELIVERED order containing the medicine.
	HasDeliveredItem(ctx context.Context, userID, medicineID uuid.UUID) (bool, error)
}
