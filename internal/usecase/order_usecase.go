// Package usecase contains the application-specific business rules.
// It orchestrates the domain layer to perform tasks.
package usecase

import (
	"context"

	"github.com/google/uuid"

	"medistore/internal/domain/entity"
)

// --- Input DTOs ---

// OrderItemInput is one cart line. Only the medicine and quantity are taken from the client;
// prices always come from the catalog.
type OrderItemInput struct {
	MedicineID string
	Quantity   int
}

// CreateOrderInput defines the cart submitted by a customer.
type CreateOrderInput struct {
	Items []OrderItemInput
}

// OrderUsecase defines the order engine operations.
type OrderUsecase interface {
	// CreateOrder atomically reserves stock for every item and records a PENDING order.
	CreateOrder(ctx context.Context, userID uuid.UUID, input *CreateOrderInput) (*entity.Order, error)

	// GetMyOrders returns the caller's orders, newest first.
	GetMyOrders(ctx context.Context, userID uuid.UUID) ([]*entity.Order, error)

	// GetSellerOrders returns every order for ADMIN, otherwise orders containing the seller's medicines.
	GetSellerOrders(ctx context.Context, userID uuid.UUID, role entity.Role) ([]*entity.Order, error)

	// GetOrder returns one order visible to the session.
	GetOrder(ctx context.Context, session *entity.Session, orderID uuid.UUID) (*entity.Order, error)

	// UpdateOrderStatus moves an order along the status state machine.
	UpdateOrderStatus(ctx context.Context, session *entity.Session, orderID uuid.UUID, status entity.OrderStatus) (*entity.Order, error)
}
