package entity

import (
	"time"

	"github.com/google/uuid"
)

// OrderStatus is the fulfilment state of an order.
type OrderStatus string

const (
	OrderStatusPending   OrderStatus = "PENDING"
	OrderStatusShipped   OrderStatus = "SHIPPED"
	OrderStatusDelivered OrderStatus = "DELIVERED"
	OrderStatusCancelled OrderStatus = "CANCELLED"
)

// orderTransitions is the forward-only state machine of an order.
// DELIVERED and CANCELLED are terminal.
//
//nolint:gochecknoglobals
var orderTransitions = map[OrderStatus][]OrderStatus{
	OrderStatusPending: {OrderStatusShipped, OrderStatusCancelled},
	OrderStatusShipped: {OrderStatusDelivered},
}

// String returns the string representation of the OrderStatus.
func (s OrderStatus) String() string {
	return string(s)
}

// IsValid checks if the OrderStatus is a known value.
func (s OrderStatus) IsValid() bool {
	switch s {
	case OrderStatusPending, OrderStatusShipped, OrderStatusDelivered, OrderStatusCancelled:
		return true
	default:
		return false
	}
}

// IsTerminal reports whether no further transition is possible.
func (s OrderStatus) IsTerminal() bool {
	return len(orderTransitions[s]) == 0
}

// CanTransitionTo reports whether the state machine allows moving to next.
func (s OrderStatus) CanTransitionTo(next OrderStatus) bool {
	for _, allowed := range orderTransitions[s] {
		if allowed == next {
			return true
		}
	}

	return false
}

// Order is a committed purchase of one or more medicines.
// TotalPrice is serialized as a string because it can exceed the JSON safe integer range.
type Order struct {
	ID         uuid.UUID    `json:"id"`
	UserID     uuid.UUID    `json:"userId"`
	TotalPrice int64        `json:"totalPrice,string"`
	Status     OrderStatus  `json:"status"`
	Items      []*OrderItem `json:"orderItems"`
	CreatedAt  time.Time    `json:"createdAt"`
	UpdatedAt  time.Time    `json:"updatedAt"`
}

// IsOwnedBy reports whether the order was placed by the given user.
func (o *Order) IsOwnedBy(userID uuid.UUID) bool {
	return o != nil && o.UserID == userID
}

// SellerIDs returns the distinct sellers of the joined medicines, in item order.
func (o *Order) SellerIDs() []uuid.UUID {
	seen := make(map[uuid.UUID]struct{}, len(o.Items))
	sellers := make([]uuid.UUID, 0, len(o.Items))
	for _, item := range o.Items {
		if item.Medicine == nil {
			continue
		}
		if _, ok := seen[item.Medicine.SellerID]; ok {
			continue
		}
		seen[item.Medicine.SellerID] = struct{}{}
		sellers = append(sellers, item.Medicine.SellerID)
	}

	return sellers
}

// HasSeller reports whether at least one item's medicine belongs to the seller.
func (o *Order) HasSeller(sellerID uuid.UUID) bool {
	for _, item := range o.Items {
		if item.Medicine != nil && item.Medicine.SellerID == sellerID {
			return true
		}
	}

	return false
}

// OrderItem is one immutable line of an order. Price is the unit price at purchase time.
type OrderItem struct {
	ID         uuid.UUID `json:"id"`
	OrderID    uuid.UUID `json:"orderId"`
	MedicineID uuid.UUID `json:"medicineId"`
	Quantity   int       `json:"quantity"`
	Price      int64     `json:"price"`
	Medicine   *Medicine `json:"medicine,omitempty"`
}

// LineTotal is the item's unit price multiplied by its quantity.
func (i *OrderItem) LineTotal() int64 {
	return i.Price * int64(i.Quantity)
}
