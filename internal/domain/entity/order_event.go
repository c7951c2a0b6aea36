package entity

import (
	"time"

	"github.com/google/uuid"
)

// OrderEventType names what happened to an order.
type OrderEventType string

const (
	OrderEventCreated       OrderEventType = "order.created"
	OrderEventStatusChanged OrderEventType = "order.status_changed"
)

// OrderEvent is published after an order transaction commits.
type OrderEvent struct {
	RequestID  string         `json:"request_id,omitempty"` // For distributed tracing
	EventID    string         `json:"event_id"`
	Type       OrderEventType `json:"type"`
	OrderID    string         `json:"order_id"`
	CustomerID string         `json:"customer_id"`
	SellerIDs  []string       `json:"seller_ids"`
	Status     OrderStatus    `json:"status"`
	Previous   OrderStatus    `json:"previous_status,omitempty"`
	TotalPrice int64          `json:"total_price,string"`
	OccurredAt time.Time      `json:"occurred_at"`
}

// NewOrderEvent builds an event snapshot of the order.
func NewOrderEvent(eventType OrderEventType, order *Order, previous OrderStatus) *OrderEvent {
	sellers := order.SellerIDs()
	sellerIDs := make([]string, 0, len(sellers))
	for _, id := range sellers {
		sellerIDs = append(sellerIDs, id.String())
	}

	return &OrderEvent{
		EventID:    uuid.NewString(),
		Type:       eventType,
		OrderID:    order.ID.String(),
		CustomerID: order.UserID.String(),
		SellerIDs:  sellerIDs,
		Status:     order.Status,
		Previous:   previous,
		TotalPrice: order.TotalPrice,
		OccurredAt: time.Now().UTC(),
	}
}
