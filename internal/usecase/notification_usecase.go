package usecase

import (
	"context"

	"medistore/internal/domain/entity"
)

// NotificationResult summarizes the delivery of one order event.
type NotificationResult struct {
	Recipients    int
	Devices       int
	Sent          int
	Failed        int
	InvalidTokens int
}

// NotificationUsecase turns order events into push notifications.
type NotificationUsecase interface {
	// NotifyOrderEvent notifies sellers of new orders and customers of status changes.
	// Malformed events return a validation error; storage failures are returned as-is.
	NotifyOrderEvent(ctx context.Context, event *entity.OrderEvent) (*NotificationResult, error)
}
