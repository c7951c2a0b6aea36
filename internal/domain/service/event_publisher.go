package service

import (
	"context"

	"medistore/internal/domain/entity"
)

// EventPublisher defines the interface for publishing events to a message queue
type EventPublisher interface {
	// PublishOrderEvent publishes an order lifecycle event for async processing
	PublishOrderEvent(ctx context.Context, event *entity.OrderEvent) error

	// Close releases any resources held by the publisher
	Close() error
}
