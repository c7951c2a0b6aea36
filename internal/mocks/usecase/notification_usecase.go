// Package usecase provides testify mocks of the use case interfaces.
package usecase

import (
	"context"
	"testing"

	"github.com/stretchr/testify/mock"

	"medistore/internal/domain/entity"
	"medistore/internal/usecase"
)

// MockNotificationUsecase is a mock of usecase.NotificationUsecase.
type MockNotificationUsecase struct {
	mock.Mock
}

// NewMockNotificationUsecase creates a mock whose expectations are asserted at test cleanup.
func NewMockNotificationUsecase(t *testing.T) *MockNotificationUsecase {
	m := &MockNotificationUsecase{}
	m.Test(t)
	t.Cleanup(func() { m.AssertExpectations(t) })

	return m
}

func (m *MockNotificationUsecase) NotifyOrderEvent(ctx context.Context, event *entity.OrderEvent) (*usecase.NotificationResult, error) {
	args := m.Called(ctx, event)

	result, _ := args.Get(0).(*usecase.NotificationResult)

	return result, args.Error(1)
}
