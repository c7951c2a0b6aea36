package service

import (
	"context"
	"testing"

	"github.com/stretchr/testify/mock"
)

// MockNotificationService is a mock of service.NotificationService.
type MockNotificationService struct {
	mock.Mock
}

// NewMockNotificationService creates a mock whose expectations are asserted at test cleanup.
func NewMockNotificationService(t *testing.T) *MockNotificationService {
	m := &MockNotificationService{}
	m.Test(t)
	t.Cleanup(func() { m.AssertExpectations(t) })

	return m
}

func (m *MockNotificationService) SendBatchNotification(ctx context.Context, tokens []string, title, body string, data map[string]string) (successCount, failureCount int, invalidTokens []string, err error) {
	args := m.Called(ctx, tokens, title, body, data)

	invalid, _ := args.Get(2).([]string)

	return args.Int(0), args.Int(1), invalid, args.Error(3)
}

func (m *MockNotificationService) SendSingleNotification(ctx context.Context, token, title, body string, data map[string]string) error {
	args := m.Called(ctx, token, title, body, data)

	return args.Error(0)
}
