package service

import (
	"context"
	"testing"

	"github.com/stretchr/testify/mock"

	"medistore/internal/domain/entity"
	domainservice "medistore/internal/domain/service"
)

// MockOAuthAuthService is a mock of service.OAuthAuthService.
type MockOAuthAuthService struct {
	mock.Mock
}

// NewMockOAuthAuthService creates a mock whose expectations are asserted at test cleanup.
func NewMockOAuthAuthService(t *testing.T) *MockOAuthAuthService {
	m := &MockOAuthAuthService{}
	m.Test(t)
	t.Cleanup(func() { m.AssertExpectations(t) })

	return m
}

func (m *MockOAuthAuthService) VerifyIDToken(ctx context.Context, idToken string) (*domainservice.OAuthUser, error) {
	args := m.Called(ctx, idToken)

	user, _ := args.Get(0).(*domainservice.OAuthUser)

	return user, args.Error(1)
}

func (m *MockOAuthAuthService) GetProvider() entity.ProviderType {
	args := m.Called()

	return args.Get(0).(entity.ProviderType)
}
