package service

import (
	"context"
	"testing"

	"github.com/stretchr/testify/mock"
)

// MockMailer is a mock of service.Mailer.
type MockMailer struct {
	mock.Mock
}

// NewMockMailer creates a mock whose expectations are asserted at test cleanup.
func NewMockMailer(t *testing.T) *MockMailer {
	m := &MockMailer{}
	m.Test(t)
	t.Cleanup(func() { m.AssertExpectations(t) })

	return m
}

func (m *MockMailer) SendVerificationEmail(ctx context.Context, to, name, link string) error {
	args := m.Called(ctx, to, name, link)

	return args.Error(0)
}
