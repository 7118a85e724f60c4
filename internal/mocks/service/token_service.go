package service

import (
	"catalog/internal/domain/service"

	"github.com/stretchr/testify/mock"
)

// MockTokenService is a mock of service.TokenService.
type MockTokenService struct {
	mock.Mock
}

// NewMockTokenService creates a mock whose expectations are asserted on test cleanup.
func NewMockTokenService(t interface {
	mock.TestingT
	Cleanup(func())
}) *MockTokenService {
	m := &MockTokenService{}
	m.Test(t)
	t.Cleanup(func() { m.AssertExpectations(t) })

	return m
}

func (m *MockTokenService) Issue(userID uint, abilities []string) (*service.IssuedToken, error) {
	args := m.Called(userID, abilities)
	token, _ := args.Get(0).(*service.IssuedToken)

	return token, args.Error(1)
}

func (m *MockTokenService) ValidateToken(tokenString string) (*service.Claims, error) {
	args := m.Called(tokenString)
	claims, _ := args.Get(0).(*service.Claims)

	return claims, args.Error(1)
}

func (m *MockTokenService) HashToken(tokenString string) string {
	return m.Called(tokenString).String(0)
}
