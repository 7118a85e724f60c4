// Package usecase provides testify mocks of the use case interfaces.
package usecase

import (
	"context"

	"catalog/internal/usecase"

	"github.com/stretchr/testify/mock"
)

// MockAuthUsecase is a mock of usecase.AuthUsecase.
type MockAuthUsecase struct {
	mock.Mock
}

// NewMockAuthUsecase creates a mock whose expectations are asserted on test cleanup.
func NewMockAuthUsecase(t interface {
	mock.TestingT
	Cleanup(func())
}) *MockAuthUsecase {
	m := &MockAuthUsecase{}
	m.Test(t)
	t.Cleanup(func() { m.AssertExpectations(t) })

	return m
}

func (m *MockAuthUsecase) Register(ctx context.Context, input *usecase.RegisterInput) (*usecase.TokenOutput, error) {
	args := m.Called(ctx, input)
	output, _ := args.Get(0).(*usecase.TokenOutput)

	return output, args.Error(1)
}

func (m *MockAuthUsecase) Login(ctx context.Context, input *usecase.LoginInput) (*usecase.TokenOutput, error) {
	args := m.Called(ctx, input)
	output, _ := args.Get(0).(*usecase.TokenOutput)

	return output, args.Error(1)
}

func (m *MockAuthUsecase) Authenticate(ctx context.Context, token string) (*usecase.Principal, error) {
	args := m.Called(ctx, token)
	principal, _ := args.Get(0).(*usecase.Principal)

	return principal, args.Error(1)
}

func (m *MockAuthUsecase) Logout(ctx context.Context, principal *usecase.Principal) error {
	return m.Called(ctx, principal).Error(0)
}
