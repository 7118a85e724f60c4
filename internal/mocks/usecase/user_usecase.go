package usecase

import (
	"context"

	"catalog/internal/domain/entity"
	"catalog/internal/usecase"

	"github.com/stretchr/testify/mock"
)

// MockUserUsecase is a mock of usecase.UserUsecase.
type MockUserUsecase struct {
	mock.Mock
}

// NewMockUserUsecase creates a mock whose expectations are asserted on test cleanup.
func NewMockUserUsecase(t interface {
	mock.TestingT
	Cleanup(func())
}) *MockUserUsecase {
	m := &MockUserUsecase{}
	m.Test(t)
	t.Cleanup(func() { m.AssertExpectations(t) })

	return m
}

func (m *MockUserUsecase) ListUsers(ctx context.Context, actor *entity.User) ([]*entity.User, error) {
	args := m.Called(ctx, actor)
	users, _ := args.Get(0).([]*entity.User)

	return users, args.Error(1)
}

func (m *MockUserUsecase) CreateUser(ctx context.Context, actor *entity.User, input *usecase.UserInput) (*entity.User, error) {
	args := m.Called(ctx, actor, input)
	user, _ := args.Get(0).(*entity.User)

	return user, args.Error(1)
}

func (m *MockUserUsecase) GetUser(ctx context.Context, actor *entity.User, id uint) (*entity.User, error) {
	args := m.Called(ctx, actor, id)
	user, _ := args.Get(0).(*entity.User)

	return user, args.Error(1)
}

func (m *MockUserUsecase) UpdateUser(ctx context.Context, actor *entity.User, id uint, input *usecase.UserInput) (*entity.User, error) {
	args := m.Called(ctx, actor, id, input)
	user, _ := args.Get(0).(*entity.User)

	return user, args.Error(1)
}

func (m *MockUserUsecase) DeleteUser(ctx context.Context, actor *entity.User, id uint) error {
	return m.Called(ctx, actor, id).Error(0)
}
