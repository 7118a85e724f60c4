package usecase

import (
	"context"

	"catalog/internal/domain/entity"
	"catalog/internal/usecase"

	"github.com/stretchr/testify/mock"
)

// MockCategoryUsecase is a mock of usecase.CategoryUsecase.
type MockCategoryUsecase struct {
	mock.Mock
}

// NewMockCategoryUsecase creates a mock whose expectations are asserted on test cleanup.
func NewMockCategoryUsecase(t interface {
	mock.TestingT
	Cleanup(func())
}) *MockCategoryUsecase {
	m := &MockCategoryUsecase{}
	m.Test(t)
	t.Cleanup(func() { m.AssertExpectations(t) })

	return m
}

func (m *MockCategoryUsecase) ListCategories(ctx context.Context, actor *entity.User) ([]*entity.Category, error) {
	args := m.Called(ctx, actor)
	categories, _ := args.Get(0).([]*entity.Category)

	return categories, args.Error(1)
}

func (m *MockCategoryUsecase) CreateCategory(ctx context.Context, actor *entity.User, input *usecase.CategoryInput) (*entity.Category, error) {
	args := m.Called(ctx, actor, input)
	category, _ := args.Get(0).(*entity.Category)

	return category, args.Error(1)
}

func (m *MockCategoryUsecase) GetCategory(ctx context.Context, actor *entity.User, id uint) (*entity.Category, error) {
	args := m.Called(ctx, actor, id)
	category, _ := args.Get(0).(*entity.Category)

	return category, args.Error(1)
}

func (m *MockCategoryUsecase) UpdateCategory(ctx context.Context, actor *entity.User, id uint, input *usecase.CategoryInput) (*entity.Category, error) {
	args := m.Called(ctx, actor, id, input)
	category, _ := args.Get(0).(*entity.Category)

	return category, args.Error(1)
}

func (m *MockCategoryUsecase) DeleteCategory(ctx context.Context, actor *entity.User, id uint) error {
	return m.Called(ctx, actor, id).Error(0)
}
