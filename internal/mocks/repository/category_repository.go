package repository

import (
	"context"

	"catalog/internal/domain/entity"

	"github.com/stretchr/testify/mock"
)

// MockCategoryRepository is a mock of repository.CategoryRepository.
type MockCategoryRepository struct {
	mock.Mock
}

// NewMockCategoryRepository creates a mock whose expectations are asserted on test cleanup.
func NewMockCategoryRepository(t interface {
	mock.TestingT
	Cleanup(func())
}) *MockCategoryRepository {
	m := &MockCategoryRepository{}
	m.Test(t)
	t.Cleanup(func() { m.AssertExpectations(t) })

	return m
}

func (m *MockCategoryRepository) List(ctx context.Context) ([]*entity.Category, error) {
	args := m.Called(ctx)
	categories, _ := args.Get(0).([]*entity.Category)

	return categories, args.Error(1)
}

func (m *MockCategoryRepository) ListTitles(ctx context.Context) ([]string, error) {
	args := m.Called(ctx)
	titles, _ := args.Get(0).([]string)

	return titles, args.Error(1)
}

func (m *MockCategoryRepository) FindByID(ctx context.Context, id uint) (*entity.Category, error) {
	args := m.Called(ctx, id)
	category, _ := args.Get(0).(*entity.Category)

	return category, args.Error(1)
}

func (m *MockCategoryRepository) FindByIDs(ctx context.Context, ids []uint) ([]*entity.Category, error) {
	args := m.Called(ctx, ids)
	categories, _ := args.Get(0).([]*entity.Category)

	return categories, args.Error(1)
}

func (m *MockCategoryRepository) Create(ctx context.Context, category *entity.Category) error {
	return m.Called(ctx, category).Error(0)
}

func (m *MockCategoryRepository) Update(ctx context.Context, category *entity.Category) error {
	return m.Called(ctx, category).Error(0)
}

func (m *MockCategoryRepository) DetachProducts(ctx context.Context, categoryID uint) error {
	return m.Called(ctx, categoryID).Error(0)
}

func (m *MockCategoryRepository) Delete(ctx context.Context, id uint) error {
	return m.Called(ctx, id).Error(0)
}
