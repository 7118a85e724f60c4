package repository

import (
	"context"

	"catalog/internal/domain/entity"

	"github.com/stretchr/testify/mock"
)

// MockProductRepository is a mock of repository.ProductRepository.
type MockProductRepository struct {
	mock.Mock
}

// NewMockProductRepository creates a mock whose expectations are asserted on test cleanup.
func NewMockProductRepository(t interface {
	mock.TestingT
	Cleanup(func())
}) *MockProductRepository {
	m := &MockProductRepository{}
	m.Test(t)
	t.Cleanup(func() { m.AssertExpectations(t) })

	return m
}

func (m *MockProductRepository) List(ctx context.Context) ([]*entity.Product, error) {
	args := m.Called(ctx)
	products, _ := args.Get(0).([]*entity.Product)

	return products, args.Error(1)
}

func (m *MockProductRepository) FindByID(ctx context.Context, id uint) (*entity.Product, error) {
	args := m.Called(ctx, id)
	product, _ := args.Get(0).(*entity.Product)

	return product, args.Error(1)
}

func (m *MockProductRepository) Create(ctx context.Context, product *entity.Product) error {
	return m.Called(ctx, product).Error(0)
}

func (m *MockProductRepository) Update(ctx context.Context, product *entity.Product) error {
	return m.Called(ctx, product).Error(0)
}

func (m *MockProductRepository) Delete(ctx context.Context, id uint) error {
	return m.Called(ctx, id).Error(0)
}

func (m *MockProductRepository) AttachCategories(ctx context.Context, productID uint, categoryIDs []uint) error {
	return m.Called(ctx, productID, categoryIDs).Error(0)
}

func (m *MockProductRepository) SyncCategories(ctx context.Context, productID uint, categoryIDs []uint) error {
	return m.Called(ctx, productID, categoryIDs).Error(0)
}
