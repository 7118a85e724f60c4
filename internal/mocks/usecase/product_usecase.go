package usecase

import (
	"context"
	"io"

	"catalog/internal/domain/entity"
	"catalog/internal/usecase"

	"github.com/stretchr/testify/mock"
)

// MockProductUsecase is a mock of usecase.ProductUsecase.
type MockProductUsecase struct {
	mock.Mock
}

// NewMockProductUsecase creates a mock whose expectations are asserted on test cleanup.
func NewMockProductUsecase(t interface {
	mock.TestingT
	Cleanup(func())
}) *MockProductUsecase {
	m := &MockProductUsecase{}
	m.Test(t)
	t.Cleanup(func() { m.AssertExpectations(t) })

	return m
}

func (m *MockProductUsecase) ListProducts(ctx context.Context, actor *entity.User) (*usecase.ProductListOutput, error) {
	args := m.Called(ctx, actor)
	output, _ := args.Get(0).(*usecase.ProductListOutput)

	return output, args.Error(1)
}

func (m *MockProductUsecase) CreateProduct(ctx context.Context, actor *entity.User, input *usecase.ProductInput) (*entity.Product, error) {
	args := m.Called(ctx, actor, input)
	product, _ := args.Get(0).(*entity.Product)

	return product, args.Error(1)
}

func (m *MockProductUsecase) GetProduct(ctx context.Context, actor *entity.User, id uint) (*entity.Product, error) {
	args := m.Called(ctx, actor, id)
	product, _ := args.Get(0).(*entity.Product)

	return product, args.Error(1)
}

func (m *MockProductUsecase) UpdateProduct(ctx context.Context, actor *entity.User, id uint, input *usecase.ProductInput) (*entity.Product, error) {
	args := m.Called(ctx, actor, id, input)
	product, _ := args.Get(0).(*entity.Product)

	return product, args.Error(1)
}

func (m *MockProductUsecase) DeleteProduct(ctx context.Context, actor *entity.User, id uint) error {
	return m.Called(ctx, actor, id).Error(0)
}

func (m *MockProductUsecase) OpenPicture(ctx context.Context, path string) (io.ReadCloser, string, error) {
	args := m.Called(ctx, path)
	rc, _ := args.Get(0).(io.ReadCloser)

	return rc, args.String(1), args.Error(2)
}
