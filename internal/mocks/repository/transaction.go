// Package repository provides testify mocks of the domain repository interfaces.
package repository

import (
	"context"

	"catalog/internal/domain/repository"

	"github.com/stretchr/testify/mock"
)

// MockTransactionManager is a mock of repository.TransactionManager.
type MockTransactionManager struct {
	mock.Mock
}

// NewMockTransactionManager creates a mock whose expectations are asserted on test cleanup.
func NewMockTransactionManager(t interface {
	mock.TestingT
	Cleanup(func())
}) *MockTransactionManager {
	m := &MockTransactionManager{}
	m.Test(t)
	t.Cleanup(func() { m.AssertExpectations(t) })

	return m
}

// Execute returns the configured error. When the expectation returns a
// repository.RepositoryFactory instead, fn is run against it and its error is returned.
func (m *MockTransactionManager) Execute(ctx context.Context, fn func(repository.RepositoryFactory) error) error {
	args := m.Called(ctx, fn)
	if factory, ok := args.Get(0).(repository.RepositoryFactory); ok {
		return fn(factory)
	}

	return args.Error(0)
}

// PassThrough makes every Execute call run fn against factory.
func (m *MockTransactionManager) PassThrough(factory repository.RepositoryFactory) *mock.Call {
	return m.On("Execute", mock.Anything, mock.Anything).Return(factory)
}

// MockRepositoryFactory is a mock of repository.RepositoryFactory.
type MockRepositoryFactory struct {
	mock.Mock
}

// NewMockRepositoryFactory creates a mock whose expectations are asserted on test cleanup.
func NewMockRepositoryFactory(t interface {
	mock.TestingT
	Cleanup(func())
}) *MockRepositoryFactory {
	m := &MockRepositoryFactory{}
	m.Test(t)
	t.Cleanup(func() { m.AssertExpectations(t) })

	return m
}

func (m *MockRepositoryFactory) NewUserRepository() repository.UserRepository {
	return m.Called().Get(0).(repository.UserRepository)
}

func (m *MockRepositoryFactory) NewProductRepository() repository.ProductRepository {
	return m.Called().Get(0).(repository.ProductRepository)
}

func (m *MockRepositoryFactory) NewCategoryRepository() repository.CategoryRepository {
	return m.Called().Get(0).(repository.CategoryRepository)
}

func (m *MockRepositoryFactory) NewSessionRepository() repository.SessionRepository {
	return m.Called().Get(0).(repository.SessionRepository)
}
