package service

import (
	"context"
	"io"

	"github.com/stretchr/testify/mock"
)

// MockPictureStore is a mock of service.PictureStore.
type MockPictureStore struct {
	mock.Mock
}

// NewMockPictureStore creates a mock whose expectations are asserted on test cleanup.
func NewMockPictureStore(t interface {
	mock.TestingT
	Cleanup(func())
}) *MockPictureStore {
	m := &MockPictureStore{}
	m.Test(t)
	t.Cleanup(func() { m.AssertExpectations(t) })

	return m
}

func (m *MockPictureStore) Save(ctx context.Context, r io.Reader, ext string) (string, error) {
	args := m.Called(ctx, r, ext)

	return args.String(0), args.Error(1)
}

func (m *MockPictureStore) Open(ctx context.Context, path string) (io.ReadCloser, string, error) {
	args := m.Called(ctx, path)
	rc, _ := args.Get(0).(io.ReadCloser)

	return rc, args.String(1), args.Error(2)
}

func (m *MockPictureStore) Delete(ctx context.Context, path string) error {
	return m.Called(ctx, path).Error(0)
}
