// Package mocks provides mock implementations for testing database consumers.
package mocks

import (
	"context"

	"github.com/stretchr/testify/mock"
)

// MockTxManager is a mock implementation of TxManager for testing.
type MockTxManager struct {
	mock.Mock
}

// WithTx mocks the WithTx method of TxManager.
func (m *MockTxManager) WithTx(ctx context.Context, fn func(ctx context.Context) error) error {
	args := m.Called(ctx, fn)
	return args.Error(0)
}

// PassthroughTxManager runs the transactional function directly against the
// ambient context. It stands in for a real transaction in unit tests.
type PassthroughTxManager struct{}

// WithTx invokes fn with the given context.
func (m *PassthroughTxManager) WithTx(ctx context.Context, fn func(ctx context.Context) error) error {
	return fn(ctx)
}
