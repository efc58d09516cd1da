// Package mocks provides mock implementations for testing vault use cases.
package mocks

import (
	"context"
	"time"

	"github.com/stretchr/testify/mock"

	vaultDomain "github.com/vaultcode/vaultcode/internal/vault/domain"
)

// MockSecretRepository is a mock implementation of SecretRepository for testing.
type MockSecretRepository struct {
	mock.Mock
}

// Create mocks the Create method of SecretRepository.
func (m *MockSecretRepository) Create(ctx context.Context, secret *vaultDomain.Secret) error {
	args := m.Called(ctx, secret)
	return args.Error(0)
}

// Get mocks the Get method of SecretRepository.
func (m *MockSecretRepository) Get(ctx context.Context, id string) (*vaultDomain.Secret, error) {
	args := m.Called(ctx, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*vaultDomain.Secret), args.Error(1)
}

// Update mocks the Update method of SecretRepository.
func (m *MockSecretRepository) Update(ctx context.Context, secret *vaultDomain.Secret) error {
	args := m.Called(ctx, secret)
	return args.Error(0)
}

// InsertHistory mocks the InsertHistory method of SecretRepository.
func (m *MockSecretRepository) InsertHistory(ctx context.Context, entry *vaultDomain.HistoryEntry) error {
	args := m.Called(ctx, entry)
	return args.Error(0)
}

// ListHistory mocks the ListHistory method of SecretRepository.
func (m *MockSecretRepository) ListHistory(ctx context.Context, secretID string) ([]*vaultDomain.HistoryEntry, error) {
	args := m.Called(ctx, secretID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]*vaultDomain.HistoryEntry), args.Error(1)
}

// Delete mocks the Delete method of SecretRepository.
func (m *MockSecretRepository) Delete(ctx context.Context, id string) error {
	args := m.Called(ctx, id)
	return args.Error(0)
}

// List mocks the List method of SecretRepository.
func (m *MockSecretRepository) List(ctx context.Context, offset, limit int) ([]*vaultDomain.Secret, error) {
	args := m.Called(ctx, offset, limit)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]*vaultDomain.Secret), args.Error(1)
}

// CountExpired mocks the CountExpired method of SecretRepository.
func (m *MockSecretRepository) CountExpired(ctx context.Context, now time.Time) (int64, error) {
	args := m.Called(ctx, now)
	return args.Get(0).(int64), args.Error(1)
}

// DeleteExpired mocks the DeleteExpired method of SecretRepository.
func (m *MockSecretRepository) DeleteExpired(ctx context.Context, now time.Time) (int64, error) {
	args := m.Called(ctx, now)
	return args.Get(0).(int64), args.Error(1)
}
