// Package mocks provides mock implementations for testing HTTP handlers.
package mocks

import (
	"context"

	"github.com/stretchr/testify/mock"

	vaultDomain "github.com/vaultcode/vaultcode/internal/vault/domain"
	vaultUsecase "github.com/vaultcode/vaultcode/internal/vault/usecase"
)

// MockVaultUseCase is a mock implementation of VaultUseCase for testing.
type MockVaultUseCase struct {
	mock.Mock
}

// Create mocks the Create method of VaultUseCase.
func (m *MockVaultUseCase) Create(ctx context.Context, input vaultUsecase.CreateSecretInput) (*vaultDomain.Secret, error) {
	args := m.Called(ctx, input)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*vaultDomain.Secret), args.Error(1)
}

// Update mocks the Update method of VaultUseCase.
func (m *MockVaultUseCase) Update(ctx context.Context, id string, input vaultUsecase.SecretInput) (*vaultDomain.Secret, error) {
	args := m.Called(ctx, id, input)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*vaultDomain.Secret), args.Error(1)
}

// CreateOrUpdate mocks the CreateOrUpdate method of VaultUseCase.
func (m *MockVaultUseCase) CreateOrUpdate(ctx context.Context, id string, input vaultUsecase.SecretInput) (string, error) {
	args := m.Called(ctx, id, input)
	return args.String(0), args.Error(1)
}

// Retrieve mocks the Retrieve method of VaultUseCase.
func (m *MockVaultUseCase) Retrieve(ctx context.Context, id, password string) (*vaultDomain.RetrievedSecret, error) {
	args := m.Called(ctx, id, password)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*vaultDomain.RetrievedSecret), args.Error(1)
}

// Delete mocks the Delete method of VaultUseCase.
func (m *MockVaultUseCase) Delete(ctx context.Context, id string) error {
	args := m.Called(ctx, id)
	return args.Error(0)
}

// AdminList mocks the AdminList method of VaultUseCase.
func (m *MockVaultUseCase) AdminList(ctx context.Context, offset, limit int) ([]*vaultDomain.AdminSecret, error) {
	args := m.Called(ctx, offset, limit)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]*vaultDomain.AdminSecret), args.Error(1)
}

// PurgeExpired mocks the PurgeExpired method of VaultUseCase.
func (m *MockVaultUseCase) PurgeExpired(ctx context.Context, dryRun bool) (int64, error) {
	args := m.Called(ctx, dryRun)
	return args.Get(0).(int64), args.Error(1)
}
