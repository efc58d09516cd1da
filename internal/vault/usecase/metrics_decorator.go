package usecase

import (
	"context"
	"time"

	"github.com/vaultcode/vaultcode/internal/metrics"
	vaultDomain "github.com/vaultcode/vaultcode/internal/vault/domain"
)

// vaultUseCaseWithMetrics decorates VaultUseCase with metrics instrumentation.
type vaultUseCaseWithMetrics struct {
	next    VaultUseCase
	metrics metrics.BusinessMetrics
}

// NewVaultUseCaseWithMetrics wraps a VaultUseCase with metrics recording.
func NewVaultUseCaseWithMetrics(useCase VaultUseCase, m metrics.BusinessMetrics) VaultUseCase {
	return &vaultUseCaseWithMetrics{
		next:    useCase,
		metrics: m,
	}
}

func (v *vaultUseCaseWithMetrics) record(ctx context.Context, operation string, start time.Time, err error) {
	status := "success"
	if err != nil {
		status = "error"
	}

	v.metrics.RecordOperation(ctx, "vault", operation, status)
	v.metrics.RecordDuration(ctx, "vault", operation, time.Since(start), status)
}

// Create records metrics for secret creation operations.
func (v *vaultUseCaseWithMetrics) Create(ctx context.Context, input CreateSecretInput) (*vaultDomain.Secret, error) {
	start := time.Now()
	secret, err := v.next.Create(ctx, input)
	v.record(ctx, "secret_create", start, err)
	return secret, err
}

// Update records metrics for secret update operations.
func (v *vaultUseCaseWithMetrics) Update(ctx context.Context, id string, input SecretInput) (*vaultDomain.Secret, error) {
	start := time.Now()
	secret, err := v.next.Update(ctx, id, input)
	v.record(ctx, "secret_update", start, err)
	return secret, err
}

// CreateOrUpdate records metrics for secret upsert operations.
func (v *vaultUseCaseWithMetrics) CreateOrUpdate(ctx context.Context, id string, input SecretInput) (string, error) {
	start := time.Now()
	code, err := v.next.CreateOrUpdate(ctx, id, input)
	v.record(ctx, "secret_create_or_update", start, err)
	return code, err
}

// Retrieve records metrics for secret retrieval operations.
func (v *vaultUseCaseWithMetrics) Retrieve(ctx context.Context, id, password string) (*vaultDomain.RetrievedSecret, error) {
	start := time.Now()
	secret, err := v.next.Retrieve(ctx, id, password)
	v.record(ctx, "secret_retrieve", start, err)
	return secret, err
}

// Delete records metrics for secret deletion operations.
func (v *vaultUseCaseWithMetrics) Delete(ctx context.Context, id string) error {
	start := time.Now()
	err := v.next.Delete(ctx, id)
	v.record(ctx, "secret_delete", start, err)
	return err
}

// AdminList records metrics for admin enumeration operations.
func (v *vaultUseCaseWithMetrics) AdminList(ctx context.Context, offset, limit int) ([]*vaultDomain.AdminSecret, error) {
	start := time.Now()
	secrets, err := v.next.AdminList(ctx, offset, limit)
	v.record(ctx, "secret_admin_list", start, err)
	return secrets, err
}

// PurgeExpired records metrics for expired secret purge operations.
func (v *vaultUseCaseWithMetrics) PurgeExpired(ctx context.Context, dryRun bool) (int64, error) {
	start := time.Now()
	count, err := v.next.PurgeExpired(ctx, dryRun)
	v.record(ctx, "secret_purge_expired", start, err)
	return count, err
}
