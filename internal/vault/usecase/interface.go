// Package usecase implements the orchestration and policy core of the vault.
// It coordinates the cipher and the secret store to implement create, update,
// retrieve, delete and expiry handling, and owns the policy decisions: password
// verification, lazy expiry enforcement and history snapshotting.
package usecase

import (
	"context"
	"time"

	vaultDomain "github.com/vaultcode/vaultcode/internal/vault/domain"
)

// SecretRepository defines the interface for Secret and HistoryEntry persistence.
// Implementations resolve an active transaction from the context, allowing the
// use case to compose InsertHistory and Update into one atomic unit.
type SecretRepository interface {
	Create(ctx context.Context, secret *vaultDomain.Secret) error
	Get(ctx context.Context, id string) (*vaultDomain.Secret, error)
	Update(ctx context.Context, secret *vaultDomain.Secret) error
	InsertHistory(ctx context.Context, entry *vaultDomain.HistoryEntry) error
	ListHistory(ctx context.Context, secretID string) ([]*vaultDomain.HistoryEntry, error)
	Delete(ctx context.Context, id string) error
	List(ctx context.Context, offset, limit int) ([]*vaultDomain.Secret, error)
	CountExpired(ctx context.Context, now time.Time) (int64, error)
	DeleteExpired(ctx context.Context, now time.Time) (int64, error)
}

// SecretInput carries the caller-supplied fields of a create or update.
type SecretInput struct {
	// Content is the plaintext to protect. Encrypted before it touches the store.
	Content string
	// Password optionally gates retrieval. Empty means not protected. Stored
	// encrypted, never hashed: updates must carry it forward verbatim.
	Password string
	// ExpiryTime is the absolute expiry timestamp.
	ExpiryTime time.Time
}

// CreateSecretInput is SecretInput plus an optional caller-chosen vault code.
type CreateSecretInput struct {
	// ID is the caller-chosen vault code; empty means the system generates one.
	ID string
	SecretInput
}

// VaultUseCase defines the vault's business operations.
type VaultUseCase interface {
	// Create persists a new secret. A taken vault code fails with a conflict.
	Create(ctx context.Context, input CreateSecretInput) (*vaultDomain.Secret, error)

	// Update overwrites an existing secret, snapshotting the prior ciphertext
	// into history first. The snapshot and the overwrite are atomic with respect
	// to concurrent readers. Unknown vault codes fail with not found.
	Update(ctx context.Context, id string, input SecretInput) (*vaultDomain.Secret, error)

	// CreateOrUpdate dispatches on the vault code: empty creates under a
	// generated code, a known code updates (preserving history), and an unknown
	// supplied code fails with not found. Returns the vault code.
	CreateOrUpdate(ctx context.Context, id string, input SecretInput) (string, error)

	// Retrieve returns the decrypted content and history of a secret. Expiry is
	// enforced first (purging the record), then the password gate, then
	// decryption of the live content and every history entry.
	Retrieve(ctx context.Context, id, password string) (*vaultDomain.RetrievedSecret, error)

	// Delete removes a secret and its history. Idempotent.
	Delete(ctx context.Context, id string) error

	// AdminList enumerates all secrets regardless of expiry state with decrypted
	// previews and history. Password plaintext is never included.
	AdminList(ctx context.Context, offset, limit int) ([]*vaultDomain.AdminSecret, error)

	// PurgeExpired bulk-deletes expired secrets and returns the count. With
	// dryRun set it only counts. An administrative sweep; lazy expiry at read
	// time is unaffected.
	PurgeExpired(ctx context.Context, dryRun bool) (int64, error)
}
