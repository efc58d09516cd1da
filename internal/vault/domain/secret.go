// Package domain defines the core domain models for the secret vault.
// A Secret is addressed by an opaque vault code; each update snapshots the prior
// ciphertext into an append-only history before overwriting the live record.
package domain

import (
	"time"

	"github.com/google/uuid"
)

// Secret represents the live encrypted record addressed by a vault code.
type Secret struct {
	// ID is the vault code: the caller-visible opaque identifier. Caller-supplied
	// at creation time or generated by the system.
	ID string
	// Ciphertext and IV hold the encrypted content. The pair is always written
	// and read together; fields from different versions are never mixed.
	Ciphertext []byte
	IV         []byte
	// PasswordCiphertext and PasswordIV hold the encrypted access password.
	// Both are present iff the secret is password-protected.
	PasswordCiphertext []byte
	PasswordIV         []byte
	// ExpiryTime is the absolute timestamp after which the record is treated as
	// nonexistent by retrieval and purged lazily on the next targeted read.
	ExpiryTime time.Time
	// CreatedAt and UpdatedAt are UTC bookkeeping timestamps.
	CreatedAt time.Time
	UpdatedAt time.Time
}

// IsPasswordProtected reports whether the secret requires a password on retrieval.
func (s *Secret) IsPasswordProtected() bool {
	return len(s.PasswordCiphertext) > 0 && len(s.PasswordIV) > 0
}

// IsExpired reports whether the secret has passed its expiry time.
func (s *Secret) IsExpired(now time.Time) bool {
	return now.After(s.ExpiryTime)
}

// HistoryEntry is an immutable snapshot of a Secret's ciphertext taken at the
// moment the secret was overwritten. Entries are written exactly once, never
// mutated, and read back ordered by CreatedAt descending.
type HistoryEntry struct {
	ID       uuid.UUID
	SecretID string
	// Ciphertext and IV snapshot the pre-update content. Each entry carries its
	// own IV; entries never share IVs across versions.
	Ciphertext []byte
	IV         []byte
	CreatedAt  time.Time
}

// RetrievedSecret is the decrypted view returned by the retrieve operation.
type RetrievedSecret struct {
	ID      string
	Content string
	History []RetrievedHistoryEntry
}

// RetrievedHistoryEntry is a decrypted history snapshot.
type RetrievedHistoryEntry struct {
	Content   string
	CreatedAt time.Time
}

// AdminSecret is the administrative view of a secret: decrypted preview and
// metadata, but never the password plaintext.
type AdminSecret struct {
	ID                  string
	ContentPreview      string
	CreatedAt           time.Time
	UpdatedAt           time.Time
	ExpiryTime          time.Time
	IsPasswordProtected bool
	History             []RetrievedHistoryEntry
}
