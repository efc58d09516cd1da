package domain

import (
	"github.com/vaultcode/vaultcode/internal/errors"
)

// Vault-specific error definitions.
var (
	// ErrSecretNotFound indicates no secret exists for the given vault code.
	ErrSecretNotFound = errors.Wrap(errors.ErrNotFound, "secret not found")

	// ErrSecretConflict indicates the vault code is already in use on a
	// create-only path.
	ErrSecretConflict = errors.Wrap(errors.ErrConflict, "vault code already in use")

	// ErrSecretExpired indicates the secret passed its expiry time; the record is
	// purged as a side effect.
	ErrSecretExpired = errors.Wrap(errors.ErrExpired, "secret has expired")

	// ErrPasswordRequired indicates the secret is password-protected and the
	// caller supplied no password.
	ErrPasswordRequired = errors.Wrap(errors.ErrPasswordRequired, "secret is password protected")

	// ErrInvalidPassword indicates the supplied password does not match.
	ErrInvalidPassword = errors.Wrap(errors.ErrInvalidPassword, "wrong password for secret")

	// ErrDecryptionFailed indicates ciphertext could not be decrypted. Surfaced
	// generically; cipher internals are only logged server-side.
	ErrDecryptionFailed = errors.Wrap(errors.ErrDecryptionFailed, "secret decryption failed")
)
