// Package service provides the symmetric encryption primitive for the vault.
// Implements AEAD ciphers (AES-256-GCM, ChaCha20-Poly1305) over a single static
// content key provided at process start.
package service

import (
	"fmt"
)

// Algorithm identifies an AEAD cipher implementation.
type Algorithm string

// Supported AEAD algorithms.
const (
	AESGCM           Algorithm = "aes-gcm"
	ChaCha20Poly1305 Algorithm = "chacha20-poly1305"
)

// ParseAlgorithm converts a configuration string to an Algorithm.
func ParseAlgorithm(s string) (Algorithm, error) {
	switch Algorithm(s) {
	case AESGCM:
		return AESGCM, nil
	case ChaCha20Poly1305:
		return ChaCha20Poly1305, nil
	default:
		return "", fmt.Errorf("unsupported encryption algorithm: %q (valid options: aes-gcm, chacha20-poly1305)", s)
	}
}

// AEAD defines the interface for Authenticated Encryption with Associated Data.
// Every Encrypt call generates a fresh random IV, so encrypting the same
// plaintext twice yields different (ciphertext, iv) pairs. This is a required
// property: it prevents equality-based plaintext inference across the history
// entries of a secret.
type AEAD interface {
	// Encrypt encrypts plaintext with optional AAD and returns ciphertext and iv.
	Encrypt(plaintext, aad []byte) (ciphertext, iv []byte, err error)

	// Decrypt decrypts ciphertext using the provided iv and AAD. Tampered or
	// iv-mismatched ciphertext fails authentication and returns an error.
	Decrypt(ciphertext, iv, aad []byte) ([]byte, error)
}

// NewCipher creates an AEAD cipher instance for the given algorithm.
// The key must be exactly 32 bytes for both supported algorithms.
func NewCipher(key []byte, alg Algorithm) (AEAD, error) {
	switch alg {
	case AESGCM:
		return NewAESGCM(key)
	case ChaCha20Poly1305:
		return NewChaCha20Poly1305(key)
	default:
		return nil, fmt.Errorf("unsupported encryption algorithm: %q", alg)
	}
}
