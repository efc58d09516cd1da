package service

import (
	"crypto/aes"
	"crypto/cipher"
	"crypto/rand"
	"errors"
	"fmt"
)

// AESGCMCipher implements the AEAD interface using AES-256-GCM.
//
// AES-GCM provides authenticated encryption: the confidentiality of AES combined
// with a 128-bit authentication tag that makes tampering detectable at decrypt
// time. Hardware acceleration (AES-NI) makes this the default choice on server
// CPUs.
//
// The cipher instance is stateless and safe for concurrent use from multiple
// goroutines. Each Encrypt call generates a unique 12-byte IV independently.
type AESGCMCipher struct {
	aead cipher.AEAD
}

// NewAESGCM creates a new AES-256-GCM cipher instance.
//
// The key must be exactly 32 bytes (256 bits). Keys should be generated using
// crypto/rand for cryptographic security.
func NewAESGCM(key []byte) (*AESGCMCipher, error) {
	if len(key) != 32 {
		return nil, errors.New("key must be exactly 32 bytes")
	}

	block, err := aes.NewCipher(key)
	if err != nil {
		return nil, fmt.Errorf("failed to create AES cipher: %w", err)
	}

	aead, err := cipher.NewGCM(block)
	if err != nil {
		return nil, fmt.Errorf("failed to create GCM: %w", err)
	}

	return &AESGCMCipher{aead: aead}, nil
}

// Encrypt encrypts plaintext using AES-256-GCM with optional additional
// authenticated data.
//
// A unique 12-byte IV is randomly generated for each call using crypto/rand and
// must be stored alongside the ciphertext for later decryption. With GCM, IVs
// must never be reused with the same key. The returned ciphertext includes the
// 16-byte authentication tag appended to the end.
func (a *AESGCMCipher) Encrypt(plaintext, aad []byte) (ciphertext, iv []byte, err error) {
	iv = make([]byte, a.aead.NonceSize())
	if _, err := rand.Read(iv); err != nil {
		return nil, nil, fmt.Errorf("failed to generate iv: %w", err)
	}

	ciphertext = a.aead.Seal(nil, iv, plaintext, aad)
	return ciphertext, iv, nil
}

// Decrypt decrypts ciphertext using AES-256-GCM with the provided iv and AAD.
//
// The authentication tag is verified before any plaintext is returned: modified
// ciphertext, a wrong iv, or mismatched AAD all fail with an error and yield no
// plaintext.
func (a *AESGCMCipher) Decrypt(ciphertext, iv, aad []byte) ([]byte, error) {
	plaintext, err := a.aead.Open(nil, iv, ciphertext, aad)
	if err != nil {
		return nil, fmt.Errorf("failed to decrypt: %w", err)
	}
	return plaintext, nil
}
