package app

import (
	"context"
	"fmt"

	cryptoService "github.com/vaultcode/vaultcode/internal/crypto/service"
)

// EncryptionKey returns the 32-byte content encryption key, resolving it from
// KMS, configuration, or the ephemeral fallback on first access.
func (c *Container) EncryptionKey() ([]byte, error) {
	c.encryptionKeyInit.Do(func() {
		key, err := cryptoService.LoadKey(context.Background(), cryptoService.NewKMSService(), cryptoService.KeySource{
			HexKey:           c.config.EncryptionKey,
			KMSKeyURI:        c.config.KMSKeyURI,
			WrappedKeyBase64: c.config.EncryptionKeyWrapped,
		}, c.Logger())
		if err != nil {
			c.initErrors["encryptionKey"] = err
			return
		}
		c.encryptionKey = key
	})
	if err, exists := c.initErrors["encryptionKey"]; exists {
		return nil, err
	}
	return c.encryptionKey, nil
}

// Cipher builds the AEAD cipher for the configured algorithm.
func (c *Container) Cipher() (cryptoService.AEAD, error) {
	key, err := c.EncryptionKey()
	if err != nil {
		return nil, err
	}

	algorithm, err := cryptoService.ParseAlgorithm(c.config.EncryptionAlgorithm)
	if err != nil {
		return nil, err
	}

	cipher, err := cryptoService.NewCipher(key, algorithm)
	if err != nil {
		return nil, fmt.Errorf("failed to create cipher: %w", err)
	}
	return cipher, nil
}
