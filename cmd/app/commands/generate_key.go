package commands

import (
	"context"
	"crypto/rand"
	"encoding/base64"
	"encoding/hex"
	"fmt"
	"io"

	cryptoService "github.com/vaultcode/vaultcode/internal/crypto/service"
)

// RunGenerateKey generates a 32-byte content encryption key and prints it in
// the format the configuration expects.
//
// Without a KMS key URI the key is printed hex-encoded for ENCRYPTION_KEY.
// With one, the key is wrapped by the KMS keeper and printed base64-encoded
// for ENCRYPTION_KEY_WRAPPED, so the raw key never lands in the environment.
// For local development use kmsKeyURI="base64key://<32-byte-base64-key>".
func RunGenerateKey(ctx context.Context, kmsKeyURI string, w io.Writer) error {
	key := make([]byte, 32)
	if _, err := rand.Read(key); err != nil {
		return fmt.Errorf("failed to generate key: %w", err)
	}

	if kmsKeyURI == "" {
		fmt.Fprintf(w, "ENCRYPTION_KEY=%s\n", hex.EncodeToString(key))
		return nil
	}

	kmsService := cryptoService.NewKMSService()
	keeperInterface, err := kmsService.OpenKeeper(ctx, kmsKeyURI)
	if err != nil {
		return fmt.Errorf("failed to open KMS keeper: %w", err)
	}
	defer func() {
		if closeErr := keeperInterface.Close(); closeErr != nil {
			fmt.Fprintf(w, "# Warning: failed to close KMS keeper: %v\n", closeErr)
		}
	}()

	keeper, ok := keeperInterface.(interface {
		Encrypt(ctx context.Context, plaintext []byte) ([]byte, error)
	})
	if !ok {
		return fmt.Errorf("KMS keeper does not support encryption")
	}

	wrapped, err := keeper.Encrypt(ctx, key)
	if err != nil {
		return fmt.Errorf("failed to wrap key: %w", err)
	}

	fmt.Fprintf(w, "ENCRYPTION_KEY_WRAPPED=%s\n", base64.StdEncoding.EncodeToString(wrapped))
	fmt.Fprintf(w, "KMS_KEY_URI=%s\n", kmsKeyURI)
	return nil
}
