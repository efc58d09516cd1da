package service

import (
	"context"
	"crypto/rand"
	"encoding/base64"
	"encoding/hex"
	"fmt"
	"log/slog"
)

// KeySource describes where the 32-byte content encryption key comes from.
type KeySource struct {
	// HexKey is the hex-encoded key supplied directly via configuration.
	HexKey string
	// KMSKeyURI and WrappedKeyBase64 together describe a KMS-wrapped key that is
	// unwrapped at startup via gocloud.dev/secrets.
	KMSKeyURI        string
	WrappedKeyBase64 string
}

// LoadKey resolves the content encryption key at process start.
//
// Resolution order: KMS-wrapped key, then the hex-encoded key, then a random
// process-lifetime key. The random fallback is a documented degraded mode, not
// a silent gap: a loud warning is logged and every secret written in that mode
// is unreadable after a restart.
func LoadKey(ctx context.Context, kms KMSService, src KeySource, logger *slog.Logger) ([]byte, error) {
	if src.KMSKeyURI != "" && src.WrappedKeyBase64 != "" {
		return unwrapKey(ctx, kms, src)
	}

	if src.HexKey != "" {
		key, err := hex.DecodeString(src.HexKey)
		if err != nil {
			return nil, fmt.Errorf("invalid ENCRYPTION_KEY: %w", err)
		}
		if len(key) != 32 {
			return nil, fmt.Errorf("invalid ENCRYPTION_KEY: expected 32 bytes, got %d", len(key))
		}
		return key, nil
	}

	logger.Warn(
		"ENCRYPTION_KEY not configured, generated a random process-lifetime key: " +
			"secrets written now CANNOT be decrypted after a restart",
	)

	key := make([]byte, 32)
	if _, err := rand.Read(key); err != nil {
		return nil, fmt.Errorf("failed to generate ephemeral key: %w", err)
	}
	return key, nil
}

// unwrapKey decrypts a KMS-wrapped content key via the configured keeper.
func unwrapKey(ctx context.Context, kms KMSService, src KeySource) ([]byte, error) {
	wrapped, err := base64.StdEncoding.DecodeString(src.WrappedKeyBase64)
	if err != nil {
		return nil, fmt.Errorf("invalid ENCRYPTION_KEY_WRAPPED: %w", err)
	}

	keeper, err := kms.OpenKeeper(ctx, src.KMSKeyURI)
	if err != nil {
		return nil, err
	}
	defer func() {
		_ = keeper.Close()
	}()

	key, err := keeper.Decrypt(ctx, wrapped)
	if err != nil {
		return nil, fmt.Errorf("failed to unwrap encryption key: %w", err)
	}
	if len(key) != 32 {
		return nil, fmt.Errorf("unwrapped encryption key: expected 32 bytes, got %d", len(key))
	}

	return key, nil
}
