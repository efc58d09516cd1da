package usecase

import (
	"context"
	"crypto/subtle"
	"fmt"
	"log/slog"
	"time"

	"github.com/google/uuid"

	cryptoService "github.com/vaultcode/vaultcode/internal/crypto/service"
	"github.com/vaultcode/vaultcode/internal/database"
	"github.com/vaultcode/vaultcode/internal/errors"
	vaultDomain "github.com/vaultcode/vaultcode/internal/vault/domain"
)

// adminPreviewRunes caps the decrypted content preview in admin listings.
const adminPreviewRunes = 100

type vaultUseCase struct {
	repository      SecretRepository
	txManager       database.TxManager
	cipher          cryptoService.AEAD
	logger          *slog.Logger
	defaultExpiry   time.Duration
	maxContentBytes int
	now             func() time.Time
}

// NewVaultUseCase creates a new VaultUseCase.
func NewVaultUseCase(repository SecretRepository, txManager database.TxManager, cipher cryptoService.AEAD, logger *slog.Logger, defaultExpiry time.Duration, maxContentBytes int) VaultUseCase {
	return &vaultUseCase{
		repository:      repository,
		txManager:       txManager,
		cipher:          cipher,
		logger:          logger,
		defaultExpiry:   defaultExpiry,
		maxContentBytes: maxContentBytes,
		now:             time.Now,
	}
}

func (v *vaultUseCase) validateInput(input SecretInput) error {
	if input.Content == "" {
		return errors.Wrap(errors.ErrInvalidInput, "content must not be empty")
	}
	if len(input.Content) > v.maxContentBytes {
		return errors.Wrap(errors.ErrInvalidInput, fmt.Sprintf("content exceeds the maximum of %d bytes", v.maxContentBytes))
	}
	if !input.ExpiryTime.IsZero() && !input.ExpiryTime.After(v.now()) {
		return errors.Wrap(errors.ErrInvalidInput, "expiry_time must be in the future")
	}
	return nil
}

// buildSecret encrypts the input into a Secret ready for persistence.
func (v *vaultUseCase) buildSecret(id string, input SecretInput, createdAt time.Time) (*vaultDomain.Secret, error) {
	now := v.now()

	ciphertext, iv, err := v.cipher.Encrypt([]byte(input.Content), nil)
	if err != nil {
		return nil, errors.Wrap(err, "failed to encrypt content")
	}

	secret := &vaultDomain.Secret{
		ID:         id,
		Ciphertext: ciphertext,
		IV:         iv,
		ExpiryTime: input.ExpiryTime,
		CreatedAt:  createdAt,
		UpdatedAt:  now,
	}
	if secret.ExpiryTime.IsZero() {
		secret.ExpiryTime = now.Add(v.defaultExpiry)
	}

	if input.Password != "" {
		passwordCiphertext, passwordIV, err := v.cipher.Encrypt([]byte(input.Password), nil)
		if err != nil {
			return nil, errors.Wrap(err, "failed to encrypt password")
		}
		secret.PasswordCiphertext = passwordCiphertext
		secret.PasswordIV = passwordIV
	}

	return secret, nil
}

func (v *vaultUseCase) Create(ctx context.Context, input CreateSecretInput) (*vaultDomain.Secret, error) {
	if err := v.validateInput(input.SecretInput); err != nil {
		return nil, err
	}

	id := input.ID
	if id == "" {
		code, err := uuid.NewV7()
		if err != nil {
			return nil, errors.Wrap(err, "failed to generate vault code")
		}
		id = code.String()
	}

	secret, err := v.buildSecret(id, input.SecretInput, v.now())
	if err != nil {
		return nil, err
	}

	if err := v.repository.Create(ctx, secret); err != nil {
		if errors.Is(err, errors.ErrConflict) {
			return nil, vaultDomain.ErrSecretConflict
		}
		return nil, err
	}

	return secret, nil
}

func (v *vaultUseCase) Update(ctx context.Context, id string, input SecretInput) (*vaultDomain.Secret, error) {
	if err := v.validateInput(input); err != nil {
		return nil, err
	}

	var updated *vaultDomain.Secret

	// The history snapshot and the overwrite commit together: a concurrent
	// reader sees either the old version with the old history or the new
	// version with the grown history, never a half-applied state.
	err := v.txManager.WithTx(ctx, func(txCtx context.Context) error {
		current, err := v.repository.Get(txCtx, id)
		if err != nil {
			if errors.Is(err, errors.ErrNotFound) {
				return vaultDomain.ErrSecretNotFound
			}
			return err
		}

		entryID, err := uuid.NewV7()
		if err != nil {
			return errors.Wrap(err, "failed to generate history entry id")
		}
		entry := &vaultDomain.HistoryEntry{
			ID:         entryID,
			SecretID:   current.ID,
			Ciphertext: current.Ciphertext,
			IV:         current.IV,
			CreatedAt:  v.now(),
		}
		if err := v.repository.InsertHistory(txCtx, entry); err != nil {
			return err
		}

		updated, err = v.buildSecret(id, input, current.CreatedAt)
		if err != nil {
			return err
		}
		return v.repository.Update(txCtx, updated)
	})
	if err != nil {
		return nil, err
	}

	return updated, nil
}

func (v *vaultUseCase) CreateOrUpdate(ctx context.Context, id string, input SecretInput) (string, error) {
	if id == "" {
		secret, err := v.Create(ctx, CreateSecretInput{SecretInput: input})
		if err != nil {
			return "", err
		}
		return secret.ID, nil
	}

	secret, err := v.Update(ctx, id, input)
	if err != nil {
		return "", err
	}
	return secret.ID, nil
}

func (v *vaultUseCase) Retrieve(ctx context.Context, id, password string) (*vaultDomain.RetrievedSecret, error) {
	var secret *vaultDomain.Secret
	var entries []*vaultDomain.HistoryEntry
	var expired bool

	// The live row and its history are read inside one transaction: an update
	// committing between the two reads must not pair the previous ciphertext
	// with the history snapshot of that same content.
	err := v.txManager.WithTx(ctx, func(ctx context.Context) error {
		current, err := v.repository.Get(ctx, id)
		if err != nil {
			return err
		}

		// Expiry wins over the password gate: an expired secret is purged and
		// reported expired even when the caller sent no password. The expired
		// outcome is carried out of the closure so the purge still commits.
		if current.IsExpired(v.now()) {
			expired = true
			if err := v.repository.Delete(ctx, id); err != nil {
				v.logger.Error("failed to purge expired secret", "secret_id", id, "error", err)
			}
			return nil
		}

		entries, err = v.repository.ListHistory(ctx, id)
		if err != nil {
			return err
		}

		secret = current
		return nil
	})
	if err != nil {
		if errors.Is(err, errors.ErrNotFound) {
			return nil, vaultDomain.ErrSecretNotFound
		}
		return nil, err
	}
	if expired {
		return nil, vaultDomain.ErrSecretExpired
	}

	if secret.IsPasswordProtected() {
		if password == "" {
			return nil, vaultDomain.ErrPasswordRequired
		}
		storedPassword, err := v.cipher.Decrypt(secret.PasswordCiphertext, secret.PasswordIV, nil)
		if err != nil {
			v.logger.Error("failed to decrypt secret password", "secret_id", id, "error", err)
			return nil, vaultDomain.ErrDecryptionFailed
		}
		if subtle.ConstantTimeCompare([]byte(password), storedPassword) != 1 {
			return nil, vaultDomain.ErrInvalidPassword
		}
	}

	content, err := v.cipher.Decrypt(secret.Ciphertext, secret.IV, nil)
	if err != nil {
		v.logger.Error("failed to decrypt secret content", "secret_id", id, "error", err)
		return nil, vaultDomain.ErrDecryptionFailed
	}

	history := make([]vaultDomain.RetrievedHistoryEntry, 0, len(entries))
	for _, entry := range entries {
		entryContent, err := v.cipher.Decrypt(entry.Ciphertext, entry.IV, nil)
		if err != nil {
			v.logger.Error("failed to decrypt history entry", "secret_id", id, "entry_id", entry.ID, "error", err)
			return nil, vaultDomain.ErrDecryptionFailed
		}
		history = append(history, vaultDomain.RetrievedHistoryEntry{
			Content:   string(entryContent),
			CreatedAt: entry.CreatedAt,
		})
	}

	return &vaultDomain.RetrievedSecret{
		ID:      secret.ID,
		Content: string(content),
		History: history,
	}, nil
}

func (v *vaultUseCase) Delete(ctx context.Context, id string) error {
	return v.repository.Delete(ctx, id)
}

func (v *vaultUseCase) AdminList(ctx context.Context, offset, limit int) ([]*vaultDomain.AdminSecret, error) {
	var secrets []*vaultDomain.Secret
	historyBySecret := make(map[string][]*vaultDomain.HistoryEntry)

	// Same consistency rule as Retrieve: the page of secrets and their history
	// entries come from one transaction, so a concurrent update cannot show a
	// row next to the snapshot of the content it still displays.
	err := v.txManager.WithTx(ctx, func(ctx context.Context) error {
		var err error
		secrets, err = v.repository.List(ctx, offset, limit)
		if err != nil {
			return err
		}
		for _, secret := range secrets {
			entries, err := v.repository.ListHistory(ctx, secret.ID)
			if err != nil {
				return err
			}
			historyBySecret[secret.ID] = entries
		}
		return nil
	})
	if err != nil {
		return nil, err
	}

	result := make([]*vaultDomain.AdminSecret, 0, len(secrets))
	for _, secret := range secrets {
		admin := &vaultDomain.AdminSecret{
			ID:                  secret.ID,
			CreatedAt:           secret.CreatedAt,
			UpdatedAt:           secret.UpdatedAt,
			ExpiryTime:          secret.ExpiryTime,
			IsPasswordProtected: secret.IsPasswordProtected(),
		}

		// An undecryptable row (written under a lost key) is still listed so
		// the operator can see it exists; its preview stays empty.
		content, err := v.cipher.Decrypt(secret.Ciphertext, secret.IV, nil)
		if err != nil {
			v.logger.Warn("failed to decrypt secret for admin preview", "secret_id", secret.ID, "error", err)
		} else {
			admin.ContentPreview = truncateRunes(string(content), adminPreviewRunes)
		}

		for _, entry := range historyBySecret[secret.ID] {
			entryContent, err := v.cipher.Decrypt(entry.Ciphertext, entry.IV, nil)
			if err != nil {
				v.logger.Warn("failed to decrypt history entry for admin preview", "secret_id", secret.ID, "entry_id", entry.ID, "error", err)
				continue
			}
			admin.History = append(admin.History, vaultDomain.RetrievedHistoryEntry{
				Content:   truncateRunes(string(entryContent), adminPreviewRunes),
				CreatedAt: entry.CreatedAt,
			})
		}

		result = append(result, admin)
	}

	return result, nil
}

func (v *vaultUseCase) PurgeExpired(ctx context.Context, dryRun bool) (int64, error) {
	if dryRun {
		return v.repository.CountExpired(ctx, v.now())
	}
	return v.repository.DeleteExpired(ctx, v.now())
}

func truncateRunes(s string, max int) string {
	runes := []rune(s)
	if len(runes) <= max {
		return s
	}
	return string(runes[:max])
}
