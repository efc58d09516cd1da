package repository

import (
	"context"
	"database/sql"
	"time"

	"github.com/go-sql-driver/mysql"

	"github.com/vaultcode/vaultcode/internal/database"
	apperrors "github.com/vaultcode/vaultcode/internal/errors"
	vaultDomain "github.com/vaultcode/vaultcode/internal/vault/domain"
)

// MySQLSecretRepository implements Secret persistence for MySQL databases.
type MySQLSecretRepository struct {
	db *sql.DB
}

// NewMySQLSecretRepository creates a new MySQL Secret repository instance.
func NewMySQLSecretRepository(db *sql.DB) *MySQLSecretRepository {
	return &MySQLSecretRepository{db: db}
}

// Create inserts a new secret. A duplicate vault code fails with ErrConflict.
func (m *MySQLSecretRepository) Create(ctx context.Context, secret *vaultDomain.Secret) error {
	querier := database.GetTx(ctx, m.db)

	query := `INSERT INTO secrets (id, ciphertext, iv, password_ciphertext, password_iv, expiry_time, created_at, updated_at)
			  VALUES (?, ?, ?, ?, ?, ?, ?, ?)`

	_, err := querier.ExecContext(
		ctx,
		query,
		secret.ID,
		secret.Ciphertext,
		secret.IV,
		secret.PasswordCiphertext,
		secret.PasswordIV,
		secret.ExpiryTime,
		secret.CreatedAt,
		secret.UpdatedAt,
	)
	if err != nil {
		if isMySQLDuplicateEntry(err) {
			return vaultDomain.ErrSecretConflict
		}
		return apperrors.Wrap(err, "failed to create secret")
	}
	return nil
}

// Get retrieves a secret by its vault code.
func (m *MySQLSecretRepository) Get(ctx context.Context, id string) (*vaultDomain.Secret, error) {
	querier := database.GetTx(ctx, m.db)

	query := `SELECT id, ciphertext, iv, password_ciphertext, password_iv, expiry_time, created_at, updated_at
			  FROM secrets
			  WHERE id = ?`

	var secret vaultDomain.Secret
	err := querier.QueryRowContext(ctx, query, id).Scan(
		&secret.ID,
		&secret.Ciphertext,
		&secret.IV,
		&secret.PasswordCiphertext,
		&secret.PasswordIV,
		&secret.ExpiryTime,
		&secret.CreatedAt,
		&secret.UpdatedAt,
	)
	if err != nil {
		if err == sql.ErrNoRows {
			return nil, apperrors.ErrNotFound
		}
		return nil, apperrors.Wrap(err, "failed to get secret")
	}

	return &secret, nil
}

// Update overwrites the secret's content, password fields and expiry.
// Fails with ErrNotFound if the vault code does not exist.
func (m *MySQLSecretRepository) Update(ctx context.Context, secret *vaultDomain.Secret) error {
	querier := database.GetTx(ctx, m.db)

	query := `UPDATE secrets
			  SET ciphertext = ?, iv = ?, password_ciphertext = ?, password_iv = ?, expiry_time = ?, updated_at = ?
			  WHERE id = ?`

	result, err := querier.ExecContext(
		ctx,
		query,
		secret.Ciphertext,
		secret.IV,
		secret.PasswordCiphertext,
		secret.PasswordIV,
		secret.ExpiryTime,
		secret.UpdatedAt,
		secret.ID,
	)
	if err != nil {
		return apperrors.Wrap(err, "failed to update secret")
	}

	rows, err := result.RowsAffected()
	if err != nil {
		return apperrors.Wrap(err, "failed to read update result")
	}
	if rows == 0 {
		return apperrors.ErrNotFound
	}

	return nil
}

// InsertHistory appends an immutable snapshot of a secret's prior ciphertext.
func (m *MySQLSecretRepository) InsertHistory(ctx context.Context, entry *vaultDomain.HistoryEntry) error {
	querier := database.GetTx(ctx, m.db)

	query := `INSERT INTO secret_history (id, secret_id, ciphertext, iv, created_at)
			  VALUES (?, ?, ?, ?, ?)`

	id, err := entry.ID.MarshalBinary()
	if err != nil {
		return apperrors.Wrap(err, "failed to encode history entry id")
	}

	_, err = querier.ExecContext(
		ctx,
		query,
		id,
		entry.SecretID,
		entry.Ciphertext,
		entry.IV,
		entry.CreatedAt,
	)
	if err != nil {
		return apperrors.Wrap(err, "failed to insert history entry")
	}
	return nil
}

// ListHistory retrieves a secret's history entries, most recent first.
func (m *MySQLSecretRepository) ListHistory(
	ctx context.Context,
	secretID string,
) ([]*vaultDomain.HistoryEntry, error) {
	querier := database.GetTx(ctx, m.db)

	query := `SELECT id, secret_id, ciphertext, iv, created_at
			  FROM secret_history
			  WHERE secret_id = ?
			  ORDER BY created_at DESC`

	rows, err := querier.QueryContext(ctx, query, secretID)
	if err != nil {
		return nil, apperrors.Wrap(err, "failed to list history entries")
	}
	defer func() {
		_ = rows.Close()
	}()

	var entries []*vaultDomain.HistoryEntry
	for rows.Next() {
		var entry vaultDomain.HistoryEntry
		var rawID []byte
		if err := rows.Scan(
			&rawID,
			&entry.SecretID,
			&entry.Ciphertext,
			&entry.IV,
			&entry.CreatedAt,
		); err != nil {
			return nil, apperrors.Wrap(err, "failed to scan history entry")
		}
		if err := entry.ID.UnmarshalBinary(rawID); err != nil {
			return nil, apperrors.Wrap(err, "failed to decode history entry id")
		}
		entries = append(entries, &entry)
	}
	if err := rows.Err(); err != nil {
		return nil, apperrors.Wrap(err, "failed to iterate history entries")
	}

	return entries, nil
}

// Delete removes a secret and, via cascade, its history. Idempotent.
func (m *MySQLSecretRepository) Delete(ctx context.Context, id string) error {
	querier := database.GetTx(ctx, m.db)

	query := `DELETE FROM secrets WHERE id = ?`

	if _, err := querier.ExecContext(ctx, query, id); err != nil {
		return apperrors.Wrap(err, "failed to delete secret")
	}
	return nil
}

// List retrieves secrets ordered by creation time descending, newest first.
// Expired records are included: this is the administrative enumeration surface.
func (m *MySQLSecretRepository) List(
	ctx context.Context,
	offset, limit int,
) ([]*vaultDomain.Secret, error) {
	querier := database.GetTx(ctx, m.db)

	query := `SELECT id, ciphertext, iv, password_ciphertext, password_iv, expiry_time, created_at, updated_at
			  FROM secrets
			  ORDER BY created_at DESC
			  LIMIT ? OFFSET ?`

	rows, err := querier.QueryContext(ctx, query, limit, offset)
	if err != nil {
		return nil, apperrors.Wrap(err, "failed to list secrets")
	}
	defer func() {
		_ = rows.Close()
	}()

	var secrets []*vaultDomain.Secret
	for rows.Next() {
		var secret vaultDomain.Secret
		if err := rows.Scan(
			&secret.ID,
			&secret.Ciphertext,
			&secret.IV,
			&secret.PasswordCiphertext,
			&secret.PasswordIV,
			&secret.ExpiryTime,
			&secret.CreatedAt,
			&secret.UpdatedAt,
		); err != nil {
			return nil, apperrors.Wrap(err, "failed to scan secret")
		}
		secrets = append(secrets, &secret)
	}
	if err := rows.Err(); err != nil {
		return nil, apperrors.Wrap(err, "failed to iterate secrets")
	}

	return secrets, nil
}

// CountExpired returns the number of secrets whose expiry time has passed.
func (m *MySQLSecretRepository) CountExpired(ctx context.Context, now time.Time) (int64, error) {
	querier := database.GetTx(ctx, m.db)

	query := `SELECT COUNT(*) FROM secrets WHERE expiry_time < ?`

	var count int64
	if err := querier.QueryRowContext(ctx, query, now).Scan(&count); err != nil {
		return 0, apperrors.Wrap(err, "failed to count expired secrets")
	}
	return count, nil
}

// DeleteExpired bulk-deletes secrets whose expiry time has passed and returns
// the number of rows removed.
func (m *MySQLSecretRepository) DeleteExpired(ctx context.Context, now time.Time) (int64, error) {
	querier := database.GetTx(ctx, m.db)

	query := `DELETE FROM secrets WHERE expiry_time < ?`

	result, err := querier.ExecContext(ctx, query, now)
	if err != nil {
		return 0, apperrors.Wrap(err, "failed to delete expired secrets")
	}

	count, err := result.RowsAffected()
	if err != nil {
		return 0, apperrors.Wrap(err, "failed to read delete result")
	}
	return count, nil
}

// isMySQLDuplicateEntry reports whether err is a duplicate key error (1062).
func isMySQLDuplicateEntry(err error) bool {
	var mysqlErr *mysql.MySQLError
	if apperrors.As(err, &mysqlErr) {
		return mysqlErr.Number == 1062
	}
	return false
}
