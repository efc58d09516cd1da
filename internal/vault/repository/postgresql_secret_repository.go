// Package repository implements data persistence for vault secrets and their
// history. Repositories support both PostgreSQL and MySQL and resolve an active
// transaction from the context, so the use case layer can compose the history
// snapshot and the secret overwrite into one atomic unit.
package repository

import (
	"context"
	"database/sql"
	"time"

	"github.com/lib/pq"

	"github.com/vaultcode/vaultcode/internal/database"
	apperrors "github.com/vaultcode/vaultcode/internal/errors"
	vaultDomain "github.com/vaultcode/vaultcode/internal/vault/domain"
)

// PostgreSQLSecretRepository implements Secret persistence for PostgreSQL databases.
type PostgreSQLSecretRepository struct {
	db *sql.DB
}

// NewPostgreSQLSecretRepository creates a new PostgreSQL Secret repository instance.
func NewPostgreSQLSecretRepository(db *sql.DB) *PostgreSQLSecretRepository {
	return &PostgreSQLSecretRepository{db: db}
}

// Create inserts a new secret. A duplicate vault code fails with ErrConflict.
func (p *PostgreSQLSecretRepository) Create(ctx context.Context, secret *vaultDomain.Secret) error {
	querier := database.GetTx(ctx, p.db)

	query := `INSERT INTO secrets (id, ciphertext, iv, password_ciphertext, password_iv, expiry_time, created_at, updated_at)
			  VALUES ($1, $2, $3, $4, $5, $6, $7, $8)`

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
		if isPostgresUniqueViolation(err) {
			return vaultDomain.ErrSecretConflict
		}
		return apperrors.Wrap(err, "failed to create secret")
	}
	return nil
}

// Get retrieves a secret by its vault code.
func (p *PostgreSQLSecretRepository) Get(ctx context.Context, id string) (*vaultDomain.Secret, error) {
	querier := database.GetTx(ctx, p.db)

	query := `SELECT id, ciphertext, iv, password_ciphertext, password_iv, expiry_time, created_at, updated_at
			  FROM secrets
			  WHERE id = $1`

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
func (p *PostgreSQLSecretRepository) Update(ctx context.Context, secret *vaultDomain.Secret) error {
	querier := database.GetTx(ctx, p.db)

	query := `UPDATE secrets
			  SET ciphertext = $1, iv = $2, password_ciphertext = $3, password_iv = $4, expiry_time = $5, updated_at = $6
			  WHERE id = $7`

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
func (p *PostgreSQLSecretRepository) InsertHistory(ctx context.Context, entry *vaultDomain.HistoryEntry) error {
	querier := database.GetTx(ctx, p.db)

	query := `INSERT INTO secret_history (id, secret_id, ciphertext, iv, created_at)
			  VALUES ($1, $2, $3, $4, $5)`

	_, err := querier.ExecContext(
		ctx,
		query,
		entry.ID,
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
func (p *PostgreSQLSecretRepository) ListHistory(
	ctx context.Context,
	secretID string,
) ([]*vaultDomain.HistoryEntry, error) {
	querier := database.GetTx(ctx, p.db)

	query := `SELECT id, secret_id, ciphertext, iv, created_at
			  FROM secret_history
			  WHERE secret_id = $1
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
		if err := rows.Scan(
			&entry.ID,
			&entry.SecretID,
			&entry.Ciphertext,
			&entry.IV,
			&entry.CreatedAt,
		); err != nil {
			return nil, apperrors.Wrap(err, "failed to scan history entry")
		}
		entries = append(entries, &entry)
	}
	if err := rows.Err(); err != nil {
		return nil, apperrors.Wrap(err, "failed to iterate history entries")
	}

	return entries, nil
}

// Delete removes a secret and, via cascade, its history. Idempotent: deleting a
// nonexistent vault code is not an error.
func (p *PostgreSQLSecretRepository) Delete(ctx context.Context, id string) error {
	querier := database.GetTx(ctx, p.db)

	query := `DELETE FROM secrets WHERE id = $1`

	if _, err := querier.ExecContext(ctx, query, id); err != nil {
		return apperrors.Wrap(err, "failed to delete secret")
	}
	return nil
}

// List retrieves secrets ordered by creation time descending, newest first.
// Expired records are included: this is the administrative enumeration surface.
func (p *PostgreSQLSecretRepository) List(
	ctx context.Context,
	offset, limit int,
) ([]*vaultDomain.Secret, error) {
	querier := database.GetTx(ctx, p.db)

	query := `SELECT id, ciphertext, iv, password_ciphertext, password_iv, expiry_time, created_at, updated_at
			  FROM secrets
			  ORDER BY created_at DESC
			  OFFSET $1 LIMIT $2`

	rows, err := querier.QueryContext(ctx, query, offset, limit)
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
func (p *PostgreSQLSecretRepository) CountExpired(ctx context.Context, now time.Time) (int64, error) {
	querier := database.GetTx(ctx, p.db)

	query := `SELECT COUNT(*) FROM secrets WHERE expiry_time < $1`

	var count int64
	if err := querier.QueryRowContext(ctx, query, now).Scan(&count); err != nil {
		return 0, apperrors.Wrap(err, "failed to count expired secrets")
	}
	return count, nil
}

// DeleteExpired bulk-deletes secrets whose expiry time has passed and returns
// the number of rows removed. Used by the administrative sweep command only;
// retrieval keeps enforcing expiry lazily.
func (p *PostgreSQLSecretRepository) DeleteExpired(ctx context.Context, now time.Time) (int64, error) {
	querier := database.GetTx(ctx, p.db)

	query := `DELETE FROM secrets WHERE expiry_time < $1`

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

// isPostgresUniqueViolation reports whether err is a unique constraint violation.
func isPostgresUniqueViolation(err error) bool {
	var pqErr *pq.Error
	if apperrors.As(err, &pqErr) {
		return pqErr.Code == "23505"
	}
	return false
}
