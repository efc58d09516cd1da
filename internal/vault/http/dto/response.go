// Package dto provides data transfer objects for HTTP request and response handling.
package dto

import (
	"time"

	vaultDomain "github.com/vaultcode/vaultcode/internal/vault/domain"
)

// SecretResponse represents secret metadata in API responses. Ciphertext and
// passwords never appear here.
type SecretResponse struct {
	ID         string    `json:"id"`
	ExpiryTime time.Time `json:"expiry_time"`
	CreatedAt  time.Time `json:"created_at"`
	UpdatedAt  time.Time `json:"updated_at"`
}

// MapSecretToResponse converts a domain secret to its metadata response.
func MapSecretToResponse(secret *vaultDomain.Secret) SecretResponse {
	return SecretResponse{
		ID:         secret.ID,
		ExpiryTime: secret.ExpiryTime,
		CreatedAt:  secret.CreatedAt,
		UpdatedAt:  secret.UpdatedAt,
	}
}

// UpsertSecretResponse carries the vault code resulting from an upsert.
type UpsertSecretResponse struct {
	ID string `json:"id"`
}

// HistoryEntryResponse represents one prior version of a secret.
type HistoryEntryResponse struct {
	Content   string    `json:"content"`
	CreatedAt time.Time `json:"created_at"`
}

// RetrievedSecretResponse represents a decrypted secret with its history,
// newest history entry first.
type RetrievedSecretResponse struct {
	ID      string                 `json:"id"`
	Content string                 `json:"content"`
	History []HistoryEntryResponse `json:"history"`
}

// MapRetrievedSecretToResponse converts a decrypted domain secret to an API response.
func MapRetrievedSecretToResponse(secret *vaultDomain.RetrievedSecret) RetrievedSecretResponse {
	history := make([]HistoryEntryResponse, 0, len(secret.History))
	for _, entry := range secret.History {
		history = append(history, HistoryEntryResponse{
			Content:   entry.Content,
			CreatedAt: entry.CreatedAt,
		})
	}

	return RetrievedSecretResponse{
		ID:      secret.ID,
		Content: secret.Content,
		History: history,
	}
}

// AdminSecretResponse represents a secret in the admin listing.
type AdminSecretResponse struct {
	ID                  string                 `json:"id"`
	ContentPreview      string                 `json:"content_preview"`
	IsPasswordProtected bool                   `json:"is_password_protected"`
	ExpiryTime          time.Time              `json:"expiry_time"`
	CreatedAt           time.Time              `json:"created_at"`
	UpdatedAt           time.Time              `json:"updated_at"`
	History             []HistoryEntryResponse `json:"history"`
}

// ListAdminSecretsResponse represents a paginated admin listing.
type ListAdminSecretsResponse struct {
	Data []AdminSecretResponse `json:"data"`
}

// MapAdminSecretsToListResponse converts admin domain secrets to a list response.
func MapAdminSecretsToListResponse(secrets []*vaultDomain.AdminSecret) ListAdminSecretsResponse {
	data := make([]AdminSecretResponse, 0, len(secrets))
	for _, secret := range secrets {
		history := make([]HistoryEntryResponse, 0, len(secret.History))
		for _, entry := range secret.History {
			history = append(history, HistoryEntryResponse{
				Content:   entry.Content,
				CreatedAt: entry.CreatedAt,
			})
		}

		data = append(data, AdminSecretResponse{
			ID:                  secret.ID,
			ContentPreview:      secret.ContentPreview,
			IsPasswordProtected: secret.IsPasswordProtected,
			ExpiryTime:          secret.ExpiryTime,
			CreatedAt:           secret.CreatedAt,
			UpdatedAt:           secret.UpdatedAt,
			History:             history,
		})
	}

	return ListAdminSecretsResponse{
		Data: data,
	}
}
