// Package dto provides data transfer objects for HTTP request and response handling.
package dto

import (
	"time"

	validation "github.com/jellydator/validation"

	customValidation "github.com/vaultcode/vaultcode/internal/validation"
)

// CreateOrUpdateSecretRequest contains the parameters for the upsert endpoint.
// An empty ID asks the server to generate a vault code; a known ID updates the
// existing secret in place.
type CreateOrUpdateSecretRequest struct {
	ID         string    `json:"id"`
	Content    string    `json:"content"`
	Password   string    `json:"password"`
	ExpiryTime time.Time `json:"expiry_time"`
}

// Validate checks if the create or update secret request is valid.
func (r *CreateOrUpdateSecretRequest) Validate() error {
	return validation.ValidateStruct(r,
		validation.Field(&r.ID, customValidation.VaultCode),
		validation.Field(&r.Content, validation.Required),
	)
}

// CreateSecretRequest contains the parameters for explicit creation under a
// caller-chosen vault code. The code comes from the URL, not the body.
type CreateSecretRequest struct {
	Content    string    `json:"content"`
	Password   string    `json:"password"`
	ExpiryTime time.Time `json:"expiry_time"`
}

// Validate checks if the create secret request is valid.
func (r *CreateSecretRequest) Validate() error {
	return validation.ValidateStruct(r,
		validation.Field(&r.Content, validation.Required),
	)
}
