// Package validation provides custom validation rules for the application.
package validation

import (
	"regexp"

	validation "github.com/jellydator/validation"

	apperrors "github.com/vaultcode/vaultcode/internal/errors"
)

// vaultCodeRegex restricts vault codes to URL-safe characters.
var vaultCodeRegex = regexp.MustCompile(`^[a-zA-Z0-9._\-]+$`)

// WrapValidationError wraps validation errors as domain ErrInvalidInput.
func WrapValidationError(err error) error {
	if err == nil {
		return nil
	}
	return apperrors.Wrap(apperrors.ErrInvalidInput, err.Error())
}

// VaultCode validates that a string is a usable vault code: URL-safe
// characters only, at most 128 characters.
var VaultCode = validation.By(func(value interface{}) error {
	s, ok := value.(string)
	if !ok {
		return validation.NewError("validation_vault_code_type", "must be a string")
	}
	if s == "" {
		return nil // Let Required handle empty strings
	}
	if len(s) > 128 {
		return validation.NewError("validation_vault_code_length", "must be at most 128 characters")
	}
	if !vaultCodeRegex.MatchString(s) {
		return validation.NewError(
			"validation_vault_code_charset",
			"must contain only letters, digits, dots, underscores and hyphens",
		)
	}
	return nil
})
