// Package http provides HTTP handlers for vault operations. Content is
// encrypted before it reaches storage and decrypted on retrieval; handlers
// only ever see ciphertext-free request and response bodies.
package http

import (
	"fmt"
	"log/slog"
	"net/http"

	"github.com/gin-gonic/gin"
	validation "github.com/jellydator/validation"

	"github.com/vaultcode/vaultcode/internal/httputil"
	"github.com/vaultcode/vaultcode/internal/vault/http/dto"
	vaultUsecase "github.com/vaultcode/vaultcode/internal/vault/usecase"
	customValidation "github.com/vaultcode/vaultcode/internal/validation"
)

// SecretHandler handles HTTP requests for secret operations.
type SecretHandler struct {
	vaultUseCase vaultUsecase.VaultUseCase
	logger       *slog.Logger
}

// NewSecretHandler creates a new secret handler.
func NewSecretHandler(vaultUseCase vaultUsecase.VaultUseCase, logger *slog.Logger) *SecretHandler {
	return &SecretHandler{
		vaultUseCase: vaultUseCase,
		logger:       logger,
	}
}

// CreateOrUpdateHandler creates or updates a secret in one call.
// POST /v1/secrets - an empty or absent id generates a vault code, a known id
// updates in place, an unknown id returns 404.
func (h *SecretHandler) CreateOrUpdateHandler(c *gin.Context) {
	var req dto.CreateOrUpdateSecretRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		httputil.HandleBadRequestGin(c, err, h.logger)
		return
	}

	if err := req.Validate(); err != nil {
		httputil.HandleValidationErrorGin(c, customValidation.WrapValidationError(err), h.logger)
		return
	}

	code, err := h.vaultUseCase.CreateOrUpdate(c.Request.Context(), req.ID, vaultUsecase.SecretInput{
		Content:    req.Content,
		Password:   req.Password,
		ExpiryTime: req.ExpiryTime,
	})
	if err != nil {
		httputil.HandleErrorGin(c, err, h.logger)
		return
	}

	c.JSON(http.StatusOK, dto.UpsertSecretResponse{ID: code})
}

// CreateHandler creates a secret under a caller-chosen vault code.
// POST /v1/secrets/:id - a taken vault code returns 409.
func (h *SecretHandler) CreateHandler(c *gin.Context) {
	id := c.Param("id")
	if err := validation.Validate(id, customValidation.VaultCode); err != nil {
		httputil.HandleValidationErrorGin(c, customValidation.WrapValidationError(err), h.logger)
		return
	}

	var req dto.CreateSecretRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		httputil.HandleBadRequestGin(c, err, h.logger)
		return
	}

	if err := req.Validate(); err != nil {
		httputil.HandleValidationErrorGin(c, customValidation.WrapValidationError(err), h.logger)
		return
	}

	secret, err := h.vaultUseCase.Create(c.Request.Context(), vaultUsecase.CreateSecretInput{
		ID: id,
		SecretInput: vaultUsecase.SecretInput{
			Content:    req.Content,
			Password:   req.Password,
			ExpiryTime: req.ExpiryTime,
		},
	})
	if err != nil {
		httputil.HandleErrorGin(c, err, h.logger)
		return
	}

	c.JSON(http.StatusCreated, dto.MapSecretToResponse(secret))
}

// GetHandler retrieves and decrypts a secret with its history.
// GET /v1/secrets/:id?password=... - expired secrets return 410 and are
// purged; password-protected secrets demand the password query parameter.
func (h *SecretHandler) GetHandler(c *gin.Context) {
	id := c.Param("id")
	if id == "" {
		httputil.HandleValidationErrorGin(c, fmt.Errorf("id cannot be empty"), h.logger)
		return
	}

	secret, err := h.vaultUseCase.Retrieve(c.Request.Context(), id, c.Query("password"))
	if err != nil {
		httputil.HandleErrorGin(c, err, h.logger)
		return
	}

	c.JSON(http.StatusOK, dto.MapRetrievedSecretToResponse(secret))
}

// DeleteHandler removes a secret and its history.
// DELETE /v1/secrets/:id - returns 204 whether or not the secret existed.
func (h *SecretHandler) DeleteHandler(c *gin.Context) {
	id := c.Param("id")
	if id == "" {
		httputil.HandleValidationErrorGin(c, fmt.Errorf("id cannot be empty"), h.logger)
		return
	}

	if err := h.vaultUseCase.Delete(c.Request.Context(), id); err != nil {
		httputil.HandleErrorGin(c, err, h.logger)
		return
	}

	c.Status(http.StatusNoContent)
}
