package http

import (
	"log/slog"
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/vaultcode/vaultcode/internal/httputil"
	"github.com/vaultcode/vaultcode/internal/vault/http/dto"
	vaultUsecase "github.com/vaultcode/vaultcode/internal/vault/usecase"
)

// AdminHandler handles HTTP requests for the administrative surface.
type AdminHandler struct {
	vaultUseCase vaultUsecase.VaultUseCase
	logger       *slog.Logger
}

// NewAdminHandler creates a new admin handler.
func NewAdminHandler(vaultUseCase vaultUsecase.VaultUseCase, logger *slog.Logger) *AdminHandler {
	return &AdminHandler{
		vaultUseCase: vaultUseCase,
		logger:       logger,
	}
}

// ListHandler enumerates secrets with decrypted previews and history.
// GET /v1/admin/secrets?offset=N&limit=M - includes expired and
// password-protected secrets; passwords themselves are never exposed.
func (h *AdminHandler) ListHandler(c *gin.Context) {
	offset, limit, err := httputil.ParsePagination(c)
	if err != nil {
		httputil.HandleBadRequestGin(c, err, h.logger)
		return
	}

	secrets, err := h.vaultUseCase.AdminList(c.Request.Context(), offset, limit)
	if err != nil {
		httputil.HandleErrorGin(c, err, h.logger)
		return
	}

	c.JSON(http.StatusOK, dto.MapAdminSecretsToListResponse(secrets))
}
