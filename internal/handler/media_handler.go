package handler

import (
	"net/http"
	"strings"

	"github.com/gin-gonic/gin"

	"github.com/marktrack/marktrack-backend/internal/common"
	"github.com/marktrack/marktrack-backend/internal/service"
)

// MediaHandler serves extracted editor images
type MediaHandler struct {
	service service.DocumentService
}

// NewMediaHandler creates a new MediaHandler
func NewMediaHandler(service service.DocumentService) *MediaHandler {
	return &MediaHandler{service: service}
}

// GetImage handles GET /api/v1/image/:filename by redirecting to a
// temporary direct-download URL on object storage
func (h *MediaHandler) GetImage(c *gin.Context) {
	filename := c.Param("filename")
	if filename == "" || strings.Contains(filename, "/") || strings.Contains(filename, "..") {
		common.ErrorResponse(c, http.StatusBadRequest, "Invalid image name", nil)
		return
	}

	url, err := h.service.ImageURL(c.Request.Context(), filename)
	if err != nil {
		respondError(c, err, "Failed to resolve image")
		return
	}

	c.Redirect(http.StatusFound, url)
}
