package handler

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/marktrack/marktrack-backend/internal/common"
	"github.com/marktrack/marktrack-backend/internal/service"
)

// VersionHandler handles document version history requests
type VersionHandler struct {
	service service.DocumentService
}

// NewVersionHandler creates a new VersionHandler
func NewVersionHandler(service service.DocumentService) *VersionHandler {
	return &VersionHandler{service: service}
}

// List handles GET /api/v1/documents/:id/versions
func (h *VersionHandler) List(c *gin.Context) {
	id, ok := parseID(c, "id")
	if !ok {
		return
	}

	versions, err := h.service.ListVersions(c.Request.Context(), id)
	if err != nil {
		respondError(c, err, "Failed to list versions")
		return
	}

	c.JSON(http.StatusOK, common.APIResponse{Data: versions})
}

// Restore handles POST /api/v1/documents/:id/versions/:versionId/restore
func (h *VersionHandler) Restore(c *gin.Context) {
	id, ok := parseID(c, "id")
	if !ok {
		return
	}
	versionID, ok := parseID(c, "versionId")
	if !ok {
		return
	}

	result, err := h.service.RestoreVersion(c.Request.Context(), id, versionID, c.Query("user_email"))
	if err != nil {
		respondError(c, err, "Failed to restore version")
		return
	}

	c.JSON(http.StatusOK, common.APIResponse{Data: result})
}
