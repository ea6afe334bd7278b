package handler

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/marktrack/marktrack-backend/internal/common"
	"github.com/marktrack/marktrack-backend/internal/domain"
	"github.com/marktrack/marktrack-backend/internal/service"
)

// ShareHandler handles document share grant requests
type ShareHandler struct {
	service service.ShareService
}

// NewShareHandler creates a new ShareHandler
func NewShareHandler(service service.ShareService) *ShareHandler {
	return &ShareHandler{service: service}
}

// Create handles POST /api/v1/documents/:id/share
func (h *ShareHandler) Create(c *gin.Context) {
	id, ok := parseID(c, "id")
	if !ok {
		return
	}

	var req domain.CreateShareRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		common.ErrorResponse(c, http.StatusBadRequest, "Invalid request body", err)
		return
	}

	share, err := h.service.Create(c.Request.Context(), id, &req)
	if err != nil {
		respondError(c, err, "Failed to share document")
		return
	}

	c.JSON(http.StatusCreated, common.APIResponse{Data: share})
}

// ListByDocument handles GET /api/v1/documents/:id/shares
func (h *ShareHandler) ListByDocument(c *gin.Context) {
	id, ok := parseID(c, "id")
	if !ok {
		return
	}

	shares, err := h.service.ListByDocument(c.Request.Context(), id)
	if err != nil {
		respondError(c, err, "Failed to list shares")
		return
	}

	c.JSON(http.StatusOK, common.APIResponse{Data: shares})
}

// ListByUser handles GET /api/v1/shares
func (h *ShareHandler) ListByUser(c *gin.Context) {
	userEmail := c.Query("user_email")
	if userEmail == "" {
		common.ErrorResponse(c, http.StatusBadRequest, "user_email is required", nil)
		return
	}

	shares, err := h.service.ListByUser(c.Request.Context(), userEmail)
	if err != nil {
		respondError(c, err, "Failed to list shares")
		return
	}

	c.JSON(http.StatusOK, common.APIResponse{Data: shares})
}

// Resolve handles GET /api/v1/shared/:token
func (h *ShareHandler) Resolve(c *gin.Context) {
	token := c.Param("token")
	if token == "" {
		common.ErrorResponse(c, http.StatusBadRequest, "Share token is required", nil)
		return
	}

	resolved, err := h.service.Resolve(c.Request.Context(), token)
	if err != nil {
		respondError(c, err, "Failed to resolve share link")
		return
	}

	c.JSON(http.StatusOK, common.APIResponse{Data: resolved})
}

// Update handles PUT /api/v1/shares/:shareId
func (h *ShareHandler) Update(c *gin.Context) {
	shareID, ok := parseID(c, "shareId")
	if !ok {
		return
	}

	var req domain.UpdateShareRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		common.ErrorResponse(c, http.StatusBadRequest, "Invalid request body", err)
		return
	}

	share, err := h.service.Update(c.Request.Context(), shareID, &req)
	if err != nil {
		respondError(c, err, "Failed to update share")
		return
	}

	c.JSON(http.StatusOK, common.APIResponse{Data: share})
}

// Revoke handles DELETE /api/v1/shares/:shareId
func (h *ShareHandler) Revoke(c *gin.Context) {
	shareID, ok := parseID(c, "shareId")
	if !ok {
		return
	}

	if err := h.service.Revoke(c.Request.Context(), shareID); err != nil {
		respondError(c, err, "Failed to revoke share")
		return
	}

	c.JSON(http.StatusOK, common.APIResponse{Data: gin.H{"status": "revoked"}})
}
