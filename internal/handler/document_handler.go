package handler

import (
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"

	"github.com/marktrack/marktrack-backend/internal/common"
	"github.com/marktrack/marktrack-backend/internal/domain"
	"github.com/marktrack/marktrack-backend/internal/service"
)

// DocumentHandler handles document lifecycle and content requests
type DocumentHandler struct {
	service service.DocumentService
}

// NewDocumentHandler creates a new DocumentHandler
func NewDocumentHandler(service service.DocumentService) *DocumentHandler {
	return &DocumentHandler{service: service}
}

func parseID(c *gin.Context, name string) (uint64, bool) {
	id, err := strconv.ParseUint(c.Param(name), 10, 64)
	if err != nil {
		common.ErrorResponse(c, http.StatusBadRequest, "Invalid ID", err)
		return 0, false
	}
	return id, true
}

// Create handles POST /api/v1/documents
func (h *DocumentHandler) Create(c *gin.Context) {
	var req domain.CreateDocumentRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		common.ErrorResponse(c, http.StatusBadRequest, "Invalid request body", err)
		return
	}

	doc, err := h.service.Create(c.Request.Context(), &req)
	if err != nil {
		respondError(c, err, "Failed to create document")
		return
	}

	c.JSON(http.StatusCreated, common.APIResponse{Data: doc})
}

// List handles GET /api/v1/documents
func (h *DocumentHandler) List(c *gin.Context) {
	page, _ := strconv.Atoi(c.DefaultQuery("page", "1"))
	perPage, _ := strconv.Atoi(c.DefaultQuery("per_page", "20"))
	if page < 1 {
		page = 1
	}
	if perPage < 1 || perPage > 100 {
		perPage = 20
	}

	q := &domain.ListDocumentsQuery{
		Page:           page,
		PerPage:        perPage,
		OwnerEmail:     c.Query("owner_email"),
		IncludeDeleted: c.Query("include_deleted") == "true",
		Search:         c.Query("search"),
	}

	docs, total, err := h.service.List(c.Request.Context(), q)
	if err != nil {
		respondError(c, err, "Failed to list documents")
		return
	}

	pages := int((total + int64(perPage) - 1) / int64(perPage))
	common.SuccessResponse(c, docs, &common.Meta{
		Page:    page,
		PerPage: perPage,
		Total:   total,
		Pages:   pages,
	})
}

// Load handles GET /api/v1/documents/:id
func (h *DocumentHandler) Load(c *gin.Context) {
	id, ok := parseID(c, "id")
	if !ok {
		return
	}

	doc, err := h.service.Load(c.Request.Context(), id, c.Query("user_email"))
	if err != nil {
		respondError(c, err, "Failed to load document")
		return
	}

	c.JSON(http.StatusOK, common.APIResponse{Data: doc})
}

// Save handles POST /api/v1/documents/:id/save
func (h *DocumentHandler) Save(c *gin.Context) {
	id, ok := parseID(c, "id")
	if !ok {
		return
	}

	var req domain.SaveDocumentRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		common.ErrorResponse(c, http.StatusBadRequest, "Invalid request body", err)
		return
	}

	result, err := h.service.Save(c.Request.Context(), id, &req)
	if err != nil {
		respondError(c, err, "Failed to save document")
		return
	}

	c.JSON(http.StatusOK, common.APIResponse{Data: result})
}

// Delete handles DELETE /api/v1/documents/:id
func (h *DocumentHandler) Delete(c *gin.Context) {
	id, ok := parseID(c, "id")
	if !ok {
		return
	}

	if err := h.service.SoftDelete(c.Request.Context(), id, c.Query("user_email")); err != nil {
		respondError(c, err, "Failed to delete document")
		return
	}

	c.JSON(http.StatusOK, common.APIResponse{Data: gin.H{"status": "deleted"}})
}

// Restore handles POST /api/v1/documents/:id/restore
func (h *DocumentHandler) Restore(c *gin.Context) {
	id, ok := parseID(c, "id")
	if !ok {
		return
	}

	if err := h.service.RestoreDeleted(c.Request.Context(), id, c.Query("user_email")); err != nil {
		respondError(c, err, "Failed to restore document")
		return
	}

	c.JSON(http.StatusOK, common.APIResponse{Data: gin.H{"status": "restored"}})
}

// HardDelete handles DELETE /api/v1/documents/:id/permanent
func (h *DocumentHandler) HardDelete(c *gin.Context) {
	id, ok := parseID(c, "id")
	if !ok {
		return
	}

	if err := h.service.HardDelete(c.Request.Context(), id); err != nil {
		respondError(c, err, "Failed to delete document permanently")
		return
	}

	c.JSON(http.StatusOK, common.APIResponse{Data: gin.H{"status": "permanently_deleted"}})
}

// Stats handles GET /api/v1/documents/stats
func (h *DocumentHandler) Stats(c *gin.Context) {
	stats, err := h.service.Stats(c.Request.Context(), c.Query("owner_email"))
	if err != nil {
		respondError(c, err, "Failed to aggregate storage stats")
		return
	}

	c.JSON(http.StatusOK, common.APIResponse{Data: stats})
}

// Archive handles GET /api/v1/documents/:id/archive
func (h *DocumentHandler) Archive(c *gin.Context) {
	id, ok := parseID(c, "id")
	if !ok {
		return
	}

	url, err := h.service.ArchiveURL(c.Request.Context(), id)
	if err != nil {
		respondError(c, err, "Failed to prepare archive download")
		return
	}

	c.JSON(http.StatusOK, common.APIResponse{Data: gin.H{"url": url}})
}

// LockStatus handles GET /api/v1/documents/:id/lock
func (h *DocumentHandler) LockStatus(c *gin.Context) {
	id, ok := parseID(c, "id")
	if !ok {
		return
	}

	holder, err := h.service.LockStatus(c.Request.Context(), id)
	if err != nil {
		respondError(c, err, "Failed to read lock status")
		return
	}

	if holder == nil {
		c.JSON(http.StatusOK, common.APIResponse{Data: gin.H{"locked": false}})
		return
	}
	c.JSON(http.StatusOK, common.APIResponse{Data: gin.H{
		"locked":    true,
		"locked_by": holder.UserEmail,
		"since":     holder.Timestamp,
	}})
}

// Activities handles GET /api/v1/documents/:id/activities
func (h *DocumentHandler) Activities(c *gin.Context) {
	id, ok := parseID(c, "id")
	if !ok {
		return
	}

	page, _ := strconv.Atoi(c.DefaultQuery("page", "1"))
	perPage, _ := strconv.Atoi(c.DefaultQuery("per_page", "20"))
	if page < 1 {
		page = 1
	}
	if perPage < 1 || perPage > 100 {
		perPage = 20
	}

	activities, total, err := h.service.ListActivities(c.Request.Context(), id, page, perPage)
	if err != nil {
		respondError(c, err, "Failed to list activities")
		return
	}

	pages := int((total + int64(perPage) - 1) / int64(perPage))
	common.SuccessResponse(c, activities, &common.Meta{
		Page:    page,
		PerPage: perPage,
		Total:   total,
		Pages:   pages,
	})
}
