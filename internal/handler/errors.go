package handler

import (
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/marktrack/marktrack-backend/internal/common"
)

// respondError maps service errors onto HTTP responses. Unknown errors
// become a 500 with the given message.
func respondError(c *gin.Context, err error, message string) {
	var conflict *common.ConflictError
	if errors.As(err, &conflict) {
		c.JSON(http.StatusConflict, gin.H{
			"error": &common.ErrorInfo{
				Code:    "CONFLICT",
				Message: "Document is being edited by another user",
				Details: conflict.Error(),
			},
			"locked_by": conflict.LockedBy,
		})
		return
	}

	switch {
	case errors.Is(err, common.ErrNotFound), errors.Is(err, common.ErrShareNotFound):
		common.ErrorResponse(c, http.StatusNotFound, "Resource not found", err)
	case errors.Is(err, common.ErrInvalidContent),
		errors.Is(err, common.ErrVersionMismatch),
		errors.Is(err, common.ErrInvalidInput):
		common.ErrorResponse(c, http.StatusBadRequest, "Invalid request", err)
	case errors.Is(err, common.ErrContentTooLarge):
		common.ErrorResponse(c, http.StatusRequestEntityTooLarge, "Content exceeds the maximum document size", err)
	case errors.Is(err, common.ErrShareExpired), errors.Is(err, common.ErrShareRevoked):
		common.ErrorResponse(c, http.StatusGone, "Share link no longer available", err)
	case errors.Is(err, common.ErrForbidden):
		common.ErrorResponse(c, http.StatusForbidden, "Forbidden", err)
	default:
		common.ErrorResponse(c, http.StatusInternalServerError, message, err)
	}
}
