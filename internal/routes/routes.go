package routes

import (
	"github.com/gin-gonic/gin"

	"github.com/marktrack/marktrack-backend/internal/handler"
)

// Setup configures all API routes
func Setup(
	router *gin.Engine,
	documentHandler *handler.DocumentHandler,
	versionHandler *handler.VersionHandler,
	shareHandler *handler.ShareHandler,
	mediaHandler *handler.MediaHandler,
) {
	api := router.Group("/api/v1")

	// Documents
	documents := api.Group("/documents")
	{
		documents.POST("", documentHandler.Create)
		documents.GET("", documentHandler.List)
		documents.GET("/stats", documentHandler.Stats)

		documents.GET("/:id", documentHandler.Load)
		documents.POST("/:id/save", documentHandler.Save)
		documents.DELETE("/:id", documentHandler.Delete)
		documents.POST("/:id/restore", documentHandler.Restore)
		documents.DELETE("/:id/permanent", documentHandler.HardDelete)
		documents.GET("/:id/archive", documentHandler.Archive)
		documents.GET("/:id/activities", documentHandler.Activities)
		documents.GET("/:id/lock", documentHandler.LockStatus)

		// Version history
		documents.GET("/:id/versions", versionHandler.List)
		documents.POST("/:id/versions/:versionId/restore", versionHandler.Restore)

		// Sharing
		documents.POST("/:id/share", shareHandler.Create)
		documents.GET("/:id/shares", shareHandler.ListByDocument)
	}

	// Share grants addressed directly
	shares := api.Group("/shares")
	{
		shares.GET("", shareHandler.ListByUser)
		shares.PUT("/:shareId", shareHandler.Update)
		shares.DELETE("/:shareId", shareHandler.Revoke)
	}

	// Token access to shared documents
	api.GET("/shared/:token", shareHandler.Resolve)

	// Extracted editor images
	api.GET("/image/:filename", mediaHandler.GetImage)
}
