package echo

import (
	e "github.com/labstack/echo/v4"

	"github.com/alirezamp/audio-batch-service/internal/auth"
)

type Handlers struct {
	Upload      *UploadHandler
	Batch       *BatchHandler
	Internal    *InternalHandler
	Credentials *CredentialsHandler
}

func RegisterRoutes(server *e.Echo, handlers Handlers, validator *auth.TokenValidator, internalSecret string) {
	authenticated := server.Group("", Authenticate(validator))
	authenticated.POST("/upload", handlers.Upload.Upload)
	authenticated.GET("/status/:id", handlers.Batch.GetStatus)
	authenticated.GET("/batches", handlers.Batch.ListBatches)
	authenticated.GET("/download/:id/:artifactType", handlers.Batch.Download)
	authenticated.GET("/pubsub/credentials", handlers.Credentials.GetCredentials)

	internal := server.Group("/internal", RequireInternalSecret(internalSecret))
	internal.POST("/reprocess/:id", handlers.Internal.Reprocess)
	internal.POST("/publish-event", handlers.Internal.PublishEvent)
}
