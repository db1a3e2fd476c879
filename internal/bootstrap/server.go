package bootstrap

import (
	"github.com/labstack/echo/v4"
	"github.com/labstack/echo/v4/middleware"
	"github.com/rs/zerolog"

	app "github.com/alirezamp/audio-batch-service/internal/application/batch"
	"github.com/alirezamp/audio-batch-service/internal/auth"
	"github.com/alirezamp/audio-batch-service/internal/config"
	domain "github.com/alirezamp/audio-batch-service/internal/domain/batch"
	httpecho "github.com/alirezamp/audio-batch-service/internal/interfaces/http/echo"
)

// Dependencies carries the infrastructure adapters main constructs; the
// server wires them into use cases and routes.
type Dependencies struct {
	Repo      domain.Repository
	Children  domain.ChildStore
	Storage   domain.ObjectStorage
	Queue     domain.JobQueue
	Publisher domain.EventPublisher
	Logger    zerolog.Logger
}

func NewHTTPServer(env config.Env, deps Dependencies) *echo.Echo {
	server := echo.New()
	server.HideBanner = true
	server.HTTPErrorHandler = httpecho.ErrorHandler

	server.Use(middleware.Recover())
	server.Use(middleware.RequestID())
	server.Use(middleware.BodyLimit(env.MaxUploadBody))

	router := app.NewQueueRouter(deps.Queue, env.PriorityQueue, env.NormalQueue)

	handlers := httpecho.Handlers{
		Upload:      httpecho.NewUploadHandler(app.NewIngestBatch(deps.Repo, deps.Children, deps.Storage, router, deps.Logger)),
		Batch:       httpecho.NewBatchHandler(app.NewGetBatchStatus(deps.Repo), app.NewListBatches(deps.Repo), app.NewDownloadArtifact(deps.Repo, deps.Storage)),
		Internal:    httpecho.NewInternalHandler(app.NewReprocessBatch(deps.Repo, deps.Storage, router, deps.Logger), app.NewPublishCompletionEvent(deps.Publisher)),
		Credentials: httpecho.NewCredentialsHandler(app.NewIssueCredentials(env.MQTTBrokerURL)),
	}

	validator := auth.NewTokenValidator(env.JWTSecret)
	httpecho.RegisterRoutes(server, handlers, validator, env.InternalSecret)

	server.GET("/healthz", func(c echo.Context) error {
		return c.JSON(200, map[string]string{"status": "ok"})
	})

	return server
}
