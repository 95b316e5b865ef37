package api

import (
	"github.com/gin-gonic/gin"

	"github.com/yourusername/x-batch-go/api/handlers"
	"github.com/yourusername/x-batch-go/api/middleware"
	"github.com/yourusername/x-batch-go/internal/app"
	"github.com/yourusername/x-batch-go/internal/domain"
	"github.com/yourusername/x-batch-go/internal/infrastructure"
	"github.com/yourusername/x-batch-go/pkg/logger"
)

// Dependencies bundles the services the HTTP API exposes
type Dependencies struct {
	Session   *app.BatchSession
	Timelines *app.TimelineService
	Repo      domain.AccountRepository
	Notifier  *infrastructure.NotificationService
	Converter *infrastructure.GIFConverter
	LogsDir   string
}

// SetupRouter sets up the HTTP router with multi-logger support
func SetupRouter(deps Dependencies, logAdapter *logger.LoggerAdapter) *gin.Engine {
	gin.SetMode(gin.ReleaseMode)

	router := gin.New()

	// Middleware
	router.Use(middleware.Logger(logAdapter))
	router.Use(middleware.Recovery(logAdapter))
	router.Use(middleware.CORS())

	appLogger := logAdapter.GetSingleLogger()

	// Health endpoints
	healthHandler := handlers.NewHealthHandler(deps.Session, deps.Repo)
	router.GET("/health", healthHandler.Health)
	router.GET("/ready", healthHandler.Ready)

	// API v1 routes
	v1 := router.Group("/api/v1")
	{
		// Timeline extraction endpoints
		timelineHandler := handlers.NewTimelineHandler(deps.Timelines, deps.Notifier, appLogger)
		timeline := v1.Group("/timeline")
		{
			timeline.POST("", timelineHandler.ExtractTimeline)
			timeline.POST("/range", timelineHandler.ExtractDateRange)
		}

		// Batch download endpoints
		batchHandler := handlers.NewBatchHandler(deps.Session, deps.Notifier, logAdapter.Batch())
		progressHandler := handlers.NewProgressWebSocketHandler(deps.Session, logAdapter.Batch())
		batches := v1.Group("/batches")
		{
			batches.POST("", batchHandler.StartBatch)
			batches.POST("/cancel", batchHandler.CancelBatch)
			batches.GET("/active", batchHandler.ActiveBatch)
			batches.GET("/progress", progressHandler.HandleWebSocket)
		}

		// Saved account endpoints
		accountHandler := handlers.NewAccountHandler(deps.Repo, deps.Timelines, appLogger)
		accounts := v1.Group("/accounts")
		{
			accounts.GET("", accountHandler.ListAccounts)
			accounts.DELETE("", accountHandler.DeleteAllAccounts)
			accounts.GET("/groups", accountHandler.ListGroups)
			accounts.GET("/:id", accountHandler.GetAccount)
			accounts.DELETE("/:id", accountHandler.DeleteAccount)
			accounts.PUT("/:id/group", accountHandler.UpdateGroup)
			accounts.POST("/:id/export", accountHandler.ExportAccount)
		}

		// Post-processing tool endpoints
		toolsHandler := handlers.NewToolsHandler(deps.Converter, appLogger)
		tools := v1.Group("/tools")
		{
			tools.GET("/ffmpeg", toolsHandler.FFmpegStatus)
			tools.POST("/convert-gifs", toolsHandler.ConvertGIFs)
		}

		// Log endpoints
		logHandler := handlers.NewLogHandler(deps.LogsDir)
		logs := v1.Group("/logs")
		{
			logs.GET("/categories", logHandler.GetCategories)
			logs.GET("/:category", logHandler.GetLogs)
			logs.GET("/:category/search", logHandler.SearchLogs)
			logs.GET("/:category/export", logHandler.ExportLogs)
		}
	}

	return router
}
