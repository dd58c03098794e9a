package server

import (
	"github.com/labstack/echo/v4"

	"example.com/ai-trip-planner/backend/internal/handlers"
)

func registerRoutes(
	e *echo.Echo,
	itineraryHandler *handlers.ItineraryHandler,
	exportHandler *handlers.ExportHandler,
	shareHandler *handlers.ShareHandler,
	generationHandler *handlers.GenerationHandler,
	notificationHandler *handlers.NotificationHandler,
	statsHandler *handlers.StatsHandler,
	shareTokenMiddleware echo.MiddlewareFunc,
	generationRateLimiter echo.MiddlewareFunc,
) {
	e.GET("/health", handlers.Health)

	api := e.Group("/api/v1")
	api.GET("/destinations", handlers.Destinations)
	api.GET("/preferences", handlers.Preferences)

	itineraries := api.Group("/itineraries")
	itineraries.GET("", itineraryHandler.List)
	itineraries.POST("", itineraryHandler.Create, generationRateLimiter)
	itineraries.GET("/:id", itineraryHandler.Get)
	itineraries.DELETE("/:id", itineraryHandler.Delete)
	itineraries.GET("/:id/export/json", exportHandler.ExportJSON)
	itineraries.GET("/:id/export/csv", exportHandler.ExportCSV)
	itineraries.GET("/:id/export/pdf", exportHandler.ExportPDF)
	itineraries.POST("/:id/share", shareHandler.Create)
	itineraries.GET("/:id/share/qr", shareHandler.QRCode)

	api.GET("/shared/:token", shareHandler.Resolve, shareTokenMiddleware)

	generationsGroup := api.Group("/generations")
	generationsGroup.POST("", generationHandler.Create, generationRateLimiter)
	generationsGroup.GET("/:id", generationHandler.Get)
	generationsGroup.GET("/:id/stream", notificationHandler.Stream)

	stats := api.Group("/stats")
	stats.GET("/overview", statsHandler.Overview)
	stats.GET("/time-of-day", statsHandler.SpendingByTimeOfDay)
	stats.GET("/monthly-comparison", statsHandler.MonthlyComparison)
}
