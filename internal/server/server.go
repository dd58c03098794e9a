package server

import (
	"fmt"
	"log/slog"
	"net/http"
	"time"

	"github.com/labstack/echo/v4"
	"github.com/labstack/echo/v4/middleware"
	"github.com/rs/cors"
	"golang.org/x/time/rate"

	"example.com/ai-trip-planner/backend/internal/auth"
	"example.com/ai-trip-planner/backend/internal/config"
	"example.com/ai-trip-planner/backend/internal/generations"
	"example.com/ai-trip-planner/backend/internal/handlers"
	"example.com/ai-trip-planner/backend/internal/notifications"
	"example.com/ai-trip-planner/backend/internal/planner"
	"example.com/ai-trip-planner/backend/internal/repository"
	"example.com/ai-trip-planner/backend/internal/storage"
)

// New собирает HTTP-сервер Echo с роутами и зависимостями.
// Возвращаемый реестр нужен вызывающему, чтобы дождаться фоновых генераций при остановке.
func New(cfg config.Config, logger *slog.Logger, store storage.Store) (*echo.Echo, *generations.Registry) {
	if logger == nil {
		logger = slog.Default()
	}

	e := echo.New()
	e.HideBanner = true
	e.HidePort = true
	e.Validator = NewValidator()

	e.Use(middleware.Recover())
	e.Use(middleware.RequestID())
	e.Use(requestLogger(logger))

	generator := planner.NewTemplateGenerator(cfg.Generator.Delay, logger)
	shareManager := auth.NewShareManager(cfg.Share.Secret, cfg.Share.Issuer, cfg.Share.TTL)
	itineraryRepo := repository.NewItineraryRepository(store)
	statsRepo := repository.NewStatsRepository(itineraryRepo)
	notificationHub := notifications.NewHub()
	registry := generations.NewRegistry(generator, itineraryRepo, notificationHub, logger, cfg.Generator.WaitTimeout)
	if cfg.Generator.Retention > 0 {
		registry.SetRetention(cfg.Generator.Retention)
	}

	itineraryHandler := handlers.NewItineraryHandler(itineraryRepo, generator, cfg.Generator.WaitTimeout, logger)
	shareHandler := handlers.NewShareHandler(itineraryRepo, shareManager, cfg.Share.BaseURL, logger)
	exportHandler := handlers.NewExportHandler(itineraryRepo, shareHandler, logger)
	generationHandler := handlers.NewGenerationHandler(registry, logger)
	notificationHandler := handlers.NewNotificationHandler(notificationHub, registry)
	statsHandler := handlers.NewStatsHandler(statsRepo)

	registerRoutes(
		e,
		itineraryHandler,
		exportHandler,
		shareHandler,
		generationHandler,
		notificationHandler,
		statsHandler,
		auth.ShareTokenMiddleware(shareManager, "token"),
		generationRateLimiter(cfg.Generator),
	)

	return e, registry
}

// NewHTTPServer создает net/http сервер с заданными таймаутами и CORS.
func NewHTTPServer(cfg config.Config, handler http.Handler) *http.Server {
	corsHandler := cors.New(cors.Options{
		AllowedOrigins: cfg.CORS.AllowedOrigins,
		AllowedMethods: []string{http.MethodGet, http.MethodPost, http.MethodDelete, http.MethodOptions},
		AllowedHeaders: []string{echo.HeaderContentType, echo.HeaderAuthorization},
		ExposedHeaders: []string{echo.HeaderContentDisposition, echo.HeaderLocation, echo.HeaderXRequestID},
	}).Handler(handler)

	return &http.Server{
		Addr:         fmt.Sprintf("%s:%d", cfg.Server.Host, cfg.Server.Port),
		Handler:      corsHandler,
		ReadTimeout:  cfg.Server.ReadTimeout,
		WriteTimeout: cfg.Server.WriteTimeout,
		IdleTimeout:  cfg.Server.IdleTimeout,
	}
}

func requestLogger(logger *slog.Logger) echo.MiddlewareFunc {
	return middleware.RequestLoggerWithConfig(middleware.RequestLoggerConfig{
		LogURI:       true,
		LogStatus:    true,
		LogMethod:    true,
		LogLatency:   true,
		LogRemoteIP:  true,
		LogRequestID: true,
		LogError:     true,
		LogValuesFunc: func(c echo.Context, v middleware.RequestLoggerValues) error {
			attrs := []slog.Attr{
				slog.String("method", v.Method),
				slog.String("uri", v.URI),
				slog.Int("status", v.Status),
				slog.String("remote_ip", v.RemoteIP),
				slog.String("request_id", v.RequestID),
				slog.Duration("latency", v.Latency),
			}

			if v.Error != nil {
				attrs = append(attrs, slog.String("error", v.Error.Error()))
			}

			msg := "request completed"
			if v.Status >= http.StatusInternalServerError {
				logger.LogAttrs(c.Request().Context(), slog.LevelError, msg, attrs...)
				return nil
			}

			logger.LogAttrs(c.Request().Context(), slog.LevelInfo, msg, attrs...)
			return nil
		},
	})
}

func generationRateLimiter(cfg config.GeneratorConfig) echo.MiddlewareFunc {
	limit := rate.Limit(float64(cfg.RateLimitPerMinute) / 60.0)
	store := middleware.NewRateLimiterMemoryStoreWithConfig(middleware.RateLimiterMemoryStoreConfig{
		Rate:      limit,
		Burst:     cfg.RateLimitBurst,
		ExpiresIn: time.Minute,
	})

	return middleware.RateLimiterWithConfig(middleware.RateLimiterConfig{
		Store: store,
		ErrorHandler: func(c echo.Context, _ error) error {
			return c.JSON(http.StatusForbidden, map[string]string{"error": "unable to identify client"})
		},
		DenyHandler: func(c echo.Context, _ string, _ error) error {
			return c.JSON(http.StatusTooManyRequests, map[string]string{"error": "too many requests"})
		},
	})
}
