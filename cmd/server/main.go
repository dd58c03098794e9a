package main

import (
	"context"
	"errors"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"example.com/ai-trip-planner/backend/internal/catalog"
	"example.com/ai-trip-planner/backend/internal/config"
	"example.com/ai-trip-planner/backend/internal/server"
	"example.com/ai-trip-planner/backend/internal/storage"
)

func main() {
	ensureEnvFile()

	cfg, err := config.Load()
	if err != nil {
		slog.Error("failed to load config", slog.String("error", err.Error()))
		os.Exit(1)
	}

	logger := slog.New(slog.NewJSONHandler(os.Stdout, &slog.HandlerOptions{Level: slog.LevelInfo}))
	slog.SetDefault(logger)

	catalog.MustLoad()

	store, err := storage.Open(context.Background(), cfg.Store)
	if err != nil {
		logger.Error("failed to open store", slog.String("error", err.Error()))
		os.Exit(1)
	}

	e, registry := server.New(cfg, logger, store)
	httpServer := server.NewHTTPServer(cfg, e)

	logger.Info("server starting",
		slog.String("addr", httpServer.Addr),
		slog.String("env", cfg.Env),
		slog.String("store_driver", cfg.Store.Driver),
		slog.Duration("generator_delay", cfg.Generator.Delay),
	)

	go func() {
		if err := e.StartServer(httpServer); err != nil && !errors.Is(err, http.ErrServerClosed) {
			logger.Error("http server failed", slog.String("error", err.Error()))
		}
	}()

	shutdownSignal := make(chan os.Signal, 1)
	signal.Notify(shutdownSignal, syscall.SIGINT, syscall.SIGTERM)
	<-shutdownSignal

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	if err := e.Shutdown(shutdownCtx); err != nil {
		logger.Error("graceful shutdown failed", slog.String("error", err.Error()))
	}

	drained := make(chan struct{})
	go func() {
		registry.Wait()
		close(drained)
	}()

	select {
	case <-drained:
	case <-shutdownCtx.Done():
		logger.Warn("background generations still running at shutdown")
	}
}

func ensureEnvFile() {
	if os.Getenv("ENV_FILE") != "" {
		return
	}

	if _, err := os.Stat(".env"); err == nil {
		_ = os.Setenv("ENV_FILE", ".env")
		return
	}

	if _, err := os.Stat("../.env"); err == nil {
		_ = os.Setenv("ENV_FILE", "../.env")
	}
}
