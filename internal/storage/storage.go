package storage

import (
	"context"
	"fmt"
	"log/slog"
	"strings"

	"example.com/ai-trip-planner/backend/internal/config"
)

const (
	DriverMemory = "memory"
	DriverFile   = "file"
)

// Store описывает простое key-value хранилище без версионирования схемы.
type Store interface {
	Get(ctx context.Context, key string) ([]byte, bool, error)
	Set(ctx context.Context, key string, value []byte) error
	Delete(ctx context.Context, key string) error
}

// Open открывает хранилище по настройкам.
func Open(ctx context.Context, cfg config.StoreConfig) (Store, error) {
	switch strings.ToLower(strings.TrimSpace(cfg.Driver)) {
	case "", DriverMemory:
		slog.InfoContext(ctx, "using in-memory store")
		return NewMemoryStore(), nil
	case DriverFile:
		store, err := NewFileStore(cfg.Path)
		if err != nil {
			return nil, fmt.Errorf("open file store %s: %w", cfg.Path, err)
		}
		slog.InfoContext(ctx, "using file store", slog.String("path", cfg.Path))
		return store, nil
	default:
		return nil, fmt.Errorf("unknown store driver %q", cfg.Driver)
	}
}
