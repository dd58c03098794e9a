package storage

import (
	"context"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"example.com/ai-trip-planner/backend/internal/config"
)

func exerciseStore(t *testing.T, store Store) {
	t.Helper()
	ctx := context.Background()

	_, ok, err := store.Get(ctx, "missing")
	require.NoError(t, err)
	assert.False(t, ok)

	require.NoError(t, store.Set(ctx, "itineraries", []byte(`[{"id":"a"}]`)))
	value, ok, err := store.Get(ctx, "itineraries")
	require.NoError(t, err)
	require.True(t, ok)
	assert.JSONEq(t, `[{"id":"a"}]`, string(value))

	require.NoError(t, store.Set(ctx, "itineraries", []byte(`[]`)))
	value, _, err = store.Get(ctx, "itineraries")
	require.NoError(t, err)
	assert.Equal(t, "[]", string(value))

	require.NoError(t, store.Delete(ctx, "itineraries"))
	require.NoError(t, store.Delete(ctx, "itineraries"))
	_, ok, err = store.Get(ctx, "itineraries")
	require.NoError(t, err)
	assert.False(t, ok)
}

// TestMemoryStore проверяет хранилище в памяти.
func TestMemoryStore(t *testing.T) {
	exerciseStore(t, NewMemoryStore())
}

// TestMemoryStoreCopiesValues проверяет изоляцию сохраненных значений.
func TestMemoryStoreCopiesValues(t *testing.T) {
	store := NewMemoryStore()
	value := []byte("abc")
	require.NoError(t, store.Set(context.Background(), "k", value))
	value[0] = 'x'

	got, _, err := store.Get(context.Background(), "k")
	require.NoError(t, err)
	assert.Equal(t, "abc", string(got))
}

// TestFileStore проверяет файловое хранилище и сохранение между открытиями.
func TestFileStore(t *testing.T) {
	path := filepath.Join(t.TempDir(), "nested", "store.json")

	store, err := NewFileStore(path)
	require.NoError(t, err)
	exerciseStore(t, store)

	require.NoError(t, store.Set(context.Background(), "itineraries", []byte(`[1,2]`)))

	reopened, err := NewFileStore(path)
	require.NoError(t, err)
	value, ok, err := reopened.Get(context.Background(), "itineraries")
	require.NoError(t, err)
	require.True(t, ok)
	assert.Equal(t, "[1,2]", string(value))
}

// TestFileStoreCorrupted проверяет ошибку на поврежденном файле.
func TestFileStoreCorrupted(t *testing.T) {
	path := filepath.Join(t.TempDir(), "store.json")
	require.NoError(t, os.WriteFile(path, []byte("{not json"), 0o644))

	_, err := NewFileStore(path)
	assert.Error(t, err)
}

// TestOpen проверяет выбор драйвера.
func TestOpen(t *testing.T) {
	store, err := Open(context.Background(), config.StoreConfig{Driver: "memory"})
	require.NoError(t, err)
	assert.IsType(t, &MemoryStore{}, store)

	store, err = Open(context.Background(), config.StoreConfig{Driver: "FILE", Path: filepath.Join(t.TempDir(), "s.json")})
	require.NoError(t, err)
	assert.IsType(t, &FileStore{}, store)

	_, err = Open(context.Background(), config.StoreConfig{Driver: "postgres"})
	assert.Error(t, err)
}
