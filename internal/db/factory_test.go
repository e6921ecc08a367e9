package db

import (
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNewStore_SQLite(t *testing.T) {
	tmpDir := t.TempDir()
	dbPath := filepath.Join(tmpDir, "test.db")

	// Test with explicit type and connection string
	cfg := StoreConfig{
		Type:             "sqlite",
		ConnectionString: dbPath,
	}
	store, err := NewStore(cfg)
	require.NoError(t, err)
	require.NotNil(t, store)
	_, ok := store.(*SQLiteStore)
	assert.True(t, ok, "Expected a SQLiteStore instance")
	store.Close()

	// Test with default type
	cfg = StoreConfig{
		ConnectionString: dbPath,
	}
	store, err = NewStore(cfg)
	require.NoError(t, err)
	require.NotNil(t, store)
	_, ok = store.(*SQLiteStore)
	assert.True(t, ok, "Expected a SQLiteStore instance with default type")
	store.Close()

	// sqlite3 alias
	cfg = StoreConfig{
		Type:             "sqlite3",
		ConnectionString: dbPath,
	}
	store, err = NewStore(cfg)
	require.NoError(t, err)
	store.Close()
}

func TestNewStore_PostgresRequiresDSN(t *testing.T) {
	_, err := NewStore(StoreConfig{Type: "postgres"})
	require.Error(t, err)
	assert.Contains(t, err.Error(), "connection string is required")
}

func TestNewStore_UnsupportedType(t *testing.T) {
	_, err := NewStore(StoreConfig{Type: "mongodb"})
	require.Error(t, err)
	assert.Contains(t, err.Error(), "unsupported store type")
}
