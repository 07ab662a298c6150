package database

import (
	"context"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func tableNames(t *testing.T, h *Handle) []string {
	t.Helper()
	db, err := h.Open(context.Background())
	require.NoError(t, err)

	rows, err := db.Query("SELECT name FROM sqlite_master WHERE type = 'table' ORDER BY name")
	require.NoError(t, err)
	defer func() { _ = rows.Close() }()

	var names []string
	for rows.Next() {
		var name string
		require.NoError(t, rows.Scan(&name))
		names = append(names, name)
	}
	require.NoError(t, rows.Err())
	return names
}

func TestHandle_OpenCreatesEveryStore(t *testing.T) {
	h := NewHandle(filepath.Join(t.TempDir(), "nested", Name+".db"))
	defer func() { require.NoError(t, h.Close()) }()

	names := tableNames(t, h)
	for _, want := range []string{"chats", "app_settings", "providers", "settings"} {
		assert.Contains(t, names, want)
	}
}

func TestHandle_OpenIsIdempotent(t *testing.T) {
	h := NewHandle(filepath.Join(t.TempDir(), Name+".db"))
	defer func() { require.NoError(t, h.Close()) }()

	first, err := h.Open(context.Background())
	require.NoError(t, err)
	second, err := h.Open(context.Background())
	require.NoError(t, err)
	assert.Same(t, first, second)
}

func TestHandle_UpgradeFromVersionOne(t *testing.T) {
	path := filepath.Join(t.TempDir(), Name+".db")

	// Simulate a file created by an older build that only knew the chat tables.
	db, err := InitDB(path)
	require.NoError(t, err)
	_, err = db.Exec("DROP TABLE providers; DROP TABLE settings; UPDATE schema_migrations SET version = 1")
	require.NoError(t, err)
	_, err = db.Exec("INSERT INTO app_settings (key, value) VALUES ('currentChatId', '\"c1\"')")
	require.NoError(t, err)
	require.NoError(t, db.Close())

	h := NewHandle(path)
	defer func() { require.NoError(t, h.Close()) }()
	names := tableNames(t, h)
	assert.Contains(t, names, "providers")
	assert.Contains(t, names, "settings")

	conn, err := h.Open(context.Background())
	require.NoError(t, err)
	var value string
	require.NoError(t, conn.QueryRow("SELECT value FROM app_settings WHERE key = 'currentChatId'").Scan(&value))
	assert.Equal(t, `"c1"`, value)

	var version int
	require.NoError(t, conn.QueryRow("SELECT version FROM schema_migrations").Scan(&version))
	assert.Equal(t, SchemaVersion, version)
}

func TestHandle_ReopenAfterClose(t *testing.T) {
	h := NewHandle(filepath.Join(t.TempDir(), Name+".db"))
	_, err := h.Open(context.Background())
	require.NoError(t, err)
	require.NoError(t, h.Close())

	_, err = h.Open(context.Background())
	require.NoError(t, err)
	require.NoError(t, h.Close())
}

func TestHandle_WithDBDoesNotClose(t *testing.T) {
	db, err := InitDB(filepath.Join(t.TempDir(), Name+".db"))
	require.NoError(t, err)
	defer func() { _ = db.Close() }()

	h := WithDB(db)
	got, err := h.Open(context.Background())
	require.NoError(t, err)
	assert.Same(t, db, got)
	require.NoError(t, h.Close())
	assert.NoError(t, db.Ping())
}
