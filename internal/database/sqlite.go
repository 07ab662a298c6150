package database

import (
	"context"
	"database/sql"
	"embed"
	"errors"
	"fmt"
	"log/slog"
	"os"
	"path/filepath"
	"sync"

	"github.com/golang-migrate/migrate/v4"
	migratesqlite "github.com/golang-migrate/migrate/v4/database/sqlite3"
	"github.com/golang-migrate/migrate/v4/source/iofs"
	_ "github.com/mattn/go-sqlite3" // Import the sqlite3 driver.
)

const (
	// Name identifies the database shared by the chat and provider stores.
	Name = "AITeamManagerDB"
	// SchemaVersion is the migration version every caller expects.
	SchemaVersion = 2
)

//go:embed migrations/*.sql
var migrationsFS embed.FS

// InitDB connects to the SQLite database and runs migrations up to SchemaVersion.
func InitDB(dataSourceName string) (*sql.DB, error) {
	dir := filepath.Dir(dataSourceName)
	if err := os.MkdirAll(dir, 0750); err != nil {
		return nil, fmt.Errorf("failed to create database directory: %w", err)
	}

	db, err := sql.Open("sqlite3", dataSourceName+"?_busy_timeout=5000&_foreign_keys=on")
	if err != nil {
		return nil, fmt.Errorf("failed to open database: %w", err)
	}
	// A single connection serialises writers; two handles on the same file
	// still coordinate through SQLite's own locking.
	db.SetMaxOpenConns(1)

	if err := db.Ping(); err != nil {
		_ = db.Close()
		return nil, fmt.Errorf("failed to connect to database: %w", err)
	}

	if _, err := db.Exec("PRAGMA journal_mode=WAL;"); err != nil {
		slog.Warn("Failed to enable WAL mode for SQLite, continuing without it.", "error", err)
	}

	if err := migrateUp(db); err != nil {
		_ = db.Close()
		return nil, fmt.Errorf("failed to migrate %s: %w", Name, err)
	}

	return db, nil
}

// migrateUp applies the embedded migrations. Every migration only creates
// missing tables, so upgrading an older file is purely additive.
func migrateUp(db *sql.DB) error {
	src, err := iofs.New(migrationsFS, "migrations")
	if err != nil {
		return fmt.Errorf("could not load migrations: %w", err)
	}
	driver, err := migratesqlite.WithInstance(db, &migratesqlite.Config{})
	if err != nil {
		return fmt.Errorf("could not create migration driver: %w", err)
	}
	// The migrate instance is not closed: closing it would close db.
	m, err := migrate.NewWithInstance("iofs", src, "sqlite3", driver)
	if err != nil {
		return fmt.Errorf("could not create migrator: %w", err)
	}
	if err := m.Migrate(SchemaVersion); err != nil && !errors.Is(err, migrate.ErrNoChange) {
		return err
	}

	version, dirty, err := m.Version()
	if err != nil {
		return fmt.Errorf("could not read schema version: %w", err)
	}
	if dirty {
		return fmt.Errorf("schema version %d is dirty", version)
	}
	slog.Debug("Database schema ready.", "database", Name, "version", version)
	return nil
}

// Handle lazily opens one database file and hands the same *sql.DB to every
// store that shares it. It is safe for concurrent use.
type Handle struct {
	path string

	mu  sync.Mutex
	db  *sql.DB
	own bool
}

// NewHandle returns a handle that opens path on first use.
func NewHandle(path string) *Handle {
	return &Handle{path: path, own: true}
}

// WithDB wraps an already opened database. Migrations are not run and Close
// leaves db open.
func WithDB(db *sql.DB) *Handle {
	return &Handle{db: db}
}

// Path returns the file the handle opens.
func (h *Handle) Path() string {
	return h.path
}

// Open returns the shared database, opening and migrating it on the first
// call. Later calls return the same instance.
func (h *Handle) Open(ctx context.Context) (*sql.DB, error) {
	h.mu.Lock()
	defer h.mu.Unlock()

	if h.db != nil {
		return h.db, nil
	}
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	db, err := InitDB(h.path)
	if err != nil {
		slog.Error("Database open failed", "database", Name, "path", h.path, "error", err)
		return nil, err
	}
	h.db = db
	slog.Info("Opened database.", "database", Name, "path", h.path, "version", SchemaVersion)
	return db, nil
}

// Close closes the database if this handle opened it. The handle may be
// reopened afterwards.
func (h *Handle) Close() error {
	h.mu.Lock()
	defer h.mu.Unlock()

	if h.db == nil || !h.own {
		return nil
	}
	err := h.db.Close()
	h.db = nil
	return err
}
