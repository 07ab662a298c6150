package repository

import (
	"context"
	"database/sql"
	"encoding/json"
	"errors"
	"fmt"
)

// Settings tables. Both hold JSON-encoded values under a string key.
const (
	appSettingsTable = "app_settings"
	settingsTable    = "settings"
)

// saveSetting upserts key into table. An empty value is stored as null.
func saveSetting(ctx context.Context, db *sql.DB, table, key, value string) error {
	var v any
	if value != "" {
		v = value
	}
	encoded, err := json.Marshal(v)
	if err != nil {
		return fmt.Errorf("could not encode setting %s: %w", key, err)
	}
	query := "INSERT INTO " + table + " (key, value) VALUES (?, ?) ON CONFLICT(key) DO UPDATE SET value = excluded.value"
	if _, err := db.ExecContext(ctx, query, key, string(encoded)); err != nil {
		return fmt.Errorf("could not save setting %s: %w", key, err)
	}
	return nil
}

// getSetting reads key from table. It returns ErrNotFound when the key was
// never written and "" when it was written as null.
func getSetting(ctx context.Context, db *sql.DB, table, key string) (string, error) {
	var raw sql.NullString
	err := db.QueryRowContext(ctx, "SELECT value FROM "+table+" WHERE key = ?", key).Scan(&raw)
	if errors.Is(err, sql.ErrNoRows) {
		return "", ErrNotFound
	}
	if err != nil {
		return "", fmt.Errorf("could not read setting %s: %w", key, err)
	}
	if !raw.Valid {
		return "", nil
	}
	var v *string
	if err := json.Unmarshal([]byte(raw.String), &v); err != nil {
		return "", fmt.Errorf("could not decode setting %s: %w", key, err)
	}
	if v == nil {
		return "", nil
	}
	return *v, nil
}

// lookupSetting is getSetting with a missing key reported as "".
func lookupSetting(ctx context.Context, db *sql.DB, table, key string) (string, error) {
	v, err := getSetting(ctx, db, table, key)
	if errors.Is(err, ErrNotFound) {
		return "", nil
	}
	return v, err
}
