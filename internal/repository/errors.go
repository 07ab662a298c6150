package repository

import (
	"errors"
	"log/slog"
)

// ErrNotFound is returned by internal single-row lookups that find nothing.
// Public store methods translate it into a nil result, so callers only see
// it from helpers that document it.
var ErrNotFound = errors.New("repository: not found")

// logged is the generic storage error logger. Every failed database call
// passes through it before the error is returned unchanged.
func logged(op string, err error) error {
	if err != nil && !errors.Is(err, ErrNotFound) {
		slog.Error("Storage operation failed", "op", op, "error", err)
	}
	return err
}
