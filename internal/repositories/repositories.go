// package repositories provides persistence layer implementations for the library snapshot.
package repositories

import (
	"database/sql"
	"errors"
	"fmt"
)

// scanner is the common Scan method of [sql.Row] and [sql.Rows].
type scanner interface {
	Scan(dest ...any) error
}

// notFound converts [sql.ErrNoRows] into err, leaving other failures wrapped.
func notFound(err error, notFoundErr error, what string) error {
	if errors.Is(err, sql.ErrNoRows) {
		return notFoundErr
	}
	return fmt.Errorf("failed to scan %s: %w", what, err)
}

// nullString stores empty strings as NULL.
func nullString(s string) sql.NullString {
	return sql.NullString{String: s, Valid: s != ""}
}

// nullInt stores zero as NULL.
func nullInt(v uint64) sql.NullInt64 {
	return sql.NullInt64{Int64: int64(v), Valid: v != 0}
}
