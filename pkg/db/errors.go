package db

import (
	"errors"
	"strings"

	"github.com/jackc/pgx/v5/pgconn"
	"github.com/mattn/go-sqlite3"
)

const pgUniqueViolation = "23505"

// IsUniqueViolation reports whether err is a unique constraint failure from
// either engine. When column is provided, the constraint text must mention it.
func IsUniqueViolation(err error, column string) bool {
	if err == nil {
		return false
	}

	matched := false
	var pgErr *pgconn.PgError
	var liteErr sqlite3.Error
	switch {
	case errors.As(err, &pgErr):
		matched = pgErr.Code == pgUniqueViolation
	case errors.As(err, &liteErr):
		matched = liteErr.ExtendedCode == sqlite3.ErrConstraintUnique
	default:
		msg := err.Error()
		matched = strings.Contains(msg, "duplicate key value") || strings.Contains(msg, "UNIQUE constraint failed")
	}
	if !matched {
		return false
	}
	if column == "" {
		return true
	}
	return strings.Contains(err.Error(), column)
}
