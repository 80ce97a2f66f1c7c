package infra

import (
	"errors"
	"strings"

	"github.com/jackc/pgx/v5/pgconn"
	"modernc.org/sqlite"
	sqlite3 "modernc.org/sqlite/lib"
)

// ConstraintKind classifies a storage constraint failure.
type ConstraintKind int

const (
	ConstraintNone ConstraintKind = iota
	ConstraintUnique
	ConstraintNotNull
	ConstraintForeignKey
	ConstraintCheck
)

// Constraint describes a driver-level constraint violation. Name is the
// constraint name (Postgres) or "table.column" (SQLite), whichever the driver
// reports.
type Constraint struct {
	Kind   ConstraintKind
	Name   string
	Column string
}

// ClassifyConstraint inspects pgx and SQLite driver errors and reports which
// constraint, if any, was violated.
func ClassifyConstraint(err error) (Constraint, bool) {
	if err == nil {
		return Constraint{}, false
	}

	var pgErr *pgconn.PgError
	if errors.As(err, &pgErr) {
		c := Constraint{Name: pgErr.ConstraintName, Column: pgErr.ColumnName}
		switch pgErr.Code {
		case "23505":
			c.Kind = ConstraintUnique
		case "23502":
			c.Kind = ConstraintNotNull
		case "23503":
			c.Kind = ConstraintForeignKey
		case "23514":
			c.Kind = ConstraintCheck
		default:
			return Constraint{}, false
		}
		return c, true
	}

	var liteErr *sqlite.Error
	if errors.As(err, &liteErr) {
		c := Constraint{Name: sqliteConstraintTarget(liteErr.Error())}
		if _, column, ok := strings.Cut(c.Name, "."); ok {
			c.Column = column
		}
		switch liteErr.Code() {
		case sqlite3.SQLITE_CONSTRAINT_UNIQUE, sqlite3.SQLITE_CONSTRAINT_PRIMARYKEY:
			c.Kind = ConstraintUnique
		case sqlite3.SQLITE_CONSTRAINT_NOTNULL:
			c.Kind = ConstraintNotNull
		case sqlite3.SQLITE_CONSTRAINT_FOREIGNKEY:
			c.Kind = ConstraintForeignKey
		case sqlite3.SQLITE_CONSTRAINT_CHECK:
			c.Kind = ConstraintCheck
		default:
			return Constraint{}, false
		}
		return c, true
	}

	return Constraint{}, false
}

// sqliteConstraintTarget pulls "users.email_address" out of messages like
// "constraint failed: UNIQUE constraint failed: users.email_address (2067)".
func sqliteConstraintTarget(msg string) string {
	idx := strings.LastIndex(msg, "failed: ")
	if idx < 0 {
		return ""
	}
	target := msg[idx+len("failed: "):]
	if i := strings.IndexAny(target, " ,"); i >= 0 {
		target = target[:i]
	}
	return target
}
