package repository

import (
	"errors"
	"strings"

	"github.com/jackc/pgx/v5/pgconn"
)

type constraintKind int

const (
	constraintNone constraintKind = iota
	constraintUnique
	constraintForeignKey
)

// PostgreSQL SQLSTATE codes.
const (
	pgUniqueViolation     = "23505"
	pgForeignKeyViolation = "23503"
)

// SQLite result codes.
const (
	sqliteConstraint           = 19
	sqliteConstraintForeignKey = 787
	sqliteConstraintPrimaryKey = 1555
	sqliteConstraintUnique     = 2067
)

// classify reports which constraint, if any, err violated.
func classify(err error) constraintKind {
	if err == nil {
		return constraintNone
	}

	var pgErr *pgconn.PgError
	if errors.As(err, &pgErr) {
		switch pgErr.Code {
		case pgUniqueViolation:
			return constraintUnique
		case pgForeignKeyViolation:
			return constraintForeignKey
		}
		return constraintNone
	}

	var coded interface{ Code() int }
	if errors.As(err, &coded) {
		switch coded.Code() {
		case sqliteConstraintUnique, sqliteConstraintPrimaryKey:
			return constraintUnique
		case sqliteConstraintForeignKey:
			return constraintForeignKey
		case sqliteConstraint:
			// primary code only, fall through to the message
		default:
			return constraintNone
		}
	}

	msg := err.Error()
	switch {
	case strings.Contains(msg, "UNIQUE constraint failed"):
		return constraintUnique
	case strings.Contains(msg, "FOREIGN KEY constraint failed"):
		return constraintForeignKey
	}
	return constraintNone
}
