// Package pgerr classifies PostgreSQL errors returned through pgx.
package pgerr

import (
	"errors"

	"github.com/jackc/pgx/v5/pgconn"
)

const (
	codeUniqueViolation     = "23505"
	codeForeignKeyViolation = "23503"
	codeInvalidTextRep      = "22P02"
)

func code(err error) string {
	var pgErr *pgconn.PgError
	if errors.As(err, &pgErr) {
		return pgErr.Code
	}
	return ""
}

func IsUniqueViolation(err error) bool { return code(err) == codeUniqueViolation }

func IsForeignKeyViolation(err error) bool { return code(err) == codeForeignKeyViolation }

// IsInvalidInput reports a value Postgres could not parse, such as a
// malformed UUID.
func IsInvalidInput(err error) bool { return code(err) == codeInvalidTextRep }
