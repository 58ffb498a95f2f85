package dbx

import (
	"errors"

	"github.com/jackc/pgx/v5/pgconn"
)

// PostgreSQL SQLSTATE codes the repositories translate.
const (
	codeUniqueViolation           = "23505"
	codeInvalidTextRepresentation = "22P02"
)

// IsUniqueViolation reports whether err is a PostgreSQL unique-constraint
// violation.
func IsUniqueViolation(err error) bool {
	return hasCode(err, codeUniqueViolation)
}

// IsInvalidInput reports whether PostgreSQL rejected a parameter's text
// form, e.g. a malformed UUID.
func IsInvalidInput(err error) bool {
	return hasCode(err, codeInvalidTextRepresentation)
}

func hasCode(err error, code string) bool {
	var pgErr *pgconn.PgError
	return errors.As(err, &pgErr) && pgErr.Code == code
}
