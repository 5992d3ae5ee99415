// Package repository holds the typed persistence accessors, one per entity.
// All SQL lives here; entities go in and out as internal/model types and
// driver errors are translated into the apperr taxonomy.
package repository

import (
	"errors"
	"strings"

	"github.com/jackc/pgx/v5/pgconn"
)

// rowScanner is satisfied by both pgx.Row and pgx.Rows.
type rowScanner interface {
	Scan(dest ...any) error
}

// likeContains builds a LIKE pattern that matches s as a literal substring,
// escaping the LIKE metacharacters. Matching is case-sensitive; callers
// document that on their endpoints.
func likeContains(s string) string {
	r := strings.NewReplacer(`\`, `\\`, `%`, `\%`, `_`, `\_`)
	return "%" + r.Replace(s) + "%"
}

// uniqueViolationCode is the Postgres error code for unique constraint
// violations.
const uniqueViolationCode = "23505"

func isUniqueViolation(err error) bool {
	var pgErr *pgconn.PgError
	return errors.As(err, &pgErr) && pgErr.Code == uniqueViolationCode
}
