package postgres

import (
	"errors"

	"github.com/jackc/pgerrcode"
	"github.com/lib/pq"
)

// IsUniqueViolation reports whether err carries a unique constraint violation, optionally restricted
// to one constraint name.
func IsUniqueViolation(err error, constraint ...string) bool {
	return hasCode(err, pgerrcode.UniqueViolation, constraint...)
}

// IsForeignKeyViolation reports whether err carries a foreign key violation.
func IsForeignKeyViolation(err error, constraint ...string) bool {
	return hasCode(err, pgerrcode.ForeignKeyViolation, constraint...)
}

func hasCode(err error, code string, constraint ...string) bool {
	var pqErr *pq.Error
	if !errors.As(err, &pqErr) || string(pqErr.Code) != code {
		return false
	}

	if len(constraint) == 0 {
		return true
	}

	for _, name := range constraint {
		if pqErr.Constraint == name {
			return true
		}
	}

	return false
}
