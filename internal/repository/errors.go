package repository

import (
	"errors"
	"strings"

	customerrors "github.com/axellelanca/shortlinks/internal/errors"
	"github.com/jackc/pgx/v5/pgconn"
	"gorm.io/gorm"
)

const pgErrCodeUniqueViolation = "23505"

// isUniqueViolation recognises a unique-index rejection from either dialect,
// translated by gorm or not.
func isUniqueViolation(err error) bool {
	if err == nil {
		return false
	}
	if errors.Is(err, gorm.ErrDuplicatedKey) {
		return true
	}
	var pgErr *pgconn.PgError
	if errors.As(err, &pgErr) && pgErr.Code == pgErrCodeUniqueViolation {
		return true
	}
	return strings.Contains(err.Error(), "UNIQUE constraint failed")
}

func persistenceError(op string, err error) error {
	return &customerrors.PersistenceError{Op: op, Err: err}
}
