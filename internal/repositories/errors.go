package repositories

import (
	"errors"
	"fmt"
	"strings"

	"github.com/anonto42/yatube/backend/internal/apperr"
	"github.com/jackc/pgx/v5/pgconn"
	"gorm.io/gorm"
)

// translateError maps storage errors onto the application taxonomy. Integrity
// failures keep the driver message behind apperr.ErrConstraintViolation.
func translateError(err error) error {
	if err == nil {
		return nil
	}
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return apperr.ErrNotFound
	}
	if isConstraintViolation(err) {
		return fmt.Errorf("%w: %v", apperr.ErrConstraintViolation, err)
	}
	return err
}

func isConstraintViolation(err error) bool {
	if errors.Is(err, gorm.ErrDuplicatedKey) ||
		errors.Is(err, gorm.ErrForeignKeyViolated) ||
		errors.Is(err, gorm.ErrCheckConstraintViolated) {
		return true
	}
	// integrity_constraint_violation class
	var pgErr *pgconn.PgError
	if errors.As(err, &pgErr) {
		return strings.HasPrefix(pgErr.Code, "23")
	}
	// SQLite reports CHECK failures without a translated error.
	return strings.Contains(err.Error(), "constraint failed")
}
