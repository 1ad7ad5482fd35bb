package repositories

import (
	"errors"
	"fmt"

	"github.com/jackc/pgerrcode"
	"github.com/jackc/pgx/v5/pgconn"

	"github.com/Shivam1272/backend-revision/internal/apperr"
)

var (
	// ErrNotFound indicates the requested record does not exist.
	ErrNotFound = fmt.Errorf("record %w", apperr.ErrNotFound)
	// ErrConflict indicates the attempted write would violate a uniqueness constraint
	// or a compare-and-swap precondition.
	ErrConflict = fmt.Errorf("record %w", apperr.ErrConflict)
)

// translateWriteError maps constraint violations onto the repository sentinels.
// Other errors are wrapped with op.
func translateWriteError(op string, err error) error {
	var pgErr *pgconn.PgError
	if errors.As(err, &pgErr) {
		switch pgErr.Code {
		case pgerrcode.UniqueViolation:
			return fmt.Errorf("%w: %s", ErrConflict, pgErr.ConstraintName)
		case pgerrcode.ForeignKeyViolation:
			return fmt.Errorf("%w: %s", ErrNotFound, pgErr.ConstraintName)
		}
	}
	return fmt.Errorf("%s: %w", op, err)
}
