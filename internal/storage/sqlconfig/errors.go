package sqlconfig

import (
	"database/sql"
	"errors"
	"fmt"

	"github.com/lib/pq"

	"github.com/carson-networks/ledger-server/internal/common"
)

const (
	pqUniqueViolation     = "23505"
	pqForeignKeyViolation = "23503"

	singleAdminIndex = "users_single_admin"
)

// translateError maps driver errors onto the common sentinel errors.
func translateError(err error) error {
	if err == nil {
		return nil
	}

	if errors.Is(err, sql.ErrNoRows) {
		return common.ErrorNotFound
	}

	var pqErr *pq.Error
	if errors.As(err, &pqErr) {
		switch pqErr.Code {
		case pqUniqueViolation:
			if pqErr.Constraint == singleAdminIndex {
				return fmt.Errorf("%w: an administrator already exists", common.ErrorDuplicateKey)
			}
			return fmt.Errorf("%w: %s", common.ErrorDuplicateKey, pqErr.Detail)
		case pqForeignKeyViolation:
			return fmt.Errorf("%w: %s", common.ErrorNotFound, pqErr.Detail)
		}
	}

	return err
}

// expectAffected returns ErrorNotFound when a mutation matched no rows.
func expectAffected(result sql.Result) error {
	affected, err := result.RowsAffected()
	if err != nil {
		return err
	}
	if affected == 0 {
		return common.ErrorNotFound
	}
	return nil
}
