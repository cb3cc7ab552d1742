package actions

import (
	"context"
	"errors"
	"fmt"

	"github.com/carson-networks/ledger-server/internal/common"
	"github.com/carson-networks/ledger-server/internal/storage"
	"github.com/carson-networks/ledger-server/internal/storage/sqlconfig"
)

var _ IAction = (*UpdateUser)(nil)

// UpdateUser edits a non-admin user. Administrators are never a valid target
// and are reported as not found.
type UpdateUser struct {
	Update sqlconfig.UserUpdate
}

func (u *UpdateUser) Perform(ctx context.Context, writer *storage.Writer) error {
	target, err := writer.Users.FindByID(ctx, u.Update.ID)
	if err != nil {
		return err
	}
	if target.IsAdmin {
		return common.ErrorNotFound
	}

	if target.Username != u.Update.Username {
		existing, err := writer.Users.FindByUsername(ctx, u.Update.Username)
		switch {
		case err == nil && existing.ID != target.ID:
			return fmt.Errorf("%w: username %q is taken", common.ErrorDuplicateKey, u.Update.Username)
		case err != nil && !errors.Is(err, common.ErrorNotFound):
			return err
		}
	}

	return writer.Users.Update(ctx, &u.Update)
}
