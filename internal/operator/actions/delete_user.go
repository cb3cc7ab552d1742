package actions

import (
	"context"

	"github.com/carson-networks/ledger-server/internal/common"
	"github.com/carson-networks/ledger-server/internal/storage"
)

var _ IAction = (*DeleteUser)(nil)

// DeleteUser removes a non-admin user together with all of their transactions.
type DeleteUser struct {
	ID int64

	// DeletedTransactions is set to the number of transactions removed.
	DeletedTransactions int64
}

func (u *DeleteUser) Perform(ctx context.Context, writer *storage.Writer) error {
	target, err := writer.Users.FindByID(ctx, u.ID)
	if err != nil {
		return err
	}
	if target.IsAdmin {
		return common.ErrorNotFound
	}

	deleted, err := writer.Transactions.DeleteByUser(ctx, u.ID)
	if err != nil {
		return err
	}

	if err = writer.Users.Delete(ctx, u.ID); err != nil {
		return err
	}

	u.DeletedTransactions = deleted
	return nil
}
