package actions

import (
	"context"

	"github.com/carson-networks/ledger-server/internal/storage"
)

var _ IAction = (*DeleteTransaction)(nil)

type DeleteTransaction struct {
	ID      int64
	OwnerID int64
}

func (t *DeleteTransaction) Perform(ctx context.Context, writer *storage.Writer) error {
	return writer.Transactions.Delete(ctx, t.ID, t.OwnerID)
}
