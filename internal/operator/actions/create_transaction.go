package actions

import (
	"context"

	"github.com/carson-networks/ledger-server/internal/storage"
	"github.com/carson-networks/ledger-server/internal/storage/sqlconfig"
)

var _ IAction = (*CreateTransaction)(nil)

type CreateTransaction struct {
	Create sqlconfig.TransactionCreate

	// ID is set once the row is inserted.
	ID int64
}

func (t *CreateTransaction) Perform(ctx context.Context, writer *storage.Writer) error {
	id, err := writer.Transactions.Insert(ctx, &t.Create)
	if err != nil {
		return err
	}

	t.ID = id
	return nil
}
