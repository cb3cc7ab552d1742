package actions

import (
	"context"

	"github.com/carson-networks/ledger-server/internal/storage"
	"github.com/carson-networks/ledger-server/internal/storage/sqlconfig"
)

var _ IAction = (*CreateUser)(nil)

type CreateUser struct {
	Create sqlconfig.UserCreate

	// ID is set once the row is inserted.
	ID int64
}

func (u *CreateUser) Perform(ctx context.Context, writer *storage.Writer) error {
	id, err := writer.Users.Insert(ctx, &u.Create)
	if err != nil {
		return err
	}

	u.ID = id
	return nil
}
