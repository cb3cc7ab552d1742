package actions

import (
	"context"
	"fmt"

	"github.com/carson-networks/ledger-server/internal/storage"
	"github.com/carson-networks/ledger-server/internal/storage/sqlconfig"
)

var _ IAction = (*ImportLedger)(nil)

// ImportedUser is a user together with the transactions they own. The
// UserID of each transaction is filled in once the user row exists.
type ImportedUser struct {
	LegacyID     int64
	Create       sqlconfig.UserCreate
	Transactions []sqlconfig.TransactionCreate
}

// ImportLedger inserts a batch of users and their transactions in one
// database transaction; any failure leaves nothing behind.
type ImportLedger struct {
	Users []ImportedUser

	// UserIDs maps each LegacyID to the inserted user ID.
	UserIDs map[int64]int64
	// Transactions is the number of transaction rows inserted.
	Transactions int
}

func (l *ImportLedger) Perform(ctx context.Context, writer *storage.Writer) error {
	userIDs := make(map[int64]int64, len(l.Users))
	inserted := 0

	for i := range l.Users {
		u := &l.Users[i]
		id, err := writer.Users.Insert(ctx, &u.Create)
		if err != nil {
			return fmt.Errorf("insert user %q: %w", u.Create.Username, err)
		}
		userIDs[u.LegacyID] = id

		for j := range u.Transactions {
			create := u.Transactions[j]
			create.UserID = id
			if _, err := writer.Transactions.Insert(ctx, &create); err != nil {
				return fmt.Errorf("insert transaction for %q: %w", u.Create.Username, err)
			}
			inserted++
		}
	}

	l.UserIDs = userIDs
	l.Transactions = inserted
	return nil
}
