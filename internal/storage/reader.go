package storage

import (
	"github.com/stephenafamo/bob"

	"github.com/carson-networks/ledger-server/internal/storage/sqlconfig"
)

// Reader groups the tables bound to a single executor.
type Reader struct {
	Users        sqlconfig.IUserTable
	Transactions sqlconfig.ITransactionTable
}

func NewReader(exec bob.Executor) *Reader {
	return &Reader{
		Users:        sqlconfig.NewUsersTable(exec),
		Transactions: sqlconfig.NewTransactionsTable(exec),
	}
}
