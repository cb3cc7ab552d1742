package sqlconfig

import (
	"context"

	"github.com/aarondl/opt/null"
	"github.com/shopspring/decimal"
)

// Transaction represents a transactions row joined with its owner's username.
type Transaction struct {
	ID       int64            `db:"id"`
	UserID   int64            `db:"user_id"`
	Username string           `db:"username"`
	Date     string           `db:"date"`
	Type     string           `db:"type"`
	Category string           `db:"category"`
	Amount   decimal.Decimal  `db:"amount"`
	Note     null.Val[string] `db:"note"`
}

// TransactionCreate is the input for creating a new transaction.
type TransactionCreate struct {
	UserID   int64
	Date     string
	Type     string
	Category string
	Amount   decimal.Decimal
	Note     null.Val[string]
}

// TransactionUpdate replaces every mutable column of a transaction owned by UserID.
type TransactionUpdate struct {
	ID       int64
	UserID   int64
	Date     string
	Type     string
	Category string
	Amount   decimal.Decimal
	Note     null.Val[string]
}

// TransactionFilter specifies filters for listing transactions. Nil fields
// are not applied; every applied filter narrows the result.
type TransactionFilter struct {
	UserID        *int64
	From          *string
	To            *string
	Type          *string
	Month         *string // "YYYY-MM" prefix of the date column
	ExcludeAdmins bool
	Limit         int
}

// ITransactionTable defines the interface for transaction storage operations.
//
//go:generate mockery --name ITransactionTable --inpackage --with-expecter --filename mock_ITransactionTable.go
type ITransactionTable interface {
	Insert(ctx context.Context, create *TransactionCreate) (int64, error)
	FindByID(ctx context.Context, id int64, ownerID int64) (*Transaction, error)
	Update(ctx context.Context, update *TransactionUpdate) error
	Delete(ctx context.Context, id int64, ownerID int64) error
	DeleteByUser(ctx context.Context, userID int64) (int64, error)
	List(ctx context.Context, filter *TransactionFilter) ([]*Transaction, error)
	ListMonths(ctx context.Context, ownerID int64) ([]string, error)
}
