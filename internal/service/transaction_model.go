package service

import (
	"fmt"
	"strings"

	"github.com/aarondl/opt/null"
	"github.com/shopspring/decimal"

	"github.com/carson-networks/ledger-server/internal/common"
	"github.com/carson-networks/ledger-server/internal/storage/sqlconfig"
)

// TransactionType is the direction of a cash flow.
type TransactionType string

const (
	TransactionTypeIncome  TransactionType = "Income"
	TransactionTypeExpense TransactionType = "Expense"

	// typeFilterAll is accepted by list filters as "no type filter".
	typeFilterAll = "All"
)

// ParseTransactionType accepts exactly "Income" or "Expense".
func ParseTransactionType(s string) (TransactionType, error) {
	switch TransactionType(s) {
	case TransactionTypeIncome, TransactionTypeExpense:
		return TransactionType(s), nil
	}
	return "", fmt.Errorf("%w: type must be %q or %q, got %q",
		common.ErrorInvalidInput, TransactionTypeIncome, TransactionTypeExpense, s)
}

// Transaction represents a transaction in the service layer.
type Transaction struct {
	ID       int64
	UserID   int64
	Username string
	Date     string
	Type     TransactionType
	Category string
	Amount   decimal.Decimal
	Note     *string
}

// TransactionInput carries the user editable fields of a transaction.
type TransactionInput struct {
	Date     string
	Type     TransactionType
	Category string
	Amount   decimal.Decimal
	Note     *string
}

func (in *TransactionInput) validate() error {
	if strings.TrimSpace(in.Date) == "" {
		return fmt.Errorf("%w: date is required", common.ErrorInvalidInput)
	}
	if _, err := ParseTransactionType(string(in.Type)); err != nil {
		return err
	}
	if strings.TrimSpace(in.Category) == "" {
		return fmt.Errorf("%w: category is required", common.ErrorInvalidInput)
	}
	if !in.Amount.IsPositive() {
		return fmt.Errorf("%w: amount must be greater than 0", common.ErrorInvalidInput)
	}
	return nil
}

func (in *TransactionInput) note() null.Val[string] {
	if in.Note == nil || strings.TrimSpace(*in.Note) == "" {
		return null.Val[string]{}
	}
	return null.From(*in.Note)
}

// ToCreate validates the input and returns the row to insert for userID.
func (in *TransactionInput) ToCreate(userID int64) (sqlconfig.TransactionCreate, error) {
	if err := in.validate(); err != nil {
		return sqlconfig.TransactionCreate{}, err
	}
	return sqlconfig.TransactionCreate{
		UserID:   userID,
		Date:     in.Date,
		Type:     string(in.Type),
		Category: in.Category,
		Amount:   in.Amount,
		Note:     in.note(),
	}, nil
}

// TransactionQuery holds the optional list filters. Absent bounds are
// unbounded; Type "" or "All" applies no type filter. UserID is honoured on
// the admin report only.
type TransactionQuery struct {
	From   *string
	To     *string
	Type   string
	UserID *int64
}

func (q TransactionQuery) toFilter() (*sqlconfig.TransactionFilter, error) {
	filter := &sqlconfig.TransactionFilter{
		From:   q.From,
		To:     q.To,
		UserID: q.UserID,
	}
	if q.Type != "" && q.Type != typeFilterAll {
		kind, err := ParseTransactionType(q.Type)
		if err != nil {
			return nil, err
		}
		typeValue := string(kind)
		filter.Type = &typeValue
	}
	return filter, nil
}

// TransactionList is a filtered listing with the totals of the listed rows.
type TransactionList struct {
	Transactions []Transaction
	Summary      Summary
}

func transactionFromStorage(row *sqlconfig.Transaction) Transaction {
	return Transaction{
		ID:       row.ID,
		UserID:   row.UserID,
		Username: row.Username,
		Date:     row.Date,
		Type:     TransactionType(row.Type),
		Category: row.Category,
		Amount:   row.Amount,
		Note:     row.Note.Ptr(),
	}
}

func transactionsFromStorage(rows []*sqlconfig.Transaction) []Transaction {
	converted := make([]Transaction, len(rows))
	for i, row := range rows {
		converted[i] = transactionFromStorage(row)
	}
	return converted
}
