package transaction

import (
	"github.com/carson-networks/ledger-server/internal/service"
)

// Transaction is the API response model for a transaction.
// It is used only for responses, not for request bodies.
type Transaction struct {
	ID       int64   `json:"id" doc:"Transaction ID"`
	UserID   int64   `json:"userID" doc:"Owner user ID"`
	Username string  `json:"username" doc:"Owner username"`
	Date     string  `json:"date" doc:"Transaction date as entered, usually YYYY-MM-DD"`
	Type     string  `json:"type" enum:"Income,Expense" doc:"Cash flow direction"`
	Category string  `json:"category" doc:"Category"`
	Amount   string  `json:"amount" doc:"Decimal amount"`
	Note     *string `json:"note,omitempty" doc:"Optional note"`
}

// Summary is the API model for income and expense totals.
type Summary struct {
	IncomeTotal  string `json:"incomeTotal" doc:"Sum of Income amounts"`
	ExpenseTotal string `json:"expenseTotal" doc:"Sum of Expense amounts"`
	Balance      string `json:"balance" doc:"incomeTotal minus expenseTotal"`
}

func NewTransaction(tx service.Transaction) Transaction {
	return Transaction{
		ID:       tx.ID,
		UserID:   tx.UserID,
		Username: tx.Username,
		Date:     tx.Date,
		Type:     string(tx.Type),
		Category: tx.Category,
		Amount:   tx.Amount.String(),
		Note:     tx.Note,
	}
}

// NewTransactions converts a slice; nil becomes an empty list.
func NewTransactions(txs []service.Transaction) []Transaction {
	converted := make([]Transaction, len(txs))
	for i, tx := range txs {
		converted[i] = NewTransaction(tx)
	}
	return converted
}

func NewSummary(summary service.Summary) Summary {
	return Summary{
		IncomeTotal:  summary.IncomeTotal.String(),
		ExpenseTotal: summary.ExpenseTotal.String(),
		Balance:      summary.Balance.String(),
	}
}
