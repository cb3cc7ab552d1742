package service

import (
	"fmt"
	"sort"
	"time"

	"github.com/shopspring/decimal"
)

// Summary holds income and expense totals of a set of transactions.
// Balance is always IncomeTotal minus ExpenseTotal.
type Summary struct {
	IncomeTotal  decimal.Decimal
	ExpenseTotal decimal.Decimal
	Balance      decimal.Decimal
}

// UserSummary is the per-user rollup shown to administrators.
type UserSummary struct {
	UserID           int64
	Username         string
	TransactionCount int
	Summary
}

// YearMonth identifies a calendar month.
type YearMonth struct {
	Year  int
	Month time.Month
}

func YearMonthOf(t time.Time) YearMonth {
	return YearMonth{Year: t.Year(), Month: t.Month()}
}

// ParseYearMonth parses the "YYYY-MM" form, also accepting a longer ISO date.
func ParseYearMonth(s string) (YearMonth, error) {
	if len(s) < 7 {
		return YearMonth{}, fmt.Errorf("month %q: expected YYYY-MM", s)
	}
	t, err := time.Parse("2006-01", s[:7])
	if err != nil {
		return YearMonth{}, fmt.Errorf("month %q: %w", s, err)
	}
	return YearMonthOf(t), nil
}

func (ym YearMonth) String() string {
	return fmt.Sprintf("%04d-%02d", ym.Year, int(ym.Month))
}

// Summarize totals income and expense over rows. Empty input yields zeros.
func Summarize(rows []Transaction) Summary {
	income := decimal.Zero
	expense := decimal.Zero
	for _, row := range rows {
		switch row.Type {
		case TransactionTypeIncome:
			income = income.Add(row.Amount)
		case TransactionTypeExpense:
			expense = expense.Add(row.Amount)
		}
	}
	return Summary{
		IncomeTotal:  income,
		ExpenseTotal: expense,
		Balance:      income.Sub(expense),
	}
}

// SummarizeByUser returns one entry per non-admin user, ordered by user ID.
// Users without transactions get zero totals. Rows of unknown or admin users
// are ignored.
func SummarizeByUser(users []User, rows []Transaction) []UserSummary {
	byUser := make(map[int64][]Transaction, len(users))
	for _, row := range rows {
		byUser[row.UserID] = append(byUser[row.UserID], row)
	}

	summaries := make([]UserSummary, 0, len(users))
	for _, user := range users {
		if user.IsAdmin {
			continue
		}
		owned := byUser[user.ID]
		summaries = append(summaries, UserSummary{
			UserID:           user.ID,
			Username:         user.Username,
			TransactionCount: len(owned),
			Summary:          Summarize(owned),
		})
	}

	sort.Slice(summaries, func(i, j int) bool {
		return summaries[i].UserID < summaries[j].UserID
	})
	return summaries
}

// FilterByMonth keeps rows whose date falls in the given calendar month.
// Rows whose date does not start with YYYY-MM are dropped.
func FilterByMonth(rows []Transaction, ym YearMonth) []Transaction {
	filtered := make([]Transaction, 0, len(rows))
	for _, row := range rows {
		rowMonth, err := ParseYearMonth(row.Date)
		if err != nil {
			continue
		}
		if rowMonth == ym {
			filtered = append(filtered, row)
		}
	}
	return filtered
}

// SummarizeMonth is Summarize over the rows of one calendar month.
func SummarizeMonth(rows []Transaction, ym YearMonth) Summary {
	return Summarize(FilterByMonth(rows, ym))
}
