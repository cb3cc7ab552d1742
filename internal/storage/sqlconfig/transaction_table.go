package sqlconfig

import (
	"context"

	"github.com/stephenafamo/bob"
	"github.com/stephenafamo/bob/dialect/psql"
	"github.com/stephenafamo/bob/dialect/psql/dm"
	"github.com/stephenafamo/bob/dialect/psql/im"
	"github.com/stephenafamo/bob/dialect/psql/sm"
	"github.com/stephenafamo/bob/dialect/psql/um"
	"github.com/stephenafamo/scan"
)

var _ ITransactionTable = (*TransactionsTable)(nil)

// TransactionsTable provides access to the transactions table.
type TransactionsTable struct {
	exec bob.Executor
}

func NewTransactionsTable(exec bob.Executor) *TransactionsTable {
	return &TransactionsTable{exec: exec}
}

// Insert creates a new transaction and returns its generated ID.
func (t *TransactionsTable) Insert(ctx context.Context, create *TransactionCreate) (int64, error) {
	q := psql.Insert(
		im.Into("transactions", "user_id", "date", "type", "category", "amount", "note"),
		im.Values(
			psql.Arg(create.UserID),
			psql.Arg(create.Date),
			psql.Arg(create.Type),
			psql.Arg(create.Category),
			psql.Arg(create.Amount),
			psql.Arg(create.Note),
		),
		im.Returning("id"),
	)
	id, err := bob.One(ctx, t.exec, q, scan.SingleColumnMapper[int64])
	if err != nil {
		return 0, translateError(err)
	}
	return id, nil
}

// FindByID retrieves a transaction owned by ownerID. Rows owned by someone
// else are reported as not found.
func (t *TransactionsTable) FindByID(ctx context.Context, id int64, ownerID int64) (*Transaction, error) {
	q := psql.Select(
		sm.Columns(transactionColumns...),
		sm.From("transactions AS t"),
		sm.InnerJoin("users AS u").On(psql.Quote("u", "id").EQ(psql.Quote("t", "user_id"))),
		sm.Where(psql.Quote("t", "id").EQ(psql.Arg(id))),
		sm.Where(psql.Quote("t", "user_id").EQ(psql.Arg(ownerID))),
	)
	row, err := bob.One(ctx, t.exec, q, scan.StructMapper[Transaction]())
	if err != nil {
		return nil, translateError(err)
	}
	return &row, nil
}

// Update replaces date, type, category, amount and note of a transaction
// owned by update.UserID.
func (t *TransactionsTable) Update(ctx context.Context, update *TransactionUpdate) error {
	q := psql.Update(
		um.Table("transactions"),
		um.SetCol("date").ToArg(update.Date),
		um.SetCol("type").ToArg(update.Type),
		um.SetCol("category").ToArg(update.Category),
		um.SetCol("amount").ToArg(update.Amount),
		um.SetCol("note").ToArg(update.Note),
		um.Where(psql.Quote("id").EQ(psql.Arg(update.ID))),
		um.Where(psql.Quote("user_id").EQ(psql.Arg(update.UserID))),
	)
	result, err := bob.Exec(ctx, t.exec, q)
	if err != nil {
		return translateError(err)
	}
	return expectAffected(result)
}

// Delete removes a transaction owned by ownerID.
func (t *TransactionsTable) Delete(ctx context.Context, id int64, ownerID int64) error {
	q := psql.Delete(
		dm.From("transactions"),
		dm.Where(psql.Quote("id").EQ(psql.Arg(id))),
		dm.Where(psql.Quote("user_id").EQ(psql.Arg(ownerID))),
	)
	result, err := bob.Exec(ctx, t.exec, q)
	if err != nil {
		return translateError(err)
	}
	return expectAffected(result)
}

// DeleteByUser removes every transaction of userID and returns how many were removed.
func (t *TransactionsTable) DeleteByUser(ctx context.Context, userID int64) (int64, error) {
	q := psql.Delete(
		dm.From("transactions"),
		dm.Where(psql.Quote("user_id").EQ(psql.Arg(userID))),
	)
	result, err := bob.Exec(ctx, t.exec, q)
	if err != nil {
		return 0, translateError(err)
	}
	return result.RowsAffected()
}

// List returns transactions matching the filter ordered by date then id,
// newest first. Nil filter returns all.
func (t *TransactionsTable) List(ctx context.Context, filter *TransactionFilter) ([]*Transaction, error) {
	rows, err := bob.All(ctx, t.exec, listTransactionsQuery(filter), scan.StructMapper[*Transaction]())
	if err != nil {
		return nil, translateError(err)
	}
	return rows, nil
}

// ListMonths returns the distinct "YYYY-MM" prefixes of ownerID's transaction
// dates, newest first.
func (t *TransactionsTable) ListMonths(ctx context.Context, ownerID int64) ([]string, error) {
	q := psql.Select(
		sm.Distinct(),
		sm.Columns("substr(date, 1, 7) AS month"),
		sm.From("transactions"),
		sm.Where(psql.Quote("user_id").EQ(psql.Arg(ownerID))),
		sm.OrderBy("month").Desc(),
	)
	months, err := bob.All(ctx, t.exec, q, scan.SingleColumnMapper[string])
	if err != nil {
		return nil, translateError(err)
	}
	return months, nil
}
