package sqlconfig

import (
	"github.com/stephenafamo/bob"
	"github.com/stephenafamo/bob/dialect/psql"
	"github.com/stephenafamo/bob/dialect/psql/dialect"
	"github.com/stephenafamo/bob/dialect/psql/sm"
)

var transactionColumns = []any{
	"t.id", "t.user_id", "u.username", "t.date", "t.type", "t.category", "t.amount", "t.note",
}

// filterMods turns a TransactionFilter into conjunctive WHERE mods. Both date
// bounds are inclusive.
func filterMods(filter *TransactionFilter) []bob.Mod[*dialect.SelectQuery] {
	if filter == nil {
		return nil
	}

	var mods []bob.Mod[*dialect.SelectQuery]
	if filter.UserID != nil {
		mods = append(mods, sm.Where(psql.Quote("t", "user_id").EQ(psql.Arg(*filter.UserID))))
	}
	if filter.From != nil {
		mods = append(mods, sm.Where(psql.Quote("t", "date").GTE(psql.Arg(*filter.From))))
	}
	if filter.To != nil {
		mods = append(mods, sm.Where(psql.Quote("t", "date").LTE(psql.Arg(*filter.To))))
	}
	if filter.Type != nil {
		mods = append(mods, sm.Where(psql.Quote("t", "type").EQ(psql.Arg(*filter.Type))))
	}
	if filter.Month != nil {
		mods = append(mods, sm.Where(psql.Quote("t", "date").Like(psql.Arg(*filter.Month+"%"))))
	}
	if filter.ExcludeAdmins {
		mods = append(mods, sm.Where(psql.Quote("u", "is_admin").EQ(psql.Arg(false))))
	}
	return mods
}

// listTransactionsQuery builds the ordered, filtered transaction listing joined
// with the owner's username.
func listTransactionsQuery(filter *TransactionFilter) bob.Query {
	queryMods := []bob.Mod[*dialect.SelectQuery]{
		sm.Columns(transactionColumns...),
		sm.From("transactions AS t"),
		sm.InnerJoin("users AS u").On(psql.Quote("u", "id").EQ(psql.Quote("t", "user_id"))),
	}
	queryMods = append(queryMods, filterMods(filter)...)
	queryMods = append(queryMods,
		sm.OrderBy(psql.Quote("t", "date")).Desc(),
		sm.OrderBy(psql.Quote("t", "id")).Desc(),
	)
	if filter != nil && filter.Limit > 0 {
		queryMods = append(queryMods, sm.Limit(filter.Limit))
	}
	return psql.Select(queryMods...)
}
