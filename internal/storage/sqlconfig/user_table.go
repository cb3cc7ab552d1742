package sqlconfig

import (
	"context"

	"github.com/stephenafamo/bob"
	"github.com/stephenafamo/bob/dialect/psql"
	"github.com/stephenafamo/bob/dialect/psql/dialect"
	"github.com/stephenafamo/bob/dialect/psql/dm"
	"github.com/stephenafamo/bob/dialect/psql/im"
	"github.com/stephenafamo/bob/dialect/psql/sm"
	"github.com/stephenafamo/bob/dialect/psql/um"
	"github.com/stephenafamo/scan"
)

var userColumns = []any{"id", "username", "password_hash", "is_admin", "created_at"}

// Ensure UsersTable implements IUserTable at compile time.
var _ IUserTable = (*UsersTable)(nil)

// UsersTable provides access to the users table.
type UsersTable struct {
	exec bob.Executor
}

// NewUsersTable creates a UsersTable bound to exec, which may be the pool or a transaction.
func NewUsersTable(exec bob.Executor) *UsersTable {
	return &UsersTable{exec: exec}
}

// Insert creates a new user and returns its generated ID.
func (t *UsersTable) Insert(ctx context.Context, create *UserCreate) (int64, error) {
	q := psql.Insert(
		im.Into("users", "username", "password_hash", "is_admin"),
		im.Values(psql.Arg(create.Username), psql.Arg(create.PasswordHash), psql.Arg(create.IsAdmin)),
		im.Returning("id"),
	)
	id, err := bob.One(ctx, t.exec, q, scan.SingleColumnMapper[int64])
	if err != nil {
		return 0, translateError(err)
	}
	return id, nil
}

// FindByID retrieves a user by primary key.
func (t *UsersTable) FindByID(ctx context.Context, id int64) (*User, error) {
	return t.findOne(ctx, sm.Where(psql.Quote("id").EQ(psql.Arg(id))))
}

// FindByUsername retrieves a user by exact (case-sensitive) username.
func (t *UsersTable) FindByUsername(ctx context.Context, username string) (*User, error) {
	return t.findOne(ctx, sm.Where(psql.Quote("username").EQ(psql.Arg(username))))
}

func (t *UsersTable) findOne(ctx context.Context, where bob.Mod[*dialect.SelectQuery]) (*User, error) {
	q := psql.Select(
		sm.Columns(userColumns...),
		sm.From("users"),
		where,
	)
	row, err := bob.One(ctx, t.exec, q, scan.StructMapper[User]())
	if err != nil {
		return nil, translateError(err)
	}
	return &row, nil
}

// Update replaces the username and, if present, the password hash.
func (t *UsersTable) Update(ctx context.Context, update *UserUpdate) error {
	mods := []bob.Mod[*dialect.UpdateQuery]{
		um.Table("users"),
		um.SetCol("username").ToArg(update.Username),
	}
	if hash, ok := update.PasswordHash.Get(); ok {
		mods = append(mods, um.SetCol("password_hash").ToArg(hash))
	}
	mods = append(mods, um.Where(psql.Quote("id").EQ(psql.Arg(update.ID))))

	result, err := bob.Exec(ctx, t.exec, psql.Update(mods...))
	if err != nil {
		return translateError(err)
	}
	return expectAffected(result)
}

// Delete removes a user. Transactions follow through the foreign key cascade.
func (t *UsersTable) Delete(ctx context.Context, id int64) error {
	q := psql.Delete(
		dm.From("users"),
		dm.Where(psql.Quote("id").EQ(psql.Arg(id))),
	)
	result, err := bob.Exec(ctx, t.exec, q)
	if err != nil {
		return translateError(err)
	}
	return expectAffected(result)
}

// List returns users ordered by ID. Nil filter returns all.
func (t *UsersTable) List(ctx context.Context, filter *UserFilter) ([]*User, error) {
	queryMods := []bob.Mod[*dialect.SelectQuery]{
		sm.Columns(userColumns...),
		sm.From("users"),
	}
	if filter != nil && filter.ExcludeAdmins {
		queryMods = append(queryMods, sm.Where(psql.Quote("is_admin").EQ(psql.Arg(false))))
	}
	queryMods = append(queryMods, sm.OrderBy("id").Asc())

	rows, err := bob.All(ctx, t.exec, psql.Select(queryMods...), scan.StructMapper[*User]())
	if err != nil {
		return nil, translateError(err)
	}
	return rows, nil
}
