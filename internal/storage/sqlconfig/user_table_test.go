package sqlconfig

import (
	"context"
	"database/sql"
	"testing"
	"time"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/aarondl/opt/omit"
	"github.com/lib/pq"
	"github.com/stephenafamo/bob"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/carson-networks/ledger-server/internal/common"
)

func newMockDB(t *testing.T) (bob.DB, sqlmock.Sqlmock) {
	t.Helper()
	db, mock, err := sqlmock.New(sqlmock.QueryMatcherOption(sqlmock.QueryMatcherRegexp))
	require.NoError(t, err)
	t.Cleanup(func() {
		assert.NoError(t, mock.ExpectationsWereMet())
		_ = db.Close()
	})
	return bob.NewDB(db), mock
}

var userRowColumns = []string{"id", "username", "password_hash", "is_admin", "created_at"}

func TestUsersTable_Insert_Success(t *testing.T) {
	db, mock := newMockDB(t)
	table := NewUsersTable(db)

	mock.ExpectQuery(`(?s)INSERT INTO users.*RETURNING`).
		WithArgs("alice", "hash", false).
		WillReturnRows(sqlmock.NewRows([]string{"id"}).AddRow(int64(42)))

	id, err := table.Insert(context.Background(), &UserCreate{Username: "alice", PasswordHash: "hash"})

	assert.NoError(t, err)
	assert.Equal(t, int64(42), id)
}

func TestUsersTable_Insert_Duplicate(t *testing.T) {
	db, mock := newMockDB(t)
	table := NewUsersTable(db)

	mock.ExpectQuery(`(?s)INSERT INTO users`).
		WillReturnError(&pq.Error{Code: "23505", Detail: "Key (username)=(alice) already exists."})

	_, err := table.Insert(context.Background(), &UserCreate{Username: "alice", PasswordHash: "hash"})

	assert.ErrorIs(t, err, common.ErrorDuplicateKey)
}

func TestUsersTable_Insert_SecondAdmin(t *testing.T) {
	db, mock := newMockDB(t)
	table := NewUsersTable(db)

	mock.ExpectQuery(`(?s)INSERT INTO users`).
		WithArgs("root", "hash", true).
		WillReturnError(&pq.Error{Code: "23505", Constraint: "users_single_admin", Detail: "Key (is_admin)=(t) already exists."})

	_, err := table.Insert(context.Background(), &UserCreate{Username: "root", PasswordHash: "hash", IsAdmin: true})

	assert.ErrorIs(t, err, common.ErrorDuplicateKey)
	assert.ErrorContains(t, err, "an administrator already exists")
}

func TestUsersTable_FindByUsername_Found(t *testing.T) {
	db, mock := newMockDB(t)
	table := NewUsersTable(db)
	createdAt := time.Date(2024, 1, 2, 3, 4, 5, 0, time.UTC)

	mock.ExpectQuery(`(?s)SELECT .*FROM users.*WHERE.*"username" = \$1`).
		WithArgs("alice").
		WillReturnRows(sqlmock.NewRows(userRowColumns).AddRow(int64(3), "alice", "hash", false, createdAt))

	user, err := table.FindByUsername(context.Background(), "alice")

	require.NoError(t, err)
	assert.Equal(t, int64(3), user.ID)
	assert.Equal(t, "alice", user.Username)
	assert.Equal(t, "hash", user.PasswordHash)
	assert.False(t, user.IsAdmin)
	assert.Equal(t, createdAt, user.CreatedAt)
}

func TestUsersTable_FindByID_NotFound(t *testing.T) {
	db, mock := newMockDB(t)
	table := NewUsersTable(db)

	mock.ExpectQuery(`(?s)SELECT .*FROM users.*WHERE.*"id" = \$1`).
		WithArgs(int64(9)).
		WillReturnRows(sqlmock.NewRows(userRowColumns))

	user, err := table.FindByID(context.Background(), 9)

	assert.ErrorIs(t, err, common.ErrorNotFound)
	assert.Nil(t, user)
}

func TestUsersTable_Update_UsernameOnly(t *testing.T) {
	db, mock := newMockDB(t)
	table := NewUsersTable(db)

	mock.ExpectExec(`(?s)UPDATE users SET`).
		WithArgs("bob", int64(3)).
		WillReturnResult(sqlmock.NewResult(0, 1))

	err := table.Update(context.Background(), &UserUpdate{ID: 3, Username: "bob"})

	assert.NoError(t, err)
}

func TestUsersTable_Update_WithPassword(t *testing.T) {
	db, mock := newMockDB(t)
	table := NewUsersTable(db)

	mock.ExpectExec(`(?s)UPDATE users SET.*"password_hash"`).
		WithArgs("bob", "newhash", int64(3)).
		WillReturnResult(sqlmock.NewResult(0, 1))

	err := table.Update(context.Background(), &UserUpdate{ID: 3, Username: "bob", PasswordHash: omit.From("newhash")})

	assert.NoError(t, err)
}

func TestUsersTable_Update_NoRows(t *testing.T) {
	db, mock := newMockDB(t)
	table := NewUsersTable(db)

	mock.ExpectExec(`(?s)UPDATE users SET`).
		WithArgs("bob", int64(3)).
		WillReturnResult(sqlmock.NewResult(0, 0))

	err := table.Update(context.Background(), &UserUpdate{ID: 3, Username: "bob"})

	assert.ErrorIs(t, err, common.ErrorNotFound)
}

func TestUsersTable_Delete(t *testing.T) {
	db, mock := newMockDB(t)
	table := NewUsersTable(db)

	mock.ExpectExec(`(?s)DELETE FROM users.*WHERE`).
		WithArgs(int64(3)).
		WillReturnResult(sqlmock.NewResult(0, 1))

	assert.NoError(t, table.Delete(context.Background(), 3))
}

func TestUsersTable_List_ExcludeAdmins(t *testing.T) {
	db, mock := newMockDB(t)
	table := NewUsersTable(db)
	createdAt := time.Date(2024, 1, 2, 3, 4, 5, 0, time.UTC)

	mock.ExpectQuery(`(?s)SELECT .*FROM users.*WHERE.*"is_admin" = \$1.*ORDER BY id`).
		WithArgs(false).
		WillReturnRows(sqlmock.NewRows(userRowColumns).
			AddRow(int64(2), "alice", "h1", false, createdAt).
			AddRow(int64(3), "bob", "h2", false, createdAt))

	users, err := table.List(context.Background(), &UserFilter{ExcludeAdmins: true})

	require.NoError(t, err)
	require.Len(t, users, 2)
	assert.Equal(t, "alice", users[0].Username)
	assert.Equal(t, "bob", users[1].Username)
}

func TestTranslateError(t *testing.T) {
	assert.NoError(t, translateError(nil))
	assert.ErrorIs(t, translateError(sql.ErrNoRows), common.ErrorNotFound)
	assert.ErrorIs(t, translateError(&pq.Error{Code: "23503"}), common.ErrorNotFound)
	assert.ErrorIs(t, translateError(&pq.Error{Code: "23505"}), common.ErrorDuplicateKey)

	other := &pq.Error{Code: "40001"}
	assert.Equal(t, other, translateError(other))
}
