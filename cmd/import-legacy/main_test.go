package main

import (
	"bytes"
	"context"
	"database/sql"
	"errors"
	"path/filepath"
	"testing"

	"github.com/shopspring/decimal"
	"github.com/sirupsen/logrus"
	"github.com/sirupsen/logrus/hooks/test"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/carson-networks/ledger-server/internal/common"
	"github.com/carson-networks/ledger-server/internal/config"
	"github.com/carson-networks/ledger-server/internal/operator/actions"
)

const legacySchema = `
CREATE TABLE transaksi (
	id INTEGER PRIMARY KEY AUTOINCREMENT,
	user_id INTEGER,
	tanggal TEXT NOT NULL,
	tipe TEXT NOT NULL,
	kategori TEXT NOT NULL,
	jumlah REAL NOT NULL,
	catatan TEXT
);
CREATE TABLE users (
	id INTEGER PRIMARY KEY AUTOINCREMENT,
	username TEXT UNIQUE NOT NULL,
	password TEXT NOT NULL
);`

func newLegacyDB(t *testing.T, schema string, statements ...string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "keuangan.db")
	db, err := sql.Open("sqlite", path)
	require.NoError(t, err)
	defer db.Close()

	_, err = db.Exec(schema)
	require.NoError(t, err)
	for _, stmt := range statements {
		_, err = db.Exec(stmt)
		require.NoError(t, err, stmt)
	}
	return path
}

func seededLegacyDB(t *testing.T, extra ...string) string {
	return newLegacyDB(t, legacySchema, append([]string{
		`INSERT INTO users (id, username, password) VALUES (1, 'admin', 'pbkdf2:sha256:1000$a$00')`,
		`INSERT INTO users (id, username, password) VALUES (2, 'budi', 'pbkdf2:sha256:1000$b$00')`,
		`INSERT INTO users (id, username, password) VALUES (3, 'sari', 'scrypt:32768:8:1$c$00')`,
		`INSERT INTO transaksi (user_id, tanggal, tipe, kategori, jumlah, catatan) VALUES (2, '2024-01-05', 'Pemasukan', 'Gaji', 100, 'Januari')`,
		`INSERT INTO transaksi (user_id, tanggal, tipe, kategori, jumlah, catatan) VALUES (2, '2024-01-06', 'Pengeluaran', 'Makan', 40, NULL)`,
		`INSERT INTO transaksi (user_id, tanggal, tipe, kategori, jumlah, catatan) VALUES (3, '2024-02-01', 'Pengeluaran', 'Transport', 12.5, '')`,
	}, extra...)...)
}

type fakeProcessor struct {
	action *actions.ImportLedger
	err    error
}

func (f *fakeProcessor) Process(_ context.Context, action actions.IAction) error {
	f.action = action.(*actions.ImportLedger)
	if f.err != nil {
		return f.err
	}
	f.action.UserIDs = map[int64]int64{}
	for i, u := range f.action.Users {
		f.action.UserIDs[u.LegacyID] = int64(100 + i)
		f.action.Transactions += len(u.Transactions)
	}
	return nil
}

func useFakeProcessor(t *testing.T, fake *fakeProcessor) {
	t.Helper()
	original := openProcessor
	openProcessor = func(*config.Config, *logrus.Logger) (processor, func(), error) {
		return fake, func() {}, nil
	}
	t.Cleanup(func() { openProcessor = original })
}

func TestReadLegacy(t *testing.T) {
	path := seededLegacyDB(t)
	db, err := openLegacy(context.Background(), path)
	require.NoError(t, err)
	defer db.Close()

	ledger, err := readLegacy(context.Background(), db)

	require.NoError(t, err)
	require.Len(t, ledger.Users, 3)
	assert.Equal(t, "budi", ledger.Users[1].Username)
	require.Len(t, ledger.Transactions, 3)
	assert.Equal(t, sql.NullInt64{Int64: 2, Valid: true}, ledger.Transactions[0].UserID)
	assert.Equal(t, "Pemasukan", ledger.Transactions[0].Type)
	assert.False(t, ledger.Transactions[1].Note.Valid)
	assert.Equal(t, 12.5, ledger.Transactions[2].Amount)
}

func TestReadLegacy_WithoutUserIDColumn(t *testing.T) {
	path := newLegacyDB(t, `
CREATE TABLE transaksi (id INTEGER PRIMARY KEY, tanggal TEXT, tipe TEXT, kategori TEXT, jumlah REAL, catatan TEXT);
CREATE TABLE users (id INTEGER PRIMARY KEY, username TEXT, password TEXT);`,
		`INSERT INTO transaksi (tanggal, tipe, kategori, jumlah) VALUES ('2024-01-05', 'Pemasukan', 'Gaji', 100)`,
	)
	db, err := openLegacy(context.Background(), path)
	require.NoError(t, err)
	defer db.Close()

	ledger, err := readLegacy(context.Background(), db)

	require.NoError(t, err)
	require.Len(t, ledger.Transactions, 1)
	assert.False(t, ledger.Transactions[0].UserID.Valid)
}

func TestOpenLegacy_MissingFile(t *testing.T) {
	_, err := openLegacy(context.Background(), filepath.Join(t.TempDir(), "missing.db"))
	assert.Error(t, err)
}

func TestBuildPlan_MapsUsersAndTypes(t *testing.T) {
	ledger := &legacyLedger{
		Users: []legacyUser{{ID: 1, Username: "admin", Password: "h1"}, {ID: 2, Username: " budi ", Password: "h2"}},
		Transactions: []legacyTransaction{
			{ID: 1, UserID: sql.NullInt64{Int64: 2, Valid: true}, Date: "2024-01-05", Type: "Pemasukan", Category: "Gaji", Amount: 100},
			{ID: 2, UserID: sql.NullInt64{Int64: 2, Valid: true}, Date: "2024-01-06", Type: "Pengeluaran", Category: "Makan", Amount: 40,
				Note: sql.NullString{String: "siang", Valid: true}},
		},
	}

	plan, err := buildPlan(ledger, planOptions{AdminUsername: "admin"})

	require.NoError(t, err)
	require.Len(t, plan.Users, 2)
	assert.True(t, plan.Users[0].Create.IsAdmin)
	assert.Empty(t, plan.Users[0].Transactions)
	assert.Equal(t, "budi", plan.Users[1].Create.Username)
	assert.Equal(t, "h2", plan.Users[1].Create.PasswordHash)
	require.Len(t, plan.Users[1].Transactions, 2)
	assert.Equal(t, "Income", plan.Users[1].Transactions[0].Type)
	assert.Equal(t, "Expense", plan.Users[1].Transactions[1].Type)
	assert.True(t, decimal.NewFromInt(40).Equal(plan.Users[1].Transactions[1].Amount))
	assert.Equal(t, "siang", plan.Users[1].Transactions[1].Note.GetOrZero())
	assert.Equal(t, 2, plan.Transactions)
	assert.Zero(t, plan.Orphans)
}

func TestBuildPlan_OrphansAbortByDefault(t *testing.T) {
	ledger := &legacyLedger{
		Users: []legacyUser{{ID: 2, Username: "budi", Password: "h"}},
		Transactions: []legacyTransaction{
			{ID: 1, Date: "2024-01-05", Type: "Pemasukan", Category: "Gaji", Amount: 100},
			{ID: 2, UserID: sql.NullInt64{Int64: 9, Valid: true}, Date: "2024-01-05", Type: "Pemasukan", Category: "Gaji", Amount: 100},
		},
	}

	_, err := buildPlan(ledger, planOptions{AdminUsername: "admin"})

	require.ErrorIs(t, err, errOrphans)
	assert.Contains(t, err.Error(), "2 transactions")
	assert.Contains(t, err.Error(), "-assign-orphans")
}

func TestBuildPlan_AssignOrphansToFirstMember(t *testing.T) {
	ledger := &legacyLedger{
		Users: []legacyUser{
			{ID: 1, Username: "admin", Password: "h"},
			{ID: 2, Username: "budi", Password: "h"},
			{ID: 3, Username: "sari", Password: "h"},
		},
		Transactions: []legacyTransaction{
			{ID: 1, Date: "2024-01-05", Type: "Pemasukan", Category: "Gaji", Amount: 100},
			{ID: 2, UserID: sql.NullInt64{Int64: 1, Valid: true}, Date: "2024-01-05", Type: "Pengeluaran", Category: "Makan", Amount: 10},
			{ID: 3, UserID: sql.NullInt64{Int64: 3, Valid: true}, Date: "2024-01-07", Type: "Pengeluaran", Category: "Makan", Amount: 5},
		},
	}

	plan, err := buildPlan(ledger, planOptions{AdminUsername: "admin", AssignOrphans: true})

	require.NoError(t, err)
	assert.Equal(t, 2, plan.Orphans)
	assert.Equal(t, "budi", plan.OrphansAssignedTo)
	assert.Len(t, plan.Users[1].Transactions, 2)
	assert.Len(t, plan.Users[2].Transactions, 1)
	assert.Equal(t, 3, plan.Transactions)
}

func TestBuildPlan_AssignOrphansWithoutMembers(t *testing.T) {
	ledger := &legacyLedger{
		Users:        []legacyUser{{ID: 1, Username: "admin", Password: "h"}},
		Transactions: []legacyTransaction{{ID: 1, Date: "2024-01-05", Type: "Pemasukan", Category: "Gaji", Amount: 100}},
	}

	_, err := buildPlan(ledger, planOptions{AdminUsername: "admin", AssignOrphans: true})

	assert.ErrorIs(t, err, errOrphans)
}

func TestBuildPlan_InvalidRows(t *testing.T) {
	owner := sql.NullInt64{Int64: 2, Valid: true}
	cases := map[string]legacyTransaction{
		"unknown type":    {ID: 4, UserID: owner, Date: "2024-01-05", Type: "Semua", Category: "Gaji", Amount: 1},
		"bad date":        {ID: 4, UserID: owner, Date: "05/01/2024", Type: "Pemasukan", Category: "Gaji", Amount: 1},
		"zero amount":     {ID: 4, UserID: owner, Date: "2024-01-05", Type: "Pemasukan", Category: "Gaji", Amount: 0},
		"negative amount": {ID: 4, UserID: owner, Date: "2024-01-05", Type: "Pemasukan", Category: "Gaji", Amount: -5},
		"blank category":  {ID: 4, UserID: owner, Date: "2024-01-05", Type: "Pemasukan", Category: "  ", Amount: 1},
	}
	for name, row := range cases {
		t.Run(name, func(t *testing.T) {
			ledger := &legacyLedger{
				Users:        []legacyUser{{ID: 2, Username: "budi", Password: "h"}},
				Transactions: []legacyTransaction{row},
			}

			_, err := buildPlan(ledger, planOptions{AdminUsername: "admin"})

			require.ErrorIs(t, err, common.ErrorInvalidInput)
			assert.Contains(t, err.Error(), "transaksi 4")
		})
	}
}

func TestRun_DryRunDumpsPlan(t *testing.T) {
	fake := &fakeProcessor{}
	useFakeProcessor(t, fake)
	logger, hook := test.NewNullLogger()
	stdout := new(bytes.Buffer)

	err := run(context.Background(), []string{"-source", seededLegacyDB(t), "-dry-run"}, stdout, logger)

	require.NoError(t, err)
	assert.Nil(t, fake.action)
	assert.Contains(t, stdout.String(), "budi")
	assert.Contains(t, stdout.String(), "Transport")
	require.NotNil(t, hook.LastEntry())
	assert.Equal(t, 3, hook.LastEntry().Data["transactions"])
}

func TestRun_Imports(t *testing.T) {
	fake := &fakeProcessor{}
	useFakeProcessor(t, fake)
	logger, _ := test.NewNullLogger()
	stdout := new(bytes.Buffer)

	err := run(context.Background(), []string{"-source", seededLegacyDB(t)}, stdout, logger)

	require.NoError(t, err)
	require.NotNil(t, fake.action)
	assert.Len(t, fake.action.Users, 3)
	assert.Contains(t, stdout.String(), "Imported 3 users and 3 transactions")
}

func TestRun_OrphansWarn(t *testing.T) {
	useFakeProcessor(t, &fakeProcessor{})
	logger, hook := test.NewNullLogger()
	path := seededLegacyDB(t,
		`INSERT INTO transaksi (user_id, tanggal, tipe, kategori, jumlah) VALUES (NULL, '2023-12-31', 'Pemasukan', 'Lama', 50)`)

	err := run(context.Background(), []string{"-source", path}, new(bytes.Buffer), logger)
	require.ErrorIs(t, err, errOrphans)

	err = run(context.Background(), []string{"-source", path, "-assign-orphans"}, new(bytes.Buffer), logger)
	require.NoError(t, err)

	var warned bool
	for _, entry := range hook.AllEntries() {
		if entry.Level == logrus.WarnLevel {
			warned = true
			assert.Equal(t, 1, entry.Data["orphans"])
			assert.Equal(t, "budi", entry.Data["assignedTo"])
		}
	}
	assert.True(t, warned)
}

func TestRun_ProcessError(t *testing.T) {
	useFakeProcessor(t, &fakeProcessor{err: common.ErrorDuplicateKey})
	logger, _ := test.NewNullLogger()

	err := run(context.Background(), []string{"-source", seededLegacyDB(t)}, new(bytes.Buffer), logger)

	assert.ErrorIs(t, err, common.ErrorDuplicateKey)
}

func TestRun_MissingSource(t *testing.T) {
	logger, _ := test.NewNullLogger()
	stdout := new(bytes.Buffer)

	err := run(context.Background(), nil, stdout, logger)

	require.Error(t, err)
	assert.False(t, errors.Is(err, errOrphans))
	assert.Contains(t, err.Error(), "missing required flags: source")
	assert.Contains(t, stdout.String(), "Usage:")
}
