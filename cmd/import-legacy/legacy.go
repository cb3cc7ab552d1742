package main

import (
	"context"
	"database/sql"
	"fmt"
	"os"

	_ "modernc.org/sqlite"
)

type legacyUser struct {
	ID       int64
	Username string
	Password string
}

type legacyTransaction struct {
	ID       int64
	UserID   sql.NullInt64
	Date     string
	Type     string
	Category string
	Amount   float64
	Note     sql.NullString
}

type legacyLedger struct {
	Users        []legacyUser
	Transactions []legacyTransaction
}

// openLegacy opens an existing SQLite file. A missing path is an error rather
// than a fresh empty database.
func openLegacy(ctx context.Context, path string) (*sql.DB, error) {
	if _, err := os.Stat(path); err != nil {
		return nil, err
	}
	db, err := sql.Open("sqlite", path)
	if err != nil {
		return nil, err
	}
	if err := db.PingContext(ctx); err != nil {
		_ = db.Close()
		return nil, err
	}
	return db, nil
}

func readLegacy(ctx context.Context, db *sql.DB) (*legacyLedger, error) {
	users, err := readLegacyUsers(ctx, db)
	if err != nil {
		return nil, fmt.Errorf("read users: %w", err)
	}
	transactions, err := readLegacyTransactions(ctx, db)
	if err != nil {
		return nil, fmt.Errorf("read transaksi: %w", err)
	}
	return &legacyLedger{Users: users, Transactions: transactions}, nil
}

func readLegacyUsers(ctx context.Context, db *sql.DB) ([]legacyUser, error) {
	rows, err := db.QueryContext(ctx, `SELECT id, username, password FROM users ORDER BY id`)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var users []legacyUser
	for rows.Next() {
		var u legacyUser
		if err := rows.Scan(&u.ID, &u.Username, &u.Password); err != nil {
			return nil, err
		}
		users = append(users, u)
	}
	return users, rows.Err()
}

func readLegacyTransactions(ctx context.Context, db *sql.DB) ([]legacyTransaction, error) {
	// Databases created before multi-user support have no user_id column.
	owned, err := hasColumn(ctx, db, "transaksi", "user_id")
	if err != nil {
		return nil, err
	}
	userIDColumn := "NULL"
	if owned {
		userIDColumn = "user_id"
	}

	rows, err := db.QueryContext(ctx,
		`SELECT id, `+userIDColumn+`, tanggal, tipe, kategori, jumlah, catatan FROM transaksi ORDER BY id`)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var transactions []legacyTransaction
	for rows.Next() {
		var t legacyTransaction
		if err := rows.Scan(&t.ID, &t.UserID, &t.Date, &t.Type, &t.Category, &t.Amount, &t.Note); err != nil {
			return nil, err
		}
		transactions = append(transactions, t)
	}
	return transactions, rows.Err()
}

func hasColumn(ctx context.Context, db *sql.DB, table, column string) (bool, error) {
	rows, err := db.QueryContext(ctx, `SELECT name FROM pragma_table_info(?)`, table)
	if err != nil {
		return false, err
	}
	defer rows.Close()

	for rows.Next() {
		var name string
		if err := rows.Scan(&name); err != nil {
			return false, err
		}
		if name == column {
			return true, nil
		}
	}
	return false, rows.Err()
}
