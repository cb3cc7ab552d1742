package storage

import (
	"context"
	"database/sql"
	"fmt"

	_ "github.com/lib/pq"
	"github.com/stephenafamo/bob"

	"github.com/carson-networks/ledger-server/internal/config"
	"github.com/carson-networks/ledger-server/internal/storage/sqlconfig"
)

// Storage owns the connection pool. Its tables run on the pool; Write opens a
// transaction with its own tx-bound tables.
type Storage struct {
	DB           *sql.DB
	Users        sqlconfig.IUserTable
	Transactions sqlconfig.ITransactionTable
}

func NewStorage(env *config.Config) (*Storage, error) {
	db, err := sql.Open("postgres", env.PostgresDSN())
	if err != nil {
		return nil, fmt.Errorf("sql.Open: %w", err)
	}

	return NewStorageFromDB(db), nil
}

func NewStorageFromDB(db *sql.DB) *Storage {
	reader := NewReader(bob.NewDB(db))
	return &Storage{
		DB:           db,
		Users:        reader.Users,
		Transactions: reader.Transactions,
	}
}

// Ping verifies the database is reachable.
func (s *Storage) Ping(ctx context.Context) error {
	return s.DB.PingContext(ctx)
}

// Write begins a database transaction. The caller must Commit or Rollback the
// returned Writer.
func (s *Storage) Write(ctx context.Context) (*Writer, error) {
	tx, err := bob.NewDB(s.DB).BeginTx(ctx, nil)
	if err != nil {
		return nil, fmt.Errorf("begin tx: %w", err)
	}
	return NewWriter(tx), nil
}

func (s *Storage) Close() error {
	return s.DB.Close()
}
