package storage

import (
	"context"

	"github.com/stephenafamo/bob"
)

// Tx is a bob executor that can be committed or rolled back.
type Tx interface {
	bob.Executor
	Commit(ctx context.Context) error
	Rollback(ctx context.Context) error
}

// Writer exposes the tables bound to one open transaction.
type Writer struct {
	tx Tx
	*Reader
}

func NewWriter(tx Tx) *Writer {
	return &Writer{
		tx:     tx,
		Reader: NewReader(tx),
	}
}

func (w *Writer) Commit() error {
	return w.tx.Commit(context.Background())
}

func (w *Writer) Rollback() error {
	return w.tx.Rollback(context.Background())
}
