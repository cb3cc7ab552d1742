package actions

import (
	"context"

	"github.com/carson-networks/ledger-server/internal/storage"
)

// IAction is one unit of work executed inside a single database transaction.
// Results are written back onto the action value.
type IAction interface {
	Perform(ctx context.Context, writer *storage.Writer) error
}
