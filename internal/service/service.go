package service

import (
	"context"
	"fmt"

	"github.com/carson-networks/ledger-server/internal/auth"
	"github.com/carson-networks/ledger-server/internal/common"
	"github.com/carson-networks/ledger-server/internal/operator/actions"
	"github.com/carson-networks/ledger-server/internal/storage"
)

// ActionProcessor runs a write action in its own database transaction.
type ActionProcessor interface {
	Process(ctx context.Context, action actions.IAction) error
}

// Service holds all business logic services.
type Service struct {
	Transaction *TransactionService
	Report      *ReportService
	User        *UserService
}

// NewService creates a new Service. Reads go to store, writes go through processor.
func NewService(store *storage.Storage, processor ActionProcessor) *Service {
	return &Service{
		Transaction: NewTransactionService(store, processor),
		Report:      NewReportService(store),
		User:        NewUserService(store, processor),
	}
}

func requireAdmin(identity auth.Identity) error {
	if !identity.IsAdmin {
		return fmt.Errorf("%w: administrator only", common.ErrorUnauthorized)
	}
	return nil
}

func requireMember(identity auth.Identity) error {
	if identity.IsAdmin {
		return fmt.Errorf("%w: administrators do not own transactions", common.ErrorUnauthorized)
	}
	return nil
}
