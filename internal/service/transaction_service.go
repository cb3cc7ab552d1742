package service

import (
	"context"

	"github.com/carson-networks/ledger-server/internal/auth"
	"github.com/carson-networks/ledger-server/internal/operator/actions"
	"github.com/carson-networks/ledger-server/internal/storage"
	"github.com/carson-networks/ledger-server/internal/storage/sqlconfig"
)

const DefaultRecentLimit = 5

// TransactionService handles transaction business logic. Every operation is
// scoped to the calling user.
type TransactionService struct {
	storage   *storage.Storage
	processor ActionProcessor
}

// NewTransactionService creates a new TransactionService.
func NewTransactionService(store *storage.Storage, processor ActionProcessor) *TransactionService {
	return &TransactionService{storage: store, processor: processor}
}

// Create records a new transaction for the caller and returns its ID.
func (s *TransactionService) Create(ctx context.Context, identity auth.Identity, in TransactionInput) (int64, error) {
	if err := requireMember(identity); err != nil {
		return 0, err
	}
	create, err := in.ToCreate(identity.UserID)
	if err != nil {
		return 0, err
	}

	action := &actions.CreateTransaction{Create: create}
	if err := s.processor.Process(ctx, action); err != nil {
		return 0, err
	}
	return action.ID, nil
}

// Update replaces the caller's transaction. Transactions of other users are
// reported as not found.
func (s *TransactionService) Update(ctx context.Context, identity auth.Identity, id int64, in TransactionInput) error {
	if err := requireMember(identity); err != nil {
		return err
	}
	if err := in.validate(); err != nil {
		return err
	}

	return s.processor.Process(ctx, &actions.UpdateTransaction{Update: sqlconfig.TransactionUpdate{
		ID:       id,
		UserID:   identity.UserID,
		Date:     in.Date,
		Type:     string(in.Type),
		Category: in.Category,
		Amount:   in.Amount,
		Note:     in.note(),
	}})
}

// Delete removes the caller's transaction.
func (s *TransactionService) Delete(ctx context.Context, identity auth.Identity, id int64) error {
	if err := requireMember(identity); err != nil {
		return err
	}
	return s.processor.Process(ctx, &actions.DeleteTransaction{ID: id, OwnerID: identity.UserID})
}

// Get returns one of the caller's transactions.
func (s *TransactionService) Get(ctx context.Context, identity auth.Identity, id int64) (*Transaction, error) {
	row, err := s.storage.Transactions.FindByID(ctx, id, identity.UserID)
	if err != nil {
		return nil, err
	}
	transaction := transactionFromStorage(row)
	return &transaction, nil
}

// List returns the caller's transactions matching query, newest first, with
// their totals. query.UserID is ignored.
func (s *TransactionService) List(ctx context.Context, identity auth.Identity, query TransactionQuery) (*TransactionList, error) {
	filter, err := query.toFilter()
	if err != nil {
		return nil, err
	}
	filter.UserID = &identity.UserID

	rows, err := s.storage.Transactions.List(ctx, filter)
	if err != nil {
		return nil, err
	}

	transactions := transactionsFromStorage(rows)
	return &TransactionList{
		Transactions: transactions,
		Summary:      Summarize(transactions),
	}, nil
}

// Recent returns the caller's latest transactions, optionally within one month.
func (s *TransactionService) Recent(ctx context.Context, identity auth.Identity, limit int, month *YearMonth) ([]Transaction, error) {
	if limit <= 0 {
		limit = DefaultRecentLimit
	}
	filter := &sqlconfig.TransactionFilter{
		UserID: &identity.UserID,
		Limit:  limit,
	}
	if month != nil {
		prefix := month.String()
		filter.Month = &prefix
	}

	rows, err := s.storage.Transactions.List(ctx, filter)
	if err != nil {
		return nil, err
	}
	return transactionsFromStorage(rows), nil
}

// AvailableMonths lists the months the caller has transactions in, newest
// first. Dates that do not start with YYYY-MM are skipped.
func (s *TransactionService) AvailableMonths(ctx context.Context, identity auth.Identity) ([]YearMonth, error) {
	raw, err := s.storage.Transactions.ListMonths(ctx, identity.UserID)
	if err != nil {
		return nil, err
	}

	months := make([]YearMonth, 0, len(raw))
	for _, value := range raw {
		month, err := ParseYearMonth(value)
		if err != nil {
			continue
		}
		months = append(months, month)
	}
	return months, nil
}
