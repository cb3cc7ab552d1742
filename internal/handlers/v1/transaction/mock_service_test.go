package transaction

import (
	"context"
	"testing"

	"github.com/danielgtaylor/huma/v2"
	"github.com/danielgtaylor/huma/v2/humatest"
	"github.com/stretchr/testify/mock"

	"github.com/carson-networks/ledger-server/internal/auth"
	"github.com/carson-networks/ledger-server/internal/service"
)

var alice = auth.Identity{UserID: 2, Username: "alice"}

// mockTransactionService implements every transaction handler dependency.
type mockTransactionService struct {
	mock.Mock
}

func (m *mockTransactionService) Create(ctx context.Context, identity auth.Identity, in service.TransactionInput) (int64, error) {
	args := m.Called(ctx, identity, in)
	return args.Get(0).(int64), args.Error(1)
}

func (m *mockTransactionService) Update(ctx context.Context, identity auth.Identity, id int64, in service.TransactionInput) error {
	return m.Called(ctx, identity, id, in).Error(0)
}

func (m *mockTransactionService) Delete(ctx context.Context, identity auth.Identity, id int64) error {
	return m.Called(ctx, identity, id).Error(0)
}

func (m *mockTransactionService) Get(ctx context.Context, identity auth.Identity, id int64) (*service.Transaction, error) {
	args := m.Called(ctx, identity, id)
	tx, _ := args.Get(0).(*service.Transaction)
	return tx, args.Error(1)
}

func (m *mockTransactionService) List(ctx context.Context, identity auth.Identity, query service.TransactionQuery) (*service.TransactionList, error) {
	args := m.Called(ctx, identity, query)
	list, _ := args.Get(0).(*service.TransactionList)
	return list, args.Error(1)
}

func (m *mockTransactionService) Recent(ctx context.Context, identity auth.Identity, limit int, month *service.YearMonth) ([]service.Transaction, error) {
	args := m.Called(ctx, identity, limit, month)
	txs, _ := args.Get(0).([]service.Transaction)
	return txs, args.Error(1)
}

func (m *mockTransactionService) AvailableMonths(ctx context.Context, identity auth.Identity) ([]service.YearMonth, error) {
	args := m.Called(ctx, identity)
	months, _ := args.Get(0).([]service.YearMonth)
	return months, args.Error(1)
}

type registrar interface {
	Register(api huma.API)
}

// newTestAPI registers the handler behind a middleware that authenticates
// every request as identity. A nil identity leaves requests anonymous.
func newTestAPI(t *testing.T, identity *auth.Identity, handler registrar) humatest.TestAPI {
	t.Helper()
	_, api := humatest.New(t)
	if identity != nil {
		api.UseMiddleware(func(ctx huma.Context, next func(huma.Context)) {
			next(huma.WithContext(ctx, auth.WithIdentity(ctx.Context(), *identity)))
		})
	}
	handler.Register(api)
	return api
}
