package transaction

import (
	"encoding/json"
	"net/http"
	"testing"
	"time"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"

	"github.com/carson-networks/ledger-server/internal/common"
	"github.com/carson-networks/ledger-server/internal/service"
)

func TestHTTP_UpdateTransaction(t *testing.T) {
	mockSvc := new(mockTransactionService)
	mockSvc.On("Update", mock.Anything, alice, int64(4), mock.MatchedBy(func(in service.TransactionInput) bool {
		return in.Category == "Groceries" && in.Amount.Equal(decimal.RequireFromString("7.25"))
	})).Return(nil)

	resp := newTestAPI(t, &alice, NewUpdateTransactionHandler(mockSvc)).Put("/v1/transactions/4", TransactionBody{
		Date: "2024-01-06", Type: "Expense", Category: "Groceries", Amount: "7.25",
	})

	assert.Equal(t, http.StatusNoContent, resp.Code)
	mockSvc.AssertExpectations(t)
}

func TestHTTP_UpdateTransaction_NotOwned(t *testing.T) {
	mockSvc := new(mockTransactionService)
	mockSvc.On("Update", mock.Anything, alice, int64(4), mock.Anything).Return(common.ErrorNotFound)

	resp := newTestAPI(t, &alice, NewUpdateTransactionHandler(mockSvc)).Put("/v1/transactions/4", TransactionBody{
		Date: "2024-01-06", Type: "Expense", Category: "Groceries", Amount: "7.25",
	})

	assert.Equal(t, http.StatusNotFound, resp.Code)
}

func TestHTTP_DeleteTransaction(t *testing.T) {
	mockSvc := new(mockTransactionService)
	mockSvc.On("Delete", mock.Anything, alice, int64(4)).Return(nil)

	resp := newTestAPI(t, &alice, NewDeleteTransactionHandler(mockSvc)).Delete("/v1/transactions/4")

	assert.Equal(t, http.StatusNoContent, resp.Code)
	mockSvc.AssertExpectations(t)
}

func TestHTTP_DeleteTransaction_NotOwned(t *testing.T) {
	mockSvc := new(mockTransactionService)
	mockSvc.On("Delete", mock.Anything, alice, int64(4)).Return(common.ErrorNotFound)

	resp := newTestAPI(t, &alice, NewDeleteTransactionHandler(mockSvc)).Delete("/v1/transactions/4")

	assert.Equal(t, http.StatusNotFound, resp.Code)
}

func TestHTTP_GetTransaction(t *testing.T) {
	mockSvc := new(mockTransactionService)
	mockSvc.On("Get", mock.Anything, alice, int64(4)).Return(&service.Transaction{
		ID: 4, UserID: 2, Username: "alice", Date: "2024-01-06",
		Type: service.TransactionTypeIncome, Category: "Gift", Amount: decimal.RequireFromString("15.10"),
	}, nil)

	resp := newTestAPI(t, &alice, NewGetTransactionHandler(mockSvc)).Get("/v1/transactions/4")

	assert.Equal(t, http.StatusOK, resp.Code)
	var body Transaction
	assert.NoError(t, json.NewDecoder(resp.Body).Decode(&body))
	assert.Equal(t, "15.1", body.Amount)
	assert.Equal(t, "Income", body.Type)
	assert.Nil(t, body.Note)
}

func TestHTTP_GetTransaction_InvalidID(t *testing.T) {
	mockSvc := new(mockTransactionService)

	resp := newTestAPI(t, &alice, NewGetTransactionHandler(mockSvc)).Get("/v1/transactions/abc")

	assert.Equal(t, http.StatusUnprocessableEntity, resp.Code)
	mockSvc.AssertNotCalled(t, "Get")
}

func TestHTTP_RecentTransactions_Defaults(t *testing.T) {
	mockSvc := new(mockTransactionService)
	mockSvc.On("Recent", mock.Anything, alice, 0, (*service.YearMonth)(nil)).Return([]service.Transaction{}, nil)

	resp := newTestAPI(t, &alice, NewRecentTransactionsHandler(mockSvc)).Get("/v1/transactions/recent")

	assert.Equal(t, http.StatusOK, resp.Code)
	mockSvc.AssertExpectations(t)
}

func TestHTTP_RecentTransactions_Month(t *testing.T) {
	mockSvc := new(mockTransactionService)
	mockSvc.On("Recent", mock.Anything, alice, 3, &service.YearMonth{Year: 2024, Month: time.February}).
		Return([]service.Transaction{{ID: 1, Type: service.TransactionTypeIncome, Amount: decimal.NewFromInt(2)}}, nil)

	resp := newTestAPI(t, &alice, NewRecentTransactionsHandler(mockSvc)).Get("/v1/transactions/recent?limit=3&year=2024&month=2")

	assert.Equal(t, http.StatusOK, resp.Code)
	var body struct {
		Transactions []Transaction `json:"transactions"`
	}
	assert.NoError(t, json.NewDecoder(resp.Body).Decode(&body))
	assert.Len(t, body.Transactions, 1)
	mockSvc.AssertExpectations(t)
}

func TestHTTP_RecentTransactions_MonthWithoutYear(t *testing.T) {
	mockSvc := new(mockTransactionService)

	resp := newTestAPI(t, &alice, NewRecentTransactionsHandler(mockSvc)).Get("/v1/transactions/recent?month=2")

	assert.Equal(t, http.StatusBadRequest, resp.Code)
	mockSvc.AssertNotCalled(t, "Recent")
}

func TestHTTP_ListMonths(t *testing.T) {
	mockSvc := new(mockTransactionService)
	mockSvc.On("AvailableMonths", mock.Anything, alice).Return([]service.YearMonth{
		{Year: 2024, Month: time.February},
		{Year: 2023, Month: time.December},
	}, nil)

	resp := newTestAPI(t, &alice, NewListMonthsHandler(mockSvc)).Get("/v1/transactions/months")

	assert.Equal(t, http.StatusOK, resp.Code)
	var body struct {
		Months []Month `json:"months"`
	}
	assert.NoError(t, json.NewDecoder(resp.Body).Decode(&body))
	assert.Equal(t, []Month{{Year: 2024, Month: 2}, {Year: 2023, Month: 12}}, body.Months)
}
