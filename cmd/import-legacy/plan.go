package main

import (
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/shopspring/decimal"

	"github.com/carson-networks/ledger-server/internal/common"
	"github.com/carson-networks/ledger-server/internal/operator/actions"
	"github.com/carson-networks/ledger-server/internal/service"
	"github.com/carson-networks/ledger-server/internal/storage/sqlconfig"
)

const legacyDateLayout = "2006-01-02"

var errOrphans = errors.New("transactions without a valid owner")

var legacyTypes = map[string]service.TransactionType{
	"Pemasukan":   service.TransactionTypeIncome,
	"Pengeluaran": service.TransactionTypeExpense,
}

type planOptions struct {
	AdminUsername string
	AssignOrphans bool
}

type importPlan struct {
	Users []actions.ImportedUser

	Transactions int
	// Orphans counts transactions whose user_id is missing, unknown or the
	// administrator's.
	Orphans int
	// OrphansAssignedTo is the user that received the orphans, if any.
	OrphansAssignedTo string
}

func buildPlan(ledger *legacyLedger, opts planOptions) (*importPlan, error) {
	plan := &importPlan{Users: make([]actions.ImportedUser, 0, len(ledger.Users))}
	byLegacyID := make(map[int64]int, len(ledger.Users))

	for _, u := range ledger.Users {
		username := strings.TrimSpace(u.Username)
		if username == "" || u.Password == "" {
			return nil, fmt.Errorf("%w: legacy user %d has an empty username or password", common.ErrorInvalidInput, u.ID)
		}
		byLegacyID[u.ID] = len(plan.Users)
		plan.Users = append(plan.Users, actions.ImportedUser{
			LegacyID: u.ID,
			Create: sqlconfig.UserCreate{
				Username:     username,
				PasswordHash: u.Password,
				IsAdmin:      username == opts.AdminUsername,
			},
		})
	}

	var orphans []sqlconfig.TransactionCreate
	for _, t := range ledger.Transactions {
		create, err := convertTransaction(t)
		if err != nil {
			return nil, err
		}

		idx, ok := -1, false
		if t.UserID.Valid {
			idx, ok = byLegacyID[t.UserID.Int64]
		}
		if !ok || plan.Users[idx].Create.IsAdmin {
			orphans = append(orphans, create)
			continue
		}
		plan.Users[idx].Transactions = append(plan.Users[idx].Transactions, create)
		plan.Transactions++
	}

	if len(orphans) == 0 {
		return plan, nil
	}

	plan.Orphans = len(orphans)
	if !opts.AssignOrphans {
		return nil, fmt.Errorf("%d %w; rerun with -assign-orphans to give them to the first legacy user", len(orphans), errOrphans)
	}

	// Users are read in id order, so the first member is the first created.
	for i := range plan.Users {
		if plan.Users[i].Create.IsAdmin {
			continue
		}
		plan.Users[i].Transactions = append(plan.Users[i].Transactions, orphans...)
		plan.Transactions += len(orphans)
		plan.OrphansAssignedTo = plan.Users[i].Create.Username
		return plan, nil
	}
	return nil, fmt.Errorf("%d %w and no non-admin user to assign them to", len(orphans), errOrphans)
}

func convertTransaction(t legacyTransaction) (sqlconfig.TransactionCreate, error) {
	kind, ok := legacyTypes[t.Type]
	if !ok {
		// Rows written after a partial migration may already carry the new names.
		parsed, err := service.ParseTransactionType(t.Type)
		if err != nil {
			return sqlconfig.TransactionCreate{}, fmt.Errorf("transaksi %d: %w", t.ID, err)
		}
		kind = parsed
	}

	if _, err := time.Parse(legacyDateLayout, t.Date); err != nil {
		return sqlconfig.TransactionCreate{}, fmt.Errorf("%w: transaksi %d: date %q is not YYYY-MM-DD",
			common.ErrorInvalidInput, t.ID, t.Date)
	}

	in := service.TransactionInput{
		Date:     t.Date,
		Type:     kind,
		Category: strings.TrimSpace(t.Category),
		Amount:   decimal.NewFromFloat(t.Amount),
	}
	if t.Note.Valid {
		in.Note = &t.Note.String
	}

	create, err := in.ToCreate(0)
	if err != nil {
		return sqlconfig.TransactionCreate{}, fmt.Errorf("transaksi %d: %w", t.ID, err)
	}
	return create, nil
}
