package postgres

import (
	"context"
	"errors"
	"math"
	"testing"
	"time"

	"github.com/pashagolub/pgxmock/v3"

	"github.com/inspi-writer001/feesplit/internal/domain"
	"github.com/inspi-writer001/feesplit/internal/usecase"
	"github.com/inspi-writer001/feesplit/tests/testutil"
)

var accountColumns = []string{"address", "owner", "mint", "balance", "version", "created_at", "updated_at"}

type fixedIDs struct{}

func (fixedIDs) Generate() string { return "posting-1" }

func lockedRows(accounts ...domain.TokenAccount) *pgxmock.Rows {
	rows := pgxmock.NewRows(accountColumns)
	for _, a := range accounts {
		rows.AddRow(string(a.Address), string(a.Owner), a.Mint, formatAmount(a.Balance), a.Version, a.CreatedAt, a.UpdatedAt)
	}
	return rows
}

func account(ref domain.AccountRef, owner domain.Principal, mint string, balance uint64) domain.TokenAccount {
	now := time.Date(2024, 1, 1, 0, 0, 0, 0, time.UTC)
	return domain.TokenAccount{Address: ref, Owner: owner, Mint: mint, Balance: balance, Version: 1, CreatedAt: now, UpdatedAt: now}
}

func beginLedger(t *testing.T, mockPool pgxmock.PgxPoolIface) usecase.Ledger {
	t.Helper()
	mockPool.ExpectBegin()

	tx, err := newTxManagerWithPool(mockPool).Begin(context.Background())
	if err != nil {
		t.Fatalf("begin: %v", err)
	}

	return NewLedgerRepository(fixedIDs{}).LedgerFor(tx)
}

func lockedArgs() []string {
	return []string{string(testutil.Source), string(testutil.FeeCollector)}
}

func TestLedgerDebitCreditMovesBalance(t *testing.T) {
	mockPool := newMockPool(t)
	ledger := beginLedger(t, mockPool)

	mockPool.ExpectQuery("SELECT address, owner, mint, balance::text").
		WithArgs(lockedArgs()).
		WillReturnRows(lockedRows(
			account(testutil.Source, testutil.Authority, testutil.Mint, 1000),
			account(testutil.FeeCollector, testutil.Intruder, testutil.Mint, 5),
		))
	mockPool.ExpectExec("UPDATE token_accounts").
		WithArgs(string(testutil.Source), "980", pgxmock.AnyArg()).
		WillReturnResult(pgxmock.NewResult("UPDATE", 1))
	mockPool.ExpectExec("UPDATE token_accounts").
		WithArgs(string(testutil.FeeCollector), "25", pgxmock.AnyArg()).
		WillReturnResult(pgxmock.NewResult("UPDATE", 1))
	mockPool.ExpectExec("INSERT INTO postings").
		WithArgs("posting-1", string(testutil.Authority), string(testutil.Source), string(testutil.FeeCollector), "20", pgxmock.AnyArg()).
		WillReturnResult(pgxmock.NewResult("INSERT", 1))

	err := ledger.DebitCredit(context.Background(), testutil.Authority, testutil.Source, testutil.FeeCollector, 20)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	assertExpectations(t, mockPool)
}

func TestLedgerDebitCreditRejectsBeforeWriting(t *testing.T) {
	tests := []struct {
		name     string
		locked   []domain.TokenAccount
		who      domain.Principal
		amount   uint64
		expected error
	}{
		{
			name:     "insufficient balance",
			locked:   []domain.TokenAccount{account(testutil.Source, testutil.Authority, testutil.Mint, 10), account(testutil.FeeCollector, testutil.Intruder, testutil.Mint, 0)},
			who:      testutil.Authority,
			amount:   11,
			expected: domain.ErrInsufficientBalance,
		},
		{
			name:     "wrong authority",
			locked:   []domain.TokenAccount{account(testutil.Source, testutil.Authority, testutil.Mint, 10), account(testutil.FeeCollector, testutil.Intruder, testutil.Mint, 0)},
			who:      testutil.Intruder,
			amount:   1,
			expected: domain.ErrUnauthorized,
		},
		{
			name:     "missing destination",
			locked:   []domain.TokenAccount{account(testutil.Source, testutil.Authority, testutil.Mint, 10)},
			who:      testutil.Authority,
			amount:   1,
			expected: domain.ErrInvalidAccount,
		},
		{
			name:     "mint mismatch",
			locked:   []domain.TokenAccount{account(testutil.Source, testutil.Authority, testutil.Mint, 10), account(testutil.FeeCollector, testutil.Intruder, "other-mint", 0)},
			who:      testutil.Authority,
			amount:   1,
			expected: domain.ErrInvalidAccount,
		},
		{
			name:     "credit overflow",
			locked:   []domain.TokenAccount{account(testutil.Source, testutil.Authority, testutil.Mint, 10), account(testutil.FeeCollector, testutil.Intruder, testutil.Mint, math.MaxUint64)},
			who:      testutil.Authority,
			amount:   1,
			expected: domain.ErrArithmeticOverflow,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			mockPool := newMockPool(t)
			ledger := beginLedger(t, mockPool)

			mockPool.ExpectQuery("SELECT address, owner, mint, balance::text").
				WithArgs(lockedArgs()).
				WillReturnRows(lockedRows(tt.locked...))

			err := ledger.DebitCredit(context.Background(), tt.who, testutil.Source, testutil.FeeCollector, tt.amount)
			if !errors.Is(err, tt.expected) {
				t.Fatalf("expected %v, got %v", tt.expected, err)
			}

			assertExpectations(t, mockPool)
		})
	}
}

func TestLedgerDebitCreditSameAccountSkipsDatabase(t *testing.T) {
	mockPool := newMockPool(t)
	ledger := beginLedger(t, mockPool)

	err := ledger.DebitCredit(context.Background(), testutil.Authority, testutil.Source, testutil.Source, 1)
	if !errors.Is(err, domain.ErrInvalidAccount) {
		t.Fatalf("expected ErrInvalidAccount, got %v", err)
	}

	assertExpectations(t, mockPool)
}

func TestLedgerSurfacesStorageErrors(t *testing.T) {
	mockPool := newMockPool(t)
	ledger := beginLedger(t, mockPool)
	dbErr := errors.New("connection reset")

	mockPool.ExpectQuery("SELECT address").WithArgs(lockedArgs()).WillReturnError(dbErr)

	err := ledger.DebitCredit(context.Background(), testutil.Authority, testutil.Source, testutil.FeeCollector, 1)
	if !errors.Is(err, dbErr) {
		t.Fatalf("expected storage error, got %v", err)
	}
}
