package postgres

import (
	"context"
	"fmt"
	"time"

	"github.com/jackc/pgx/v5"

	"github.com/inspi-writer001/feesplit/internal/domain"
	"github.com/inspi-writer001/feesplit/internal/usecase"
)

const (
	lockAccountsSQL = `SELECT address, owner, mint, balance::text, version, created_at, updated_at
FROM token_accounts
WHERE address = ANY($1)
ORDER BY address
FOR UPDATE`

	updateBalanceSQL = `UPDATE token_accounts
SET balance = $2::numeric, version = version + 1, updated_at = $3
WHERE address = $1`

	insertPostingSQL = `INSERT INTO postings (id, authority, from_address, to_address, amount, created_at)
VALUES ($1, $2, $3, $4, $5::numeric, $6)`
)

// LedgerRepository hands out ledgers bound to a postgres transaction.
type LedgerRepository struct {
	idGen usecase.IDGenerator
	now   func() time.Time
}

// NewLedgerRepository creates a new LedgerRepository.
func NewLedgerRepository(idGen usecase.IDGenerator) *LedgerRepository {
	return &LedgerRepository{idGen: idGen, now: time.Now}
}

// LedgerFor implements usecase.LedgerFactory.
func (r *LedgerRepository) LedgerFor(tx usecase.Transaction) usecase.Ledger {
	return &txLedger{repo: r, tx: tx}
}

type txLedger struct {
	repo *LedgerRepository
	tx   usecase.Transaction
}

// DebitCredit locks both rows in address order, validates, then moves the
// balance and records a posting.
func (l *txLedger) DebitCredit(ctx context.Context, authorizer domain.Principal, from, to domain.AccountRef, amount uint64) error {
	if from == to {
		return fmt.Errorf("%w: cannot transfer to the same account", domain.ErrInvalidAccount)
	}

	db, err := pgxTx(l.tx)
	if err != nil {
		return err
	}

	locked, err := lockAccounts(ctx, db, from, to)
	if err != nil {
		return err
	}

	src, ok := locked[from]
	if !ok {
		return fmt.Errorf("%w: source %s does not exist", domain.ErrInvalidAccount, from)
	}

	dst, ok := locked[to]
	if !ok {
		return fmt.Errorf("%w: destination %s does not exist", domain.ErrInvalidAccount, to)
	}

	if err := src.ValidateCounterparty(dst); err != nil {
		return err
	}

	if err := src.ValidateDebit(authorizer, amount); err != nil {
		return err
	}

	srcBalance, err := src.ApplyDebit(amount)
	if err != nil {
		return err
	}

	dstBalance, err := dst.ApplyCredit(amount)
	if err != nil {
		return err
	}

	now := l.repo.now().UTC()

	if _, err := db.Exec(ctx, updateBalanceSQL, string(from), formatAmount(srcBalance), now); err != nil {
		return fmt.Errorf("debit %s: %w", from, err)
	}

	if _, err := db.Exec(ctx, updateBalanceSQL, string(to), formatAmount(dstBalance), now); err != nil {
		return fmt.Errorf("credit %s: %w", to, err)
	}

	_, err = db.Exec(ctx, insertPostingSQL,
		l.repo.idGen.Generate(),
		string(authorizer),
		string(from),
		string(to),
		formatAmount(amount),
		now,
	)
	if err != nil {
		return fmt.Errorf("insert posting: %w", err)
	}

	return nil
}

func lockAccounts(ctx context.Context, db dbtx, refs ...domain.AccountRef) (map[domain.AccountRef]*domain.TokenAccount, error) {
	addrs := make([]string, len(refs))
	for i, ref := range refs {
		addrs[i] = string(ref)
	}

	rows, err := db.Query(ctx, lockAccountsSQL, addrs)
	if err != nil {
		return nil, fmt.Errorf("lock accounts: %w", err)
	}
	defer rows.Close()

	out := make(map[domain.AccountRef]*domain.TokenAccount, len(refs))
	for rows.Next() {
		acc, err := scanAccount(rows)
		if err != nil {
			return nil, err
		}
		out[acc.Address] = acc
	}

	return out, rows.Err()
}

func scanAccount(row pgx.Row) (*domain.TokenAccount, error) {
	var (
		address, owner, mint, balance string
		acc                           domain.TokenAccount
	)

	if err := row.Scan(&address, &owner, &mint, &balance, &acc.Version, &acc.CreatedAt, &acc.UpdatedAt); err != nil {
		return nil, err
	}

	bal, err := parseAmount(balance)
	if err != nil {
		return nil, err
	}

	acc.Address = domain.AccountRef(address)
	acc.Owner = domain.Principal(owner)
	acc.Mint = mint
	acc.Balance = bal

	return &acc, nil
}
