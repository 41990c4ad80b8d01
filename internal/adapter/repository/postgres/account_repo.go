package postgres

import (
	"context"
	"errors"
	"fmt"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/inspi-writer001/feesplit/internal/domain"
	"github.com/inspi-writer001/feesplit/internal/usecase"
)

const (
	pgErrUniqueViolation = "23505"

	insertAccountSQL = `INSERT INTO token_accounts (address, owner, mint, balance, version, created_at, updated_at)
VALUES ($1, $2, $3, $4::numeric, $5, $6, $7)`

	selectAccountSQL = `SELECT address, owner, mint, balance::text, version, created_at, updated_at
FROM token_accounts
WHERE address = $1`
)

// AccountRepository implements usecase.AccountRepository.
type AccountRepository struct {
	db dbtx
}

// NewAccountRepository creates a new AccountRepository.
func NewAccountRepository(pool *pgxpool.Pool) *AccountRepository {
	return &AccountRepository{db: pool}
}

// Create inserts a token account within a transaction.
func (r *AccountRepository) Create(ctx context.Context, tx usecase.Transaction, account *domain.TokenAccount) error {
	db, err := pgxTx(tx)
	if err != nil {
		return err
	}

	_, err = db.Exec(ctx, insertAccountSQL,
		string(account.Address),
		string(account.Owner),
		account.Mint,
		formatAmount(account.Balance),
		account.Version,
		account.CreatedAt,
		account.UpdatedAt,
	)
	if err != nil {
		var pgErr *pgconn.PgError
		if errors.As(err, &pgErr) && pgErr.Code == pgErrUniqueViolation {
			return fmt.Errorf("%w: account %s already exists", domain.ErrInvalidAccount, account.Address)
		}

		return err
	}

	return nil
}

// GetByAddress retrieves a token account by address.
func (r *AccountRepository) GetByAddress(ctx context.Context, address domain.AccountRef) (*domain.TokenAccount, error) {
	acc, err := scanAccount(r.db.QueryRow(ctx, selectAccountSQL, string(address)))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, domain.ErrAccountNotFound
		}

		return nil, err
	}

	return acc, nil
}
