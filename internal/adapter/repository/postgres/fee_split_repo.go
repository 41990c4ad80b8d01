package postgres

import (
	"context"
	"errors"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/inspi-writer001/feesplit/internal/domain"
	"github.com/inspi-writer001/feesplit/internal/usecase"
)

const (
	feeSplitColumns = `id, source, recipient, fee_collector, authority, amount::text, fee::text, net::text, created_at`

	insertFeeSplitSQL = `INSERT INTO fee_splits (id, source, recipient, fee_collector, authority, amount, fee, net, created_at)
VALUES ($1, $2, $3, $4, $5, $6::numeric, $7::numeric, $8::numeric, $9)`

	selectFeeSplitSQL = `SELECT ` + feeSplitColumns + `
FROM fee_splits
WHERE id = $1`

	listFeeSplitsByAccountSQL = `SELECT ` + feeSplitColumns + `
FROM fee_splits
WHERE source = $1 OR recipient = $1 OR fee_collector = $1
ORDER BY created_at DESC, id DESC
LIMIT $2 OFFSET $3`
)

// FeeSplitRepository implements usecase.FeeSplitRepository.
type FeeSplitRepository struct {
	db dbtx
}

// NewFeeSplitRepository creates a new FeeSplitRepository.
func NewFeeSplitRepository(pool *pgxpool.Pool) *FeeSplitRepository {
	return &FeeSplitRepository{db: pool}
}

// Create records a completed fee split within a transaction.
func (r *FeeSplitRepository) Create(ctx context.Context, tx usecase.Transaction, fs *domain.FeeSplit) error {
	db, err := pgxTx(tx)
	if err != nil {
		return err
	}

	_, err = db.Exec(ctx, insertFeeSplitSQL,
		fs.ID,
		string(fs.Source),
		string(fs.Recipient),
		string(fs.FeeCollector),
		string(fs.Authority),
		formatAmount(fs.Amount),
		formatAmount(fs.Fee),
		formatAmount(fs.Net),
		fs.CreatedAt,
	)

	return err
}

// GetByID retrieves a fee split by ID.
func (r *FeeSplitRepository) GetByID(ctx context.Context, id string) (*domain.FeeSplit, error) {
	fs, err := scanFeeSplit(r.db.QueryRow(ctx, selectFeeSplitSQL, id))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, domain.ErrFeeSplitNotFound
		}

		return nil, err
	}

	return fs, nil
}

// ListByAccount lists fee splits touching an account on any side, newest first.
func (r *FeeSplitRepository) ListByAccount(ctx context.Context, address domain.AccountRef, limit, offset int) ([]*domain.FeeSplit, error) {
	rows, err := r.db.Query(ctx, listFeeSplitsByAccountSQL, string(address), limit, offset)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	splits := make([]*domain.FeeSplit, 0, limit)
	for rows.Next() {
		fs, err := scanFeeSplit(rows)
		if err != nil {
			return nil, err
		}
		splits = append(splits, fs)
	}

	return splits, rows.Err()
}

func scanFeeSplit(row pgx.Row) (*domain.FeeSplit, error) {
	var (
		fs                                         domain.FeeSplit
		source, recipient, feeCollector, authority string
		amount, fee, net                           string
	)

	err := row.Scan(&fs.ID, &source, &recipient, &feeCollector, &authority, &amount, &fee, &net, &fs.CreatedAt)
	if err != nil {
		return nil, err
	}

	fs.Source = domain.AccountRef(source)
	fs.Recipient = domain.AccountRef(recipient)
	fs.FeeCollector = domain.AccountRef(feeCollector)
	fs.Authority = domain.Principal(authority)

	for _, f := range []struct {
		dst *uint64
		src string
	}{{&fs.Amount, amount}, {&fs.Fee, fee}, {&fs.Net, net}} {
		if *f.dst, err = parseAmount(f.src); err != nil {
			return nil, err
		}
	}

	return &fs, nil
}
