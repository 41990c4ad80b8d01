package usecase

import (
	"context"
	"time"

	"github.com/inspi-writer001/feesplit/internal/domain"
)

// Ledger moves balances between token accounts. DebitCredit is atomic for a
// single transfer of amount from one account to another, authorized by
// authorizer. It fails with domain.ErrInsufficientBalance,
// domain.ErrUnauthorized or domain.ErrInvalidAccount.
type Ledger interface {
	DebitCredit(ctx context.Context, authorizer domain.Principal, from, to domain.AccountRef, amount uint64) error
}

// LedgerFactory binds a Ledger to an open transaction.
type LedgerFactory interface {
	LedgerFor(tx Transaction) Ledger
}

// AccountRepository defines data access for token accounts.
type AccountRepository interface {
	Create(ctx context.Context, tx Transaction, account *domain.TokenAccount) error
	GetByAddress(ctx context.Context, address domain.AccountRef) (*domain.TokenAccount, error)
}

// FeeSplitRepository defines data access for fee-split records.
type FeeSplitRepository interface {
	Create(ctx context.Context, tx Transaction, feeSplit *domain.FeeSplit) error
	GetByID(ctx context.Context, id string) (*domain.FeeSplit, error)
	ListByAccount(ctx context.Context, address domain.AccountRef, limit, offset int) ([]*domain.FeeSplit, error)
}

// OutboxRepository defines data access for outbox events.
type OutboxRepository interface {
	Create(ctx context.Context, tx Transaction, event *domain.OutboxEvent) error
	GetUnpublished(ctx context.Context, limit int) ([]*domain.OutboxEvent, error)
	MarkPublished(ctx context.Context, id string, publishedAt time.Time) error
}

// Transaction represents a database transaction.
type Transaction interface {
	Commit(ctx context.Context) error
	Rollback(ctx context.Context) error
}

// TransactionManager handles transaction lifecycle.
type TransactionManager interface {
	Begin(ctx context.Context) (Transaction, error)
}

// Retrier re-runs an operation on transient storage conflicts.
type Retrier interface {
	Retry(ctx context.Context, operation func() error) error
}

// IDGenerator generates unique IDs.
type IDGenerator interface {
	Generate() string
}

// Metrics records fee-split outcomes.
type Metrics interface {
	ObserveFeeSplit(outcome string, split domain.Split, duration time.Duration)
}

// IdempotencyStore handles idempotency key storage.
type IdempotencyStore interface {
	// CheckAndSet atomically checks if key exists, sets if not.
	// Returns (exists, existingValue, error).
	CheckAndSet(ctx context.Context, key string, response []byte, ttl time.Duration) (bool, []byte, error)
	// Update updates an existing key with the final response.
	Update(ctx context.Context, key string, response []byte, ttl time.Duration) error
	// Release drops a key so that a failed request can be retried.
	Release(ctx context.Context, key string) error
}

// Cache stores serialized read models. A miss is (nil, false, nil).
type Cache interface {
	Get(ctx context.Context, key string) ([]byte, bool, error)
	Set(ctx context.Context, key string, value []byte, ttl time.Duration) error
}

type noRetry struct{}

func (noRetry) Retry(_ context.Context, operation func() error) error {
	return operation()
}

type noMetrics struct{}

func (noMetrics) ObserveFeeSplit(string, domain.Split, time.Duration) {}
