package usecase

import "time"

const (
	// DefaultTransactionTimeout is the maximum duration for a database transaction
	// This prevents long-running transactions from blocking tables
	DefaultTransactionTimeout = 10 * time.Second

	// IdempotencyKeyTTL is how long idempotency keys are cached
	IdempotencyKeyTTL = 24 * time.Hour

	// FeeSplitCacheTTL bounds how long a fee split read model stays cached.
	// Fee splits never change once committed.
	FeeSplitCacheTTL = time.Hour

	defaultPageSize = 20
	maxPageSize     = 100
)
