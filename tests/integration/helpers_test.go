package integration

import (
	"testing"

	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/rs/zerolog"

	"github.com/inspi-writer001/feesplit/internal/adapter/repository/postgres"
	"github.com/inspi-writer001/feesplit/internal/usecase"
	"github.com/inspi-writer001/feesplit/tests/testutil"
)

type components struct {
	accountRepo  *postgres.AccountRepository
	feeSplitRepo *postgres.FeeSplitRepository
	outboxRepo   *postgres.OutboxRepository
	accountUC    *usecase.AccountUseCase
	transferUC   *usecase.TransferUseCase
}

func newComponents(pool *pgxpool.Pool, cache usecase.Cache) *components {
	logger := zerolog.Nop()
	idGen := postgres.NewULIDGenerator()
	txManager := postgres.NewTxManager(pool)

	c := &components{
		accountRepo:  postgres.NewAccountRepository(pool),
		feeSplitRepo: postgres.NewFeeSplitRepository(pool),
		outboxRepo:   postgres.NewOutboxRepository(pool),
	}

	c.accountUC = usecase.NewAccountUseCase(txManager, c.accountRepo, c.outboxRepo, idGen)
	c.transferUC = usecase.NewTransferUseCase(usecase.TransferUseCaseConfig{
		TxManager:    txManager,
		Ledgers:      postgres.NewLedgerRepository(idGen),
		FeeSplitRepo: c.feeSplitRepo,
		OutboxRepo:   c.outboxRepo,
		IDGen:        idGen,
		Retrier:      postgres.NewRetrier(logger),
		Cache:        cache,
		Logger:       &logger,
	})

	return c
}

func transferInput(amount uint64) usecase.TransferWithFeeInput {
	return usecase.TransferWithFeeInput{
		Amount:       amount,
		Source:       testutil.Source.String(),
		Recipient:    testutil.Recipient.String(),
		FeeCollector: testutil.FeeCollector.String(),
		Authority:    testutil.Authority.String(),
	}
}

func skipShort(t *testing.T) {
	t.Helper()
	if testing.Short() {
		t.Skip("skipping integration test")
	}
}
