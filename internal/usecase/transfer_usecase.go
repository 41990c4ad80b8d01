package usecase

import (
	"context"
	"time"

	"github.com/goccy/go-json"
	"github.com/rs/zerolog"

	"github.com/inspi-writer001/feesplit/internal/domain"
)

// TransferUseCase runs fee-split transfers inside a single database
// transaction, so a failed net leg also discards the fee leg.
type TransferUseCase struct {
	txManager    TransactionManager
	ledgers      LedgerFactory
	feeSplitRepo FeeSplitRepository
	outboxRepo   OutboxRepository
	idGen        IDGenerator
	retrier      Retrier
	metrics      Metrics
	cache        Cache
	cacheTTL     time.Duration
	logger       zerolog.Logger
}

// TransferUseCaseConfig holds TransferUseCase dependencies. Retrier, Metrics,
// Cache and Logger are optional.
type TransferUseCaseConfig struct {
	TxManager    TransactionManager
	Ledgers      LedgerFactory
	FeeSplitRepo FeeSplitRepository
	OutboxRepo   OutboxRepository
	IDGen        IDGenerator
	Retrier      Retrier
	Metrics      Metrics
	Cache        Cache
	CacheTTL     time.Duration // defaults to FeeSplitCacheTTL
	Logger       *zerolog.Logger
}

// NewTransferUseCase creates a new TransferUseCase.
func NewTransferUseCase(cfg TransferUseCaseConfig) *TransferUseCase {
	uc := &TransferUseCase{
		txManager:    cfg.TxManager,
		ledgers:      cfg.Ledgers,
		feeSplitRepo: cfg.FeeSplitRepo,
		outboxRepo:   cfg.OutboxRepo,
		idGen:        cfg.IDGen,
		retrier:      cfg.Retrier,
		metrics:      cfg.Metrics,
		cache:        cfg.Cache,
		cacheTTL:     cfg.CacheTTL,
		logger:       zerolog.Nop(),
	}

	if uc.cacheTTL <= 0 {
		uc.cacheTTL = FeeSplitCacheTTL
	}

	if uc.retrier == nil {
		uc.retrier = noRetry{}
	}
	if uc.metrics == nil {
		uc.metrics = noMetrics{}
	}
	if cfg.Logger != nil {
		uc.logger = *cfg.Logger
	}

	return uc
}

// TransferWithFeeInput represents input for a fee-split transfer.
type TransferWithFeeInput struct {
	Amount       uint64
	Source       string
	Recipient    string
	FeeCollector string
	Authority    string
}

func (in TransferWithFeeInput) toRequest() (domain.TransferRequest, error) {
	source, err := domain.ParseAccountRef(in.Source)
	if err != nil {
		return domain.TransferRequest{}, err
	}

	recipient, err := domain.ParseAccountRef(in.Recipient)
	if err != nil {
		return domain.TransferRequest{}, err
	}

	feeCollector, err := domain.ParseAccountRef(in.FeeCollector)
	if err != nil {
		return domain.TransferRequest{}, err
	}

	authority, err := domain.ParsePrincipal(in.Authority)
	if err != nil {
		return domain.TransferRequest{}, err
	}

	return domain.TransferRequest{
		Amount:       in.Amount,
		Source:       source,
		Recipient:    recipient,
		FeeCollector: feeCollector,
		Authority:    authority,
	}, nil
}

// QuoteFee returns the split for amount without touching the ledger.
func (uc *TransferUseCase) QuoteFee(amount uint64) (domain.Split, error) {
	return domain.ComputeSplit(amount)
}

// TransferWithFee moves input.Amount from the source account, the fee to the
// fee collector and the rest to the recipient. Either both legs are committed
// or neither is.
func (uc *TransferUseCase) TransferWithFee(ctx context.Context, input TransferWithFeeInput) (*domain.FeeSplit, error) {
	start := time.Now()

	feeSplit, split, err := uc.transferWithFee(ctx, input)

	kind := domain.ErrorKind(err)
	uc.metrics.ObserveFeeSplit(kind, split, time.Since(start))

	if err != nil {
		uc.logger.Warn().
			Err(err).
			Str("kind", kind).
			Uint64("amount", input.Amount).
			Str("source", input.Source).
			Msg("fee split failed")

		return nil, err
	}

	uc.logger.Info().
		Str("fee_split_id", feeSplit.ID).
		Uint64("amount", feeSplit.Amount).
		Uint64("fee", feeSplit.Fee).
		Uint64("net", feeSplit.Net).
		Dur("duration", time.Since(start)).
		Msg("fee split completed")

	return feeSplit, nil
}

func (uc *TransferUseCase) transferWithFee(ctx context.Context, input TransferWithFeeInput) (*domain.FeeSplit, domain.Split, error) {
	// 0. Validate inputs before starting transaction
	req, err := input.toRequest()
	if err != nil {
		return nil, domain.Split{}, err
	}

	if err := req.Validate(); err != nil {
		return nil, domain.Split{}, err
	}

	split, err := domain.ComputeSplit(req.Amount)
	if err != nil {
		return nil, domain.Split{}, err
	}

	var feeSplit *domain.FeeSplit
	err = uc.retrier.Retry(ctx, func() error {
		fs, err := uc.transferWithFeeTx(ctx, req)
		if err != nil {
			return err
		}

		feeSplit = fs

		return nil
	})
	if err != nil {
		return nil, split, err
	}

	return feeSplit, split, nil
}

func (uc *TransferUseCase) transferWithFeeTx(ctx context.Context, req domain.TransferRequest) (*domain.FeeSplit, error) {
	ctx, cancel := context.WithTimeout(ctx, DefaultTransactionTimeout)
	defer cancel()

	// 1. Begin transaction
	tx, err := uc.txManager.Begin(ctx)
	if err != nil {
		return nil, err
	}
	defer tx.Rollback(ctx)

	// 2. Fee leg, then net leg, against the transaction-bound ledger
	split, err := NewFeeSplitTransfer(uc.ledgers.LedgerFor(tx)).Execute(ctx, req)
	if err != nil {
		return nil, err
	}

	// 3. Record the transfer and its event
	now := time.Now().UTC()
	feeSplit := &domain.FeeSplit{
		ID:           uc.idGen.Generate(),
		Source:       req.Source,
		Recipient:    req.Recipient,
		FeeCollector: req.FeeCollector,
		Authority:    req.Authority,
		Amount:       split.Amount,
		Fee:          split.Fee,
		Net:          split.Net,
		CreatedAt:    now,
	}

	if err := uc.feeSplitRepo.Create(ctx, tx, feeSplit); err != nil {
		return nil, err
	}

	event := &domain.OutboxEvent{
		ID:            uc.idGen.Generate(),
		AggregateID:   feeSplit.ID,
		AggregateType: domain.AggregateTypeFeeSplit,
		EventType:     domain.EventTypeFeeSplitCompleted,
		Payload:       domain.FeeSplitCompletedPayload(feeSplit),
		CreatedAt:     now,
	}

	if err := uc.outboxRepo.Create(ctx, tx, event); err != nil {
		return nil, err
	}

	// 4. Commit transaction
	if err := tx.Commit(ctx); err != nil {
		return nil, err
	}

	return feeSplit, nil
}

// GetFeeSplit retrieves a fee split by ID, reading through the cache when
// one is configured. Cache failures fall back to the repository.
func (uc *TransferUseCase) GetFeeSplit(ctx context.Context, id string) (*domain.FeeSplit, error) {
	if uc.cache == nil {
		return uc.feeSplitRepo.GetByID(ctx, id)
	}

	key := feeSplitCacheKey(id)

	raw, ok, err := uc.cache.Get(ctx, key)
	if err != nil {
		uc.logger.Warn().Err(err).Str("fee_split_id", id).Msg("fee split cache read failed")
	}

	if ok {
		var cached domain.FeeSplit
		if err := json.Unmarshal(raw, &cached); err == nil {
			return &cached, nil
		}
	}

	feeSplit, err := uc.feeSplitRepo.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}

	if raw, err := json.Marshal(feeSplit); err == nil {
		if err := uc.cache.Set(ctx, key, raw, uc.cacheTTL); err != nil {
			uc.logger.Warn().Err(err).Str("fee_split_id", id).Msg("fee split cache write failed")
		}
	}

	return feeSplit, nil
}

func feeSplitCacheKey(id string) string {
	return "fee_split:" + id
}

// ListFeeSplitsByAccountInput represents input for listing fee splits.
type ListFeeSplitsByAccountInput struct {
	Address string
	Limit   int
	Offset  int
}

// ListFeeSplitsByAccount lists fee splits in which the account took part.
func (uc *TransferUseCase) ListFeeSplitsByAccount(ctx context.Context, input ListFeeSplitsByAccountInput) ([]*domain.FeeSplit, error) {
	address, err := domain.ParseAccountRef(input.Address)
	if err != nil {
		return nil, err
	}

	if input.Limit <= 0 {
		input.Limit = defaultPageSize
	}

	if input.Limit > maxPageSize {
		input.Limit = maxPageSize
	}

	if input.Offset < 0 {
		input.Offset = 0
	}

	return uc.feeSplitRepo.ListByAccount(ctx, address, input.Limit, input.Offset)
}
