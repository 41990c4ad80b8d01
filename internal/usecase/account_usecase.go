package usecase

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/inspi-writer001/feesplit/internal/domain"
)

// AccountUseCase handles token account business logic.
type AccountUseCase struct {
	txManager   TransactionManager
	accountRepo AccountRepository
	outboxRepo  OutboxRepository
	idGen       IDGenerator
}

// NewAccountUseCase creates a new AccountUseCase.
func NewAccountUseCase(txManager TransactionManager, accountRepo AccountRepository, outboxRepo OutboxRepository, idGen IDGenerator) *AccountUseCase {
	return &AccountUseCase{
		txManager:   txManager,
		accountRepo: accountRepo,
		outboxRepo:  outboxRepo,
		idGen:       idGen,
	}
}

// OpenAccountInput represents input for opening a token account.
type OpenAccountInput struct {
	Address string // generated when empty
	Owner   string
	Mint    string
}

// OpenAccount creates a new token account with a zero balance.
func (uc *AccountUseCase) OpenAccount(ctx context.Context, input OpenAccountInput) (*domain.TokenAccount, error) {
	var (
		address domain.AccountRef
		err     error
	)

	if input.Address == "" {
		address, err = domain.NewAccountRef()
	} else {
		address, err = domain.ParseAccountRef(input.Address)
	}
	if err != nil {
		return nil, err
	}

	owner, err := domain.ParsePrincipal(input.Owner)
	if err != nil {
		return nil, err
	}

	mint := strings.TrimSpace(input.Mint)
	if mint == "" {
		return nil, fmt.Errorf("%w: mint is required", domain.ErrInvalidAccount)
	}

	now := time.Now().UTC()
	account := &domain.TokenAccount{
		Address:   address,
		Owner:     owner,
		Mint:      mint,
		CreatedAt: now,
		UpdatedAt: now,
	}

	tx, err := uc.txManager.Begin(ctx)
	if err != nil {
		return nil, err
	}
	defer tx.Rollback(ctx)

	if err := uc.accountRepo.Create(ctx, tx, account); err != nil {
		return nil, err
	}

	err = uc.outboxRepo.Create(ctx, tx, &domain.OutboxEvent{
		ID:            uc.idGen.Generate(),
		AggregateID:   account.Address.String(),
		AggregateType: domain.AggregateTypeAccount,
		EventType:     domain.EventTypeAccountOpened,
		Payload:       domain.AccountOpenedPayload(account),
		CreatedAt:     now,
	})
	if err != nil {
		return nil, err
	}

	if err := tx.Commit(ctx); err != nil {
		return nil, err
	}

	return account, nil
}

// GetAccount retrieves a token account by address.
func (uc *AccountUseCase) GetAccount(ctx context.Context, address string) (*domain.TokenAccount, error) {
	ref, err := domain.ParseAccountRef(address)
	if err != nil {
		return nil, err
	}

	return uc.accountRepo.GetByAddress(ctx, ref)
}
