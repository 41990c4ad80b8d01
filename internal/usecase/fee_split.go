package usecase

import (
	"context"

	"github.com/inspi-writer001/feesplit/internal/domain"
)

// FeeSplitTransfer moves an amount out of a source account in two legs: the
// fee to the fee collector first, then the remainder to the recipient.
//
// It does not undo the fee leg when the net leg fails. Callers that need
// both-or-neither must run Execute inside a transaction and discard it on
// error, as TransferUseCase does.
type FeeSplitTransfer struct {
	ledger Ledger
}

// NewFeeSplitTransfer creates a FeeSplitTransfer over ledger.
func NewFeeSplitTransfer(ledger Ledger) *FeeSplitTransfer {
	return &FeeSplitTransfer{ledger: ledger}
}

// Execute splits req.Amount and issues the fee leg then the net leg.
// Leg failures are returned as *domain.LegError wrapping the ledger error.
func (t *FeeSplitTransfer) Execute(ctx context.Context, req domain.TransferRequest) (domain.Split, error) {
	if err := req.Validate(); err != nil {
		return domain.Split{}, err
	}

	split, err := domain.ComputeSplit(req.Amount)
	if err != nil {
		return domain.Split{}, err
	}

	if err := t.ledger.DebitCredit(ctx, req.Authority, req.Source, req.FeeCollector, split.Fee); err != nil {
		return split, &domain.LegError{Leg: domain.LegFee, Err: err}
	}

	if err := t.ledger.DebitCredit(ctx, req.Authority, req.Source, req.Recipient, split.Net); err != nil {
		return split, &domain.LegError{Leg: domain.LegNet, Err: err}
	}

	return split, nil
}

// TransferWithFee executes a transfer of amount over pre-bound accounts.
func (t *FeeSplitTransfer) TransferWithFee(ctx context.Context, bound domain.TransferContext, amount uint64) error {
	_, err := t.Execute(ctx, bound.Bind(amount))
	return err
}
