package memory

import (
	"context"
	"fmt"

	"github.com/inspi-writer001/feesplit/internal/domain"
	"github.com/inspi-writer001/feesplit/internal/usecase"
)

// Ledger applies DebitCredit calls to a Store inside one transaction.
type Ledger struct {
	store *Store
	tx    usecase.Transaction
}

// DebitCredit moves amount from one account to another.
func (l *Ledger) DebitCredit(_ context.Context, authorizer domain.Principal, from, to domain.AccountRef, amount uint64) error {
	if from == to {
		return fmt.Errorf("%w: cannot transfer to the same account", domain.ErrInvalidAccount)
	}

	t, err := asOpenTx(l.tx)
	if err != nil {
		return err
	}

	s := l.store
	s.mu.Lock()
	defer s.mu.Unlock()

	src, ok := s.accounts[from]
	if !ok {
		return fmt.Errorf("%w: source %s does not exist", domain.ErrInvalidAccount, from)
	}

	dst, ok := s.accounts[to]
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

	prevSrc, prevDst := *src, *dst
	postings := len(s.postings)
	now := s.now()

	src.Balance, src.Version, src.UpdatedAt = srcBalance, src.Version+1, now
	dst.Balance, dst.Version, dst.UpdatedAt = dstBalance, dst.Version+1, now
	s.postings = append(s.postings, Posting{Authorizer: authorizer, From: from, To: to, Amount: amount})

	t.undo = append(t.undo, func() {
		*src = prevSrc
		*dst = prevDst
		s.postings = s.postings[:postings]
	})

	return nil
}
