package domain

import (
	"fmt"
	"time"
)

// TokenAccount is a single-mint balance held by the ledger.
type TokenAccount struct {
	CreatedAt time.Time
	UpdatedAt time.Time
	Address   AccountRef
	Owner     Principal
	Mint      string
	Balance   uint64
	Version   int64
}

// ValidateDebit checks that authorizer may move amount out of the account.
func (a *TokenAccount) ValidateDebit(authorizer Principal, amount uint64) error {
	if a.Owner != authorizer {
		return ErrUnauthorized
	}

	if a.Balance < amount {
		return fmt.Errorf("%w: account %s holds %d, needs %d", ErrInsufficientBalance, a.Address, a.Balance, amount)
	}

	return nil
}

// ValidateCounterparty checks that to can receive funds from a.
func (a *TokenAccount) ValidateCounterparty(to *TokenAccount) error {
	if a.Address == to.Address {
		return fmt.Errorf("%w: cannot transfer to the same account", ErrInvalidAccount)
	}

	if a.Mint != to.Mint {
		return fmt.Errorf("%w: mint mismatch %s != %s", ErrInvalidAccount, a.Mint, to.Mint)
	}

	return nil
}

// ApplyDebit returns the balance after a debit. Call ValidateDebit first.
func (a *TokenAccount) ApplyDebit(amount uint64) (uint64, error) {
	return CheckedSub(a.Balance, amount)
}

// ApplyCredit returns the balance after a credit.
func (a *TokenAccount) ApplyCredit(amount uint64) (uint64, error) {
	return CheckedAdd(a.Balance, amount)
}
