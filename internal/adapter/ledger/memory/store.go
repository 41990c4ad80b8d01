// Package memory provides an in-process ledger. Transactions are serialized
// by a store-wide lock held from Begin until Commit or Rollback, and Rollback
// replays an undo journal.
package memory

import (
	"context"
	"errors"
	"fmt"
	"sort"
	"sync"
	"time"

	"github.com/inspi-writer001/feesplit/internal/domain"
	"github.com/inspi-writer001/feesplit/internal/usecase"
)

// ErrTxDone is returned when a finished transaction is used.
var ErrTxDone = errors.New("transaction already finished")

// Posting is one applied DebitCredit call.
type Posting struct {
	Authorizer domain.Principal
	From       domain.AccountRef
	To         domain.AccountRef
	Amount     uint64
}

// Store holds token accounts in memory.
type Store struct {
	txMu sync.Mutex

	mu       sync.RWMutex
	accounts map[domain.AccountRef]*domain.TokenAccount
	postings []Posting
	now      func() time.Time
}

// NewStore creates an empty Store.
func NewStore() *Store {
	return &Store{
		accounts: make(map[domain.AccountRef]*domain.TokenAccount),
		now:      func() time.Time { return time.Now().UTC() },
	}
}

// Begin starts a transaction. It blocks while another transaction is open.
func (s *Store) Begin(_ context.Context) (usecase.Transaction, error) {
	s.txMu.Lock()
	return &Tx{store: s}, nil
}

// LedgerFor returns a ledger whose changes belong to tx.
func (s *Store) LedgerFor(tx usecase.Transaction) usecase.Ledger {
	return &Ledger{store: s, tx: tx}
}

// Create adds an account within tx.
func (s *Store) Create(_ context.Context, tx usecase.Transaction, account *domain.TokenAccount) error {
	t, err := asOpenTx(tx)
	if err != nil {
		return err
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	if _, ok := s.accounts[account.Address]; ok {
		return fmt.Errorf("%w: account %s already exists", domain.ErrInvalidAccount, account.Address)
	}

	stored := *account
	s.accounts[account.Address] = &stored
	t.undo = append(t.undo, func() { delete(s.accounts, account.Address) })

	return nil
}

// GetByAddress returns a copy of the account at address.
func (s *Store) GetByAddress(_ context.Context, address domain.AccountRef) (*domain.TokenAccount, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	acc, ok := s.accounts[address]
	if !ok {
		return nil, domain.ErrAccountNotFound
	}

	cp := *acc
	return &cp, nil
}

// Balance returns the balance at address, or zero when the account is unknown.
func (s *Store) Balance(address domain.AccountRef) uint64 {
	acc, err := s.GetByAddress(context.Background(), address)
	if err != nil {
		return 0
	}

	return acc.Balance
}

// Postings returns the committed and in-flight postings in order.
func (s *Store) Postings() []Posting {
	s.mu.RLock()
	defer s.mu.RUnlock()

	return append([]Posting(nil), s.postings...)
}

// Accounts returns all accounts ordered by address.
func (s *Store) Accounts() []domain.TokenAccount {
	s.mu.RLock()
	defer s.mu.RUnlock()

	out := make([]domain.TokenAccount, 0, len(s.accounts))
	for _, acc := range s.accounts {
		out = append(out, *acc)
	}

	sort.Slice(out, func(i, j int) bool { return out[i].Address < out[j].Address })

	return out
}

// Tx is a Store transaction.
type Tx struct {
	store *Store
	undo  []func()
	done  bool
}

// Commit keeps the transaction's changes.
func (t *Tx) Commit(_ context.Context) error {
	if t.done {
		return ErrTxDone
	}

	t.finish()

	return nil
}

// Rollback discards the transaction's changes. Rolling back a finished
// transaction is a no-op.
func (t *Tx) Rollback(_ context.Context) error {
	if t.done {
		return nil
	}

	t.store.mu.Lock()
	for i := len(t.undo) - 1; i >= 0; i-- {
		t.undo[i]()
	}
	t.store.mu.Unlock()

	t.finish()

	return nil
}

func (t *Tx) finish() {
	t.done = true
	t.undo = nil
	t.store.txMu.Unlock()
}

func asOpenTx(tx usecase.Transaction) (*Tx, error) {
	t, ok := tx.(*Tx)
	if !ok {
		return nil, fmt.Errorf("memory: unexpected transaction type %T", tx)
	}

	if t.done {
		return nil, ErrTxDone
	}

	return t, nil
}

// Seed adds accounts in a single committed transaction.
func (s *Store) Seed(ctx context.Context, accounts ...domain.TokenAccount) error {
	tx, err := s.Begin(ctx)
	if err != nil {
		return err
	}
	defer tx.Rollback(ctx)

	for i := range accounts {
		if err := s.Create(ctx, tx, &accounts[i]); err != nil {
			return err
		}
	}

	return tx.Commit(ctx)
}
