package ledgerrepo

import (
	"context"
	"sort"
	"sync"
	"time"

	"github.com/go-petr/wallet-ledger/internal/domain"
	"github.com/go-petr/wallet-ledger/pkg/errorspkg"
	"github.com/go-petr/wallet-ledger/pkg/moneypkg"
)

// RepoMem is an in-memory store implementing the account, transaction log
// and commit interfaces behind one mutex. It substitutes for the postgres
// repositories in tests and keeps the same semantics: the idempotency key is
// unique, balances only change through compare-and-set, and a commit is
// all-or-nothing.
type RepoMem struct {
	mu           sync.RWMutex
	accounts     map[string]domain.Account
	transactions []domain.Transaction
	byKey        map[string]int // idempotency key -> index into transactions
}

// NewRepoMem returns an empty in-memory store.
func NewRepoMem() *RepoMem {
	return &RepoMem{
		accounts: make(map[string]domain.Account),
		byKey:    make(map[string]int),
	}
}

// Create persists a new account with the given id and starting balance.
func (r *RepoMem) Create(_ context.Context, id, balance string) (domain.Account, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	if _, ok := r.accounts[id]; ok {
		return domain.Account{}, errorspkg.ErrInternal
	}

	a := domain.Account{
		ID:        id,
		Balance:   balance,
		CreatedAt: time.Now().UTC(),
	}
	r.accounts[id] = a

	return a, nil
}

// Get returns the account with the given id.
func (r *RepoMem) Get(_ context.Context, id string) (domain.Account, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	a, ok := r.accounts[id]
	if !ok {
		return domain.Account{}, domain.ErrAccountNotFound
	}

	return a, nil
}

// List returns all accounts ordered by creation time.
func (r *RepoMem) List(_ context.Context) ([]domain.Account, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	items := make([]domain.Account, 0, len(r.accounts))
	for _, a := range r.accounts {
		items = append(items, a)
	}

	sort.Slice(items, func(i, j int) bool {
		if items[i].CreatedAt.Equal(items[j].CreatedAt) {
			return items[i].ID < items[j].ID
		}
		return items[i].CreatedAt.Before(items[j].CreatedAt)
	})

	return items, nil
}

// CompareAndSetBalance atomically replaces the balance if it still equals expected.
func (r *RepoMem) CompareAndSetBalance(_ context.Context, id string, expected, newBalance moneypkg.Money) (bool, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	return r.compareAndSetLocked(id, expected, newBalance)
}

func (r *RepoMem) compareAndSetLocked(id string, expected, newBalance moneypkg.Money) (bool, error) {
	a, ok := r.accounts[id]
	if !ok {
		return false, domain.ErrAccountNotFound
	}

	stored, err := moneypkg.Parse(a.Balance)
	if err != nil {
		return false, errorspkg.ErrInternal
	}

	if stored != expected {
		return false, nil
	}

	if newBalance.IsNegative() {
		return false, domain.ErrInsufficientBalance
	}

	a.Balance = newBalance.String()
	r.accounts[id] = a

	return true, nil
}

// FindByIdempotencyKey returns the transaction committed under the given key.
func (r *RepoMem) FindByIdempotencyKey(_ context.Context, key string) (domain.Transaction, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	i, ok := r.byKey[key]
	if !ok {
		return domain.Transaction{}, domain.ErrTransactionNotFound
	}

	return r.transactions[i], nil
}

// ListByAccount returns the account's transactions in append order.
func (r *RepoMem) ListByAccount(_ context.Context, accountID string) ([]domain.Transaction, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	items := []domain.Transaction{}

	for _, t := range r.transactions {
		if t.AccountID == accountID {
			items = append(items, t)
		}
	}

	return items, nil
}

// Commit appends the transaction and swaps the balance under one lock,
// mirroring the postgres all-or-nothing commit.
func (r *RepoMem) Commit(_ context.Context, arg domain.Transaction, expected, newBalance moneypkg.Money) (domain.Transaction, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	if _, ok := r.byKey[arg.IdempotencyKey]; ok {
		return domain.Transaction{}, domain.ErrDuplicateTransaction
	}

	swapped, err := r.compareAndSetLocked(arg.AccountID, expected, newBalance)
	if err != nil {
		return domain.Transaction{}, err
	}

	if !swapped {
		return domain.Transaction{}, domain.ErrStaleBalance
	}

	r.byKey[arg.IdempotencyKey] = len(r.transactions)
	r.transactions = append(r.transactions, arg)

	return arg, nil
}
