// Package ledgerservice manages business logic layer of ledger operations.
//
// It is the only writer of account balances and transaction records. An
// operation is applied at most once per idempotency key: replays return the
// originally committed transaction without touching the account.
package ledgerservice

import (
	"context"
	"time"

	"github.com/go-petr/wallet-ledger/internal/domain"
	"github.com/go-petr/wallet-ledger/internal/events"
	"github.com/go-petr/wallet-ledger/pkg/errorspkg"
	"github.com/go-petr/wallet-ledger/pkg/moneypkg"

	"github.com/google/uuid"
	"github.com/rs/zerolog"
)

// maxApplyAttempts bounds the read-compute-commit retries under contention
// on a single account before surfacing domain.ErrTooManyRetries.
const maxApplyAttempts = 5

// defaultStorageTimeout bounds every storage round trip so that an apply
// never hangs the caller.
const defaultStorageTimeout = 5 * time.Second

// AccountRepo provides the account reads needed by the ledger service layer.
//
//go:generate mockgen -source service.go -destination service_mock.go -package ledgerservice
type AccountRepo interface {
	Get(ctx context.Context, id string) (domain.Account, error)
}

// TransactionRepo provides the transaction log reads needed by the ledger service layer.
type TransactionRepo interface {
	FindByIdempotencyKey(ctx context.Context, key string) (domain.Transaction, error)
	ListByAccount(ctx context.Context, accountID string) ([]domain.Transaction, error)
}

// Committer atomically persists a transaction record together with the
// compare-and-set of the account balance.
type Committer interface {
	Commit(ctx context.Context, arg domain.Transaction, expected, newBalance moneypkg.Money) (domain.Transaction, error)
}

// Service facilitates ledger service layer logic.
type Service struct {
	accounts       AccountRepo
	transactions   TransactionRepo
	committer      Committer
	publisher      events.Publisher
	storageTimeout time.Duration
}

// New returns ledger service struct to manage ledger bussines logic.
// A zero storageTimeout selects the default.
func New(ar AccountRepo, tr TransactionRepo, c Committer, pub events.Publisher, storageTimeout time.Duration) *Service {
	if pub == nil {
		pub = events.Nop{}
	}

	if storageTimeout <= 0 {
		storageTimeout = defaultStorageTimeout
	}

	return &Service{
		accounts:       ar,
		transactions:   tr,
		committer:      c,
		publisher:      pub,
		storageTimeout: storageTimeout,
	}
}

// Apply credits or debits the account exactly once for the given idempotency key.
//
// A replayed key returns the committed transaction and the current balance
// without writing anything. A debit that would drive the balance negative is
// rejected and leaves no record, so the same key may be retried after the
// account is funded.
func (s *Service) Apply(ctx context.Context, arg domain.ApplyParams) (domain.ApplyResult, error) {
	l := zerolog.Ctx(ctx)

	amount, err := moneypkg.ParseAmount(arg.Amount)
	if err != nil {
		l.Info().Err(err).Str("amount", arg.Amount).Send()
		return domain.ApplyResult{}, domain.ErrInvalidAmount
	}

	if arg.Kind != domain.KindCredit && arg.Kind != domain.KindDebit {
		return domain.ApplyResult{}, domain.ErrInvalidOperationKind
	}

	ctx, cancel := context.WithTimeout(ctx, s.storageTimeout)
	defer cancel()

	committed, err := s.transactions.FindByIdempotencyKey(ctx, arg.IdempotencyKey)
	if err == nil {
		return s.replay(ctx, committed)
	}

	if err != domain.ErrTransactionNotFound {
		return domain.ApplyResult{}, err
	}

	for attempt := 0; attempt < maxApplyAttempts; attempt++ {
		account, err := s.accounts.Get(ctx, arg.AccountID)
		if err != nil {
			return domain.ApplyResult{}, err
		}

		balance, err := moneypkg.Parse(account.Balance)
		if err != nil {
			l.Error().Err(err).Str("balance", account.Balance).Send()
			return domain.ApplyResult{}, errorspkg.ErrInternal
		}

		var newBalance moneypkg.Money

		switch arg.Kind {
		case domain.KindCredit:
			newBalance = balance.Add(amount)
		case domain.KindDebit:
			newBalance = balance.Sub(amount)
			if newBalance.IsNegative() {
				// Rejected, not committed: nothing is recorded against the
				// key, so a later retry after funding can succeed.
				return domain.ApplyResult{}, domain.ErrInsufficientBalance
			}
		}

		txn := domain.Transaction{
			ID:             uuid.NewString(),
			AccountID:      arg.AccountID,
			IdempotencyKey: arg.IdempotencyKey,
			Kind:           arg.Kind,
			Amount:         amount.String(),
			CreatedAt:      time.Now().UTC(),
		}

		// Once the commit is issued it runs to completion or failure even if
		// the caller disconnects; the idempotency key is the retry mechanism.
		commitCtx, cancelCommit := context.WithTimeout(context.WithoutCancel(ctx), s.storageTimeout)
		committed, err := s.committer.Commit(commitCtx, txn, balance, newBalance)
		cancelCommit()

		switch err {
		case nil:
			s.publish(ctx, committed, newBalance)
			return domain.ApplyResult{Transaction: committed, Balance: newBalance.String()}, nil
		case domain.ErrStaleBalance:
			// Lost the per-account race; re-read the updated balance.
			continue
		case domain.ErrDuplicateTransaction:
			// Lost the same-key race; the winner's row is the result.
			winner, err := s.transactions.FindByIdempotencyKey(ctx, arg.IdempotencyKey)
			if err != nil {
				l.Error().Err(err).Str("idempotency_key", arg.IdempotencyKey).Send()
				return domain.ApplyResult{}, errorspkg.ErrInternal
			}

			return s.replay(ctx, winner)
		default:
			return domain.ApplyResult{}, err
		}
	}

	l.Warn().Str("account_id", arg.AccountID).Msg("apply gave up after max attempts")

	return domain.ApplyResult{}, domain.ErrTooManyRetries
}

// ListTransactions returns the account's committed transactions ordered by
// creation time ascending.
func (s *Service) ListTransactions(ctx context.Context, accountID string) ([]domain.Transaction, error) {
	ctx, cancel := context.WithTimeout(ctx, s.storageTimeout)
	defer cancel()

	if _, err := s.accounts.Get(ctx, accountID); err != nil {
		return nil, err
	}

	return s.transactions.ListByAccount(ctx, accountID)
}

func (s *Service) replay(ctx context.Context, committed domain.Transaction) (domain.ApplyResult, error) {
	account, err := s.accounts.Get(ctx, committed.AccountID)
	if err != nil {
		return domain.ApplyResult{}, err
	}

	return domain.ApplyResult{Transaction: committed, Balance: account.Balance}, nil
}

func (s *Service) publish(ctx context.Context, txn domain.Transaction, newBalance moneypkg.Money) {
	l := zerolog.Ctx(ctx)

	event := events.TransactionCompleted{
		TransactionID: txn.ID,
		AccountID:     txn.AccountID,
		Kind:          string(txn.Kind),
		Amount:        txn.Amount,
		NewBalance:    newBalance.String(),
		CreatedAt:     txn.CreatedAt,
	}

	if err := s.publisher.Publish(ctx, event); err != nil {
		l.Error().Err(err).Str("transaction_id", txn.ID).Msg("publish transaction completed")
	}
}
