// Package ledgerrepo provides the atomic commit unit of the ledger:
// appending a transaction record and swapping the account balance as a
// single database transaction.
package ledgerrepo

import (
	"context"
	"database/sql"
	"errors"

	"github.com/go-petr/wallet-ledger/internal/accountrepo"
	"github.com/go-petr/wallet-ledger/internal/domain"
	"github.com/go-petr/wallet-ledger/internal/txnrepo"
	"github.com/go-petr/wallet-ledger/pkg/errorspkg"
	"github.com/go-petr/wallet-ledger/pkg/moneypkg"

	"github.com/rs/zerolog"
)

// RepoPGS facilitates the atomic ledger commit over postgres.
type RepoPGS struct {
	conn *sql.DB
}

// NewRepoPGS returns ledger RepoPGS with a connection to start transactions.
func NewRepoPGS(conn *sql.DB) *RepoPGS {
	return &RepoPGS{conn: conn}
}

// Commit appends the transaction record and compare-and-sets the account
// balance within a single database transaction. Either both writes land or
// neither does.
//
// It returns domain.ErrDuplicateTransaction when the idempotency key has
// already been committed and domain.ErrStaleBalance when the balance no
// longer equals expected; the caller re-reads and retries on the latter.
func (r *RepoPGS) Commit(ctx context.Context, arg domain.Transaction, expected, newBalance moneypkg.Money) (domain.Transaction, error) {
	l := zerolog.Ctx(ctx)

	var committed domain.Transaction

	tx, err := r.conn.BeginTx(ctx, nil)
	if err != nil {
		l.Error().Err(err).Send()
		return committed, errorspkg.ErrInternal
	}

	defer func() {
		if err := tx.Rollback(); err != nil && !errors.Is(err, sql.ErrTxDone) {
			l.Error().Err(err).Send()
		}
	}()

	transactionRepo := txnrepo.NewRepoPGS(tx)
	accountRepo := accountrepo.NewRepoPGS(tx)

	committed, err = transactionRepo.Append(ctx, arg)
	if err != nil {
		// ErrDuplicateTransaction resolves the same-key race upstream.
		return domain.Transaction{}, err
	}

	swapped, err := accountRepo.CompareAndSetBalance(ctx, arg.AccountID, expected, newBalance)
	if err != nil {
		return domain.Transaction{}, err
	}

	if !swapped {
		return domain.Transaction{}, domain.ErrStaleBalance
	}

	if err := tx.Commit(); err != nil {
		l.Error().Err(err).Send()
		return domain.Transaction{}, errorspkg.ErrInternal
	}

	return committed, nil
}
