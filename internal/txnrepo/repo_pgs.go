// Package txnrepo manages repository layer of the transaction log.
package txnrepo

import (
	"context"
	"database/sql"

	"github.com/go-petr/wallet-ledger/internal/domain"
	"github.com/go-petr/wallet-ledger/pkg/dbpkg"
	"github.com/go-petr/wallet-ledger/pkg/errorspkg"

	"github.com/lib/pq"
	"github.com/rs/zerolog"
)

// RepoPGS facilitates transaction log repository layer logic.
type RepoPGS struct {
	db dbpkg.SQLInterface
}

// NewRepoPGS returns transaction log RepoPGS.
func NewRepoPGS(db dbpkg.SQLInterface) *RepoPGS {
	return &RepoPGS{db: db}
}

const appendQuery = `
INSERT INTO
    transactions (id, account_id, idempotency_key, kind, amount)
VALUES
    ($1, $2, $3, $4, $5)
RETURNING id, account_id, idempotency_key, kind, amount, created_at
`

// Append inserts the transaction record and returns it as stored.
//
// The unique index on idempotency_key is the correctness guarantee under
// concurrent callers presenting the same key; a prior lookup is only an
// optimization.
func (r *RepoPGS) Append(ctx context.Context, arg domain.Transaction) (domain.Transaction, error) {
	l := zerolog.Ctx(ctx)

	row := r.db.QueryRowContext(ctx, appendQuery,
		arg.ID,
		arg.AccountID,
		arg.IdempotencyKey,
		arg.Kind,
		arg.Amount,
	)

	var t domain.Transaction

	err := row.Scan(
		&t.ID,
		&t.AccountID,
		&t.IdempotencyKey,
		&t.Kind,
		&t.Amount,
		&t.CreatedAt,
	)

	if err != nil {
		if pqErr, ok := err.(*pq.Error); ok {
			switch pqErr.Constraint {
			case "transactions_idempotency_key_key":
				return t, domain.ErrDuplicateTransaction
			case "transactions_account_id_fkey":
				return t, domain.ErrAccountNotFound
			}
		}

		l.Error().Err(err).Send()

		return t, errorspkg.ErrInternal
	}

	return t, nil
}

const findByIdempotencyKeyQuery = `
SELECT
	id, account_id, idempotency_key, kind, amount, created_at
FROM transactions
WHERE idempotency_key = $1
`

// FindByIdempotencyKey returns the transaction committed under the given key.
func (r *RepoPGS) FindByIdempotencyKey(ctx context.Context, key string) (domain.Transaction, error) {
	l := zerolog.Ctx(ctx)

	row := r.db.QueryRowContext(ctx, findByIdempotencyKeyQuery, key)

	var t domain.Transaction

	err := row.Scan(
		&t.ID,
		&t.AccountID,
		&t.IdempotencyKey,
		&t.Kind,
		&t.Amount,
		&t.CreatedAt,
	)

	if err != nil {
		if err == sql.ErrNoRows {
			return t, domain.ErrTransactionNotFound
		}

		l.Error().Err(err).Send()

		return t, errorspkg.ErrInternal
	}

	return t, nil
}

const listByAccountQuery = `
SELECT
	id, account_id, idempotency_key, kind, amount, created_at
FROM transactions
WHERE account_id = $1
ORDER BY created_at, id
`

// ListByAccount returns the account's transactions ordered by creation time ascending.
func (r *RepoPGS) ListByAccount(ctx context.Context, accountID string) ([]domain.Transaction, error) {
	l := zerolog.Ctx(ctx)

	rows, err := r.db.QueryContext(ctx, listByAccountQuery, accountID)
	if err != nil {
		l.Error().Err(err).Send()
		return nil, errorspkg.ErrInternal
	}
	defer rows.Close()

	items := []domain.Transaction{}

	for rows.Next() {
		var t domain.Transaction
		if err := rows.Scan(
			&t.ID,
			&t.AccountID,
			&t.IdempotencyKey,
			&t.Kind,
			&t.Amount,
			&t.CreatedAt,
		); err != nil {
			l.Error().Err(err).Send()
			return nil, errorspkg.ErrInternal
		}

		items = append(items, t)
	}

	if err := rows.Err(); err != nil {
		l.Error().Err(err).Send()
		return nil, errorspkg.ErrInternal
	}

	return items, nil
}
