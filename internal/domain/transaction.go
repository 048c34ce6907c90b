package domain

import (
	"errors"
	"time"
)

var (
	// ErrInvalidAmount indicates invalid amount.
	ErrInvalidAmount = errors.New("invalid amount")
	// ErrInvalidOperationKind indicates an operation kind other than credit or debit.
	ErrInvalidOperationKind = errors.New("invalid operation kind")
	// ErrInsufficientBalance indicates that the account does not have sufficient balance.
	ErrInsufficientBalance = errors.New("insufficient balance")
	// ErrTransactionNotFound indicates that the transaction is not found.
	ErrTransactionNotFound = errors.New("transaction not found")
	// ErrDuplicateTransaction indicates that the idempotency key has already been committed.
	ErrDuplicateTransaction = errors.New("duplicate idempotency key")
	// ErrStaleBalance indicates that the account balance changed between read and commit.
	ErrStaleBalance = errors.New("account balance changed concurrently")
	// ErrTooManyRetries indicates that the account is under contention and the
	// operation gave up after the bounded number of commit attempts.
	ErrTooManyRetries = errors.New("account busy, retry later")
)

// TransactionKind is the direction of a balance change.
type TransactionKind string

// Supported transaction kinds.
const (
	KindCredit TransactionKind = "credit"
	KindDebit  TransactionKind = "debit"
)

// Transaction is an immutable record of one applied balance change.
// At most one transaction exists per idempotency key.
type Transaction struct {
	ID             string          `json:"id"`
	AccountID      string          `json:"account_id"`
	IdempotencyKey string          `json:"idempotency_key"`
	Kind           TransactionKind `json:"kind"`
	Amount         string          `json:"amount"` // positive magnitude
	CreatedAt      time.Time       `json:"created_at"`
}

// ApplyParams is the input data for a credit or debit operation.
type ApplyParams struct {
	AccountID      string          `json:"account_id"`
	IdempotencyKey string          `json:"idempotency_key"`
	Kind           TransactionKind `json:"kind"`
	Amount         string          `json:"amount"`
}

// ApplyResult is the outcome of an applied (or replayed) operation.
type ApplyResult struct {
	Transaction Transaction `json:"transaction"`
	Balance     string      `json:"balance"`
}
