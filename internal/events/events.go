// Package events defines the ledger's outbound event contract.
package events

import (
	"context"
	"time"
)

// TransactionCompleted is published after an operation commits.
type TransactionCompleted struct {
	TransactionID string    `json:"transaction_id"`
	AccountID     string    `json:"account_id"`
	Kind          string    `json:"kind"`
	Amount        string    `json:"amount"`
	NewBalance    string    `json:"new_balance"`
	CreatedAt     time.Time `json:"created_at"`
}

// Publisher delivers completed-transaction events to interested consumers.
// Publishing is best effort and never affects the ledger result.
type Publisher interface {
	Publish(ctx context.Context, event TransactionCompleted) error
}

// Nop is a Publisher that discards events.
type Nop struct{}

// Publish implements Publisher.
func (Nop) Publish(context.Context, TransactionCompleted) error { return nil }
