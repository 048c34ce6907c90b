// Package domain provides defenitions of all entities.
package domain

import (
	"errors"
	"time"
)

// ErrAccountNotFound indicates that the account is not found.
var ErrAccountNotFound = errors.New("account not found")

// Account holds the current balance of a single wallet.
type Account struct {
	ID        string    `json:"id"`
	Balance   string    `json:"balance"` // canonical two-decimal string, never negative
	CreatedAt time.Time `json:"created_at"`
}
