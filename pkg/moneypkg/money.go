// Package moneypkg provides exact fixed-point money values with two decimal places.
package moneypkg

import (
	"errors"

	"github.com/shopspring/decimal"
)

// ErrInvalidAmount indicates a malformed, over-precise, negative or zero amount.
var ErrInvalidAmount = errors.New("invalid amount")

// Money is an amount of money in minor units (cents).
//
// Arithmetic on Money never rounds. Inputs with more than two fractional
// digits are rejected at parse time, never truncated.
type Money int64

// FromCents returns the Money holding the given number of minor units.
func FromCents(cents int64) Money {
	return Money(cents)
}

// Parse converts a non-negative decimal string with at most two fractional
// digits into Money. It is used for stored balances.
func Parse(s string) (Money, error) {
	d, err := decimal.NewFromString(s)
	if err != nil {
		return 0, ErrInvalidAmount
	}

	if !d.Equal(d.Truncate(2)) {
		return 0, ErrInvalidAmount
	}

	if d.IsNegative() {
		return 0, ErrInvalidAmount
	}

	shifted := d.Shift(2)
	if !shifted.BigInt().IsInt64() {
		// IntPart would silently truncate to the low 64 bits.
		return 0, ErrInvalidAmount
	}

	return Money(shifted.IntPart()), nil
}

// ParseAmount converts an operation amount into Money. Unlike Parse it
// rejects zero: a zero-amount operation is a malformed request, not a no-op.
func ParseAmount(s string) (Money, error) {
	m, err := Parse(s)
	if err != nil {
		return 0, err
	}

	if m == 0 {
		return 0, ErrInvalidAmount
	}

	return m, nil
}

// Cents returns the amount in minor units.
func (m Money) Cents() int64 {
	return int64(m)
}

// Add returns m plus other.
func (m Money) Add(other Money) Money {
	return m + other
}

// Sub returns m minus other. The result may be negative; negative values are
// representable so that callers can test for insufficient funds, but must
// never be persisted as an account balance.
func (m Money) Sub(other Money) Money {
	return m - other
}

// IsNegative reports whether m is below zero.
func (m Money) IsNegative() bool {
	return m < 0
}

// LessThan reports whether m is strictly less than other.
func (m Money) LessThan(other Money) bool {
	return m < other
}

// String renders m as a decimal string with exactly two fractional digits.
func (m Money) String() string {
	return decimal.New(int64(m), -2).StringFixed(2)
}
