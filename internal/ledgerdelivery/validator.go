package ledgerdelivery

import (
	"github.com/go-playground/validator/v10"

	"github.com/go-petr/wallet-ledger/pkg/moneypkg"
)

// ValidAmount checks that a bound field is a strictly positive decimal
// amount with at most two fractional digits.
var ValidAmount validator.Func = func(fieldLevel validator.FieldLevel) bool {
	if amount, ok := fieldLevel.Field().Interface().(string); ok {
		_, err := moneypkg.ParseAmount(amount)
		return err == nil
	}

	return false
}
