// file: internals/features/payments/service/errors.go
package service

import (
	"errors"
	"fmt"

	"github.com/shopspring/decimal"
)

var (
	ErrStudentNotFound  = errors.New("student not found")
	ErrPaymentNotFound  = errors.New("payment not found")
	ErrDuplicateReceipt = errors.New("duplicate receipt identifier")
	ErrStoreUnavailable = errors.New("ledger store unavailable")
)

// ValidationError flags malformed input rejected before the ledger is
// touched.
type ValidationError struct {
	Field  string
	Reason string
}

func (e *ValidationError) Error() string {
	return fmt.Sprintf("invalid %s: %s", e.Field, e.Reason)
}

// CeilingExceededError is the admission-control rejection. Balance is the
// remaining allowance so the caller can tell the user how much they can
// still pay.
type CeilingExceededError struct {
	Balance decimal.Decimal
}

func (e *CeilingExceededError) Error() string {
	return fmt.Sprintf("payment exceeds the period fee; remaining balance is %s", e.Balance.StringFixed(2))
}
