// file: internals/features/payments/repository/ledger_store.go
package repository

import (
	"context"
	"errors"
	"time"

	"github.com/shopspring/decimal"

	"feetracker_backend/internals/features/payments/model"
)

// ErrDuplicateKey is returned by Insert when the receipt identifier already
// exists. With correct allocator discipline this should never fire; if it
// does, the request is failed and logged, never retried with the same id.
var ErrDuplicateKey = errors.New("ledger: duplicate receipt identifier")

// Filter narrows ledger queries. Nil fields are ignored. Until is exclusive,
// which lets a date-only end bound cover the whole end day by pointing at the
// start of the next one.
type Filter struct {
	StudentID  *string
	Semester   *int
	SchoolYear *int
	From       *time.Time
	Until      *time.Time
}

// Order is the row ordering for Query.
type Order int

const (
	// OrderRecentFirst sorts by recorded time descending, insertion order
	// breaking ties.
	OrderRecentFirst Order = iota
	// OrderReceiptDesc sorts by receipt identifier, longest/highest first.
	OrderReceiptDesc
)

// LedgerStore is the persistence contract the payment core is written
// against. The GORM store backs production; the memory store backs tests and
// mirrors the same semantics.
type LedgerStore interface {
	Insert(ctx context.Context, p *model.StudentPayment) error
	Delete(ctx context.Context, receiptID string) (int64, error)

	// MaxIdentifier returns the identifier with the highest numeric suffix
	// among rows whose id starts with prefix, or "" when none exist.
	MaxIdentifier(ctx context.Context, prefix string) (string, error)

	SumAmount(ctx context.Context, f Filter) (decimal.Decimal, error)
	Query(ctx context.Context, f Filter, order Order, limit int) ([]model.StudentPayment, error)

	// SumByStudent groups matching rows by student and sums their amounts.
	SumByStudent(ctx context.Context, f Filter) (map[string]decimal.Decimal, error)
}
