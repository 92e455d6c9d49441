// file: internals/features/payments/repository/memory_store.go
package repository

import (
	"context"
	"sort"
	"strconv"
	"strings"
	"sync"

	"github.com/shopspring/decimal"

	"feetracker_backend/internals/features/payments/model"
)

// MemoryLedgerStore is the in-memory twin of the GORM store. It backs the
// test suite and mirrors the persistent store's semantics exactly, including
// insertion-order row ids.
type MemoryLedgerStore struct {
	mu      sync.RWMutex
	rows    map[string]model.StudentPayment
	nextRow int64
}

func NewMemoryLedgerStore() *MemoryLedgerStore {
	return &MemoryLedgerStore{rows: make(map[string]model.StudentPayment)}
}

var _ LedgerStore = (*MemoryLedgerStore)(nil)

func (s *MemoryLedgerStore) Insert(_ context.Context, p *model.StudentPayment) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if _, exists := s.rows[p.PaymentReceiptID]; exists {
		return ErrDuplicateKey
	}
	s.nextRow++
	p.PaymentRowID = s.nextRow
	s.rows[p.PaymentReceiptID] = *p
	return nil
}

func (s *MemoryLedgerStore) Delete(_ context.Context, receiptID string) (int64, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if _, exists := s.rows[receiptID]; !exists {
		return 0, nil
	}
	delete(s.rows, receiptID)
	return 1, nil
}

func (s *MemoryLedgerStore) MaxIdentifier(_ context.Context, prefix string) (string, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	best := ""
	bestNum := int64(-1)
	for id := range s.rows {
		if !strings.HasPrefix(id, prefix) {
			continue
		}
		n, err := strconv.ParseInt(id[len(prefix):], 10, 64)
		if err != nil {
			continue
		}
		if n > bestNum {
			bestNum = n
			best = id
		}
	}
	return best, nil
}

func (s *MemoryLedgerStore) SumAmount(_ context.Context, f Filter) (decimal.Decimal, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	total := decimal.Zero
	for _, p := range s.rows {
		if matches(p, f) {
			total = total.Add(p.PaymentAmount)
		}
	}
	return total, nil
}

func (s *MemoryLedgerStore) Query(_ context.Context, f Filter, order Order, limit int) ([]model.StudentPayment, error) {
	s.mu.RLock()
	out := make([]model.StudentPayment, 0, len(s.rows))
	for _, p := range s.rows {
		if matches(p, f) {
			out = append(out, p)
		}
	}
	s.mu.RUnlock()

	switch order {
	case OrderReceiptDesc:
		sort.Slice(out, func(i, j int) bool {
			a, b := out[i].PaymentReceiptID, out[j].PaymentReceiptID
			if len(a) != len(b) {
				return len(a) > len(b)
			}
			return a > b
		})
	default:
		sort.Slice(out, func(i, j int) bool {
			ti, tj := out[i].PaymentRecordedAt, out[j].PaymentRecordedAt
			if !ti.Equal(tj) {
				return ti.After(tj)
			}
			return out[i].PaymentRowID > out[j].PaymentRowID
		})
	}

	if limit > 0 && len(out) > limit {
		out = out[:limit]
	}
	return out, nil
}

func (s *MemoryLedgerStore) SumByStudent(_ context.Context, f Filter) (map[string]decimal.Decimal, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	out := make(map[string]decimal.Decimal)
	for _, p := range s.rows {
		if matches(p, f) {
			out[p.PaymentStudentID] = out[p.PaymentStudentID].Add(p.PaymentAmount)
		}
	}
	return out, nil
}

func matches(p model.StudentPayment, f Filter) bool {
	if f.StudentID != nil && p.PaymentStudentID != *f.StudentID {
		return false
	}
	if f.Semester != nil && p.PaymentSemester != *f.Semester {
		return false
	}
	if f.SchoolYear != nil && p.PaymentSchoolYear != *f.SchoolYear {
		return false
	}
	if f.From != nil && p.PaymentRecordedAt.Before(*f.From) {
		return false
	}
	if f.Until != nil && !p.PaymentRecordedAt.Before(*f.Until) {
		return false
	}
	return true
}
