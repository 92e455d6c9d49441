// file: internals/features/payments/service/receipt_allocator.go
package service

import (
	"context"
	"fmt"
	"sort"
	"strconv"
	"strings"
	"sync"

	"feetracker_backend/internals/features/payments/repository"
)

/* =========================
   Receipt Allocator
   ========================= */

// ReceiptAllocator issues receipt identifiers: a growing sequence formatted
// as PREFIX + zero-padded number, with deleted identifiers handed back out
// (smallest first) before the sequence grows. All state is process-wide and
// rebuilt from the store on startup, so a restart can never re-issue an
// identifier that is still in use.
type ReceiptAllocator struct {
	mu        sync.Mutex
	prefix    string
	nextSeq   int64
	reclaimed []int64 // sorted ascending, no duplicates
}

// NewReceiptAllocator derives the watermark from the persisted ledger. If the
// store cannot be reached it fails instead of guessing; a wrong low watermark
// would collide with existing rows.
func NewReceiptAllocator(ctx context.Context, store repository.LedgerStore, prefix string, floor int64) (*ReceiptAllocator, error) {
	maxID, err := store.MaxIdentifier(ctx, prefix)
	if err != nil {
		return nil, fmt.Errorf("%w: deriving receipt watermark: %v", ErrStoreUnavailable, err)
	}

	next := floor
	if maxID != "" {
		n, err := strconv.ParseInt(strings.TrimPrefix(maxID, prefix), 10, 64)
		if err != nil {
			return nil, fmt.Errorf("corrupt receipt identifier %q in ledger: %v", maxID, err)
		}
		if n > next {
			next = n
		}
	}

	return &ReceiptAllocator{prefix: prefix, nextSeq: next}, nil
}

// Allocate returns a currently-unused identifier. Reclaimed identifiers are
// reused before the sequence grows.
func (a *ReceiptAllocator) Allocate() string {
	a.mu.Lock()
	defer a.mu.Unlock()
	return a.allocateLocked()
}

// Reclaim returns a deleted identifier to the pool. Identifiers that do not
// match the scheme, were never issued, or are already pooled are ignored, so
// the call is idempotent.
func (a *ReceiptAllocator) Reclaim(receiptID string) {
	a.mu.Lock()
	defer a.mu.Unlock()
	a.reclaimLocked(receiptID)
}

// Watermark reports the highest sequence number ever issued. Used by the
// nightly audit to detect drift against the persisted ledger.
func (a *ReceiptAllocator) Watermark() int64 {
	a.mu.Lock()
	defer a.mu.Unlock()
	return a.nextSeq
}

// lock/unlock expose the allocator's exclusive section so the ledger service
// can hold it across the admit-then-insert sequence.
func (a *ReceiptAllocator) lock()   { a.mu.Lock() }
func (a *ReceiptAllocator) unlock() { a.mu.Unlock() }

// allocateLocked is Allocate for callers already inside the section.
func (a *ReceiptAllocator) allocateLocked() string {
	if len(a.reclaimed) > 0 {
		n := a.reclaimed[0]
		a.reclaimed = a.reclaimed[1:]
		return a.format(n)
	}
	a.nextSeq++
	return a.format(a.nextSeq)
}

// reclaimLocked is Reclaim for callers already inside the section.
func (a *ReceiptAllocator) reclaimLocked(receiptID string) {
	if !strings.HasPrefix(receiptID, a.prefix) {
		return
	}
	n, err := strconv.ParseInt(strings.TrimPrefix(receiptID, a.prefix), 10, 64)
	if err != nil || n <= 0 || n > a.nextSeq {
		return
	}
	i := sort.Search(len(a.reclaimed), func(i int) bool { return a.reclaimed[i] >= n })
	if i < len(a.reclaimed) && a.reclaimed[i] == n {
		return
	}
	a.reclaimed = append(a.reclaimed, 0)
	copy(a.reclaimed[i+1:], a.reclaimed[i:])
	a.reclaimed[i] = n
}

func (a *ReceiptAllocator) format(n int64) string {
	return fmt.Sprintf("%s%04d", a.prefix, n)
}
