package service

import (
	"context"
	"fmt"
	"sync"
	"testing"

	"github.com/shopspring/decimal"

	"feetracker_backend/internals/features/payments/model"
	"feetracker_backend/internals/features/payments/repository"
)

func seedPayment(t *testing.T, store *repository.MemoryLedgerStore, receiptID string) {
	t.Helper()
	err := store.Insert(context.Background(), &model.StudentPayment{
		PaymentReceiptID:  receiptID,
		PaymentStudentID:  "2021-00001",
		PaymentSemester:   1,
		PaymentSchoolYear: 2024,
		PaymentAmount:     decimal.RequireFromString("50.00"),
	})
	if err != nil {
		t.Fatalf("seed %s: %v", receiptID, err)
	}
}

func TestReceiptAllocator(t *testing.T) {
	t.Parallel()

	t.Run("empty ledger starts at the floor", func(t *testing.T) {
		store := repository.NewMemoryLedgerStore()
		a, err := NewReceiptAllocator(context.Background(), store, "CTUG", 0)
		if err != nil {
			t.Fatal(err)
		}
		if got := a.Allocate(); got != "CTUG0001" {
			t.Errorf("first allocation = %s, want CTUG0001", got)
		}
	})

	t.Run("watermark rebuilt from persisted rows", func(t *testing.T) {
		store := repository.NewMemoryLedgerStore()
		seedPayment(t, store, "CTUG0007")
		seedPayment(t, store, "CTUG0042")
		seedPayment(t, store, "CTUG0015")

		a, err := NewReceiptAllocator(context.Background(), store, "CTUG", 0)
		if err != nil {
			t.Fatal(err)
		}
		if got := a.Allocate(); got != "CTUG0043" {
			t.Errorf("allocation after restart = %s, want CTUG0043", got)
		}
	})

	t.Run("configured floor wins over an empty ledger", func(t *testing.T) {
		store := repository.NewMemoryLedgerStore()
		a, err := NewReceiptAllocator(context.Background(), store, "CTUG", 100)
		if err != nil {
			t.Fatal(err)
		}
		if got := a.Allocate(); got != "CTUG0101" {
			t.Errorf("allocation = %s, want CTUG0101", got)
		}
	})

	t.Run("reuse before growth", func(t *testing.T) {
		store := repository.NewMemoryLedgerStore()
		a, err := NewReceiptAllocator(context.Background(), store, "CTUG", 0)
		if err != nil {
			t.Fatal(err)
		}

		first := a.Allocate()
		a.Reclaim(first)
		if got := a.Allocate(); got != first {
			t.Errorf("allocation after reclaim = %s, want %s", got, first)
		}
	})

	t.Run("smallest reclaimed identifier goes out first", func(t *testing.T) {
		store := repository.NewMemoryLedgerStore()
		a, err := NewReceiptAllocator(context.Background(), store, "CTUG", 0)
		if err != nil {
			t.Fatal(err)
		}

		for i := 0; i < 5; i++ {
			a.Allocate()
		}
		a.Reclaim("CTUG0004")
		a.Reclaim("CTUG0002")

		if got := a.Allocate(); got != "CTUG0002" {
			t.Errorf("allocation = %s, want CTUG0002", got)
		}
		if got := a.Allocate(); got != "CTUG0004" {
			t.Errorf("allocation = %s, want CTUG0004", got)
		}
		if got := a.Allocate(); got != "CTUG0006" {
			t.Errorf("allocation = %s, want CTUG0006", got)
		}
	})

	t.Run("reclaim is idempotent and rejects junk", func(t *testing.T) {
		store := repository.NewMemoryLedgerStore()
		a, err := NewReceiptAllocator(context.Background(), store, "CTUG", 0)
		if err != nil {
			t.Fatal(err)
		}

		a.Allocate()
		a.Reclaim("CTUG0001")
		a.Reclaim("CTUG0001")        // duplicate
		a.Reclaim("CTUG9999")        // never issued
		a.Reclaim("RCP-0001")        // wrong prefix
		a.Reclaim("CTUGabcd")        // non-numeric suffix

		if got := a.Allocate(); got != "CTUG0001" {
			t.Errorf("allocation = %s, want CTUG0001", got)
		}
		if got := a.Allocate(); got != "CTUG0002" {
			t.Errorf("allocation = %s, want CTUG0002 (pool must hold one entry only)", got)
		}
	})

	t.Run("no double issue under concurrency", func(t *testing.T) {
		store := repository.NewMemoryLedgerStore()
		a, err := NewReceiptAllocator(context.Background(), store, "CTUG", 0)
		if err != nil {
			t.Fatal(err)
		}

		const n = 200
		var wg sync.WaitGroup
		ids := make(chan string, n)
		for i := 0; i < n; i++ {
			wg.Add(1)
			go func() {
				defer wg.Done()
				ids <- a.Allocate()
			}()
		}
		wg.Wait()
		close(ids)

		seen := make(map[string]bool, n)
		for id := range ids {
			if seen[id] {
				t.Fatalf("identifier %s issued twice", id)
			}
			seen[id] = true
		}
		if len(seen) != n {
			t.Errorf("issued %d unique ids, want %d", len(seen), n)
		}
	})

	t.Run("sequence keeps counting past the zero padding", func(t *testing.T) {
		store := repository.NewMemoryLedgerStore()
		seedPayment(t, store, fmt.Sprintf("CTUG%04d", 9999))

		a, err := NewReceiptAllocator(context.Background(), store, "CTUG", 0)
		if err != nil {
			t.Fatal(err)
		}
		if got := a.Allocate(); got != "CTUG10000" {
			t.Errorf("allocation = %s, want CTUG10000", got)
		}
	})
}
