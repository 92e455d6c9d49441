package service

import (
	"context"
	"errors"
	"sync"
	"testing"
	"time"

	"github.com/shopspring/decimal"

	"feetracker_backend/internals/features/payments/model"
	"feetracker_backend/internals/features/payments/repository"
)

const testStudent = "2021-00001"

func dec(s string) decimal.Decimal { return decimal.RequireFromString(s) }

func newTestLedger(t *testing.T) (*LedgerService, *repository.MemoryLedgerStore) {
	t.Helper()
	store := repository.NewMemoryLedgerStore()
	students := repository.NewMemoryStudentDirectory()
	students.Add(testStudent, "Juan Dela Cruz")
	students.Add("2021-00002", "Maria Clara")

	allocator, err := NewReceiptAllocator(context.Background(), store, "CTUG", 0)
	if err != nil {
		t.Fatal(err)
	}
	return NewLedgerService(store, students, allocator, dec("300.00")), store
}

func submit(t *testing.T, s *LedgerService, amount string) (*model.StudentPayment, error) {
	t.Helper()
	return s.SubmitPayment(context.Background(), SubmitPaymentInput{
		StudentID:  testStudent,
		Semester:   1,
		SchoolYear: 2024,
		Amount:     dec(amount),
	})
}

func TestSubmitPayment(t *testing.T) {
	t.Parallel()

	t.Run("records a payment with a fresh identifier", func(t *testing.T) {
		s, _ := newTestLedger(t)
		p, err := submit(t, s, "150.00")
		if err != nil {
			t.Fatal(err)
		}
		if p.PaymentReceiptID != "CTUG0001" {
			t.Errorf("receipt = %s, want CTUG0001", p.PaymentReceiptID)
		}
		if p.PaymentRecordedAt.IsZero() {
			t.Error("recorded_at not assigned")
		}
	})

	t.Run("unknown student is rejected before the ledger", func(t *testing.T) {
		s, store := newTestLedger(t)
		_, err := s.SubmitPayment(context.Background(), SubmitPaymentInput{
			StudentID: "9999-00000", Semester: 1, SchoolYear: 2024, Amount: dec("50.00"),
		})
		if !errors.Is(err, ErrStudentNotFound) {
			t.Fatalf("err = %v, want ErrStudentNotFound", err)
		}
		rows, _ := store.Query(context.Background(), repository.Filter{}, repository.OrderRecentFirst, 0)
		if len(rows) != 0 {
			t.Errorf("ledger has %d rows, want 0", len(rows))
		}
	})

	t.Run("malformed input is a validation error", func(t *testing.T) {
		s, _ := newTestLedger(t)
		cases := []SubmitPaymentInput{
			{StudentID: testStudent, Semester: 3, SchoolYear: 2024, Amount: dec("50.00")},
			{StudentID: testStudent, Semester: 1, SchoolYear: 2024, Amount: dec("0")},
			{StudentID: testStudent, Semester: 1, SchoolYear: 2024, Amount: dec("-5.00")},
			{StudentID: testStudent, Semester: 1, SchoolYear: 2024, Amount: dec("10.555")},
			{StudentID: testStudent, Semester: 1, SchoolYear: 1, Amount: dec("50.00")},
		}
		for _, in := range cases {
			var ve *ValidationError
			if _, err := s.SubmitPayment(context.Background(), in); !errors.As(err, &ve) {
				t.Errorf("input %+v: err = %v, want ValidationError", in, err)
			}
		}
	})

	t.Run("exactly exhausting the fee is admitted", func(t *testing.T) {
		s, store := newTestLedger(t)
		for i := 0; i < 3; i++ {
			if _, err := submit(t, s, "100.00"); err != nil {
				t.Fatalf("payment %d: %v", i+1, err)
			}
		}
		sid := testStudent
		total, _ := store.SumAmount(context.Background(), repository.Filter{StudentID: &sid})
		if !total.Equal(dec("300.00")) {
			t.Errorf("total = %s, want 300.00", total.StringFixed(2))
		}
	})

	t.Run("overflow is rejected with the remaining balance", func(t *testing.T) {
		s, _ := newTestLedger(t)
		if _, err := submit(t, s, "150.00"); err != nil {
			t.Fatal(err)
		}
		if _, err := submit(t, s, "150.00"); err != nil {
			t.Fatal(err)
		}

		_, err := submit(t, s, "150.00")
		var ce *CeilingExceededError
		if !errors.As(err, &ce) {
			t.Fatalf("err = %v, want CeilingExceededError", err)
		}
		if !ce.Balance.Equal(dec("0.00")) {
			t.Errorf("balance = %s, want 0.00", ce.Balance.StringFixed(2))
		}
	})

	t.Run("rejection consumes no identifier", func(t *testing.T) {
		s, _ := newTestLedger(t)
		if _, err := submit(t, s, "300.00"); err != nil {
			t.Fatal(err)
		}
		if _, err := submit(t, s, "10.00"); err == nil {
			t.Fatal("expected rejection")
		}

		// a different student's next payment still gets the next number
		p, err := s.SubmitPayment(context.Background(), SubmitPaymentInput{
			StudentID: "2021-00002", Semester: 1, SchoolYear: 2024, Amount: dec("10.00"),
		})
		if err != nil {
			t.Fatal(err)
		}
		if p.PaymentReceiptID != "CTUG0002" {
			t.Errorf("receipt = %s, want CTUG0002", p.PaymentReceiptID)
		}
	})

	t.Run("other periods are untouched by the ceiling", func(t *testing.T) {
		s, _ := newTestLedger(t)
		if _, err := submit(t, s, "300.00"); err != nil {
			t.Fatal(err)
		}
		_, err := s.SubmitPayment(context.Background(), SubmitPaymentInput{
			StudentID: testStudent, Semester: 2, SchoolYear: 2024, Amount: dec("300.00"),
		})
		if err != nil {
			t.Fatalf("second period rejected: %v", err)
		}
	})

	t.Run("concurrent submissions never jointly exceed the fee", func(t *testing.T) {
		s, store := newTestLedger(t)

		const n = 20
		var wg sync.WaitGroup
		accepted := make(chan struct{}, n)
		for i := 0; i < n; i++ {
			wg.Add(1)
			go func() {
				defer wg.Done()
				if _, err := submit(t, s, "100.00"); err == nil {
					accepted <- struct{}{}
				}
			}()
		}
		wg.Wait()
		close(accepted)

		wins := 0
		for range accepted {
			wins++
		}
		if wins != 3 {
			t.Errorf("accepted %d payments of 100.00, want exactly 3", wins)
		}
		sid := testStudent
		total, _ := store.SumAmount(context.Background(), repository.Filter{StudentID: &sid})
		if total.GreaterThan(dec("300.00")) {
			t.Errorf("total = %s exceeds the fee", total.StringFixed(2))
		}
	})

	t.Run("duplicate identifier from the store is fatal to the request", func(t *testing.T) {
		s, store := newTestLedger(t)
		// simulate external corruption: a row the allocator never issued
		err := store.Insert(context.Background(), &model.StudentPayment{
			PaymentReceiptID:  "CTUG0001",
			PaymentStudentID:  "2021-00002",
			PaymentSemester:   2,
			PaymentSchoolYear: 2023,
			PaymentAmount:     dec("20.00"),
			PaymentRecordedAt: time.Now(),
		})
		if err != nil {
			t.Fatal(err)
		}

		_, err = submit(t, s, "50.00")
		if !errors.Is(err, ErrDuplicateReceipt) {
			t.Fatalf("err = %v, want ErrDuplicateReceipt", err)
		}
	})
}

func TestDeletePayment(t *testing.T) {
	t.Parallel()

	t.Run("frees the identifier for the next submission", func(t *testing.T) {
		s, _ := newTestLedger(t)
		var target string
		for i := 0; i < 10; i++ {
			p, err := s.SubmitPayment(context.Background(), SubmitPaymentInput{
				StudentID: "2021-00002", Semester: 1, SchoolYear: 2024, Amount: dec("10.00"),
			})
			if err != nil {
				t.Fatal(err)
			}
			target = p.PaymentReceiptID
		}
		if target != "CTUG0010" {
			t.Fatalf("tenth receipt = %s, want CTUG0010", target)
		}

		if err := s.DeletePayment(context.Background(), "CTUG0010"); err != nil {
			t.Fatal(err)
		}

		p, err := submit(t, s, "25.00")
		if err != nil {
			t.Fatal(err)
		}
		if p.PaymentReceiptID != "CTUG0010" {
			t.Errorf("receipt = %s, want reclaimed CTUG0010", p.PaymentReceiptID)
		}
	})

	t.Run("deleting frees the ceiling too", func(t *testing.T) {
		s, _ := newTestLedger(t)
		p, err := submit(t, s, "300.00")
		if err != nil {
			t.Fatal(err)
		}
		if _, err := submit(t, s, "50.00"); err == nil {
			t.Fatal("expected rejection at the ceiling")
		}
		if err := s.DeletePayment(context.Background(), p.PaymentReceiptID); err != nil {
			t.Fatal(err)
		}
		if _, err := submit(t, s, "50.00"); err != nil {
			t.Fatalf("payment after delete rejected: %v", err)
		}
	})

	t.Run("unknown receipt", func(t *testing.T) {
		s, _ := newTestLedger(t)
		if err := s.DeletePayment(context.Background(), "CTUG4242"); !errors.Is(err, ErrPaymentNotFound) {
			t.Fatalf("err = %v, want ErrPaymentNotFound", err)
		}
	})
}
