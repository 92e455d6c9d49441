package service

import (
	"context"
	"errors"
	"testing"
	"time"

	"feetracker_backend/internals/features/payments/model"
	"feetracker_backend/internals/features/payments/repository"
)

func newTestAggregation(t *testing.T) (*AggregationService, *repository.MemoryLedgerStore) {
	t.Helper()
	store := repository.NewMemoryLedgerStore()
	students := repository.NewMemoryStudentDirectory()
	students.Add(testStudent, "Juan Dela Cruz")
	students.Add("2021-00002", "Maria Clara")
	students.Add("2021-00003", "Jose Rizal")
	return NewAggregationService(store, students, dec("300.00")), store
}

func insertRow(t *testing.T, store *repository.MemoryLedgerStore, receiptID, studentID string, semester, year int, amount string, at time.Time) {
	t.Helper()
	err := store.Insert(context.Background(), &model.StudentPayment{
		PaymentReceiptID:  receiptID,
		PaymentStudentID:  studentID,
		PaymentSemester:   semester,
		PaymentSchoolYear: year,
		PaymentAmount:     dec(amount),
		PaymentRecordedAt: at,
	})
	if err != nil {
		t.Fatal(err)
	}
}

func TestBalance(t *testing.T) {
	t.Parallel()

	t.Run("zero payments yields the full fee as balance", func(t *testing.T) {
		agg, _ := newTestAggregation(t)
		view, err := agg.Balance(context.Background(), testStudent, PeriodFilter{}, true)
		if err != nil {
			t.Fatal(err)
		}
		if !view.TotalPaid.Equal(dec("0.00")) {
			t.Errorf("total_paid = %s, want 0.00", view.TotalPaid.StringFixed(2))
		}
		if !view.Balance.Equal(dec("300.00")) {
			t.Errorf("balance = %s, want 300.00", view.Balance.StringFixed(2))
		}
	})

	t.Run("unknown student", func(t *testing.T) {
		agg, _ := newTestAggregation(t)
		if _, err := agg.Balance(context.Background(), "9999-00000", PeriodFilter{}, true); !errors.Is(err, ErrStudentNotFound) {
			t.Fatalf("err = %v, want ErrStudentNotFound", err)
		}
	})

	t.Run("floor policy differs per caller", func(t *testing.T) {
		agg, store := newTestAggregation(t)
		now := time.Now()
		// overpayment can only come from legacy rows, but both views must
		// keep their own floor on the same underlying number
		insertRow(t, store, "CTUG0001", testStudent, 1, 2024, "350.00", now)

		student, err := agg.Balance(context.Background(), testStudent, PeriodFilter{}, true)
		if err != nil {
			t.Fatal(err)
		}
		if !student.Balance.Equal(dec("0.00")) {
			t.Errorf("student balance = %s, want clamped 0.00", student.Balance.StringFixed(2))
		}

		treasurer, err := agg.Balance(context.Background(), testStudent, PeriodFilter{}, false)
		if err != nil {
			t.Fatal(err)
		}
		if !treasurer.Balance.Equal(dec("-50.00")) {
			t.Errorf("treasurer balance = %s, want -50.00", treasurer.Balance.StringFixed(2))
		}
	})

	t.Run("period filter narrows the total", func(t *testing.T) {
		agg, store := newTestAggregation(t)
		now := time.Now()
		insertRow(t, store, "CTUG0001", testStudent, 1, 2024, "100.00", now)
		insertRow(t, store, "CTUG0002", testStudent, 2, 2024, "200.00", now)

		sem := 1
		view, err := agg.Balance(context.Background(), testStudent, PeriodFilter{Semester: &sem}, true)
		if err != nil {
			t.Fatal(err)
		}
		if !view.TotalPaid.Equal(dec("100.00")) {
			t.Errorf("total_paid = %s, want 100.00", view.TotalPaid.StringFixed(2))
		}
	})
}

func TestDashboard(t *testing.T) {
	t.Parallel()

	t.Run("recent ordering breaks timestamp ties by insertion order", func(t *testing.T) {
		agg, store := newTestAggregation(t)
		at := time.Date(2025, 3, 10, 12, 0, 0, 0, time.Local)
		insertRow(t, store, "CTUG0001", testStudent, 1, 2024, "10.00", at)
		insertRow(t, store, "CTUG0002", "2021-00002", 1, 2024, "20.00", at)
		insertRow(t, store, "CTUG0003", "2021-00003", 1, 2024, "30.00", at.Add(-time.Hour))

		view, err := agg.Dashboard(context.Background(), PeriodFilter{}, 2)
		if err != nil {
			t.Fatal(err)
		}
		if len(view.Recent) != 2 {
			t.Fatalf("recent has %d rows, want 2", len(view.Recent))
		}
		if view.Recent[0].PaymentReceiptID != "CTUG0002" || view.Recent[1].PaymentReceiptID != "CTUG0001" {
			t.Errorf("recent order = %s, %s; want CTUG0002, CTUG0001",
				view.Recent[0].PaymentReceiptID, view.Recent[1].PaymentReceiptID)
		}
	})

	t.Run("total honors the period filter, recent list does not", func(t *testing.T) {
		agg, store := newTestAggregation(t)
		now := time.Now()
		insertRow(t, store, "CTUG0001", testStudent, 1, 2024, "100.00", now.Add(-time.Minute))
		insertRow(t, store, "CTUG0002", testStudent, 2, 2024, "50.00", now)

		sem := 1
		view, err := agg.Dashboard(context.Background(), PeriodFilter{Semester: &sem}, 10)
		if err != nil {
			t.Fatal(err)
		}
		if !view.TotalPaid.Equal(dec("100.00")) {
			t.Errorf("total = %s, want filtered 100.00", view.TotalPaid.StringFixed(2))
		}
		if len(view.Recent) != 2 {
			t.Errorf("recent has %d rows, want 2 (unfiltered)", len(view.Recent))
		}
	})
}

func TestReport(t *testing.T) {
	t.Parallel()

	t.Run("no matching students yields zero percentages", func(t *testing.T) {
		agg, _ := newTestAggregation(t)
		sum, err := agg.Report(context.Background(), repository.Filter{}, PeriodFilter{})
		if err != nil {
			t.Fatal(err)
		}
		if sum.StudentCount != 0 {
			t.Errorf("student_count = %d, want 0", sum.StudentCount)
		}
		if !sum.PercentFullyPaid.IsZero() || !sum.PercentNotFullyPaid.IsZero() {
			t.Errorf("percentages = %s / %s, want 0 / 0",
				sum.PercentFullyPaid.StringFixed(2), sum.PercentNotFullyPaid.StringFixed(2))
		}
	})

	t.Run("classifies and totals per student", func(t *testing.T) {
		agg, store := newTestAggregation(t)
		now := time.Now()
		insertRow(t, store, "CTUG0001", testStudent, 1, 2024, "300.00", now)
		insertRow(t, store, "CTUG0002", "2021-00002", 1, 2024, "100.00", now)
		insertRow(t, store, "CTUG0003", "2021-00002", 1, 2024, "50.00", now)
		insertRow(t, store, "CTUG0004", "2021-00003", 1, 2024, "20.00", now)

		sum, err := agg.Report(context.Background(), repository.Filter{}, PeriodFilter{})
		if err != nil {
			t.Fatal(err)
		}

		if sum.StudentCount != 3 || sum.FullyPaidCount != 1 || sum.NotFullyPaidCount != 2 {
			t.Errorf("counts = %d/%d/%d, want 3/1/2", sum.StudentCount, sum.FullyPaidCount, sum.NotFullyPaidCount)
		}
		if !sum.PercentFullyPaid.Equal(dec("33.33")) {
			t.Errorf("percent fully paid = %s, want 33.33", sum.PercentFullyPaid.StringFixed(2))
		}
		if !sum.PercentNotFullyPaid.Equal(dec("66.67")) {
			t.Errorf("percent not fully paid = %s, want 66.67", sum.PercentNotFullyPaid.StringFixed(2))
		}
		if !sum.TotalReceived.Equal(dec("470.00")) {
			t.Errorf("total received = %s, want 470.00", sum.TotalReceived.StringFixed(2))
		}
		// 150 outstanding for the second student + 280 for the third
		if !sum.TotalOutstanding.Equal(dec("430.00")) {
			t.Errorf("total outstanding = %s, want 430.00", sum.TotalOutstanding.StringFixed(2))
		}
		if !sum.ExpectedTotal.Equal(dec("900.00")) {
			t.Errorf("expected total = %s, want 900.00", sum.ExpectedTotal.StringFixed(2))
		}
	})

	t.Run("date-only end bound covers the whole end day", func(t *testing.T) {
		agg, store := newTestAggregation(t)
		evening := time.Date(2025, 3, 15, 18, 30, 0, 0, time.Local)
		insertRow(t, store, "CTUG0001", testStudent, 1, 2024, "50.00", evening)

		rng := repository.Filter{
			From:  ParseDateBound("2025-03-15", false),
			Until: ParseDateBound("2025-03-15", true),
		}
		sum, err := agg.Report(context.Background(), rng, PeriodFilter{})
		if err != nil {
			t.Fatal(err)
		}
		if sum.StudentCount != 1 {
			t.Errorf("student_count = %d, want 1 (payment at 18:30 on the end day)", sum.StudentCount)
		}
	})

	t.Run("malformed date bound degrades to absent", func(t *testing.T) {
		if got := ParseDateBound("not-a-date", true); got != nil {
			t.Errorf("ParseDateBound = %v, want nil", got)
		}
		if got := ParseDateBound("", false); got != nil {
			t.Errorf("ParseDateBound(empty) = %v, want nil", got)
		}

		agg, store := newTestAggregation(t)
		insertRow(t, store, "CTUG0001", testStudent, 1, 2024, "50.00", time.Now())

		rng := repository.Filter{Until: ParseDateBound("junk", true)}
		sum, err := agg.Report(context.Background(), rng, PeriodFilter{})
		if err != nil {
			t.Fatal(err)
		}
		if sum.StudentCount != 1 {
			t.Errorf("student_count = %d, want 1 (bound dropped, not an error)", sum.StudentCount)
		}
	})
}
