// file: internals/features/payments/service/aggregation_service.go
package service

import (
	"context"
	"sort"
	"time"

	"github.com/shopspring/decimal"

	"feetracker_backend/internals/features/payments/model"
	"feetracker_backend/internals/features/payments/repository"
)

/* =========================
   Aggregation engine (read-only)
   ========================= */

var oneHundred = decimal.NewFromInt(100)

// PeriodFilter narrows aggregates to one payment cycle. Nil fields match
// everything.
type PeriodFilter struct {
	Semester   *int
	SchoolYear *int
}

// DashboardView is the filtered total plus the most recent payments. The
// recent list deliberately ignores the period filter.
type DashboardView struct {
	TotalPaid decimal.Decimal
	Recent    []model.StudentPayment
}

// BalanceView pairs a student's paid total with the remaining balance.
// Balance may be negative when clamping is off (treasurer view shows
// overpayment; the student view floors at zero).
type BalanceView struct {
	TotalPaid decimal.Decimal
	Balance   decimal.Decimal
}

// StudentReportLine is one student's totals inside a report.
type StudentReportLine struct {
	StudentID string
	TotalPaid decimal.Decimal
	Balance   decimal.Decimal // max(fee - total, 0)
	FullyPaid bool
}

// ReportSummary is the treasurer report: per-student classification plus the
// money totals the document renderer prints.
type ReportSummary struct {
	StudentCount      int
	FullyPaidCount    int
	NotFullyPaidCount int

	// percentages with two decimals; 0 when no students match
	PercentFullyPaid    decimal.Decimal
	PercentNotFullyPaid decimal.Decimal

	TotalReceived    decimal.Decimal
	TotalOutstanding decimal.Decimal
	ExpectedTotal    decimal.Decimal // fee * student count

	Students []StudentReportLine
	Payments []model.StudentPayment
}

// AggregationService computes dashboards, balances and reports over the
// ledger. It never mutates; reads may interleave with writers and only need
// the usual relational read consistency.
type AggregationService struct {
	store    repository.LedgerStore
	students repository.StudentDirectory
	fee      decimal.Decimal
}

func NewAggregationService(store repository.LedgerStore, students repository.StudentDirectory, fee decimal.Decimal) *AggregationService {
	return &AggregationService{store: store, students: students, fee: fee}
}

func (s *AggregationService) PeriodFee() decimal.Decimal { return s.fee }

// Dashboard returns the total over the period filter plus the recentLimit
// most recently recorded payments across all periods.
func (s *AggregationService) Dashboard(ctx context.Context, period PeriodFilter, recentLimit int) (*DashboardView, error) {
	total, err := s.store.SumAmount(ctx, periodToFilter(period))
	if err != nil {
		return nil, err
	}
	recent, err := s.store.Query(ctx, repository.Filter{}, repository.OrderRecentFirst, recentLimit)
	if err != nil {
		return nil, err
	}
	return &DashboardView{TotalPaid: total, Recent: recent}, nil
}

// Balance computes one student's paid total and remaining balance. clampZero
// selects the student-facing floor policy.
func (s *AggregationService) Balance(ctx context.Context, studentID string, period PeriodFilter, clampZero bool) (*BalanceView, error) {
	exists, err := s.students.Exists(ctx, studentID)
	if err != nil {
		return nil, err
	}
	if !exists {
		return nil, ErrStudentNotFound
	}

	f := periodToFilter(period)
	f.StudentID = &studentID
	total, err := s.store.SumAmount(ctx, f)
	if err != nil {
		return nil, err
	}

	balance := s.fee.Sub(total)
	if clampZero && balance.IsNegative() {
		balance = decimal.Zero
	}
	return &BalanceView{TotalPaid: total, Balance: balance}, nil
}

// StudentPayments lists one student's payments, most recent first.
func (s *AggregationService) StudentPayments(ctx context.Context, studentID string, period PeriodFilter, limit int) ([]model.StudentPayment, error) {
	f := periodToFilter(period)
	f.StudentID = &studentID
	return s.store.Query(ctx, f, repository.OrderRecentFirst, limit)
}

// LatestReceipts lists the highest currently-issued receipt identifiers.
func (s *AggregationService) LatestReceipts(ctx context.Context, limit int) ([]model.StudentPayment, error) {
	return s.store.Query(ctx, repository.Filter{}, repository.OrderReceiptDesc, limit)
}

// Report groups the matching ledger rows by student and classifies each as
// fully paid or not. An empty match yields zero percentages, never a
// division error.
func (s *AggregationService) Report(ctx context.Context, dateRange repository.Filter, period PeriodFilter) (*ReportSummary, error) {
	f := repository.Filter{
		Semester:   period.Semester,
		SchoolYear: period.SchoolYear,
		From:       dateRange.From,
		Until:      dateRange.Until,
	}

	perStudent, err := s.store.SumByStudent(ctx, f)
	if err != nil {
		return nil, err
	}
	payments, err := s.store.Query(ctx, f, repository.OrderRecentFirst, 0)
	if err != nil {
		return nil, err
	}

	summary := &ReportSummary{
		PercentFullyPaid:    decimal.Zero,
		PercentNotFullyPaid: decimal.Zero,
		TotalReceived:       decimal.Zero,
		TotalOutstanding:    decimal.Zero,
		ExpectedTotal:       decimal.Zero,
		Payments:            payments,
	}

	ids := make([]string, 0, len(perStudent))
	for id := range perStudent {
		ids = append(ids, id)
	}
	sort.Strings(ids)

	for _, id := range ids {
		total := perStudent[id]
		line := StudentReportLine{
			StudentID: id,
			TotalPaid: total,
			FullyPaid: total.GreaterThanOrEqual(s.fee),
		}
		if line.FullyPaid {
			summary.FullyPaidCount++
		} else {
			summary.NotFullyPaidCount++
			line.Balance = s.fee.Sub(total)
			summary.TotalOutstanding = summary.TotalOutstanding.Add(line.Balance)
		}
		summary.TotalReceived = summary.TotalReceived.Add(total)
		summary.Students = append(summary.Students, line)
	}

	summary.StudentCount = len(ids)
	if summary.StudentCount > 0 {
		count := decimal.NewFromInt(int64(summary.StudentCount))
		summary.PercentFullyPaid = decimal.NewFromInt(int64(summary.FullyPaidCount)).Mul(oneHundred).DivRound(count, 2)
		summary.PercentNotFullyPaid = decimal.NewFromInt(int64(summary.NotFullyPaidCount)).Mul(oneHundred).DivRound(count, 2)
		summary.ExpectedTotal = s.fee.Mul(count)
	}

	return summary, nil
}

// ParseDateBound turns a query value into a range bound. A date-only end
// bound covers the whole end day by pointing at the start of the next one.
// Malformed input degrades to an absent bound instead of failing the report.
func ParseDateBound(value string, end bool) *time.Time {
	if value == "" {
		return nil
	}
	t, err := time.ParseInLocation("2006-01-02", value, time.Local)
	if err != nil {
		if t, err = time.Parse(time.RFC3339, value); err != nil {
			return nil
		}
		return &t
	}
	if end {
		t = t.AddDate(0, 0, 1)
	}
	return &t
}

func periodToFilter(p PeriodFilter) repository.Filter {
	return repository.Filter{Semester: p.Semester, SchoolYear: p.SchoolYear}
}
