// file: internals/features/payments/service/ledger_service.go
package service

import (
	"context"
	"log"
	"time"

	"github.com/shopspring/decimal"

	"feetracker_backend/internals/features/payments/model"
	"feetracker_backend/internals/features/payments/repository"
)

/* =========================
   Ledger service (admission control + submit/delete)
   ========================= */

// SubmitPaymentInput is one payment request. RecordedBy is nil for the
// legacy self-service path.
type SubmitPaymentInput struct {
	StudentID  string
	Semester   int
	SchoolYear int
	Amount     decimal.Decimal
	RecordedBy *string
}

// LedgerService owns the write path of the ledger. Every entry point —
// treasurer or legacy — goes through the same admission check; the
// check-allocate-insert sequence runs inside the allocator's exclusive
// section so two racing submissions can never jointly exceed the fee.
type LedgerService struct {
	store     repository.LedgerStore
	students  repository.StudentDirectory
	allocator *ReceiptAllocator
	fee       decimal.Decimal
	now       func() time.Time
}

func NewLedgerService(store repository.LedgerStore, students repository.StudentDirectory, allocator *ReceiptAllocator, fee decimal.Decimal) *LedgerService {
	return &LedgerService{
		store:     store,
		students:  students,
		allocator: allocator,
		fee:       fee,
		now:       time.Now,
	}
}

func (s *LedgerService) PeriodFee() decimal.Decimal { return s.fee }

// SubmitPayment validates, admits, allocates a receipt identifier and
// persists the payment. On rejection no identifier is consumed and nothing
// is written.
func (s *LedgerService) SubmitPayment(ctx context.Context, in SubmitPaymentInput) (*model.StudentPayment, error) {
	if err := validateSubmit(in); err != nil {
		return nil, err
	}

	exists, err := s.students.Exists(ctx, in.StudentID)
	if err != nil {
		return nil, err
	}
	if !exists {
		return nil, ErrStudentNotFound
	}

	s.allocator.lock()
	defer s.allocator.unlock()

	totalSoFar, err := s.store.SumAmount(ctx, repository.Filter{
		StudentID:  &in.StudentID,
		Semester:   &in.Semester,
		SchoolYear: &in.SchoolYear,
	})
	if err != nil {
		return nil, err
	}

	if totalSoFar.Add(in.Amount).GreaterThan(s.fee) {
		return nil, &CeilingExceededError{Balance: s.fee.Sub(totalSoFar)}
	}

	receiptID := s.allocator.allocateLocked()
	payment := &model.StudentPayment{
		PaymentReceiptID:  receiptID,
		PaymentStudentID:  in.StudentID,
		PaymentSemester:   in.Semester,
		PaymentSchoolYear: in.SchoolYear,
		PaymentAmount:     in.Amount,
		PaymentRecordedAt: s.now(),
		PaymentRecordedBy: in.RecordedBy,
	}

	if err := s.store.Insert(ctx, payment); err != nil {
		if err == repository.ErrDuplicateKey {
			// unreachable with correct allocator discipline; the id is left
			// out of the pool because some persisted row is using it
			log.Printf("[ERROR] duplicate receipt id %s issued by allocator — investigate ledger state", receiptID)
			return nil, ErrDuplicateReceipt
		}
		// insert failed for store reasons: the id was never persisted, so
		// hand it back before growing the sequence further
		s.allocator.reclaimLocked(receiptID)
		return nil, err
	}

	return payment, nil
}

// DeletePayment removes a ledger row and returns its identifier to the reuse
// pool. Delete and reclaim happen inside one exclusive section, so a racing
// allocation can never see the identifier as both in use and available.
func (s *LedgerService) DeletePayment(ctx context.Context, receiptID string) error {
	s.allocator.lock()
	defer s.allocator.unlock()

	count, err := s.store.Delete(ctx, receiptID)
	if err != nil {
		return err
	}
	if count == 0 {
		return ErrPaymentNotFound
	}
	s.allocator.reclaimLocked(receiptID)
	return nil
}

func validateSubmit(in SubmitPaymentInput) error {
	if in.StudentID == "" {
		return &ValidationError{Field: "student_id", Reason: "required"}
	}
	if in.Semester != 1 && in.Semester != 2 {
		return &ValidationError{Field: "semester", Reason: "must be 1 or 2"}
	}
	if in.SchoolYear < 2000 || in.SchoolYear > 2100 {
		return &ValidationError{Field: "school_year", Reason: "out of range"}
	}
	if !in.Amount.IsPositive() {
		return &ValidationError{Field: "amount", Reason: "must be greater than zero"}
	}
	if in.Amount.Exponent() < -2 {
		return &ValidationError{Field: "amount", Reason: "at most two decimal places"}
	}
	return nil
}
