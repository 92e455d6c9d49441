// file: internals/features/payments/model/payment_model.go
package model

import (
	"time"

	"github.com/shopspring/decimal"
)

/* =========================
   Model: student_payments
   ========================= */

// StudentPayment is one row of the payment ledger. Rows are immutable once
// recorded; the only mutation is a hard delete, which frees the receipt
// identifier for reuse.
type StudentPayment struct {
	PaymentReceiptID string `json:"payment_receipt_id" gorm:"column:payment_receipt_id;type:varchar(20);primaryKey"`

	// insertion-order tiebreaker for "recent" ordering; receipt ids are not
	// monotonic once the reuse pool kicks in
	PaymentRowID int64 `json:"-" gorm:"column:payment_row_id;autoIncrement;uniqueIndex"`

	PaymentStudentID string `json:"payment_student_id" gorm:"column:payment_student_id;type:varchar(20);not null;index:idx_payments_student_period,priority:1"`

	// period = (semester, school_year); always two fields, never a combined string
	PaymentSemester   int `json:"payment_semester"    gorm:"column:payment_semester;not null;index:idx_payments_student_period,priority:2"`
	PaymentSchoolYear int `json:"payment_school_year" gorm:"column:payment_school_year;not null;index:idx_payments_student_period,priority:3"`

	PaymentAmount decimal.Decimal `json:"payment_amount" gorm:"column:payment_amount;type:numeric(8,2);not null"`

	PaymentRecordedAt time.Time `json:"payment_recorded_at" gorm:"column:payment_recorded_at;type:timestamptz;not null;default:now();index"`

	// treasurer username; nil for legacy/self-service entries
	PaymentRecordedBy *string `json:"payment_recorded_by,omitempty" gorm:"column:payment_recorded_by;type:varchar(50)"`
}

func (StudentPayment) TableName() string {
	return "student_payments"
}
