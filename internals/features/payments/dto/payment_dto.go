// file: internals/features/payments/dto/payment_dto.go
package dto

import (
	"fmt"
	"time"

	"github.com/shopspring/decimal"

	"feetracker_backend/internals/features/payments/model"
	"feetracker_backend/internals/features/payments/service"
	helper "feetracker_backend/internals/helpers"
)

/* =========================================================
   REQUEST: Submit payment
   ========================================================= */

type SubmitPaymentRequest struct {
	PaymentStudentID  string          `json:"payment_student_id"  validate:"required,max=20"`
	PaymentSemester   int             `json:"payment_semester"    validate:"required,oneof=1 2"`
	PaymentSchoolYear int             `json:"payment_school_year" validate:"required,min=2000,max=2100"`
	PaymentAmount     decimal.Decimal `json:"payment_amount"      validate:"required"`
}

func (r *SubmitPaymentRequest) ToInput(recordedBy *string) service.SubmitPaymentInput {
	return service.SubmitPaymentInput{
		StudentID:  r.PaymentStudentID,
		Semester:   r.PaymentSemester,
		SchoolYear: r.PaymentSchoolYear,
		Amount:     r.PaymentAmount,
		RecordedBy: recordedBy,
	}
}

/* =========================================================
   RESPONSE: single payment
   ========================================================= */

type PaymentResponse struct {
	PaymentReceiptID  string  `json:"payment_receipt_id"`
	PaymentStudentID  string  `json:"payment_student_id"`
	PaymentSemester   int     `json:"payment_semester"`
	PaymentSchoolYear int     `json:"payment_school_year"`
	PaymentAmount     string  `json:"payment_amount"`
	PaymentRecordedAt string  `json:"payment_recorded_at"`
	PaymentRecordedBy *string `json:"payment_recorded_by,omitempty"`

	// display strings the old clients render verbatim
	PaymentAmountStr     string `json:"payment_amount_str"`
	PaymentRecordedAtStr string `json:"payment_recorded_at_str"`
	PaymentPeriodStr     string `json:"payment_period_str"`
}

func FromModelPayment(p *model.StudentPayment) PaymentResponse {
	return PaymentResponse{
		PaymentReceiptID:     p.PaymentReceiptID,
		PaymentStudentID:     p.PaymentStudentID,
		PaymentSemester:      p.PaymentSemester,
		PaymentSchoolYear:    p.PaymentSchoolYear,
		PaymentAmount:        p.PaymentAmount.StringFixed(2),
		PaymentRecordedAt:    p.PaymentRecordedAt.Format(time.RFC3339),
		PaymentRecordedBy:    p.PaymentRecordedBy,
		PaymentAmountStr:     helper.FormatPeso(p.PaymentAmount),
		PaymentRecordedAtStr: helper.FormatPaymentDate(p.PaymentRecordedAt),
		PaymentPeriodStr:     PeriodLabel(p.PaymentSemester, p.PaymentSchoolYear),
	}
}

func FromModelPayments(ps []model.StudentPayment) []PaymentResponse {
	out := make([]PaymentResponse, 0, len(ps))
	for i := range ps {
		out = append(out, FromModelPayment(&ps[i]))
	}
	return out
}

// PeriodLabel renders "(1st|2nd) Semester YYYY-YYYY+1".
func PeriodLabel(semester, schoolYear int) string {
	label := "1st Semester"
	if semester == 2 {
		label = "2nd Semester"
	}
	return fmt.Sprintf("%s %d-%d", label, schoolYear, schoolYear+1)
}

/* =========================================================
   RESPONSE: treasurer dashboard / balance
   ========================================================= */

type TreasurerDashboardResponse struct {
	Username       string            `json:"username"`
	Role           string            `json:"role"`
	TotalPaid      string            `json:"total_paid"`
	RecentPayments []PaymentResponse `json:"recent_payments"`
	DataHash       string            `json:"data_hash"`
}

type BalanceResponse struct {
	StudentID string `json:"student_id"`
	FullName  string `json:"full_name"`
	TotalPaid string `json:"total_paid"`
	Balance   string `json:"balance"`
}

/* =========================================================
   RESPONSE: report summary
   ========================================================= */

type ReportStudentLine struct {
	StudentID string `json:"student_id"`
	TotalPaid string `json:"total_paid"`
	Balance   string `json:"balance"`
	FullyPaid bool   `json:"fully_paid"`
}

type ReportSummaryResponse struct {
	StudentCount        int    `json:"student_count"`
	FullyPaidCount      int    `json:"fully_paid_count"`
	NotFullyPaidCount   int    `json:"not_fully_paid_count"`
	PercentFullyPaid    string `json:"percent_fully_paid"`
	PercentNotFullyPaid string `json:"percent_not_fully_paid"`
	TotalReceived       string `json:"total_received"`
	TotalOutstanding    string `json:"total_outstanding"`
	ExpectedTotal       string `json:"expected_total"`

	Students []ReportStudentLine `json:"students"`
	Payments []PaymentResponse   `json:"payments"`
}

func FromReportSummary(sum *service.ReportSummary) ReportSummaryResponse {
	resp := ReportSummaryResponse{
		StudentCount:        sum.StudentCount,
		FullyPaidCount:      sum.FullyPaidCount,
		NotFullyPaidCount:   sum.NotFullyPaidCount,
		PercentFullyPaid:    sum.PercentFullyPaid.StringFixed(2),
		PercentNotFullyPaid: sum.PercentNotFullyPaid.StringFixed(2),
		TotalReceived:       sum.TotalReceived.StringFixed(2),
		TotalOutstanding:    sum.TotalOutstanding.StringFixed(2),
		ExpectedTotal:       sum.ExpectedTotal.StringFixed(2),
		Students:            make([]ReportStudentLine, 0, len(sum.Students)),
		Payments:            FromModelPayments(sum.Payments),
	}
	for _, line := range sum.Students {
		resp.Students = append(resp.Students, ReportStudentLine{
			StudentID: line.StudentID,
			TotalPaid: line.TotalPaid.StringFixed(2),
			Balance:   line.Balance.StringFixed(2),
			FullyPaid: line.FullyPaid,
		})
	}
	return resp
}

/* =========================================================
   RESPONSE: student dashboard
   ========================================================= */

type StudentPeriodSummary struct {
	SemesterAndSchoolYear string  `json:"semester_and_school_year"`
	AmountPaid            string  `json:"amount_paid"`
	Balance               string  `json:"balance"`
	Progress              float64 `json:"progress"`
	PaymentStatus         string  `json:"payment_status"`
}

type StudentDashboardResponse struct {
	Student        map[string]string      `json:"student"`
	AllPayments    []StudentPeriodSummary `json:"all_payments"`
	RecentPayments []PaymentResponse      `json:"recent_payments"`
	DataHash       string                 `json:"data_hash"`
}
