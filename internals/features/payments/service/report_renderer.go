// file: internals/features/payments/service/report_renderer.go
package service

import (
	"fmt"
	"strings"
)

// ReportRenderer turns a report summary into a downloadable document. The
// real PDF renderer lives with the frontend team; this service only needs
// the contract plus a plain-text fallback.
type ReportRenderer interface {
	Render(summary *ReportSummary, title string) (contentType string, body []byte, err error)
}

// TextReportRenderer renders the summary as a plain-text document.
type TextReportRenderer struct{}

var _ ReportRenderer = (*TextReportRenderer)(nil)

func (TextReportRenderer) Render(summary *ReportSummary, title string) (string, []byte, error) {
	var b strings.Builder

	fmt.Fprintf(&b, "%s\n%s\n\n", title, strings.Repeat("=", len(title)))

	fmt.Fprintf(&b, "Students:            %d\n", summary.StudentCount)
	fmt.Fprintf(&b, "Fully paid:          %d (%s%%)\n", summary.FullyPaidCount, summary.PercentFullyPaid.StringFixed(2))
	fmt.Fprintf(&b, "Not fully paid:      %d (%s%%)\n", summary.NotFullyPaidCount, summary.PercentNotFullyPaid.StringFixed(2))
	fmt.Fprintf(&b, "Total received:      P%s\n", summary.TotalReceived.StringFixed(2))
	fmt.Fprintf(&b, "Total outstanding:   P%s\n", summary.TotalOutstanding.StringFixed(2))
	fmt.Fprintf(&b, "Expected total:      P%s\n\n", summary.ExpectedTotal.StringFixed(2))

	b.WriteString("Payment Details\n")
	b.WriteString("Student ID          Payment Date          Amount Paid\n")
	for _, p := range summary.Payments {
		fmt.Fprintf(&b, "%-20s%-22sP%s\n",
			p.PaymentStudentID,
			p.PaymentRecordedAt.Format("2006-01-02 15:04"),
			p.PaymentAmount.StringFixed(2),
		)
	}

	return "text/plain; charset=utf-8", []byte(b.String()), nil
}
