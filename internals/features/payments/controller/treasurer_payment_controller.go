// file: internals/features/payments/controller/treasurer_payment_controller.go
package controller

import (
	"context"
	"encoding/json"
	"fmt"
	"log"
	"strconv"
	"strings"

	"github.com/go-playground/validator/v10"
	"github.com/gofiber/fiber/v2"
	"gorm.io/datatypes"

	"feetracker_backend/internals/features/payments/dto"
	"feetracker_backend/internals/features/payments/model"
	"feetracker_backend/internals/features/payments/repository"
	"feetracker_backend/internals/features/payments/service"
	helper "feetracker_backend/internals/helpers"
)

const treasurerRecentLimit = 7

type TreasurerPaymentController struct {
	Ledger    *service.LedgerService
	Aggregate *service.AggregationService
	Students  repository.StudentDirectory
	Renderer  service.ReportRenderer
	Exports   repository.ReportExportLog
	Validator *validator.Validate
}

func NewTreasurerPaymentController(ledger *service.LedgerService, agg *service.AggregationService, students repository.StudentDirectory, renderer service.ReportRenderer, exports repository.ReportExportLog) *TreasurerPaymentController {
	return &TreasurerPaymentController{
		Ledger:    ledger,
		Aggregate: agg,
		Students:  students,
		Renderer:  renderer,
		Exports:   exports,
		Validator: validator.New(),
	}
}

// ========== Submit ==========
func (ctl *TreasurerPaymentController) SubmitPayment(c *fiber.Ctx) error {
	var req dto.SubmitPaymentRequest
	if err := c.BodyParser(&req); err != nil {
		return helper.Error(c, fiber.StatusBadRequest, err.Error())
	}
	if err := ctl.Validator.Struct(&req); err != nil {
		return helper.ValidationError(c, err)
	}

	username, _ := c.Locals("username").(string)
	var recordedBy *string
	if username != "" {
		recordedBy = &username
	}

	payment, err := ctl.Ledger.SubmitPayment(c.UserContext(), req.ToInput(recordedBy))
	if err != nil {
		return writeServiceError(c, err)
	}

	return helper.SuccessWithCode(c, fiber.StatusCreated, "Payment recorded successfully.", dto.FromModelPayment(payment))
}

// ========== Delete ==========
func (ctl *TreasurerPaymentController) DeletePayment(c *fiber.Ctx) error {
	receiptID := strings.TrimSpace(c.Params("receipt_id"))
	if receiptID == "" {
		return helper.Error(c, fiber.StatusBadRequest, "receipt_id is required")
	}

	if err := ctl.Ledger.DeletePayment(c.UserContext(), receiptID); err != nil {
		return writeServiceError(c, err)
	}

	return helper.Success(c, "Payment deleted successfully.", fiber.Map{"receipt_id": receiptID})
}

// ========== Dashboard ==========
func (ctl *TreasurerPaymentController) Dashboard(c *fiber.Ctx) error {
	period := parsePeriodQuery(c)

	view, err := ctl.Aggregate.Dashboard(c.UserContext(), period, treasurerRecentLimit)
	if err != nil {
		return writeServiceError(c, err)
	}

	username, _ := c.Locals("username").(string)
	resp := dto.TreasurerDashboardResponse{
		Username:       username,
		Role:           "SSG Treasurer",
		TotalPaid:      helper.FormatPeso(view.TotalPaid),
		RecentPayments: dto.FromModelPayments(view.Recent),
	}
	resp.DataHash = helper.DataHash(resp)

	return c.Status(fiber.StatusOK).JSON(resp)
}

// ========== Balance ==========
// With student_id: that student's total and (unclamped) balance — treasurers
// see overpayments as negative numbers. Without: the latest issued receipts.
func (ctl *TreasurerPaymentController) Balance(c *fiber.Ctx) error {
	studentID := strings.TrimSpace(c.Query("student_id"))
	period := parsePeriodQuery(c)

	var list []dto.BalanceResponse

	if studentID != "" {
		view, err := ctl.Aggregate.Balance(c.UserContext(), studentID, period, false)
		if err != nil {
			return writeServiceError(c, err)
		}
		fullName, err := ctl.Students.FullName(c.UserContext(), studentID)
		if err != nil {
			return writeServiceError(c, err)
		}
		list = append(list, dto.BalanceResponse{
			StudentID: studentID,
			FullName:  fullName,
			TotalPaid: helper.FormatPeso(view.TotalPaid),
			Balance:   helper.FormatPeso(view.Balance),
		})
	} else {
		latest, err := ctl.Aggregate.LatestReceipts(c.UserContext(), 10)
		if err != nil {
			return writeServiceError(c, err)
		}
		fee := ctl.Aggregate.PeriodFee()
		for i := range latest {
			p := &latest[i]
			fullName, err := ctl.Students.FullName(c.UserContext(), p.PaymentStudentID)
			if err != nil || fullName == "" {
				fullName = "N/A"
			}
			list = append(list, dto.BalanceResponse{
				StudentID: p.PaymentStudentID,
				FullName:  fullName,
				TotalPaid: helper.FormatPeso(p.PaymentAmount),
				Balance:   helper.FormatPeso(fee.Sub(p.PaymentAmount)),
			})
		}
	}

	resp := fiber.Map{"data": list, "data_hash": helper.DataHash(list)}
	return c.Status(fiber.StatusOK).JSON(resp)
}

// ========== Report ==========
func (ctl *TreasurerPaymentController) Report(c *fiber.Ctx) error {
	period := parsePeriodQuery(c)

	startRaw := strings.TrimSpace(c.Query("start_date"))
	endRaw := strings.TrimSpace(c.Query("end_date"))
	dateRange := repository.Filter{
		From:  service.ParseDateBound(startRaw, false),
		Until: service.ParseDateBound(endRaw, true),
	}

	format := strings.ToLower(c.Query("format", "json"))
	if format != "json" && format != "document" {
		return helper.Error(c, fiber.StatusBadRequest, "format must be json or document")
	}

	summary, err := ctl.Aggregate.Report(c.UserContext(), dateRange, period)
	if err != nil {
		return writeServiceError(c, err)
	}

	username, _ := c.Locals("username").(string)
	ctl.logReportExport(c.UserContext(), username, format, period, startRaw, endRaw)

	if format == "document" {
		title := fmt.Sprintf("Treasurer Report — generated for %s", username)
		contentType, body, err := ctl.Renderer.Render(summary, title)
		if err != nil {
			log.Printf("[ERROR] report render failed: %v", err)
			return helper.Error(c, fiber.StatusInternalServerError, "Report rendering failed.")
		}
		c.Set(fiber.HeaderContentType, contentType)
		c.Set(fiber.HeaderContentDisposition, `attachment; filename="treasurer_report.txt"`)
		return c.Status(fiber.StatusOK).Send(body)
	}

	return helper.Success(c, "Report generated.", dto.FromReportSummary(summary))
}

func (ctl *TreasurerPaymentController) logReportExport(ctx context.Context, username, format string, period service.PeriodFilter, startRaw, endRaw string) {
	if ctl.Exports == nil {
		return
	}
	snapshot := model.ReportExportFilterSnapshot{
		Semester:   period.Semester,
		SchoolYear: period.SchoolYear,
	}
	if startRaw != "" {
		snapshot.StartDate = &startRaw
	}
	if endRaw != "" {
		snapshot.EndDate = &endRaw
	}

	export := model.ReportExport{
		ReportExportRequestedBy: username,
		ReportExportFormat:      format,
	}
	if b, err := json.Marshal(snapshot); err == nil {
		export.ReportExportFilterSnapshot = datatypes.JSON(b)
	}

	if err := ctl.Exports.Append(ctx, &export); err != nil {
		// the trail is best effort; the report itself already succeeded
		log.Printf("[ERROR] report export log failed: %v", err)
	}
}

// parsePeriodQuery reads the optional semester/school_year query params.
// Values that do not parse are ignored, matching how the old API treated
// junk filters.
func parsePeriodQuery(c *fiber.Ctx) service.PeriodFilter {
	var period service.PeriodFilter
	if v := c.Query("semester"); v != "" {
		if n, err := strconv.Atoi(v); err == nil && (n == 1 || n == 2) {
			period.Semester = &n
		}
	}
	if v := c.Query("school_year"); v != "" {
		if n, err := strconv.Atoi(v); err == nil {
			period.SchoolYear = &n
		}
	}
	return period
}
