// file: internals/features/payments/controller/student_payment_controller.go
package controller

import (
	"sort"

	"github.com/gofiber/fiber/v2"
	"github.com/shopspring/decimal"

	"feetracker_backend/internals/features/payments/dto"
	"feetracker_backend/internals/features/payments/repository"
	"feetracker_backend/internals/features/payments/service"
	helper "feetracker_backend/internals/helpers"
)

const studentRecentLimit = 5

type StudentPaymentController struct {
	Aggregate *service.AggregationService
	Students  repository.StudentDirectory
}

func NewStudentPaymentController(agg *service.AggregationService, students repository.StudentDirectory) *StudentPaymentController {
	return &StudentPaymentController{Aggregate: agg, Students: students}
}

// ========== Dashboard ==========
// Per-period paid/left/progress summaries plus the student's most recent
// payments. Balances here clamp at zero: students never see overpayment
// amounts.
func (ctl *StudentPaymentController) Dashboard(c *fiber.Ctx) error {
	studentID, _ := c.Locals("student_id").(string)
	if studentID == "" {
		return helper.Error(c, fiber.StatusUnauthorized, "Authentication failed.")
	}

	payments, err := ctl.Aggregate.StudentPayments(c.UserContext(), studentID, service.PeriodFilter{}, 0)
	if err != nil {
		return writeServiceError(c, err)
	}

	fee := ctl.Aggregate.PeriodFee()
	totalPaid := decimal.Zero

	type periodKey struct{ semester, schoolYear int }
	perPeriod := make(map[periodKey]decimal.Decimal)
	for i := range payments {
		p := &payments[i]
		totalPaid = totalPaid.Add(p.PaymentAmount)
		k := periodKey{p.PaymentSemester, p.PaymentSchoolYear}
		perPeriod[k] = perPeriod[k].Add(p.PaymentAmount)
	}

	keys := make([]periodKey, 0, len(perPeriod))
	for k := range perPeriod {
		keys = append(keys, k)
	}
	sort.Slice(keys, func(i, j int) bool {
		if keys[i].schoolYear != keys[j].schoolYear {
			return keys[i].schoolYear > keys[j].schoolYear
		}
		return keys[i].semester > keys[j].semester
	})

	allPayments := make([]dto.StudentPeriodSummary, 0, len(keys))
	for _, k := range keys {
		paid := perPeriod[k]
		balance := fee.Sub(paid)
		if balance.IsNegative() {
			balance = decimal.Zero
		}
		progress, _ := paid.DivRound(fee, 2).Float64()
		status := "Unpaid"
		switch {
		case progress >= 1:
			status = "Fully Paid"
		case paid.IsPositive():
			status = "On Progress"
		}
		allPayments = append(allPayments, dto.StudentPeriodSummary{
			SemesterAndSchoolYear: dto.PeriodLabel(k.semester, k.schoolYear),
			AmountPaid:            "Paid: " + helper.FormatPeso(paid),
			Balance:               "Left: " + helper.FormatPeso(balance),
			Progress:              progress,
			PaymentStatus:         status,
		})
	}

	recent := payments
	if len(recent) > studentRecentLimit {
		recent = recent[:studentRecentLimit]
	}

	fullName, _ := ctl.Students.FullName(c.UserContext(), studentID)
	resp := dto.StudentDashboardResponse{
		Student: map[string]string{
			"student_id": studentID,
			"full_name":  fullName,
			"total_paid": helper.FormatPeso(totalPaid),
		},
		AllPayments:    allPayments,
		RecentPayments: dto.FromModelPayments(recent),
	}
	resp.DataHash = helper.DataHash(resp)

	return c.Status(fiber.StatusOK).JSON(resp)
}

// ========== Balance ==========
func (ctl *StudentPaymentController) Balance(c *fiber.Ctx) error {
	studentID, _ := c.Locals("student_id").(string)
	if studentID == "" {
		return helper.Error(c, fiber.StatusUnauthorized, "Authentication failed.")
	}

	view, err := ctl.Aggregate.Balance(c.UserContext(), studentID, parsePeriodQuery(c), true)
	if err != nil {
		return writeServiceError(c, err)
	}

	return helper.Success(c, "Balance computed.", fiber.Map{
		"student_id": studentID,
		"total_paid": view.TotalPaid.StringFixed(2),
		"balance":    view.Balance.StringFixed(2),
	})
}

// ========== History ==========
func (ctl *StudentPaymentController) History(c *fiber.Ctx) error {
	studentID, _ := c.Locals("student_id").(string)
	if studentID == "" {
		return helper.Error(c, fiber.StatusUnauthorized, "Authentication failed.")
	}

	payments, err := ctl.Aggregate.StudentPayments(c.UserContext(), studentID, parsePeriodQuery(c), 0)
	if err != nil {
		return writeServiceError(c, err)
	}

	list := dto.FromModelPayments(payments)
	resp := fiber.Map{"payments": list}
	if len(list) == 0 {
		resp["data_hash"] = nil
	} else {
		resp["data_hash"] = helper.DataHash(fiber.Map{"payments": list})
	}

	return c.Status(fiber.StatusOK).JSON(resp)
}
