// file: internals/features/payments/controller/public_payment_controller.go
package controller

import (
	"github.com/go-playground/validator/v10"
	"github.com/gofiber/fiber/v2"

	"feetracker_backend/internals/features/payments/dto"
	"feetracker_backend/internals/features/payments/service"
	helper "feetracker_backend/internals/helpers"
)

// PublicPaymentController keeps the old unauthenticated intake endpoint
// alive for the legacy kiosk client. It funnels through the same
// LedgerService as the treasurer path, so the per-period ceiling is enforced
// here too — the old backend skipped the check on this route, which let
// kiosk submissions overshoot the fee.
type PublicPaymentController struct {
	Ledger    *service.LedgerService
	Validator *validator.Validate
}

func NewPublicPaymentController(ledger *service.LedgerService) *PublicPaymentController {
	return &PublicPaymentController{Ledger: ledger, Validator: validator.New()}
}

func (ctl *PublicPaymentController) SubmitPayment(c *fiber.Ctx) error {
	var req dto.SubmitPaymentRequest
	if err := c.BodyParser(&req); err != nil {
		return helper.Error(c, fiber.StatusBadRequest, err.Error())
	}
	if err := ctl.Validator.Struct(&req); err != nil {
		return helper.ValidationError(c, err)
	}

	// no actor on this path; recorded_by stays empty like the legacy rows
	payment, err := ctl.Ledger.SubmitPayment(c.UserContext(), req.ToInput(nil))
	if err != nil {
		return writeServiceError(c, err)
	}

	return helper.SuccessWithCode(c, fiber.StatusCreated, "Payment recorded successfully.", dto.FromModelPayment(payment))
}
