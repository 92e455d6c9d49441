// file: internals/features/payments/controller/errors.go
package controller

import (
	"errors"
	"log"

	"github.com/gofiber/fiber/v2"

	"feetracker_backend/internals/features/payments/service"
	helper "feetracker_backend/internals/helpers"
)

// writeServiceError maps the service error taxonomy onto the JSON envelope.
// Every ledger error becomes a caller-visible outcome; nothing crashes the
// request pipeline.
func writeServiceError(c *fiber.Ctx, err error) error {
	var ve *service.ValidationError
	if errors.As(err, &ve) {
		return helper.Error(c, fiber.StatusBadRequest, ve.Error())
	}

	var ce *service.CeilingExceededError
	if errors.As(err, &ce) {
		return helper.ErrorWithDetails(c, fiber.StatusUnprocessableEntity,
			"Payment exceeds the remaining balance for this period.",
			fiber.Map{"balance": helper.FormatPeso(ce.Balance)},
		)
	}

	switch {
	case errors.Is(err, service.ErrStudentNotFound):
		return helper.Error(c, fiber.StatusNotFound, "Student ID not found.")
	case errors.Is(err, service.ErrPaymentNotFound):
		return helper.Error(c, fiber.StatusNotFound, "Receipt not found.")
	case errors.Is(err, service.ErrDuplicateReceipt):
		log.Printf("[ERROR] duplicate receipt surfaced to request: %v", err)
		return helper.Error(c, fiber.StatusInternalServerError, "Receipt numbering conflict. Please report this.")
	case errors.Is(err, service.ErrStoreUnavailable):
		return helper.Error(c, fiber.StatusServiceUnavailable, "Ledger store unavailable.")
	default:
		log.Printf("[ERROR] ledger request failed: %v", err)
		return helper.Error(c, fiber.StatusInternalServerError, "Internal server error.")
	}
}
