// file: internals/features/payments/route/treasurer_route.go
package route

import (
	"github.com/gofiber/fiber/v2"

	paymentController "feetracker_backend/internals/features/payments/controller"
)

func TreasurerPaymentRoutes(r fiber.Router, ctl *paymentController.TreasurerPaymentController) {
	payments := r.Group("/payments")
	{
		payments.Post("/", ctl.SubmitPayment)
		payments.Delete("/:receipt_id", ctl.DeletePayment)
	}

	r.Get("/dashboard", ctl.Dashboard)
	r.Get("/balance", ctl.Balance)
	r.Get("/report", ctl.Report)
}
