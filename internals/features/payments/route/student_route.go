// file: internals/features/payments/route/student_route.go
package route

import (
	"github.com/gofiber/fiber/v2"

	paymentController "feetracker_backend/internals/features/payments/controller"
)

func StudentPaymentRoutes(r fiber.Router, ctl *paymentController.StudentPaymentController) {
	r.Get("/dashboard", ctl.Dashboard)
	r.Get("/balance", ctl.Balance)
	r.Get("/payments", ctl.History)
}
