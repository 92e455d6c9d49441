// file: internals/features/payments/route/public_route.go
package route

import (
	"github.com/gofiber/fiber/v2"

	paymentController "feetracker_backend/internals/features/payments/controller"
	"feetracker_backend/internals/middlewares"
)

func PublicPaymentRoutes(r fiber.Router, ctl *paymentController.PublicPaymentController) {
	r.Post("/payments", middlewares.PublicPaymentRateLimiter(), ctl.SubmitPayment)
}
