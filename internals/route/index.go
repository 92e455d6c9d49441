// file: internals/route/index.go
package routes

import (
	"context"
	"log"
	"time"

	"github.com/gofiber/fiber/v2"
	"gorm.io/gorm"

	"feetracker_backend/internals/configs"
	paymentController "feetracker_backend/internals/features/payments/controller"
	"feetracker_backend/internals/features/payments/repository"
	paymentRoute "feetracker_backend/internals/features/payments/route"
	paymentScheduler "feetracker_backend/internals/features/payments/scheduler"
	"feetracker_backend/internals/features/payments/service"
	authMiddleware "feetracker_backend/internals/middlewares/auth"
)

// SetupRoutes builds the payment core and mounts every route group. The
// receipt allocator derives its watermark from the store here; a store
// failure aborts startup rather than risking duplicate identifiers.
func SetupRoutes(app *fiber.App, db *gorm.DB) {
	store := repository.NewGormLedgerStore(db)
	students := repository.NewGormStudentDirectory(db)
	exports := repository.NewGormReportExportLog(db)

	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	allocator, err := service.NewReceiptAllocator(ctx, store, configs.ReceiptPrefix, configs.ReceiptFloor)
	if err != nil {
		log.Fatalf("❌ Receipt allocator init failed: %v", err)
	}

	ledger := service.NewLedgerService(store, students, allocator, configs.PeriodFee)
	aggregate := service.NewAggregationService(store, students, configs.PeriodFee)
	renderer := service.TextReportRenderer{}

	log.Println("[INFO] Starting watermark audit scheduler...")
	paymentScheduler.StartWatermarkAuditScheduler(store, allocator, configs.ReceiptPrefix)

	// ===================== GROUPS =====================

	log.Println("[INFO] Setting up PUBLIC group...")
	public := app.Group("/api/public")

	log.Println("[INFO] Setting up TREASURER group (Auth + RoleCheck)...")
	treasurer := app.Group("/api/t",
		authMiddleware.AuthMiddleware(),
		authMiddleware.RequireRoles("treasurer"),
	)

	log.Println("[INFO] Setting up STUDENT group (Auth + RoleCheck)...")
	student := app.Group("/api/s",
		authMiddleware.AuthMiddleware(),
		authMiddleware.RequireRoles("student"),
	)

	// ===================== MOUNT ROUTES =====================

	log.Println("[INFO] Mounting Payment routes...")
	paymentRoute.PublicPaymentRoutes(public, paymentController.NewPublicPaymentController(ledger))
	paymentRoute.TreasurerPaymentRoutes(treasurer, paymentController.NewTreasurerPaymentController(ledger, aggregate, students, renderer, exports))
	paymentRoute.StudentPaymentRoutes(student, paymentController.NewStudentPaymentController(aggregate, students))
}
