package database

import (
	"log"
	"os"

	paymentModel "feetracker_backend/internals/features/payments/model"
	studentModel "feetracker_backend/internals/features/students/model"
)

// MigrateDB applies the schema for the tables this service owns. Opt-in via
// DB_AUTO_MIGRATE so production deploys keep using the managed migration
// pipeline.
func MigrateDB() {
	if os.Getenv("DB_AUTO_MIGRATE") != "true" {
		return
	}
	log.Println("🛠 Running auto-migration...")
	err := DB.AutoMigrate(
		&studentModel.StudentRecord{},
		&paymentModel.StudentPayment{},
		&paymentModel.ReportExport{},
	)
	if err != nil {
		log.Fatalf("❌ Auto-migration failed: %v", err)
	}
	log.Println("✅ Auto-migration done.")
}
