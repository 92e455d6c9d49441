package configs

import (
	"log"
	"os"
	"strconv"

	"github.com/joho/godotenv"
	"github.com/shopspring/decimal"
)

var (
	JWTSecret string

	// PeriodFee is the fixed amount every student owes per (semester, school year).
	PeriodFee decimal.Decimal

	// ReceiptPrefix + zero-padded sequence make up every receipt identifier.
	ReceiptPrefix string

	// ReceiptFloor is the watermark used when the ledger is empty; the first
	// issued identifier is ReceiptFloor+1.
	ReceiptFloor int64
)

// =======================
// ENV LOADER
// =======================
func LoadEnv() {
	if os.Getenv("RAILWAY_ENVIRONMENT") == "" {
		if err := godotenv.Load(); err != nil {
			log.Println("⚠️ No .env file found, using system ENV")
		} else {
			log.Println("✅ .env file loaded!")
		}
	} else {
		log.Println("🚀 Running in Railway, using system ENV")
	}

	JWTSecret = GetEnv("JWT_SECRET")
	if JWTSecret == "" {
		log.Println("❌ JWT_SECRET is not set!")
	} else {
		log.Println("✅ JWT_SECRET loaded.")
	}

	fee, err := decimal.NewFromString(GetEnv("PERIOD_FEE", "300.00"))
	if err != nil || !fee.IsPositive() {
		log.Println("❌ PERIOD_FEE invalid, falling back to 300.00")
		fee = decimal.RequireFromString("300.00")
	}
	PeriodFee = fee

	ReceiptPrefix = GetEnv("RECEIPT_PREFIX", "CTUG")

	ReceiptFloor = 0
	if v := GetEnv("RECEIPT_FLOOR"); v != "" {
		if parsed, err := strconv.ParseInt(v, 10, 64); err == nil && parsed >= 0 {
			ReceiptFloor = parsed
		} else {
			log.Println("❌ RECEIPT_FLOOR invalid, falling back to 0")
		}
	}

	log.Printf("✅ Fee config: fee=%s prefix=%s floor=%d", PeriodFee.StringFixed(2), ReceiptPrefix, ReceiptFloor)
}

func GetEnv(key string, defaultValue ...string) string {
	value, exists := os.LookupEnv(key)
	if !exists && len(defaultValue) > 0 {
		return defaultValue[0]
	}
	return value
}
