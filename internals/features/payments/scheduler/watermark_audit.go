// file: internals/features/payments/scheduler/watermark_audit.go
package scheduler

import (
	"context"
	"log"
	"strconv"
	"strings"
	"time"

	"github.com/robfig/cron/v3"

	"feetracker_backend/internals/features/payments/repository"
	"feetracker_backend/internals/features/payments/service"
)

// StartWatermarkAuditScheduler re-derives the highest persisted receipt
// number every night and compares it with the in-memory watermark. The two
// can only drift if someone wrote to the ledger behind the service's back,
// which is exactly the state that would make the allocator issue duplicates
// after the fact.
func StartWatermarkAuditScheduler(store repository.LedgerStore, allocator *service.ReceiptAllocator, prefix string) *cron.Cron {
	c := cron.New(cron.WithChain(cron.SkipIfStillRunning(cron.DefaultLogger)))

	_, err := c.AddFunc("0 3 * * *", func() {
		ctx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
		defer cancel()

		maxID, err := store.MaxIdentifier(ctx, prefix)
		if err != nil {
			log.Printf("[AUDIT ERROR] watermark check failed: %v", err)
			return
		}

		persisted := int64(0)
		if maxID != "" {
			n, err := strconv.ParseInt(strings.TrimPrefix(maxID, prefix), 10, 64)
			if err != nil {
				log.Printf("[AUDIT ERROR] corrupt receipt id %q in ledger", maxID)
				return
			}
			persisted = n
		}

		watermark := allocator.Watermark()
		if persisted > watermark {
			log.Printf("[AUDIT ERROR] persisted max %d is ahead of allocator watermark %d — ledger was written to externally, restart required", persisted, watermark)
			return
		}
		log.Printf("[AUDIT] receipt watermark ok: allocator=%d persisted=%d", watermark, persisted)
	})
	if err != nil {
		log.Printf("[AUDIT ERROR] could not schedule watermark audit: %v", err)
		return c
	}

	c.Start()
	return c
}
