// file: internals/features/payments/repository/report_export_log.go
package repository

import (
	"context"
	"sync"

	"gorm.io/gorm"

	"feetracker_backend/internals/features/payments/model"
)

// ReportExportLog records one row per generated treasurer report. The trail
// is best effort: callers log append failures and still serve the report.
type ReportExportLog interface {
	Append(ctx context.Context, export *model.ReportExport) error
}

/* ===== GORM-backed log ===== */

type GormReportExportLog struct {
	DB *gorm.DB
}

func NewGormReportExportLog(db *gorm.DB) *GormReportExportLog {
	return &GormReportExportLog{DB: db}
}

func (l *GormReportExportLog) Append(ctx context.Context, export *model.ReportExport) error {
	return l.DB.WithContext(ctx).Create(export).Error
}

/* ===== In-memory log ===== */

type MemoryReportExportLog struct {
	mu   sync.Mutex
	rows []model.ReportExport
}

func NewMemoryReportExportLog() *MemoryReportExportLog {
	return &MemoryReportExportLog{}
}

func (l *MemoryReportExportLog) Append(_ context.Context, export *model.ReportExport) error {
	l.mu.Lock()
	defer l.mu.Unlock()
	l.rows = append(l.rows, *export)
	return nil
}

// Rows returns a copy of everything appended so far.
func (l *MemoryReportExportLog) Rows() []model.ReportExport {
	l.mu.Lock()
	defer l.mu.Unlock()
	out := make([]model.ReportExport, len(l.rows))
	copy(out, l.rows)
	return out
}
