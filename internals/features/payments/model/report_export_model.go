// file: internals/features/payments/model/report_export_model.go
package model

import (
	"time"

	"github.com/google/uuid"
	"gorm.io/datatypes"
)

/* =========================
   Model: report_exports
   ========================= */

// ReportExportFilterSnapshot is what gets frozen into the JSONB column so a
// generated report can be traced back to the filters it was built with.
type ReportExportFilterSnapshot struct {
	Semester   *int    `json:"semester,omitempty"`
	SchoolYear *int    `json:"school_year,omitempty"`
	StartDate  *string `json:"start_date,omitempty"`
	EndDate    *string `json:"end_date,omitempty"`
}

// ReportExport logs every generated treasurer report.
type ReportExport struct {
	ReportExportID uuid.UUID `json:"report_export_id" gorm:"column:report_export_id;type:uuid;primaryKey;default:gen_random_uuid()"`

	ReportExportRequestedBy string `json:"report_export_requested_by" gorm:"column:report_export_requested_by;type:varchar(50);not null"`

	// "json" or "document"
	ReportExportFormat string `json:"report_export_format" gorm:"column:report_export_format;type:varchar(10);not null"`

	ReportExportFilterSnapshot datatypes.JSON `json:"report_export_filter_snapshot,omitempty" gorm:"column:report_export_filter_snapshot;type:jsonb"`

	ReportExportGeneratedAt time.Time `json:"report_export_generated_at" gorm:"column:report_export_generated_at;type:timestamptz;not null;default:now()"`
}

func (ReportExport) TableName() string {
	return "report_exports"
}
