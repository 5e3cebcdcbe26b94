// internal/core/domain/import_job.go
package domain

import (
	"time"

	"github.com/google/uuid"
)

// JobType identifies what a background job does
type JobType string

const (
	JobTypeExcel      JobType = "excel"
	JobTypeInvoicePDF JobType = "invoice_pdf"
	JobTypeExport     JobType = "export"
)

// JobStatus tracks a background job through its lifecycle
type JobStatus string

const (
	JobStatusPending    JobStatus = "pending"
	JobStatusProcessing JobStatus = "processing"
	JobStatusCompleted  JobStatus = "completed"
	JobStatusFailed     JobStatus = "failed"
)

// ImportJob records one background import or export run
type ImportJob struct {
	ID           uuid.UUID `json:"id"`
	JobType      JobType   `json:"job_type"`
	Status       JobStatus `json:"status"`
	FileName     string    `json:"file_name"`
	ObjectKey    string    `json:"object_key,omitempty"`
	TotalRows    int       `json:"total_rows"`
	MergedRows   int       `json:"merged_rows"`
	InsertedRows int       `json:"inserted_rows"`
	ErrorDetail  string    `json:"error_detail,omitempty"`
	CreatedAt    time.Time `json:"created_at"`
	UpdatedAt    time.Time `json:"updated_at"`
}
