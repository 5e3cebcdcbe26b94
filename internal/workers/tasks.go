// internal/workers/tasks.go
package workers

import (
	"encoding/json"
	"fmt"

	"github.com/google/uuid"
	"github.com/hibiken/asynq"
)

// Task type names routed through asynq
const (
	TypeExcelImport   = "import:excel"
	TypeInvoiceImport = "import:invoice_pdf"
	TypeExport        = "export:inventory"
	TypeCleanup       = "maintenance:cleanup"
	TypeExpiryNotify  = "notify:expiring"
)

// Queue names, matching the priorities configured on the worker server
const (
	QueueCritical = "critical"
	QueueDefault  = "default"
	QueueLow      = "low"
)

// ExcelImportPayload carries an uploaded stock file to the import worker
type ExcelImportPayload struct {
	JobID     uuid.UUID `json:"job_id"`
	ObjectKey string    `json:"object_key"`
	FileName  string    `json:"file_name"`
}

// InvoiceImportPayload carries an uploaded supplier invoice PDF
type InvoiceImportPayload struct {
	JobID     uuid.UUID `json:"job_id"`
	ObjectKey string    `json:"object_key"`
	FileName  string    `json:"file_name"`
	Supplier  string    `json:"supplier"`
}

// ExportPayload asks the export worker to build a file
type ExportPayload struct {
	JobID  uuid.UUID `json:"job_id"`
	Format string    `json:"format"` // xlsx, json
}

// CleanupPayload carries the retention window for maintenance runs
type CleanupPayload struct {
	RetentionDays int `json:"retention_days"`
}

// ExpiryNotifyPayload carries the lookahead window for expiry alerts
type ExpiryNotifyPayload struct {
	DaysAhead int `json:"days_ahead"`
}

// NewExcelImportTask creates an excel import task
func NewExcelImportTask(payload ExcelImportPayload) (*asynq.Task, error) {
	data, err := json.Marshal(payload)
	if err != nil {
		return nil, fmt.Errorf("failed to marshal excel import payload: %w", err)
	}
	return asynq.NewTask(TypeExcelImport, data, asynq.Queue(QueueDefault)), nil
}

// NewInvoiceImportTask creates a supplier invoice import task
func NewInvoiceImportTask(payload InvoiceImportPayload) (*asynq.Task, error) {
	data, err := json.Marshal(payload)
	if err != nil {
		return nil, fmt.Errorf("failed to marshal invoice import payload: %w", err)
	}
	return asynq.NewTask(TypeInvoiceImport, data, asynq.Queue(QueueDefault)), nil
}

// NewExportTask creates an inventory export task
func NewExportTask(payload ExportPayload) (*asynq.Task, error) {
	data, err := json.Marshal(payload)
	if err != nil {
		return nil, fmt.Errorf("failed to marshal export payload: %w", err)
	}
	return asynq.NewTask(TypeExport, data, asynq.Queue(QueueLow)), nil
}

// NewCleanupTask creates a maintenance task
func NewCleanupTask(payload CleanupPayload) (*asynq.Task, error) {
	data, err := json.Marshal(payload)
	if err != nil {
		return nil, fmt.Errorf("failed to marshal cleanup payload: %w", err)
	}
	return asynq.NewTask(TypeCleanup, data, asynq.Queue(QueueLow)), nil
}

// NewExpiryNotifyTask creates an expiry alert task
func NewExpiryNotifyTask(payload ExpiryNotifyPayload) (*asynq.Task, error) {
	data, err := json.Marshal(payload)
	if err != nil {
		return nil, fmt.Errorf("failed to marshal expiry notify payload: %w", err)
	}
	return asynq.NewTask(TypeExpiryNotify, data, asynq.Queue(QueueLow)), nil
}
