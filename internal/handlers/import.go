// internal/handlers/import.go
package handlers

import (
	"fmt"
	"log/slog"
	"net/http"
	"path/filepath"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/hibiken/asynq"

	"github.com/sehatindo/apotek-be/internal/adapters/storage"
	"github.com/sehatindo/apotek-be/internal/core/domain"
	"github.com/sehatindo/apotek-be/internal/core/ports"
	"github.com/sehatindo/apotek-be/internal/workers"
)

// ImportHandler accepts stock files and supplier invoices, stores them
// and enqueues background processing
type ImportHandler struct {
	jobs        ports.ImportJobRepository
	storage     storage.StorageClient
	asynqClient *asynq.Client
	maxSizeMB   int
	logger      *slog.Logger
}

// NewImportHandler creates a new import handler
func NewImportHandler(
	jobs ports.ImportJobRepository,
	storageClient storage.StorageClient,
	asynqClient *asynq.Client,
	maxSizeMB int,
	logger *slog.Logger,
) *ImportHandler {
	if maxSizeMB <= 0 {
		maxSizeMB = 50
	}
	return &ImportHandler{
		jobs:        jobs,
		storage:     storageClient,
		asynqClient: asynqClient,
		maxSizeMB:   maxSizeMB,
		logger:      logger.With(slog.String("handler", "import")),
	}
}

// ImportExcel handles POST /api/v1/import/excel (multipart, field "file")
func (h *ImportHandler) ImportExcel(w http.ResponseWriter, r *http.Request) {
	jobID, fileName, objectKey, err := h.receiveFile(r, "imports/excel", ".xlsx", ".xls")
	if err != nil {
		respondError(w, h.logger, err)
		return
	}

	job := &domain.ImportJob{
		ID:        jobID,
		JobType:   domain.JobTypeExcel,
		FileName:  fileName,
		ObjectKey: objectKey,
	}
	if err := h.jobs.Create(r.Context(), job); err != nil {
		respondError(w, h.logger, err)
		return
	}

	task, err := workers.NewExcelImportTask(workers.ExcelImportPayload{
		JobID:     jobID,
		ObjectKey: objectKey,
		FileName:  fileName,
	})
	if err != nil {
		respondError(w, h.logger, err)
		return
	}
	if _, err := h.asynqClient.EnqueueContext(r.Context(), task); err != nil {
		respondError(w, h.logger, fmt.Errorf("failed to enqueue import: %w", err))
		return
	}

	respondJSON(w, http.StatusAccepted, job)
}

// ImportInvoicePDF handles POST /api/v1/import/invoice-pdf
func (h *ImportHandler) ImportInvoicePDF(w http.ResponseWriter, r *http.Request) {
	supplier := strings.TrimSpace(r.URL.Query().Get("supplier"))
	if supplier == "" {
		respondError(w, h.logger, fmt.Errorf("%w: supplier is required", domain.ErrValidation))
		return
	}

	jobID, fileName, objectKey, err := h.receiveFile(r, "imports/invoices", ".pdf")
	if err != nil {
		respondError(w, h.logger, err)
		return
	}

	job := &domain.ImportJob{
		ID:        jobID,
		JobType:   domain.JobTypeInvoicePDF,
		FileName:  fileName,
		ObjectKey: objectKey,
	}
	if err := h.jobs.Create(r.Context(), job); err != nil {
		respondError(w, h.logger, err)
		return
	}

	task, err := workers.NewInvoiceImportTask(workers.InvoiceImportPayload{
		JobID:     jobID,
		ObjectKey: objectKey,
		FileName:  fileName,
		Supplier:  supplier,
	})
	if err != nil {
		respondError(w, h.logger, err)
		return
	}
	if _, err := h.asynqClient.EnqueueContext(r.Context(), task); err != nil {
		respondError(w, h.logger, fmt.Errorf("failed to enqueue import: %w", err))
		return
	}

	respondJSON(w, http.StatusAccepted, job)
}

// Status handles GET /api/v1/import/status/{id}
func (h *ImportHandler) Status(w http.ResponseWriter, r *http.Request) {
	id, err := uuid.Parse(r.PathValue("id"))
	if err != nil {
		respondError(w, h.logger, fmt.Errorf("%w: invalid job id", domain.ErrValidation))
		return
	}

	job, err := h.jobs.FindByID(r.Context(), id)
	if err != nil {
		respondError(w, h.logger, err)
		return
	}
	if job == nil {
		respondError(w, h.logger, fmt.Errorf("%w: job %s", domain.ErrItemNotFound, id))
		return
	}
	respondJSON(w, http.StatusOK, job)
}

// receiveFile validates the multipart upload and stores it under the
// given prefix
func (h *ImportHandler) receiveFile(r *http.Request, prefix string, allowedExts ...string) (uuid.UUID, string, string, error) {
	maxBytes := int64(h.maxSizeMB) << 20
	r.Body = http.MaxBytesReader(nil, r.Body, maxBytes)

	if err := r.ParseMultipartForm(maxBytes); err != nil {
		return uuid.Nil, "", "", fmt.Errorf("%w: file exceeds %dMB or form is malformed", domain.ErrValidation, h.maxSizeMB)
	}

	file, header, err := r.FormFile("file")
	if err != nil {
		return uuid.Nil, "", "", fmt.Errorf("%w: missing \"file\" form field", domain.ErrValidation)
	}
	defer file.Close()

	ext := strings.ToLower(filepath.Ext(header.Filename))
	allowed := false
	for _, e := range allowedExts {
		if ext == e {
			allowed = true
			break
		}
	}
	if !allowed {
		return uuid.Nil, "", "", fmt.Errorf("%w: unsupported file type %q", domain.ErrValidation, ext)
	}

	jobID := uuid.New()
	objectKey := fmt.Sprintf("%s/%s-%s%s",
		prefix, time.Now().UTC().Format("20060102-150405"), jobID, ext)

	if _, err := h.storage.Upload(r.Context(), objectKey, file, header.Header.Get("Content-Type")); err != nil {
		return uuid.Nil, "", "", fmt.Errorf("failed to store upload: %w", err)
	}
	return jobID, header.Filename, objectKey, nil
}
