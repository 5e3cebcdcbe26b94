// internal/handlers/export.go
package handlers

import (
	"fmt"
	"log/slog"
	"net/http"
	"time"

	"github.com/google/uuid"
	"github.com/hibiken/asynq"

	"github.com/sehatindo/apotek-be/internal/adapters/storage"
	"github.com/sehatindo/apotek-be/internal/core/domain"
	"github.com/sehatindo/apotek-be/internal/core/ports"
	"github.com/sehatindo/apotek-be/internal/workers"
)

const downloadURLTTL = 15 * time.Minute

// ExportHandler enqueues inventory exports and serves download links
type ExportHandler struct {
	jobs        ports.ImportJobRepository
	storage     storage.StorageClient
	asynqClient *asynq.Client
	logger      *slog.Logger
}

// NewExportHandler creates a new export handler
func NewExportHandler(
	jobs ports.ImportJobRepository,
	storageClient storage.StorageClient,
	asynqClient *asynq.Client,
	logger *slog.Logger,
) *ExportHandler {
	return &ExportHandler{
		jobs:        jobs,
		storage:     storageClient,
		asynqClient: asynqClient,
		logger:      logger.With(slog.String("handler", "export")),
	}
}

// Start handles POST /api/v1/export/{format} where format is xlsx or json
func (h *ExportHandler) Start(w http.ResponseWriter, r *http.Request) {
	format := r.PathValue("format")
	if format != "xlsx" && format != "json" {
		respondError(w, h.logger, fmt.Errorf("%w: format must be xlsx or json", domain.ErrValidation))
		return
	}

	job := &domain.ImportJob{
		ID:       uuid.New(),
		JobType:  domain.JobTypeExport,
		FileName: "inventory." + format,
	}
	if err := h.jobs.Create(r.Context(), job); err != nil {
		respondError(w, h.logger, err)
		return
	}

	task, err := workers.NewExportTask(workers.ExportPayload{
		JobID:  job.ID,
		Format: format,
	})
	if err != nil {
		respondError(w, h.logger, err)
		return
	}
	if _, err := h.asynqClient.EnqueueContext(r.Context(), task); err != nil {
		respondError(w, h.logger, fmt.Errorf("failed to enqueue export: %w", err))
		return
	}

	respondJSON(w, http.StatusAccepted, job)
}

// Download handles GET /api/v1/export/download/{id}; completed jobs get
// a short-lived presigned URL
func (h *ExportHandler) Download(w http.ResponseWriter, r *http.Request) {
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
	if job.Status != domain.JobStatusCompleted || job.ObjectKey == "" {
		respondJSON(w, http.StatusOK, map[string]interface{}{
			"status": job.Status,
		})
		return
	}

	url, err := h.storage.GetPresignedURL(r.Context(), job.ObjectKey, downloadURLTTL)
	if err != nil {
		respondError(w, h.logger, fmt.Errorf("failed to presign download: %w", err))
		return
	}
	respondJSON(w, http.StatusOK, map[string]interface{}{
		"status":       job.Status,
		"download_url": url,
		"expires_in":   downloadURLTTL.String(),
	})
}
