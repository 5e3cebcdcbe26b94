// internal/adapters/db/import_job_repository.go
package db

import (
	"context"
	"errors"
	"fmt"
	"log/slog"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"

	"github.com/sehatindo/apotek-be/internal/core/domain"
	"github.com/sehatindo/apotek-be/internal/core/ports"
)

// ImportJobRepository persists background job state
type ImportJobRepository struct {
	db     *Database
	logger *slog.Logger
}

// NewImportJobRepository creates a new import job repository instance
func NewImportJobRepository(db *Database, logger *slog.Logger) *ImportJobRepository {
	return &ImportJobRepository{
		db:     db,
		logger: logger.With(slog.String("repository", "import_job")),
	}
}

// Create inserts a new pending job
func (r *ImportJobRepository) Create(ctx context.Context, job *domain.ImportJob) error {
	if job.ID == uuid.Nil {
		job.ID = uuid.New()
	}
	if job.Status == "" {
		job.Status = domain.JobStatusPending
	}

	_, err := r.db.Exec(ctx, `
		INSERT INTO import_jobs (id, job_type, status, file_name, object_key)
		VALUES ($1, $2, $3, $4, $5)`,
		job.ID, string(job.JobType), string(job.Status), job.FileName, job.ObjectKey)
	if err != nil {
		return fmt.Errorf("failed to insert import job: %w", err)
	}
	return nil
}

// FindByID retrieves a job, nil when absent
func (r *ImportJobRepository) FindByID(ctx context.Context, id uuid.UUID) (*domain.ImportJob, error) {
	var (
		job             domain.ImportJob
		jobType, status string
	)
	err := r.db.QueryRow(ctx, `
		SELECT id, job_type, status, file_name, object_key,
		       total_rows, merged_rows, inserted_rows, error_detail,
		       created_at, updated_at
		FROM import_jobs WHERE id = $1`, id).
		Scan(&job.ID, &jobType, &status, &job.FileName, &job.ObjectKey,
			&job.TotalRows, &job.MergedRows, &job.InsertedRows, &job.ErrorDetail,
			&job.CreatedAt, &job.UpdatedAt)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, nil
		}
		return nil, fmt.Errorf("failed to query import job: %w", err)
	}
	job.JobType = domain.JobType(jobType)
	job.Status = domain.JobStatus(status)
	return &job, nil
}

// MarkProcessing flips a job to processing
func (r *ImportJobRepository) MarkProcessing(ctx context.Context, id uuid.UUID) error {
	return r.setStatus(ctx, id,
		"UPDATE import_jobs SET status = 'processing', updated_at = now() WHERE id = $1")
}

// MarkCompleted records the outcome counters and completes the job
func (r *ImportJobRepository) MarkCompleted(ctx context.Context, id uuid.UUID, total, merged, inserted int) error {
	tag, err := r.db.Exec(ctx, `
		UPDATE import_jobs SET
			status = 'completed', total_rows = $2, merged_rows = $3,
			inserted_rows = $4, updated_at = now()
		WHERE id = $1`, id, total, merged, inserted)
	if err != nil {
		return fmt.Errorf("failed to complete import job: %w", err)
	}
	if tag.RowsAffected() == 0 {
		return fmt.Errorf("import job %s not found", id)
	}
	return nil
}

// MarkFailed records the failure detail
func (r *ImportJobRepository) MarkFailed(ctx context.Context, id uuid.UUID, detail string) error {
	tag, err := r.db.Exec(ctx, `
		UPDATE import_jobs SET status = 'failed', error_detail = $2, updated_at = now()
		WHERE id = $1`, id, detail)
	if err != nil {
		return fmt.Errorf("failed to mark import job failed: %w", err)
	}
	if tag.RowsAffected() == 0 {
		return fmt.Errorf("import job %s not found", id)
	}
	return nil
}

// SetObjectKey records where the job's file landed in object storage
func (r *ImportJobRepository) SetObjectKey(ctx context.Context, id uuid.UUID, objectKey string) error {
	tag, err := r.db.Exec(ctx, `
		UPDATE import_jobs SET object_key = $2, updated_at = now() WHERE id = $1`,
		id, objectKey)
	if err != nil {
		return fmt.Errorf("failed to set import job object key: %w", err)
	}
	if tag.RowsAffected() == 0 {
		return fmt.Errorf("import job %s not found", id)
	}
	return nil
}

// DeleteOlderThan removes finished jobs past the retention window
func (r *ImportJobRepository) DeleteOlderThan(ctx context.Context, days int) (int64, error) {
	tag, err := r.db.Exec(ctx, `
		DELETE FROM import_jobs
		WHERE status IN ('completed', 'failed')
		  AND updated_at < now() - make_interval(days => $1)`, days)
	if err != nil {
		return 0, fmt.Errorf("failed to prune import jobs: %w", err)
	}
	return tag.RowsAffected(), nil
}

func (r *ImportJobRepository) setStatus(ctx context.Context, id uuid.UUID, query string) error {
	tag, err := r.db.Exec(ctx, query, id)
	if err != nil {
		return fmt.Errorf("failed to update import job status: %w", err)
	}
	if tag.RowsAffected() == 0 {
		return fmt.Errorf("import job %s not found", id)
	}
	return nil
}

// Compile-time interface check
var _ ports.ImportJobRepository = (*ImportJobRepository)(nil)
