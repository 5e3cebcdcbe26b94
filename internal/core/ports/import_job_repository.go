// internal/core/ports/import_job_repository.go
package ports

import (
	"context"

	"github.com/google/uuid"

	"github.com/sehatindo/apotek-be/internal/core/domain"
)

// ImportJobRepository tracks background import and export runs
type ImportJobRepository interface {
	Create(ctx context.Context, job *domain.ImportJob) error
	FindByID(ctx context.Context, id uuid.UUID) (*domain.ImportJob, error)
	MarkProcessing(ctx context.Context, id uuid.UUID) error
	MarkCompleted(ctx context.Context, id uuid.UUID, total, merged, inserted int) error
	MarkFailed(ctx context.Context, id uuid.UUID, detail string) error
	SetObjectKey(ctx context.Context, id uuid.UUID, objectKey string) error
	DeleteOlderThan(ctx context.Context, days int) (int64, error)
}
