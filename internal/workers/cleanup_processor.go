// internal/workers/cleanup_processor.go
package workers

import (
	"context"
	"encoding/json"
	"fmt"
	"log/slog"
	"strings"

	"github.com/google/uuid"
	"github.com/hibiken/asynq"

	"github.com/sehatindo/apotek-be/internal/adapters/storage"
	"github.com/sehatindo/apotek-be/internal/core/ports"
)

const defaultRetentionDays = 30

// CleanupProcessor prunes finished job records and their stored files
type CleanupProcessor struct {
	jobs    ports.ImportJobRepository
	storage storage.StorageClient
	logger  *slog.Logger
}

// NewCleanupProcessor creates a new cleanup processor instance
func NewCleanupProcessor(
	jobs ports.ImportJobRepository,
	storageClient storage.StorageClient,
	logger *slog.Logger,
) *CleanupProcessor {
	return &CleanupProcessor{
		jobs:    jobs,
		storage: storageClient,
		logger:  logger.With(slog.String("worker", "cleanup")),
	}
}

// ProcessTask handles one maintenance run
func (p *CleanupProcessor) ProcessTask(ctx context.Context, task *asynq.Task) error {
	var payload CleanupPayload
	if err := json.Unmarshal(task.Payload(), &payload); err != nil {
		return fmt.Errorf("failed to unmarshal cleanup payload: %v: %w", err, asynq.SkipRetry)
	}
	if payload.RetentionDays <= 0 {
		payload.RetentionDays = defaultRetentionDays
	}

	pruned, err := p.jobs.DeleteOlderThan(ctx, payload.RetentionDays)
	if err != nil {
		return fmt.Errorf("failed to prune job records: %w", err)
	}

	// Exports past retention are re-creatable, so deletion failures only log
	keys, err := p.storage.List(ctx, "exports/")
	if err != nil {
		p.logger.WarnContext(ctx, "failed to list export files",
			slog.String("error", err.Error()))
	} else if len(keys) > 0 {
		var orphaned []string
		for _, key := range keys {
			exists, err := p.exportStillReferenced(ctx, key)
			if err != nil || exists {
				continue
			}
			orphaned = append(orphaned, key)
		}
		if err := p.storage.DeleteMultiple(ctx, orphaned); err != nil {
			p.logger.WarnContext(ctx, "failed to delete stale exports",
				slog.Int("count", len(orphaned)),
				slog.String("error", err.Error()))
		}
	}

	p.logger.InfoContext(ctx, "cleanup complete",
		slog.Int64("jobs_pruned", pruned),
		slog.Int("retention_days", payload.RetentionDays))
	return nil
}

// exportStillReferenced reports whether any live job row still points at
// the stored file
func (p *CleanupProcessor) exportStillReferenced(ctx context.Context, key string) (bool, error) {
	// Job ids are embedded in export keys; a pruned record means the
	// file is orphaned. The repository lookup keeps this decision in
	// one place.
	id, ok := jobIDFromExportKey(key)
	if !ok {
		return true, nil
	}
	job, err := p.jobs.FindByID(ctx, id)
	if err != nil {
		return true, err
	}
	return job != nil, nil
}

// jobIDFromExportKey recovers the job id embedded in an export key,
// e.g. exports/inventory-20250114-093000-<uuid>.xlsx
func jobIDFromExportKey(key string) (uuid.UUID, bool) {
	base := key
	if i := strings.LastIndex(base, "/"); i >= 0 {
		base = base[i+1:]
	}
	if i := strings.LastIndex(base, "."); i >= 0 {
		base = base[:i]
	}
	if len(base) < 36 {
		return uuid.Nil, false
	}
	id, err := uuid.Parse(base[len(base)-36:])
	if err != nil {
		return uuid.Nil, false
	}
	return id, true
}
