// internal/workers/export_processor.go
package workers

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"log/slog"
	"time"

	"github.com/hibiken/asynq"
	"github.com/tealeg/xlsx/v3"

	"github.com/sehatindo/apotek-be/internal/adapters/storage"
	"github.com/sehatindo/apotek-be/internal/core/domain"
	"github.com/sehatindo/apotek-be/internal/core/ports"
)

const exportPageSize = 500

var exportHeaders = []string{
	"Item Name", "Batch Number", "Item Type", "Category", "Unit",
	"Quantity", "Purchase Price", "Selling Price RJ", "Selling Price RI",
	"Supplier", "Input Date", "Expired Date",
}

// ExportProcessor builds inventory export files in the background and
// stores them for presigned download
type ExportProcessor struct {
	inventory ports.InventoryRepository
	jobs      ports.ImportJobRepository
	storage   storage.StorageClient
	logger    *slog.Logger
}

// NewExportProcessor creates a new export processor instance
func NewExportProcessor(
	inventory ports.InventoryRepository,
	jobs ports.ImportJobRepository,
	storageClient storage.StorageClient,
	logger *slog.Logger,
) *ExportProcessor {
	return &ExportProcessor{
		inventory: inventory,
		jobs:      jobs,
		storage:   storageClient,
		logger:    logger.With(slog.String("worker", "export")),
	}
}

// ProcessTask handles one export task
func (p *ExportProcessor) ProcessTask(ctx context.Context, task *asynq.Task) error {
	var payload ExportPayload
	if err := json.Unmarshal(task.Payload(), &payload); err != nil {
		return fmt.Errorf("failed to unmarshal export payload: %v: %w", err, asynq.SkipRetry)
	}

	p.logger.InfoContext(ctx, "building inventory export",
		slog.String("job_id", payload.JobID.String()),
		slog.String("format", payload.Format))

	if err := p.jobs.MarkProcessing(ctx, payload.JobID); err != nil {
		return err
	}

	items, err := p.collect(ctx)
	if err != nil {
		_ = p.jobs.MarkFailed(ctx, payload.JobID, err.Error())
		return fmt.Errorf("failed to collect inventory: %w", err)
	}

	var (
		buf         bytes.Buffer
		contentType string
		ext         string
	)
	switch payload.Format {
	case "json":
		contentType, ext = "application/json", "json"
		err = json.NewEncoder(&buf).Encode(items)
	default:
		contentType, ext = "application/vnd.openxmlformats-officedocument.spreadsheetml.sheet", "xlsx"
		err = writeWorkbook(&buf, items)
	}
	if err != nil {
		_ = p.jobs.MarkFailed(ctx, payload.JobID, err.Error())
		return fmt.Errorf("failed to build export file: %v: %w", err, asynq.SkipRetry)
	}

	key := fmt.Sprintf("exports/inventory-%s-%s.%s",
		time.Now().UTC().Format("20060102-150405"), payload.JobID, ext)
	if _, err := p.storage.Upload(ctx, key, &buf, contentType); err != nil {
		_ = p.jobs.MarkFailed(ctx, payload.JobID, err.Error())
		return fmt.Errorf("failed to upload export: %w", err)
	}

	if err := p.jobs.SetObjectKey(ctx, payload.JobID, key); err != nil {
		return err
	}
	if err := p.jobs.MarkCompleted(ctx, payload.JobID, len(items), 0, 0); err != nil {
		return err
	}

	p.logger.InfoContext(ctx, "inventory export ready",
		slog.String("job_id", payload.JobID.String()),
		slog.String("object_key", key),
		slog.Int("rows", len(items)))
	return nil
}

// collect pages through the full live inventory
func (p *ExportProcessor) collect(ctx context.Context) ([]*domain.InventoryItem, error) {
	var all []*domain.InventoryItem
	for page := 1; ; page++ {
		items, total, err := p.inventory.FindAll(ctx, ports.InventoryListParams{
			SortBy:   "item_name",
			Page:     page,
			PageSize: exportPageSize,
		})
		if err != nil {
			return nil, err
		}
		all = append(all, items...)
		if int64(len(all)) >= total || len(items) == 0 {
			return all, nil
		}
	}
}

// writeWorkbook renders the items as a single-sheet workbook
func writeWorkbook(buf *bytes.Buffer, items []*domain.InventoryItem) error {
	file := xlsx.NewFile()
	sheet, err := file.AddSheet("Inventory")
	if err != nil {
		return fmt.Errorf("failed to add sheet: %w", err)
	}

	header := sheet.AddRow()
	for _, h := range exportHeaders {
		header.AddCell().SetString(h)
	}

	for _, item := range items {
		row := sheet.AddRow()
		row.AddCell().SetString(item.ItemName)
		row.AddCell().SetString(item.BatchNumber)
		row.AddCell().SetString(string(item.ItemType))
		row.AddCell().SetString(string(item.Category))
		row.AddCell().SetString(item.Unit)
		row.AddCell().SetInt(item.Quantity)
		row.AddCell().SetString(item.PurchasePrice.String())
		row.AddCell().SetString(item.SellingPriceRJ.String())
		row.AddCell().SetString(item.SellingPriceRI.String())
		row.AddCell().SetString(item.Supplier)
		row.AddCell().SetString(item.InputDate.Format("2006-01-02"))
		row.AddCell().SetString(item.ExpiredDate.Format("2006-01-02"))
	}

	if err := file.Write(buf); err != nil {
		return fmt.Errorf("failed to write workbook: %w", err)
	}
	return nil
}
