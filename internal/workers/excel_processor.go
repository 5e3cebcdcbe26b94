// internal/workers/excel_processor.go
package workers

import (
	"context"
	"encoding/json"
	"fmt"
	"log/slog"
	"strconv"
	"strings"
	"time"

	"github.com/hibiken/asynq"
	"github.com/shopspring/decimal"
	"github.com/tealeg/xlsx/v3"

	"github.com/sehatindo/apotek-be/internal/adapters/storage"
	"github.com/sehatindo/apotek-be/internal/core/domain"
	"github.com/sehatindo/apotek-be/internal/core/ports"
)

// Column headers accepted in uploaded stock files. Matching is
// case-insensitive and ignores surrounding whitespace.
var excelColumns = map[string]string{
	"nama obat":        "item_name",
	"item name":        "item_name",
	"no batch":         "batch_number",
	"batch number":     "batch_number",
	"jenis":            "item_type",
	"item type":        "item_type",
	"kategori":         "category",
	"category":         "category",
	"satuan":           "unit",
	"unit":             "unit",
	"jumlah":           "quantity",
	"quantity":         "quantity",
	"harga beli":       "purchase_price",
	"purchase price":   "purchase_price",
	"harga jual rj":    "selling_price_rj",
	"selling price rj": "selling_price_rj",
	"harga jual ri":    "selling_price_ri",
	"selling price ri": "selling_price_ri",
	"supplier":         "supplier",
	"tanggal ed":       "expired_date",
	"expired date":     "expired_date",
}

var expiredDateLayouts = []string{
	"2006-01-02", "02/01/2006", "02-01-2006", "2006-01-02 15:04:05",
}

// ExcelProcessor parses uploaded stock files and merges them into
// inventory through the bulk upsert path
type ExcelProcessor struct {
	inventory ports.InventoryService
	jobs      ports.ImportJobRepository
	storage   storage.StorageClient
	logger    *slog.Logger
}

// NewExcelProcessor creates a new excel processor instance
func NewExcelProcessor(
	inventory ports.InventoryService,
	jobs ports.ImportJobRepository,
	storageClient storage.StorageClient,
	logger *slog.Logger,
) *ExcelProcessor {
	return &ExcelProcessor{
		inventory: inventory,
		jobs:      jobs,
		storage:   storageClient,
		logger:    logger.With(slog.String("worker", "excel_import")),
	}
}

// ProcessTask handles one excel import task end to end
func (p *ExcelProcessor) ProcessTask(ctx context.Context, task *asynq.Task) error {
	var payload ExcelImportPayload
	if err := json.Unmarshal(task.Payload(), &payload); err != nil {
		return fmt.Errorf("failed to unmarshal excel import payload: %v: %w", err, asynq.SkipRetry)
	}

	p.logger.InfoContext(ctx, "processing excel import",
		slog.String("job_id", payload.JobID.String()),
		slog.String("file_name", payload.FileName))

	if err := p.jobs.MarkProcessing(ctx, payload.JobID); err != nil {
		return err
	}

	items, err := p.parse(ctx, payload.ObjectKey)
	if err != nil {
		_ = p.jobs.MarkFailed(ctx, payload.JobID, err.Error())
		return fmt.Errorf("excel parse failed: %v: %w", err, asynq.SkipRetry)
	}

	result, err := p.inventory.BulkUpsert(ctx, items)
	if err != nil {
		_ = p.jobs.MarkFailed(ctx, payload.JobID, err.Error())
		return fmt.Errorf("bulk upsert failed: %w", err)
	}

	if err := p.jobs.MarkCompleted(ctx, payload.JobID,
		result.Total, result.Merged, result.Inserted); err != nil {
		return err
	}

	p.logger.InfoContext(ctx, "excel import complete",
		slog.String("job_id", payload.JobID.String()),
		slog.Int("merged", result.Merged),
		slog.Int("inserted", result.Inserted))
	return nil
}

// parse downloads the file and converts rows into inventory candidates
func (p *ExcelProcessor) parse(ctx context.Context, objectKey string) ([]domain.InventoryItem, error) {
	data, err := p.storage.Download(ctx, objectKey)
	if err != nil {
		return nil, fmt.Errorf("failed to download %s: %w", objectKey, err)
	}

	file, err := xlsx.OpenBinary(data)
	if err != nil {
		return nil, fmt.Errorf("failed to open workbook: %w", err)
	}
	if len(file.Sheets) == 0 {
		return nil, fmt.Errorf("workbook has no sheets")
	}

	sheet := file.Sheets[0]
	defer sheet.Close()

	var (
		columns map[int]string
		items   []domain.InventoryItem
		rowNo   int
		rowErr  error
	)

	err = sheet.ForEachRow(func(row *xlsx.Row) error {
		rowNo++
		if rowNo == 1 {
			columns = mapHeaderRow(row)
			if len(columns) == 0 {
				rowErr = fmt.Errorf("first row has no recognizable headers")
				return rowErr
			}
			return nil
		}

		item, ok, err := parseItemRow(row, columns)
		if err != nil {
			rowErr = fmt.Errorf("row %d: %w", rowNo, err)
			return rowErr
		}
		if ok {
			items = append(items, item)
		}
		return nil
	})
	if rowErr != nil {
		return nil, rowErr
	}
	if err != nil {
		return nil, fmt.Errorf("failed to read sheet: %w", err)
	}
	return items, nil
}

// maxScanColumns bounds the header scan on the first row
const maxScanColumns = 24

// cellString reads a trimmed cell value, empty for missing cells
func cellString(row *xlsx.Row, i int) string {
	cell := row.GetCell(i)
	if cell == nil {
		return ""
	}
	return strings.TrimSpace(cell.String())
}

// mapHeaderRow resolves which column index carries which field
func mapHeaderRow(row *xlsx.Row) map[int]string {
	columns := make(map[int]string)
	for i := 0; i < maxScanColumns; i++ {
		header := strings.ToLower(cellString(row, i))
		if field, ok := excelColumns[header]; ok {
			columns[i] = field
		}
	}
	return columns
}

// parseItemRow converts one data row; the second return is false for
// blank rows
func parseItemRow(row *xlsx.Row, columns map[int]string) (domain.InventoryItem, bool, error) {
	fields := make(map[string]string, len(columns))
	for i, field := range columns {
		fields[field] = cellString(row, i)
	}

	if fields["item_name"] == "" && fields["batch_number"] == "" {
		return domain.InventoryItem{}, false, nil
	}

	item := domain.InventoryItem{
		ItemName:    fields["item_name"],
		BatchNumber: fields["batch_number"],
		ItemType:    domain.ItemType(fields["item_type"]),
		Category:    domain.ItemCategory(strings.ToLower(fields["category"])),
		Unit:        fields["unit"],
		Supplier:    fields["supplier"],
	}
	if item.ItemType == "" {
		item.ItemType = domain.TypeObat
	}

	qty, err := strconv.Atoi(strings.TrimSpace(fields["quantity"]))
	if err != nil {
		return domain.InventoryItem{}, false, fmt.Errorf("invalid quantity %q", fields["quantity"])
	}
	item.Quantity = qty

	if item.PurchasePrice, err = parsePrice(fields["purchase_price"]); err != nil {
		return domain.InventoryItem{}, false, err
	}
	if item.SellingPriceRJ, err = parsePrice(fields["selling_price_rj"]); err != nil {
		return domain.InventoryItem{}, false, err
	}
	if item.SellingPriceRI, err = parsePrice(fields["selling_price_ri"]); err != nil {
		return domain.InventoryItem{}, false, err
	}

	if item.ExpiredDate, err = parseExpiredDate(fields["expired_date"]); err != nil {
		return domain.InventoryItem{}, false, err
	}

	return item, true, nil
}

// parsePrice reads a decimal that may carry thousand separators
func parsePrice(raw string) (decimal.Decimal, error) {
	if raw == "" {
		return decimal.Zero, nil
	}
	cleaned := strings.NewReplacer(",", "", "Rp", "", " ", "").Replace(raw)
	d, err := decimal.NewFromString(cleaned)
	if err != nil {
		return decimal.Zero, fmt.Errorf("invalid price %q", raw)
	}
	return d, nil
}

// parseExpiredDate tries the accepted layouts in order
func parseExpiredDate(raw string) (time.Time, error) {
	if raw == "" {
		return time.Time{}, fmt.Errorf("expired date is required")
	}
	for _, layout := range expiredDateLayouts {
		if t, err := time.Parse(layout, raw); err == nil {
			return t, nil
		}
	}
	return time.Time{}, fmt.Errorf("invalid expired date %q", raw)
}
