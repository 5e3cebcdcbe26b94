// internal/workers/pdf_processor.go
package workers

import (
	"context"
	"encoding/json"
	"fmt"
	"log/slog"
	"os"
	"regexp"
	"strconv"
	"strings"
	"time"

	"github.com/hibiken/asynq"
	"github.com/ledongthuc/pdf"
	"github.com/shopspring/decimal"

	"github.com/sehatindo/apotek-be/internal/adapters/storage"
	"github.com/sehatindo/apotek-be/internal/core/domain"
	"github.com/sehatindo/apotek-be/internal/core/ports"
)

// Supplier invoice line shape: item name, batch code, expiry, quantity
// and unit price. Example:
//
//	Paracetamol 500mg  BN-2024-118  2027-03-01  200  1,250.00
var invoiceLineRe = regexp.MustCompile(
	`^(.{3,}?)\s+([A-Z0-9][A-Z0-9\-\/]{2,})\s+(\d{4}-\d{2}-\d{2})\s+(\d+)\s+([\d.,]+)$`)

var invoiceFooterRe = regexp.MustCompile(`(?i)(subtotal|total|terbilang|grand)`)

// PDFProcessor turns supplier invoice PDFs into inventory candidates
// and merges them through the bulk upsert path
type PDFProcessor struct {
	inventory ports.InventoryService
	jobs      ports.ImportJobRepository
	storage   storage.StorageClient
	logger    *slog.Logger
	tempDir   string
}

// NewPDFProcessor creates a new PDF processor instance
func NewPDFProcessor(
	inventory ports.InventoryService,
	jobs ports.ImportJobRepository,
	storageClient storage.StorageClient,
	tempDir string,
	logger *slog.Logger,
) *PDFProcessor {
	if tempDir == "" {
		tempDir = os.TempDir()
	}
	return &PDFProcessor{
		inventory: inventory,
		jobs:      jobs,
		storage:   storageClient,
		logger:    logger.With(slog.String("worker", "invoice_import")),
		tempDir:   tempDir,
	}
}

// ProcessTask handles one supplier invoice import task
func (p *PDFProcessor) ProcessTask(ctx context.Context, task *asynq.Task) error {
	var payload InvoiceImportPayload
	if err := json.Unmarshal(task.Payload(), &payload); err != nil {
		return fmt.Errorf("failed to unmarshal invoice payload: %v: %w", err, asynq.SkipRetry)
	}

	p.logger.InfoContext(ctx, "processing supplier invoice",
		slog.String("job_id", payload.JobID.String()),
		slog.String("supplier", payload.Supplier))

	if err := p.jobs.MarkProcessing(ctx, payload.JobID); err != nil {
		return err
	}

	items, err := p.extract(ctx, payload)
	if err != nil {
		_ = p.jobs.MarkFailed(ctx, payload.JobID, err.Error())
		return fmt.Errorf("invoice extraction failed: %v: %w", err, asynq.SkipRetry)
	}
	if len(items) == 0 {
		_ = p.jobs.MarkFailed(ctx, payload.JobID, "no recognizable invoice lines")
		return fmt.Errorf("no recognizable invoice lines: %w", asynq.SkipRetry)
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

	p.logger.InfoContext(ctx, "supplier invoice imported",
		slog.String("job_id", payload.JobID.String()),
		slog.Int("merged", result.Merged),
		slog.Int("inserted", result.Inserted))
	return nil
}

// extract downloads the PDF to a temp file and parses its line items
func (p *PDFProcessor) extract(ctx context.Context, payload InvoiceImportPayload) ([]domain.InventoryItem, error) {
	data, err := p.storage.Download(ctx, payload.ObjectKey)
	if err != nil {
		return nil, fmt.Errorf("failed to download %s: %w", payload.ObjectKey, err)
	}

	tmp, err := os.CreateTemp(p.tempDir, "invoice-*.pdf")
	if err != nil {
		return nil, fmt.Errorf("failed to create temp file: %w", err)
	}
	defer os.Remove(tmp.Name())

	if _, err := tmp.Write(data); err != nil {
		tmp.Close()
		return nil, fmt.Errorf("failed to write temp file: %w", err)
	}
	tmp.Close()

	lines, err := p.readLines(ctx, tmp.Name())
	if err != nil {
		return nil, err
	}
	return p.parseLines(lines, payload.Supplier), nil
}

// readLines extracts plain text lines from every page
func (p *PDFProcessor) readLines(ctx context.Context, path string) ([]string, error) {
	f, r, err := pdf.Open(path)
	if err != nil {
		return nil, fmt.Errorf("failed to open PDF: %w", err)
	}
	defer f.Close()

	var lines []string
	for pageNum := 1; pageNum <= r.NumPage(); pageNum++ {
		page := r.Page(pageNum)
		if page.V.IsNull() {
			continue
		}

		text, err := page.GetPlainText(nil)
		if err != nil {
			p.logger.WarnContext(ctx, "failed to extract text from page",
				slog.Int("page", pageNum),
				slog.String("error", err.Error()))
			continue
		}
		lines = append(lines, strings.Split(text, "\n")...)
	}
	return lines, nil
}

// parseLines converts matching invoice lines into inventory candidates.
// Lines after the footer markers are ignored.
func (p *PDFProcessor) parseLines(lines []string, supplier string) []domain.InventoryItem {
	var items []domain.InventoryItem
	for _, line := range lines {
		line = strings.TrimSpace(line)
		if line == "" {
			continue
		}
		if invoiceFooterRe.MatchString(line) {
			break
		}

		m := invoiceLineRe.FindStringSubmatch(line)
		if m == nil {
			continue
		}

		expired, err := time.Parse("2006-01-02", m[3])
		if err != nil {
			continue
		}
		qty, err := strconv.Atoi(m[4])
		if err != nil || qty <= 0 {
			continue
		}
		price, err := decimal.NewFromString(strings.ReplaceAll(m[5], ",", ""))
		if err != nil {
			continue
		}

		items = append(items, domain.InventoryItem{
			ItemName:      strings.TrimSpace(m[1]),
			BatchNumber:   m[2],
			ItemType:      domain.TypeObat,
			Category:      domain.CategoryLainnya,
			Unit:          "pcs",
			Quantity:      qty,
			PurchasePrice: price,
			Supplier:      supplier,
			ExpiredDate:   expired,
		})
	}
	return items
}
