// internal/workers/expiry_notify_processor.go
package workers

import (
	"context"
	"encoding/json"
	"fmt"
	"log/slog"
	"net/smtp"
	"strings"
	"time"

	"github.com/hibiken/asynq"

	"github.com/sehatindo/apotek-be/internal/core/domain"
	"github.com/sehatindo/apotek-be/internal/core/ports"
	"github.com/sehatindo/apotek-be/internal/pkg/config"
)

// ExpiryNotifyProcessor emails a digest of stock nearing its expiry date
type ExpiryNotifyProcessor struct {
	reports ports.ReportRepository
	cache   ports.CacheRepository
	config  *config.Config
	logger  *slog.Logger
}

// NewExpiryNotifyProcessor creates a new expiry notification processor
func NewExpiryNotifyProcessor(
	reports ports.ReportRepository,
	cache ports.CacheRepository,
	cfg *config.Config,
	logger *slog.Logger,
) *ExpiryNotifyProcessor {
	return &ExpiryNotifyProcessor{
		reports: reports,
		cache:   cache,
		config:  cfg,
		logger:  logger.With(slog.String("worker", "expiry_notify")),
	}
}

// ProcessTask handles one scheduled expiry scan
func (p *ExpiryNotifyProcessor) ProcessTask(ctx context.Context, task *asynq.Task) error {
	var payload ExpiryNotifyPayload
	if err := json.Unmarshal(task.Payload(), &payload); err != nil {
		return fmt.Errorf("failed to unmarshal expiry notify payload: %v: %w", err, asynq.SkipRetry)
	}
	if payload.DaysAhead <= 0 {
		payload.DaysAhead = p.config.Pharmacy.ExpiryWarningDays
	}

	now := time.Now()
	items, err := p.reports.ExpiringItems(ctx, time.Duration(payload.DaysAhead)*24*time.Hour, now)
	if err != nil {
		return fmt.Errorf("failed to load expiring items: %w", err)
	}
	if len(items) == 0 {
		p.logger.InfoContext(ctx, "no expiring stock found",
			slog.Int("days_ahead", payload.DaysAhead))
		return nil
	}

	// One digest per calendar day; re-enqueued scans become no-ops
	dedupeKey := fmt.Sprintf("notify:expiring:%s", now.Format("2006-01-02"))
	fresh, err := p.cache.SetNX(ctx, dedupeKey, len(items), 24*time.Hour)
	if err != nil {
		p.logger.WarnContext(ctx, "dedupe check failed, sending anyway",
			slog.String("error", err.Error()))
	} else if !fresh {
		p.logger.InfoContext(ctx, "expiry digest already sent today",
			slog.String("key", dedupeKey))
		return nil
	}

	subject := fmt.Sprintf("Stok mendekati kedaluwarsa: %d item dalam %d hari",
		len(items), payload.DaysAhead)
	body := p.buildDigest(items, payload.DaysAhead)

	if err := p.send(ctx, subject, body); err != nil {
		return fmt.Errorf("failed to send expiry digest: %w", err)
	}

	p.logger.InfoContext(ctx, "expiry digest sent",
		slog.Int("item_count", len(items)),
		slog.Int("days_ahead", payload.DaysAhead))
	return nil
}

// buildDigest renders the plain-text email body
func (p *ExpiryNotifyProcessor) buildDigest(items []domain.ExpiringItem, daysAhead int) string {
	var b strings.Builder
	fmt.Fprintf(&b, "Item mendekati tanggal kedaluwarsa (%d hari ke depan):\n\n", daysAhead)
	for _, item := range items {
		fmt.Fprintf(&b, "- %s (batch %s): %d unit, ED %s (%d hari lagi)\n",
			item.ItemName, item.BatchNumber, item.Quantity,
			item.ExpiredDate.Format("2006-01-02"), item.DaysLeft)
	}
	return b.String()
}

func (p *ExpiryNotifyProcessor) send(ctx context.Context, subject, body string) error {
	recipient := p.config.Pharmacy.AlertRecipient

	if p.config.App.Environment == "development" || recipient == "" {
		p.logger.InfoContext(ctx, "expiry digest (not emailed)",
			slog.String("subject", subject),
			slog.String("body", body))
		return nil
	}

	from := p.config.Pharmacy.SMTPFrom
	msg := []byte(fmt.Sprintf(
		"From: %s\r\nTo: %s\r\nSubject: %s\r\n\r\n%s",
		from, recipient, subject, body,
	))

	host := p.config.Pharmacy.SMTPAddr
	if i := strings.Index(host, ":"); i >= 0 {
		host = host[:i]
	}
	auth := smtp.PlainAuth("", "", "", host)
	if err := smtp.SendMail(p.config.Pharmacy.SMTPAddr, auth, from, []string{recipient}, msg); err != nil {
		return fmt.Errorf("smtp send failed: %w", err)
	}
	return nil
}
