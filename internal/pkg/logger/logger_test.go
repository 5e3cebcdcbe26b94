package logger_test

import (
	"bytes"
	"context"
	"encoding/json"
	"log/slog"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/sehatindo/apotek-be/internal/pkg/logger"
)

func TestSanitizationHandler(t *testing.T) {
	var buf bytes.Buffer
	handler := logger.NewSanitizationHandler(slog.NewJSONHandler(&buf, nil))
	log := slog.New(handler)

	parseEntry := func(t *testing.T) map[string]any {
		t.Helper()
		var entry map[string]any
		require.NoError(t, json.Unmarshal(buf.Bytes(), &entry))
		return entry
	}

	t.Run("masks_credential_attributes", func(t *testing.T) {
		buf.Reset()
		log.Info("database connected",
			slog.String("password", "hunter2"),
			slog.String("host", "localhost"),
		)

		entry := parseEntry(t)
		assert.Equal(t, "***REDACTED***", entry["password"])
		assert.Equal(t, "localhost", entry["host"])
	})

	t.Run("masks_identity_numbers_in_messages", func(t *testing.T) {
		buf.Reset()
		log.Info("customer nik: 3174051234567890 attached to sale")

		assert.NotContains(t, buf.String(), "3174051234567890")
		assert.Contains(t, buf.String(), "***REDACTED***")
	})

	t.Run("masks_medical_record_fields", func(t *testing.T) {
		buf.Reset()
		log.Info("prescription recorded", slog.String("medical_record_number", "MR-2026-0042"))

		entry := parseEntry(t)
		assert.Equal(t, "***REDACTED***", entry["medical_record_number"])
	})

	t.Run("leaves_inventory_fields_alone", func(t *testing.T) {
		buf.Reset()
		log.Info("stock updated",
			slog.String("item_name", "Paracetamol 500mg"),
			slog.String("batch_number", "BN-2026-001"),
		)

		entry := parseEntry(t)
		assert.Equal(t, "Paracetamol 500mg", entry["item_name"])
		assert.Equal(t, "BN-2026-001", entry["batch_number"])
	})
}

func TestContextHandler(t *testing.T) {
	var buf bytes.Buffer
	handler := logger.NewContextHandler(slog.NewJSONHandler(&buf, nil), nil)
	log := slog.New(handler)

	ctx := context.WithValue(context.Background(), logger.ContextKeyRequestID, "req-123")
	ctx = context.WithValue(ctx, logger.ContextKeyPath, "/api/v1/inventory")

	log.InfoContext(ctx, "request_completed")

	var entry map[string]any
	require.NoError(t, json.Unmarshal(buf.Bytes(), &entry))
	assert.Equal(t, "req-123", entry["request_id"])
	assert.Equal(t, "/api/v1/inventory", entry["path"])
}

func TestSetupLogger(t *testing.T) {
	tests := []struct {
		name   string
		level  string
		format string
	}{
		{name: "json_format", level: "info", format: "json"},
		{name: "text_format", level: "debug", format: "text"},
		{name: "unknown_level_defaults_to_info", level: "bogus", format: "json"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			l := logger.SetupLogger(tt.level, tt.format)
			require.NotNil(t, l)
			assert.NotNil(t, l.WithContext(context.Background()))
		})
	}
}
