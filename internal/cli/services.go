package cli

import (
	"context"
	"fmt"

	"condo/internal/assistant"
	"condo/internal/assistant/gemini"
	"condo/internal/config"
	"condo/internal/documents"
	apphttp "condo/internal/http"
	applog "condo/internal/log"
	"condo/internal/metrics"
	gsheet "condo/internal/sheets/google"
)

// NewAssistant uses Gemini when a key is configured. Without one, or when
// the client cannot be built, the assistant answers with its fallbacks.
func NewAssistant(ctx context.Context, cfg *config.Config, m *metrics.Metrics, logger *applog.Logger) *assistant.Service {
	acfg := assistant.Config{
		Timeout:   cfg.AssistantTimeout,
		CacheSize: cfg.AssistantCacheSize,
		CacheTTL:  assistant.DefaultConfig().CacheTTL,
	}
	if cfg.GeminiAPIKey == "" {
		logger.Info("Assistant disabled - no GEMINI_API_KEY provided")
		return assistant.New(nil, acfg, m, logger)
	}
	client, err := gemini.New(ctx, cfg.GeminiAPIKey, cfg.GeminiModel)
	if err != nil {
		logger.Warn("Failed to initialize Gemini client, assistant disabled", applog.FieldError, err.Error())
		return assistant.New(nil, acfg, m, logger)
	}
	logger.Info("Assistant enabled", "model", cfg.GeminiModel)
	return assistant.New(client, acfg, m, logger)
}

// NewSheets returns nil, nil when no spreadsheet is configured.
func NewSheets(ctx context.Context, cfg *config.Config, logger *applog.Logger) (*gsheet.Client, error) {
	if !cfg.SheetsEnabled() {
		logger.Info("Google Sheets disabled - no GOOGLE_SPREADSHEET_ID provided")
		return nil, nil
	}
	client, err := gsheet.New(ctx, gsheet.Config{
		SpreadsheetID:   cfg.GoogleSpreadsheetID,
		ActivitySheet:   cfg.GoogleActivitySheet,
		CredentialsJSON: cfg.GoogleServiceAccountJSON,
		CredentialsFile: cfg.GoogleServiceAccountFile,
	}, logger)
	if err != nil {
		return nil, fmt.Errorf("google sheets: %w", err)
	}
	logger.Info("Google Sheets client initialized", "spreadsheet_id", cfg.GoogleSpreadsheetID)
	return client, nil
}

// NewDocuments opens the configured blob driver. Files of the fs driver
// are served by the API under apphttp.FilesPrefix.
func NewDocuments(ctx context.Context, cfg *config.Config, logger *applog.Logger) (*documents.Service, error) {
	var (
		blobs documents.Blobs
		err   error
	)
	switch documents.Driver(cfg.DocumentsDriver) {
	case documents.DriverS3:
		blobs, err = documents.NewS3Store(ctx, documents.S3Config{
			Bucket:    cfg.S3Bucket,
			Region:    cfg.S3Region,
			Endpoint:  cfg.S3Endpoint,
			PathStyle: cfg.S3UsePathStyle,
		})
	default:
		blobs, err = documents.NewFSStore(cfg.DocumentsDir, apphttp.FilesPrefix)
	}
	if err != nil {
		return nil, fmt.Errorf("documents %s driver: %w", cfg.DocumentsDriver, err)
	}
	logger.Info("Documents storage initialized", "driver", cfg.DocumentsDriver)
	return documents.NewService(blobs, cfg.S3PresignTTL, logger), nil
}
