package main

import (
	"context"
	"errors"
	"net/http"
	"os"
	"time"

	"condo/internal/cache"
	"condo/internal/cli"
	apphttp "condo/internal/http"
	applog "condo/internal/log"
	"condo/internal/metrics"
	"condo/internal/reports"
	"condo/internal/session"
	"condo/internal/storage"
)

func main() {
	cli.LoadEnvFile()
	logger := cli.SetupLogger(applog.ComponentApp)
	cfg := cli.LoadAndValidateConfig(logger)

	ctx := context.Background()
	m := metrics.New()

	rt, err := cli.OpenStore(ctx, cfg, m, logger)
	if err != nil {
		logger.Error("Failed to initialize backend", applog.FieldError, err.Error(), "backend", cfg.DataBackend)
		os.Exit(1)
	}

	asst := cli.NewAssistant(ctx, cfg, m, logger)
	cacheManager := cache.NewManager(logger)
	if c := asst.Cache(); c != nil {
		cacheManager.Register(c)
	}
	cacheManager.StartCleanup(5 * time.Minute)

	docs, err := cli.NewDocuments(ctx, cfg, logger)
	if err != nil {
		logger.Error("Failed to initialize documents storage", applog.FieldError, err.Error())
		os.Exit(1)
	}

	var exporter *reports.Exporter
	sheets, err := cli.NewSheets(ctx, cfg, logger)
	if err != nil {
		logger.Error("Failed to initialize Google Sheets client", applog.FieldError, err.Error())
		os.Exit(1)
	}
	if sheets != nil {
		exporter = reports.NewExporter(sheets, logger)
	}

	var ready func(context.Context) error
	if p, ok := rt.Backend.Store.(storage.Pinger); ok {
		ready = p.Ping
	}

	srv := apphttp.NewServer(":"+cfg.Port, apphttp.Deps{
		Store:     rt.Store,
		Sessions:  session.NewManager(rt.Store, logger),
		Assistant: asst,
		Reports:   exporter,
		Documents: docs,
		Metrics:   m,
		Logger:    logger,
		Ready:     ready,
	}, apphttp.Config{RequestsPerMinute: cfg.RateLimitPerMinute})

	srv.ReadTimeout = 15 * time.Second
	srv.WriteTimeout = 60 * time.Second
	srv.IdleTimeout = 60 * time.Second
	srv.MaxHeaderBytes = 1 << 16

	shutdownCtx, done := cli.GracefulShutdown(logger, 30*time.Second, func(ctx context.Context) {
		if err := srv.Shutdown(ctx); err != nil {
			logger.Error("Server shutdown error", applog.FieldError, err.Error())
		}
		cacheManager.Stop()
		rt.Close(logger)
	})

	logger.Info("Starting condo server",
		"port", cfg.Port,
		"backend", cfg.DataBackend,
		"documents", cfg.DocumentsDriver,
		"assistant", asst.Available(),
		"reports", exporter != nil)
	if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
		logger.Error("Server error", applog.FieldError, err.Error(), "port", cfg.Port)
		os.Exit(1)
	}

	cli.WaitForShutdown(shutdownCtx, done)
	logger.Info("Server stopped gracefully")
}
