package main

import (
	"context"
	"os"
	"time"

	"condo/internal/amqp"
	"condo/internal/cli"
	applog "condo/internal/log"
	"condo/internal/metrics"
	"condo/internal/sheets"
	"condo/internal/worker"
)

func main() {
	cli.LoadEnvFile()
	logger := cli.SetupLogger(applog.ComponentWorker)
	logger.Info("Starting condo-worker")
	cfg := cli.LoadAndValidateConfig(logger)

	if cfg.AMQPURL == "" {
		logger.Error("AMQP_URL is required for the worker")
		os.Exit(1)
	}

	client, err := amqp.NewClient(cfg.AMQPURL, cfg.AMQPExchange, cfg.AMQPQueue, logger)
	if err != nil {
		logger.Error("Failed to initialize AMQP client", applog.FieldError, err.Error())
		os.Exit(1)
	}

	var appender sheets.ActivityAppender
	sheetsClient, err := cli.NewSheets(context.Background(), cfg, logger)
	if err != nil {
		logger.Error("Failed to initialize Google Sheets client", applog.FieldError, err.Error())
		os.Exit(1)
	}
	if sheetsClient != nil {
		appender = sheetsClient
	} else {
		logger.Info("Activity is logged only")
	}

	ctx, done := cli.GracefulShutdown(logger, 30*time.Second, func(context.Context) {
		if err := client.Close(); err != nil {
			logger.Warn("AMQP close failed", applog.FieldError, err.Error())
		}
	})

	w := worker.NewActivityWorker(appender, metrics.New(), logger)
	if err := w.Run(ctx, client); err != nil {
		logger.Error("Message consumption failed", applog.FieldError, err.Error())
		_ = client.Close()
		os.Exit(1)
	}

	cli.WaitForShutdown(ctx, done)
	logger.Info("Worker shutdown complete")
}
