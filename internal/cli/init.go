// Package cli holds the start-up steps shared by the condo commands.
package cli

import (
	"context"
	"os"
	"os/signal"
	"syscall"
	"time"

	"condo/internal/backend"
	"condo/internal/config"
	"condo/internal/core"
	applog "condo/internal/log"
	"condo/internal/metrics"
	"condo/internal/seed"
	"condo/internal/store"
)

// SetupLogger builds the process logger from LOG_LEVEL and makes it the
// slog default.
func SetupLogger(component string) *applog.Logger {
	logger := applog.New(applog.Config{
		Level:     applog.ParseLevel(os.Getenv("LOG_LEVEL")),
		Component: component,
	})
	applog.SetDefault(logger)
	return logger
}

// LoadEnvFile loads .env for local development. A missing file is fine.
func LoadEnvFile() {
	config.LoadEnvFile()
}

// LoadAndValidateConfig exits the process when the configuration is invalid.
func LoadAndValidateConfig(logger *applog.Logger) *config.Config {
	cfg := config.Load()
	if err := cfg.Validate(); err != nil {
		logger.Error("Configuration validation failed", applog.FieldError, err.Error())
		os.Exit(1)
	}
	return cfg
}

// Runtime is an opened backend and the store loaded on top of it.
type Runtime struct {
	Store   *store.Store
	Backend *backend.Result
}

// OpenStore creates the configured backend and loads the store from it.
func OpenStore(ctx context.Context, cfg *config.Config, m *metrics.Metrics, logger *applog.Logger) (*Runtime, error) {
	bcfg, err := backend.FromAppConfig(cfg)
	if err != nil {
		return nil, err
	}
	result, err := backend.NewFactory(logger).CreateBackend(ctx, bcfg)
	if err != nil {
		return nil, err
	}

	opts := []store.Option{
		store.WithNotifier(result.Notifier),
		store.WithMetrics(m),
		store.WithLogger(logger),
	}
	if cfg.SeedFile != "" {
		path := cfg.SeedFile
		opts = append(opts, store.WithSeed(func() (core.Snapshot, error) { return seed.FromFile(path) }))
	}
	st := store.New(result.Store, opts...)
	st.Load(ctx)
	return &Runtime{Store: st, Backend: result}, nil
}

// Close releases the backend.
func (r *Runtime) Close(logger *applog.Logger) {
	if r == nil || r.Backend == nil || r.Backend.Cleanup == nil {
		return
	}
	if err := r.Backend.Cleanup(); err != nil {
		logger.Warn("Backend cleanup failed", applog.FieldError, err.Error())
	}
}

// GracefulShutdown returns a context cancelled on SIGINT or SIGTERM. The
// cleanup runs first, bounded by timeout; done closes when it returns.
func GracefulShutdown(logger *applog.Logger, timeout time.Duration, cleanup func(ctx context.Context)) (context.Context, <-chan struct{}) {
	ctx, cancel := context.WithCancel(context.Background())
	done := make(chan struct{})

	go func() {
		sigChan := make(chan os.Signal, 1)
		signal.Notify(sigChan, syscall.SIGINT, syscall.SIGTERM)
		sig := <-sigChan
		logger.Info("Shutdown signal received", "signal", sig.String(), applog.FieldOperation, applog.OpShutdown)

		shutdownCtx, shutdownCancel := context.WithTimeout(context.Background(), timeout)
		defer shutdownCancel()

		if cleanup != nil {
			cleanup(shutdownCtx)
		}
		cancel()

		if shutdownCtx.Err() != nil {
			logger.Warn("Shutdown timeout reached")
		} else {
			logger.Info("Shutdown complete")
		}
		close(done)
	}()

	return ctx, done
}

// WaitForShutdown blocks until the context is cancelled and cleanup ended.
func WaitForShutdown(ctx context.Context, done <-chan struct{}) {
	<-ctx.Done()
	<-done
}
