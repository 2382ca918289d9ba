package main

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"productapi/internal/adapters/driven/jsonrepo"
	"productapi/internal/adapters/driving/httpadapter"
	"productapi/internal/assets"
	"productapi/internal/config"
	"productapi/internal/core/service/product"
	"productapi/internal/pkg/logging"
	"syscall"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"
	"go.uber.org/zap"
)

const serviceName = "products"

func main() {
	cfg, err := config.Load()
	if err != nil {
		fmt.Fprintf(os.Stderr, "Failed to load configuration: %v\n", err)
		os.Exit(1)
	}

	fmt.Println(assets.Banner(cfg.ServerAddr, cfg.DataFile))

	log, err := logging.New(serviceName, cfg.LogLevel, cfg.LogFormat)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Failed to create logger: %v\n", err)
		os.Exit(1)
	}
	defer func() { _ = log.Sync() }()

	log.Info("configuration loaded",
		zap.String("addr", cfg.ServerAddr),
		zap.String("data_file", cfg.DataFile),
		zap.Bool("watch", cfg.WatchDataFile),
		zap.Bool("metrics", cfg.MetricsEnabled),
	)

	repo, err := jsonrepo.NewJSONRepository(cfg.DataFile, jsonrepo.Options{
		CreateIfMissing: cfg.CreateIfMissing,
		Log:             log,
	})
	if err != nil {
		log.Fatal("failed to create repository", zap.Error(err))
	}

	// create the context
	appCtx, cancel := context.WithCancel(context.Background())
	defer cancel()

	setupSignalHandler(cancel, log)

	if err := run(appCtx, cfg, repo, log); err != nil {
		log.Fatal("application run failed", zap.Error(err))
	}

	log.Info("server exiting gracefully")
}

// setupSignalHandler configures a listener for OS signals to trigger a graceful shutdown.
func setupSignalHandler(cancelFunc context.CancelFunc, log *zap.Logger) {
	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM) // listen to OS interrupt signal

	// clean shutdown sequence
	go func() {
		sig := <-quit
		log.Info("shutdown signal received", zap.String("signal", sig.String()))
		cancelFunc()
	}()
}

func run(appCtx context.Context, cfg *config.Config, repo *jsonrepo.JSONRepository, log *zap.Logger) error {
	registry := prometheus.NewRegistry()
	registry.MustRegister(collectors.NewGoCollector(), collectors.NewProcessCollector(collectors.ProcessCollectorOpts{}))

	// service and handler
	productSvc := product.NewService(repo)
	apiHandler := httpadapter.NewHandler(productSvc, httpadapter.HTTPDeps{
		Log:            log,
		Service:        serviceName,
		MaxBodyBytes:   cfg.MaxBodyBytes,
		Registry:       registry,
		MetricsEnabled: cfg.MetricsEnabled,
	})

	// config the server
	server := &http.Server{
		Addr:              cfg.ServerAddr,
		Handler:           apiHandler.SetupRoutes(),
		ReadHeaderTimeout: cfg.ReadTimeout,
		ReadTimeout:       cfg.ReadTimeout,
		WriteTimeout:      cfg.WriteTimeout,
	}

	if cfg.WatchDataFile {
		if err := repo.Watch(appCtx); err != nil {
			// external edits are not picked up without it, but requests still work
			log.Warn("file watcher not started", zap.Error(err))
		}
	}

	errCh := make(chan error, 1)

	// start the server
	go func() {
		log.Info("server starting", zap.String("addr", cfg.ServerAddr))

		if err := server.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			errCh <- err
		}
	}()

	// listen for context cancellation or a listener failure
	select {
	case <-appCtx.Done():
		log.Info("context cancelled, initiating server shutdown")
	case err := <-errCh:
		return fmt.Errorf("server listen error: %w", err)
	}

	// graceful shutdown
	shutdownCtx, shutdownCancel := context.WithTimeout(context.Background(), cfg.ShutdownTimeout)
	defer shutdownCancel()

	if err := server.Shutdown(shutdownCtx); err != nil {
		return fmt.Errorf("server forced to shutdown: %w", err)
	}

	return nil
}
