package main

import (
	"context"
	"errors"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"syscall"

	"github.com/ridgelight/warnmap-etl/internal/adapter/archive"
	httpadapter "github.com/ridgelight/warnmap-etl/internal/adapter/http"
	kafkaadapter "github.com/ridgelight/warnmap-etl/internal/adapter/kafka"
	"github.com/ridgelight/warnmap-etl/internal/config"
	"github.com/ridgelight/warnmap-etl/internal/observability"
	"github.com/ridgelight/warnmap-etl/internal/pipeline"
)

func main() {
	cfg, err := config.Load()
	if err != nil {
		slog.Error("failed to load config", "error", err)
		os.Exit(1)
	}

	logger := observability.NewLogger(cfg.LogLevel, cfg.LogFormat)
	metrics := observability.NewMetrics()

	// Local warning archive (feature-flagged via ARCHIVE_ENABLED).
	var store *archive.Store
	var archiver pipeline.Archiver
	var warnings httpadapter.WarningSource
	if cfg.ArchiveEnabled {
		store, err = archive.Open(cfg.ArchivePath, logger)
		if err != nil {
			logger.Error("failed to open archive", "error", err, "path", cfg.ArchivePath)
			os.Exit(1)
		}
		archiver = store
		warnings = store
		logger.Info("warning archive enabled", "path", cfg.ArchivePath)
	} else {
		logger.Info("warning archive disabled")
	}

	reader := kafkaadapter.NewReader(cfg, logger)
	writer := kafkaadapter.NewWriter(cfg, logger)
	transformer, err := pipeline.NewTransformer(cfg.WarnParams, cfg.RegridRelTol, cfg.EnsembleQuantile, logger, metrics)
	if err != nil {
		logger.Error("invalid warn configuration", "error", err)
		os.Exit(1)
	}

	p := pipeline.New(reader, transformer, writer, archiver, logger, metrics, cfg.BatchSize)

	srv := httpadapter.NewServer(cfg.HTTPAddr, p, warnings, logger)

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	// Start HTTP server.
	go func() {
		if err := srv.Start(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			logger.Error("http server error", "error", err)
		}
	}()

	// Start ETL pipeline.
	go func() {
		if err := p.Run(ctx); err != nil {
			logger.Error("pipeline error", "error", err)
		}
	}()

	<-ctx.Done()
	logger.Info("shutting down")

	shutdownCtx, cancel := context.WithTimeout(context.Background(), cfg.ShutdownTimeout)
	defer cancel()

	if err := srv.Shutdown(shutdownCtx); err != nil {
		logger.Error("http server shutdown error", "error", err)
	}
	if err := reader.Close(); err != nil {
		logger.Error("kafka reader close error", "error", err)
	}
	if err := writer.Close(); err != nil {
		logger.Error("kafka writer close error", "error", err)
	}
	if store != nil {
		if err := store.Close(); err != nil {
			logger.Error("archive close error", "error", err)
		}
	}

	logger.Info("shutdown complete")
}
