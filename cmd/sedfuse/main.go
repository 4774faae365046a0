package main

import (
	"context"
	"errors"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"syscall"

	httpadapter "github.com/astrofuse/sedfuse/internal/adapter/http"
	"github.com/astrofuse/sedfuse/internal/adapter/irsa"
	kafkaadapter "github.com/astrofuse/sedfuse/internal/adapter/kafka"
	"github.com/astrofuse/sedfuse/internal/adapter/ned"
	"github.com/astrofuse/sedfuse/internal/config"
	"github.com/astrofuse/sedfuse/internal/domain"
	"github.com/astrofuse/sedfuse/internal/observability"
	"github.com/astrofuse/sedfuse/internal/output"
	"github.com/astrofuse/sedfuse/internal/pipeline"
)

func main() {
	os.Exit(run())
}

func run() int {
	cfg, err := config.Load()
	if err != nil {
		slog.Error("failed to load config", "error", err)
		return 1
	}

	logger := observability.NewLogger(cfg.LogLevel, cfg.LogFormat)
	metrics := observability.NewMetrics()

	// Both were validated by config.Load.
	parser, err := domain.NewLineParser(cfg.Fields)
	if err != nil {
		logger.Error("input grammar", "error", err)
		return 1
	}
	template, err := domain.NewTemplate(cfg.Template)
	if err != nil {
		logger.Error("output template", "error", err)
		return 1
	}

	nedClient := ned.NewClient(cfg.NEDBaseURL, cfg.QueryTimeout, cfg.RequestDelay, logger)
	irsaClient := irsa.NewClient(cfg.GatorBaseURL, cfg.DustBaseURL, cfg.QueryTimeout, cfg.RequestDelay, logger)
	reddening := irsa.NewCachedResolver(irsaClient, cfg.ReddeningCacheSize,
		func() { metrics.ReddeningCache.WithLabelValues("hit").Inc() },
		func() { metrics.ReddeningCache.WithLabelValues("miss").Inc() },
	)

	plotDir := ""
	if cfg.PlotEnabled {
		plotDir = cfg.PlotDir
	}
	writer, err := output.NewWriter(cfg.OutputPath, template, plotDir, logger)
	if err != nil {
		logger.Error("open output", "error", err)
		return 1
	}
	defer writer.Close()

	var publisher pipeline.RecordPublisher
	var sink *kafkaadapter.Writer
	if cfg.KafkaEnabled {
		sink = kafkaadapter.NewWriter(cfg, logger)
		defer sink.Close()
		publisher = sink
		logger.Info("kafka sink enabled", "brokers", cfg.KafkaBrokers, "topic", cfg.KafkaTopic)
	} else {
		logger.Info("kafka sink disabled")
	}

	p := pipeline.New(parser, nedClient, irsaClient, reddening, writer, publisher, logger, metrics)
	srv := httpadapter.NewServer(cfg.HTTPAddr, p, logger)

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	go func() {
		if err := srv.Start(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			logger.Error("http server error", "error", err)
		}
	}()

	input, err := os.Open(cfg.InputPath)
	if err != nil {
		logger.Error("open input", "error", err)
		return 1
	}
	defer input.Close()

	runErr := make(chan error, 1)
	go func() {
		runErr <- p.Run(ctx, input)
	}()

	code := 0
	select {
	case <-ctx.Done():
		logger.Info("interrupted, shutting down")
	case err := <-runErr:
		if err != nil {
			logger.Error("batch run failed", "error", err)
			code = 1
		}
	}

	shutdownCtx, cancel := context.WithTimeout(context.Background(), cfg.ShutdownTimeout)
	defer cancel()
	if err := srv.Shutdown(shutdownCtx); err != nil {
		logger.Error("http server shutdown error", "error", err)
	}
	if err := writer.Sync(); err != nil {
		logger.Error("output sync error", "error", err)
	}

	logger.Info("shutdown complete")
	return code
}
