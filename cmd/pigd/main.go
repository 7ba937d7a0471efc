// Command pigd serves the ignition probability API. It always exposes
// the HTTP assessment endpoint; with KAFKA_ENABLED=true it additionally
// runs the batch scoring loop over the observation topics.
package main

import (
	"context"
	"errors"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"syscall"

	"github.com/joho/godotenv"

	httpadapter "github.com/emberwatch/ignition-service/internal/adapter/http"
	kafkaadapter "github.com/emberwatch/ignition-service/internal/adapter/kafka"
	"github.com/emberwatch/ignition-service/internal/config"
	"github.com/emberwatch/ignition-service/internal/ignition"
	"github.com/emberwatch/ignition-service/internal/observability"
	"github.com/emberwatch/ignition-service/internal/pipeline"
	"github.com/emberwatch/ignition-service/internal/tables"
)

// staticReady reports ready as soon as the reference tables have loaded.
// Used when the Kafka scoring loop is disabled.
type staticReady struct{}

func (staticReady) CheckReadiness(_ context.Context) error { return nil }

func main() {
	_ = godotenv.Load() // best-effort; env vars win over .env

	cfg, err := config.Load()
	if err != nil {
		slog.Error("failed to load config", "error", err)
		os.Exit(1)
	}

	logger := observability.NewLogger(cfg)
	metrics := observability.NewMetrics()

	store, err := tables.NewStore()
	if err != nil {
		logger.Error("failed to load reference tables", "error", err)
		os.Exit(1)
	}
	logger.Info("reference tables loaded", "tables", len(store.IDs()))

	calc := ignition.NewCalculator(store, logger, metrics)

	var ready httpadapter.ReadinessChecker = staticReady{}
	var p *pipeline.Pipeline
	var reader *kafkaadapter.Reader
	var writer *kafkaadapter.Writer

	if cfg.KafkaEnabled {
		reader = kafkaadapter.NewReader(cfg, logger)
		writer = kafkaadapter.NewWriter(cfg, logger)
		transformer := pipeline.NewTransformer(calc)
		p = pipeline.New(reader, transformer, writer, logger, metrics, cfg.BatchSize)
		ready = p
		logger.Info("kafka scoring loop enabled",
			"source_topic", cfg.KafkaSourceTopic,
			"sink_topic", cfg.KafkaSinkTopic,
		)
	} else {
		logger.Info("kafka scoring loop disabled")
	}

	srv := httpadapter.NewServer(cfg.HTTPAddr, calc, ready, metrics, logger)

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	go func() {
		if err := srv.Start(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			logger.Error("http server error", "error", err)
		}
	}()

	if p != nil {
		go func() {
			if err := p.Run(ctx); err != nil {
				logger.Error("pipeline error", "error", err)
			}
		}()
	}

	<-ctx.Done()
	logger.Info("shutting down")

	shutdownCtx, cancel := context.WithTimeout(context.Background(), cfg.ShutdownTimeout)
	defer cancel()

	if err := srv.Shutdown(shutdownCtx); err != nil {
		logger.Error("http server shutdown error", "error", err)
	}
	if reader != nil {
		if err := reader.Close(); err != nil {
			logger.Error("kafka reader close error", "error", err)
		}
	}
	if writer != nil {
		if err := writer.Close(); err != nil {
			logger.Error("kafka writer close error", "error", err)
		}
	}

	logger.Info("shutdown complete")
}
