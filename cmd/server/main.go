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

	httpadapter "github.com/couchcryptid/lead-capture-service/internal/adapter/http"
	kafkaadapter "github.com/couchcryptid/lead-capture-service/internal/adapter/kafka"
	mongoadapter "github.com/couchcryptid/lead-capture-service/internal/adapter/mongo"
	"github.com/couchcryptid/lead-capture-service/internal/adapter/sheets"
	"github.com/couchcryptid/lead-capture-service/internal/adapter/sqlite"
	"github.com/couchcryptid/lead-capture-service/internal/config"
	"github.com/couchcryptid/lead-capture-service/internal/domain"
	"github.com/couchcryptid/lead-capture-service/internal/observability"
	"github.com/couchcryptid/lead-capture-service/internal/service"
)

func main() {
	// A missing .env is normal outside local development.
	_ = godotenv.Load()

	cfg, err := config.Load()
	if err != nil {
		slog.Error("failed to load config", "error", err)
		os.Exit(1)
	}

	logger := observability.NewLogger(cfg)
	metrics := observability.NewMetrics()

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	store, closeStore, err := openStore(ctx, cfg)
	if err != nil {
		logger.Error("failed to open lead store", "store", cfg.LeadStore, "error", err)
		os.Exit(1)
	}
	logger.Info("lead store ready", "store", cfg.LeadStore)

	// Station export, optionally cached (STATIONS_CACHE_TTL).
	var source domain.StationSource = sheets.NewClient(cfg.StationsCSVURL, cfg.StationsFetchTimeout, metrics, logger)
	if cfg.StationsCacheTTL > 0 {
		source = sheets.NewCachedStationSource(source, cfg.StationsCacheTTL, metrics)
		logger.Info("station cache enabled", "ttl", cfg.StationsCacheTTL)
	}

	var syncer domain.LeadSyncer
	if cfg.SheetsWebhookURL != "" {
		syncer = sheets.NewWebhook(cfg.SheetsWebhookURL, cfg.SheetsTimeout, logger)
	} else {
		logger.Info("lead sheet sync disabled")
	}

	var (
		publisher domain.LeadPublisher
		writer    *kafkaadapter.Writer
	)
	if cfg.KafkaEnabled() {
		writer = kafkaadapter.NewWriter(cfg, logger)
		publisher = writer
		logger.Info("lead events enabled", "topic", cfg.KafkaLeadsTopic, "brokers", cfg.KafkaBrokers)
	} else {
		logger.Info("lead events disabled")
	}

	stations := service.NewStationService(source, logger, metrics)
	leads := service.NewLeadService(store, syncer, publisher, logger, metrics)

	srv := httpadapter.NewServer(cfg, stations, leads, leads, metrics, logger)

	go func() {
		if err := srv.Start(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			logger.Error("http server error", "error", err)
			stop()
		}
	}()

	<-ctx.Done()
	logger.Info("shutting down")

	shutdownCtx, cancel := context.WithTimeout(context.Background(), cfg.ShutdownTimeout)
	defer cancel()

	if err := srv.Shutdown(shutdownCtx); err != nil {
		logger.Error("http server shutdown error", "error", err)
	}
	if writer != nil {
		if err := writer.Close(); err != nil {
			logger.Error("kafka writer close error", "error", err)
		}
	}
	if err := closeStore(shutdownCtx); err != nil {
		logger.Error("lead store close error", "error", err)
	}

	logger.Info("shutdown complete")
}

func openStore(ctx context.Context, cfg *config.Config) (domain.LeadStore, func(context.Context) error, error) {
	switch cfg.LeadStore {
	case config.StoreMongo:
		s, err := mongoadapter.Connect(ctx, cfg.MongoURI, cfg.MongoDatabase, cfg.MongoCollection)
		if err != nil {
			return nil, nil, err
		}
		return s, s.Close, nil
	default:
		s, err := sqlite.Open(ctx, cfg.SQLitePath)
		if err != nil {
			return nil, nil, err
		}
		return s, func(context.Context) error { return s.Close() }, nil
	}
}
