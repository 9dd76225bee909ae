package main

import (
	"context"
	"errors"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"syscall"

	sharedobs "github.com/couchcryptid/storm-data-shared/observability"

	"github.com/couchcryptid/shelter-nav/internal/adapter/feeds"
	"github.com/couchcryptid/shelter-nav/internal/adapter/httpadapter"
	kafkaadapter "github.com/couchcryptid/shelter-nav/internal/adapter/kafka"
	"github.com/couchcryptid/shelter-nav/internal/adapter/mapbox"
	"github.com/couchcryptid/shelter-nav/internal/adapter/shelters"
	"github.com/couchcryptid/shelter-nav/internal/alert"
	"github.com/couchcryptid/shelter-nav/internal/config"
	"github.com/couchcryptid/shelter-nav/internal/domain"
	"github.com/couchcryptid/shelter-nav/internal/navigation"
	"github.com/couchcryptid/shelter-nav/internal/observability"
)

func main() {
	cfg, err := config.Load()
	if err != nil {
		slog.Error("failed to load config", "error", err)
		os.Exit(1)
	}

	logger := sharedobs.NewLogger(cfg.LogLevel, cfg.LogFormat).With("service", "shelter-nav")
	metrics := observability.NewMetrics()

	list, report, err := shelters.LoadFile(cfg.SheltersPath, logger)
	if err != nil {
		logger.Error("failed to load shelters", "path", cfg.SheltersPath, "error", err)
		os.Exit(1)
	}
	logger.Info("shelters loaded", "path", cfg.SheltersPath, "loaded", report.Loaded, "skipped", len(report.Skipped))

	// Directions are feature-flagged via MAPBOX_ENABLED / MAPBOX_TOKEN.
	var directions domain.DirectionsProvider
	if cfg.MapboxEnabled {
		client := mapbox.NewClient(cfg.MapboxToken, cfg.MapboxTimeout, cfg.MapboxGeometries, metrics, logger)
		directions = mapbox.NewCachedDirections(client, cfg.MapboxCacheSize, metrics)
		metrics.DirectionsEnabled.Set(1)
		logger.Info("mapbox directions enabled", "cache_size", cfg.MapboxCacheSize, "timeout", cfg.MapboxTimeout, "geometries", cfg.MapboxGeometries)
	} else {
		logger.Info("mapbox directions disabled, routes fall back to direct lines")
	}

	surface := navigation.NewMemorySurface()
	nav := navigation.NewNavigator(list, navigation.NewProvider(directions, logger, metrics), surface, logger, metrics)

	classifier, err := domain.NewClassifier(cfg.AlertSeismicThreshold, cfg.AlertWarningKeywords, cfg.AlertAdvisoryKeywords)
	if err != nil {
		logger.Error("invalid alert classification", "error", err)
		os.Exit(1)
	}

	var sources []alert.Source
	if cfg.AlertQuakeURL != "" {
		sources = append(sources, feeds.NewQuakeSource(cfg.AlertQuakeURL, cfg.AlertFetchTimeout))
	}
	if cfg.AlertWarningURL != "" {
		sources = append(sources, feeds.NewWarningSource(cfg.AlertWarningURL, cfg.AlertFetchTimeout))
	}
	if cfg.AlertFeedURL != "" {
		sources = append(sources, feeds.NewFeedSource(cfg.AlertFeedURL, cfg.AlertFetchTimeout))
	}

	opts := alert.Options{
		Interval:     cfg.AlertPollInterval,
		FetchTimeout: cfg.AlertFetchTimeout,
		BufferSize:   cfg.AlertBufferSize,
		DedupTTL:     cfg.AlertDedupTTL,
	}
	var writer *kafkaadapter.Writer
	if cfg.KafkaEnabled() {
		writer = kafkaadapter.NewWriter(cfg, logger)
		opts.Publisher = writer
		logger.Info("kafka alert publishing enabled", "brokers", cfg.KafkaBrokers, "topic", cfg.KafkaAlertTopic)
	}
	ingestor := alert.New(sources, classifier, opts, logger, metrics)

	var position domain.PositionSource
	if cfg.UserPosition != nil {
		position = &domain.StaticPosition{Coordinate: *cfg.UserPosition}
	}

	srv := httpadapter.NewServer(cfg.HTTPAddr, observability.AllReady(nav, ingestor), httpadapter.Deps{
		Shelters:       nav,
		Alerts:         ingestor,
		Map:            surface,
		Position:       position,
		DefaultProfile: cfg.RouteProfile,
	}, logger)

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	// Start HTTP server.
	go func() {
		if err := srv.Start(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			logger.Error("http server error", "error", err)
		}
	}()

	// Start alert ingestion.
	go func() {
		if err := ingestor.Run(ctx); err != nil && !errors.Is(err, context.Canceled) {
			logger.Error("alert ingestor error", "error", err)
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

	logger.Info("shutdown complete")
}
