package main

import (
	"context"
	"errors"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"syscall"

	"github.com/couchcryptid/water-restriction-etl/internal/adapter/filestore"
	"github.com/couchcryptid/water-restriction-etl/internal/adapter/geoapi"
	"github.com/couchcryptid/water-restriction-etl/internal/adapter/httpadapter"
	kafkaadapter "github.com/couchcryptid/water-restriction-etl/internal/adapter/kafka"
	"github.com/couchcryptid/water-restriction-etl/internal/adapter/sqlite"
	"github.com/couchcryptid/water-restriction-etl/internal/adapter/vigieau"
	"github.com/couchcryptid/water-restriction-etl/internal/config"
	"github.com/couchcryptid/water-restriction-etl/internal/entry"
	"github.com/couchcryptid/water-restriction-etl/internal/observability"
	"github.com/couchcryptid/water-restriction-etl/internal/pipeline"
	"github.com/jonboulle/clockwork"
)

func main() {
	cfg, err := config.Load()
	if err != nil {
		slog.Error("failed to load config", "error", err)
		os.Exit(1)
	}

	logger := observability.NewLogger(cfg)
	metrics := observability.NewMetrics()

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	// Home coordinates locate entries below version 3, including the entry
	// created at first setup. Without them Prepare fails before migrating;
	// an entry that is already located starts fine.
	var locator entry.Locator
	if cfg.HomeConfigured {
		client := geoapi.NewClient(cfg.GeoAPIBaseURL, cfg.GeoAPITimeout, metrics, logger)
		geocoder := geoapi.NewCachedGeocoder(client, cfg.GeoAPICacheSize, metrics)
		locator = entry.NewHomeLocator(geocoder, cfg.HomeLatitude, cfg.HomeLongitude)
		logger.Info("home location configured", "lat", cfg.HomeLatitude, "lon", cfg.HomeLongitude)
	} else {
		logger.Info("home location not configured")
	}

	migrator := entry.NewMigrator(locator, cfg.DefaultZoneType, logger)
	e, migrated, err := entry.Prepare(ctx, filestore.New(cfg.EntryFile), migrator, logger)
	if err != nil {
		metrics.ConfigEntryMigrations.WithLabelValues("error").Inc()
		logger.Error("failed to prepare config entry", "file", cfg.EntryFile, "error", err)
		os.Exit(1)
	}
	if migrated {
		metrics.ConfigEntryMigrations.WithLabelValues("migrated").Inc()
	} else {
		metrics.ConfigEntryMigrations.WithLabelValues("current").Inc()
	}

	store, err := sqlite.Open(cfg.SnapshotDB)
	if err != nil {
		logger.Error("failed to open snapshot store", "path", cfg.SnapshotDB, "error", err)
		os.Exit(1)
	}

	fetcher := vigieau.NewClient(cfg.VigieauBaseURL, cfg.VigieauTimeout, cfg.VigieauForceFail, logger)
	if cfg.VigieauForceFail {
		logger.Warn("VIGIEAU_APIFAIL is set, every refresh will fail")
	}
	writer := kafkaadapter.NewWriter(cfg, logger)
	transformer := pipeline.NewTransformer(logger)

	refresher := pipeline.NewRefresher(fetcher, transformer, writer, store, e, cfg.VigieauProfile, logger, metrics)
	if err := refresher.Restore(ctx); err != nil {
		logger.Warn("snapshot restore failed, starting empty", "error", err)
	}

	scheduler, err := pipeline.NewScheduler(cfg.RefreshSchedule, refresher, clockwork.NewRealClock(), logger, metrics)
	if err != nil {
		logger.Error("invalid refresh schedule", "error", err)
		os.Exit(1)
	}

	srv := httpadapter.NewServer(cfg.HTTPAddr, refresher, refresher, refresher, logger)

	// Start HTTP server.
	go func() {
		if err := srv.Start(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			logger.Error("http server error", "error", err)
		}
	}()

	// Start refresh scheduler.
	go func() {
		if err := scheduler.Run(ctx); err != nil {
			logger.Error("scheduler error", "error", err)
		}
	}()

	<-ctx.Done()
	logger.Info("shutting down")

	shutdownCtx, cancel := context.WithTimeout(context.Background(), cfg.ShutdownTimeout)
	defer cancel()

	if err := srv.Shutdown(shutdownCtx); err != nil {
		logger.Error("http server shutdown error", "error", err)
	}
	if err := writer.Close(); err != nil {
		logger.Error("kafka writer close error", "error", err)
	}
	if err := store.Close(); err != nil {
		logger.Error("snapshot store close error", "error", err)
	}

	logger.Info("shutdown complete")
}
