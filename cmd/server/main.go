package main

import (
	"context"
	"errors"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"strings"
	"syscall"
	"time"

	"github.com/google/uuid"
	"github.com/prometheus/client_golang/prometheus"

	apihttp "abrengine/internal/api/http"
	"abrengine/internal/app"
	"abrengine/internal/control"
	"abrengine/internal/domain"
	"abrengine/internal/forecast/model"
	"abrengine/internal/metrics"
	mongorepo "abrengine/internal/repository/mongo"
	"abrengine/internal/storage/statefile"
	"abrengine/internal/telemetry"
	"abrengine/internal/usecase"

	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"
	"go.mongodb.org/mongo-driver/mongo/readpref"
	"go.opentelemetry.io/contrib/instrumentation/go.mongodb.org/mongo-driver/mongo/otelmongo"
)

func main() {
	cfg := app.LoadConfig()
	logger := newLogger(cfg.LogLevel, cfg.LogFormat)
	slog.SetDefault(logger)
	metrics.Register(prometheus.DefaultRegisterer)

	instanceID := uuid.NewString()
	shutdownTracer, err := telemetry.Init(context.Background(), "abrengine", instanceID)
	if err != nil {
		logger.Warn("otel init failed", slog.String("error", err.Error()))
	}
	defer func() {
		if shutdownTracer != nil {
			_ = shutdownTracer(context.Background())
		}
	}()

	logger.Info("configuration loaded",
		slog.String("service", "abrengine"),
		slog.String("httpAddr", cfg.HTTPAddr),
		slog.String("logLevel", cfg.LogLevel),
		slog.String("logFormat", cfg.LogFormat),
		slog.String("stateDir", cfg.StateDir),
		slog.String("forecastModel", cfg.ForecastModel),
		slog.Int64("cycleIntervalMs", cfg.CycleIntervalMS),
		slog.Bool("archiveEnabled", cfg.MongoURI != ""),
	)

	rootCtx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	// Mongo is optional: without it the engine runs with file persistence
	// only, no durable archive and no persisted tuning.
	var mongoClient *mongo.Client
	var archiveRepo *mongorepo.ViewingHistoryRepository
	var tuningRepo *mongorepo.TuningSettingsRepository
	if cfg.MongoURI != "" {
		connectCtx, cancel := context.WithTimeout(rootCtx, 10*time.Second)
		mongoClient, err = mongorepo.Connect(connectCtx, cfg.MongoURI, options.Client().SetMonitor(otelmongo.NewMonitor()))
		if err != nil {
			cancel()
			logger.Error("mongo connect failed", slog.String("error", err.Error()))
			os.Exit(1)
		}
		if err := mongoClient.Ping(connectCtx, readpref.Primary()); err != nil {
			cancel()
			logger.Error("mongo ping failed", slog.String("error", err.Error()))
			os.Exit(1)
		}

		archiveRepo = mongorepo.NewViewingHistoryRepository(mongoClient, cfg.MongoDatabase)
		tuningRepo = mongorepo.NewTuningSettingsRepository(mongoClient, cfg.MongoDatabase)
		if err := archiveRepo.EnsureIndexes(connectCtx); err != nil {
			logger.Warn("mongo ensure indexes failed", slog.String("error", err.Error()))
		}
		cancel()
	}

	store, err := statefile.New(cfg.StateDir)
	if err != nil {
		logger.Error("state dir init failed", slog.String("error", err.Error()))
		os.Exit(1)
	}

	predictor, err := model.New(cfg.ForecastModel)
	if err != nil {
		logger.Error("forecast model init failed", slog.String("error", err.Error()))
		os.Exit(1)
	}

	var srv *apihttp.Server
	ctrl := control.New(control.Config{
		InstanceID:      instanceID,
		CycleInterval:   time.Duration(cfg.CycleIntervalMS) * time.Millisecond,
		SegmentDuration: cfg.SegmentDurationSec,
		DebounceCycles:  cfg.DebounceCycles,
		Model:           predictor,
		Store:           store,
		Logger:          logger,
		OnPublish: func(snap domain.Snapshot) {
			if srv != nil {
				srv.BroadcastSnapshot(snap)
			}
		},
	})

	if err := ctrl.LoadState(); err != nil {
		logger.Warn("state load failed, starting cold", slog.String("error", err.Error()))
	}

	tuning := app.NewTuningSettingsManager(ctrl, tuningStore(tuningRepo))
	if err := tuning.Hydrate(rootCtx); err != nil {
		logger.Warn("tuning settings load failed", slog.String("error", err.Error()))
	}

	serverOpts := []apihttp.ServerOption{
		apihttp.WithLogger(logger),
		apihttp.WithTuning(tuning),
		apihttp.WithAllowedOrigins(cfg.CORSAllowedOrigins),
	}
	if archiveRepo != nil {
		serverOpts = append(serverOpts, apihttp.WithArchive(archiveRepo))
	}
	srv = apihttp.NewServer(ctrl, serverOpts...)

	ctrl.Start(rootCtx)

	// Background loops: archive drain and periodic state save.
	if archiveRepo != nil {
		archiveUC := usecase.ArchiveViewing{
			Source:   ctrl,
			Archive:  archiveRepo,
			Logger:   logger,
			Interval: time.Duration(cfg.ArchiveIntervalSec) * time.Second,
		}
		go archiveUC.Run(rootCtx)
	}
	autosaveUC := usecase.AutoSave{
		Controller: ctrl,
		Logger:     logger,
		Interval:   time.Duration(cfg.AutosaveIntervalSec) * time.Second,
	}
	go autosaveUC.Run(rootCtx)

	httpServer := &http.Server{
		Addr:              cfg.HTTPAddr,
		Handler:           srv,
		ReadHeaderTimeout: 5 * time.Second,
		ReadTimeout:       15 * time.Second,
		WriteTimeout:      0,
		IdleTimeout:       60 * time.Second,
	}

	errCh := make(chan error, 1)
	go func() {
		errCh <- httpServer.ListenAndServe()
	}()

	logger.Info("server started", slog.String("addr", cfg.HTTPAddr), slog.String("instance", ctrl.ID()))

	select {
	case <-rootCtx.Done():
		logger.Info("shutdown signal received")
	case err := <-errCh:
		if err != nil && !errors.Is(err, http.ErrServerClosed) {
			logger.Error("http server error", slog.String("error", err.Error()))
			os.Exit(1)
		}
	}

	shutdownCtx, shutdownCancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer shutdownCancel()

	ctrl.Stop()
	if err := ctrl.SaveState(); err != nil {
		logger.Warn("final state save failed", slog.String("error", err.Error()))
	}
	srv.Close()
	if err := httpServer.Shutdown(shutdownCtx); err != nil {
		logger.Warn("http shutdown error", slog.String("error", err.Error()))
	}
	if mongoClient != nil {
		if err := mongoClient.Disconnect(context.Background()); err != nil {
			logger.Warn("mongo disconnect error", slog.String("error", err.Error()))
		}
	}

	logger.Info("server stopped")
}

// tuningStore widens a possibly-nil concrete repository into the manager's
// store interface without producing a non-nil interface holding a nil pointer.
func tuningStore(repo *mongorepo.TuningSettingsRepository) app.TuningStore {
	if repo == nil {
		return nil
	}
	return repo
}

func newLogger(levelRaw, formatRaw string) *slog.Logger {
	level := parseLogLevel(levelRaw)
	options := &slog.HandlerOptions{Level: level}
	format := strings.ToLower(strings.TrimSpace(formatRaw))
	if format == "json" {
		return slog.New(slog.NewJSONHandler(os.Stdout, options))
	}
	return slog.New(slog.NewTextHandler(os.Stdout, options))
}

func parseLogLevel(raw string) slog.Level {
	switch strings.ToLower(strings.TrimSpace(raw)) {
	case "debug":
		return slog.LevelDebug
	case "warn", "warning":
		return slog.LevelWarn
	case "error":
		return slog.LevelError
	default:
		return slog.LevelInfo
	}
}
