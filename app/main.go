package main

import (
	"context"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"os"
	"os/signal"
	"path/filepath"
	"syscall"
	"time"

	"github.com/google/uuid"
	"github.com/lysyi3m/catalog-etl/app/analytics"
	"github.com/lysyi3m/catalog-etl/app/api"
	"github.com/lysyi3m/catalog-etl/app/catalog"
	"github.com/lysyi3m/catalog-etl/app/cfg"
	"github.com/lysyi3m/catalog-etl/app/database"
	"github.com/lysyi3m/catalog-etl/app/docstore"
	"github.com/lysyi3m/catalog-etl/app/loader"
	"github.com/lysyi3m/catalog-etl/app/media"
	"github.com/lysyi3m/catalog-etl/app/pipeline"
	"github.com/lysyi3m/catalog-etl/app/report"
	"gopkg.in/natefinch/lumberjack.v2"
)

func main() {
	os.Exit(run())
}

func run() int {
	config, err := cfg.Load()
	if err != nil {
		fmt.Fprintln(os.Stderr, err)
		return 2
	}
	if config == nil {
		return 0
	}

	logFile := setupLogger(config)
	defer logFile.Close()

	runID := uuid.NewString()
	slog.Info("Starting catalog ETL", "version", config.Version, "run_id", runID)

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	if config.MaxDuration > 0 {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, config.MaxDuration)
		defer cancel()
	}

	categories, err := catalog.LoadCategories(config.CategoriesFile)
	if err != nil {
		slog.Error("Failed to load categories", "path", config.CategoriesFile, "error", err)
		return 1
	}

	db, err := database.NewDB(config.StatePath)
	if err != nil {
		slog.Error("Failed to open state database", "path", config.StatePath, "error", err)
		return 1
	}
	defer db.Close()

	version, dirty, err := database.RunMigrations(db)
	if err != nil {
		slog.Error("Failed to run migrations", "error", err)
		return 1
	}
	slog.Debug("State database ready", "path", config.StatePath, "schema_version", version, "dirty", dirty)

	runRepo := database.NewRunRepository(db)
	fileRepo := database.NewFileRepository(db)

	var cache media.ResultCache
	if config.RedisAddr != "" {
		redisCache, err := media.NewRedisCache(ctx, config.RedisAddr, config.MediaCacheTTL)
		if err != nil {
			slog.Warn("Probe cache unavailable, probing every URL", "addr", config.RedisAddr, "error", err)
		} else {
			defer redisCache.Close()
			cache = redisCache
		}
	}

	verifier := media.NewVerifier(
		media.NewHTTPProber(config.ProbeTimeout, config.UserAgent),
		cache,
		config.Concurrency,
		config.BatchPause,
	)

	runner := pipeline.NewRunner(
		pipeline.Config{
			RunID:     runID,
			InputDir:  config.InputDir,
			OutputDir: config.OutputDir,
			LogsDir:   config.LogsDir,
			Files:     config.Files,
			Force:     config.Force,
		},
		pipeline.Deps{
			OpenSinks: sinkOpener(config),
			Parser:    catalog.NewFilenameParser(categories),
			Verifier:  verifier,
			Files:     fileRepo,
			Runs:      runRepo,
		},
	)

	if config.MetricsAddr != "" {
		server := api.NewServer(config.MetricsAddr, api.NewHandler(runner, runRepo, fileRepo))
		server.Start()
		defer func() {
			shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
			defer cancel()
			if err := server.Shutdown(shutdownCtx); err != nil {
				slog.Error("Metrics server shutdown error", "error", err)
			}
		}()
	}

	summary, err := runner.Run(ctx)
	if err != nil {
		slog.Error("Run failed", "run_id", runID, "state", runner.State(), "error", err)
		return 1
	}

	report.Print(os.Stdout, summary)

	if errors.Is(ctx.Err(), context.DeadlineExceeded) {
		slog.Warn("Run stopped at max duration", "max_duration", config.MaxDuration)
	}
	if summary.FailedFiles > 0 {
		return 1
	}
	return 0
}

// sinkOpener connects the analytics store and, unless skipped, the
// document store. A failure closes whatever was already opened.
func sinkOpener(config *cfg.Cfg) pipeline.SinkOpener {
	return func(ctx context.Context) ([]loader.Sink, error) {
		store, err := analytics.Open(ctx, config.AnalyticsDriver, config.AnalyticsPath)
		if err != nil {
			return nil, err
		}
		sinks := []loader.Sink{store}

		if config.SkipMongo {
			slog.Info("Document store disabled")
			return sinks, nil
		}

		docs, err := docstore.Open(ctx, docstore.Config{
			URI:        config.MongoURI,
			Database:   config.MongoDB,
			Collection: config.MongoCollection,
			BatchSize:  config.DocBatchSize,
		})
		if err != nil {
			store.Close()
			return nil, err
		}

		return append(sinks, docs), nil
	}
}

func setupLogger(config *cfg.Cfg) io.Closer {
	level := slog.LevelInfo
	if config.Debug {
		level = slog.LevelDebug
	}

	logRotator := &lumberjack.Logger{
		Filename:   filepath.Join(config.LogsDir, "catalog-etl.log"),
		MaxSize:    5,
		MaxBackups: 3,
		MaxAge:     30,
		Compress:   true,
	}

	writer := io.MultiWriter(os.Stderr, logRotator)
	opts := &slog.HandlerOptions{Level: level}

	var handler slog.Handler
	if config.LogJSON {
		handler = slog.NewJSONHandler(writer, opts)
	} else {
		handler = slog.NewTextHandler(writer, opts)
	}
	slog.SetDefault(slog.New(handler))

	return logRotator
}
