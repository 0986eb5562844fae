package main

import (
	"context"
	"flag"
	"os"
	"os/signal"
	"syscall"

	"github.com/mwaldt/cfpbflow/internal/archive"
	"github.com/mwaldt/cfpbflow/internal/config"
	"github.com/mwaldt/cfpbflow/internal/domain"
	"github.com/mwaldt/cfpbflow/internal/logger"
	"github.com/mwaldt/cfpbflow/internal/pipeline"
	"github.com/mwaldt/cfpbflow/internal/repository"
	"github.com/mwaldt/cfpbflow/internal/source"
	"github.com/mwaldt/cfpbflow/internal/source/cfpb"
	"github.com/mwaldt/cfpbflow/internal/state"
	"github.com/mwaldt/cfpbflow/internal/transform"
)

func main() {
	// Initialize logger first (with defaults)
	appLogger := logger.New(&logger.Config{
		Level:       "info",
		Format:      "json",
		ServiceName: "cfpbflow-pipeline",
	})
	logger.SetDefaultLogger(appLogger)

	// Parse command line flags
	resetState := flag.Bool("reset-state", false, "Clear the checkpoint before computing the load window")
	dryRun := flag.Bool("dry-run", false, "Compute and log the window without extracting or loading")
	configPath := flag.String("config", "", "Path to config file")
	flag.Parse()

	// Load configuration
	cfg, err := config.Load(*configPath)
	if err != nil {
		appLogger.WithError(err).Fatal("Failed to load config")
	}

	// Validate pipeline settings before any I/O
	today := domain.Today(nil)
	startDate, err := cfg.Pipeline.Validate(today)
	if err != nil {
		appLogger.WithError(err).Fatal("Invalid pipeline configuration")
	}

	appLogger.WithFields(logger.Fields{
		"start_date": startDate.String(),
		"companies":  len(cfg.Pipeline.Companies),
		"reset":      *resetState,
		"dry_run":    *dryRun,
	}).Info("Starting pipeline run")

	// Initialize database
	db, err := repository.InitDB(&cfg.Database)
	if err != nil {
		appLogger.WithError(err).Fatal("Failed to initialize database")
	}

	// Initialize collaborators
	complaintRepo := repository.NewComplaintRepository(db)
	runRepo := repository.NewRunRepository(db)
	stateStore := state.NewFileStore(cfg.Pipeline.StatePath)

	var extractor source.Source = cfpb.NewClient(&cfpb.Config{
		BaseURL:    cfg.CFPB.BaseURL,
		PageSize:   cfg.CFPB.PageSize,
		Timeout:    cfg.CFPB.Timeout,
		RetryCount: cfg.CFPB.RetryCount,
	})
	appLogger.WithField("source", extractor.GetSourceID()).
		Info("Extracting from " + extractor.GetDisplayName())

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	// Optional raw-batch archive in front of the database loader
	var loader pipeline.Loader = complaintRepo
	if cfg.Archive.Enabled {
		objectStorage, err := archive.NewS3Storage(&archive.S3Config{
			Endpoint:  cfg.Archive.Endpoint,
			AccessKey: cfg.Archive.AccessKey,
			SecretKey: cfg.Archive.SecretKey,
			UseSSL:    cfg.Archive.UseSSL,
			Bucket:    cfg.Archive.Bucket,
			Region:    cfg.Archive.Region,
			PublicURL: cfg.Archive.PublicURL,
		})
		if err != nil {
			appLogger.WithError(err).Fatal("Failed to initialize archive storage")
		}
		if err := objectStorage.EnsureBucket(ctx); err != nil {
			appLogger.WithError(err).Fatal("Failed to ensure archive bucket")
		}
		loader = archive.NewArchivingLoader(objectStorage, loader)
	}

	runner := pipeline.NewRunner(pipeline.RunnerDeps{
		Settings: pipeline.Settings{
			StartDate: startDate,
			Companies: cfg.Pipeline.Companies,
		},
		Store:       stateStore,
		Extractor:   extractor,
		Loader:      loader,
		Transformer: transform.NewTransformer(db),
		Recorder:    runRepo,
		Logger:      appLogger,
	})

	// Handle graceful shutdown
	sigChan := make(chan os.Signal, 1)
	signal.Notify(sigChan, syscall.SIGINT, syscall.SIGTERM)
	go func() {
		<-sigChan
		appLogger.Info("Received shutdown signal, canceling...")
		cancel()
	}()

	// Run the pipeline
	stats, err := runner.Run(ctx, pipeline.RunOptions{
		Reset:  *resetState,
		DryRun: *dryRun,
	})
	if err != nil {
		appLogger.WithError(err).Fatal("Pipeline run failed")
	}

	fields := logger.Fields{
		"run_id":  stats.RunID,
		"status":  string(stats.Status),
		"records": stats.LoadedRecords,
	}
	if stats.Window != nil {
		fields["window"] = stats.Window.String()
	}
	appLogger.WithFields(fields).Info("Pipeline run completed")
}
