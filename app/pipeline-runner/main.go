package main

import (
	"context"
	"easy11ML/business/featurestore"
	"easy11ML/business/pipeline"
	"easy11ML/internal/repository/memory"
	"easy11ML/internal/repository/mlflow"
	"easy11ML/internal/repository/offline"
	psqlRepo "easy11ML/internal/repository/postgres"
	redisRepo "easy11ML/internal/repository/redis"
	"easy11ML/internal/repository/tools"
	"easy11ML/pkg/config"
	"easy11ML/pkg/database"
	redisdb "easy11ML/pkg/database/redis"
	"easy11ML/pkg/logger"
	"easy11ML/pkg/metrics"
	"errors"
	"flag"
	"fmt"
	"log"
	"os"
	"os/signal"
	"syscall"

	"github.com/robfig/cron/v3"
)

type flows struct {
	runner  *pipeline.Runner
	etl     *pipeline.ETL
	retrain *pipeline.Retrain
}

func (f *flows) run(ctx context.Context, name string) error {
	switch name {
	case "etl":
		_, _, err := f.runner.Execute(ctx, pipeline.ETLFlow, f.etl.Tasks())
		return err
	case "retrain":
		_, _, err := f.runner.Execute(ctx, pipeline.RetrainFlow, f.retrain.Tasks())
		return err
	case "all":
		if err := f.run(ctx, "etl"); err != nil {
			return err
		}
		return f.run(ctx, "retrain")
	default:
		return fmt.Errorf("unknown flow %q, expected etl, retrain or all", name)
	}
}

func main() {
	flowName := flag.String("flow", "all", "flow to run: etl, retrain or all")
	schedule := flag.Bool("schedule", false, "keep running and trigger flows on their cron schedules")
	flag.Parse()

	cfg, err := config.Load()
	if err != nil {
		log.Fatalf("Failed to load config: %v", err)
	}

	logger.Init(cfg.App.Environment)
	defer logger.Sync()
	metrics.Init()

	registry, err := featurestore.LoadRegistry(cfg.FeatureStore.RegistryPath)
	if err != nil {
		logger.Fatal("Failed to load feature registry", "error", err)
	}

	var (
		online  featurestore.Writer
		pinger  featurestore.Pinger
		runRepo pipeline.RunRepository = memory.NewPipelineRunRepository()
		tracker pipeline.Tracker
	)
	client, err := redisdb.Connect(context.Background(), cfg.Redis, cfg.FeatureStore.Timeout)
	switch {
	case errors.Is(err, redisdb.ErrDisabled):
	case err != nil:
		logger.Warn("Online store unavailable", "error", err)
	default:
		defer redisdb.Close(client)
		repo := redisRepo.NewFeatureRepository(client, registry)
		online, pinger = repo, repo
	}
	if cfg.Database.Enabled {
		db, err := database.InitPostgres(cfg)
		if err != nil {
			logger.Fatal("Failed to connect to database", "error", err)
		}
		if err := psqlRepo.Migrate(db); err != nil {
			logger.Fatal("Failed to migrate database", "error", err)
		}
		runRepo = psqlRepo.NewPipelineRunRepository(db)
	}
	if cfg.MLflow.TrackingURI != "" {
		tracker = mlflow.NewRepository(cfg.MLflow.TrackingURI, nil)
	}

	retrainCfg := pipeline.DefaultRetrainConfig()
	retrainCfg.RegistryPath = cfg.FeatureStore.RegistryPath
	retrainCfg.TrackingURI = cfg.MLflow.TrackingURI
	retrainCfg.Experiment = cfg.MLflow.Experiment

	f := &flows{
		runner: pipeline.NewRunner(runRepo),
		etl: pipeline.NewETL(pipeline.ETLConfig{
			Retries:        uint64(cfg.Pipeline.Retries),
			RetryDelay:     cfg.Pipeline.RetryDelay,
			GreatExpBinary: cfg.Pipeline.GreatExpBinary,
			Checkpoint:     cfg.Pipeline.Checkpoint,
			DbtBinary:      cfg.Pipeline.DbtBinary,
			DbtProfilesDir: cfg.Pipeline.DbtProfilesDir,
			RegistryPath:   cfg.FeatureStore.RegistryPath,
		}, tools.NewCommandRunner(""), offline.NewCSVSource(cfg.FeatureStore.OfflineDataDir), online),
		retrain: pipeline.NewRetrain(retrainCfg, pinger, tracker),
	}

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	if !*schedule {
		if err := f.run(ctx, *flowName); err != nil {
			logger.Error("Pipeline run failed", "flow", *flowName, "error", err)
			logger.Sync()
			os.Exit(1)
		}
		return
	}

	c := cron.New(cron.WithChain(cron.SkipIfStillRunning(cron.DefaultLogger)))
	entries := map[string]string{
		"etl":     cfg.Pipeline.ETLSchedule,
		"retrain": cfg.Pipeline.RetrainSchedule,
	}
	for name, expr := range entries {
		if *flowName != "all" && *flowName != name {
			continue
		}
		if _, err := c.AddFunc(expr, func() {
			if err := f.run(ctx, name); err != nil {
				logger.Error("Scheduled pipeline run failed", "flow", name, "error", err)
			}
		}); err != nil {
			logger.Fatal("Invalid pipeline schedule", "flow", name, "schedule", expr, "error", err)
		}
		logger.Info("Pipeline scheduled", "flow", name, "schedule", expr)
	}

	c.Start()
	<-ctx.Done()

	logger.Info("Stopping pipeline scheduler...")
	<-c.Stop().Done()
	logger.Info("Pipeline scheduler stopped")
}
