package pipeline

import (
	"context"
	"easy11ML/business/featurestore"
	"easy11ML/pkg/logger"
	"errors"
	"fmt"
	"time"

	"golang.org/x/sync/errgroup"
)

const RetrainFlow = "easy11_ml_retrain"

// Tracker is the experiment tracking backend models are registered in.
type Tracker interface {
	SetExperiment(ctx context.Context, name string) (string, error)
	LogRun(ctx context.Context, experimentID, runName string, tags, params map[string]string, metrics map[string]float64) error
}

type RetrainConfig struct {
	ExtractRetries    uint64
	ExtractRetryDelay time.Duration
	RegistryPath      string
	TrackingURI       string
	Experiment        string
}

func DefaultRetrainConfig() RetrainConfig {
	return RetrainConfig{
		ExtractRetries:    2,
		ExtractRetryDelay: 5 * time.Minute,
		Experiment:        "easy11-ml",
	}
}

// TrainedModel is the outcome of one training job.
type TrainedModel struct {
	Domain  string
	Model   string
	Metrics map[string]float64
}

type trainingSet struct {
	users, interactions int
	customers, features int
	days, products      int
}

type Retrain struct {
	cfg     RetrainConfig
	online  featurestore.Pinger
	tracker Tracker
}

// NewRetrain accepts nil online store and tracker; the matching steps then report
// the gap and the flow proceeds.
func NewRetrain(cfg RetrainConfig, online featurestore.Pinger, tracker Tracker) *Retrain {
	return &Retrain{cfg: cfg, online: online, tracker: tracker}
}

func (r *Retrain) Tasks() []Task {
	var (
		data         trainingSet
		models       []TrainedModel
		experimentID string
	)

	return []Task{
		{
			Name:       "extract_training_data",
			Retries:    r.cfg.ExtractRetries,
			RetryDelay: r.cfg.ExtractRetryDelay,
			Run: func(context.Context) (map[string]any, error) {
				data = trainingSet{
					users: 1000, interactions: 50000,
					customers: 5000, features: 20,
					days: 365, products: 100,
				}
				return map[string]any{
					"recommendations": map[string]int{"users": data.users, "interactions": data.interactions},
					"churn":           map[string]int{"customers": data.customers, "features": data.features},
					"forecasting":     map[string]int{"days": data.days, "products": data.products},
				}, nil
			},
		},
		{
			Name:     "verify_feature_store_connection",
			Optional: true,
			Run:      r.verifyFeatureStore,
		},
		{
			Name: "train_models",
			Run: func(ctx context.Context) (map[string]any, error) {
				trained, err := train(ctx, data)
				if err != nil {
					return nil, err
				}
				models = trained
				out := make(map[string]any, len(trained))
				for _, m := range trained {
					out[m.Domain] = m.Model
				}
				return out, nil
			},
		},
		{
			Name:     "configure_tracker",
			Optional: true,
			Run: func(ctx context.Context) (map[string]any, error) {
				id, err := r.configureTracker(ctx)
				if err != nil {
					return nil, err
				}
				experimentID = id
				return map[string]any{"tracking_uri": r.cfg.TrackingURI, "experiment_id": id}, nil
			},
		},
		{
			Name: "register_models",
			Run: func(ctx context.Context) (map[string]any, error) {
				return r.register(ctx, experimentID, models), nil
			},
		},
		{
			Name: "deploy_models",
			Run: func(context.Context) (map[string]any, error) {
				deployed := make([]string, 0, len(models))
				for _, m := range models {
					logger.Info("model deployed", "domain", m.Domain, "model", m.Model)
					deployed = append(deployed, m.Domain)
				}
				return map[string]any{"status": "success", "deployed": deployed}, nil
			},
		},
	}
}

func (r *Retrain) verifyFeatureStore(ctx context.Context) (map[string]any, error) {
	reg, err := featurestore.LoadRegistry(r.cfg.RegistryPath)
	if err != nil {
		return nil, err
	}
	if r.online == nil {
		return nil, errors.New("no online store configured, training on cached data")
	}
	if err := r.online.Ping(ctx); err != nil {
		return nil, fmt.Errorf("online store unreachable: %w", err)
	}
	return map[string]any{"status": "connected", "feature_views": reg.ListFeatureViews()}, nil
}

func (r *Retrain) configureTracker(ctx context.Context) (string, error) {
	if r.tracker == nil || r.cfg.TrackingURI == "" {
		return "", errors.New("tracking uri not configured")
	}
	id, err := r.tracker.SetExperiment(ctx, r.cfg.Experiment)
	if err != nil {
		return "", fmt.Errorf("set experiment %s: %w", r.cfg.Experiment, err)
	}
	logger.Info("experiment ready", "experiment", r.cfg.Experiment, "experiment_id", id)
	return id, nil
}

// register logs every model as its own run; a failing model does not stop the others.
func (r *Retrain) register(ctx context.Context, experimentID string, models []TrainedModel) map[string]any {
	if experimentID == "" {
		logger.Warn("skipping model registration, tracker not configured")
		return map[string]any{"status": "skipped"}
	}

	logged := 0
	for _, m := range models {
		runName := m.Domain + "-" + m.Model
		tags := map[string]string{"model_domain": m.Domain}
		params := map[string]string{"model": m.Model}
		if err := r.tracker.LogRun(ctx, experimentID, runName, tags, params, m.Metrics); err != nil {
			logger.Warn("failed to log model run", "domain", m.Domain, "run", runName, "error", err)
			continue
		}
		logged++
	}
	return map[string]any{"status": "success", "logged": logged}
}

func train(ctx context.Context, data trainingSet) ([]TrainedModel, error) {
	jobs := []func(trainingSet) TrainedModel{
		trainRecommendation,
		trainChurn,
		trainForecasting,
	}

	out := make([]TrainedModel, len(jobs))
	g, gctx := errgroup.WithContext(ctx)
	for i, job := range jobs {
		g.Go(func() error {
			if err := gctx.Err(); err != nil {
				return err
			}
			out[i] = job(data)
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		return nil, fmt.Errorf("training: %w", err)
	}

	return out, nil
}

func trainRecommendation(d trainingSet) TrainedModel {
	logger.Info("training recommendation model", "users", d.users, "interactions", d.interactions)
	return TrainedModel{
		Domain:  "recommendations",
		Model:   "als_v2.0",
		Metrics: map[string]float64{"hit_rate": 0.24, "precision": 0.45},
	}
}

func trainChurn(d trainingSet) TrainedModel {
	logger.Info("training churn model", "customers", d.customers, "features", d.features)
	return TrainedModel{
		Domain:  "churn",
		Model:   "churn_xgboost_v1.5",
		Metrics: map[string]float64{"auc": 0.83, "precision": 0.75},
	}
}

func trainForecasting(d trainingSet) TrainedModel {
	logger.Info("training forecasting model", "days", d.days, "products", d.products)
	return TrainedModel{
		Domain:  "forecasting",
		Model:   "prophet_forecast_v2.0",
		Metrics: map[string]float64{"smape": 12.5, "rmse": 150.3},
	}
}
