package pipeline

import (
	"context"
	"easy11ML/business/featurestore"
	"easy11ML/pkg/logger"
	"fmt"
	"time"
)

const ETLFlow = "easy11_daily_etl"

// CommandRunner executes an external tool; a non-zero exit is returned as an error.
type CommandRunner interface {
	Run(ctx context.Context, name string, args ...string) (string, error)
}

// OfflineStore is the batch side of the feature store.
type OfflineStore interface {
	featurestore.OfflineSource
	CountRows(ctx context.Context, src featurestore.FileSource) (int, error)
}

type ETLConfig struct {
	Retries        uint64
	RetryDelay     time.Duration
	GreatExpBinary string
	Checkpoint     string
	DbtBinary      string
	DbtProfilesDir string
	// RegistryPath is re-read by the apply step; empty means the embedded registry.
	RegistryPath string
}

type ETL struct {
	cfg      ETLConfig
	commands CommandRunner
	offline  OfflineStore
	online   featurestore.Writer
	now      func() time.Time
}

func NewETL(cfg ETLConfig, commands CommandRunner, offline OfflineStore, online featurestore.Writer) *ETL {
	return &ETL{
		cfg:      cfg,
		commands: commands,
		offline:  offline,
		online:   online,
		now:      time.Now,
	}
}

// Tasks returns the flow in execution order. Each call carries its own state.
func (e *ETL) Tasks() []Task {
	var registry *featurestore.Registry

	return []Task{
		{
			Name:       "extract_oltp_data",
			Retries:    e.cfg.Retries,
			RetryDelay: e.cfg.RetryDelay,
			Run:        e.extract,
		},
		{
			Name: "validate_data_quality",
			Run: func(ctx context.Context) (map[string]any, error) {
				return e.command(ctx, "data quality validation", e.cfg.GreatExpBinary, "checkpoint", "run", e.cfg.Checkpoint)
			},
		},
		{
			Name: "transform_with_dbt",
			Run: func(ctx context.Context) (map[string]any, error) {
				return e.command(ctx, "dbt transformation", e.cfg.DbtBinary, "run", "--profiles-dir", e.cfg.DbtProfilesDir)
			},
		},
		{
			// dbt already wrote the warehouse tables
			Name: "load_to_warehouse",
			Run: func(context.Context) (map[string]any, error) {
				return map[string]any{"status": "success"}, nil
			},
		},
		{
			Name: "apply_feature_store_definitions",
			Run: func(context.Context) (map[string]any, error) {
				reg, err := featurestore.LoadRegistry(e.cfg.RegistryPath)
				if err != nil {
					return nil, fmt.Errorf("feature definitions rejected: %w", err)
				}
				registry = reg
				return map[string]any{"project": reg.Project, "feature_views": reg.ListFeatureViews()}, nil
			},
		},
		{
			Name: "materialize_feature_store",
			Run: func(ctx context.Context) (map[string]any, error) {
				if e.online == nil {
					return nil, fmt.Errorf("no online store configured")
				}
				end := e.now().UTC()
				counts, err := featurestore.NewMaterializer(registry, e.offline, e.online).MaterializeIncremental(ctx, end)
				if err != nil {
					return nil, fmt.Errorf("materialization failed: %w", err)
				}
				out := map[string]any{"end": end.Format("2006-01-02T15:04:05")}
				for view, n := range counts {
					out[view] = n
				}
				return out, nil
			},
		},
		{
			Name:     "generate_documentation",
			Optional: true,
			Run: func(ctx context.Context) (map[string]any, error) {
				return e.command(ctx, "dbt docs", e.cfg.DbtBinary, "docs", "generate", "--profiles-dir", e.cfg.DbtProfilesDir)
			},
		},
	}
}

func (e *ETL) extract(ctx context.Context) (map[string]any, error) {
	reg, err := featurestore.LoadRegistry(e.cfg.RegistryPath)
	if err != nil {
		return nil, err
	}

	total := 0
	perSource := make(map[string]any, len(reg.Sources))
	for _, src := range reg.Sources {
		n, err := e.offline.CountRows(ctx, src)
		if err != nil {
			return nil, fmt.Errorf("count %s: %w", src.Name, err)
		}
		perSource[src.Name] = n
		total += n
	}

	logger.Info("extracted offline records", "records", total)
	return map[string]any{"status": "success", "records": total, "sources": perSource}, nil
}

func (e *ETL) command(ctx context.Context, what, name string, args ...string) (map[string]any, error) {
	out, err := e.commands.Run(ctx, name, args...)
	if err != nil {
		logger.Debug("command output", "command", name, "output", out)
		return nil, fmt.Errorf("%s failed: %w", what, err)
	}
	return map[string]any{"command": name, "args": args}, nil
}
