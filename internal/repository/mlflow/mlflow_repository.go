// Package mlflow talks to an MLflow tracking server over its REST API.
package mlflow

import (
	"bytes"
	"context"
	"easy11ML/business/pipeline"
	"errors"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"sort"
	"strings"
	"time"

	"github.com/goccy/go-json"
)

const DefaultTimeout = 15 * time.Second

var errNotFound = errors.New("resource does not exist")

type Repository struct {
	baseURL string
	client  *http.Client
	now     func() time.Time
}

var _ pipeline.Tracker = (*Repository)(nil)

func NewRepository(trackingURI string, client *http.Client) *Repository {
	if client == nil {
		client = &http.Client{Timeout: DefaultTimeout}
	}
	return &Repository{
		baseURL: strings.TrimRight(trackingURI, "/"),
		client:  client,
		now:     time.Now,
	}
}

type apiError struct {
	ErrorCode string `json:"error_code"`
	Message   string `json:"message"`
}

type keyValue struct {
	Key   string `json:"key"`
	Value string `json:"value"`
}

type metric struct {
	Key       string  `json:"key"`
	Value     float64 `json:"value"`
	Timestamp int64   `json:"timestamp"`
	Step      int64   `json:"step"`
}

// SetExperiment returns the id of the named experiment, creating it when missing.
func (r *Repository) SetExperiment(ctx context.Context, name string) (string, error) {
	if err := ctx.Err(); err != nil {
		return "", fmt.Errorf("context error: %w", err)
	}

	var found struct {
		Experiment struct {
			ExperimentID string `json:"experiment_id"`
		} `json:"experiment"`
	}
	err := r.do(ctx, http.MethodGet, "/api/2.0/mlflow/experiments/get-by-name?experiment_name="+url.QueryEscape(name), nil, &found)
	if err == nil {
		return found.Experiment.ExperimentID, nil
	}
	if !errors.Is(err, errNotFound) {
		return "", fmt.Errorf("failed to get experiment: %w", err)
	}

	var created struct {
		ExperimentID string `json:"experiment_id"`
	}
	if err := r.do(ctx, http.MethodPost, "/api/2.0/mlflow/experiments/create", map[string]string{"name": name}, &created); err != nil {
		return "", fmt.Errorf("failed to create experiment: %w", err)
	}
	return created.ExperimentID, nil
}

// LogRun creates a run, logs params and metrics in one batch and marks it finished.
func (r *Repository) LogRun(ctx context.Context, experimentID, runName string, tags, params map[string]string, metrics map[string]float64) error {
	if err := ctx.Err(); err != nil {
		return fmt.Errorf("context error: %w", err)
	}

	now := r.now().UnixMilli()

	var created struct {
		Run struct {
			Info struct {
				RunID string `json:"run_id"`
			} `json:"info"`
		} `json:"run"`
	}
	createReq := map[string]any{
		"experiment_id": experimentID,
		"run_name":      runName,
		"start_time":    now,
		"tags":          toKeyValues(tags),
	}
	if err := r.do(ctx, http.MethodPost, "/api/2.0/mlflow/runs/create", createReq, &created); err != nil {
		return fmt.Errorf("failed to create run: %w", err)
	}
	runID := created.Run.Info.RunID

	keys := make([]string, 0, len(metrics))
	for k := range metrics {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	batch := make([]metric, 0, len(keys))
	for _, k := range keys {
		batch = append(batch, metric{Key: k, Value: metrics[k], Timestamp: now})
	}

	batchReq := map[string]any{
		"run_id":  runID,
		"params":  toKeyValues(params),
		"metrics": batch,
	}
	if err := r.do(ctx, http.MethodPost, "/api/2.0/mlflow/runs/log-batch", batchReq, nil); err != nil {
		return fmt.Errorf("failed to log run %s: %w", runID, err)
	}

	updateReq := map[string]any{
		"run_id":   runID,
		"status":   "FINISHED",
		"end_time": r.now().UnixMilli(),
	}
	if err := r.do(ctx, http.MethodPost, "/api/2.0/mlflow/runs/update", updateReq, nil); err != nil {
		return fmt.Errorf("failed to finish run %s: %w", runID, err)
	}

	return nil
}

func (r *Repository) do(ctx context.Context, method, path string, body, out any) error {
	var reader io.Reader
	if body != nil {
		raw, err := json.Marshal(body)
		if err != nil {
			return fmt.Errorf("marshal request: %w", err)
		}
		reader = bytes.NewReader(raw)
	}

	req, err := http.NewRequestWithContext(ctx, method, r.baseURL+path, reader)
	if err != nil {
		return fmt.Errorf("create request: %w", err)
	}
	if body != nil {
		req.Header.Set("Content-Type", "application/json")
	}

	resp, err := r.client.Do(req)
	if err != nil {
		return fmt.Errorf("http request: %w", err)
	}
	defer resp.Body.Close()

	respBody, err := io.ReadAll(resp.Body)
	if err != nil {
		return fmt.Errorf("read response: %w", err)
	}

	if resp.StatusCode != http.StatusOK {
		var apiErr apiError
		_ = json.Unmarshal(respBody, &apiErr)
		if apiErr.ErrorCode == "RESOURCE_DOES_NOT_EXIST" {
			return errNotFound
		}
		return fmt.Errorf("mlflow returned %d: %s %s", resp.StatusCode, apiErr.ErrorCode, apiErr.Message)
	}

	if out == nil {
		return nil
	}
	if err := json.Unmarshal(respBody, out); err != nil {
		return fmt.Errorf("decode response: %w", err)
	}
	return nil
}

func toKeyValues(m map[string]string) []keyValue {
	out := make([]keyValue, 0, len(m))
	for k, v := range m {
		out = append(out, keyValue{Key: k, Value: v})
	}
	sort.Slice(out, func(i, j int) bool { return out[i].Key < out[j].Key })
	return out
}
