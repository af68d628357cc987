package mlflow

import (
	"context"
	"io"
	"net/http"
	"net/http/httptest"
	"sync"
	"testing"

	"github.com/goccy/go-json"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type fakeServer struct {
	mu          sync.Mutex
	experiments map[string]string
	calls       []string
	batches     []map[string]any
}

func (f *fakeServer) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.calls = append(f.calls, r.Method+" "+r.URL.Path)

	body, _ := io.ReadAll(r.Body)
	var req map[string]any
	_ = json.Unmarshal(body, &req)

	switch r.URL.Path {
	case "/api/2.0/mlflow/experiments/get-by-name":
		id, ok := f.experiments[r.URL.Query().Get("experiment_name")]
		if !ok {
			w.WriteHeader(http.StatusNotFound)
			_, _ = w.Write([]byte(`{"error_code":"RESOURCE_DOES_NOT_EXIST","message":"no such experiment"}`))
			return
		}
		_, _ = w.Write([]byte(`{"experiment":{"experiment_id":"` + id + `"}}`))
	case "/api/2.0/mlflow/experiments/create":
		f.experiments[req["name"].(string)] = "42"
		_, _ = w.Write([]byte(`{"experiment_id":"42"}`))
	case "/api/2.0/mlflow/runs/create":
		_, _ = w.Write([]byte(`{"run":{"info":{"run_id":"run-1"}}}`))
	case "/api/2.0/mlflow/runs/log-batch":
		f.batches = append(f.batches, req)
		_, _ = w.Write([]byte(`{}`))
	case "/api/2.0/mlflow/runs/update":
		_, _ = w.Write([]byte(`{}`))
	default:
		w.WriteHeader(http.StatusInternalServerError)
		_, _ = w.Write([]byte(`{"error_code":"INTERNAL_ERROR","message":"unexpected path"}`))
	}
}

func TestSetExperiment_CreatesWhenMissing(t *testing.T) {
	fake := &fakeServer{experiments: map[string]string{}}
	srv := httptest.NewServer(fake)
	defer srv.Close()

	repo := NewRepository(srv.URL+"/", srv.Client())

	id, err := repo.SetExperiment(context.Background(), "easy11-ml")
	require.NoError(t, err)
	assert.Equal(t, "42", id)

	id, err = repo.SetExperiment(context.Background(), "easy11-ml")
	require.NoError(t, err)
	assert.Equal(t, "42", id)
	assert.Equal(t, []string{
		"GET /api/2.0/mlflow/experiments/get-by-name",
		"POST /api/2.0/mlflow/experiments/create",
		"GET /api/2.0/mlflow/experiments/get-by-name",
	}, fake.calls)
}

func TestLogRun(t *testing.T) {
	fake := &fakeServer{experiments: map[string]string{}}
	srv := httptest.NewServer(fake)
	defer srv.Close()

	repo := NewRepository(srv.URL, srv.Client())
	err := repo.LogRun(context.Background(), "42", "churn-churn_xgboost_v1.5",
		map[string]string{"model_domain": "churn"},
		map[string]string{"model": "churn_xgboost_v1.5"},
		map[string]float64{"auc": 0.83, "precision": 0.75},
	)
	require.NoError(t, err)

	require.Len(t, fake.batches, 1)
	batch := fake.batches[0]
	assert.Equal(t, "run-1", batch["run_id"])
	metrics := batch["metrics"].([]any)
	require.Len(t, metrics, 2)
	assert.Equal(t, "auc", metrics[0].(map[string]any)["key"])
	assert.Equal(t, 0.83, metrics[0].(map[string]any)["value"])
	assert.Equal(t, "POST /api/2.0/mlflow/runs/update", fake.calls[len(fake.calls)-1])
}

func TestServerError(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		w.WriteHeader(http.StatusServiceUnavailable)
	}))
	defer srv.Close()

	_, err := NewRepository(srv.URL, srv.Client()).SetExperiment(context.Background(), "x")
	require.Error(t, err)
	assert.Contains(t, err.Error(), "503")
}
