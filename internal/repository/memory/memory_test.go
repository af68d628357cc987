package memory

import (
	"context"
	"easy11ML/domain"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestAuditRepository_Ordering(t *testing.T) {
	ctx := context.Background()
	repo := NewAuditRepository()

	now := time.Now()
	entries := []domain.AuditLogEntry{
		{Timestamp: now.Add(-2 * time.Hour), Action: "a"},
		{Timestamp: now, Action: "b"},
		{Timestamp: now, Action: "c"},
		{Timestamp: now.Add(-time.Hour), Action: "d"},
	}
	for i := range entries {
		require.NoError(t, repo.Create(ctx, &entries[i]))
	}

	got, err := repo.ListRecent(ctx, 3)
	require.NoError(t, err)
	require.Len(t, got, 3)
	assert.Equal(t, []string{"c", "b", "d"}, []string{got[0].Action, got[1].Action, got[2].Action})

	n, err := repo.Count(ctx)
	require.NoError(t, err)
	assert.Equal(t, int64(4), n)
}

func TestPipelineRunRepository_LatestRuns(t *testing.T) {
	ctx := context.Background()
	repo := NewPipelineRunRepository()

	now := time.Now()
	require.NoError(t, repo.SaveRun(ctx, &domain.PipelineRun{ID: "1", Flow: "etl", Status: domain.RunStatusRunning, StartedAt: now.Add(-time.Hour)}))
	require.NoError(t, repo.SaveRun(ctx, &domain.PipelineRun{ID: "2", Flow: "etl", Status: domain.RunStatusSucceeded, StartedAt: now}))
	require.NoError(t, repo.SaveRun(ctx, &domain.PipelineRun{ID: "1", Flow: "etl", Status: domain.RunStatusFailed, StartedAt: now.Add(-time.Hour)}))
	require.NoError(t, repo.SaveRun(ctx, &domain.PipelineRun{ID: "3", Flow: "retrain", StartedAt: now}))

	runs, err := repo.LatestRuns(ctx, "etl", 0)
	require.NoError(t, err)
	require.Len(t, runs, 2)
	assert.Equal(t, "2", runs[0].ID)
	assert.Equal(t, domain.RunStatusFailed, runs[1].Status)
}
