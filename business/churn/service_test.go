package churn

import (
	"context"
	"easy11ML/domain"
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestPredict(t *testing.T) {
	svc := NewService()

	p, err := svc.Predict(context.Background(), "u1", nil)
	require.NoError(t, err)
	assert.Equal(t, "u1", p.UserID)
	assert.Equal(t, 0.25, p.ChurnProbability)
	assert.Equal(t, "low", p.RiskLevel)
	assert.Len(t, p.KeyFactors, 3)

	p, err = svc.Predict(context.Background(), "", map[string]any{"recency_days": 40})
	require.NoError(t, err)
	assert.Equal(t, "unknown", p.UserID)

	_, err = svc.Predict(context.Background(), "", nil)
	assert.True(t, errors.Is(err, domain.ErrInvalidInput))
}

func TestRiskLevel(t *testing.T) {
	assert.Equal(t, "high", RiskLevel(0.7))
	assert.Equal(t, "medium", RiskLevel(0.4))
	assert.Equal(t, "medium", RiskLevel(0.69))
	assert.Equal(t, "low", RiskLevel(0.39))
}

func TestPredictBatch(t *testing.T) {
	svc := NewService()

	res, err := svc.PredictBatch(context.Background(), []string{"a", "b"})
	require.NoError(t, err)
	assert.Len(t, res, 2)
	assert.Equal(t, "b", res["b"].UserID)

	res, err = svc.PredictBatch(context.Background(), []string{"a", ""})
	assert.Error(t, err)
	assert.Nil(t, res)
}

func TestAtRisk(t *testing.T) {
	svc := NewService()

	all, err := svc.AtRisk(context.Background(), 100, 0.7)
	require.NoError(t, err)
	require.Len(t, all, 10)
	assert.Equal(t, "user-0", all[0].UserID)
	assert.Equal(t, 0.85, all[0].ChurnProbability)
	assert.Equal(t, 0.76, all[9].ChurnProbability)

	some, err := svc.AtRisk(context.Background(), 100, 0.8)
	require.NoError(t, err)
	assert.Len(t, some, 6)

	few, err := svc.AtRisk(context.Background(), 3, 0)
	require.NoError(t, err)
	assert.Len(t, few, 3)

	_, err = svc.AtRisk(context.Background(), 0, 0.7)
	assert.True(t, errors.Is(err, domain.ErrInvalidInput))
	_, err = svc.AtRisk(context.Background(), 5, 1.5)
	assert.True(t, errors.Is(err, domain.ErrInvalidInput))
}
