package forecasting

import (
	"context"
	"easy11ML/domain"
	"errors"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func fixedService(at time.Time) *Service {
	s := NewService()
	s.now = func() time.Time { return at }
	return s
}

func TestForecastDemand_ThirtyIncreasingDays(t *testing.T) {
	start := time.Date(2025, 3, 30, 15, 4, 5, 0, time.UTC)
	res, err := fixedService(start).ForecastDemand(context.Background(), 30, AlgoProphet)
	require.NoError(t, err)

	require.Len(t, res.Forecast, 30)
	assert.Equal(t, "2025-03-30", res.Forecast[0].Date)
	for i := 1; i < len(res.Forecast); i++ {
		prev, err := time.Parse(time.DateOnly, res.Forecast[i-1].Date)
		require.NoError(t, err)
		cur, err := time.Parse(time.DateOnly, res.Forecast[i].Date)
		require.NoError(t, err)
		assert.True(t, cur.After(prev), "dates must strictly increase")
	}
	for _, p := range res.Forecast {
		assert.Less(t, p.LowerBound, p.Value)
		assert.Greater(t, p.UpperBound, p.Value)
	}

	assert.Equal(t, "prophet", res.Algo)
	assert.Equal(t, 30, res.Horizon)
	assert.Len(t, res.Scenarios, 5)
	assert.Equal(t, "high", res.Scenarios[0].InventoryRisk)
	assert.Equal(t, "balanced", res.Scenarios[1].InventoryRisk)
	assert.Equal(t, "balanced", res.Scenarios[2].InventoryRisk)
	assert.Equal(t, "tight", res.Scenarios[3].InventoryRisk)
	assert.Equal(t, 100.0, res.Scenarios[2].RevenueIndex)
	assert.Equal(t, 111.2, res.Scenarios[4].RevenueIndex)
	assert.Equal(t, "prophet-seasonal-v1.3", res.ModelVersions["prophet"])
}

func TestForecastDemand_Deterministic(t *testing.T) {
	at := time.Now()
	a, err := fixedService(at).ForecastDemand(context.Background(), 14, AlgoXGBoost)
	require.NoError(t, err)
	b, err := fixedService(at).ForecastDemand(context.Background(), 14, AlgoXGBoost)
	require.NoError(t, err)
	assert.Equal(t, a.Forecast, b.Forecast)
}

func TestForecastDemand_InvalidHorizon(t *testing.T) {
	for _, h := range []int{0, -3, 366} {
		_, err := NewService().ForecastDemand(context.Background(), h, AlgoProphet)
		assert.True(t, errors.Is(err, domain.ErrInvalidInput), "horizon %d", h)
	}
	_, err := ParseAlgorithm("arima")
	assert.True(t, errors.Is(err, domain.ErrInvalidInput))
}

func TestForecastProduct(t *testing.T) {
	res, err := NewService().ForecastProduct(context.Background(), "prod-1", 10, AlgoProphet)
	require.NoError(t, err)

	assert.Equal(t, "prod-1", res.ProductID)
	assert.Len(t, res.Forecast, 10)
	assert.Equal(t, 0.68, res.Recommendation.Confidence)
	assert.Greater(t, res.Recommendation.RecommendedRestockUnits, 0)
	assert.Greater(t, res.Recommendation.DemandNext7d, res.Recommendation.RecommendedRestockUnits)
	assert.Equal(t, 111.8, res.Scenarios[4].RevenueIndex)

	short, err := NewService().ForecastProduct(context.Background(), "prod-1", 3, AlgoProphet)
	require.NoError(t, err)
	assert.Greater(t, short.Recommendation.DemandNext7d, 0)
}

func TestTrends(t *testing.T) {
	svc := NewService()

	res, err := svc.Trends(context.Background(), "90d")
	require.NoError(t, err)
	assert.Equal(t, "90d", res.Period)
	assert.Equal(t, "increasing", res.Trend)
	assert.Equal(t, "Saturday", res.Seasonality["weekly"].PeakDay)
	assert.Len(t, res.TopDrivers, 3)

	res, err = svc.Trends(context.Background(), "")
	require.NoError(t, err)
	assert.Equal(t, "30d", res.Period)

	unknown, err := svc.Trends(context.Background(), "2w")
	require.NoError(t, err)
	thirty, err := svc.Trends(context.Background(), "30d")
	require.NoError(t, err)
	assert.Equal(t, thirty.GrowthRatePct, unknown.GrowthRatePct)
}
