package pricing

import (
	"context"
	"easy11ML/business/featurestore"
	"easy11ML/domain"
	"errors"
	"math"
	"testing"

	"github.com/goccy/go-json"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type stubStore struct {
	values map[string]float64
	err    error
}

func (s stubStore) GetOnlineFeatures(_ context.Context, refs []string, rows []featurestore.EntityRow) (*featurestore.OnlineResponse, error) {
	if s.err != nil {
		return nil, s.err
	}
	resp := featurestore.NewOnlineResponse(len(rows))
	for _, raw := range refs {
		ref, _ := featurestore.ParseRef(raw)
		if v, ok := s.values[ref.Feature]; ok {
			resp.Set(ref.Column(), 0, v)
		}
	}
	return resp, nil
}

type memAudit struct {
	entries []domain.AuditLogEntry
}

func (m *memAudit) RecordAudit(_ context.Context, e domain.AuditLogEntry) (domain.AuditLogEntry, error) {
	m.entries = append(m.entries, e)
	return e, nil
}

func ptr(v float64) *float64 { return &v }

func TestRecommendPrice_BalancedExample(t *testing.T) {
	svc := NewService(nil, nil)

	rec, err := svc.RecommendPrice(context.Background(), domain.PriceRequest{
		ProductID:    "p1",
		CurrentPrice: 100,
		CostPrice:    ptr(60),
		Strategy:     "balanced",
	})
	require.NoError(t, err)

	assert.Equal(t, 75.0, rec.Guardrails.MinPrice)
	assert.Equal(t, 125.0, rec.Guardrails.MaxPrice)
	assert.GreaterOrEqual(t, rec.RecommendedPrice, 75.0)
	assert.LessOrEqual(t, rec.RecommendedPrice, 125.0)

	assert.Equal(t, 104.0, rec.RecommendedPrice)
	assert.Equal(t, 4.0, rec.SuggestedAdjustmentPct)
	assert.Equal(t, 1.206, rec.ElasticityEstimate)
	assert.Equal(t, -4.82, rec.ExpectedDemandChangePct)
	assert.Equal(t, 0.95, rec.Confidence)
	assert.Equal(t, "unknown", rec.VendorID)
	assert.Equal(t, "USD", rec.Currency)
	assert.Equal(t, ModelVersion, rec.ModelVersion)
	assert.Len(t, rec.Scenarios, 5)
	assert.Equal(t, 90.0, rec.Scenarios[0].Price)
	assert.Equal(t, 0.0, rec.Scenarios[2].PriceDeltaPct)
	assert.Equal(t, 40.0, rec.Scenarios[2].MarginPct)
	assert.Contains(t, rec.Explanation, "Suggested increase of 4.0%")
	assert.Contains(t, rec.Explanation, "Balanced strategy weighs revenue uplift")
	assert.Equal(t, []string{"Monitor results over the next week and recalibrate if demand shifts."}, rec.RecommendedActions)
}

func TestRecommendPrice_GuardrailsAlwaysHold(t *testing.T) {
	signalSets := []map[string]float64{
		nil,
		{"stock_velocity": 0.05, "return_rate": 0.2, "views_7d": 10000, "add_to_cart_7d": 0},
		{"conversion_rate": 0.01, "stock_velocity": 0.99, "views_7d": 1, "add_to_cart_7d": 500},
	}
	prices := []float64{0.01, 1, 19.99, 100, 12345.67}
	costRatios := []float64{0, 0.3, 0.9, 1.4, 3}
	strategies := []string{"balanced", "growth", "margin"}

	for _, sig := range signalSets {
		svc := NewService(stubStore{values: sig}, nil)
		for _, p := range prices {
			for _, ratio := range costRatios {
				var cost *float64
				if ratio > 0 {
					cost = ptr(p * ratio)
				}
				for _, st := range strategies {
					rec, err := svc.RecommendPrice(context.Background(), domain.PriceRequest{
						ProductID: "p", CurrentPrice: p, CostPrice: cost, Strategy: st,
					})
					require.NoError(t, err)
					assert.LessOrEqual(t, rec.Guardrails.MinPrice, rec.RecommendedPrice)
					assert.LessOrEqual(t, rec.RecommendedPrice, rec.Guardrails.MaxPrice)
					assert.LessOrEqual(t, rec.Guardrails.MinPrice, rec.Guardrails.MaxPrice)
					assert.GreaterOrEqual(t, rec.Confidence, 0.45)
					assert.LessOrEqual(t, rec.Confidence, 0.95)
					assert.GreaterOrEqual(t, rec.ElasticityEstimate, 0.4)
				}
			}
		}
	}
}

func TestRecommendPrice_FloorClampIsAudited(t *testing.T) {
	audit := &memAudit{}
	store := stubStore{values: map[string]float64{
		"stock_velocity": 0.1, "return_rate": 0.09, "views_7d": 10000, "add_to_cart_7d": 0,
	}}
	svc := NewService(store, audit)

	rec, err := svc.RecommendPrice(context.Background(), domain.PriceRequest{
		ProductID: "p9", CurrentPrice: 100, CostPrice: ptr(95), Strategy: "growth",
	})
	require.NoError(t, err)

	assert.Equal(t, 95.0, rec.RecommendedPrice)
	require.Len(t, audit.entries, 1)
	assert.Equal(t, "guardrail_triggered", audit.entries[0].Action)
	assert.Equal(t, "pricing-hybrid", audit.entries[0].ModelID)
	assert.Equal(t, "p9", audit.entries[0].Details["product_id"])
	assert.Contains(t, rec.RecommendedActions, "Audit product quality/expectations to reduce returns.")
}

func TestRecommendPrice_StoreErrorUsesDefaults(t *testing.T) {
	req := domain.PriceRequest{ProductID: "p1", CurrentPrice: 50, Strategy: "margin"}

	got, err := NewService(stubStore{err: errors.New("timeout")}, nil).RecommendPrice(context.Background(), req)
	require.NoError(t, err)
	want, err := NewService(nil, nil).RecommendPrice(context.Background(), req)
	require.NoError(t, err)

	assert.Equal(t, want, got)
	assert.Equal(t, domain.SignalSummary{ConversionRate: 0.24, ReturnRate: 0.025, StockVelocity: 0.6}, got.Signals)
}

func TestRecommendPrice_InvalidInput(t *testing.T) {
	svc := NewService(nil, nil)
	cases := []domain.PriceRequest{
		{ProductID: "p1", CurrentPrice: 0},
		{ProductID: "p1", CurrentPrice: 10, CostPrice: ptr(-1)},
		{ProductID: "p1", CurrentPrice: 10, Strategy: "aggressive"},
		{CurrentPrice: 10},
	}
	for _, req := range cases {
		_, err := svc.RecommendPrice(context.Background(), req)
		assert.True(t, errors.Is(err, domain.ErrInvalidInput), "%+v", req)
	}
}

func TestBulkRecommendations(t *testing.T) {
	svc := NewService(nil, nil)

	res, err := svc.BulkRecommendations(context.Background(), []domain.BulkPriceItem{
		{ProductID: "a", CurrentPrice: 10},
		{ProductID: "b", CurrentPrice: 20, Strategy: "growth", Currency: "EUR"},
	}, "vendor-7", "margin")
	require.NoError(t, err)

	require.Equal(t, 2, res.Count)
	assert.Equal(t, "margin", res.Recommendations[0].Strategy)
	assert.Equal(t, "growth", res.Recommendations[1].Strategy)
	assert.Equal(t, "EUR", res.Recommendations[1].Currency)
	assert.Equal(t, "vendor-7", res.Recommendations[0].VendorID)

	_, err = svc.BulkRecommendations(context.Background(), nil, "", "balanced")
	assert.True(t, errors.Is(err, domain.ErrInvalidInput))

	res, err = svc.BulkRecommendations(context.Background(), []domain.BulkPriceItem{
		{ProductID: "a", CurrentPrice: 10},
		{ProductID: "b", CurrentPrice: -1},
	}, "", "balanced")
	assert.Error(t, err)
	assert.Nil(t, res)
}

func TestSimulateDiscount_Clamps(t *testing.T) {
	svc := NewService(nil, nil)

	cases := []struct {
		in, want float64
	}{
		{0.9, 0.4},
		{-0.5, -0.2},
		{0.15, 0.15},
		{-0.2, -0.2},
	}
	for _, tc := range cases {
		sim, err := svc.SimulateDiscount(context.Background(), domain.DiscountRequest{
			ProductID: "p1", BasePrice: 100, CostPrice: 50, DiscountPct: tc.in,
		})
		require.NoError(t, err)
		assert.Equal(t, tc.want, sim.DiscountPct)
		assert.InDelta(t, 100*(1-tc.want), sim.NewPrice, 1e-9)
	}
}

func TestSimulateDiscount_Values(t *testing.T) {
	sim, err := NewService(nil, nil).SimulateDiscount(context.Background(), domain.DiscountRequest{
		ProductID: "p1", BasePrice: 100, CostPrice: 50, DiscountPct: 0.1,
	})
	require.NoError(t, err)

	// elasticity 1.206 for default signals
	assert.Equal(t, 12.06, sim.EstimatedDemandChangePct)
	assert.Equal(t, 90.0, sim.NewPrice)
	assert.Equal(t, -5.56, sim.MarginDeltaPct)
	assert.Equal(t, "Applied elasticity=1.21 based on conversion=0.24 and stock velocity=0.60.", sim.Explanation)
}

func TestMetrics(t *testing.T) {
	m := NewService(nil, nil).Metrics()
	assert.Equal(t, 8.4, m.MAPE)
	assert.Equal(t, ModelVersion, m.ModelVersion)
}

func TestRecommendPrice_NonFiniteSignalsUseDefaults(t *testing.T) {
	store := stubStore{values: map[string]float64{
		"conversion_rate": math.NaN(), "return_rate": math.Inf(1), "views_7d": math.NaN(),
	}}

	rec, err := NewService(store, nil).RecommendPrice(context.Background(), domain.PriceRequest{
		ProductID: "p1", CurrentPrice: 100, Strategy: "balanced",
	})
	require.NoError(t, err)

	assert.False(t, math.IsNaN(rec.ElasticityEstimate))
	assert.GreaterOrEqual(t, rec.RecommendedPrice, rec.Guardrails.MinPrice)
	assert.LessOrEqual(t, rec.RecommendedPrice, rec.Guardrails.MaxPrice)
	_, err = json.Marshal(rec)
	assert.NoError(t, err)
}
