package recommendation

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

// stubStore answers every lookup with the same value per column, or with err.
type stubStore struct {
	values map[string]float64
	err    error
	calls  int
}

func (s *stubStore) GetOnlineFeatures(_ context.Context, refs []string, rows []featurestore.EntityRow) (*featurestore.OnlineResponse, error) {
	s.calls++
	if s.err != nil {
		return nil, s.err
	}
	resp := featurestore.NewOnlineResponse(len(rows))
	for _, raw := range refs {
		ref, err := featurestore.ParseRef(raw)
		if err != nil {
			return nil, err
		}
		v, ok := s.values[ref.Column()]
		if !ok {
			continue
		}
		for i := range rows {
			resp.Set(ref.Column(), i, v)
		}
	}
	return resp, nil
}

func TestRecommend_LimitAndOrdering(t *testing.T) {
	svc := NewService(nil)

	for _, limit := range []int{1, 3, 8, 50} {
		recs, err := svc.Recommend(context.Background(), "u1", limit, AlgoHybrid)
		require.NoError(t, err)

		want := limit
		if want > len(catalog) {
			want = len(catalog)
		}
		assert.Len(t, recs, want)
		for i := 1; i < len(recs); i++ {
			assert.GreaterOrEqual(t, recs[i-1].Score, recs[i].Score)
		}
	}
}

func TestRecommend_DeterministicPerUser(t *testing.T) {
	svc := NewService(nil)

	a, err := svc.Recommend(context.Background(), "user-42", 10, AlgoALS)
	require.NoError(t, err)
	b, err := svc.Recommend(context.Background(), "user-42", 10, AlgoALS)
	require.NoError(t, err)

	assert.Equal(t, a, b)
	assert.Equal(t, explorationSeed("user-42"), explorationSeed("user-42"))
	assert.NotEqual(t, explorationSeed("user-42"), explorationSeed("user-43"))
}

func TestRecommend_StoreErrorFallsBack(t *testing.T) {
	broken := &stubStore{err: errors.New("dial tcp: connection refused")}

	got, err := NewService(broken).Recommend(context.Background(), "u1", 5, AlgoHybrid)
	require.NoError(t, err)
	want, err := NewService(featurestore.NullStore{}).Recommend(context.Background(), "u1", 5, AlgoHybrid)
	require.NoError(t, err)

	assert.Equal(t, want, got)
	assert.Equal(t, 2, broken.calls)
}

func TestRecommend_HydrationLeavesTemplateIntact(t *testing.T) {
	store := &stubStore{values: map[string]float64{
		"user_behavior_metrics__avg_order_value":      900,
		"product_performance_metrics__return_rate":    0.09,
		"product_performance_metrics__views_7d":       250,
		"product_performance_metrics__add_to_cart_7d": 125,
	}}

	recs, err := NewService(store).Recommend(context.Background(), "u1", 8, AlgoHybrid)
	require.NoError(t, err)

	reasons := map[string]string{}
	for _, r := range recs {
		reasons[r.ProductID] = r.Reason
		assert.Contains(t, r.Explanation, "Personalized using hybrid model. User LTV score 0.62, RFM 0.58.")
	}
	assert.Equal(t, "Matches your high-end tech purchases", reasons["prod-smart-sound-01"])
	assert.Equal(t, "Matches your high-end tech purchases", reasons["prod-pro-laptop-05"])
	// the high return rate disables the low-return reason, so badges win
	assert.Equal(t, "Eco friendly", reasons["prod-lux-home-04"])
	assert.Equal(t, "Keeps your wellness streak going", reasons["prod-wellness-06"])

	assert.Equal(t, 0.82, catalog[0].TrendScore)
	assert.Equal(t, 0.03, catalog[0].ReturnRate)
}

func TestRecommend_DefaultReasons(t *testing.T) {
	recs, err := NewService(nil).Recommend(context.Background(), "u1", 8, AlgoHybrid)
	require.NoError(t, err)

	byID := map[string]domain.Recommendation{}
	for _, r := range recs {
		byID[r.ProductID] = r
	}
	assert.Equal(t, "AI tuned", byID["prod-smart-sound-01"].Reason)
	assert.Equal(t, "Loved by similar customers", byID["prod-fitness-pro-02"].Reason)
	assert.Equal(t, "Keeps your wellness streak going", byID["prod-active-07"].Reason)
	assert.Equal(t, "/products/prod-creator-cam-03", byID["prod-creator-cam-03"].Metadata.ProductURL)
	assert.Equal(t, "USD", byID["prod-creator-cam-03"].Metadata.Currency)
}

func TestRecommend_InvalidInput(t *testing.T) {
	svc := NewService(nil)

	_, err := svc.Recommend(context.Background(), "u1", 0, AlgoHybrid)
	assert.True(t, errors.Is(err, domain.ErrInvalidInput))

	_, err = svc.Recommend(context.Background(), "u1", 101, AlgoHybrid)
	assert.True(t, errors.Is(err, domain.ErrInvalidInput))

	_, err = svc.Recommend(context.Background(), "u1", 10, Algorithm("svd"))
	assert.True(t, errors.Is(err, domain.ErrInvalidInput))

	_, err = ParseAlgorithm("svd")
	assert.True(t, errors.Is(err, domain.ErrInvalidInput))

	algo, err := ParseAlgorithm("")
	require.NoError(t, err)
	assert.Equal(t, AlgoHybrid, algo)
}

func TestRecommend_CancelledContext(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	_, err := NewService(nil).Recommend(ctx, "u1", 10, AlgoHybrid)
	assert.True(t, errors.Is(err, context.Canceled))
}

func TestRecommendBatch(t *testing.T) {
	svc := NewService(nil)

	res, err := svc.RecommendBatch(context.Background(), []string{"u1", "u2"}, 3, AlgoLightFM)
	require.NoError(t, err)
	assert.Len(t, res, 2)
	assert.Len(t, res["u2"], 3)

	single, err := svc.Recommend(context.Background(), "u1", 3, AlgoLightFM)
	require.NoError(t, err)
	assert.Equal(t, single, res["u1"])

	res, err = svc.RecommendBatch(context.Background(), []string{"u1", ""}, 3, AlgoLightFM)
	assert.True(t, errors.Is(err, domain.ErrInvalidInput))
	assert.Nil(t, res)
}

func TestScoringComponents(t *testing.T) {
	p := DefaultProfile()
	c := catalog[0]

	assert.InDelta(t, 0.58*0.78*1.07, collaborativeScore(p, c, AlgoHybrid), 1e-9)
	assert.InDelta(t, 0.58*0.78*1.05, collaborativeScore(p, c, AlgoALS), 1e-9)
	// price 449 is far from aov 148 so alignment clamps to 0
	assert.InDelta(t, 0.4*0.86, contentScore(p, c), 1e-9)
	assert.InDelta(t, 0.65*0.6+0.97*0.4, businessScore(c), 1e-9)

	assert.Equal(t, "v2.0.0", NewService(nil).ModelVersion(Algorithm("unknown")))
	assert.Len(t, NewService(nil).Metrics().ModelVersions, 3)
}

func TestRecommend_NonFiniteFeaturesUseDefaults(t *testing.T) {
	store := &stubStore{values: map[string]float64{
		"product_performance_metrics__views_7d":        math.NaN(),
		"product_performance_metrics__conversion_rate": math.Inf(-1),
		"user_behavior_metrics__rfm_score":             math.NaN(),
	}}

	recs, err := NewService(store).Recommend(context.Background(), "u1", 8, AlgoHybrid)
	require.NoError(t, err)
	require.NotEmpty(t, recs)

	for i, r := range recs {
		assert.False(t, math.IsNaN(r.Score), r.ProductID)
		if i > 0 {
			assert.GreaterOrEqual(t, recs[i-1].Score, r.Score)
		}
	}
	_, err = json.Marshal(recs)
	assert.NoError(t, err)
}
