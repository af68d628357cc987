package recommendation

import (
	"context"
	"easy11ML/business/featurestore"
	"easy11ML/domain"
	"easy11ML/pkg/logger"
	"easy11ML/pkg/metrics"
	"errors"
	"math"
)

const (
	userView    = "user_behavior_metrics"
	productView = "product_performance_metrics"
)

var userFeatures = []string{
	userView + ":orders_last_30d",
	userView + ":total_orders",
	userView + ":avg_order_value",
	userView + ":lifetime_value_score",
	userView + ":rfm_score",
}

var productFeatures = []string{
	productView + ":views_7d",
	productView + ":add_to_cart_7d",
	productView + ":orders_7d",
	productView + ":conversion_rate",
	productView + ":return_rate",
	productView + ":stock_velocity",
}

func DefaultProfile() domain.UserProfile {
	return domain.UserProfile{
		OrdersLast30d:      2,
		TotalOrders:        12,
		AvgOrderValue:      148,
		LifetimeValueScore: 0.62,
		RFMScore:           0.58,
	}
}

// buildProfile never fails: store errors fall back to the default profile.
func (s *Service) buildProfile(ctx context.Context, userID string) domain.UserProfile {
	def := DefaultProfile()

	resp, err := s.store.GetOnlineFeatures(ctx, userFeatures, []featurestore.EntityRow{{"user_id": userID}})
	if err != nil {
		s.logFallback(ctx, "user_profile", err, "user_id", userID)
		return def
	}

	return domain.UserProfile{
		OrdersLast30d:      resp.ValueOr(userFeatures[0], 0, def.OrdersLast30d),
		TotalOrders:        resp.ValueOr(userFeatures[1], 0, def.TotalOrders),
		AvgOrderValue:      resp.ValueOr(userFeatures[2], 0, def.AvgOrderValue),
		LifetimeValueScore: resp.ValueOr(userFeatures[3], 0, def.LifetimeValueScore),
		RFMScore:           resp.ValueOr(userFeatures[4], 0, def.RFMScore),
	}
}

// hydrateCandidates overlays online product signals on a fresh copy of the catalog.
func (s *Service) hydrateCandidates(ctx context.Context) []candidate {
	candidates := copyCatalog()

	rows := make([]featurestore.EntityRow, len(candidates))
	for i, c := range candidates {
		rows[i] = featurestore.EntityRow{"product_id": c.ProductID}
	}

	resp, err := s.store.GetOnlineFeatures(ctx, productFeatures, rows)
	if err != nil {
		s.logFallback(ctx, "candidates", err)
		return candidates
	}

	for i := range candidates {
		c := &candidates[i]
		c.ConversionRate = resp.ValueOr(productView+":conversion_rate", i, c.ConversionRate)
		c.ReturnRate = resp.ValueOr(productView+":return_rate", i, c.ReturnRate)
		c.StockVelocity = resp.ValueOr(productView+":stock_velocity", i, c.StockVelocity)

		views := resp.ValueOr(productView+":views_7d", i, c.TrendScore*100)
		addToCart := resp.ValueOr(productView+":add_to_cart_7d", i, c.BasePopularity*100)
		c.TrendScore = normalise(views, 500)
		c.BasePopularity = normalise(addToCart, 250)
	}

	return candidates
}

func (s *Service) logFallback(ctx context.Context, stage string, err error, kv ...interface{}) {
	reason := "error"
	if errors.Is(err, domain.ErrFeatureStoreUnavailable) {
		reason = "unavailable"
	}
	metrics.FeatureStoreFallbacks.WithLabelValues("recommendation", reason).Inc()

	fields := append([]interface{}{
		"trace_id", domain.TraceIDFromContext(ctx),
		"stage", stage,
		"error", err,
	}, kv...)
	if reason == "unavailable" {
		logger.Debug("feature store unavailable, using defaults", fields...)
		return
	}
	logger.Warn("failed to fetch features, using defaults", fields...)
}

func normalise(value, scale float64) float64 {
	if scale <= 0 {
		return 0
	}
	return clamp(math.Tanh(value/scale), 0, 1)
}

func clamp(v, lo, hi float64) float64 {
	return math.Max(lo, math.Min(v, hi))
}
