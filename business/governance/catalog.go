package governance

import (
	"easy11ML/domain"
	"time"

	"gorm.io/datatypes"
)

func iso(t time.Time) string {
	return t.UTC().Format("2006-01-02T15:04:05.000000") + "Z"
}

func modelCards(now time.Time) []domain.ModelCard {
	days := func(n int) string { return iso(now.AddDate(0, 0, -n)) }

	return []domain.ModelCard{
		{
			ModelID:            "recommendation-hybrid",
			Name:               "Recommendation Engine 2.0",
			Version:            "v2.0.0",
			Owner:              "ML Platform",
			Description:        "Hybrid collaborative + content recommender with business guardrails.",
			CreatedAt:          days(45),
			LastTrainedAt:      days(6),
			TrainingDataWindow: "2024-02-01 → 2024-04-15",
			Features:           []string{"user_behavior_metrics", "product_performance_metrics", "inventory_signals"},
			Metrics: map[string]float64{
				"hit_rate_at_10":   0.27,
				"map_at_10":        0.36,
				"catalog_coverage": 0.82,
				"diversity":        0.68,
			},
			FairnessConsiderations: "Content filters remove prohibited categories. Excludes sensitive attributes.",
			ExplainabilityAssets: domain.ExplainabilityAssets{
				GlobalShapURL:     "https://easy11-ml-assets/shap/recommendation_v2_global.json",
				LastRegeneratedAt: days(2),
			},
			Notes: []string{
				"Monitors opt-out rate for personalization.",
				"Overrides logged with user, actor, reason.",
			},
		},
		{
			ModelID:            "pricing-hybrid",
			Name:               "Pricing Intelligence Engine",
			Version:            "pricing-hybrid-v1.2.0",
			Owner:              "Revenue Science",
			Description:        "Elasticity-aware pricing suggestions with inventory and fairness guardrails.",
			CreatedAt:          days(32),
			LastTrainedAt:      days(3),
			TrainingDataWindow: "2024-01-01 → 2024-04-20",
			Features:           []string{"conversion_rate", "stock_velocity", "return_rate", "price_history", "competitor_index"},
			Metrics: map[string]float64{
				"mape":               8.4,
				"uplift_revenue_pct": 9.6,
				"uplift_margin_pct":  6.8,
			},
			FairnessConsiderations: "Enforces min margin, max discount, prohibits price hikes >15% per week.",
			ExplainabilityAssets: domain.ExplainabilityAssets{
				GlobalShapURL:     "https://easy11-ml-assets/shap/pricing_v1_global.json",
				LastRegeneratedAt: days(1),
			},
			Notes: []string{
				"Vendor override requires MFA and audit log entry.",
				"Auto-pauses if drift flag = critical for 2 consecutive intervals.",
			},
		},
		{
			ModelID:            "forecast-prophet",
			Name:               "Demand Forecasting Ensemble",
			Version:            "demand-forecast-v2.1.0",
			Owner:              "Supply Analytics",
			Description:        "Prophet + XGBoost ensemble predicting SKU demand with seasonality decomposition.",
			CreatedAt:          days(58),
			LastTrainedAt:      days(2),
			TrainingDataWindow: "2023-10-01 → 2024-04-18",
			Features:           []string{"daily_sales", "promotional_events", "inventory_levels", "marketing_impressions"},
			Metrics: map[string]float64{
				"mape":           9.8,
				"coverage_95pct": 0.93,
				"rmse":           112.4,
			},
			FairnessConsiderations: "No sensitive attributes; ensures regional mix to avoid bias.",
			ExplainabilityAssets: domain.ExplainabilityAssets{
				GlobalShapURL:     "https://easy11-ml-assets/shap/forecast_v2_global.json",
				LastRegeneratedAt: days(3),
			},
			Notes: []string{
				"Alerts vendor when projected stock-out risk exceeds threshold.",
				"Manual overrides logged in audit ledger with before/after values.",
			},
		},
	}
}

func driftStatus(now time.Time) []domain.DriftStatus {
	hours := func(n int) string { return iso(now.Add(-time.Duration(n) * time.Hour)) }

	return []domain.DriftStatus{
		{
			ModelID: "recommendation-hybrid",
			Status:  "healthy",
			MonitoredFeatures: []domain.MonitoredFeature{
				{Feature: "conversion_rate", PValue: 0.41, AlertLevel: "normal"},
				{Feature: "rfm_score", PValue: 0.36, AlertLevel: "normal"},
			},
			LastEvaluatedAt: hours(6),
		},
		{
			ModelID: "pricing-hybrid",
			Status:  "warning",
			MonitoredFeatures: []domain.MonitoredFeature{
				{Feature: "stock_velocity", PValue: 0.08, AlertLevel: "warning"},
				{Feature: "competitor_index", PValue: 0.52, AlertLevel: "normal"},
			},
			RecommendedActions: []string{
				"Review stock velocity inputs for affected categories (Home, Electronics).",
				"Trigger manual sampling if warning persists 2 intervals.",
			},
			LastEvaluatedAt: hours(3),
		},
		{
			ModelID: "forecast-prophet",
			Status:  "healthy",
			MonitoredFeatures: []domain.MonitoredFeature{
				{Feature: "daily_sales", PValue: 0.45, AlertLevel: "normal"},
				{Feature: "marketing_impressions", PValue: 0.33, AlertLevel: "normal"},
			},
			LastEvaluatedAt: hours(4),
		},
	}
}

// seedEntries are written once into an empty audit log.
func seedEntries(now time.Time) []domain.AuditLogEntry {
	ago := func(n int) time.Time { return now.Add(-time.Duration(n) * time.Hour).UTC() }

	return []domain.AuditLogEntry{
		{
			Timestamp: ago(2), ModelID: "pricing-hybrid", Action: "override", Actor: "vendor_admin_482",
			Reason: "Seasonal promotion", Outcome: "approved",
			Details: datatypes.JSONMap{"product_id": "prod-smart-kitchen-08", "old_price": 549.0, "new_price": 529.0},
		},
		{
			Timestamp: ago(5), ModelID: "recommendation-hybrid", Action: "feedback", Actor: "customer_9021",
			Reason: "Irrelevant recommendation", Outcome: "review_pending",
			Details: datatypes.JSONMap{"product_id": "prod-lux-home-04"},
		},
		{
			Timestamp: ago(9), ModelID: "forecast-prophet", Action: "override", Actor: "supply_planner_14",
			Reason: "Marketing campaign uplift", Outcome: "approved",
			Details: datatypes.JSONMap{"sku": "sku-4832", "adjustment_pct": 12.5},
		},
		{
			Timestamp: ago(12), ModelID: "pricing-hybrid", Action: "guardrail_triggered", Actor: "system",
			Reason: "Discount exceeded 30%", Outcome: "blocked",
			Details: datatypes.JSONMap{"product_id": "prod-active-07", "requested_discount_pct": 0.35},
		},
	}
}
