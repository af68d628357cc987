package domain

// ProductSignals are the product performance features the pricing engine reads.
type ProductSignals struct {
	ConversionRate float64 `json:"conversion_rate"`
	ReturnRate     float64 `json:"return_rate"`
	StockVelocity  float64 `json:"stock_velocity"`
	Views7d        float64 `json:"views_7d"`
	AddToCart7d    float64 `json:"add_to_cart_7d"`
}

// SignalSummary is the subset of ProductSignals echoed back with a price recommendation.
type SignalSummary struct {
	ConversionRate float64 `json:"conversion_rate"`
	ReturnRate     float64 `json:"return_rate"`
	StockVelocity  float64 `json:"stock_velocity"`
}

// PriceGuardrails bound every recommended price. MinPrice <= MaxPrice by construction.
type PriceGuardrails struct {
	MinPrice       float64 `json:"min_price"`
	MaxPrice       float64 `json:"max_price"`
	MaxDiscountPct float64 `json:"max_discount_pct"`
	MinMarginPct   float64 `json:"min_margin_pct"`
}

type PriceScenario struct {
	Price            float64 `json:"price"`
	PriceDeltaPct    float64 `json:"price_delta_pct"`
	DemandChangePct  float64 `json:"demand_change_pct"`
	RevenueChangePct float64 `json:"revenue_change_pct"`
	MarginPct        float64 `json:"margin_pct"`
}

type PriceRequest struct {
	ProductID    string
	CurrentPrice float64
	CostPrice    *float64
	VendorID     string
	Strategy     string
	Currency     string
}

type PriceRecommendation struct {
	ProductID                string          `json:"product_id"`
	VendorID                 string          `json:"vendor_id"`
	CurrentPrice             float64         `json:"current_price"`
	Currency                 string          `json:"currency"`
	RecommendedPrice         float64         `json:"recommended_price"`
	SuggestedAdjustmentPct   float64         `json:"suggested_adjustment_pct"`
	ExpectedDemandChangePct  float64         `json:"expected_demand_change_pct"`
	ExpectedRevenueChangePct float64         `json:"expected_revenue_change_pct"`
	ExpectedMarginChangePct  float64         `json:"expected_margin_change_pct"`
	Confidence               float64         `json:"confidence"`
	Strategy                 string          `json:"strategy"`
	ElasticityEstimate       float64         `json:"elasticity_estimate"`
	Scenarios                []PriceScenario `json:"scenarios"`
	Explanation              string          `json:"explanation"`
	RecommendedActions       []string        `json:"recommended_actions"`
	Guardrails               PriceGuardrails `json:"guardrails"`
	Signals                  SignalSummary   `json:"signals"`
	ModelVersion             string          `json:"model_version"`
}

type BulkPriceItem struct {
	ProductID    string
	CurrentPrice float64
	CostPrice    *float64
	Strategy     string
	Currency     string
}

type BulkPriceResult struct {
	Count           int                   `json:"count"`
	Recommendations []PriceRecommendation `json:"recommendations"`
}

type DiscountRequest struct {
	ProductID   string
	BasePrice   float64
	CostPrice   float64
	DiscountPct float64
	Strategy    string
}

type DiscountSimulation struct {
	ProductID                 string  `json:"product_id"`
	BasePrice                 float64 `json:"base_price"`
	CostPrice                 float64 `json:"cost_price"`
	DiscountPct               float64 `json:"discount_pct"`
	NewPrice                  float64 `json:"new_price"`
	EstimatedDemandChangePct  float64 `json:"estimated_demand_change_pct"`
	EstimatedRevenueChangePct float64 `json:"estimated_revenue_change_pct"`
	MarginDeltaPct            float64 `json:"margin_delta_pct"`
	Confidence                float64 `json:"confidence"`
	Explanation               string  `json:"explanation"`
}

type PricingMetrics struct {
	MAPE              float64 `json:"mape"`
	RMSE              float64 `json:"rmse"`
	UpliftRevenuePct  float64 `json:"uplift_revenue_pct"`
	UpliftMarginPct   float64 `json:"uplift_margin_pct"`
	DeploymentRollout float64 `json:"deployment_rollout"`
	ModelVersion      string  `json:"model_version"`
}
