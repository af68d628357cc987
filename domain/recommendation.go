package domain

// UserProfile holds the online user features used for ranking.
type UserProfile struct {
	OrdersLast30d      float64 `json:"orders_last_30d"`
	TotalOrders        float64 `json:"total_orders"`
	AvgOrderValue      float64 `json:"avg_order_value"`
	LifetimeValueScore float64 `json:"lifetime_value_score"`
	RFMScore           float64 `json:"rfm_score"`
}

type RecommendationMetadata struct {
	Title      string   `json:"title"`
	Subtitle   string   `json:"subtitle"`
	Price      float64  `json:"price"`
	Currency   string   `json:"currency"`
	Image      string   `json:"image"`
	Category   string   `json:"category"`
	Tags       []string `json:"tags"`
	Badges     []string `json:"badges"`
	ProductURL string   `json:"product_url"`
}

type Recommendation struct {
	ProductID   string                 `json:"product_id"`
	Score       float64                `json:"score"`
	Reason      string                 `json:"reason"`
	Explanation string                 `json:"explanation"`
	Metadata    RecommendationMetadata `json:"metadata"`
}

type RecommendationMetrics struct {
	HitRateAt10     float64           `json:"hit_rate_at_10"`
	MapAt10         float64           `json:"map_at_10"`
	PrecisionAt5    float64           `json:"precision_at_5"`
	RecallAt10      float64           `json:"recall_at_10"`
	CatalogCoverage float64           `json:"catalog_coverage"`
	Diversity       float64           `json:"diversity"`
	FreshnessDays   int               `json:"freshness_days"`
	ModelVersions   map[string]string `json:"model_versions"`
}
