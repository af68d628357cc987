package domain

type ForecastPoint struct {
	Date       string  `json:"date"`
	Value      float64 `json:"value"`
	LowerBound float64 `json:"lower_bound"`
	UpperBound float64 `json:"upper_bound"`
}

type ForecastScenario struct {
	DeltaPct        float64 `json:"delta_pct"`
	ProjectedDemand float64 `json:"projected_demand"`
	RevenueIndex    float64 `json:"revenue_index"`
	InventoryRisk   string  `json:"inventory_risk"`
}

type ForecastSummary struct {
	GrowthRatePct float64 `json:"growth_rate_pct"`
	PeakDay       string  `json:"peak_day"`
	PeakValue     float64 `json:"peak_value"`
	TroughDay     string  `json:"trough_day"`
	TroughValue   float64 `json:"trough_value"`
}

type DemandForecast struct {
	Forecast      []ForecastPoint    `json:"forecast"`
	Algo          string             `json:"algo"`
	Horizon       int                `json:"horizon"`
	GeneratedAt   string             `json:"generated_at"`
	Summary       ForecastSummary    `json:"summary"`
	Scenarios     []ForecastScenario `json:"scenarios"`
	ModelVersions map[string]string  `json:"model_versions"`
}

type RestockRecommendation struct {
	RecommendedRestockUnits int     `json:"recommended_restock_units"`
	DemandNext7d            int     `json:"demand_next_7d"`
	Action                  string  `json:"action"`
	Confidence              float64 `json:"confidence"`
}

type ProductForecast struct {
	ProductID      string                `json:"product_id"`
	Forecast       []ForecastPoint       `json:"forecast"`
	Algo           string                `json:"algo"`
	Horizon        int                   `json:"horizon"`
	GeneratedAt    string                `json:"generated_at"`
	Scenarios      []ForecastScenario    `json:"scenarios"`
	Recommendation RestockRecommendation `json:"recommendation"`
	ModelVersions  map[string]string     `json:"model_versions"`
}

type SeasonalityComponent struct {
	Strength float64 `json:"strength"`
	PeakDay  string  `json:"peak_day,omitempty"`
	PeakWeek string  `json:"peak_week,omitempty"`
}

type TrendDriver struct {
	Feature   string `json:"feature"`
	ImpactPct int    `json:"impact_pct"`
	Direction string `json:"direction"`
}

type DemandTrends struct {
	Period        string                          `json:"period"`
	GrowthRatePct float64                         `json:"growth_rate_pct"`
	Trend         string                          `json:"trend"`
	Seasonality   map[string]SeasonalityComponent `json:"seasonality"`
	TopDrivers    []TrendDriver                   `json:"top_drivers"`
	ModelVersions map[string]string               `json:"model_versions"`
}

type ForecastMetrics struct {
	MAPE                float64           `json:"mape"`
	SMAPE               float64           `json:"smape"`
	RMSE                float64           `json:"rmse"`
	Coverage95Pct       float64           `json:"coverage_95pct"`
	MeanTrainingTimeSec float64           `json:"mean_training_time_sec"`
	ModelVersions       map[string]string `json:"model_versions"`
}
