package domain

type ChurnFactor struct {
	Factor string  `json:"factor"`
	Impact float64 `json:"impact"`
}

type ChurnPrediction struct {
	UserID           string        `json:"user_id"`
	ChurnProbability float64       `json:"churn_probability"`
	RiskLevel        string        `json:"risk_level"`
	KeyFactors       []ChurnFactor `json:"key_factors"`
}

type AtRiskCustomer struct {
	UserID           string  `json:"user_id"`
	ChurnProbability float64 `json:"churn_probability"`
	RiskLevel        string  `json:"risk_level"`
}

type ChurnMetrics struct {
	AUC          float64 `json:"auc"`
	Accuracy     float64 `json:"accuracy"`
	Precision    float64 `json:"precision"`
	Recall       float64 `json:"recall"`
	F1Score      float64 `json:"f1_score"`
	ModelVersion string  `json:"model_version"`
}
