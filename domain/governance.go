package domain

import (
	"time"

	"gorm.io/datatypes"
)

type ExplainabilityAssets struct {
	GlobalShapURL     string `json:"global_shap_url"`
	LastRegeneratedAt string `json:"last_regenerated_at"`
}

type ModelCard struct {
	ModelID                string               `json:"model_id"`
	Name                   string               `json:"name"`
	Version                string               `json:"version"`
	Owner                  string               `json:"owner"`
	Description            string               `json:"description"`
	CreatedAt              string               `json:"created_at"`
	LastTrainedAt          string               `json:"last_trained_at"`
	TrainingDataWindow     string               `json:"training_data_window"`
	Features               []string             `json:"features"`
	Metrics                map[string]float64   `json:"metrics"`
	FairnessConsiderations string               `json:"fairness_considerations"`
	ExplainabilityAssets   ExplainabilityAssets `json:"explainability_assets"`
	Notes                  []string             `json:"notes"`
}

type MonitoredFeature struct {
	Feature    string  `json:"feature"`
	PValue     float64 `json:"p_value"`
	AlertLevel string  `json:"alert_level"`
}

type DriftStatus struct {
	ModelID            string             `json:"model_id"`
	Status             string             `json:"status"`
	MonitoredFeatures  []MonitoredFeature `json:"monitored_features"`
	RecommendedActions []string           `json:"recommended_actions,omitempty"`
	LastEvaluatedAt    string             `json:"last_evaluated_at"`
}

// CREATE TABLE public.governance_audit_log (
//     id         BIGINT GENERATED ALWAYS AS IDENTITY PRIMARY KEY,
//     timestamp  TIMESTAMPTZ NOT NULL,
//     model_id   TEXT NOT NULL,
//     action     TEXT NOT NULL,
//     actor      TEXT NOT NULL,
//     reason     TEXT,
//     outcome    TEXT,
//     details    JSONB
// );

type AuditLogEntry struct {
	ID        uint              `gorm:"primaryKey" json:"-"`
	Timestamp time.Time         `gorm:"column:timestamp;not null;index" json:"timestamp"`
	ModelID   string            `gorm:"column:model_id;not null" json:"model_id"`
	Action    string            `gorm:"column:action;not null" json:"action"`
	Actor     string            `gorm:"column:actor;not null" json:"actor"`
	Reason    string            `gorm:"column:reason" json:"reason"`
	Outcome   string            `gorm:"column:outcome" json:"outcome"`
	Details   datatypes.JSONMap `gorm:"column:details" json:"details"`
}

func (AuditLogEntry) TableName() string {
	return "governance_audit_log"
}
