package churn

import (
	"context"
	"easy11ML/domain"
	"easy11ML/pkg/logger"
	"fmt"
	"math"
)

const ModelVersion = "v1.0.0"

const (
	highRiskThreshold   = 0.7
	mediumRiskThreshold = 0.4

	// maxAtRisk caps the mock at-risk listing.
	maxAtRisk = 10
)

type Service struct {
	baseProbability float64
}

func NewService() *Service {
	return &Service{baseProbability: 0.25}
}

func RiskLevel(p float64) string {
	switch {
	case p >= highRiskThreshold:
		return "high"
	case p >= mediumRiskThreshold:
		return "medium"
	default:
		return "low"
	}
}

// Predict scores a known user or an anonymous feature set; one of them is required.
func (s *Service) Predict(ctx context.Context, userID string, features map[string]any) (*domain.ChurnPrediction, error) {
	if err := ctx.Err(); err != nil {
		return nil, fmt.Errorf("context error: %w", err)
	}
	if userID == "" && len(features) == 0 {
		return nil, fmt.Errorf("%w: either user_id or customer_features must be provided", domain.ErrInvalidInput)
	}

	logger.Info("predicting churn", "user_id", userID, "features", len(features))

	id := userID
	if id == "" {
		id = "unknown"
	}
	return &domain.ChurnPrediction{
		UserID:           id,
		ChurnProbability: s.baseProbability,
		RiskLevel:        RiskLevel(s.baseProbability),
		KeyFactors: []domain.ChurnFactor{
			{Factor: "Recent Activity", Impact: -0.15},
			{Factor: "Order Frequency", Impact: -0.10},
			{Factor: "Support Tickets", Impact: 0.20},
		},
	}, nil
}

// PredictBatch aborts on the first failing user.
func (s *Service) PredictBatch(ctx context.Context, userIDs []string) (map[string]domain.ChurnPrediction, error) {
	if err := ctx.Err(); err != nil {
		return nil, fmt.Errorf("context error: %w", err)
	}

	logger.Info("batch churn prediction", "count", len(userIDs))

	out := make(map[string]domain.ChurnPrediction, len(userIDs))
	for _, id := range userIDs {
		p, err := s.Predict(ctx, id, nil)
		if err != nil {
			return nil, fmt.Errorf("predict %q: %w", id, err)
		}
		out[id] = *p
	}
	return out, nil
}

func (s *Service) AtRisk(ctx context.Context, limit int, threshold float64) ([]domain.AtRiskCustomer, error) {
	if err := ctx.Err(); err != nil {
		return nil, fmt.Errorf("context error: %w", err)
	}
	if limit < 1 {
		return nil, fmt.Errorf("%w: limit must be positive", domain.ErrInvalidInput)
	}
	if threshold < 0 || threshold > 1 {
		return nil, fmt.Errorf("%w: threshold must be within [0, 1]", domain.ErrInvalidInput)
	}

	logger.Info("getting at-risk customers", "limit", limit, "threshold", threshold)

	n := limit
	if n > maxAtRisk {
		n = maxAtRisk
	}
	out := make([]domain.AtRiskCustomer, 0, n)
	for i := 0; i < n; i++ {
		p := math.Round((0.85-float64(i)*0.01)*100) / 100
		if p < threshold {
			continue
		}
		out = append(out, domain.AtRiskCustomer{
			UserID:           fmt.Sprintf("user-%d", i),
			ChurnProbability: p,
			RiskLevel:        RiskLevel(p),
		})
	}
	return out, nil
}

func (s *Service) Metrics() domain.ChurnMetrics {
	return domain.ChurnMetrics{
		AUC:          0.83,
		Accuracy:     0.78,
		Precision:    0.75,
		Recall:       0.72,
		F1Score:      0.73,
		ModelVersion: ModelVersion,
	}
}
