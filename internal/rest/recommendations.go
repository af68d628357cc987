package rest

import (
	"context"
	"easy11ML/business/recommendation"
	"easy11ML/domain"
	"easy11ML/pkg/logger"
	"net/http"

	"github.com/go-playground/validator/v10"
	"github.com/labstack/echo/v4"
)

type (
	RecommendationHandler struct {
		validate *validator.Validate
		service  RecommendationService
	}

	RecommendationService interface {
		Recommend(ctx context.Context, userID string, limit int, algo recommendation.Algorithm) ([]domain.Recommendation, error)
		RecommendBatch(ctx context.Context, userIDs []string, limit int, algo recommendation.Algorithm) (map[string][]domain.Recommendation, error)
		ModelVersion(algo recommendation.Algorithm) string
		Metrics() domain.RecommendationMetrics
	}

	RecommendationQuery struct {
		UserID string `query:"user_id" validate:"required"`
		Limit  int    `query:"limit" validate:"gte=1,lte=100"`
		Algo   string `query:"algo" validate:"oneof=als lightfm hybrid"`
	}

	BatchRecommendationRequest struct {
		UserIDs []string `json:"user_ids" validate:"required,dive,required"`
		Limit   int      `json:"limit" validate:"gte=1,lte=100"`
		Algo    string   `json:"algo" validate:"oneof=als lightfm hybrid"`
	}

	RecommendationResponse struct {
		UserID          string                       `json:"user_id"`
		Recommendations []domain.Recommendation      `json:"recommendations"`
		Algo            string                       `json:"algo"`
		ModelVersion    string                       `json:"model_version"`
		GeneratedAt     string                       `json:"generated_at"`
		Metrics         domain.RecommendationMetrics `json:"metrics"`
	}

	BatchRecommendationResponse struct {
		Results      map[string][]domain.Recommendation `json:"results"`
		Algo         string                             `json:"algo"`
		ModelVersion string                             `json:"model_version"`
		GeneratedAt  string                             `json:"generated_at"`
	}
)

func NewRecommendationHandler(svc RecommendationService, validate *validator.Validate) *RecommendationHandler {
	return &RecommendationHandler{
		validate: validate,
		service:  svc,
	}
}

// GET /api/v1/recommendations?user_id=u1&limit=10&algo=hybrid
func (h *RecommendationHandler) Recommend(c echo.Context) error {
	q := RecommendationQuery{Limit: 10, Algo: string(recommendation.AlgoHybrid)}
	if err := c.Bind(&q); err != nil {
		return c.JSON(http.StatusBadRequest, ResponseError{Message: err.Error()})
	}
	if err := h.validate.Struct(&q); err != nil {
		return c.JSON(http.StatusBadRequest, ResponseError{Message: err.Error()})
	}

	logger.Info("api: fetching recommendations", "user_id", q.UserID, "limit", q.Limit, "algo", q.Algo)

	algo := recommendation.Algorithm(q.Algo)
	recs, err := h.service.Recommend(c.Request().Context(), q.UserID, q.Limit, algo)
	if err != nil {
		return serviceError(c, "error getting recommendations", err)
	}

	return c.JSON(http.StatusOK, RecommendationResponse{
		UserID:          q.UserID,
		Recommendations: recs,
		Algo:            q.Algo,
		ModelVersion:    h.service.ModelVersion(algo),
		GeneratedAt:     generatedAt(),
		Metrics:         h.service.Metrics(),
	})
}

// POST /api/v1/recommendations/batch
func (h *RecommendationHandler) Batch(c echo.Context) error {
	req := BatchRecommendationRequest{Limit: 10, Algo: string(recommendation.AlgoHybrid)}
	if err := c.Bind(&req); err != nil {
		return c.JSON(http.StatusBadRequest, ResponseError{Message: err.Error()})
	}
	if err := h.validate.Struct(&req); err != nil {
		return c.JSON(http.StatusBadRequest, ResponseError{Message: err.Error()})
	}

	logger.Info("api: batch recommendations", "count", len(req.UserIDs), "algo", req.Algo)

	algo := recommendation.Algorithm(req.Algo)
	results, err := h.service.RecommendBatch(c.Request().Context(), req.UserIDs, req.Limit, algo)
	if err != nil {
		return serviceError(c, "error in batch recommendations", err)
	}

	return c.JSON(http.StatusOK, BatchRecommendationResponse{
		Results:      results,
		Algo:         req.Algo,
		ModelVersion: h.service.ModelVersion(algo),
		GeneratedAt:  generatedAt(),
	})
}

// GET /api/v1/recommendations/metrics
func (h *RecommendationHandler) Metrics(c echo.Context) error {
	return c.JSON(http.StatusOK, h.service.Metrics())
}
