package rest

import (
	"context"
	"easy11ML/domain"
	"easy11ML/pkg/logger"
	"net/http"

	"github.com/go-playground/validator/v10"
	"github.com/labstack/echo/v4"
)

type (
	ChurnHandler struct {
		validate *validator.Validate
		service  ChurnService
	}

	ChurnService interface {
		Predict(ctx context.Context, userID string, features map[string]any) (*domain.ChurnPrediction, error)
		PredictBatch(ctx context.Context, userIDs []string) (map[string]domain.ChurnPrediction, error)
		AtRisk(ctx context.Context, limit int, threshold float64) ([]domain.AtRiskCustomer, error)
		Metrics() domain.ChurnMetrics
	}

	ChurnRequest struct {
		UserID           string         `json:"user_id"`
		CustomerFeatures map[string]any `json:"customer_features"`
	}

	AtRiskQuery struct {
		Limit     int     `query:"limit" validate:"gte=1"`
		Threshold float64 `query:"threshold" validate:"gte=0,lte=1"`
	}

	AtRiskResponse struct {
		Count     int                     `json:"count"`
		Threshold float64                 `json:"threshold"`
		Customers []domain.AtRiskCustomer `json:"customers"`
	}
)

func NewChurnHandler(svc ChurnService, validate *validator.Validate) *ChurnHandler {
	return &ChurnHandler{
		validate: validate,
		service:  svc,
	}
}

// POST /api/v1/churn/predict
func (h *ChurnHandler) Predict(c echo.Context) error {
	var req ChurnRequest
	if err := c.Bind(&req); err != nil {
		return c.JSON(http.StatusBadRequest, ResponseError{Message: err.Error()})
	}
	if req.UserID == "" && len(req.CustomerFeatures) == 0 {
		return c.JSON(http.StatusBadRequest, ResponseError{Message: "Either user_id or customer_features must be provided"})
	}

	prediction, err := h.service.Predict(c.Request().Context(), req.UserID, req.CustomerFeatures)
	if err != nil {
		return serviceError(c, "error predicting churn", err)
	}

	return c.JSON(http.StatusOK, prediction)
}

// POST /api/v1/churn/batch with a JSON array of user ids as the body.
func (h *ChurnHandler) Batch(c echo.Context) error {
	var userIDs []string
	if err := c.Bind(&userIDs); err != nil {
		return c.JSON(http.StatusBadRequest, ResponseError{Message: err.Error()})
	}
	if err := h.validate.Var(userIDs, "dive,required"); err != nil {
		return c.JSON(http.StatusBadRequest, ResponseError{Message: err.Error()})
	}

	results, err := h.service.PredictBatch(c.Request().Context(), userIDs)
	if err != nil {
		return serviceError(c, "error in batch churn prediction", err)
	}

	return c.JSON(http.StatusOK, echo.Map{"results": results})
}

// GET /api/v1/churn/at-risk?limit=100&threshold=0.7
func (h *ChurnHandler) AtRisk(c echo.Context) error {
	q := AtRiskQuery{Limit: 100, Threshold: 0.7}
	if err := c.Bind(&q); err != nil {
		return c.JSON(http.StatusBadRequest, ResponseError{Message: err.Error()})
	}
	if err := h.validate.Struct(&q); err != nil {
		return c.JSON(http.StatusBadRequest, ResponseError{Message: err.Error()})
	}

	logger.Info("api: at-risk customers", "limit", q.Limit, "threshold", q.Threshold)

	customers, err := h.service.AtRisk(c.Request().Context(), q.Limit, q.Threshold)
	if err != nil {
		return serviceError(c, "error getting at-risk customers", err)
	}

	return c.JSON(http.StatusOK, AtRiskResponse{
		Count:     len(customers),
		Threshold: q.Threshold,
		Customers: customers,
	})
}

// GET /api/v1/churn/metrics
func (h *ChurnHandler) Metrics(c echo.Context) error {
	return c.JSON(http.StatusOK, h.service.Metrics())
}
