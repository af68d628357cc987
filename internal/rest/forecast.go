package rest

import (
	"context"
	"easy11ML/business/forecasting"
	"easy11ML/domain"
	"easy11ML/pkg/logger"
	"net/http"

	"github.com/go-playground/validator/v10"
	"github.com/labstack/echo/v4"
)

type (
	ForecastHandler struct {
		validate *validator.Validate
		service  ForecastService
	}

	ForecastService interface {
		ForecastDemand(ctx context.Context, horizon int, algo forecasting.Algorithm) (*domain.DemandForecast, error)
		ForecastProduct(ctx context.Context, productID string, horizon int, algo forecasting.Algorithm) (*domain.ProductForecast, error)
		Trends(ctx context.Context, period string) (*domain.DemandTrends, error)
		Metrics() domain.ForecastMetrics
	}

	ForecastRequest struct {
		ProductID string `param:"product_id" json:"-"`
		Horizon   int    `json:"horizon" validate:"gte=1,lte=365"`
		Algo      string `json:"algo" validate:"oneof=prophet xgboost"`
	}
)

func NewForecastHandler(svc ForecastService, validate *validator.Validate) *ForecastHandler {
	return &ForecastHandler{
		validate: validate,
		service:  svc,
	}
}

func (h *ForecastHandler) bind(c echo.Context) (ForecastRequest, error) {
	req := ForecastRequest{Horizon: 30, Algo: string(forecasting.AlgoProphet)}
	if err := c.Bind(&req); err != nil {
		return req, err
	}
	return req, h.validate.Struct(&req)
}

// POST /api/v1/forecast/demand
func (h *ForecastHandler) Demand(c echo.Context) error {
	req, err := h.bind(c)
	if err != nil {
		return c.JSON(http.StatusBadRequest, ResponseError{Message: err.Error()})
	}

	logger.Info("api: forecasting demand", "horizon", req.Horizon, "algo", req.Algo)

	forecast, err := h.service.ForecastDemand(c.Request().Context(), req.Horizon, forecasting.Algorithm(req.Algo))
	if err != nil {
		return serviceError(c, "error forecasting demand", err)
	}

	return c.JSON(http.StatusOK, forecast)
}

// POST /api/v1/forecast/product/:product_id
func (h *ForecastHandler) Product(c echo.Context) error {
	req, err := h.bind(c)
	if err != nil {
		return c.JSON(http.StatusBadRequest, ResponseError{Message: err.Error()})
	}

	logger.Info("api: forecasting product demand", "product_id", req.ProductID, "horizon", req.Horizon)

	forecast, err := h.service.ForecastProduct(c.Request().Context(), req.ProductID, req.Horizon, forecasting.Algorithm(req.Algo))
	if err != nil {
		return serviceError(c, "error forecasting product", err)
	}

	return c.JSON(http.StatusOK, forecast)
}

// GET /api/v1/forecast/trends?period=30d
func (h *ForecastHandler) Trends(c echo.Context) error {
	period := c.QueryParam("period")
	if period == "" {
		period = "30d"
	}

	trends, err := h.service.Trends(c.Request().Context(), period)
	if err != nil {
		return serviceError(c, "error getting trends", err)
	}

	return c.JSON(http.StatusOK, trends)
}

// GET /api/v1/forecast/metrics
func (h *ForecastHandler) Metrics(c echo.Context) error {
	return c.JSON(http.StatusOK, h.service.Metrics())
}
