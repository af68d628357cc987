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
	PricingHandler struct {
		validate *validator.Validate
		service  PricingService
	}

	PricingService interface {
		RecommendPrice(ctx context.Context, req domain.PriceRequest) (*domain.PriceRecommendation, error)
		BulkRecommendations(ctx context.Context, items []domain.BulkPriceItem, vendorID, strategy string) (*domain.BulkPriceResult, error)
		SimulateDiscount(ctx context.Context, req domain.DiscountRequest) (*domain.DiscountSimulation, error)
		Metrics() domain.PricingMetrics
	}

	PriceRecommendationRequest struct {
		ProductID    string   `json:"product_id" validate:"required"`
		CurrentPrice float64  `json:"current_price" validate:"gt=0"`
		CostPrice    *float64 `json:"cost_price" validate:"omitempty,gt=0"`
		VendorID     string   `json:"vendor_id"`
		Strategy     string   `json:"strategy" validate:"oneof=balanced growth margin"`
		Currency     string   `json:"currency"`
	}

	BulkPriceItemRequest struct {
		ProductID    string   `json:"product_id" validate:"required"`
		CurrentPrice float64  `json:"current_price" validate:"gt=0"`
		CostPrice    *float64 `json:"cost_price" validate:"omitempty,gt=0"`
		Strategy     string   `json:"strategy" validate:"omitempty,oneof=balanced growth margin"`
		Currency     string   `json:"currency"`
	}

	BulkPriceRequest struct {
		VendorID string                 `json:"vendor_id"`
		Items    []BulkPriceItemRequest `json:"items" validate:"dive"`
		Strategy string                 `json:"strategy" validate:"oneof=balanced growth margin"`
	}

	DiscountSimulationRequest struct {
		ProductID   string  `json:"product_id" validate:"required"`
		BasePrice   float64 `json:"base_price" validate:"gt=0"`
		CostPrice   float64 `json:"cost_price" validate:"gt=0"`
		DiscountPct float64 `json:"discount_pct"`
		Strategy    string  `json:"strategy" validate:"oneof=balanced growth margin"`
	}
)

func NewPricingHandler(svc PricingService, validate *validator.Validate) *PricingHandler {
	return &PricingHandler{
		validate: validate,
		service:  svc,
	}
}

// POST /api/v1/pricing/recommendation
func (h *PricingHandler) Recommend(c echo.Context) error {
	req := PriceRecommendationRequest{Strategy: "balanced", Currency: "USD"}
	if err := c.Bind(&req); err != nil {
		return c.JSON(http.StatusBadRequest, ResponseError{Message: err.Error()})
	}
	if err := h.validate.Struct(&req); err != nil {
		return c.JSON(http.StatusBadRequest, ResponseError{Message: err.Error()})
	}

	logger.Info("api: price recommendation", "product_id", req.ProductID, "strategy", req.Strategy)

	rec, err := h.service.RecommendPrice(c.Request().Context(), domain.PriceRequest{
		ProductID:    req.ProductID,
		CurrentPrice: req.CurrentPrice,
		CostPrice:    req.CostPrice,
		VendorID:     req.VendorID,
		Strategy:     req.Strategy,
		Currency:     req.Currency,
	})
	if err != nil {
		return serviceError(c, "price recommendation failed", err)
	}

	return c.JSON(http.StatusOK, rec)
}

// POST /api/v1/pricing/bulk
func (h *PricingHandler) Bulk(c echo.Context) error {
	req := BulkPriceRequest{Strategy: "balanced"}
	if err := c.Bind(&req); err != nil {
		return c.JSON(http.StatusBadRequest, ResponseError{Message: err.Error()})
	}
	if len(req.Items) == 0 {
		return c.JSON(http.StatusBadRequest, ResponseError{Message: "At least one item is required"})
	}
	if err := h.validate.Struct(&req); err != nil {
		return c.JSON(http.StatusBadRequest, ResponseError{Message: err.Error()})
	}

	logger.Info("api: bulk pricing", "count", len(req.Items), "vendor_id", req.VendorID)

	items := make([]domain.BulkPriceItem, 0, len(req.Items))
	for _, it := range req.Items {
		items = append(items, domain.BulkPriceItem{
			ProductID:    it.ProductID,
			CurrentPrice: it.CurrentPrice,
			CostPrice:    it.CostPrice,
			Strategy:     it.Strategy,
			Currency:     it.Currency,
		})
	}

	result, err := h.service.BulkRecommendations(c.Request().Context(), items, req.VendorID, req.Strategy)
	if err != nil {
		return serviceError(c, "bulk pricing failed", err)
	}

	return c.JSON(http.StatusOK, result)
}

// POST /api/v1/pricing/simulate-discount
func (h *PricingHandler) SimulateDiscount(c echo.Context) error {
	req := DiscountSimulationRequest{Strategy: "balanced"}
	if err := c.Bind(&req); err != nil {
		return c.JSON(http.StatusBadRequest, ResponseError{Message: err.Error()})
	}
	if err := h.validate.Struct(&req); err != nil {
		return c.JSON(http.StatusBadRequest, ResponseError{Message: err.Error()})
	}

	logger.Info("api: simulate discount", "product_id", req.ProductID, "discount_pct", req.DiscountPct)

	sim, err := h.service.SimulateDiscount(c.Request().Context(), domain.DiscountRequest{
		ProductID:   req.ProductID,
		BasePrice:   req.BasePrice,
		CostPrice:   req.CostPrice,
		DiscountPct: req.DiscountPct,
		Strategy:    req.Strategy,
	})
	if err != nil {
		return serviceError(c, "discount simulation failed", err)
	}

	return c.JSON(http.StatusOK, sim)
}

// GET /api/v1/pricing/metrics
func (h *PricingHandler) Metrics(c echo.Context) error {
	return c.JSON(http.StatusOK, h.service.Metrics())
}
