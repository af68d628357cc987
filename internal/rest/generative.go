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
	GenerativeHandler struct {
		validate *validator.Validate
		service  ContentService
	}

	ContentService interface {
		GenerateMarketingContent(ctx context.Context, req domain.MarketingContentRequest) (*domain.MarketingContent, error)
	}

	MarketingContentRequest struct {
		Topic           string   `json:"topic" validate:"required,min=3"`
		Keywords        []string `json:"keywords"`
		Tone            string   `json:"tone"`
		Length          string   `json:"length"`
		IncludeExamples bool     `json:"include_examples"`
		TargetAudience  string   `json:"target_audience"`
	}
)

func NewGenerativeHandler(svc ContentService, validate *validator.Validate) *GenerativeHandler {
	return &GenerativeHandler{
		validate: validate,
		service:  svc,
	}
}

// POST /api/v1/generative/marketing/content
func (h *GenerativeHandler) MarketingContent(c echo.Context) error {
	req := MarketingContentRequest{Tone: "friendly", Length: "medium", TargetAudience: "customers"}
	if err := c.Bind(&req); err != nil {
		return c.JSON(http.StatusBadRequest, ResponseError{Message: err.Error()})
	}
	if err := h.validate.Struct(&req); err != nil {
		return c.JSON(http.StatusBadRequest, ResponseError{Message: err.Error()})
	}

	logger.Info("api: generating marketing content", "topic", req.Topic, "tone", req.Tone, "length", req.Length)

	content, err := h.service.GenerateMarketingContent(c.Request().Context(), domain.MarketingContentRequest{
		Topic:           req.Topic,
		Keywords:        req.Keywords,
		Tone:            req.Tone,
		Length:          req.Length,
		IncludeExamples: req.IncludeExamples,
		TargetAudience:  req.TargetAudience,
	})
	if err != nil {
		return serviceError(c, "failed to generate marketing content", err)
	}

	return c.JSON(http.StatusOK, content)
}
