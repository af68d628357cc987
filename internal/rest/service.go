package rest

import (
	"context"
	"easy11ML/domain"
	"net/http"
	"strconv"

	"github.com/AMFarhan21/fres"
	"github.com/labstack/echo/v4"
)

type (
	ServiceHandler struct {
		name    string
		version string
		store   StorePinger
		runs    RunHistory
	}

	StorePinger interface {
		Ping(ctx context.Context) error
	}

	RunHistory interface {
		LatestRuns(ctx context.Context, flow string, limit int) ([]domain.PipelineRun, error)
	}
)

// NewServiceHandler serves the descriptor and health endpoints; store is reported in
// /health when set.
func NewServiceHandler(name, version string, store StorePinger, runs RunHistory) *ServiceHandler {
	return &ServiceHandler{name: name, version: version, store: store, runs: runs}
}

// GET /
func (h *ServiceHandler) Root(c echo.Context) error {
	return c.JSON(http.StatusOK, echo.Map{
		"service": h.name,
		"version": h.version,
		"status":  "healthy",
		"endpoints": map[string]string{
			"recommendations": "/api/v1/recommendations",
			"churn":           "/api/v1/churn",
			"forecast":        "/api/v1/forecast",
			"pricing":         "/api/v1/pricing",
			"generative":      "/api/v1/generative",
			"governance":      "/api/v1/governance",
			"health":          "/health",
			"metrics":         "/metrics",
		},
	})
}

// GET /health
func (h *ServiceHandler) Health(c echo.Context) error {
	body := echo.Map{
		"status":  "healthy",
		"service": "ml-service",
		"version": h.version,
	}

	// reported only, a store outage never fails the health check
	if h.store != nil {
		status := "connected"
		if err := h.store.Ping(c.Request().Context()); err != nil {
			status = "unavailable"
		}
		body["feature_store"] = status
	}

	return c.JSON(http.StatusOK, body)
}

// GET /api/v1/pipelines/runs?flow=easy11_daily_etl&limit=20
func (h *ServiceHandler) PipelineRuns(c echo.Context) error {
	if h.runs == nil {
		return c.JSON(http.StatusNotFound, ResponseError{Message: "pipeline run history is not configured"})
	}

	flow := c.QueryParam("flow")
	if flow == "" {
		return c.JSON(http.StatusBadRequest, ResponseError{Message: "flow is required"})
	}
	limit := 20
	if raw := c.QueryParam("limit"); raw != "" {
		n, err := strconv.Atoi(raw)
		if err != nil || n < 1 || n > 100 {
			return c.JSON(http.StatusBadRequest, ResponseError{Message: "limit must be between 1 and 100"})
		}
		limit = n
	}

	runs, err := h.runs.LatestRuns(c.Request().Context(), flow, limit)
	if err != nil {
		return serviceError(c, "error listing pipeline runs", err)
	}
	return c.JSON(http.StatusOK, fres.Response.StatusOK(runs))
}
