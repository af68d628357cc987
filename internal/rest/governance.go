package rest

import (
	"context"
	"easy11ML/business/governance"
	"easy11ML/domain"
	"net/http"
	"strconv"

	"github.com/AMFarhan21/fres"
	"github.com/go-playground/validator/v10"
	"github.com/labstack/echo/v4"
	"gorm.io/datatypes"
)

type (
	GovernanceHandler struct {
		validate *validator.Validate
		service  GovernanceService
	}

	GovernanceService interface {
		ModelCards() []domain.ModelCard
		ModelCard(modelID string) (*domain.ModelCard, error)
		DriftStatus() []domain.DriftStatus
		AuditLog(ctx context.Context, limit int) ([]domain.AuditLogEntry, error)
		RecordAudit(ctx context.Context, entry domain.AuditLogEntry) (domain.AuditLogEntry, error)
	}

	AuditEntryRequest struct {
		ModelID string         `json:"model_id" validate:"required"`
		Action  string         `json:"action" validate:"required"`
		Actor   string         `json:"actor" validate:"required"`
		Reason  string         `json:"reason"`
		Outcome string         `json:"outcome"`
		Details map[string]any `json:"details"`
	}
)

func NewGovernanceHandler(svc GovernanceService, validate *validator.Validate) *GovernanceHandler {
	return &GovernanceHandler{
		validate: validate,
		service:  svc,
	}
}

// GET /api/v1/governance/model-cards
func (h *GovernanceHandler) ModelCards(c echo.Context) error {
	return c.JSON(http.StatusOK, echo.Map{"model_cards": h.service.ModelCards()})
}

// GET /api/v1/governance/model-cards/:model_id
func (h *GovernanceHandler) ModelCard(c echo.Context) error {
	card, err := h.service.ModelCard(c.Param("model_id"))
	if err != nil {
		return serviceError(c, "error getting model card", err)
	}
	return c.JSON(http.StatusOK, card)
}

// GET /api/v1/governance/drift
func (h *GovernanceHandler) Drift(c echo.Context) error {
	return c.JSON(http.StatusOK, echo.Map{"drift_status": h.service.DriftStatus()})
}

// GET /api/v1/governance/audit-log?limit=25
func (h *GovernanceHandler) AuditLog(c echo.Context) error {
	limit := governance.DefaultAuditLimit
	if raw := c.QueryParam("limit"); raw != "" {
		n, err := strconv.Atoi(raw)
		if err != nil {
			return c.JSON(http.StatusBadRequest, ResponseError{Message: "invalid limit"})
		}
		limit = governance.ClampAuditLimit(n)
	}

	entries, err := h.service.AuditLog(c.Request().Context(), limit)
	if err != nil {
		return serviceError(c, "error listing audit log", err)
	}
	return c.JSON(http.StatusOK, echo.Map{"entries": entries})
}

// POST /api/v1/governance/audit-log
func (h *GovernanceHandler) RecordAudit(c echo.Context) error {
	var req AuditEntryRequest
	if err := c.Bind(&req); err != nil {
		return c.JSON(http.StatusBadRequest, ResponseError{Message: err.Error()})
	}
	if err := h.validate.Struct(&req); err != nil {
		return c.JSON(http.StatusBadRequest, ResponseError{Message: err.Error()})
	}

	entry, err := h.service.RecordAudit(c.Request().Context(), domain.AuditLogEntry{
		ModelID: req.ModelID,
		Action:  req.Action,
		Actor:   req.Actor,
		Reason:  req.Reason,
		Outcome: req.Outcome,
		Details: datatypes.JSONMap(req.Details),
	})
	if err != nil {
		return serviceError(c, "error recording audit entry", err)
	}

	return c.JSON(http.StatusCreated, fres.Response.StatusCreated(entry))
}
