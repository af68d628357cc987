package governance

import (
	"context"
	"easy11ML/domain"
	"easy11ML/pkg/logger"
	"fmt"
	"time"
)

const (
	DefaultAuditLimit = 25
	MaxAuditLimit     = 100
)

// AuditRepository stores audit log entries; ListRecent returns newest first.
type AuditRepository interface {
	Create(ctx context.Context, entry *domain.AuditLogEntry) error
	ListRecent(ctx context.Context, limit int) ([]domain.AuditLogEntry, error)
	Count(ctx context.Context) (int64, error)
}

type Service struct {
	audit AuditRepository
	now   func() time.Time
}

func NewService(audit AuditRepository) *Service {
	return &Service{audit: audit, now: time.Now}
}

func (s *Service) ModelCards() []domain.ModelCard {
	return modelCards(s.now())
}

func (s *Service) ModelCard(modelID string) (*domain.ModelCard, error) {
	for _, c := range s.ModelCards() {
		if c.ModelID == modelID {
			return &c, nil
		}
	}
	return nil, fmt.Errorf("model card %q: %w", modelID, domain.ErrNotFound)
}

func (s *Service) DriftStatus() []domain.DriftStatus {
	return driftStatus(s.now())
}

// ClampAuditLimit maps missing or out of range limits into [1, MaxAuditLimit].
func ClampAuditLimit(limit int) int {
	if limit == 0 {
		return DefaultAuditLimit
	}
	return min(max(limit, 1), MaxAuditLimit)
}

func (s *Service) AuditLog(ctx context.Context, limit int) ([]domain.AuditLogEntry, error) {
	if err := ctx.Err(); err != nil {
		return nil, fmt.Errorf("context error: %w", err)
	}

	entries, err := s.audit.ListRecent(ctx, ClampAuditLimit(limit))
	if err != nil {
		return nil, fmt.Errorf("list audit log: %w", err)
	}
	return entries, nil
}

func (s *Service) RecordAudit(ctx context.Context, entry domain.AuditLogEntry) (domain.AuditLogEntry, error) {
	if err := ctx.Err(); err != nil {
		return domain.AuditLogEntry{}, fmt.Errorf("context error: %w", err)
	}
	if entry.ModelID == "" || entry.Action == "" || entry.Actor == "" {
		return domain.AuditLogEntry{}, fmt.Errorf("%w: model_id, action and actor are required", domain.ErrInvalidInput)
	}
	if entry.Timestamp.IsZero() {
		entry.Timestamp = s.now().UTC()
	}

	if err := s.audit.Create(ctx, &entry); err != nil {
		return domain.AuditLogEntry{}, fmt.Errorf("record audit entry: %w", err)
	}

	logger.Info("audit entry recorded",
		"trace_id", domain.TraceIDFromContext(ctx),
		"model_id", entry.ModelID,
		"action", entry.Action,
		"actor", entry.Actor,
	)
	return entry, nil
}

// Seed writes the reference entries when the log is empty.
func (s *Service) Seed(ctx context.Context) error {
	if err := ctx.Err(); err != nil {
		return fmt.Errorf("context error: %w", err)
	}

	n, err := s.audit.Count(ctx)
	if err != nil {
		return fmt.Errorf("count audit log: %w", err)
	}
	if n > 0 {
		return nil
	}

	for _, e := range seedEntries(s.now()) {
		entry := e
		if err := s.audit.Create(ctx, &entry); err != nil {
			return fmt.Errorf("seed audit log: %w", err)
		}
	}
	return nil
}
