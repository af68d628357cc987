package postgres

import (
	"context"
	"easy11ML/business/governance"
	"easy11ML/domain"
	"fmt"

	"gorm.io/gorm"
)

type AuditRepository struct {
	DB *gorm.DB
}

var _ governance.AuditRepository = (*AuditRepository)(nil)

func NewAuditRepository(db *gorm.DB) *AuditRepository {
	return &AuditRepository{DB: db}
}

func (r *AuditRepository) Create(ctx context.Context, entry *domain.AuditLogEntry) error {
	if err := ctx.Err(); err != nil {
		return fmt.Errorf("context error: %w", err)
	}

	if err := r.DB.WithContext(ctx).Create(entry).Error; err != nil {
		return fmt.Errorf("failed to insert audit entry: %w", err)
	}

	return nil
}

func (r *AuditRepository) ListRecent(ctx context.Context, limit int) ([]domain.AuditLogEntry, error) {
	if err := ctx.Err(); err != nil {
		return nil, fmt.Errorf("context error: %w", err)
	}

	var entries []domain.AuditLogEntry
	err := r.DB.WithContext(ctx).
		Order("timestamp DESC").
		Order("id DESC").
		Limit(limit).
		Find(&entries).Error
	if err != nil {
		return nil, fmt.Errorf("failed to query governance_audit_log: %w", err)
	}

	return entries, nil
}

func (r *AuditRepository) Count(ctx context.Context) (int64, error) {
	if err := ctx.Err(); err != nil {
		return 0, fmt.Errorf("context error: %w", err)
	}

	var n int64
	if err := r.DB.WithContext(ctx).Model(&domain.AuditLogEntry{}).Count(&n).Error; err != nil {
		return 0, fmt.Errorf("failed to count audit entries: %w", err)
	}

	return n, nil
}
