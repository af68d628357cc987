package postgres

import (
	"context"
	"easy11ML/domain"
	"fmt"

	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

type PipelineRunRepository struct {
	DB *gorm.DB
}

func NewPipelineRunRepository(db *gorm.DB) *PipelineRunRepository {
	return &PipelineRunRepository{DB: db}
}

// SaveRun inserts the run or updates its status columns when it already exists.
func (r *PipelineRunRepository) SaveRun(ctx context.Context, run *domain.PipelineRun) error {
	if err := ctx.Err(); err != nil {
		return fmt.Errorf("context error: %w", err)
	}

	err := r.DB.WithContext(ctx).
		Clauses(clause.OnConflict{
			Columns:   []clause.Column{{Name: "id"}},
			DoUpdates: clause.AssignmentColumns([]string{"status", "failed_task", "error", "finished_at"}),
		}).
		Create(run).Error
	if err != nil {
		return fmt.Errorf("failed to upsert pipeline run: %w", err)
	}

	return nil
}

func (r *PipelineRunRepository) LatestRuns(ctx context.Context, flow string, limit int) ([]domain.PipelineRun, error) {
	if err := ctx.Err(); err != nil {
		return nil, fmt.Errorf("context error: %w", err)
	}

	var runs []domain.PipelineRun
	err := r.DB.WithContext(ctx).
		Where("flow = ?", flow).
		Order("started_at DESC").
		Limit(limit).
		Find(&runs).Error
	if err != nil {
		return nil, fmt.Errorf("failed to query pipeline_runs: %w", err)
	}

	return runs, nil
}

// Migrate creates the tables owned by this service.
func Migrate(db *gorm.DB) error {
	if err := db.AutoMigrate(&domain.AuditLogEntry{}, &domain.PipelineRun{}); err != nil {
		return fmt.Errorf("failed to migrate: %w", err)
	}
	return nil
}
