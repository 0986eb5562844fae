package repository

import (
	"context"

	"gorm.io/gorm"

	"github.com/mwaldt/cfpbflow/internal/domain"
)

// RunRepository handles pipeline run audit records.
type RunRepository struct {
	db *gorm.DB
}

// NewRunRepository creates a new RunRepository.
func NewRunRepository(db *gorm.DB) *RunRepository {
	return &RunRepository{db: db}
}

// Record inserts the audit row for a pipeline run.
func (r *RunRepository) Record(ctx context.Context, run *domain.PipelineRun) error {
	return r.db.WithContext(ctx).Create(run).Error
}

// List retrieves runs newest first with pagination.
func (r *RunRepository) List(ctx context.Context, limit, offset int) ([]domain.PipelineRun, error) {
	var runs []domain.PipelineRun
	if err := r.db.WithContext(ctx).
		Limit(limit).
		Offset(offset).
		Order("started_at DESC").
		Find(&runs).Error; err != nil {
		return nil, err
	}
	return runs, nil
}

// Latest returns the most recent run, or gorm.ErrRecordNotFound if none.
func (r *RunRepository) Latest(ctx context.Context) (*domain.PipelineRun, error) {
	var run domain.PipelineRun
	if err := r.db.WithContext(ctx).Order("started_at DESC").First(&run).Error; err != nil {
		return nil, err
	}
	return &run, nil
}
