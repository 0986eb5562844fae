package repository

import (
	"context"
	"fmt"
	"time"

	"gorm.io/gorm"
	"gorm.io/gorm/clause"

	"github.com/mwaldt/cfpbflow/internal/domain"
	"github.com/mwaldt/cfpbflow/internal/pipeline"
)

const upsertChunkSize = 500

// ComplaintRepository handles raw complaint data operations.
type ComplaintRepository struct {
	db *gorm.DB
}

// NewComplaintRepository creates a new ComplaintRepository.
func NewComplaintRepository(db *gorm.DB) *ComplaintRepository {
	return &ComplaintRepository{db: db}
}

// LoadBatch persists one extraction batch. Records are upserted on
// complaint_id, so replaying the same window after a failed run never
// double-counts: the batch is idempotent per complaint.
func (r *ComplaintRepository) LoadBatch(ctx context.Context, batch *pipeline.Batch) error {
	if len(batch.Records) == 0 {
		return nil
	}

	loadedAt := time.Now()
	records := make([]domain.Complaint, len(batch.Records))
	for i, rec := range batch.Records {
		rec.BatchID = batch.ID
		rec.LoadedAt = loadedAt
		records[i] = rec
	}

	if err := r.db.WithContext(ctx).Clauses(clause.OnConflict{
		Columns:   []clause.Column{{Name: "complaint_id"}},
		UpdateAll: true,
	}).CreateInBatches(records, upsertChunkSize).Error; err != nil {
		return fmt.Errorf("upsert batch %s: %w", batch.ID, err)
	}
	return nil
}

// GetByID retrieves a complaint by its complaint ID.
func (r *ComplaintRepository) GetByID(ctx context.Context, id string) (*domain.Complaint, error) {
	var complaint domain.Complaint
	if err := r.db.WithContext(ctx).First(&complaint, "complaint_id = ?", id).Error; err != nil {
		return nil, err
	}
	return &complaint, nil
}

// List retrieves complaints filtered by company and product with pagination,
// newest received first.
func (r *ComplaintRepository) List(ctx context.Context, company, product string, limit, offset int) ([]domain.Complaint, error) {
	var complaints []domain.Complaint
	query := r.db.WithContext(ctx)
	if company != "" {
		query = query.Where("company = ?", company)
	}
	if product != "" {
		query = query.Where("product = ?", product)
	}
	if err := query.
		Limit(limit).
		Offset(offset).
		Order("date_received DESC").
		Find(&complaints).Error; err != nil {
		return nil, err
	}
	return complaints, nil
}

// GetCompanies retrieves all distinct companies present in the raw table.
func (r *ComplaintRepository) GetCompanies(ctx context.Context) ([]string, error) {
	var companies []string
	if err := r.db.WithContext(ctx).
		Model(&domain.Complaint{}).
		Distinct("company").
		Order("company").
		Pluck("company", &companies).Error; err != nil {
		return nil, err
	}
	return companies, nil
}

// Count returns the total number of raw complaints.
func (r *ComplaintRepository) Count(ctx context.Context) (int64, error) {
	var count int64
	if err := r.db.WithContext(ctx).Model(&domain.Complaint{}).Count(&count).Error; err != nil {
		return 0, err
	}
	return count, nil
}

// CountByCompany returns the number of raw complaints for one company.
func (r *ComplaintRepository) CountByCompany(ctx context.Context, company string) (int64, error) {
	var count int64
	if err := r.db.WithContext(ctx).
		Model(&domain.Complaint{}).
		Where("company = ?", company).
		Count(&count).Error; err != nil {
		return 0, err
	}
	return count, nil
}
