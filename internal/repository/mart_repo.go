package repository

import (
	"context"

	"gorm.io/gorm"
)

// CompanyStats is one row of mart_complaints_by_company.
type CompanyStats struct {
	Company            string `json:"company"`
	TotalComplaints    int64  `json:"total_complaints"`
	FirstReceived      string `json:"first_received"`
	LastReceived       string `json:"last_received"`
	TimelyResponses    int64  `json:"timely_responses"`
	DisputedComplaints int64  `json:"disputed_complaints"`
}

// ProductMonthStats is one row of mart_complaints_by_product_month.
type ProductMonthStats struct {
	Product         string `json:"product"`
	ReceivedMonth   string `json:"received_month"`
	TotalComplaints int64  `json:"total_complaints"`
}

// ResponseTimeliness is one row of mart_company_response_timeliness.
type ResponseTimeliness struct {
	Company         string  `json:"company"`
	CompanyResponse string  `json:"company_response"`
	TotalComplaints int64   `json:"total_complaints"`
	TimelyResponses int64   `json:"timely_responses"`
	TimelyRate      float64 `json:"timely_rate"`
}

// MartRepository reads the transformed mart tables. The marts only exist
// after the first successful transform run; queries against a fresh database
// return empty results, not errors, because the tables are created lazily.
type MartRepository struct {
	db *gorm.DB
}

// NewMartRepository creates a new MartRepository.
func NewMartRepository(db *gorm.DB) *MartRepository {
	return &MartRepository{db: db}
}

func (r *MartRepository) martExists(ctx context.Context, name string) bool {
	return r.db.WithContext(ctx).Migrator().HasTable(name)
}

// CompanyStats returns the per-company mart, largest complaint volume first.
func (r *MartRepository) CompanyStats(ctx context.Context) ([]CompanyStats, error) {
	if !r.martExists(ctx, "mart_complaints_by_company") {
		return []CompanyStats{}, nil
	}
	var stats []CompanyStats
	if err := r.db.WithContext(ctx).
		Raw(`SELECT company, total_complaints, first_received, last_received,
		            timely_responses, disputed_complaints
		     FROM mart_complaints_by_company
		     ORDER BY total_complaints DESC`).
		Scan(&stats).Error; err != nil {
		return nil, err
	}
	return stats, nil
}

// ProductMonthStats returns the product/month mart, optionally filtered by
// product, in chronological order.
func (r *MartRepository) ProductMonthStats(ctx context.Context, product string) ([]ProductMonthStats, error) {
	if !r.martExists(ctx, "mart_complaints_by_product_month") {
		return []ProductMonthStats{}, nil
	}
	query := `SELECT product, received_month, total_complaints
	          FROM mart_complaints_by_product_month`
	args := []interface{}{}
	if product != "" {
		query += ` WHERE product = ?`
		args = append(args, product)
	}
	query += ` ORDER BY received_month, product`

	var stats []ProductMonthStats
	if err := r.db.WithContext(ctx).Raw(query, args...).Scan(&stats).Error; err != nil {
		return nil, err
	}
	return stats, nil
}

// ResponseTimeliness returns the response-timeliness mart.
func (r *MartRepository) ResponseTimeliness(ctx context.Context) ([]ResponseTimeliness, error) {
	if !r.martExists(ctx, "mart_company_response_timeliness") {
		return []ResponseTimeliness{}, nil
	}
	var stats []ResponseTimeliness
	if err := r.db.WithContext(ctx).
		Raw(`SELECT company, company_response, total_complaints, timely_responses, timely_rate
		     FROM mart_company_response_timeliness
		     ORDER BY company, total_complaints DESC`).
		Scan(&stats).Error; err != nil {
		return nil, err
	}
	return stats, nil
}
