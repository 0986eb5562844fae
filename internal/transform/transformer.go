package transform

import (
	"context"
	"fmt"
	"time"

	"gorm.io/gorm"

	"github.com/mwaldt/cfpbflow/internal/logger"
)

// Transformer rebuilds the SQL models in-database. It is the transform stage
// of the pipeline: raw data is loaded first, then reshaped here.
type Transformer struct {
	db *gorm.DB
}

// NewTransformer creates a Transformer over the analytical database.
func NewTransformer(db *gorm.DB) *Transformer {
	return &Transformer{db: db}
}

// Run executes every model in order. Models are rebuilt from scratch on each
// run, so a half-finished previous transform leaves no residue.
func (t *Transformer) Run(ctx context.Context) error {
	start := time.Now()

	for _, model := range Models {
		for _, stmt := range model.Statements {
			if err := t.db.WithContext(ctx).Exec(stmt).Error; err != nil {
				return fmt.Errorf("model %s: %w", model.Name, err)
			}
		}
		logger.CtxDebug(ctx, "Built model %s", model.Name)
	}

	logger.With(logger.Fields{
		logger.FieldCount:      len(Models),
		logger.FieldDurationMs: time.Since(start).Milliseconds(),
	}).Info(ctx, "Transform models rebuilt")

	return nil
}

// Test runs the data quality checks and returns one error per failure. A
// query error counts as a failure of that test.
func (t *Transformer) Test(ctx context.Context) []error {
	var failures []error

	for _, test := range DataTests {
		var count int64
		if err := t.db.WithContext(ctx).Raw(test.Query).Scan(&count).Error; err != nil {
			failures = append(failures, fmt.Errorf("%s: query failed: %w", test.Name, err))
			continue
		}
		if count != 0 {
			failures = append(failures, fmt.Errorf("%s: %d offending rows", test.Name, count))
		}
	}

	return failures
}
