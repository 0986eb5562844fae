package archive

import (
	"bytes"
	"compress/gzip"
	"context"
	"encoding/json"
	"fmt"
	"strings"

	"github.com/mwaldt/cfpbflow/internal/logger"
	"github.com/mwaldt/cfpbflow/internal/pipeline"
)

// ArchivingLoader decorates a pipeline.Loader with a raw-batch archive: each
// batch is written to object storage as gzipped JSON before it is loaded into
// the database. An archive failure aborts the batch so the checkpoint stays
// put and the window is retried.
type ArchivingLoader struct {
	storage ObjectStorage
	next    pipeline.Loader
}

// NewArchivingLoader wraps next with batch archiving into storage.
func NewArchivingLoader(storage ObjectStorage, next pipeline.Loader) *ArchivingLoader {
	return &ArchivingLoader{storage: storage, next: next}
}

// LoadBatch archives the batch and then delegates to the wrapped loader.
func (a *ArchivingLoader) LoadBatch(ctx context.Context, batch *pipeline.Batch) error {
	key := batchKey(batch)

	payload, err := encodeBatch(batch)
	if err != nil {
		return fmt.Errorf("encode batch %s: %w", batch.ID, err)
	}

	if err := a.storage.Upload(ctx, key, bytes.NewReader(payload), int64(len(payload)), "application/gzip"); err != nil {
		return fmt.Errorf("archive batch %s: %w", batch.ID, err)
	}

	logger.With(logger.Fields{
		logger.FieldSize: len(payload),
	}).Debug(ctx, "Archived batch to %s", key)

	return a.next.LoadBatch(ctx, batch)
}

func encodeBatch(batch *pipeline.Batch) ([]byte, error) {
	var buf bytes.Buffer
	zw := gzip.NewWriter(&buf)
	if err := json.NewEncoder(zw).Encode(batch.Records); err != nil {
		zw.Close()
		return nil, err
	}
	if err := zw.Close(); err != nil {
		return nil, err
	}
	return buf.Bytes(), nil
}

func batchKey(batch *pipeline.Batch) string {
	return fmt.Sprintf("raw/%s/%s_%s-%s.json.gz",
		companySlug(batch.Company), batch.Window.Start, batch.Window.End, batch.ID)
}

// companySlug makes a company name safe for use in an object key.
func companySlug(company string) string {
	slug := strings.ToLower(strings.TrimSpace(company))
	slug = strings.Map(func(r rune) rune {
		switch {
		case r >= 'a' && r <= 'z', r >= '0' && r <= '9':
			return r
		default:
			return '-'
		}
	}, slug)
	for strings.Contains(slug, "--") {
		slug = strings.ReplaceAll(slug, "--", "-")
	}
	return strings.Trim(slug, "-")
}
