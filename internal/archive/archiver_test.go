package archive

import (
	"bytes"
	"compress/gzip"
	"context"
	"encoding/json"
	"errors"
	"io"
	"strings"
	"testing"

	"github.com/mwaldt/cfpbflow/internal/domain"
	"github.com/mwaldt/cfpbflow/internal/pipeline"
)

type fakeStorage struct {
	uploads map[string][]byte
	err     error
}

func newFakeStorage() *fakeStorage {
	return &fakeStorage{uploads: make(map[string][]byte)}
}

func (f *fakeStorage) Upload(_ context.Context, key string, reader io.Reader, _ int64, _ string) error {
	if f.err != nil {
		return f.err
	}
	data, err := io.ReadAll(reader)
	if err != nil {
		return err
	}
	f.uploads[key] = data
	return nil
}

func (f *fakeStorage) Download(context.Context, string) (io.ReadCloser, error) {
	return nil, errors.New("not implemented")
}

func (f *fakeStorage) GetURL(key string) string {
	return "https://archive.example.com/" + key
}

func (f *fakeStorage) Delete(context.Context, string) error { return nil }

func (f *fakeStorage) Exists(_ context.Context, key string) (bool, error) {
	_, ok := f.uploads[key]
	return ok, nil
}

type countingLoader struct {
	calls int
	err   error
}

func (c *countingLoader) LoadBatch(context.Context, *pipeline.Batch) error {
	c.calls++
	return c.err
}

func testBatch(t *testing.T) *pipeline.Batch {
	t.Helper()

	start, err := domain.ParseDate("2024-03-01")
	if err != nil {
		t.Fatal(err)
	}
	end, err := domain.ParseDate("2024-03-10")
	if err != nil {
		t.Fatal(err)
	}
	return &pipeline.Batch{
		ID:      "b-123",
		Company: "ACME Bank, N.A.",
		Window:  domain.DateRange{Start: start, End: end},
		Records: []domain.Complaint{
			{ComplaintID: "1001", DateReceived: start, Company: "ACME Bank, N.A.", Product: "Credit card"},
			{ComplaintID: "1002", DateReceived: end, Company: "ACME Bank, N.A.", Product: "Mortgage"},
		},
	}
}

func TestCompanySlug(t *testing.T) {
	testCases := []struct {
		in   string
		want string
	}{
		{"ACME Bank, N.A.", "acme-bank-n-a"},
		{"  Globex  Credit  ", "globex-credit"},
		{"plain", "plain"},
		{"Bank of 1st Street", "bank-of-1st-street"},
	}

	for _, tc := range testCases {
		if got := companySlug(tc.in); got != tc.want {
			t.Errorf("companySlug(%q) = %q, want %q", tc.in, got, tc.want)
		}
	}
}

func TestBatchKey(t *testing.T) {
	batch := testBatch(t)

	got := batchKey(batch)
	want := "raw/acme-bank-n-a/2024-03-01_2024-03-10-b-123.json.gz"
	if got != want {
		t.Errorf("batchKey = %q, want %q", got, want)
	}
}

func TestArchivingLoaderUploadsThenDelegates(t *testing.T) {
	storage := newFakeStorage()
	next := &countingLoader{}
	loader := NewArchivingLoader(storage, next)
	batch := testBatch(t)

	if err := loader.LoadBatch(context.Background(), batch); err != nil {
		t.Fatalf("LoadBatch returned error: %v", err)
	}
	if next.calls != 1 {
		t.Errorf("wrapped loader called %d times, want 1", next.calls)
	}

	key := batchKey(batch)
	payload, ok := storage.uploads[key]
	if !ok {
		t.Fatalf("no upload recorded for key %s", key)
	}

	zr, err := gzip.NewReader(bytes.NewReader(payload))
	if err != nil {
		t.Fatalf("upload is not valid gzip: %v", err)
	}
	defer zr.Close()

	var records []domain.Complaint
	if err := json.NewDecoder(zr).Decode(&records); err != nil {
		t.Fatalf("failed to decode archived records: %v", err)
	}
	if len(records) != 2 || records[0].ComplaintID != "1001" || records[1].ComplaintID != "1002" {
		t.Errorf("archived records = %+v", records)
	}
}

func TestArchivingLoaderUploadFailureAborts(t *testing.T) {
	storage := newFakeStorage()
	storage.err = errors.New("bucket unavailable")
	next := &countingLoader{}
	loader := NewArchivingLoader(storage, next)

	err := loader.LoadBatch(context.Background(), testBatch(t))
	if err == nil {
		t.Fatal("expected an error when the upload fails")
	}
	if !strings.Contains(err.Error(), "bucket unavailable") {
		t.Errorf("error %v does not wrap the upload failure", err)
	}
	if next.calls != 0 {
		t.Errorf("wrapped loader called %d times, want 0", next.calls)
	}
}
