package state

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/mwaldt/cfpbflow/internal/domain"
)

func TestFileStoreReadAbsent(t *testing.T) {
	fs := NewFileStore(filepath.Join(t.TempDir(), "state.json"))

	st, err := fs.Read()
	if err != nil {
		t.Fatalf("Read returned error: %v", err)
	}
	if !st.Absent() {
		t.Error("missing file should read as absent state")
	}
}

func TestFileStoreRoundTrip(t *testing.T) {
	path := filepath.Join(t.TempDir(), "state.json")
	fs := NewFileStore(path)

	d, _ := domain.ParseDate("2024-03-10")
	if err := fs.Write(Checkpointed(d)); err != nil {
		t.Fatalf("Write returned error: %v", err)
	}

	st, err := fs.Read()
	if err != nil {
		t.Fatalf("Read returned error: %v", err)
	}
	if st.Absent() {
		t.Fatal("expected checkpoint after write")
	}
	if got := st.LastLoadedDate.String(); got != "2024-03-10" {
		t.Errorf("last loaded date = %s, want 2024-03-10", got)
	}
	if st.UpdatedAt.IsZero() {
		t.Error("updated_at should be set")
	}
}

func TestFileStoreMalformedReadsAsAbsent(t *testing.T) {
	path := filepath.Join(t.TempDir(), "state.json")
	if err := os.WriteFile(path, []byte("{not json"), 0644); err != nil {
		t.Fatal(err)
	}

	fs := NewFileStore(path)
	st, err := fs.Read()
	if err != nil {
		t.Fatalf("malformed state must not be an error, got: %v", err)
	}
	if !st.Absent() {
		t.Error("malformed file should read as absent state")
	}
}

func TestFileStoreWriteOverwrites(t *testing.T) {
	path := filepath.Join(t.TempDir(), "state.json")
	fs := NewFileStore(path)

	first, _ := domain.ParseDate("2024-03-10")
	second, _ := domain.ParseDate("2024-03-12")

	if err := fs.Write(Checkpointed(first)); err != nil {
		t.Fatal(err)
	}
	if err := fs.Write(Checkpointed(second)); err != nil {
		t.Fatal(err)
	}

	st, _ := fs.Read()
	if got := st.LastLoadedDate.String(); got != "2024-03-12" {
		t.Errorf("last loaded date = %s, want 2024-03-12", got)
	}
}

func TestFileStoreReset(t *testing.T) {
	path := filepath.Join(t.TempDir(), "state.json")
	fs := NewFileStore(path)

	d, _ := domain.ParseDate("2024-03-10")
	if err := fs.Write(Checkpointed(d)); err != nil {
		t.Fatal(err)
	}

	if err := fs.Reset(); err != nil {
		t.Fatalf("Reset returned error: %v", err)
	}
	if _, err := os.Stat(path); !os.IsNotExist(err) {
		t.Error("state file should be gone after reset")
	}

	st, _ := fs.Read()
	if !st.Absent() {
		t.Error("state should be absent after reset")
	}

	// Resetting again is a no-op, not an error.
	if err := fs.Reset(); err != nil {
		t.Errorf("second reset should be a no-op, got: %v", err)
	}
}

func TestFileStoreFileUnchangedWithoutWrite(t *testing.T) {
	// A failed run never calls Write, so the on-disk document must be
	// byte-for-byte identical afterwards. Reads must not mutate the file.
	path := filepath.Join(t.TempDir(), "state.json")
	fs := NewFileStore(path)

	d, _ := domain.ParseDate("2024-03-10")
	if err := fs.Write(Checkpointed(d)); err != nil {
		t.Fatal(err)
	}

	before, err := os.ReadFile(path)
	if err != nil {
		t.Fatal(err)
	}

	if _, err := fs.Read(); err != nil {
		t.Fatal(err)
	}
	if _, err := fs.Read(); err != nil {
		t.Fatal(err)
	}

	after, err := os.ReadFile(path)
	if err != nil {
		t.Fatal(err)
	}
	if string(before) != string(after) {
		t.Error("state file changed without an explicit Write")
	}
}

func TestFileStoreCreatesParentDirectory(t *testing.T) {
	path := filepath.Join(t.TempDir(), "nested", "dir", "state.json")
	fs := NewFileStore(path)

	d, _ := domain.ParseDate("2024-03-10")
	if err := fs.Write(Checkpointed(d)); err != nil {
		t.Fatalf("Write should create parent directories: %v", err)
	}
}
