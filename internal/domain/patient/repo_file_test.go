package patient

import (
	"bytes"
	"context"
	"errors"
	"os"
	"path/filepath"
	"strings"
	"testing"
)

func tempRepo(t *testing.T) (CollectionRepository, string) {
	t.Helper()
	path := filepath.Join(t.TempDir(), "patients.json")
	return NewFileRepo(path), path
}

func sampleCollection() Collection {
	return Collection{
		"P001": {Name: "John Doe", City: "New York", Age: 30, Gender: GenderMale, Height: 1.75, Weight: 70, BMI: 22.86, Verdict: VerdictNormal},
		"P002": {Name: "Jane Roe", City: "Boston", Age: 25, Gender: GenderFemale, Height: 1.62, Weight: 55, BMI: 20.96, Verdict: VerdictNormal},
	}
}

func TestFileRepo_SaveLoadRoundTrip(t *testing.T) {
	repo, path := tempRepo(t)
	ctx := context.Background()

	if err := repo.Save(ctx, sampleCollection()); err != nil {
		t.Fatalf("save: %v", err)
	}
	first, err := os.ReadFile(path)
	if err != nil {
		t.Fatalf("read document: %v", err)
	}

	col, err := repo.Load(ctx)
	if err != nil {
		t.Fatalf("load: %v", err)
	}
	if len(col) != 2 {
		t.Fatalf("expected 2 records, got %d", len(col))
	}
	if col["P001"].Name != "John Doe" || col["P001"].BMI != 22.86 {
		t.Errorf("record P001 mismatch: %+v", col["P001"])
	}

	// Saving a freshly loaded, unmodified collection reproduces the document.
	if err := repo.Save(ctx, col); err != nil {
		t.Fatalf("re-save: %v", err)
	}
	second, err := os.ReadFile(path)
	if err != nil {
		t.Fatalf("re-read document: %v", err)
	}
	if !bytes.Equal(first, second) {
		t.Errorf("save(load()) changed the document:\nbefore: %s\nafter: %s", first, second)
	}
}

func TestFileRepo_DocumentShape(t *testing.T) {
	repo, path := tempRepo(t)
	if err := repo.Save(context.Background(), sampleCollection()); err != nil {
		t.Fatalf("save: %v", err)
	}
	raw, _ := os.ReadFile(path)
	doc := string(raw)

	if !strings.Contains(doc, "    \"name\": \"John Doe\"") {
		t.Errorf("expected 4-space indented name field, got:\n%s", doc)
	}
	// The id is the key, never a payload field.
	if strings.Contains(doc, "\"id\"") {
		t.Errorf("id must not be duplicated into the payload:\n%s", doc)
	}
	// Stable field order: name before city before age.
	ni, ci, ai := strings.Index(doc, "\"name\""), strings.Index(doc, "\"city\""), strings.Index(doc, "\"age\"")
	if !(ni < ci && ci < ai) {
		t.Errorf("field order not stable: name=%d city=%d age=%d", ni, ci, ai)
	}
}

func TestFileRepo_LoadMissingFile(t *testing.T) {
	repo, _ := tempRepo(t)
	_, err := repo.Load(context.Background())
	var nf *NotFoundError
	if !errors.As(err, &nf) {
		t.Fatalf("expected NotFoundError, got %v", err)
	}
}

func TestFileRepo_LoadCorruptDocument(t *testing.T) {
	repo, path := tempRepo(t)
	if err := os.WriteFile(path, []byte("{not json"), 0o644); err != nil {
		t.Fatal(err)
	}
	_, err := repo.Load(context.Background())
	var se *StorageError
	if !errors.As(err, &se) {
		t.Fatalf("expected StorageError, got %v", err)
	}
}

func TestFileRepo_SaveUnwritablePath(t *testing.T) {
	repo := NewFileRepo(filepath.Join(t.TempDir(), "no-such-dir", "patients.json"))
	err := repo.Save(context.Background(), sampleCollection())
	var se *StorageError
	if !errors.As(err, &se) {
		t.Fatalf("expected StorageError, got %v", err)
	}
}

func TestFileRepo_LoadEmptyObject(t *testing.T) {
	repo, path := tempRepo(t)
	if err := os.WriteFile(path, []byte("{}"), 0o644); err != nil {
		t.Fatal(err)
	}
	col, err := repo.Load(context.Background())
	if err != nil {
		t.Fatalf("load: %v", err)
	}
	if col == nil || len(col) != 0 {
		t.Errorf("expected empty non-nil collection, got %v", col)
	}
}
