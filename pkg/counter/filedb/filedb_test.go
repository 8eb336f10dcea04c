package filedb

import (
	"context"
	"os"
	"path/filepath"
	"testing"
)

func TestStore_Increment(t *testing.T) {
	path := filepath.Join(t.TempDir(), "data", "visitors.json")
	db := New(path)

	for want := int64(1); want <= 3; want++ {
		got, err := db.Increment(context.Background())
		if err != nil {
			t.Fatalf("unexpected error while incrementing: %v", err)
		}
		if got != want {
			t.Errorf("want count %d, got count %d", want, got)
		}
	}

	b, err := os.ReadFile(path)
	if err != nil {
		t.Fatalf("failed to read counter file: %v", err)
	}
	if string(b) != `{"visitorCount":3}` {
		t.Errorf("want file content %q, got %q", `{"visitorCount":3}`, b)
	}
}

func TestStore_ReadPersisted(t *testing.T) {
	path := filepath.Join(t.TempDir(), "visitors.json")
	if err := os.WriteFile(path, []byte(`{"visitorCount": 41}`), 0o644); err != nil {
		t.Fatalf("failed to write counter file: %v", err)
	}

	db := New(path)
	got, err := db.Read(context.Background())
	if err != nil {
		t.Fatalf("unexpected error while reading: %v", err)
	}
	if got != 41 {
		t.Errorf("want count 41, got count %d", got)
	}

	got, err = New(path).Increment(context.Background())
	if err != nil {
		t.Fatalf("unexpected error while incrementing: %v", err)
	}
	if got != 42 {
		t.Errorf("want count 42, got count %d", got)
	}
}

func TestStore_ReadMissingFile(t *testing.T) {
	db := New(filepath.Join(t.TempDir(), "missing.json"))

	got, err := db.Read(context.Background())
	if err != nil {
		t.Fatalf("unexpected error while reading: %v", err)
	}
	if got != 0 {
		t.Errorf("want count 0, got count %d", got)
	}
}

func TestStore_ReadCorrupted(t *testing.T) {
	path := filepath.Join(t.TempDir(), "visitors.json")
	if err := os.WriteFile(path, []byte(`not json`), 0o644); err != nil {
		t.Fatalf("failed to write counter file: %v", err)
	}

	if _, err := New(path).Read(context.Background()); err == nil {
		t.Error("want error for corrupted counter file")
	}
}
