package draft

import (
	"io"
	"log/slog"
	"os"
	"path/filepath"
	"testing"
)

func testLogger() *slog.Logger {
	return slog.New(slog.NewTextHandler(io.Discard, nil))
}

func testFileStore(t *testing.T) *FileStore {
	t.Helper()
	s, err := NewFileStore(t.TempDir(), testLogger())
	if err != nil {
		t.Fatalf("NewFileStore: %v", err)
	}
	return s
}

func TestFileStore_EmptyOnFreshDir(t *testing.T) {
	s := testFileStore(t)
	if got := s.List(); len(got) != 0 {
		t.Fatalf("expected empty collection, got %d entries", len(got))
	}
}

func TestFileStore_UpsertIdempotent(t *testing.T) {
	s := testFileStore(t)
	d := Draft{ID: "a1", Title: "Affidavit - rent", Type: "Affidavit", Status: StatusDraft, Content: "body"}

	if _, err := s.Upsert(d); err != nil {
		t.Fatalf("first upsert: %v", err)
	}
	drafts, err := s.Upsert(d)
	if err != nil {
		t.Fatalf("second upsert: %v", err)
	}
	if len(drafts) != 1 {
		t.Fatalf("expected 1 entry after double upsert, got %d", len(drafts))
	}
	if drafts[0] != d {
		t.Errorf("stored draft = %+v, want %+v", drafts[0], d)
	}
}

func TestFileStore_UpsertReplacesById(t *testing.T) {
	s := testFileStore(t)
	s.Upsert(Draft{ID: "a1", Title: "old", Status: StatusDraft})
	s.Upsert(Draft{ID: "a2", Title: "other", Status: StatusDraft})

	drafts, err := s.Upsert(Draft{ID: "a1", Title: "new", Status: StatusDraft})
	if err != nil {
		t.Fatalf("upsert: %v", err)
	}
	if len(drafts) != 2 {
		t.Fatalf("expected 2 entries, got %d", len(drafts))
	}
	count := 0
	for _, d := range drafts {
		if d.ID == "a1" {
			count++
			if d.Title != "new" {
				t.Errorf("a1 title = %q, want %q", d.Title, "new")
			}
		}
	}
	if count != 1 {
		t.Errorf("expected exactly one entry with id a1, got %d", count)
	}
}

func TestFileStore_DeleteMissingIsNoop(t *testing.T) {
	s := testFileStore(t)
	s.Upsert(Draft{ID: "a1", Status: StatusDraft})

	drafts, err := s.Delete("nonexistent")
	if err != nil {
		t.Fatalf("delete: %v", err)
	}
	if len(drafts) != 1 {
		t.Fatalf("expected collection unchanged, got %d entries", len(drafts))
	}
}

func TestFileStore_Delete(t *testing.T) {
	s := testFileStore(t)
	s.Upsert(Draft{ID: "a1", Status: StatusDraft})
	s.Upsert(Draft{ID: "a2", Status: StatusDraft})

	drafts, err := s.Delete("a1")
	if err != nil {
		t.Fatalf("delete: %v", err)
	}
	if len(drafts) != 1 || drafts[0].ID != "a2" {
		t.Fatalf("unexpected collection after delete: %+v", drafts)
	}
}

func TestFileStore_CorruptFileReadsEmpty(t *testing.T) {
	dir := t.TempDir()
	s, err := NewFileStore(dir, testLogger())
	if err != nil {
		t.Fatalf("NewFileStore: %v", err)
	}
	if err := os.WriteFile(filepath.Join(dir, storeFilename), []byte("{not json"), 0o644); err != nil {
		t.Fatalf("write corrupt file: %v", err)
	}

	if got := s.List(); len(got) != 0 {
		t.Fatalf("expected empty collection from corrupt file, got %d entries", len(got))
	}

	// A mutation after corruption starts a fresh collection.
	drafts, err := s.Upsert(Draft{ID: "a1", Status: StatusDraft})
	if err != nil {
		t.Fatalf("upsert after corruption: %v", err)
	}
	if len(drafts) != 1 {
		t.Fatalf("expected 1 entry, got %d", len(drafts))
	}
}

func TestFileStore_PersistsAcrossInstances(t *testing.T) {
	dir := t.TempDir()
	s1, _ := NewFileStore(dir, testLogger())
	s1.Upsert(Draft{ID: "a1", Title: "kept", Status: StatusDraft, Content: "body"})

	s2, _ := NewFileStore(dir, testLogger())
	drafts := s2.List()
	if len(drafts) != 1 || drafts[0].Title != "kept" {
		t.Fatalf("unexpected collection from second instance: %+v", drafts)
	}
}

func TestMemStore_SameSemantics(t *testing.T) {
	s := NewMemStore()
	d := Draft{ID: "m1", Status: StatusDraft}
	s.Upsert(d)
	drafts, _ := s.Upsert(d)
	if len(drafts) != 1 {
		t.Fatalf("expected 1 entry after double upsert, got %d", len(drafts))
	}
	drafts, _ = s.Delete("missing")
	if len(drafts) != 1 {
		t.Fatalf("expected delete of missing id to be a no-op, got %d entries", len(drafts))
	}
	drafts, _ = s.Delete("m1")
	if len(drafts) != 0 {
		t.Fatalf("expected empty collection, got %d entries", len(drafts))
	}
}

func TestNewID_Unique(t *testing.T) {
	seen := make(map[string]bool)
	for range 1000 {
		id := NewID()
		if len(id) != 26 {
			t.Fatalf("id length = %d, want 26", len(id))
		}
		if seen[id] {
			t.Fatalf("duplicate id %s", id)
		}
		seen[id] = true
	}
}

func TestHandoff_TakeClearsSlot(t *testing.T) {
	h := NewHandoff()
	if _, ok := h.Take(); ok {
		t.Fatal("expected empty slot")
	}

	h.Put(Draft{ID: "a1"})
	d, ok := h.Take()
	if !ok || d.ID != "a1" {
		t.Fatalf("Take = (%+v, %v), want draft a1", d, ok)
	}
	if _, ok := h.Take(); ok {
		t.Fatal("expected slot cleared after Take")
	}
}

func TestStatusValid(t *testing.T) {
	if !StatusDraft.Valid() || !StatusCompleted.Valid() {
		t.Error("known statuses reported invalid")
	}
	if Status("Archived").Valid() {
		t.Error("unknown status reported valid")
	}
}
