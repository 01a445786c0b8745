package api

import (
	"bytes"
	"encoding/json"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/nyayalink/lexdraft/internal/assistant"
	"github.com/nyayalink/lexdraft/internal/config"
	"github.com/nyayalink/lexdraft/internal/draft"
	"github.com/nyayalink/lexdraft/internal/session"
)

func testLogger() *slog.Logger {
	return slog.New(slog.NewTextHandler(io.Discard, nil))
}

func newTestServer(t *testing.T, cfg config.Config) (*Server, *draft.MemStore) {
	t.Helper()
	store := draft.NewMemStore()
	sessions := session.NewRegistry(time.Hour)
	ai := assistant.NewClient("test-key", "test-model")
	srv := NewServer(store, sessions, ai, testLogger(), cfg)
	return srv, store
}

func doJSON(t *testing.T, srv http.Handler, method, path string, body any) *httptest.ResponseRecorder {
	t.Helper()
	var rd io.Reader
	if body != nil {
		b, err := json.Marshal(body)
		if err != nil {
			t.Fatalf("marshal body: %v", err)
		}
		rd = bytes.NewReader(b)
	}
	req := httptest.NewRequest(method, path, rd)
	if body != nil {
		req.Header.Set("Content-Type", "application/json")
	}
	w := httptest.NewRecorder()
	srv.ServeHTTP(w, req)
	return w
}

func decodeSnapshot(t *testing.T, w *httptest.ResponseRecorder) session.Snapshot {
	t.Helper()
	var snap session.Snapshot
	if err := json.Unmarshal(w.Body.Bytes(), &snap); err != nil {
		t.Fatalf("decode snapshot: %v (body %q)", err, w.Body.String())
	}
	return snap
}

func TestWizardFlow(t *testing.T) {
	srv, _ := newTestServer(t, config.Config{})

	w := doJSON(t, srv, http.MethodPost, "/api/sessions", map[string]string{"type_id": "1"})
	if w.Code != http.StatusOK {
		t.Fatalf("create session: status %d: %s", w.Code, w.Body.String())
	}
	snap := decodeSnapshot(t, w)
	if snap.ID == "" {
		t.Fatal("expected a session id")
	}
	if snap.TypeName != "Affidavit" {
		t.Errorf("type = %q, want Affidavit", snap.TypeName)
	}
	if snap.Step != 1 || snap.Phase != session.PhaseEntry {
		t.Errorf("new session step=%d phase=%q", snap.Step, snap.Phase)
	}
	base := "/api/sessions/" + snap.ID

	w = doJSON(t, srv, http.MethodPut, base+"/fields", map[string]string{
		"fullName": "Asha Rao",
		"city":     "Pune",
		"purpose":  "Address Proof",
	})
	if w.Code != http.StatusOK {
		t.Fatalf("set fields: status %d", w.Code)
	}

	// Two steps forward to review; generation before review is rejected.
	w = doJSON(t, srv, http.MethodPost, base+"/next", nil)
	if w.Code != http.StatusOK {
		t.Fatalf("next: status %d", w.Code)
	}
	w = doJSON(t, srv, http.MethodPost, base+"/generate", nil)
	if w.Code != http.StatusConflict {
		t.Fatalf("generate before review: status %d, want 409", w.Code)
	}
	w = doJSON(t, srv, http.MethodPost, base+"/next", nil)
	if w.Code != http.StatusOK {
		t.Fatalf("next: status %d", w.Code)
	}
	w = doJSON(t, srv, http.MethodPost, base+"/next", nil)
	if w.Code != http.StatusConflict {
		t.Fatalf("next past review: status %d, want 409", w.Code)
	}

	w = doJSON(t, srv, http.MethodPost, base+"/generate", nil)
	if w.Code != http.StatusOK {
		t.Fatalf("generate: status %d: %s", w.Code, w.Body.String())
	}
	snap = decodeSnapshot(t, w)
	if snap.Phase != session.PhaseGenerated {
		t.Errorf("phase after generate = %q", snap.Phase)
	}
	if !strings.Contains(snap.Document, "AFFIDAVIT") {
		t.Errorf("document missing title: %q", firstLine(snap.Document))
	}
	if !strings.Contains(snap.Document, "Asha Rao") {
		t.Error("document missing entered name")
	}
}

func TestSaveOverwritesAfterFirstSave(t *testing.T) {
	srv, store := newTestServer(t, config.Config{})

	base := startGeneratedSession(t, srv, "2")

	w := doJSON(t, srv, http.MethodPost, base+"/save", nil)
	if w.Code != http.StatusOK {
		t.Fatalf("save: status %d: %s", w.Code, w.Body.String())
	}
	var saved struct {
		Draft     draft.Draft   `json:"draft"`
		Documents []draft.Draft `json:"documents"`
	}
	if err := json.Unmarshal(w.Body.Bytes(), &saved); err != nil {
		t.Fatalf("decode save response: %v", err)
	}
	if saved.Draft.ID == "" {
		t.Fatal("saved draft has no id")
	}
	if saved.Draft.Status != draft.StatusDraft {
		t.Errorf("status = %q, want %q", saved.Draft.Status, draft.StatusDraft)
	}
	if len(saved.Documents) != 1 {
		t.Fatalf("collection size = %d, want 1", len(saved.Documents))
	}

	// Edit and save again: same id, no second entry.
	w = doJSON(t, srv, http.MethodPut, base+"/document", map[string]string{"document": "TITLE\n\nedited"})
	if w.Code != http.StatusOK {
		t.Fatalf("set document: status %d", w.Code)
	}
	w = doJSON(t, srv, http.MethodPost, base+"/save", nil)
	if w.Code != http.StatusOK {
		t.Fatalf("second save: status %d", w.Code)
	}

	drafts := store.List()
	if len(drafts) != 1 {
		t.Fatalf("collection size after resave = %d, want 1", len(drafts))
	}
	if drafts[0].ID != saved.Draft.ID {
		t.Errorf("resave id = %q, want %q", drafts[0].ID, saved.Draft.ID)
	}
	if drafts[0].Content != "TITLE\n\nedited" {
		t.Errorf("resave content = %q", drafts[0].Content)
	}
}

func TestEditDraftResumesSession(t *testing.T) {
	srv, store := newTestServer(t, config.Config{})

	d := draft.Draft{
		ID:      draft.NewID(),
		Title:   "Affidavit - Address Proof",
		Type:    "Affidavit",
		Date:    "5/28/2025",
		Status:  draft.StatusDraft,
		Content: "AFFIDAVIT\n\nI, Asha Rao, ...",
	}
	if _, err := store.Upsert(d); err != nil {
		t.Fatal(err)
	}

	w := doJSON(t, srv, http.MethodPost, "/api/documents/"+d.ID+"/edit", nil)
	if w.Code != http.StatusOK {
		t.Fatalf("edit: status %d: %s", w.Code, w.Body.String())
	}
	var staged struct {
		TypeID int    `json:"type_id"`
		EditID string `json:"edit_id"`
	}
	if err := json.Unmarshal(w.Body.Bytes(), &staged); err != nil {
		t.Fatal(err)
	}
	if staged.EditID != d.ID {
		t.Errorf("edit_id = %q, want %q", staged.EditID, d.ID)
	}

	w = doJSON(t, srv, http.MethodPost, "/api/sessions", map[string]any{
		"type_id": fmt.Sprint(staged.TypeID),
		"edit_id": staged.EditID,
	})
	if w.Code != http.StatusOK {
		t.Fatalf("resume session: status %d", w.Code)
	}
	snap := decodeSnapshot(t, w)
	if snap.Phase != session.PhaseEditingExisting {
		t.Errorf("phase = %q, want %q", snap.Phase, session.PhaseEditingExisting)
	}
	if snap.EditID != d.ID {
		t.Errorf("session edit_id = %q, want %q", snap.EditID, d.ID)
	}
	if snap.Document != d.Content {
		t.Error("resumed session document differs from saved content")
	}

	// The slot is one-shot: a second resume with the same edit_id falls
	// back to a fresh entry session.
	w = doJSON(t, srv, http.MethodPost, "/api/sessions", map[string]any{
		"type_id": fmt.Sprint(staged.TypeID),
		"edit_id": staged.EditID,
	})
	snap = decodeSnapshot(t, w)
	if snap.Phase != session.PhaseEntry {
		t.Errorf("second resume phase = %q, want fresh entry", snap.Phase)
	}
}

func TestExportPDF(t *testing.T) {
	srv, _ := newTestServer(t, config.Config{})
	base := startGeneratedSession(t, srv, "1")

	w := doJSON(t, srv, http.MethodGet, base+"/export.pdf", nil)
	if w.Code != http.StatusOK {
		t.Fatalf("export: status %d: %s", w.Code, w.Body.String())
	}
	if got := w.Header().Get("Content-Type"); got != "application/pdf" {
		t.Errorf("content type = %q", got)
	}
	if !strings.Contains(w.Header().Get("Content-Disposition"), "Affidavit_Address_Proof.pdf") {
		t.Errorf("disposition = %q", w.Header().Get("Content-Disposition"))
	}
	if !bytes.HasPrefix(w.Body.Bytes(), []byte("%PDF")) {
		t.Error("body is not a PDF")
	}
}

func TestDeleteDraftIsIdempotent(t *testing.T) {
	srv, store := newTestServer(t, config.Config{})
	d := draft.Draft{ID: draft.NewID(), Title: "x", Type: "Affidavit", Status: draft.StatusDraft, Content: "X\n\ny"}
	if _, err := store.Upsert(d); err != nil {
		t.Fatal(err)
	}

	w := doJSON(t, srv, http.MethodDelete, "/api/documents/"+d.ID, nil)
	if w.Code != http.StatusOK {
		t.Fatalf("delete: status %d", w.Code)
	}
	w = doJSON(t, srv, http.MethodDelete, "/api/documents/"+d.ID, nil)
	if w.Code != http.StatusOK {
		t.Fatalf("repeat delete: status %d", w.Code)
	}
	var listed struct {
		Documents []draft.Draft `json:"documents"`
	}
	if err := json.Unmarshal(w.Body.Bytes(), &listed); err != nil {
		t.Fatal(err)
	}
	if len(listed.Documents) != 0 {
		t.Errorf("collection size = %d, want 0", len(listed.Documents))
	}
}

func TestDownloadDraftText(t *testing.T) {
	srv, store := newTestServer(t, config.Config{})
	d := draft.Draft{ID: draft.NewID(), Title: "Affidavit - Address Proof", Type: "Affidavit", Status: draft.StatusDraft, Content: "AFFIDAVIT\n\nbody"}
	if _, err := store.Upsert(d); err != nil {
		t.Fatal(err)
	}

	w := doJSON(t, srv, http.MethodGet, "/api/documents/"+d.ID+"/download", nil)
	if w.Code != http.StatusOK {
		t.Fatalf("download: status %d", w.Code)
	}
	if !strings.Contains(w.Header().Get("Content-Disposition"), "Affidavit - Address Proof.txt") {
		t.Errorf("disposition = %q", w.Header().Get("Content-Disposition"))
	}
	if w.Body.String() != d.Content {
		t.Errorf("body = %q", w.Body.String())
	}
}

func TestCancelSessionDiscardsState(t *testing.T) {
	srv, _ := newTestServer(t, config.Config{})
	base := startGeneratedSession(t, srv, "1")

	w := doJSON(t, srv, http.MethodDelete, base, nil)
	if w.Code != http.StatusNoContent {
		t.Fatalf("cancel: status %d", w.Code)
	}
	w = doJSON(t, srv, http.MethodGet, base, nil)
	if w.Code != http.StatusNotFound {
		t.Fatalf("get after cancel: status %d, want 404", w.Code)
	}
}

func TestChat(t *testing.T) {
	fake := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		fmt.Fprint(w, `{"candidates":[{"content":{"parts":[{"text":"Section 498A covers cruelty."}]}}]}`)
	}))
	defer fake.Close()

	store := draft.NewMemStore()
	sessions := session.NewRegistry(time.Hour)
	ai := assistant.NewClient("test-key", "test-model")
	ai.SetBaseURL(fake.URL)
	srv := NewServer(store, sessions, ai, testLogger(), config.Config{})

	w := doJSON(t, srv, http.MethodPost, "/api/chat", map[string]string{"message": "What is 498A?"})
	if w.Code != http.StatusOK {
		t.Fatalf("chat: status %d: %s", w.Code, w.Body.String())
	}
	var resp map[string]string
	if err := json.Unmarshal(w.Body.Bytes(), &resp); err != nil {
		t.Fatal(err)
	}
	if resp["response"] != "Section 498A covers cruelty." {
		t.Errorf("response = %q", resp["response"])
	}

	w = doJSON(t, srv, http.MethodPost, "/api/chat", map[string]string{"message": ""})
	if w.Code != http.StatusBadRequest {
		t.Fatalf("empty message: status %d, want 400", w.Code)
	}
}

func TestChatFailureReturnsFallback(t *testing.T) {
	fake := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		http.Error(w, "boom", http.StatusInternalServerError)
	}))
	defer fake.Close()

	store := draft.NewMemStore()
	sessions := session.NewRegistry(time.Hour)
	ai := assistant.NewClient("test-key", "test-model")
	ai.SetBaseURL(fake.URL)
	srv := NewServer(store, sessions, ai, testLogger(), config.Config{})

	w := doJSON(t, srv, http.MethodPost, "/api/chat", map[string]string{"message": "hello"})
	if w.Code != http.StatusInternalServerError {
		t.Fatalf("chat failure: status %d, want 500", w.Code)
	}
	var resp map[string]string
	if err := json.Unmarshal(w.Body.Bytes(), &resp); err != nil {
		t.Fatal(err)
	}
	if resp["response"] != assistant.FallbackReply {
		t.Errorf("fallback = %q", resp["response"])
	}
}

func TestAuthMiddleware(t *testing.T) {
	srv, _ := newTestServer(t, config.Config{APIKey: "secret"})

	w := doJSON(t, srv, http.MethodGet, "/api/documents", nil)
	if w.Code != http.StatusUnauthorized {
		t.Fatalf("no token: status %d, want 401", w.Code)
	}

	req := httptest.NewRequest(http.MethodGet, "/api/documents", nil)
	req.Header.Set("Authorization", "Bearer wrong")
	rec := httptest.NewRecorder()
	srv.ServeHTTP(rec, req)
	if rec.Code != http.StatusUnauthorized {
		t.Fatalf("bad token: status %d, want 401", rec.Code)
	}

	req = httptest.NewRequest(http.MethodGet, "/api/documents", nil)
	req.Header.Set("Authorization", "Bearer secret")
	rec = httptest.NewRecorder()
	srv.ServeHTTP(rec, req)
	if rec.Code != http.StatusOK {
		t.Fatalf("good token: status %d, want 200", rec.Code)
	}

	// Health stays public.
	w = doJSON(t, srv, http.MethodGet, "/health", nil)
	if w.Code != http.StatusOK {
		t.Fatalf("health: status %d", w.Code)
	}
}

// startGeneratedSession walks a session to the generated phase with a
// known purpose and returns its base path.
func startGeneratedSession(t *testing.T, srv http.Handler, typeID string) string {
	t.Helper()
	w := doJSON(t, srv, http.MethodPost, "/api/sessions", map[string]string{"type_id": typeID})
	if w.Code != http.StatusOK {
		t.Fatalf("create session: status %d", w.Code)
	}
	snap := decodeSnapshot(t, w)
	base := "/api/sessions/" + snap.ID

	w = doJSON(t, srv, http.MethodPut, base+"/fields", map[string]string{
		"fullName": "Asha Rao",
		"purpose":  "Address Proof",
	})
	if w.Code != http.StatusOK {
		t.Fatalf("set fields: status %d", w.Code)
	}
	for i := 0; i < 2; i++ {
		if w = doJSON(t, srv, http.MethodPost, base+"/next", nil); w.Code != http.StatusOK {
			t.Fatalf("next: status %d", w.Code)
		}
	}
	if w = doJSON(t, srv, http.MethodPost, base+"/generate", nil); w.Code != http.StatusOK {
		t.Fatalf("generate: status %d: %s", w.Code, w.Body.String())
	}
	return base
}

func firstLine(s string) string {
	if i := strings.IndexByte(s, '\n'); i >= 0 {
		return s[:i]
	}
	return s
}
