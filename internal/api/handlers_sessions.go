package api

import (
	"bytes"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"path/filepath"
	"strings"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/nyayalink/lexdraft/internal/document"
	"github.com/nyayalink/lexdraft/internal/export"
	"github.com/nyayalink/lexdraft/internal/parser"
	"github.com/nyayalink/lexdraft/internal/session"
)

// handleCreateSession starts a drafting session. With edit_id set the
// hand-off slot is consumed and the session resumes the staged draft;
// an empty or stale slot silently falls back to a fresh entry session,
// exactly as the form page behaves when the slot was never written.
func (s *Server) handleCreateSession(w http.ResponseWriter, r *http.Request) {
	var req struct {
		TypeID string `json:"type_id"`
		EditID string `json:"edit_id"`
	}
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		jsonError(w, "invalid request body: "+err.Error(), http.StatusBadRequest)
		return
	}

	typ := document.ParseType(req.TypeID)

	if req.EditID != "" {
		if d, ok := s.handoff.Take(); ok {
			sess := s.sessions.CreateResumed(typ, d)
			writeSnapshot(w, sess.Snapshot())
			return
		}
	}

	sess := s.sessions.Create(typ)
	writeSnapshot(w, sess.Snapshot())
}

func (s *Server) handleGetSession(w http.ResponseWriter, r *http.Request) {
	sess, ok := s.session(w, r)
	if !ok {
		return
	}
	writeSnapshot(w, sess.Snapshot())
}

// handleCancelSession exits the wizard, discarding collected fields.
func (s *Server) handleCancelSession(w http.ResponseWriter, r *http.Request) {
	s.sessions.Remove(chi.URLParam(r, "sessionID"))
	w.WriteHeader(http.StatusNoContent)
}

func (s *Server) handleSetFields(w http.ResponseWriter, r *http.Request) {
	sess, ok := s.session(w, r)
	if !ok {
		return
	}

	var fields document.Fields
	if err := json.NewDecoder(r.Body).Decode(&fields); err != nil {
		jsonError(w, "invalid request body: "+err.Error(), http.StatusBadRequest)
		return
	}
	sess.SetFields(fields)
	writeSnapshot(w, sess.Snapshot())
}

func (s *Server) handleNextStep(w http.ResponseWriter, r *http.Request) {
	sess, ok := s.session(w, r)
	if !ok {
		return
	}
	if err := sess.Advance(); err != nil {
		jsonError(w, err.Error(), transitionStatus(err))
		return
	}
	writeSnapshot(w, sess.Snapshot())
}

func (s *Server) handlePrevStep(w http.ResponseWriter, r *http.Request) {
	sess, ok := s.session(w, r)
	if !ok {
		return
	}
	if err := sess.Back(); err != nil {
		jsonError(w, err.Error(), transitionStatus(err))
		return
	}
	writeSnapshot(w, sess.Snapshot())
}

// handleGenerate renders the document from the collected fields. On the
// (unexpected) failure path the fields survive and the caller may retry.
func (s *Server) handleGenerate(w http.ResponseWriter, r *http.Request) {
	sess, ok := s.session(w, r)
	if !ok {
		return
	}
	if err := sess.Generate(time.Now()); err != nil {
		if errors.Is(err, session.ErrNotEntry) || errors.Is(err, session.ErrNotReview) {
			jsonError(w, err.Error(), http.StatusConflict)
			return
		}
		s.log.Error("generate document", "session_id", sess.ID, "error", err)
		jsonError(w, "Failed to generate document. Please try again.", http.StatusInternalServerError)
		return
	}
	writeSnapshot(w, sess.Snapshot())
}

func (s *Server) handleReturnToForm(w http.ResponseWriter, r *http.Request) {
	sess, ok := s.session(w, r)
	if !ok {
		return
	}
	if err := sess.ReturnToForm(); err != nil {
		jsonError(w, err.Error(), http.StatusConflict)
		return
	}
	writeSnapshot(w, sess.Snapshot())
}

// handleSetDocument applies free-text edits; the edited text becomes the
// document of record.
func (s *Server) handleSetDocument(w http.ResponseWriter, r *http.Request) {
	sess, ok := s.session(w, r)
	if !ok {
		return
	}

	var req struct {
		Document string `json:"document"`
	}
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		jsonError(w, "invalid request body: "+err.Error(), http.StatusBadRequest)
		return
	}
	if err := sess.SetDocument(req.Document); err != nil {
		jsonError(w, err.Error(), http.StatusConflict)
		return
	}
	writeSnapshot(w, sess.Snapshot())
}

// handleSaveDraft persists the session's document. A resumed session
// overwrites its original entry; a fresh one mints an id on first save
// and overwrites from then on.
func (s *Server) handleSaveDraft(w http.ResponseWriter, r *http.Request) {
	sess, ok := s.session(w, r)
	if !ok {
		return
	}

	d, err := sess.BuildDraft(time.Now())
	if err != nil {
		jsonError(w, err.Error(), http.StatusConflict)
		return
	}

	drafts, err := s.store.Upsert(d)
	if err != nil {
		s.log.Error("save draft", "draft_id", d.ID, "error", err)
		jsonError(w, "An error occurred while saving your document. Please try again.", http.StatusInternalServerError)
		return
	}

	w.Header().Set("Content-Type", "application/json")
	json.NewEncoder(w).Encode(map[string]any{
		"draft":     d,
		"documents": drafts,
	})
}

// handleExportPDF streams the paginated PDF. Export failures leave the
// session untouched.
func (s *Server) handleExportPDF(w http.ResponseWriter, r *http.Request) {
	sess, ok := s.session(w, r)
	if !ok {
		return
	}
	snap := sess.Snapshot()
	if snap.Document == "" {
		jsonError(w, "no document to download", http.StatusConflict)
		return
	}

	var buf bytes.Buffer
	if err := export.WritePDF(&buf, snap.Document); err != nil {
		s.log.Error("export pdf", "session_id", snap.ID, "error", err)
		jsonError(w, "An error occurred while creating the PDF. Please try again.", http.StatusInternalServerError)
		return
	}

	filename := export.PDFFilename(snap.TypeName, snap.Fields.Purpose)
	w.Header().Set("Content-Type", "application/pdf")
	w.Header().Set("Content-Disposition", fmt.Sprintf("attachment; filename=%q", filename))
	w.Write(buf.Bytes())
}

// handleImportDetails fills the session's details field from an uploaded
// supporting file.
func (s *Server) handleImportDetails(w http.ResponseWriter, r *http.Request) {
	sess, ok := s.session(w, r)
	if !ok {
		return
	}

	r.Body = http.MaxBytesReader(w, r.Body, s.cfg.MaxUploadBytes+1024*1024)
	if err := r.ParseMultipartForm(10 << 20); err != nil {
		jsonError(w, "invalid multipart form: "+err.Error(), http.StatusBadRequest)
		return
	}
	defer r.MultipartForm.RemoveAll()

	file, header, err := r.FormFile("file")
	if err != nil {
		jsonError(w, "file is required: "+err.Error(), http.StatusBadRequest)
		return
	}
	defer file.Close()

	filename := sanitizeFilename(header.Filename)
	if !parser.IsSupportedExtension(filename) {
		jsonError(w, fmt.Sprintf("unsupported file type: %s", filepath.Ext(filename)), http.StatusBadRequest)
		return
	}

	data, err := io.ReadAll(io.LimitReader(file, s.cfg.MaxUploadBytes+1))
	if err != nil {
		jsonError(w, "failed to read file", http.StatusInternalServerError)
		return
	}
	if int64(len(data)) > s.cfg.MaxUploadBytes {
		jsonError(w, fmt.Sprintf("file exceeds max size (%d bytes)", s.cfg.MaxUploadBytes), http.StatusRequestEntityTooLarge)
		return
	}

	p, err := parser.ForFile(filename)
	if err != nil {
		jsonError(w, err.Error(), http.StatusBadRequest)
		return
	}
	if pdfParser, ok := p.(*parser.PDFParser); ok {
		pdfParser.FallbackPdftotext = s.cfg.PDFFallbackPdftotext
	}

	text, err := p.Parse(bytes.NewReader(data), filename)
	if err != nil {
		s.log.Error("import details", "filename", filename, "error", err)
		jsonError(w, "failed to extract text: "+err.Error(), http.StatusUnprocessableEntity)
		return
	}

	fields := sess.Snapshot().Fields
	fields.Details = text
	sess.SetFields(fields)
	writeSnapshot(w, sess.Snapshot())
}

// session resolves the sessionID route parameter, writing a 404 when the
// session is unknown or already expired.
func (s *Server) session(w http.ResponseWriter, r *http.Request) (*session.Session, bool) {
	id := chi.URLParam(r, "sessionID")
	sess := s.sessions.Get(id)
	if sess == nil {
		jsonError(w, "session not found", http.StatusNotFound)
		return nil, false
	}
	return sess, true
}

func transitionStatus(err error) int {
	if errors.Is(err, session.ErrStepOutOfRange) || errors.Is(err, session.ErrNotEntry) {
		return http.StatusConflict
	}
	return http.StatusInternalServerError
}

func writeSnapshot(w http.ResponseWriter, snap session.Snapshot) {
	w.Header().Set("Content-Type", "application/json")
	json.NewEncoder(w).Encode(snap)
}

func sanitizeFilename(name string) string {
	// Strip path components, keep only the base name.
	name = filepath.Base(name)
	name = strings.ReplaceAll(name, "/", "_")
	name = strings.ReplaceAll(name, "\\", "_")
	name = strings.ReplaceAll(name, "..", "_")
	if name == "" || name == "." {
		name = "unnamed"
	}
	return name
}
