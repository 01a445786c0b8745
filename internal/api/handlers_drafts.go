package api

import (
	"encoding/json"
	"fmt"
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/nyayalink/lexdraft/internal/document"
	"github.com/nyayalink/lexdraft/internal/draft"
	"github.com/nyayalink/lexdraft/internal/export"
)

// handleListDrafts returns the full saved collection.
func (s *Server) handleListDrafts(w http.ResponseWriter, r *http.Request) {
	writeDrafts(w, s.store.List())
}

// handleDeleteDraft removes a draft. A missing id is a no-op and still
// returns the (unchanged) collection.
func (s *Server) handleDeleteDraft(w http.ResponseWriter, r *http.Request) {
	draftID := chi.URLParam(r, "draftID")
	drafts, err := s.store.Delete(draftID)
	if err != nil {
		s.log.Error("delete draft", "draft_id", draftID, "error", err)
		jsonError(w, "failed to delete document, please try again", http.StatusInternalServerError)
		return
	}
	writeDrafts(w, drafts)
}

// handleDownloadDraft serves a draft's content as a plain-text file.
func (s *Server) handleDownloadDraft(w http.ResponseWriter, r *http.Request) {
	d, ok := s.findDraft(chi.URLParam(r, "draftID"))
	if !ok {
		jsonError(w, "document not found", http.StatusNotFound)
		return
	}

	w.Header().Set("Content-Type", "text/plain; charset=utf-8")
	w.Header().Set("Content-Disposition",
		fmt.Sprintf("attachment; filename=%q", export.TextFilename(d.Title)))
	w.Write([]byte(d.Content))
}

// handleEditDraft stages a draft for resumption: the draft goes into the
// one-shot hand-off slot and the response tells the caller which session
// request to make next.
func (s *Server) handleEditDraft(w http.ResponseWriter, r *http.Request) {
	d, ok := s.findDraft(chi.URLParam(r, "draftID"))
	if !ok {
		jsonError(w, "document not found", http.StatusNotFound)
		return
	}

	typ := document.TypeFromLabel(d.Type)
	s.handoff.Put(d)

	w.Header().Set("Content-Type", "application/json")
	json.NewEncoder(w).Encode(map[string]any{
		"type_id": int(typ),
		"edit_id": d.ID,
	})
}

func (s *Server) findDraft(id string) (draft.Draft, bool) {
	for _, d := range s.store.List() {
		if d.ID == id {
			return d, true
		}
	}
	return draft.Draft{}, false
}

func writeDrafts(w http.ResponseWriter, drafts []draft.Draft) {
	if drafts == nil {
		drafts = []draft.Draft{}
	}
	w.Header().Set("Content-Type", "application/json")
	json.NewEncoder(w).Encode(map[string]any{"documents": drafts})
}

func jsonError(w http.ResponseWriter, msg string, code int) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(code)
	json.NewEncoder(w).Encode(map[string]string{"error": msg})
}
