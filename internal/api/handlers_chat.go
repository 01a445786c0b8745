package api

import (
	"encoding/json"
	"net/http"

	"github.com/nyayalink/lexdraft/internal/assistant"
)

// handleChat answers a free-form legal question. A failed upstream call
// still yields a canned reply the client can render in place of the
// answer.
func (s *Server) handleChat(w http.ResponseWriter, r *http.Request) {
	var req struct {
		Message string `json:"message"`
	}
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		jsonError(w, "invalid request body: "+err.Error(), http.StatusBadRequest)
		return
	}
	if req.Message == "" {
		jsonError(w, "Message is required", http.StatusBadRequest)
		return
	}

	reply, err := s.assistant.Answer(r.Context(), req.Message)
	if err != nil {
		s.log.Error("assistant answer", "error", err)
		w.Header().Set("Content-Type", "application/json")
		w.WriteHeader(http.StatusInternalServerError)
		json.NewEncoder(w).Encode(map[string]string{
			"error":    "Failed to process your request",
			"response": assistant.FallbackReply,
		})
		return
	}

	w.Header().Set("Content-Type", "application/json")
	json.NewEncoder(w).Encode(map[string]string{"response": reply})
}

// handleRemoteGenerate drafts a document through the model instead of
// the local templates. The wizard never calls this; it exists for
// callers that want model-authored prose.
func (s *Server) handleRemoteGenerate(w http.ResponseWriter, r *http.Request) {
	var req struct {
		DocumentType string            `json:"documentType"`
		UserInfo     map[string]string `json:"userInfo"`
	}
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		jsonError(w, "invalid request body: "+err.Error(), http.StatusBadRequest)
		return
	}
	if req.DocumentType == "" {
		jsonError(w, "documentType is required", http.StatusBadRequest)
		return
	}

	text, err := s.assistant.GenerateDocument(r.Context(), req.DocumentType, req.UserInfo)
	if err != nil {
		s.log.Error("assistant generate", "document_type", req.DocumentType, "error", err)
		jsonError(w, "Failed to generate document", http.StatusInternalServerError)
		return
	}

	w.Header().Set("Content-Type", "application/json")
	json.NewEncoder(w).Encode(map[string]string{"document": text})
}

// handleLLMStats exposes rolling latency percentiles for the assistant.
func (s *Server) handleLLMStats(w http.ResponseWriter, r *http.Request) {
	if s.assistant == nil || s.assistant.Stats == nil {
		jsonError(w, "stats unavailable", http.StatusServiceUnavailable)
		return
	}

	w.Header().Set("Content-Type", "application/json")
	json.NewEncoder(w).Encode(map[string]any{
		"model": s.assistant.Model(),
		"stats": s.assistant.Stats.Snapshot(),
	})
}
